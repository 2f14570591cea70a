// Package trace renders the memory trace: a corpus-wide markdown report
// of themes, patterns, relationships, and extracted insights across all
// diary entries.
package trace

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/journal"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// entryData is one analyzed entry, held for the duration of a report.
type entryData struct {
	date    time.Time
	content string
	themes  []string
}

// Reporter builds memory trace documents. Theme analysis goes through
// the engine's cache, so repeated reports only pay for new entries.
type Reporter struct {
	engine *journal.Engine
	log    *zap.Logger
	now    func() time.Time
}

// NewReporter creates a Reporter.
func NewReporter(engine *journal.Engine, log *zap.Logger) *Reporter {
	return &Reporter{engine: engine, log: log, now: time.Now}
}

// Generate renders the full memory trace for the corpus, oldest entry
// first. Unreadable entries are skipped; an empty corpus yields a short
// notice instead of a report.
func (r *Reporter) Generate(ctx context.Context, store journal.EntryStore) (string, error) {
	entries, err := store.List()
	if err != nil {
		return "", fmt.Errorf("listing entries: %w", err)
	}

	sorted := make([]vault.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var data []entryData
	for _, entry := range sorted {
		content := store.Read(entry.Path)
		if vault.IsReadError(content) {
			continue
		}
		data = append(data, entryData{
			date:    entry.Date,
			content: content,
			themes:  r.engine.CachedThemes(ctx, content, entry.ID()),
		})
	}
	if len(data) == 0 {
		return "No valid entries found to analyze.", nil
	}
	r.log.Info("building memory trace", zap.Int("entries", len(data)))

	var b strings.Builder
	b.WriteString("# Memory Trace\n")
	fmt.Fprintf(&b, "*Generated: %s*\n\n", r.now().Format("2006-01-02"))
	fmt.Fprintf(&b, "A visualization of themes, patterns, and connections across your diary entries from %s to %s.\n\n",
		data[0].date.Format("January 2006"), data[len(data)-1].date.Format("January 2006"))
	b.WriteString("---\n\n")

	b.WriteString(timelineOverview(data) + "\n\n")
	b.WriteString(coreThemes(data) + "\n\n")
	b.WriteString(recurringPatterns(data) + "\n\n")
	if rel := relationshipsMap(data); rel != "" {
		b.WriteString(rel + "\n\n")
	}
	b.WriteString(growthTrajectory(data) + "\n\n")
	b.WriteString(wisdomExtracted(data) + "\n\n")
	b.WriteString(timelineMoments(data) + "\n\n")
	b.WriteString(quickReference(data) + "\n\n")

	b.WriteString("---\n\n")
	b.WriteString("*This memory trace serves as a living document of your journey. Update it periodically to track your evolution.*")
	return b.String(), nil
}

// ─── Counting helpers ────────────────────────────────────────────────────────

// counter tallies string keys while remembering first-seen order, so
// ranking ties resolve deterministically in favor of earlier keys.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

type keyCount struct {
	key   string
	count int
}

// mostCommon returns up to n keys by descending count, first-seen order
// breaking ties.
func (c *counter) mostCommon(n int) []keyCount {
	ranked := make([]keyCount, 0, len(c.order))
	for _, key := range c.order {
		ranked = append(ranked, keyCount{key, c.counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// titleWords renders a theme for display: hyphens become spaces and each
// word is capitalized ("work-stress" -> "Work Stress").
func titleWords(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// titleCase capitalizes the start of every letter run, keeping hyphens
// in place ("work-life & sleep" becomes "Work-Life & Sleep").
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}

// ─── Sections ────────────────────────────────────────────────────────────────

func entryThemeLabel(e entryData, max int, fallback string) string {
	themes := e.themes
	if len(themes) == 0 {
		return fallback
	}
	if len(themes) > max {
		themes = themes[:max]
	}
	return strings.Join(themes, " & ")
}

// timelineOverview draws an ASCII timeline. Small corpora show every
// entry; larger ones sample four anchor points with gap counts between.
func timelineOverview(data []entryData) string {
	var b strings.Builder
	b.WriteString("## Timeline Overview\n\n```\n")

	if len(data) <= 10 {
		for i, e := range data {
			date := e.date.Format("2006-01-02")
			if i < len(data)-1 {
				b.WriteString(date + " ─────► \n")
			} else {
				b.WriteString(date + "\n")
			}
			b.WriteString("   │\n   ▼\n")
			b.WriteString(entryThemeLabel(e, 2, "Reflection") + "\n")
			if i < len(data)-1 {
				b.WriteString("   │\n\n")
			}
		}
	} else {
		anchors := []int{0, len(data) / 3, 2 * len(data) / 3, len(data) - 1}
		for i, idx := range anchors {
			e := data[idx]
			date := e.date.Format("2006-01-02")
			if i < len(anchors)-1 {
				fmt.Fprintf(&b, "%s ─────► %d entries ─────► \n", date, anchors[i+1]-idx)
			} else {
				b.WriteString(date + "\n")
			}
			b.WriteString("   │\n   ▼\n")
			b.WriteString(titleCase(entryThemeLabel(e, 2, "Reflection")) + "\n")
			if i < len(anchors)-1 {
				b.WriteString("   │\n\n")
			}
		}
	}

	b.WriteString("```\n\n---")
	return b.String()
}

// coreThemes ranks the corpus's themes and shows each top theme's span
// and a few dated snippets tracing its evolution.
func coreThemes(data []entryData) string {
	themeCounts := newCounter()
	for _, e := range data {
		for _, t := range e.themes {
			themeCounts.add(t)
		}
	}
	top := themeCounts.mostCommon(8)
	if len(top) == 0 {
		return "## Core Themes\n\n*No major themes identified across entries.*\n"
	}

	var b strings.Builder
	b.WriteString("## Core Themes\n\n")

	for _, tc := range top {
		var withTheme []entryData
		for _, e := range data {
			for _, t := range e.themes {
				if t == tc.key {
					withTheme = append(withTheme, e)
					break
				}
			}
		}

		percentage := float64(tc.count) / float64(len(data)) * 100
		fmt.Fprintf(&b, "### %s\n", titleWords(tc.key))
		fmt.Fprintf(&b, "**Frequency:** %d entries (%.0f%% of period) | **Active:** %s → %s\n\n",
			tc.count, percentage,
			withTheme[0].date.Format("January 2006"), withTheme[len(withTheme)-1].date.Format("January 2006"))

		if len(withTheme) >= 3 {
			early, mid, late := withTheme[0], withTheme[len(withTheme)/2], withTheme[len(withTheme)-1]
			fmt.Fprintf(&b, "**Early (%s)**: %s\n\n", early.date.Format("January 2006"), journal.Snippet(early.content, 100))
			fmt.Fprintf(&b, "**Middle (%s)**: %s\n\n", mid.date.Format("January 2006"), journal.Snippet(mid.content, 100))
			fmt.Fprintf(&b, "**Recent (%s)**: %s\n\n", late.date.Format("January 2006"), journal.Snippet(late.content, 100))
		} else {
			fmt.Fprintf(&b, "**Context:** %s\n\n", journal.Snippet(withTheme[len(withTheme)-1].content, 150))
		}
		b.WriteString("\n")
	}

	b.WriteString("---")
	return b.String()
}

// recurringPatterns reports theme co-occurrence pairs and, with enough
// distinct weekdays, the dominant themes per weekday.
func recurringPatterns(data []entryData) string {
	var b strings.Builder
	b.WriteString("## Recurring Patterns\n\n")

	pairs := newCounter()
	for _, e := range data {
		for i, t1 := range e.themes {
			for _, t2 := range e.themes[i+1:] {
				a, z := t1, t2
				if z < a {
					a, z = z, a
				}
				pairs.add(a + "|" + z)
			}
		}
	}
	if common := pairs.mostCommon(5); len(common) > 0 {
		b.WriteString("### 🔄 Theme Connections\n\n")
		for _, pc := range common {
			parts := strings.SplitN(pc.key, "|", 2)
			fmt.Fprintf(&b, "- **%s** ↔ **%s** (co-occurred %d× times)\n",
				titleWords(parts[0]), titleWords(parts[1]), pc.count)
		}
		b.WriteString("\n")
	}

	dayThemes := make(map[string]*counter)
	for _, e := range data {
		day := e.date.Weekday().String()
		if dayThemes[day] == nil {
			dayThemes[day] = newCounter()
		}
		for _, t := range e.themes {
			dayThemes[day].add(t)
		}
	}
	if len(dayThemes) >= 3 {
		b.WriteString("### 📅 Temporal Patterns\n\n")
		for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
			c, ok := dayThemes[day]
			if !ok || len(c.order) == 0 {
				continue
			}
			var names []string
			for _, tc := range c.mostCommon(2) {
				names = append(names, strings.ReplaceAll(tc.key, "-", " "))
			}
			fmt.Fprintf(&b, "- **%ss**: %s\n", day, strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("---")
	return b.String()
}

var capitalizedWordRe = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// nameStopwords are capitalized words that are never people: sentence
// starters, template headings, weekday and month names.
var nameStopwords = map[string]struct{}{
	"The": {}, "I": {}, "My": {}, "A": {}, "An": {}, "This": {}, "That": {},
	"These": {}, "Those": {}, "When": {}, "Where": {}, "Why": {}, "How": {},
	"What": {}, "Memory": {}, "Links": {}, "Brain": {}, "Dump": {},
	"Sunday": {}, "Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
	"Friday": {}, "Saturday": {},
	"January": {}, "February": {}, "March": {}, "April": {}, "May": {},
	"June": {}, "July": {}, "August": {}, "September": {}, "October": {},
	"November": {}, "December": {},
}

// relationshipsMap draws the people network when at least two names
// recur. Returns "" when the corpus mentions too few people to map.
func relationshipsMap(data []entryData) string {
	names := newCounter()
	for _, e := range data {
		for _, word := range capitalizedWordRe.FindAllString(e.content, -1) {
			if _, skip := nameStopwords[word]; skip {
				continue
			}
			names.add(word)
		}
	}

	var significant []keyCount
	for _, nc := range names.mostCommon(10) {
		if nc.count >= 3 {
			significant = append(significant, nc)
		}
	}
	if len(significant) < 2 {
		return ""
	}

	closeMin := float64(len(data)) * 0.3
	extendedMin := float64(len(data)) * 0.1
	var closeCircle, extended []keyCount
	for _, nc := range significant {
		switch {
		case float64(nc.count) >= closeMin:
			closeCircle = append(closeCircle, nc)
		case float64(nc.count) >= extendedMin:
			extended = append(extended, nc)
		}
	}

	var b strings.Builder
	b.WriteString("## Key Relationships Map\n\n```\n")
	b.WriteString("        YOUR NETWORK\n")
	b.WriteString("              │\n")
	b.WriteString("    ┌─────────┴─────────┐\n")
	if len(closeCircle) > 0 {
		b.WriteString("    │                 │\n")
		b.WriteString(" Close Circle    Extended Network\n")
		for i, nc := range closeCircle {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "   %s (%d×)\n", nc.key, nc.count)
		}
	}
	if len(extended) > 0 {
		b.WriteString("                     │\n")
		for i, nc := range extended {
			if i == 4 {
				break
			}
			fmt.Fprintf(&b, "                  %s (%d×)\n", nc.key, nc.count)
		}
	}
	b.WriteString("```\n\n---")
	return b.String()
}

var positiveWords = []string{
	"great", "good", "excellent", "amazing", "wonderful", "love", "happy",
	"excited", "grateful", "proud", "success", "achieved", "progress",
	"better", "improved", "growth", "win",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "sad", "angry", "frustrated", "worried",
	"anxious", "stressed", "failed", "struggling", "difficult", "hard",
	"tired", "exhausted",
}

// sentimentScore is a crude lexicon score in [-1, 1]: the balance of
// positive vs negative vocabulary present in the text.
func sentimentScore(content string) float64 {
	lower := strings.ToLower(content)
	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// growthTrajectory charts average sentiment across up to five time
// segments of the corpus.
func growthTrajectory(data []entryData) string {
	scores := make([]float64, len(data))
	for i, e := range data {
		scores[i] = sentimentScore(e.content)
	}

	segmentSize := len(scores) / 5
	if segmentSize < 1 {
		segmentSize = 1
	}
	var segments []float64
	for i := 0; i < len(scores); i += segmentSize {
		end := i + segmentSize
		if end > len(scores) {
			end = len(scores)
		}
		var sum float64
		for _, s := range scores[i:end] {
			sum += s
		}
		segments = append(segments, sum/float64(end-i))
	}

	var b strings.Builder
	b.WriteString("## Growth Trajectory\n\n```\n")
	for i, score := range segments {
		date := data[i*segmentSize].date.Format("2006-01")
		var arrow string
		switch {
		case score > 0.2:
			arrow = "↗ ↗ ↗"
		case score > 0:
			arrow = "↗"
		case score < -0.2:
			arrow = "↘ ↘"
		case score < 0:
			arrow = "↘"
		default:
			arrow = "→"
		}
		if i < len(segments)-1 {
			b.WriteString(date + " ─────► \n")
		} else {
			b.WriteString(date + "\n")
		}
		b.WriteString("  " + arrow + "\n")
	}
	b.WriteString("\nLegend: ↗ = positive trajectory, → = stable, ↘ = challenges\n```\n\n---")
	return b.String()
}

// insightRes match self-reported realizations, most explicit first.
var insightRes = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]{20,150})"`),
	regexp.MustCompile(`(?i)learned that ([^.!?]{20,150})[.!?]`),
	regexp.MustCompile(`(?i)realized ([^.!?]{20,150})[.!?]`),
	regexp.MustCompile(`(?i)understood ([^.!?]{20,150})[.!?]`),
	regexp.MustCompile(`(?i)important to ([^.!?]{20,150})[.!?]`),
}

// wisdomExtracted quotes up to eight distinct insights found in the
// entries' own words.
func wisdomExtracted(data []entryData) string {
	var insights []string
	seen := map[string]struct{}{}
collect:
	for _, e := range data {
		for _, re := range insightRes {
			for _, m := range re.FindAllStringSubmatch(e.content, -1) {
				insight := strings.TrimSpace(m[1])
				if len(insight) < 20 {
					continue
				}
				if _, dup := seen[insight]; dup {
					continue
				}
				seen[insight] = struct{}{}
				insights = append(insights, insight)
				if len(insights) == 8 {
					break collect
				}
			}
		}
	}

	var b strings.Builder
	b.WriteString("## Wisdom Extracted\n\n")
	b.WriteString("Key insights discovered throughout your entries:\n\n")
	if len(insights) > 0 {
		for _, insight := range insights {
			b.WriteString("> " + insight + "\n\n")
		}
	} else {
		b.WriteString("*Wisdom accumulates with each entry. Continue your practice to surface deeper insights.*\n\n")
	}
	b.WriteString("---")
	return b.String()
}

// timelineMoments highlights entries across the corpus: all of them for
// small corpora, five sampled anchors otherwise.
func timelineMoments(data []entryData) string {
	key := data
	if len(data) > 5 {
		idx := []int{0, len(data) / 4, len(data) / 2, 3 * len(data) / 4, len(data) - 1}
		key = make([]entryData, 0, len(idx))
		for _, i := range idx {
			key = append(key, data[i])
		}
	}

	var b strings.Builder
	b.WriteString("## Timeline of Significant Moments\n\n")
	for _, e := range key {
		label := "reflection"
		if len(e.themes) > 0 {
			themes := e.themes
			if len(themes) > 3 {
				themes = themes[:3]
			}
			label = strings.Join(themes, ", ")
		}
		fmt.Fprintf(&b, "**%s** - %s\n", e.date.Format("January 02, 2006"), titleWords(label))
		fmt.Fprintf(&b, "  ↳ %s\n\n", journal.Snippet(e.content, 80))
	}
	b.WriteString("---")
	return b.String()
}

// quickReference lists the last fifteen entries with their lead themes.
func quickReference(data []entryData) string {
	var b strings.Builder
	b.WriteString("## Quick Reference: Entry Overview\n\n")

	tail := data
	if len(tail) > 15 {
		tail = tail[len(tail)-15:]
	}
	for _, e := range tail {
		label := "general reflection"
		if len(e.themes) > 0 {
			themes := e.themes
			if len(themes) > 2 {
				themes = themes[:2]
			}
			label = strings.Join(themes, ", ")
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", e.date.Format("2006-01-02"), strings.ReplaceAll(label, "-", " "))
	}
	if len(data) > 15 {
		fmt.Fprintf(&b, "\n*...and %d earlier entries*\n", len(data)-15)
	}
	b.WriteString("\n---")
	return b.String()
}
