package journal

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DayBlock is one labeled segment of a composite multi-day input. Labels
// are positional ("Day 1" is always the most recent entry); the date
// literal is kept for citation rewriting.
type DayBlock struct {
	Label       string
	DateLiteral string
	Body        string
}

// PromptOptions steers reflection prompt synthesis.
type PromptOptions struct {
	// Focus forces every question onto one named topic, overriding
	// theme diversity entirely.
	Focus string
	// Count is the number of questions requested (default 3).
	Count int
	// Sunday appends the weekly-synthesis instruction.
	Sunday bool
}

// dayHeadingRe recognizes the headings the template generator uses to
// label recent entries in a composite input.
var dayHeadingRe = regexp.MustCompile(`(?m)^(?:MOST RECENT ENTRY|Earlier entry) \(([^)]*)\):`)

// parseDayBlocks splits a composite input into ordered day blocks and
// the label -> date-literal map used later to rewrite citations. Input
// without day headings becomes a single "Day 1" block with no date.
func parseDayBlocks(input string) ([]DayBlock, map[string]string) {
	locs := dayHeadingRe.FindAllStringSubmatchIndex(input, -1)
	if len(locs) == 0 {
		return []DayBlock{{Label: "Day 1", Body: input}}, map[string]string{}
	}

	blocks := make([]DayBlock, 0, len(locs))
	dateMap := make(map[string]string, len(locs))
	for i, loc := range locs {
		label := fmt.Sprintf("Day %d", i+1)
		date := input[loc[2]:loc[3]]
		end := len(input)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, DayBlock{
			Label:       label,
			DateLiteral: date,
			Body:        strings.TrimSpace(input[loc[1]:end]),
		})
		if date != "" {
			dateMap[label] = date
		}
	}
	return blocks, dateMap
}

// priorityLabel names each historical day's weight in the composition.
func priorityLabel(dayIndex int) string {
	switch dayIndex {
	case 1:
		return "secondary priority"
	case 2:
		return "tertiary priority"
	default:
		return fmt.Sprintf("Day %d context", dayIndex+1)
	}
}

const promptSystemBase = "You are a thoughtful journaling coach who helps people reflect on their life. " +
	"Write personal questions addressed as 'you', in clear, simple language — never academic or philosophical jargon. " +
	"Weight your questions heavily toward the PRIMARY FOCUS content (Day 1); earlier days are background. " +
	"Any question referencing content from a specific day MUST cite it as [Day N] followed by a short parenthetical reason, " +
	"e.g. \"... [Day 2] (you mentioned the deadline)\". " +
	"Never invent feelings the writer did not express. " +
	"Output ONLY numbered questions, nothing else."

// ReflectionPrompts synthesizes reflection questions from recent entry
// content — either a single block of text or a composite of day-labeled
// sections. Day 1 is the primary focus; later days provide historical
// context; prior unresolved prompts rank lowest. Generation failure
// yields an empty slice, never an error.
func (e *Engine) ReflectionPrompts(ctx context.Context, recent string, opts PromptOptions) []string {
	if len(strings.TrimSpace(recent)) < e.cfg.MinAnalysisChars {
		return nil
	}
	count := opts.Count
	if count <= 0 {
		count = 3
	}

	blocks, dateMap := parseDayBlocks(recent)
	composite := len(dateMap) > 0

	// No day structure and no focus: pre-extract themes so one loud
	// topic can't dominate every question.
	var themes []string
	if !composite && opts.Focus == "" {
		themes = e.ExtractThemes(ctx, recent)
		e.log.Debug("themes identified for prompt diversity", zap.Strings("themes", themes))
	}

	prompt := e.composePrompt(blocks, count)
	system := composeSystem(opts, themes, count)

	resp, err := e.gen.Generate(ctx, prompt, system)
	if err != nil {
		e.log.Warn("prompt generation failed", zap.Error(err))
		return nil
	}
	return parsePromptResponse(resp, dateMap, count)
}

// composePrompt lays out the day blocks in fixed priority order:
// primary focus, then historical context, then prior unresolved prompts.
func (e *Engine) composePrompt(blocks []DayBlock, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on this recent journal content, generate %d reflection questions.\n\n", count)

	primary := ParseDocument(blocks[0].Body).AnalysisText(e.cfg.MinSectionChars)
	b.WriteString("## PRIMARY FOCUS — Day 1")
	if blocks[0].DateLiteral != "" {
		fmt.Fprintf(&b, " (%s)", blocks[0].DateLiteral)
	}
	b.WriteString("\n\n" + primary + "\n")

	var priorPrompts []string
	for i, day := range blocks[1:] {
		doc := ParseDocument(day.Body)
		if i == 0 {
			b.WriteString("\n## HISTORICAL CONTEXT\n")
		}
		text := doc.AnalysisText(e.cfg.MinSectionChars)
		fmt.Fprintf(&b, "\n### %s (%s", day.Label, priorityLabel(i+1))
		if day.DateLiteral != "" {
			fmt.Fprintf(&b, ", %s", day.DateLiteral)
		}
		b.WriteString(")\n\n" + text + "\n")

		if prior := doc.PriorPrompts(); prior != "" {
			priorPrompts = append(priorPrompts, fmt.Sprintf("%s:\n%s", day.Label, prior))
		}
	}

	if len(priorPrompts) > 0 {
		b.WriteString("\n## PRIOR DAYS' PROMPTS — possibly unresolved (lowest priority)\n\n")
		b.WriteString(strings.Join(priorPrompts, "\n\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func composeSystem(opts PromptOptions, themes []string, count int) string {
	system := promptSystemBase
	switch {
	case opts.Focus != "":
		system += fmt.Sprintf(
			"\n\nSPECIAL FOCUS: Generate ALL %d questions specifically about %s. Tailor every question to help explore this area deeply.",
			count, opts.Focus)
	case len(themes) > 0:
		shown := themes
		if len(shown) > 6 {
			shown = shown[:6]
		}
		system += fmt.Sprintf(
			"\n\nThe recent entries discuss these DIFFERENT themes: %s. Generate %d questions covering DIFFERENT themes from this list — never two questions about the same theme.",
			strings.Join(shown, ", "), count)
	default:
		system += fmt.Sprintf(
			"\n\nGenerate %d questions that cover DIFFERENT areas of life mentioned in the content — spread them across work, relationships, health, personal growth, and hobbies.",
			count)
	}
	if opts.Sunday {
		system += "\n\nThis is a Sunday reflection - focus on synthesizing insights from the past week and setting intentions for alignment and refocusing in the upcoming week."
	}
	return system
}

// ─── Response parsing ────────────────────────────────────────────────────────

var (
	thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)
	enumeratorRe = regexp.MustCompile(`^[\d\-.\s]+`)

	// Lines containing these are model commentary, not questions.
	promptBoilerplate = []string{"here are", "based on", "these questions", "reflection questions"}
)

// parsePromptResponse turns raw model output into clean question lines:
// reasoning markup and boilerplate dropped, enumerators stripped, day
// citations rewritten to wiki-style date links, truncated to count.
func parsePromptResponse(resp string, dateMap map[string]string, count int) []string {
	resp = thinkBlockRe.ReplaceAllString(resp, "")

	var prompts []string
lines:
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, phrase := range promptBoilerplate {
			if strings.Contains(lower, phrase) {
				continue lines
			}
		}
		first := line[0]
		if (first < '0' || first > '9') && first != '-' {
			continue
		}
		line = strings.TrimSpace(enumeratorRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		if !strings.HasSuffix(line, "?") && len(line) <= 20 {
			continue
		}
		prompts = append(prompts, rewriteCitations(line, dateMap))
		if len(prompts) == count {
			break
		}
	}
	return prompts
}

// rewriteCitations replaces [Day N] markers with [[date]] wiki links for
// every day present in dateMap. Labels run Day 1..7 — a week is the
// largest composite the template generator produces.
func rewriteCitations(line string, dateMap map[string]string) string {
	for n := 1; n <= 7; n++ {
		label := fmt.Sprintf("Day %d", n)
		date, ok := dateMap[label]
		if !ok {
			continue
		}
		line = strings.ReplaceAll(line, "["+label+"]", "[["+date+"]]")
	}
	return line
}
