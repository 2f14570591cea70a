// Package journal implements the analysis and synthesis core: section
// extraction, theme analysis with caching, similarity search, reflection
// prompt synthesis, and action-item extraction.
//
// All semantic understanding is delegated to an llm.Generator, which the
// core treats as an untrusted, fallible collaborator: any generation
// failure degrades to an empty result and is never propagated as an
// error. Corpus scans process entries strictly sequentially.
package journal

import (
	"regexp"
	"strings"

	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// SectionKind classifies an entry section by its heading.
type SectionKind int

const (
	// SectionOther is any section this core does not analyze directly.
	SectionOther SectionKind = iota
	// SectionReflection is the free-form writing section ("Brain Dump").
	SectionReflection
	// SectionPriorPrompts holds the reflection prompts a template seeded
	// the entry with — potentially still unanswered.
	SectionPriorPrompts
)

// Section is one heading-delimited region of an entry.
type Section struct {
	Kind    SectionKind
	Heading string
	Body    string
}

// Document is an entry parsed once into typed sections. Every consumer
// (theme engine, prompt synthesizer, snippet extraction) queries this
// model instead of re-scanning raw text.
type Document struct {
	raw      string
	sections []Section
}

var headingRe = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)

// Headings the template generator emits, matched case-insensitively on
// the text left after emoji and punctuation decoration is dropped.
var (
	reflectionLabels   = []string{"brain dump", "free write", "journal"}
	priorPromptLabels  = []string{"reflection prompts", "weekly synthesis"}
	placeholderPhrases = []string{
		"*Your thoughts, experiences, and observations...*",
		"Just write whatever's on your mind...",
	}
)

// ParseDocument splits raw entry text into typed sections. Text before
// the first heading becomes an untyped preamble section. A section body
// runs to the next heading or the first horizontal rule, whichever comes
// first.
func ParseDocument(raw string) *Document {
	d := &Document{raw: raw}

	locs := headingRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		d.sections = append(d.sections, Section{Kind: SectionOther, Body: raw})
		return d
	}

	if pre := raw[:locs[0][0]]; strings.TrimSpace(pre) != "" {
		d.sections = append(d.sections, Section{Kind: SectionOther, Body: pre})
	}

	for i, loc := range locs {
		heading := raw[loc[2]:loc[3]]
		start := loc[1]
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := trimAtRule(raw[start:end])
		d.sections = append(d.sections, Section{
			Kind:    classifyHeading(heading),
			Heading: strings.TrimSpace(heading),
			Body:    body,
		})
	}
	return d
}

var ruleRe = regexp.MustCompile(`(?m)^---\s*$`)

// trimAtRule cuts a section body at the first horizontal rule.
func trimAtRule(body string) string {
	if loc := ruleRe.FindStringIndex(body); loc != nil {
		return body[:loc[0]]
	}
	return body
}

var decorationRe = regexp.MustCompile(`[^a-zA-Z&\s]+`)

func classifyHeading(heading string) SectionKind {
	label := strings.ToLower(strings.TrimSpace(decorationRe.ReplaceAllString(heading, "")))
	for _, l := range reflectionLabels {
		if strings.Contains(label, l) {
			return SectionReflection
		}
	}
	for _, l := range priorPromptLabels {
		if strings.Contains(label, l) {
			return SectionPriorPrompts
		}
	}
	return SectionOther
}

// Reflection returns the body of the primary free-form section with
// template placeholder sentences removed, or "" when the entry has none.
func (d *Document) Reflection() string {
	for _, s := range d.sections {
		if s.Kind != SectionReflection {
			continue
		}
		body := s.Body
		for _, p := range placeholderPhrases {
			body = strings.ReplaceAll(body, p, "")
		}
		return strings.TrimSpace(body)
	}
	return ""
}

// PriorPrompts returns the raw text of the seeded-prompts section with
// bold markers stripped, or "". The text is only scanned for unresolved
// questions downstream, never re-parsed.
func (d *Document) PriorPrompts() string {
	for _, s := range d.sections {
		if s.Kind == SectionPriorPrompts {
			return strings.TrimSpace(strings.ReplaceAll(s.Body, "**", ""))
		}
	}
	return ""
}

// AnalysisText resolves the text every analysis runs over: the
// reflection section when it is substantial (trimmed length above
// minSection), otherwise the full entry minus auto-generated link
// blocks.
func (d *Document) AnalysisText(minSection int) string {
	if r := d.Reflection(); len(r) > minSection {
		return r
	}
	return strings.TrimSpace(vault.StripLinkSections(d.raw))
}
