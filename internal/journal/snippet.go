package journal

import (
	"regexp"
	"strings"
)

var (
	snippetHeadingRe = regexp.MustCompile(`#+ `)
	snippetLinkRe    = regexp.MustCompile(`\[\[.*?\]\]`)
	snippetBoldRe    = regexp.MustCompile(`\*\*.*?\*\*:`)
	sentenceSplitRe  = regexp.MustCompile(`[.!?]+`)
)

// Snippet extracts a short representative excerpt from entry content:
// markdown heading markers, wiki links, and bold label prefixes are
// stripped (heading text itself is kept), then the first sentence of at
// least 20 characters wins. Longer sentences are truncated with an
// ellipsis.
func Snippet(content string, maxLen int) string {
	text := snippetHeadingRe.ReplaceAllString(content, "")
	text = snippetLinkRe.ReplaceAllString(text, "")
	text = snippetBoldRe.ReplaceAllString(text, "")

	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		sentence = strings.TrimSpace(strings.ReplaceAll(sentence, "\n", " "))
		if len(sentence) < 20 {
			continue
		}
		if len(sentence) > maxLen {
			return sentence[:maxLen] + "..."
		}
		return sentence
	}

	fallback := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if len(fallback) > maxLen {
		fallback = fallback[:maxLen] + "..."
	}
	if fallback == "" {
		return "..."
	}
	return fallback
}
