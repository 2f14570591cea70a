package journal

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const todoSystem = "You are an expert at extracting action items from personal writing. " +
	"Find concrete, actionable tasks the writer stated or clearly implied — things to do, buy, fix, schedule, or follow up on. " +
	"Output ONLY a bulleted list, one task per line, starting each line with '- '. " +
	"Do not include reflections, feelings, or vague intentions. " +
	"If the text contains no action items, respond with exactly: no action items"

// todoHeaderBoilerplate marks lines that are list framing rather than tasks.
var todoHeaderBoilerplate = []string{"here are", "action items", "tasks:", "todo"}

// Todos extracts actionable items from entry content as plain task
// strings. The model is held to a strict contract: a bulleted list or
// the sentinel phrase "no action items". Anything else parseable as
// bullets is salvaged; generation failure yields an empty slice.
func (e *Engine) Todos(ctx context.Context, content string) []string {
	text := ParseDocument(content).AnalysisText(e.cfg.MinSectionChars)
	if len(strings.TrimSpace(text)) < e.cfg.MinAnalysisChars {
		return nil
	}

	prompt := "Extract action items from this journal entry:\n\n" + text
	resp, err := e.gen.Generate(ctx, prompt, todoSystem)
	if err != nil {
		e.log.Warn("todo extraction failed", zap.Error(err))
		return nil
	}

	resp = thinkBlockRe.ReplaceAllString(resp, "")
	if strings.Contains(strings.ToLower(resp), "no action items") {
		return nil
	}

	var todos []string
lines:
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] != '-' && line[0] != '*' && !strings.HasPrefix(line, "•") {
			continue
		}
		lower := strings.ToLower(line)
		for _, phrase := range todoHeaderBoilerplate {
			if strings.Contains(lower, phrase) {
				continue lines
			}
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		if len(line) < 4 {
			continue
		}
		todos = append(todos, line)
	}
	return todos
}
