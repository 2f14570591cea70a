// Package template builds the skeleton for a new diary entry: freshly
// synthesized reflection prompts on top, then the free-write section and
// a placeholder for auto-generated links.
package template

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/journal"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// Generator builds entry templates. Sundays get a longer lookback and
// more prompts for the weekly synthesis.
type Generator struct {
	engine      *journal.Engine
	recentCount int
	log         *zap.Logger
}

// New creates a Generator. recentCount is the weekday lookback window;
// Sundays always look back a full week.
func New(engine *journal.Engine, recentCount int, log *zap.Logger) *Generator {
	return &Generator{engine: engine, recentCount: recentCount, log: log}
}

// Content renders the template for an entry on date. Prompt synthesis
// failures fall back to fixed prompts, so the template always has a
// reflection section.
func (g *Generator) Content(ctx context.Context, store journal.EntryStore, date time.Time, focus string) string {
	sunday := date.Weekday() == time.Sunday

	lookback := g.recentCount
	promptCount := 3
	if sunday {
		lookback = 7
		promptCount = 5
	}

	composite := g.compositeRecent(store, lookback)
	prompts := g.engine.ReflectionPrompts(ctx, composite, journal.PromptOptions{
		Focus:  focus,
		Count:  promptCount,
		Sunday: sunday,
	})
	if len(prompts) == 0 {
		g.log.Info("using fallback prompts", zap.Bool("sunday", sunday))
		prompts = fallbackPrompts(sunday)
	}

	return build(prompts, sunday)
}

// compositeRecent joins the newest entries into one day-labeled input,
// most recent first, so prompt synthesis can weight and cite days.
func (g *Generator) compositeRecent(store journal.EntryStore, lookback int) string {
	entries, err := store.List()
	if err != nil {
		g.log.Warn("listing recent entries failed", zap.Error(err))
		return ""
	}
	if len(entries) > lookback {
		entries = entries[:lookback]
	}

	var blocks []string
	for i, entry := range entries {
		content := store.Read(entry.Path)
		if vault.IsReadError(content) {
			continue
		}
		label := "Earlier entry"
		if i == 0 {
			label = "MOST RECENT ENTRY"
		}
		blocks = append(blocks, fmt.Sprintf("%s (%s):\n\n%s", label, entry.ID(), content))
	}
	return strings.Join(blocks, "\n\n")
}

func fallbackPrompts(sunday bool) []string {
	if sunday {
		return []string{
			"What patterns from this past week reveal deeper truths about your cognitive frameworks?",
			"How did your decision-making processes evolve throughout the week?",
			"What assumptions about progress and growth were challenged this week?",
			"Where do you need to realign your mental models for the upcoming week?",
			"What philosophical questions emerged from this week's experiences that deserve deeper exploration?",
		}
	}
	return []string{
		"What cognitive patterns or mental models shaped your thinking this period?",
		"How do your current challenges reflect deeper philosophical questions about identity and meaning?",
		"What assumptions about reality, success, or relationships are being tested right now?",
	}
}

func build(prompts []string, sunday bool) string {
	var b strings.Builder
	if sunday {
		b.WriteString("## 🌅 Weekly Synthesis & Alignment\n")
		b.WriteString("\n*A deeper reflection on the past week and intentional focus for the week ahead*\n\n")
	} else {
		b.WriteString("## 🧠 Reflection Prompts\n")
		b.WriteString("\n*Building on insights from previous entries*\n\n")
	}

	for i, prompt := range prompts {
		fmt.Fprintf(&b, "**%d. %s**\n\n\n", i+1, prompt)
	}

	b.WriteString("---\n\n")
	b.WriteString("## 🧠 Brain Dump\n\n")
	b.WriteString("*Your thoughts, experiences, and observations...*\n\n\n\n")
	b.WriteString("---\n\n")
	b.WriteString("## 🧠 Memory Links\n\n")
	b.WriteString("*Temporal connections and topic tags will be auto-generated when you complete the entry.*")
	return b.String()
}
