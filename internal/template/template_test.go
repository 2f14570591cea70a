package template

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/journal"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
	systems  []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt, system string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.systems = append(g.systems, system)
	return g.response, g.err
}

type fakeStore struct {
	entries []vault.Entry
	files   map[string]string
}

func (s *fakeStore) List() ([]vault.Entry, error) { return s.entries, nil }

func (s *fakeStore) Read(path string) string {
	if content, ok := s.files[path]; ok {
		return content
	}
	return vault.ReadErrorPrefix + " " + path
}

// newestFirstStore builds a corpus of n entries counting back from the
// given date, newest first like a vault listing.
func newestFirstStore(n int, newest time.Time) *fakeStore {
	store := &fakeStore{files: map[string]string{}}
	for i := 0; i < n; i++ {
		date := newest.AddDate(0, 0, -i)
		path := "/vault/" + date.Format("2006-01-02") + ".md"
		store.entries = append(store.entries, vault.Entry{Date: date, Path: path})
		store.files[path] = "Entry for " + date.Format("2006-01-02") + " with enough text to analyze."
	}
	return store
}

func newGenerator(t *testing.T, gen *fakeGenerator, recentCount int) *Generator {
	t.Helper()
	engine := journal.NewEngine(gen, journal.NewMemoryCache(), journal.DefaultConfig(), zap.NewNop())
	return New(engine, recentCount, zap.NewNop())
}

var (
	monday = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
)

func TestContentWeekday(t *testing.T) {
	gen := &fakeGenerator{response: "1. What gave you energy today?\n2. What did you avoid?\n3. Who did you lean on this week?"}
	g := newGenerator(t, gen, 3)
	store := newestFirstStore(6, monday.AddDate(0, 0, -1))

	got := g.Content(context.Background(), store, monday, "")
	if !strings.Contains(got, "## 🧠 Reflection Prompts") {
		t.Fatalf("weekday heading missing:\n%s", got)
	}
	if !strings.Contains(got, "**1. What gave you energy today?**") {
		t.Fatalf("synthesized prompt missing:\n%s", got)
	}
	if !strings.Contains(got, "## 🧠 Brain Dump") || !strings.Contains(got, "## 🧠 Memory Links") {
		t.Fatalf("skeleton sections missing:\n%s", got)
	}
	if strings.Contains(got, "Weekly Synthesis") {
		t.Fatalf("weekly heading on a weekday:\n%s", got)
	}

	prompt := gen.prompts[len(gen.prompts)-1]
	if !strings.Contains(prompt, "## PRIMARY FOCUS — Day 1 (2024-01-07)") {
		t.Fatalf("primary focus day missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "### Day 3 (tertiary priority, 2024-01-05)") {
		t.Fatalf("third day context missing:\n%s", prompt)
	}
	if strings.Contains(prompt, "2024-01-04") {
		t.Fatalf("lookback window exceeded:\n%s", prompt)
	}
}

func TestContentSunday(t *testing.T) {
	gen := &fakeGenerator{response: "1. What did this week teach you about pacing yourself day to day?\n" +
		"2. Which conversation mattered most this entire week?\n" +
		"3. What drained you repeatedly across the week?\n" +
		"4. What will you do differently starting tomorrow morning?\n" +
		"5. What are you grateful for from the past seven days?"}
	g := newGenerator(t, gen, 3)
	store := newestFirstStore(9, sunday.AddDate(0, 0, -1))

	got := g.Content(context.Background(), store, sunday, "")
	if !strings.Contains(got, "## 🌅 Weekly Synthesis & Alignment") {
		t.Fatalf("weekly heading missing:\n%s", got)
	}
	if !strings.Contains(got, "**5. What are you grateful for from the past seven days?**") {
		t.Fatalf("fifth prompt missing:\n%s", got)
	}

	prompt := gen.prompts[len(gen.prompts)-1]
	if !strings.Contains(prompt, "2024-01-06") || !strings.Contains(prompt, "2023-12-31") {
		t.Fatalf("sunday lookback should span seven entries:\n%s", prompt)
	}
	if strings.Contains(prompt, "2023-12-30") {
		t.Fatalf("sunday lookback exceeds seven entries:\n%s", prompt)
	}
	if !strings.Contains(gen.systems[len(gen.systems)-1], "Sunday reflection") {
		t.Fatalf("weekly instruction missing:\n%s", gen.systems[len(gen.systems)-1])
	}
}

func TestContentFallbackPrompts(t *testing.T) {
	gen := &fakeGenerator{response: "no usable lines at all"}
	g := newGenerator(t, gen, 3)
	store := newestFirstStore(3, monday.AddDate(0, 0, -1))

	got := g.Content(context.Background(), store, monday, "")
	if !strings.Contains(got, "What cognitive patterns or mental models shaped your thinking this period?") {
		t.Fatalf("weekday fallback prompts missing:\n%s", got)
	}

	gotSunday := g.Content(context.Background(), store, sunday, "")
	if !strings.Contains(gotSunday, "What patterns from this past week reveal deeper truths about your cognitive frameworks?") {
		t.Fatalf("sunday fallback prompts missing:\n%s", gotSunday)
	}
}

func TestContentEmptyVault(t *testing.T) {
	gen := &fakeGenerator{response: "1. Should not be called?"}
	g := newGenerator(t, gen, 3)
	store := &fakeStore{files: map[string]string{}}

	got := g.Content(context.Background(), store, monday, "")
	if len(gen.prompts) != 0 {
		t.Fatalf("generator called with empty vault: %q", gen.prompts)
	}
	if !strings.Contains(got, "What cognitive patterns or mental models shaped your thinking this period?") {
		t.Fatalf("fallback prompts missing:\n%s", got)
	}
}

func TestContentFocusPassedThrough(t *testing.T) {
	gen := &fakeGenerator{response: "1. How is the career change going for you so far?"}
	g := newGenerator(t, gen, 3)
	store := newestFirstStore(3, monday.AddDate(0, 0, -1))

	g.Content(context.Background(), store, monday, "career")
	if !strings.Contains(gen.systems[len(gen.systems)-1], "career") {
		t.Fatalf("focus missing from system instruction:\n%s", gen.systems[len(gen.systems)-1])
	}
}
