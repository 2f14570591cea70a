package journal

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
)

const longEnough = "Today I spent hours debugging the deploy pipeline and then went climbing with Ana."

func TestExtractThemesParsesList(t *testing.T) {
	gen := &fakeGenerator{response: "Work-Stress, climbing , FRIENDSHIP"}
	e := newTestEngine(t, gen)

	got := e.ExtractThemes(context.Background(), longEnough)
	want := []string{"work-stress", "climbing", "friendship"}
	if len(got) != len(want) {
		t.Fatalf("themes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("themes = %v, want %v", got, want)
		}
	}
}

func TestExtractThemesCapsAtFive(t *testing.T) {
	gen := &fakeGenerator{response: "a, b, c, d, e, f, g"}
	e := newTestEngine(t, gen)
	if got := e.ExtractThemes(context.Background(), longEnough); len(got) != 5 {
		t.Fatalf("themes = %v, want 5", got)
	}
}

func TestExtractThemesShortContent(t *testing.T) {
	gen := &fakeGenerator{response: "should, never, be, asked"}
	e := newTestEngine(t, gen)
	if got := e.ExtractThemes(context.Background(), "tired."); got != nil {
		t.Fatalf("themes = %v, want empty for short content", got)
	}
	if gen.calls != 0 {
		t.Fatalf("generator called %d times for short content", gen.calls)
	}
}

func TestExtractThemesGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model offline")}
	e := newTestEngine(t, gen)
	if got := e.ExtractThemes(context.Background(), longEnough); got != nil {
		t.Fatalf("themes = %v, want empty on failure", got)
	}
}

func TestCachedThemesCallsGeneratorOnce(t *testing.T) {
	gen := &fakeGenerator{response: "work, health"}
	e := newTestEngine(t, gen)
	ctx := context.Background()

	first := e.CachedThemes(ctx, longEnough, "2024-01-05")
	second := e.CachedThemes(ctx, longEnough, "2024-01-05")
	if gen.calls != 1 {
		t.Fatalf("generator called %d times, want 1", gen.calls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("cached result mismatch: %v / %v", first, second)
	}
}

func TestCachedThemesFailureCachedToo(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model offline")}
	e := newTestEngine(t, gen)
	ctx := context.Background()

	e.CachedThemes(ctx, longEnough, "2024-01-05")
	e.CachedThemes(ctx, longEnough, "2024-01-05")
	if gen.calls != 1 {
		t.Fatalf("generator called %d times after failure, want 1", gen.calls)
	}
}

func TestCachedThemesDistinguishesContent(t *testing.T) {
	gen := &fakeGenerator{response: "work"}
	e := newTestEngine(t, gen)
	ctx := context.Background()

	e.CachedThemes(ctx, longEnough, "2024-01-05")
	e.CachedThemes(ctx, longEnough+" More text after an edit.", "2024-01-05")
	if gen.calls != 2 {
		t.Fatalf("generator called %d times for edited content, want 2", gen.calls)
	}
}

// ─── Topic tags ──────────────────────────────────────────────────────────────

func TestTopicTagsSimple(t *testing.T) {
	got := TopicTags([]string{"Friendship"})
	if len(got) != 1 || got[0] != "#friendship" {
		t.Fatalf("TopicTags = %v, want [#friendship]", got)
	}
}

func TestTopicTagsSplitsPreamble(t *testing.T) {
	got := TopicTags([]string{"key themes: Work, Rest"})
	if len(got) != 2 || got[0] != "#work" || got[1] != "#rest" {
		t.Fatalf("TopicTags = %v, want [#work #rest]", got)
	}
}

func TestTopicTagsNormalization(t *testing.T) {
	cases := []struct {
		theme string
		want  string
	}{
		{"Work/Life Balance", "#work-life-balance"},
		{"self_doubt", "#self-doubt"},
		{"  café crawl  ", "#caf-crawl"},
		{"deep -- focus", "#deep-focus"},
	}
	for _, tc := range cases {
		got := TopicTags([]string{tc.theme})
		if len(got) != 1 || got[0] != tc.want {
			t.Fatalf("TopicTags(%q) = %v, want [%s]", tc.theme, got, tc.want)
		}
	}
}

var tagShapeRe = regexp.MustCompile(`^#[a-z0-9-]+$`)

func TestTopicTagsShape(t *testing.T) {
	themes := []string{"Friendship", "key themes: Work, Rest", "Work/Life Balance", "100 days of code"}
	for _, tag := range TopicTags(themes) {
		if !tagShapeRe.MatchString(tag) {
			t.Fatalf("tag %q escapes the tag alphabet", tag)
		}
	}
}

func TestTopicTagsDropsBoilerplateAndLongFragments(t *testing.T) {
	got := TopicTags([]string{
		"key themes extracted from this journal entry: Sleep, " + strings.Repeat("x", 60),
	})
	if len(got) != 1 || got[0] != "#sleep" {
		t.Fatalf("TopicTags = %v, want [#sleep]", got)
	}
}
