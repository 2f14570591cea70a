package journal

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/llm"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// maxThemes caps a ThemeSet regardless of how chatty the model gets.
const maxThemes = 5

// EntryStore is the corpus the core scans: a listing plus sentinel-style
// reads (see vault.ReadErrorPrefix). *vault.Vault satisfies it.
type EntryStore interface {
	List() ([]vault.Entry, error)
	Read(path string) string
}

// Config holds the core's tuning constants. The zero value is not
// usable; use DefaultConfig or populate from the server configuration.
type Config struct {
	// SimilarityThreshold is the minimum Jaccard score for two entries
	// to count as related. Below it, overlap is treated as noise.
	SimilarityThreshold float64
	// MinSectionChars is the length a reflection section must exceed to
	// be preferred over the full entry text.
	MinSectionChars int
	// MinAnalysisChars is the minimum resolved-text length worth
	// sending to the model at all.
	MinAnalysisChars int
}

// DefaultConfig returns the empirically tuned constants the original
// vault was calibrated against.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.08,
		MinSectionChars:     50,
		MinAnalysisChars:    20,
	}
}

// Engine runs theme extraction and everything built on top of it. One
// Engine serves one corpus; its cache must be reset (or replaced) when
// the corpus changes.
type Engine struct {
	gen   llm.Generator
	cache ThemeCache
	cfg   Config
	log   *zap.Logger
}

// NewEngine creates an Engine. The cache is injected so callers choose
// the lifecycle (per-process MemoryCache or persistent SQLiteCache).
func NewEngine(gen llm.Generator, cache ThemeCache, cfg Config, log *zap.Logger) *Engine {
	return &Engine{gen: gen, cache: cache, cfg: cfg, log: log}
}

const themeSystem = "You are an expert at identifying key themes in personal writing. Extract the most meaningful concepts."

// ExtractThemes asks the collaborator for this content's themes: up to
// maxThemes normalized lowercase strings. Content too short to analyze
// and any generation failure both yield an empty set.
func (e *Engine) ExtractThemes(ctx context.Context, content string) []string {
	text := ParseDocument(content).AnalysisText(e.cfg.MinSectionChars)
	if len(strings.TrimSpace(text)) < e.cfg.MinAnalysisChars {
		return nil
	}

	prompt := fmt.Sprintf(`Analyze this journal entry and extract 3-5 key themes or topics.

Entry content: %s

Return ONLY the themes as a simple comma-separated list of lowercase concepts with no other text:
friendship, work-stress, creativity`, text)

	resp, err := e.gen.Generate(ctx, prompt, themeSystem)
	if err != nil {
		e.log.Warn("theme extraction failed", zap.Error(err))
		return nil
	}

	var themes []string
	for _, part := range strings.Split(resp, ",") {
		theme := strings.ToLower(strings.TrimSpace(part))
		if theme == "" {
			continue
		}
		themes = append(themes, theme)
		if len(themes) == maxThemes {
			break
		}
	}
	return themes
}

// CachedThemes memoizes ExtractThemes per (identifier, content) pair.
// Empty results are cached too: a failing entry is not re-sent to the
// model on every scan.
func (e *Engine) CachedThemes(ctx context.Context, content, identifier string) []string {
	key := CacheKey(identifier, content)
	if themes, ok := e.cache.Get(key); ok {
		return themes
	}
	themes := e.ExtractThemes(ctx, content)
	e.cache.Put(key, themes)
	return themes
}

// ─── Topic tags ──────────────────────────────────────────────────────────────

var (
	// Marker phrases betraying a mis-parsed model preamble rather than
	// an actual theme ("Key themes extracted from this journal entry:").
	preambleMarkers = []string{"key themes", "extracted from"}
	// Fragments matching these are boilerplate, not themes.
	fragmentBlocklist = []string{"key themes", "extracted", "journal entry"}

	fragmentSplitRe = regexp.MustCompile(`[:,\n•\-]`)
	disallowedRe    = regexp.MustCompile(`[^a-z0-9\s-]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	hyphenRunRe     = regexp.MustCompile(`-{2,}`)
)

// TopicTags converts themes into Obsidian-style topic tags
// (#lowercase-hyphenated). A theme that looks like a model preamble is
// re-split into candidate fragments first; boilerplate and over-long
// fragments are discarded.
func TopicTags(themes []string) []string {
	var tags []string
	for _, theme := range themes {
		for _, candidate := range tagCandidates(theme) {
			if tag := normalizeTag(candidate); tag != "" {
				tags = append(tags, "#"+tag)
			}
		}
	}
	return tags
}

func tagCandidates(theme string) []string {
	lower := strings.ToLower(theme)
	preamble := false
	for _, m := range preambleMarkers {
		if strings.Contains(lower, m) {
			preamble = true
			break
		}
	}
	if !preamble {
		return []string{theme}
	}

	var candidates []string
fragments:
	for _, part := range fragmentSplitRe.Split(theme, -1) {
		frag := strings.TrimSpace(part)
		if frag == "" || len(frag) >= 50 {
			continue
		}
		fragLower := strings.ToLower(frag)
		for _, skip := range fragmentBlocklist {
			if strings.Contains(fragLower, skip) {
				continue fragments
			}
		}
		candidates = append(candidates, frag)
	}
	return candidates
}

// normalizeTag maps a candidate onto the tag alphabet [a-z0-9-]: runs of
// disallowed characters and whitespace become single hyphens.
func normalizeTag(candidate string) string {
	s := strings.ToLower(candidate)
	s = disallowedRe.ReplaceAllString(s, "-")
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
