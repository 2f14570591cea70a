package journal

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// scored pairs an entry identifier with its similarity to the query.
type scored struct {
	id    string
	score float64
}

// FindRelated ranks corpus entries by theme overlap with queryContent
// and returns the top maxResults as backlink tokens ("[[identifier]]").
//
// Entries scoring at or below the configured threshold are dropped as
// noise. With no query themes there is no basis for comparison, so the
// result is empty — this never falls back to full-text matching. The
// scan is sequential and every entry is awaited before the next; ties
// keep corpus order (newest first).
func (e *Engine) FindRelated(ctx context.Context, store EntryStore, queryContent, excludeID string, maxResults int) []string {
	queryID := excludeID
	if queryID == "" {
		queryID = "current"
	}
	queryThemes := toSet(e.CachedThemes(ctx, queryContent, queryID))
	if len(queryThemes) == 0 {
		return nil
	}

	entries, err := store.List()
	if err != nil {
		e.log.Warn("corpus listing failed", zap.Error(err))
		return nil
	}
	e.log.Debug("scanning corpus for related entries", zap.Int("entries", len(entries)))

	var kept []scored
	for _, entry := range entries {
		id := entry.ID()
		if id == excludeID {
			continue
		}
		content := store.Read(entry.Path)
		if vault.IsReadError(content) {
			continue
		}
		entryThemes := toSet(e.CachedThemes(ctx, content, id))
		if len(entryThemes) == 0 {
			continue
		}
		if score := jaccard(queryThemes, entryThemes); score > e.cfg.SimilarityThreshold {
			kept = append(kept, scored{id: id, score: score})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})
	if len(kept) > maxResults {
		kept = kept[:maxResults]
	}

	backlinks := make([]string, 0, len(kept))
	for _, s := range kept {
		backlinks = append(backlinks, fmt.Sprintf("[[%s]]", s.id))
	}
	return backlinks
}

func toSet(themes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(themes))
	for _, t := range themes {
		set[t] = struct{}{}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b|.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
