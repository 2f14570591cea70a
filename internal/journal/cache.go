package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// ThemeCache memoizes theme extraction per entry. Entries are write-once:
// a Put for an existing key is ignored, so a key's value never changes
// for the cache's lifetime. Caches grow unbounded; reset or discard them
// between logically distinct corpora.
type ThemeCache interface {
	Get(key string) ([]string, bool)
	Put(key string, themes []string)
}

// CacheKey derives the memoization key for an (identifier, content)
// pair. The key fingerprints the full content, so two entries sharing a
// prefix and length can no longer collide.
func CacheKey(identifier, content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%s_%d_%s", identifier, len(content), hex.EncodeToString(sum[:8]))
}

// MemoryCache is the default ThemeCache: in-process, lost on restart.
// The mutex only guards against overlapping MCP tool calls — corpus
// scans themselves are sequential.
type MemoryCache struct {
	mu     sync.Mutex
	themes map[string][]string
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{themes: make(map[string][]string)}
}

// Get returns the cached themes for key. The second return reports
// whether the key was present; an entry may legitimately hold an empty
// theme set.
func (c *MemoryCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	themes, ok := c.themes[key]
	return themes, ok
}

// Put stores themes under key unless the key already exists.
func (c *MemoryCache) Put(key string, themes []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.themes[key]; ok {
		return
	}
	c.themes[key] = themes
}

// Reset discards all cached themes. Call between distinct corpora (test
// runs, vault switches) to avoid stale results.
func (c *MemoryCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.themes = make(map[string][]string)
}

// Len returns the number of cached keys.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.themes)
}
