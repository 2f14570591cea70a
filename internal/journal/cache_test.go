package journal

import (
	"regexp"
	"testing"
)

var cacheKeyRe = regexp.MustCompile(`^2024-01-05_11_[0-9a-f]{16}$`)

func TestCacheKeyShape(t *testing.T) {
	key := CacheKey("2024-01-05", "hello world")
	if !cacheKeyRe.MatchString(key) {
		t.Fatalf("CacheKey = %q, want identifier_length_fingerprint", key)
	}
}

func TestCacheKeyFingerprintsFullContent(t *testing.T) {
	// Same identifier, same length, different tails.
	a := CacheKey("2024-01-05", "morning run then work")
	b := CacheKey("2024-01-05", "morning run then rest")
	if a == b {
		t.Fatalf("keys collide for distinct content: %q", a)
	}
	if a != CacheKey("2024-01-05", "morning run then work") {
		t.Fatal("key not deterministic")
	}
}

func TestMemoryCacheWriteOnce(t *testing.T) {
	c := NewMemoryCache()
	c.Put("k", []string{"work"})
	c.Put("k", []string{"rest"})

	themes, ok := c.Get("k")
	if !ok {
		t.Fatal("key missing after Put")
	}
	if len(themes) != 1 || themes[0] != "work" {
		t.Fatalf("Get = %v, want first write preserved", themes)
	}
}

func TestMemoryCacheEmptySetIsCached(t *testing.T) {
	c := NewMemoryCache()
	c.Put("k", nil)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("empty theme set not cached")
	}
}

func TestMemoryCacheReset(t *testing.T) {
	c := NewMemoryCache()
	c.Put("k", []string{"work"})
	c.Reset()
	if _, ok := c.Get("k"); ok {
		t.Fatal("key survived Reset")
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d after Reset", c.Len())
	}
}
