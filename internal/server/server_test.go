package server

import (
	"path/filepath"
	"testing"

	"github.com/madebygps/obsidian-diary-mcp/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Vault.Path = filepath.Join(dir, "diary")
	cfg.Log.Dir = filepath.Join(dir, "logs")
	cfg.Cache.DataDir = filepath.Join(dir, "cache")
	return cfg
}

func TestNewWithConfigMemoryCache(t *testing.T) {
	s, cleanup, err := NewWithConfig(testConfig(t))
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer cleanup()
	if s == nil {
		t.Fatal("server is nil")
	}
}

func TestNewWithConfigSQLiteCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = "sqlite"

	s, cleanup, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer cleanup()
	if s == nil {
		t.Fatal("server is nil")
	}
}
