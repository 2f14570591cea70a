package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Vault.RecentEntries != 3 {
		t.Errorf("RecentEntries = %d, want 3", cfg.Vault.RecentEntries)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.LLM.Timeout)
	}
	if cfg.Analysis.SimilarityThreshold != 0.08 {
		t.Errorf("SimilarityThreshold = %g, want 0.08", cfg.Analysis.SimilarityThreshold)
	}
	if cfg.Analysis.MinSectionChars != 50 {
		t.Errorf("MinSectionChars = %d, want 50", cfg.Analysis.MinSectionChars)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
}

func TestLoadWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
vault:
  path: /tmp/vault
  recent_entries: 5
llm:
  model: qwen2.5:7b
analysis:
  similarity_threshold: 0.2
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile: %v", err)
	}

	if cfg.Vault.Path != "/tmp/vault" {
		t.Errorf("Vault.Path = %q", cfg.Vault.Path)
	}
	if cfg.Vault.RecentEntries != 5 {
		t.Errorf("RecentEntries = %d, want 5", cfg.Vault.RecentEntries)
	}
	if cfg.LLM.Model != "qwen2.5:7b" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.Analysis.SimilarityThreshold != 0.2 {
		t.Errorf("SimilarityThreshold = %g", cfg.Analysis.SimilarityThreshold)
	}
	// Untouched keys keep their defaults.
	if cfg.LLM.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("BaseURL = %q, want default", cfg.LLM.BaseURL)
	}
	// Log dir derives from the vault path when unset.
	want := filepath.Join("/tmp", "logs")
	if cfg.Log.Dir != want {
		t.Errorf("Log.Dir = %q, want %q", cfg.Log.Dir, want)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFile: %v", err)
	}
	if cfg.LLM.Model != "llama3.1:latest" {
		t.Errorf("Model = %q, want default", cfg.LLM.Model)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  model: from-file\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DIARY_LLM_MODEL", "from-env")
	t.Setenv("DIARY_VAULT_RECENT_ENTRIES", "7")
	t.Setenv("DIARY_CACHE_BACKEND", "sqlite")

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile: %v", err)
	}
	if cfg.LLM.Model != "from-env" {
		t.Errorf("Model = %q, want from-env", cfg.LLM.Model)
	}
	if cfg.Vault.RecentEntries != 7 {
		t.Errorf("RecentEntries = %d, want 7", cfg.Vault.RecentEntries)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("Cache.Backend = %q, want sqlite", cfg.Cache.Backend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty vault path", func(c *Config) { c.Vault.Path = "" }, true},
		{"zero recent entries", func(c *Config) { c.Vault.RecentEntries = 0 }, true},
		{"negative timeout", func(c *Config) { c.LLM.Timeout = -time.Second }, true},
		{"threshold out of range", func(c *Config) { c.Analysis.SimilarityThreshold = 1.5 }, true},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "redis" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
