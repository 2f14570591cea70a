// Package config loads configuration for the diary MCP server.
//
// Settings come from three layers, highest precedence first:
//
//  1. Environment variables with the DIARY_ prefix (DIARY_VAULT_PATH,
//     DIARY_LLM_MODEL, ...)
//  2. An optional YAML file at ~/.config/diary-mcp/config.yaml
//  3. Hardcoded defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before mapping them
// onto config keys: DIARY_VAULT_PATH -> vault.path.
const envPrefix = "DIARY_"

// Config holds the complete server configuration.
type Config struct {
	Vault    VaultConfig    `koanf:"vault"`
	LLM      LLMConfig      `koanf:"llm"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Cache    CacheConfig    `koanf:"cache"`
	Log      LogConfig      `koanf:"log"`
}

// VaultConfig locates the diary vault.
type VaultConfig struct {
	Path          string `koanf:"path"`
	RecentEntries int    `koanf:"recent_entries"`
}

// LLMConfig configures the generation endpoint. The defaults target a
// local Ollama instance through its OpenAI-compatible /v1 surface.
type LLMConfig struct {
	BaseURL     string        `koanf:"base_url"`
	Model       string        `koanf:"model"`
	APIKey      string        `koanf:"api_key"`
	Timeout     time.Duration `koanf:"timeout"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
}

// AnalysisConfig holds the tuning constants of the analysis core. The
// similarity threshold and section minimum were tuned empirically against
// a real vault; treat them as knobs, not truths.
type AnalysisConfig struct {
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
	MinSectionChars     int     `koanf:"min_section_chars"`
	MinAnalysisChars    int     `koanf:"min_analysis_chars"`
	MaxRelated          int     `koanf:"max_related"`
}

// CacheConfig selects the theme cache backend. "memory" keeps themes for
// the process lifetime only; "sqlite" persists them under DataDir.
type CacheConfig struct {
	Backend string `koanf:"backend"`
	DataDir string `koanf:"data_dir"`
}

// LogConfig configures the debug file logger.
type LogConfig struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Vault: VaultConfig{
			Path:          filepath.Join(home, "Documents", "diary"),
			RecentEntries: 3,
		},
		LLM: LLMConfig{
			BaseURL:     "http://localhost:11434/v1",
			Model:       "llama3.1:latest",
			APIKey:      "ollama",
			Timeout:     30 * time.Second,
			Temperature: 0.7,
			MaxTokens:   200,
		},
		Analysis: AnalysisConfig{
			SimilarityThreshold: 0.08,
			MinSectionChars:     50,
			MinAnalysisChars:    20,
			MaxRelated:          6,
		},
		Cache: CacheConfig{
			Backend: "memory",
			DataDir: filepath.Join(home, ".diary-mcp"),
		},
		Log: LogConfig{
			Dir:   "",
			Level: "debug",
		},
	}
}

// Load reads configuration from the default YAML path (if present) and
// the environment.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve home directory: %w", err)
	}
	return LoadWithFile(filepath.Join(home, ".config", "diary-mcp", "config.yaml"))
}

// LoadWithFile loads configuration from the given YAML file (skipped if it
// does not exist), then overrides with environment variables.
func LoadWithFile(configPath string) (Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", configPath, err)
			}
		case os.IsNotExist(err):
			// No file is fine — env and defaults still apply.
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	// DIARY_VAULT_PATH -> vault.path, DIARY_LLM_BASE_URL -> llm.base_url.
	// The first underscore separates section from field; later underscores
	// stay in the field name.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	applyDerived(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDerived fills values that depend on other settings.
func applyDerived(cfg *Config) {
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(filepath.Dir(cfg.Vault.Path), "logs")
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Vault.Path == "" {
		return fmt.Errorf("config: vault.path must not be empty")
	}
	if c.Vault.RecentEntries < 1 {
		return fmt.Errorf("config: vault.recent_entries must be >= 1, got %d", c.Vault.RecentEntries)
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("config: llm.base_url must not be empty")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config: llm.timeout must be positive, got %s", c.LLM.Timeout)
	}
	if c.Analysis.SimilarityThreshold < 0 || c.Analysis.SimilarityThreshold >= 1 {
		return fmt.Errorf("config: analysis.similarity_threshold must be in [0,1), got %g", c.Analysis.SimilarityThreshold)
	}
	if c.Analysis.MaxRelated < 1 {
		return fmt.Errorf("config: analysis.max_related must be >= 1, got %d", c.Analysis.MaxRelated)
	}
	switch c.Cache.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config: cache.backend must be %q or %q, got %q", "memory", "sqlite", c.Cache.Backend)
	}
	return nil
}
