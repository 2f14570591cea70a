package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteCache is a ThemeCache persisted under a data directory, for
// sessions that want theme analysis to survive restarts. It keeps the
// same write-once contract as MemoryCache: INSERT OR IGNORE means a
// key's themes are never overwritten.
type SQLiteCache struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLiteCache opens (or creates) the theme database in dataDir.
func NewSQLiteCache(dataDir string, log *zap.Logger) (*SQLiteCache, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("themecache: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "themes.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("themecache: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("themecache: pragma %q: %w", p, err)
		}
	}

	c := &SQLiteCache{db: db, log: log}
	if err := c.migrate(); err != nil {
		return nil, fmt.Errorf("themecache: migration: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS themes (
			cache_key  TEXT PRIMARY KEY,
			themes     TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get returns the themes stored under key.
func (c *SQLiteCache) Get(key string) ([]string, bool) {
	var raw string
	err := c.db.QueryRow(`SELECT themes FROM themes WHERE cache_key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		c.log.Warn("theme cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var themes []string
	if err := json.Unmarshal([]byte(raw), &themes); err != nil {
		c.log.Warn("theme cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return themes, true
}

// Put stores themes under key unless the key already exists. A storage
// failure only costs a re-extraction later, so it is logged and dropped.
func (c *SQLiteCache) Put(key string, themes []string) {
	raw, err := json.Marshal(themes)
	if err != nil {
		c.log.Warn("theme cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if _, err := c.db.Exec(
		`INSERT OR IGNORE INTO themes (cache_key, themes) VALUES (?, ?)`, key, string(raw),
	); err != nil {
		c.log.Warn("theme cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Reset deletes every cached theme set.
func (c *SQLiteCache) Reset() error {
	_, err := c.db.Exec(`DELETE FROM themes`)
	return err
}
