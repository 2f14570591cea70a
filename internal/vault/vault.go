// Package vault manages the diary entry files on disk.
//
// A vault is a flat directory of markdown files named YYYY-MM-DD.md. The
// vault owns entry contents; the analysis core only holds transient
// copies. Read failures are reported in-band with the "Error reading
// file" sentinel prefix rather than a Go error, so corpus scans can skip
// unreadable entries without aborting.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ReadErrorPrefix marks a failed read. Callers detect failure with
// IsReadError, not by checking an error value.
const ReadErrorPrefix = "Error reading file"

// Entry is one diary file: a stable identifier (the filename stem), its
// date, and its location.
type Entry struct {
	Date time.Time
	Path string
}

// ID returns the entry's stable identifier, derived from the filename
// stem (e.g. "2024-01-05").
func (e Entry) ID() string {
	return strings.TrimSuffix(filepath.Base(e.Path), filepath.Ext(e.Path))
}

// Vault is a diary directory.
type Vault struct {
	root string
}

// New creates a Vault rooted at dir. The directory is created on first
// write, not here.
func New(dir string) *Vault {
	return &Vault{root: dir}
}

// Root returns the vault directory.
func (v *Vault) Root() string { return v.root }

// List returns all entries sorted by date, newest first. Dotfiles and
// files whose stem is not a YYYY-MM-DD date are skipped. A missing vault
// directory yields an empty list.
func (v *Vault) List() ([]Entry, error) {
	files, err := os.ReadDir(v.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vault: list entries: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
			continue
		}
		stem := strings.TrimSuffix(name, ".md")
		date, err := time.Parse("2006-01-02", stem)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Date: date, Path: filepath.Join(v.root, name)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// Read returns the content of the entry at path, or a sentinel string
// beginning with ReadErrorPrefix if the read fails.
func (v *Vault) Read(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("%s: %v", ReadErrorPrefix, err)
	}
	return string(data)
}

// IsReadError reports whether content is a Read failure sentinel.
func IsReadError(content string) bool {
	return strings.HasPrefix(content, ReadErrorPrefix)
}

// Write stores content at path, creating the vault directory if needed.
func (v *Vault) Write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("vault: create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("vault: write entry: %w", err)
	}
	return nil
}

// PathFor returns the file path for an entry on the given date.
func (v *Vault) PathFor(date time.Time) string {
	return filepath.Join(v.root, date.Format("2006-01-02")+".md")
}

// Exists reports whether an entry exists for the given date.
func (v *Vault) Exists(date time.Time) bool {
	_, err := os.Stat(v.PathFor(date))
	return err == nil
}

// ─── Link-section rewriting ──────────────────────────────────────────────────

var (
	relatedBlockRe    = regexp.MustCompile(`(?s)---\s*\n\*\*Related entries:\*\*.*$`)
	memoryLinksBoldRe = regexp.MustCompile(`(?s)---\s*\n\*\*Memory links:\*\*.*$`)
	memoryLinksHeadRe = regexp.MustCompile(`(?is)\n---\s*\n+##[^\n]*Memory Links.*$`)
)

// StripLinkSections removes any trailing auto-generated link blocks
// (the legacy "Related entries" footer and the "Memory Links" section)
// so they are neither analyzed nor duplicated on rewrite.
func StripLinkSections(content string) string {
	content = relatedBlockRe.ReplaceAllString(content, "")
	content = memoryLinksBoldRe.ReplaceAllString(content, "")
	content = memoryLinksHeadRe.ReplaceAllString(content, "")
	return strings.TrimRight(content, " \t\n")
}

// AppendMemoryLinks replaces any existing link block with a fresh
// "Memory Links" section holding the related-entry backlinks and topic
// tags. With neither, the section records that no connections exist.
func AppendMemoryLinks(content string, related, tags []string) string {
	content = StripLinkSections(content)

	var b strings.Builder
	b.WriteString(content)
	b.WriteString("\n\n---\n\n## 🔗 Memory Links\n\n")

	if len(related) > 0 {
		fmt.Fprintf(&b, "**Temporal connections:** %s\n\n", strings.Join(related, " • "))
	}
	if len(tags) > 0 {
		fmt.Fprintf(&b, "**Topic tags:** %s\n\n", strings.Join(tags, " "))
	}

	if len(related) > 0 || len(tags) > 0 {
		b.WriteString("*Temporal connections and topic exploration available in Obsidian.*")
	} else {
		b.WriteString("*No connections found - this represents novel cognitive territory.*")
	}
	return b.String()
}
