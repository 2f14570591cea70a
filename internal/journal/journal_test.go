package journal

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// fakeGenerator scripts model responses for tests. When respond is set
// it is consulted per call; otherwise response/err are returned as-is.
type fakeGenerator struct {
	response string
	err      error
	respond  func(prompt, system string) (string, error)

	calls   int
	prompts []string
	systems []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt, system string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	g.systems = append(g.systems, system)
	if g.respond != nil {
		return g.respond(prompt, system)
	}
	return g.response, g.err
}

// fakeStore is an in-memory corpus. Paths missing from files read back
// as sentinel errors, same as an unreadable file on disk.
type fakeStore struct {
	entries []vault.Entry
	files   map[string]string
	listErr error
}

func (s *fakeStore) List() ([]vault.Entry, error) {
	return s.entries, s.listErr
}

func (s *fakeStore) Read(path string) string {
	if content, ok := s.files[path]; ok {
		return content
	}
	return readFailure(path)
}

func readFailure(path string) string {
	return vault.ReadErrorPrefix + " " + path
}

func newTestEngine(t *testing.T, gen *fakeGenerator) *Engine {
	t.Helper()
	return NewEngine(gen, NewMemoryCache(), DefaultConfig(), zap.NewNop())
}
