// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it loads configuration, builds the
// concrete vault, generation client, cache, and analysis engine, and
// injects them into the tool handlers. No business logic lives here —
// only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/config"
	"github.com/madebygps/obsidian-diary-mcp/internal/journal"
	"github.com/madebygps/obsidian-diary-mcp/internal/llm"
	"github.com/madebygps/obsidian-diary-mcp/internal/logging"
	"github.com/madebygps/obsidian-diary-mcp/internal/template"
	"github.com/madebygps/obsidian-diary-mcp/internal/tools"
	"github.com/madebygps/obsidian-diary-mcp/internal/trace"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
//
// The returned cleanup function flushes the debug log and closes the
// sqlite theme cache when one is configured. It is always non-nil and
// safe to call even when initialization failed partway.
func New() (*server.MCPServer, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, noop, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the server from an already-loaded configuration.
func NewWithConfig(cfg config.Config) (*server.MCPServer, func(), error) {
	log, closeLog, err := logging.New(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		return nil, noop, fmt.Errorf("creating logger: %w", err)
	}
	cleanup := closeLog

	// --- Create shared dependencies ---

	v := vault.New(cfg.Vault.Path)

	gen := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model,
		llm.WithTemperature(cfg.LLM.Temperature),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
		llm.WithTimeout(cfg.LLM.Timeout),
	)

	var cache journal.ThemeCache
	switch cfg.Cache.Backend {
	case "sqlite":
		sq, err := journal.NewSQLiteCache(cfg.Cache.DataDir, log)
		if err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("opening theme cache: %w", err)
		}
		cache = sq
		cleanup = func() {
			if err := sq.Close(); err != nil {
				log.Warn("closing theme cache", zap.Error(err))
			}
			closeLog()
		}
	default:
		cache = journal.NewMemoryCache()
	}

	engine := journal.NewEngine(gen, cache, journal.Config{
		SimilarityThreshold: cfg.Analysis.SimilarityThreshold,
		MinSectionChars:     cfg.Analysis.MinSectionChars,
		MinAnalysisChars:    cfg.Analysis.MinAnalysisChars,
	}, log)

	tmpl := template.New(engine, cfg.Vault.RecentEntries, log)
	reporter := trace.NewReporter(engine, log)

	log.Info("server configured",
		zap.String("vault", cfg.Vault.Path),
		zap.String("model", cfg.LLM.Model),
		zap.String("cache", cfg.Cache.Backend))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"obsidian-diary",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	createTool := tools.NewCreateTemplateTool(v, tmpl, log)
	s.AddTool(createTool.Definition(), createTool.Handle)

	saveTool := tools.NewSaveEntryTool(v, engine, cfg.Analysis.MaxRelated, log)
	s.AddTool(saveTool.Definition(), saveTool.Handle)

	readTool := tools.NewReadEntryTool(v)
	s.AddTool(readTool.Definition(), readTool.Handle)

	listTool := tools.NewListRecentTool(v)
	s.AddTool(listTool.Definition(), listTool.Handle)

	linksTool := tools.NewUpdateLinksTool(v, engine, cfg.Analysis.MaxRelated, log)
	s.AddTool(linksTool.Definition(), linksTool.Handle)

	relatedTool := tools.NewFindRelatedTool(v, engine, cfg.Analysis.MaxRelated)
	s.AddTool(relatedTool.Definition(), relatedTool.Handle)

	todosTool := tools.NewExtractTodosTool(v, engine)
	s.AddTool(todosTool.Definition(), todosTool.Handle)

	traceTool := tools.NewMemoryTraceTool(v, reporter, log)
	s.AddTool(traceTool.Definition(), traceTool.Handle)

	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails before any
// resources are held.
func noop() {}

// serverInstructions returns the system instructions sent to MCP clients.
func serverInstructions() string {
	return `This server manages an Obsidian diary vault: one markdown file per day, named YYYY-MM-DD.md.

Typical flow:
1. create_entry_template — start today's entry with reflection prompts built from recent writing
2. save_entry — save the finished entry; related entries and topic tags are linked automatically
3. update_entry_links — refresh an entry's links after editing it by hand

Exploration:
- find_related surfaces entries that share themes with an entry or any text
- extract_todos pulls action items out of an entry
- generate_memory_trace builds a corpus-wide report of themes, patterns, and insights

Theme analysis runs through a local LLM; when it is unavailable the tools degrade gracefully (templates fall back to fixed prompts, links come back empty).`
}
