package tools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/trace"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// MemoryTraceTool handles the generate_memory_trace MCP tool.
type MemoryTraceTool struct {
	vault    *vault.Vault
	reporter *trace.Reporter
	log      *zap.Logger
}

// NewMemoryTraceTool creates a MemoryTraceTool.
func NewMemoryTraceTool(v *vault.Vault, reporter *trace.Reporter, log *zap.Logger) *MemoryTraceTool {
	return &MemoryTraceTool{vault: v, reporter: reporter, log: log}
}

// Definition returns the MCP tool definition for generate_memory_trace.
func (t *MemoryTraceTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_memory_trace",
		mcp.WithDescription(
			"Generate a Memory Trace: a corpus-wide report of themes, patterns, relationships, "+
				"and insights across all diary entries.",
		),
		mcp.WithBoolean("save",
			mcp.Description("Also write the report to 'Memory Trace.md' in the vault (default: false)"),
		),
	)
}

// Handle processes the generate_memory_trace tool call.
func (t *MemoryTraceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := t.reporter.Generate(ctx, t.vault)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generating memory trace failed: %v", err)), nil
	}

	if boolArg(req, "save", false) {
		path := filepath.Join(t.vault.Root(), "Memory Trace.md")
		if err := t.vault.Write(path, report); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error saving memory trace: %v", err)), nil
		}
		t.log.Info("memory trace saved", zap.String("path", path))
		return mcp.NewToolResultText(fmt.Sprintf("✅ Memory trace saved to %s\n\n%s", path, report)), nil
	}
	return mcp.NewToolResultText(report), nil
}
