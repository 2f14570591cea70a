package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// ListRecentTool handles the list_recent_entries MCP tool.
type ListRecentTool struct {
	vault *vault.Vault
}

// NewListRecentTool creates a ListRecentTool.
func NewListRecentTool(v *vault.Vault) *ListRecentTool {
	return &ListRecentTool{vault: v}
}

// Definition returns the MCP tool definition for list_recent_entries.
func (t *ListRecentTool) Definition() mcp.Tool {
	return mcp.NewTool("list_recent_entries",
		mcp.WithDescription("List recent diary entries, newest first."),
		mcp.WithNumber("count",
			mcp.Description("Number of recent entries to list (default: 10)"),
		),
	)
}

// Handle processes the list_recent_entries tool call.
func (t *ListRecentTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := intArg(req, "count", 10)
	if count < 1 {
		count = 10
	}

	entries, err := t.vault.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing entries failed: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No diary entries found"), nil
	}
	if len(entries) > count {
		entries = entries[:count]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Your %d most recent entries:\n\n", len(entries))
	for _, entry := range entries {
		fmt.Fprintf(&b, "- %s (%s)\n", entry.ID(), entry.Date.Format("Monday, January 02, 2006"))
	}
	return mcp.NewToolResultText(b.String()), nil
}
