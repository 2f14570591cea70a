package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// ReadEntryTool handles the read_entry MCP tool.
type ReadEntryTool struct {
	vault *vault.Vault
}

// NewReadEntryTool creates a ReadEntryTool.
func NewReadEntryTool(v *vault.Vault) *ReadEntryTool {
	return &ReadEntryTool{vault: v}
}

// Definition returns the MCP tool definition for read_entry.
func (t *ReadEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("read_entry",
		mcp.WithDescription("Read an existing diary entry."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date of the entry in YYYY-MM-DD format"),
		),
	)
}

// Handle processes the read_entry tool call.
func (t *ReadEntryTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, ok := parseDate(req.GetString("date", ""))
	if !ok {
		return mcp.NewToolResultError(badDateMsg), nil
	}
	if !t.vault.Exists(date) {
		return mcp.NewToolResultText(fmt.Sprintf("No entry found for %s", date.Format(dateLayout))), nil
	}

	content := t.vault.Read(t.vault.PathFor(date))
	if vault.IsReadError(content) {
		return mcp.NewToolResultError(content), nil
	}
	return mcp.NewToolResultText(content), nil
}
