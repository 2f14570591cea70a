package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/madebygps/obsidian-diary-mcp/internal/journal"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// ExtractTodosTool handles the extract_todos MCP tool.
type ExtractTodosTool struct {
	vault  *vault.Vault
	engine *journal.Engine
}

// NewExtractTodosTool creates an ExtractTodosTool.
func NewExtractTodosTool(v *vault.Vault, engine *journal.Engine) *ExtractTodosTool {
	return &ExtractTodosTool{vault: v, engine: engine}
}

// Definition returns the MCP tool definition for extract_todos.
func (t *ExtractTodosTool) Definition() mcp.Tool {
	return mcp.NewTool("extract_todos",
		mcp.WithDescription("Extract actionable items from a diary entry as a task list."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date of the entry in YYYY-MM-DD format"),
		),
	)
}

// Handle processes the extract_todos tool call.
func (t *ExtractTodosTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, ok := parseDate(req.GetString("date", ""))
	if !ok {
		return mcp.NewToolResultError(badDateMsg), nil
	}
	id := date.Format(dateLayout)
	if !t.vault.Exists(date) {
		return mcp.NewToolResultText(fmt.Sprintf("No entry found for %s", id)), nil
	}

	content := t.vault.Read(t.vault.PathFor(date))
	if vault.IsReadError(content) {
		return mcp.NewToolResultError(content), nil
	}

	todos := t.engine.Todos(ctx, content)
	if len(todos) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No action items found in %s.", id)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Action items from %s:\n\n", id)
	for _, todo := range todos {
		b.WriteString("- [ ] " + todo + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
