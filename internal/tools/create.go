package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/template"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// CreateTemplateTool handles the create_entry_template MCP tool.
type CreateTemplateTool struct {
	vault *vault.Vault
	tmpl  *template.Generator
	log   *zap.Logger
	now   func() time.Time
}

// NewCreateTemplateTool creates a CreateTemplateTool.
func NewCreateTemplateTool(v *vault.Vault, tmpl *template.Generator, log *zap.Logger) *CreateTemplateTool {
	return &CreateTemplateTool{vault: v, tmpl: tmpl, log: log, now: time.Now}
}

// Definition returns the MCP tool definition for create_entry_template.
func (t *CreateTemplateTool) Definition() mcp.Tool {
	return mcp.NewTool("create_entry_template",
		mcp.WithDescription(
			"Create a new diary entry template with reflection prompts synthesized from recent entries. "+
				"Sundays get a weekly synthesis template with a longer lookback.",
		),
		mcp.WithString("date",
			mcp.Description("Date for the entry in YYYY-MM-DD format. Defaults to today."),
		),
		mcp.WithString("focus",
			mcp.Description("Optional topic to focus every reflection prompt on (e.g. 'career', 'health')"),
		),
	)
}

// Handle processes the create_entry_template tool call.
func (t *CreateTemplateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := t.now()
	if arg := req.GetString("date", ""); arg != "" {
		parsed, ok := parseDate(arg)
		if !ok {
			return mcp.NewToolResultError(badDateMsg), nil
		}
		date = parsed
	}

	id := date.Format(dateLayout)
	if t.vault.Exists(date) {
		return mcp.NewToolResultText(fmt.Sprintf("Entry for %s already exists. Use read_entry to view it.", id)), nil
	}

	t.log.Info("generating entry template", zap.String("date", id))
	content := t.tmpl.Content(ctx, t.vault, date, req.GetString("focus", ""))

	return mcp.NewToolResultText(fmt.Sprintf("# %s\n\n%s", date.Format("Monday, January 02, 2006"), content)), nil
}
