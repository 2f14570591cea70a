package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/journal"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// UpdateLinksTool handles the update_entry_links MCP tool.
type UpdateLinksTool struct {
	vault      *vault.Vault
	engine     *journal.Engine
	maxRelated int
	log        *zap.Logger
}

// NewUpdateLinksTool creates an UpdateLinksTool.
func NewUpdateLinksTool(v *vault.Vault, engine *journal.Engine, maxRelated int, log *zap.Logger) *UpdateLinksTool {
	return &UpdateLinksTool{vault: v, engine: engine, maxRelated: maxRelated, log: log}
}

// Definition returns the MCP tool definition for update_entry_links.
func (t *UpdateLinksTool) Definition() mcp.Tool {
	return mcp.NewTool("update_entry_links",
		mcp.WithDescription(
			"Recompute the Memory Links section of an existing entry from its current content.",
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date of the entry in YYYY-MM-DD format"),
		),
	)
}

// Handle processes the update_entry_links tool call.
func (t *UpdateLinksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, ok := parseDate(req.GetString("date", ""))
	if !ok {
		return mcp.NewToolResultError(badDateMsg), nil
	}
	id := date.Format(dateLayout)
	if !t.vault.Exists(date) {
		return mcp.NewToolResultText(fmt.Sprintf("No entry found for %s", id)), nil
	}

	path := t.vault.PathFor(date)
	content := t.vault.Read(path)
	if vault.IsReadError(content) {
		return mcp.NewToolResultError(content), nil
	}
	content = vault.StripLinkSections(content)

	related := t.engine.FindRelated(ctx, t.vault, content, id, t.maxRelated)
	tags := journal.TopicTags(t.engine.CachedThemes(ctx, content, id))

	if err := t.vault.Write(path, vault.AppendMemoryLinks(content, related, tags)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error updating entry: %v", err)), nil
	}
	t.log.Info("entry links updated", zap.String("date", id), zap.Int("related", len(related)))

	return mcp.NewToolResultText(linkSummary(fmt.Sprintf("✅ Memory links updated for %s", id), related, tags)), nil
}
