package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/madebygps/obsidian-diary-mcp/internal/journal"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// SaveEntryTool handles the save_entry MCP tool.
type SaveEntryTool struct {
	vault      *vault.Vault
	engine     *journal.Engine
	maxRelated int
	log        *zap.Logger
}

// NewSaveEntryTool creates a SaveEntryTool.
func NewSaveEntryTool(v *vault.Vault, engine *journal.Engine, maxRelated int, log *zap.Logger) *SaveEntryTool {
	return &SaveEntryTool{vault: v, engine: engine, maxRelated: maxRelated, log: log}
}

// Definition returns the MCP tool definition for save_entry.
func (t *SaveEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("save_entry",
		mcp.WithDescription(
			"Save a diary entry. Related entries and topic tags are computed from the content "+
				"and appended as a Memory Links section, replacing any previous one.",
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date for the entry in YYYY-MM-DD format"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The diary entry content in markdown"),
		),
	)
}

// Handle processes the save_entry tool call.
func (t *SaveEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, ok := parseDate(req.GetString("date", ""))
	if !ok {
		return mcp.NewToolResultError(badDateMsg), nil
	}
	content := req.GetString("content", "")
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	id := date.Format(dateLayout)
	content = vault.StripLinkSections(content)

	related := t.engine.FindRelated(ctx, t.vault, content, id, t.maxRelated)
	tags := journal.TopicTags(t.engine.CachedThemes(ctx, content, id))
	final := vault.AppendMemoryLinks(content, related, tags)

	path := t.vault.PathFor(date)
	if err := t.vault.Write(path, final); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error saving entry: %v", err)), nil
	}
	t.log.Info("entry saved",
		zap.String("date", id),
		zap.Int("related", len(related)),
		zap.Int("tags", len(tags)))

	return mcp.NewToolResultText(linkSummary(fmt.Sprintf("✅ Entry saved to %s", path), related, tags)), nil
}

// linkSummary renders the backlink report both save_entry and
// update_entry_links return.
func linkSummary(header string, related, tags []string) string {
	var b strings.Builder
	b.WriteString(header + "\n")

	relatedStr := "none found"
	if len(related) > 0 {
		relatedStr = strings.Join(related, ", ")
	}
	fmt.Fprintf(&b, "\n🔗 Temporal connections: %s", relatedStr)

	if len(tags) > 0 {
		fmt.Fprintf(&b, "\n🏷️ Topic tags: %s", strings.Join(tags, " "))
	}
	return b.String()
}
