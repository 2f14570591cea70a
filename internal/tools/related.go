package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/madebygps/obsidian-diary-mcp/internal/journal"
	"github.com/madebygps/obsidian-diary-mcp/internal/vault"
)

// FindRelatedTool handles the find_related MCP tool.
type FindRelatedTool struct {
	vault      *vault.Vault
	engine     *journal.Engine
	maxRelated int
}

// NewFindRelatedTool creates a FindRelatedTool.
func NewFindRelatedTool(v *vault.Vault, engine *journal.Engine, maxRelated int) *FindRelatedTool {
	return &FindRelatedTool{vault: v, engine: engine, maxRelated: maxRelated}
}

// Definition returns the MCP tool definition for find_related.
func (t *FindRelatedTool) Definition() mcp.Tool {
	return mcp.NewTool("find_related",
		mcp.WithDescription(
			"Find entries thematically related to a given entry or to free-form content. "+
				"Provide either 'date' or 'content'.",
		),
		mcp.WithString("date",
			mcp.Description("Date of an existing entry in YYYY-MM-DD format"),
		),
		mcp.WithString("content",
			mcp.Description("Free-form content to match against the corpus instead of an entry"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Max related entries to return (default: 5)"),
		),
	)
}

// Handle processes the find_related tool call.
func (t *FindRelatedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	excludeID := ""

	if dateArg := req.GetString("date", ""); dateArg != "" {
		date, ok := parseDate(dateArg)
		if !ok {
			return mcp.NewToolResultError(badDateMsg), nil
		}
		if !t.vault.Exists(date) {
			return mcp.NewToolResultText(fmt.Sprintf("No entry found for %s", date.Format(dateLayout))), nil
		}
		content = t.vault.Read(t.vault.PathFor(date))
		if vault.IsReadError(content) {
			return mcp.NewToolResultError(content), nil
		}
		excludeID = date.Format(dateLayout)
	}
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("provide 'date' or 'content'"), nil
	}

	maxResults := intArg(req, "max_results", t.maxRelated)
	related := t.engine.FindRelated(ctx, t.vault, content, excludeID, maxResults)
	if len(related) == 0 {
		return mcp.NewToolResultText("No related entries found - this represents novel cognitive territory."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔗 Found %d related entries:\n\n", len(related))
	for _, link := range related {
		b.WriteString("- " + link + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
