// Package tools provides the MCP tool handlers for the diary server.
//
// Each tool handler follows the same pattern:
// - A struct with dependencies (vault, engine, ...) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Handlers never return Go errors for user mistakes: a bad date or a
// missing entry comes back as a tool error result the client can show.
package tools

import (
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

const dateLayout = "2006-01-02"

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// parseDate parses a YYYY-MM-DD tool argument.
func parseDate(s string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, s)
	return d, err == nil
}

const badDateMsg = "Error: Date must be in YYYY-MM-DD format"
