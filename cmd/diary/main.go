// Obsidian Diary MCP Server
//
// A Model Context Protocol server for managing an Obsidian diary vault:
// smart entry templates, automatic backlinks and topic tags, reflection
// prompt synthesis, and corpus-wide memory traces.
//
// Usage:
//
//	diary serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	diaryserver "github.com/madebygps/obsidian-diary-mcp/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("diary v%s\n", diaryserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := diaryserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Obsidian Diary v%s — MCP server for your diary vault

Usage:
  diary serve    Start the MCP server (stdio transport)

Configuration:
  Settings come from DIARY_* environment variables or
  ~/.config/diary-mcp/config.yaml (DIARY_VAULT_PATH, DIARY_LLM_MODEL, ...).

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "diary": {
        "command": "diary",
        "args": ["serve"]
      }
    }
  }
`, diaryserver.Version)
}
