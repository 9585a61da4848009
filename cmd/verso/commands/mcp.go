// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to use the answering engine via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/verso-ai/verso/internal/mcp"
)

var mcpCorpusDir string

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Verso as an MCP (Model Context Protocol) server over stdio,
exposing ask, ingest_corpus, search_corpus, and clear_history
tools to agent hosts.`,
		RunE: runMCP,
		Example: `  # Start MCP server with a pre-ingested corpus
  verso mcp --corpus ./docs

  # Configure in an MCP host's config file:
  # {
  #   "mcpServers": {
  #     "verso": {
  #       "command": "verso",
  #       "args": ["mcp", "--corpus", "/path/to/docs"]
  #     }
  #   }
  # }`,
	}

	cmd.Flags().StringVar(&mcpCorpusDir, "corpus", "", "Directory of documents to ingest at startup (optional)")
	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !quiet {
		log.Debug("no .env file found", "error", err)
	}
	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Warn("OPENAI_API_KEY not set, answers will use degraded retrieval and generation")
	}

	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	if mcpCorpusDir != "" {
		chunks, err := engine.Ingest(cmd.Context(), mcpCorpusDir)
		if err != nil {
			return fmt.Errorf("ingesting corpus: %w", err)
		}
		log.Info("corpus ready", "chunks", chunks)
	}

	server := mcpserver.NewMCPServer(
		"Verso Answering Engine",
		"0.1.0",
	)
	mcp.RegisterTools(server, engine)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Info("MCP server starting on stdio")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Info("shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
