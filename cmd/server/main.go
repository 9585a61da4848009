// ABOUTME: Main entry point for the answering MCP server with stdio transport
// ABOUTME: Builds the engine from environment config and registers all tools
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/verso-ai/verso/internal/config"
	"github.com/verso-ai/verso/internal/core"
	"github.com/verso-ai/verso/internal/mcp"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found", "error", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Warn("OPENAI_API_KEY not set, answers will use degraded retrieval and generation")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	engine, err := core.Build(cfg, log.Default())
	if err != nil {
		log.Fatal("failed to build answering engine", "error", err)
	}
	defer engine.Close()

	server := mcpserver.NewMCPServer(
		"Verso Answering Engine",
		"0.1.0",
	)
	mcp.RegisterTools(server, engine)

	log.Info("MCP server starting on stdio")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatal("server error", "error", err)
	}
}
