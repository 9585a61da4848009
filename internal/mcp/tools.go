// ABOUTME: MCP tool definitions and registration for the answering server
// ABOUTME: Defines JSON schemas for the ask, ingest, search, and history tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/verso-ai/verso/internal/core"
)

// identityProperties are the optional caller identity arguments shared by
// the conversational tools.
var identityProperties = map[string]interface{}{
	"user_id": map[string]interface{}{
		"type":        "string",
		"description": "Stable user identifier; strongest identity signal",
	},
	"device_id": map[string]interface{}{
		"type":        "string",
		"description": "Device identifier, used when no user_id is given",
	},
	"session_id": map[string]interface{}{
		"type":        "string",
		"description": "Session identifier, used when no user_id or device_id is given",
	},
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, engine *core.Engine) *Handlers {
	handlers := &Handlers{engine: engine}

	askProps := map[string]interface{}{
		"query": map[string]interface{}{
			"type":        "string",
			"description": "Question to answer from the ingested corpus",
		},
	}
	for k, v := range identityProperties {
		askProps[k] = v
	}

	// 1. ask - answer a question grounded in the ingested corpus
	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the ingested corpus and the caller's recent conversation history. Always returns text, degrading gracefully when the model is unavailable.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: askProps,
			Required:   []string{"query"},
		},
	}, handlers.Ask)

	// 2. ingest_corpus - rebuild the index from a directory of documents
	server.AddTool(mcp.Tool{
		Name:        "ingest_corpus",
		Description: "Ingest every supported document (txt, md, pdf) under a directory, replacing the current corpus index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"directory": map[string]interface{}{
					"type":        "string",
					"description": "Directory to ingest documents from",
				},
			},
			Required: []string{"directory"},
		},
	}, handlers.IngestCorpus)

	// 3. search_corpus - retrieval without generation
	server.AddTool(mcp.Tool{
		Name:        "search_corpus",
		Description: "Search the ingested corpus and return the most relevant chunks with scores, without invoking the language model.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchCorpus)

	clearProps := map[string]interface{}{}
	for k, v := range identityProperties {
		clearProps[k] = v
	}

	// 4. clear_history - drop the caller's conversation history
	server.AddTool(mcp.Tool{
		Name:        "clear_history",
		Description: "Clear the stored conversation history for the resolved caller identity.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: clearProps,
		},
	}, handlers.ClearHistory)

	return handlers
}
