// ABOUTME: MCP tool handler implementations for the answering server
// ABOUTME: Thin adapters from tool arguments to answering engine calls
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/verso-ai/verso/internal/core"
	"github.com/verso-ai/verso/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	engine *core.Engine
}

func identityFromRequest(request mcp.CallToolRequest) models.Identity {
	return models.Identity{
		UserID:    request.GetString("user_id", ""),
		DeviceID:  request.GetString("device_id", ""),
		SessionID: request.GetString("session_id", ""),
	}
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	answer, err := h.engine.Answer(ctx, query, identityFromRequest(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ask failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}

// IngestCorpus handles the ingest_corpus tool
func (h *Handlers) IngestCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := request.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError("directory argument is required and must be a string"), nil
	}

	chunks, err := h.engine.Ingest(ctx, dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"directory":      dir,
		"chunks_indexed": chunks,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchCorpus handles the search_corpus tool
func (h *Handlers) SearchCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	results := h.engine.Search(ctx, query)
	matches := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		matches = append(matches, map[string]interface{}{
			"source":   r.Chunk.Source,
			"position": r.Chunk.Position,
			"score":    r.Score,
			"content":  r.Chunk.Content,
		})
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"query":   query,
		"matches": matches,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ClearHistory handles the clear_history tool
func (h *Handlers) ClearHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	who := identityFromRequest(request)
	if err := h.engine.ClearHistory(who); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clear history: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"identity": who.Resolve(),
		"cleared":  true,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
