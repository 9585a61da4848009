// ABOUTME: Retrieval engine orchestrating embedder, vector index, and keyword fallback
// ABOUTME: Three-tier chain; never errors for a well-formed query
package retrieve

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/verso-ai/verso/internal/embed"
	"github.com/verso-ai/verso/internal/index"
	"github.com/verso-ai/verso/internal/models"
)

// Engine retrieves the chunks most relevant to a query. It owns the
// embedder context object and the similarity index; only the ingestion
// path mutates the index.
type Engine struct {
	embedder *embed.Adaptive
	index    *index.Index
	topK     int
	logger   *log.Logger
}

// New creates a retrieval engine
func New(embedder *embed.Adaptive, ix *index.Index, topK int, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{embedder: embedder, index: ix, topK: topK, logger: logger}
}

// Embedder exposes the embedding context object owned by this engine
func (e *Engine) Embedder() *embed.Adaptive {
	return e.embedder
}

// Index exposes the similarity index owned by this engine
func (e *Engine) Index() *index.Index {
	return e.index
}

// Retrieve returns up to topK scored chunks for the query. An empty corpus
// yields an empty result; failures degrade through the keyword tier.
func (e *Engine) Retrieve(ctx context.Context, query string) []models.SearchResult {
	chunks := e.index.Chunks()
	if len(chunks) == 0 {
		return nil
	}

	// Fallback-mode embeddings are non-semantic, so vectors built by the
	// model tier would not match them; go straight to the lexical tier.
	if e.embedder.InFallback() {
		e.logger.Debug("embedder in fallback mode, using keyword search")
		return index.KeywordSearch(query, chunks, e.topK)
	}

	results, err := e.vectorSearch(ctx, query)
	if err != nil {
		e.logger.Warn("vector search failed, falling back to keyword search", "error", err)
		return index.KeywordSearch(query, chunks, e.topK)
	}
	if len(results) == 0 {
		return index.KeywordSearch(query, chunks, e.topK)
	}
	return results
}

func (e *Engine) vectorSearch(ctx context.Context, query string) ([]models.SearchResult, error) {
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return e.index.Search(vec, e.topK)
}
