// ABOUTME: Tests for the three-tier retrieval fallback chain
// ABOUTME: Verifies vector tier, keyword degradation, and empty-corpus behavior
package retrieve

import (
	"context"
	"testing"

	"github.com/verso-ai/verso/internal/embed"
	"github.com/verso-ai/verso/internal/index"
	"github.com/verso-ai/verso/internal/models"
)

const testDim = 64

// newFallbackOnlyEngine builds an engine whose embedder has no model,
// with the hash tier indexing the given texts.
func newFallbackOnlyEngine(t *testing.T, texts []string, topK int) *Engine {
	t.Helper()

	embedder := embed.NewAdaptive(embed.Options{
		Fallback:    embed.NewHashStrategy(testDim),
		Probe:       func() (float64, error) { return 0, nil },
		ThresholdMB: 1000,
	})
	ix := index.New(testDim)

	chunks := make([]models.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.NewChunk(text, "corpus.txt", i)
	}
	vectors, err := embedder.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if err := ix.Add(vectors, chunks); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	return New(embedder, ix, topK, nil)
}

func TestRetrieve_EmptyCorpus(t *testing.T) {
	engine := newFallbackOnlyEngine(t, nil, 3)

	results := engine.Retrieve(context.Background(), "any query")
	if len(results) != 0 {
		t.Errorf("empty corpus returned %d results, want 0", len(results))
	}
}

func TestRetrieve_KeywordTierInFallbackMode(t *testing.T) {
	engine := newFallbackOnlyEngine(t, []string{
		"Loan rate at bank X is 5% for 12 months.",
		"Pasta should boil for eleven minutes.",
	}, 2)

	// No model configured, so the engine must use the keyword tier
	results := engine.Retrieve(context.Background(), "What is the 12-month rate at bank X?")
	if len(results) == 0 {
		t.Fatal("expected keyword-tier results")
	}
	if results[0].Chunk.Position != 0 {
		t.Errorf("top chunk position = %d, want the loan chunk", results[0].Chunk.Position)
	}
	if results[0].Score <= 0 {
		t.Errorf("top score = %f, want > 0", results[0].Score)
	}
}

func TestRetrieve_VectorTierExactDuplicate(t *testing.T) {
	// Hash embeddings are deterministic, so a verbatim query lands exactly
	// on its chunk's vector even in fallback mode. Force the vector tier by
	// giving the adaptive embedder the hash strategy as its "model" too.
	hash := embed.NewHashStrategy(testDim)
	embedder := embed.NewAdaptive(embed.Options{
		Model:       hash,
		Fallback:    hash,
		Probe:       func() (float64, error) { return 0, nil },
		ThresholdMB: 1000,
	})
	ix := index.New(testDim)

	texts := []string{"Loan rate at bank X is 5% for 12 months.", "Something else entirely."}
	chunks := make([]models.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.NewChunk(text, "corpus.txt", i)
	}
	vectors, err := embedder.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if err := ix.Add(vectors, chunks); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	engine := New(embedder, ix, 2, nil)
	results := engine.Retrieve(context.Background(), texts[0])
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Chunk.Position != 0 {
		t.Errorf("top chunk position = %d, want 0", results[0].Chunk.Position)
	}
	if results[0].Score != 1 {
		t.Errorf("verbatim query score = %f, want 1", results[0].Score)
	}
}

func TestRetrieve_NeverErrors(t *testing.T) {
	engine := newFallbackOnlyEngine(t, []string{"some indexed content here"}, 3)

	queries := []string{"", "   ", "the the the", "no overlap whatsoever zzz"}
	for _, q := range queries {
		// Must not panic and must return a (possibly empty) result set
		_ = engine.Retrieve(context.Background(), q)
	}
}

func TestRetrieve_TopKRespected(t *testing.T) {
	texts := make([]string, 9)
	for i := range texts {
		texts[i] = "repeated corpus entry about loans and rates"
	}
	engine := newFallbackOnlyEngine(t, texts, 4)

	results := engine.Retrieve(context.Background(), "loans rates")
	if len(results) > 4 {
		t.Errorf("got %d results, want at most 4", len(results))
	}
}
