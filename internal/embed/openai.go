// ABOUTME: OpenAIStrategy generates model-backed embeddings via the OpenAI API
// ABOUTME: Client is lazily created; input is truncated and encoded one item per call
package embed

import (
	"context"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIStrategy embeds text with an OpenAI embedding model.
// The underlying client is created on first use and can be released
// under memory pressure; the next call re-creates it.
type OpenAIStrategy struct {
	apiKey      string
	model       openai.EmbeddingModel
	dim         int
	maxInputLen int

	mu     sync.Mutex
	client *openai.Client
}

// NewOpenAIStrategy creates a model-backed embedder
func NewOpenAIStrategy(apiKey, model string, dim, maxInputLen int) *OpenAIStrategy {
	return &OpenAIStrategy{
		apiKey:      apiKey,
		model:       openai.EmbeddingModel(model),
		dim:         dim,
		maxInputLen: maxInputLen,
	}
}

// Embed encodes a single item per call to bound peak memory
func (s *OpenAIStrategy) Embed(ctx context.Context, text string) ([]float64, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	if len(text) > s.maxInputLen {
		text = text[:s.maxInputLen]
	}

	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: s.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned for input")
	}

	embedding32 := resp.Data[0].Embedding
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}
	return embedding64, nil
}

// Dimensions returns the vector dimensionality
func (s *OpenAIStrategy) Dimensions() int {
	return s.dim
}

// Name identifies the strategy for logging
func (s *OpenAIStrategy) Name() string {
	return string(s.model)
}

// Release drops the lazily created client so it can be collected
func (s *OpenAIStrategy) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = nil
}

func (s *OpenAIStrategy) getClient() (*openai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.apiKey == "" {
		return nil, ErrModelUnavailable
	}
	if s.client == nil {
		s.client = openai.NewClient(s.apiKey)
	}
	return s.client, nil
}
