// ABOUTME: FallbackHandler produces a context-aware degraded answer with bounded retries
// ABOUTME: Used when the primary pipeline is known unavailable rather than merely slow
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/verso-ai/verso/internal/util"
)

// fallbackExcerptLen bounds the context excerpt used for degraded answers
const fallbackExcerptLen = 600

// FallbackHandler answers from a trimmed context excerpt when the primary
// pipeline is unavailable. Unlike the generation client's single attempt,
// it retries under a fixed policy before degrading to a context-derived
// answer.
type FallbackHandler struct {
	client *Client
	policy util.RetryPolicy
	logger *log.Logger
}

// NewFallbackHandler creates a fallback handler sharing the generation client
func NewFallbackHandler(client *Client, policy util.RetryPolicy, logger *log.Logger) *FallbackHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &FallbackHandler{client: client, policy: policy, logger: logger}
}

// Answer builds a degraded answer for query from the given context excerpt.
// Always returns text: a model answer over the excerpt if any retry
// succeeds, otherwise the excerpt itself framed as a partial answer.
func (h *FallbackHandler) Answer(ctx context.Context, query, excerpt string) string {
	excerpt = trimExcerpt(excerpt)

	msgs := []Message{
		{Role: RoleSystem, Content: "Answer briefly using only the provided context. If the context is insufficient, say so."},
		{Role: RoleUser, Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", excerpt, query)},
	}

	var text string
	err := h.policy.Do(ctx, func() error {
		var genErr error
		text, genErr = h.client.Generate(ctx, msgs)
		return genErr
	})
	if err == nil {
		return text
	}

	h.logger.Error("fallback generation exhausted retries", "error", err)
	if excerpt == "" {
		return Apology
	}
	return "I couldn't generate a full answer right now. The most relevant information I found:\n\n" + excerpt
}

// trimExcerpt bounds the excerpt at a word boundary
func trimExcerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= fallbackExcerptLen {
		return s
	}
	cut := s[:fallbackExcerptLen]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
