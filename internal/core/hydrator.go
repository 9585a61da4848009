// ABOUTME: Prompt assembler packing instruction, retrieved context, history, and query
// ABOUTME: Token-budgeted; history fills newest-first, context and query are never dropped
package core

import (
	"fmt"
	"strings"

	"github.com/verso-ai/verso/internal/llm"
	"github.com/verso-ai/verso/internal/models"
)

const systemInstruction = "You are a helpful assistant. Answer the user's question " +
	"using the provided context. If the context does not contain the answer, say so " +
	"briefly instead of guessing."

// Hydrator assembles generation prompts under a token budget. The fixed
// instruction draws from a reserved allotment; retrieved context and the
// current query are always included; conversation history fills whatever
// budget remains, newest turns first.
type Hydrator struct {
	budget   int
	reserved int
}

// NewHydrator creates a prompt assembler with the given total budget and
// the allotment reserved for the fixed instruction text.
func NewHydrator(budget, reserved int) *Hydrator {
	return &Hydrator{budget: budget, reserved: reserved}
}

// BuildMessages assembles role-tagged messages: a system message carrying
// the instruction and retrieved context, the history turns that fit the
// budget in chronological order, then the query as the final user message.
func (h *Hydrator) BuildMessages(query string, results []models.SearchResult, history []models.Turn) []llm.Message {
	contextBlock := formatContext(results)

	system := systemInstruction
	if contextBlock != "" {
		system += "\n\nContext:\n" + contextBlock
	}

	msgs := []llm.Message{{Role: llm.RoleSystem, Content: system}}
	for _, t := range h.selectHistory(contextBlock, query, history) {
		role := llm.RoleUser
		if t.Role == models.RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Content})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: query})
}

// BuildPrompt flattens the same assembly into a single string for models
// that take one untagged prompt.
func (h *Hydrator) BuildPrompt(query string, results []models.SearchResult, history []models.Turn) string {
	var b strings.Builder
	b.WriteString(systemInstruction)

	if contextBlock := formatContext(results); contextBlock != "" {
		b.WriteString("\n\nContext:\n")
		b.WriteString(contextBlock)
	}

	kept := h.selectHistory(formatContext(results), query, history)
	if len(kept) > 0 {
		b.WriteString("\n\nConversation so far:\n")
		for _, t := range kept {
			label := "User"
			if t.Role == models.RoleAssistant {
				label = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", label, t.Content)
		}
	}

	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)
	b.WriteString("\nAnswer:")
	return b.String()
}

// selectHistory returns the newest turns that fit the remaining budget,
// in chronological order. History is the only droppable part of the
// prompt: context and query are charged first and always kept.
func (h *Hydrator) selectHistory(contextBlock, query string, history []models.Turn) []models.Turn {
	remaining := h.budget - h.reserved - EstimateTokens(contextBlock) - EstimateTokens(query)

	var kept []models.Turn
	for i := len(history) - 1; i >= 0; i-- {
		cost := EstimateTokens(history[i].Content)
		if cost > remaining {
			break
		}
		remaining -= cost
		kept = append(kept, history[i])
	}

	// Reverse back to chronological order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

func formatContext(results []models.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%d] %s\n%s\n", i+1, r.Chunk.Source, r.Chunk.Content)
	}
	return b.String()
}
