// ABOUTME: Tests for the token-budgeted prompt assembler
// ABOUTME: Verifies budget ceiling, newest-first history fill, and required sections
package core

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/verso-ai/verso/internal/llm"
	"github.com/verso-ai/verso/internal/models"
)

func resultFixture(content string) []models.SearchResult {
	return []models.SearchResult{
		{Chunk: models.NewChunk(content, "doc.md", 0), Score: 0.9},
	}
}

func historyFixture(n int, width int) []models.Turn {
	turns := make([]models.Turn, 0, n)
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		turns = append(turns, models.Turn{
			TurnID:    fmt.Sprintf("t%03d", i),
			Role:      role,
			Content:   fmt.Sprintf("turn-%03d %s", i, strings.Repeat("x", width)),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return turns
}

func totalTokens(msgs []llm.Message) int {
	total := 0
	for _, m := range msgs {
		total += EstimateTokens(m.Content)
	}
	return total
}

func TestBuildMessages_NeverExceedsBudget(t *testing.T) {
	const budget, reserved = 1000, 200
	h := NewHydrator(budget, reserved)
	ctxBlock := resultFixture(strings.Repeat("relevant fact. ", 40))

	for _, n := range []int{0, 1, 10, 100, 500} {
		msgs := h.BuildMessages("what is the rate?", ctxBlock, historyFixture(n, 80))
		if got := totalTokens(msgs); got > budget {
			t.Errorf("history=%d: assembled %d tokens, budget is %d", n, got, budget)
		}
	}
}

func TestBuildMessages_KeepsNewestHistory(t *testing.T) {
	// Budget fits only a couple of turns beyond context and query.
	h := NewHydrator(300, 100)
	history := historyFixture(20, 120)

	msgs := h.BuildMessages("q", resultFixture("ctx"), history)

	var kept []string
	for _, m := range msgs[1 : len(msgs)-1] {
		kept = append(kept, m.Content)
	}
	if len(kept) == 0 {
		t.Fatal("no history kept, want at least the newest turn")
	}
	if !strings.HasPrefix(kept[len(kept)-1], "turn-019") {
		t.Errorf("last kept turn = %q, want the newest turn", kept[len(kept)-1])
	}
	for _, c := range kept {
		if strings.HasPrefix(c, "turn-000") {
			t.Error("oldest turn survived a tight budget")
		}
	}
	// Chronological order among kept turns.
	for i := 1; i < len(kept); i++ {
		if kept[i-1] >= kept[i] {
			t.Errorf("history out of order: %q before %q", kept[i-1], kept[i])
		}
	}
}

func TestBuildMessages_ContextAndQueryAlwaysPresent(t *testing.T) {
	// Budget barely above reserved: no room for anything droppable.
	h := NewHydrator(101, 100)
	msgs := h.BuildMessages("the question", resultFixture("the indexed fact"), historyFixture(5, 200))

	if msgs[0].Role != llm.RoleSystem || !strings.Contains(msgs[0].Content, "the indexed fact") {
		t.Error("system message missing retrieved context")
	}
	last := msgs[len(msgs)-1]
	if last.Role != llm.RoleUser || last.Content != "the question" {
		t.Errorf("final message = %+v, want the user query", last)
	}
}

func TestBuildMessages_NoContextOmitsBlock(t *testing.T) {
	h := NewHydrator(1000, 200)
	msgs := h.BuildMessages("q", nil, nil)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want system plus query", len(msgs))
	}
	if strings.Contains(msgs[0].Content, "Context:") {
		t.Error("system message carries an empty context block")
	}
}

func TestBuildPrompt_ContainsSections(t *testing.T) {
	h := NewHydrator(1000, 200)
	history := []models.Turn{
		{Role: models.RoleUser, Content: "earlier question", Timestamp: time.Now()},
		{Role: models.RoleAssistant, Content: "earlier answer", Timestamp: time.Now()},
	}

	prompt := h.BuildPrompt("current question", resultFixture("grounding text"), history)

	for _, want := range []string{
		"Context:", "grounding text",
		"User: earlier question", "Assistant: earlier answer",
		"Question: current question", "Answer:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q-len-%d) = %d, want %d", tt.text[:min(4, len(tt.text))], len(tt.text), got, tt.want)
		}
	}
}
