// ABOUTME: Shared token estimation used for budget checks and prompt assembly
// ABOUTME: Heuristic rune count, no tokenizer dependency
package core

import "unicode/utf8"

// runesPerToken approximates the average token width of English prose.
const runesPerToken = 4

// EstimateTokens returns a heuristic token count for text. Every budget
// decision in prompt assembly goes through this one counter so the pieces
// that were measured are the pieces that get assembled.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + runesPerToken - 1) / runesPerToken
}
