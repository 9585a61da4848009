// ABOUTME: SearchResult pairs a retrieved chunk with its relevance score
// ABOUTME: Results are transient and never persisted
package models

// SearchResult is a retrieved chunk with a score in [0,1]
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
