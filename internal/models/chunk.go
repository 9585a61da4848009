// ABOUTME: Chunk represents a bounded fragment of corpus text for retrieval
// ABOUTME: Identity is (Source, Position); chunks are immutable after creation
package models

import "fmt"

// Chunk is the atomic retrievable unit of corpus text
type Chunk struct {
	Content  string `json:"content"`
	Source   string `json:"source"`
	Position int    `json:"position"`
	Length   int    `json:"length"`
}

// NewChunk creates a chunk with its length metadata filled in
func NewChunk(content, source string, position int) Chunk {
	return Chunk{
		Content:  content,
		Source:   source,
		Position: position,
		Length:   len(content),
	}
}

// ID returns the chunk identity derived from source and position
func (c Chunk) ID() string {
	return fmt.Sprintf("%s#%d", c.Source, c.Position)
}
