// ABOUTME: Chunker splits raw text into bounded, coherent chunks for indexing
// ABOUTME: Packs whole paragraphs greedily up to a max length, never splitting one
package chunker

import (
	"strings"

	"github.com/verso-ai/verso/internal/models"
)

// Chunker splits normalized text on paragraph boundaries
type Chunker struct {
	maxLen int
	minLen int
}

// New creates a Chunker with the given length bounds
func New(maxLen, minLen int) *Chunker {
	return &Chunker{maxLen: maxLen, minLen: minLen}
}

// Split chunks text from the named source. Consecutive paragraphs are packed
// into one chunk while they fit under maxLen; a chunk is flushed before it
// would overflow. Chunks shorter than minLen are discarded, except a final
// non-empty trailing chunk which is always kept. A single paragraph longer
// than maxLen becomes its own oversized chunk.
func (c *Chunker) Split(text, source string) []models.Chunk {
	paragraphs := splitParagraphs(text)

	var chunks []models.Chunk
	var buffer []string
	var bufLen int

	flush := func(final bool) {
		if len(buffer) == 0 {
			return
		}
		content := strings.Join(buffer, "\n\n")
		buffer = buffer[:0]
		bufLen = 0
		if len(content) < c.minLen && !final {
			return
		}
		chunks = append(chunks, models.NewChunk(content, source, len(chunks)))
	}

	for _, para := range paragraphs {
		// +2 accounts for the paragraph separator when joined
		joined := bufLen + len(para)
		if len(buffer) > 0 {
			joined += 2
		}
		if len(buffer) > 0 && joined > c.maxLen {
			flush(false)
		}
		buffer = append(buffer, para)
		if bufLen > 0 {
			bufLen += 2
		}
		bufLen += len(para)
	}
	flush(true)

	return chunks
}

// splitParagraphs normalizes whitespace and splits on blank lines
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, raw := range strings.Split(text, "\n\n") {
		para := normalizeWhitespace(raw)
		if para != "" {
			paragraphs = append(paragraphs, para)
		}
	}
	return paragraphs
}

// normalizeWhitespace collapses runs of whitespace to single spaces
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
