// ABOUTME: In-memory similarity index over L2-normalized vectors
// ABOUTME: Append + exhaustive top-k search only; rebuild is clear then re-add
package index

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/verso-ai/verso/internal/models"
)

// Index is an insertion-ordered in-memory vector store. Dimensionality is
// fixed for the index lifetime. Only the ingestion path may mutate it.
type Index struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float64
	chunks  []models.Chunk
}

// New creates an index for vectors of the given dimensionality
func New(dim int) *Index {
	return &Index{dim: dim}
}

// Add appends normalized copies of vectors with their chunks.
// Every vector maps to exactly one chunk.
func (ix *Index) Add(vectors [][]float64, chunks []models.Chunk) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("vector/chunk count mismatch: %d vs %d", len(vectors), len(chunks))
	}
	for i, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("vector %d has dimension %d, index expects %d", i, len(v), ix.dim)
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i, v := range vectors {
		ix.vectors = append(ix.vectors, normalize(v))
		ix.chunks = append(ix.chunks, chunks[i])
	}
	return nil
}

// Search returns the top-k chunks by similarity to the query vector.
// Squared-L2 distance over normalized vectors is monotonic with cosine
// similarity; it is converted to similarity = 1/(1+distance).
func (ix *Index) Search(query []float64, k int) ([]models.SearchResult, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query has dimension %d, index expects %d", len(query), ix.dim)
	}
	q := normalize(query)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	results := make([]models.SearchResult, 0, len(ix.vectors))
	for i, v := range ix.vectors {
		d := squaredL2(q, v)
		results = append(results, models.SearchResult{
			Chunk: ix.chunks[i],
			Score: 1 / (1 + d),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Clear resets the index to empty
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.vectors = nil
	ix.chunks = nil
}

// Count returns the number of indexed vectors
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// Chunks returns a copy of the indexed chunks in insertion order
func (ix *Index) Chunks() []models.Chunk {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]models.Chunk, len(ix.chunks))
	copy(out, ix.chunks)
	return out
}

// squaredL2 computes the squared Euclidean distance
func squaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// normalize returns a unit-length copy of v
func normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make([]float64, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
