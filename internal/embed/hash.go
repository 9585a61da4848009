// ABOUTME: HashStrategy derives deterministic vectors from a content hash
// ABOUTME: Identical content yields bit-identical vectors; distinct content is near-orthogonal
package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// HashStrategy is the deterministic fallback embedder. It seeds a PCG
// generator with the SHA-256 of the content and draws a normal vector,
// then L2-normalizes it.
type HashStrategy struct {
	dim int
}

// NewHashStrategy creates a fallback embedder producing dim-length vectors
func NewHashStrategy(dim int) *HashStrategy {
	return &HashStrategy{dim: dim}
}

// Embed never fails and never blocks on I/O
func (h *HashStrategy) Embed(_ context.Context, text string) ([]float64, error) {
	sum := sha256.Sum256([]byte(text))
	seed1 := binary.BigEndian.Uint64(sum[0:8])
	seed2 := binary.BigEndian.Uint64(sum[8:16])
	rng := rand.New(rand.NewPCG(seed1, seed2))

	vec := make([]float64, h.dim)
	var norm float64
	for i := range vec {
		vec[i] = rng.NormFloat64()
		norm += vec[i] * vec[i]
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}

// Dimensions returns the vector dimensionality
func (h *HashStrategy) Dimensions() int {
	return h.dim
}

// Name identifies the strategy for logging
func (h *HashStrategy) Name() string {
	return "hash-fallback"
}
