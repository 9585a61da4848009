// ABOUTME: Strategy is the embedding contract shared by model-backed and fallback modes
// ABOUTME: Both produce fixed-dimension vectors for the similarity index
package embed

import (
	"context"
	"errors"
)

// ErrModelUnavailable indicates the model-backed strategy cannot be used
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Strategy turns text into a fixed-dimension vector
type Strategy interface {
	// Embed returns the vector for a single piece of text
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimensions returns the vector dimensionality
	Dimensions() int

	// Name identifies the strategy for logging
	Name() string
}
