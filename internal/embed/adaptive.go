// ABOUTME: Adaptive selects between model-backed and deterministic embedding by memory pressure
// ABOUTME: Owns the mode flag, the content-hash vector cache, and the injected probe
package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Mode is the embedding mode in effect
type Mode int

const (
	// ModeModel uses the model-backed strategy
	ModeModel Mode = iota
	// ModeFallback uses the deterministic hash strategy
	ModeFallback
)

func (m Mode) String() string {
	if m == ModeFallback {
		return "fallback"
	}
	return "model"
}

// Options configures an Adaptive embedder
type Options struct {
	Model       Strategy // may be nil when no model is configured
	Fallback    Strategy
	Probe       ProbeFunc
	ThresholdMB float64
	// Cooldown keeps the embedder in fallback mode for a fixed period after
	// a threshold breach, so the mode cannot flip on every call near the
	// threshold. Zero restores a pure instantaneous check.
	Cooldown time.Duration
	Logger   *log.Logger
}

// Adaptive is the embedding front end. The mode may change between calls
// but is fixed for the duration of a single batch.
type Adaptive struct {
	model       Strategy
	fallback    Strategy
	probe       ProbeFunc
	thresholdMB float64
	cooldown    time.Duration
	logger      *log.Logger

	mu            sync.Mutex
	mode          Mode
	forced        bool
	fallbackUntil time.Time
	cache         map[string][]float64
}

// releaser is implemented by strategies holding a droppable model handle
type releaser interface {
	Release()
}

// NewAdaptive creates an Adaptive embedder
func NewAdaptive(opts Options) *Adaptive {
	if opts.Probe == nil {
		opts.Probe = ProcessMemoryMB
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	a := &Adaptive{
		model:       opts.Model,
		fallback:    opts.Fallback,
		probe:       opts.Probe,
		thresholdMB: opts.ThresholdMB,
		cooldown:    opts.Cooldown,
		logger:      opts.Logger,
		cache:       make(map[string][]float64),
	}
	if a.model == nil {
		a.mode = ModeFallback
	}
	return a
}

// Dimensions returns the vector dimensionality shared by both strategies
func (a *Adaptive) Dimensions() int {
	return a.fallback.Dimensions()
}

// InFallback reports whether the embedder is currently in fallback mode
func (a *Adaptive) InFallback() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectMode() == ModeFallback
}

// ForceFallback pins the embedder to fallback mode for the rest of its
// lifetime, used when the model is known unavailable rather than merely slow
func (a *Adaptive) ForceFallback() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forced = true
	a.enterFallback()
}

// ClearCache drops every cached vector
func (a *Adaptive) ClearCache() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = make(map[string][]float64)
}

// Embed returns the vector for text, consulting the cache first.
// Identical content is a cache hit regardless of mode.
func (a *Adaptive) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := a.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds every item under a single mode decision. A failure on
// one item inside model-backed encoding degrades that item to the
// deterministic fallback; the rest of the batch is unaffected.
func (a *Adaptive) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	a.mu.Lock()
	mode := a.selectMode()
	a.mu.Unlock()

	strategy := a.fallback
	if mode == ModeModel {
		strategy = a.model
	}

	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		key := cacheKey(text)

		a.mu.Lock()
		cached, ok := a.cache[key]
		a.mu.Unlock()
		if ok {
			vectors[i] = cached
			continue
		}

		vec, err := strategy.Embed(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.logger.Warn("embedding failed for item, degrading to fallback",
				"strategy", strategy.Name(), "item", i, "error", err)
			vec, err = a.fallback.Embed(ctx, text)
			if err != nil {
				return nil, err
			}
		}

		a.mu.Lock()
		a.cache[key] = vec
		a.mu.Unlock()
		vectors[i] = vec
	}
	return vectors, nil
}

// selectMode decides the mode for the next operation. Caller holds a.mu.
func (a *Adaptive) selectMode() Mode {
	if a.model == nil || a.forced {
		return ModeFallback
	}
	if a.cooldown > 0 && time.Now().Before(a.fallbackUntil) {
		return ModeFallback
	}

	memMB, err := a.probe()
	if err != nil {
		// Probe failure keeps the current mode rather than guessing
		return a.mode
	}
	if memMB > a.thresholdMB {
		a.logger.Warn("memory threshold exceeded, switching to fallback embedding",
			"memory_mb", memMB, "threshold_mb", a.thresholdMB)
		a.enterFallback()
		return ModeFallback
	}

	a.mode = ModeModel
	return ModeModel
}

// enterFallback flips the mode and releases the loaded model. Caller holds a.mu.
func (a *Adaptive) enterFallback() {
	a.mode = ModeFallback
	a.fallbackUntil = time.Now().Add(a.cooldown)
	if r, ok := a.model.(releaser); ok {
		r.Release()
		runtime.GC()
	}
}

// cacheKey hashes source content into the cache key
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
