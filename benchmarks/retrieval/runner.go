// ABOUTME: Benchmark runner executing retrieval scenarios and collecting scores
// ABOUTME: Runs fully offline on the deterministic fallback embedder
package retrieval

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/verso-ai/verso/internal/chunker"
	"github.com/verso-ai/verso/internal/embed"
	"github.com/verso-ai/verso/internal/index"
	"github.com/verso-ai/verso/internal/retrieve"
)

const (
	runnerDim  = 256
	runnerTopK = 4
)

// Result holds the scores for one executed scenario
type Result struct {
	ScenarioID string
	Recall     float64
	Grounding  float64
	Detail     string
}

// Runner executes retrieval benchmark scenarios. Each scenario gets a
// fresh index so corpora never bleed into each other.
type Runner struct {
	metrics *MetricsCalculator
	logger  *log.Logger
	verbose bool
}

// NewRunner creates a benchmark runner
func NewRunner(verbose bool) *Runner {
	logger := log.New(io.Discard)
	if verbose {
		logger = log.Default()
	}
	return &Runner{metrics: NewMetricsCalculator(), logger: logger, verbose: verbose}
}

// RunScenario ingests the scenario corpus into a fresh engine and scores
// the retrieval for its query.
func (r *Runner) RunScenario(ctx context.Context, s Scenario) (Result, error) {
	embedder := embed.NewAdaptive(embed.Options{
		Fallback:    embed.NewHashStrategy(runnerDim),
		ThresholdMB: 1 << 20,
		Logger:      r.logger,
	})
	engine := retrieve.New(embedder, index.New(runnerDim), runnerTopK, r.logger)
	split := chunker.New(300, 20)

	for source, text := range s.Corpus {
		chunks := split.Split(text, source)
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}
		vecs, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return Result{}, fmt.Errorf("embedding %s: %w", source, err)
		}
		if err := engine.Index().Add(vecs, chunks); err != nil {
			return Result{}, fmt.Errorf("indexing %s: %w", source, err)
		}
	}

	results := engine.Retrieve(ctx, s.Query)
	if len(results) == 0 {
		return Result{ScenarioID: s.ID, Detail: "no chunks retrieved"}, nil
	}

	retrieved := make([]string, len(results))
	for i, res := range results {
		retrieved[i] = res.Chunk.Content
	}

	recall, recallDetail := r.metrics.ContextRecall(retrieved, s.GroundTruth.ExpectedContextItems)
	grounding, groundDetail := r.metrics.Grounding(retrieved[0], s.GroundTruth.ExpectedInTop, s.GroundTruth.ForbiddenInTop)

	res := Result{
		ScenarioID: s.ID,
		Recall:     recall,
		Grounding:  grounding,
		Detail:     recallDetail + "; " + groundDetail,
	}
	if r.verbose {
		r.logger.Info("scenario complete", "id", s.ID, "recall", recall, "grounding", grounding)
	}
	return res, nil
}

// RunAll executes every scenario and returns the collected results
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		res, err := r.RunScenario(ctx, s)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
