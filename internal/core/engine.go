// ABOUTME: Answering engine orchestrating ingestion, retrieval, assembly, and generation
// ABOUTME: Every failure path still hands the caller usable text
package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verso-ai/verso/internal/chunker"
	"github.com/verso-ai/verso/internal/config"
	"github.com/verso-ai/verso/internal/embed"
	"github.com/verso-ai/verso/internal/index"
	"github.com/verso-ai/verso/internal/llm"
	"github.com/verso-ai/verso/internal/models"
	"github.com/verso-ai/verso/internal/retrieve"
	"github.com/verso-ai/verso/internal/storage"
	"github.com/verso-ai/verso/internal/util"
)

// ErrEmptyQuery is returned when a query is blank after trimming
var ErrEmptyQuery = errors.New("query cannot be empty")

// generatorCooldown keeps the engine on the fallback handler for a fixed
// period after the generation client fails with a transport error.
const generatorCooldown = 30 * time.Second

// Options configures an answering engine
type Options struct {
	Retriever *retrieve.Engine
	Chunker   *chunker.Chunker
	Hydrator  *Hydrator
	Generator *llm.Client
	Fallback  *llm.FallbackHandler
	Store     storage.ConversationStore

	HistoryWindow time.Duration
	Logger        *log.Logger
	Now           func() time.Time
}

// Engine is the top-level orchestrator. It wires the retrieval engine,
// prompt assembler, generation client, and conversation store, and it
// guarantees the caller always receives text, never a bare failure.
type Engine struct {
	retriever *retrieve.Engine
	chunker   *chunker.Chunker
	hydrator  *Hydrator
	generator *llm.Client
	fallback  *llm.FallbackHandler
	window    time.Duration
	logger    *log.Logger
	now       func() time.Time

	mu        sync.Mutex
	store     storage.ConversationStore
	degraded  bool
	downUntil time.Time
}

// New creates an answering engine from pre-built collaborators
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore(storage.DefaultMemoryCapacity)
	}
	return &Engine{
		retriever: opts.Retriever,
		chunker:   opts.Chunker,
		hydrator:  opts.Hydrator,
		generator: opts.Generator,
		fallback:  opts.Fallback,
		window:    opts.HistoryWindow,
		logger:    opts.Logger,
		now:       opts.Now,
		store:     opts.Store,
	}
}

// Build wires a complete engine from configuration. A missing API key is
// not an error: the embedder runs its deterministic fallback and answers
// degrade rather than fail. An unreachable conversation store degrades to
// in-memory history for the life of the process.
func Build(cfg *config.Config, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var model embed.Strategy
	if cfg.OpenAIKey != "" {
		model = embed.NewOpenAIStrategy(cfg.OpenAIKey, cfg.EmbeddingModel, cfg.EmbeddingDim, cfg.MaxEmbedInputLen)
	}
	embedder := embed.NewAdaptive(embed.Options{
		Model:       model,
		Fallback:    embed.NewHashStrategy(cfg.EmbeddingDim),
		ThresholdMB: cfg.MemoryThresholdMB,
		Cooldown:    cfg.ModeCooldown,
		Logger:      logger,
	})

	generator := llm.NewClient(llm.Options{
		APIKey:      cfg.OpenAIKey,
		Model:       cfg.ChatModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.RequestTimeout,
		Logger:      logger,
	})
	policy := util.RetryPolicy{MaxAttempts: cfg.FallbackRetries + 1, BaseDelay: cfg.FallbackRetryDelay}

	var store storage.ConversationStore
	kvStore, err := storage.OpenKVStore(storage.KVConfig{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		logger.Warn("conversation store unavailable, using in-memory history", "error", err)
		store = storage.NewMemoryStore(storage.DefaultMemoryCapacity)
	} else {
		store = kvStore
	}

	return New(Options{
		Retriever:     retrieve.New(embedder, index.New(cfg.EmbeddingDim), cfg.TopK, logger),
		Chunker:       chunker.New(cfg.MaxChunkLen, cfg.MinChunkLen),
		Hydrator:      NewHydrator(cfg.TokenBudget, cfg.ReservedTokens),
		Generator:     generator,
		Fallback:      llm.NewFallbackHandler(generator, policy, logger),
		Store:         store,
		HistoryWindow: cfg.HistoryWindow,
		Logger:        logger,
	}), nil
}

// Retriever exposes the retrieval engine for direct corpus search
func (e *Engine) Retriever() *retrieve.Engine {
	return e.retriever
}

// Ingest rebuilds the corpus from every supported file under dir. The
// previous index contents are cleared first; unreadable files are skipped
// with a warning. Returns the number of chunks indexed.
func (e *Engine) Ingest(ctx context.Context, dir string) (int, error) {
	docs, err := LoadCorpus(dir, func(path string, loadErr error) {
		e.logger.Warn("skipping unreadable corpus file", "path", path, "error", loadErr)
	})
	if err != nil {
		return 0, err
	}

	ix := e.retriever.Index()
	ix.Clear()

	total := 0
	for _, doc := range docs {
		chunks := e.chunker.Split(doc.Text, doc.Source)
		if len(chunks) == 0 {
			continue
		}
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}
		vecs, embedErr := e.retriever.Embedder().EmbedBatch(ctx, texts)
		if embedErr != nil {
			return total, embedErr
		}
		if addErr := ix.Add(vecs, chunks); addErr != nil {
			return total, addErr
		}
		total += len(chunks)
	}

	e.logger.Info("corpus ingested", "files", len(docs), "chunks", total)
	return total, nil
}

// Answer produces a grounded answer to query for the given identity and
// records both sides of the exchange. The only error is an empty query;
// pipeline failures degrade to fallback text instead.
func (e *Engine) Answer(ctx context.Context, query string, who models.Identity) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	identity := who.Resolve()
	results := e.retriever.Retrieve(ctx, query)

	var text string
	if e.generatorDown() {
		text = e.fallback.Answer(ctx, query, topExcerpt(results))
	} else {
		msgs := e.hydrator.BuildMessages(query, results, e.recent(identity))
		out, err := e.generator.Complete(ctx, msgs)
		if err != nil && !isTimeout(err) {
			// Transport-level failure means the generator is down, not
			// slow; route through the retrying fallback handler.
			e.markGeneratorDown(err)
			out = e.fallback.Answer(ctx, query, topExcerpt(results))
		}
		text = out
	}

	e.remember(identity, query, text)
	return text, nil
}

// AnswerStream is Answer with incremental delivery. The returned channel
// closes when the answer is complete, fails, or ctx is cancelled; the full
// exchange is recorded only after the stream finishes.
func (e *Engine) AnswerStream(ctx context.Context, query string, who models.Identity) (<-chan llm.StreamChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	identity := who.Resolve()
	results := e.retriever.Retrieve(ctx, query)

	out := make(chan llm.StreamChunk)

	if e.generatorDown() {
		go func() {
			defer close(out)
			text := e.fallback.Answer(ctx, query, topExcerpt(results))
			select {
			case out <- llm.StreamChunk{Content: text}:
			case <-ctx.Done():
				return
			}
			select {
			case out <- llm.StreamChunk{Done: true}:
			case <-ctx.Done():
				return
			}
			e.remember(identity, query, text)
		}()
		return out, nil
	}

	msgs := e.hydrator.BuildMessages(query, results, e.recent(identity))
	src := e.generator.Stream(ctx, msgs)

	go func() {
		defer close(out)
		var full strings.Builder
		for chunk := range src {
			full.WriteString(chunk.Content)
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if text := full.String(); text != "" && ctx.Err() == nil {
			e.remember(identity, query, text)
		}
	}()
	return out, nil
}

// Search runs retrieval directly without generation
func (e *Engine) Search(ctx context.Context, query string) []models.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return e.retriever.Retrieve(ctx, query)
}

// History returns the identity's stored turns inside the engine's window
func (e *Engine) History(who models.Identity) []models.Turn {
	return e.recent(who.Resolve())
}

// ClearHistory removes all recorded turns for the given identity
func (e *Engine) ClearHistory(who models.Identity) error {
	return e.currentStore().Clear(who.Resolve())
}

// PurgeHistory removes turns older than age across all identities
func (e *Engine) PurgeHistory(age time.Duration) (int, error) {
	return e.currentStore().PurgeOlderThan(age)
}

// Close releases the conversation store
func (e *Engine) Close() error {
	if closer, ok := e.currentStore().(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (e *Engine) currentStore() storage.ConversationStore {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store
}

// recent returns the identity's history inside the window. Read failures
// yield an empty history rather than blocking the answer.
func (e *Engine) recent(identity string) []models.Turn {
	turns, err := e.currentStore().Recent(identity, e.window)
	if err != nil {
		e.logger.Warn("failed to load conversation history", "identity", identity, "error", err)
		e.degradeStore(err)
		return nil
	}
	return turns
}

// remember records the query and answer as a turn pair, best-effort
func (e *Engine) remember(identity, query, answer string) {
	e.appendTurn(identity, models.RoleUser, query)
	e.appendTurn(identity, models.RoleAssistant, answer)
}

func (e *Engine) appendTurn(identity string, role models.Role, content string) {
	turn, err := models.NewTurn(role, content)
	if err != nil {
		return
	}
	if err := e.currentStore().Append(identity, turn); err != nil {
		e.degradeStore(err)
		if err := e.currentStore().Append(identity, turn); err != nil {
			e.logger.Error("failed to record conversation turn", "identity", identity, "error", err)
		}
	}
}

// degradeStore swaps the conversation store for an in-memory one after a
// storage failure. The swap is one-way for the life of the process.
func (e *Engine) degradeStore(cause error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.degraded {
		return
	}
	e.logger.Warn("conversation store failing, degrading to in-memory history", "error", cause)
	e.store = storage.NewMemoryStore(storage.DefaultMemoryCapacity)
	e.degraded = true
}

func (e *Engine) generatorDown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now().Before(e.downUntil)
}

func (e *Engine) markGeneratorDown(cause error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.downUntil = e.now().Add(generatorCooldown)
	e.logger.Warn("generation client unavailable, switching to fallback handler",
		"error", cause, "until", e.downUntil.Format(time.RFC3339))
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// topExcerpt joins the best retrieved chunks into a fallback excerpt
func topExcerpt(results []models.SearchResult) string {
	var parts []string
	for i, r := range results {
		if i == 2 {
			break
		}
		parts = append(parts, r.Chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}
