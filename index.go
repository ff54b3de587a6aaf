// Package bm25index is an in-memory, full-text search engine built around
// the Okapi BM25 ranking function. Build a fixed corpus into an Index,
// then rank queries against it with optional metadata filtering,
// stop-word suppression, relevance feedback, or per-shard partitioning.
package bm25index

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bm25index/internal/bm25err"
	"bm25index/internal/bm25metrics"
	"bm25index/internal/engine"
	"bm25index/internal/meta"
	"bm25index/internal/tokenize"
	"bm25index/internal/worker"
)

// Index is a built, immutable BM25 index over a fixed document corpus. It
// is safe for concurrent use by any number of goroutines. Every blocking
// operation is asynchronous under the hood: a single background worker
// serializes scoring requests, spawned lazily on first use.
type Index struct {
	state          *engine.State
	runtime        *worker.Runtime
	recorder       *bm25metrics.Recorder
	logger         *slog.Logger
	buildStopWords tokenize.StopSet
}

// Build constructs an Index over docs. docs must be non-empty; every
// element must be a well-formed Document (Text or WithMeta with only
// flat metadata), or Build fails with InvalidDocument. Building runs
// synchronously relative to the caller but never blocks the index's own
// worker, which is created fresh and not yet spawned.
func Build(ctx context.Context, docs []Document, opts ...BuildOption) (*Index, error) {
	cfg, err := resolveBuildConfig(opts)
	if err != nil {
		return nil, err
	}
	return buildWithConfig(ctx, docs, cfg)
}

// resolveBuildConfig applies opts over the defaults and reports any option
// parse failure (e.g. WithBuildStopWordsYAML). BuildPartitioned calls this
// once and reuses the resulting config's *bm25metrics.Recorder across every
// shard, instead of letting each shard's Build register its own metrics
// against the same caller-supplied registry.
func resolveBuildConfig(opts []BuildOption) (buildConfig, error) {
	cfg := newBuildConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return buildConfig{}, bm25err.Wrap(bm25err.InvalidCorpus, "invalid build option", cfg.err)
	}
	return cfg, nil
}

// buildWithConfig runs the two-pass index construction against an already
// resolved buildConfig, so callers that need one Recorder/logger shared
// across several builds (BuildPartitioned) can bypass Build's own config
// resolution.
func buildWithConfig(ctx context.Context, docs []Document, cfg buildConfig) (*Index, error) {
	type buildResult struct {
		state *engine.State
		err   error
	}
	resultCh := make(chan buildResult, 1)
	start := time.Now()
	go func() {
		state, err := engine.Build(docs, cfg.indexFields, cfg.stopWords)
		resultCh <- buildResult{state: state, err: err}
	}()

	var built buildResult
	select {
	case built = <-resultCh:
	case <-ctx.Done():
		// The construction goroutine still runs to completion and is simply
		// discarded; there is no partial state to tear down.
		return nil, ctx.Err()
	}

	outcome := "ok"
	if built.err != nil {
		outcome = "error"
	}
	cfg.recorder.RecordBuild(outcome, time.Since(start))
	if built.err != nil {
		return nil, built.err
	}

	cfg.logger.Info("index built", "documents", built.state.N(), "duration_ms", time.Since(start).Milliseconds())

	ix := &Index{
		state:          built.state,
		recorder:       cfg.recorder,
		logger:         cfg.logger,
		buildStopWords: cfg.stopWords,
	}
	ix.runtime = worker.New(ix.score, cfg.logger)
	return ix, nil
}

func (ix *Index) score(query string, limit int, filter map[string]meta.Value, stopWords tokenize.StopSet) ([]engine.Result, error) {
	return engine.Score(ix.state, query, limit, filter, stopWords)
}

// Search tokenizes query, ranks the corpus by BM25, and returns the top
// results. It fails with InvalidLimit, UnknownField, Disposed, Cancelled,
// or WorkerTimeout.
func (ix *Index) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	cfg := newSearchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	results, err := ix.runtime.Search(ctx, query, cfg.limit, cfg.filter, cfg.stopWords)
	ix.recorder.RecordSearch(searchOutcome(err), time.Since(start), len(results))
	if err != nil {
		return nil, err
	}
	return toResults(results), nil
}

// SearchWithFeedback re-expands query with a Rocchio-style bag-of-words
// built from the terms of relevantDocIDs, then ranks the expansion the
// same way Search does. With no relevant ids, or when none resolve to a
// known document, it falls back to a plain Search of the original query.
func (ix *Index) SearchWithFeedback(ctx context.Context, query string, relevantDocIDs []uint32, opts ...FeedbackOption) ([]Result, error) {
	cfg := newFeedbackConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	expanded := engine.ExpandFeedbackQuery(ix.state, query, relevantDocIDs, cfg.alpha, cfg.beta, ix.buildStopWords)

	start := time.Now()
	results, err := ix.runtime.Search(ctx, expanded, cfg.limit, cfg.filter, nil)
	ix.recorder.RecordFeedback(time.Since(start))
	if err != nil {
		return nil, err
	}
	return toResults(results), nil
}

// Dispose tears down the index's background worker, waiting for every
// already-submitted request to resolve before returning. It is
// idempotent: a second call returns immediately.
func (ix *Index) Dispose(ctx context.Context) error {
	ix.recorder.RecordDispose()
	return ix.runtime.Dispose(ctx)
}

func searchOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case bm25err.Is(err, bm25err.Disposed):
		return "disposed"
	case bm25err.Is(err, bm25err.Cancelled):
		return "cancelled"
	case bm25err.Is(err, bm25err.WorkerTimeout):
		return "timeout"
	default:
		return "error"
	}
}
