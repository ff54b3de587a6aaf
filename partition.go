package bm25index

import (
	"context"
	"sort"
	"sync"

	"bm25index/internal/bm25err"
)

// Partitioned is a facade over one independent Index per shard, bucketed
// by a caller-supplied partition key. Each shard's IDF is computed only
// over its own bucket.
type Partitioned struct {
	shards map[string]*Index
}

// BuildPartitioned buckets docs by partitionBy(doc) and builds one
// independent Index per bucket, concurrently, sharing opts across every
// shard. It fails with InvalidCorpus when docs is empty, or with
// whatever error the first failing shard build produced (any shards that
// did succeed are disposed before the error is returned).
//
// opts is resolved into a single buildConfig up front and that config
// (including its *bm25metrics.Recorder, if WithMetrics was given) is
// reused by every shard's build, rather than each shard registering its
// own metrics against the same registry — which would panic on the
// second shard with a duplicate-collector error.
func BuildPartitioned(ctx context.Context, docs []Document, partitionBy func(Document) string, opts ...BuildOption) (*Partitioned, error) {
	if len(docs) == 0 {
		return nil, bm25err.New(bm25err.InvalidCorpus, "build requires at least one document")
	}

	cfg, err := resolveBuildConfig(opts)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]Document)
	for _, d := range docs {
		key := partitionBy(d)
		buckets[key] = append(buckets[key], d)
	}

	type shardResult struct {
		key string
		ix  *Index
		err error
	}
	resultsCh := make(chan shardResult, len(buckets))
	for key, bucketDocs := range buckets {
		go func(key string, bucketDocs []Document) {
			ix, err := buildWithConfig(ctx, bucketDocs, cfg)
			resultsCh <- shardResult{key: key, ix: ix, err: err}
		}(key, bucketDocs)
	}

	shards := make(map[string]*Index, len(buckets))
	var firstErr error
	for i := 0; i < len(buckets); i++ {
		r := <-resultsCh
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		shards[r.key] = r.ix
	}

	if firstErr != nil {
		for _, ix := range shards {
			_ = ix.Dispose(ctx)
		}
		return nil, firstErr
	}
	return &Partitioned{shards: shards}, nil
}

// SearchIn dispatches query to the shard for key. If no shard exists for
// key, it returns an empty, non-error result.
func (p *Partitioned) SearchIn(ctx context.Context, key, query string, opts ...SearchOption) ([]Result, error) {
	ix, ok := p.shards[key]
	if !ok {
		return nil, nil
	}
	return ix.Search(ctx, query, opts...)
}

// SearchMany dispatches query concurrently to every present shard named
// in keys, each with its own full limit (not reduced per shard),
// concatenates the results, sorts them descending by score, and returns
// the first limit.
func (p *Partitioned) SearchMany(ctx context.Context, keys []string, query string, opts ...SearchOption) ([]Result, error) {
	cfg := newSearchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	type shardResult struct {
		results []Result
		err     error
	}
	resultsCh := make(chan shardResult, len(keys))
	var wg sync.WaitGroup
	for _, key := range keys {
		ix, ok := p.shards[key]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(ix *Index) {
			defer wg.Done()
			res, err := ix.Search(ctx, query, opts...)
			resultsCh <- shardResult{results: res, err: err}
		}(ix)
	}
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var merged []Result
	var firstErr error
	for r := range resultsCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		merged = append(merged, r.results...)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].ID < merged[j].ID
	})
	if len(merged) > cfg.limit {
		merged = merged[:cfg.limit]
	}
	return merged, nil
}

// Dispose tears down every shard's worker concurrently and returns once
// all have disposed.
func (p *Partitioned) Dispose(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, len(p.shards))
	i := 0
	for _, ix := range p.shards {
		wg.Add(1)
		go func(i int, ix *Index) {
			defer wg.Done()
			errs[i] = ix.Dispose(ctx)
		}(i, ix)
		i++
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
