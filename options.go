package bm25index

import (
	"io"
	"log/slog"

	"bm25index/internal/bm25metrics"
	"bm25index/internal/tokenize"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultLimit = 10

type buildConfig struct {
	indexFields []string
	stopWords   tokenize.StopSet
	logger      *slog.Logger
	recorder    *bm25metrics.Recorder
	err         error
}

func newBuildConfig() buildConfig {
	return buildConfig{
		indexFields: []string{"filePath"},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// BuildOption configures Build and BuildPartitioned.
type BuildOption func(*buildConfig)

// WithIndexFields names the metadata fields materialized into the
// filterable field index; only these may be named in a search filter.
// The default is ["filePath"].
func WithIndexFields(fields ...string) BuildOption {
	return func(c *buildConfig) { c.indexFields = fields }
}

// WithBuildStopWords excludes the given tokens from term statistics
// computed at build time.
func WithBuildStopWords(words ...string) BuildOption {
	return func(c *buildConfig) { c.stopWords = tokenize.NewStopSet(words) }
}

// WithBuildStopWordsYAML parses a stop-word list from YAML bytes (a bare
// sequence of words, or a mapping with a "stopWords" key) and uses it for
// build-time term statistics. The caller is responsible for reading the
// bytes from wherever the list lives; this option does no file I/O
// itself. A parse failure surfaces from Build as InvalidCorpus.
func WithBuildStopWordsYAML(data []byte) BuildOption {
	return func(c *buildConfig) {
		stop, err := tokenize.ParseStopWordsYAML(data)
		if err != nil {
			c.err = err
			return
		}
		c.stopWords = stop
	}
}

// WithLogger attaches a structured logger to the index's worker runtime.
// The default discards all output.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(c *buildConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics registers the index's counters and histograms against reg.
// A nil reg (the default) leaves recording as a no-op.
func WithMetrics(reg prometheus.Registerer) BuildOption {
	return func(c *buildConfig) { c.recorder = bm25metrics.New(reg) }
}

type searchConfig struct {
	limit     int
	filter    map[string]Value
	stopWords tokenize.StopSet
}

func newSearchConfig() searchConfig {
	return searchConfig{limit: defaultLimit}
}

// SearchOption configures Search and SearchIn/SearchMany.
type SearchOption func(*searchConfig)

// WithLimit caps the number of results returned. The default is 10.
func WithLimit(n int) SearchOption {
	return func(c *searchConfig) { c.limit = n }
}

// WithFilter restricts results to documents whose indexed metadata
// matches every field in filter; list-valued fields match any element.
func WithFilter(filter map[string]Value) SearchOption {
	return func(c *searchConfig) { c.filter = filter }
}

// WithSearchStopWords excludes the given tokens from the query before
// scoring.
func WithSearchStopWords(words ...string) SearchOption {
	return func(c *searchConfig) { c.stopWords = tokenize.NewStopSet(words) }
}

type feedbackConfig struct {
	alpha  float64
	beta   float64
	limit  int
	filter map[string]Value
}

func newFeedbackConfig() feedbackConfig {
	return feedbackConfig{alpha: 1.0, beta: 0.75, limit: defaultLimit}
}

// FeedbackOption configures SearchWithFeedback.
type FeedbackOption func(*feedbackConfig)

// WithAlpha sets the Rocchio weight given to the original query's own
// terms. The default is 1.0.
func WithAlpha(alpha float64) FeedbackOption {
	return func(c *feedbackConfig) { c.alpha = alpha }
}

// WithBeta sets the Rocchio weight given to terms harvested from the
// relevant documents. The default is 0.75.
func WithBeta(beta float64) FeedbackOption {
	return func(c *feedbackConfig) { c.beta = beta }
}

// WithFeedbackLimit caps the number of results returned. The default is 10.
func WithFeedbackLimit(n int) FeedbackOption {
	return func(c *feedbackConfig) { c.limit = n }
}

// WithFeedbackFilter restricts feedback results the same way WithFilter
// restricts a plain search.
func WithFeedbackFilter(filter map[string]Value) FeedbackOption {
	return func(c *feedbackConfig) { c.filter = filter }
}
