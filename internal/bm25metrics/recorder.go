// Package bm25metrics records in-process Prometheus metrics for index
// builds, searches, feedback re-ranking, and disposal (C12). Nothing in
// this package exposes an HTTP endpoint; callers that want exposition
// register the Recorder's registerer with their own promhttp handler.
package bm25metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder wraps the counters and histograms tracked for an index's
// lifetime. The zero value is not usable; build one with New.
type Recorder struct {
	buildTotal   *prometheus.CounterVec
	buildLatency *prometheus.HistogramVec

	searchTotal   *prometheus.CounterVec
	searchLatency *prometheus.HistogramVec

	feedbackTotal   prometheus.Counter
	feedbackLatency prometheus.Histogram

	disposeTotal prometheus.Counter

	resultsReturned prometheus.Histogram
}

// New registers the recorder's metrics against reg and returns a Recorder
// ready to use. A nil reg yields a Recorder whose recordings are no-ops,
// so callers that do not care about metrics can pass nil unconditionally.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		buildTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bm25index",
			Name:      "build_total",
			Help:      "Index builds, partitioned by outcome.",
		}, []string{"outcome"}),
		buildLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bm25index",
			Name:      "build_duration_seconds",
			Help:      "Time spent building an index.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		searchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bm25index",
			Name:      "search_total",
			Help:      "Search calls, partitioned by outcome.",
		}, []string{"outcome"}),
		searchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bm25index",
			Name:      "search_duration_seconds",
			Help:      "Time spent scoring a search request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		feedbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bm25index",
			Name:      "feedback_search_total",
			Help:      "Relevance-feedback searches performed.",
		}),
		feedbackLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bm25index",
			Name:      "feedback_search_duration_seconds",
			Help:      "Time spent on a relevance-feedback search.",
			Buckets:   prometheus.DefBuckets,
		}),
		disposeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bm25index",
			Name:      "dispose_total",
			Help:      "Index dispose calls.",
		}),
		resultsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bm25index",
			Name:      "search_results_returned",
			Help:      "Number of results returned per search.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}),
	}

	if reg == nil {
		return r
	}
	reg.MustRegister(
		r.buildTotal, r.buildLatency,
		r.searchTotal, r.searchLatency,
		r.feedbackTotal, r.feedbackLatency,
		r.disposeTotal,
		r.resultsReturned,
	)
	return r
}

// RecordBuild records the outcome and wall-clock duration of a Build call.
func (r *Recorder) RecordBuild(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.buildTotal.WithLabelValues(outcome).Inc()
	r.buildLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordSearch records the outcome and duration of a Search call, and the
// number of results it returned on success.
func (r *Recorder) RecordSearch(outcome string, d time.Duration, resultCount int) {
	if r == nil {
		return
	}
	r.searchTotal.WithLabelValues(outcome).Inc()
	r.searchLatency.WithLabelValues(outcome).Observe(d.Seconds())
	if outcome == "ok" {
		r.resultsReturned.Observe(float64(resultCount))
	}
}

// RecordFeedback records a relevance-feedback search's duration.
func (r *Recorder) RecordFeedback(d time.Duration) {
	if r == nil {
		return
	}
	r.feedbackTotal.Inc()
	r.feedbackLatency.Observe(d.Seconds())
}

// RecordDispose records one dispose call.
func (r *Recorder) RecordDispose() {
	if r == nil {
		return
	}
	r.disposeTotal.Inc()
}
