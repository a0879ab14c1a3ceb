// Package metrics exposes Prometheus instrumentation for the scoring,
// winner and archival domains.
//
// A nil *Recorder is valid and records nothing, so domain systems can be
// constructed without instrumentation in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecoscore"

// Recorder owns the collectors registered for the service.
type Recorder struct {
	archivalRuns       *prometheus.CounterVec
	archivedTotal      prometheus.Counter
	archivalDuration   prometheus.Histogram
	winnerOperations   *prometheus.CounterVec
	leaderboardLatency *prometheus.HistogramVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		archivalRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archival_checks_total",
				Help:      "Archival rollover checks by outcome.",
			},
			[]string{"outcome"},
		),
		archivedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archived_evaluations_total",
				Help:      "Evaluations moved from the active store into the archive.",
			},
		),
		archivalDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "archival_duration_seconds",
				Help:      "Duration of archival rollover checks.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		winnerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "winner_operations_total",
				Help:      "Monthly winner declarations and deletions.",
			},
			[]string{"operation", "division"},
		),
		leaderboardLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "leaderboard_duration_seconds",
				Help:      "Time spent loading and ranking a leaderboard.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"scope"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "API requests by route and status code.",
			},
			[]string{"route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "API request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// ArchivalChecked records the outcome of one rollover check.
// Outcome is the result reason or an error kind.
func (r *Recorder) ArchivalChecked(outcome string, moved int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.archivalRuns.WithLabelValues(outcome).Inc()
	r.archivedTotal.Add(float64(moved))
	r.archivalDuration.Observe(elapsed.Seconds())
}

// WinnerDeclared counts a declaration, including replacements.
func (r *Recorder) WinnerDeclared(division string) {
	if r == nil {
		return
	}
	r.winnerOperations.WithLabelValues("declare", division).Inc()
}

// WinnerDeleted counts a removed declaration.
func (r *Recorder) WinnerDeleted(division string) {
	if r == nil {
		return
	}
	r.winnerOperations.WithLabelValues("delete", division).Inc()
}

// LeaderboardComputed records how long a leaderboard took to build.
// Scope is "global" or a division name.
func (r *Recorder) LeaderboardComputed(scope string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.leaderboardLatency.WithLabelValues(scope).Observe(elapsed.Seconds())
}

// RequestServed records one API request. Route is the matched ServeMux
// pattern so path parameters do not explode label cardinality.
func (r *Recorder) RequestServed(req *http.Request, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	route := req.Pattern
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
