// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package metrics provides Prometheus instrumentation for the pass
// pipeline (corpus build, similarity computation, constellation build,
// export) and the HTTP API. All collectors register on the default
// registry and are served from /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pass pipeline metrics.
	PassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pass_duration_seconds",
			Help:    "Duration of pipeline passes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"pass"}, // "corpus", "similarity", "constellation", "export"
	)

	PassErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pass_errors_total",
			Help: "Total number of failed pipeline passes",
		},
		[]string{"pass"},
	)

	// SkippedRecords counts the degradations a pass resolves by omission
	// instead of failure. Count discrepancies are otherwise the only way
	// to notice them.
	SkippedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skipped_records_total",
			Help: "Total records silently skipped during a pass",
		},
		[]string{"reason"}, // "orphan_rating", "duplicate_movie", "unknown_similarity_id", "sparse_category"
	)

	// Corpus snapshot gauges.
	CorpusMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_movies",
			Help: "Number of movies in the current corpus snapshot",
		},
	)

	CorpusCategories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_categories",
			Help: "Number of genre categories in the current corpus snapshot",
		},
	)

	// Constellation snapshot gauges.
	ConstellationGraphs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "constellation_graphs",
			Help: "Number of category graphs in the current constellation snapshot",
		},
	)

	ConstellationEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "constellation_edges",
			Help: "Total edges across all category graphs in the current snapshot",
		},
	)

	// HTTP API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation lookups served",
		},
	)
)

// RecordPass observes one completed pipeline pass.
func RecordPass(pass string, duration time.Duration, err error) {
	PassDuration.WithLabelValues(pass).Observe(duration.Seconds())
	if err != nil {
		PassErrors.WithLabelValues(pass).Inc()
	}
}

// RecordSkipped adds silently skipped records under a reason label.
func RecordSkipped(reason string, count int) {
	if count > 0 {
		SkippedRecords.WithLabelValues(reason).Add(float64(count))
	}
}

// RecordAPIRequest records one API request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
