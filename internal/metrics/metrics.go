// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by operation and serving strategy",
		},
		[]string{"operation", "strategy"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "Recommendation scoring duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"operation"},
	)

	RecommendFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_fallbacks_total",
			Help: "Total number of popularity fallbacks by reason",
		},
		[]string{"operation", "reason"}, // reason: "unknown_entity", "scoring_failure", "no_candidates"
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 1800},
		},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_runs_total",
			Help: "Total number of training runs by result",
		},
		[]string{"result"}, // result: "success", "degenerate", "failure", "skipped"
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_users",
			Help: "Number of users in the served model",
		},
	)

	ModelItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_items",
			Help: "Number of products in the served model",
		},
	)

	ModelFactors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_factors",
			Help: "Effective latent dimension of the served model",
		},
	)

	ModelReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_model_reloads_total",
			Help: "Total number of model artifact reloads by result",
		},
		[]string{"result"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_events_published_total",
			Help: "Total number of model events published",
		},
		[]string{"result"},
	)

	EventsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_events_consumed_total",
			Help: "Total number of model events consumed",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRecommendation records one served recommendation request.
func RecordRecommendation(operation, strategy string, duration time.Duration) {
	RecommendRequests.WithLabelValues(operation, strategy).Inc()
	RecommendDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFallback records a popularity fallback.
func RecordFallback(operation, reason string) {
	RecommendFallbacks.WithLabelValues(operation, reason).Inc()
}

// RecordTraining records a finished training run.
func RecordTraining(result string, duration time.Duration) {
	TrainingRuns.WithLabelValues(result).Inc()
	if duration > 0 {
		TrainingDuration.Observe(duration.Seconds())
	}
}

// SetModelShape updates the served-model gauges.
func SetModelShape(users, items, factors int) {
	ModelUsers.Set(float64(users))
	ModelItems.Set(float64(items))
	ModelFactors.Set(float64(factors))
}

// RecordReload records a model artifact reload.
func RecordReload(err error) {
	if err != nil {
		ModelReloads.WithLabelValues("failure").Inc()
		return
	}
	ModelReloads.WithLabelValues("success").Inc()
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEventPublish records a model event publish attempt.
func RecordEventPublish(err error) {
	if err != nil {
		EventsPublished.WithLabelValues("failure").Inc()
		return
	}
	EventsPublished.WithLabelValues("success").Inc()
}
