// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are package-level variables registered with the default registry
through promauto, so any package can record without wiring.

# Available Metrics

Recommendation Metrics:
  - recommend_requests_total: Served requests (counter)
    Labels: operation (user, similar, popular), strategy
  - recommend_request_duration_seconds: Scoring latency (histogram)
    Labels: operation
  - recommend_fallbacks_total: Popularity fallbacks (counter)
    Labels: operation, reason (unknown_entity, scoring_failure, no_candidates)

Training Metrics:
  - recommend_training_duration_seconds: Training run duration (histogram)
  - recommend_training_runs_total: Runs by result (counter)
    Labels: result (success, degenerate, failure, skipped)
  - recommend_model_users, recommend_model_items, recommend_model_factors:
    Shape of the served model (gauges)
  - recommend_model_reloads_total: Artifact reloads (counter)
    Labels: result

Cache Metrics:
  - recommend_cache_hits_total, recommend_cache_misses_total (counters)

API Metrics:
  - api_requests_total: Requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Database Metrics:
  - duckdb_query_duration_seconds: Query time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
  - circuit_breaker_state, circuit_breaker_state_transitions_total

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:8085/metrics

Example PromQL queries:

	# Share of user requests served by popularity fallback
	sum(rate(recommend_fallbacks_total{operation="user"}[5m]))
	  / sum(rate(recommend_requests_total{operation="user"}[5m]))

	# p95 scoring latency
	histogram_quantile(0.95, rate(recommend_request_duration_seconds_bucket[5m]))

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
