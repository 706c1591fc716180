// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: accepts or generates an X-Request-ID and stores it, with a
    fresh correlation ID, in the request context for logging.Ctx
  - PrometheusMetrics: records api_requests_total, api_request_duration_seconds
    and api_active_requests, labelled by the chi route pattern

Both are plain func(http.Handler) http.Handler values and plug into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

Route patterns rather than raw paths are used as the endpoint label so that
user and product ids never create new time series.
*/
package middleware
