// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/shopai-recommender/internal/auth"
	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/middleware"
)

// gzip level for JSON responses.
const compressionLevel = 5

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler *Handler
	chiMw   *ChiMiddleware
	auth    *auth.Middleware
}

// NewRouter creates a router. A nil auth middleware leaves admin routes
// open, which matches AUTH_MODE=none.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, authMw *auth.Middleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	if authMw == nil {
		authMw = auth.NewMiddleware(nil, auth.AuthModeNone)
	}
	return &Router{handler: handler, chiMw: chiMw, auth: authMw}
}

// SetupChi builds the HTTP handler.
//
// Global middleware, outermost first: request ID, real IP, request logging,
// panic recovery, CORS and Prometheus instrumentation. Everything except
// /health and /metrics is rate limited and carries security headers.
func (rt *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.chiMw.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	h := rt.handler
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(rt.chiMw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(compressionLevel, "application/json"))

		r.Get("/stats", h.Stats)

		r.Route("/api/recommendations", func(r chi.Router) {
			r.Get("/user/{userID}", h.GetUserRecommendations)
			r.Get("/user/{userID}/history", h.GetPurchaseHistory)
			r.Get("/product/{productID}/similar", h.GetSimilarProducts)
			r.Get("/popular", h.GetPopularProducts)
			r.Get("/embedding/{kind}/{id}", h.GetEmbedding)

			r.Group(func(r chi.Router) {
				r.Use(rt.auth.RequireAdmin)
				r.Post("/refresh", h.RefreshModel)
				r.Post("/train", h.TrainModel)
			})
		})
	})

	return r
}

// requestLogger logs each request at debug level, with the request ID
// attached by logging.Ctx.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logging.Ctx(r.Context()).Debug().
			Str("method", r.Method).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("remote_ip", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
