// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package api

import (
	"net/http"

	"github.com/tomtom215/shopai-recommender/internal/models"
)

// Health status values.
const (
	healthHealthy  = "healthy"
	healthDegraded = "degraded"
)

// Health handles GET /health. It always answers 200; a service without a
// model is degraded, not down, because popularity fallbacks still work.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := models.HealthResponse{
		Status:   healthDegraded,
		Version:  h.version,
		Training: h.engine.IsTraining(),
	}
	if m := h.engine.Model(); m != nil {
		resp.Status = healthHealthy
		resp.ModelLoaded = true
		resp.ModelVersion = m.Version()
	}
	respondSuccess(w, http.StatusOK, resp, models.Metadata{})
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	if !h.engine.IsTrained() {
		respondError(w, http.StatusServiceUnavailable, CodeModelNotLoaded, "No model is loaded", nil)
		return
	}

	stats := h.engine.GetStats()
	resp := models.StatsResponse{Model: stats}
	if report, ok := h.engine.LastTrainReport(); ok {
		resp.LastTraining = &report
	}
	if h.cache != nil {
		cs := h.cache.GetStats()
		resp.Cache = &models.CacheStats{
			Keys:    cs.Keys,
			Hits:    cs.Hits,
			Misses:  cs.Misses,
			HitRate: h.cache.HitRate(),
		}
	}
	respondSuccess(w, http.StatusOK, resp, models.Metadata{ModelVersion: stats.Version})
}
