// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/models"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// RefreshModel handles POST /api/recommendations/refresh. It reloads the
// artifact and swaps it in; requests already running keep the old model.
func (h *Handler) RefreshModel(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, CodeUnavailable, "No model store is configured", nil)
		return
	}
	if !h.adminLimiter.Allow() {
		respondError(w, http.StatusTooManyRequests, CodeRateLimited, "Model refresh was requested too recently", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	m, err := h.engine.Reload(ctx, h.store)
	switch {
	case errors.Is(err, recommend.ErrArtifactNotFound):
		respondError(w, http.StatusNotFound, CodeArtifact, "No model artifact found at "+h.store.Location(), nil)
		return
	case errors.Is(err, recommend.ErrArtifact):
		respondError(w, http.StatusInternalServerError, CodeArtifact, "Model artifact could not be loaded", err)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, CodeInternal, "Model refresh failed", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("version", m.Version()).
		Str("location", h.store.Location()).
		Msg("model refreshed via API")

	respondSuccess(w, http.StatusOK, models.RefreshResponse{
		Message:  "Model reloaded",
		Location: h.store.Location(),
		Stats:    m.Stats(),
	}, models.Metadata{
		QueryTimeMS:  time.Since(start).Milliseconds(),
		ModelVersion: m.Version(),
	})
}

// TrainModel handles POST /api/recommendations/train. Training runs in the
// background; the response only acknowledges that it was scheduled.
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	if h.trainer == nil {
		respondError(w, http.StatusServiceUnavailable, CodeUnavailable, "Training is not enabled on this instance", nil)
		return
	}
	if h.engine.IsTraining() {
		respondError(w, http.StatusConflict, CodeTrainingInProgress, "A training run is already in progress", nil)
		return
	}
	if !h.adminLimiter.Allow() {
		respondError(w, http.StatusTooManyRequests, CodeRateLimited, "Training was requested too recently", nil)
		return
	}

	err := h.trainer.Trigger()
	if errors.Is(err, recommend.ErrTrainingInProgress) {
		respondError(w, http.StatusConflict, CodeTrainingInProgress, "A training run is already in progress", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to schedule training", err)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("training scheduled via API")
	respondSuccess(w, http.StatusAccepted, models.TrainResponse{
		Message: "Training started",
	}, models.Metadata{})
}
