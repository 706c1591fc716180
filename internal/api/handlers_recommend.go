// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shopai-recommender/internal/cache"
	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/models"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// GetUserRecommendations handles GET /api/recommendations/user/{userID}.
//
// Query parameters:
//   - limit: number of products (default and maximum from config)
//   - exclude_interacted: drop products the user already interacted with (default true)
//
// Without a model the response is the database popularity ranking tagged
// popularity_fallback.
func (h *Handler) GetUserRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, apiErr := parseEntityID(r, "userID")
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	limit, apiErr := parseLimit(r, h.config.Recommend.DefaultLimit, h.config.Recommend.MaxLimit)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	exclude := true
	if raw := r.URL.Query().Get("exclude_interacted"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			respondValidation(w, &models.APIError{
				Code:    CodeValidation,
				Message: fmt.Sprintf("exclude_interacted must be a boolean, got %q", raw),
			})
			return
		}
		exclude = b
	}

	m := h.engine.Model()
	if m == nil {
		h.userFallback(w, r, userID, limit, start)
		return
	}

	key := cache.Key{Version: m.Version(), Op: cache.OpUser, ID: userID, N: limit, Exclude: exclude}
	recs, hit := h.cached(key, func() []recommend.Recommendation {
		recs, err := h.engine.RecommendForUserWith(m, userID, limit, exclude)
		if err != nil {
			return []recommend.Recommendation{}
		}
		return recs
	})

	respondSuccess(w, http.StatusOK, models.UserRecommendationsResponse{
		UserID:          userID,
		Recommendations: recs,
		Total:           len(recs),
		StrategyUsed:    strategyUsed(recs),
	}, models.Metadata{
		QueryTimeMS:  time.Since(start).Milliseconds(),
		Cached:       hit,
		ModelVersion: m.Version(),
	})
}

// userFallback answers a user request from database popularity.
func (h *Handler) userFallback(w http.ResponseWriter, r *http.Request, userID recommend.ID, limit int, start time.Time) {
	if h.shop == nil {
		respondError(w, http.StatusServiceUnavailable, CodeModelNotLoaded, "No model is loaded", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rows, err := h.shop.GetPopularProducts(ctx, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to load popular products", err)
		return
	}
	logging.Ctx(r.Context()).Debug().
		Str("user_id", sanitizeLogValue(userID.String())).
		Msg("no model loaded, serving database popularity")

	recs := fromPopularProducts(rows, models.StrategyPopularityFallback)
	strategy := models.StrategyPopularityFallback
	if len(recs) == 0 {
		strategy = models.StrategyNone
	}
	respondSuccess(w, http.StatusOK, models.UserRecommendationsResponse{
		UserID:          userID,
		Recommendations: recs,
		Total:           len(recs),
		StrategyUsed:    strategy,
	}, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// GetSimilarProducts handles GET /api/recommendations/product/{productID}/similar.
func (h *Handler) GetSimilarProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	productID, apiErr := parseEntityID(r, "productID")
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	limit, apiErr := parseLimit(r, h.config.Recommend.SimilarDefaultLimit, h.config.Recommend.SimilarMaxLimit)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	m := h.engine.Model()
	if m == nil {
		respondError(w, http.StatusServiceUnavailable, CodeModelNotLoaded, "No model is loaded", nil)
		return
	}

	key := cache.Key{Version: m.Version(), Op: cache.OpSimilar, ID: productID, N: limit}
	recs, hit := h.cached(key, func() []recommend.Recommendation {
		recs, err := h.engine.RecommendSimilarItemWith(m, productID, limit)
		if err != nil {
			return []recommend.Recommendation{}
		}
		return recs
	})

	respondSuccess(w, http.StatusOK, models.SimilarProductsResponse{
		ProductID:       productID,
		SimilarProducts: recs,
		Total:           len(recs),
	}, models.Metadata{
		QueryTimeMS:  time.Since(start).Milliseconds(),
		Cached:       hit,
		ModelVersion: m.Version(),
	})
}

// GetPopularProducts handles GET /api/recommendations/popular. The model's
// popularity ranking is preferred, then order counts from the database.
// With neither the list is empty.
func (h *Handler) GetPopularProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, apiErr := parseLimit(r, h.config.Recommend.PopularLimit, h.config.Recommend.MaxLimit)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	meta := models.Metadata{}
	recs := []recommend.Recommendation{}
	strategy := models.StrategyNone

	if m := h.engine.Model(); m != nil && m.Popularity().Len() > 0 {
		key := cache.Key{Version: m.Version(), Op: cache.OpPopular, N: limit}
		recs, meta.Cached = h.cached(key, func() []recommend.Recommendation {
			recs, err := h.engine.PopularFallbackWith(m, limit)
			if err != nil {
				return []recommend.Recommendation{}
			}
			return recs
		})
		meta.ModelVersion = m.Version()
		strategy = string(recommend.StrategyPopularity)
	} else if h.shop != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		rows, err := h.shop.GetPopularProducts(ctx, limit)
		if err != nil {
			respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to load popular products", err)
			return
		}
		recs = fromPopularProducts(rows, models.StrategyPopularityDatabase)
		strategy = models.StrategyPopularityDatabase
	}
	if len(recs) == 0 {
		strategy = models.StrategyNone
	}

	meta.QueryTimeMS = time.Since(start).Milliseconds()
	respondSuccess(w, http.StatusOK, models.PopularProductsResponse{
		Products: recs,
		Total:    len(recs),
		Strategy: strategy,
	}, meta)
}

// GetPurchaseHistory handles GET /api/recommendations/user/{userID}/history.
// History lives in the order tables, so only numeric user ids are accepted.
func (h *Handler) GetPurchaseHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	raw := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondValidation(w, &models.APIError{
			Code:    CodeValidation,
			Message: fmt.Sprintf("user_id must be an integer, got %q", sanitizeLogValue(raw)),
		})
		return
	}
	limit, apiErr := parseLimit(r, historyDefaultLimit, historyMaxLimit)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if apiErr := validateRequest(&HistoryRequest{UserID: userID, Limit: limit}); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if h.shop == nil {
		respondError(w, http.StatusServiceUnavailable, CodeUnavailable, "Purchase history is not available", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	purchases, total, err := h.shop.GetUserHistory(ctx, userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to load purchase history", err)
		return
	}
	if purchases == nil {
		purchases = []models.PurchaseRecord{}
	}

	respondSuccess(w, http.StatusOK, models.PurchaseHistoryResponse{
		UserID:    userID,
		Purchases: purchases,
		Total:     total,
	}, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// GetEmbedding handles GET /api/recommendations/embedding/{kind}/{id}.
func (h *Handler) GetEmbedding(w http.ResponseWriter, r *http.Request) {
	req := EmbeddingRequest{
		Kind: chi.URLParam(r, "kind"),
		ID:   chi.URLParam(r, "id"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	kind, err := recommend.ParseEntityKind(req.Kind)
	if err != nil {
		respondValidation(w, &models.APIError{Code: CodeValidation, Message: err.Error()})
		return
	}

	m := h.engine.Model()
	if m == nil {
		respondError(w, http.StatusServiceUnavailable, CodeModelNotLoaded, "No model is loaded", nil)
		return
	}

	id := recommend.ParseID(req.ID)
	vec, ok := h.engine.GetEmbedding(kind, id)
	if !ok {
		respondError(w, http.StatusNotFound, CodeNotFound, fmt.Sprintf("No %s embedding for %s", kind, sanitizeLogValue(req.ID)), nil)
		return
	}

	respondSuccess(w, http.StatusOK, models.EmbeddingResponse{
		Kind:   kind.String(),
		ID:     id,
		Dim:    len(vec),
		Vector: vec,
	}, models.Metadata{ModelVersion: m.Version()})
}
