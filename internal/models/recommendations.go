// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package models

import (
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// Strategy labels that only appear at the HTTP layer.
const (
	// StrategyPopularityFallback marks user recommendations served from the
	// database because no model is loaded.
	StrategyPopularityFallback = "popularity_fallback"

	// StrategyPopularityDatabase marks popular products ranked by order count.
	StrategyPopularityDatabase = "popularity_database"

	// StrategyNone marks an empty result.
	StrategyNone = "no_recommendations"
)

// UserRecommendationsResponse is returned by GET /api/recommendations/user/{userID}.
type UserRecommendationsResponse struct {
	UserID          recommend.ID               `json:"user_id"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Total           int                        `json:"total"`
	StrategyUsed    string                     `json:"strategy_used"`
}

// SimilarProductsResponse is returned by the similar-products endpoint.
type SimilarProductsResponse struct {
	ProductID       recommend.ID               `json:"product_id"`
	SimilarProducts []recommend.Recommendation `json:"similar_products"`
	Total           int                        `json:"total"`
}

// PopularProductsResponse is returned by GET /api/recommendations/popular.
type PopularProductsResponse struct {
	Products []recommend.Recommendation `json:"products"`
	Total    int                        `json:"total"`
	Strategy string                     `json:"strategy"`
}

// PurchaseHistoryResponse lists a user's purchases, newest first. Total
// counts every purchase even when Purchases is truncated by the limit.
type PurchaseHistoryResponse struct {
	UserID    int64            `json:"user_id"`
	Purchases []PurchaseRecord `json:"purchases"`
	Total     int              `json:"total"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status       string `json:"status"` // healthy or degraded
	ModelLoaded  bool   `json:"model_loaded"`
	Version      string `json:"version"`
	ModelVersion int64  `json:"model_version,omitempty"`
	Training     bool   `json:"training"`
}

// CacheStats reports the recommendation response cache.
type CacheStats struct {
	Keys    int     `json:"keys"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// StatsResponse is returned by GET /stats.
type StatsResponse struct {
	Model        recommend.Stats        `json:"model"`
	LastTraining *recommend.TrainReport `json:"last_training,omitempty"`
	Cache        *CacheStats            `json:"cache,omitempty"`
}

// RefreshResponse is returned after a successful model reload.
type RefreshResponse struct {
	Message  string          `json:"message"`
	Location string          `json:"location"`
	Stats    recommend.Stats `json:"stats"`
}

// TrainResponse acknowledges an accepted training request.
type TrainResponse struct {
	Message string `json:"message"`
}

// EmbeddingResponse carries a stored latent vector.
type EmbeddingResponse struct {
	Kind   string       `json:"kind"`
	ID     recommend.ID `json:"id"`
	Dim    int          `json:"dim"`
	Vector []float32    `json:"vector"`
}
