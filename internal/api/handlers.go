// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package api

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/shopai-recommender/internal/cache"
	"github.com/tomtom215/shopai-recommender/internal/config"
	"github.com/tomtom215/shopai-recommender/internal/models"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

const defaultRequestTimeout = 10 * time.Second

// ShopStore is the subset of the database used by the HTTP layer.
type ShopStore interface {
	GetPopularProducts(ctx context.Context, limit int) ([]models.PopularProduct, error)
	GetUserHistory(ctx context.Context, userID int64, limit int) ([]models.PurchaseRecord, int, error)
}

// TrainTrigger schedules an asynchronous training run. Trigger returns
// recommend.ErrTrainingInProgress when a run is already active or queued.
type TrainTrigger interface {
	Trigger() error
}

// HandlerDeps are the dependencies of Handler. Engine and Config are
// required; the rest degrade the matching endpoints when nil.
type HandlerDeps struct {
	Engine  *recommend.Engine
	Store   recommend.ModelStore
	Shop    ShopStore
	Trainer TrainTrigger
	Cache   *cache.Cache
	Config  *config.Config
	Version string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor
//   - handlers_health.go: /health and /stats
//   - handlers_recommend.go: user, similar, popular, history and embedding
//   - handlers_admin.go: refresh and train
type Handler struct {
	engine  *recommend.Engine
	store   recommend.ModelStore
	shop    ShopStore
	trainer TrainTrigger
	cache   *cache.Cache
	config  *config.Config
	version string
	timeout time.Duration

	// adminLimiter spaces out refresh and train requests.
	adminLimiter *rate.Limiter
}

// NewHandler creates a handler from deps.
func NewHandler(deps HandlerDeps) (*Handler, error) {
	if deps.Engine == nil {
		return nil, errors.New("api: engine is required")
	}
	if deps.Config == nil {
		return nil, errors.New("api: config is required")
	}

	timeout := deps.Config.Server.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	limit := rate.Inf
	if every := deps.Config.Training.RefreshMinInterval; every > 0 {
		limit = rate.Every(every)
	}

	return &Handler{
		engine:       deps.Engine,
		store:        deps.Store,
		shop:         deps.Shop,
		trainer:      deps.Trainer,
		cache:        deps.Cache,
		config:       deps.Config,
		version:      deps.Version,
		timeout:      timeout,
		adminLimiter: rate.NewLimiter(limit, 1),
	}, nil
}

// cached serves k from the response cache, computing it on a miss. Without a
// cache every call computes.
func (h *Handler) cached(k cache.Key, compute func() []recommend.Recommendation) ([]recommend.Recommendation, bool) {
	if h.cache == nil {
		return compute(), false
	}
	return h.cache.GetOrCompute(k, compute)
}

// strategyUsed reports the strategy of a ranked list, or StrategyNone when
// it is empty.
func strategyUsed(recs []recommend.Recommendation) string {
	if len(recs) == 0 {
		return models.StrategyNone
	}
	return string(recs[0].Strategy)
}

// fromPopularProducts converts database popularity rows into ranked
// recommendations scored by order count.
func fromPopularProducts(rows []models.PopularProduct, strategy string) []recommend.Recommendation {
	out := make([]recommend.Recommendation, len(rows))
	for i, p := range rows {
		out[i] = recommend.Recommendation{
			ItemID:   recommend.Numeric(p.ProductID),
			Score:    float64(p.OrderCount),
			Strategy: recommend.Strategy(strategy),
		}
	}
	return out
}
