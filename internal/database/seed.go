// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package database

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/models"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// SeedConfig controls demo data generation.
type SeedConfig struct {
	Synthetic recommend.SyntheticConfig

	// CancelRate is the share of generated orders marked CANCELLED.
	CancelRate float64 `validate:"gte=0,lte=1"`
}

// DefaultSeedConfig returns a small shop: 200 users, 100 products.
func DefaultSeedConfig() SeedConfig {
	syn := recommend.DefaultSyntheticConfig()
	syn.Users = 200
	syn.Products = 100
	syn.Interactions = 3000
	return SeedConfig{Synthetic: syn, CancelRate: 0.05}
}

// SeedReport counts the rows written by Seed.
type SeedReport struct {
	Products     int `json:"products"`
	Orders       int `json:"orders"`
	Interactions int `json:"interactions"`
}

// Seed fills the shop tables from the synthetic generator. Interactions
// rated 4 or more become single-line orders; the rest become storefront
// events whose type follows the rating. Generated ids map "user_N" and
// "product_N" to N+1. Output is fully determined by cfg.
func (db *DB) Seed(ctx context.Context, cfg SeedConfig) (SeedReport, error) {
	syn, err := recommend.GenerateSynthetic(cfg.Synthetic)
	if err != nil {
		return SeedReport{}, err
	}
	rng := rand.New(rand.NewSource(cfg.Synthetic.Seed + 1)) //nolint:gosec // reproducible demo data

	items := syn.Items()
	products := make([]models.Product, len(items))
	byID := make(map[int64]*models.Product, len(items))
	for i, it := range items {
		id, err := syntheticNumber(it.ID)
		if err != nil {
			return SeedReport{}, err
		}
		products[i] = models.Product{
			ID:          id,
			Name:        it.Name,
			Description: it.Description,
			Category:    it.Category,
			Price:       math.Round((5+rng.Float64()*195)*100) / 100,
		}
		byID[id] = &products[i]
	}

	var (
		orders []models.Order
		events []models.UserInteraction
	)
	for _, in := range syn.Interactions() {
		userID, err := syntheticNumber(in.UserID)
		if err != nil {
			return SeedReport{}, err
		}
		productID, err := syntheticNumber(in.ItemID)
		if err != nil {
			return SeedReport{}, err
		}

		if in.Rating >= 4 {
			status := OrderStatusCompleted
			if rng.Float64() < cfg.CancelRate {
				status = OrderStatusCancelled
			}
			p := byID[productID]
			orders = append(orders, models.Order{
				ID:        int64(len(orders) + 1),
				UserID:    userID,
				Status:    status,
				CreatedAt: in.Timestamp.UTC(),
				Items: []models.OrderItem{{
					ProductID:   productID,
					ProductName: p.Name,
					Quantity:    1 + rng.Intn(3),
					Price:       p.Price,
				}},
			})
			continue
		}

		ev := models.UserInteraction{
			UserID:    userID,
			ProductID: productID,
			Quantity:  1,
			CreatedAt: in.Timestamp.UTC(),
		}
		switch {
		case in.Rating >= 3:
			ev.Type = InteractionAddToCart
		case in.Rating >= 2:
			ev.Type = InteractionRating
			r := in.Rating
			ev.Rating = &r
		default:
			ev.Type = InteractionView
		}
		events = append(events, ev)
	}

	if err := db.InsertProducts(ctx, products); err != nil {
		return SeedReport{}, err
	}
	if err := db.InsertOrders(ctx, orders); err != nil {
		return SeedReport{}, err
	}
	if err := db.InsertInteractions(ctx, events); err != nil {
		return SeedReport{}, err
	}

	report := SeedReport{Products: len(products), Orders: len(orders), Interactions: len(events)}
	logging.Info().
		Int("products", report.Products).
		Int("orders", report.Orders).
		Int("interactions", report.Interactions).
		Msg("Seeded demo shop data")
	return report, nil
}

// syntheticNumber maps "user_N" or "product_N" to N+1.
func syntheticNumber(id recommend.ID) (int64, error) {
	s := id.String()
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return 0, fmt.Errorf("unexpected synthetic id %q", s)
	}
	n, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected synthetic id %q: %w", s, err)
	}
	return n + 1, nil
}
