// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Fit trains a new Model from interactions and optional product metadata.
//
// Popularity is scored over the full interaction table. The minimum
// interaction prefilter then shapes the mappers and the matrix. When the
// filtered matrix has fewer than 2 users or 2 products, Fit logs the
// condition and returns a popularity-only model; this is not an error.
//
// Fit is deterministic for a given input order and configuration apart from
// the model version and training timestamp.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Fit(interactions []Interaction, items []Item, cfg *Config, logger zerolog.Logger) (*Model, TrainReport, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, TrainReport{}, fmt.Errorf("invalid config: %w", err)
	}

	start := time.Now()
	popularity := ScorePopularity(interactions)

	filtered := Prefilter(interactions, cfg.Filter.MinUserInteractions, cfg.Filter.MinItemInteractions)
	userIDs := make([]ID, len(filtered))
	itemIDs := make([]ID, len(filtered))
	for i, in := range filtered {
		userIDs[i] = in.UserID
		itemIDs[i] = in.ItemID
	}
	users := NewMapper(userIDs)
	products := NewMapper(itemIDs)

	matrix, err := BuildMatrix(users, products, filtered)
	if err != nil {
		return nil, TrainReport{}, fmt.Errorf("build matrix: %w", err)
	}

	m := &Model{
		trainedAt:  start.UTC(),
		factors:    cfg.Factors.Count,
		users:      users,
		items:      products,
		matrix:     matrix,
		popularity: popularity,
	}
	m.version = m.trainedAt.UnixMilli()

	report := TrainReport{
		Version:      m.version,
		Interactions: len(interactions),
		FilteredOut:  len(interactions) - len(filtered),
		Users:        users.Len(),
		Items:        products.Len(),
	}

	fr, err := TrainFactors(matrix, cfg.Factors.Count, cfg.Factors.Iterations, cfg.Factors.Seed)
	switch {
	case errors.Is(err, ErrDegenerateTraining):
		report.Degenerate = true
		report.DegenerateReason = err.Error()
		logger.Warn().
			Err(err).
			Int("users", users.Len()).
			Int("products", products.Len()).
			Int("popular_products", popularity.Len()).
			Msg("degenerate training data, serving popularity only")
	case err != nil:
		return nil, TrainReport{}, fmt.Errorf("train factors: %w", err)
	default:
		m.userFactors = fr.Users
		m.itemFactors = fr.Items
		report.LatentDim = fr.Items.Dim()

		content, err := BuildContent(items, products, cfg.Content.MaxFeatures)
		if err != nil {
			return nil, TrainReport{}, fmt.Errorf("build content features: %w", err)
		}
		m.content = content
		report.HasContent = content != nil
		if content == nil {
			logger.Info().Int("metadata_rows", len(items)).Msg("no product metadata matched, content features skipped")
		}
	}

	report.Duration = time.Since(start)
	return m, report, nil
}

// withVersion returns a shallow copy of m carrying version v. It is only used
// on models that have not been published yet.
func (m *Model) withVersion(v int64) *Model {
	c := *m
	c.version = v
	return &c
}
