// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Factors contains parameters for the latent factor trainer.
	Factors FactorConfig `json:"factors"`

	// Content contains parameters for TF-IDF content features.
	Content ContentConfig `json:"content"`

	// Filter contains minimum-interaction thresholds applied before
	// building the matrix.
	Filter FilterConfig `json:"filter"`

	// Training contains training run parameters.
	Training TrainingConfig `json:"training"`
}

// FactorConfig contains parameters for the truncated SVD.
type FactorConfig struct {
	// Count is the configured number of latent factors. The effective
	// dimension is capped at min(users, products) - 1.
	// Default: 64.
	Count int `json:"count"`

	// Iterations is the number of power iterations of the range finder.
	// Default: 30.
	Iterations int `json:"iterations"`

	// Seed seeds the random sketch. Same data and seed give the same model.
	// Default: 42.
	Seed int64 `json:"seed"`
}

// ContentConfig contains parameters for content features.
type ContentConfig struct {
	// MaxFeatures caps the TF-IDF vocabulary.
	// Default: 500.
	MaxFeatures int `json:"max_features"`
}

// FilterConfig contains minimum-interaction thresholds.
type FilterConfig struct {
	// MinUserInteractions drops users with fewer interactions.
	// Default: 1 (keep everyone).
	MinUserInteractions int `json:"min_user_interactions"`

	// MinItemInteractions drops products with fewer interactions after the
	// user filter ran.
	// Default: 1.
	MinItemInteractions int `json:"min_item_interactions"`
}

// TrainingConfig contains training run parameters.
type TrainingConfig struct {
	// Timeout is the maximum time allowed for loading training data.
	// Default: 30m.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns a configuration with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Factors: FactorConfig{
			Count:      64,
			Iterations: 30,
			Seed:       42,
		},
		Content: ContentConfig{
			MaxFeatures: DefaultContentFeatures,
		},
		Filter: FilterConfig{
			MinUserInteractions: 1,
			MinItemInteractions: 1,
		},
		Training: TrainingConfig{
			Timeout: 30 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Factors.Count < 1 {
		return fmt.Errorf("factors.count must be positive, got %d", c.Factors.Count)
	}
	if c.Factors.Iterations < 0 {
		return fmt.Errorf("factors.iterations must be non-negative, got %d", c.Factors.Iterations)
	}
	if c.Content.MaxFeatures < 1 {
		return fmt.Errorf("content.max_features must be positive, got %d", c.Content.MaxFeatures)
	}
	if c.Filter.MinUserInteractions < 0 {
		return fmt.Errorf("filter.min_user_interactions must be non-negative, got %d", c.Filter.MinUserInteractions)
	}
	if c.Filter.MinItemInteractions < 0 {
		return fmt.Errorf("filter.min_item_interactions must be non-negative, got %d", c.Filter.MinItemInteractions)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
