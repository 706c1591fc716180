// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
)

// syntheticDim is the latent dimension of generated users and products.
const syntheticDim = 10

// SyntheticConfig controls the synthetic data generator.
type SyntheticConfig struct {
	Users        int       `validate:"min=2"`
	Products     int       `validate:"min=2"`
	Interactions int       `validate:"min=1"`
	Seed         int64     `validate:"-"`
	Now          time.Time `validate:"-"` // reference for timestamps, zero means time.Now
}

// DefaultSyntheticConfig returns the generator defaults.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Users:        2000,
		Products:     500,
		Interactions: 30000,
		Seed:         42,
	}
}

// Synthetic is a generated dataset. It implements DataProvider.
type Synthetic struct {
	interactions []Interaction
	items        []Item
}

var (
	syntheticAdjectives = []string{"wireless", "portable", "premium", "compact", "ergonomic", "smart", "durable", "lightweight"}
	syntheticNouns      = []string{"headphones", "keyboard", "backpack", "lamp", "speaker", "blender", "camera", "watch", "charger", "monitor"}
	syntheticCategories = []string{"electronics", "home", "outdoor", "office", "kitchen"}
)

// GenerateSynthetic draws users and products as standard normal vectors,
// samples each interaction's product with softmax probabilities over the
// user's similarities, and rates it clip(3 + sim + N(0, 0.5), 1, 5) rounded
// to one decimal. Timestamps are spread over the year before cfg.Now.
// Output is fully determined by cfg.
func GenerateSynthetic(cfg SyntheticConfig) (*Synthetic, error) {
	if cfg.Users < 1 || cfg.Products < 1 || cfg.Interactions < 0 {
		return nil, fmt.Errorf("invalid synthetic sizes: %d users, %d products, %d interactions",
			cfg.Users, cfg.Products, cfg.Interactions)
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible test data

	userVecs := randomVectors(rng, cfg.Users)
	productVecs := randomVectors(rng, cfg.Products)

	sims := make([]float64, cfg.Products)
	cdf := make([]float64, cfg.Products)
	out := make([]Interaction, 0, cfg.Interactions)
	for n := 0; n < cfg.Interactions; n++ {
		u := rng.Intn(cfg.Users)
		for p := range productVecs {
			sims[p] = floats.Dot(userVecs[u], productVecs[p])
		}
		softmaxCDF(sims, cdf)
		p := sort.SearchFloat64s(cdf, rng.Float64()*cdf[len(cdf)-1])
		p = min(p, cfg.Products-1)

		rating := 3 + sims[p] + rng.NormFloat64()*0.5
		rating = math.Round(math.Max(1, math.Min(5, rating))*10) / 10

		out = append(out, Interaction{
			UserID:    Text(fmt.Sprintf("user_%d", u)),
			ItemID:    Text(fmt.Sprintf("product_%d", p)),
			Rating:    rating,
			Timestamp: now.Add(-time.Duration(rng.Intn(365)) * 24 * time.Hour),
		})
	}

	items := make([]Item, cfg.Products)
	for p := range items {
		adj := syntheticAdjectives[p%len(syntheticAdjectives)]
		noun := syntheticNouns[(p/len(syntheticAdjectives))%len(syntheticNouns)]
		cat := syntheticCategories[p%len(syntheticCategories)]
		items[p] = Item{
			ID:          Text(fmt.Sprintf("product_%d", p)),
			Name:        fmt.Sprintf("%s %s %d", adj, noun, p),
			Description: fmt.Sprintf("A %s %s for everyday %s use.", adj, noun, cat),
			Category:    cat,
		}
	}
	return &Synthetic{interactions: out, items: items}, nil
}

func randomVectors(rng *rand.Rand, n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		v := make([]float64, syntheticDim)
		for j := range v {
			v[j] = rng.NormFloat64()
		}
		out[i] = v
	}
	return out
}

// softmaxCDF writes the cumulative unnormalized softmax weights of x to dst.
// The maximum is subtracted first to keep exp in range.
func softmaxCDF(x, dst []float64) {
	maxV := floats.Max(x)
	for i, v := range x {
		dst[i] = math.Exp(v - maxV)
	}
	floats.CumSum(dst, dst)
}

// Interactions returns the generated interactions.
func (s *Synthetic) Interactions() []Interaction { return s.interactions }

// Items returns the generated product metadata.
func (s *Synthetic) Items() []Item { return s.items }

// GetInteractions implements DataProvider.
func (s *Synthetic) GetInteractions(_ context.Context) ([]Interaction, error) {
	return s.interactions, nil
}

// GetItems implements DataProvider.
func (s *Synthetic) GetItems(_ context.Context) ([]Item, error) {
	return s.items, nil
}
