// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"context"
	"fmt"
	"time"
)

// implicitRating is the matrix value for an interaction without a rating.
const implicitRating = 1.0

// Interaction is one user-product event used for training.
type Interaction struct {
	// UserID identifies the user.
	UserID ID `json:"user_id"`

	// ItemID identifies the product.
	ItemID ID `json:"product_id"`

	// Rating is the explicit or weighted implicit signal. Ignored when
	// Implicit is true.
	Rating float64 `json:"rating"`

	// Implicit marks an interaction without a rating; it counts as 1.0.
	Implicit bool `json:"implicit,omitempty"`

	// Timestamp is when the interaction happened. Zero when unknown.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Value returns the matrix value for the interaction.
//
//nolint:gocritic // value receiver keeps Interaction usable in range loops
func (i Interaction) Value() float64 {
	if i.Implicit {
		return implicitRating
	}
	return i.Rating
}

// Item is product metadata used to build content features.
type Item struct {
	ID          ID     `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// Strategy tags how a recommendation was produced.
type Strategy string

const (
	// StrategyCollaborative marks latent-factor user recommendations.
	StrategyCollaborative Strategy = "collaborative_filtering"
	// StrategyItemSimilarity marks item-to-item embedding similarity.
	StrategyItemSimilarity Strategy = "item_similarity"
	// StrategyPopularity marks the popularity ranking.
	StrategyPopularity Strategy = "popularity"
)

// Recommendation is one ranked product.
type Recommendation struct {
	ItemID   ID       `json:"product_id"`
	Score    float64  `json:"score"`
	Strategy Strategy `json:"strategy"`
}

// EntityKind selects the embedding table for GetEmbedding.
type EntityKind int

const (
	// EntityUser selects user embeddings.
	EntityUser EntityKind = iota
	// EntityItem selects product embeddings.
	EntityItem
)

// String returns a human-readable name for the entity kind.
func (k EntityKind) String() string {
	switch k {
	case EntityUser:
		return "user"
	case EntityItem:
		return "product"
	default:
		return "unknown"
	}
}

// ParseEntityKind accepts "user", "product" or "item".
func ParseEntityKind(s string) (EntityKind, error) {
	switch s {
	case "user", "users":
		return EntityUser, nil
	case "product", "products", "item", "items":
		return EntityItem, nil
	default:
		return 0, fmt.Errorf("unknown entity kind %q", s)
	}
}

// Stats summarizes a model. It is a pure read.
type Stats struct {
	Trained       bool      `json:"is_trained"`
	Users         int       `json:"n_users"`
	Items         int       `json:"n_products"`
	Factors       int       `json:"n_factors"`
	LatentDim     int       `json:"latent_dim"`
	HasContent    bool      `json:"has_content_features"`
	HasPopularity bool      `json:"has_popularity_scores"`
	Version       int64     `json:"version,omitempty"`
	TrainedAt     time.Time `json:"trained_at,omitempty"`
}

// DataProvider supplies training data. It is implemented by the database
// layer and by the synthetic generator.
type DataProvider interface {
	// GetInteractions returns every interaction available for training.
	GetInteractions(ctx context.Context) ([]Interaction, error)

	// GetItems returns product metadata. An empty result disables content
	// features but is not an error.
	GetItems(ctx context.Context) ([]Item, error)
}

// ModelStore persists and restores trained models as one artifact.
// Load returns an *ArtifactError for missing, corrupt or incompatible data.
type ModelStore interface {
	Save(ctx context.Context, m *Model) error
	Load(ctx context.Context) (*Model, error)
	Location() string
}

// TrainReport describes a completed training run.
type TrainReport struct {
	Version          int64         `json:"version"`
	Interactions     int           `json:"interactions"`
	FilteredOut      int           `json:"filtered_out"`
	Users            int           `json:"n_users"`
	Items            int           `json:"n_products"`
	LatentDim        int           `json:"latent_dim"`
	HasContent       bool          `json:"has_content_features"`
	Degenerate       bool          `json:"degenerate"`
	Duration         time.Duration `json:"duration"`
	DegenerateReason string        `json:"degenerate_reason,omitempty"`
}
