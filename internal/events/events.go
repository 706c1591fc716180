// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// ModelPublished announces a newly saved model artifact.
type ModelPublished struct {
	// ModelID is unique per publish event.
	ModelID   string    `json:"model_id"`
	Version   int64     `json:"version"`
	Path      string    `json:"path"`
	TrainedAt time.Time `json:"trained_at"`
	Users     int       `json:"users"`
	Items     int       `json:"items"`
}

// NewModelPublished builds an event for a model saved at location.
//
//nolint:gocritic // Stats is a small value type
func NewModelPublished(stats recommend.Stats, location string) ModelPublished {
	return ModelPublished{
		ModelID:   uuid.NewString(),
		Version:   stats.Version,
		Path:      location,
		TrainedAt: stats.TrainedAt,
		Users:     stats.Users,
		Items:     stats.Items,
	}
}

// Validate checks the fields a consumer relies on.
func (e *ModelPublished) Validate() error {
	if e.ModelID == "" {
		return fmt.Errorf("model_id is required")
	}
	if e.Version <= 0 {
		return fmt.Errorf("version must be positive, got %d", e.Version)
	}
	return nil
}

// encodeEvent serializes an event for the message payload.
func encodeEvent(e *ModelPublished) ([]byte, error) {
	return json.Marshal(e)
}

// decodeEvent parses and validates a message payload.
func decodeEvent(data []byte) (ModelPublished, error) {
	var e ModelPublished
	if err := json.Unmarshal(data, &e); err != nil {
		return ModelPublished{}, fmt.Errorf("decode model event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return ModelPublished{}, fmt.Errorf("invalid model event: %w", err)
	}
	return e, nil
}
