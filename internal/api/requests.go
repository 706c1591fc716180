// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shopai-recommender/internal/models"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// Purchase history page size.
const (
	historyDefaultLimit = 20
	historyMaxLimit     = 100
)

// LimitRequest is a validated ?limit= query parameter. Max comes from
// configuration, so the upper bound is a field comparison.
type LimitRequest struct {
	Limit int `name:"limit" validate:"min=1,ltefield=Max"`
	Max   int `name:"max_limit"`
}

// EntityRequest is a validated path identifier.
type EntityRequest struct {
	ID string `name:"id" validate:"entityid"`
}

// EmbeddingRequest is a validated embedding lookup.
type EmbeddingRequest struct {
	Kind string `name:"kind" validate:"entitykind"`
	ID   string `name:"id" validate:"entityid"`
}

// HistoryRequest is a validated purchase history query.
type HistoryRequest struct {
	UserID int64 `name:"user_id" validate:"gte=1"`
	Limit  int   `name:"limit" validate:"min=1,max=100"`
}

// parseLimit reads ?limit=, applying def when absent. A non-integer value is
// a validation error rather than a silent default.
func parseLimit(r *http.Request, def, maxLimit int) (int, *models.APIError) {
	limit := def
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, &models.APIError{
				Code:    CodeValidation,
				Message: fmt.Sprintf("limit must be an integer, got %q", raw),
			}
		}
		limit = n
	}
	if apiErr := validateRequest(&LimitRequest{Limit: limit, Max: maxLimit}); apiErr != nil {
		return 0, apiErr
	}
	return limit, nil
}

// parseEntityID reads and validates a path identifier. Integers become
// numeric ids, anything else a text id.
func parseEntityID(r *http.Request, param string) (recommend.ID, *models.APIError) {
	raw := chi.URLParam(r, param)
	if apiErr := validateRequest(&EntityRequest{ID: raw}); apiErr != nil {
		return recommend.ID{}, apiErr
	}
	return recommend.ParseID(raw), nil
}
