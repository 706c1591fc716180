// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/models"
	"github.com/tomtom215/shopai-recommender/internal/validation"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeModelNotLoaded     = "MODEL_NOT_LOADED"
	CodeArtifact           = "ARTIFACT_ERROR"
	CodeTrainingInProgress = "TRAINING_IN_PROGRESS"
	CodeRateLimited        = "RATE_LIMITED"
	CodeNotFound           = "NOT_FOUND"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// sanitizeLogValue replaces control characters so that request data cannot
// forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, meta models.Metadata) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     data,
		Metadata: meta,
	})
}

// respondError sends an error response. err is logged, never sent.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Int("status", status).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusError,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// validateRequest validates a request struct and returns a VALIDATION_ERROR
// APIError, or nil when the request is valid.
func validateRequest(v interface{}) *models.APIError {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}

// respondValidation writes a 400 for a failed validation.
func respondValidation(w http.ResponseWriter, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status:   models.StatusError,
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}
