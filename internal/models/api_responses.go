// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the wrapper used by every HTTP endpoint.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"user_id": 42, "recommendations": [...], "total": 10, "strategy_used": "collaborative_filtering"},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "query_time_ms": 2}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "MODEL_NOT_LOADED", "message": "No model is loaded"},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response timing and cache information.
type Metadata struct {
	Timestamp    time.Time `json:"timestamp"`
	QueryTimeMS  int64     `json:"query_time_ms,omitempty"`
	Cached       bool      `json:"cached,omitempty"`
	ModelVersion int64     `json:"model_version,omitempty"`
}

// APIError is a structured error with a machine-readable code.
//
// Codes:
//   - VALIDATION_ERROR: invalid path or query parameters
//   - MODEL_NOT_LOADED: no trained model is published
//   - ARTIFACT_ERROR: the model artifact is missing, corrupt or incompatible
//   - TRAINING_IN_PROGRESS: a training run is already active
//   - RATE_LIMITED: too many requests
//   - UNAUTHORIZED: missing or invalid admin token
//   - FORBIDDEN: valid token without the admin role
//   - NOT_FOUND: unknown route or absent embedding
//   - SERVICE_UNAVAILABLE: a backing component is not configured
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
