// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTrained is returned by serving operations before a model has been
	// trained or loaded.
	ErrNotTrained = errors.New("recommendation model is not trained")

	// ErrArtifact matches every *ArtifactError via errors.Is.
	ErrArtifact = errors.New("model artifact error")

	// ErrArtifactNotFound is wrapped by an *ArtifactError when no artifact exists.
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrDegenerateTraining reports a matrix with fewer than 2 users or items.
	// The resulting model is popularity-only; it is never returned to callers
	// of serving operations.
	ErrDegenerateTraining = errors.New("degenerate training data")

	// ErrTrainingInProgress is returned when a second training run is requested
	// while one is still running.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// ArtifactError describes a failure to read, write, or validate a persisted
// model artifact.
type ArtifactError struct {
	// Op is the operation that failed: "save", "load", "decode", "verify".
	Op string
	// Path identifies the artifact (file path or registry key).
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("model artifact %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("model artifact %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrArtifact) true for any *ArtifactError.
func (e *ArtifactError) Is(target error) bool {
	return target == ErrArtifact
}

// NewArtifactError wraps err as an *ArtifactError.
func NewArtifactError(op, path string, err error) *ArtifactError {
	return &ArtifactError{Op: op, Path: path, Err: err}
}
