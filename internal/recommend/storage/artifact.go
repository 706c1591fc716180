// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

const (
	// FormatMarker identifies recommender model artifacts.
	FormatMarker = "shopai-recommender/model"

	// SchemaVersion is bumped whenever recommend.State changes incompatibly.
	SchemaVersion = 1
)

var (
	errFormatMismatch   = errors.New("not a recommender model artifact")
	errSchemaMismatch   = errors.New("unsupported artifact schema version")
	errChecksumMismatch = errors.New("checksum mismatch")
)

// Metadata describes a stored artifact.
type Metadata struct {
	Format        string    `json:"format"`
	SchemaVersion int       `json:"schema_version"`
	ModelVersion  int64     `json:"model_version"`
	Factors       int       `json:"factors"`
	TrainedAt     time.Time `json:"trained_at"`
	SavedAt       time.Time `json:"saved_at"`
	Users         int       `json:"n_users"`
	Items         int       `json:"n_products"`
	Checksum      string    `json:"checksum"`
	SizeBytes     int64     `json:"size_bytes"`
}

// envelope is the encoded form of an artifact.
type envelope struct {
	Metadata       Metadata
	CompressedData []byte
}

// Encode serializes m into an artifact.
func Encode(m *recommend.Model) ([]byte, Metadata, error) {
	state := m.State()

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(state); err != nil {
		return nil, Metadata{}, fmt.Errorf("encode model: %w", err)
	}
	sum := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, Metadata{}, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, Metadata{}, fmt.Errorf("finalize compression: %w", err)
	}

	stats := m.Stats()
	meta := Metadata{
		Format:        FormatMarker,
		SchemaVersion: SchemaVersion,
		ModelVersion:  state.Version,
		Factors:       state.Factors,
		TrainedAt:     state.TrainedAt,
		SavedAt:       time.Now().UTC(),
		Users:         stats.Users,
		Items:         stats.Items,
		Checksum:      hex.EncodeToString(sum[:]),
		SizeBytes:     int64(compressed.Len()),
	}

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(envelope{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return nil, Metadata{}, fmt.Errorf("encode envelope: %w", err)
	}
	return out.Bytes(), meta, nil
}

// DecodeMetadata reads only the envelope header and checks the format marker
// and schema version.
func DecodeMetadata(data []byte) (Metadata, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return Metadata{}, err
	}
	return env.Metadata, nil
}

// Decode verifies and rebuilds a model. Every failure is an
// *recommend.ArtifactError naming location.
func Decode(data []byte, location string) (*recommend.Model, Metadata, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, Metadata{}, recommend.NewArtifactError("decode", location, err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(env.CompressedData))
	if err != nil {
		return nil, Metadata{}, recommend.NewArtifactError("decode", location, fmt.Errorf("decompress model: %w", err))
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, Metadata{}, recommend.NewArtifactError("decode", location, fmt.Errorf("read decompressed data: %w", err))
	}

	sum := sha256.Sum256(raw)
	if got := hex.EncodeToString(sum[:]); got != env.Metadata.Checksum {
		return nil, Metadata{}, recommend.NewArtifactError("verify", location,
			fmt.Errorf("%w: expected %s, got %s", errChecksumMismatch, env.Metadata.Checksum, got))
	}

	var state recommend.State
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&state); err != nil {
		return nil, Metadata{}, recommend.NewArtifactError("decode", location, fmt.Errorf("decode model: %w", err))
	}
	if state.Factors != env.Metadata.Factors {
		return nil, Metadata{}, recommend.NewArtifactError("verify", location,
			fmt.Errorf("factor count %d does not match metadata %d", state.Factors, env.Metadata.Factors))
	}

	m, err := recommend.FromState(&state)
	if err != nil {
		return nil, Metadata{}, recommend.NewArtifactError("verify", location, err)
	}
	return m, env.Metadata, nil
}

func decodeEnvelope(data []byte) (*envelope, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	if env.Metadata.Format != FormatMarker {
		return nil, fmt.Errorf("%w: format %q", errFormatMismatch, env.Metadata.Format)
	}
	if env.Metadata.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: %d (supported: %d)", errSchemaMismatch, env.Metadata.SchemaVersion, SchemaVersion)
	}
	return &env, nil
}
