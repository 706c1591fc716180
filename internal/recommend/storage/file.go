// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// FileStore keeps one artifact in a single file. Saves write a temporary
// file in the same directory and rename it over the target, so readers see
// either the old or the new artifact.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store for path. The parent directory is created on
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Location returns the artifact path.
func (s *FileStore) Location() string { return s.path }

// Save writes m atomically.
func (s *FileStore) Save(ctx context.Context, m *recommend.Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, meta, err := Encode(m)
	if err != nil {
		return recommend.NewArtifactError("save", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return recommend.NewArtifactError("save", s.path, fmt.Errorf("create model directory: %w", err))
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return recommend.NewArtifactError("save", s.path, err)
	}

	logging.Debug().
		Str("path", s.path).
		Int64("version", meta.ModelVersion).
		Int64("size_bytes", meta.SizeBytes).
		Msg("model artifact written")
	return nil
}

// Load reads and verifies the artifact.
func (s *FileStore) Load(ctx context.Context) (*recommend.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, recommend.NewArtifactError("load", s.path, recommend.ErrArtifactNotFound)
	}
	if err != nil {
		return nil, recommend.NewArtifactError("load", s.path, err)
	}
	m, _, err := Decode(data, s.path)
	return m, err
}

// Metadata returns the artifact header without rebuilding the model.
func (s *FileStore) Metadata() (Metadata, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Metadata{}, recommend.NewArtifactError("load", s.path, recommend.ErrArtifactNotFound)
	}
	if err != nil {
		return Metadata{}, recommend.NewArtifactError("load", s.path, err)
	}
	meta, err := DecodeMetadata(data)
	if err != nil {
		return Metadata{}, recommend.NewArtifactError("decode", s.path, err)
	}
	return meta, nil
}

// Close is a no-op; it lets FileStore satisfy Store.
func (s *FileStore) Close() error { return nil }

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}
