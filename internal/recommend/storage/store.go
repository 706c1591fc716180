// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package storage

import (
	"fmt"
	"io"

	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// Store is a closable model store.
type Store interface {
	recommend.ModelStore
	io.Closer
}

// Backend names accepted by New.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the artifact file for the file backend and the database
	// directory for the badger backend.
	Path    string
	History int
}

// New opens the configured store.
func New(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.Path), nil
	case BackendBadger:
		s, err := OpenBadgerStore(BadgerOptions{Path: opts.Path, History: opts.History})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown model store %q", opts.Backend)
	}
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*BadgerStore)(nil)
)
