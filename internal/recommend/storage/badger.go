// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// DefaultHistory is the number of previous artifacts a BadgerStore keeps.
const DefaultHistory = 5

// Key layout
var (
	keyCurrent    = []byte("model:current")
	prefixVersion = []byte("model:version:")
)

// BadgerStore keeps the current artifact and a bounded history of earlier
// versions in BadgerDB. Each save updates both in one transaction.
type BadgerStore struct {
	db      *badger.DB
	path    string
	history int
}

// BadgerOptions configures OpenBadgerStore.
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// History is the number of versions kept besides the current one.
	// Zero means DefaultHistory.
	History int

	// InMemory opens a non-persistent database, for tests.
	InMemory bool
}

// OpenBadgerStore opens or creates the registry.
func OpenBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.SyncWrites = true

	// Reduce logging verbosity
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	history := opts.History
	if history <= 0 {
		history = DefaultHistory
	}
	location := opts.Path
	if opts.InMemory {
		location = "badger:memory"
	}

	logging.Info().
		Str("path", location).
		Int("history", history).
		Msg("model registry opened")
	return &BadgerStore{db: db, path: location, history: history}, nil
}

// Location returns the registry path.
func (s *BadgerStore) Location() string { return s.path }

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Save stores m as the current artifact and appends it to the history,
// pruning versions beyond the configured limit.
func (s *BadgerStore) Save(ctx context.Context, m *recommend.Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, meta, err := Encode(m)
	if err != nil {
		return recommend.NewArtifactError("save", s.path, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyCurrent, data); err != nil {
			return err
		}
		if err := txn.Set(versionKey(meta.ModelVersion), data); err != nil {
			return err
		}
		return s.prune(txn)
	})
	if err != nil {
		return recommend.NewArtifactError("save", s.path, err)
	}

	logging.Debug().
		Str("path", s.path).
		Int64("version", meta.ModelVersion).
		Int64("size_bytes", meta.SizeBytes).
		Msg("model artifact stored in registry")
	return nil
}

// Load reads and verifies the current artifact.
func (s *BadgerStore) Load(ctx context.Context) (*recommend.Model, error) {
	return s.load(ctx, keyCurrent, s.path)
}

// LoadVersion reads a specific historical version.
func (s *BadgerStore) LoadVersion(ctx context.Context, version int64) (*recommend.Model, error) {
	return s.load(ctx, versionKey(version), fmt.Sprintf("%s#v%d", s.path, version))
}

func (s *BadgerStore) load(ctx context.Context, key []byte, location string) (*recommend.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, recommend.NewArtifactError("load", location, recommend.ErrArtifactNotFound)
	}
	if err != nil {
		return nil, recommend.NewArtifactError("load", location, err)
	}
	m, _, err := Decode(data, location)
	return m, err
}

// Versions lists the stored history, newest first. Entries whose header
// cannot be read are skipped.
func (s *BadgerStore) Versions(ctx context.Context) ([]Metadata, error) {
	var out []Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(slices.Clone(prefixVersion), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefixVersion); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				meta, err := DecodeMetadata(val)
				if err != nil {
					return err
				}
				out = append(out, meta)
				return nil
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("skipping unreadable registry entry")
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return out, nil
}

// prune deletes history entries beyond s.history, oldest first.
func (s *BadgerStore) prune(txn *badger.Txn) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)

	var keys [][]byte
	for it.Seek(prefixVersion); it.ValidForPrefix(prefixVersion); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	// Keys sort by version ascending; the newest written key is included.
	for len(keys) > s.history+1 {
		if err := txn.Delete(keys[0]); err != nil {
			return err
		}
		keys = keys[1:]
	}
	return nil
}

// versionKey encodes versions big-endian so keys sort numerically.
// Negative versions are not produced by training.
func versionKey(v int64) []byte {
	key := make([]byte, len(prefixVersion)+8)
	copy(key, prefixVersion)
	binary.BigEndian.PutUint64(key[len(prefixVersion):], uint64(v)) //nolint:gosec // versions are non-negative
	return key
}
