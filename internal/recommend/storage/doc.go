// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

// Package storage persists trained recommendation models.
//
// A model is saved as one artifact: the gob-encoded recommend.State,
// gzip-compressed, wrapped in an envelope that carries a format marker, a
// schema version, the configured factor count and a SHA-256 checksum of the
// uncompressed state. Loading verifies every one of these before the model
// is rebuilt, so an artifact from another program or an older schema fails
// with a *recommend.ArtifactError instead of decoding partially.
//
// # Backends
//
//   - FileStore: a single file, replaced atomically by rename
//   - BadgerStore: a BadgerDB registry holding the current artifact plus a
//     bounded history of previous versions
//
// # Storage Format
//
//	envelope (gob):
//	  - Metadata (format, schema version, model version, factors, checksum, ...)
//	  - CompressedData (gzip of gob-encoded recommend.State)
//
// # Usage Example
//
//	store, err := storage.New(storage.Options{Backend: "file", Path: "models/recommender_model.gob.gz"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if err := engine.Save(ctx, store); err != nil {
//	    return err
//	}
//	if _, err := engine.Reload(ctx, store); errors.Is(err, recommend.ErrArtifactNotFound) {
//	    // nothing saved yet
//	}
//
// # Thread Safety
//
// Both stores serialize writes. Loads may run concurrently with each other.
package storage
