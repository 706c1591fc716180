// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

// Package recommend implements the hybrid product recommendation engine.
//
// # Architecture
//
// A training run turns raw interactions and optional product metadata into
// one immutable Model:
//
//   - Mapper: first-seen bijection between user/product IDs and dense indices
//   - Matrix: sparse user x product rating matrix (CSR, float32)
//   - Factors: truncated SVD (randomized range finder, fixed seed) with
//     row-normalized user and item embeddings
//   - ContentSpace: TF-IDF vectors over product name and description
//   - Popularity: interaction count and mean rating blended into one ranking
//
// Serving reads the current Model through Engine, which publishes new models
// with an atomic pointer swap. Requests capture the pointer once and never
// observe a partially built model.
//
// # Fallback
//
// Unknown users and products, scoring failures, and empty candidate sets are
// answered from the popularity ranking. Callers only ever see ErrNotTrained
// or an *ArtifactError as failures; everything else yields a tagged list.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, logger)
//	report, err := engine.Train(ctx, provider)
//
//	recs, err := engine.RecommendForUser(recommend.Numeric(42), 10, true)
//
// # Thread Safety
//
// Model is read-only after construction and safe for concurrent use. Engine
// allows one training run at a time; reads never block on training.
package recommend
