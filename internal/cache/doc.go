// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package cache holds recently served recommendation lists.

Entries live in a size-bounded LRU with a TTL (hashicorp/golang-lru
expirable). Every key carries the version of the model that produced the
list, so publishing or reloading a model makes all earlier entries
unreachable without an explicit purge; they age out through LRU pressure
or TTL.

# Key

A Key is (model version, operation, entity id, n, exclude). Operations are
OpUser, OpSimilar and OpPopular. Keys are comparable values and are used
directly as map keys.

# Usage

	c := cache.New(cfg.Recommend.CacheSize, cfg.Recommend.CacheTTL)

	key := cache.Key{Version: model.Version(), Op: cache.OpUser, ID: userID, N: n, Exclude: true}
	recs, cached := c.GetOrCompute(key, func() []recommend.Recommendation {
	    return model.RecommendForUser(userID, n, true)
	})

Returned slices are copies; callers may modify them.

# Observability

Hits and misses are counted on recommend_cache_hits_total and
recommend_cache_misses_total, and also kept locally for GetStats.
*/
package cache
