// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package cache

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tomtom215/shopai-recommender/internal/metrics"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// Op names the engine operation that produced a list.
type Op uint8

const (
	// OpUser is RecommendForUser.
	OpUser Op = iota + 1
	// OpSimilar is RecommendSimilarItem.
	OpSimilar
	// OpPopular is PopularFallback.
	OpPopular
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpUser:
		return "user"
	case OpSimilar:
		return "similar"
	case OpPopular:
		return "popular"
	default:
		return "unknown"
	}
}

// Key identifies one cached list.
type Key struct {
	Version int64
	Op      Op
	ID      recommend.ID
	N       int
	Exclude bool
}

// String formats the key for logs.
func (k Key) String() string {
	return fmt.Sprintf("v%d:%s:%s:%d:%t", k.Version, k.Op, k.ID, k.N, k.Exclude)
}

// Defaults used when New receives non-positive values.
const (
	DefaultSize = 10000
	DefaultTTL  = 5 * time.Minute
)

// Cache is a concurrency-safe LRU of recommendation lists with a TTL.
type Cache struct {
	lru    *expirable.LRU[Key, []recommend.Recommendation]
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Keys   int   `json:"keys"`
}

// New creates a cache holding up to size lists for ttl each.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{lru: expirable.NewLRU[Key, []recommend.Recommendation](size, nil, ttl)}
}

// Get returns a copy of the cached list for k.
func (c *Cache) Get(k Key) ([]recommend.Recommendation, bool) {
	recs, ok := c.lru.Get(k)
	if !ok {
		c.misses.Add(1)
		metrics.CacheMisses.Inc()
		return nil, false
	}
	c.hits.Add(1)
	metrics.CacheHits.Inc()
	return slices.Clone(recs), true
}

// Add stores a copy of recs under k.
func (c *Cache) Add(k Key, recs []recommend.Recommendation) {
	c.lru.Add(k, slices.Clone(recs))
}

// GetOrCompute returns the cached list for k, or calls compute, stores
// its result and returns it. The second result reports a cache hit.
// Concurrent misses on one key may both compute; the last Add wins.
func (c *Cache) GetOrCompute(k Key, compute func() []recommend.Recommendation) ([]recommend.Recommendation, bool) {
	if recs, ok := c.Get(k); ok {
		return recs, true
	}
	recs := compute()
	c.Add(k, recs)
	return recs, false
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// GetStats returns the current counters.
func (c *Cache) GetStats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Keys:   c.lru.Len(),
	}
}

// HitRate returns hits as a percentage of lookups.
func (c *Cache) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}
