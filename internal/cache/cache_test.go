// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/shopai-recommender/internal/metrics"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

func recs(ids ...int64) []recommend.Recommendation {
	out := make([]recommend.Recommendation, len(ids))
	for i, id := range ids {
		out[i] = recommend.Recommendation{
			ItemID:   recommend.Numeric(id),
			Score:    1 / float64(i+1),
			Strategy: recommend.StrategyCollaborative,
		}
	}
	return out
}

func TestCacheBasicOperations(t *testing.T) {
	c := New(10, time.Minute)
	k := Key{Version: 1, Op: OpUser, ID: recommend.Numeric(7), N: 3, Exclude: true}

	if _, ok := c.Get(k); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Add(k, recs(1, 2, 3))
	got, ok := c.Get(k)
	if !ok {
		t.Fatal("expected hit after Add")
	}
	if len(got) != 3 || !got[0].ItemID.Equal(recommend.Numeric(1)) {
		t.Errorf("got %+v", got)
	}

	s := c.GetStats()
	if s.Hits != 1 || s.Misses != 1 || s.Keys != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 key", s)
	}
	if c.HitRate() != 50 {
		t.Errorf("HitRate = %v, want 50", c.HitRate())
	}
}

func TestCacheKeyFields(t *testing.T) {
	c := New(10, time.Minute)
	base := Key{Version: 1, Op: OpUser, ID: recommend.Numeric(7), N: 3, Exclude: true}
	c.Add(base, recs(1))

	tests := []struct {
		name string
		key  Key
	}{
		{"new model version", Key{Version: 2, Op: OpUser, ID: recommend.Numeric(7), N: 3, Exclude: true}},
		{"other operation", Key{Version: 1, Op: OpSimilar, ID: recommend.Numeric(7), N: 3, Exclude: true}},
		{"text id with same digits", Key{Version: 1, Op: OpUser, ID: recommend.Text("7"), N: 3, Exclude: true}},
		{"other n", Key{Version: 1, Op: OpUser, ID: recommend.Numeric(7), N: 4, Exclude: true}},
		{"exclude off", Key{Version: 1, Op: OpUser, ID: recommend.Numeric(7), N: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := c.Get(tt.key); ok {
				t.Errorf("key %s unexpectedly hit", tt.key)
			}
		})
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	c := New(10, time.Minute)
	k := Key{Version: 1, Op: OpPopular, N: 2}
	in := recs(1, 2)
	c.Add(k, in)
	in[0].Score = -1

	got, _ := c.Get(k)
	if got[0].Score == -1 {
		t.Error("cache shares the slice passed to Add")
	}
	got[1].Score = -1
	again, _ := c.Get(k)
	if again[1].Score == -1 {
		t.Error("cache shares the slice returned by Get")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(10, 50*time.Millisecond)
	k := Key{Version: 1, Op: OpPopular, N: 1}
	c.Add(k, recs(1))

	time.Sleep(120 * time.Millisecond)
	if _, ok := c.Get(k); ok {
		t.Error("expected entry to expire")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, time.Minute)
	k1 := Key{Version: 1, Op: OpUser, ID: recommend.Numeric(1), N: 1}
	k2 := Key{Version: 1, Op: OpUser, ID: recommend.Numeric(2), N: 1}
	k3 := Key{Version: 1, Op: OpUser, ID: recommend.Numeric(3), N: 1}

	c.Add(k1, recs(1))
	c.Add(k2, recs(2))
	c.Get(k1)
	c.Add(k3, recs(3))

	if _, ok := c.Get(k2); ok {
		t.Error("k2 should have been evicted")
	}
	if _, ok := c.Get(k1); !ok {
		t.Error("k1 was recently used and should survive")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestGetOrCompute(t *testing.T) {
	c := New(10, time.Minute)
	k := Key{Version: 3, Op: OpSimilar, ID: recommend.Text("sku-1"), N: 5}

	calls := 0
	compute := func() []recommend.Recommendation {
		calls++
		return recs(4, 5)
	}

	hitsBefore := testutil.ToFloat64(metrics.CacheHits)
	first, cached := c.GetOrCompute(k, compute)
	if cached || len(first) != 2 {
		t.Fatalf("first call = %v cached=%v, want computed", first, cached)
	}
	second, cached := c.GetOrCompute(k, compute)
	if !cached || len(second) != 2 {
		t.Fatalf("second call = %v cached=%v, want cached", second, cached)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	if delta := testutil.ToFloat64(metrics.CacheHits) - hitsBefore; delta < 1 {
		t.Errorf("cache hit counter delta = %v, want at least 1", delta)
	}
}

func TestCachePurgeAndDefaults(t *testing.T) {
	c := New(0, 0)
	c.Add(Key{Op: OpPopular, N: 1}, recs(1))
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d, want 0", c.Len())
	}
	if c.HitRate() != 0 {
		t.Errorf("HitRate with no lookups = %v, want 0", c.HitRate())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(100, time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := Key{Version: 1, Op: OpUser, ID: recommend.Numeric(int64(i % 20)), N: g}
				c.GetOrCompute(k, func() []recommend.Recommendation { return recs(int64(i)) })
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 100 {
		t.Errorf("Len = %d exceeds capacity", c.Len())
	}
}

func TestOpString(t *testing.T) {
	tests := map[Op]string{OpUser: "user", OpSimilar: "similar", OpPopular: "popular", Op(0): "unknown"}
	for op, want := range tests {
		if got := op.String(); got != want {
			t.Errorf("Op(%d).String() = %q, want %q", op, got, want)
		}
	}
}
