// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"context"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestGenerateSynthetic(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := SyntheticConfig{Users: 40, Products: 15, Interactions: 500, Seed: 3, Now: now}
	s, err := GenerateSynthetic(cfg)
	if err != nil {
		t.Fatalf("GenerateSynthetic() error = %v", err)
	}

	interactions, _ := s.GetInteractions(context.Background())
	if len(interactions) != 500 {
		t.Fatalf("generated %d interactions, want 500", len(interactions))
	}
	for _, in := range interactions {
		if in.Rating < 1 || in.Rating > 5 {
			t.Fatalf("rating %v out of [1, 5]", in.Rating)
		}
		if r := in.Rating * 10; math.Abs(r-math.Round(r)) > 1e-9 {
			t.Fatalf("rating %v not rounded to one decimal", in.Rating)
		}
		if !strings.HasPrefix(in.UserID.String(), "user_") || !strings.HasPrefix(in.ItemID.String(), "product_") {
			t.Fatalf("unexpected ids %v / %v", in.UserID, in.ItemID)
		}
		if in.Timestamp.After(now) || in.Timestamp.Before(now.Add(-365*24*time.Hour)) {
			t.Fatalf("timestamp %v outside the last year", in.Timestamp)
		}
	}

	items, _ := s.GetItems(context.Background())
	if len(items) != 15 {
		t.Errorf("generated %d products, want 15", len(items))
	}
	for _, it := range items {
		if it.Name == "" || it.Description == "" || it.Category == "" {
			t.Errorf("incomplete product %+v", it)
		}
	}
}

func TestGenerateSynthetic_Deterministic(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg := SyntheticConfig{Users: 20, Products: 10, Interactions: 200, Seed: 11, Now: now}
	a, err := GenerateSynthetic(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateSynthetic(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Interactions(), b.Interactions()) {
		t.Error("same seed produced different interactions")
	}

	cfg.Seed = 12
	c, err := GenerateSynthetic(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(a.Interactions(), c.Interactions()) {
		t.Error("different seeds produced identical interactions")
	}
}

func TestGenerateSynthetic_Invalid(t *testing.T) {
	t.Parallel()

	for _, cfg := range []SyntheticConfig{
		{Users: 0, Products: 5, Interactions: 10},
		{Users: 5, Products: 0, Interactions: 10},
		{Users: 5, Products: 5, Interactions: -1},
	} {
		if _, err := GenerateSynthetic(cfg); err == nil {
			t.Errorf("GenerateSynthetic(%+v) = nil error", cfg)
		}
	}
}

func TestSoftmaxCDF(t *testing.T) {
	t.Parallel()

	x := []float64{0, 0, math.Log(2)}
	dst := make([]float64, len(x))
	softmaxCDF(x, dst)

	// Weights relative to the max: 0.5, 0.5, 1.
	want := []float64{0.5, 1, 2}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}
