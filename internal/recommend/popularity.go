// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"cmp"
	"slices"
)

const (
	popularityWeight = 0.7
	ratingWeight     = 0.3
	maxRating        = 5.0
)

// PopularityEntry is one row of the popularity table.
type PopularityEntry struct {
	ItemID ID `json:"product_id"`

	// Count is the number of interactions with the product.
	Count int `json:"interaction_count"`

	// AvgRating is the mean interaction value.
	AvgRating float64 `json:"avg_rating"`

	// Popularity is Count min-max scaled over all products to [0, 1].
	Popularity float64 `json:"popularity_score"`

	// Combined is 0.7*Popularity + 0.3*AvgRating/5.
	Combined float64 `json:"combined_score"`
}

// Popularity is the product ranking used for cold start and fallback.
// Entries are sorted by Combined descending; ties keep first-seen order.
type Popularity struct {
	entries []PopularityEntry
}

// ScorePopularity aggregates interactions per product. It is computed over
// the full interaction table, before any minimum-interaction filtering.
func ScorePopularity(interactions []Interaction) *Popularity {
	type agg struct {
		count int
		sum   float64
	}
	order := make([]ID, 0)
	byItem := make(map[ID]*agg)
	for _, in := range interactions {
		a, ok := byItem[in.ItemID]
		if !ok {
			a = &agg{}
			byItem[in.ItemID] = a
			order = append(order, in.ItemID)
		}
		a.count++
		a.sum += in.Value()
	}

	entries := make([]PopularityEntry, len(order))
	minCount, maxCount := 0, 0
	for i, id := range order {
		a := byItem[id]
		entries[i] = PopularityEntry{
			ItemID:    id,
			Count:     a.count,
			AvgRating: a.sum / float64(a.count),
		}
		if i == 0 || a.count < minCount {
			minCount = a.count
		}
		if a.count > maxCount {
			maxCount = a.count
		}
	}

	span := float64(maxCount - minCount)
	for i := range entries {
		if span > 0 {
			entries[i].Popularity = float64(entries[i].Count-minCount) / span
		}
		entries[i].Combined = popularityWeight*entries[i].Popularity + ratingWeight*(entries[i].AvgRating/maxRating)
	}

	slices.SortStableFunc(entries, func(a, b PopularityEntry) int {
		return cmp.Compare(b.Combined, a.Combined)
	})
	return &Popularity{entries: entries}
}

// Len returns the number of ranked products.
func (p *Popularity) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Top returns the n best products tagged with StrategyPopularity. It returns
// an empty slice when there is no data or n <= 0.
func (p *Popularity) Top(n int) []Recommendation {
	if p == nil || n <= 0 {
		return []Recommendation{}
	}
	n = min(n, len(p.entries))
	out := make([]Recommendation, n)
	for i := 0; i < n; i++ {
		out[i] = Recommendation{
			ItemID:   p.entries[i].ItemID,
			Score:    p.entries[i].Combined,
			Strategy: StrategyPopularity,
		}
	}
	return out
}

// Entries returns a copy of the ranked table.
func (p *Popularity) Entries() []PopularityEntry {
	if p == nil {
		return nil
	}
	return slices.Clone(p.entries)
}

func popularityFromState(entries []PopularityEntry) *Popularity {
	if entries == nil {
		return nil
	}
	return &Popularity{entries: entries}
}
