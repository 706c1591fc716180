// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

// Prefilter drops users with fewer than minUser interactions, then products
// with fewer than minItem interactions among the remaining records. A single
// pass per side is applied; dropping products may leave some users below the
// threshold again, which is accepted.
//
// The input slice is not modified. Thresholds of 1 or less keep everything.
func Prefilter(interactions []Interaction, minUser, minItem int) []Interaction {
	if minUser <= 1 && minItem <= 1 {
		return interactions
	}

	kept := interactions
	if minUser > 1 {
		kept = filterBy(kept, minUser, func(in Interaction) ID { return in.UserID })
	}
	if minItem > 1 {
		kept = filterBy(kept, minItem, func(in Interaction) ID { return in.ItemID })
	}
	return kept
}

func filterBy(interactions []Interaction, threshold int, key func(Interaction) ID) []Interaction {
	counts := make(map[ID]int)
	for _, in := range interactions {
		counts[key(in)]++
	}
	out := make([]Interaction, 0, len(interactions))
	for _, in := range interactions {
		if counts[key(in)] >= threshold {
			out = append(out, in)
		}
	}
	return out
}
