// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"slices"
)

// Offline evaluation defaults.
const (
	DefaultTrainFraction = 0.8
	DefaultEvalK         = 10
	DefaultEvalMaxUsers  = 100
)

// Evaluation holds offline ranking metrics.
type Evaluation struct {
	K              int     `json:"k"`
	Precision      float64 `json:"precision_at_k"`
	Recall         float64 `json:"recall_at_k"`
	UsersEvaluated int     `json:"n_users_evaluated"`
	TrainSize      int     `json:"train_size"`
	TestSize       int     `json:"test_size"`
}

// SplitByTime orders interactions by timestamp and cuts them at
// trainFraction. Records with equal timestamps keep their input order.
func SplitByTime(interactions []Interaction, trainFraction float64) (train, test []Interaction) {
	sorted := slices.Clone(interactions)
	slices.SortStableFunc(sorted, func(a, b Interaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	cut := int(float64(len(sorted)) * trainFraction)
	cut = max(0, min(cut, len(sorted)))
	return sorted[:cut], sorted[cut:]
}

// Evaluate computes precision@k and recall@k of m against the held-out
// interactions for at most maxUsers test users, taken in first-seen order.
// Already-interacted products are not excluded. Users unknown to the model
// are scored on their popularity fallback.
func Evaluate(m *Model, test []Interaction, k, maxUsers int) Evaluation {
	ev := Evaluation{K: k, TestSize: len(test)}
	if m == nil || k <= 0 {
		return ev
	}

	var order []ID
	actual := make(map[ID]map[ID]struct{})
	for _, in := range test {
		set, ok := actual[in.UserID]
		if !ok {
			set = make(map[ID]struct{})
			actual[in.UserID] = set
			order = append(order, in.UserID)
		}
		set[in.ItemID] = struct{}{}
	}
	if maxUsers > 0 && len(order) > maxUsers {
		order = order[:maxUsers]
	}

	var sumP, sumR float64
	for _, user := range order {
		want := actual[user]
		hits := 0
		for _, r := range m.RecommendForUser(user, k, false) {
			if _, ok := want[r.ItemID]; ok {
				hits++
			}
		}
		sumP += float64(hits) / float64(k)
		sumR += float64(hits) / float64(len(want))
	}
	if n := len(order); n > 0 {
		ev.Precision = sumP / float64(n)
		ev.Recall = sumR / float64(n)
		ev.UsersEvaluated = n
	}
	return ev
}
