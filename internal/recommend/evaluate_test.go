// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"math"
	"testing"
	"time"
)

func TestSplitByTime(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []Interaction{
		{UserID: Numeric(1), ItemID: Numeric(4), Timestamp: base.Add(4 * time.Hour)},
		{UserID: Numeric(1), ItemID: Numeric(1), Timestamp: base.Add(1 * time.Hour)},
		{UserID: Numeric(2), ItemID: Numeric(2), Timestamp: base.Add(2 * time.Hour)},
		{UserID: Numeric(3), ItemID: Numeric(2), Timestamp: base.Add(2 * time.Hour)},
		{UserID: Numeric(2), ItemID: Numeric(5), Timestamp: base.Add(5 * time.Hour)},
	}

	train, test := SplitByTime(in, 0.8)
	if len(train) != 4 || len(test) != 1 {
		t.Fatalf("split sizes %d/%d, want 4/1", len(train), len(test))
	}
	if test[0].ItemID != Numeric(5) {
		t.Errorf("test holds %v, want the latest interaction", test[0])
	}
	// Equal timestamps keep input order.
	if train[1].UserID != Numeric(2) || train[2].UserID != Numeric(3) {
		t.Errorf("tie order changed: %v", train)
	}
	if in[0].ItemID != Numeric(4) {
		t.Error("SplitByTime reordered its input")
	}

	if tr, te := SplitByTime(in, 0); len(tr) != 0 || len(te) != 5 {
		t.Errorf("fraction 0 split %d/%d", len(tr), len(te))
	}
	if tr, te := SplitByTime(in, 1.5); len(tr) != 5 || len(te) != 0 {
		t.Errorf("fraction 1.5 split %d/%d", len(tr), len(te))
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	// Two clusters: users 1-3 buy A/B/C, users 4-6 buy X/Y/Z.
	var train []Interaction
	for u := 1; u <= 6; u++ {
		group := []string{"A", "B", "C"}
		if u > 3 {
			group = []string{"X", "Y", "Z"}
		}
		for i, p := range group {
			if i == u%3 {
				continue
			}
			train = append(train, Interaction{UserID: Numeric(int64(u)), ItemID: Text(p), Rating: 5})
		}
	}
	m, _ := fitTest(t, train, nil, 8)

	test := []Interaction{
		{UserID: Numeric(1), ItemID: Text("B")},
		{UserID: Numeric(4), ItemID: Text("Y")},
	}
	ev := Evaluate(m, test, 3, 0)
	if ev.UsersEvaluated != 2 || ev.TestSize != 2 || ev.K != 3 {
		t.Errorf("Evaluate() = %+v", ev)
	}
	if ev.Precision < 0 || ev.Precision > 1 || ev.Recall < 0 || ev.Recall > 1 {
		t.Errorf("metrics out of range: %+v", ev)
	}
	// One held-out product per user: precision@3 is recall/3.
	if math.Abs(ev.Precision-ev.Recall/3) > 1e-9 {
		t.Errorf("precision %v inconsistent with recall %v", ev.Precision, ev.Recall)
	}

	// A user unknown to the model is scored on the popularity ranking,
	// whose head is A, C, B (equal scores, first-seen order).
	ghost := Evaluate(m, []Interaction{{UserID: Text("ghost"), ItemID: Text("A")}}, 3, 0)
	if math.Abs(ghost.Recall-1) > 1e-9 || math.Abs(ghost.Precision-1.0/3) > 1e-9 {
		t.Errorf("ghost evaluation = %+v, want recall 1 and precision 1/3", ghost)
	}

	if ev := Evaluate(m, test, 3, 1); ev.UsersEvaluated != 1 {
		t.Errorf("maxUsers=1 evaluated %d users", ev.UsersEvaluated)
	}
	if ev := Evaluate(m, nil, 3, 0); ev.UsersEvaluated != 0 || ev.Precision != 0 {
		t.Errorf("empty test set = %+v", ev)
	}
	if ev := Evaluate(nil, test, 3, 0); ev.UsersEvaluated != 0 {
		t.Errorf("nil model = %+v", ev)
	}
}
