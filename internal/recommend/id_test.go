// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"slices"
	"testing"

	"github.com/goccy/go-json"
)

func TestID_EqualityKeepsKinds(t *testing.T) {
	t.Parallel()

	if Numeric(5).Equal(Text("5")) {
		t.Error("Numeric(5) should not equal Text(\"5\")")
	}
	if !Numeric(5).Equal(Numeric(5)) || !Text("a").Equal(Text("a")) {
		t.Error("identical IDs should be equal")
	}

	m := map[ID]int{Numeric(5): 1, Text("5"): 2}
	if len(m) != 2 {
		t.Errorf("map collapsed distinct kinds: %v", m)
	}
}

func TestID_Compare(t *testing.T) {
	t.Parallel()

	ids := []ID{Text("b"), Numeric(10), Text("a"), Numeric(-3), Numeric(2)}
	slices.SortFunc(ids, ID.Compare)

	want := []ID{Numeric(-3), Numeric(2), Numeric(10), Text("a"), Text("b")}
	if !slices.Equal(ids, want) {
		t.Errorf("sorted = %v, want %v", ids, want)
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want ID
	}{
		{"42", Numeric(42)},
		{"-7", Numeric(-7)},
		{"user_12", Text("user_12")},
		{"12abc", Text("12abc")},
		{"", Text("")},
	}
	for _, tt := range tests {
		if got := ParseID(tt.in); got != tt.want {
			t.Errorf("ParseID(%q) = %v (%s), want %v (%s)", tt.in, got, got.Kind(), tt.want, tt.want.Kind())
		}
	}
}

func TestID_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]ID{Numeric(7), Text("sku-1")})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `[7,"sku-1"]` {
		t.Errorf("Marshal = %s", data)
	}

	var back []ID
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back[0] != Numeric(7) || back[1] != Text("sku-1") {
		t.Errorf("Unmarshal = %v", back)
	}
}

func TestID_Binary(t *testing.T) {
	t.Parallel()

	for _, id := range []ID{Numeric(0), Numeric(-99), Numeric(1 << 40), Text(""), Text("product_3")} {
		data, err := id.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var back ID
		if err := back.UnmarshalBinary(data); err != nil {
			t.Fatalf("UnmarshalBinary(%v) error = %v", id, err)
		}
		if back != id {
			t.Errorf("binary round trip %v -> %v", id, back)
		}
	}

	var id ID
	if err := id.UnmarshalBinary(nil); err == nil {
		t.Error("UnmarshalBinary(nil) should fail")
	}
	if err := id.UnmarshalBinary([]byte{9, 1}); err == nil {
		t.Error("UnmarshalBinary with unknown kind should fail")
	}
}

func TestMapper(t *testing.T) {
	t.Parallel()

	m := NewMapper([]ID{Text("c"), Numeric(1), Text("c"), Text("a"), Numeric(1)})
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}

	want := []ID{Text("c"), Numeric(1), Text("a")}
	if !slices.Equal(m.IDs(), want) {
		t.Errorf("IDs() = %v, want first-seen order %v", m.IDs(), want)
	}
	for i, id := range want {
		idx, ok := m.Index(id)
		if !ok || idx != i {
			t.Errorf("Index(%v) = %d, %v; want %d", id, idx, ok, i)
		}
		back, ok := m.ID(idx)
		if !ok || back != id {
			t.Errorf("ID(%d) = %v, want %v", idx, back, id)
		}
	}

	if _, ok := m.Index(Text("ghost")); ok {
		t.Error("Index(ghost) should be absent")
	}
	if _, ok := m.ID(3); ok {
		t.Error("ID(3) should be out of range")
	}
	if _, ok := m.ID(-1); ok {
		t.Error("ID(-1) should be out of range")
	}

	var nilMapper *Mapper
	if nilMapper.Len() != 0 {
		t.Error("nil mapper should be empty")
	}
}

func TestMapper_Deterministic(t *testing.T) {
	t.Parallel()

	in := []ID{Numeric(3), Numeric(1), Numeric(2), Numeric(1)}
	a, b := NewMapper(in), NewMapper(in)
	if !slices.Equal(a.IDs(), b.IDs()) {
		t.Errorf("same input produced %v and %v", a.IDs(), b.IDs())
	}
}
