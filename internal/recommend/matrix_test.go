// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"slices"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestBuildMatrix(t *testing.T) {
	t.Parallel()

	users := NewMapper([]ID{Text("u1"), Text("u2")})
	items := NewMapper([]ID{Numeric(10), Numeric(20), Numeric(30)})
	interactions := []Interaction{
		{UserID: Text("u1"), ItemID: Numeric(30), Rating: 2},
		{UserID: Text("u1"), ItemID: Numeric(10), Rating: 4},
		{UserID: Text("u2"), ItemID: Numeric(20), Implicit: true},
		{UserID: Text("u1"), ItemID: Numeric(30), Rating: 5}, // overwrites 2
	}

	m, err := BuildMatrix(users, items, interactions)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if m.Rows() != 2 || m.Cols() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", m.Rows(), m.Cols())
	}
	if m.NNZ() != 3 {
		t.Errorf("NNZ() = %d, want 3", m.NNZ())
	}

	tests := []struct {
		r, c int
		want float32
	}{
		{0, 0, 4},
		{0, 1, 0},
		{0, 2, 5},
		{1, 1, 1},
		{1, 2, 0},
	}
	for _, tt := range tests {
		if got := m.At(tt.r, tt.c); got != tt.want {
			t.Errorf("At(%d,%d) = %v, want %v", tt.r, tt.c, got, tt.want)
		}
		if got := m.Has(tt.r, tt.c); got != (tt.want != 0) {
			t.Errorf("Has(%d,%d) = %v", tt.r, tt.c, got)
		}
	}

	cols, _ := m.Row(0)
	if !slices.IsSorted(cols) {
		t.Errorf("row columns not sorted: %v", cols)
	}
	if got := m.NonZero(1); !slices.Equal(got, []int{1}) {
		t.Errorf("NonZero(1) = %v", got)
	}
}

func TestBuildMatrix_UnmappedID(t *testing.T) {
	t.Parallel()

	users := NewMapper([]ID{Numeric(1)})
	items := NewMapper([]ID{Numeric(1)})

	if _, err := BuildMatrix(users, items, []Interaction{{UserID: Numeric(2), ItemID: Numeric(1)}}); err == nil {
		t.Error("unmapped user should fail")
	}
	if _, err := BuildMatrix(users, items, []Interaction{{UserID: Numeric(1), ItemID: Numeric(2)}}); err == nil {
		t.Error("unmapped product should fail")
	}
}

func TestMatrix_DenseProducts(t *testing.T) {
	t.Parallel()

	m := newMatrixFromTriplets(2, 3, []triplet{
		{0, 0, 1}, {0, 2, 2}, {1, 1, 3},
	})
	dense := mat.NewDense(2, 3, []float64{1, 0, 2, 0, 3, 0})

	x := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	var want mat.Dense
	want.Mul(dense, x)
	if got := m.mulDense(x); !mat.EqualApprox(got, &want, 1e-12) {
		t.Errorf("mulDense = %v, want %v", mat.Formatted(got), mat.Formatted(&want))
	}

	y := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	var wantT mat.Dense
	wantT.Mul(dense.T(), y)
	if got := m.tMulDense(y); !mat.EqualApprox(got, &wantT, 1e-12) {
		t.Errorf("tMulDense = %v, want %v", mat.Formatted(got), mat.Formatted(&wantT))
	}
}

func TestMatrixFromState_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    *MatrixState
	}{
		{"short indptr", &MatrixState{Rows: 2, Cols: 2, Indptr: []int{0, 1}}},
		{"length mismatch", &MatrixState{Rows: 1, Cols: 2, Indptr: []int{0, 2}, Indices: []int{0}, Data: []float32{1, 2}}},
		{"decreasing indptr", &MatrixState{Rows: 2, Cols: 2, Indptr: []int{0, 2, 1}, Indices: []int{0}, Data: []float32{1}}},
		{"column out of range", &MatrixState{Rows: 1, Cols: 2, Indptr: []int{0, 1}, Indices: []int{5}, Data: []float32{1}}},
	}
	for _, tt := range tests {
		if _, err := matrixFromState(tt.s); err == nil {
			t.Errorf("%s: matrixFromState() = nil error", tt.name)
		}
	}
}

func TestPrefilter(t *testing.T) {
	t.Parallel()

	in := []Interaction{
		{UserID: Numeric(1), ItemID: Numeric(100)},
		{UserID: Numeric(1), ItemID: Numeric(200)},
		{UserID: Numeric(2), ItemID: Numeric(100)},
		{UserID: Numeric(3), ItemID: Numeric(100)},
		{UserID: Numeric(3), ItemID: Numeric(300)},
	}

	tests := []struct {
		name             string
		minUser, minItem int
		want             int
	}{
		{"no filtering", 1, 1, 5},
		{"users with two", 2, 1, 4},
		{"users then items", 2, 2, 2},
		{"items only", 0, 3, 3},
		{"everything dropped", 5, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Prefilter(in, tt.minUser, tt.minItem)
			if len(got) != tt.want {
				t.Errorf("Prefilter(%d, %d) kept %d, want %d: %v", tt.minUser, tt.minItem, len(got), tt.want, got)
			}
		})
	}
	if len(in) != 5 {
		t.Error("Prefilter modified its input")
	}
}
