// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a read-only sparse matrix in compressed sparse row layout.
// Within a row, column indices are strictly increasing.
type Matrix struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float32
}

type triplet struct {
	row, col int
	val      float32
}

// BuildMatrix builds the users x items rating matrix. Every interaction must
// reference IDs covered by the mappers. When the same (user, item) pair
// appears more than once the last record wins.
func BuildMatrix(users, items *Mapper, interactions []Interaction) (*Matrix, error) {
	cells := make([]triplet, 0, len(interactions))
	for n, in := range interactions {
		r, ok := users.Index(in.UserID)
		if !ok {
			return nil, fmt.Errorf("interaction %d: user %s is not mapped", n, in.UserID)
		}
		c, ok := items.Index(in.ItemID)
		if !ok {
			return nil, fmt.Errorf("interaction %d: product %s is not mapped", n, in.ItemID)
		}
		cells = append(cells, triplet{row: r, col: c, val: float32(in.Value())})
	}
	return newMatrixFromTriplets(users.Len(), items.Len(), cells), nil
}

func newMatrixFromTriplets(rows, cols int, cells []triplet) *Matrix {
	// Stable sort keeps input order among duplicates so the last one wins.
	slices.SortStableFunc(cells, func(a, b triplet) int {
		if c := cmp.Compare(a.row, b.row); c != 0 {
			return c
		}
		return cmp.Compare(a.col, b.col)
	})

	m := &Matrix{
		rows:    rows,
		cols:    cols,
		indptr:  make([]int, rows+1),
		indices: make([]int, 0, len(cells)),
		data:    make([]float32, 0, len(cells)),
	}
	for i, t := range cells {
		if i+1 < len(cells) && cells[i+1].row == t.row && cells[i+1].col == t.col {
			continue
		}
		m.indices = append(m.indices, t.col)
		m.data = append(m.data, t.val)
		m.indptr[t.row+1]++
	}
	for r := 0; r < rows; r++ {
		m.indptr[r+1] += m.indptr[r]
	}
	return m
}

// Rows returns the number of users.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of items.
func (m *Matrix) Cols() int { return m.cols }

// NNZ returns the number of stored cells.
func (m *Matrix) NNZ() int { return len(m.data) }

// Row returns the column indices and values of row r. The slices alias the
// matrix and must not be modified.
func (m *Matrix) Row(r int) ([]int, []float32) {
	lo, hi := m.indptr[r], m.indptr[r+1]
	return m.indices[lo:hi], m.data[lo:hi]
}

// At returns the value at (r, c), zero when the cell is not stored.
func (m *Matrix) At(r, c int) float32 {
	cols, vals := m.Row(r)
	i := sort.SearchInts(cols, c)
	if i < len(cols) && cols[i] == c {
		return vals[i]
	}
	return 0
}

// Has reports whether (r, c) holds a nonzero value.
func (m *Matrix) Has(r, c int) bool {
	return m.At(r, c) != 0
}

// NonZero returns the column indices of row r whose value is not zero.
func (m *Matrix) NonZero(r int) []int {
	cols, vals := m.Row(r)
	out := make([]int, 0, len(cols))
	for i, c := range cols {
		if vals[i] != 0 {
			out = append(out, c)
		}
	}
	return out
}

// mulDense returns m * x where x is cols x k.
func (m *Matrix) mulDense(x *mat.Dense) *mat.Dense {
	xr, k := x.Dims()
	if xr != m.cols {
		panic(fmt.Sprintf("recommend: mulDense shape mismatch %dx%d * %dx%d", m.rows, m.cols, xr, k))
	}
	out := mat.NewDense(m.rows, k, nil)
	xRaw := x.RawMatrix()
	oRaw := out.RawMatrix()
	for r := 0; r < m.rows; r++ {
		dst := oRaw.Data[r*oRaw.Stride : r*oRaw.Stride+k]
		cols, vals := m.Row(r)
		for i, c := range cols {
			v := float64(vals[i])
			src := xRaw.Data[c*xRaw.Stride : c*xRaw.Stride+k]
			for j := range dst {
				dst[j] += v * src[j]
			}
		}
	}
	return out
}

// tMulDense returns m^T * x where x is rows x k.
func (m *Matrix) tMulDense(x *mat.Dense) *mat.Dense {
	xr, k := x.Dims()
	if xr != m.rows {
		panic(fmt.Sprintf("recommend: tMulDense shape mismatch (%dx%d)^T * %dx%d", m.rows, m.cols, xr, k))
	}
	out := mat.NewDense(m.cols, k, nil)
	xRaw := x.RawMatrix()
	oRaw := out.RawMatrix()
	for r := 0; r < m.rows; r++ {
		src := xRaw.Data[r*xRaw.Stride : r*xRaw.Stride+k]
		cols, vals := m.Row(r)
		for i, c := range cols {
			v := float64(vals[i])
			dst := oRaw.Data[c*oRaw.Stride : c*oRaw.Stride+k]
			for j := range dst {
				dst[j] += v * src[j]
			}
		}
	}
	return out
}

// MatrixState is the serializable form of a Matrix.
type MatrixState struct {
	Rows    int
	Cols    int
	Indptr  []int
	Indices []int
	Data    []float32
}

func (m *Matrix) state() *MatrixState {
	if m == nil {
		return nil
	}
	return &MatrixState{
		Rows:    m.rows,
		Cols:    m.cols,
		Indptr:  m.indptr,
		Indices: m.indices,
		Data:    m.data,
	}
}

func matrixFromState(s *MatrixState) (*Matrix, error) {
	if s == nil {
		return nil, nil
	}
	if len(s.Indptr) != s.Rows+1 {
		return nil, fmt.Errorf("matrix: indptr length %d, want %d", len(s.Indptr), s.Rows+1)
	}
	if len(s.Indices) != len(s.Data) || s.Indptr[s.Rows] != len(s.Data) {
		return nil, fmt.Errorf("matrix: %d indices, %d values, indptr end %d", len(s.Indices), len(s.Data), s.Indptr[s.Rows])
	}
	for r := 0; r < s.Rows; r++ {
		if s.Indptr[r] > s.Indptr[r+1] {
			return nil, fmt.Errorf("matrix: indptr decreases at row %d", r)
		}
	}
	for _, c := range s.Indices {
		if c < 0 || c >= s.Cols {
			return nil, fmt.Errorf("matrix: column %d out of range [0,%d)", c, s.Cols)
		}
	}
	return &Matrix{rows: s.Rows, cols: s.Cols, indptr: s.Indptr, indices: s.Indices, data: s.Data}, nil
}
