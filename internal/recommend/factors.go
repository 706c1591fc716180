// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// oversamples is the number of extra random directions used by the range
// finder beyond the requested rank.
const oversamples = 10

var errSVDFailed = errors.New("svd did not converge")

// Embeddings is a dense row-major table of float32 vectors.
type Embeddings struct {
	rows int
	dim  int
	data []float32
}

// Rows returns the number of vectors.
func (e *Embeddings) Rows() int {
	if e == nil {
		return 0
	}
	return e.rows
}

// Dim returns the vector length.
func (e *Embeddings) Dim() int {
	if e == nil {
		return 0
	}
	return e.dim
}

// Row returns vector i. The slice aliases the table and must not be modified.
func (e *Embeddings) Row(i int) []float32 {
	return e.data[i*e.dim : (i+1)*e.dim]
}

// FactorResult holds the output of TrainFactors.
type FactorResult struct {
	Users *Embeddings
	Items *Embeddings
	// Singular holds the leading singular values in descending order.
	Singular []float64
}

// LatentDim returns the effective number of latent dimensions for a matrix
// shape: factors capped at min(users, items) - 1.
func LatentDim(factors, users, items int) int {
	return min(factors, min(users, items)-1)
}

// TrainFactors computes a rank-k truncated SVD of m with a randomized range
// finder and returns row-normalized user and item embeddings.
//
// User embeddings are U*Sigma (the projection of each user row onto the
// components) and item embeddings are the component vectors V. The result is
// fully determined by m, factors, iterations and seed.
//
// A matrix with fewer than 2 rows or columns yields ErrDegenerateTraining.
func TrainFactors(m *Matrix, factors, iterations int, seed int64) (*FactorResult, error) {
	if m.Rows() < 2 || m.Cols() < 2 {
		return nil, fmt.Errorf("%w: %d users x %d products", ErrDegenerateTraining, m.Rows(), m.Cols())
	}
	if factors < 1 {
		return nil, fmt.Errorf("factors must be positive, got %d", factors)
	}

	k := LatentDim(factors, m.Rows(), m.Cols())
	l := min(k+oversamples, m.Rows(), m.Cols())

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic sketch, not security sensitive
	omega := mat.NewDense(m.Cols(), l, nil)
	raw := omega.RawMatrix().Data
	for i := range raw {
		raw[i] = rng.NormFloat64()
	}

	q, err := orthonormalize(m.mulDense(omega))
	if err != nil {
		return nil, err
	}
	for i := 0; i < iterations; i++ {
		z, err := orthonormalize(m.tMulDense(q))
		if err != nil {
			return nil, fmt.Errorf("power iteration %d: %w", i, err)
		}
		if q, err = orthonormalize(m.mulDense(z)); err != nil {
			return nil, fmt.Errorf("power iteration %d: %w", i, err)
		}
	}

	// B = Q^T A is small (l x items). Factorize its transpose so the item
	// components come out as left singular vectors.
	var svd mat.SVD
	if !svd.Factorize(m.tMulDense(q), mat.SVDThin) {
		return nil, errSVDFailed
	}
	var itemBasis, projBasis mat.Dense
	svd.UTo(&itemBasis) // items x r
	svd.VTo(&projBasis) // l x r
	sigma := svd.Values(nil)

	flipSigns(&itemBasis, &projBasis, k)

	var users mat.Dense
	users.Mul(q, projBasis.Slice(0, l, 0, k))
	users.Apply(func(_, j int, v float64) float64 { return v * sigma[j] }, &users)

	items := mat.DenseCopyOf(itemBasis.Slice(0, m.Cols(), 0, k))

	return &FactorResult{
		Users:    normalizedEmbeddings(&users),
		Items:    normalizedEmbeddings(items),
		Singular: append([]float64(nil), sigma[:k]...),
	}, nil
}

// orthonormalize returns an orthonormal basis for the column space of y.
func orthonormalize(y *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if !svd.Factorize(y, mat.SVDThin) {
		return nil, errSVDFailed
	}
	var u mat.Dense
	svd.UTo(&u)
	return &u, nil
}

// flipSigns makes the largest-magnitude entry of each item component
// positive and applies the same flip to the matching projection column.
func flipSigns(itemBasis, projBasis *mat.Dense, k int) {
	rows, _ := itemBasis.Dims()
	for j := 0; j < k; j++ {
		best, bestAbs := 0, -1.0
		for i := 0; i < rows; i++ {
			if a := math.Abs(itemBasis.At(i, j)); a > bestAbs {
				best, bestAbs = i, a
			}
		}
		if itemBasis.At(best, j) >= 0 {
			continue
		}
		negateColumn(itemBasis, j)
		negateColumn(projBasis, j)
	}
}

func negateColumn(d *mat.Dense, j int) {
	rows, _ := d.Dims()
	for i := 0; i < rows; i++ {
		d.Set(i, j, -d.At(i, j))
	}
}

// normalizedEmbeddings scales each row of d to unit L2 norm and converts it
// to float32. All-zero rows stay zero.
func normalizedEmbeddings(d *mat.Dense) *Embeddings {
	rows, dim := d.Dims()
	e := &Embeddings{rows: rows, dim: dim, data: make([]float32, rows*dim)}
	row := make([]float64, dim)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, d)
		if n := floats.Norm(row, 2); n > 0 {
			floats.Scale(1/n, row)
		}
		dst := e.Row(i)
		for j, v := range row {
			dst[j] = float32(v)
		}
	}
	return e
}

// EmbeddingState is the serializable form of Embeddings.
type EmbeddingState struct {
	Rows int
	Dim  int
	Data []float32
}

func (e *Embeddings) state() *EmbeddingState {
	if e == nil {
		return nil
	}
	return &EmbeddingState{Rows: e.rows, Dim: e.dim, Data: e.data}
}

func embeddingsFromState(s *EmbeddingState) (*Embeddings, error) {
	if s == nil {
		return nil, nil
	}
	if s.Rows < 0 || s.Dim < 0 || len(s.Data) != s.Rows*s.Dim {
		return nil, fmt.Errorf("embeddings: %d values for %dx%d", len(s.Data), s.Rows, s.Dim)
	}
	return &Embeddings{rows: s.Rows, dim: s.Dim, data: s.Data}, nil
}
