// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/viterin/vek/vek32"
)

// Model is one trained, immutable recommender state. Every exported method
// is a pure read and safe for concurrent use.
type Model struct {
	version   int64
	trainedAt time.Time
	factors   int

	users *Mapper
	items *Mapper

	matrix      *Matrix
	userFactors *Embeddings
	itemFactors *Embeddings
	content     *ContentSpace
	popularity  *Popularity
}

// failureKind classifies why a scoring attempt produced no personalized list.
type failureKind int

const (
	failureNone failureKind = iota
	failureUnknownEntity
	failureScoring
	failureNoCandidates
)

// String returns the label used in logs and metrics.
func (f failureKind) String() string {
	switch f {
	case failureNone:
		return "none"
	case failureUnknownEntity:
		return "unknown_entity"
	case failureScoring:
		return "scoring_failure"
	case failureNoCandidates:
		return "no_candidates"
	default:
		return "unknown"
	}
}

// outcome is the result of one scoring attempt.
type outcome struct {
	recs    []Recommendation
	failure failureKind
	err     error
}

var errFactorsUnavailable = errors.New("latent factors unavailable")

type scoredIndex struct {
	index int
	score float32
}

// Version identifies the training run that produced the model.
func (m *Model) Version() int64 { return m.version }

// TrainedAt returns when the model was trained.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// Users returns the user mapper.
func (m *Model) Users() *Mapper { return m.users }

// Items returns the product mapper.
func (m *Model) Items() *Mapper { return m.items }

// Content returns the TF-IDF space, or nil when no metadata was available.
// Serving does not consult it.
func (m *Model) Content() *ContentSpace { return m.content }

// Popularity returns the popularity table.
func (m *Model) Popularity() *Popularity { return m.popularity }

// RecommendForUser returns up to n products for user. Unknown users, scoring
// failures and empty candidate sets fall back to the popularity ranking.
func (m *Model) RecommendForUser(user ID, n int, excludeInteracted bool) []Recommendation {
	if n <= 0 {
		return []Recommendation{}
	}
	out := m.scoreUser(user, n, excludeInteracted)
	if out.failure != failureNone {
		return m.PopularFallback(n)
	}
	return out.recs
}

// RecommendSimilarItem returns up to n products closest to item in the
// latent space, never including item itself.
func (m *Model) RecommendSimilarItem(item ID, n int) []Recommendation {
	if n <= 0 {
		return []Recommendation{}
	}
	out := m.scoreSimilar(item, n)
	if out.failure != failureNone {
		return m.PopularFallback(n)
	}
	return out.recs
}

// PopularFallback returns the n most popular products.
func (m *Model) PopularFallback(n int) []Recommendation {
	return m.popularity.Top(n)
}

// Embedding returns a copy of the normalized vector for id.
func (m *Model) Embedding(kind EntityKind, id ID) ([]float32, bool) {
	var (
		mapper *Mapper
		table  *Embeddings
	)
	switch kind {
	case EntityUser:
		mapper, table = m.users, m.userFactors
	case EntityItem:
		mapper, table = m.items, m.itemFactors
	default:
		return nil, false
	}
	idx, ok := mapper.Index(id)
	if !ok || table == nil || idx >= table.Rows() {
		return nil, false
	}
	return slices.Clone(table.Row(idx)), true
}

// Stats summarizes the model.
func (m *Model) Stats() Stats {
	return Stats{
		Trained:       true,
		Users:         m.users.Len(),
		Items:         m.items.Len(),
		Factors:       m.factors,
		LatentDim:     m.itemFactors.Dim(),
		HasContent:    m.content != nil,
		HasPopularity: m.popularity.Len() > 0,
		Version:       m.version,
		TrainedAt:     m.trainedAt,
	}
}

func (m *Model) scoreUser(user ID, n int, excludeInteracted bool) (out outcome) {
	u, ok := m.users.Index(user)
	if !ok {
		return outcome{failure: failureUnknownEntity}
	}
	if m.userFactors == nil || m.itemFactors == nil {
		return outcome{failure: failureScoring, err: errFactorsUnavailable}
	}
	defer recoverScoring(&out)

	var skip []bool
	if excludeInteracted {
		skip = make([]bool, m.itemFactors.Rows())
		for _, c := range m.matrix.NonZero(u) {
			skip[c] = true
		}
	}

	vec := m.userFactors.Row(u)
	cands := make([]scoredIndex, 0, m.itemFactors.Rows())
	for i := 0; i < m.itemFactors.Rows(); i++ {
		if skip != nil && skip[i] {
			continue
		}
		cands = append(cands, scoredIndex{index: i, score: vek32.Dot(vec, m.itemFactors.Row(i))})
	}
	return m.rank(cands, n, StrategyCollaborative)
}

func (m *Model) scoreSimilar(item ID, n int) (out outcome) {
	idx, ok := m.items.Index(item)
	if !ok {
		return outcome{failure: failureUnknownEntity}
	}
	if m.itemFactors == nil {
		return outcome{failure: failureScoring, err: errFactorsUnavailable}
	}
	defer recoverScoring(&out)

	vec := m.itemFactors.Row(idx)
	cands := make([]scoredIndex, 0, m.itemFactors.Rows())
	for i := 0; i < m.itemFactors.Rows(); i++ {
		if i == idx {
			continue
		}
		cands = append(cands, scoredIndex{index: i, score: vek32.Dot(vec, m.itemFactors.Row(i))})
	}
	return m.rank(cands, n, StrategyItemSimilarity)
}

// rank orders candidates by score descending, then index ascending, and
// keeps the first n.
func (m *Model) rank(cands []scoredIndex, n int, strategy Strategy) outcome {
	if len(cands) == 0 {
		return outcome{failure: failureNoCandidates}
	}
	slices.SortFunc(cands, func(a, b scoredIndex) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	cands = cands[:min(n, len(cands))]

	recs := make([]Recommendation, len(cands))
	for i, c := range cands {
		id, ok := m.items.ID(c.index)
		if !ok {
			return outcome{failure: failureScoring, err: fmt.Errorf("item index %d has no id", c.index)}
		}
		recs[i] = Recommendation{ItemID: id, Score: float64(c.score), Strategy: strategy}
	}
	return outcome{recs: recs}
}

func recoverScoring(out *outcome) {
	if r := recover(); r != nil {
		*out = outcome{failure: failureScoring, err: fmt.Errorf("scoring panic: %v", r)}
	}
}

// State is the serializable form of a Model.
type State struct {
	Version     int64
	TrainedAt   time.Time
	Factors     int
	Users       []ID
	Items       []ID
	Matrix      *MatrixState
	UserFactors *EmbeddingState
	ItemFactors *EmbeddingState
	Content     *ContentState
	Popularity  []PopularityEntry
}

// State returns the model's serializable state. The returned value shares
// memory with the model and must be treated as read-only.
func (m *Model) State() *State {
	var pop []PopularityEntry
	if m.popularity != nil {
		pop = m.popularity.entries
	}
	return &State{
		Version:     m.version,
		TrainedAt:   m.trainedAt,
		Factors:     m.factors,
		Users:       m.users.ids,
		Items:       m.items.ids,
		Matrix:      m.matrix.state(),
		UserFactors: m.userFactors.state(),
		ItemFactors: m.itemFactors.state(),
		Content:     m.content.state(),
		Popularity:  pop,
	}
}

// FromState rebuilds a Model and checks that every component agrees on
// shape. A decoded state that fails these checks is rejected as a whole.
func FromState(s *State) (*Model, error) {
	if s == nil {
		return nil, fmt.Errorf("nil model state")
	}
	m := &Model{
		version:    s.Version,
		trainedAt:  s.TrainedAt,
		factors:    s.Factors,
		users:      NewMapper(s.Users),
		items:      NewMapper(s.Items),
		popularity: popularityFromState(s.Popularity),
	}
	if m.users.Len() != len(s.Users) || m.items.Len() != len(s.Items) {
		return nil, fmt.Errorf("id mappings contain duplicates")
	}

	var err error
	if m.matrix, err = matrixFromState(s.Matrix); err != nil {
		return nil, err
	}
	if m.matrix == nil {
		return nil, fmt.Errorf("interaction matrix missing")
	}
	if m.matrix.Rows() != m.users.Len() || m.matrix.Cols() != m.items.Len() {
		return nil, fmt.Errorf("matrix is %dx%d, mappings are %dx%d",
			m.matrix.Rows(), m.matrix.Cols(), m.users.Len(), m.items.Len())
	}
	if m.userFactors, err = embeddingsFromState(s.UserFactors); err != nil {
		return nil, fmt.Errorf("user factors: %w", err)
	}
	if m.itemFactors, err = embeddingsFromState(s.ItemFactors); err != nil {
		return nil, fmt.Errorf("item factors: %w", err)
	}
	if (m.userFactors == nil) != (m.itemFactors == nil) {
		return nil, fmt.Errorf("only one side of the latent factors is present")
	}
	if m.userFactors != nil {
		if m.userFactors.Rows() != m.users.Len() || m.itemFactors.Rows() != m.items.Len() {
			return nil, fmt.Errorf("factor rows do not match mappings")
		}
		if m.userFactors.Dim() != m.itemFactors.Dim() {
			return nil, fmt.Errorf("user dim %d != item dim %d", m.userFactors.Dim(), m.itemFactors.Dim())
		}
	}
	if m.content, err = contentFromState(s.Content); err != nil {
		return nil, err
	}
	return m, nil
}
