// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
)

// DefaultContentFeatures is the default vocabulary cap.
const DefaultContentFeatures = 500

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// ContentSpace holds L2-normalized TF-IDF vectors for products with
// metadata. Rows follow the order in which products were supplied.
type ContentSpace struct {
	items      []ID
	index      map[ID]int
	vocabulary []string
	idf        []float64
	weights    *Matrix
}

// BuildContent builds TF-IDF vectors over name and description for the
// products known to mapper. Terms are lowercase unigrams and bigrams with
// English stop words removed; the vocabulary keeps the maxFeatures most
// frequent terms across the corpus.
//
// It returns nil when no supplied product is in mapper or when no term
// survives tokenization. Content features are optional, so neither case is
// an error.
func BuildContent(items []Item, mapper *Mapper, maxFeatures int) (*ContentSpace, error) {
	if maxFeatures < 1 {
		return nil, fmt.Errorf("max features must be positive, got %d", maxFeatures)
	}

	var (
		ids  []ID
		docs [][]string
		seen = make(map[ID]struct{}, len(items))
	)
	for _, it := range items {
		if _, ok := mapper.Index(it.ID); !ok {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		ids = append(ids, it.ID)
		docs = append(docs, analyze(it.Name+" "+it.Description))
	}
	if len(ids) == 0 {
		return nil, nil
	}

	vocab := selectVocabulary(docs, maxFeatures)
	if len(vocab) == 0 {
		return nil, nil
	}
	col := make(map[string]int, len(vocab))
	for i, term := range vocab {
		col[term] = i
	}

	counts := make([]map[int]float64, len(docs))
	df := make([]int, len(vocab))
	for d, terms := range docs {
		tf := make(map[int]float64)
		for _, term := range terms {
			if c, ok := col[term]; ok {
				tf[c]++
			}
		}
		for c := range tf {
			df[c]++
		}
		counts[d] = tf
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for c, f := range df {
		idf[c] = math.Log((1+n)/(1+float64(f))) + 1
	}

	var cells []triplet
	for d, tf := range counts {
		cols := make([]int, 0, len(tf))
		for c := range tf {
			cols = append(cols, c)
		}
		slices.Sort(cols)

		var norm float64
		vals := make([]float64, len(cols))
		for i, c := range cols {
			vals[i] = tf[c] * idf[c]
			norm += vals[i] * vals[i]
		}
		norm = math.Sqrt(norm)
		for i, c := range cols {
			cells = append(cells, triplet{row: d, col: c, val: float32(vals[i] / norm)})
		}
	}

	cs := &ContentSpace{
		items:      ids,
		index:      make(map[ID]int, len(ids)),
		vocabulary: vocab,
		idf:        idf,
		weights:    newMatrixFromTriplets(len(ids), len(vocab), cells),
	}
	for i, id := range ids {
		cs.index[id] = i
	}
	return cs, nil
}

// analyze lowercases text, drops stop words and emits unigrams followed by
// bigrams of the remaining tokens.
func analyze(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if !isStopWord(t) {
			tokens = append(tokens, t)
		}
	}
	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// selectVocabulary keeps the maxFeatures terms with the highest corpus
// frequency, ties broken alphabetically, and returns them sorted.
func selectVocabulary(docs [][]string, maxFeatures int) []string {
	freq := make(map[string]int)
	for _, terms := range docs {
		for _, t := range terms {
			freq[t]++
		}
	}
	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	slices.SortFunc(terms, func(a, b string) int {
		if c := cmp.Compare(freq[b], freq[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	slices.Sort(terms)
	return terms
}

// Len returns the number of products with content vectors.
func (c *ContentSpace) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Vocabulary returns a copy of the sorted vocabulary.
func (c *ContentSpace) Vocabulary() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.vocabulary)
}

// Vector returns the sparse TF-IDF vector for a product as a term-to-weight
// map.
func (c *ContentSpace) Vector(id ID) (map[string]float32, bool) {
	if c == nil {
		return nil, false
	}
	row, ok := c.index[id]
	if !ok {
		return nil, false
	}
	cols, vals := c.weights.Row(row)
	out := make(map[string]float32, len(cols))
	for i, col := range cols {
		out[c.vocabulary[col]] = vals[i]
	}
	return out, true
}

// Similarity returns the cosine similarity of two products' text. Vectors
// are unit length so this is their dot product.
func (c *ContentSpace) Similarity(a, b ID) (float64, bool) {
	if c == nil {
		return 0, false
	}
	ra, okA := c.index[a]
	rb, okB := c.index[b]
	if !okA || !okB {
		return 0, false
	}
	colsA, valsA := c.weights.Row(ra)
	colsB, valsB := c.weights.Row(rb)
	var dot float64
	for i, j := 0, 0; i < len(colsA) && j < len(colsB); {
		switch {
		case colsA[i] == colsB[j]:
			dot += float64(valsA[i]) * float64(valsB[j])
			i++
			j++
		case colsA[i] < colsB[j]:
			i++
		default:
			j++
		}
	}
	return dot, true
}

// ContentState is the serializable form of a ContentSpace.
type ContentState struct {
	Items      []ID
	Vocabulary []string
	IDF        []float64
	Weights    *MatrixState
}

func (c *ContentSpace) state() *ContentState {
	if c == nil {
		return nil
	}
	return &ContentState{
		Items:      c.items,
		Vocabulary: c.vocabulary,
		IDF:        c.idf,
		Weights:    c.weights.state(),
	}
}

func contentFromState(s *ContentState) (*ContentSpace, error) {
	if s == nil {
		return nil, nil
	}
	w, err := matrixFromState(s.Weights)
	if err != nil {
		return nil, fmt.Errorf("content weights: %w", err)
	}
	if w == nil || w.Rows() != len(s.Items) || w.Cols() != len(s.Vocabulary) || len(s.IDF) != len(s.Vocabulary) {
		return nil, fmt.Errorf("content: shape does not match %d products and %d terms", len(s.Items), len(s.Vocabulary))
	}
	cs := &ContentSpace{
		items:      s.Items,
		index:      make(map[ID]int, len(s.Items)),
		vocabulary: s.Vocabulary,
		idf:        s.IDF,
		weights:    w,
	}
	for i, id := range s.Items {
		cs.index[id] = i
	}
	return cs, nil
}
