// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

// Mapper is a bijection between IDs and dense indices [0, Len()).
// Indices are assigned in first-seen order; duplicates collapse onto the
// slot of their first occurrence. A Mapper is immutable once built.
type Mapper struct {
	index map[ID]int
	ids   []ID
}

// NewMapper builds a Mapper from ids in order.
func NewMapper(ids []ID) *Mapper {
	m := &Mapper{
		index: make(map[ID]int, len(ids)),
		ids:   make([]ID, 0, len(ids)),
	}
	for _, id := range ids {
		if _, ok := m.index[id]; ok {
			continue
		}
		m.index[id] = len(m.ids)
		m.ids = append(m.ids, id)
	}
	return m
}

// Index returns the dense index for id.
func (m *Mapper) Index(id ID) (int, bool) {
	if m == nil {
		return 0, false
	}
	idx, ok := m.index[id]
	return idx, ok
}

// ID returns the identifier stored at idx.
func (m *Mapper) ID(idx int) (ID, bool) {
	if m == nil || idx < 0 || idx >= len(m.ids) {
		return ID{}, false
	}
	return m.ids[idx], true
}

// Len returns the number of distinct IDs.
func (m *Mapper) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}

// IDs returns a copy of the identifiers in index order.
func (m *Mapper) IDs() []ID {
	if m == nil {
		return nil
	}
	out := make([]ID, len(m.ids))
	copy(out, m.ids)
	return out
}
