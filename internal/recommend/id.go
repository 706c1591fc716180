// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// IDKind tags the representation of an ID.
type IDKind uint8

const (
	// KindNumeric marks an integer identifier (database primary keys).
	KindNumeric IDKind = iota
	// KindText marks a string identifier (imported or synthetic catalogs).
	KindText
)

// String returns a human-readable name for the kind.
func (k IDKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// ID identifies a user or product. It is either Numeric or Text, never both.
//
// Equality compares kind and value, so Numeric(5) and Text("5") are different
// IDs. Ordering is total: every numeric ID sorts before every text ID.
// The zero value is Numeric(0).
type ID struct {
	kind IDKind
	num  int64
	text string
}

// Numeric returns an integer ID.
func Numeric(n int64) ID {
	return ID{kind: KindNumeric, num: n}
}

// Text returns a string ID.
func Text(s string) ID {
	return ID{kind: KindText, text: s}
}

// ParseID interprets s as a Numeric ID when it is a base-10 integer and as a
// Text ID otherwise. This matches how path parameters are resolved: the
// database uses integer keys, imported catalogs use strings.
func ParseID(s string) ID {
	if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return Numeric(n)
	}
	return Text(s)
}

// Kind returns the ID's representation.
func (id ID) Kind() IDKind { return id.kind }

// Int returns the numeric value and true for a Numeric ID.
func (id ID) Int() (int64, bool) {
	return id.num, id.kind == KindNumeric
}

// String returns the canonical textual form.
func (id ID) String() string {
	if id.kind == KindNumeric {
		return strconv.FormatInt(id.num, 10)
	}
	return id.text
}

// Equal reports whether id and other have the same kind and value.
func (id ID) Equal(other ID) bool {
	return id == other
}

// Compare returns -1, 0 or +1.
func (id ID) Compare(other ID) int {
	if id.kind != other.kind {
		if id.kind < other.kind {
			return -1
		}
		return 1
	}
	if id.kind == KindNumeric {
		switch {
		case id.num < other.num:
			return -1
		case id.num > other.num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(id.text, other.text)
}

// MarshalJSON encodes numeric IDs as JSON numbers and text IDs as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.kind == KindNumeric {
		return []byte(strconv.FormatInt(id.num, 10)), nil
	}
	return json.Marshal(id.text)
}

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode text id: %w", err)
		}
		*id = Text(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("decode numeric id %q: %w", data, err)
	}
	*id = Numeric(n)
	return nil
}

// MarshalBinary encodes the ID for gob. The first byte is the kind.
func (id ID) MarshalBinary() ([]byte, error) {
	if id.kind == KindNumeric {
		buf := make([]byte, 1, 1+binary.MaxVarintLen64)
		buf[0] = byte(KindNumeric)
		return binary.AppendVarint(buf, id.num), nil
	}
	buf := make([]byte, 0, 1+len(id.text))
	buf = append(buf, byte(KindText))
	return append(buf, id.text...), nil
}

// UnmarshalBinary decodes the output of MarshalBinary.
func (id *ID) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("decode id: empty input")
	}
	switch IDKind(data[0]) {
	case KindNumeric:
		n, size := binary.Varint(data[1:])
		if size <= 0 {
			return fmt.Errorf("decode id: invalid varint")
		}
		*id = Numeric(n)
	case KindText:
		*id = Text(string(data[1:]))
	default:
		return fmt.Errorf("decode id: unknown kind %d", data[0])
	}
	return nil
}
