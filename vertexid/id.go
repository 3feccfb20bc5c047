// SPDX-License-Identifier: MIT

package vertexid

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// levelWidth is the number of bytes one level occupies inside ID.key.
const levelWidth = 8

// ID identifies a vertex. The zero value is the empty ID and sorts before every
// allocated ID.
//
// Each level is stored big-endian in a fixed-width string, so plain string
// comparison of two keys equals level-wise numeric comparison. This keeps ID
// comparable with == and usable as a map key.
type ID struct {
	key string
}

// New builds an ID from its levels, outermost first.
func New(levels ...uint64) ID {
	var b strings.Builder
	b.Grow(len(levels) * levelWidth)
	var buf [levelWidth]byte
	for _, l := range levels {
		binary.BigEndian.PutUint64(buf[:], l)
		b.Write(buf[:])
	}

	return ID{key: b.String()}
}

// Levels returns a copy of the ID levels, outermost first.
func (id ID) Levels() []uint64 {
	n := len(id.key) / levelWidth
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		out[i] = binary.BigEndian.Uint64([]byte(id.key[i*levelWidth : (i+1)*levelWidth]))
	}

	return out
}

// Depth reports the number of levels (0 for the zero ID).
func (id ID) Depth() int { return len(id.key) / levelWidth }

// IsZero reports whether id is the empty ID.
func (id ID) IsZero() bool { return id.key == "" }

// Compare returns -1, 0 or +1 as id sorts before, equal to, or after other.
func (id ID) Compare(other ID) int { return strings.Compare(id.key, other.key) }

// Less reports whether id sorts strictly before other.
func (id ID) Less(other ID) bool { return id.key < other.key }

// Last returns the innermost level, or 0 for the zero ID.
func (id ID) Last() uint64 {
	if id.IsZero() {
		return 0
	}

	return binary.BigEndian.Uint64([]byte(id.key[len(id.key)-levelWidth:]))
}

// Prefix returns the ID with its innermost level removed.
func (id ID) Prefix() ID {
	if id.Depth() <= 1 {
		return ID{}
	}

	return ID{key: id.key[:len(id.key)-levelWidth]}
}

// WithPrefix returns a new ID whose levels are prefix's levels followed by id's.
func (id ID) WithPrefix(prefix ID) ID {
	return ID{key: prefix.key + id.key}
}

// HasPrefix reports whether prefix is a (non-strict) leading part of id.
func (id ID) HasPrefix(prefix ID) bool { return strings.HasPrefix(id.key, prefix.key) }

// String renders the ID as dot-separated decimal levels, e.g. "3" or "3.17".
func (id ID) String() string {
	if id.IsZero() {
		return "<none>"
	}
	levels := id.Levels()
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = strconv.FormatUint(l, 10)
	}

	return strings.Join(parts, ".")
}
