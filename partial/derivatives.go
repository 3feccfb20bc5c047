// SPDX-License-Identifier: MIT

package partial

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// Derivatives maps a with-respect-to vertex ID to a partial derivative tensor
// of shape [of-shape..., wrt-shape...].
type Derivatives struct {
	m map[vertexid.ID]*tensor.Tensor
}

// Empty returns a Derivatives without entries. Same as the zero value.
func Empty() Derivatives { return Derivatives{} }

// WithRespectToSelf returns the partial of a vertex of the given shape with
// respect to itself: the identity tensor of shape [shape..., shape...].
func WithRespectToSelf(id vertexid.ID, shape []int) Derivatives {
	return Derivatives{m: map[vertexid.ID]*tensor.Tensor{id: tensor.Identity(shape)}}
}

// New builds a Derivatives from m. The map is copied; nil tensors are skipped.
func New(m map[vertexid.ID]*tensor.Tensor) Derivatives {
	if len(m) == 0 {
		return Derivatives{}
	}
	out := make(map[vertexid.ID]*tensor.Tensor, len(m))
	for k, v := range m {
		if v != nil {
			out[k] = v
		}
	}

	return Derivatives{m: out}
}

// WithRespectTo returns the partial for id and whether it is present.
func (d Derivatives) WithRespectTo(id vertexid.ID) (*tensor.Tensor, bool) {
	t, ok := d.m[id]

	return t, ok
}

// Len returns the number of wrt entries.
func (d Derivatives) Len() int { return len(d.m) }

// IsEmpty reports whether d has no entries.
func (d Derivatives) IsEmpty() bool { return len(d.m) == 0 }

// IDs returns the wrt IDs in ascending order.
func (d Derivatives) IDs() []vertexid.ID {
	ids := make([]vertexid.ID, 0, len(d.m))
	for id := range d.m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	return ids
}

// AsMap returns a copy of the underlying map.
func (d Derivatives) AsMap() map[vertexid.ID]*tensor.Tensor {
	out := make(map[vertexid.ID]*tensor.Tensor, len(d.m))
	for k, v := range d.m {
		out[k] = v
	}

	return out
}

// Equal reports whether both hold the same keys with tensors equal within tol.
func (d Derivatives) Equal(o Derivatives, tol float64) bool {
	if len(d.m) != len(o.m) {
		return false
	}
	for k, v := range d.m {
		w, ok := o.m[k]
		if !ok || !v.Equal(w, tol) {
			return false
		}
	}

	return true
}

// String renders entries in ascending ID order.
func (d Derivatives) String() string {
	var b strings.Builder
	b.WriteString("Derivatives{")
	for i, id := range d.IDs() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", id, d.m[id])
	}
	b.WriteByte('}')

	return b.String()
}

// Apply returns a Derivatives whose entries are fn applied to every entry of d.
// Entries for which fn returns a nil tensor are dropped.
func (d Derivatives) Apply(fn func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error)) (Derivatives, error) {
	if len(d.m) == 0 {
		return Derivatives{}, nil
	}
	out := make(map[vertexid.ID]*tensor.Tensor, len(d.m))
	for id, t := range d.m {
		r, err := fn(id, t)
		if err != nil {
			return Derivatives{}, err
		}
		if r != nil {
			out[id] = r
		}
	}

	return Derivatives{m: out}, nil
}
