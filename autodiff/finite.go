// SPDX-License-Identifier: MIT

package autodiff

import (
	"fmt"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/tensor"
)

// FiniteDifference estimates ∂of/∂wrt by central differences, perturbing each
// element of wrt by ±Options.Step and cascading the change. The result has the
// [of..., wrt...] layout of the automatic modes. wrt's value is restored (and
// cascaded) before returning.
//
// Complexity: 2·|wrt| cascades.
func FiniteDifference(of, wrt *core.Vertex, opts ...Option) (*tensor.Tensor, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if of == nil {
		return nil, fmt.Errorf("autodiff.FiniteDifference: %w", core.ErrNilVertex)
	}
	if err := sameGraph("FiniteDifference", of.Graph(), wrt); err != nil {
		return nil, err
	}
	if wrt.IsObserved() {
		return nil, fmt.Errorf("autodiff.FiniteDifference(%s): %w", wrt, ErrObservedWrt)
	}
	if err := core.LazyEval(of, wrt); err != nil {
		return nil, err
	}
	base, err := wrt.Value()
	if err != nil {
		return nil, err
	}
	outShape := of.Shape()
	nOut, nIn := tensor.Numel(outShape), base.Len()

	probe := func(data []float64) ([]float64, error) {
		if err := wrt.SetAndCascade(tensor.MustNew(base.Shape(), data)); err != nil {
			return nil, err
		}
		v, err := of.Value()
		if err != nil {
			return nil, err
		}
		return v.Data(), nil
	}

	jac := make([]float64, nOut*nIn)
	for k := 0; k < nIn; k++ {
		data := base.Data()
		data[k] += o.Step
		plus, err := probe(data)
		if err != nil {
			return nil, restore(wrt, base, err)
		}
		data[k] -= 2 * o.Step
		minus, err := probe(data)
		if err != nil {
			return nil, restore(wrt, base, err)
		}
		for i := 0; i < nOut; i++ {
			jac[i*nIn+k] = (plus[i] - minus[i]) / (2 * o.Step)
		}
	}
	if err := restore(wrt, base, nil); err != nil {
		return nil, err
	}

	return tensor.New(append(outShape, base.Shape()...), jac)
}

// restore puts wrt back to base and returns cause, or the restore error when
// cause is nil.
func restore(wrt *core.Vertex, base *tensor.Tensor, cause error) error {
	if err := wrt.SetAndCascade(base); err != nil && cause == nil {
		return err
	}

	return cause
}
