// SPDX-License-Identifier: MIT

// Package metrics exports the local computations of probgraph graphs as
// Prometheus counters. A *Collector is a core.Observer: pass it to
// core.WithObserver on every graph to be measured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/probgraph/core"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "probgraph"

// Collector counts calculations, samples and differentiations per graph.
type Collector struct {
	Calculations     *prometheus.CounterVec
	Samples          *prometheus.CounterVec
	Differentiations *prometheus.CounterVec
}

// NewCollector registers the counters with reg under namespace (DefaultNamespace
// when empty). Registering twice on one registry panics, as with promauto.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	f := promauto.With(reg)

	return &Collector{
		Calculations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calculations_total",
				Help:      "Deterministic vertex values computed, by graph and operator.",
			},
			[]string{"graph", "op"},
		),
		Samples: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "samples_total",
				Help:      "Random variable values drawn, by graph.",
			},
			[]string{"graph"},
		),
		Differentiations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "differentiations_total",
				Help:      "Local derivative evaluations, by graph and mode.",
			},
			[]string{"graph", "mode"},
		),
	}
}

// OnCalculate implements core.Observer.
func (c *Collector) OnCalculate(v *core.Vertex) {
	c.Calculations.WithLabelValues(v.Graph().Name(), string(v.Op().Tag)).Inc()
}

// OnSample implements core.Observer.
func (c *Collector) OnSample(v *core.Vertex) {
	c.Samples.WithLabelValues(v.Graph().Name()).Inc()
}

// OnDifferentiate implements core.Observer.
func (c *Collector) OnDifferentiate(v *core.Vertex, mode core.DiffMode) {
	c.Differentiations.WithLabelValues(v.Graph().Name(), mode.String()).Inc()
}

var _ core.Observer = (*Collector)(nil)
