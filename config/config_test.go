// SPDX-License-Identifier: MIT

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probgraph/config"
	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/ops"
	"github.com/katalvlaran/probgraph/tensor"
)

const sample = `
graph:
  name: regression
  seed: 42
logging:
  level: debug
  format: json
metrics:
  enabled: true
autodiff:
  finite_difference_step: 1e-4
`

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(sample))
	require.NoError(t, err)

	seed := uint64(42)
	want := config.Config{
		Graph:    config.GraphConfig{Name: "regression", Seed: &seed},
		Logging:  config.LoggingConfig{Level: "debug", Format: "json"},
		Metrics:  config.MetricsConfig{Enabled: true, Namespace: "probgraph"},
		AutoDiff: config.AutoDiffConfig{FiniteDifferenceStep: 1e-4},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EmptyIsDefault(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"level":   "logging: {level: loud}",
		"format":  "logging: {format: xml}",
		"step":    "autodiff: {finite_difference_step: 0}",
		"unknown": "graph: {colour: red}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
	_, err := config.Parse([]byte("logging: {level: loud}"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "regression", cfg.Graph.Name)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestGraphOptions wires logger, seed and metrics into a working graph.
func TestGraphOptions(t *testing.T) {
	cfg, err := config.Parse([]byte(sample))
	require.NoError(t, err)

	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	opts, col := cfg.GraphOptions(&logs, reg)
	require.NotNil(t, col)

	g := core.NewGraph(opts...)
	assert.Equal(t, "regression", g.Name())
	x, err := ops.Constant(g, tensor.Scalar(2))
	require.NoError(t, err)
	y, err := ops.Exp(x)
	require.NoError(t, err)
	require.NoError(t, core.LazyEval(y))

	assert.Contains(t, logs.String(), `"msg":"lazy eval"`)
	assert.Contains(t, logs.String(), `"graph":"regression"`)
	assert.Len(t, cfg.FiniteDifferenceOptions(), 1)

	cfg.Metrics.Enabled = false
	_, col = cfg.GraphOptions(&logs, reg)
	assert.Nil(t, col)
}
