// SPDX-License-Identifier: MIT

// Package config loads probgraph settings from YAML and turns them into
// graph options, a logger and a metrics collector.
//
//	graph:
//	  name: regression
//	  seed: 42
//	logging:
//	  level: debug     # debug | info | warn | error
//	  format: json     # text | json
//	metrics:
//	  enabled: true
//	  namespace: probgraph
//	autodiff:
//	  finite_difference_step: 1e-6
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/probgraph/autodiff"
	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/metrics"
)

// ErrInvalid indicates a configuration value outside its allowed set.
var ErrInvalid = errors.New("config: invalid value")

// Config is the root document.
type Config struct {
	Graph    GraphConfig    `yaml:"graph"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	AutoDiff AutoDiffConfig `yaml:"autodiff"`
}

// GraphConfig names the graph and fixes its random seed. A nil Seed draws
// a random one.
type GraphConfig struct {
	Name string  `yaml:"name"`
	Seed *uint64 `yaml:"seed"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig enables the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// AutoDiffConfig tunes gradient checks.
type AutoDiffConfig struct {
	FiniteDifferenceStep float64 `yaml:"finite_difference_step"`
}

// Default returns info-level text logging, metrics off and a 1e-6 step.
func Default() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Metrics:  MetricsConfig{Namespace: metrics.DefaultNamespace},
		AutoDiff: AutoDiffConfig{FiniteDifferenceStep: autodiff.DefaultOptions().Step},
	}
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	return Parse(data)
}

// Parse decodes data over Default() and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config.Parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	if _, ok := levels[c.Logging.Level]; !ok {
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	if !(c.AutoDiff.FiniteDifferenceStep > 0) {
		return fmt.Errorf("%w: autodiff.finite_difference_step %g", ErrInvalid, c.AutoDiff.FiniteDifferenceStep)
	}

	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds a logger writing to w with the configured level and format.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levels[c.Logging.Level]}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// GraphOptions returns the core.NewGraph options for this configuration:
// name, seed and a logger writing to logw. When metrics are enabled a
// collector is registered with reg, added as an observer and returned.
func (c Config) GraphOptions(logw io.Writer, reg prometheus.Registerer) ([]core.GraphOption, *metrics.Collector) {
	opts := []core.GraphOption{core.WithLogger(c.NewLogger(logw))}
	if c.Graph.Name != "" {
		opts = append(opts, core.WithName(c.Graph.Name))
	}
	if c.Graph.Seed != nil {
		opts = append(opts, core.WithSeed(*c.Graph.Seed))
	}
	var col *metrics.Collector
	if c.Metrics.Enabled && reg != nil {
		col = metrics.NewCollector(reg, c.Metrics.Namespace)
		opts = append(opts, core.WithObserver(col))
	}

	return opts, col
}

// FiniteDifferenceOptions returns the autodiff options for gradient checks.
func (c Config) FiniteDifferenceOptions() []autodiff.Option {
	return []autodiff.Option{autodiff.WithStep(c.AutoDiff.FiniteDifferenceStep)}
}
