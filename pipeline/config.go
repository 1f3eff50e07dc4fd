// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/balance"
)

const opConfig = "pipeline.Config"

// Analysis selects what runs after the baseline coefficients.
type Analysis string

const (
	// AnalysisNone stops after the baseline.
	AnalysisNone Analysis = "none"
	// AnalysisShock runs the Leontief shock analysis.
	AnalysisShock Analysis = "SA"
	// AnalysisRect remaps the baseline onto the rectangularization level.
	AnalysisRect Analysis = "RCOT"
)

// Valid reports whether a is one of the declared kinds.
func (a Analysis) Valid() bool {
	return a == AnalysisNone || a == AnalysisShock || a == AnalysisRect
}

// Config is the run configuration, usually read from YAML.
type Config struct {
	Database     string   `yaml:"database"`
	Country      string   `yaml:"country"`
	Year         int      `yaml:"year"`
	Layers       int      `yaml:"layers"`
	Tolerance    float64  `yaml:"tolerance"`
	Analysis     Analysis `yaml:"analysis"`
	AggLevel     []string `yaml:"agg_level"`
	RectLevel    []string `yaml:"rect_level,omitempty"`
	Source       string   `yaml:"source,omitempty"`
	Concurrency  int      `yaml:"concurrency,omitempty"`
	SkipSingular bool     `yaml:"skip_singular,omitempty"`

	// Dataset and Perturbation are file paths used by the command line.
	Dataset      string `yaml:"dataset,omitempty"`
	Perturbation string `yaml:"perturbation,omitempty"`
}

// DefaultConfig returns the defaults applied before decoding.
func DefaultConfig() *Config {
	return &Config{
		Layers:      1,
		Tolerance:   balance.DefaultTolerance,
		Analysis:    AnalysisNone,
		Source:      balance.DefaultSource.String(),
		Concurrency: 1,
	}
}

// LoadConfig decodes YAML from r over DefaultConfig and validates it.
//
// Errors:
//   - sutiot.ErrConfiguration for malformed YAML, unknown keys or a
//     failed Validate.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, sutiot.ConfigErrorf(opConfig, "decode: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFile opens path and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opConfig, err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// Validate checks every field that does not depend on the input labels.
// Level names are resolved against the headers by Run.
//
// Errors:
//   - sutiot.ErrConfiguration describing the first invalid field.
func (c *Config) Validate() error {
	if c.Layers < 1 {
		return sutiot.ConfigErrorf(opConfig, "layers = %d, want >= 1", c.Layers)
	}
	if math.IsNaN(c.Tolerance) || math.IsInf(c.Tolerance, 0) || c.Tolerance < 0 {
		return sutiot.ConfigErrorf(opConfig, "tolerance %v must be finite and non-negative", c.Tolerance)
	}
	if !c.Analysis.Valid() {
		return sutiot.ConfigErrorf(opConfig, "unsupported analysis %q (want %s, %s or %s)", c.Analysis, AnalysisNone, AnalysisShock, AnalysisRect)
	}
	if len(c.AggLevel) == 0 {
		return sutiot.ConfigErrorf(opConfig, "agg_level is empty")
	}
	if c.Analysis == AnalysisRect && len(c.RectLevel) == 0 {
		return sutiot.ConfigErrorf(opConfig, "analysis %s needs rect_level", AnalysisRect)
	}
	if _, err := balance.ParseSource(c.Source); err != nil {
		return err
	}
	if c.Concurrency < 1 {
		return sutiot.ConfigErrorf(opConfig, "concurrency = %d, want >= 1", c.Concurrency)
	}

	return nil
}
