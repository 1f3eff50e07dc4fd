// SPDX-License-Identifier: MIT

package pipeline_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/pipeline"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := pipeline.LoadConfig(strings.NewReader("agg_level: [group]\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Layers)
	assert.Equal(t, 0.05, cfg.Tolerance)
	assert.Equal(t, pipeline.AnalysisNone, cfg.Analysis)
	assert.Equal(t, "eurostat", cfg.Source)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.False(t, cfg.SkipSingular)
}

func TestLoadConfig_Full(t *testing.T) {
	const src = `
database: exiobase
country: FR
year: 2015
layers: 3
tolerance: 0.01
analysis: RCOT
agg_level: [country, group]
rect_level: [sector]
source: other
concurrency: 4
skip_singular: true
dataset: data/fr.yaml
`
	cfg, err := pipeline.LoadConfig(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, &pipeline.Config{
		Database:     "exiobase",
		Country:      "FR",
		Year:         2015,
		Layers:       3,
		Tolerance:    0.01,
		Analysis:     pipeline.AnalysisRect,
		AggLevel:     []string{"country", "group"},
		RectLevel:    []string{"sector"},
		Source:       "other",
		Concurrency:  4,
		SkipSingular: true,
		Dataset:      "data/fr.yaml",
	}, cfg)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *pipeline.Config {
		cfg := pipeline.DefaultConfig()
		cfg.AggLevel = []string{"group"}
		return cfg
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*pipeline.Config){
		"layers":        func(c *pipeline.Config) { c.Layers = 0 },
		"tolerance":     func(c *pipeline.Config) { c.Tolerance = -1 },
		"nan tolerance": func(c *pipeline.Config) { c.Tolerance = math.NaN() },
		"analysis":      func(c *pipeline.Config) { c.Analysis = "IO" },
		"agg level":     func(c *pipeline.Config) { c.AggLevel = nil },
		"rect level":    func(c *pipeline.Config) { c.Analysis = pipeline.AnalysisRect },
		"source":        func(c *pipeline.Config) { c.Source = "oecd" },
		"concurrency":   func(c *pipeline.Config) { c.Concurrency = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), sutiot.ErrConfiguration)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := pipeline.LoadConfig(strings.NewReader("agg_level: [group]\nmode: fast\n"))
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)

	_, err = pipeline.LoadConfig(strings.NewReader("analysis: SA\n"))
	assert.ErrorIs(t, err, sutiot.ErrConfiguration, "agg_level is required")

	_, err = pipeline.LoadConfigFile("does-not-exist.yaml")
	assert.Error(t, err)
}
