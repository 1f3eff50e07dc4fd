// SPDX-License-Identifier: MIT

// Package dataset loads a raw multi-layer SUT and its labels from YAML.
//
// Layout:
//
//	database: eurostat
//	country: DE
//	year: 2010
//	headers: [country, group, sector]
//	labels:
//	  prod: [[DE, G1, P1], ...]
//	  ind:  [...]
//	  vadd: [...]   # optional, as imp and exog
//	  fd:   [...]
//	layers:
//	  - use: [[...]]
//	    supply: [[...]]
//	    trc: [[...]]   # any matrix left out is all zero
//	shared:
//	  exog_prod: [[...]]
//	  exog_ind: [[...]]
//
// Matrix names are the sheet names of the source tables (see
// sut.LayerFieldNames and sut.SharedFieldNames).
package dataset

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/labels"
	"github.com/katalvlaran/sutiot/matrix"
	"github.com/katalvlaran/sutiot/sut"
)

const opLoad = "dataset.Load"

// File is the decoded YAML document.
type File struct {
	Database string                   `yaml:"database"`
	Country  string                   `yaml:"country"`
	Year     int                      `yaml:"year"`
	Headers  []string                 `yaml:"headers"`
	Labels   map[string][][]string    `yaml:"labels"`
	Layers   []map[string][][]float64 `yaml:"layers"`
	Shared   map[string][][]float64   `yaml:"shared,omitempty"`
}

// Dataset is a validated raw input: labels and the SUT they describe.
type Dataset struct {
	Database string
	Country  string
	Year     int
	Registry *labels.Registry
	SUT      *sut.Bundle
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes a dataset document and validates it.
//
// Errors:
//   - sutiot.ErrConfiguration for malformed YAML, unknown fields, label
//     categories or matrix names, and invalid label sets.
//   - sutiot.ErrShape when a matrix disagrees with the labels.
func Load(r io.Reader) (*Dataset, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, sutiot.ConfigErrorf(opLoad, "decode: %v", err)
	}

	return f.Dataset()
}

// Dataset converts the decoded document.
func (f *File) Dataset() (*Dataset, error) {
	items := make(map[labels.Category][]labels.Label, len(f.Labels))
	for _, name := range sortedKeys(f.Labels) {
		c, err := labels.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opLoad, err)
		}
		ls := make([]labels.Label, len(f.Labels[name]))
		for i, it := range f.Labels[name] {
			ls[i] = labels.Label(it)
		}
		items[c] = ls
	}
	reg, err := labels.NewRegistry(f.Headers, items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}
	if len(f.Layers) == 0 {
		return nil, sutiot.ConfigErrorf(opLoad, "no layers")
	}

	b := sut.Zeros(reg.Counts(), len(f.Layers))
	for l, raw := range f.Layers {
		lay := &b.Layers[l]
		for _, name := range sortedKeys(raw) {
			zero, ok := lay.Field(name)
			if !ok {
				return nil, sutiot.ConfigErrorf(opLoad, "layer %d: unknown matrix %q (have %v)", l, name, sut.LayerFieldNames())
			}
			m, err := fill(zero, raw[name])
			if err != nil {
				return nil, sutiot.ShapeErrorf(fmt.Sprintf("%s: layer %d %s", opLoad, l, name), err)
			}
			lay.SetField(name, m)
		}
	}
	for _, name := range sortedKeys(f.Shared) {
		zero, ok := b.Shared(name)
		if !ok {
			return nil, sutiot.ConfigErrorf(opLoad, "unknown shared matrix %q (have %v)", name, sut.SharedFieldNames())
		}
		m, err := fill(zero, f.Shared[name])
		if err != nil {
			return nil, sutiot.ShapeErrorf(fmt.Sprintf("%s: %s", opLoad, name), err)
		}
		b.SetShared(name, m)
	}
	if err = b.Validate(reg.Counts(), len(f.Layers)); err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}

	return &Dataset{Database: f.Database, Country: f.Country, Year: f.Year, Registry: reg, SUT: b}, nil
}

// fill returns data as a Dense shaped like zero; empty data keeps zero.
func fill(zero *matrix.Dense, data [][]float64) (*matrix.Dense, error) {
	if len(data) == 0 {
		return zero, nil
	}
	m, err := matrix.NewFromRows(data)
	if err != nil {
		return nil, err
	}
	if err = matrix.ValidateShape(m, zero.Rows(), zero.Cols()); err != nil {
		return nil, err
	}

	return m, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
