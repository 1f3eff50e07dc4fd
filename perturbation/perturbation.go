// SPDX-License-Identifier: MIT

// Package perturbation - two-phase exchange of shock inputs.
//
// Phase 1, Template: write an editable YAML document holding labelled,
// all-zero ΔA, Δw, Δm, ΔY per layer and the shared ΔB, shaped for an
// aggregated registry.
//
// Phase 2, Import: read the edited document back, check that every label
// and every dimension matches the registry, and return a leontief.Delta.
// Matrices left out of the document stay zero.
//
// Document layout:
//
//	layers: 2
//	perturbations:
//	  - layer: 0
//	    a: {rows: [...], cols: [...], data: [[0, 0], [0, 0]]}
//	    ...
//	b: {rows: [...], cols: [...], data: [...]}
package perturbation

import (
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/coeff"
	"github.com/katalvlaran/sutiot/iot"
	"github.com/katalvlaran/sutiot/labels"
	"github.com/katalvlaran/sutiot/leontief"
	"github.com/katalvlaran/sutiot/matrix"
)

const (
	opTemplate = "perturbation.Template"
	opImport   = "perturbation.Import"
)

// Matrix is one labelled matrix of the document.
type Matrix struct {
	Rows []string    `yaml:"rows"`
	Cols []string    `yaml:"cols"`
	Data [][]float64 `yaml:"data,flow"`
}

// Layer carries the per-layer deltas.
type Layer struct {
	Layer int     `yaml:"layer"`
	A     *Matrix `yaml:"a,omitempty"`
	W     *Matrix `yaml:"w,omitempty"`
	M     *Matrix `yaml:"m,omitempty"`
	Y     *Matrix `yaml:"y,omitempty"`
}

// Document is the exchanged artifact.
type Document struct {
	Layers        int     `yaml:"layers"`
	Perturbations []Layer `yaml:"perturbations"`
	B             *Matrix `yaml:"b,omitempty"`
}

// axes lists row and column labels of every delta matrix for a registry.
type axes struct {
	idx, vadd, imp, fd, exog []string
}

func axesOf(reg *labels.Registry) axes {
	idx := iot.Index(reg)
	s := make([]string, len(idx))
	for i, l := range idx {
		s[i] = l.String()
	}

	return axes{
		idx:  s,
		vadd: reg.ValueAdded.Strings(),
		imp:  reg.Imports.Strings(),
		fd:   reg.FinalDemand.Strings(),
		exog: reg.Exogenous.Strings(),
	}
}

func zeroMatrix(rows, cols []string) *Matrix {
	data := make([][]float64, len(rows))
	for i := range data {
		data[i] = make([]float64, len(cols))
	}

	return &Matrix{Rows: slices.Clone(rows), Cols: slices.Clone(cols), Data: data}
}

// NewDocument returns the all-zero document for reg and nL layers.
//
// Errors:
//   - sutiot.ErrConfiguration for an invalid registry or nL < 1.
func NewDocument(reg *labels.Registry, nL int) (*Document, error) {
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opTemplate, err)
	}
	if nL < 1 {
		return nil, sutiot.ConfigErrorf(opTemplate, "layer count %d < 1", nL)
	}
	ax := axesOf(reg)
	doc := &Document{Layers: nL, Perturbations: make([]Layer, nL)}
	for l := range doc.Perturbations {
		doc.Perturbations[l] = Layer{
			Layer: l,
			A:     zeroMatrix(ax.idx, ax.idx),
			W:     zeroMatrix(ax.vadd, ax.idx),
			M:     zeroMatrix(ax.imp, ax.idx),
			Y:     zeroMatrix(ax.idx, ax.fd),
		}
	}
	doc.B = zeroMatrix(ax.exog, ax.idx)

	return doc, nil
}

// Template writes the all-zero document for reg and nL layers to w.
func Template(w io.Writer, reg *labels.Registry, nL int) error {
	doc, err := NewDocument(reg, nL)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(doc); err != nil {
		return fmt.Errorf("%s: %w", opTemplate, err)
	}

	return enc.Close()
}

// Import reads an edited document from r and converts it into a Delta for
// reg and nL layers.
//
// Errors:
//   - sutiot.ErrConfiguration for an invalid registry, nL < 1 or malformed
//     YAML (unknown fields included).
//   - sutiot.ErrShape for a layer count, label or dimension mismatch, a
//     repeated layer, or a non-finite value.
func Import(r io.Reader, reg *labels.Registry, nL int) (*leontief.Delta, error) {
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opImport, err)
	}
	if nL < 1 {
		return nil, sutiot.ConfigErrorf(opImport, "layer count %d < 1", nL)
	}
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, sutiot.ConfigErrorf(opImport, "decode: %v", err)
	}

	return doc.Delta(reg, nL)
}

// Delta validates doc against reg and nL and builds the perturbation.
//
// Errors: as Import, without the decoding step.
func (doc *Document) Delta(reg *labels.Registry, nL int) (*leontief.Delta, error) {
	if doc.Layers != nL {
		return nil, sutiot.ShapeErrorf(opImport, fmt.Errorf("document has %d layers, want %d", doc.Layers, nL))
	}
	ax := axesOf(reg)
	n := len(ax.idx)
	zero := &coeff.Bundle{Layers: make([]coeff.Layer, nL), B: matrix.MustDense(len(ax.exog), n)}
	for l := range zero.Layers {
		zero.Layers[l] = coeff.Layer{
			A: matrix.MustDense(n, n),
			W: matrix.MustDense(len(ax.vadd), n),
			M: matrix.MustDense(len(ax.imp), n),
			Y: matrix.MustDense(n, len(ax.fd)),
		}
	}
	d := leontief.NewDelta(zero)

	seen := make([]bool, nL)
	for _, p := range doc.Perturbations {
		if p.Layer < 0 || p.Layer >= nL {
			return nil, sutiot.ShapeErrorf(opImport, fmt.Errorf("layer %d out of range [0,%d)", p.Layer, nL))
		}
		if seen[p.Layer] {
			return nil, sutiot.ShapeErrorf(opImport, fmt.Errorf("layer %d listed twice", p.Layer))
		}
		seen[p.Layer] = true
		dst := &d.Layers[p.Layer]
		entries := []struct {
			name       string
			src        *Matrix
			rows, cols []string
			dst        **matrix.Dense
		}{
			{"a", p.A, ax.idx, ax.idx, &dst.A},
			{"w", p.W, ax.vadd, ax.idx, &dst.W},
			{"m", p.M, ax.imp, ax.idx, &dst.M},
			{"y", p.Y, ax.idx, ax.fd, &dst.Y},
		}
		for _, e := range entries {
			if e.src == nil {
				continue
			}
			m, err := e.src.dense(e.rows, e.cols)
			if err != nil {
				return nil, sutiot.ShapeErrorf(opImport, &sutiot.LayerError{Layer: p.Layer, Err: fmt.Errorf("%s: %w", e.name, err)})
			}
			*e.dst = m
		}
	}
	if doc.B != nil {
		m, err := doc.B.dense(ax.exog, ax.idx)
		if err != nil {
			return nil, sutiot.ShapeErrorf(opImport, fmt.Errorf("b: %w", err))
		}
		d.B = m
	}

	return d, nil
}

// dense checks labels and shape and converts m to a Dense.
func (m *Matrix) dense(rows, cols []string) (*matrix.Dense, error) {
	if !slices.Equal(m.Rows, rows) {
		return nil, fmt.Errorf("row labels %v, want %v", m.Rows, rows)
	}
	if !slices.Equal(m.Cols, cols) {
		return nil, fmt.Errorf("column labels %v, want %v", m.Cols, cols)
	}
	if len(m.Data) != len(rows) {
		return nil, fmt.Errorf("%d data rows, want %d: %w", len(m.Data), len(rows), matrix.ErrDimensionMismatch)
	}
	for i, row := range m.Data {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("data row %d has %d values, want %d: %w", i, len(row), len(cols), matrix.ErrDimensionMismatch)
		}
	}
	if len(rows) == 0 {
		return matrix.MustDense(0, len(cols)), nil
	}

	return matrix.NewFromRows(m.Data)
}
