// SPDX-License-Identifier: MIT

// Package sut holds multi-layer Supply-Use bundles and the Aggregator.
//
// A Bundle carries, for every layer, the eight SUT sub-matrices (use,
// supply, transaction margins, value added and imports by product and by
// industry, final demand by product) plus the exogenous (satellite)
// accounts, which are shared by all layers.
//
// The Aggregator never mutates its input: Aggregate and AggregateRect
// return fresh bundles together with the coarse label registries.
package sut

import (
	"fmt"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/labels"
	"github.com/katalvlaran/sutiot/matrix"
)

const opValidate = "sut.Validate"

// Layer is the SUT of one layer. Shapes (rows×cols, by label category):
//
//	Use      prod×ind     Supply  ind×prod    Margins prod×prod
//	VAProd   vadd×prod    VAInd   vadd×ind
//	ImpProd  imp×prod     ImpInd  imp×ind
//	FDProd   prod×fd
type Layer struct {
	Use     *matrix.Dense
	Supply  *matrix.Dense
	Margins *matrix.Dense
	VAProd  *matrix.Dense
	VAInd   *matrix.Dense
	ImpProd *matrix.Dense
	ImpInd  *matrix.Dense
	FDProd  *matrix.Dense
}

// Bundle is a multi-layer SUT. Layers[0] is the economic layer.
// ExogProd (exog×prod) and ExogInd (exog×ind) are not layer-indexed.
type Bundle struct {
	Layers   []Layer
	ExogProd *matrix.Dense
	ExogInd  *matrix.Dense
}

// NumLayers returns len(Layers); a nil bundle has none.
func (b *Bundle) NumLayers() int {
	if b == nil {
		return 0
	}

	return len(b.Layers)
}

// layerField describes one per-layer sub-matrix: its artifact name, the
// label categories of its axes and accessors.
type layerField struct {
	Name       string
	Rows, Cols labels.Category
	get        func(*Layer) *matrix.Dense
	set        func(*Layer, *matrix.Dense)
}

// sharedField describes one shared (unlayered) sub-matrix.
type sharedField struct {
	Name       string
	Rows, Cols labels.Category
	get        func(*Bundle) *matrix.Dense
	set        func(*Bundle, *matrix.Dense)
}

// layerFields lists the per-layer sub-matrices in artifact order. Names
// match the sheet names of the source tables.
var layerFields = []layerField{
	{"use", labels.Products, labels.Industries, func(l *Layer) *matrix.Dense { return l.Use }, func(l *Layer, m *matrix.Dense) { l.Use = m }},
	{"supply", labels.Industries, labels.Products, func(l *Layer) *matrix.Dense { return l.Supply }, func(l *Layer, m *matrix.Dense) { l.Supply = m }},
	{"trc", labels.Products, labels.Products, func(l *Layer) *matrix.Dense { return l.Margins }, func(l *Layer, m *matrix.Dense) { l.Margins = m }},
	{"va_prod", labels.ValueAdded, labels.Products, func(l *Layer) *matrix.Dense { return l.VAProd }, func(l *Layer, m *matrix.Dense) { l.VAProd = m }},
	{"va_ind", labels.ValueAdded, labels.Industries, func(l *Layer) *matrix.Dense { return l.VAInd }, func(l *Layer, m *matrix.Dense) { l.VAInd = m }},
	{"imp_prod", labels.Imports, labels.Products, func(l *Layer) *matrix.Dense { return l.ImpProd }, func(l *Layer, m *matrix.Dense) { l.ImpProd = m }},
	{"imp_ind", labels.Imports, labels.Industries, func(l *Layer) *matrix.Dense { return l.ImpInd }, func(l *Layer, m *matrix.Dense) { l.ImpInd = m }},
	{"fd", labels.Products, labels.FinalDemand, func(l *Layer) *matrix.Dense { return l.FDProd }, func(l *Layer, m *matrix.Dense) { l.FDProd = m }},
}

var sharedFields = []sharedField{
	{"exog_prod", labels.Exogenous, labels.Products, func(b *Bundle) *matrix.Dense { return b.ExogProd }, func(b *Bundle, m *matrix.Dense) { b.ExogProd = m }},
	{"exog_ind", labels.Exogenous, labels.Industries, func(b *Bundle) *matrix.Dense { return b.ExogInd }, func(b *Bundle, m *matrix.Dense) { b.ExogInd = m }},
}

// countOf returns the item count of category c.
func countOf(n labels.Counts, c labels.Category) int {
	switch c {
	case labels.Products:
		return n.Products
	case labels.Industries:
		return n.Industries
	case labels.ValueAdded:
		return n.ValueAdded
	case labels.Imports:
		return n.Imports
	case labels.FinalDemand:
		return n.FinalDemand
	default:
		return n.Exogenous
	}
}

// Validate checks the bundle against the label counts of its registry and
// the configured layer count.
//
// Errors:
//   - sutiot.ErrConfiguration when nL < 1.
//   - sutiot.ErrShape for a wrong number of layers, a missing sub-matrix or
//     a sub-matrix whose shape disagrees with its label sets.
func (b *Bundle) Validate(n labels.Counts, nL int) error {
	if b == nil {
		return sutiot.ShapeErrorf(opValidate, matrix.ErrNilMatrix)
	}
	if nL < 1 {
		return sutiot.ConfigErrorf(opValidate, "layer count %d < 1", nL)
	}
	if len(b.Layers) != nL {
		return sutiot.ShapeErrorf(opValidate, fmt.Errorf("bundle has %d layers, want %d", len(b.Layers), nL))
	}
	for l := range b.Layers {
		for _, f := range layerFields {
			if err := matrix.ValidateShape(f.get(&b.Layers[l]), countOf(n, f.Rows), countOf(n, f.Cols)); err != nil {
				return sutiot.ShapeErrorf(fmt.Sprintf("%s: layer %d %s", opValidate, l, f.Name), err)
			}
		}
	}
	for _, f := range sharedFields {
		if err := matrix.ValidateShape(f.get(b), countOf(n, f.Rows), countOf(n, f.Cols)); err != nil {
			return sutiot.ShapeErrorf(fmt.Sprintf("%s: %s", opValidate, f.Name), err)
		}
	}

	return nil
}

// Zeros allocates an all-zero bundle of nL layers shaped by n.
func Zeros(n labels.Counts, nL int) *Bundle {
	b := &Bundle{Layers: make([]Layer, nL)}
	for l := range b.Layers {
		for _, f := range layerFields {
			f.set(&b.Layers[l], matrix.MustDense(countOf(n, f.Rows), countOf(n, f.Cols)))
		}
	}
	for _, f := range sharedFields {
		f.set(b, matrix.MustDense(countOf(n, f.Rows), countOf(n, f.Cols)))
	}

	return b
}

// Field returns the per-layer sub-matrix called name ("use", "supply",
// "trc", "va_prod", "va_ind", "imp_prod", "imp_ind", "fd") and whether the
// name is known.
func (l *Layer) Field(name string) (*matrix.Dense, bool) {
	for _, f := range layerFields {
		if f.Name == name {
			return f.get(l), true
		}
	}

	return nil, false
}

// SetField stores m under name; it reports false for an unknown name.
func (l *Layer) SetField(name string, m *matrix.Dense) bool {
	for _, f := range layerFields {
		if f.Name == name {
			f.set(l, m)
			return true
		}
	}

	return false
}

// SetShared stores m under a shared field name ("exog_prod", "exog_ind").
func (b *Bundle) SetShared(name string, m *matrix.Dense) bool {
	for _, f := range sharedFields {
		if f.Name == name {
			f.set(b, m)
			return true
		}
	}

	return false
}

// Shared returns the shared sub-matrix called name.
func (b *Bundle) Shared(name string) (*matrix.Dense, bool) {
	for _, f := range sharedFields {
		if f.Name == name {
			return f.get(b), true
		}
	}

	return nil, false
}

// LayerFieldNames lists the per-layer sub-matrix names in artifact order.
func LayerFieldNames() []string {
	out := make([]string, len(layerFields))
	for i, f := range layerFields {
		out[i] = f.Name
	}

	return out
}

// SharedFieldNames lists the shared sub-matrix names in artifact order.
func SharedFieldNames() []string {
	out := make([]string, len(sharedFields))
	for i, f := range sharedFields {
		out[i] = f.Name
	}

	return out
}
