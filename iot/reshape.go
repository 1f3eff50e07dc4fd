// SPDX-License-Identifier: MIT

// Package iot reshapes Supply-Use bundles into the IOT-like framework.
//
// Z is block-structured over the products++industries axis:
//
//	            products   industries
//	products  [ margins  |    use     ]
//	industries[ supply   |     0      ]
//
// W and M stack their by-product and by-industry parts horizontally so
// their columns align with Z's columns; Y embeds final demand by product in
// the product rows (industries have no direct final demand); R stacks the
// exogenous accounts the same way and is shared by all layers.
//
// Reference: Lenzen M., Rueda-Cantuche J.M., "A note on the use of
// supply-use tables in impact analyses", SORT, 2012.
package iot

import (
	"fmt"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/labels"
	"github.com/katalvlaran/sutiot/matrix"
	"github.com/katalvlaran/sutiot/sut"
)

const (
	opReshape     = "iot.Reshape"
	opReshapeRect = "iot.ReshapeRect"
)

// Layer holds the IOT matrices of one layer.
type Layer struct {
	Z *matrix.Dense // (rowP+rowI) × (colP+colI)
	W *matrix.Dense // vadd × (colP+colI)
	M *matrix.Dense // imp × (colP+colI)
	Y *matrix.Dense // (rowP+rowI) × fd
}

// Dims records the block sizes a Table was assembled from. For a square
// table the row side equals the column side.
type Dims struct {
	RowProducts, RowIndustries int
	ColProducts, ColIndustries int
	ValueAdded, Imports        int
	FinalDemand, Exogenous     int
}

// Rows is the size of Z's row axis.
func (d Dims) Rows() int { return d.RowProducts + d.RowIndustries }

// Cols is the size of Z's column axis.
func (d Dims) Cols() int { return d.ColProducts + d.ColIndustries }

// Square reports whether the row and column classifications coincide.
func (d Dims) Square() bool {
	return d.RowProducts == d.ColProducts && d.RowIndustries == d.ColIndustries
}

// Table is a multi-layer IOT bundle. R is not layer-indexed.
type Table struct {
	Layers []Layer
	R      *matrix.Dense // exog × (colP+colI)
	Dims   Dims
}

// NumLayers returns len(Layers).
func (t *Table) NumLayers() int { return len(t.Layers) }

// Reshape assembles the square IOT table from an aggregated bundle.
//
// Errors:
//   - sutiot.ErrShape when sub-matrices disagree with each other or the
//     resulting Z is not square.
func Reshape(b *sut.Bundle) (*Table, error) {
	d, err := dimsOf(b)
	if err != nil {
		return nil, sutiot.ShapeErrorf(opReshape, err)
	}
	if !d.Square() {
		return nil, sutiot.ShapeErrorf(opReshape, fmt.Errorf("Z would be %dx%d: %w", d.Rows(), d.Cols(), matrix.ErrDimensionMismatch))
	}
	t, err := assemble(b, d)
	if err != nil {
		return nil, sutiot.ShapeErrorf(opReshape, err)
	}

	return t, nil
}

// ReshapeRect assembles a table whose row side and column side follow
// different classifications (see sut.AggregateRect). Z is not square in
// general.
//
// Errors:
//   - sutiot.ErrShape when sub-matrices disagree with each other.
func ReshapeRect(b *sut.Bundle) (*Table, error) {
	d, err := dimsOf(b)
	if err != nil {
		return nil, sutiot.ShapeErrorf(opReshapeRect, err)
	}
	t, err := assemble(b, d)
	if err != nil {
		return nil, sutiot.ShapeErrorf(opReshapeRect, err)
	}

	return t, nil
}

// dimsOf reads the block sizes from layer 0 and checks every layer and the
// shared accounts against them.
func dimsOf(b *sut.Bundle) (Dims, error) {
	if b.NumLayers() == 0 {
		return Dims{}, fmt.Errorf("bundle has no layers: %w", matrix.ErrDimensionMismatch)
	}
	l0 := &b.Layers[0]
	if err := matrix.ValidateNotNil(l0.Use, l0.Supply, l0.FDProd, l0.VAProd, l0.ImpProd, b.ExogProd); err != nil {
		return Dims{}, fmt.Errorf("layer 0: %w", err)
	}
	d := Dims{
		RowProducts:   l0.Use.Rows(),
		ColIndustries: l0.Use.Cols(),
		RowIndustries: l0.Supply.Rows(),
		ColProducts:   l0.Supply.Cols(),
		ValueAdded:    l0.VAProd.Rows(),
		Imports:       l0.ImpProd.Rows(),
		FinalDemand:   l0.FDProd.Cols(),
		Exogenous:     b.ExogProd.Rows(),
	}
	for l := range b.Layers {
		lay := &b.Layers[l]
		checks := []struct {
			name       string
			m          *matrix.Dense
			rows, cols int
		}{
			{"use", lay.Use, d.RowProducts, d.ColIndustries},
			{"supply", lay.Supply, d.RowIndustries, d.ColProducts},
			{"trc", lay.Margins, d.RowProducts, d.ColProducts},
			{"va_prod", lay.VAProd, d.ValueAdded, d.ColProducts},
			{"va_ind", lay.VAInd, d.ValueAdded, d.ColIndustries},
			{"imp_prod", lay.ImpProd, d.Imports, d.ColProducts},
			{"imp_ind", lay.ImpInd, d.Imports, d.ColIndustries},
			{"fd", lay.FDProd, d.RowProducts, d.FinalDemand},
		}
		for _, c := range checks {
			if err := matrix.ValidateShape(c.m, c.rows, c.cols); err != nil {
				return Dims{}, fmt.Errorf("layer %d %s: %w", l, c.name, err)
			}
		}
	}
	if err := matrix.ValidateShape(b.ExogInd, d.Exogenous, d.ColIndustries); err != nil {
		return Dims{}, fmt.Errorf("exog_ind: %w", err)
	}

	return d, nil
}

// assemble builds Z, W, M, Y per layer and the shared R.
func assemble(b *sut.Bundle, d Dims) (*Table, error) {
	t := &Table{Layers: make([]Layer, len(b.Layers)), Dims: d}
	for l := range b.Layers {
		src := &b.Layers[l]
		z := matrix.MustDense(d.Rows(), d.Cols())
		if err := matrix.Embed(z, src.Margins, 0, 0); err != nil {
			return nil, err
		}
		if err := matrix.Embed(z, src.Use, 0, d.ColProducts); err != nil {
			return nil, err
		}
		if err := matrix.Embed(z, src.Supply, d.RowProducts, 0); err != nil {
			return nil, err
		}
		w, err := matrix.HStack(src.VAProd, src.VAInd)
		if err != nil {
			return nil, err
		}
		m, err := matrix.HStack(src.ImpProd, src.ImpInd)
		if err != nil {
			return nil, err
		}
		y := matrix.MustDense(d.Rows(), d.FinalDemand)
		if err = matrix.Embed(y, src.FDProd, 0, 0); err != nil {
			return nil, err
		}
		t.Layers[l] = Layer{Z: z, W: w, M: m, Y: y}
	}
	r, err := matrix.HStack(b.ExogProd, b.ExogInd)
	if err != nil {
		return nil, err
	}
	t.R = r

	return t, nil
}

// Index returns the labels of Z's axis for reg: products then industries.
// Each label is prefixed with its category so products and industries
// sharing a name stay distinct.
func Index(reg *labels.Registry) []labels.Label {
	out := make([]labels.Label, 0, reg.Products.Len()+reg.Industries.Len())
	for _, c := range []labels.Category{labels.Products, labels.Industries} {
		for _, it := range reg.Set(c).Items {
			l := make(labels.Label, 0, len(it)+1)
			l = append(l, c.String())
			out = append(out, append(l, it...))
		}
	}

	return out
}
