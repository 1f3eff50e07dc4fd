// SPDX-License-Identifier: MIT

// Package coeff converts absolute IOT transactions into technical
// coefficients and back.
//
// Every layer is normalized by the economic layer's output x[0]:
//
//	A[l] = Z[l]·diag(x[0])⁻¹   W̃[l] = W[l]·diag(x[0])⁻¹   M̃[l] = M[l]·diag(x[0])⁻¹
//	B    = R·diag(x[0])⁻¹
//
// Physical-layer flows are thus expressed per unit of economic output,
// never per unit of their own layer's output. Final demand stays absolute.
//
// x[0] must have passed the balance check's zero-floor; an exact zero is
// rejected with ErrZeroOutput.
package coeff

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/iot"
	"github.com/katalvlaran/sutiot/matrix"
)

const (
	opDerive     = "coeff.Derive"
	opDeriveRect = "coeff.DeriveRect"
	opRecompose  = "coeff.Recompose"
)

// ErrZeroOutput reports a zero entry in the normalizing output vector.
var ErrZeroOutput = errors.New("coeff: zero output entry, zero-floor not applied")

// Layer holds the coefficients of one layer. Y is absolute final demand.
type Layer struct {
	A *matrix.Dense
	W *matrix.Dense
	M *matrix.Dense
	Y *matrix.Dense
}

// Bundle is a multi-layer coefficient set. B is shared by all layers.
type Bundle struct {
	Layers []Layer
	B      *matrix.Dense
	Dims   iot.Dims
}

// NumLayers returns len(Layers); a nil bundle has none.
func (b *Bundle) NumLayers() int {
	if b == nil {
		return 0
	}

	return len(b.Layers)
}

// Clone returns a deep copy.
func (b *Bundle) Clone() *Bundle {
	out := &Bundle{Layers: make([]Layer, len(b.Layers)), B: b.B.Clone(), Dims: b.Dims}
	for l, lay := range b.Layers {
		out.Layers[l] = Layer{A: lay.A.Clone(), W: lay.W.Clone(), M: lay.M.Clone(), Y: lay.Y.Clone()}
	}

	return out
}

// Derive normalizes a square table by x0, the floored production vector of
// layer 0.
//
// Errors:
//   - sutiot.ErrShape for a nil or rectangular table, or len(x0) ≠ columns.
//   - ErrZeroOutput (inside ErrShape) when x0 holds an exact zero.
func Derive(t *iot.Table, x0 []float64) (*Bundle, error) {
	if t != nil && !t.Dims.Square() {
		return nil, sutiot.ShapeErrorf(opDerive, fmt.Errorf("rectangular table: %w", matrix.ErrDimensionMismatch))
	}

	return normalize(opDerive, t, x0)
}

// DeriveRect normalizes a table whose row and column classifications
// differ. x0 is the column-side production vector of layer 0.
//
// Errors: as Derive, without the squareness requirement.
func DeriveRect(t *iot.Table, x0 []float64) (*Bundle, error) {
	return normalize(opDeriveRect, t, x0)
}

// normalize divides Z, W, M of every layer and the shared R by x0.
func normalize(op string, t *iot.Table, x0 []float64) (*Bundle, error) {
	if t == nil || t.NumLayers() == 0 || t.R == nil {
		return nil, sutiot.ShapeErrorf(op, matrix.ErrNilMatrix)
	}
	if err := matrix.ValidateVecLen(x0, t.Dims.Cols()); err != nil {
		return nil, sutiot.ShapeErrorf(op, err)
	}
	for j, v := range x0 {
		if v == 0 {
			return nil, sutiot.ShapeErrorf(op, fmt.Errorf("x[%d]: %w", j, ErrZeroOutput))
		}
	}

	out := &Bundle{Layers: make([]Layer, t.NumLayers()), Dims: t.Dims}
	var err error
	for l := range t.Layers {
		src := &t.Layers[l]
		dst := &out.Layers[l]
		if dst.A, err = matrix.DivCols(src.Z, x0); err != nil {
			return nil, layerShapeError(op, l, "Z", err)
		}
		if dst.W, err = matrix.DivCols(src.W, x0); err != nil {
			return nil, layerShapeError(op, l, "W", err)
		}
		if dst.M, err = matrix.DivCols(src.M, x0); err != nil {
			return nil, layerShapeError(op, l, "M", err)
		}
		if src.Y == nil {
			return nil, layerShapeError(op, l, "Y", matrix.ErrNilMatrix)
		}
		dst.Y = src.Y.Clone()
	}
	if out.B, err = matrix.DivCols(t.R, x0); err != nil {
		return nil, sutiot.ShapeErrorf(op+": R", err)
	}

	return out, nil
}

// Recompose multiplies coefficients back into absolute flows with x, the
// layer-0 output vector: Z[l] = A[l]·diag(x), likewise W, M, and
// R = B·diag(x). Y is copied.
//
// Errors:
//   - sutiot.ErrShape for a nil bundle or len(x) ≠ columns.
func Recompose(b *Bundle, x []float64) (*iot.Table, error) {
	if b.NumLayers() == 0 || b.B == nil {
		return nil, sutiot.ShapeErrorf(opRecompose, matrix.ErrNilMatrix)
	}
	if err := matrix.ValidateVecLen(x, b.Dims.Cols()); err != nil {
		return nil, sutiot.ShapeErrorf(opRecompose, err)
	}

	out := &iot.Table{Layers: make([]iot.Layer, b.NumLayers()), Dims: b.Dims}
	var err error
	for l := range b.Layers {
		src := &b.Layers[l]
		dst := &out.Layers[l]
		if dst.Z, err = matrix.ScaleCols(src.A, x); err != nil {
			return nil, layerShapeError(opRecompose, l, "A", err)
		}
		if dst.W, err = matrix.ScaleCols(src.W, x); err != nil {
			return nil, layerShapeError(opRecompose, l, "W", err)
		}
		if dst.M, err = matrix.ScaleCols(src.M, x); err != nil {
			return nil, layerShapeError(opRecompose, l, "M", err)
		}
		if src.Y == nil {
			return nil, layerShapeError(opRecompose, l, "Y", matrix.ErrNilMatrix)
		}
		dst.Y = src.Y.Clone()
	}
	if out.R, err = matrix.ScaleCols(b.B, x); err != nil {
		return nil, sutiot.ShapeErrorf(opRecompose+": B", err)
	}

	return out, nil
}

// layerShapeError tags err with the layer and matrix it concerns.
func layerShapeError(op string, layer int, name string, err error) error {
	return sutiot.ShapeErrorf(op, &sutiot.LayerError{Layer: layer, Err: fmt.Errorf("%s: %w", name, err)})
}
