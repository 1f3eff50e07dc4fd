// SPDX-License-Identifier: MIT

package leontief

import (
	"fmt"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/coeff"
	"github.com/katalvlaran/sutiot/matrix"
)

const (
	opValidateDelta = "leontief.Delta.Validate"
	opPerturb       = "leontief.Perturb"
)

// Delta is an additive perturbation of a coefficient bundle: per layer ΔA,
// Δw, Δm, ΔY, plus the shared ΔB. Y deltas are absolute, like Y.
type Delta struct {
	Layers []coeff.Layer
	B      *matrix.Dense
}

// NewDelta returns an all-zero perturbation shaped like base.
func NewDelta(base *coeff.Bundle) *Delta {
	d := &Delta{Layers: make([]coeff.Layer, base.NumLayers())}
	for l, lay := range base.Layers {
		d.Layers[l] = coeff.Layer{
			A: matrix.MustDense(lay.A.Shape()),
			W: matrix.MustDense(lay.W.Shape()),
			M: matrix.MustDense(lay.M.Shape()),
			Y: matrix.MustDense(lay.Y.Shape()),
		}
	}
	d.B = matrix.MustDense(base.B.Shape())

	return d
}

// Validate checks that every delta matrix has exactly the shape of its
// baseline counterpart.
//
// Errors:
//   - sutiot.ErrShape on a layer count or shape mismatch, or a nil matrix.
func (d *Delta) Validate(base *coeff.Bundle) error {
	if d == nil || base == nil {
		return sutiot.ShapeErrorf(opValidateDelta, matrix.ErrNilMatrix)
	}
	if len(d.Layers) != base.NumLayers() {
		return sutiot.ShapeErrorf(opValidateDelta, fmt.Errorf("delta has %d layers, baseline %d: %w", len(d.Layers), base.NumLayers(), matrix.ErrDimensionMismatch))
	}
	for l := range d.Layers {
		pairs := []struct {
			name      string
			got, want *matrix.Dense
		}{
			{"A", d.Layers[l].A, base.Layers[l].A},
			{"W", d.Layers[l].W, base.Layers[l].W},
			{"M", d.Layers[l].M, base.Layers[l].M},
			{"Y", d.Layers[l].Y, base.Layers[l].Y},
		}
		for _, p := range pairs {
			if err := matrix.ValidateShape(p.got, p.want.Rows(), p.want.Cols()); err != nil {
				return sutiot.ShapeErrorf(opValidateDelta, &sutiot.LayerError{Layer: l, Err: fmt.Errorf("%s: %w", p.name, err)})
			}
		}
	}
	if err := matrix.ValidateShape(d.B, base.B.Rows(), base.B.Cols()); err != nil {
		return sutiot.ShapeErrorf(opValidateDelta+": B", err)
	}

	return nil
}

// Perturb returns base + d elementwise:
//
//	A₁ = A₀+ΔA, w₁ = w₀+Δw, m₁ = m₀+Δm, Y₁ = Y₀+ΔY per layer, B₁ = B₀+ΔB.
//
// A nil d yields a copy of base. Neither input is modified.
//
// Errors:
//   - sutiot.ErrShape from Validate.
func Perturb(base *coeff.Bundle, d *Delta) (*coeff.Bundle, error) {
	if base.NumLayers() == 0 || base.B == nil {
		return nil, sutiot.ShapeErrorf(opPerturb, matrix.ErrNilMatrix)
	}
	if d == nil {
		return base.Clone(), nil
	}
	if err := d.Validate(base); err != nil {
		return nil, fmt.Errorf("%s: %w", opPerturb, err)
	}

	out := &coeff.Bundle{Layers: make([]coeff.Layer, base.NumLayers()), Dims: base.Dims}
	var err error
	for l := range base.Layers {
		b, dl := &base.Layers[l], &d.Layers[l]
		dst := &out.Layers[l]
		if dst.A, err = matrix.Add(b.A, dl.A); err != nil {
			return nil, sutiot.ShapeErrorf(opPerturb, err)
		}
		if dst.W, err = matrix.Add(b.W, dl.W); err != nil {
			return nil, sutiot.ShapeErrorf(opPerturb, err)
		}
		if dst.M, err = matrix.Add(b.M, dl.M); err != nil {
			return nil, sutiot.ShapeErrorf(opPerturb, err)
		}
		if dst.Y, err = matrix.Add(b.Y, dl.Y); err != nil {
			return nil, sutiot.ShapeErrorf(opPerturb, err)
		}
	}
	if out.B, err = matrix.Add(base.B, d.B); err != nil {
		return nil, sutiot.ShapeErrorf(opPerturb, err)
	}

	return out, nil
}
