// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/iot"
	"github.com/katalvlaran/sutiot/leontief"
	"github.com/katalvlaran/sutiot/matrix"
)

const opDelta = "pipeline.NewDelta"

// DeltaLayer is the shocked-minus-baseline difference of one layer. X is
// nil for a layer skipped as singular.
type DeltaLayer struct {
	Z, W, M, Y *matrix.Dense
	X          []float64
}

// Delta is the shocked-minus-baseline record of a run.
type Delta struct {
	Layers []DeltaLayer
	R      *matrix.Dense // R₁ − R₀
	E      *matrix.Dense // E₁ − E₀
}

// NewDelta subtracts the baseline (t0, x0 floored, e0) from a shock result.
//
// Errors:
//   - sutiot.ErrShape when the baseline and the result disagree.
func NewDelta(t0 *iot.Table, x0 [][]float64, e0 *matrix.Dense, sr *leontief.Result) (*Delta, error) {
	if t0 == nil || sr == nil || sr.Table == nil {
		return nil, sutiot.ShapeErrorf(opDelta, matrix.ErrNilMatrix)
	}
	t1 := sr.Table
	if t1.NumLayers() != t0.NumLayers() || len(x0) != t0.NumLayers() {
		return nil, sutiot.ShapeErrorf(opDelta, fmt.Errorf("layer counts %d/%d/%d", t0.NumLayers(), t1.NumLayers(), len(x0)))
	}

	d := &Delta{Layers: make([]DeltaLayer, t0.NumLayers())}
	var err error
	for l := range t0.Layers {
		a, b := &t1.Layers[l], &t0.Layers[l]
		dl := &d.Layers[l]
		if dl.Z, err = matrix.Sub(a.Z, b.Z); err != nil {
			return nil, sutiot.ShapeErrorf(opDelta, &sutiot.LayerError{Layer: l, Err: err})
		}
		if dl.W, err = matrix.Sub(a.W, b.W); err != nil {
			return nil, sutiot.ShapeErrorf(opDelta, &sutiot.LayerError{Layer: l, Err: err})
		}
		if dl.M, err = matrix.Sub(a.M, b.M); err != nil {
			return nil, sutiot.ShapeErrorf(opDelta, &sutiot.LayerError{Layer: l, Err: err})
		}
		if dl.Y, err = matrix.Sub(a.Y, b.Y); err != nil {
			return nil, sutiot.ShapeErrorf(opDelta, &sutiot.LayerError{Layer: l, Err: err})
		}
		x1 := sr.X[l]
		if x1 == nil {
			continue
		}
		if err = matrix.ValidateVecLen(x0[l], len(x1)); err != nil {
			return nil, sutiot.ShapeErrorf(opDelta, &sutiot.LayerError{Layer: l, Err: err})
		}
		dl.X = make([]float64, len(x1))
		for i := range x1 {
			dl.X[i] = x1[i] - x0[l][i]
		}
	}
	if d.R, err = matrix.Sub(t1.R, t0.R); err != nil {
		return nil, sutiot.ShapeErrorf(opDelta+": R", err)
	}
	if d.E, err = matrix.Sub(sr.E, e0); err != nil {
		return nil, sutiot.ShapeErrorf(opDelta+": E", err)
	}

	return d, nil
}
