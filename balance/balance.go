// SPDX-License-Identifier: MIT

// Package balance computes production (x) and outlay (xT) vectors of every
// layer of an IOT table and flags rows whose relative gap exceeds a
// tolerance.
//
//	x[l][i]  = Σ_j Z[l][i,j] + Σ_k Y[l][i,k]
//	xT[l][j] = Σ_i Z[l][i,j] + Σ_v W[l][v,j] + Σ_m M[l][m,j]
//
// Any entry exactly equal to 0 is replaced by 1 (zero-floor) so that the
// vectors can divide downstream. The floor also hides sectors with no
// output at all; every substitution is listed in Report.Floored.
//
// The check is diagnostic: unbalances never produce an error.
package balance

import (
	"fmt"
	"math"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/iot"
	"github.com/katalvlaran/sutiot/matrix"
)

const opCheck = "balance.Check"

// Floor is the value substituted for an exact zero output or outlay.
const Floor = 1.0

// Unbalance records a row whose relative gap exceeds the tolerance.
type Unbalance struct {
	Layer int
	Row   int
	Gap   float64 // |x−xT| / x
}

// Floored records one zero-floor substitution.
type Floored struct {
	Layer  int
	Index  int
	Outlay bool // true for xT, false for x
}

// Report is the outcome of Check. X and XT are already floored.
type Report struct {
	X          [][]float64
	XT         [][]float64
	Unbalances []Unbalance
	Floored    []Floored
	Tolerance  float64
	Source     Source
}

// Balanced reports whether no row exceeded the tolerance.
func (r *Report) Balanced() bool { return len(r.Unbalances) == 0 }

// Check computes x and xT for every layer of t, applies the zero-floor and
// records unbalanced rows.
//
// With Source Other, layers ≥ 1 only sum the product entries: x over the
// product rows, xT over the product columns. The industry entries of those
// layers stay 0 and are floored.
//
// Errors:
//   - sutiot.ErrShape for a nil or non-square table.
func Check(t *iot.Table, opts ...Option) (*Report, error) {
	o := gatherOptions(opts...)
	if t == nil || t.NumLayers() == 0 {
		return nil, sutiot.ShapeErrorf(opCheck, matrix.ErrNilMatrix)
	}
	if !t.Dims.Square() {
		return nil, sutiot.ShapeErrorf(opCheck, fmt.Errorf("rectangular table %dx%d: %w", t.Dims.Rows(), t.Dims.Cols(), matrix.ErrDimensionMismatch))
	}

	rep := &Report{
		X:         make([][]float64, t.NumLayers()),
		XT:        make([][]float64, t.NumLayers()),
		Tolerance: o.tol,
		Source:    o.source,
	}
	for l := range t.Layers {
		limit := t.Dims.Rows()
		if o.source == Other && l > 0 {
			limit = t.Dims.RowProducts
		}
		x, err := production(&t.Layers[l], limit)
		if err != nil {
			return nil, sutiot.ShapeErrorf(opCheck, &sutiot.LayerError{Layer: l, Err: err})
		}
		xt, err := outlay(&t.Layers[l], limit)
		if err != nil {
			return nil, sutiot.ShapeErrorf(opCheck, &sutiot.LayerError{Layer: l, Err: err})
		}
		for i := range x {
			if x[i] == 0 {
				x[i] = Floor
				rep.Floored = append(rep.Floored, Floored{Layer: l, Index: i})
			}
		}
		for j := range xt {
			if xt[j] == 0 {
				xt[j] = Floor
				rep.Floored = append(rep.Floored, Floored{Layer: l, Index: j, Outlay: true})
			}
		}
		rep.X[l], rep.XT[l] = x, xt
	}
	rep.Unbalances = FindUnbalances(rep.X, rep.XT, o.tol)

	return rep, nil
}

// production returns rowsum(Z)+rowsum(Y) for the first limit rows; the
// remaining entries are 0.
func production(lay *iot.Layer, limit int) ([]float64, error) {
	rz, err := matrix.RowSums(lay.Z)
	if err != nil {
		return nil, err
	}
	ry, err := matrix.RowSums(lay.Y)
	if err != nil {
		return nil, err
	}
	if len(ry) != len(rz) {
		return nil, fmt.Errorf("Y has %d rows, Z has %d: %w", len(ry), len(rz), matrix.ErrDimensionMismatch)
	}
	x := make([]float64, len(rz))
	for i := 0; i < limit; i++ {
		x[i] = rz[i] + ry[i]
	}

	return x, nil
}

// outlay returns colsum(Z)+colsum(W)+colsum(M) for the first limit columns;
// the remaining entries are 0.
func outlay(lay *iot.Layer, limit int) ([]float64, error) {
	cz, err := matrix.ColSums(lay.Z)
	if err != nil {
		return nil, err
	}
	cw, err := matrix.ColSums(lay.W)
	if err != nil {
		return nil, err
	}
	cm, err := matrix.ColSums(lay.M)
	if err != nil {
		return nil, err
	}
	if len(cw) != len(cz) || len(cm) != len(cz) {
		return nil, fmt.Errorf("W/M columns %d/%d, Z has %d: %w", len(cw), len(cm), len(cz), matrix.ErrDimensionMismatch)
	}
	xt := make([]float64, len(cz))
	for j := 0; j < limit; j++ {
		xt[j] = cz[j] + cw[j] + cm[j]
	}

	return xt, nil
}

// FindUnbalances returns every (layer, row) whose relative gap
// |x−xT|/x is strictly greater than tol, in layer then row order.
// x must be floored (no zero entries); rows beyond len(xT[l]) are ignored.
func FindUnbalances(x, xT [][]float64, tol float64) []Unbalance {
	var out []Unbalance
	for l := range x {
		if l >= len(xT) {
			break
		}
		n := min(len(x[l]), len(xT[l]))
		for i := 0; i < n; i++ {
			gap := math.Abs(x[l][i]-xT[l][i]) / x[l][i]
			if gap > tol {
				out = append(out, Unbalance{Layer: l, Row: i, Gap: gap})
			}
		}
	}

	return out
}
