// SPDX-License-Identifier: MIT

// Package leontief - shock analysis on a coefficient bundle.
//
// States:
//
//	Baseline (A₀,w₀,m₀,B₀,Y₀) → Perturbed (+Δ) → Resolved (invert, propagate)
//	→ Recomposed (absolute matrices)
//
// Resolved:
//   - L[l] = (I − A₁[l])⁻¹ for each layer independently.
//   - Y_tot₁[l] = rowsum(Y₁[l]); x₁[l] = L[l]·Y_tot₁[l].
//
// Impact model, on layer 0 only:
//   - R₁ = B₁·diag(L[0]·Y_tot₁[0])     direct, production-based.
//   - E₁ = B₁·L[0]·diag(Y_tot₁[0])     embodied, consumption-based.
//
// Recomposed: Z₁[l] = A₁[l]·diag(x₁[0]), same for W₁, M₁.
//
// Determinism:
//   - Layers may be inverted concurrently; each writes only its own slot,
//     so results do not depend on scheduling.
package leontief

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/coeff"
	"github.com/katalvlaran/sutiot/iot"
	"github.com/katalvlaran/sutiot/matrix"
)

const (
	opInverse  = "leontief.Inverse"
	opSolve    = "leontief.Solve"
	opEmbodied = "leontief.Embodied"
)

// Result is the outcome of Solve.
type Result struct {
	Coefficients *coeff.Bundle   // perturbed coefficients
	L            []*matrix.Dense // Leontief inverse per layer; nil when skipped
	YTot         [][]float64     // total final demand per layer
	X            [][]float64     // x₁ per layer; nil when skipped
	R            *matrix.Dense   // direct exogenous flows
	E            *matrix.Dense   // embodied exogenous flows
	Table        *iot.Table      // recomposed absolute matrices
	Skipped      []int           // singular layers tolerated by WithSkipSingular
}

// Inverse returns (I − A)⁻¹.
//
// Errors:
//   - sutiot.ErrShape for a nil or non-square A.
//   - sutiot.ErrSingularMatrix when I − A cannot be inverted; the kernel's
//     matrix.ErrSingular stays reachable too.
func Inverse(a *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, sutiot.ShapeErrorf(opInverse, err)
	}
	if err := matrix.ValidateSquare(a); err != nil {
		return nil, sutiot.ShapeErrorf(opInverse, err)
	}
	id, err := matrix.NewIdentity(a.Rows())
	if err != nil {
		return nil, sutiot.ShapeErrorf(opInverse, err)
	}
	ia, err := matrix.Sub(id, a)
	if err != nil {
		return nil, sutiot.ShapeErrorf(opInverse, err)
	}
	inv, err := matrix.Inverse(ia)
	if err != nil {
		if errors.Is(err, matrix.ErrSingular) {
			return nil, fmt.Errorf("%s: %w: %w", opInverse, sutiot.ErrSingularMatrix, err)
		}

		return nil, fmt.Errorf("%s: %w", opInverse, err)
	}

	return inv, nil
}

// Solve applies d to base and runs the production, impact and
// recomposition models. A nil d solves the unperturbed baseline.
//
// Errors:
//   - sutiot.ErrShape from Perturb.
//   - *sutiot.LayerError wrapping sutiot.ErrSingularMatrix for a singular
//     layer (layer 0 always; others unless WithSkipSingular).
//   - ctx.Err() when ctx is cancelled before all layers are inverted.
func Solve(ctx context.Context, base *coeff.Bundle, d *Delta, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	pert, err := Perturb(base, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}

	nL := pert.NumLayers()
	res := &Result{
		Coefficients: pert,
		L:            make([]*matrix.Dense, nL),
		YTot:         make([][]float64, nL),
		X:            make([][]float64, nL),
	}
	for l := range pert.Layers {
		if res.YTot[l], err = matrix.RowSums(pert.Layers[l].Y); err != nil {
			return nil, sutiot.ShapeErrorf(opSolve, &sutiot.LayerError{Layer: l, Err: err})
		}
	}

	// Stage 1: per-layer Leontief inverses and production vectors.
	var (
		mu      sync.Mutex
		skipped []int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for l := 0; l < nL; l++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inv, err := Inverse(pert.Layers[l].A)
			if err != nil {
				if l > 0 && o.skipSingular && errors.Is(err, sutiot.ErrSingularMatrix) {
					mu.Lock()
					skipped = append(skipped, l)
					mu.Unlock()
					return nil
				}

				return &sutiot.LayerError{Layer: l, Err: err}
			}
			x, err := matrix.MatVec(inv, res.YTot[l])
			if err != nil {
				return sutiot.ShapeErrorf(opSolve, &sutiot.LayerError{Layer: l, Err: err})
			}
			res.L[l], res.X[l] = inv, x

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}
	slices.Sort(skipped)
	res.Skipped = skipped

	// Stage 2: impact model on the economic layer.
	if res.E, err = embodied(pert.B, res.L[0], res.YTot[0]); err != nil {
		return nil, sutiot.ShapeErrorf(opSolve, err)
	}

	// Stage 3: recomposition with x₁[0]; this also yields R₁ = B₁·diag(x₁[0]).
	if res.Table, err = coeff.Recompose(pert, res.X[0]); err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}
	res.R = res.Table.R

	return res, nil
}

// Embodied returns the baseline embodied exogenous matrix
// E₀ = B₀·L₀·diag(Y_tot₀).
//
// Errors:
//   - sutiot.ErrShape for a malformed bundle.
//   - *sutiot.LayerError{Layer: 0} wrapping sutiot.ErrSingularMatrix.
func Embodied(base *coeff.Bundle) (*matrix.Dense, error) {
	if base.NumLayers() == 0 || base.B == nil {
		return nil, sutiot.ShapeErrorf(opEmbodied, matrix.ErrNilMatrix)
	}
	l0, err := Inverse(base.Layers[0].A)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opEmbodied, &sutiot.LayerError{Layer: 0, Err: err})
	}
	yTot, err := matrix.RowSums(base.Layers[0].Y)
	if err != nil {
		return nil, sutiot.ShapeErrorf(opEmbodied, err)
	}
	e, err := embodied(base.B, l0, yTot)
	if err != nil {
		return nil, sutiot.ShapeErrorf(opEmbodied, err)
	}

	return e, nil
}

// embodied computes B·L·diag(yTot).
func embodied(b, l *matrix.Dense, yTot []float64) (*matrix.Dense, error) {
	bl, err := matrix.Mul(b, l)
	if err != nil {
		return nil, err
	}

	return matrix.ScaleCols(bl, yTot)
}
