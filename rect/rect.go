// SPDX-License-Identifier: MIT

// Package rect remaps a table computed at aggregation level G onto a
// different partition R of its rows, for choice-of-technology models.
//
// Rows of every matrix follow level R, columns keep level G, so Z and A
// are rectangular in general. Coefficients are normalized by the column
// side's economic output x_G[0], exactly as the square table at G is.
// When R equals G the result coincides with the square pipeline.
package rect

import (
	"fmt"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/balance"
	"github.com/katalvlaran/sutiot/coeff"
	"github.com/katalvlaran/sutiot/iot"
	"github.com/katalvlaran/sutiot/labels"
	"github.com/katalvlaran/sutiot/matrix"
	"github.com/katalvlaran/sutiot/sut"
)

const opRectangularize = "rect.Rectangularize"

// Result is a rectangularized table with its coefficients. Rows and Cols
// label the row side (level R) and the column side (level G).
type Result struct {
	Rows         *labels.Registry
	Cols         *labels.Registry
	Table        *iot.Table
	Coefficients *coeff.Bundle
}

// RowIndex returns the products++industries labels of the row side.
func (r *Result) RowIndex() []labels.Label { return iot.Index(r.Rows) }

// ColIndex returns the products++industries labels of the column side.
func (r *Result) ColIndex() []labels.Label { return iot.Index(r.Cols) }

// Rectangularize groups raw (labelled by reg) with rows at rowLevel and
// columns at colLevel, reshapes it and derives coefficients with base.X[0],
// the floored layer-0 production vector of the square table at colLevel.
//
// Errors:
//   - sutiot.ErrConfiguration for an invalid registry or level.
//   - sutiot.ErrShape when raw does not match reg or base does not match
//     the column side.
func Rectangularize(raw *sut.Bundle, reg *labels.Registry, rowLevel, colLevel labels.Level, base *balance.Report) (*Result, error) {
	if base == nil || len(base.X) == 0 {
		return nil, sutiot.ShapeErrorf(opRectangularize, fmt.Errorf("missing baseline production vector: %w", matrix.ErrNilMatrix))
	}
	agg, rows, cols, err := sut.AggregateRect(raw, reg, rowLevel, colLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRectangularize, err)
	}
	t, err := iot.ReshapeRect(agg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRectangularize, err)
	}
	c, err := coeff.DeriveRect(t, base.X[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRectangularize, err)
	}

	return &Result{Rows: rows, Cols: cols, Table: t, Coefficients: c}, nil
}
