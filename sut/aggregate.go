// SPDX-License-Identifier: MIT

package sut

import (
	"fmt"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/labels"
	"github.com/katalvlaran/sutiot/matrix"
)

const (
	opAggregate     = "sut.Aggregate"
	opAggregateRect = "sut.AggregateRect"
)

// Aggregate collapses b (labelled by reg) to level lv: every sub-matrix has
// its rows and its columns grouped by lv and summed within each group.
// The coarse registry is returned alongside the new bundle.
//
// Errors:
//   - sutiot.ErrConfiguration for an invalid registry or level.
//   - sutiot.ErrShape when b does not match reg.
func Aggregate(b *Bundle, reg *labels.Registry, lv labels.Level) (*Bundle, *labels.Registry, error) {
	g, err := reg.Group(lv)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opAggregate, err)
	}
	if err = b.Validate(reg.Counts(), b.NumLayers()); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opAggregate, err)
	}
	out, err := regroup(b, g, g)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opAggregate, err)
	}

	return out, g.Registry(), nil
}

// AggregateRect is the two-level variant used by rectangularization: rows
// of every sub-matrix are grouped by rowLevel, columns by colLevel. The
// returned registries describe the row side and the column side.
//
// Errors: as Aggregate.
func AggregateRect(b *Bundle, reg *labels.Registry, rowLevel, colLevel labels.Level) (*Bundle, *labels.Registry, *labels.Registry, error) {
	rg, err := reg.Group(rowLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: rows: %w", opAggregateRect, err)
	}
	cg, err := reg.Group(colLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: cols: %w", opAggregateRect, err)
	}
	if err = b.Validate(reg.Counts(), b.NumLayers()); err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", opAggregateRect, err)
	}
	out, err := regroup(b, rg, cg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", opAggregateRect, err)
	}

	return out, rg.Registry(), cg.Registry(), nil
}

// regroup applies the row groupings to every row axis and the column
// groupings to every column axis. Layers are independent.
func regroup(b *Bundle, rows, cols *labels.Groupings) (*Bundle, error) {
	out := &Bundle{Layers: make([]Layer, len(b.Layers))}
	for l := range b.Layers {
		for _, f := range layerFields {
			m, err := group2(f.get(&b.Layers[l]), rows.Of(f.Rows), cols.Of(f.Cols))
			if err != nil {
				return nil, sutiot.ShapeErrorf(fmt.Sprintf("layer %d %s", l, f.Name), err)
			}
			f.set(&out.Layers[l], m)
		}
	}
	for _, f := range sharedFields {
		m, err := group2(f.get(b), rows.Of(f.Rows), cols.Of(f.Cols))
		if err != nil {
			return nil, sutiot.ShapeErrorf(f.Name, err)
		}
		f.set(out, m)
	}

	return out, nil
}

// group2 sums m by row groups, then by column groups.
func group2(m *matrix.Dense, rows, cols *labels.Grouping) (*matrix.Dense, error) {
	byRow, err := matrix.GroupRows(m, rows.Of, rows.Len())
	if err != nil {
		return nil, err
	}

	return matrix.GroupCols(byRow, cols.Of, cols.Len())
}
