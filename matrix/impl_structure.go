// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Structural kernels: row/column sums, horizontal stacking, block
//     embedding and extraction, and group-wise summation of rows/columns.
//   - Group-wise summation is the aggregation primitive: every fine row
//     (column) carries the index of its coarse group, and the kernel adds
//     it into that group's row (column) of a fresh output.
//
// Determinism:
//   - Fixed i→j loops; group sums accumulate in ascending fine index, so
//     results do not depend on anything but the inputs.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const (
	opRowSums   = "RowSums"
	opColSums   = "ColSums"
	opHStack    = "HStack"
	opEmbed     = "Embed"
	opSlice     = "Slice"
	opGroupRows = "GroupRows"
	opGroupCols = "GroupCols"
	opAllClose  = "AllClose"
)

// RowSums returns r where r[i] = Σ_j m[i,j].
func RowSums(m *Dense) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = floats.Sum(m.data[i*m.c : (i+1)*m.c])
	}

	return out, nil
}

// ColSums returns c where c[j] = Σ_i m[i,j].
func ColSums(m *Dense) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	out := make([]float64, m.c)
	for i := 0; i < m.r; i++ {
		floats.Add(out, m.data[i*m.c:(i+1)*m.c])
	}

	return out, nil
}

// HStack concatenates matrices left to right: [a | b | ...].
// All operands must share the row count.
func HStack(ms ...*Dense) (*Dense, error) {
	if err := ValidateNotNil(ms...); err != nil {
		return nil, matrixErrorf(opHStack, err)
	}
	if len(ms) == 0 {
		return &Dense{}, nil
	}
	r, c := ms[0].r, 0
	for k, m := range ms {
		if m.r != r {
			return nil, matrixErrorf(opHStack, fmt.Errorf("operand %d has %d rows, want %d: %w", k, m.r, r, ErrDimensionMismatch))
		}
		c += m.c
	}
	out := &Dense{r: r, c: c, data: make([]float64, r*c)}
	off := 0
	for _, m := range ms {
		for i := 0; i < r; i++ {
			copy(out.data[i*c+off:i*c+off+m.c], m.data[i*m.c:(i+1)*m.c])
		}
		off += m.c
	}

	return out, nil
}

// Embed writes block into dst with its top-left corner at (row0, col0).
// dst is mutated; callers use it only on matrices they just allocated.
//
// Errors:
//   - ErrOutOfRange when the block does not fit.
func Embed(dst, block *Dense, row0, col0 int) error {
	if err := ValidateNotNil(dst, block); err != nil {
		return matrixErrorf(opEmbed, err)
	}
	if row0 < 0 || col0 < 0 || row0+block.r > dst.r || col0+block.c > dst.c {
		return matrixErrorf(opEmbed, fmt.Errorf("%dx%d block at (%d,%d) in %dx%d: %w",
			block.r, block.c, row0, col0, dst.r, dst.c, ErrOutOfRange))
	}
	for i := 0; i < block.r; i++ {
		base := (row0+i)*dst.c + col0
		copy(dst.data[base:base+block.c], block.data[i*block.c:(i+1)*block.c])
	}

	return nil
}

// Slice copies the h×w block starting at (row0, col0) into a fresh Dense.
func Slice(m *Dense, row0, col0, h, w int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSlice, err)
	}
	if row0 < 0 || col0 < 0 || h < 0 || w < 0 || row0+h > m.r || col0+w > m.c {
		return nil, matrixErrorf(opSlice, fmt.Errorf("%dx%d block at (%d,%d) in %dx%d: %w",
			h, w, row0, col0, m.r, m.c, ErrOutOfRange))
	}
	out := &Dense{r: h, c: w, data: make([]float64, h*w)}
	for i := 0; i < h; i++ {
		base := (row0+i)*m.c + col0
		copy(out.data[i*w:(i+1)*w], m.data[base:base+w])
	}

	return out, nil
}

// validateGroups checks that groups has one entry per fine index and that
// each entry addresses one of n coarse groups.
func validateGroups(groups []int, fine, n int) error {
	if len(groups) != fine {
		return fmt.Errorf("group map has %d entries, want %d: %w", len(groups), fine, ErrDimensionMismatch)
	}
	for i, g := range groups {
		if g < 0 || g >= n {
			return fmt.Errorf("fine index %d mapped to group %d of %d: %w", i, g, n, ErrOutOfRange)
		}
	}

	return nil
}

// GroupRows returns an n×Cols matrix whose row g is the sum of every row i
// of m with groups[i] == g.
func GroupRows(m *Dense, groups []int, n int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opGroupRows, err)
	}
	if err := validateGroups(groups, m.r, n); err != nil {
		return nil, matrixErrorf(opGroupRows, err)
	}
	out := &Dense{r: n, c: m.c, data: make([]float64, n*m.c)}
	for i, g := range groups {
		floats.Add(out.data[g*m.c:(g+1)*m.c], m.data[i*m.c:(i+1)*m.c])
	}

	return out, nil
}

// GroupCols returns a Rows×n matrix whose column g is the sum of every
// column j of m with groups[j] == g.
func GroupCols(m *Dense, groups []int, n int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opGroupCols, err)
	}
	if err := validateGroups(groups, m.c, n); err != nil {
		return nil, matrixErrorf(opGroupCols, err)
	}
	out := &Dense{r: m.r, c: n, data: make([]float64, m.r*n)}
	var i int
	for i = 0; i < m.r; i++ {
		src := m.data[i*m.c : (i+1)*m.c]
		dst := out.data[i*n : (i+1)*n]
		for j, g := range groups {
			dst[g] += src[j]
		}
	}

	return out, nil
}

// Equal reports whether a and b have the same shape and bit-identical values.
func Equal(a, b *Dense) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.r != b.r || a.c != b.c {
		return false
	}

	return floats.Equal(a.data, b.data)
}

// AllClose reports whether a and b share a shape and every pair of
// elements agrees within tol, absolutely or relatively.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
func AllClose(a, b *Dense, tol float64) (bool, error) {
	if err := ValidateNotNil(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	return floats.EqualApprox(a.data, b.data, tol), nil
}
