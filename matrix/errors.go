// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with an operation
// tag via matrixErrorf) and tests match them with errors.Is. No kernel
// panics on user-triggered conditions.

package matrix

import "errors"

// ERROR PRIORITY (enforced in tests):
// nil -> shape/index -> NaN/Inf -> dimension mismatch -> numeric (singular).

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are negative.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be >= 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) return this instead of panicking.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. Add with different shapes, Mul where a.Cols != b.Rows, or a
	// diagonal vector whose length differs from the column count.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil *Dense (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrRagged signals a [][]float64 input whose rows differ in length.
	ErrRagged = errors.New("matrix: ragged rows")

	// ErrSingular is returned when a matrix cannot be inverted: an exact zero
	// pivot after partial pivoting, or a condition number beyond the
	// numerical tolerance.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrZeroDivisor is returned by DivCols when the diagonal holds an exact zero.
	ErrZeroDivisor = errors.New("matrix: zero divisor on diagonal")
)
