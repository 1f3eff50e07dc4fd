// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels used by the
// coefficient engine and the Leontief solver: element-wise addition and
// subtraction, matrix multiplication, matrix-vector products, scaling,
// diagonal scaling of columns and matrix inversion. All functions perform
// strict fail-fast validation and never mutate their operands.
//
// Notes:
//   - Loops run in fixed i→k→j order over the flat row-major buffers, so
//     identical inputs yield bit-identical outputs.
//   - Inverse delegates to gonum's LU with partial pivoting; the IOT block
//     structure regularly places zeros on the diagonal of intermediate
//     factors, which a non-pivoting Doolittle scheme cannot survive.

package matrix

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ZeroSum is the initial accumulator value for dot products.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opMatVec    = "MatVec"
	opScale     = "Scale"
	opScaleCols = "ScaleCols"
	opDivCols   = "DivCols"
	opInverse   = "Inverse"
	opTranspose = "Transpose"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes a + sign*b into a fresh Dense.
func addSub(a, b *Dense, sign float64, opTag string) (*Dense, error) {
	if err := ValidateNotNil(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	out := &Dense{r: a.r, c: a.c, data: make([]float64, len(a.data))}
	for k := range a.data { // single flat pass
		out.data[k] = a.data[k] + sign*b.data[k]
	}

	return out, nil
}

// Add computes the element-wise sum C = A + B.
// Errors: ErrNilMatrix, ErrDimensionMismatch. Complexity: O(rc).
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub computes the element-wise difference C = A - B.
// Errors: ErrNilMatrix, ErrDimensionMismatch. Complexity: O(rc).
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul performs the matrix product C = A × B.
//
// Determinism:
//   - i→k→j loop order; zero a[i,k] short-circuits the inner loop, which
//     keeps the sparse IOT blocks cheap without changing results.
//
// Complexity: O(r*n*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateNotNil(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	r, n, c := a.r, a.c, b.c
	out := &Dense{r: r, c: c, data: make([]float64, r*c)}
	var i, k, j int
	var aik float64
	for i = 0; i < r; i++ {
		rowOut := out.data[i*c : (i+1)*c]
		for k = 0; k < n; k++ {
			aik = a.data[i*n+k]
			if aik == 0 {
				continue
			}
			rowB := b.data[k*c : (k+1)*c]
			for j = 0; j < c; j++ {
				rowOut[j] += aik * rowB[j]
			}
		}
	}

	return out, nil
}

// MatVec computes y = m·x for a column vector x (len(x) == Cols).
// Complexity: O(rc).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)
	var i, j int
	var sum float64
	for i = 0; i < m.r; i++ {
		sum = ZeroSum
		base := i * m.c
		for j = 0; j < m.c; j++ {
			sum += m.data[base+j] * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// Scale returns alpha*m.
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	for k, v := range m.data {
		out.data[k] = alpha * v
	}

	return out, nil
}

// Transpose returns mᵀ.
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	out := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			out.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return out, nil
}

// ScaleCols returns m·diag(v): column j multiplied by v[j].
// Equivalent to Mul(m, NewDiag(v)) in O(rc) instead of O(rc²).
func ScaleCols(m *Dense, v []float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	if err := ValidateVecLen(v, m.c); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	var i, j int
	for i = 0; i < m.r; i++ {
		base := i * m.c
		for j = 0; j < m.c; j++ {
			out.data[base+j] = m.data[base+j] * v[j]
		}
	}

	return out, nil
}

// DivCols returns m·diag(v)⁻¹: column j divided by v[j].
//
// Errors:
//   - ErrZeroDivisor when some v[j] == 0 (diag(v) is singular).
func DivCols(m *Dense, v []float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opDivCols, err)
	}
	if err := ValidateVecLen(v, m.c); err != nil {
		return nil, matrixErrorf(opDivCols, err)
	}
	for j, d := range v {
		if d == 0 {
			return nil, matrixErrorf(opDivCols, fmt.Errorf("column %d: %w", j, ErrZeroDivisor))
		}
	}
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	var i, j int
	for i = 0; i < m.r; i++ {
		base := i * m.c
		for j = 0; j < m.c; j++ {
			out.data[base+j] = m.data[base+j] / v[j]
		}
	}

	return out, nil
}

// Inverse computes m⁻¹ using gonum's LU factorization with partial pivoting.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (non-square).
//   - ErrSingular when the factorization hits an exact zero pivot or the
//     estimated condition number exceeds mat.ConditionTolerance.
//
// Complexity: O(n^3) time, O(n^2) space. The input is never mutated.
func Inverse(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := m.r
	if n == 0 {
		return &Dense{}, nil
	}

	// gonum takes ownership of the slice it is given; hand it a copy.
	buf := make([]float64, len(m.data))
	copy(buf, m.data)
	src := mat.NewDense(n, n, buf)

	var inv mat.Dense
	if err := inv.Inverse(src); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, matrixErrorf(opInverse, fmt.Errorf("condition number %g: %w", float64(cond), ErrSingular))
		}

		return nil, matrixErrorf(opInverse, err)
	}

	out := &Dense{r: n, c: n, data: make([]float64, n*n)}
	raw := inv.RawMatrix()
	var i int
	for i = 0; i < n; i++ {
		copy(out.data[i*n:(i+1)*n], raw.Data[i*raw.Stride:i*raw.Stride+n])
	}
	for _, v := range out.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, matrixErrorf(opInverse, ErrSingular)
		}
	}

	return out, nil
}
