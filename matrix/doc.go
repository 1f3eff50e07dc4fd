// Package matrix provides the dense linear-algebra layer of sutiot.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with error-returning accessors.
//   - Arithmetic kernels (Add, Sub, Mul, MatVec, Scale, Transpose).
//   - Diagonal scaling (ScaleCols = m·diag(v), DivCols = m·diag(v)⁻¹), the
//     two operations behind technical coefficients and their recomposition.
//   - Structural kernels (RowSums, ColSums, HStack, Embed, Slice) used to
//     assemble IOT block matrices.
//   - Group-wise summation (GroupRows, GroupCols), the aggregation primitive.
//   - Inverse, backed by gonum's pivoted LU.
//
// Kernels never mutate their operands (Embed is the single, documented
// exception) and report failures through the sentinels in errors.go.
package matrix
