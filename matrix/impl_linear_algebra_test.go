// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sutiot/matrix"
)

func TestAddSub(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{10, 20}, {30, 40}})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{11, 22}, {33, 44}}, sum.ToRows())

	diff, err := matrix.Sub(b, a)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{9, 18}, {27, 36}}, diff.ToRows())

	_, err = matrix.Add(a, matrix.MustDense(2, 3))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Sub(nil, a)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMul(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := mustRows(t, [][]float64{{7, 8}, {9, 10}, {11, 12}})

	c, err := matrix.Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{58, 64}, {139, 154}}, c.ToRows())

	_, err = matrix.Mul(a, a)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestMatVec(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	y, err := matrix.MatVec(m, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 7}, y)

	_, err = matrix.MatVec(m, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestScaleTranspose(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2, 3}})
	s, err := matrix.Scale(m, -2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-2, -4, -6}}, s.ToRows())

	tr, err := matrix.Transpose(m)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {2}, {3}}, tr.ToRows())
}

func TestScaleColsDivCols_RoundTrip(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	v := []float64{4, 8}

	div, err := matrix.DivCols(m, v)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.25, 0.25}, {0.75, 0.5}}, div.ToRows())

	back, err := matrix.ScaleCols(div, v)
	require.NoError(t, err)
	ok, err := matrix.AllClose(back, m, 1e-12)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = matrix.DivCols(m, []float64{1, 0})
	assert.ErrorIs(t, err, matrix.ErrZeroDivisor)
	_, err = matrix.ScaleCols(m, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestInverse(t *testing.T) {
	t.Run("regular", func(t *testing.T) {
		m := mustRows(t, [][]float64{{4, 7}, {2, 6}})
		inv, err := matrix.Inverse(m)
		require.NoError(t, err)
		want := mustRows(t, [][]float64{{0.6, -0.7}, {-0.2, 0.4}})
		ok, err := matrix.AllClose(inv, want, 1e-12)
		require.NoError(t, err)
		assert.True(t, ok, "got\n%v", inv)
	})

	t.Run("zero diagonal needs pivoting", func(t *testing.T) {
		m := mustRows(t, [][]float64{{0, 1}, {1, 0}})
		inv, err := matrix.Inverse(m)
		require.NoError(t, err)
		ok, err := matrix.AllClose(inv, m, 1e-12)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("identity is exact", func(t *testing.T) {
		id, err := matrix.NewIdentity(4)
		require.NoError(t, err)
		inv, err := matrix.Inverse(id)
		require.NoError(t, err)
		assert.True(t, matrix.Equal(inv, id))
	})

	t.Run("singular", func(t *testing.T) {
		for _, rows := range [][][]float64{
			{{1, 2}, {2, 4}},
			{{0, 0}, {0, 1}},
		} {
			_, err := matrix.Inverse(mustRows(t, rows))
			assert.ErrorIs(t, err, matrix.ErrSingular)
		}
	})

	t.Run("input untouched", func(t *testing.T) {
		m := mustRows(t, [][]float64{{2, 1}, {1, 3}})
		before := m.Clone()
		_, err := matrix.Inverse(m)
		require.NoError(t, err)
		assert.True(t, matrix.Equal(m, before))
	})

	t.Run("shape errors", func(t *testing.T) {
		_, err := matrix.Inverse(matrix.MustDense(2, 3))
		assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
		_, err = matrix.Inverse(nil)
		assert.ErrorIs(t, err, matrix.ErrNilMatrix)
		empty, err := matrix.Inverse(matrix.MustDense(0, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, empty.Rows())
	})
}
