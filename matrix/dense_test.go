// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sutiot/matrix"
)

// mustRows builds a Dense from literal rows or fails the test.
func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

func TestNewDense_Shapes(t *testing.T) {
	for _, tc := range []struct {
		name       string
		rows, cols int
		wantErr    error
	}{
		{"square", 3, 3, nil},
		{"empty rows", 0, 4, nil},
		{"empty cols", 4, 0, nil},
		{"negative rows", -1, 2, matrix.ErrInvalidDimensions},
		{"negative cols", 2, -1, matrix.ErrInvalidDimensions},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, err := matrix.NewDense(tc.rows, tc.cols)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			r, c := m.Shape()
			assert.Equal(t, tc.rows, r)
			assert.Equal(t, tc.cols, c)
		})
	}
}

func TestMustDense_PanicsOnNegative(t *testing.T) {
	assert.Panics(t, func() { matrix.MustDense(-1, 1) })
}

func TestNewFromRows(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, m.ToRows())

	_, err = matrix.NewFromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, matrix.ErrRagged)

	_, err = matrix.NewFromRows([][]float64{{1, math.NaN()}})
	assert.ErrorIs(t, err, matrix.ErrNaNInf)

	empty, err := matrix.NewFromRows(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Rows())
}

func TestDense_AtSet(t *testing.T) {
	m := matrix.MustDense(2, 2)
	require.NoError(t, m.Set(0, 1, 2.5))
	v, err := m.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	var nilM *matrix.Dense
	_, err = nilM.At(0, 0)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
	assert.Equal(t, 0, nilM.Rows())
	assert.Equal(t, "<nil>", nilM.String())
}

func TestDense_CloneIsDeep(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9))
	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v, "clone must not alias the source")
	assert.Nil(t, (*matrix.Dense)(nil).Clone())
}

func TestIdentityAndDiag(t *testing.T) {
	id, err := matrix.NewIdentity(3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, id.ToRows())

	d := matrix.NewDiag([]float64{2, 3})
	assert.Equal(t, [][]float64{{2, 0}, {0, 3}}, d.ToRows())
	assert.Equal(t, "[2, 0]\n[0, 3]\n", d.String())
}

func TestDense_Row(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	assert.Equal(t, []float64{3, 4}, m.Row(1))
	assert.Nil(t, m.Row(2))
}
