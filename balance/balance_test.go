// SPDX-License-Identifier: MIT

package balance_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/balance"
	"github.com/katalvlaran/sutiot/iot"
	"github.com/katalvlaran/sutiot/matrix"
	"github.com/katalvlaran/sutiot/sut"
)

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

// economy builds the 2-product, 2-industry example; extra layers copy
// layer 0 scaled by their index.
func economy(t *testing.T, nL int) *iot.Table {
	t.Helper()
	b := &sut.Bundle{
		ExogProd: matrix.MustDense(0, 2),
		ExogInd:  matrix.MustDense(0, 2),
	}
	for l := 0; l < nL; l++ {
		k := float64(l + 1)
		b.Layers = append(b.Layers, sut.Layer{
			Use:     mustRows(t, [][]float64{{1 * k, 2 * k}, {3 * k, 4 * k}}),
			Supply:  mustRows(t, [][]float64{{5 * k, 0}, {0, 5 * k}}),
			Margins: matrix.MustDense(2, 2),
			VAProd:  matrix.MustDense(0, 2),
			VAInd:   matrix.MustDense(0, 2),
			ImpProd: matrix.MustDense(0, 2),
			ImpInd:  matrix.MustDense(0, 2),
			FDProd:  mustRows(t, [][]float64{{1 * k}, {1 * k}}),
		})
	}
	tbl, err := iot.Reshape(b)
	require.NoError(t, err)

	return tbl
}

func TestFindUnbalances_Boundary(t *testing.T) {
	x := [][]float64{{10, 10}}
	xT := [][]float64{{10.4, 9}}

	got := balance.FindUnbalances(x, xT, 0.05)
	require.Len(t, got, 1, "4%% gap stays within 5%%, 10%% does not")
	assert.Equal(t, 0, got[0].Layer)
	assert.Equal(t, 1, got[0].Row)
	assert.InDelta(t, 0.10, got[0].Gap, 1e-12)

	assert.Empty(t, balance.FindUnbalances(x, xT, 0.10), "gap equal to tolerance is not flagged")
	assert.Len(t, balance.FindUnbalances(x, xT, 0.01), 2)
}

func TestCheck_ExampleEconomy(t *testing.T) {
	rep, err := balance.Check(economy(t, 1))
	require.NoError(t, err)

	assert.Equal(t, []float64{4, 8, 5, 5}, rep.X[0])
	// Column sums of Z: products receive supply, industries pay use.
	assert.Equal(t, []float64{5, 5, 4, 6}, rep.XT[0])
	assert.Equal(t, balance.DefaultTolerance, rep.Tolerance)
	assert.Equal(t, balance.Eurostat, rep.Source)
	assert.Empty(t, rep.Floored)
	assert.False(t, rep.Balanced())

	rows := make([]int, len(rep.Unbalances))
	for i, u := range rep.Unbalances {
		rows[i] = u.Row
	}
	assert.Equal(t, []int{0, 1, 2, 3}, rows)
}

func TestCheck_ZeroFloor(t *testing.T) {
	tbl := economy(t, 1)
	// Wipe product P2: its row and its supply column.
	z := tbl.Layers[0].Z
	for j := 0; j < 4; j++ {
		require.NoError(t, z.Set(1, j, 0))
		require.NoError(t, z.Set(j, 1, 0))
	}
	require.NoError(t, tbl.Layers[0].Y.Set(1, 0, 0))

	rep, err := balance.Check(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rep.X[0][1])
	assert.Equal(t, 1.0, rep.XT[0][1])
	assert.Contains(t, rep.Floored, balance.Floored{Layer: 0, Index: 1})
	assert.Contains(t, rep.Floored, balance.Floored{Layer: 0, Index: 1, Outlay: true})
	for _, row := range rep.X {
		for _, v := range row {
			assert.NotZero(t, v)
		}
	}
}

func TestCheck_Source(t *testing.T) {
	tbl := economy(t, 2)

	eu, err := balance.Check(tbl, balance.WithSource(balance.Eurostat))
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 16, 10, 10}, eu.X[1])

	other, err := balance.Check(tbl, balance.WithSource(balance.Other))
	require.NoError(t, err)
	assert.Equal(t, eu.X[0], other.X[0], "layer 0 always sums full rows")
	assert.Equal(t, []float64{8, 16, 1, 1}, other.X[1], "industry entries are floored")
	assert.Equal(t, []float64{10, 10, 1, 1}, other.XT[1])
	assert.Contains(t, other.Floored, balance.Floored{Layer: 1, Index: 3})
}

func TestCheck_Errors(t *testing.T) {
	_, err := balance.Check(nil)
	assert.ErrorIs(t, err, sutiot.ErrShape)

	tbl := economy(t, 1)
	tbl.Dims.RowProducts = 3
	_, err = balance.Check(tbl)
	assert.ErrorIs(t, err, sutiot.ErrShape)

	tbl = economy(t, 1)
	tbl.Layers[0].Y = matrix.MustDense(3, 1)
	_, err = balance.Check(tbl)
	assert.ErrorIs(t, err, sutiot.ErrShape)
	var le *sutiot.LayerError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 0, le.Layer)
}

func TestOptions(t *testing.T) {
	assert.Panics(t, func() { balance.WithTolerance(-0.1) })
	assert.Panics(t, func() { balance.WithTolerance(math.NaN()) })
	assert.Panics(t, func() { balance.WithSource(balance.Source(9)) })

	for _, tc := range []struct {
		in   string
		want balance.Source
	}{
		{"", balance.Eurostat},
		{"Eurostat", balance.Eurostat},
		{" other ", balance.Other},
	} {
		got, err := balance.ParseSource(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
	_, err := balance.ParseSource("oecd")
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)
}

func ExampleFindUnbalances() {
	x := [][]float64{{10, 10}}
	xT := [][]float64{{10.4, 9}}
	for _, u := range balance.FindUnbalances(x, xT, 0.05) {
		fmt.Printf("layer %d row %d gap %.2f\n", u.Layer, u.Row, u.Gap)
	}
	// Output:
	// layer 0 row 1 gap 0.10
}
