// SPDX-License-Identifier: MIT

package dataset_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/dataset"
	"github.com/katalvlaran/sutiot/labels"
)

const minimal = `
headers: [sector]
labels:
  prod: [[P1], [P2]]
  ind: [[I1]]
  fd: [[hh]]
layers:
  - use: [[1], [2]]
    supply: [[3, 4]]
`

func TestLoadFile(t *testing.T) {
	ds, err := dataset.LoadFile(filepath.Join("..", "testdata", "economy.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "eurostat", ds.Database)
	assert.Equal(t, "DE", ds.Country)
	assert.Equal(t, 2010, ds.Year)
	assert.Equal(t, labels.Counts{Products: 2, Industries: 2, ValueAdded: 1, Imports: 1, FinalDemand: 1, Exogenous: 1}, ds.Registry.Counts())
	require.Equal(t, 2, ds.SUT.NumLayers())

	assert.Equal(t, []float64{6, 8}, ds.SUT.Layers[1].Use.Row(1))
	assert.Equal(t, [][]float64{{0, 0}}, ds.SUT.Layers[1].VAInd.ToRows(), "omitted matrices are zero")
	assert.Equal(t, [][]float64{{2, 3}}, ds.SUT.ExogInd.ToRows())
	assert.Equal(t, [][]float64{{0, 0}}, ds.SUT.ExogProd.ToRows())
}

func TestLoad_OptionalCategories(t *testing.T) {
	ds, err := dataset.Load(strings.NewReader(minimal))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Registry.ValueAdded.Len())
	assert.Equal(t, 0, ds.SUT.Layers[0].VAProd.Rows())
	assert.Equal(t, 2, ds.SUT.Layers[0].VAProd.Cols())
	assert.Equal(t, 0, ds.SUT.ExogInd.Rows())
	assert.Empty(t, ds.Database)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"unknown key", minimal + "units: EUR\n", sutiot.ErrConfiguration},
		{"unknown category", strings.Replace(minimal, "fd:", "final:", 1), sutiot.ErrConfiguration},
		{"unknown matrix", strings.Replace(minimal, "supply:", "make:", 1), sutiot.ErrConfiguration},
		{"missing final demand", strings.Replace(minimal, "  fd: [[hh]]\n", "", 1), sutiot.ErrConfiguration},
		{"no layers", strings.Split(minimal, "layers:")[0], sutiot.ErrConfiguration},
		{"bad shape", strings.Replace(minimal, "[[3, 4]]", "[[3, 4, 5]]", 1), sutiot.ErrShape},
		{"ragged", strings.Replace(minimal, "[[1], [2]]", "[[1], [2, 2]]", 1), sutiot.ErrShape},
		{"malformed", "headers: [sector\n", sutiot.ErrConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dataset.Load(strings.NewReader(tc.src))
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := dataset.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
