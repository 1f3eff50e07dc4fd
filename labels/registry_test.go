// SPDX-License-Identifier: MIT

package labels_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/labels"
)

func newRegistry(t *testing.T) *labels.Registry {
	t.Helper()
	reg, err := labels.NewRegistry(headers, map[labels.Category][]labels.Label{
		labels.Products:    {{"DE", "G1", "P1"}, {"DE", "G1", "P2"}, {"DE", "G2", "P3"}},
		labels.Industries:  {{"DE", "G1", "I1"}, {"DE", "G2", "I2"}},
		labels.ValueAdded:  {{"DE", "VA", "wages"}},
		labels.FinalDemand: {{"DE", "FD", "households"}, {"DE", "FD", "exports"}},
	})
	require.NoError(t, err)

	return reg
}

func TestNewRegistry(t *testing.T) {
	reg := newRegistry(t)
	assert.Equal(t, labels.Counts{Products: 3, Industries: 2, ValueAdded: 1, FinalDemand: 2}, reg.Counts())
	assert.Equal(t, 0, reg.Imports.Len(), "absent categories are empty, not nil")
	assert.NotNil(t, reg.Imports)
}

func TestRegistryValidate(t *testing.T) {
	_, err := labels.NewRegistry(headers, map[labels.Category][]labels.Label{
		labels.Products:   {{"DE", "G1", "P1"}},
		labels.Industries: {{"DE", "G1", "I1"}},
	})
	assert.ErrorIs(t, err, sutiot.ErrConfiguration, "final demand is required")

	var nilReg *labels.Registry
	assert.ErrorIs(t, nilReg.Validate(), sutiot.ErrConfiguration)

	reg := newRegistry(t)
	reg.Exogenous = nil
	assert.ErrorIs(t, reg.Validate(), sutiot.ErrConfiguration)

	reg = newRegistry(t)
	reg.Products.Headers = []string{"x", "y", "z"}
	assert.ErrorIs(t, reg.Validate(), sutiot.ErrConfiguration)
}

func TestRegistryAggregate(t *testing.T) {
	reg := newRegistry(t)
	lv, err := labels.ParseLevel(reg.Headers, "group")
	require.NoError(t, err)

	agg, err := reg.Aggregate(lv)
	require.NoError(t, err)
	assert.Equal(t, []string{"group"}, agg.Headers)
	assert.Equal(t, []string{"G1", "G2"}, agg.Products.Strings())
	assert.Equal(t, []string{"G1", "G2"}, agg.Industries.Strings())
	assert.Equal(t, []string{"FD"}, agg.FinalDemand.Strings())
	assert.NoError(t, agg.Validate())

	g, err := reg.Group(lv)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1}, g.Of(labels.Products).Of)

	_, err = reg.Group(labels.Level{7})
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)
}

func TestCategoryNames(t *testing.T) {
	for _, c := range labels.Categories {
		got, err := labels.ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := labels.ParseCategory("sectors")
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)
	assert.Equal(t, "Category(42)", labels.Category(42).String())
}
