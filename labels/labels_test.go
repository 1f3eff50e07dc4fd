// SPDX-License-Identifier: MIT

package labels_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/labels"
)

var headers = []string{"country", "group", "sector"}

func TestNewSet_Validation(t *testing.T) {
	_, err := labels.NewSet(nil)
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)

	_, err = labels.NewSet([]string{"a", "a"})
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)

	_, err = labels.NewSet([]string{"a", " "})
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)

	_, err = labels.NewSet(headers, labels.Label{"DE", "G1"})
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)

	s, err := labels.NewSet(headers, labels.Label{"DE", "G1", "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"DE/G1/A"}, s.Strings())
}

func TestParseLevel(t *testing.T) {
	lv, err := labels.ParseLevel(headers, "group")
	require.NoError(t, err)
	assert.Equal(t, labels.Level{1}, lv)

	lv, err = labels.ParseLevel(headers, "country", "group")
	require.NoError(t, err)
	assert.Equal(t, labels.Level{0, 1}, lv)
	assert.Equal(t, []string{"country", "group"}, lv.Names(headers))

	for _, names := range [][]string{nil, {"region"}, {"group", "group"}} {
		_, err = labels.ParseLevel(headers, names...)
		assert.ErrorIs(t, err, sutiot.ErrConfiguration, "names %v", names)
	}

	assert.ErrorIs(t, labels.Level{3}.Validate(headers), sutiot.ErrConfiguration)
	assert.NoError(t, labels.Finest(headers).Validate(headers))
}

func TestSetGroup_SortedUniqueKeys(t *testing.T) {
	s, err := labels.NewSet(headers,
		labels.Label{"FR", "G2", "C"},
		labels.Label{"DE", "G1", "A"},
		labels.Label{"DE", "G2", "B"},
		labels.Label{"FR", "G1", "D"},
	)
	require.NoError(t, err)

	g, err := s.Group(labels.Level{1})
	require.NoError(t, err)
	assert.Equal(t, []string{"group"}, g.Headers)
	if diff := cmp.Diff([]labels.Label{{"G1"}, {"G2"}}, g.Keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 0, 1, 0}, g.Of)

	// Composite level: grouping by the (country, group) tuple.
	g, err = s.Group(labels.Level{0, 1})
	require.NoError(t, err)
	if diff := cmp.Diff([]labels.Label{{"DE", "G1"}, {"DE", "G2"}, {"FR", "G1"}, {"FR", "G2"}}, g.Keys); diff != "" {
		t.Fatalf("composite keys mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{3, 0, 1, 2}, g.Of)

	// Component order follows the level, not the headers.
	g, err = s.Group(labels.Level{1, 0})
	require.NoError(t, err)
	assert.Equal(t, labels.Label{"G1", "DE"}, g.Keys[0])
	assert.Equal(t, []string{"group", "country"}, g.Headers)
}

func TestSetGroup_Deterministic(t *testing.T) {
	s, err := labels.NewSet(headers,
		labels.Label{"DE", "G3", "A"},
		labels.Label{"DE", "G1", "B"},
		labels.Label{"DE", "G2", "C"},
		labels.Label{"DE", "G1", "D"},
	)
	require.NoError(t, err)
	first, err := s.Group(labels.Level{1})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := s.Group(labels.Level{1})
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(first, again))
	}
}

func TestSetGroup_EmptySet(t *testing.T) {
	s, err := labels.NewSet(headers)
	require.NoError(t, err)
	g, err := s.Group(labels.Level{0})
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Of)

	var nilSet *labels.Set
	_, err = nilSet.Group(labels.Level{0})
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)
}

func TestCompare(t *testing.T) {
	assert.Negative(t, labels.Compare(labels.Label{"A", "B"}, labels.Label{"A", "C"}))
	assert.Zero(t, labels.Compare(labels.Label{"A"}, labels.Label{"A"}))
	assert.Positive(t, labels.Compare(labels.Label{"B"}, labels.Label{"A", "Z"}))
}
