// SPDX-License-Identifier: MIT

package sutiot_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sutiot"
)

func TestShapeErrorf(t *testing.T) {
	cause := errors.New("3 rows, want 2")
	err := sutiot.ShapeErrorf("iot.Reshape", cause)
	assert.ErrorIs(t, err, sutiot.ErrShape)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "iot.Reshape: sutiot: shape mismatch: 3 rows, want 2", err.Error())

	assert.ErrorIs(t, sutiot.ShapeErrorf("op", nil), sutiot.ErrShape)
}

func TestConfigErrorf(t *testing.T) {
	err := sutiot.ConfigErrorf("pipeline.Config", "layers = %d", 0)
	assert.ErrorIs(t, err, sutiot.ErrConfiguration)
	assert.NotErrorIs(t, err, sutiot.ErrShape)
	assert.Contains(t, err.Error(), "layers = 0")
}

func TestLayerError(t *testing.T) {
	err := fmt.Errorf("leontief.Solve: %w", &sutiot.LayerError{Layer: 2, Err: sutiot.ErrSingularMatrix})
	assert.ErrorIs(t, err, sutiot.ErrSingularMatrix)

	var le *sutiot.LayerError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Layer)
	assert.Equal(t, "layer 2: sutiot: singular technology matrix", le.Error())
}
