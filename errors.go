// SPDX-License-Identifier: MIT
// Package sutiot: error taxonomy shared by every stage of the pipeline.
// Stage packages wrap these sentinels (fmt.Errorf("%s: %w", op, ErrShape))
// and callers match them with errors.Is; layer-scoped failures are carried
// by *LayerError and matched with errors.As.

package sutiot

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports an invalid level selector, a missing label
	// header or set, an unsupported analysis kind or a bad option value.
	// Not recoverable; surfaced immediately.
	ErrConfiguration = errors.New("sutiot: configuration error")

	// ErrShape reports a matrix/label dimension mismatch at a component
	// boundary (aggregation, reshaping, perturbation). No partial structure
	// is returned alongside it.
	ErrShape = errors.New("sutiot: shape mismatch")

	// ErrSingularMatrix reports that (I − A) could not be inverted for a
	// layer. It always arrives inside a *LayerError.
	ErrSingularMatrix = errors.New("sutiot: singular technology matrix")
)

// LayerError attaches a layer index to a failure that only concerns that
// layer. Other layers' data computed before it stays valid.
type LayerError struct {
	Layer int
	Err   error
}

// Error implements error.
func (e *LayerError) Error() string {
	return fmt.Sprintf("layer %d: %v", e.Layer, e.Err)
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *LayerError) Unwrap() error { return e.Err }

// ShapeErrorf wraps cause under ErrShape with an operation tag, keeping
// both sentinels reachable through errors.Is.
func ShapeErrorf(op string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, ErrShape)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrShape, cause)
}

// ConfigErrorf formats a configuration failure under ErrConfiguration.
func ConfigErrorf(op, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrConfiguration, fmt.Sprintf(format, args...))
}
