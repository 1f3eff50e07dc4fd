// SPDX-License-Identifier: MIT

// Package balance: functional configuration of the balance check.
//
//   - DefaultTolerance is the relative gap above which a row is reported.
//   - DefaultSource selects how physical layers are summed.
//   - WithX constructors panic on nonsensical values (programmer error).
package balance

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/sutiot"
)

// DefaultTolerance is the relative gap |x−xT|/x tolerated before a row is
// recorded as unbalanced (5%).
const DefaultTolerance = 0.05

// DefaultSource is the data-source convention used when none is given.
const DefaultSource = Eurostat

const (
	panicToleranceInvalid = "balance: WithTolerance: tol must be finite, non-negative"
	panicSourceInvalid    = "balance: WithSource: unknown source"
)

// Source names the database convention of the input tables.
type Source int

const (
	// Eurostat tables carry full rows on every layer.
	Eurostat Source = iota
	// Other databases track only products' physical output on layers ≥ 1;
	// industry entries of those layers are not summed.
	Other
)

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case Eurostat:
		return "eurostat"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// ParseSource maps a configuration value onto a Source (case-insensitive).
//
// Errors:
//   - sutiot.ErrConfiguration for an unknown name.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "eurostat":
		return Eurostat, nil
	case "other":
		return Other, nil
	default:
		return 0, sutiot.ConfigErrorf("balance.ParseSource", "unknown data source %q", name)
	}
}

// Option mutates Options.
type Option func(*Options)

// Options is the effective configuration of Check.
type Options struct {
	tol    float64
	source Source
}

// WithTolerance sets the relative unbalance tolerance (0.05 = 5%).
// Panics when tol is negative, NaN or infinite.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithSource selects the data-source convention.
// Panics on a value outside the declared constants.
func WithSource(s Source) Option {
	if s != Eurostat && s != Other {
		panic(panicSourceInvalid)
	}

	return func(o *Options) { o.source = s }
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{tol: DefaultTolerance, source: DefaultSource}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
