// SPDX-License-Identifier: MIT

package leontief

// DefaultConcurrency runs the per-layer inversions one after another.
const DefaultConcurrency = 1

// DefaultSkipSingular makes every singular layer fatal.
const DefaultSkipSingular = false

const panicConcurrencyInvalid = "leontief: WithConcurrency: n must be >= 1"

// Option mutates Options.
type Option func(*Options)

// Options is the effective configuration of Solve.
type Options struct {
	concurrency  int
	skipSingular bool
}

// WithConcurrency bounds the number of layers inverted at the same time.
// Panics when n < 1.
func WithConcurrency(n int) Option {
	if n < 1 {
		panic(panicConcurrencyInvalid)
	}

	return func(o *Options) { o.concurrency = n }
}

// WithSkipSingular lets Solve continue past a singular physical layer
// (index ≥ 1): the layer is listed in Result.Skipped and its outputs stay
// nil. A singular economic layer is always fatal.
func WithSkipSingular(skip bool) Option {
	return func(o *Options) { o.skipSingular = skip }
}

func gatherOptions(opts ...Option) Options {
	o := Options{concurrency: DefaultConcurrency, skipSingular: DefaultSkipSingular}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
