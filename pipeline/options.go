// SPDX-License-Identifier: MIT

package pipeline

import (
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const panicParallelismInvalid = "pipeline: WithParallelism: n must be >= 1"

// Option mutates Options.
type Option func(*Options)

// Options is the effective configuration of Run and RunBatch.
type Options struct {
	logger      *zap.Logger
	runID       uuid.UUID
	parallelism int
}

// WithLogger routes stage logs to l. A nil l keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRunID fixes the run identifier recorded in Parameters instead of a
// fresh random one. RunBatch ignores it.
func WithRunID(id uuid.UUID) Option {
	return func(o *Options) { o.runID = id }
}

// WithParallelism bounds how many jobs RunBatch runs at once
// (default GOMAXPROCS). Panics when n < 1.
func WithParallelism(n int) Option {
	if n < 1 {
		panic(panicParallelismInvalid)
	}

	return func(o *Options) { o.parallelism = n }
}

func gatherOptions(opts ...Option) Options {
	o := Options{logger: zap.NewNop(), parallelism: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
