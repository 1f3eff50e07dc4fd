// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

// Job is one independent (database, country, year) run.
type Job struct {
	Config *Config
	Input  Input
}

// RunBatch runs every job, at most WithParallelism at a time. Jobs share
// no state; results are returned in job order. The first failure cancels
// the jobs not yet started and is returned tagged with its job index.
func RunBatch(ctx context.Context, jobs []Job, opts ...Option) ([]*Result, error) {
	o := gatherOptions(opts...)
	out := make([]*Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job := jobs[i]
			res, err := Run(gctx, job.Config, job.Input, WithLogger(o.logger.With(zap.Int("job", i))))
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			out[i] = res

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
