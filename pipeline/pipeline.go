// SPDX-License-Identifier: MIT

// Package pipeline - orchestration of one modelling run.
//
// Stages (strictly sequential, each consuming the previous output):
//
//	Aggregate → Reshape → Check balance → Derive coefficients
//	→ (SA) Solve shock  | (RCOT) Rectangularize
//
// Outputs are grouped in typed records: Parameters (configuration echo),
// Indices (label sets), Matrices (every bundle produced), Coefficients
// (baseline and remapped) and, for a shock, the Delta record.
//
// Logging:
//   - Stage boundaries at Debug; unbalances, zero-floored entries and
//     skipped layers at Warn. The default logger discards everything.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/sutiot"
	"github.com/katalvlaran/sutiot/balance"
	"github.com/katalvlaran/sutiot/coeff"
	"github.com/katalvlaran/sutiot/iot"
	"github.com/katalvlaran/sutiot/labels"
	"github.com/katalvlaran/sutiot/leontief"
	"github.com/katalvlaran/sutiot/matrix"
	"github.com/katalvlaran/sutiot/rect"
	"github.com/katalvlaran/sutiot/sut"
)

const opRun = "pipeline.Run"

// Input is the raw data of one run.
type Input struct {
	Registry *labels.Registry
	SUT      *sut.Bundle
	// Delta is the shock applied by AnalysisShock; nil means no change.
	Delta *leontief.Delta
}

// Parameters echoes the configuration of a run.
type Parameters struct {
	RunID     uuid.UUID
	Database  string
	Country   string
	Year      int
	Layers    int
	Tolerance float64
	Analysis  Analysis
	Source    balance.Source
	AggLevel  []string
	RectLevel []string
}

// Indices holds the label sets of a run.
type Indices struct {
	Full       *labels.Registry
	Aggregated *labels.Registry
	Axis       []labels.Label // products++industries of the aggregated table
	RectRows   *labels.Registry
	RectCols   *labels.Registry
}

// Matrices holds every bundle produced by a run.
type Matrices struct {
	Raw        *sut.Bundle
	Aggregated *sut.Bundle
	IOT0       *iot.Table
	IOT1       *iot.Table // nil unless shocked
	Rect       *iot.Table // nil unless rectangularized
}

// Coefficients holds the technical coefficient bundles of a run.
type Coefficients struct {
	Baseline *coeff.Bundle
	Shocked  *coeff.Bundle // nil unless shocked
	Rect     *coeff.Bundle // nil unless rectangularized
}

// Result is everything a run produced.
type Result struct {
	Parameters   Parameters
	Indices      Indices
	Matrices     Matrices
	Coefficients Coefficients
	Balance      *balance.Report
	Embodied     *matrix.Dense    // E₀, shock runs only
	Shock        *leontief.Result // nil unless shocked
	Delta        *Delta           // nil unless shocked
}

// Run executes one configured run over in.
//
// Errors:
//   - sutiot.ErrConfiguration for an invalid cfg, registry or level name.
//   - sutiot.ErrShape when in.SUT or in.Delta disagree with the labels.
//   - *sutiot.LayerError wrapping sutiot.ErrSingularMatrix from the shock.
func Run(ctx context.Context, cfg *Config, in Input, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	if cfg == nil {
		return nil, sutiot.ConfigErrorf(opRun, "nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opRun, err)
	}
	if err := in.Registry.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opRun, err)
	}
	if err := in.SUT.Validate(in.Registry.Counts(), cfg.Layers); err != nil {
		return nil, fmt.Errorf("%s: %w", opRun, err)
	}
	src, _ := balance.ParseSource(cfg.Source)
	runID := o.runID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	log := o.logger.With(zap.String("run_id", runID.String()))

	res := &Result{
		Parameters: Parameters{
			RunID:     runID,
			Database:  cfg.Database,
			Country:   cfg.Country,
			Year:      cfg.Year,
			Layers:    cfg.Layers,
			Tolerance: cfg.Tolerance,
			Analysis:  cfg.Analysis,
			Source:    src,
			AggLevel:  slices.Clone(cfg.AggLevel),
			RectLevel: slices.Clone(cfg.RectLevel),
		},
		Indices:  Indices{Full: in.Registry},
		Matrices: Matrices{Raw: in.SUT},
	}

	// Stage 1: aggregation.
	aggLevel, err := labels.ParseLevel(in.Registry.Headers, cfg.AggLevel...)
	if err != nil {
		return nil, fmt.Errorf("%s: agg_level: %w", opRun, err)
	}
	agg, aggReg, err := sut.Aggregate(in.SUT, in.Registry, aggLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRun, err)
	}
	res.Indices.Aggregated = aggReg
	res.Indices.Axis = iot.Index(aggReg)
	res.Matrices.Aggregated = agg
	log.Debug("aggregated",
		zap.Strings("level", cfg.AggLevel),
		zap.Int("products", aggReg.Products.Len()),
		zap.Int("industries", aggReg.Industries.Len()))

	// Stage 2: IOT reshape.
	t0, err := iot.Reshape(agg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRun, err)
	}
	res.Matrices.IOT0 = t0
	log.Debug("reshaped", zap.Int("size", t0.Dims.Rows()))

	// Stage 3: balance check; diagnostic only.
	rep, err := balance.Check(t0, balance.WithTolerance(cfg.Tolerance), balance.WithSource(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRun, err)
	}
	res.Balance = rep
	for _, u := range rep.Unbalances {
		log.Warn("unbalanced row",
			zap.Int("layer", u.Layer),
			zap.String("row", res.Indices.Axis[u.Row].String()),
			zap.Float64("gap", u.Gap))
	}
	if len(rep.Floored) > 0 {
		log.Warn("zero entries floored to 1", zap.Int("count", len(rep.Floored)))
	}

	// Stage 4: baseline coefficients.
	c0, err := coeff.Derive(t0, rep.X[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRun, err)
	}
	res.Coefficients.Baseline = c0
	log.Debug("baseline coefficients derived")

	// Stage 5: analysis.
	switch cfg.Analysis {
	case AnalysisShock:
		if err = runShock(ctx, cfg, in.Delta, res, log); err != nil {
			return nil, err
		}
	case AnalysisRect:
		rowLevel, err := labels.ParseLevel(in.Registry.Headers, cfg.RectLevel...)
		if err != nil {
			return nil, fmt.Errorf("%s: rect_level: %w", opRun, err)
		}
		rr, err := rect.Rectangularize(in.SUT, in.Registry, rowLevel, aggLevel, rep)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opRun, err)
		}
		res.Indices.RectRows, res.Indices.RectCols = rr.Rows, rr.Cols
		res.Matrices.Rect = rr.Table
		res.Coefficients.Rect = rr.Coefficients
		log.Debug("rectangularized",
			zap.Int("rows", rr.Table.Dims.Rows()),
			zap.Int("cols", rr.Table.Dims.Cols()))
	}
	log.Info("run complete", zap.String("analysis", string(cfg.Analysis)))

	return res, nil
}

// runShock fills the shock fields of res.
func runShock(ctx context.Context, cfg *Config, d *leontief.Delta, res *Result, log *zap.Logger) error {
	base := res.Coefficients.Baseline
	e0, err := leontief.Embodied(base)
	if err != nil {
		return fmt.Errorf("%s: %w", opRun, err)
	}
	res.Embodied = e0

	sr, err := leontief.Solve(ctx, base, d,
		leontief.WithConcurrency(cfg.Concurrency),
		leontief.WithSkipSingular(cfg.SkipSingular))
	if err != nil {
		var le *sutiot.LayerError
		if errors.As(err, &le) {
			log.Error("shock failed", zap.Int("layer", le.Layer), zap.Error(le.Err))
		}

		return fmt.Errorf("%s: %w", opRun, err)
	}
	for _, l := range sr.Skipped {
		log.Warn("singular layer skipped", zap.Int("layer", l))
	}
	res.Shock = sr
	res.Coefficients.Shocked = sr.Coefficients
	res.Matrices.IOT1 = sr.Table

	if res.Delta, err = NewDelta(res.Matrices.IOT0, res.Balance.X, e0, sr); err != nil {
		return fmt.Errorf("%s: %w", opRun, err)
	}
	log.Debug("shock solved", zap.Ints("skipped", sr.Skipped))

	return nil
}
