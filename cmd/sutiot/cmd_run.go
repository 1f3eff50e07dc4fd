// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/sutiot/leontief"
	"github.com/katalvlaran/sutiot/perturbation"
	"github.com/katalvlaran/sutiot/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured analysis and write a YAML report",
	Long: `Aggregates the dataset, builds the IOT table, checks its balance and
derives coefficients. With analysis SA the perturbation file named in the
configuration (see "sutiot template") is applied; with RCOT the baseline is
remapped onto rect_level.`,
	Args: cobra.NoArgs,
	RunE: runModel,
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, ds, err := loadInputs()
	if err != nil {
		return err
	}
	in := pipeline.Input{Registry: ds.Registry, SUT: ds.SUT}
	if cfg.Analysis == pipeline.AnalysisShock && cfg.Perturbation != "" {
		if in.Delta, err = loadDelta(cfg, in); err != nil {
			return err
		}
	}

	res, err := pipeline.Run(cmd.Context(), cfg, in, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("report ready",
		zap.String("run_id", res.Parameters.RunID.String()),
		zap.Int("unbalanced", len(res.Balance.Unbalances)))

	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}
	if err = pipeline.WriteReport(w, res); err != nil {
		_ = closeFn()
		return err
	}

	return closeFn()
}

// loadDelta imports the edited perturbation file for the aggregated labels.
func loadDelta(cfg *pipeline.Config, in pipeline.Input) (*leontief.Delta, error) {
	reg, err := aggregatedRegistry(cfg, in.Registry)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(cfg.Perturbation)
	if err != nil {
		return nil, fmt.Errorf("perturbation: %w", err)
	}
	defer f.Close()

	return perturbation.Import(f, reg, cfg.Layers)
}
