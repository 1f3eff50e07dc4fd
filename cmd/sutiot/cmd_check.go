// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sutiot/pipeline"
)

var strict bool

var errUnbalanced = errors.New("table is unbalanced")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report production/outlay unbalances of the aggregated table",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, ds, err := loadInputs()
	if err != nil {
		return err
	}
	cfg.Analysis = pipeline.AnalysisNone
	res, err := pipeline.Run(cmd.Context(), cfg, pipeline.Input{Registry: ds.Registry, SUT: ds.SUT}, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rep := res.Balance
	fmt.Fprintf(out, "tolerance %.4g, source %s, %d zero entries floored\n", rep.Tolerance, rep.Source, len(rep.Floored))
	if rep.Balanced() {
		fmt.Fprintln(out, "balanced")
		return nil
	}
	for _, u := range rep.Unbalances {
		fmt.Fprintf(out, "layer %d  %-40s  x=%-14.6g xT=%-14.6g gap=%.2f%%\n",
			u.Layer, res.Indices.Axis[u.Row], rep.X[u.Layer][u.Row], rep.XT[u.Layer][u.Row], 100*u.Gap)
	}
	if strict {
		return fmt.Errorf("%d rows: %w", len(rep.Unbalances), errUnbalanced)
	}

	return nil
}
