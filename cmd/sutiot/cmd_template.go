// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/sutiot/perturbation"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an all-zero perturbation template for the aggregated labels",
	Long: `Writes labelled zero matrices (a, w, m, y per layer and the shared b)
shaped for the configured aggregation level. Edit the values, point the
configuration's "perturbation" key at the file and use "sutiot run" with
analysis SA.`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

func runTemplate(cmd *cobra.Command, args []string) error {
	cfg, ds, err := loadInputs()
	if err != nil {
		return err
	}
	reg, err := aggregatedRegistry(cfg, ds.Registry)
	if err != nil {
		return err
	}
	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}
	if err = perturbation.Template(w, reg, cfg.Layers); err != nil {
		_ = closeFn()
		return err
	}
	logger.Debug("template written", zap.String("out", outPath), zap.Int("layers", cfg.Layers))

	return closeFn()
}
