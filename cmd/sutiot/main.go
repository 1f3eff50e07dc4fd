// SPDX-License-Identifier: MIT

// Command sutiot runs multi-layer SUT→IOT models from a YAML configuration.
//
// Usage:
//
//	sutiot check    --config run.yaml            balance diagnostics only
//	sutiot template --config run.yaml -o d.yaml  write an editable shock template
//	sutiot run      --config run.yaml -o r.yaml  full run, YAML report
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/sutiot/dataset"
	"github.com/katalvlaran/sutiot/labels"
	"github.com/katalvlaran/sutiot/pipeline"
)

var (
	// Global flags
	verbose    bool
	configPath string
	outPath    string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sutiot",
	Short: "Multi-layer supply-use to input-output modelling",
	Long: `sutiot aggregates supply-use tables, reshapes them into an IOT-like
framework, checks their balance, derives technical coefficients and runs
Leontief shock analysis or rectangularization.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "sutiot.yaml", "run configuration file")

	for _, cmd := range []*cobra.Command{runCmd, templateCmd} {
		cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	}
	checkCmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any row is unbalanced")

	rootCmd.AddCommand(runCmd, checkCmd, templateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadInputs reads the configuration and the dataset it points at.
func loadInputs() (*pipeline.Config, *dataset.Dataset, error) {
	cfg, err := pipeline.LoadConfigFile(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Dataset == "" {
		return nil, nil, fmt.Errorf("%s: no dataset path configured", configPath)
	}
	ds, err := dataset.LoadFile(cfg.Dataset)
	if err != nil {
		return nil, nil, err
	}
	// Identification fields default to the dataset's.
	if cfg.Database == "" {
		cfg.Database = ds.Database
	}
	if cfg.Country == "" {
		cfg.Country = ds.Country
	}
	if cfg.Year == 0 {
		cfg.Year = ds.Year
	}

	return cfg, ds, nil
}

// aggregatedRegistry returns the label sets at the configured level.
func aggregatedRegistry(cfg *pipeline.Config, reg *labels.Registry) (*labels.Registry, error) {
	lv, err := labels.ParseLevel(reg.Headers, cfg.AggLevel...)
	if err != nil {
		return nil, err
	}

	return reg.Aggregate(lv)
}

// output opens outPath, or returns stdout when it is empty.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outPath == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}

	return f, f.Close, nil
}
