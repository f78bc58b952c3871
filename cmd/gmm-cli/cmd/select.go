// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bitjungle/gogmm/internal/core"
)

// selectOptions holds the flags for the select subcommand.
type selectOptions struct {
	input      string
	output     string
	format     string
	kMax       int
	method     string
	tying      string
	maxIter    int
	tolerance  float64
	varOffset  float64
	normalize  bool
	normStdev  float64
	handleMiss bool
	seed       uint64
	delimiter  string
	naValues   string
	noHeader   bool

	numTries   int
	numSamples int
}

func newSelectCommand() *cobra.Command {
	opts := &selectOptions{}

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Sweep component counts and pick the best-scoring model",
		Long: `select runs the model-selection controller: it sweeps a geometric grid
of candidate component counts up to --k-max, scores each with the
configured scoring modes, and retrains the winning count on the full
dataset.

EXAMPLES:
  gmm-cli select -i data.csv --k-max 10
  gmm-cli select -i data.csv --k-max 12 --method full --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input CSV file (required)")
	cmd.MarkFlagRequired("input")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().IntVar(&opts.kMax, "k-max", 10, "Maximum number of mixture components to consider")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "diagonal", "Covariance family: diagonal or full")
	cmd.Flags().StringVar(&opts.tying, "tying", "", "Variance tying: none, all, feature, or cluster (diagonal only)")
	cmd.Flags().IntVar(&opts.maxIter, "max-iterations", 0, "Maximum EM iterations per run (0 keeps the configured option)")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", 0, "Relative log-likelihood convergence tolerance")
	cmd.Flags().Float64Var(&opts.varOffset, "var-offset", 0, "Variance floor added every M-step")
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false, "Whiten each feature column before fitting")
	cmd.Flags().Float64Var(&opts.normStdev, "norm-stdev", 1.0, "Target standard deviation when --normalize is set")
	cmd.Flags().BoolVar(&opts.handleMiss, "handle-missing", false, "Treat null cells as missing rather than erroring")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Seed driving every pseudo-random draw")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", ",", "CSV field delimiter")
	cmd.Flags().StringVar(&opts.naValues, "na-values", "", "Comma-separated list of strings treated as missing")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "First row contains data, not column names")
	cmd.Flags().IntVar(&opts.numTries, "num-tries", 0, "Restarts per component count (0 keeps the configured option)")
	cmd.Flags().IntVar(&opts.numSamples, "num-samples", 0, "Number of component counts sampled from the geometric grid (0 keeps the configured option)")

	return cmd
}

func init() {
	rootCmd.AddCommand(newSelectCommand())
}

func runSelect(opts *selectOptions) error {
	data, headers, err := loadMatrix(opts.input, opts.delimiter, opts.naValues, opts.noHeader)
	if err != nil {
		return err
	}

	o := store.ToOptions()
	if err := applyCommonFlags(&o, opts.method, opts.tying, opts.maxIter, opts.tolerance,
		opts.varOffset, opts.normalize, opts.normStdev, opts.handleMiss, opts.seed); err != nil {
		return err
	}
	if opts.numTries > 0 {
		o.NumTriesPerClusterCount = opts.numTries
	}
	if opts.numSamples > 0 {
		o.NumClusterCountSamples = opts.numSamples
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Selecting among K=2..%d %s models on %d rows x %d columns...\n",
			opts.kMax, o.Method, len(data), len(data[0]))
	}

	result, err := core.FitAndSelect(opts.kMax, data, o)
	if err != nil {
		return fmt.Errorf("model selection failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Selected K=%d\n", result.BestK)
	}

	return writeResult(opts.output, func(w *os.File) error {
		return writeSelectResult(w, result, opts.format, headers)
	})
}
