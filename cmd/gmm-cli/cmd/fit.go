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
	"github.com/bitjungle/gogmm/pkg/gmm"
	"github.com/bitjungle/gogmm/pkg/gmmio"
)

// fitOptions holds the flags for the fit subcommand.
type fitOptions struct {
	input        string
	output       string
	format       string
	components   int
	method       string
	tying        string
	maxIter      int
	tolerance    float64
	varOffset    float64
	normalize    bool
	normStdev    float64
	handleMiss   bool
	seed         uint64
	delimiter    string
	naValues     string
	noHeader     bool
}

func newFitCommand() *cobra.Command {
	opts := &fitOptions{}

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a single Gaussian Mixture Model",
		Long: `Fit runs Expectation-Maximization once, at a fixed component count, and
reports the resulting mixture weights, means, (co)variances, and
log-likelihood.

EXAMPLES:
  gmm-cli fit -i data.csv -k 3
  gmm-cli fit -i data.csv -k 3 --method full --tying feature
  gmm-cli fit -i data.csv -k 4 --format json -o result.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input CSV file (required)")
	cmd.MarkFlagRequired("input")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().IntVarP(&opts.components, "components", "k", 2, "Number of mixture components")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "diagonal", "Covariance family: diagonal or full")
	cmd.Flags().StringVar(&opts.tying, "tying", "", "Variance tying: none, all, feature, or cluster (diagonal only)")
	cmd.Flags().IntVar(&opts.maxIter, "max-iterations", 0, "Maximum EM iterations (0 keeps the configured option)")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", 0, "Relative log-likelihood convergence tolerance")
	cmd.Flags().Float64Var(&opts.varOffset, "var-offset", 0, "Variance floor added every M-step")
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false, "Whiten each feature column before fitting")
	cmd.Flags().Float64Var(&opts.normStdev, "norm-stdev", 1.0, "Target standard deviation when --normalize is set")
	cmd.Flags().BoolVar(&opts.handleMiss, "handle-missing", false, "Treat null cells as missing rather than erroring")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Seed driving every pseudo-random draw")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", ",", "CSV field delimiter")
	cmd.Flags().StringVar(&opts.naValues, "na-values", "", "Comma-separated list of strings treated as missing")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "First row contains data, not column names")

	return cmd
}

func init() {
	rootCmd.AddCommand(newFitCommand())
}

func runFit(opts *fitOptions) error {
	data, headers, err := loadMatrix(opts.input, opts.delimiter, opts.naValues, opts.noHeader)
	if err != nil {
		return err
	}

	o := store.ToOptions()
	if err := applyCommonFlags(&o, opts.method, opts.tying, opts.maxIter, opts.tolerance,
		opts.varOffset, opts.normalize, opts.normStdev, opts.handleMiss, opts.seed); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Fitting K=%d %s model on %d rows x %d columns...\n",
			opts.components, o.Method, len(data), len(data[0]))
	}

	result, err := core.Fit(opts.components, data, o)
	if err != nil {
		return fmt.Errorf("fit failed: %w", err)
	}

	return writeResult(opts.output, func(w *os.File) error {
		return writeFitResult(w, result, opts.format, headers)
	})
}

func loadMatrix(input, delimiter, naValues string, noHeader bool) (gmm.Matrix, []string, error) {
	csvOpts := gmmio.DefaultOptions()
	csvOpts.HasHeader = !noHeader
	if delimiter != "" {
		csvOpts.Delimiter = rune(delimiter[0])
	}
	if naValues != "" {
		csvOpts.NullValues = splitCSVList(naValues)
	}

	data, headers, err := gmmio.LoadMatrix(input, csvOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("input file %q has no data rows", input)
	}
	return data, headers, nil
}

func applyCommonFlags(o *gmm.Options, method, tying string, maxIter int, tolerance, varOffset float64,
	normalize bool, normStdev float64, handleMissing bool, seed uint64) error {
	switch method {
	case "diagonal", "":
		o.Method = gmm.Diagonal
	case "full":
		o.Method = gmm.Full
	default:
		return fmt.Errorf("invalid method %q: must be diagonal or full", method)
	}

	switch tying {
	case "":
		// leave the store's configured tying in place
	case "none":
		o.Tying = gmm.TieNone
	case "all":
		o.Tying = gmm.TieAll
	case "feature":
		o.Tying = gmm.TieFeature
	case "cluster":
		o.Tying = gmm.TieCluster
	default:
		return fmt.Errorf("invalid tying %q: must be none, all, feature, or cluster", tying)
	}

	if maxIter > 0 {
		o.MaxIterations = maxIter
	}
	if tolerance > 0 {
		o.IterationTolerance = tolerance
	}
	if varOffset > 0 {
		o.VarOffset = varOffset
	}
	o.NormalizeData = o.NormalizeData || normalize
	if normStdev > 0 {
		o.NormStdev = normStdev
	}
	o.HandleMissing = o.HandleMissing || handleMissing
	o.Seed = seed

	return nil
}

func splitCSVList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func writeResult(output string, fn func(w *os.File) error) error {
	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return fn(w)
}
