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

	"github.com/bitjungle/gogmm/internal/config"
)

var (
	verbose bool

	// store is the process-wide option façade, shared by the option,
	// fit, and select subcommands.
	store = config.NewStore()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gmm-cli",
	Short: "gmm-cli - Gaussian Mixture Model EM engine",
	Long: `gmm-cli fits Gaussian Mixture Models to feature data by Expectation-Maximization.

It supports diagonal and full covariance models, variance tying, missing-data
handling, and a model-selection controller that sweeps candidate component
counts and scores them by held-out log-likelihood or a BIC-style penalty.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
