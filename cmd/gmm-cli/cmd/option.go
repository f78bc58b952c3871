// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var optionCmd = &cobra.Command{
	Use:   "option <name> [value]",
	Short: "Get or set a process-wide EM option",
	Long: `option gets or sets a process-wide EM option: with one argument it
prints the option's current value, with two arguments it sets the option,
and a value of "?" prints the "name = value" assignment form instead of
setting anything. Option names may be abbreviated to any unique prefix.

EXAMPLES:
  gmm-cli option max_iterations
  gmm-cli option max_iterations 50
  gmm-cli option max_iter ?
  gmm-cli option --list`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runOption,
}

var listOptions bool

func init() {
	rootCmd.AddCommand(optionCmd)
	optionCmd.Flags().BoolVar(&listOptions, "list", false, "List every option and its current value")
}

func runOption(cmd *cobra.Command, args []string) error {
	if listOptions || len(args) == 0 {
		for _, line := range store.Dump() {
			fmt.Println(line)
		}
		return nil
	}

	name := args[0]
	var value *string
	if len(args) == 2 {
		value = &args[1]
	}

	result, err := store.Set(name, value)
	if err != nil {
		return fmt.Errorf("option %q: %w", name, err)
	}
	fmt.Println(result)
	return nil
}
