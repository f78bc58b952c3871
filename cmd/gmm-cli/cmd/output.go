// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

func writeFitResult(w io.Writer, result *gmm.FitResult, format string, headers []string) error {
	switch format {
	case "json":
		return writeJSON(w, result)
	default:
		return writeFitTable(w, result, headers)
	}
}

func writeSelectResult(w io.Writer, result *gmm.SelectResult, format string, headers []string) error {
	switch format {
	case "json":
		return writeJSON(w, result)
	default:
		return writeSelectTable(w, result, headers)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFitTable(w io.Writer, result *gmm.FitResult, headers []string) error {
	k := len(result.Weights)

	fmt.Fprintln(w, "# WEIGHTS")
	for i, weight := range result.Weights {
		fmt.Fprintf(w, "Component_%d\t%.6f\n", i+1, weight)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "# MEANS")
	fmt.Fprint(w, "Component")
	for j := 0; j < len(result.Means[0]); j++ {
		fmt.Fprintf(w, "\t%s", featureName(headers, j))
	}
	fmt.Fprintln(w)
	for i := 0; i < k; i++ {
		fmt.Fprintf(w, "Component_%d", i+1)
		for _, v := range result.Means[i] {
			fmt.Fprintf(w, "\t%.6f", v)
		}
		fmt.Fprintln(w)
	}

	if result.Variances != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# VARIANCES")
		for i := 0; i < k; i++ {
			fmt.Fprintf(w, "Component_%d", i+1)
			for _, v := range result.Variances[i] {
				fmt.Fprintf(w, "\t%.6f", v)
			}
			fmt.Fprintln(w)
		}
	}

	for i, cov := range result.Covariance {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "# COVARIANCE Component_%d\n", i+1)
		for _, row := range cov {
			for j, v := range row {
				if j > 0 {
					fmt.Fprint(w, "\t")
				}
				fmt.Fprintf(w, "%.6f", v)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "# LOG-LIKELIHOOD\nTraining\t%.6f\n", result.TrainingLogLikelihood)
	fmt.Fprintf(w, "HeldOut\t%.6f\n", result.HeldOutLogLikelihood)
	fmt.Fprintf(w, "Iterations\t%d\n", result.Iterations)

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "# WARNING: %s\n", warning)
	}

	return nil
}

func writeSelectTable(w io.Writer, result *gmm.SelectResult, headers []string) error {
	fmt.Fprintln(w, "# MODEL SELECTION")
	fmt.Fprintf(w, "BestK\t%d\n", result.BestK)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "# SCORE BY K")
	ks := make([]int, 0, len(result.ScoreByK))
	for k := range result.ScoreByK {
		ks = append(ks, k)
	}
	sort.Ints(ks)
	for _, k := range ks {
		fmt.Fprintf(w, "%d\t%.6f\n", k, result.ScoreByK[k])
	}

	fmt.Fprintln(w)
	return writeFitTable(w, &result.Fit, headers)
}

func featureName(headers []string, j int) string {
	if j < len(headers) && headers[j] != "" {
		return headers[j]
	}
	return fmt.Sprintf("Feature_%d", j+1)
}
