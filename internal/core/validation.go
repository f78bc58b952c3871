// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import "github.com/bitjungle/gogmm/pkg/gmm"

// validateFitInputs checks the argument-error conditions before any
// allocation happens.
func validateFitInputs(k int, x gmm.Matrix, heldOut []bool, opts gmm.Options) error {
	if k < 1 {
		return gmm.NewArgumentError("component count K must be >= 1", nil)
	}
	if len(x) == 0 {
		return gmm.NewArgumentError("data matrix must have at least one row", nil)
	}
	d := len(x[0])
	if d == 0 {
		return gmm.NewArgumentError("data matrix must have at least one column", nil)
	}
	for _, row := range x {
		if len(row) != d {
			return gmm.NewDimensionError("inconsistent row length in data matrix", d, len(row))
		}
	}
	if !opts.HandleMissing {
		for i, row := range x {
			for j, v := range row {
				if gmm.IsMissing(v) {
					return gmm.NewMissingDataError("data contains missing values but missing-data handling is not enabled",
						map[string]int{"row": i, "column": j})
				}
			}
		}
	}
	if heldOut != nil && len(heldOut) != len(x) {
		return gmm.NewDimensionError("held-out mask length must equal N", len(x), len(heldOut))
	}
	if opts.UseInitialized {
		if opts.Initial == nil {
			return gmm.NewConfigurationError("use_initialized is set but no initial parameters were supplied", nil)
		}
		if err := validateInitial(k, d, opts.Method, opts.Initial); err != nil {
			return err
		}
	}
	if opts.HeldOutFraction < 0 || opts.HeldOutFraction >= 1 {
		return gmm.NewArgumentError("held-out fraction must be in [0,1)", nil)
	}
	return nil
}

func validateInitial(k, d int, method gmm.Method, init *gmm.InitialParams) error {
	if len(init.Weights) != k {
		return gmm.NewDimensionError("initial weights length must equal K", k, len(init.Weights))
	}
	if len(init.Means) != k {
		return gmm.NewDimensionError("initial means must have K rows", k, len(init.Means))
	}
	for _, row := range init.Means {
		if len(row) != d {
			return gmm.NewDimensionError("initial means row length must equal D", d, len(row))
		}
	}
	switch method {
	case gmm.Diagonal:
		if len(init.Variances) != k {
			return gmm.NewDimensionError("initial variances must have K rows", k, len(init.Variances))
		}
		for _, row := range init.Variances {
			if len(row) != d {
				return gmm.NewDimensionError("initial variances row length must equal D", d, len(row))
			}
		}
	case gmm.Full:
		if len(init.Covariance) != k {
			return gmm.NewDimensionError("initial covariance must have K matrices", k, len(init.Covariance))
		}
		for _, cov := range init.Covariance {
			if len(cov) != d {
				return gmm.NewDimensionError("initial covariance matrix must be D x D", d, len(cov))
			}
		}
	}
	return nil
}
