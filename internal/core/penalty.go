// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

// Penalty computes the corrected BIC-form model-selection penalty.
// numParams depends on the fitted method and, for the diagonal
// variant, the tying mode in effect.
func Penalty(k, d, n int, method gmm.Method, tying gmm.TyingMode) float64 {
	var numParams float64
	switch method {
	case gmm.Full:
		numParams = float64(k)*float64(d)*float64(d+1)/2 + // covariance DoF
			float64(k)*float64(d) + // mean DoF
			float64(k-1) // weight DoF
	default: // Diagonal
		switch tying {
		case gmm.TieFeature:
			numParams = float64(k)*float64(d+1) - 1 + float64(d)
		case gmm.TieAll:
			numParams = float64(k)*float64(d+1) - 1 + 1
		default:
			numParams = float64(k)*(2*float64(d)+1) - 1
		}
	}
	return 0.5 * numParams * math.Log(float64(n))
}

// PenaltyLegacy computes the old_bic form, preserved only for
// regression parity against existing numeric outputs; new callers use
// Penalty. It always uses the diagonal parameter counts, even for
// full-covariance models, and scales by log(N*D) rather than log(N).
func PenaltyLegacy(k, d, n int, tying gmm.TyingMode) float64 {
	var numParams float64
	switch tying {
	case gmm.TieFeature:
		numParams = float64(k)*float64(d+1) - 1 + float64(d)
	case gmm.TieAll:
		numParams = float64(k)*float64(d+1) - 1 + 1
	default:
		numParams = float64(k)*(2*float64(d)+1) - 1
	}
	return 0.5 * numParams * math.Log(float64(n)*float64(d))
}
