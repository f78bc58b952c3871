// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// logNormalize replaces the K-vector of log-joint values lambda with a
// responsibility row (a probability vector summing to 1) and returns
// the log-sum-exp value, i.e. the point's contribution to the
// log-likelihood. This is the single primitive the C source hand-coded
// at every E-step call site as ow_exp_scale_by_sum_log_vector.
func logNormalize(lambda []float64) float64 {
	lse := floats.LogSumExp(lambda)
	for i, v := range lambda {
		p := math.Exp(v - lse)
		if p > 1 {
			p = 1
		} else if p < 0 {
			p = 0
		}
		lambda[i] = p
	}
	return lse
}
