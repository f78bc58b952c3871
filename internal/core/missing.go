// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import "github.com/bitjungle/gogmm/pkg/gmm"

// mStepMissing is the missing-data M-step: a per-(k,d) effective-count
// matrix replaces the scalar s_k when normalizing each feature's mean
// and variance, so that a missing entry simply does not contribute to
// that feature's accumulators. A missing entry is recognized with a
// plain gmm.IsMissing check rather than a sum-type match, keeping the
// in-memory representation a sentinel. Mixing weights still use the
// scalar effective count s_k.
func mStepMissing(x gmm.Matrix, resp gmm.Matrix, heldOut []bool, weights []float64, means, variances gmm.Matrix, opts gmm.Options, warnOnce func(string)) {
	k := len(weights)
	d := len(x[0])

	s := make([]float64, k)              // scalar effective count, for priors
	sKD := make(gmm.Matrix, k)            // per-(k,d) effective count
	sumX := make(gmm.Matrix, k)
	sumXX := make(gmm.Matrix, k)
	for j := 0; j < k; j++ {
		sKD[j] = make([]float64, d)
		sumX[j] = make([]float64, d)
		sumXX[j] = make([]float64, d)
	}

	var totalWeight float64
	for n, row := range x {
		if heldOut[n] {
			continue
		}
		for j := 0; j < k; j++ {
			r := resp[n][j]
			s[j] += r
			for col := 0; col < d; col++ {
				if gmm.IsMissing(row[col]) {
					continue
				}
				sKD[j][col] += r
				sumX[j][col] += r * row[col]
				sumXX[j][col] += r * row[col] * row[col]
			}
		}
	}
	for _, sj := range s {
		totalWeight += sj
	}

	emptyCluster := false
	emptyFeature := false
	for j := 0; j < k; j++ {
		weights[j] = s[j] / totalWeight

		if s[j] <= minEffectiveCount {
			emptyCluster = true
			continue
		}
		for col := 0; col < d; col++ {
			count := sKD[j][col]
			if count == 0 {
				// Leave this feature's mean/variance unchanged from its
				// previous value (or initialization) rather than divide
				// by zero.
				emptyFeature = true
				continue
			}
			mean := sumX[j][col] / count
			means[j][col] = mean
			v := sumXX[j][col]/count - mean*mean
			if v < 0 {
				v = 0
				warnOnce("variance became negative by round-off and was clamped to 0")
			}
			variances[j][col] = v
		}
	}
	if emptyCluster {
		warnOnce("at least one cluster has no members")
	}
	if emptyFeature {
		warnOnce("at least one feature was unobserved for an entire cluster")
	}
}
