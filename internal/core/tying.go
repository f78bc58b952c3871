// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import "github.com/bitjungle/gogmm/pkg/gmm"

// applyTying enforces one of the variance-tying schemes in place over
// a K x D variance matrix. At most one mode is applied; the tying
// modes are mutually exclusive rather than sequential.
func applyTying(variance gmm.Matrix, mode gmm.TyingMode) {
	if len(variance) == 0 {
		return
	}
	k := len(variance)
	d := len(variance[0])

	switch mode {
	case gmm.TieFeature:
		// Across-component mean, per feature (d distinct tied values).
		for col := 0; col < d; col++ {
			var sum float64
			for row := 0; row < k; row++ {
				sum += variance[row][col]
			}
			mean := sum / float64(k)
			for row := 0; row < k; row++ {
				variance[row][col] = mean
			}
		}
	case gmm.TieAll:
		// Grand mean across every (component, feature) pair.
		var sum float64
		for row := 0; row < k; row++ {
			for col := 0; col < d; col++ {
				sum += variance[row][col]
			}
		}
		mean := sum / float64(k*d)
		for row := 0; row < k; row++ {
			for col := 0; col < d; col++ {
				variance[row][col] = mean
			}
		}
	case gmm.TieCluster:
		// Per-cluster mean, isotropic within each component.
		for row := 0; row < k; row++ {
			var sum float64
			for col := 0; col < d; col++ {
				sum += variance[row][col]
			}
			mean := sum / float64(d)
			for col := 0; col < d; col++ {
				variance[row][col] = mean
			}
		}
	case gmm.TieNone:
		// No-op.
	}
}
