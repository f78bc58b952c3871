// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import "math/rand/v2"

// initResponsibilities builds the N x K initial responsibility matrix,
// using an explicit *rand.Rand rather than the package-level generator
// so model-selection sweeps stay reproducible given a seed. For each
// point: draw a random K-vector, divide by 20*N, set exactly one
// uniformly-chosen component to 1.0, add a uniform perturbation of
// magnitude <= 0.2/K, then normalize to sum 1.
func initResponsibilities(rng *rand.Rand, n, k int) [][]float64 {
	r := make([][]float64, n)
	scale := 1.0 / (20.0 * float64(n))
	perturb := 0.2 / float64(k)

	for i := 0; i < n; i++ {
		row := make([]float64, k)
		for j := range row {
			row[j] = rng.Float64() * scale
		}
		chosen := rng.IntN(k)
		row[chosen] = 1.0

		for j := range row {
			row[j] += rng.Float64() * perturb
		}

		var sum float64
		for _, v := range row {
			sum += v
		}
		for j := range row {
			row[j] /= sum
		}
		r[i] = row
	}
	return r
}
