// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"
	"math/rand/v2"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

// Whitener holds the per-feature mean and scale used to whiten a
// dataset to zero mean and a target standard deviation, and to
// un-whiten fitted parameters back into raw-data units. Narrowed to
// mean-center-and-rescale; the SNV/robust/vector-norm preprocessing
// modes a PCA pipeline would add are out of scope for this estimator.
type Whitener struct {
	mean  []float64
	scale []float64 // multiply raw values by scale to whiten
}

// FitWhitener computes per-feature mean and scale-to-target-stdev from
// x, skipping gmm.Missing entries when estimating each column's
// statistics.
func FitWhitener(x gmm.Matrix, targetStdev float64) *Whitener {
	d := len(x[0])
	w := &Whitener{mean: make([]float64, d), scale: make([]float64, d)}

	for col := 0; col < d; col++ {
		var sum float64
		var count float64
		for _, row := range x {
			if gmm.IsMissing(row[col]) {
				continue
			}
			sum += row[col]
			count++
		}
		mean := 0.0
		if count > 0 {
			mean = sum / count
		}
		var ss float64
		for _, row := range x {
			if gmm.IsMissing(row[col]) {
				continue
			}
			diff := row[col] - mean
			ss += diff * diff
		}
		stdev := 1.0
		if count > 1 {
			stdev = math.Sqrt(ss / (count - 1))
		}
		w.mean[col] = mean
		if stdev > 0 {
			w.scale[col] = targetStdev / stdev
		} else {
			w.scale[col] = 1
		}
	}
	return w
}

// Apply whitens x in place, leaving gmm.Missing entries untouched.
func (w *Whitener) Apply(x gmm.Matrix) {
	for _, row := range x {
		for col, v := range row {
			if gmm.IsMissing(v) {
				continue
			}
			row[col] = (v - w.mean[col]) * w.scale[col]
		}
	}
}

// UnwhitenMeans maps whitened-space means back into raw-data units.
func (w *Whitener) UnwhitenMeans(means gmm.Matrix) {
	for _, row := range means {
		for col, v := range row {
			row[col] = v/w.scale[col] + w.mean[col]
		}
	}
}

// UnwhitenVariances maps whitened-space diagonal variances back into
// raw-data units.
func (w *Whitener) UnwhitenVariances(variances gmm.Matrix) {
	for _, row := range variances {
		for col, v := range row {
			row[col] = v / (w.scale[col] * w.scale[col])
		}
	}
}

// UnwhitenCovariance maps a whitened-space covariance matrix back into
// raw-data units.
func (w *Whitener) UnwhitenCovariance(cov gmm.Matrix) {
	for a := range cov {
		for b := range cov[a] {
			cov[a][b] = cov[a][b] / (w.scale[a] * w.scale[b])
		}
	}
}

// Perturb adds independent uniform noise of magnitude +/-magnitude to
// every observed entry of x. A no-op when magnitude is 0.
func Perturb(x gmm.Matrix, magnitude float64, rng *rand.Rand) {
	if magnitude == 0 {
		return
	}
	for _, row := range x {
		for col, v := range row {
			if gmm.IsMissing(v) {
				continue
			}
			row[col] = v + (rng.Float64()*2-1)*magnitude
		}
	}
}
