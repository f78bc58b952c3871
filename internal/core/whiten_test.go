// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

func TestFitWhitenerAndApply(t *testing.T) {
	x := gmm.Matrix{{0}, {2}, {4}, {6}, {8}}
	w := FitWhitener(x, 1.0)
	w.Apply(x)

	var sum float64
	for _, row := range x {
		sum += row[0]
	}
	mean := sum / float64(len(x))
	if math.Abs(mean) > 1e-9 {
		t.Errorf("whitened mean = %v, want 0", mean)
	}

	var ss float64
	for _, row := range x {
		ss += row[0] * row[0]
	}
	stdev := math.Sqrt(ss / float64(len(x)-1))
	if math.Abs(stdev-1) > 1e-9 {
		t.Errorf("whitened stdev = %v, want 1", stdev)
	}
}

func TestFitWhitenerSkipsMissing(t *testing.T) {
	x := gmm.Matrix{{1}, {gmm.Missing}, {3}}
	w := FitWhitener(x, 1.0)
	if math.Abs(w.mean[0]-2) > 1e-9 {
		t.Errorf("mean ignoring missing = %v, want 2", w.mean[0])
	}
}

func TestWhitenUnwhitenRoundTrip(t *testing.T) {
	original := gmm.Matrix{{10, -5}, {20, 5}, {30, 15}, {40, 25}}
	x := gmm.Matrix{
		append([]float64(nil), original[0]...),
		append([]float64(nil), original[1]...),
		append([]float64(nil), original[2]...),
		append([]float64(nil), original[3]...),
	}

	w := FitWhitener(x, 2.0)
	w.Apply(x)

	means := gmm.Matrix{append([]float64(nil), x[0]...)}
	w.UnwhitenMeans(means)
	if math.Abs(means[0][0]-original[0][0]) > 1e-6 || math.Abs(means[0][1]-original[0][1]) > 1e-6 {
		t.Errorf("unwhitened point = %v, want %v", means[0], original[0])
	}
}

func TestUnwhitenVariancesScalesBySquare(t *testing.T) {
	w := &Whitener{mean: []float64{0}, scale: []float64{2}}
	variances := gmm.Matrix{{4}}
	w.UnwhitenVariances(variances)
	if math.Abs(variances[0][0]-1) > 1e-9 {
		t.Errorf("unwhitened variance = %v, want 1", variances[0][0])
	}
}

func TestPerturbNoOpAtZeroMagnitude(t *testing.T) {
	x := gmm.Matrix{{1, 2}, {3, 4}}
	before := gmm.Matrix{{1, 2}, {3, 4}}
	rng := rand.New(rand.NewPCG(1, 1))
	Perturb(x, 0, rng)
	for i := range x {
		for j := range x[i] {
			if x[i][j] != before[i][j] {
				t.Errorf("Perturb with magnitude 0 modified data at [%d][%d]", i, j)
			}
		}
	}
}

func TestPerturbLeavesMissingUntouched(t *testing.T) {
	x := gmm.Matrix{{gmm.Missing, 1}}
	rng := rand.New(rand.NewPCG(1, 1))
	Perturb(x, 1.0, rng)
	if !gmm.IsMissing(x[0][0]) {
		t.Errorf("Perturb should leave a missing entry untouched, got %v", x[0][0])
	}
}
