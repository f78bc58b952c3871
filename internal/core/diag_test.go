// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

// twoClusterFixture builds a well-separated 1-D, two-component dataset
// so a diagonal fit at K=2 should recover means near -5 and +5.
func twoClusterFixture() gmm.Matrix {
	offsets := []float64{-0.3, -0.1, 0.1, 0.3}
	var x gmm.Matrix
	for _, o := range offsets {
		x = append(x, []float64{-5 + o})
		x = append(x, []float64{5 + o})
	}
	return x
}

func sortedMeans(means gmm.Matrix) []float64 {
	out := make([]float64, len(means))
	for i, row := range means {
		out[i] = row[0]
	}
	sort.Float64s(out)
	return out
}

func TestFitDiagonalRecoversWellSeparatedClusters(t *testing.T) {
	x := twoClusterFixture()
	opts := gmm.DefaultOptions()
	opts.MaxIterations = 50
	rng := rand.New(rand.NewPCG(7, 7))

	result, err := FitDiagonal(2, x, nil, opts, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	means := sortedMeans(result.Means)
	if math.Abs(means[0]-(-5)) > 1.0 {
		t.Errorf("lower cluster mean = %v, want near -5", means[0])
	}
	if math.Abs(means[1]-5) > 1.0 {
		t.Errorf("upper cluster mean = %v, want near 5", means[1])
	}
}

func TestFitDiagonalBoundaryInitializedZeroIterations(t *testing.T) {
	x := twoClusterFixture()
	opts := gmm.DefaultOptions()
	opts.MaxIterations = 0
	opts.UseInitialized = true
	opts.Initial = &gmm.InitialParams{
		Weights:   []float64{0.5, 0.5},
		Means:     gmm.Matrix{{-5}, {5}},
		Variances: gmm.Matrix{{1}, {1}},
	}
	rng := rand.New(rand.NewPCG(1, 1))

	result, err := FitDiagonal(2, x, nil, opts, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Iterations != 0 {
		t.Errorf("iterations = %d, want 0", result.Iterations)
	}
	if result.Means[0][0] != -5 || result.Means[1][0] != 5 {
		t.Errorf("means should be returned unchanged: got %v", result.Means)
	}
}

func TestFitDiagonalWithTyingProducesEqualVariances(t *testing.T) {
	x := twoClusterFixture()
	opts := gmm.DefaultOptions()
	opts.MaxIterations = 30
	opts.Tying = gmm.TieAll
	rng := rand.New(rand.NewPCG(3, 3))

	result, err := FitDiagonal(2, x, nil, opts, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v0 := result.Variances[0][0]
	for _, row := range result.Variances {
		for _, v := range row {
			if math.Abs(v-v0) > 1e-9 {
				t.Errorf("tied variances differ: %v vs %v", v, v0)
			}
		}
	}
}

func TestFitDiagonalWithMissingData(t *testing.T) {
	x := twoClusterFixture()
	x[0][0] = gmm.Missing

	opts := gmm.DefaultOptions()
	opts.MaxIterations = 30
	opts.HandleMissing = true
	rng := rand.New(rand.NewPCG(9, 9))

	result, err := FitDiagonal(2, x, nil, opts, rng)
	if err != nil {
		t.Fatalf("unexpected error with missing data: %v", err)
	}
	if len(result.Weights) != 2 {
		t.Fatalf("expected 2 components, got %d", len(result.Weights))
	}
}

func TestFitDiagonalRejectsInvalidInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	_, err := FitDiagonal(0, gmm.Matrix{{1}}, nil, gmm.DefaultOptions(), rng)
	if err == nil {
		t.Error("expected an error for K=0")
	}
}

func TestFitDiagonalHeldOutLogLikelihoodComputed(t *testing.T) {
	x := twoClusterFixture()
	heldOut := make([]bool, len(x))
	heldOut[0] = true
	heldOut[1] = true

	opts := gmm.DefaultOptions()
	opts.MaxIterations = 20
	rng := rand.New(rand.NewPCG(5, 5))

	result, err := FitDiagonal(2, x, heldOut, opts, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HeldOutLogLikelihood == 0 {
		t.Error("expected a nonzero held-out log-likelihood with a nonempty held-out mask")
	}
}
