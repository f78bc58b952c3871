// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

func TestDiagLogDensityAtMean(t *testing.T) {
	mean := []float64{1, 2, 3}
	variance := []float64{1, 1, 1}
	got := diagLogDensity(mean, mean, variance)
	want := -1.5 * log2Pi
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("diagLogDensity at mean: got %v, want %v", got, want)
	}
}

func TestDiagLogDensitySkipsMissing(t *testing.T) {
	x := []float64{1, gmm.Missing, 3}
	mean := []float64{1, 2, 3}
	variance := []float64{1, 1, 1}
	got := diagLogDensity(x, mean, variance)
	want := -1.0 * log2Pi // only 2 observed dims contribute
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("diagLogDensity with missing: got %v, want %v", got, want)
	}
}

func TestInvertAndLogDetIdentity(t *testing.T) {
	sym := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	inv, logDet, err := invertAndLogDet(sym)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(logDet) > 1e-9 {
		t.Errorf("log-det of identity: got %v, want 0", logDet)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(inv.At(i, j)-want) > 1e-9 {
				t.Errorf("inv[%d][%d] = %v, want %v", i, j, inv.At(i, j), want)
			}
		}
	}
}

func TestInvertAndLogDetSingular(t *testing.T) {
	sym := mat.NewSymDense(2, []float64{1, 1, 1, 1})
	if _, _, err := invertAndLogDet(sym); err == nil {
		t.Fatal("expected an error for a rank-deficient matrix")
	}
}

func TestFullCovDensityMatchesDiagonal(t *testing.T) {
	mean := []float64{0, 0}
	x := []float64{1, -1}
	variance := []float64{2, 3}
	diag := diagLogDensity(x, mean, variance)

	sym := mat.NewSymDense(2, []float64{2, 0, 0, 3})
	inv, logDet, err := invertAndLogDet(sym)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	full := fullCovDensity(x, mean, inv, logDet)

	if math.Abs(diag-full) > 1e-9 {
		t.Errorf("diagonal and full density disagree on a diagonal covariance: %v vs %v", diag, full)
	}
}
