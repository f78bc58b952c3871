// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"
	"testing"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

func variancesFixture() gmm.Matrix {
	return gmm.Matrix{
		{1, 2, 3},
		{4, 5, 6},
	}
}

func TestApplyTyingFeature(t *testing.T) {
	v := variancesFixture()
	applyTying(v, gmm.TieFeature)
	want := []float64{2.5, 3.5, 4.5}
	for col := 0; col < 3; col++ {
		for row := 0; row < 2; row++ {
			if math.Abs(v[row][col]-want[col]) > 1e-9 {
				t.Errorf("v[%d][%d] = %v, want %v", row, col, v[row][col], want[col])
			}
		}
	}
}

func TestApplyTyingAll(t *testing.T) {
	v := variancesFixture()
	applyTying(v, gmm.TieAll)
	want := 21.0 / 6.0
	for _, row := range v {
		for _, got := range row {
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("tied value = %v, want %v", got, want)
			}
		}
	}
}

func TestApplyTyingCluster(t *testing.T) {
	v := variancesFixture()
	applyTying(v, gmm.TieCluster)
	want := []float64{2, 5}
	for row := 0; row < 2; row++ {
		for _, got := range v[row] {
			if math.Abs(got-want[row]) > 1e-9 {
				t.Errorf("v[%d] = %v, want %v", row, got, want[row])
			}
		}
	}
}

func TestApplyTyingNoneIsNoop(t *testing.T) {
	v := variancesFixture()
	before := gmm.Matrix{append([]float64(nil), v[0]...), append([]float64(nil), v[1]...)}
	applyTying(v, gmm.TieNone)
	for i := range v {
		for j := range v[i] {
			if v[i][j] != before[i][j] {
				t.Errorf("TieNone modified v[%d][%d]", i, j)
			}
		}
	}
}
