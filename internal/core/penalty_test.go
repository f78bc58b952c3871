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

func TestPenaltyDiagonalTyingIncreasesWithFreeParams(t *testing.T) {
	k, d, n := 3, 4, 100

	none := Penalty(k, d, n, gmm.Diagonal, gmm.TieNone)
	feature := Penalty(k, d, n, gmm.Diagonal, gmm.TieFeature)
	all := Penalty(k, d, n, gmm.Diagonal, gmm.TieAll)

	if !(all < feature && feature < none) {
		t.Errorf("expected all < feature < none, got all=%v feature=%v none=%v", all, feature, none)
	}
}

func TestPenaltyFullExceedsDiagonal(t *testing.T) {
	k, d, n := 2, 3, 50
	diag := Penalty(k, d, n, gmm.Diagonal, gmm.TieNone)
	full := Penalty(k, d, n, gmm.Full, gmm.TieNone)
	if full <= diag {
		t.Errorf("full-covariance penalty (%v) should exceed diagonal (%v) for d>1", full, diag)
	}
}

func TestPenaltyLegacyScalesByLogND(t *testing.T) {
	k, d, n := 2, 3, 50
	got := PenaltyLegacy(k, d, n, gmm.TieNone)
	numParams := float64(k)*(2*float64(d)+1) - 1
	want := 0.5 * numParams * math.Log(float64(n)*float64(d))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PenaltyLegacy = %v, want %v", got, want)
	}
}
