// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

// score evaluates one run under one scoring mode. heldOut marks which
// rows of result.Responsibilities were excluded from training; the
// held-out-only modes restrict their sums to those rows.
// Lower-is-better modes (correlation-difference) are negated so every
// mode's score can be maximized uniformly by the controller.
func score(mode gmm.ScoreMode, result *gmm.FitResult, heldOut []bool, d, n, nHeld int, method gmm.Method, tying gmm.TyingMode, reference *gmm.FitResult) float64 {
	switch mode {
	case gmm.ScoreTrainingMDL:
		return result.TrainingLogLikelihood - Penalty(len(result.Weights), d, n, method, tying)
	case gmm.ScoreHeldOutLL:
		return result.HeldOutLogLikelihood
	case gmm.ScoreHeldOutMDL:
		return result.HeldOutLogLikelihood - Penalty(len(result.Weights), d, nHeld, method, tying)
	case gmm.ScoreHeldOutCorrDiff:
		return -correlationDifference(result, reference, heldOut)
	case gmm.ScoreHeldOutMaxMembership:
		return maxMembershipSum(result, heldOut)
	default:
		return 0
	}
}

// maxMembershipSum implements the held-out maximum-membership score:
// the sum, over held-out points, of the largest responsibility in that
// point's row.
func maxMembershipSum(result *gmm.FitResult, heldOut []bool) float64 {
	var sum float64
	for i, row := range result.Responsibilities {
		if i >= len(heldOut) || !heldOut[i] {
			continue
		}
		var max float64
		for _, v := range row {
			if v > max {
				max = v
			}
		}
		sum += max
	}
	return sum
}

// correlationDifference compares per-point, L2-normalized
// responsibility vectors between a held-out-trained model and a
// reference model trained on the full data at the same K, restricted
// to the rows heldOut marks. A chi-squared stability bound flags a run
// whose squared deviation exceeds the 95th percentile of a chi-squared
// distribution with degrees of freedom equal to the number of compared
// points as unstable by returning the maximum possible difference
// (2.0, the L2 distance between orthogonal unit vectors) rather than a
// possibly-spurious low value.
func correlationDifference(a, b *gmm.FitResult, heldOut []bool) float64 {
	n := len(a.Responsibilities)
	if n == 0 || len(b.Responsibilities) != n || len(heldOut) != n {
		return 2.0
	}

	var total, sumSq float64
	var count int
	for i := range a.Responsibilities {
		if !heldOut[i] {
			continue
		}
		va := l2Normalize(a.Responsibilities[i])
		vb := l2Normalize(b.Responsibilities[i])
		diff := l2Distance(va, vb)
		total += diff
		sumSq += diff * diff
		count++
	}
	if count == 0 {
		return 0
	}
	mean := total / float64(count)

	chi2 := distuv.ChiSquared{K: float64(count)}
	bound := chi2.Quantile(0.95)
	if sumSq > bound*mean*mean/float64(count) && count > 1 {
		return 2.0
	}
	return mean
}

func l2Normalize(v []float64) []float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	out := make([]float64, len(v))
	if sumSq == 0 {
		return out
	}
	scale := 1.0 / math.Sqrt(sumSq)
	for i, x := range v {
		out[i] = x * scale
	}
	return out
}

func l2Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
