// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

// backoffThreshold is the effective-count floor below which a
// full-covariance component is removed and its iteration restarted.
const backoffThreshold = 1.5

// FitFull is the full-covariance analogue of FitDiagonal: identical
// skeleton, but parameters are per-component D x D covariance matrices
// inverted via SVD, and components whose effective count drops below
// backoffThreshold are removed and the iteration restarted with a
// shrunken K, rather than merely warned about as the diagonal path
// does.
func FitFull(k int, x gmm.Matrix, heldOut []bool, opts gmm.Options, rng *rand.Rand) (*gmm.FitResult, error) {
	if err := validateFitInputs(k, x, heldOut, opts); err != nil {
		return nil, err
	}

	n := len(x)
	d := len(x[0])
	if heldOut == nil {
		heldOut = make([]bool, n)
	}

	weights := make([]float64, k)
	means := make(gmm.Matrix, k)
	cov := make([]gmm.Matrix, k)
	for i := range means {
		means[i] = make([]float64, d)
	}

	var warnings []string
	warnOnce := func(msg string) {
		for _, w := range warnings {
			if w == msg {
				return
			}
		}
		warnings = append(warnings, msg)
	}

	resp := make(gmm.Matrix, n)
	for i := range resp {
		resp[i] = make([]float64, k)
	}

	if opts.UseInitialized {
		copy(weights, opts.Initial.Weights)
		for i := range means {
			copy(means[i], opts.Initial.Means[i])
		}
		cov = append([]gmm.Matrix(nil), opts.Initial.Covariance...)
	} else {
		r0 := initResponsibilities(rng, n, k)
		for i, row := range r0 {
			copy(resp[i], row)
		}
		var err error
		cov, err = mStepFull(x, resp, heldOut, weights, means, opts, warnOnce)
		if err != nil {
			return nil, err
		}
	}

	var prevTrainLL, prevHeldLL float64
	iters := 0

	for iter := 0; iter < opts.MaxIterations; iter++ {
		invs, logDets, err := factorizeCovariances(cov, opts.VarOffset, opts.CovarianceMask)
		if err != nil {
			return nil, err
		}

		trainLL, heldLL, counts := eStepFull(x, heldOut, weights, means, invs, logDets, resp)
		iters = iter + 1

		removed := make([]int, 0)
		for j, c := range counts {
			if c < backoffThreshold {
				removed = append(removed, j)
			}
		}
		if len(removed) > 0 {
			weights, means, cov, resp = removeComponents(weights, means, cov, resp, removed)
			k = len(weights)
			if k == 0 {
				return nil, gmm.NewDegenerateModelError("all components were removed by empty-cluster back-off", nil)
			}
			for range removed {
				warnOnce("a component was removed by the empty-cluster back-off")
			}
			renormalizeRows(resp)
			continue
		}

		cov, err = mStepFull(x, resp, heldOut, weights, means, opts, warnOnce)
		if err != nil {
			return nil, err
		}

		var l, prevL float64
		switch opts.StopCriterion {
		case gmm.StopHeldOutLL:
			l, prevL = heldLL, prevHeldLL
		default:
			l, prevL = trainLL, prevTrainLL
		}
		if iter > 0 {
			denom := absf(l) + absf(prevL)
			if denom > 0 {
				delta := 2 * (l - prevL) / denom
				if absf(delta) < opts.IterationTolerance {
					prevTrainLL, prevHeldLL = trainLL, heldLL
					break
				}
			}
		}
		prevTrainLL, prevHeldLL = trainLL, heldLL
	}

	return &gmm.FitResult{
		Weights:               weights,
		Means:                 means,
		Covariance:            cov,
		Responsibilities:      resp,
		TrainingLogLikelihood: prevTrainLL,
		HeldOutLogLikelihood:  prevHeldLL,
		Iterations:            iters,
		Warnings:              warnings,
	}, nil
}

func eStepFull(x gmm.Matrix, heldOut []bool, weights []float64, means gmm.Matrix, invs []*mat.Dense, logDets []float64, resp gmm.Matrix) (trainLL, heldLL float64, effectiveCounts []float64) {
	k := len(weights)
	logWeights := make([]float64, k)
	for j, w := range weights {
		logWeights[j] = safeLog(w)
	}

	effectiveCounts = make([]float64, k)
	lambda := make([]float64, k)
	for n, row := range x {
		for j := 0; j < k; j++ {
			lambda[j] = logWeights[j] + fullCovDensity(row, means[j], invs[j], logDets[j])
		}
		lse := logNormalize(lambda)
		copy(resp[n], lambda)
		if heldOut[n] {
			heldLL += lse
		} else {
			trainLL += lse
			for j := 0; j < k; j++ {
				effectiveCounts[j] += lambda[j]
			}
		}
	}
	return trainLL, heldLL, effectiveCounts
}

// mStepFull recomputes per-component covariance from the current
// responsibilities.
func mStepFull(x gmm.Matrix, resp gmm.Matrix, heldOut []bool, weights []float64, means gmm.Matrix, opts gmm.Options, warnOnce func(string)) ([]gmm.Matrix, error) {
	k := len(weights)
	d := len(x[0])

	s := make([]float64, k)
	sumX := make(gmm.Matrix, k)
	for j := 0; j < k; j++ {
		sumX[j] = make([]float64, d)
	}
	for n, row := range x {
		if heldOut[n] {
			continue
		}
		for j := 0; j < k; j++ {
			r := resp[n][j]
			s[j] += r
			for col := 0; col < d; col++ {
				sumX[j][col] += r * row[col]
			}
		}
	}
	var total float64
	for _, sj := range s {
		total += sj
	}
	for j := 0; j < k; j++ {
		weights[j] = s[j] / total
		if s[j] <= minEffectiveCount {
			warnOnce("at least one cluster has no members")
			continue
		}
		for col := 0; col < d; col++ {
			means[j][col] = sumX[j][col] / s[j]
		}
	}

	cov := make([]gmm.Matrix, k)
	for j := 0; j < k; j++ {
		c := make(gmm.Matrix, d)
		for i := range c {
			c[i] = make([]float64, d)
		}
		if s[j] > minEffectiveCount {
			for n, row := range x {
				if heldOut[n] {
					continue
				}
				r := resp[n][j]
				if r == 0 {
					continue
				}
				for a := 0; a < d; a++ {
					da := row[a] - means[j][a]
					for b := 0; b < d; b++ {
						db := row[b] - means[j][b]
						c[a][b] += r * da * db
					}
				}
			}
			for a := 0; a < d; a++ {
				for b := 0; b < d; b++ {
					c[a][b] /= s[j]
				}
			}
		}
		if opts.CovarianceMask != nil {
			for a := 0; a < d; a++ {
				for b := 0; b < d; b++ {
					c[a][b] *= opts.CovarianceMask[a][b]
				}
			}
		}
		for a := 0; a < d; a++ {
			c[a][a] += opts.VarOffset
		}
		cov[j] = c
	}
	return cov, nil
}

func factorizeCovariances(cov []gmm.Matrix, varOffset float64, mask gmm.Matrix) ([]*mat.Dense, []float64, error) {
	invs := make([]*mat.Dense, len(cov))
	logDets := make([]float64, len(cov))
	for j, c := range cov {
		d := len(c)
		sym := mat.NewSymDense(d, nil)
		for a := 0; a < d; a++ {
			for b := a; b < d; b++ {
				sym.SetSym(a, b, c[a][b])
			}
		}
		inv, logDet, err := invertAndLogDet(sym)
		if err != nil {
			return nil, nil, err
		}
		invs[j] = inv
		logDets[j] = logDet
	}
	return invs, logDets, nil
}

func removeComponents(weights []float64, means gmm.Matrix, cov []gmm.Matrix, resp gmm.Matrix, removed []int) ([]float64, gmm.Matrix, []gmm.Matrix, gmm.Matrix) {
	remove := make(map[int]bool, len(removed))
	for _, idx := range removed {
		remove[idx] = true
	}

	newWeights := make([]float64, 0, len(weights)-len(removed))
	newMeans := make(gmm.Matrix, 0, len(means)-len(removed))
	newCov := make([]gmm.Matrix, 0, len(cov)-len(removed))
	keepIdx := make([]int, 0, len(weights)-len(removed))
	for j := range weights {
		if remove[j] {
			continue
		}
		newWeights = append(newWeights, weights[j])
		newMeans = append(newMeans, means[j])
		newCov = append(newCov, cov[j])
		keepIdx = append(keepIdx, j)
	}

	newResp := make(gmm.Matrix, len(resp))
	for n, row := range resp {
		newRow := make([]float64, len(keepIdx))
		for newJ, oldJ := range keepIdx {
			newRow[newJ] = row[oldJ]
		}
		newResp[n] = newRow
	}

	return newWeights, newMeans, newCov, newResp
}

func renormalizeRows(resp gmm.Matrix) {
	for i, row := range resp {
		var sum float64
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for j := range row {
			row[j] /= sum
		}
		resp[i] = row
	}
}
