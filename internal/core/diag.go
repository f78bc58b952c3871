// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

// safeLog clamps the argument to a positive value before taking its
// log: a weight of exactly 0 (an empty component) maps to -Inf rather
// than NaN, so it is excluded from every subsequent log-sum-exp
// without special-casing.
func safeLog(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return math.Log(x)
}

const minEffectiveCount = 10 * 2.220446049250313e-16 // 10*epsilon floor on a component's effective count

// FitDiagonal is the single parameterized diagonal-covariance EM
// routine: one implementation covers single- and multi-restart fits,
// missing-data handling, and parallel E-steps, rather than a family of
// near-duplicate entry points. heldOut and opts.Initial are both
// optional; opts.NumWorkers > 1 selects the parallel E-step, and
// opts.HandleMissing selects the missing-data variant.
func FitDiagonal(k int, x gmm.Matrix, heldOut []bool, opts gmm.Options, rng *rand.Rand) (*gmm.FitResult, error) {
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
	variances := make(gmm.Matrix, k)
	for i := range means {
		means[i] = make([]float64, d)
		variances[i] = make([]float64, d)
	}
	resp := make(gmm.Matrix, n)
	for i := range resp {
		resp[i] = make([]float64, k)
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

	if opts.UseInitialized {
		copy(weights, opts.Initial.Weights)
		for i := range means {
			copy(means[i], opts.Initial.Means[i])
			copy(variances[i], opts.Initial.Variances[i])
		}
	} else {
		r0 := initResponsibilities(rng, n, k)
		for i, row := range r0 {
			copy(resp[i], row)
		}
		mStep(x, resp, heldOut, weights, means, variances, opts, warnOnce)
	}

	// With use_initialized set and max_iterations=0, the loop below runs
	// zero times and weights/means/variances are returned exactly as
	// supplied.
	var prevTrainLL, prevHeldLL float64
	iters := 0

	for iter := 0; iter < opts.MaxIterations; iter++ {
		trainLL, heldLL := eStep(x, heldOut, weights, means, variances, resp, opts)
		iters = iter + 1

		mStep(x, resp, heldOut, weights, means, variances, opts, warnOnce)

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
			if l < prevL {
				warnOnce("log-likelihood decreased across an iteration")
			}
		}
		prevTrainLL, prevHeldLL = trainLL, heldLL
	}

	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}
	if absf(weightSum-1) > 1e-5 {
		warnOnce("sum of mixing weights drifted from 1")
	}

	return &gmm.FitResult{
		Weights:               weights,
		Means:                 means,
		Variances:             variances,
		Responsibilities:      resp,
		TrainingLogLikelihood: prevTrainLL,
		HeldOutLogLikelihood:  prevHeldLL,
		Iterations:            iters,
		Warnings:              warnings,
	}, nil
}

// eStep computes responsibilities and log-likelihood contributions for
// every point, dispatching to the parallel path when opts.NumWorkers>1.
func eStep(x gmm.Matrix, heldOut []bool, weights []float64, means, variances gmm.Matrix, resp gmm.Matrix, opts gmm.Options) (trainLL, heldLL float64) {
	n := len(x)
	k := len(weights)

	logWeights := make([]float64, k)
	for j, w := range weights {
		logWeights[j] = safeLog(w)
	}

	workers := opts.NumWorkers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 || n < workers {
		return eStepBlock(x, heldOut, logWeights, means, variances, resp, 0, n)
	}

	blockSize := (n + workers - 1) / workers
	var mu sync.Mutex
	var wg sync.WaitGroup
	for start := 0; start < n; start += blockSize {
		end := start + blockSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			localTrain, localHeld := eStepBlock(x, heldOut, logWeights, means, variances, resp, start, end)
			mu.Lock()
			trainLL += localTrain
			heldLL += localHeld
			mu.Unlock()
		}(start, end)
	}
	wg.Wait()
	return trainLL, heldLL
}

func eStepBlock(x gmm.Matrix, heldOut []bool, logWeights []float64, means, variances gmm.Matrix, resp gmm.Matrix, start, end int) (trainLL, heldLL float64) {
	k := len(logWeights)
	lambda := make([]float64, k)
	for n := start; n < end; n++ {
		for j := 0; j < k; j++ {
			lambda[j] = logWeights[j] + diagLogDensity(x[n], means[j], variances[j])
		}
		lse := logNormalize(lambda)
		copy(resp[n], lambda)
		if heldOut[n] {
			heldLL += lse
		} else {
			trainLL += lse
		}
	}
	return trainLL, heldLL
}

// mStep updates weights, means, and variances from the current
// responsibilities, applying variance tying and the variance floor.
// When opts.HandleMissing is set it defers to the per-(k,d)
// effective-count accounting of missing.go.
func mStep(x gmm.Matrix, resp gmm.Matrix, heldOut []bool, weights []float64, means, variances gmm.Matrix, opts gmm.Options, warnOnce func(string)) {
	if opts.HandleMissing {
		mStepMissing(x, resp, heldOut, weights, means, variances, opts, warnOnce)
		applyTying(variances, opts.Tying)
		addVarOffset(variances, opts.VarOffset)
		return
	}

	k := len(weights)
	d := len(x[0])

	s := make([]float64, k)
	sSquared := make([]float64, k)
	sumX := make(gmm.Matrix, k)
	sumXX := make(gmm.Matrix, k)
	for j := 0; j < k; j++ {
		sumX[j] = make([]float64, d)
		sumXX[j] = make([]float64, d)
	}

	var totalWeight float64
	for n, row := range x {
		if heldOut[n] {
			continue
		}
		for j := 0; j < k; j++ {
			r := resp[n][j]
			s[j] += r
			sSquared[j] += r * r
			for col := 0; col < d; col++ {
				sumX[j][col] += r * row[col]
				sumXX[j][col] += r * row[col] * row[col]
			}
		}
	}
	for _, sj := range s {
		totalWeight += sj
	}

	emptyCluster := false
	for j := 0; j < k; j++ {
		weights[j] = s[j] / totalWeight

		if s[j] <= minEffectiveCount {
			emptyCluster = true
			continue
		}
		for col := 0; col < d; col++ {
			mean := sumX[j][col] / s[j]
			means[j][col] = mean
			v := sumXX[j][col]/s[j] - mean*mean
			if v < 0 {
				v = 0
				warnOnce("variance became negative by round-off and was clamped to 0")
			}
			if opts.UseUnbiasedVarEstimate && s[j] > sSquared[j] {
				v = v / (1 - sSquared[j]/(s[j]*s[j]))
			}
			variances[j][col] = v
		}
	}
	if emptyCluster {
		warnOnce("at least one cluster has no members")
	}

	applyTying(variances, opts.Tying)
	addVarOffset(variances, opts.VarOffset)
}

func addVarOffset(variances gmm.Matrix, offset float64) {
	for _, row := range variances {
		for i := range row {
			row[i] += offset
		}
	}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
