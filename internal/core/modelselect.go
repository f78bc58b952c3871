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

	"github.com/bitjungle/gogmm/pkg/gmm"
)

// primaryScoreMode picks the single scoring mode that actually drives
// winner selection when several are enabled at once, by priority:
// training-MDL (it alone drives early termination, so it takes
// precedence when requested), then held-out-LL, held-out-MDL,
// held-out correlation-difference, held-out max-membership. The other
// configured modes are still computed for each run, but they do not
// affect selection and are not returned in SelectResult.
func primaryScoreMode(modes []gmm.ScoreMode) gmm.ScoreMode {
	priority := []gmm.ScoreMode{
		gmm.ScoreTrainingMDL,
		gmm.ScoreHeldOutLL,
		gmm.ScoreHeldOutMDL,
		gmm.ScoreHeldOutCorrDiff,
		gmm.ScoreHeldOutMaxMembership,
	}
	set := make(map[gmm.ScoreMode]bool, len(modes))
	for _, m := range modes {
		set[m] = true
	}
	for _, m := range priority {
		if set[m] {
			return m
		}
	}
	return gmm.ScoreHeldOutLL
}

type runResult struct {
	k      int
	fit    *gmm.FitResult
	scores map[gmm.ScoreMode]float64
}

// Select is the model-selection controller: it sweeps a geometric grid
// of candidate K, runs num_tries_per_cluster_count restarts per K on
// fresh held-out splits, scores each run, and, when
// opts.RetrainWinnerOnFullData is set, retrains the winning K on the
// full dataset.
func Select(kMax int, x gmm.Matrix, opts gmm.Options, rng *rand.Rand) (*gmm.SelectResult, error) {
	if kMax < 1 {
		return nil, gmm.NewArgumentError("K_max must be >= 1", nil)
	}
	n := len(x)
	d := 0
	if n > 0 {
		d = len(x[0])
	}

	ks := geometricGrid(kMax, opts.NumClusterCountSamples)
	primary := primaryScoreMode(opts.ScoreModes)

	scoreSumByK := make(map[int]float64, len(ks))
	runsByK := make(map[int][]runResult, len(ks))

	var bestSoFar float64
	haveBest := false
	downwardStreak := 0

	for _, k := range ks {
		var reference *gmm.FitResult
		if primary == gmm.ScoreHeldOutCorrDiff || containsMode(opts.ScoreModes, gmm.ScoreHeldOutCorrDiff) {
			fullMask := make([]bool, n)
			ref, err := fitMethod(k, x, fullMask, opts, rng)
			if err != nil {
				return nil, err
			}
			reference = ref
		}

		var sumScore float64
		for try := 0; try < opts.NumTriesPerClusterCount; try++ {
			mask := sampleHeldOutMask(n, opts.HeldOutFraction, rng)
			fit, err := fitMethod(k, x, mask, opts, rng)
			if err != nil {
				return nil, err
			}

			scores := make(map[gmm.ScoreMode]float64, len(opts.ScoreModes))
			nHeld := countHeld(mask)
			for _, mode := range opts.ScoreModes {
				scores[mode] = score(mode, fit, mask, d, n, nHeld, opts.Method, opts.Tying, reference)
			}
			runsByK[k] = append(runsByK[k], runResult{k: k, fit: fit, scores: scores})
			sumScore += scores[primary]

			if primary == gmm.ScoreTrainingMDL {
				if !haveBest || scores[primary] > bestSoFar {
					bestSoFar = scores[primary]
					haveBest = true
					downwardStreak = 0
				} else {
					ratio := relativeToBest(scores[primary], bestSoFar)
					if ratio <= 0.95 {
						downwardStreak++
					} else {
						downwardStreak = 0
					}
					if ratio <= 0.80 {
						downwardStreak = opts.NumTriesPerClusterCount + 1
					}
				}
			}
		}
		scoreSumByK[k] = sumScore

		if primary == gmm.ScoreTrainingMDL && downwardStreak > opts.NumTriesPerClusterCount {
			break
		}
	}

	bestK, err := pickBestK(ks, scoreSumByK, primary)
	if err != nil {
		return nil, err
	}

	bestRun := pickBestRun(runsByK[bestK], primary)

	result := bestRun.fit
	if opts.RetrainWinnerOnFullData {
		retrainOpts := opts
		retrainOpts.MaxIterations = bestRun.fit.Iterations
		fullMask := make([]bool, n)
		retrained, err := fitMethod(bestK, x, fullMask, retrainOpts, rng)
		if err != nil {
			return nil, err
		}
		result = retrained
	}

	return &gmm.SelectResult{
		BestK:    bestK,
		Fit:      *result,
		ScoreByK: scoreSumByK,
	}, nil
}

func fitMethod(k int, x gmm.Matrix, mask []bool, opts gmm.Options, rng *rand.Rand) (*gmm.FitResult, error) {
	if opts.Method == gmm.Full {
		return FitFull(k, x, mask, opts, rng)
	}
	return FitDiagonal(k, x, mask, opts, rng)
}

func containsMode(modes []gmm.ScoreMode, target gmm.ScoreMode) bool {
	for _, m := range modes {
		if m == target {
			return true
		}
	}
	return false
}

func countHeld(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}

// relativeToBest expresses score relative to bestSoFar as a fraction.
func relativeToBest(score, best float64) float64 {
	if best == 0 {
		return 1
	}
	return score / best
}

func pickBestK(ks []int, scoreSumByK map[int]float64, mode gmm.ScoreMode) (int, error) {
	if len(ks) == 0 {
		return 0, gmm.NewArgumentError("no candidate component counts were evaluated", nil)
	}
	// score orients every mode so that higher is better (the
	// correlation difference is negated there), so the largest sum wins.
	best := ks[0]
	bestScore := scoreSumByK[best]
	for _, k := range ks[1:] {
		s, ok := scoreSumByK[k]
		if !ok {
			continue
		}
		if s > bestScore {
			best = k
			bestScore = s
		}
	}
	return best, nil
}

func pickBestRun(runs []runResult, mode gmm.ScoreMode) runResult {
	best := runs[0]
	for _, r := range runs[1:] {
		if r.scores[mode] > best.scores[mode] {
			best = r
		}
	}
	return best
}

// geometricGrid generates up to numSamples distinct component counts
// spaced geometrically from 2 to kMax inclusive.
func geometricGrid(kMax, numSamples int) []int {
	if kMax < 2 {
		if kMax < 1 {
			kMax = 1
		}
		return []int{kMax}
	}
	if numSamples < 1 {
		numSamples = 1
	}

	seen := make(map[int]bool, numSamples)
	var out []int
	logMin := math.Log(2)
	logMax := math.Log(float64(kMax))
	for i := 0; i < numSamples; i++ {
		var lv float64
		if numSamples == 1 {
			lv = logMax
		} else {
			t := float64(i) / float64(numSamples-1)
			lv = logMin + t*(logMax-logMin)
		}
		k := int(math.Round(math.Exp(lv)))
		if k < 2 {
			k = 2
		}
		if k > kMax {
			k = kMax
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Ints(out)
	return out
}

// sampleHeldOutMask draws a random subset of size floor(n*fraction) to
// hold out, with rejection sampling guaranteeing unique indices.
func sampleHeldOutMask(n int, fraction float64, rng *rand.Rand) []bool {
	mask := make([]bool, n)
	numHeld := int(float64(n) * fraction)
	if numHeld <= 0 || n == 0 {
		return mask
	}
	if numHeld >= n {
		numHeld = n - 1
	}
	chosen := make(map[int]bool, numHeld)
	for len(chosen) < numHeld {
		idx := rng.IntN(n)
		chosen[idx] = true
	}
	for idx := range chosen {
		mask[idx] = true
	}
	return mask
}
