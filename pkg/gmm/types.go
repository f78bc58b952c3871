// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

// Package gmm provides the public surface of the Gaussian Mixture Model
// EM engine: the feature-matrix type, fit/selection configuration and
// results, and the error taxonomy. Package internal/core holds the
// estimator itself.
package gmm

import "math"

// Matrix represents a dense N x D real-valued data matrix.
type Matrix [][]float64

// Missing is the sentinel value used in place of an observed feature
// when the missing-data variant is enabled. Any element equal to
// Missing (compared with math.IsNaN, since the sentinel is a NaN
// payload) is treated as unobserved rather than zero.
var Missing = math.NaN()

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Method selects the covariance family fit by the estimator.
type Method string

const (
	// Diagonal fits per-component, per-feature variances.
	Diagonal Method = "diagonal"
	// Full fits per-component D x D covariance matrices.
	Full Method = "full"
)

// StopCriterion selects which log-likelihood series drives the EM
// relative-change stopping rule.
type StopCriterion string

const (
	// StopTrainingLL stops on the training log-likelihood series.
	StopTrainingLL StopCriterion = "training_ll"
	// StopHeldOutLL stops on the held-out log-likelihood series.
	StopHeldOutLL StopCriterion = "held_out_ll"
)

// TyingMode selects a variance-tying scheme for the diagonal variant.
// At most one mode applies; TieNone leaves per-component, per-feature
// variances independent.
type TyingMode string

const (
	// TieNone applies no tying.
	TieNone TyingMode = "none"
	// TieAll ties every variance entry to one grand mean.
	TieAll TyingMode = "all"
	// TieFeature ties variances across components, per feature.
	TieFeature TyingMode = "feature"
	// TieCluster ties variances across features, per component
	// (isotropic per cluster).
	TieCluster TyingMode = "cluster"
)

// ScoreMode selects a model-selection scoring criterion.
type ScoreMode string

const (
	// ScoreTrainingMDL scores by training log-likelihood minus a BIC
	// penalty.
	ScoreTrainingMDL ScoreMode = "training_mdl"
	// ScoreHeldOutLL scores by raw held-out log-likelihood.
	ScoreHeldOutLL ScoreMode = "held_out_ll"
	// ScoreHeldOutMDL scores by held-out log-likelihood minus a BIC
	// penalty evaluated at the held-out sample count.
	ScoreHeldOutMDL ScoreMode = "held_out_mdl"
	// ScoreHeldOutCorrDiff scores by a held-out responsibility
	// stability measure; lower is better.
	ScoreHeldOutCorrDiff ScoreMode = "held_out_corr_diff"
	// ScoreHeldOutMaxMembership scores by summed maximum responsibility
	// over held-out points.
	ScoreHeldOutMaxMembership ScoreMode = "held_out_max_membership"
)

// InitialParams is an optional warm start for a single EM run. Weights,
// Means, and either Variances (diagonal) or Covariance (full) must be
// supplied together; with use_initialized set, the estimator fails with
// a configuration error if Initial is nil and with a dimension error if
// a required field is missing or does not match K and D.
type InitialParams struct {
	Weights    []float64 // length K
	Means      Matrix    // K x D
	Variances  Matrix    // K x D, diagonal variant only
	Covariance []Matrix  // K matrices, each D x D, full variant only
}

// Options is the explicit, validated configuration consumed by every
// EM run. It mirrors the process-wide option store (internal/config)
// but is always passed explicitly; the global store is a compatibility
// layer, never the source of truth for any one call.
type Options struct {
	Method Method

	// Iteration control.
	MaxIterations      int
	IterationTolerance float64
	StopCriterion      StopCriterion

	// Numerical stability.
	VarOffset               float64
	UseUnbiasedVarEstimate  bool
	Tying                   TyingMode
	CovarianceMask          Matrix // full variant only, optional
	HandleMissing           bool

	// Warm start.
	UseInitialized bool
	Initial        *InitialParams

	// Held-out data.
	HeldOutFraction float64
	HeldOutMask     []bool // optional explicit mask, length N

	// Public-facade pre-processing.
	DataPerturbation float64 // 0 disables
	NormalizeData    bool
	NormStdev        float64

	// Feature cropping, applied before fitting.
	CropFeatureDimensions  bool
	CropDimensionsLeft     int
	CropDimensionsRight    int

	// Model-selection controller.
	NumTriesPerClusterCount  int
	NumClusterCountSamples   int
	ScoreModes               []ScoreMode
	RetrainWinnerOnFullData  bool

	// Concurrency.
	NumWorkers int // 1 disables the parallel E-step

	// Seed drives every pseudo-random draw (initialization, held-out
	// mask sampling, restarts) so a fixed seed reproduces a run exactly.
	Seed uint64
}

// DefaultOptions returns the option defaults enumerated in the
// configuration table, matching the defaults of internal/config.NewStore.
func DefaultOptions() Options {
	return Options{
		Method:                  Diagonal,
		MaxIterations:           20,
		IterationTolerance:      1e-6,
		StopCriterion:           StopTrainingLL,
		VarOffset:               1e-4,
		UseUnbiasedVarEstimate:  false,
		Tying:                   TieNone,
		HandleMissing:           false,
		UseInitialized:          false,
		HeldOutFraction:         0.1,
		NormalizeData:           false,
		NormStdev:               1.0,
		NumTriesPerClusterCount: 1,
		NumClusterCountSamples:  30,
		ScoreModes: []ScoreMode{
			ScoreHeldOutLL,
			ScoreHeldOutCorrDiff,
			ScoreHeldOutMaxMembership,
		},
		RetrainWinnerOnFullData: true,
		NumWorkers:              1,
	}
}

// FitResult holds everything a single EM run produces.
type FitResult struct {
	Weights              []float64 // length K
	Means                Matrix    // K x D
	Variances            Matrix    // K x D, diagonal variant
	Covariance           []Matrix  // K matrices D x D, full variant
	Responsibilities     Matrix    // N x K
	TrainingLogLikelihood float64
	HeldOutLogLikelihood  float64
	Iterations            int
	Warnings              []string
}

// SelectResult holds the outcome of the model-selection controller,
// including the winning component count and, if
// RetrainWinnerOnFullData was set, parameters retrained on the full
// dataset.
type SelectResult struct {
	BestK   int
	Fit     FitResult
	ScoreByK map[int]float64
}
