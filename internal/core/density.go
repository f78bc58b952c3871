// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

const log2Pi = 1.8378770664093453 // math.Log(2*math.Pi)

// diagLogDensity computes log N(x | mean, diag(variance)), including the
// constant -(d/2)*log(2*pi), where d counts the observed entries of x.
// x, mean, and variance are equal-length
// feature vectors. Entries of x equal to gmm.Missing are skipped
// entirely, implementing the missing-data E-step.
func diagLogDensity(x, mean, variance []float64) float64 {
	var quad, logDet float64
	d := 0
	for i, xi := range x {
		if gmm.IsMissing(xi) {
			continue
		}
		diff := xi - mean[i]
		quad += diff * diff / variance[i]
		logDet += math.Log(variance[i])
		d++
	}
	return -0.5*quad - 0.5*logDet - 0.5*float64(d)*log2Pi
}

// fullCovDensity is the full-covariance analogue of diagLogDensity,
// consuming a precomputed inverse covariance and log-determinant
// (computed once per M-step in FitFull, not per point). Missing
// features are not supported by the full-covariance path; only the
// diagonal variant handles missing data.
func fullCovDensity(x, mean []float64, inv *mat.Dense, logDet float64) float64 {
	d := len(x)
	diff := mat.NewVecDense(d, nil)
	for i := range x {
		diff.SetVec(i, x[i]-mean[i])
	}
	var tmp mat.VecDense
	tmp.MulVec(inv, diff)
	quad := mat.Dot(diff, &tmp)
	return -0.5*quad - 0.5*logDet - 0.5*float64(d)*log2Pi
}

// invertAndLogDet inverts a symmetric positive-(semi)definite matrix
// via its SVD and returns the log-determinant. Returns an error if the
// singular values indicate the matrix is not full rank.
func invertAndLogDet(cov *mat.SymDense) (*mat.Dense, float64, error) {
	d := cov.SymmetricDim()

	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDFull); !ok {
		return nil, 0, gmm.NewDegenerateModelError("SVD factorization failed", nil)
	}

	values := svd.Values(nil)
	for _, v := range values {
		if v <= 0 {
			return nil, 0, gmm.NewDegenerateModelError("covariance does not have full rank", nil)
		}
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	logDet := 0.0
	invValues := make([]float64, d)
	for i, s := range values {
		logDet += math.Log(s)
		invValues[i] = 1.0 / s
	}

	// inv = V * diag(1/s) * U^T
	scaledV := mat.NewDense(d, d, nil)
	scaledV.Apply(func(i, j int, val float64) float64 {
		return v.At(i, j) * invValues[j]
	}, &v)

	inv := mat.NewDense(d, d, nil)
	inv.Mul(scaledV, u.T())

	return inv, logDet, nil
}
