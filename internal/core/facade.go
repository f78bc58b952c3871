// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math/rand/v2"

	"github.com/bitjungle/gogmm/internal/utils"
	"github.com/bitjungle/gogmm/pkg/gmm"
)

// Fit is the public façade's single-fit entry point: it optionally
// crops feature columns, perturbs the input, whitens each feature
// column to zero mean and standard deviation opts.NormStdev, calls FitDiagonal
// or FitFull per opts.Method, then un-whitens the returned means and
// (co)variances before returning.
func Fit(k int, x gmm.Matrix, opts gmm.Options) (*gmm.FitResult, error) {
	data, whitener, err := prepare(x, opts)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var result *gmm.FitResult
	if opts.Method == gmm.Full {
		result, err = FitFull(k, data, opts.HeldOutMask, opts, rng)
	} else {
		result, err = FitDiagonal(k, data, opts.HeldOutMask, opts, rng)
	}
	if err != nil {
		return nil, err
	}

	unwhiten(result, whitener)
	return result, nil
}

// FitAndSelect is the public façade's model-selection entry point: the
// same pre/post-processing as Fit, wrapped around Select.
func FitAndSelect(kMax int, x gmm.Matrix, opts gmm.Options) (*gmm.SelectResult, error) {
	data, whitener, err := prepare(x, opts)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	result, err := Select(kMax, data, opts, rng)
	if err != nil {
		return nil, err
	}

	unwhiten(&result.Fit, whitener)
	return result, nil
}

// prepare applies cropping, perturbation, and whitening to a working
// copy of x, returning the whitener used (nil when normalize_data is
// unset) so the caller can un-whiten the result afterward.
func prepare(x gmm.Matrix, opts gmm.Options) (gmm.Matrix, *Whitener, error) {
	if len(x) == 0 {
		return nil, nil, gmm.NewArgumentError("data matrix must have at least one row", nil)
	}

	data := cloneMatrix(x)

	if opts.CropFeatureDimensions {
		cropped, err := utils.CropFeatures(data, opts.CropDimensionsLeft, opts.CropDimensionsRight)
		if err != nil {
			return nil, nil, gmm.NewArgumentError("feature cropping failed", err)
		}
		data = cropped
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	if opts.DataPerturbation != 0 {
		Perturb(data, opts.DataPerturbation, rng)
	}

	var whitener *Whitener
	if opts.NormalizeData {
		whitener = FitWhitener(data, opts.NormStdev)
		whitener.Apply(data)
	}

	return data, whitener, nil
}

func unwhiten(result *gmm.FitResult, whitener *Whitener) {
	if whitener == nil {
		return
	}
	if result.Means != nil {
		whitener.UnwhitenMeans(result.Means)
	}
	if result.Variances != nil {
		whitener.UnwhitenVariances(result.Variances)
	}
	for _, cov := range result.Covariance {
		whitener.UnwhitenCovariance(cov)
	}
}

func cloneMatrix(x gmm.Matrix) gmm.Matrix {
	out := make(gmm.Matrix, len(x))
	for i, row := range x {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
