// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package gmm

import (
	"fmt"
)

// ErrorType categorizes the errors the estimator can return, per the
// taxonomy in the error-handling design: argument, degenerate model,
// resource, and convergence failures.
type ErrorType string

const (
	// ErrArgument indicates an invalid input shape or parameter, e.g. K<1.
	ErrArgument ErrorType = "argument"
	// ErrDegenerateModel indicates a model that cannot be fit as configured:
	// rank-deficient covariance, or all components removed by back-off.
	ErrDegenerateModel ErrorType = "degenerate_model"
	// ErrResource indicates an allocation failure.
	ErrResource ErrorType = "resource"
	// ErrConfiguration indicates an invalid option value.
	ErrConfiguration ErrorType = "configuration"
	// ErrNotFitted indicates a model hasn't been fitted yet.
	ErrNotFitted ErrorType = "not_fitted"
	// ErrDimension indicates a dimension mismatch between inputs.
	ErrDimension ErrorType = "dimension"
	// ErrMissingData indicates an unrecoverable missing-data condition,
	// e.g. a feature column that is missing in every row.
	ErrMissingData ErrorType = "missing_data"
	// ErrConvergence indicates the estimator could not produce a result,
	// distinct from simply hitting max_iterations (which is not an error).
	ErrConvergence ErrorType = "convergence"
)

// Error is the structured error type returned by every estimator entry
// point. No exceptions are used; every compound operation returns a
// status, and partial outputs are discarded on error.
type Error struct {
	Type    ErrorType
	Message string
	Context map[string]interface{}
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewArgumentError creates a new argument error.
func NewArgumentError(message string, cause error) *Error {
	return &Error{Type: ErrArgument, Message: message, Cause: cause}
}

// NewDegenerateModelError creates a new degenerate-model error.
func NewDegenerateModelError(message string, cause error) *Error {
	return &Error{Type: ErrDegenerateModel, Message: message, Cause: cause}
}

// NewResourceError creates a new resource error.
func NewResourceError(message string, cause error) *Error {
	return &Error{Type: ErrResource, Message: message, Cause: cause}
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(message string, cause error) *Error {
	return &Error{Type: ErrConfiguration, Message: message, Cause: cause}
}

// NewNotFittedError creates a new not-fitted error.
func NewNotFittedError(message string) *Error {
	return &Error{Type: ErrNotFitted, Message: message}
}

// NewDimensionError creates a new dimension-mismatch error.
func NewDimensionError(message string, expected, actual int) *Error {
	return &Error{
		Type:    ErrDimension,
		Message: message,
		Context: map[string]interface{}{"expected": expected, "actual": actual},
	}
}

// NewMissingDataError creates a new missing-data error.
func NewMissingDataError(message string, location map[string]int) *Error {
	ctx := make(map[string]interface{}, len(location))
	for k, v := range location {
		ctx[k] = v
	}
	return &Error{Type: ErrMissingData, Message: message, Context: ctx}
}

// NewConvergenceError creates a new convergence error.
func NewConvergenceError(message string, iterations int) *Error {
	return &Error{
		Type:    ErrConvergence,
		Message: message,
		Context: map[string]interface{}{"iterations": iterations},
	}
}
