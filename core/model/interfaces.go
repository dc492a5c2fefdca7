// Package model provides additional interfaces and types for machine learning models.
// This file complements the existing interfaces in estimator.go
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Estimator is the base interface for all estimators.
// An estimator can be fit to data and reports whether fitting has completed.
type Estimator interface {
	Fitter

	// IsFitted reports whether Fit has completed successfully.
	IsFitted() bool

	// Reset returns the estimator to its unfitted state.
	Reset()
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Regressor combines interfaces for regression models.
type Regressor interface {
	Estimator
	Predictor
	Scorer
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
