// Package cfrac provides continued fraction regression for Go, a boosting
// scheme that stacks linear models into a nested rational approximation of
// the target.
//
// A fitted model has the form
//
//	f(x) = g0(x) + 1/(g1(x) + 1/(g2(x) + ...)) - corrections
//
// where every term g_d is a linear model over the original features. Each
// depth is fitted on the inverted, shifted residual of the previous depth,
// so the expansion can bend around curvature that a single linear model
// cannot express while each individual fit stays a cheap least squares or
// lasso problem.
//
// # Quick Start
//
// Fit a depth-5 expansion with ordinary least squares sub-models:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/cfrac"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	    model := cfrac.NewCFRegressor().WithDepth(3)
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    XTest := mat.NewDense(2, 1, []float64{5, 6})
//	    predictions, err := model.Predict(XTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("Predictions:", mat.Formatted(predictions))
//	}
//
// Sub-models are pluggable: WithSubModel(cfrac.L1Regularized) swaps every
// depth to a coordinate descent lasso, with WithLassoOptions controlling
// the regularization strength.
//
// # Packages
//
// The library is organized into several packages:
//
//   - linear: Sub-model implementations (OLSRegression, LassoRegression)
//   - boosting: Gradient boosted tree regressor for baseline comparisons
//   - dataset: Whitespace-delimited dataset loading and train/test splitting
//   - metrics: Evaluation metrics (MSE, RMSE, MAE, MAPE, R²)
//   - core/model: Core interfaces and base types
//   - core/parallel: Parallel processing utilities
//   - pkg/errors: Typed errors and warnings for model workflows
//   - pkg/log: Structured logging facade with a swappable slog provider
//
// # Poles
//
// A continued fraction has poles wherever a denominator crosses zero. The
// fitting transform shifts every training residual so its minimum lands at
// 1, which keeps training denominators away from zero, but prediction on
// unseen rows can still land on a pole. By default such rows produce IEEE
// infinities that propagate into downstream metrics; WithStrictPoleChecks
// turns them into a *PoleError identifying the depth and row instead.
//
// # Performance
//
// Prediction parallelizes across rows for inputs larger than 1000 samples,
// with CPU core detection and worker allocation handled by core/parallel.
// Fitting is sequential across depths because each depth consumes the
// previous depth's residual.
package cfrac
