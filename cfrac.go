package cfrac

import (
	"fmt"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cfrac/core/model"
	"github.com/YuminosukeSato/cfrac/core/parallel"
	"github.com/YuminosukeSato/cfrac/linear"
	"github.com/YuminosukeSato/cfrac/metrics"
	"github.com/YuminosukeSato/cfrac/pkg/errors"
	"github.com/YuminosukeSato/cfrac/pkg/log"
)

// SubModelKind selects the linear model fitted at each depth of the expansion.
type SubModelKind int

const (
	// OrdinaryLeastSquares fits each depth with an unregularized least
	// squares model solved by QR decomposition.
	OrdinaryLeastSquares SubModelKind = iota

	// L1Regularized fits each depth with a lasso model trained by
	// coordinate descent. Tune it through CFRegressor.LassoOptions.
	L1Regularized
)

// String returns the name of the sub-model kind.
func (k SubModelKind) String() string {
	switch k {
	case OrdinaryLeastSquares:
		return "OrdinaryLeastSquares"
	case L1Regularized:
		return "L1Regularized"
	default:
		return fmt.Sprintf("SubModelKind(%d)", int(k))
	}
}

// CFRegressor approximates a regression target with a continued fraction
// whose terms are linear models over the original features.
//
// Fitting is sequential: depth 0 fits the (normalized) target directly,
// and every later depth fits the inverse of the previous depth's shifted
// residual. Prediction folds the per-depth linear predictions back
// together by unwinding the fraction from the innermost term outward.
type CFRegressor struct {
	model.BaseEstimator

	// Hyperparameters
	Depth               int                  // Number of sub-models in the expansion
	NormalizationFactor float64              // Training targets are divided by this before fitting
	SubModel            SubModelKind         // Linear model fitted at each depth
	StrictPoleChecks    bool                 // Fail on exact zero denominators instead of emitting IEEE infinities
	LassoOptions        *linear.LassoOptions // Options for L1Regularized sub-models (nil means defaults)

	// Internal state
	subModels_   []linear.Model // Fitted sub-models, depth order
	offsets_     []float64      // Pole-avoidance offsets, len fittedDepth_+2
	nFeatures_   int            // Number of features
	fittedDepth_ int            // Depth at the time Fit succeeded
}

// NewCFRegressor creates a new continued fraction regressor with default parameters
func NewCFRegressor() *CFRegressor {
	return &CFRegressor{
		Depth:               5,
		NormalizationFactor: 1.0,
		SubModel:            OrdinaryLeastSquares,
	}
}

// WithDepth sets the number of sub-models in the expansion
func (cf *CFRegressor) WithDepth(depth int) *CFRegressor {
	cf.Depth = depth
	return cf
}

// WithNormalizationFactor sets the factor training targets are divided by.
// Predictions stay in the normalized scale; the caller undoes the scaling.
func (cf *CFRegressor) WithNormalizationFactor(factor float64) *CFRegressor {
	cf.NormalizationFactor = factor
	return cf
}

// WithSubModel sets the linear model kind fitted at each depth
func (cf *CFRegressor) WithSubModel(kind SubModelKind) *CFRegressor {
	cf.SubModel = kind
	return cf
}

// WithStrictPoleChecks makes Predict fail with a PoleError when a
// denominator is exactly zero instead of letting IEEE infinities propagate
func (cf *CFRegressor) WithStrictPoleChecks(strict bool) *CFRegressor {
	cf.StrictPoleChecks = strict
	return cf
}

// WithLassoOptions sets the options used by L1Regularized sub-models
func (cf *CFRegressor) WithLassoOptions(opt *linear.LassoOptions) *CFRegressor {
	cf.LassoOptions = opt
	return cf
}

// newSubModel returns a fresh, unfitted sub-model for one depth.
func (cf *CFRegressor) newSubModel() (linear.Model, error) {
	switch cf.SubModel {
	case OrdinaryLeastSquares:
		return linear.NewOLSRegression(), nil
	case L1Regularized:
		return linear.NewLassoRegression(cf.LassoOptions)
	default:
		return nil, errors.NewValidationError("subModel", "unknown sub-model kind", int(cf.SubModel))
	}
}

// Fit trains the continued fraction expansion on (X, y).
//
// The target is divided by NormalizationFactor, then Depth sub-models are
// fitted in sequence. After each depth the residual is shifted by
// |min(residual)|+1 and inverted to form the next depth's target, so every
// training denominator stays at least 1 away from the pole. All depths see
// the original feature matrix X.
func (cf *CFRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "CFRegressor.Fit")

	if cf.Depth <= 0 {
		return errors.NewValidationError("depth", "must be a positive integer", cf.Depth)
	}
	if cf.NormalizationFactor <= 0 || math.IsInf(cf.NormalizationFactor, 0) || math.IsNaN(cf.NormalizationFactor) {
		return errors.NewValidationError("normalizationFactor", "must be a positive finite number", cf.NormalizationFactor)
	}

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	// Validate input dimensions
	if rows == 0 || cols == 0 {
		return errors.NewModelError("CFRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError("CFRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("CFRegressor.Fit", "y must be a column vector")
	}
	if checkErr := errors.CheckMatrix("CFRegressor.Fit", X, rows, cols, 0); checkErr != nil {
		return checkErr
	}

	logger := log.GetLoggerWithName("cfrac.regressor")
	start := time.Now()
	logger.Info("Training CFRegressor",
		log.ModelNameKey, "CFRegressor",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.MaxDepthKey, cf.Depth,
		log.SubModelKey, cf.SubModel.String(),
		log.NormalizationKey, cf.NormalizationFactor,
	)

	// Working target in normalized scale.
	yfit := make([]float64, rows)
	for i := 0; i < rows; i++ {
		yfit[i] = y.At(i, 0) / cf.NormalizationFactor
	}

	subModels := make([]linear.Model, cf.Depth)
	// Offsets are indexed by depth; slots 0 and Depth+1 stay zero.
	offsets := make([]float64, cf.Depth+2)
	target := mat.NewDense(rows, 1, nil)
	residual := make([]float64, rows)

	for d := 0; d < cf.Depth; d++ {
		sub, subErr := cf.newSubModel()
		if subErr != nil {
			return subErr
		}

		for i := 0; i < rows; i++ {
			target.Set(i, 0, yfit[i])
		}
		if fitErr := sub.Fit(X, target); fitErr != nil {
			return errors.NewFitError("CFRegressor.Fit", d, fitErr)
		}
		subModels[d] = sub

		pred, predErr := sub.Predict(X)
		if predErr != nil {
			return errors.NewFitError("CFRegressor.Fit", d, predErr)
		}

		minResidual := math.Inf(1)
		for i := 0; i < rows; i++ {
			residual[i] = yfit[i] - pred.At(i, 0)
			if residual[i] < minResidual {
				minResidual = residual[i]
			}
		}

		// Shift the residual by |min|+1 so every shifted value is at
		// least 1, then invert it into the next depth's target.
		offsets[d+1] = math.Abs(minResidual) + 1
		if offErr := errors.CheckScalar("residual_offset", offsets[d+1], d); offErr != nil {
			return offErr
		}
		for i := 0; i < rows; i++ {
			yfit[i] = 1 / (residual[i] + offsets[d+1])
		}

		if stabErr := errors.CheckNumericalStability("target_transform", yfit, d); stabErr != nil {
			return stabErr
		}

		logger.Debug("Fitted sub-model",
			log.DepthKey, d,
			log.OffsetKey, offsets[d+1],
		)
	}

	cf.subModels_ = subModels
	cf.offsets_ = offsets
	cf.nFeatures_ = cols
	cf.fittedDepth_ = cf.Depth
	cf.SetFitted()

	logger.Info("Training completed",
		log.MaxDepthKey, cf.fittedDepth_,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict evaluates the full fitted expansion on X.
//
// Predictions are in the normalized target scale; multiply by
// NormalizationFactor to recover the original units.
func (cf *CFRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	return cf.PredictDepth(X, cf.fittedDepth_)
}

// PredictDepth evaluates a truncation of the fitted expansion that uses
// only the first maxDepth sub-models. maxDepth must be between 1 and the
// fitted depth; PredictDepth(X, fittedDepth) is equivalent to Predict(X).
func (cf *CFRegressor) PredictDepth(X mat.Matrix, maxDepth int) (result mat.Matrix, err error) {
	defer errors.Recover(&err, "CFRegressor.Predict")

	if !cf.IsFitted() {
		return nil, errors.NewNotFittedError("CFRegressor", "Predict")
	}
	if maxDepth < 1 || maxDepth > cf.fittedDepth_ {
		return nil, errors.NewValidationError("maxDepth",
			fmt.Sprintf("must be in [1, %d]", cf.fittedDepth_), maxDepth)
	}

	rows, cols := X.Dims()
	if cols != cf.nFeatures_ {
		return nil, errors.NewDimensionError("CFRegressor.Predict", cf.nFeatures_, cols, 1)
	}

	preds, err := cf.subModelPredictions(X, maxDepth)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, 1, nil)

	var mu sync.Mutex
	var poleErr error
	parallel.ParallelizeWithThreshold(rows, 1000, func(startRow, endRow int) {
		for i := startRow; i < endRow; i++ {
			v, rowErr := cf.unwindRow(preds, maxDepth, i)
			if rowErr != nil {
				mu.Lock()
				if poleErr == nil {
					poleErr = rowErr
				}
				mu.Unlock()
				return
			}
			out.Set(i, 0, v)
		}
	})
	if poleErr != nil {
		return nil, poleErr
	}

	log.GetLoggerWithName("cfrac.regressor").Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, rows,
		log.DepthKey, maxDepth,
	)
	return out, nil
}

// subModelPredictions evaluates the first maxDepth sub-models on X and
// returns one prediction column per depth.
func (cf *CFRegressor) subModelPredictions(X mat.Matrix, maxDepth int) ([][]float64, error) {
	rows, _ := X.Dims()
	preds := make([][]float64, maxDepth)
	for d := 0; d < maxDepth; d++ {
		p, err := cf.subModels_[d].Predict(X)
		if err != nil {
			return nil, err
		}
		col := make([]float64, rows)
		for i := 0; i < rows; i++ {
			col[i] = p.At(i, 0)
		}
		preds[d] = col
	}
	return preds, nil
}

// unwindRow folds the per-depth predictions for one sample back into a
// single estimate, inverting the shift-and-invert transforms applied
// during fitting. The innermost term is unwound first.
func (cf *CFRegressor) unwindRow(preds [][]float64, maxDepth, row int) (float64, error) {
	if maxDepth == 1 {
		return preds[0][row], nil
	}

	denom := preds[maxDepth-1][row]
	if cf.StrictPoleChecks && denom == 0 {
		return 0, errors.NewPoleError("CFRegressor.Predict", maxDepth-1, row, denom)
	}
	r := 1/denom - cf.offsets_[maxDepth-1]

	for d := maxDepth - 2; d >= 1; d-- {
		denom = preds[d][row] + r
		if cf.StrictPoleChecks && denom == 0 {
			return 0, errors.NewPoleError("CFRegressor.Predict", d, row, denom)
		}
		r = 1/denom - cf.offsets_[d]
	}

	return preds[0][row] + r, nil
}

// MSE returns the mean squared error of the full expansion on (X, y).
// y is compared against Predict(X), so it must be in the same normalized
// scale as the predictions.
func (cf *CFRegressor) MSE(X, y mat.Matrix) (float64, error) {
	pred, err := cf.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.MSEMatrix(y, pred)
}

// Score returns the coefficient of determination R^2 of the prediction
func (cf *CFRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := cf.Predict(X)
	if err != nil {
		return 0, err
	}

	// Calculate R^2 score
	rows, _ := y.Dims()
	yVec := mat.NewVecDense(rows, nil)
	predVec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yVec.SetVec(i, y.At(i, 0))
		predVec.SetVec(i, pred.At(i, 0))
	}

	r2, err := metrics.R2Score(yVec, predVec)
	if err != nil {
		return 0, err
	}
	log.GetLoggerWithName("cfrac.regressor").Debug("Scored predictions",
		log.OperationKey, log.OperationScore,
		log.R2ScoreKey, r2,
		log.SamplesKey, rows,
	)
	return r2, nil
}

// FittedDepth returns the expansion depth captured when Fit succeeded,
// or 0 for an unfitted model. Mutating Depth after fitting does not
// change the fitted expansion.
func (cf *CFRegressor) FittedDepth() int {
	return cf.fittedDepth_
}

// Offsets returns a copy of the pole-avoidance offsets computed during
// fitting. Index d holds the shift applied to the depth d-1 residual;
// the first and last slots are always zero.
func (cf *CFRegressor) Offsets() []float64 {
	offsets := make([]float64, len(cf.offsets_))
	copy(offsets, cf.offsets_)
	return offsets
}

// SubModels returns the fitted sub-models in depth order. The returned
// slice is a copy but the models themselves are shared.
func (cf *CFRegressor) SubModels() []linear.Model {
	subs := make([]linear.Model, len(cf.subModels_))
	copy(subs, cf.subModels_)
	return subs
}

// GetParams returns the hyperparameters in scikit-learn style
func (cf *CFRegressor) GetParams() map[string]interface{} {
	params := map[string]interface{}{
		"depth":                cf.Depth,
		"normalization_factor": cf.NormalizationFactor,
		"sub_model":            cf.SubModel.String(),
		"strict_pole_checks":   cf.StrictPoleChecks,
	}
	if cf.LassoOptions != nil {
		params["lasso_lambda"] = cf.LassoOptions.Lambda
		params["lasso_iterations"] = cf.LassoOptions.Iterations
		params["lasso_tolerance"] = cf.LassoOptions.Tolerance
	}
	return params
}

// Interface compliance checks
var (
	_ model.Fitter    = (*CFRegressor)(nil)
	_ model.Predictor = (*CFRegressor)(nil)
)
