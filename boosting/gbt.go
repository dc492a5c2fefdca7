// Package boosting implements a gradient boosted tree regressor used as
// the baseline alongside the continued fraction regressor. Trees are
// grown depth-wise with exact greedy splits on sorted feature values;
// leaf values carry L2 regularization and each tree's contribution is
// shrunk by the learning rate.
package boosting

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cfrac/core/model"
	"github.com/YuminosukeSato/cfrac/core/parallel"
	"github.com/YuminosukeSato/cfrac/metrics"
	"github.com/YuminosukeSato/cfrac/pkg/errors"
	"github.com/YuminosukeSato/cfrac/pkg/log"
)

// Default hyperparameters for GBTRegressor.
const (
	DefaultNumIterations   = 100
	DefaultLearningRate    = 0.1
	DefaultMaxDepth        = 3
	DefaultMinChildSamples = 20
)

// GBTRegressor is a least-squares gradient boosting machine over
// depth-limited regression trees.
type GBTRegressor struct {
	model.BaseEstimator

	NumIterations   int     // number of boosting rounds
	LearningRate    float64 // shrinkage applied to every tree
	MaxDepth        int     // maximum split depth per tree
	MinChildSamples int     // minimum samples required in a child node
	Lambda          float64 // L2 regularization on leaf values
	MinGainToSplit  float64 // minimum gain required to keep a split

	trees_     []tree
	shrinkage_ float64
	initScore_ float64
	nFeatures_ int
}

// NewGBTRegressor creates a regressor with default hyperparameters.
func NewGBTRegressor() *GBTRegressor {
	return &GBTRegressor{
		NumIterations:   DefaultNumIterations,
		LearningRate:    DefaultLearningRate,
		MaxDepth:        DefaultMaxDepth,
		MinChildSamples: DefaultMinChildSamples,
	}
}

// WithNumIterations sets the number of boosting rounds
func (g *GBTRegressor) WithNumIterations(n int) *GBTRegressor {
	g.NumIterations = n
	return g
}

// WithLearningRate sets the shrinkage applied to every tree
func (g *GBTRegressor) WithLearningRate(rate float64) *GBTRegressor {
	g.LearningRate = rate
	return g
}

// WithMaxDepth sets the maximum split depth per tree
func (g *GBTRegressor) WithMaxDepth(depth int) *GBTRegressor {
	g.MaxDepth = depth
	return g
}

// WithMinChildSamples sets the minimum samples required in a child node
func (g *GBTRegressor) WithMinChildSamples(n int) *GBTRegressor {
	g.MinChildSamples = n
	return g
}

// WithLambda sets the L2 regularization on leaf values
func (g *GBTRegressor) WithLambda(lambda float64) *GBTRegressor {
	g.Lambda = lambda
	return g
}

// WithMinGainToSplit sets the minimum gain required to keep a split
func (g *GBTRegressor) WithMinGainToSplit(gain float64) *GBTRegressor {
	g.MinGainToSplit = gain
	return g
}

// Fit trains the ensemble on (X, y).
//
// Boosting starts from the target mean and fits one tree per round on
// the half-squared-error gradients of the running prediction. Each
// tree's output is scaled by LearningRate before it joins the ensemble.
func (g *GBTRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GBTRegressor.Fit")

	if g.NumIterations <= 0 {
		return errors.NewValidationError("numIterations", "must be a positive integer", g.NumIterations)
	}
	if g.LearningRate <= 0 || math.IsInf(g.LearningRate, 0) || math.IsNaN(g.LearningRate) {
		return errors.NewValidationError("learningRate", "must be a positive finite number", g.LearningRate)
	}
	if g.MaxDepth <= 0 {
		return errors.NewValidationError("maxDepth", "must be a positive integer", g.MaxDepth)
	}
	if g.MinChildSamples <= 0 {
		return errors.NewValidationError("minChildSamples", "must be a positive integer", g.MinChildSamples)
	}
	if g.Lambda < 0 || math.IsInf(g.Lambda, 0) || math.IsNaN(g.Lambda) {
		return errors.NewValidationError("lambda", "must be non-negative and finite", g.Lambda)
	}
	if g.MinGainToSplit < 0 || math.IsNaN(g.MinGainToSplit) {
		return errors.NewValidationError("minGainToSplit", "must be non-negative", g.MinGainToSplit)
	}

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	// Validate input dimensions
	if rows == 0 || cols == 0 {
		return errors.NewModelError("GBTRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError("GBTRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("GBTRegressor.Fit", "y must be a column vector")
	}
	if matErr := errors.CheckMatrix("GBTRegressor.Fit", X, rows, cols, 0); matErr != nil {
		return matErr
	}

	logger := log.GetLoggerWithName("boosting.gbt")
	start := time.Now()
	logger.Info("Training GBTRegressor",
		log.ModelNameKey, "GBTRegressor",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.LearningRateKey, g.LearningRate,
	)

	xDense := denseCopy(X)
	targets := make([]float64, rows)
	for i := 0; i < rows; i++ {
		targets[i] = y.At(i, 0)
	}
	if stabErr := errors.CheckNumericalStability("target_vector", targets, 0); stabErr != nil {
		return stabErr
	}

	// Least squares boosting starts from the target mean.
	initScore := 0.0
	for _, t := range targets {
		initScore += t
	}
	initScore /= float64(rows)

	preds := make([]float64, rows)
	for i := range preds {
		preds[i] = initScore
	}

	gradients := make([]float64, rows)
	hessians := make([]float64, rows)
	builder := &treeBuilder{
		x:               xDense,
		gradients:       gradients,
		hessians:        hessians,
		maxDepth:        g.MaxDepth,
		minChildSamples: g.MinChildSamples,
		lambda:          g.Lambda,
		minGainToSplit:  g.MinGainToSplit,
	}

	rootIndices := make([]int, rows)
	for i := range rootIndices {
		rootIndices[i] = i
	}

	trees := make([]tree, 0, g.NumIterations)
	for iter := 0; iter < g.NumIterations; iter++ {
		// Half squared error: the gradient is the signed residual and
		// the hessian is 1.
		for i := 0; i < rows; i++ {
			gradients[i] = preds[i] - targets[i]
			hessians[i] = 1.0
		}

		tr := builder.build(rootIndices)
		trees = append(trees, tr)

		for i := 0; i < rows; i++ {
			preds[i] += g.LearningRate * tr.predictRow(xDense.RawRowView(i))
		}

		if iter%10 == 0 {
			logger.Debug("Boosting progress",
				log.IterationKey, iter,
				log.LossKey, trainingLoss(preds, targets),
			)
		}
	}

	g.trees_ = trees
	g.shrinkage_ = g.LearningRate
	g.initScore_ = initScore
	g.nFeatures_ = cols

	// Mark as fitted
	g.SetFitted()

	logger.Info("Training completed",
		log.IterationKey, len(trees),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return nil
}

// Predict returns the ensemble prediction for each row of X.
func (g *GBTRegressor) Predict(X mat.Matrix) (result mat.Matrix, err error) {
	defer errors.Recover(&err, "GBTRegressor.Predict")

	if !g.IsFitted() {
		return nil, errors.NewNotFittedError("GBTRegressor", "Predict")
	}

	rows, cols := X.Dims()
	if cols != g.nFeatures_ {
		return nil, errors.NewDimensionError("GBTRegressor.Predict", g.nFeatures_, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	parallel.ParallelizeWithThreshold(rows, 1000, func(startRow, endRow int) {
		x := make([]float64, cols)
		for i := startRow; i < endRow; i++ {
			mat.Row(x, i, X)
			v := g.initScore_
			for t := range g.trees_ {
				v += g.shrinkage_ * g.trees_[t].predictRow(x)
			}
			out.Set(i, 0, v)
		}
	})

	return out, nil
}

// Score returns the coefficient of determination R^2 of the prediction
func (g *GBTRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := g.Predict(X)
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
	return metrics.R2Score(yVec, predVec)
}

// NumTrees returns the number of fitted trees, 0 before Fit.
func (g *GBTRegressor) NumTrees() int {
	return len(g.trees_)
}

// InitScore returns the constant base prediction, the training target
// mean captured when Fit succeeded.
func (g *GBTRegressor) InitScore() float64 {
	return g.initScore_
}

// GetParams returns the hyperparameters in scikit-learn style
func (g *GBTRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"num_iterations":    g.NumIterations,
		"learning_rate":     g.LearningRate,
		"max_depth":         g.MaxDepth,
		"min_child_samples": g.MinChildSamples,
		"lambda":            g.Lambda,
		"min_gain_to_split": g.MinGainToSplit,
	}
}

// trainingLoss is the mean squared error of the running predictions.
func trainingLoss(preds, targets []float64) float64 {
	loss := 0.0
	for i := range preds {
		diff := preds[i] - targets[i]
		loss += diff * diff
	}
	return loss / float64(len(preds))
}

// denseCopy returns X as a *mat.Dense, copying only when necessary.
func denseCopy(X mat.Matrix) *mat.Dense {
	if d, ok := X.(*mat.Dense); ok {
		return d
	}
	rows, cols := X.Dims()
	d := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d.Set(i, j, X.At(i, j))
		}
	}
	return d
}

// Interface compliance checks
var (
	_ model.Regressor       = (*GBTRegressor)(nil)
	_ model.ParameterGetter = (*GBTRegressor)(nil)
)
