package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cfrac/core/model"
	"github.com/YuminosukeSato/cfrac/metrics"
	"github.com/YuminosukeSato/cfrac/pkg/errors"
)

// Lasso回帰のデフォルトハイパーパラメータ
const (
	DefaultLambda     = 1.0
	DefaultIterations = 1000
	DefaultTolerance  = 1e-4
)

// LassoOptions はLasso回帰のハイパーパラメータ
type LassoOptions struct {
	// Lambda はL1正則化の強さ。非負でなければならない。
	// 0.0 の場合は最小二乗法（OLS）と同じ解に収束する。
	Lambda float64

	// Iterations は座標降下法の最大反復回数
	Iterations int

	// Tolerance は収束判定に使う係数更新量の相対閾値
	Tolerance float64

	// FitIntercept は切片項を学習するかどうか
	FitIntercept bool
}

// NewDefaultLassoOptions はデフォルトのLasso回帰オプションを返す
func NewDefaultLassoOptions() *LassoOptions {
	return &LassoOptions{
		Lambda:       DefaultLambda,
		Iterations:   DefaultIterations,
		Tolerance:    DefaultTolerance,
		FitIntercept: true,
	}
}

// Validate はオプションを検証する。nilレシーバの場合はデフォルト値を返す。
func (o *LassoOptions) Validate() (*LassoOptions, error) {
	if o == nil {
		return NewDefaultLassoOptions(), nil
	}
	if o.Lambda < 0 {
		return nil, errors.NewValidationError("lambda", "must be non-negative", o.Lambda)
	}
	if o.Iterations < 0 {
		return nil, errors.NewValidationError("iterations", "must be non-negative", o.Iterations)
	}
	if o.Tolerance < 0 {
		return nil, errors.NewValidationError("tolerance", "must be non-negative", o.Tolerance)
	}
	return o, nil
}

// LassoRegression は座標降下法によるL1正則化付き線形回帰モデル
//
// 各座標の更新では残差を増分的に管理し、一度ゼロになった係数は
// 2回目以降の反復でスキップします（active set）。
type LassoRegression struct {
	model.BaseEstimator // BaseEstimatorを埋め込み

	opt *LassoOptions

	coef      []float64 // 回帰係数
	intercept float64   // 切片
	nFeatures int       // 特徴量の数
}

// NewLassoRegression は新しいLasso回帰モデルを作成する
// opt が nil の場合はデフォルトオプションが使用される
func NewLassoRegression(opt *LassoOptions) (*LassoRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &LassoRegression{
		opt: opt,
	}, nil
}

// Fit はモデルを訓練データで学習させる
//
// 損失関数 (1/2)||Xw - y||^2 + lambda*||w||_1 を座標降下法で最小化します。
// 最大反復回数までに収束しなかった場合はConvergenceWarningを発行します。
//
// パラメータ:
//   - X: 特徴量行列 (n_samples × n_features)
//   - y: ターゲットベクトル (n_samples × 1)
//
// 戻り値:
//   - error: 学習中のエラー（次元不一致、数値不安定など）
func (l *LassoRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LassoRegression.Fit")

	r, c := X.Dims()
	ry, cy := y.Dims()

	// 入力の検証
	if r == 0 || c == 0 {
		return errors.NewModelError("LassoRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LassoRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LassoRegression.Fit", "y must be a column vector")
	}

	var design mat.Matrix = X
	n := c
	if l.opt.FitIntercept {
		design = addInterceptColumn(X)
		n = c + 1
	}

	// 各特徴量列と自己内積を前計算し、座標ごとの更新を O(n_samples) にする
	xcols := make([][]float64, n)
	xdot := make([]float64, n)
	gamma := make([]float64, n)
	for j := 0; j < n; j++ {
		xcols[j] = mat.Col(nil, j, design)
		xdot[j] = floats.Dot(xcols[j], xcols[j])
		if xdot[j] > 0 {
			gamma[j] = l.opt.Lambda / xdot[j]
		}
	}
	yArr := mat.Col(nil, 0, y)

	beta := make([]float64, n)

	// residual は現在の残差、betaX は beta*X の累積値
	// betaXDelta は直前に更新された係数による beta*X の差分で、
	// 次にスキップされない座標の更新時に betaX へ折り込まれる
	residual := make([]float64, r)
	betaX := make([]float64, r)
	betaXDelta := make([]float64, r)

	converged := false
	iter := 0
	for ; iter < l.opt.Iterations; iter++ {
		maxCoef := 0.0
		maxUpdate := 0.0

		for j := 0; j < n; j++ {
			betaCurr := beta[j]
			// 一度ゼロになった係数は2回目以降の反復でスキップする
			if iter != 0 && betaCurr == 0 {
				continue
			}
			// 分散ゼロの列は係数を持たない
			if xdot[j] == 0 {
				continue
			}

			floats.Add(betaX, betaXDelta)
			floats.SubTo(residual, yArr, betaX)

			col := xcols[j]
			betaNext := floats.Dot(col, residual)/xdot[j] + betaCurr
			betaNext = SoftThreshold(betaNext, gamma[j])

			maxCoef = math.Max(maxCoef, math.Abs(betaNext))
			maxUpdate = math.Max(maxUpdate, math.Abs(betaNext-betaCurr))
			floats.ScaleTo(betaXDelta, betaNext-betaCurr, col)
			beta[j] = betaNext
		}

		if maxUpdate <= l.opt.Tolerance*maxCoef {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("coordinate_descent", l.opt.Iterations,
			"lasso did not converge, consider increasing iterations or tolerance"))
	}

	if stabErr := errors.CheckNumericalStability("coordinate_descent", beta, iter); stabErr != nil {
		return stabErr
	}

	if l.opt.FitIntercept {
		l.intercept = beta[0]
		l.coef = beta[1:]
	} else {
		l.intercept = 0
		l.coef = beta
	}
	l.nFeatures = c

	l.SetFitted()
	return nil
}

// Predict は学習済みモデルで予測を行う
//
// パラメータ:
//   - X: 特徴量行列 (n_samples × n_features)
//
// 戻り値:
//   - mat.Matrix: 予測値 (n_samples × 1)
//   - error: モデル未学習または次元不一致の場合のエラー
func (l *LassoRegression) Predict(X mat.Matrix) (result mat.Matrix, err error) {
	defer errors.Recover(&err, "LassoRegression.Predict")

	if !l.IsFitted() {
		return nil, errors.NewNotFittedError("LassoRegression", "Predict")
	}

	r, c := X.Dims()
	if c != l.nFeatures {
		return nil, errors.NewDimensionError("LassoRegression.Predict", l.nFeatures, c, 1)
	}

	pred := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		v := l.intercept
		for j := 0; j < c; j++ {
			v += X.At(i, j) * l.coef[j]
		}
		pred.Set(i, 0, v)
	}

	return pred, nil
}

// Score は決定係数 R² を計算する
func (l *LassoRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := l.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(colToVec(y), colToVec(pred))
}

// Coef は学習された回帰係数のコピーを返す
func (l *LassoRegression) Coef() []float64 {
	coef := make([]float64, len(l.coef))
	copy(coef, l.coef)
	return coef
}

// Intercept は学習された切片を返す
func (l *LassoRegression) Intercept() float64 {
	return l.intercept
}

// Weights は学習された回帰係数のコピーを返す（model.LinearModelインターフェース用）
func (l *LassoRegression) Weights() []float64 {
	return l.Coef()
}

// SoftThreshold はソフト閾値作用素 sign(x)*max(0, |x|-gamma) を計算する
func SoftThreshold(x, gamma float64) float64 {
	res := math.Max(0, math.Abs(x)-gamma)
	if math.Signbit(x) {
		return -res
	}
	return res
}

// コンパイル時のインターフェース実装チェック
var (
	_ Model             = (*LassoRegression)(nil)
	_ model.LinearModel = (*LassoRegression)(nil)
)
