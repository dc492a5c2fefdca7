package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cfrac/core/model"
	"github.com/YuminosukeSato/cfrac/metrics"
	"github.com/YuminosukeSato/cfrac/pkg/errors"
)

// OLSRegression は最小二乗法による線形回帰モデル
//
// 正規方程式の逆行列ではなくQR分解で最小二乗問題を解くため、
// 条件数の大きい計画行列に対しても数値的に安定した解が得られます。
type OLSRegression struct {
	model.BaseEstimator // BaseEstimatorを埋め込み

	// FitIntercept は切片項を学習するかどうか（デフォルト: true）
	FitIntercept bool

	coef      []float64 // 回帰係数
	intercept float64   // 切片
	nFeatures int       // 特徴量の数
}

// NewOLSRegression は新しい最小二乗回帰モデルを作成する
func NewOLSRegression() *OLSRegression {
	return &OLSRegression{
		FitIntercept: true,
	}
}

// Fit はモデルを訓練データで学習させる
//
// 最小二乗問題 min ||Xw - y||^2 をQR分解で解きます。
//
// パラメータ:
//   - X: 特徴量行列 (n_samples × n_features)
//   - y: ターゲットベクトル (n_samples × 1)
//
// 戻り値:
//   - error: 学習中のエラー（次元不一致、特異行列など）
func (o *OLSRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "OLSRegression.Fit")

	r, c := X.Dims()
	ry, cy := y.Dims()

	// 入力の検証
	if r == 0 || c == 0 {
		return errors.NewModelError("OLSRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("OLSRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("OLSRegression.Fit", "y must be a column vector")
	}

	var design mat.Matrix = X
	n := c
	if o.FitIntercept {
		design = addInterceptColumn(X)
		n = c + 1
	}

	// QR分解は m >= n を要求する
	if r < n {
		return errors.NewModelError("OLSRegression.Fit", "underdetermined system", errors.ErrSingularMatrix)
	}

	var qr mat.QR
	qr.Factorize(design)

	var sol mat.Dense
	if solveErr := qr.SolveTo(&sol, false, mat.DenseCopyOf(y)); solveErr != nil {
		// 悪条件または特異な計画行列
		return errors.NewModelError("OLSRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		weights[i] = sol.At(i, 0)
	}

	if o.FitIntercept {
		o.intercept = weights[0]
		o.coef = weights[1:]
	} else {
		o.intercept = 0
		o.coef = weights
	}
	o.nFeatures = c

	o.SetFitted()
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
func (o *OLSRegression) Predict(X mat.Matrix) (result mat.Matrix, err error) {
	defer errors.Recover(&err, "OLSRegression.Predict")

	if !o.IsFitted() {
		return nil, errors.NewNotFittedError("OLSRegression", "Predict")
	}

	r, c := X.Dims()
	if c != o.nFeatures {
		return nil, errors.NewDimensionError("OLSRegression.Predict", o.nFeatures, c, 1)
	}

	pred := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		v := o.intercept
		for j := 0; j < c; j++ {
			v += X.At(i, j) * o.coef[j]
		}
		pred.Set(i, 0, v)
	}

	return pred, nil
}

// Score は決定係数 R² を計算する
func (o *OLSRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := o.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(colToVec(y), colToVec(pred))
}

// Coef は学習された回帰係数のコピーを返す
func (o *OLSRegression) Coef() []float64 {
	coef := make([]float64, len(o.coef))
	copy(coef, o.coef)
	return coef
}

// Intercept は学習された切片を返す
func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

// Weights は学習された回帰係数のコピーを返す（model.LinearModelインターフェース用）
func (o *OLSRegression) Weights() []float64 {
	return o.Coef()
}

// コンパイル時のインターフェース実装チェック
var (
	_ Model             = (*OLSRegression)(nil)
	_ model.LinearModel = (*OLSRegression)(nil)
)
