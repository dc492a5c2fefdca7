package model

import "gonum.org/v1/gonum/mat"

// Fitter は訓練データから学習できるモデルのインターフェース。
// CFRegressor と GBTRegressor、および各深さの線形サブモデルが実装する。
type Fitter interface {
	// Fit は n×m の特徴量行列 X と n×1 の目的変数 y でモデルを学習させる。
	// 失敗した場合モデルは未学習状態のまま残る
	Fit(X, y mat.Matrix) error
}

// Predictor は学習済みモデルによる予測のインターフェース
type Predictor interface {
	// Predict は X の各行に対する予測値を n×1 行列で返す。
	// 未学習の場合は NotFittedError を返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// LinearModel は係数と切片を公開する線形モデルのインターフェース。
// 連分数展開の各深さを占める OLS・Lasso サブモデルが満たす
type LinearModel interface {
	// Weights は学習された回帰係数のコピーを返す
	Weights() []float64
	// Intercept は学習された切片を返す
	Intercept() float64
	// Score は決定係数（R²）を計算する
	Score(X, y mat.Matrix) (float64, error)
}
