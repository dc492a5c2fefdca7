// Package linear は連分数展開のサブモデルとして使用される線形回帰モデルを提供します。
// OLSRegression（最小二乗法）とLassoRegression（L1正則化）の2つの戦略を実装しており、
// どちらも同じModelインターフェースを満たします。
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cfrac/core/model"
	"github.com/YuminosukeSato/cfrac/core/parallel"
)

// Model は連分数展開の各深さでサブモデルとして学習される線形回帰モデルのインターフェース
type Model interface {
	model.Fitter
	model.Predictor

	// Coef は学習された回帰係数のコピーを返す
	Coef() []float64

	// Intercept は学習された切片を返す
	Intercept() float64

	// Score はモデルの決定係数（R²）を計算する
	Score(X, y mat.Matrix) (float64, error)
}

// addInterceptColumn は切片項のために X の先頭に 1 の列を追加した行列を返す
// design = [1, X]
func addInterceptColumn(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	design := mat.NewDense(r, c+1, nil)

	// 並列処理の閾値（この値以下の行数では逐次処理を使用）
	const parallelThreshold = 1000

	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			design.Set(i, 0, 1.0) // 切片項
			for j := 0; j < c; j++ {
				design.Set(i, j+1, X.At(i, j))
			}
		}
	})

	return design
}

// colToVec は n×1 行列を VecDense に変換する
func colToVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
