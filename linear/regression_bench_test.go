package linear

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// benchData は y = 1 + Σ 0.5(j+1)·x_j に微小ノイズを載せた回帰データを返す。
// シードは固定してあるので実行間で同じ行列になる。
func benchData(rows, cols int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(42, 42))

	xs := make([]float64, rows*cols)
	for i := range xs {
		xs[i] = rng.Float64()*2 - 1
	}
	X := mat.NewDense(rows, cols, xs)

	w := make([]float64, cols)
	for j := range w {
		w[j] = 0.5 * float64(j+1)
	}

	ys := make([]float64, rows)
	for i := range ys {
		v := 1.0
		for j := 0; j < cols; j++ {
			v += X.At(i, j) * w[j]
		}
		ys[i] = v + (rng.Float64()-0.5)*0.1
	}
	return X, mat.NewDense(rows, 1, ys)
}

func BenchmarkOLSRegressionFit(b *testing.B) {
	cases := []struct {
		rows, cols int
	}{
		{100, 10},
		{500, 10},
		{1000, 10}, // 計画行列構築が並列化へ切り替わる境界
		{2000, 10},
		{5000, 20},
		{10000, 20},
		{20000, 50},
	}

	for _, c := range cases {
		b.Run(fmt.Sprintf("%dx%d", c.rows, c.cols), func(b *testing.B) {
			X, y := benchData(c.rows, c.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ols := NewOLSRegression()
				if err := ols.Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLassoRegressionFit(b *testing.B) {
	cases := []struct {
		rows, cols int
	}{
		{100, 10},
		{1000, 10},
		{5000, 20},
	}

	for _, c := range cases {
		b.Run(fmt.Sprintf("%dx%d", c.rows, c.cols), func(b *testing.B) {
			X, y := benchData(c.rows, c.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				lasso, err := NewLassoRegression(NewDefaultLassoOptions())
				if err != nil {
					b.Fatal(err)
				}
				if err := lasso.Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// 計画行列の構築だけを切り出して測る。閾値 1000 行の前後を含める。
func BenchmarkAddInterceptColumn(b *testing.B) {
	cases := []struct {
		rows, cols int
	}{
		{900, 10},
		{1000, 10},
		{5000, 20},
		{10000, 20},
	}

	for _, c := range cases {
		b.Run(fmt.Sprintf("%dx%d", c.rows, c.cols), func(b *testing.B) {
			X, _ := benchData(c.rows, c.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = addInterceptColumn(X)
			}
		})
	}
}
