package model

// EstimatorState は推定器の学習ライフサイクルを表す。
// ゼロ値は NotFitted であり、構築直後の推定器はそのまま未学習状態になる。
type EstimatorState int

const (
	// NotFitted は Fit が一度も成功していない状態
	NotFitted EstimatorState = iota
	// Fitted は Fit が成功し予測可能になった状態
	Fitted
)

// BaseEstimator は各推定器（CFRegressor、GBTRegressor、線形モデル）に
// 埋め込まれる学習状態の管理構造体。Fit は学習結果のフィールドをすべて
// 書き込んだ後に SetFitted を呼び、それまで予測側は NotFittedError を返す。
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted は Fit が成功済みかどうかを報告する
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted は学習済み状態へ遷移させる。Fit の成功時に一度だけ呼ぶ
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset は推定器を未学習状態へ戻す。学習済みフラグのみを戻すため、
// 学習結果フィールドの破棄は埋め込み先の責任で行う
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
