// Package errors は連分数回帰ライブラリのエラー型と警告システムを定義します。
// scikit-learn の例外・警告体系に倣い、失敗の種類ごとに構造化された型を持ち、
// 各コンストラクタは cockroachdb/errors によるスタックトレースを付与します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	警告システム
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// ハンドラ未設定時は標準ロガーへ出力する
		log.Printf("cfrac-Warning: %v\n", w)
	}
	// zerolog への出力関数。pkg/log 側から注入される（循環 import 回避）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は Warn が呼び出すハンドラを差し替えます。
// nil を渡すと警告は破棄されます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // テスト中は警告を収集するだけにする
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc は警告を zerolog へ流す関数を登録します。
// 登録後は SetWarningHandler のハンドラより優先されます。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発行します。zerolog 関数が登録されていればそちらへ、
// なければ通常のハンドラへ渡します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ConvergenceWarning は反復ソルバーが許容誤差へ達する前に反復上限を
// 使い切ったことを示す警告です。Lasso の座標降下法が発行します。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject は警告の内容を zerolog イベントへ展開します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は ConvergenceWarning を組み立てます。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// UndefinedMetricWarning は評価指標が定義できない入力に対して既定値を
// 返したことを示す警告です。目的変数の分散がゼロのときの R² が代表例です。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // 代わりに返した値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject は警告の内容を zerolog イベントへ展開します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は UndefinedMetricWarning を組み立てます。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	基本エラー型
//
// ===========================================================================

// NotFittedError は Fit が完了していないモデルで Predict や Score を
// 呼び出したことを示します。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("cfrac: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はエラーの内容を zerolog イベントへ展開します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError はスタックトレース付きの NotFittedError を返します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は行列の形状が期待と一致しないことを示します。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0: 行, 1: 列（特徴量）
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("cfrac: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はエラーの内容を zerolog イベントへ展開します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError はスタックトレース付きの DimensionError を返します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError はハイパーパラメータの検証失敗を示します。
// 深さやサブモデル種別など、学習を始める前に弾ける不正値に使います。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cfrac: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はエラーの内容を zerolog イベントへ展開します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError はスタックトレース付きの ValidationError を返します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数として受け取った値そのものが不正な場合のエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("cfrac: %s: %s", e.Op, e.Message)
}

// NewValueError はスタックトレース付きの ValueError を返します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は他のどの型にも当てはまらないモデル操作の失敗を包む
// 汎用エラーです。Kind が失敗の分類、Err が根本原因を保持します。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cfrac: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("cfrac: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError はスタックトレース付きの ModelError を返します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	連分数モデル特有のエラー型
//
// ===========================================================================

// FitError は連分数の学習ループがある深さで失敗したことを示します。
// サブモデル側の失敗（特異行列など）を Err に保持します。
// このエラーが返されたとき、モデルは未学習のまま残ります。
type FitError struct {
	Op    string // 例: "CFRegressor.Fit"
	Depth int    // 失敗した深さ（0 始まり）
	Err   error  // サブモデル側の根本原因
}

func (e *FitError) Error() string {
	return fmt.Sprintf("cfrac: %s: fit failed at depth %d: %v", e.Op, e.Depth, e.Err)
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はエラーの内容を zerolog イベントへ展開します。
func (e *FitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("depth", e.Depth).
		AnErr("cause", e.Err).
		Str("type", "FitError")
}

// NewFitError はスタックトレース付きの FitError を返します。
func NewFitError(op string, depth int, err error) error {
	fitErr := &FitError{Op: op, Depth: depth, Err: err}
	return errors.WithStack(fitErr)
}

// PoleError は連分数の評価で分母が厳密にゼロとなる点（極）を踏んだ
// ことを示します。StrictPoleChecks が有効なときだけ返され、既定では
// IEEE 754 の ±Inf がそのまま予測値に現れます。
type PoleError struct {
	Op          string  // 例: "CFRegressor.Predict"
	Depth       int     // 極が発生した深さ
	Row         int     // 極が発生した入力行
	Denominator float64 // 問題の分母の値
}

func (e *PoleError) Error() string {
	return fmt.Sprintf("cfrac: %s: continued fraction pole at depth %d, row %d (denominator=%g)", e.Op, e.Depth, e.Row, e.Denominator)
}

// MarshalZerologObject はエラーの内容を zerolog イベントへ展開します。
func (e *PoleError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("depth", e.Depth).
		Int("row", e.Row).
		Float64("denominator", e.Denominator).
		Str("type", "PoleError")
}

// NewPoleError はスタックトレース付きの PoleError を返します。
func NewPoleError(op string, depth, row int, denominator float64) error {
	poleErr := &PoleError{Op: op, Depth: depth, Row: row, Denominator: denominator}
	return errors.WithStack(poleErr)
}

// NumericalInstabilityError は数値計算の途中で NaN や Inf が現れた
// ことを示します。反転後のターゲットや係数ベクトルの検査で使われます。
type NumericalInstabilityError struct {
	Operation string                 // 例: "target_transform", "coordinate_descent"
	Values    []float64              // 検出された値（先頭から数件のみ）
	Context   map[string]interface{} // 追加のデバッグ情報
	Iteration int                    // 検出時の反復番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("cfrac: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError は NumericalInstabilityError を組み立てます。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
		Context:   make(map[string]interface{}),
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	番兵エラー
//
// ===========================================================================

var (
	// ErrEmptyData は行数ゼロの入力を表します。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は解けない設計行列（ランク落ち）を表します。
	ErrSingularMatrix = New("singular matrix")
)

// ===========================================================================
//
//	cockroachdb/errors の薄いラッパー
//
// ===========================================================================
//
// 利用側が import を一本化できるよう、よく使う関数を同じシグネチャで
// 再公開します。

// Is はエラーチェーンが target を含むかを調べます。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はチェーン内から target の型に合うエラーを取り出します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap はメッセージを前置してエラーを包みます。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は書式付きメッセージでエラーを包みます。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New はスタックトレース付きの新しいエラーを作ります。
func New(message string) error {
	return errors.New(message)
}

// Newf は書式付きでスタックトレース付きエラーを作ります。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack は既存のエラーへスタックトレースを付けます。
func WithStack(err error) error {
	return errors.WithStack(err)
}
