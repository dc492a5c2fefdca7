package errors

import (
	"fmt"
	"strings"
	"testing"
)

// hasConstructorStack は %+v 表示にこのファイルのフレームが含まれるかを調べる。
func hasConstructorStack(err error) bool {
	return strings.Contains(fmt.Sprintf("%+v", err), "errors_test.go")
}

func TestNewModelError(t *testing.T) {
	cases := map[string]struct {
		op    string
		kind  string
		cause error
		want  string
	}{
		"with cause": {
			op:    "Fit",
			kind:  "invalid input",
			cause: fmt.Errorf("test error"),
			want:  "cfrac: Fit: invalid input: test error",
		},
		"without cause": {
			op:   "Predict",
			kind: "not fitted",
			want: "cfrac: Predict: not fitted",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := NewModelError(tc.op, tc.kind, tc.cause)

			if got := err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}
			if !hasConstructorStack(err) {
				t.Error("expected the constructor's stack frame in %+v output")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("As should recover *ModelError from the chain")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 10, 0)

	want := "cfrac: Predict: dimension mismatch on axis 0 (rows). Expected 10, got 10"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("As should recover *DimensionError from the chain")
	}
	if dimErr.Axis != 0 {
		t.Errorf("Axis = %d, want 0", dimErr.Axis)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("CFRegressor", "Predict")

	want := "cfrac: CFRegressor: this model is not fitted yet. Call Fit() before using Predict()"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("As should recover *NotFittedError from the chain")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("depth", "must be a positive integer", 0)

	want := "cfrac: validation failed for parameter 'depth': must be a positive integer (got: 0)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("As should recover *ValidationError from the chain")
	}
	if valErr.ParamName != "depth" {
		t.Errorf("ParamName = %q, want %q", valErr.ParamName, "depth")
	}
}

func TestNewValueError(t *testing.T) {
	cases := map[string]struct {
		message string
		want    string
	}{
		"with reason": {
			message: fmt.Sprintf("%s: %v (%s)", "learning_rate", -0.5, "must be positive"),
			want:    "cfrac: SetParam: learning_rate: -0.5 (must be positive)",
		},
		"bare value": {
			message: fmt.Sprintf("%s: %v", "n_components", 0),
			want:    "cfrac: SetParam: n_components: 0",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := NewValueError("SetParam", tc.message)

			if got := err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}

			var valErr *ValueError
			if !As(err, &valErr) {
				t.Error("As should recover *ValueError from the chain")
			}
		})
	}
}

func TestNewFitError(t *testing.T) {
	err := NewFitError("CFRegressor.Fit", 3, ErrSingularMatrix)

	want := "cfrac: CFRegressor.Fit: fit failed at depth 3: singular matrix"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var fitErr *FitError
	if !As(err, &fitErr) {
		t.Fatal("As should recover *FitError from the chain")
	}
	if fitErr.Depth != 3 {
		t.Errorf("Depth = %d, want 3", fitErr.Depth)
	}

	// 深さ情報を挟んでも根本原因まで辿れること
	if !Is(err, ErrSingularMatrix) {
		t.Error("Is(err, ErrSingularMatrix) = false, want true")
	}
}

func TestNewPoleError(t *testing.T) {
	err := NewPoleError("CFRegressor.Predict", 2, 17, 0)

	want := "cfrac: CFRegressor.Predict: continued fraction pole at depth 2, row 17 (denominator=0)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var poleErr *PoleError
	if !As(err, &poleErr) {
		t.Fatal("As should recover *PoleError from the chain")
	}
	if poleErr.Depth != 2 || poleErr.Row != 17 {
		t.Errorf("Depth/Row = %d/%d, want 2/17", poleErr.Depth, poleErr.Row)
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("CoordinateDescent", 1000, "loss did not decrease")

	want := "CoordinateDescent failed to converge after 1000 iterations: loss did not decrease"
	if got := warn.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var convWarn *ConvergenceWarning
	if !As(warn, &convWarn) {
		t.Error("As should recover *ConvergenceWarning")
	}
}

func TestWarnHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	warn := NewConvergenceWarning("CoordinateDescent", 50, "")
	Warn(warn)

	if captured == nil {
		t.Fatal("handler should have received the warning")
	}
	if !Is(captured, warn) {
		t.Error("handler should receive the emitted warning itself")
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrSingularMatrix, "in OLSRegression.Fit")

	if !Is(wrapped, ErrSingularMatrix) {
		t.Error("Is(wrapped, ErrSingularMatrix) = false, want true")
	}
	if !strings.Contains(wrapped.Error(), "in OLSRegression.Fit") {
		t.Errorf("wrapped message %q should carry the context prefix", wrapped.Error())
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Is(wrapped, ErrEmptyData) = false, want true")
	}
	if !strings.Contains(wrapped.Error(), "in Predict: expected 10, got 5") {
		t.Errorf("wrapped message %q should carry the formatted context", wrapped.Error())
	}
}

func TestErrorChaining(t *testing.T) {
	base := fmt.Errorf("base error")
	once := Wrap(base, "wrapped once")
	chained := NewFitError("CFRegressor.Fit", 0, once)

	if !strings.Contains(chained.Error(), "base error") {
		t.Errorf("chain message %q should surface the base error", chained.Error())
	}
	if !hasConstructorStack(chained) {
		t.Error("expected the constructor's stack frame in %+v output")
	}
}
