package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is a recovered panic promoted to an ordinary error. The
// matrix kernels panic on shape violations, so every exported estimator
// entry point defers Recover and hands callers one of these instead of
// crashing the process.
type PanicError struct {
	// PanicValue is the value the kernel passed to panic.
	PanicValue interface{}

	// StackTrace is captured at the recovery site.
	StackTrace string

	// Operation names the entry point that recovered, such as
	// "CFRegressor.Fit".
	Operation string
}

// NewPanicError captures the current stack and wraps a panic value for
// the given operation.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// String renders the full report including the captured stack.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// Unwrap returns nil; the panic value is data, not a wrapped error.
func (e *PanicError) Unwrap() error {
	return nil
}

// Recover converts an in-flight panic into an error on the deferred
// frame's named return:
//
//	func (cf *CFRegressor) Fit(X, y mat.Matrix) (err error) {
//	    defer Recover(&err, "CFRegressor.Fit")
//	    ...
//	}
//
// When err already holds an error at panic time both are reported, and
// errors.Is still matches the original through the wrap.
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err == nil {
		*err = NewPanicError(operation, r)
		return
	}
	*err = fmt.Errorf("panic in %s: %v (original error: %w)",
		operation, r, *err)
}

// SafeExecute runs fn with panic recovery, for one-shot kernel calls
// that are not worth a named return:
//
//	err := SafeExecute("matrix solve", func() error {
//	    return qr.SolveTo(&coef, false, target)
//	})
//
// The result is fn's own error, a PanicError if fn panicked, or nil.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
