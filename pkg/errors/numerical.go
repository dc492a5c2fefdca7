package errors

import (
	"math"
)

// badSampleCap bounds how many offending values a matrix scan collects
// for the error payload.
const badSampleCap = 10

func unstable(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// CheckNumericalStability scans a vector for NaN or Inf and reports a
// NumericalInstabilityError carrying the whole vector when any entry is
// unstable. The fitting loops run it on inverted targets and on
// coordinate descent coefficients after each sweep.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if unstable(v) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckScalar guards a single derived quantity, such as the residual
// offset computed between depths.
func CheckScalar(operation string, value float64, iteration int) error {
	if !unstable(value) {
		return nil
	}
	return NewNumericalInstabilityError(operation, []float64{value}, iteration)
}

// CheckMatrix scans a matrix for NaN or Inf. Up to badSampleCap
// offending values are collected into the error so the report stays
// readable on wide inputs.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols, iteration int) error {
	var bad []float64
scan:
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := matrix.At(i, j); unstable(v) {
				bad = append(bad, v)
				if len(bad) == badSampleCap {
					break scan
				}
			}
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return NewNumericalInstabilityError(operation, bad, iteration)
}
