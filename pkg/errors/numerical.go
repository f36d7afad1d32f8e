package errors

import (
	"math"
)

// CheckFinite checks values for NaN or Inf and returns a ValueError naming
// the operation if any is found. Used to keep non-finite z-scores out of the
// feature matrix.
func CheckFinite(operation string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValueError(operation, "non-finite value detected")
		}
	}
	return nil
}

// CheckMatrixFinite checks every element of a matrix for NaN or Inf.
func CheckMatrixFinite(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewValueError(operation, "non-finite value detected")
			}
		}
	}
	return nil
}

// ClampProportion clips a proportion into [epsilon, 1-epsilon] so the logit
// transform stays finite. Returns the clamped value and whether clamping was
// applied.
func ClampProportion(p, epsilon float64) (float64, bool) {
	if p < epsilon {
		return epsilon, true
	}
	if p > 1-epsilon {
		return 1 - epsilon, true
	}
	return p, false
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if the denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
