package backtest

import (
	"math"
)

// SimpleReturns computes (p[i] - p[i-1]) / p[i-1] for each step.
// Returns slice of length len(values) - 1, or empty for fewer than two values.
func SimpleReturns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}
	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		returns[i-1] = (values[i] - values[i-1]) / values[i-1]
	}
	return returns
}

// LogReturns computes ln(p[i] / p[i-1]) for each step
func LogReturns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}
	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		returns[i-1] = math.Log(values[i] / values[i-1])
	}
	return returns
}
