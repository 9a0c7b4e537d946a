// Package indicator computes moving averages over closing-price series.
//
// SMA and EMA deliberately return different lengths: SMA has no value until a
// full window is available, EMA is defined at every index through its seed.
// Callers aligning the two must handle the lengths independently.
package indicator

import (
	"github.com/newthinker/crossbt/internal/core"
)

// Func computes an indicator series from prices for a window.
type Func func(prices []float64, window int) ([]float64, error)

// For returns the indicator function for a kind.
func For(kind core.IndicatorKind) (Func, error) {
	switch kind {
	case core.IndicatorSMA:
		return SMA, nil
	case core.IndicatorEMA:
		return EMA, nil
	default:
		return nil, core.Errorf(core.ErrInvalidIndicator, "got %q", kind)
	}
}

// Compute dispatches to the indicator selected by kind.
func Compute(kind core.IndicatorKind, prices []float64, window int) ([]float64, error) {
	fn, err := For(kind)
	if err != nil {
		return nil, err
	}
	return fn(prices, window)
}

func validateWindow(prices []float64, window int) error {
	if window < 1 || window > len(prices) {
		return core.Errorf(core.ErrInvalidWindow, "window %d not in [1, %d]", window, len(prices))
	}
	return nil
}
