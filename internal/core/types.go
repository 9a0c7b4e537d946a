package core

import "strings"

// Signal is the per-step instruction emitted by a crossover detector.
// SignalHold means "no new instruction", never flat exposure.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// Position is the directional market exposure held during a step.
type Position int

const (
	PositionShort Position = -1
	PositionFlat  Position = 0
	PositionLong  Position = 1
)

// Exposure returns the position as a return multiplier.
func (p Position) Exposure() float64 {
	return float64(p)
}

func (p Position) String() string {
	switch p {
	case PositionLong:
		return "LONG"
	case PositionShort:
		return "SHORT"
	case PositionFlat:
		return "FLAT"
	default:
		return "UNKNOWN"
	}
}

// IndicatorKind selects the moving average used for the fast/slow pair
type IndicatorKind string

const (
	IndicatorSMA IndicatorKind = "sma"
	IndicatorEMA IndicatorKind = "ema"
)

// ParseIndicatorKind accepts "sma" or "ema", case-insensitive.
func ParseIndicatorKind(s string) (IndicatorKind, error) {
	switch k := IndicatorKind(strings.ToLower(strings.TrimSpace(s))); k {
	case IndicatorSMA, IndicatorEMA:
		return k, nil
	default:
		return "", Errorf(ErrInvalidIndicator, "got %q, want sma or ema", s)
	}
}

// ReturnType selects how per-step returns are aggregated
type ReturnType string

const (
	ReturnSimple ReturnType = "simple"
	ReturnLog    ReturnType = "log"
)

// ParseReturnType accepts "simple" or "log", case-insensitive.
func ParseReturnType(s string) (ReturnType, error) {
	switch rt := ReturnType(strings.ToLower(strings.TrimSpace(s))); rt {
	case ReturnSimple, ReturnLog:
		return rt, nil
	default:
		return "", Errorf(ErrInvalidReturnType, "got %q, want simple or log", s)
	}
}
