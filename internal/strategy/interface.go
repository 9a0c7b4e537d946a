package strategy

import (
	"github.com/newthinker/crossbt/internal/core"
)

// Output holds the indicator pair and signals a strategy derived from prices.
// Fast and Slow keep their natural lengths; Signals has min(len(Fast), len(Slow)) entries.
type Output struct {
	Strategy string
	Kind     core.IndicatorKind
	Fast     []float64
	Slow     []float64
	Signals  []core.Signal
}

// Strategy defines the interface for signal-generating strategies
type Strategy interface {
	Name() string
	Description() string
	Generate(prices []float64) (*Output, error)
}
