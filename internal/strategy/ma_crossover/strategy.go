package ma_crossover

import (
	"fmt"
	"strings"

	"github.com/newthinker/crossbt/internal/core"
	"github.com/newthinker/crossbt/internal/indicator"
	"github.com/newthinker/crossbt/internal/strategy"
)

// MACrossover implements a moving average crossover strategy
type MACrossover struct {
	kind       core.IndicatorKind
	fastWindow int
	slowWindow int
}

// New creates a new MA Crossover strategy over the given indicator kind
func New(kind core.IndicatorKind, fastWindow, slowWindow int) *MACrossover {
	return &MACrossover{
		kind:       kind,
		fastWindow: fastWindow,
		slowWindow: slowWindow,
	}
}

func (m *MACrossover) Name() string {
	return string(m.kind) + "_crossover"
}

func (m *MACrossover) Description() string {
	return fmt.Sprintf("%s Crossover (%d/%d)", strings.ToUpper(string(m.kind)), m.fastWindow, m.slowWindow)
}

// Kind returns the indicator the strategy smooths prices with
func (m *MACrossover) Kind() core.IndicatorKind {
	return m.kind
}

func (m *MACrossover) Generate(prices []float64) (*strategy.Output, error) {
	calc, err := indicator.For(m.kind)
	if err != nil {
		return nil, err
	}

	fast, err := calc(prices, m.fastWindow)
	if err != nil {
		return nil, fmt.Errorf("fast %s: %w", m.kind, err)
	}
	slow, err := calc(prices, m.slowWindow)
	if err != nil {
		return nil, fmt.Errorf("slow %s: %w", m.kind, err)
	}

	return &strategy.Output{
		Strategy: m.Name(),
		Kind:     m.kind,
		Fast:     fast,
		Slow:     slow,
		Signals:  Signals(fast, slow),
	}, nil
}
