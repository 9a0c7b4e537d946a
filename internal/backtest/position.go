package backtest

import (
	"github.com/newthinker/crossbt/internal/core"
)

// PositionMachine turns signals into exposure one step at a time.
// It starts FLAT; BUY goes LONG, SELL goes SHORT (or FLAT when shorting is
// disabled) and anything else keeps the standing state.
type PositionMachine struct {
	state      core.Position
	allowShort bool
}

// NewPositionMachine creates a machine in the FLAT state
func NewPositionMachine(allowShort bool) *PositionMachine {
	return &PositionMachine{
		state:      core.PositionFlat,
		allowShort: allowShort,
	}
}

// Step applies one signal and returns the post-transition state
func (m *PositionMachine) Step(sig core.Signal) core.Position {
	switch sig {
	case core.SignalBuy:
		m.state = core.PositionLong
	case core.SignalSell:
		if m.allowShort {
			m.state = core.PositionShort
		} else {
			m.state = core.PositionFlat
		}
	}
	return m.state
}

// State returns the standing position
func (m *PositionMachine) State() core.Position {
	return m.state
}

// Positions runs a fresh machine over signals, one position per signal
func Positions(signals []core.Signal, allowShort bool) []core.Position {
	m := NewPositionMachine(allowShort)
	positions := make([]core.Position, len(signals))
	for i, sig := range signals {
		positions[i] = m.Step(sig)
	}
	return positions
}

// countChanges returns how many steps hold a different position than the step before
func countChanges(positions []core.Position) int {
	var changes int
	for i := 1; i < len(positions); i++ {
		if positions[i] != positions[i-1] {
			changes++
		}
	}
	return changes
}

func countSignals(signals []core.Signal) SignalCounts {
	var c SignalCounts
	for _, s := range signals {
		switch s {
		case core.SignalBuy:
			c.Buy++
		case core.SignalSell:
			c.Sell++
		default:
			c.Hold++
		}
	}
	return c
}
