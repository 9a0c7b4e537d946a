package backtest

import (
	"math"
	"testing"

	"github.com/newthinker/crossbt/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquityCurve_LongThroughDip(t *testing.T) {
	prices := []float64{100, 90, 100}
	positions := []core.Position{core.PositionLong, core.PositionLong, core.PositionLong}

	equity := EquityCurve(prices, positions, 1000)

	require.Len(t, equity, 3)
	assert.Equal(t, 1000.0, equity[0])
	assert.InDelta(t, 900.0, equity[1], 1e-9)
	assert.InDelta(t, 1000.0, equity[2], 1e-9)
	assert.InDelta(t, 0.10, MaxDrawdown(equity), 1e-12)
}

func TestEquityCurve_UsesPreviousPosition(t *testing.T) {
	// flat at 0, long from 1: the 0->1 move is not captured, 1->2 is
	prices := []float64{100, 200, 300}
	positions := []core.Position{core.PositionFlat, core.PositionLong, core.PositionLong}

	equity := EquityCurve(prices, positions, 1000)

	assert.Equal(t, []float64{1000, 1000, 1500}, equity)
}

func TestEquityCurve_Short(t *testing.T) {
	prices := []float64{100, 80, 100}
	positions := []core.Position{core.PositionShort, core.PositionShort, core.PositionFlat}

	equity := EquityCurve(prices, positions, 1000)

	// +20% then -25%
	assert.InDelta(t, 1200.0, equity[1], 1e-9)
	assert.InDelta(t, 900.0, equity[2], 1e-9)
}

func TestEquityCurve_FlatKeepsCapital(t *testing.T) {
	prices := []float64{100, 150, 50, 75, 300}
	positions := make([]core.Position, len(prices))

	equity := EquityCurve(prices, positions, 2500)

	for i, v := range equity {
		assert.Equal(t, 2500.0, v, "equity[%d]", i)
	}
}

func TestEquityCurve_LengthIsShorterInput(t *testing.T) {
	prices := []float64{100, 101, 102, 103, 104}
	positions := []core.Position{core.PositionLong, core.PositionLong}

	assert.Len(t, EquityCurve(prices, positions, 1000), 2)
	assert.Len(t, EquityCurve(prices[:1], positions, 1000), 1)
	assert.Empty(t, EquityCurve(nil, positions, 1000))
}

func TestEquityCurve_ZeroPriceIsNotGuarded(t *testing.T) {
	prices := []float64{100, 0, 50}
	positions := []core.Position{core.PositionLong, core.PositionLong, core.PositionLong}

	equity := EquityCurve(prices, positions, 1000)

	assert.Equal(t, 0.0, equity[1])
	assert.True(t, math.IsNaN(equity[2]) || math.IsInf(equity[2], 0), "expected non-finite, got %v", equity[2])
}

func TestExtractTrades(t *testing.T) {
	prices := []float64{100, 110, 121, 110, 100, 100}
	positions := []core.Position{
		core.PositionFlat, core.PositionLong, core.PositionLong,
		core.PositionShort, core.PositionShort, core.PositionShort,
	}
	equity := EquityCurve(prices, positions, 1000)

	trades := extractTrades(prices, positions, equity)

	require.Len(t, trades, 2)

	long := trades[0]
	assert.Equal(t, core.PositionLong, long.Direction)
	assert.Equal(t, 1, long.EntryIndex)
	assert.Equal(t, 3, long.ExitIndex)
	assert.True(t, long.IsClosed())
	assert.InDelta(t, 0.0, long.Return, 1e-9) // +10% then -9.09%

	short := trades[1]
	assert.Equal(t, core.PositionShort, short.Direction)
	assert.Equal(t, 3, short.EntryIndex)
	assert.Equal(t, 5, short.ExitIndex)
	assert.False(t, short.IsClosed())
	assert.Greater(t, short.Return, 0.0)
}

func TestReturns(t *testing.T) {
	assert.Empty(t, SimpleReturns([]float64{100}))
	assert.Empty(t, LogReturns(nil))

	logs := LogReturns([]float64{100, 200, 100})
	require.Len(t, logs, 2)
	assert.InDelta(t, math.Ln2, logs[0], 1e-12)
	assert.InDelta(t, -math.Ln2, logs[1], 1e-12)
}
