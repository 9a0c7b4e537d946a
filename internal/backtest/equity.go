package backtest

import (
	"github.com/newthinker/crossbt/internal/core"
)

// EquityCurve compounds initialCapital over n = min(len(prices), len(positions)) steps.
//
// The return realised between steps i-1 and i is scaled by positions[i-1],
// the exposure decided before that return was known. Using positions[i]
// instead would leak the outcome into the decision.
//
// A zero prior price is not guarded against: the resulting Inf/NaN propagates.
func EquityCurve(prices []float64, positions []core.Position, initialCapital float64) []float64 {
	n := min(len(prices), len(positions))
	if n == 0 {
		return []float64{}
	}

	equity := make([]float64, n)
	equity[0] = initialCapital

	for i := 1; i < n; i++ {
		r := (prices[i] - prices[i-1]) / prices[i-1]
		equity[i] = equity[i-1] * (1 + r*positions[i-1].Exposure())
	}

	return equity
}

// extractTrades splits the position series into runs of identical non-flat
// exposure. A run starting at e ends at the first index x holding something
// else; its return is equity[x]/equity[e] - 1.
func extractTrades(prices []float64, positions []core.Position, equity []float64) []Trade {
	n := len(equity)
	var trades []Trade
	var open *Trade

	closeAt := func(x int, closed bool) {
		open.ExitIndex = x
		open.ExitPrice = prices[x]
		open.Return = equity[x]/equity[open.EntryIndex] - 1
		open.Closed = closed
		trades = append(trades, *open)
		open = nil
	}

	for i := 0; i < n; i++ {
		pos := positions[i]
		if open != nil && pos != open.Direction {
			closeAt(i, true)
		}
		if open == nil && pos != core.PositionFlat {
			open = &Trade{
				Direction:  pos,
				EntryIndex: i,
				EntryPrice: prices[i],
			}
		}
	}

	if open != nil {
		closeAt(n-1, false)
	}

	return trades
}
