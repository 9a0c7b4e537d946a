package ma_crossover

import "github.com/newthinker/crossbt/internal/core"

// Signals compares a fast and a slow indicator series step by step.
// Both inputs are truncated to the shorter length; the tail of the longer
// series is dropped. Index 0 is always HOLD.
//
// BUY marks an upward crossing (fast > slow now, fast <= slow before) and
// SELL a downward one (fast < slow now, fast >= slow before).
func Signals(fast, slow []float64) []core.Signal {
	n := min(len(fast), len(slow))
	signals := make([]core.Signal, n)

	for i := 0; i < n; i++ {
		signals[i] = core.SignalHold
		if i == 0 {
			continue
		}

		switch {
		case fast[i] > slow[i] && fast[i-1] <= slow[i-1]:
			signals[i] = core.SignalBuy
		case fast[i] < slow[i] && fast[i-1] >= slow[i-1]:
			signals[i] = core.SignalSell
		}
	}

	return signals
}
