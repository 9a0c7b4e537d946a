package backtest

import (
	"math"

	"github.com/newthinker/crossbt/internal/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TotalSimpleReturn sums per-step simple returns.
// This is an arithmetic aggregate, only close to the compounded return when
// per-step returns are small.
func TotalSimpleReturn(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return floats.Sum(returns)
}

// TotalLogReturn sums per-step log returns, which equals the log of the
// compounded total return.
func TotalLogReturn(logReturns []float64) float64 {
	if len(logReturns) == 0 {
		return 0
	}
	return floats.Sum(logReturns)
}

// TotalReturn aggregates the returns of a price series in the given mode
func TotalReturn(prices []float64, returnType core.ReturnType) (float64, error) {
	switch returnType {
	case core.ReturnSimple:
		return TotalSimpleReturn(SimpleReturns(prices)), nil
	case core.ReturnLog:
		return TotalLogReturn(LogReturns(prices)), nil
	default:
		return 0, core.Errorf(core.ErrInvalidReturnType, "got %q", returnType)
	}
}

// MaxDrawdown finds the largest peak-to-trough decline as a fraction of the
// running peak. Returns 0 for a non-decreasing or empty series.
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var maxDD float64
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}

	return maxDD
}

// SharpeRatio computes mean(returns - riskFreeRate) / std(returns) with the
// population standard deviation. No annualization is applied.
// Returns exactly 0 when the returns have no dispersion.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 || constant(returns) {
		return 0
	}

	mean, variance := stat.PopMeanVariance(returns, nil)
	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}

	return (mean - riskFreeRate) / stdDev
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// NewReport builds a PerformanceReport from simple and log return series and
// the curve the drawdown is measured on
func NewReport(simple, logReturns, curve []float64, riskFreeRate float64) PerformanceReport {
	return PerformanceReport{
		TotalSimpleReturn: TotalSimpleReturn(simple),
		TotalLogReturn:    TotalLogReturn(logReturns),
		MaxDrawdown:       MaxDrawdown(curve),
		SharpeRatio:       SharpeRatio(simple, riskFreeRate),
	}
}

// CalculateTradeStats computes win statistics, counting only closed trades
// towards the win rate
func CalculateTradeStats(trades []Trade) TradeStats {
	if len(trades) == 0 {
		return TradeStats{}
	}

	var winning, losing int
	for _, t := range trades {
		if !t.IsClosed() {
			continue
		}
		if t.IsWin() {
			winning++
		} else {
			losing++
		}
	}

	closedTrades := winning + losing
	var winRate float64
	if closedTrades > 0 {
		winRate = float64(winning) / float64(closedTrades) * 100
	}

	return TradeStats{
		TotalTrades:   len(trades),
		WinningTrades: winning,
		LosingTrades:  losing,
		WinRate:       winRate,
	}
}
