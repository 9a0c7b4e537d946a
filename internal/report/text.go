// Package report renders backtest results for the console and encodes them
// for archiving.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/newthinker/crossbt/internal/backtest"
	"github.com/newthinker/crossbt/internal/core"
)

// BenchmarkLabel prefixes the buy-and-hold block
const BenchmarkLabel = "Benchmark"

// WriteText prints one block per result followed by a single benchmark block.
// Only the total returns named in returnTypes are printed.
func WriteText(w io.Writer, results []*backtest.Result, returnTypes []core.ReturnType) error {
	tw := &textWriter{w: w}

	for _, res := range results {
		label := strings.ToUpper(string(res.Kind))
		tw.performance(label, res.Performance, returnTypes)
		tw.line("%s Final Equity: %s", label, Money(res.FinalEquity))
		tw.line("%s Signals: BUY=%d SELL=%d HOLD=%d", label,
			res.SignalCounts.Buy, res.SignalCounts.Sell, res.SignalCounts.Hold)
		tw.line("%s Trades: %d (win rate %.2f%%)", label, res.TradeStats.TotalTrades, res.TradeStats.WinRate)
		tw.line("")
	}

	// Every result shares the same price series
	if len(results) > 0 {
		tw.performance(BenchmarkLabel, results[0].Benchmark, returnTypes)
	}

	return tw.err
}

type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

func (t *textWriter) performance(label string, p backtest.PerformanceReport, returnTypes []core.ReturnType) {
	for _, rt := range returnTypes {
		switch rt {
		case core.ReturnSimple:
			t.line("%s Total Simple Return: %.4f", label, p.TotalSimpleReturn)
		case core.ReturnLog:
			t.line("%s Total Log Return: %.4f", label, p.TotalLogReturn)
		}
	}
	t.line("%s Max Drawdown: %.4f", label, p.MaxDrawdown)
	t.line("%s Sharpe Ratio: %.4f", label, p.SharpeRatio)
}

// Money formats a capital value with two fixed decimals. Non-finite values
// are printed as-is.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v", v)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
