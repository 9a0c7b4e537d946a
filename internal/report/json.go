package report

import (
	"encoding/json"
	"math"

	"github.com/newthinker/crossbt/internal/backtest"
)

// Float encodes non-finite values as null
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type performanceDoc struct {
	TotalSimpleReturn Float `json:"total_simple_return"`
	TotalLogReturn    Float `json:"total_log_return"`
	MaxDrawdown       Float `json:"max_drawdown"`
	SharpeRatio       Float `json:"sharpe_ratio"`
}

type tradeDoc struct {
	Direction  string `json:"direction"`
	EntryIndex int    `json:"entry_index"`
	ExitIndex  int    `json:"exit_index"`
	EntryPrice Float  `json:"entry_price"`
	ExitPrice  Float  `json:"exit_price"`
	Return     Float  `json:"return"`
	Closed     bool   `json:"closed"`
}

type resultDoc struct {
	RunID           string                `json:"run_id,omitempty"`
	Strategy        string                `json:"strategy"`
	Indicator       string                `json:"indicator"`
	Source          string                `json:"source,omitempty"`
	Length          int                   `json:"length"`
	InitialCapital  Float                 `json:"initial_capital"`
	FinalEquity     Float                 `json:"final_equity"`
	SignalCounts    backtest.SignalCounts `json:"signal_counts"`
	PositionChanges int                   `json:"position_changes"`
	TradeStats      backtest.TradeStats   `json:"trade_stats"`
	Performance     performanceDoc        `json:"strategy_report"`
	Benchmark       performanceDoc        `json:"benchmark_report"`
	Trades          []tradeDoc            `json:"trades"`
}

func performance(p backtest.PerformanceReport) performanceDoc {
	return performanceDoc{
		TotalSimpleReturn: Float(p.TotalSimpleReturn),
		TotalLogReturn:    Float(p.TotalLogReturn),
		MaxDrawdown:       Float(p.MaxDrawdown),
		SharpeRatio:       Float(p.SharpeRatio),
	}
}

// EncodeJSON renders a result as indented JSON. Series are archived
// separately by EncodeSeries.
func EncodeJSON(res *backtest.Result) ([]byte, error) {
	doc := resultDoc{
		RunID:           res.RunID,
		Strategy:        res.Strategy,
		Indicator:       string(res.Kind),
		Source:          res.Source,
		Length:          len(res.Equity),
		InitialCapital:  Float(res.InitialCapital),
		FinalEquity:     Float(res.FinalEquity),
		SignalCounts:    res.SignalCounts,
		PositionChanges: res.PositionChanges,
		TradeStats:      res.TradeStats,
		Performance:     performance(res.Performance),
		Benchmark:       performance(res.Benchmark),
		Trades:          make([]tradeDoc, 0, len(res.Trades)),
	}
	for _, t := range res.Trades {
		doc.Trades = append(doc.Trades, tradeDoc{
			Direction:  t.Direction.String(),
			EntryIndex: t.EntryIndex,
			ExitIndex:  t.ExitIndex,
			EntryPrice: Float(t.EntryPrice),
			ExitPrice:  Float(t.ExitPrice),
			Return:     Float(t.Return),
			Closed:     t.Closed,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
