package backtest

import (
	"github.com/newthinker/crossbt/internal/core"
)

// DefaultInitialCapital is the starting equity when none is configured
const DefaultInitialCapital = 1000.0

// Options control a single evaluation of a signal series
type Options struct {
	InitialCapital float64
	// AllowShort maps SELL to SHORT. When false, SELL goes FLAT.
	AllowShort   bool
	RiskFreeRate float64
	// StrictFinite fails the run with ErrNonFinite instead of reporting NaN/Inf.
	StrictFinite bool
}

// DefaultOptions returns options with the default capital and shorting enabled
func DefaultOptions() Options {
	return Options{
		InitialCapital: DefaultInitialCapital,
		AllowShort:     true,
	}
}

// PerformanceReport summarises one return series and its equity/price curve
type PerformanceReport struct {
	TotalSimpleReturn float64 `json:"total_simple_return"` // sum of simple returns, not compounded
	TotalLogReturn    float64 `json:"total_log_return"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	SharpeRatio       float64 `json:"sharpe_ratio"` // per step, not annualized
}

// SignalCounts tallies a signal series
type SignalCounts struct {
	Buy  int `json:"buy"`
	Sell int `json:"sell"`
	Hold int `json:"hold"`
}

// Result holds the complete output of one strategy over one price series.
// The series are exposed for plotting and archiving and must not be modified.
type Result struct {
	RunID    string             `json:"run_id,omitempty"`
	Strategy string             `json:"strategy"`
	Kind     core.IndicatorKind `json:"indicator"`
	Source   string             `json:"source,omitempty"`

	Prices    []float64       `json:"-"`
	Fast      []float64       `json:"-"`
	Slow      []float64       `json:"-"`
	Signals   []core.Signal   `json:"-"`
	Positions []core.Position `json:"-"`
	Equity    []float64       `json:"-"`

	Trades []Trade `json:"trades"`

	InitialCapital  float64           `json:"initial_capital"`
	FinalEquity     float64           `json:"final_equity"`
	SignalCounts    SignalCounts      `json:"signal_counts"`
	PositionChanges int               `json:"position_changes"`
	TradeStats      TradeStats        `json:"trade_stats"`
	Performance     PerformanceReport `json:"strategy_report"`
	Benchmark       PerformanceReport `json:"benchmark_report"`
}

// Trade is a run of consecutive steps holding the same non-flat position
type Trade struct {
	Direction  core.Position `json:"direction"`
	EntryIndex int           `json:"entry_index"`
	ExitIndex  int           `json:"exit_index"`
	EntryPrice float64       `json:"entry_price"`
	ExitPrice  float64       `json:"exit_price"`
	Return     float64       `json:"return"` // compounded equity return over the trade
	Closed     bool          `json:"closed"` // false if still open at the end of the series
}

// TradeStats holds per-trade statistics
type TradeStats struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"` // percentage of profitable closed trades
}

// IsWin returns true if the trade was profitable
func (t Trade) IsWin() bool {
	return t.Return > 0
}

// IsClosed returns true if a later position change ended the trade
func (t Trade) IsClosed() bool {
	return t.Closed
}
