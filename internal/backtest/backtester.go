package backtest

import (
	"context"
	"math"
	"time"

	"github.com/newthinker/crossbt/internal/core"
	"github.com/newthinker/crossbt/internal/strategy"
	"go.uber.org/zap"
)

// PriceProvider loads a closing-price series from a source such as a file path
type PriceProvider interface {
	LoadPrices(ctx context.Context, source string) ([]float64, error)
}

// Recorder receives run telemetry
type Recorder interface {
	RecordBacktest(strategy, status string, duration float64)
	RecordSignals(strategy string, counts map[core.Signal]int)
}

// Backtester evaluates strategies against historical prices
type Backtester struct {
	provider PriceProvider
	engine   *strategy.Engine
	opts     Options
	logger   *zap.Logger
	recorder Recorder
}

// New creates a new Backtester with the given price provider and strategy engine
func New(provider PriceProvider, engine *strategy.Engine, opts Options, logger *zap.Logger) *Backtester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backtester{
		provider: provider,
		engine:   engine,
		opts:     opts,
		logger:   logger,
	}
}

// WithRecorder attaches a telemetry recorder
func (b *Backtester) WithRecorder(r Recorder) *Backtester {
	b.recorder = r
	return b
}

// Run loads prices from source and evaluates each named strategy in order.
// Any failure discards all results.
func (b *Backtester) Run(ctx context.Context, source string, strategies ...string) ([]*Result, error) {
	prices, err := b.provider.LoadPrices(ctx, source)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, core.Errorf(core.ErrNoData, "%s", source)
	}

	b.logger.Debug("prices loaded", zap.String("source", source), zap.Int("count", len(prices)))

	outputs, err := b.engine.Generate(ctx, prices, strategies...)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(outputs))
	for _, out := range outputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := time.Now()
		res, err := Evaluate(prices, out, b.opts)
		elapsed := time.Since(start).Seconds()
		if err != nil {
			b.record(out.Strategy, "failed", elapsed, nil)
			return nil, err
		}
		res.Source = source
		b.record(out.Strategy, "success", elapsed, out.Signals)

		b.logger.Info("backtest completed",
			zap.String("strategy", res.Strategy),
			zap.Int("signals", len(res.Signals)),
			zap.Int("trades", len(res.Trades)),
			zap.Float64("final_equity", res.FinalEquity),
			zap.Float64("max_drawdown", res.Performance.MaxDrawdown),
		)
		results = append(results, res)
	}

	return results, nil
}

func (b *Backtester) record(name, status string, duration float64, signals []core.Signal) {
	if b.recorder == nil {
		return
	}
	b.recorder.RecordBacktest(name, status, duration)
	if signals != nil {
		c := countSignals(signals)
		b.recorder.RecordSignals(name, map[core.Signal]int{
			core.SignalBuy:  c.Buy,
			core.SignalSell: c.Sell,
			core.SignalHold: c.Hold,
		})
	}
}

// Evaluate runs the position machine, equity simulator and metrics over one
// strategy output. prices must be the series the output was generated from.
//
// Signals are not realigned to price time: for SMA, Signals[i] compares
// windows ending at different prices, and positions[i] still scales the
// return from prices[i] to prices[i+1].
func Evaluate(prices []float64, out *strategy.Output, opts Options) (*Result, error) {
	if opts.InitialCapital <= 0 || math.IsNaN(opts.InitialCapital) || math.IsInf(opts.InitialCapital, 0) {
		return nil, core.Errorf(core.ErrConfigInvalid, "initial capital must be positive, got %v", opts.InitialCapital)
	}

	positions := Positions(out.Signals, opts.AllowShort)
	equity := EquityCurve(prices, positions, opts.InitialCapital)

	if opts.StrictFinite {
		names := []string{"prices", "fast", "slow", "equity"}
		for k, series := range [][]float64{prices, out.Fast, out.Slow, equity} {
			if i := firstNonFinite(series); i >= 0 {
				return nil, core.Errorf(core.ErrNonFinite, "%s[%d] = %v", names[k], i, series[i])
			}
		}
	}

	finalEquity := opts.InitialCapital
	if len(equity) > 0 {
		finalEquity = equity[len(equity)-1]
	}

	trades := extractTrades(prices, positions, equity)

	return &Result{
		Strategy:        out.Strategy,
		Kind:            out.Kind,
		Prices:          prices,
		Fast:            out.Fast,
		Slow:            out.Slow,
		Signals:         out.Signals,
		Positions:       positions,
		Equity:          equity,
		Trades:          trades,
		InitialCapital:  opts.InitialCapital,
		FinalEquity:     finalEquity,
		SignalCounts:    countSignals(out.Signals),
		PositionChanges: countChanges(positions),
		TradeStats:      CalculateTradeStats(trades),
		Performance:     NewReport(SimpleReturns(equity), LogReturns(equity), equity, opts.RiskFreeRate),
		Benchmark:       NewReport(SimpleReturns(prices), LogReturns(prices), prices, opts.RiskFreeRate),
	}, nil
}

func firstNonFinite(values []float64) int {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
