package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/crossbt/internal/backtest"
	"github.com/newthinker/crossbt/internal/core"
	"github.com/newthinker/crossbt/internal/storage/archive"
	"github.com/newthinker/crossbt/internal/strategy"
)

func sampleResult(t *testing.T) *backtest.Result {
	t.Helper()
	prices := []float64{100, 90, 100, 110}
	out := &strategy.Output{
		Strategy: "sma_crossover",
		Kind:     core.IndicatorSMA,
		Fast:     []float64{95, 95, 105},
		Slow:     []float64{96.6667, 100},
		Signals:  []core.Signal{core.SignalHold, core.SignalBuy},
	}
	res, err := backtest.Evaluate(prices, out, backtest.DefaultOptions())
	require.NoError(t, err)
	return res
}

func TestWriteText(t *testing.T) {
	res := &backtest.Result{
		Kind:        core.IndicatorSMA,
		FinalEquity: 1000,
		Performance: backtest.PerformanceReport{
			TotalSimpleReturn: 0.1,
			TotalLogReturn:    0.09531,
			MaxDrawdown:       0.1,
			SharpeRatio:       0.25,
		},
		Benchmark: backtest.PerformanceReport{
			TotalSimpleReturn: 0.2,
			TotalLogReturn:    0.18,
			MaxDrawdown:       0.05,
			SharpeRatio:       1.5,
		},
		SignalCounts: backtest.SignalCounts{Buy: 1, Sell: 1, Hold: 3},
		TradeStats:   backtest.TradeStats{TotalTrades: 2, WinRate: 50},
	}

	var buf bytes.Buffer
	err := WriteText(&buf, []*backtest.Result{res}, []core.ReturnType{core.ReturnSimple, core.ReturnLog})
	require.NoError(t, err)

	want := strings.Join([]string{
		"SMA Total Simple Return: 0.1000",
		"SMA Total Log Return: 0.0953",
		"SMA Max Drawdown: 0.1000",
		"SMA Sharpe Ratio: 0.2500",
		"SMA Final Equity: 1000.00",
		"SMA Signals: BUY=1 SELL=1 HOLD=3",
		"SMA Trades: 2 (win rate 50.00%)",
		"",
		"Benchmark Total Simple Return: 0.2000",
		"Benchmark Total Log Return: 0.1800",
		"Benchmark Max Drawdown: 0.0500",
		"Benchmark Sharpe Ratio: 1.5000",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteText_ReturnTypeFilter(t *testing.T) {
	res := &backtest.Result{Kind: core.IndicatorEMA, FinalEquity: 1000}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, []*backtest.Result{res}, []core.ReturnType{core.ReturnLog}))

	out := buf.String()
	assert.Contains(t, out, "EMA Total Log Return: 0.0000")
	assert.NotContains(t, out, "Simple Return")
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, nil, []core.ReturnType{core.ReturnSimple}))
	assert.Empty(t, buf.String())
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "1000.00", Money(1000))
	assert.Equal(t, "1234.57", Money(1234.567))
	assert.Equal(t, "-12.50", Money(-12.5))
	assert.Equal(t, "NaN", Money(math.NaN()))
	assert.Equal(t, "+Inf", Money(math.Inf(1)))
}

func TestEncodeJSON(t *testing.T) {
	res := sampleResult(t)
	res.RunID = "run-1"

	data, err := EncodeJSON(res)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "run-1", doc["run_id"])
	assert.Equal(t, "sma_crossover", doc["strategy"])
	assert.Equal(t, "sma", doc["indicator"])
	assert.Contains(t, doc, "strategy_report")
	assert.Contains(t, doc, "benchmark_report")
}

func TestEncodeJSON_NonFinite(t *testing.T) {
	res := &backtest.Result{
		Kind:        core.IndicatorSMA,
		FinalEquity: math.NaN(),
		Performance: backtest.PerformanceReport{SharpeRatio: math.Inf(1)},
	}

	data, err := EncodeJSON(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"final_equity": null`)
	assert.Contains(t, string(data), `"sharpe_ratio": null`)
}

func TestEncodeSeries(t *testing.T) {
	res := sampleResult(t)

	data, err := EncodeSeries(res)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "index,price,fast,slow,signal,position,equity", lines[0])
	assert.Equal(t, "0,100,95,96.6667,HOLD,0,1000", lines[1])
	assert.Equal(t, "1,90,95,100,BUY,1,1000", lines[2])
	assert.Equal(t, "2,100,105,,,,", lines[3])
	assert.Equal(t, "3,110,,,,,", lines[4])
}

type failingStorage struct {
	archive.Storage
}

func (failingStorage) Write(ctx context.Context, path string, data []byte) error {
	return errors.New("disk full")
}

func TestArchiver_Archive(t *testing.T) {
	store, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	sma := sampleResult(t)
	ema := sampleResult(t)
	ema.Kind = core.IndicatorEMA

	a := NewArchiver(store, nil)
	a.newID = func() string { return "run-42" }

	runID, err := a.Archive(context.Background(), []*backtest.Result{sma, ema})
	require.NoError(t, err)
	assert.Equal(t, "run-42", runID)
	assert.Equal(t, "run-42", sma.RunID)
	assert.Equal(t, "run-42", ema.RunID)

	ctx := context.Background()
	for _, p := range []string{
		"run-42/sma/report.json",
		"run-42/sma/series.csv",
		"run-42/ema/report.json",
		"run-42/ema/series.csv",
	} {
		ok, err := store.Exists(ctx, p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}

	data, err := store.Read(ctx, "run-42/ema/report.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"indicator": "ema"`)
}

func TestArchiver_DefaultIDIsUUID(t *testing.T) {
	store, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	runID, err := NewArchiver(store, nil).Archive(context.Background(), []*backtest.Result{sampleResult(t)})
	require.NoError(t, err)
	assert.Len(t, runID, 36)
}

func TestArchiver_WriteFailure(t *testing.T) {
	a := NewArchiver(failingStorage{}, nil)

	_, err := a.Archive(context.Background(), []*backtest.Result{sampleResult(t)})
	assert.True(t, errors.Is(err, core.ErrArchiveFailed))
}
