package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/newthinker/crossbt/internal/config"
	"github.com/newthinker/crossbt/internal/core"
)

func writePrices(t *testing.T, prices ...float64) string {
	t.Helper()
	var b strings.Builder
	for i, p := range prices {
		fmt.Fprintf(&b, "%d,%g,%g,%g,%g,1.5,3\n", 1700000000+i*60, p, p, p, p)
	}
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func TestParseBacktestArgs(t *testing.T) {
	a, err := parseBacktestArgs([]string{"prices.csv", "5", "20"})
	require.NoError(t, err)
	assert.Equal(t, backtestArgs{path: "prices.csv", fast: 5, slow: 20}, a)

	_, err = parseBacktestArgs([]string{"prices.csv", "five", "20"})
	assert.Error(t, err)
	_, err = parseBacktestArgs([]string{"prices.csv", "5", "2.5"})
	assert.Error(t, err)
}

func TestExecuteBacktest(t *testing.T) {
	path := writePrices(t, 100, 95, 90, 85, 80, 120)

	var out bytes.Buffer
	err := executeBacktest(context.Background(), &out, config.Defaults(), zap.NewNop(),
		backtestArgs{path: path, fast: 2, slow: 4})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "SMA Total Simple Return: ")
	assert.Contains(t, text, "EMA Total Log Return: ")
	assert.Contains(t, text, "EMA Final Equity: ")
	assert.Contains(t, text, "Benchmark Total Simple Return: 0.2830")
	assert.Less(t, strings.Index(text, "SMA"), strings.Index(text, "EMA"))
}

func TestExecuteBacktest_ArchiveAndMetrics(t *testing.T) {
	path := writePrices(t, 100, 95, 90, 85, 80, 120)
	dir := t.TempDir()

	cfg := config.Defaults()
	cfg.Backtest.Indicators = []string{"ema"}
	cfg.Archive.Enabled = true
	cfg.Archive.Path = filepath.Join(dir, "runs")
	cfg.Metrics.Enabled = true
	cfg.Metrics.Textfile = filepath.Join(dir, "crossbt.prom")

	var out bytes.Buffer
	err := executeBacktest(context.Background(), &out, cfg, zap.NewNop(),
		backtestArgs{path: path, fast: 2, slow: 4})
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "SMA")

	reports, err := filepath.Glob(filepath.Join(dir, "runs", "*", "ema", "report.json"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	prom, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "crossbt_backtests_total")
}

func TestExecuteBacktest_InvalidWindow(t *testing.T) {
	path := writePrices(t, 100, 101, 102)

	var out bytes.Buffer
	err := executeBacktest(context.Background(), &out, config.Defaults(), zap.NewNop(),
		backtestArgs{path: path, fast: 2, slow: 10})
	assert.True(t, errors.Is(err, core.ErrInvalidWindow))
	assert.Empty(t, out.String())
}

func TestExecuteBacktest_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := executeBacktest(context.Background(), &out, config.Defaults(), zap.NewNop(),
		backtestArgs{path: filepath.Join(t.TempDir(), "missing.csv"), fast: 2, slow: 4})
	assert.True(t, errors.Is(err, core.ErrLoadFailed))
	assert.Empty(t, out.String())
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, loadEnv(""))
	assert.NoError(t, loadEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CROSSBT_DOTENV_TEST=loaded\n"), 0644))
	t.Setenv("CROSSBT_DOTENV_TEST", "")
	os.Unsetenv("CROSSBT_DOTENV_TEST")

	require.NoError(t, loadEnv(path))
	assert.Equal(t, "loaded", os.Getenv("CROSSBT_DOTENV_TEST"))
}
