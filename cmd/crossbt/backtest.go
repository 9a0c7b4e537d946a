package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/newthinker/crossbt/internal/backtest"
	"github.com/newthinker/crossbt/internal/collector"
	"github.com/newthinker/crossbt/internal/collector/csvfile"
	"github.com/newthinker/crossbt/internal/config"
	"github.com/newthinker/crossbt/internal/logger"
	"github.com/newthinker/crossbt/internal/metrics"
	"github.com/newthinker/crossbt/internal/report"
	"github.com/newthinker/crossbt/internal/storage/archive"
	"github.com/newthinker/crossbt/internal/strategy"
	"github.com/newthinker/crossbt/internal/strategy/ma_crossover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagInitialCapital float64
	flagAllowShort     bool
	flagRiskFreeRate   float64
	flagStrictFinite   bool
	flagIndicators     []string
	flagReturnTypes    []string
	flagPriceColumn    int
	flagSkipHeader     bool
	flagArchive        string
	flagMetricsFile    string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest <csv_path> <fast_window> <slow_window>",
	Short: "Backtest moving average crossovers on a price file",
	Long: `Load closing prices from a CSV file and run a crossover strategy for each
configured indicator. Reports the strategy performance per indicator and the
buy-and-hold benchmark of the raw prices.`,
	Args: cobra.ExactArgs(3),
	RunE: runBacktest,
}

func init() {
	f := backtestCmd.Flags()
	f.Float64Var(&flagInitialCapital, "initial-capital", 0, "starting equity")
	f.BoolVar(&flagAllowShort, "allow-short", true, "map SELL to SHORT instead of FLAT")
	f.Float64Var(&flagRiskFreeRate, "risk-free-rate", 0, "per-step risk-free rate for Sharpe")
	f.BoolVar(&flagStrictFinite, "strict-finite", false, "fail on NaN or Inf in any stage output")
	f.StringSliceVar(&flagIndicators, "indicator", nil, "indicator kinds to run (sma, ema)")
	f.StringSliceVar(&flagReturnTypes, "return-type", nil, "total returns to print (simple, log)")
	f.IntVar(&flagPriceColumn, "price-column", 0, "zero-based CSV column of the closing price")
	f.BoolVar(&flagSkipHeader, "skip-header", false, "drop the first CSV row")
	f.StringVar(&flagArchive, "archive", "", "archive results under this local directory")
	f.StringVar(&flagMetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	rootCmd.AddCommand(backtestCmd)
}

// backtestArgs holds the positional arguments
type backtestArgs struct {
	path string
	fast int
	slow int
}

func parseBacktestArgs(args []string) (backtestArgs, error) {
	fast, err := strconv.Atoi(args[1])
	if err != nil {
		return backtestArgs{}, fmt.Errorf("invalid fast window %q: %w", args[1], err)
	}
	slow, err := strconv.Atoi(args[2])
	if err != nil {
		return backtestArgs{}, fmt.Errorf("invalid slow window %q: %w", args[2], err)
	}
	return backtestArgs{path: args[0], fast: fast, slow: slow}, nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	a, err := parseBacktestArgs(args)
	if err != nil {
		return err
	}

	// Load config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cmd, cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize logger
	log, err := logger.New(debug, levelFor(cfg))
	if err != nil {
		return err
	}
	defer log.Sync()

	return executeBacktest(cmd.Context(), cmd.OutOrStdout(), cfg, log, a)
}

func levelFor(cfg *config.Config) string {
	if debug {
		return "debug"
	}
	return cfg.Log.Level
}

// applyFlags overrides config values with flags set on the command line
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("initial-capital") {
		cfg.Backtest.InitialCapital = flagInitialCapital
	}
	if f.Changed("allow-short") {
		cfg.Backtest.AllowShort = flagAllowShort
	}
	if f.Changed("risk-free-rate") {
		cfg.Backtest.RiskFreeRate = flagRiskFreeRate
	}
	if f.Changed("strict-finite") {
		cfg.Backtest.StrictFinite = flagStrictFinite
	}
	if f.Changed("indicator") {
		cfg.Backtest.Indicators = flagIndicators
	}
	if f.Changed("return-type") {
		cfg.Report.ReturnTypes = flagReturnTypes
	}
	if f.Changed("price-column") {
		cfg.Data.PriceColumn = flagPriceColumn
	}
	if f.Changed("skip-header") {
		cfg.Data.SkipHeader = flagSkipHeader
	}
	if f.Changed("archive") {
		cfg.Archive.Enabled = true
		cfg.Archive.Type = archive.TypeLocalFS
		cfg.Archive.Path = flagArchive
	}
	if f.Changed("metrics-file") {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Textfile = flagMetricsFile
	}
}

// executeBacktest runs the full pipeline and prints the report to out.
// Nothing is printed unless every indicator succeeds.
func executeBacktest(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger, a backtestArgs) error {
	if ctx == nil {
		ctx = context.Background()
	}

	kinds, err := cfg.IndicatorKinds()
	if err != nil {
		return err
	}
	returnTypes, err := cfg.ReturnTypes()
	if err != nil {
		return err
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	loader := csvfile.New(collector.Config{
		PriceColumn: cfg.Data.PriceColumn,
		SkipHeader:  cfg.Data.SkipHeader,
	}, log)

	engine := strategy.NewEngine(log)
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		s := ma_crossover.New(kind, a.fast, a.slow)
		engine.Register(s)
		names = append(names, s.Name())
	}

	bt := backtest.New(loader, engine, backtest.Options{
		InitialCapital: cfg.Backtest.InitialCapital,
		AllowShort:     cfg.Backtest.AllowShort,
		RiskFreeRate:   cfg.Backtest.RiskFreeRate,
		StrictFinite:   cfg.Backtest.StrictFinite,
	}, log)
	if reg != nil {
		loader.WithRecorder(reg)
		bt.WithRecorder(reg)
	}

	results, err := bt.Run(ctx, a.path, names...)
	if err != nil {
		return err
	}

	if cfg.Archive.Enabled {
		store, err := archive.New(archive.Config{
			Type: cfg.Archive.Type,
			Path: cfg.Archive.Path,
			S3: archive.S3Config{
				Bucket:    cfg.Archive.S3.Bucket,
				Endpoint:  cfg.Archive.S3.Endpoint,
				Region:    cfg.Archive.S3.Region,
				AccessKey: cfg.Archive.S3.AccessKey,
				SecretKey: cfg.Archive.S3.SecretKey,
				Prefix:    cfg.Archive.S3.Prefix,
			},
		})
		if err != nil {
			return err
		}
		if _, err := report.NewArchiver(store, log).Archive(ctx, results); err != nil {
			return err
		}
	}

	if reg != nil && cfg.Metrics.Textfile != "" {
		if err := reg.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	return report.WriteText(out, results, returnTypes)
}
