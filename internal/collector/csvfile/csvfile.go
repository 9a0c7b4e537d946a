// Package csvfile loads closing prices from CSV exports.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/newthinker/crossbt/internal/collector"
	"github.com/newthinker/crossbt/internal/core"
	"go.uber.org/zap"
)

const checkEvery = 4096

// Series is the outcome of reading one CSV
type Series struct {
	Prices  []float64
	Rows    int // rows read, header excluded
	Skipped int // malformed rows dropped
}

// CSV implements collector.Collector for local CSV files
type CSV struct {
	cfg      collector.Config
	logger   *zap.Logger
	recorder collector.SkipRecorder
}

// New creates a CSV loader
func New(cfg collector.Config, logger *zap.Logger) *CSV {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSV{cfg: cfg, logger: logger}
}

// WithRecorder reports skipped rows to r
func (c *CSV) WithRecorder(r collector.SkipRecorder) *CSV {
	c.recorder = r
	return c
}

func (c *CSV) Name() string {
	return "csv"
}

// LoadPrices reads the configured price column of the file at path
func (c *CSV) LoadPrices(ctx context.Context, path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrLoadFailed, err)
	}
	defer f.Close()

	series, err := c.Read(ctx, f)
	if err != nil {
		return nil, err
	}

	if series.Skipped > 0 {
		c.logger.Warn("skipped malformed rows",
			zap.String("path", path),
			zap.Int("skipped", series.Skipped),
			zap.Int("rows", series.Rows),
		)
		if c.recorder != nil {
			c.recorder.RecordSkippedRows(c.Name(), series.Skipped)
		}
	}

	if len(series.Prices) == 0 {
		return nil, core.Errorf(core.ErrNoData, "no valid prices in %s", path)
	}
	return series.Prices, nil
}

// Read parses prices from r. Rows that are too short, unparsable, non-finite
// or non-positive are skipped rather than failing the load.
func (c *CSV) Read(ctx context.Context, r io.Reader) (*Series, error) {
	if c.cfg.PriceColumn < 0 {
		return nil, core.Errorf(core.ErrConfigInvalid, "price column %d", c.cfg.PriceColumn)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = true

	series := &Series{}
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++

		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, core.WrapError(core.ErrLoadFailed, err)
			}
			series.Rows++
			series.Skipped++
			c.logger.Debug("skipping unparsable row", zap.Int("line", line), zap.Error(err))
			continue
		}

		if line == 1 && c.cfg.SkipHeader {
			continue
		}
		series.Rows++

		price, ok := c.parse(record)
		if !ok {
			series.Skipped++
			c.logger.Debug("skipping row", zap.Int("line", line), zap.Strings("record", record))
			continue
		}
		series.Prices = append(series.Prices, price)
	}

	return series, nil
}

func (c *CSV) parse(record []string) (float64, bool) {
	if c.cfg.PriceColumn >= len(record) {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(record[c.cfg.PriceColumn]), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	return price, true
}
