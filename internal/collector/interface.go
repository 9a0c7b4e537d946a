package collector

import (
	"context"
)

// Config holds price loader configuration
type Config struct {
	// PriceColumn is the zero-based column holding the closing price.
	PriceColumn int
	// SkipHeader drops the first row without counting it as malformed.
	SkipHeader bool
}

// DefaultConfig reads the close column of a Kraken OHLCVT export
func DefaultConfig() Config {
	return Config{PriceColumn: 4}
}

// Collector loads a complete closing-price series from a source
type Collector interface {
	Name() string
	LoadPrices(ctx context.Context, source string) ([]float64, error)
}

// SkipRecorder is notified of rows dropped while loading
type SkipRecorder interface {
	RecordSkippedRows(collector string, n int)
}
