package report

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newthinker/crossbt/internal/backtest"
	"github.com/newthinker/crossbt/internal/core"
	"github.com/newthinker/crossbt/internal/storage/archive"
)

// Archive file names under <run-id>/<indicator>/
const (
	ReportFile = "report.json"
	SeriesFile = "series.csv"
)

// Archiver persists results to a storage backend
type Archiver struct {
	storage archive.Storage
	logger  *zap.Logger
	newID   func() string
}

// NewArchiver creates an archiver writing to storage
func NewArchiver(storage archive.Storage, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		storage: storage,
		logger:  logger,
		newID:   func() string { return uuid.New().String() },
	}
}

// Archive assigns a fresh run ID to every result and writes its report and
// series. It returns the run ID.
func (a *Archiver) Archive(ctx context.Context, results []*backtest.Result) (string, error) {
	runID := a.newID()
	start := time.Now()

	for _, res := range results {
		res.RunID = runID
	}

	for _, res := range results {
		dir := path.Join(runID, string(res.Kind))

		doc, err := EncodeJSON(res)
		if err != nil {
			return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("encoding %s report: %w", res.Kind, err))
		}
		series, err := EncodeSeries(res)
		if err != nil {
			return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("encoding %s series: %w", res.Kind, err))
		}

		if err := a.storage.Write(ctx, path.Join(dir, ReportFile), doc); err != nil {
			return "", core.WrapError(core.ErrArchiveFailed, err)
		}
		if err := a.storage.Write(ctx, path.Join(dir, SeriesFile), series); err != nil {
			return "", core.WrapError(core.ErrArchiveFailed, err)
		}
	}

	a.logger.Info("run archived",
		zap.String("run_id", runID),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return runID, nil
}
