package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/newthinker/crossbt/internal/core"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	backtestsTotal   *prometheus.CounterVec
	backtestDuration *prometheus.HistogramVec
	signalsGenerated *prometheus.CounterVec
	rowsSkipped      *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		backtestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crossbt_backtests_total",
				Help: "Total number of strategy evaluations",
			},
			[]string{"strategy", "status"},
		),

		backtestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crossbt_backtest_duration_seconds",
				Help:    "Strategy evaluation duration in seconds",
				Buckets: []float64{.0001, .001, .01, .1, 1, 10},
			},
			[]string{"strategy"},
		),

		signalsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crossbt_signals_generated_total",
				Help: "Total number of crossover signals generated",
			},
			[]string{"strategy", "signal"},
		),

		rowsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crossbt_rows_skipped_total",
				Help: "Input rows skipped by price collectors",
			},
			[]string{"collector"},
		),
	}

	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.signalsGenerated)
	reg.MustRegister(r.rowsSkipped)

	return r
}

// RecordBacktest records a strategy evaluation.
func (r *Registry) RecordBacktest(strategy, status string, duration float64) {
	r.backtestsTotal.WithLabelValues(strategy, status).Inc()
	r.backtestDuration.WithLabelValues(strategy).Observe(duration)
}

// RecordSignals adds per-signal counts for a strategy.
func (r *Registry) RecordSignals(strategy string, counts map[core.Signal]int) {
	for sig, n := range counts {
		if n <= 0 {
			continue
		}
		r.signalsGenerated.WithLabelValues(strategy, string(sig)).Add(float64(n))
	}
}

// RecordSkippedRows records input rows a collector could not parse.
func (r *Registry) RecordSkippedRows(collector string, n int) {
	if n <= 0 {
		return
	}
	r.rowsSkipped.WithLabelValues(collector).Add(float64(n))
}

// WriteTextfile writes the current metrics in the node_exporter textfile format.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
