package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the processor. A nil *Metrics is
// valid everywhere one is accepted: callers guard before touching a field, so
// tests and library use pay nothing for instrumentation.
type Metrics struct {
	// Ledger
	RecordsApplied  *prometheus.CounterVec
	RecordsRejected *prometheus.CounterVec

	// Ingestion
	RowsRead    prometheus.Counter
	RowsSkipped *prometheus.CounterVec

	// Batch
	BatchDuration   prometheus.Histogram
	ClientsReported prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RecordsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "txproc_records_applied_total",
			Help: "Records successfully applied to the ledger",
		}, []string{"kind"}),

		RecordsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "txproc_records_rejected_total",
			Help: "Records rejected by the ledger, by reason",
		}, []string{"kind", "reason"}),

		RowsRead: promauto.NewCounter(prometheus.CounterOpts{
			Name: "txproc_rows_read_total",
			Help: "Input rows read, including ones later skipped",
		}),

		RowsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "txproc_rows_skipped_total",
			Help: "Malformed input rows dropped during ingestion",
		}, []string{"stage"}),

		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "txproc_batch_duration_seconds",
			Help:    "Wall time to process one input file end to end",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),

		ClientsReported: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "txproc_clients_reported",
			Help: "Client accounts in the final report",
		}),
	}
}
