package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the edits module.
type Metrics struct {
	EditsApplied      prometheus.Counter
	EditBatchSize     prometheus.Histogram
	EditsDeduplicated prometheus.Counter
	OperationDuration *prometheus.HistogramVec
}

// New registers the edits metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EditsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "qualitydesk_edits_applied_total",
			Help: "Total number of value edits submitted",
		}),
		EditBatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "qualitydesk_edit_batch_size",
			Help:    "Number of edits per submitted batch",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		EditsDeduplicated: factory.NewCounter(prometheus.CounterOpts{
			Name: "qualitydesk_edits_deduplicated_total",
			Help: "Edits that replaced an earlier edit with the same identity",
		}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qualitydesk_edit_operation_duration_seconds",
			Help:    "Duration of edit service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// ObserveBatch records a merged batch. deduplicated is the number of incoming
// edits that did not grow the history.
func (m *Metrics) ObserveBatch(size, deduplicated int) {
	m.EditsApplied.Add(float64(size))
	m.EditBatchSize.Observe(float64(size))
	m.EditsDeduplicated.Add(float64(deduplicated))
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
