package seed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "tracker_seed"

// Metrics counts what a pipeline writes. A nil *Metrics records nothing.
type Metrics struct {
	rowsInserted *prometheus.CounterVec
	workers      *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

// NewMetrics registers the seed metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rowsInserted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_inserted_total",
			Help:      "Rows inserted by the demo data pipeline, by record kind.",
		}, []string{"kind"}),
		workers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "workers_total",
			Help:      "Generator workers by kind and terminal outcome.",
		}, []string{"kind", "outcome"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of complete pipeline runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

func (m *Metrics) userCreated() {
	if m == nil {
		return
	}
	m.rowsInserted.WithLabelValues("user").Inc()
}

func (m *Metrics) workerDone(h *WorkerHandle) {
	if m == nil {
		return
	}

	outcome := "completed"
	switch err := h.Err(); {
	case err == nil:
	case IsCancellation(err):
		outcome = "cancelled"
	default:
		outcome = "failed"
	}
	m.workers.WithLabelValues(string(h.Kind()), outcome).Inc()

	kind := "transaction"
	if h.Kind() == WorkerBudgets {
		kind = "budget"
	}
	m.rowsInserted.WithLabelValues(kind).Add(float64(h.Rows()))
}

func (m *Metrics) observeRun(seconds float64) {
	if m == nil {
		return
	}
	m.runDuration.Observe(seconds)
}
