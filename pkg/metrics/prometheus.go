package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector implements Collector on top of prometheus counters.
type PrometheusCollector struct {
	fetchesTotal   *prometheus.CounterVec
	fetchesSkipped *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	retriesTotal   prometheus.Counter
	deletesTotal   *prometheus.CounterVec
	restoresTotal  *prometheus.CounterVec
}

// NewPrometheusCollector registers the engine metrics on the given registerer
// (prometheus.DefaultRegisterer when nil).
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusCollector{
		fetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashops",
			Subsystem: "ledger",
			Name:      "fetches_total",
			Help:      "Timeline fetch cycles by outcome.",
		}, []string{"outcome"}),
		fetchesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashops",
			Subsystem: "ledger",
			Name:      "fetches_skipped_total",
			Help:      "Fetch requests skipped by the single-flight guard or rate limit.",
		}, []string{"reason"}),
		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cashops",
			Subsystem: "ledger",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of completed fetch cycles.",
			Buckets:   prometheus.DefBuckets,
		}),
		retriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cashops",
			Subsystem: "ledger",
			Name:      "fetch_retries_total",
			Help:      "Automatic fetch retries scheduled.",
		}),
		deletesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashops",
			Subsystem: "operations",
			Name:      "deletes_total",
			Help:      "Delete attempts by operation type and outcome.",
		}, []string{"type", "outcome"}),
		restoresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashops",
			Subsystem: "operations",
			Name:      "restores_total",
			Help:      "Transfer reversal reconciliations by outcome.",
		}, []string{"outcome"}),
	}
}

func (c *PrometheusCollector) FetchStarted() {}

func (c *PrometheusCollector) FetchCompleted(outcome string, elapsed time.Duration) {
	c.fetchesTotal.WithLabelValues(outcome).Inc()
	c.fetchDuration.Observe(elapsed.Seconds())
}

func (c *PrometheusCollector) FetchSkipped(reason string) {
	c.fetchesSkipped.WithLabelValues(reason).Inc()
}

func (c *PrometheusCollector) RetryScheduled() {
	c.retriesTotal.Inc()
}

func (c *PrometheusCollector) DeleteCompleted(opType, outcome string) {
	c.deletesTotal.WithLabelValues(opType, outcome).Inc()
}

func (c *PrometheusCollector) RestoreCompleted(outcome string) {
	c.restoresTotal.WithLabelValues(outcome).Inc()
}
