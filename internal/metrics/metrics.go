package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "autoswap"

// Recorder owns the swap collectors and their private registry. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	cycles      *prometheus.CounterVec
	approvals   prometheus.Histogram
	durations   prometheus.Histogram
	lastSuccess prometheus.Gauge
	gasUsed     prometheus.Counter
}

// NewRecorder creates Recorder and registers its collectors.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Swap cycles by result kind.",
		}, []string{"result"}),
		approvals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "approval_attempts",
			Help:      "Approval submissions needed per confirmed approval.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
		durations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of swap cycles in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last confirmed swap.",
		}),
		gasUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swap_gas_used_total",
			Help:      "Gas consumed by confirmed swaps.",
		}),
	}
	registry.MustRegister(r.cycles, r.approvals, r.durations, r.lastSuccess, r.gasUsed)

	return r
}

// ObserveCycle records the end of a cycle classified as result.
func (r *Recorder) ObserveCycle(result string, duration time.Duration) {
	if r == nil {
		return
	}
	r.cycles.WithLabelValues(result).Inc()
	r.durations.Observe(duration.Seconds())
}

// ObserveSwap records a confirmed swap.
func (r *Recorder) ObserveSwap(at time.Time, approvalAttempts int, gasUsed uint64) {
	if r == nil {
		return
	}
	r.lastSuccess.Set(float64(at.Unix()))
	if approvalAttempts > 0 {
		r.approvals.Observe(float64(approvalAttempts))
	}
	r.gasUsed.Add(float64(gasUsed))
}

// Registry exposes the registry for scraping and tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
