// Package metrics exposes the reporting counters over a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "sales_atlas"

// Report kinds.
const (
	KindLocation = "location"
	KindNetwork  = "network"
)

// Notification results.
const (
	ResultDelivered = "delivered"
	ResultFailed    = "failed"
)

// Recorder collects report, fetch and delivery metrics.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	reportsTotal        *prometheus.CounterVec
	reportDuration      *prometheus.HistogramVec
	fetchFailuresTotal  prometheus.Counter
	notificationsTotal  *prometheus.CounterVec
	planRowWarningTotal prometheus.Counter
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "reports_total",
				Help:      "Generated reports by kind and outcome.",
			},
			[]string{"kind", "status"},
		),
		reportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "report_duration_seconds",
				Help:      "Time spent generating a report.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		fetchFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "location_fetch_failures_total",
				Help:      "Failed fact fetches for a single location.",
			},
		),
		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "notifications_total",
				Help:      "Report deliveries per recipient by result.",
			},
			[]string{"result"},
		),
		planRowWarningTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "plan_row_warnings_total",
				Help:      "Plan rows skipped because of an invalid date.",
			},
		),
	}

	registry.MustRegister(
		r.reportsTotal,
		r.reportDuration,
		r.fetchFailuresTotal,
		r.notificationsTotal,
		r.planRowWarningTotal,
	)
	return r
}

// ObserveReport records the outcome and duration of one report run.
func (r *Recorder) ObserveReport(kind, status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.reportsTotal.WithLabelValues(kind, status).Inc()
	r.reportDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (r *Recorder) LocationFetchFailed() {
	if r == nil {
		return
	}
	r.fetchFailuresTotal.Inc()
}

func (r *Recorder) Notification(result string) {
	if r == nil {
		return
	}
	r.notificationsTotal.WithLabelValues(result).Inc()
}

func (r *Recorder) PlanRowWarning() {
	if r == nil {
		return
	}
	r.planRowWarningTotal.Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
