package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_alerts"

// Metrics holds the Prometheus counters, histograms, and gauges for the alert service.
type Metrics struct {
	Evaluations        *prometheus.CounterVec // labels: outcome={success,fetch_failed,invalid}
	AlertsEmitted      *prometheus.CounterVec // labels: type, severity
	EvaluationDuration prometheus.Histogram
	OutlookSuppressed  prometheus.Counter

	// Provider metrics.
	ProviderRequests *prometheus.CounterVec   // labels: call={current,forecast}, outcome={success,error}
	ProviderDuration *prometheus.HistogramVec // labels: call={current,forecast}
	ProviderCache    *prometheus.CounterVec   // labels: result={hit,miss}

	// Monitor metrics.
	MonitorRunning  prometheus.Gauge
	AlertsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all service metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()

	reg.MustRegister(
		m.Evaluations,
		m.AlertsEmitted,
		m.EvaluationDuration,
		m.OutlookSuppressed,
		m.ProviderRequests,
		m.ProviderDuration,
		m.ProviderCache,
		m.MonitorRunning,
		m.AlertsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Alert evaluations by outcome.",
		}, []string{"outcome"}),
		AlertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_emitted_total",
			Help:      "Alerts emitted by type and severity.",
		}, []string{"type", "severity"}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of a fetch-classify-aggregate evaluation.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		OutlookSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outlook_suppressed_total",
			Help:      "Outlook alerts suppressed because tomorrow's forecast entry was dated today.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Weather provider requests by call and outcome.",
		}, []string{"call", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Weather provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"call"}),
		ProviderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_cache_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		MonitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitor_running",
			Help:      "1 when the scheduled monitor is active, 0 when shut down.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Alerts written to the alert topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish alerts.",
		}),
	}
}
