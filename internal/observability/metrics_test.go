package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWith_RegistersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.Evaluations.WithLabelValues("success").Inc()
	m.AlertsEmitted.WithLabelValues("typhoon", "high").Inc()
	m.ProviderRequests.WithLabelValues("current", "success").Inc()
	m.ProviderDuration.WithLabelValues("current").Observe(0.2)
	m.ProviderCache.WithLabelValues("hit").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"weather_alerts_evaluations_total",
		"weather_alerts_alerts_emitted_total",
		"weather_alerts_evaluation_duration_seconds",
		"weather_alerts_outlook_suppressed_total",
		"weather_alerts_provider_requests_total",
		"weather_alerts_provider_request_duration_seconds",
		"weather_alerts_provider_cache_total",
		"weather_alerts_monitor_running",
		"weather_alerts_alerts_published_total",
		"weather_alerts_publish_errors_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestNewMetricsWith_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsWith(reg)
	assert.Panics(t, func() { NewMetricsWith(reg) })
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.OutlookSuppressed.Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(a.OutlookSuppressed), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.OutlookSuppressed), 0)
}
