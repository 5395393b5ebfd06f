//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-alert-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-alert-service/internal/alerting"
	"github.com/couchcryptid/weather-alert-service/internal/config"
	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/couchcryptid/weather-alert-service/internal/observability"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAlertTopic = "test-weather-alerts"

// publishedAlert holds a deserialized message read from the alert topic.
type publishedAlert struct {
	Key     string
	Headers map[string]string
	Body    struct {
		RunID    string            `json:"run_id"`
		Location domain.Coordinate `json:"location"`
		Alert    domain.Alert      `json:"alert"`
	}
}

func readAlert(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedAlert {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alert topic")

	out := publishedAlert{Key: string(msg.Key), Headers: make(map[string]string, len(msg.Headers))}
	for _, h := range msg.Headers {
		out.Headers[h.Key] = string(h.Value)
	}
	require.NoError(t, json.Unmarshal(msg.Value, &out.Body), "unmarshal alert message")
	return out
}

// floodingOpenMeteo serves 60 mm of current rainfall with calm winds.
func floodingOpenMeteo(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("daily") {
			_, _ = io.WriteString(w, `{"utc_offset_seconds":28800,"timezone":"Asia/Manila",
				"daily":{"time":["2026-10-15","2026-10-16"],"weather_code":[65,3],
				"precipitation_sum":[80,0.2],"wind_speed_10m_max":[20,10],"wind_gusts_10m_max":[30,15]}}`)
			return
		}
		_, _ = io.WriteString(w, `{"utc_offset_seconds":28800,"timezone":"Asia/Manila",
			"current":{"time":"2026-10-15T08:00","temperature_2m":25,"relative_humidity_2m":98,
			"precipitation":60,"wind_speed_10m":15,"wind_gusts_10m":25,"weather_code":65}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestMonitorPublishesToKafka runs one monitor cycle against a stubbed
// Open-Meteo endpoint and reads the published alerts back from Kafka.
func TestMonitorPublishesToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	cfg := &config.Config{
		KafkaBrokers:    []string{broker},
		KafkaAlertTopic: testAlertTopic,
	}
	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()

	provider := openmeteo.NewClient(floodingOpenMeteo(t).URL, "Asia/Manila", 5*time.Second, metrics, logger)
	svc := alerting.NewService(provider, domain.DefaultThresholds(), 2, logger, metrics)

	writer := kafka.NewWriter(cfg, logger)
	t.Cleanup(func() { _ = writer.Close() })

	manila := domain.Coordinate{Latitude: 14.5995, Longitude: 120.9842}
	monitor := alerting.NewMonitor(svc, writer, alerting.MonitorConfig{
		Locations:    []domain.Coordinate{manila},
		Days:         2,
		Interval:     time.Hour,
		PublishRetry: 30 * time.Second,
	}, clockwork.NewRealClock(), logger, metrics)

	monitor.RunOnce(ctx)
	require.NoError(t, monitor.CheckReadiness(ctx))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertTopic,
		StartOffset: kafkago.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	// Current flood first, then the forecast flood for the first day.
	first := readAlert(ctx, t, consumer)
	assert.Equal(t, manila.Area(), first.Key)
	assert.Equal(t, "flood", first.Headers["alert_type"])
	assert.Equal(t, "high", first.Headers["severity"])
	assert.NotEmpty(t, first.Headers["run_id"])
	assert.NotEmpty(t, first.Headers["generated_at"])
	assert.Equal(t, first.Headers["run_id"], first.Body.RunID)
	assert.Equal(t, manila, first.Body.Location)
	assert.Equal(t, "Flood Warning", first.Body.Alert.Title)

	second := readAlert(ctx, t, consumer)
	assert.Equal(t, "flood", second.Headers["alert_type"])
	assert.Equal(t, "medium", second.Headers["severity"])
	assert.Equal(t, "2026-10-15", second.Body.Alert.ForecastDate)
	assert.Equal(t, first.Body.RunID, second.Body.RunID, "one cycle shares a run id")
}
