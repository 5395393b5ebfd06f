package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/config"
	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponse() domain.Response {
	generated := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	coord := domain.Coordinate{Latitude: 14.6, Longitude: 121.0}
	return domain.NewResponse(coord, generated, []domain.Alert{{
		Type:      domain.AlertTyphoon,
		Severity:  domain.SeverityHigh,
		Title:     "Typhoon Warning",
		Category:  domain.CategorySevere,
		Urgency:   domain.UrgencyImmediate,
		Effective: generated,
		Expires:   generated.Add(24 * time.Hour),
		Area:      coord.Area(),
	}}, nil)
}

func TestSerializeToMessage(t *testing.T) {
	resp := sampleResponse()

	msg, err := serializeToMessage("run-1", resp, resp.Alerts[0])
	require.NoError(t, err)

	assert.Equal(t, []byte("Lat: 14.6000, Lon: 121.0000"), msg.Key)
	require.Len(t, msg.Headers, 4)
	assert.Equal(t, "alert_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("typhoon"), msg.Headers[0].Value)
	assert.Equal(t, "severity", msg.Headers[1].Key)
	assert.Equal(t, []byte("high"), msg.Headers[1].Value)
	assert.Equal(t, "run_id", msg.Headers[2].Key)
	assert.Equal(t, []byte("run-1"), msg.Headers[2].Value)
	assert.Equal(t, "generated_at", msg.Headers[3].Key)
	assert.Equal(t, []byte("2026-10-15T00:00:00Z"), msg.Headers[3].Value)

	var decoded alertMessage
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, resp.Location, decoded.Location)
	assert.Equal(t, "Typhoon Warning", decoded.Alert.Title)
	assert.True(t, resp.LastUpdated.Equal(decoded.GeneratedAt))
}

func TestWriter_PublishEmptyResponseIsNoop(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaAlertTopic: "weather-alerts"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	empty := domain.NewResponse(domain.Coordinate{}, time.Now(), nil, nil)
	require.NoError(t, w.Publish(context.Background(), "run-1", empty))
}
