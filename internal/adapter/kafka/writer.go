package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/config"
	"github.com/couchcryptid/weather-alert-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes alerts to a Kafka topic.
// It implements alerting.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured alert topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// alertMessage is the JSON value of one published alert.
type alertMessage struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Location    domain.Coordinate `json:"location"`
	Alert       domain.Alert      `json:"alert"`
}

// Publish writes one message per alert in resp, in a single WriteMessages
// call. Messages are keyed by area so a location's alerts share a partition.
func (w *Writer) Publish(ctx context.Context, runID string, resp domain.Response) error {
	if resp.Count() == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(resp.Alerts))
	for i := range resp.Alerts {
		msg, err := serializeToMessage(runID, resp, resp.Alerts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d alerts: %w", len(msgs), err)
	}
	w.logger.Debug("alerts published",
		"topic", w.writer.Topic,
		"run_id", runID,
		"count", len(msgs),
	)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one alert and its envelope context into a Kafka message.
func serializeToMessage(runID string, resp domain.Response, alert domain.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alertMessage{
		RunID:       runID,
		GeneratedAt: resp.LastUpdated,
		Location:    resp.Location,
		Alert:       alert,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.Area),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_type", Value: []byte(alert.Type)},
			{Key: "severity", Value: []byte(alert.Severity)},
			{Key: "run_id", Value: []byte(runID)},
			{Key: "generated_at", Value: []byte(resp.LastUpdated.Format(time.RFC3339))},
		},
	}, nil
}
