package alerting

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/couchcryptid/weather-alert-service/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Evaluator produces an alert envelope for one location.
type Evaluator interface {
	Evaluate(ctx context.Context, coord domain.Coordinate, days int) (domain.Response, error)
}

// Publisher delivers the alerts of one evaluation downstream.
type Publisher interface {
	Publish(ctx context.Context, runID string, resp domain.Response) error
}

// MonitorConfig controls the watch loop.
type MonitorConfig struct {
	Locations []domain.Coordinate
	Days      int
	Interval  time.Duration
	// PublishRetry bounds the total time spent retrying one publish.
	PublishRetry time.Duration
}

// Monitor periodically evaluates a fixed set of locations and publishes
// any alerts they produce.
type Monitor struct {
	evaluator Evaluator
	publisher Publisher
	cfg       MonitorConfig
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// NewMonitor creates a Monitor.
func NewMonitor(e Evaluator, p Publisher, cfg MonitorConfig, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	return &Monitor{
		evaluator: e,
		publisher: p,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a full monitoring cycle has completed.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	if !m.ready.Load() {
		return errors.New("monitor has not completed a cycle yet")
	}
	return nil
}

// Run evaluates every location immediately and then once per interval
// until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		"locations", len(m.cfg.Locations),
		"interval", m.cfg.Interval,
	)
	m.metrics.MonitorRunning.Set(1)
	defer m.metrics.MonitorRunning.Set(0)

	ticker := m.clock.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			m.RunOnce(ctx)
		}
	}
}

// RunOnce performs one monitoring cycle. Evaluation and publish failures are
// logged and counted; they never stop the cycle.
func (m *Monitor) RunOnce(ctx context.Context) {
	runID := uuid.NewString()
	logger := m.logger.With("run_id", runID)
	start := m.clock.Now()

	published := 0
	for _, coord := range m.cfg.Locations {
		if ctx.Err() != nil {
			return
		}

		resp, err := m.evaluator.Evaluate(ctx, coord, m.cfg.Days)
		if err != nil {
			logger.Warn("location evaluation failed", "area", coord.Area(), "error", err)
			continue
		}
		if resp.Count() == 0 {
			continue
		}

		if err := m.publish(ctx, runID, resp); err != nil {
			logger.Error("publish alerts failed",
				"area", coord.Area(),
				"alerts", resp.Count(),
				"error", err,
			)
			m.metrics.PublishErrors.Inc()
			continue
		}
		m.metrics.AlertsPublished.Add(float64(resp.Count()))
		published += resp.Count()
	}

	m.ready.Store(true)
	logger.Info("monitor cycle complete",
		"locations", len(m.cfg.Locations),
		"published", published,
		"duration", m.clock.Since(start),
	)
}

// publish retries with exponential backoff: 200ms doubling up to 5s,
// for at most PublishRetry in total. A zero PublishRetry means one attempt.
func (m *Monitor) publish(ctx context.Context, runID string, resp domain.Response) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = m.cfg.PublishRetry

	var b backoff.BackOff = policy
	if m.cfg.PublishRetry <= 0 {
		b = &backoff.StopBackOff{}
	}

	op := func() error {
		err := m.publisher.Publish(ctx, runID, resp)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}
