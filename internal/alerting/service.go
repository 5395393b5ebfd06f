package alerting

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/couchcryptid/weather-alert-service/internal/observability"
)

const fetchFailurePrefix = "failed to fetch weather data: "

// Service evaluates locations against the configured thresholds.
type Service struct {
	provider    domain.WeatherProvider
	thresholds  domain.Thresholds
	defaultDays int
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewService creates a Service. defaultDays is used when a caller asks for
// zero days.
func NewService(provider domain.WeatherProvider, thresholds domain.Thresholds, defaultDays int, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		provider:    provider,
		thresholds:  thresholds,
		defaultDays: defaultDays,
		logger:      logger,
		metrics:     metrics,
	}
}

// Evaluate fetches weather for coord and classifies it. The returned
// Response is always a complete envelope; err is non-nil exactly when the
// envelope is a failure, so callers can tell invalid input from fetch errors.
func (s *Service) Evaluate(ctx context.Context, coord domain.Coordinate, days int) (domain.Response, error) {
	start := time.Now()
	defer func() {
		s.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	}()

	if days <= 0 {
		days = s.defaultDays
	}
	if err := coord.Validate(); err != nil {
		s.metrics.Evaluations.WithLabelValues("invalid").Inc()
		return domain.FailureResponse(err.Error()), err
	}

	snap, err := s.provider.Fetch(ctx, coord, days)
	if err != nil {
		s.logger.Warn("weather fetch failed",
			"area", coord.Area(),
			"error", err,
		)
		s.metrics.Evaluations.WithLabelValues("fetch_failed").Inc()
		return domain.FailureResponse(fetchFailurePrefix + err.Error()), err
	}

	return s.classify(coord, snap), nil
}

// Classify evaluates a caller-supplied snapshot without fetching.
func (s *Service) Classify(coord domain.Coordinate, snap domain.Snapshot) (domain.Response, error) {
	if err := coord.Validate(); err != nil {
		s.metrics.Evaluations.WithLabelValues("invalid").Inc()
		return domain.FailureResponse(err.Error()), err
	}
	return s.classify(coord, snap), nil
}

func (s *Service) classify(coord domain.Coordinate, snap domain.Snapshot) domain.Response {
	ev := domain.NewEvaluation(snap, coord, s.thresholds)
	resp, err := domain.Classify(ev)
	if err != nil {
		s.logger.Warn("forecast outlook suppressed",
			"area", coord.Area(),
			"error", err,
		)
		s.metrics.OutlookSuppressed.Inc()
	}

	for _, a := range resp.Alerts {
		s.metrics.AlertsEmitted.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	}
	s.metrics.Evaluations.WithLabelValues("success").Inc()
	s.logger.Debug("location evaluated",
		"area", coord.Area(),
		"terrain", ev.Profile.Terrain,
		"alerts", resp.Count(),
	)
	return resp
}

// CheckReadiness delegates to the provider when it reports readiness.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if rc, ok := s.provider.(interface{ CheckReadiness(context.Context) error }); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}
