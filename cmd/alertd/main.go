package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	httpadapter "github.com/couchcryptid/weather-alert-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-alert-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-alert-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-alert-service/internal/alerting"
	"github.com/couchcryptid/weather-alert-service/internal/config"
	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/couchcryptid/weather-alert-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	thresholds, err := config.LoadThresholds(cfg.ThresholdsFile)
	if err != nil {
		logger.Error("failed to load thresholds", "error", err)
		os.Exit(1)
	}

	provider := buildProvider(cfg, metrics, logger)
	svc := alerting.NewService(provider, thresholds, cfg.ForecastDays, logger, metrics)
	alerts := httpadapter.NewAlertHandler(svc, cfg.ForecastDays, logger)

	ready := readiness{svc}
	var (
		monitor *alerting.Monitor
		writer  *kafkaadapter.Writer
	)
	if cfg.MonitorEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		monitor = alerting.NewMonitor(svc, writer, alerting.MonitorConfig{
			Locations:    cfg.WatchLocations,
			Days:         cfg.ForecastDays,
			Interval:     cfg.MonitorInterval,
			PublishRetry: cfg.PublishRetry,
		}, clockwork.NewRealClock(), logger, metrics)
		ready = append(ready, monitor)
	} else {
		logger.Info("scheduled monitor disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, alerts, ready, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start scheduled monitor.
	if monitor != nil {
		go func() {
			if err := monitor.Run(ctx); err != nil {
				logger.Error("monitor error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// buildProvider layers the Open-Meteo client with the optional breaker and cache.
func buildProvider(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.WeatherProvider {
	var provider domain.WeatherProvider = openmeteo.NewClient(
		cfg.ProviderURL, cfg.ProviderTimezone, cfg.ProviderTimeout, metrics, logger)

	if cfg.BreakerFailures > 0 {
		provider = openmeteo.NewBreakerProvider(provider, cfg.BreakerFailures, cfg.BreakerCooldown, logger)
		logger.Info("provider circuit breaker enabled",
			"failures", cfg.BreakerFailures, "cooldown", cfg.BreakerCooldown)
	}
	if cfg.CacheTTL > 0 {
		provider = openmeteo.NewCachedProvider(provider, cfg.CacheSize, cfg.CacheTTL, clockwork.NewRealClock(), metrics)
		logger.Info("provider cache enabled", "size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	}
	return provider
}

// readiness is ready when every member is.
type readiness []httpadapter.ReadinessChecker

func (r readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}
