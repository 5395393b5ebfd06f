package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	// Weather provider configuration.
	ProviderURL      string        `envconfig:"WEATHER_PROVIDER_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"required,url"`
	ProviderTimeout  time.Duration `envconfig:"WEATHER_PROVIDER_TIMEOUT" default:"10s" validate:"gt=0,lte=10s"`
	ProviderTimezone string        `envconfig:"WEATHER_TIMEZONE" default:"Asia/Manila" validate:"required"`
	ForecastDays     int           `envconfig:"FORECAST_DAYS" default:"7" validate:"gte=2,lte=16"`
	CacheTTL         time.Duration `envconfig:"PROVIDER_CACHE_TTL" default:"0s" validate:"gte=0"`
	CacheSize        int           `envconfig:"PROVIDER_CACHE_SIZE" default:"1000" validate:"gt=0"`
	BreakerFailures  uint32        `envconfig:"PROVIDER_BREAKER_FAILURES" default:"5"`
	BreakerCooldown  time.Duration `envconfig:"PROVIDER_BREAKER_COOLDOWN" default:"30s" validate:"gt=0"`

	// ThresholdsFile optionally overlays the built-in threshold table.
	ThresholdsFile string `envconfig:"THRESHOLDS_FILE"`

	// Scheduled monitor configuration.
	WatchLocations  Locations     `envconfig:"WATCH_LOCATIONS"`
	MonitorInterval time.Duration `envconfig:"MONITOR_INTERVAL" default:"15m" validate:"gt=0"`
	PublishRetry    time.Duration `envconfig:"MONITOR_PUBLISH_RETRY" default:"30s" validate:"gte=0"`
	KafkaBrokers    []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaAlertTopic string        `envconfig:"KAFKA_ALERT_TOPIC" default:"weather-alerts"`
}

// MonitorEnabled reports whether any watch locations are configured.
func (c *Config) MonitorEnabled() bool {
	return len(c.WatchLocations) > 0
}

// Load reads configuration from an optional .env file and environment
// variables, applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env file is not an error. Existing variables win.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if _, err := time.LoadLocation(cfg.ProviderTimezone); err != nil && cfg.ProviderTimezone != "auto" {
		return nil, fmt.Errorf("invalid WEATHER_TIMEZONE: %w", err)
	}

	if cfg.MonitorEnabled() {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when WATCH_LOCATIONS is set")
		}
		if cfg.KafkaAlertTopic == "" {
			return nil, errors.New("KAFKA_ALERT_TOPIC is required when WATCH_LOCATIONS is set")
		}
	}

	return &cfg, nil
}

// Locations is a list of watch coordinates decoded from "lat:lon,lat:lon".
type Locations []domain.Coordinate

// Decode implements envconfig.Decoder.
func (l *Locations) Decode(value string) error {
	var out Locations
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		latStr, lonStr, ok := strings.Cut(part, ":")
		if !ok {
			return fmt.Errorf("watch location %q: want lat:lon", part)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			return fmt.Errorf("watch location %q: latitude: %w", part, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if err != nil {
			return fmt.Errorf("watch location %q: longitude: %w", part, err)
		}
		coord := domain.Coordinate{Latitude: lat, Longitude: lon}
		if err := coord.Validate(); err != nil {
			return fmt.Errorf("watch location %q: %w", part, err)
		}
		out = append(out, coord)
	}
	*l = out
	return nil
}
