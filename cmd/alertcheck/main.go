// Command alertcheck evaluates one location against live Open-Meteo data
// and prints the alert envelope as JSON.
//
// Usage:
//
//	go run ./cmd/alertcheck --lat=16.4023 --lon=120.596 --days=7
//
// Negative coordinates need the --flag=value form. The exit code is 1 when
// the envelope reports a failure.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/alecthomas/kong"
	"github.com/couchcryptid/weather-alert-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-alert-service/internal/alerting"
	"github.com/couchcryptid/weather-alert-service/internal/config"
	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/couchcryptid/weather-alert-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

const maxTimeout = 10 * time.Second

type cli struct {
	Lat        float64       `help:"Latitude in decimal degrees." required:""`
	Lon        float64       `help:"Longitude in decimal degrees." required:""`
	Days       int           `help:"Forecast days to request (2-16)." default:"7"`
	Timeout    time.Duration `help:"Per-request timeout, at most 10s." default:"10s"`
	BaseURL    string        `name:"base-url" help:"Open-Meteo forecast endpoint." default:"${base_url}"`
	Timezone   string        `help:"Timezone for forecast dates, or auto." default:"Asia/Manila"`
	Thresholds string        `help:"YAML file overlaying the built-in thresholds." type:"existingfile"`
	LogLevel   string        `name:"log-level" help:"Log level." default:"warn" enum:"debug,info,warn,error"`
}

// Validate is called by kong after parsing.
func (c *cli) Validate() error {
	if c.Days < 2 || c.Days > 16 {
		return fmt.Errorf("--days must be between 2 and 16, got %d", c.Days)
	}
	if c.Timeout <= 0 || c.Timeout > maxTimeout {
		return fmt.Errorf("--timeout must be in (0, %s], got %s", maxTimeout, c.Timeout)
	}
	return nil
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("alertcheck"),
		kong.Description("Classify current and forecast weather for one location into alerts."),
		kong.Vars{"base_url": openmeteo.DefaultBaseURL},
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "alertcheck:", err)
		os.Exit(1)
	}
}

// errFailureEnvelope marks a run whose printed envelope reports a failure.
var errFailureEnvelope = errors.New("evaluation failed")

func run(ctx context.Context, args cli, stdout, stderr io.Writer) error {
	logger := observability.NewLoggerTo(stderr, args.LogLevel, "text")

	thresholds, err := config.LoadThresholds(args.Thresholds)
	if err != nil {
		return err
	}

	metrics := observability.NewMetricsWith(prometheus.NewRegistry())
	client := openmeteo.NewClient(args.BaseURL, args.Timezone, args.Timeout, metrics, logger)
	svc := alerting.NewService(client, thresholds, args.Days, logger, metrics)

	resp, evalErr := svc.Evaluate(ctx, domain.Coordinate{Latitude: args.Lat, Longitude: args.Lon}, args.Days)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if evalErr != nil {
		return fmt.Errorf("%w: %s", errFailureEnvelope, resp.Message)
	}
	return nil
}
