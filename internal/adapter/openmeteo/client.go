package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/couchcryptid/weather-alert-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the Open-Meteo forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

const (
	currentFields = "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,wind_gusts_10m,weather_code"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max,wind_gusts_10m_max"

	callCurrent  = "current"
	callForecast = "forecast"
)

// Client implements domain.WeatherProvider using the Open-Meteo forecast API.
// Each Fetch issues one current-conditions read and one daily forecast read,
// in parallel, with no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timezone   string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. timeout bounds each request;
// timezone is passed through to the API ("auto" resolves from the coordinate).
func NewClient(baseURL, timezone string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:  baseURL,
		timezone: timezone,
		metrics:  metrics,
		logger:   logger,
	}
}

// Fetch retrieves current conditions and a days-long daily forecast. Both
// reads must succeed; errors wrap domain.ErrNetwork or domain.ErrMalformedResponse.
func (c *Client) Fetch(ctx context.Context, coord domain.Coordinate, days int) (domain.Snapshot, error) {
	var (
		current  domain.WeatherPoint
		forecast domain.ForecastSeries
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = c.fetchCurrent(gctx, coord)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = c.fetchForecast(gctx, coord, days)
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.Debug("open-meteo fetch failed",
			"lat", coord.Latitude,
			"lon", coord.Longitude,
			"error", err,
		)
		return domain.Snapshot{}, err
	}

	return domain.Snapshot{Current: current, Forecast: forecast}, nil
}

func (c *Client) fetchCurrent(ctx context.Context, coord domain.Coordinate) (domain.WeatherPoint, error) {
	params := c.baseParams(coord)
	params.Set("current", currentFields)

	var resp currentResponse
	if err := c.doRequest(ctx, callCurrent, params, &resp); err != nil {
		return domain.WeatherPoint{}, err
	}
	return resp.toWeatherPoint()
}

func (c *Client) fetchForecast(ctx context.Context, coord domain.Coordinate, days int) (domain.ForecastSeries, error) {
	params := c.baseParams(coord)
	params.Set("daily", dailyFields)
	params.Set("forecast_days", strconv.Itoa(days))

	var resp forecastResponse
	if err := c.doRequest(ctx, callForecast, params, &resp); err != nil {
		return domain.ForecastSeries{}, err
	}
	return resp.toForecastSeries()
}

func (c *Client) baseParams(coord domain.Coordinate) url.Values {
	return url.Values{
		"latitude":        {strconv.FormatFloat(coord.Latitude, 'f', 4, 64)},
		"longitude":       {strconv.FormatFloat(coord.Longitude, 'f', 4, 64)},
		"timezone":        {c.timezone},
		"wind_speed_unit": {"kmh"},
	}
}

func (c *Client) doRequest(ctx context.Context, call string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: create %s request: %w", domain.ErrNetwork, call, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(call, "error").Inc()
		return fmt.Errorf("%w: %s request: %w", domain.ErrNetwork, call, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.ProviderRequests.WithLabelValues(call, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: open-meteo status %d: %s", domain.ErrNetwork, call, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.ProviderRequests.WithLabelValues(call, "error").Inc()
		return fmt.Errorf("%w: decode %s response: %w", domain.ErrMalformedResponse, call, err)
	}

	c.metrics.ProviderRequests.WithLabelValues(call, "success").Inc()
	return nil
}
