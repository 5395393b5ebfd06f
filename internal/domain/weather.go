package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNetwork wraps transport failures, timeouts and non-2xx provider responses.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse wraps provider bodies that cannot be decoded into a Snapshot.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidCoordinate is returned for latitudes or longitudes outside WGS-84 bounds.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrForecastMisaligned means the forecast's "tomorrow" entry is dated today.
	ErrForecastMisaligned = errors.New("forecast date misaligned")
)

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate reports ErrInvalidCoordinate when either component is out of range.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %g outside [-90, 90]", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %g outside [-180, 180]", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// Area renders the coordinate as the alert area descriptor.
func (c Coordinate) Area() string {
	return fmt.Sprintf("Lat: %.4f, Lon: %.4f", c.Latitude, c.Longitude)
}

// WeatherPoint holds current conditions at a coordinate.
type WeatherPoint struct {
	Time          time.Time `json:"time"`
	Temperature   float64   `json:"temperature"`   // °C
	Humidity      float64   `json:"humidity"`      // %
	Precipitation float64   `json:"precipitation"` // mm
	WindSpeed     float64   `json:"wind_speed"`    // km/h
	WindGust      float64   `json:"wind_gust"`     // km/h
	WeatherCode   int       `json:"weather_code"`  // WMO code
}

// ForecastDay is one daily aggregate of a forecast series.
type ForecastDay struct {
	Date             time.Time `json:"date"` // midnight in the series' zone
	TemperatureMax   float64   `json:"temperature_max"`
	TemperatureMin   float64   `json:"temperature_min"`
	PrecipitationSum float64   `json:"precipitation_sum"`
	WindSpeedMax     float64   `json:"wind_speed_max"`
	WindGustMax      float64   `json:"wind_gust_max"`
	WeatherCode      int       `json:"weather_code"`
}

// ForecastSeries is a date-ordered run of forecast days. Index 0 is today.
type ForecastSeries struct {
	Location *time.Location
	Days     []ForecastDay
}

// Tomorrow returns the entry at index 1, if present.
func (s ForecastSeries) Tomorrow() (ForecastDay, bool) {
	if len(s.Days) < 2 {
		return ForecastDay{}, false
	}
	return s.Days[1], true
}

// zone returns the series' location, defaulting to UTC.
func (s ForecastSeries) zone() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Snapshot pairs current conditions with the forecast fetched alongside them.
type Snapshot struct {
	Current  WeatherPoint
	Forecast ForecastSeries
}

// WeatherProvider fetches a Snapshot for a coordinate. Implementations return
// errors wrapping ErrNetwork or ErrMalformedResponse and make at most one
// attempt per underlying read.
type WeatherProvider interface {
	Fetch(ctx context.Context, coord Coordinate, days int) (Snapshot, error)
}

// EndOfDay returns 23:59:59 on t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar day, each in its own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
