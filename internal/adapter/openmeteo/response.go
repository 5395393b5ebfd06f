package openmeteo

import (
	"fmt"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// Open-Meteo API response types. Array entries may be null.

type envelope struct {
	Timezone         string `json:"timezone"`
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
}

type currentResponse struct {
	envelope
	Current *currentBlock `json:"current"`
}

type currentBlock struct {
	Time          string   `json:"time"`
	Temperature   *float64 `json:"temperature_2m"`
	Humidity      *float64 `json:"relative_humidity_2m"`
	Precipitation *float64 `json:"precipitation"`
	WindSpeed     *float64 `json:"wind_speed_10m"`
	WindGust      *float64 `json:"wind_gusts_10m"`
	WeatherCode   *int     `json:"weather_code"`
}

type forecastResponse struct {
	envelope
	Daily *dailyBlock `json:"daily"`
}

type dailyBlock struct {
	Time             []string   `json:"time"`
	WeatherCode      []*int     `json:"weather_code"`
	TemperatureMax   []*float64 `json:"temperature_2m_max"`
	TemperatureMin   []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
	WindSpeedMax     []*float64 `json:"wind_speed_10m_max"`
	WindGustMax      []*float64 `json:"wind_gusts_10m_max"`
}

// location prefers the named IANA zone and falls back to the reported offset.
func (e envelope) location() *time.Location {
	if e.Timezone != "" {
		if loc, err := time.LoadLocation(e.Timezone); err == nil {
			return loc
		}
	}
	name := e.Timezone
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, e.UTCOffsetSeconds)
}

func (r currentResponse) toWeatherPoint() (domain.WeatherPoint, error) {
	if r.Current == nil {
		return domain.WeatherPoint{}, fmt.Errorf("%w: current: missing current block", domain.ErrMalformedResponse)
	}
	cur := r.Current
	observed, err := time.ParseInLocation(dateTimeLayout, cur.Time, r.location())
	if err != nil {
		return domain.WeatherPoint{}, fmt.Errorf("%w: current: time %q: %w", domain.ErrMalformedResponse, cur.Time, err)
	}
	return domain.WeatherPoint{
		Time:          observed,
		Temperature:   deref(cur.Temperature),
		Humidity:      deref(cur.Humidity),
		Precipitation: deref(cur.Precipitation),
		WindSpeed:     deref(cur.WindSpeed),
		WindGust:      deref(cur.WindGust),
		WeatherCode:   deref(cur.WeatherCode),
	}, nil
}

// toForecastSeries aligns the daily arrays on the shorter of time and
// precipitation_sum. Other missing or null per-day values read as zero.
func (r forecastResponse) toForecastSeries() (domain.ForecastSeries, error) {
	if r.Daily == nil {
		return domain.ForecastSeries{}, fmt.Errorf("%w: forecast: missing daily block", domain.ErrMalformedResponse)
	}
	d := r.Daily
	n := min(len(d.Time), len(d.PrecipitationSum))
	if n == 0 {
		return domain.ForecastSeries{}, fmt.Errorf("%w: forecast: empty daily series", domain.ErrMalformedResponse)
	}

	loc := r.location()
	days := make([]domain.ForecastDay, n)
	for i := range n {
		date, err := time.ParseInLocation(dateLayout, d.Time[i], loc)
		if err != nil {
			return domain.ForecastSeries{}, fmt.Errorf("%w: forecast: date %q: %w", domain.ErrMalformedResponse, d.Time[i], err)
		}
		days[i] = domain.ForecastDay{
			Date:             date,
			TemperatureMax:   at(d.TemperatureMax, i),
			TemperatureMin:   at(d.TemperatureMin, i),
			PrecipitationSum: at(d.PrecipitationSum, i),
			WindSpeedMax:     at(d.WindSpeedMax, i),
			WindGustMax:      at(d.WindGustMax, i),
			WeatherCode:      at(d.WeatherCode, i),
		}
	}
	return domain.ForecastSeries{Location: loc, Days: days}, nil
}

func deref[T int | float64](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func at[T int | float64](values []*T, i int) T {
	if i >= len(values) {
		var zero T
		return zero
	}
	return deref(values[i])
}
