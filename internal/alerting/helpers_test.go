package alerting_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/stretchr/testify/require"
)

var (
	manila = domain.Coordinate{Latitude: 14.6, Longitude: 121.0}
	baguio = domain.Coordinate{Latitude: 16.4, Longitude: 120.6}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func manilaZone(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	return loc
}

// week builds seven days from 2026-10-15 with the given daily rainfall.
func week(t *testing.T, rain ...float64) domain.ForecastSeries {
	t.Helper()
	loc := manilaZone(t)
	days := make([]domain.ForecastDay, 7)
	for i := range days {
		days[i] = domain.ForecastDay{
			Date:           time.Date(2026, time.October, 15+i, 0, 0, 0, 0, loc),
			TemperatureMax: 31,
			TemperatureMin: 24,
			WeatherCode:    2,
		}
		if i < len(rain) {
			days[i].PrecipitationSum = rain[i]
			if rain[i] > 0 {
				days[i].WeatherCode = 63
			}
		}
	}
	return domain.ForecastSeries{Location: loc, Days: days}
}

// --- mocks ---

type stubProvider struct {
	mu    sync.Mutex
	snap  domain.Snapshot
	err   error
	calls []domain.Coordinate
	days  []int
}

func (m *stubProvider) Fetch(_ context.Context, coord domain.Coordinate, days int) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, coord)
	m.days = append(m.days, days)
	return m.snap, m.err
}

func (m *stubProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
