package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	manila = Coordinate{Latitude: 14.6, Longitude: 121.0}
	baguio = Coordinate{Latitude: 16.4, Longitude: 120.6}
)

func manilaZone(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	return loc
}

// generatedAt is 2026-10-15 08:00 in Manila.
func generatedAt(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, time.October, 15, 8, 0, 0, 0, manilaZone(t))
}

// calmWeek returns seven calm, clear days starting on the generation date.
func calmWeek(t *testing.T) ForecastSeries {
	t.Helper()
	loc := manilaZone(t)
	days := make([]ForecastDay, 7)
	for i := range days {
		days[i] = ForecastDay{
			Date:           time.Date(2026, time.October, 15+i, 0, 0, 0, 0, loc),
			TemperatureMax: 31,
			TemperatureMin: 24,
			WeatherCode:    2,
		}
	}
	return ForecastSeries{Location: loc, Days: days}
}

func newEval(t *testing.T, coord Coordinate, current WeatherPoint, forecast ForecastSeries) Evaluation {
	t.Helper()
	th := DefaultThresholds()
	return Evaluation{
		Snapshot:    Snapshot{Current: current, Forecast: forecast},
		Coord:       coord,
		Profile:     ResolveTerrain(coord, th),
		Thresholds:  th,
		GeneratedAt: generatedAt(t),
	}
}

func alertsOfType(alerts []Alert, typ AlertType) []Alert {
	var out []Alert
	for _, a := range alerts {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}
