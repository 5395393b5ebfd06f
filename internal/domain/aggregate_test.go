package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse_Order(t *testing.T) {
	severe := []Alert{{Type: AlertTyphoon}, {Type: AlertFlood}, {Type: AlertTyphoon, DurationDays: 2}}
	outlook := &Alert{Type: AlertForecast, WeatherCondition: ConditionStrongRain}

	resp := NewResponse(manila, generatedAt(t), severe, outlook)

	require.Equal(t, 4, resp.Count())
	assert.True(t, resp.Success)
	assert.Equal(t, AlertTyphoon, resp.Alerts[0].Type)
	assert.Equal(t, AlertFlood, resp.Alerts[1].Type)
	assert.Equal(t, 2, resp.Alerts[2].DurationDays)
	assert.Equal(t, AlertForecast, resp.Alerts[3].Type)
	assert.Equal(t, manila, resp.Location)
	assert.Equal(t, generatedAt(t), resp.LastUpdated)
}

func TestClassify_AllZeroSnapshot(t *testing.T) {
	ev := newEval(t, manila, WeatherPoint{}, ForecastSeries{})

	resp, err := Classify(ev)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Count())

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"data": [],
		"count": 0,
		"location": {"latitude": 14.6, "longitude": 121},
		"last_updated": "2026-10-15T08:00:00+08:00"
	}`, string(body))
}

func TestClassify_MisalignedKeepsSevereAlerts(t *testing.T) {
	series := calmWeek(t)
	series.Days[1].Date = series.Days[0].Date
	ev := newEval(t, manila, WeatherPoint{Precipitation: 60}, series)

	resp, err := Classify(ev)

	require.ErrorIs(t, err, ErrForecastMisaligned)
	assert.True(t, resp.Success)
	require.Equal(t, 1, resp.Count())
	assert.Equal(t, AlertFlood, resp.Alerts[0].Type)
}

func TestClassify_SevereThenOutlook(t *testing.T) {
	series := calmWeek(t)
	series.Days[1].WeatherCode = 65
	series.Days[1].PrecipitationSum = 60
	ev := newEval(t, manila, WeatherPoint{Precipitation: 30}, series)

	resp, err := Classify(ev)
	require.NoError(t, err)

	require.Equal(t, 3, resp.Count())
	assert.Equal(t, AlertRain, resp.Alerts[0].Type)
	assert.Equal(t, AlertFlood, resp.Alerts[1].Type)
	assert.Equal(t, UrgencyFuture, resp.Alerts[1].Urgency)
	assert.Equal(t, AlertForecast, resp.Alerts[2].Type)
	assert.Equal(t, ConditionStrongRain, resp.Alerts[2].WeatherCondition)
}

func TestFailureResponse_JSON(t *testing.T) {
	resp := FailureResponse("failed to fetch weather data: network error")

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": false, "message": "failed to fetch weather data: network error", "data": []}`, string(body))

	var decoded Response
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.False(t, decoded.Success)
	assert.Equal(t, resp.Message, decoded.Message)
}

func TestAlert_JSONOptionalFields(t *testing.T) {
	ts := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)
	a := Alert{
		Type:      AlertStorm,
		Severity:  SeverityMedium,
		Title:     "Tropical Storm Alert",
		Category:  CategorySevere,
		Urgency:   UrgencyExpected,
		Effective: ts,
		Expires:   ts.Add(12 * time.Hour),
		Area:      manila.Area(),
	}

	body, err := json.Marshal(a)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	for _, key := range []string{"forecast_date", "precipitation", "weather_condition", "wind_speed", "duration_days"} {
		assert.NotContains(t, fields, key)
	}
	assert.Equal(t, "storm", fields["type"])
	assert.Equal(t, "severe_weather", fields["category"])
}

func TestNewEvaluation_UsesPackageClock(t *testing.T) {
	fixed := time.Date(2026, time.October, 15, 6, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	ev := NewEvaluation(Snapshot{}, baguio, DefaultThresholds())

	assert.Equal(t, fixed, ev.GeneratedAt)
	assert.Equal(t, TerrainHighland, ev.Profile.Terrain)
	assert.Equal(t, fixed, Now())
}

func TestEndOfDay(t *testing.T) {
	loc := manilaZone(t)
	got := EndOfDay(time.Date(2026, time.October, 16, 0, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2026, time.October, 16, 23, 59, 59, 0, loc), got)
}
