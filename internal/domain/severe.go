package domain

import (
	"fmt"
	"time"
)

// Expiry horizons for current-conditions alerts.
const (
	typhoonHorizon  = 24 * time.Hour
	stormHorizon    = 12 * time.Hour
	rainfallHorizon = 6 * time.Hour
)

// Evaluation bundles everything one classification run reads. It is built
// per request and owned by that request.
type Evaluation struct {
	Snapshot    Snapshot
	Coord       Coordinate
	Profile     TerrainProfile
	Thresholds  Thresholds
	GeneratedAt time.Time
}

// NewEvaluation resolves the terrain profile for coord and stamps the
// generation time from the package clock.
func NewEvaluation(snap Snapshot, coord Coordinate, t Thresholds) Evaluation {
	return Evaluation{
		Snapshot:    snap,
		Coord:       coord,
		Profile:     ResolveTerrain(coord, t),
		Thresholds:  t,
		GeneratedAt: clock.Now(),
	}
}

// rule inspects an evaluation and produces at most one alert.
type rule struct {
	name  string
	apply func(ev Evaluation) (Alert, bool)
}

// severeRules are the classifier tiers in evaluation order. Tiers are
// independent; a first-match group lets only its earliest member fire.
var severeRules = []rule{
	{name: "current_wind", apply: firstMatch(currentTyphoon, currentStorm)},
	{name: "current_rainfall", apply: firstMatch(currentFlood, currentHeavyRain)},
	{name: "forecast_typhoon", apply: forecastTyphoon},
	{name: "forecast_flood", apply: forecastFlood},
	{name: "sustained_typhoon", apply: sustainedTyphoon},
}

// ClassifySevere applies every severe-weather tier in order and collects the
// alerts that fire.
func ClassifySevere(ev Evaluation) []Alert {
	alerts := make([]Alert, 0, len(severeRules))
	for _, r := range severeRules {
		if a, ok := r.apply(ev); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

func firstMatch(rules ...func(Evaluation) (Alert, bool)) func(Evaluation) (Alert, bool) {
	return func(ev Evaluation) (Alert, bool) {
		for _, r := range rules {
			if a, ok := r(ev); ok {
				return a, true
			}
		}
		return Alert{}, false
	}
}

func severeAlert(ev Evaluation, t AlertType, sev Severity, urg Urgency) Alert {
	return Alert{
		Type:      t,
		Severity:  sev,
		Category:  CategorySevere,
		Urgency:   urg,
		Effective: ev.GeneratedAt,
		Area:      ev.Coord.Area(),
	}
}

func currentTyphoon(ev Evaluation) (Alert, bool) {
	cur := ev.Snapshot.Current
	if !ev.Profile.Typhoon.Matches(cur.WindSpeed, cur.WindGust, cur.Precipitation) {
		return Alert{}, false
	}
	a := severeAlert(ev, AlertTyphoon, SeverityHigh, UrgencyImmediate)
	a.Title = "Typhoon Warning"
	a.Description = fmt.Sprintf(
		"Typhoon conditions detected: sustained winds of %.1f km/h with gusts up to %.1f km/h and %.1f mm of rainfall. Seek shelter and follow local advisories.",
		cur.WindSpeed, cur.WindGust, cur.Precipitation)
	if ev.Profile.Terrain == TerrainHighland {
		a.Description += " Highland thresholds applied."
	}
	a.Expires = ev.GeneratedAt.Add(typhoonHorizon)
	a.WindSpeed = floatPtr(cur.WindSpeed)
	a.Precipitation = floatPtr(cur.Precipitation)
	return a, true
}

func currentStorm(ev Evaluation) (Alert, bool) {
	sig := ev.Profile.TropicalStorm
	if sig == nil {
		return Alert{}, false
	}
	cur := ev.Snapshot.Current
	if !sig.Matches(cur.WindSpeed, cur.WindGust, cur.Precipitation) {
		return Alert{}, false
	}
	a := severeAlert(ev, AlertStorm, SeverityMedium, UrgencyExpected)
	a.Title = "Tropical Storm Alert"
	a.Description = fmt.Sprintf(
		"Tropical storm conditions: winds of %.1f km/h with gusts up to %.1f km/h and %.1f mm of rainfall. Secure loose objects and stay indoors.",
		cur.WindSpeed, cur.WindGust, cur.Precipitation)
	a.Expires = ev.GeneratedAt.Add(stormHorizon)
	a.WindSpeed = floatPtr(cur.WindSpeed)
	a.Precipitation = floatPtr(cur.Precipitation)
	return a, true
}

func currentFlood(ev Evaluation) (Alert, bool) {
	precip := ev.Snapshot.Current.Precipitation
	if precip < ev.Thresholds.CurrentRainfall.Flood {
		return Alert{}, false
	}
	a := severeAlert(ev, AlertFlood, SeverityHigh, UrgencyImmediate)
	a.Title = "Flood Warning"
	a.Description = fmt.Sprintf(
		"Heavy rainfall of %.1f mm detected. Flooding is likely in low-lying areas; move to higher ground if needed.", precip)
	a.Expires = ev.GeneratedAt.Add(rainfallHorizon)
	a.Precipitation = floatPtr(precip)
	return a, true
}

func currentHeavyRain(ev Evaluation) (Alert, bool) {
	precip := ev.Snapshot.Current.Precipitation
	if precip < ev.Thresholds.CurrentRainfall.Heavy {
		return Alert{}, false
	}
	a := severeAlert(ev, AlertRain, SeverityMedium, UrgencyExpected)
	a.Title = "Heavy Rain Advisory"
	a.Description = fmt.Sprintf(
		"Moderate to heavy rainfall of %.1f mm detected. Watch for localized flooding.", precip)
	a.Expires = ev.GeneratedAt.Add(rainfallHorizon)
	a.Precipitation = floatPtr(precip)
	return a, true
}

// forecastTyphoon reports the earliest forecast day matching the forecast
// typhoon signature. Terrain does not adjust this scan.
func forecastTyphoon(ev Evaluation) (Alert, bool) {
	sig := ev.Thresholds.ForecastTyphoon
	for _, day := range ev.Snapshot.Forecast.Days {
		if !sig.Matches(day.WindSpeedMax, day.WindGustMax, day.PrecipitationSum) {
			continue
		}
		a := severeAlert(ev, AlertTyphoon, SeverityHigh, UrgencyFuture)
		a.Title = "Typhoon Forecast"
		a.Description = fmt.Sprintf(
			"Typhoon conditions forecast for %s: winds up to %.1f km/h with gusts up to %.1f km/h and %.1f mm of rain. Prepare emergency supplies.",
			day.Date.Format(forecastDateLayout), day.WindSpeedMax, day.WindGustMax, day.PrecipitationSum)
		a.Expires = EndOfDay(day.Date)
		a.ForecastDate = day.Date.Format(forecastDateLayout)
		a.WindSpeed = floatPtr(day.WindSpeedMax)
		a.Precipitation = floatPtr(day.PrecipitationSum)
		return a, true
	}
	return Alert{}, false
}

// forecastFlood reports the earliest forecast day whose rainfall reaches the flood level.
func forecastFlood(ev Evaluation) (Alert, bool) {
	for _, day := range ev.Snapshot.Forecast.Days {
		if day.PrecipitationSum < ev.Thresholds.ForecastFlood {
			continue
		}
		a := severeAlert(ev, AlertFlood, SeverityMedium, UrgencyFuture)
		a.Title = "Heavy Rain Forecast"
		a.Description = fmt.Sprintf(
			"%.1f mm of rain forecast for %s. Prepare for possible flooding.",
			day.PrecipitationSum, day.Date.Format(forecastDateLayout))
		a.Expires = EndOfDay(day.Date)
		a.ForecastDate = day.Date.Format(forecastDateLayout)
		a.Precipitation = floatPtr(day.PrecipitationSum)
		return a, true
	}
	return Alert{}, false
}

// sustainedTyphoon counts forecast days matching the sustained signature and
// fires once the count reaches SustainedMinDays. The peak day is the first
// day holding the maximum wind speed among qualifying days.
func sustainedTyphoon(ev Evaluation) (Alert, bool) {
	sig := ev.Thresholds.SustainedTyphoon
	count := 0
	var peak ForecastDay
	for _, day := range ev.Snapshot.Forecast.Days {
		if !sig.Matches(day.WindSpeedMax, day.WindGustMax, day.PrecipitationSum) {
			continue
		}
		count++
		if count == 1 || day.WindSpeedMax > peak.WindSpeedMax {
			peak = day
		}
	}
	if count == 0 || count < ev.Thresholds.SustainedMinDays {
		return Alert{}, false
	}

	a := severeAlert(ev, AlertTyphoon, SeverityHigh, UrgencyImmediate)
	a.Title = "Sustained Typhoon Threat"
	a.Description = fmt.Sprintf(
		"Typhoon conditions forecast on %d days, peaking at %.1f km/h winds on %s. Complete preparations now.",
		count, peak.WindSpeedMax, peak.Date.Format(forecastDateLayout))
	a.Expires = EndOfDay(peak.Date)
	a.ForecastDate = peak.Date.Format(forecastDateLayout)
	a.WindSpeed = floatPtr(peak.WindSpeedMax)
	a.DurationDays = count
	return a, true
}
