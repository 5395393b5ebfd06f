package domain

import "fmt"

// rainyCode reports whether a WMO weather code denotes drizzle, rain,
// showers or thunderstorms. These codes mark a day rainy whatever the amount;
// partly cloudy (1-3) and fog (45-48) only count through the amount check.
func rainyCode(code int) bool {
	switch {
	case code >= 51 && code <= 67:
		return true
	case code >= 80 && code <= 82:
		return true
	case code >= 95 && code <= 99:
		return true
	default:
		return false
	}
}

// ClassifyOutlook produces the informational alert for tomorrow (index 1),
// or nil when no outlook bucket applies. It returns ErrForecastMisaligned,
// and no alert, when tomorrow's entry carries today's date.
func ClassifyOutlook(ev Evaluation) (*Alert, error) {
	series := ev.Snapshot.Forecast
	day, ok := series.Tomorrow()
	if !ok {
		return nil, nil
	}

	zone := series.zone()
	if SameDate(day.Date.In(zone), ev.GeneratedAt.In(zone)) {
		return nil, fmt.Errorf("%w: tomorrow entry dated %s", ErrForecastMisaligned, day.Date.Format(forecastDateLayout))
	}

	lv := ev.Thresholds.Outlook
	precip := day.PrecipitationSum
	sunny := day.WeatherCode == 0 && precip < lv.SunnyBelow
	rainy := precip >= lv.RainyFrom || rainyCode(day.WeatherCode)

	date := day.Date.Format(forecastDateLayout)
	a := Alert{
		Type:          AlertForecast,
		Category:      CategoryForecast,
		Urgency:       UrgencyExpected,
		Effective:     ev.GeneratedAt,
		Expires:       EndOfDay(day.Date),
		Area:          ev.Coord.Area(),
		ForecastDate:  date,
		Precipitation: floatPtr(precip),
	}

	switch {
	case sunny:
		a.Severity = SeverityLow
		a.WeatherCondition = ConditionSunny
		a.Title = "Sunny Weather Tomorrow"
		a.Description = fmt.Sprintf(
			"Clear skies expected on %s with temperatures between %.1f°C and %.1f°C. Good conditions for field work.",
			date, day.TemperatureMin, day.TemperatureMax)
	case rainy && precip > 0 && precip >= lv.Strong:
		a.Severity = SeverityMedium
		a.WeatherCondition = ConditionStrongRain
		a.Title = "Heavy Rain Expected Tomorrow"
		a.Description = fmt.Sprintf(
			"Strong rain of %.1f mm expected on %s. Protect crops and check drainage.", precip, date)
	case rainy && precip > 0 && precip >= lv.Moderate:
		a.Severity = SeverityLow
		a.WeatherCondition = ConditionModerateRain
		a.Title = "Moderate Rain Expected Tomorrow"
		a.Description = fmt.Sprintf(
			"Moderate rain of %.1f mm expected on %s.", precip, date)
	case rainy && precip > 0 && precip >= lv.Slight:
		a.Severity = SeverityLow
		a.WeatherCondition = ConditionSlightRain
		a.Title = "Light Rain Expected Tomorrow"
		a.Description = fmt.Sprintf(
			"Slight rain of %.1f mm expected on %s.", precip, date)
	default:
		return nil, nil
	}
	return &a, nil
}
