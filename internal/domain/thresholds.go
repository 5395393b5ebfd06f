package domain

// StormSignature is a gated wind + rain condition:
//
//	(speed ≥ WindSpeed OR gust ≥ WindGust) AND precip ≥ Precipitation
//	AND (gust ≥ speed × GustRatio OR speed ≥ WindSpeed)
//
// The gust ratio guard screens out single-gust artifacts unless the
// sustained speed clears the bar on its own.
type StormSignature struct {
	WindSpeed     float64 `yaml:"wind_speed"`
	WindGust      float64 `yaml:"wind_gust"`
	Precipitation float64 `yaml:"precipitation"`
	GustRatio     float64 `yaml:"gust_ratio"`
}

// Matches evaluates the signature against one set of readings.
func (s StormSignature) Matches(speed, gust, precip float64) bool {
	windy := speed >= s.WindSpeed || gust >= s.WindGust
	if !windy || precip < s.Precipitation {
		return false
	}
	return gust >= speed*s.GustRatio || speed >= s.WindSpeed
}

// RainfallLevels holds the current-conditions rainfall tiers in mm.
type RainfallLevels struct {
	Flood float64 `yaml:"flood"`
	Heavy float64 `yaml:"heavy"`
}

// OutlookLevels holds the thresholds used for tomorrow's outlook, in mm.
type OutlookLevels struct {
	SunnyBelow float64 `yaml:"sunny_below"`
	RainyFrom  float64 `yaml:"rainy_from"`
	Slight     float64 `yaml:"slight"`
	Moderate   float64 `yaml:"moderate"`
	Strong     float64 `yaml:"strong"`
}

// Thresholds is the declarative threshold table keyed by tier and terrain.
// Terrain-keyed tiers without an entry for a terrain are suppressed there.
type Thresholds struct {
	CurrentTyphoon   map[Terrain]StormSignature `yaml:"current_typhoon"`
	CurrentStorm     map[Terrain]StormSignature `yaml:"current_storm"`
	CurrentRainfall  RainfallLevels             `yaml:"current_rainfall"`
	ForecastTyphoon  StormSignature             `yaml:"forecast_typhoon"`
	ForecastFlood    float64                    `yaml:"forecast_flood"`
	SustainedTyphoon StormSignature             `yaml:"sustained_typhoon"`
	SustainedMinDays int                        `yaml:"sustained_min_days"`
	Outlook          OutlookLevels              `yaml:"outlook"`
}

// DefaultThresholds returns a fresh copy of the built-in threshold table.
func DefaultThresholds() Thresholds {
	standardTyphoon := StormSignature{WindSpeed: 75, WindGust: 90, Precipitation: 20, GustRatio: 1.2}
	return Thresholds{
		CurrentTyphoon: map[Terrain]StormSignature{
			TerrainStandard: standardTyphoon,
			TerrainHighland: {WindSpeed: 85, WindGust: 100, Precipitation: 30, GustRatio: 1.3},
		},
		CurrentStorm: map[Terrain]StormSignature{
			TerrainStandard: {WindSpeed: 50, WindGust: 65, Precipitation: 10, GustRatio: 1.1},
		},
		CurrentRainfall:  RainfallLevels{Flood: 50, Heavy: 25},
		ForecastTyphoon:  standardTyphoon,
		ForecastFlood:    50,
		SustainedTyphoon: standardTyphoon,
		SustainedMinDays: 2,
		Outlook: OutlookLevels{
			SunnyBelow: 0.5,
			RainyFrom:  0.5,
			Slight:     1,
			Moderate:   10,
			Strong:     25,
		},
	}
}
