// Package domain classifies current conditions and daily forecasts for a
// coordinate into weather alerts.
//
// # Inputs
//
// A Snapshot pairs current conditions (WeatherPoint) with a ForecastSeries of
// daily aggregates. Units follow the Open-Meteo defaults with km/h wind:
//
//	temperature      °C
//	precipitation    mm (current: last hour, daily: sum)
//	wind speed/gust  km/h
//	weather code     WMO 4677 (0 clear, 1-3 cloudy, 45-48 fog, 51-67 drizzle/rain,
//	                 80-82 showers, 95-99 thunderstorm)
//
// Daily dates are midnight in the provider's time zone. Index 0 is today.
//
// # Terrain
//
// Coordinates inside a HighlandRegions box use stricter current-conditions
// thresholds and never raise tropical storm alerts. Boxes are inclusive on
// every edge. See [ResolveTerrain].
//
// # Tiers
//
// [ClassifySevere] evaluates, in order:
//
//	1 typhoon (current)       standard 75/90/20/1.2  highland 85/100/30/1.3   high/immediate  +24h
//	2 tropical storm (current) standard only 50/65/10/1.1, skipped if 1 fired medium/expected +12h
//	3 rainfall (current)      ≥50 flood high/immediate, else ≥25 rain medium/expected        +6h
//	4 forecast typhoon scan   earliest day, 75/90/20/1.2 on every terrain       high/future   day end
//	5 forecast flood scan     earliest day with sum ≥50                        medium/future day end
//	6 sustained typhoon       ≥2 matching days, peak wind + duration           high/immediate peak day end
//
// Signatures read wind speed / wind gust / precipitation / gust ratio. See
// [StormSignature] for the gate.
//
// # Outlook
//
// [ClassifyOutlook] emits at most one informational alert for tomorrow:
//
//	sunny          code 0 and < 0.5 mm
//	strong_rain    ≥ 25 mm
//	moderate_rain  ≥ 10 mm
//	slight_rain    ≥ 1 mm
//
// A day is rainy when it has ≥ 0.5 mm or a rain-family code; the bucket is
// always picked by amount. When tomorrow's entry is dated today the outlook
// is suppressed with ErrForecastMisaligned.
//
// # Envelope
//
// [NewResponse] concatenates tiers 1-6 then the outlook alert, without
// deduplication or re-sorting. A fetch failure yields [FailureResponse].
package domain
