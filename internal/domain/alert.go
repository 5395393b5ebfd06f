package domain

import (
	"encoding/json"
	"time"
)

// AlertType enumerates the kinds of alert the classifiers emit.
type AlertType string

const (
	AlertTyphoon  AlertType = "typhoon"
	AlertStorm    AlertType = "storm"
	AlertFlood    AlertType = "flood"
	AlertRain     AlertType = "rain"
	AlertForecast AlertType = "forecast"
)

// Severity is the alert's impact level.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Category separates severe weather from informational forecasts.
type Category string

const (
	CategorySevere   Category = "severe_weather"
	CategoryForecast Category = "weather_forecast"
)

// Urgency says how soon the alerted conditions apply.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyExpected  Urgency = "expected"
	UrgencyFuture    Urgency = "future"
)

// Outlook conditions carried in WeatherCondition.
const (
	ConditionSunny        = "sunny"
	ConditionSlightRain   = "slight_rain"
	ConditionModerateRain = "moderate_rain"
	ConditionStrongRain   = "strong_rain"
)

// forecastDateLayout is the wire format for ForecastDate.
const forecastDateLayout = "2006-01-02"

// Alert is one classified weather alert. Values are built by the classifiers
// and never modified afterwards.
type Alert struct {
	Type             AlertType `json:"type"`
	Severity         Severity  `json:"severity"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         Category  `json:"category"`
	Urgency          Urgency   `json:"urgency"`
	Effective        time.Time `json:"effective"`
	Expires          time.Time `json:"expires"`
	Area             string    `json:"area"`
	ForecastDate     string    `json:"forecast_date,omitempty"`
	Precipitation    *float64  `json:"precipitation,omitempty"`
	WeatherCondition string    `json:"weather_condition,omitempty"`
	WindSpeed        *float64  `json:"wind_speed,omitempty"`
	DurationDays     int       `json:"duration_days,omitempty"`
}

// Response is the envelope returned for one evaluation.
type Response struct {
	Success     bool
	Message     string
	Alerts      []Alert
	Location    Coordinate
	LastUpdated time.Time
}

// Count is the number of alerts in the envelope.
func (r Response) Count() int {
	return len(r.Alerts)
}

type successEnvelope struct {
	Success     bool       `json:"success"`
	Data        []Alert    `json:"data"`
	Count       int        `json:"count"`
	Location    Coordinate `json:"location"`
	LastUpdated time.Time  `json:"last_updated"`
}

type failureEnvelope struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    []Alert `json:"data"`
}

// MarshalJSON renders the success or failure envelope. Data is always an array.
func (r Response) MarshalJSON() ([]byte, error) {
	data := r.Alerts
	if data == nil {
		data = []Alert{}
	}
	if !r.Success {
		return json.Marshal(failureEnvelope{Message: r.Message, Data: []Alert{}})
	}
	return json.Marshal(successEnvelope{
		Success:     true,
		Data:        data,
		Count:       len(data),
		Location:    r.Location,
		LastUpdated: r.LastUpdated,
	})
}

// UnmarshalJSON accepts either envelope shape.
func (r *Response) UnmarshalJSON(b []byte) error {
	var env struct {
		Success     bool       `json:"success"`
		Message     string     `json:"message"`
		Data        []Alert    `json:"data"`
		Location    Coordinate `json:"location"`
		LastUpdated time.Time  `json:"last_updated"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	*r = Response{
		Success:     env.Success,
		Message:     env.Message,
		Alerts:      env.Data,
		Location:    env.Location,
		LastUpdated: env.LastUpdated,
	}
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
