package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	maxBodyBytes = 1 << 20
	dateLayout   = "2006-01-02"
)

// AlertService evaluates locations and caller-supplied snapshots.
type AlertService interface {
	Evaluate(ctx context.Context, coord domain.Coordinate, days int) (domain.Response, error)
	Classify(coord domain.Coordinate, snap domain.Snapshot) (domain.Response, error)
}

// AlertHandler serves the alert endpoints.
type AlertHandler struct {
	service     AlertService
	validate    *validator.Validate
	defaultDays int
	logger      *slog.Logger
}

// NewAlertHandler creates an AlertHandler. defaultDays applies when a
// request omits the days parameter.
func NewAlertHandler(svc AlertService, defaultDays int, logger *slog.Logger) *AlertHandler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &AlertHandler{
		service:     svc,
		validate:    v,
		defaultDays: defaultDays,
		logger:      logger,
	}
}

// RegisterRoutes mounts the alert endpoints.
func (h *AlertHandler) RegisterRoutes(r chi.Router) {
	r.Get("/alerts", h.HandleEvaluate)
	r.Post("/alerts/classify", h.HandleClassify)
}

type evaluateQuery struct {
	Latitude  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"lon" validate:"gte=-180,lte=180"`
	Days      int     `json:"days" validate:"gte=2,lte=16"`
}

// HandleEvaluate handles GET /api/v1/alerts?lat=&lon=&days=.
func (h *AlertHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseEvaluateQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, domain.FailureResponse(err.Error()))
		return
	}

	coord := domain.Coordinate{Latitude: q.Latitude, Longitude: q.Longitude}
	resp, err := h.service.Evaluate(r.Context(), coord, q.Days)
	if err != nil {
		h.logger.Warn("alert evaluation failed", "area", coord.Area(), "error", err)
	}
	writeJSON(w, statusFor(err), resp)
}

func (h *AlertHandler) parseEvaluateQuery(r *http.Request) (evaluateQuery, error) {
	params := r.URL.Query()
	q := evaluateQuery{Days: h.defaultDays}

	var err error
	if q.Latitude, err = parseFloatParam(params.Get("lat"), "lat"); err != nil {
		return q, err
	}
	if q.Longitude, err = parseFloatParam(params.Get("lon"), "lon"); err != nil {
		return q, err
	}
	if raw := params.Get("days"); raw != "" {
		if q.Days, err = strconv.Atoi(raw); err != nil {
			return q, fmt.Errorf("days: %q is not an integer", raw)
		}
	}
	if err := h.validate.Struct(q); err != nil {
		return q, validationError(err)
	}
	return q, nil
}

func parseFloatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return v, nil
}

// classifyRequest is a caller-supplied snapshot. Forecast dates are
// calendar dates in Timezone, with UTC as the default.
type classifyRequest struct {
	Latitude  *float64         `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64         `json:"longitude" validate:"required,gte=-180,lte=180"`
	Timezone  string           `json:"timezone" validate:"omitempty,timezone"`
	Current   currentRequest   `json:"current"`
	Forecast  []forecastDayDTO `json:"forecast" validate:"dive"`
}

type currentRequest struct {
	Time          time.Time `json:"time"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity" validate:"gte=0,lte=100"`
	Precipitation float64   `json:"precipitation" validate:"gte=0"`
	WindSpeed     float64   `json:"wind_speed" validate:"gte=0"`
	WindGust      float64   `json:"wind_gust" validate:"gte=0"`
	WeatherCode   int       `json:"weather_code" validate:"gte=0,lte=99"`
}

type forecastDayDTO struct {
	Date             string  `json:"date" validate:"required,datetime=2006-01-02"`
	TemperatureMax   float64 `json:"temperature_max"`
	TemperatureMin   float64 `json:"temperature_min"`
	PrecipitationSum float64 `json:"precipitation_sum" validate:"gte=0"`
	WindSpeedMax     float64 `json:"wind_speed_max" validate:"gte=0"`
	WindGustMax      float64 `json:"wind_gust_max" validate:"gte=0"`
	WeatherCode      int     `json:"weather_code" validate:"gte=0,lte=99"`
}

// HandleClassify handles POST /api/v1/alerts/classify.
func (h *AlertHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Debug("classify request rejected", "error", err)
		writeJSON(w, http.StatusBadRequest, domain.FailureResponse("invalid request body: "+err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.FailureResponse(validationError(err).Error()))
		return
	}

	coord, snap, err := req.toDomain()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, domain.FailureResponse(err.Error()))
		return
	}

	resp, err := h.service.Classify(coord, snap)
	writeJSON(w, statusFor(err), resp)
}

func (req classifyRequest) toDomain() (domain.Coordinate, domain.Snapshot, error) {
	loc := time.UTC
	if req.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(req.Timezone); err != nil {
			return domain.Coordinate{}, domain.Snapshot{}, fmt.Errorf("timezone: %w", err)
		}
	}

	days := make([]domain.ForecastDay, len(req.Forecast))
	for i, d := range req.Forecast {
		date, err := time.ParseInLocation(dateLayout, d.Date, loc)
		if err != nil {
			return domain.Coordinate{}, domain.Snapshot{}, fmt.Errorf("forecast[%d].date: %w", i, err)
		}
		days[i] = domain.ForecastDay{
			Date:             date,
			TemperatureMax:   d.TemperatureMax,
			TemperatureMin:   d.TemperatureMin,
			PrecipitationSum: d.PrecipitationSum,
			WindSpeedMax:     d.WindSpeedMax,
			WindGustMax:      d.WindGustMax,
			WeatherCode:      d.WeatherCode,
		}
	}

	cur := req.Current
	snap := domain.Snapshot{
		Current: domain.WeatherPoint{
			Time:          cur.Time,
			Temperature:   cur.Temperature,
			Humidity:      cur.Humidity,
			Precipitation: cur.Precipitation,
			WindSpeed:     cur.WindSpeed,
			WindGust:      cur.WindGust,
			WeatherCode:   cur.WeatherCode,
		},
		Forecast: domain.ForecastSeries{Location: loc, Days: days},
	}
	coord := domain.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	return coord, snap, nil
}

// statusFor maps an evaluation error to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// validationError flattens validator errors into one message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		msg := fmt.Sprintf("%s failed %s", field, fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}
