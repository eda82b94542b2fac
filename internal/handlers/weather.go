package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/services"
	"github.com/shopspring/decimal"
)

type WeatherHandler struct {
	weatherService *services.WeatherService
}

func NewWeatherHandler(weatherService *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

type RecordWeatherRequest struct {
	Date           string           `json:"date" binding:"required,datetime=2006-01-02" example:"2024-03-01"`
	TemperatureMax *decimal.Decimal `json:"temperature_max" swaggertype:"string" example:"24.50"`
	TemperatureMin *decimal.Decimal `json:"temperature_min" swaggertype:"string" example:"11.00"`
	Humidity       *decimal.Decimal `json:"humidity" swaggertype:"string" example:"65.00"`
	Rainfall       *decimal.Decimal `json:"rainfall" swaggertype:"string" example:"0.00"`
}

type WeatherQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type WeatherResponse struct {
	ID             uint                `json:"id"`
	FarmID         uint                `json:"farm_id"`
	Farm           string              `json:"farm,omitempty"`
	Date           string              `json:"date"`
	TemperatureMax decimal.NullDecimal `json:"temperature_max" swaggertype:"string"`
	TemperatureMin decimal.NullDecimal `json:"temperature_min" swaggertype:"string"`
	Humidity       decimal.NullDecimal `json:"humidity" swaggertype:"string"`
	Rainfall       decimal.Decimal     `json:"rainfall" swaggertype:"string"`
}

func newWeatherResponse(w *models.WeatherData) WeatherResponse {
	return WeatherResponse{
		ID:             w.ID,
		FarmID:         w.FarmID,
		Farm:           w.Farm.Name,
		Date:           formatDate(w.Date),
		TemperatureMax: w.TemperatureMax,
		TemperatureMin: w.TemperatureMin,
		Humidity:       w.Humidity,
		Rainfall:       w.Rainfall,
	}
}

func newWeatherResponses(records []models.WeatherData) []WeatherResponse {
	response := make([]WeatherResponse, len(records))
	for i := range records {
		response[i] = newWeatherResponse(&records[i])
	}
	return response
}

// ListWeather godoc
// @Summary List weather
// @Description Weather observations of a farm, newest first, optionally bounded by date
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Param id path int true "Farm ID"
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {array} WeatherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /farms/{id}/weather [get]
func (h *WeatherHandler) ListWeather(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	farmID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var q WeatherQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	var from, to time.Time
	if d, _ := parseDate(q.From); d != nil {
		from = *d
	}
	if d, _ := parseDate(q.To); d != nil {
		to = *d
	}

	records, err := h.weatherService.ListWeather(farmID, ownerID, from, to)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newWeatherResponses(records))
}

// RecordWeather godoc
// @Summary Record weather
// @Description Record one day of weather for a farm. A farm has at most one record per date.
// @Tags weather
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Farm ID"
// @Param request body RecordWeatherRequest true "Observation"
// @Success 201 {object} WeatherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /farms/{id}/weather [post]
func (h *WeatherHandler) RecordWeather(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	farmID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RecordWeatherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	date, _ := parseDate(req.Date)

	record, err := h.weatherService.RecordWeather(farmID, ownerID, services.WeatherInput{
		Date:           *date,
		TemperatureMax: req.TemperatureMax,
		TemperatureMin: req.TemperatureMin,
		Humidity:       req.Humidity,
		Rainfall:       req.Rainfall,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newWeatherResponse(record))
}
