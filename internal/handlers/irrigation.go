package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/services"
	"github.com/shopspring/decimal"
)

// IrrigationBoardPath is where completing a schedule sends the client.
const IrrigationBoardPath = "/api/v1/irrigation"

type IrrigationHandler struct {
	irrigationService *services.IrrigationService
}

func NewIrrigationHandler(irrigationService *services.IrrigationService) *IrrigationHandler {
	return &IrrigationHandler{irrigationService: irrigationService}
}

type CreateIrrigationRequest struct {
	ScheduledDate     *time.Time       `json:"scheduled_date" example:"2024-03-02T06:00:00Z"`
	DurationMinutes   int              `json:"duration_minutes" binding:"required,gte=1"`
	WaterAmountLiters *decimal.Decimal `json:"water_amount_liters" swaggertype:"string" example:"100.00"`
	Notes             string           `json:"notes"`
}

type IrrigationResponse struct {
	ID                uint                `json:"id"`
	CropID            uint                `json:"crop_id"`
	Crop              string              `json:"crop,omitempty"`
	Farm              string              `json:"farm,omitempty"`
	ScheduledDate     string              `json:"scheduled_date"`
	DurationMinutes   int                 `json:"duration_minutes"`
	WaterAmountLiters decimal.NullDecimal `json:"water_amount_liters" swaggertype:"string"`
	Completed         bool                `json:"completed"`
	CompletedDate     *string             `json:"completed_date"`
	Notes             string              `json:"notes"`
}

type IrrigationBoardResponse struct {
	Pending        []IrrigationResponse `json:"pending"`
	CompletedToday []IrrigationResponse `json:"completed_today"`
}

type IrrigationFormResponse struct {
	CropID        uint   `json:"crop_id"`
	Crop          string `json:"crop"`
	ScheduledDate string `json:"scheduled_date"`
}

func newIrrigationResponse(s *models.IrrigationSchedule) IrrigationResponse {
	response := IrrigationResponse{
		ID:                s.ID,
		CropID:            s.CropID,
		Crop:              s.Crop.CropType.Name,
		Farm:              s.Crop.Farm.Name,
		ScheduledDate:     s.ScheduledDate.UTC().Format(time.RFC3339),
		DurationMinutes:   s.DurationMinutes,
		WaterAmountLiters: s.WaterAmountLiters,
		Completed:         s.Completed,
		Notes:             s.Notes,
	}
	if s.CompletedDate != nil {
		completed := s.CompletedDate.UTC().Format(time.RFC3339)
		response.CompletedDate = &completed
	}
	return response
}

func newIrrigationResponses(schedules []models.IrrigationSchedule) []IrrigationResponse {
	response := make([]IrrigationResponse, len(schedules))
	for i := range schedules {
		response[i] = newIrrigationResponse(&schedules[i])
	}
	return response
}

// NewScheduleForm godoc
// @Summary Add-irrigation form defaults
// @Description The default schedule time is tomorrow at 06:00 in the farm timezone
// @Tags irrigation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Crop ID"
// @Success 200 {object} IrrigationFormResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /crops/{id}/irrigation/new [get]
func (h *IrrigationHandler) NewScheduleForm(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	cropID, ok := idParam(c, "id")
	if !ok {
		return
	}

	form, err := h.irrigationService.NewScheduleForm(cropID, ownerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, IrrigationFormResponse{
		CropID:        form.Crop.ID,
		Crop:          form.Crop.DisplayName(),
		ScheduledDate: form.ScheduledDate.Format(time.RFC3339),
	})
}

// AddSchedule godoc
// @Summary Schedule irrigation
// @Tags irrigation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Crop ID"
// @Param request body CreateIrrigationRequest true "Schedule"
// @Success 201 {object} IrrigationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /crops/{id}/irrigation [post]
func (h *IrrigationHandler) AddSchedule(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	cropID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CreateIrrigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	schedule, err := h.irrigationService.AddSchedule(cropID, ownerID, services.IrrigationInput{
		ScheduledDate:     req.ScheduledDate,
		DurationMinutes:   req.DurationMinutes,
		WaterAmountLiters: req.WaterAmountLiters,
		Notes:             req.Notes,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newIrrigationResponse(schedule))
}

// GetBoard godoc
// @Summary Irrigation board
// @Description Pending schedules, soonest first, and schedules completed today
// @Tags irrigation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} IrrigationBoardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /irrigation [get]
func (h *IrrigationHandler) GetBoard(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}

	board, err := h.irrigationService.GetBoard(ownerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, IrrigationBoardResponse{
		Pending:        newIrrigationResponses(board.Pending),
		CompletedToday: newIrrigationResponses(board.CompletedToday),
	})
}

// CompleteIrrigation godoc
// @Summary Complete irrigation
// @Description Mark a schedule completed now and redirect to the irrigation board
// @Tags irrigation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Irrigation schedule ID"
// @Success 303 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /irrigation/{id}/complete [post]
func (h *IrrigationHandler) CompleteIrrigation(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.irrigationService.CompleteIrrigation(id, ownerID); err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Location", IrrigationBoardPath)
	c.JSON(http.StatusSeeOther, MessageResponse{Message: "Irrigation marked as completed!"})
}
