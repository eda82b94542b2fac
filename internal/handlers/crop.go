package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/services"
	"github.com/shopspring/decimal"
)

type CropHandler struct {
	cropService *services.CropService
	clock       services.Clock
}

func NewCropHandler(cropService *services.CropService, clock services.Clock) *CropHandler {
	return &CropHandler{cropService: cropService, clock: clock}
}

// CreateCropRequest leaves both dates optional; omitted dates default to
// today and today plus the harvest window.
type CreateCropRequest struct {
	CropTypeID          uint             `json:"crop_type_id"`
	PlantedDate         string           `json:"planted_date" binding:"omitempty,datetime=2006-01-02" example:"2024-03-01"`
	AreaPlanted         *decimal.Decimal `json:"area_planted" swaggertype:"string" example:"2.50"`
	ExpectedHarvestDate string           `json:"expected_harvest_date" binding:"omitempty,datetime=2006-01-02" example:"2024-05-30"`
	Notes               string           `json:"notes"`
}

type SetStageRequest struct {
	CurrentStage models.GrowthStage `json:"current_stage" binding:"required,oneof=seed germination vegetative flowering fruiting harvest harvested"`
}

type CropTypeResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	ScientificName    string `json:"scientific_name"`
	GrowingSeasonDays int    `json:"growing_season_days"`
	WaterRequirement  string `json:"water_requirement"`
	WaterLabel        string `json:"water_requirement_label"`
}

type CropResponse struct {
	ID                  uint             `json:"id"`
	FarmID              uint             `json:"farm_id"`
	FarmName            string           `json:"farm_name,omitempty"`
	CropType            CropTypeResponse `json:"crop_type"`
	PlantedDate         string           `json:"planted_date"`
	AreaPlanted         decimal.Decimal  `json:"area_planted" swaggertype:"string"`
	CurrentStage        string           `json:"current_stage"`
	StageLabel          string           `json:"current_stage_label"`
	ExpectedHarvestDate string           `json:"expected_harvest_date"`
	DaysSincePlanting   int              `json:"days_since_planting"`
	Notes               string           `json:"notes"`
}

type CreateCropResponse struct {
	Message string       `json:"message"`
	Crop    CropResponse `json:"crop"`
}

type CropDetailResponse struct {
	Crop       CropResponse         `json:"crop"`
	Irrigation []IrrigationResponse `json:"irrigation"`
}

type CropFormResponse struct {
	FarmID              uint               `json:"farm_id"`
	FarmName            string             `json:"farm_name"`
	PlantedDate         string             `json:"planted_date"`
	ExpectedHarvestDate string             `json:"expected_harvest_date"`
	CropTypes           []CropTypeResponse `json:"crop_types"`
	Stages              []StageOption      `json:"stages"`
}

type StageOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func newCropTypeResponse(t *models.CropType) CropTypeResponse {
	return CropTypeResponse{
		ID:                t.ID,
		Name:              t.Name,
		ScientificName:    t.ScientificName,
		GrowingSeasonDays: t.GrowingSeasonDays,
		WaterRequirement:  string(t.WaterRequirement),
		WaterLabel:        t.WaterRequirement.Label(),
	}
}

func newCropTypeResponses(types []models.CropType) []CropTypeResponse {
	response := make([]CropTypeResponse, len(types))
	for i := range types {
		response[i] = newCropTypeResponse(&types[i])
	}
	return response
}

func newCropResponse(crop *models.Crop, today time.Time) CropResponse {
	return CropResponse{
		ID:                  crop.ID,
		FarmID:              crop.FarmID,
		FarmName:            crop.Farm.Name,
		CropType:            newCropTypeResponse(&crop.CropType),
		PlantedDate:         formatDate(crop.PlantedDate),
		AreaPlanted:         crop.AreaPlanted,
		CurrentStage:        string(crop.CurrentStage),
		StageLabel:          crop.CurrentStage.Label(),
		ExpectedHarvestDate: formatDate(crop.ExpectedHarvestDate),
		DaysSincePlanting:   crop.DaysSincePlanting(today),
		Notes:               crop.Notes,
	}
}

// NewCropForm godoc
// @Summary Add-crop form defaults
// @Description Initial values for the add-crop form of a farm: today, today plus 90 days and the crop type choices
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Param id path int true "Farm ID"
// @Success 200 {object} CropFormResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /farms/{id}/crops/new [get]
func (h *CropHandler) NewCropForm(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	farmID, ok := idParam(c, "id")
	if !ok {
		return
	}

	form, err := h.cropService.NewCropForm(farmID, ownerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	stages := make([]StageOption, len(models.GrowthStages))
	for i, stage := range models.GrowthStages {
		stages[i] = StageOption{Value: string(stage), Label: stage.Label()}
	}

	c.JSON(http.StatusOK, CropFormResponse{
		FarmID:              form.Farm.ID,
		FarmName:            form.Farm.Name,
		PlantedDate:         formatDate(form.PlantedDate),
		ExpectedHarvestDate: formatDate(form.ExpectedHarvestDate),
		CropTypes:           newCropTypeResponses(form.CropTypes),
		Stages:              stages,
	})
}

// AddCrop godoc
// @Summary Add crop to farm
// @Description Plant a crop on one of the user's farms. New crops start in the seed stage.
// @Tags crops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Farm ID"
// @Param request body CreateCropRequest true "Crop"
// @Success 201 {object} CreateCropResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /farms/{id}/crops [post]
func (h *CropHandler) AddCrop(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	farmID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CreateCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// datetime binding has already checked the layout
	planted, _ := parseDate(req.PlantedDate)
	harvest, _ := parseDate(req.ExpectedHarvestDate)

	crop, err := h.cropService.AddCrop(farmID, ownerID, services.CropInput{
		CropTypeID:          req.CropTypeID,
		PlantedDate:         planted,
		AreaPlanted:         req.AreaPlanted,
		ExpectedHarvestDate: harvest,
		Notes:               req.Notes,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateCropResponse{
		Message: fmt.Sprintf("%s added to %s successfully!", crop.CropType.Name, crop.Farm.Name),
		Crop:    newCropResponse(crop, h.clock.Today()),
	})
}

// GetCrop godoc
// @Summary Crop detail
// @Description Crop with its irrigation history, newest first
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Param id path int true "Crop ID"
// @Success 200 {object} CropDetailResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /crops/{id} [get]
func (h *CropHandler) GetCrop(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	cropID, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.cropService.GetCropDetail(cropID, ownerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	crop := newCropResponse(detail.Crop, h.clock.Today())
	crop.DaysSincePlanting = detail.DaysSincePlanting

	c.JSON(http.StatusOK, CropDetailResponse{
		Crop:       crop,
		Irrigation: newIrrigationResponses(detail.Irrigation),
	})
}

// SetStage godoc
// @Summary Update growth stage
// @Description Move a crop to any growth stage
// @Tags crops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Crop ID"
// @Param request body SetStageRequest true "Stage"
// @Success 200 {object} CropResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /crops/{id}/stage [put]
func (h *CropHandler) SetStage(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	cropID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	crop, err := h.cropService.SetStage(cropID, ownerID, req.CurrentStage)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCropResponse(crop, h.clock.Today()))
}
