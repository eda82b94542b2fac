package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/middleware"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/h4ks-com/croptrack/internal/services"
	"github.com/shopspring/decimal"
)

type FarmHandler struct {
	farmService *services.FarmService
	clock       services.Clock
}

func NewFarmHandler(farmService *services.FarmService, clock services.Clock) *FarmHandler {
	return &FarmHandler{farmService: farmService, clock: clock}
}

type CreateFarmRequest struct {
	Name      string           `json:"name" binding:"required,max=200"`
	Location  string           `json:"location" binding:"required,max=300"`
	TotalArea *decimal.Decimal `json:"total_area" binding:"required" swaggertype:"string" example:"50.00"`
}

type FarmResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Owner     string          `json:"owner,omitempty"`
	Location  string          `json:"location"`
	TotalArea decimal.Decimal `json:"total_area" swaggertype:"string"`
	CreatedAt string          `json:"created_at"`
}

type StageCountResponse struct {
	Stage models.GrowthStage `json:"stage"`
	Label string             `json:"label"`
	Count int64              `json:"count"`
}

type FarmDetailResponse struct {
	Farm             FarmResponse         `json:"farm"`
	Crops            []CropResponse       `json:"crops"`
	TotalAreaPlanted decimal.Decimal      `json:"total_area_planted" swaggertype:"string"`
	CropsByStage     []StageCountResponse `json:"crops_by_stage"`
}

type DashboardResponse struct {
	Farms             []FarmResponse `json:"farms"`
	TotalCrops        *int64         `json:"total_crops,omitempty"`
	PendingIrrigation *int64         `json:"pending_irrigation,omitempty"`
}

func newFarmResponse(farm *models.Farm) FarmResponse {
	return FarmResponse{
		ID:        farm.ID,
		Name:      farm.Name,
		Owner:     farm.Owner.Username,
		Location:  farm.Location,
		TotalArea: farm.TotalArea,
		CreatedAt: farm.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func newFarmResponses(farms []models.Farm) []FarmResponse {
	response := make([]FarmResponse, len(farms))
	for i := range farms {
		response[i] = newFarmResponse(&farms[i])
	}
	return response
}

// GetDashboard godoc
// @Summary Owner dashboard
// @Description Farms, total crop count and due irrigation count for the signed-in user. Anonymous callers get an empty object.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 500 {object} ErrorResponse
// @Router /dashboard [get]
func (h *FarmHandler) GetDashboard(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	dashboard, err := h.farmService.GetDashboard(ownerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Farms:             newFarmResponses(dashboard.Farms),
		TotalCrops:        &dashboard.TotalCrops,
		PendingIrrigation: &dashboard.PendingIrrigation,
	})
}

// ListFarms godoc
// @Summary List farms
// @Description List the authenticated user's farms
// @Tags farms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} FarmResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /farms [get]
func (h *FarmHandler) ListFarms(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}

	farms, err := h.farmService.ListFarms(ownerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newFarmResponses(farms))
}

// CreateFarm godoc
// @Summary Create farm
// @Tags farms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFarmRequest true "Farm"
// @Success 201 {object} FarmResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /farms [post]
func (h *FarmHandler) CreateFarm(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}

	var req CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	farm, err := h.farmService.CreateFarm(ownerID, req.Name, req.Location, *req.TotalArea)
	if err != nil {
		serviceError(c, err)
		return
	}

	response := newFarmResponse(farm)
	response.Owner = middleware.GetUsername(c)
	c.JSON(http.StatusCreated, response)
}

// GetFarm godoc
// @Summary Farm detail
// @Description Farm with its crops, planted area total and crop counts per growth stage
// @Tags farms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Farm ID"
// @Success 200 {object} FarmDetailResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /farms/{id} [get]
func (h *FarmHandler) GetFarm(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	farmID, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.farmService.GetFarmDetail(farmID, ownerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	today := h.clock.Today()
	crops := make([]CropResponse, len(detail.Crops))
	for i := range detail.Crops {
		crops[i] = newCropResponse(&detail.Crops[i], today)
	}

	stages := make([]StageCountResponse, len(detail.CropsByStage))
	for i, sc := range detail.CropsByStage {
		stages[i] = StageCountResponse{Stage: sc.Stage, Label: sc.Label, Count: sc.Count}
	}

	c.JSON(http.StatusOK, FarmDetailResponse{
		Farm:             newFarmResponse(detail.Farm),
		Crops:            crops,
		TotalAreaPlanted: detail.TotalAreaPlanted,
		CropsByStage:     stages,
	})
}

type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,gte=1"`
	Limit int `form:"limit" binding:"omitempty,gte=1"`
}

// listPage reads ?page and ?limit for the admin listings. A malformed value
// is answered with 400 and reported as false.
func listPage(c *gin.Context) (repository.Page, bool) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return repository.Page{}, false
	}
	return repository.Page{Page: q.Page, Limit: q.Limit}, true
}
