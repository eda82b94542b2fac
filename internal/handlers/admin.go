package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/h4ks-com/croptrack/internal/services"
)

type AdminHandler struct {
	accountService    *services.AccountService
	farmService       *services.FarmService
	cropTypeService   *services.CropTypeService
	cropService       *services.CropService
	irrigationService *services.IrrigationService
	weatherService    *services.WeatherService
	clock             services.Clock
}

func NewAdminHandler(
	accountService *services.AccountService,
	farmService *services.FarmService,
	cropTypeService *services.CropTypeService,
	cropService *services.CropService,
	irrigationService *services.IrrigationService,
	weatherService *services.WeatherService,
	clock services.Clock,
) *AdminHandler {
	return &AdminHandler{
		accountService:    accountService,
		farmService:       farmService,
		cropTypeService:   cropTypeService,
		cropService:       cropService,
		irrigationService: irrigationService,
		weatherService:    weatherService,
		clock:             clock,
	}
}

type UserListResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// PagedResponse wraps one page of an admin listing.
type PagedResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type CreateCropTypeRequest struct {
	Name              string                  `json:"name" binding:"required,max=100"`
	ScientificName    string                  `json:"scientific_name" binding:"max=150"`
	GrowingSeasonDays int                     `json:"growing_season_days" binding:"required,gte=1"`
	WaterRequirement  models.WaterRequirement `json:"water_requirement" binding:"required,oneof=low medium high"`
}

type AdminCropQuery struct {
	Query      string `form:"q"`
	Stage      string `form:"stage" binding:"omitempty,oneof=seed germination vegetative flowering fruiting harvest harvested"`
	CropTypeID uint   `form:"crop_type_id"`
	FarmID     uint   `form:"farm_id"`
	PlantedOn  string `form:"planted_on" binding:"omitempty,datetime=2006-01-02"`
}

type AdminIrrigationQuery struct {
	Query     string `form:"q"`
	Completed *bool  `form:"completed"`
	FarmID    uint   `form:"farm_id"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type AdminWeatherQuery struct {
	FarmID uint   `form:"farm_id"`
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

func paged[T any](items []T, total int64, page repository.Page) PagedResponse[T] {
	page = page.Normalize()
	return PagedResponse[T]{Items: items, Total: total, Page: page.Page, Limit: page.Limit}
}

// ListUsers godoc
// @Summary List all users (Admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.accountService.ListUsers()
	if err != nil {
		serviceError(c, err)
		return
	}

	response := make([]UserListResponse, len(users))
	for i, user := range users {
		response[i] = UserListResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, response)
}

// ListFarms godoc
// @Summary List all farms (Admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search name, location or owner"
// @Param owner query string false "Owner username"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} PagedResponse[FarmResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/farms [get]
func (h *AdminHandler) ListFarms(c *gin.Context) {
	page, ok := listPage(c)
	if !ok {
		return
	}
	farms, total, err := h.farmService.SearchFarms(repository.FarmFilter{
		Query: c.Query("q"),
		Owner: c.Query("owner"),
	}, page)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, paged(newFarmResponses(farms), total, page))
}

// DeleteFarm godoc
// @Summary Delete farm (Admin)
// @Description Delete a farm together with its crops, irrigation schedules and weather
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Farm ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/farms/{id} [delete]
func (h *AdminHandler) DeleteFarm(c *gin.Context) {
	farmID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.farmService.DeleteFarm(farmID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "farm deleted"})
}

// CreateCropType godoc
// @Summary Create crop type (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCropTypeRequest true "Crop type"
// @Success 201 {object} CropTypeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/crop-types [post]
func (h *AdminHandler) CreateCropType(c *gin.Context) {
	var req CreateCropTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cropType, err := h.cropTypeService.CreateCropType(req.Name, req.ScientificName, req.GrowingSeasonDays, req.WaterRequirement)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCropTypeResponse(cropType))
}

// ListCrops godoc
// @Summary List all crops (Admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search crop type or farm name"
// @Param stage query string false "Growth stage"
// @Param crop_type_id query int false "Crop type"
// @Param farm_id query int false "Farm"
// @Param planted_on query string false "Planted date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} PagedResponse[CropResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/crops [get]
func (h *AdminHandler) ListCrops(c *gin.Context) {
	var q AdminCropQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	plantedOn, _ := parseDate(q.PlantedOn)

	page, ok := listPage(c)
	if !ok {
		return
	}
	crops, total, err := h.cropService.SearchCrops(repository.CropFilter{
		Query:      q.Query,
		Stage:      models.GrowthStage(q.Stage),
		CropTypeID: q.CropTypeID,
		FarmID:     q.FarmID,
		PlantedOn:  plantedOn,
	}, page)
	if err != nil {
		serviceError(c, err)
		return
	}

	today := h.clock.Today()
	items := make([]CropResponse, len(crops))
	for i := range crops {
		items[i] = newCropResponse(&crops[i], today)
	}

	c.JSON(http.StatusOK, paged(items, total, page))
}

// ListIrrigation godoc
// @Summary List all irrigation schedules (Admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search crop type or farm name"
// @Param completed query bool false "Completion status"
// @Param farm_id query int false "Farm"
// @Param from query string false "Scheduled on or after (YYYY-MM-DD)"
// @Param to query string false "Scheduled before (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} PagedResponse[IrrigationResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/irrigation [get]
func (h *AdminHandler) ListIrrigation(c *gin.Context) {
	var q AdminIrrigationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	from, _ := parseDate(q.From)
	to, _ := parseDate(q.To)

	page, ok := listPage(c)
	if !ok {
		return
	}
	schedules, total, err := h.irrigationService.SearchSchedules(repository.IrrigationFilter{
		Query:     q.Query,
		Completed: q.Completed,
		FarmID:    q.FarmID,
		From:      from,
		To:        to,
	}, page)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, paged(newIrrigationResponses(schedules), total, page))
}

// ListWeather godoc
// @Summary List all weather records (Admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param farm_id query int false "Farm"
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} PagedResponse[WeatherResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/weather [get]
func (h *AdminHandler) ListWeather(c *gin.Context) {
	var q AdminWeatherQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	from, _ := parseDate(q.From)
	to, _ := parseDate(q.To)

	page, ok := listPage(c)
	if !ok {
		return
	}
	records, total, err := h.weatherService.SearchWeather(q.FarmID, from, to, page)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, paged(newWeatherResponses(records), total, page))
}
