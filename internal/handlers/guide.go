package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/services"
)

type GuideHandler struct {
	cropTypeService *services.CropTypeService
}

func NewGuideHandler(cropTypeService *services.CropTypeService) *GuideHandler {
	return &GuideHandler{cropTypeService: cropTypeService}
}

// GetGuide godoc
// @Summary Crop guide
// @Description Every crop type with its growing season and water needs. No authentication required.
// @Tags guide
// @Produce json
// @Param water query string false "Filter by water requirement" Enums(low, medium, high)
// @Param q query string false "Search name or scientific name"
// @Success 200 {array} CropTypeResponse
// @Failure 500 {object} ErrorResponse
// @Router /guide [get]
func (h *GuideHandler) GetGuide(c *gin.Context) {
	query := c.Query("q")
	water := models.WaterRequirement(c.Query("water"))

	var (
		types []models.CropType
		err   error
	)
	if query == "" && water == "" {
		types, err = h.cropTypeService.ListCropTypes()
	} else {
		types, err = h.cropTypeService.SearchCropTypes(query, water)
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCropTypeResponses(types))
}
