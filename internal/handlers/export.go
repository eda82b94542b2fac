package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

type VerifyReportResponse struct {
	Valid bool `json:"valid"`
}

// ExportFarm godoc
// @Summary Export farm report
// @Description Crops, irrigation and weather of a farm with an HMAC signature
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Farm ID"
// @Success 200 {object} services.FarmReport
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /farms/{id}/report [get]
func (h *ExportHandler) ExportFarm(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	farmID, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := h.exportService.ExportFarm(farmID, ownerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportFarmWorkbook godoc
// @Summary Export farm report as spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Farm ID"
// @Success 200 {file} file
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /farms/{id}/report/xlsx [get]
func (h *ExportHandler) ExportFarmWorkbook(c *gin.Context) {
	ownerID, ok := ownerID(c)
	if !ok {
		return
	}
	farmID, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := h.exportService.ExportFarm(farmID, ownerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteWorkbook(report, &buf); err != nil {
		serviceError(c, err)
		return
	}

	filename := fmt.Sprintf("farm-%d-%s.xlsx", report.FarmID, report.GeneratedAt.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// VerifyReport godoc
// @Summary Verify farm report signature
// @Description Check that an exported farm report has not been altered
// @Tags reports
// @Accept json
// @Produce json
// @Param request body services.FarmReport true "Report with signature"
// @Success 200 {object} VerifyReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /report/verify [post]
func (h *ExportHandler) VerifyReport(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	valid, err := h.exportService.VerifyReport(body)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, VerifyReportResponse{Valid: valid})
}
