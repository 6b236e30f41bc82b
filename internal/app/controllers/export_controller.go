package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/app/models/dto"
	"github.com/yigit/schedulepro/internal/app/services"
	"github.com/yigit/schedulepro/internal/middleware"
)

// ExportController handles schedule export downloads
type ExportController struct {
	catalogService services.CatalogService
	exportService  services.ExportService
}

// NewExportController creates a new ExportController
func NewExportController(catalogService services.CatalogService, exportService services.ExportService) *ExportController {
	return &ExportController{
		catalogService: catalogService,
		exportService:  exportService,
	}
}

// ExportICS exports a schedule as an ICS calendar
// @Summary Export schedule as ICS
// @Description Renders the offerings identified by the given CRNs as a weekly-recurring ICS calendar spanning the term
// @Tags export
// @Accept json
// @Produce text/calendar
// @Param request body dto.ExportRequest true "CRNs and optional term bounds"
// @Success 200 {string} string "ICS file"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or term dates"
// @Failure 404 {object} dto.ErrorResponse "CRN not in catalog"
// @Router /export/ics [post]
func (c *ExportController) ExportICS(ctx *gin.Context) {
	req, offerings, ok := c.resolveExportRequest(ctx)
	if !ok {
		return
	}

	content, err := c.exportService.BuildICS(offerings, req.TermStart, req.TermEnd)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=schedule.ics")
	ctx.Data(http.StatusOK, "text/calendar", content)
}

// ExportCSV exports a schedule as CSV
// @Summary Export schedule as CSV
// @Description Renders the offerings identified by the given CRNs as a flat CSV summary
// @Tags export
// @Accept json
// @Produce text/csv
// @Param request body dto.ExportRequest true "CRNs of the schedule"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "CRN not in catalog"
// @Router /export/csv [post]
func (c *ExportController) ExportCSV(ctx *gin.Context) {
	_, offerings, ok := c.resolveExportRequest(ctx)
	if !ok {
		return
	}

	content, err := c.exportService.BuildCSV(offerings)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=schedule.csv")
	ctx.Data(http.StatusOK, "text/csv", content)
}

// resolveExportRequest binds the request body and resolves its CRNs against
// the catalog. On failure it has already written the error response.
func (c *ExportController) resolveExportRequest(ctx *gin.Context) (*dto.ExportRequest, []*models.Offering, bool) {
	var req dto.ExportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid export request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, nil, false
	}

	offerings, err := c.catalogService.ResolveCrns(req.Crns)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, nil, false
	}

	return &req, offerings, true
}
