package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schedulepro/internal/app/models/dto"
	"github.com/yigit/schedulepro/internal/app/services"
	"github.com/yigit/schedulepro/internal/middleware"
)

// CatalogController handles catalog browsing and administration
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// GetCatalog lists catalog offerings
// @Summary List catalog offerings
// @Description Retrieves catalog offerings with optional course-key filter, text search, and pagination
// @Tags catalog
// @Produce json
// @Param courseKey query string false "Filter by course key, e.g. CS114"
// @Param search query string false "Search in course key or title"
// @Param limit query int false "Maximum results" default(100)
// @Param offset query int false "Pagination offset" default(0)
// @Success 200 {object} dto.APIResponse{data=dto.CatalogResponse} "Catalog retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /catalog [get]
func (c *CatalogController) GetCatalog(ctx *gin.Context) {
	var query dto.CatalogQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid catalog query")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      c.catalogService.ListOfferings(query),
		Timestamp: time.Now(),
	})
}

// GetCourses lists distinct courses
// @Summary List courses
// @Description Retrieves the distinct courses in the catalog, each with its sections
// @Tags catalog
// @Produce json
// @Param search query string false "Search in course key or title"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses retrieved"
// @Router /catalog/courses [get]
func (c *CatalogController) GetCourses(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      c.catalogService.ListCourses(ctx.Query("search")),
		Timestamp: time.Now(),
	})
}

// IngestCSV ingests a course schedule CSV export
// @Summary Ingest catalog CSV
// @Description Parses an uploaded CSV export and merges its offerings into the catalog
// @Tags catalog
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.APIResponse{data=dto.IngestResponse} "CSV ingested"
// @Failure 400 {object} dto.ErrorResponse "Not a CSV or no parsable rows"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/ingest [post]
func (c *CatalogController) IngestCSV(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "CSV file is required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidCSV, "File must be a CSV")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	response, err := c.catalogService.IngestCSV(ctx.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      response,
		Timestamp: time.Now(),
	})
}

// ReloadCatalog rebuilds the snapshot from the database
// @Summary Reload catalog
// @Description Rebuilds the in-memory catalog snapshot from the database
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Catalog reloaded"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/reload [post]
func (c *CatalogController) ReloadCatalog(ctx *gin.Context) {
	if err := c.catalogService.Reload(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Catalog reloaded"},
		Timestamp: time.Now(),
	})
}

// ClearCatalog removes every offering
// @Summary Clear catalog
// @Description Removes every offering from the database and resets the snapshot
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Catalog cleared"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog [delete]
func (c *CatalogController) ClearCatalog(ctx *gin.Context) {
	if err := c.catalogService.Clear(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Catalog cleared"},
		Timestamp: time.Now(),
	})
}
