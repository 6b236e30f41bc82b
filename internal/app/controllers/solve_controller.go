package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schedulepro/internal/app/models/dto"
	"github.com/yigit/schedulepro/internal/app/services"
	"github.com/yigit/schedulepro/internal/middleware"
)

// SolveController handles schedule generation requests
type SolveController struct {
	solveService services.SolveService
}

// NewSolveController creates a new SolveController
func NewSolveController(solveService services.SolveService) *SolveController {
	return &SolveController{
		solveService: solveService,
	}
}

// Solve generates conflict-free schedules
// @Summary Generate schedules
// @Description Generates every conflict-free schedule for the required courses under the given constraints, ranked best-first
// @Tags solve
// @Accept json
// @Produce json
// @Param request body dto.SolveRequest true "Solve constraints"
// @Success 200 {object} dto.APIResponse{data=dto.SolveResponse} "Schedules generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or empty catalog"
// @Failure 404 {object} dto.ErrorResponse "Required course not in catalog"
// @Failure 429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /solve [post]
func (c *SolveController) Solve(ctx *gin.Context) {
	// Reject unknown fields so a misspelled constraint cannot silently
	// widen the search.
	decoder := json.NewDecoder(ctx.Request.Body)
	decoder.DisallowUnknownFields()

	var req dto.SolveRequest
	if err := decoder.Decode(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid solve request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if len(req.Courses) == 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid solve request").
			WithField("courses").
			WithDetails("courses must not be empty")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	response, err := c.solveService.Solve(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      response,
		Timestamp: time.Now(),
	})
}
