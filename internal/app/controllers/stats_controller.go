package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/services"
	"github.com/mbaylon/interntrack/internal/middleware"
)

// StatsController serves roster summary statistics
type StatsController struct {
	statsService *services.StatsService
	programs     ProgramLister
}

// NewStatsController creates a new StatsController
func NewStatsController(statsService *services.StatsService, programs ProgramLister) *StatsController {
	return &StatsController{
		statsService: statsService,
		programs:     programs,
	}
}

// GetStats returns summary counts over the caller's visible roster
// @Summary Roster statistics
// @Description Returns summary counts (hired, relocation, requirement completion, per section and program) over the roster visible to the caller
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StatsResponse} "Statistics"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stats [get]
func (c *StatsController) GetStats(ctx *gin.Context) {
	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	stats, err := c.statsService.GetStats(ctx, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats, Timestamp: time.Now()})
}
