package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gynergy/internal/models/request_models"
	"gynergy/internal/repositories"
	"gynergy/internal/services"
	"gynergy/pkg/utils"
)

type LeaderboardController struct {
	leaderboardService services.LeaderboardServiceInterface
}

func NewLeaderboardController(leaderboardService services.LeaderboardServiceInterface) *LeaderboardController {
	return &LeaderboardController{leaderboardService: leaderboardService}
}

// Streaks godoc
// @Summary Top users by current streak
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Rows to return (default 50, max 100)"
// @Success 200 {object} utils.APIResponse
// @Router /api/leaderboard/streaks [get]
func (l *LeaderboardController) Streaks(c *gin.Context) {
	l.top(c, repositories.MetricStreak)
}

// Points godoc
// @Summary Top users by total points
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Rows to return (default 50, max 100)"
// @Success 200 {object} utils.APIResponse
// @Router /api/leaderboard/points [get]
func (l *LeaderboardController) Points(c *gin.Context) {
	l.top(c, repositories.MetricPoints)
}

func (l *LeaderboardController) top(c *gin.Context, metric repositories.LeaderboardMetric) {
	var query request_models.LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "limit must be a number")
		return
	}

	rows, err := l.leaderboardService.Top(c.Request.Context(), metric, query.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, rows, "")
}
