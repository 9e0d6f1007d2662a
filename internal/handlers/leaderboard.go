package handlers

import (
	"net/http"

	"puzzleboard/internal/logger"
	"puzzleboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LeaderboardHandler struct {
	ranking *services.RankingService
}

func NewLeaderboardHandler(ranking *services.RankingService) *LeaderboardHandler {
	return &LeaderboardHandler{ranking: ranking}
}

// GetLeaderboard returns the ranked top-100 solver list
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.ranking.ComputeLeaderboard(c.Request.Context())
	if err != nil {
		logger.Log.Error("Failed to compute leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *LeaderboardHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/leaderboard", h.GetLeaderboard)
}
