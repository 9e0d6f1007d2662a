package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"puzzleboard/internal/logger"
	"puzzleboard/internal/repositories"
	"puzzleboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PuzzleHandler struct {
	puzzleRepo repositories.PuzzleRepository
	ranking    *services.RankingService
	now        func() time.Time
}

// NewPuzzleHandler creates a new puzzle handler
func NewPuzzleHandler(puzzleRepo repositories.PuzzleRepository, ranking *services.RankingService) *PuzzleHandler {
	return &PuzzleHandler{
		puzzleRepo: puzzleRepo,
		ranking:    ranking,
		now:        time.Now,
	}
}

// GetPuzzles returns all puzzles, newest first
func (h *PuzzleHandler) GetPuzzles(c *gin.Context) {
	puzzles, err := h.puzzleRepo.GetPuzzles(c.Request.Context())
	if err != nil {
		logger.Log.Error("Failed to get puzzles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch puzzles"})
		return
	}

	now := h.now()
	for i := range puzzles {
		puzzles[i].DeriveStatus(now)
	}

	c.JSON(http.StatusOK, puzzles)
}

// GetPuzzleByID returns a single puzzle or 404
func (h *PuzzleHandler) GetPuzzleByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid puzzle ID"})
		return
	}

	puzzle, err := h.puzzleRepo.GetPuzzleByID(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Puzzle not found"})
			return
		}

		logger.Log.Error("Failed to get puzzle",
			zap.Int("puzzle_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch puzzle"})
		return
	}

	puzzle.DeriveStatus(h.now())
	c.JSON(http.StatusOK, puzzle)
}

// GetLatestActive returns the most recent puzzle whose deadline is still in
// the future, or null when no puzzle is open.
func (h *PuzzleHandler) GetLatestActive(c *gin.Context) {
	puzzle, err := h.puzzleRepo.GetLatestActive(c.Request.Context(), h.now())
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusOK, nil)
			return
		}

		logger.Log.Error("Failed to get latest active puzzle", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch latest puzzle"})
		return
	}

	puzzle.DeriveStatus(h.now())
	c.JSON(http.StatusOK, puzzle)
}

// GetCorrectSolvers returns the deduplicated correct-solver list for a puzzle
func (h *PuzzleHandler) GetCorrectSolvers(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid puzzle ID"})
		return
	}

	solvers, err := h.ranking.CorrectSolvers(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Puzzle not found"})
			return
		}

		logger.Log.Error("Failed to get correct solvers",
			zap.Int("puzzle_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch correct solvers"})
		return
	}

	c.JSON(http.StatusOK, solvers)
}

// RegisterRoutes registers the public puzzle routes
func (h *PuzzleHandler) RegisterRoutes(router *gin.Engine) {
	puzzleGroup := router.Group("/api/puzzles")
	{
		puzzleGroup.GET("", h.GetPuzzles)
		puzzleGroup.GET("/latest/active", h.GetLatestActive)
		puzzleGroup.GET("/:id", h.GetPuzzleByID)
		puzzleGroup.GET("/:id/correct", h.GetCorrectSolvers)
	}
}
