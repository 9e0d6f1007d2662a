package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"puzzleboard/internal/logger"
	"puzzleboard/internal/models"
	"puzzleboard/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubmissionHandler struct {
	puzzleRepo repositories.PuzzleRepository
	subRepo    repositories.SubmissionRepository
	now        func() time.Time
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(puzzleRepo repositories.PuzzleRepository,
	subRepo repositories.SubmissionRepository) *SubmissionHandler {
	return &SubmissionHandler{
		puzzleRepo: puzzleRepo,
		subRepo:    subRepo,
		now:        time.Now,
	}
}

// CreateSubmission records a visitor's answer while the puzzle is open.
// Duplicate submissions are accepted; the ranking engine collapses them later.
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req models.SubmissionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.ValidateRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	puzzle, err := h.puzzleRepo.GetPuzzleByID(c.Request.Context(), req.PuzzleID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Puzzle not found"})
			return
		}

		logger.Log.Error("Failed to get puzzle for submission",
			zap.Int("puzzle_id", req.PuzzleID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit solution"})
		return
	}

	now := h.now()
	if !now.Before(puzzle.Deadline) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Puzzle deadline has passed"})
		return
	}

	submission := models.Submission{
		PuzzleID:    req.PuzzleID,
		Name:        strings.TrimSpace(req.Name),
		Answer:      req.Answer,
		Comments:    req.Comments,
		SubmittedAt: now,
		Status:      models.SubmissionPending,
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		submission.Email = &email
	}

	if err := h.subRepo.CreateSubmission(c.Request.Context(), &submission); err != nil {
		logger.Log.Error("Failed to create submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit solution"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Submission received successfully!",
		"submissionId": submission.ID,
	})
}

// GetSubmissionsByPuzzle returns a puzzle's submissions, newest first
func (h *SubmissionHandler) GetSubmissionsByPuzzle(c *gin.Context) {
	idStr := c.Param("puzzleId")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid puzzle ID"})
		return
	}

	submissions, err := h.subRepo.GetSubmissionsByPuzzle(c.Request.Context(), id)
	if err != nil {
		logger.Log.Error("Failed to get submissions",
			zap.Int("puzzle_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// RegisterRoutes registers the public submission routes
func (h *SubmissionHandler) RegisterRoutes(router *gin.Engine) {
	submissionGroup := router.Group("/api/submissions")
	{
		submissionGroup.POST("", h.CreateSubmission)
		submissionGroup.GET("/puzzle/:puzzleId", h.GetSubmissionsByPuzzle)
	}
}
