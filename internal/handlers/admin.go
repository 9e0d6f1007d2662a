package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"puzzleboard/configs"
	"puzzleboard/internal/logger"
	"puzzleboard/internal/middlewares"
	"puzzleboard/internal/models"
	"puzzleboard/internal/repositories"
	"puzzleboard/internal/services"
	"puzzleboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type AdminHandler struct {
	cfg          *configs.Config
	puzzleRepo   repositories.PuzzleRepository
	subRepo      repositories.SubmissionRepository
	sessionRepo  repositories.SessionRepository
	tokenService *services.TokenService
	ranking      *services.RankingService
	fileStore    *services.FileStore
	now          func() time.Time
}

func NewAdminHandler(cfg *configs.Config, puzzleRepo repositories.PuzzleRepository,
	subRepo repositories.SubmissionRepository, sessionRepo repositories.SessionRepository,
	tokenService *services.TokenService, ranking *services.RankingService,
	fileStore *services.FileStore) *AdminHandler {
	return &AdminHandler{
		cfg:          cfg,
		puzzleRepo:   puzzleRepo,
		subRepo:      subRepo,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		ranking:      ranking,
		fileStore:    fileStore,
		now:          time.Now,
	}
}

// Login checks the configured admin credential, records a session and issues
// a signed 24-hour token carrying the session id.
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Email != h.cfg.AdminEmail || !utils.CheckPasswordHash(req.Password, h.cfg.AdminPasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	session := models.AdminSession{
		SessionID: uuid.New().String(),
		CreatedAt: h.now(),
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	}
	if err := h.sessionRepo.CreateSession(c.Request.Context(), &session); err != nil {
		logger.Log.Error("Failed to create admin session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	token, err := h.tokenService.GenerateToken(h.cfg.AdminEmail, session.SessionID)
	if err != nil {
		logger.Log.Error("Failed to generate admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "message": "Login successful"})
}

// Logout deletes the session row, revoking the token before its expiry.
func (h *AdminHandler) Logout(c *gin.Context) {
	sessionID := c.GetString(middlewares.SessionContextKey)

	if err := h.sessionRepo.DeleteSession(c.Request.Context(), sessionID); err != nil {
		logger.Log.Error("Failed to delete admin session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// uniqueSlug derives a slug from the title, suffixing the timestamp when the
// plain slug is already taken by another puzzle.
func (h *AdminHandler) uniqueSlug(c *gin.Context, title string, excludeID int) (string, error) {
	s := slug.Make(title)
	exists, err := h.puzzleRepo.SlugExists(c.Request.Context(), s, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		s += "-" + strconv.FormatInt(h.now().Unix(), 10)
	}
	return s, nil
}

// CreatePuzzle handles the multipart puzzle form with optional puzzle and
// solution file attachments.
func (h *AdminHandler) CreatePuzzle(c *gin.Context) {
	var req models.CreatePuzzleRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deadline, _ := time.Parse(time.RFC3339, req.Deadline)

	puzzleSlug, err := h.uniqueSlug(c, req.Title, 0)
	if err != nil {
		logger.Log.Error("Failed to check slug", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create puzzle"})
		return
	}

	puzzle := models.Puzzle{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Tags:        req.ParseTags(),
		Difficulty:  req.Difficulty,
		Format:      req.Format,
		Deadline:    deadline,
		IsActive:    true,
		Slug:        puzzleSlug,
		CreatedAt:   h.now(),
	}
	if req.SolutionFormat != "" {
		puzzle.SolutionFormat = &req.SolutionFormat
	}
	if req.SolutionText != "" {
		puzzle.SolutionText = &req.SolutionText
	}

	if header, err := c.FormFile("puzzleFile"); err == nil {
		name, err := h.fileStore.SaveUpload(header)
		if err != nil {
			h.respondUploadError(c, err)
			return
		}
		puzzle.FilePath = &name
	}

	if header, err := c.FormFile("solutionFile"); err == nil {
		name, err := h.fileStore.SaveUpload(header)
		if err != nil {
			h.respondUploadError(c, err)
			return
		}
		puzzle.SolutionFilePath = &name
	}

	if (puzzle.Format == models.FormatImage || puzzle.Format == models.FormatPDF) && puzzle.FilePath == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A puzzle file is required for image and pdf formats"})
		return
	}

	if err := h.puzzleRepo.CreatePuzzle(c.Request.Context(), &puzzle); err != nil {
		// Saved files become orphans here; the sweeper reclaims them.
		logger.Log.Error("Failed to create puzzle", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create puzzle"})
		return
	}

	puzzle.DeriveStatus(h.now())
	c.JSON(http.StatusCreated, puzzle)
}

func (h *AdminHandler) respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrFileType) || errors.Is(err, services.ErrFileTooLarge) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Log.Error("Failed to store upload", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
}

// UpdatePuzzle applies a partial JSON update; a title change regenerates the
// slug with the same collision rule.
func (h *AdminHandler) UpdatePuzzle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid puzzle ID"})
		return
	}

	var req models.UpdatePuzzleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := h.puzzleRepo.GetPuzzleByID(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Puzzle not found"})
			return
		}
		logger.Log.Error("Failed to get puzzle", zap.Int("puzzle_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update puzzle"})
		return
	}

	if req.Format != nil && (*req.Format == models.FormatImage || *req.Format == models.FormatPDF) && current.FilePath == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A puzzle file is required for image and pdf formats"})
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)

		newSlug, err := h.uniqueSlug(c, *req.Title, id)
		if err != nil {
			logger.Log.Error("Failed to check slug", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update puzzle"})
			return
		}
		updates["slug"] = newSlug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Tags != nil {
		tagReq := models.CreatePuzzleRequest{Tags: *req.Tags}
		updates["tags"] = tagReq.ParseTags()
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.Format != nil {
		updates["format"] = *req.Format
	}
	if req.Deadline != nil {
		deadline, _ := time.Parse(time.RFC3339, *req.Deadline)
		updates["deadline"] = deadline
	}
	if req.SolutionFormat != nil {
		// An empty string clears the column; the ENUM rejects '' under strict mode.
		if *req.SolutionFormat == "" {
			updates["solution_format"] = nil
		} else {
			updates["solution_format"] = *req.SolutionFormat
		}
	}
	if req.SolutionText != nil {
		updates["solution_text"] = *req.SolutionText
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := h.puzzleRepo.UpdatePuzzle(c.Request.Context(), id, updates); err != nil {
		logger.Log.Error("Failed to update puzzle", zap.Int("puzzle_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update puzzle"})
		return
	}

	puzzle, err := h.puzzleRepo.GetPuzzleByID(c.Request.Context(), id)
	if err != nil {
		logger.Log.Error("Failed to reload puzzle", zap.Int("puzzle_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update puzzle"})
		return
	}

	puzzle.DeriveStatus(h.now())
	c.JSON(http.StatusOK, puzzle)
}

// DeletePuzzle removes the puzzle, its uploaded files and all its submissions.
func (h *AdminHandler) DeletePuzzle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
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
		logger.Log.Error("Failed to get puzzle", zap.Int("puzzle_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete puzzle"})
		return
	}

	// Submissions reference the puzzle row, so they go first.
	if err := h.subRepo.DeleteSubmissionsByPuzzle(c.Request.Context(), id); err != nil {
		logger.Log.Error("Failed to delete puzzle submissions",
			zap.Int("puzzle_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete puzzle"})
		return
	}

	if err := h.puzzleRepo.DeletePuzzle(c.Request.Context(), id); err != nil {
		logger.Log.Error("Failed to delete puzzle", zap.Int("puzzle_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete puzzle"})
		return
	}

	if puzzle.FilePath != nil {
		if err := h.fileStore.Delete(*puzzle.FilePath); err != nil {
			logger.Log.Warn("Failed to delete puzzle file", zap.Error(err))
		}
	}
	if puzzle.SolutionFilePath != nil {
		if err := h.fileStore.Delete(*puzzle.SolutionFilePath); err != nil {
			logger.Log.Warn("Failed to delete solution file", zap.Error(err))
		}
	}

	h.ranking.InvalidateLeaderboard(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Puzzle and associated files deleted"})
}

// GetAllSubmissions returns every submission with its puzzle title, newest first
func (h *AdminHandler) GetAllSubmissions(c *gin.Context) {
	submissions, err := h.subRepo.GetAllSubmissions(c.Request.Context())
	if err != nil {
		logger.Log.Error("Failed to get submissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// GetPuzzleSubmissions returns one puzzle's submissions, newest first
func (h *AdminHandler) GetPuzzleSubmissions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
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

// UpdateSubmissionStatus is the only way a submission moves out of pending.
func (h *AdminHandler) UpdateSubmissionStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req models.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if !models.ValidSubmissionStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	submission, err := h.subRepo.GetSubmissionByID(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		logger.Log.Error("Failed to get submission", zap.Int("submission_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	if err := h.subRepo.UpdateSubmissionStatus(c.Request.Context(), id, req.Status); err != nil {
		logger.Log.Error("Failed to update submission status",
			zap.Int("submission_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	h.ranking.InvalidateLeaderboard(c.Request.Context())

	submission.Status = req.Status
	c.JSON(http.StatusOK, submission)
}

func (h *AdminHandler) DeleteSubmission(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	if err := h.subRepo.DeleteSubmission(c.Request.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		logger.Log.Error("Failed to delete submission",
			zap.Int("submission_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}

	h.ranking.InvalidateLeaderboard(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted successfully"})
}

// RegisterRoutes registers the admin routes; everything except login sits
// behind the auth middleware.
func (h *AdminHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	adminGroup := router.Group("/api/admin")
	adminGroup.POST("/login", h.Login)

	protected := adminGroup.Group("", auth)
	{
		protected.POST("/logout", h.Logout)
		protected.POST("/puzzles", h.CreatePuzzle)
		protected.PATCH("/puzzles/:id", h.UpdatePuzzle)
		protected.DELETE("/puzzles/:id", h.DeletePuzzle)
		protected.GET("/puzzles/:id/submissions", h.GetPuzzleSubmissions)
		protected.GET("/submissions", h.GetAllSubmissions)
		protected.PATCH("/submissions/:id", h.UpdateSubmissionStatus)
		protected.DELETE("/submissions/:id", h.DeleteSubmission)
	}
}
