package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"puzzleboard/internal/models"
	"puzzleboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLeaderboard(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	subRepo := newFakeSubRepo()
	// Alice: two distinct puzzles (one solved twice). Bob: one puzzle.
	subRepo.add(models.Submission{PuzzleID: 1, Name: "Alice", Status: models.SubmissionCorrect, SubmittedAt: now})
	subRepo.add(models.Submission{PuzzleID: 1, Name: "Alice", Status: models.SubmissionCorrect, SubmittedAt: now.Add(time.Minute)})
	subRepo.add(models.Submission{PuzzleID: 2, Name: "Alice", Status: models.SubmissionCorrect, SubmittedAt: now.Add(2 * time.Minute)})
	subRepo.add(models.Submission{PuzzleID: 1, Name: "Bob", Status: models.SubmissionCorrect, SubmittedAt: now.Add(time.Second)})
	subRepo.add(models.Submission{PuzzleID: 2, Name: "Eve", Status: models.SubmissionIncorrect, SubmittedAt: now})

	ranking := services.NewRankingService(newFakePuzzleRepo(), subRepo, nil)
	router := gin.New()
	NewLeaderboardHandler(ranking).RegisterRoutes(router)

	w := getJSON(t, router, "/api/leaderboard")
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.LeaderboardEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, 2, got[0].CorrectSubmissions)
	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, "Bob", got[1].Name)
	assert.Equal(t, 1, got[1].CorrectSubmissions)
}
