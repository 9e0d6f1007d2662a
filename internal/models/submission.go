package models

import (
	"errors"
	"strings"
	"time"
)

const (
	SubmissionPending   = "pending"
	SubmissionCorrect   = "correct"
	SubmissionIncorrect = "incorrect"
)

type Submission struct {
	ID          int       `db:"id" json:"id"`
	PuzzleID    int       `db:"puzzle_id" json:"puzzleId"`
	Name        string    `db:"name" json:"name"`
	Email       *string   `db:"email" json:"email,omitempty"`
	Answer      string    `db:"answer" json:"answer"`
	Comments    string    `db:"comments" json:"comments"`
	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
	Status      string    `db:"status" json:"status"`
	// Filled by the admin listing join, absent elsewhere
	PuzzleTitle *string `db:"puzzle_title" json:"puzzleTitle,omitempty"`
}

type SubmissionRequest struct {
	PuzzleID int    `json:"puzzleId" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Answer   string `json:"answer"`
	Comments string `json:"comments"`
}

func (r *SubmissionRequest) ValidateRequest() error {
	if r.PuzzleID <= 0 {
		return errors.New("puzzle ID must be a positive integer")
	}

	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name cannot be empty")
	}

	if strings.TrimSpace(r.Answer) == "" {
		return errors.New("answer cannot be empty")
	}

	return nil
}

type UpdateSubmissionRequest struct {
	Status string `json:"status" binding:"required"`
}

func ValidSubmissionStatus(s string) bool {
	switch s {
	case SubmissionPending, SubmissionCorrect, SubmissionIncorrect:
		return true
	}
	return false
}

// CorrectRow is the projection the ranking engine aggregates over.
type CorrectRow struct {
	Name        string    `db:"name"`
	Email       *string   `db:"email"`
	PuzzleID    int       `db:"puzzle_id"`
	SubmittedAt time.Time `db:"submitted_at"`
}

type LeaderboardEntry struct {
	Rank               int    `json:"rank"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	CorrectSubmissions int    `json:"correctSubmissions"`
}

type Solver struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}
