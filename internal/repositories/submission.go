package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"puzzleboard/internal/models"

	"github.com/jmoiron/sqlx"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	GetSubmissionByID(ctx context.Context, submissionID int) (*models.Submission, error)
	GetSubmissionsByPuzzle(ctx context.Context, puzzleID int) ([]models.Submission, error)
	GetAllSubmissions(ctx context.Context) ([]models.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, submissionID int, status string) error
	DeleteSubmission(ctx context.Context, submissionID int) error
	DeleteSubmissionsByPuzzle(ctx context.Context, puzzleID int) error
	GetCorrectRows(ctx context.Context) ([]models.CorrectRow, error)
	GetCorrectRowsByPuzzle(ctx context.Context, puzzleID int) ([]models.CorrectRow, error)
}

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	query := `INSERT INTO submissions (puzzle_id, name, email, answer, comments, submitted_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		submission.PuzzleID, submission.Name, submission.Email, submission.Answer,
		submission.Comments, submission.SubmittedAt, submission.Status)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	submission.ID = int(id)

	return nil
}

func (r *submissionRepository) GetSubmissionByID(ctx context.Context, submissionID int) (*models.Submission, error) {
	query := `SELECT id, puzzle_id, name, email, answer, comments, submitted_at, status
		FROM submissions WHERE id = ?`

	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, submissionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("submission not found: %d", submissionID)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return &submission, nil
}

func (r *submissionRepository) GetSubmissionsByPuzzle(ctx context.Context, puzzleID int) ([]models.Submission, error) {
	query := `SELECT id, puzzle_id, name, email, answer, comments, submitted_at, status
		FROM submissions WHERE puzzle_id = ? ORDER BY submitted_at DESC`

	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, puzzleID); err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}

	return submissions, nil
}

func (r *submissionRepository) GetAllSubmissions(ctx context.Context) ([]models.Submission, error) {
	query := `SELECT s.id, s.puzzle_id, s.name, s.email, s.answer, s.comments,
			s.submitted_at, s.status, p.title AS puzzle_title
		FROM submissions s
		JOIN puzzles p ON s.puzzle_id = p.id
		ORDER BY s.submitted_at DESC`

	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query); err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}

	return submissions, nil
}

func (r *submissionRepository) UpdateSubmissionStatus(ctx context.Context, submissionID int, status string) error {
	query := `UPDATE submissions SET status = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, status, submissionID); err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	return nil
}

func (r *submissionRepository) DeleteSubmission(ctx context.Context, submissionID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, submissionID)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("submission not found: %d", submissionID)
	}

	return nil
}

func (r *submissionRepository) DeleteSubmissionsByPuzzle(ctx context.Context, puzzleID int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE puzzle_id = ?`, puzzleID); err != nil {
		return fmt.Errorf("failed to delete submissions for puzzle %d: %w", puzzleID, err)
	}

	return nil
}

func (r *submissionRepository) GetCorrectRows(ctx context.Context) ([]models.CorrectRow, error) {
	query := `SELECT name, email, puzzle_id, submitted_at FROM submissions
		WHERE status = 'correct' ORDER BY submitted_at ASC, id ASC`

	var rows []models.CorrectRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get correct submissions: %w", err)
	}

	return rows, nil
}

func (r *submissionRepository) GetCorrectRowsByPuzzle(ctx context.Context, puzzleID int) ([]models.CorrectRow, error) {
	query := `SELECT name, email, puzzle_id, submitted_at FROM submissions
		WHERE status = 'correct' AND puzzle_id = ? ORDER BY submitted_at ASC, id ASC`

	var rows []models.CorrectRow
	if err := r.db.SelectContext(ctx, &rows, query, puzzleID); err != nil {
		return nil, fmt.Errorf("failed to get correct submissions: %w", err)
	}

	return rows, nil
}
