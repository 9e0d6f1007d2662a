package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"puzzleboard/internal/models"

	"github.com/jmoiron/sqlx"
)

type PuzzleRepository interface {
	GetPuzzles(ctx context.Context) ([]models.Puzzle, error)
	GetPuzzleByID(ctx context.Context, puzzleID int) (*models.Puzzle, error)
	GetLatestActive(ctx context.Context, now time.Time) (*models.Puzzle, error)
	CreatePuzzle(ctx context.Context, puzzle *models.Puzzle) error
	UpdatePuzzle(ctx context.Context, puzzleID int, updates map[string]interface{}) error
	DeletePuzzle(ctx context.Context, puzzleID int) error
	SlugExists(ctx context.Context, slug string, excludeID int) (bool, error)
	GetReferencedFiles(ctx context.Context) ([]string, error)
}

type puzzleRepository struct {
	db *sqlx.DB
}

func NewPuzzleRepository(db *sqlx.DB) PuzzleRepository {
	return &puzzleRepository{db: db}
}

const puzzleColumns = `id, title, description, tags, difficulty, format, file_path,
		deadline, solution_format, solution_text, solution_file_path, is_active, slug, created_at`

func (r *puzzleRepository) GetPuzzles(ctx context.Context) ([]models.Puzzle, error) {
	query := `SELECT ` + puzzleColumns + ` FROM puzzles ORDER BY created_at DESC`

	var puzzles []models.Puzzle
	if err := r.db.SelectContext(ctx, &puzzles, query); err != nil {
		return nil, fmt.Errorf("failed to get puzzles: %w", err)
	}

	return puzzles, nil
}

func (r *puzzleRepository) GetPuzzleByID(ctx context.Context, puzzleID int) (*models.Puzzle, error) {
	query := `SELECT ` + puzzleColumns + ` FROM puzzles WHERE id = ?`

	var puzzle models.Puzzle
	if err := r.db.GetContext(ctx, &puzzle, query, puzzleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("puzzle not found: %d", puzzleID)
		}
		return nil, fmt.Errorf("failed to get puzzle: %w", err)
	}

	return &puzzle, nil
}

func (r *puzzleRepository) GetLatestActive(ctx context.Context, now time.Time) (*models.Puzzle, error) {
	query := `SELECT ` + puzzleColumns + ` FROM puzzles
		WHERE deadline > ? AND is_active = TRUE
		ORDER BY created_at DESC LIMIT 1`

	var puzzle models.Puzzle
	if err := r.db.GetContext(ctx, &puzzle, query, now); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("active puzzle not found")
		}
		return nil, fmt.Errorf("failed to get latest active puzzle: %w", err)
	}

	return &puzzle, nil
}

func (r *puzzleRepository) CreatePuzzle(ctx context.Context, puzzle *models.Puzzle) error {
	query := `INSERT INTO puzzles
		(title, description, tags, difficulty, format, file_path, deadline,
		 solution_format, solution_text, solution_file_path, is_active, slug, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		puzzle.Title, puzzle.Description, puzzle.Tags, puzzle.Difficulty, puzzle.Format,
		puzzle.FilePath, puzzle.Deadline, puzzle.SolutionFormat, puzzle.SolutionText,
		puzzle.SolutionFilePath, puzzle.IsActive, puzzle.Slug, puzzle.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create puzzle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	puzzle.ID = int(id)

	return nil
}

func (r *puzzleRepository) UpdatePuzzle(ctx context.Context, puzzleID int, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	clauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	for _, col := range []string{"title", "description", "tags", "difficulty", "format",
		"deadline", "solution_format", "solution_text", "is_active", "slug"} {
		if val, ok := updates[col]; ok {
			clauses = append(clauses, col+" = ?")
			args = append(args, val)
		}
	}
	args = append(args, puzzleID)

	query := `UPDATE puzzles SET ` + strings.Join(clauses, ", ") + ` WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update puzzle: %w", err)
	}

	return nil
}

func (r *puzzleRepository) DeletePuzzle(ctx context.Context, puzzleID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM puzzles WHERE id = ?`, puzzleID)
	if err != nil {
		return fmt.Errorf("failed to delete puzzle: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("puzzle not found: %d", puzzleID)
	}

	return nil
}

func (r *puzzleRepository) SlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	query := `SELECT COUNT(*) FROM puzzles WHERE slug = ? AND id != ?`

	var count int
	if err := r.db.GetContext(ctx, &count, query, slug, excludeID); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}

	return count > 0, nil
}

func (r *puzzleRepository) GetReferencedFiles(ctx context.Context) ([]string, error) {
	query := `SELECT file_path FROM puzzles WHERE file_path IS NOT NULL
		UNION SELECT solution_file_path FROM puzzles WHERE solution_file_path IS NOT NULL`

	var files []string
	if err := r.db.SelectContext(ctx, &files, query); err != nil {
		return nil, fmt.Errorf("failed to get referenced files: %w", err)
	}

	return files, nil
}
