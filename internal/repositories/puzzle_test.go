package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestGetPuzzleByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPuzzleRepository(db)

	deadline := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "tags", "difficulty", "format", "file_path",
		"deadline", "solution_format", "solution_text", "solution_file_path",
		"is_active", "slug", "created_at",
	}).AddRow(3, "Dice Game", "Roll until...", "probability,dice", "Hard", "text",
		nil, deadline, nil, nil, nil, true, "dice-game", created)

	mock.ExpectQuery("FROM puzzles WHERE id").WithArgs(3).WillReturnRows(rows)

	puzzle, err := repo.GetPuzzleByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Dice Game", puzzle.Title)
	assert.Equal(t, []string{"probability", "dice"}, []string(puzzle.Tags))
	assert.Equal(t, "dice-game", puzzle.Slug)
	assert.True(t, puzzle.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPuzzleByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPuzzleRepository(db)

	mock.ExpectQuery("FROM puzzles WHERE id").WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetPuzzleByID(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSlugExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPuzzleRepository(db)

	mock.ExpectQuery("SELECT COUNT").WithArgs("dice-game", 0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.SlugExists(context.Background(), "dice-game", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT COUNT").WithArgs("new-slug", 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err = repo.SlugExists(context.Background(), "new-slug", 5)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdatePuzzleWritesNullSolutionFormat(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPuzzleRepository(db)

	mock.ExpectExec("UPDATE puzzles SET solution_format").WithArgs(nil, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePuzzle(context.Background(), 3, map[string]interface{}{"solution_format": nil})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePuzzleNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPuzzleRepository(db)

	mock.ExpectExec("DELETE FROM puzzles").WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeletePuzzle(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetReferencedFiles(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPuzzleRepository(db)

	mock.ExpectQuery("SELECT file_path FROM puzzles").
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).
			AddRow("a.pdf").AddRow("b.png"))

	files, err := repo.GetReferencedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.png"}, files)
}
