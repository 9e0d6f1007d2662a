package repositories

import (
	"context"
	"fmt"

	"puzzleboard/internal/models"

	"github.com/jmoiron/sqlx"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.AdminSession) error
	SessionExists(ctx context.Context, sessionID string) (bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *models.AdminSession) error {
	query := `INSERT INTO admin_sessions (session_id, created_at, user_agent, ip) VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query,
		session.SessionID, session.CreatedAt, session.UserAgent, session.IP); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *sessionRepository) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	query := `SELECT COUNT(*) FROM admin_sessions WHERE session_id = ?`

	var count int
	if err := r.db.GetContext(ctx, &count, query, sessionID); err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}

	return count > 0, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
