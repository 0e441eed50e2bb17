package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"flashdeck/internal/logger"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
)

type authSessionRepository struct {
	db *sql.DB
}

// NewAuthSessionRepository creates a new AuthSessionRepository implementation
func NewAuthSessionRepository(db *sql.DB) repository.AuthSessionRepository {
	return &authSessionRepository{db: db}
}

func (r *authSessionRepository) Insert(ctx context.Context, s models.AuthSession) error {
	log := logger.FromContext(ctx).WithPrefix("auth_session_repo")
	log.Debug("inserting auth session: user_id=%s", s.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO auth_sessions (token, user_id, created_at, expires_at)
VALUES (?, ?, ?, ?)
`, s.Token, s.UserID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		log.Error("failed to insert auth session: %v", err)
	}
	return err
}

func (r *authSessionRepository) Get(ctx context.Context, token string) (*models.AuthSession, error) {
	log := logger.FromContext(ctx).WithPrefix("auth_session_repo")

	var s models.AuthSession
	err := r.db.QueryRowContext(ctx, `
SELECT token, user_id, created_at, expires_at
FROM auth_sessions
WHERE token = ?
`, token).Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get auth session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *authSessionRepository) Delete(ctx context.Context, token string) error {
	log := logger.FromContext(ctx).WithPrefix("auth_session_repo")
	log.Debug("deleting auth session")

	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE token = ?`, token)
	if err != nil {
		log.Error("failed to delete auth session: %v", err)
	}
	return err
}

func (r *authSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("auth_session_repo")

	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE expires_at <= ?`, now)
	if err != nil {
		log.Error("failed to delete expired auth sessions: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Debug("deleted %d expired auth sessions", n)
	}
	return n, nil
}
