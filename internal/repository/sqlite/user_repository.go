package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"flashdeck/internal/logger"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Insert(ctx context.Context, u models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: id=%s", u.ID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, first_name, last_name, avatar_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, u.ID, strings.ToLower(u.Email), u.PasswordHash, u.FirstName, u.LastName, u.AvatarURL, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		log.Error("failed to insert user: %v", err)
	}
	return err
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%s", id)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, first_name, last_name, avatar_url, created_at, updated_at
FROM users
WHERE id = ?
`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user by email")

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, first_name, last_name, avatar_url, created_at, updated_at
FROM users
WHERE email = ?
`, strings.ToLower(email)).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user by email: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, u models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating user: id=%s", u.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE users
SET first_name = ?, last_name = ?, avatar_url = ?, updated_at = ?
WHERE id = ?
`, u.FirstName, u.LastName, u.AvatarURL, time.Now().UTC(), u.ID)
	if err != nil {
		log.Error("failed to update user: %v", err)
	}
	return err
}
