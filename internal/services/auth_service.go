package services

import (
	"context"
	"strings"
	"time"

	"flashdeck/internal/auth"
	"flashdeck/internal/errors"
	"flashdeck/internal/logger"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
)

// SignUpInput carries the fields for a new account.
type SignUpInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileUpdate is a partial profile patch; nil fields are untouched.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// AuthService handles accounts and login sessions
type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*models.User, string, error)
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	SignOut(ctx context.Context, token string) error
	// Authenticate resolves a session token to a user id. An empty id
	// with nil error means the token is absent, expired or unknown.
	Authenticate(ctx context.Context, token string) (string, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfileUpdate) (*models.User, error)
}

type authService struct {
	users      repository.UserRepository
	sessions   repository.AuthSessionRepository
	bcryptCost int
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, sessions repository.AuthSessionRepository, bcryptCost int, sessionTTL time.Duration) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

const minPasswordLen = 8

func (s *authService) SignUp(ctx context.Context, input SignUpInput) (*models.User, string, error) {
	log := logger.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", errors.NewValidationError("email", "must be a valid address")
	}
	if len(input.Password) < minPasswordLen {
		return nil, "", errors.NewValidationError("password", "must be at least 8 characters")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, "", errors.NewConflictError("email already registered")
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", errors.NewInternalError(err)
	}

	now := s.now().UTC()
	user := models.User{
		ID:           auth.NewID(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", errors.NewInternalError(err)
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info("user signed up: id=%s", user.ID)
	return &user, token, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", errors.NewInternalError(err)
	}
	// Same error for unknown email and wrong password.
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		log.Debug("sign-in rejected")
		return nil, "", errors.NewBadRequestError("invalid email or password")
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info("user signed in: id=%s", user.ID)
	return user, token, nil
}

func (s *authService) openSession(ctx context.Context, userID string) (string, error) {
	now := s.now().UTC()
	session := models.AuthSession{
		Token:     auth.NewToken(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return "", errors.NewInternalError(err)
	}
	return session.Token, nil
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	if session == nil || session.ExpiresAt.Before(s.now()) {
		return "", nil
	}
	return session.UserID, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, patch ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, *user); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}
