package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"flashdeck/internal/models"
	"flashdeck/internal/repository"
	"flashdeck/internal/repository/sqlite"
	"flashdeck/internal/testutil"
)

type AuthRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	users    repository.UserRepository
	sessions repository.AuthSessionRepository
}

func (s *AuthRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.users = sqlite.NewUserRepository(s.db)
	s.sessions = sqlite.NewAuthSessionRepository(s.db)
}

func (s *AuthRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *AuthRepositorySuite) TestUserRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC()

	user := models.User{
		ID:           "u1",
		Email:        "Casey@Example.com",
		PasswordHash: "hash",
		FirstName:    "Casey",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.Require().NoError(s.users.Insert(ctx, user))

	got, err := s.users.GetByEmail(ctx, "casey@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(got, "emails are stored lowercased")
	s.Assert().Equal("u1", got.ID)

	got, err = s.users.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Casey", got.FirstName)
}

func (s *AuthRepositorySuite) TestUserGet_MissingIsNil() {
	got, err := s.users.Get(context.Background(), "nope")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *AuthRepositorySuite) TestUserUpdate() {
	ctx := context.Background()
	now := time.Now().UTC()

	user := models.User{ID: "u1", Email: "a@b.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.users.Insert(ctx, user))

	user.FirstName = "Ada"
	user.AvatarURL = "https://example.com/a.png"
	s.Require().NoError(s.users.Update(ctx, user))

	got, err := s.users.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Ada", got.FirstName)
	s.Assert().Equal("https://example.com/a.png", got.AvatarURL)
}

func (s *AuthRepositorySuite) TestSessionLifecycle() {
	ctx := context.Background()
	testutil.SeedUser(s.T(), s.db, "u1", "u1@example.com")

	now := time.Now().UTC()
	session := models.AuthSession{
		Token:     "tok1",
		UserID:    "u1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	s.Require().NoError(s.sessions.Insert(ctx, session))

	got, err := s.sessions.Get(ctx, "tok1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("u1", got.UserID)

	s.Require().NoError(s.sessions.Delete(ctx, "tok1"))

	got, err = s.sessions.Get(ctx, "tok1")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *AuthRepositorySuite) TestDeleteExpired() {
	ctx := context.Background()
	testutil.SeedUser(s.T(), s.db, "u1", "u1@example.com")

	now := time.Now().UTC()
	s.Require().NoError(s.sessions.Insert(ctx, models.AuthSession{
		Token: "old", UserID: "u1", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}))
	s.Require().NoError(s.sessions.Insert(ctx, models.AuthSession{
		Token: "live", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	n, err := s.sessions.DeleteExpired(ctx, now)
	s.Require().NoError(err)
	s.Assert().EqualValues(1, n)

	got, err := s.sessions.Get(ctx, "live")
	s.Require().NoError(err)
	s.Assert().NotNil(got)
}

func TestAuthRepositorySuite(t *testing.T) {
	suite.Run(t, new(AuthRepositorySuite))
}
