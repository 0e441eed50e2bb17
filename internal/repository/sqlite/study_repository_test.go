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

type StudyRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.StudyRepository
}

func (s *StudyRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewStudyRepository(s.db)
	testutil.SeedUser(s.T(), s.db, "u1", "u1@example.com")
	testutil.SeedDeck(s.T(), s.db, "d1", "u1", "Spanish", "")
	testutil.SeedFlashcard(s.T(), s.db, "c1", "d1", "u1", "Hola", "Hello", false)
}

func (s *StudyRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StudyRepositorySuite) newSession(id string, startedAt time.Time) models.StudySession {
	return models.StudySession{
		ID:         id,
		UserID:     "u1",
		DeckID:     "d1",
		StartedAt:  startedAt,
		TotalCards: 10,
		StudyMode:  models.DefaultStudyMode,
		UpdatedAt:  startedAt,
	}
}

func (s *StudyRepositorySuite) TestInsertAndGetSession() {
	ctx := context.Background()

	session := s.newSession("s1", time.Now().UTC())
	session.Settings = models.StudySettings{ShuffleCards: true, StudyMode: "flashcards"}
	s.Require().NoError(s.repo.InsertSession(ctx, session))

	got, err := s.repo.GetSession(ctx, "s1", "u1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(10, got.TotalCards)
	s.Assert().True(got.Settings.ShuffleCards, "settings survive the round trip")
	s.Assert().Nil(got.CompletedAt)
}

func (s *StudyRepositorySuite) TestGetSession_ScopedToUser() {
	ctx := context.Background()
	testutil.SeedUser(s.T(), s.db, "u2", "u2@example.com")

	s.Require().NoError(s.repo.InsertSession(ctx, s.newSession("s1", time.Now().UTC())))

	got, err := s.repo.GetSession(ctx, "s1", "u2")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *StudyRepositorySuite) TestUpdateSession_PartialPatch() {
	ctx := context.Background()

	s.Require().NoError(s.repo.InsertSession(ctx, s.newSession("s1", time.Now().UTC())))

	studied := 5
	correct := 4
	got, err := s.repo.UpdateSession(ctx, "s1", "u1", models.SessionPatch{
		CardsStudied:   &studied,
		CorrectAnswers: &correct,
	})
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(5, got.CardsStudied)
	s.Assert().Equal(4, got.CorrectAnswers)
	s.Assert().Equal(10, got.TotalCards, "unpatched fields keep their values")
}

func (s *StudyRepositorySuite) TestUpdateSession_MissingIsNil() {
	studied := 1
	got, err := s.repo.UpdateSession(context.Background(), "nope", "u1", models.SessionPatch{CardsStudied: &studied})
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *StudyRepositorySuite) TestListSessions_JoinsDeckTitleAndFilters() {
	ctx := context.Background()

	now := time.Now().UTC()
	completed := s.newSession("s1", now.Add(-time.Hour))
	done := now
	completed.CompletedAt = &done
	s.Require().NoError(s.repo.InsertSession(ctx, completed))
	s.Require().NoError(s.repo.InsertSession(ctx, s.newSession("s2", now)))

	sessions, err := s.repo.ListSessions(ctx, models.SessionFilter{UserID: "u1"})
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Assert().Equal("s2", sessions[0].ID, "newest first")
	s.Assert().Equal("Spanish", sessions[0].DeckTitle)

	sessions, err = s.repo.ListSessions(ctx, models.SessionFilter{UserID: "u1", CompletedOnly: true})
	s.Require().NoError(err)
	s.Require().Len(sessions, 1)
	s.Assert().Equal("s1", sessions[0].ID)
}

func (s *StudyRepositorySuite) TestListSessions_WindowBounds() {
	ctx := context.Background()

	now := time.Now().UTC()
	for i, id := range []string{"s1", "s2", "s3"} {
		session := s.newSession(id, now.Add(-time.Duration(i)*24*time.Hour))
		session.CompletedAt = &now
		s.Require().NoError(s.repo.InsertSession(ctx, session))
	}

	from := now.Add(-36 * time.Hour)
	before := now.Add(-12 * time.Hour)
	sessions, err := s.repo.ListSessions(ctx, models.SessionFilter{
		UserID: "u1",
		From:   &from,
		Before: &before,
	})
	s.Require().NoError(err)
	s.Require().Len(sessions, 1)
	s.Assert().Equal("s2", sessions[0].ID)
}

func (s *StudyRepositorySuite) TestStartTimes_CompletedOnlyNewestFirst() {
	ctx := context.Background()

	now := time.Now().UTC()
	first := s.newSession("s1", now.Add(-2*time.Hour))
	first.CompletedAt = &now
	s.Require().NoError(s.repo.InsertSession(ctx, first))

	second := s.newSession("s2", now.Add(-time.Hour))
	second.CompletedAt = &now
	s.Require().NoError(s.repo.InsertSession(ctx, second))

	s.Require().NoError(s.repo.InsertSession(ctx, s.newSession("s3", now)))

	starts, err := s.repo.StartTimes(ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(starts, 2, "incomplete sessions are excluded")
	s.Assert().True(starts[0].After(starts[1]))
}

func (s *StudyRepositorySuite) TestAnswers_AppendOnly() {
	ctx := context.Background()

	s.Require().NoError(s.repo.InsertSession(ctx, s.newSession("s1", time.Now().UTC())))

	now := time.Now().UTC()
	for _, id := range []string{"a1", "a2"} {
		s.Require().NoError(s.repo.InsertAnswer(ctx, models.StudyAnswer{
			ID:          id,
			SessionID:   "s1",
			FlashcardID: "c1",
			Answer:      models.AnswerCorrect,
			AnsweredAt:  now,
		}))
	}

	answers, err := s.repo.AnswersForSession(ctx, "s1")
	s.Require().NoError(err)
	s.Assert().Len(answers, 2, "repeat answers for the same card stay separate rows")

	withAnswers, err := s.repo.GetSessionWithAnswers(ctx, "s1", "u1")
	s.Require().NoError(err)
	s.Require().NotNil(withAnswers)
	s.Assert().Len(withAnswers.Answers, 2)
}

func (s *StudyRepositorySuite) TestSumDurations() {
	ctx := context.Background()

	now := time.Now().UTC()
	for i, id := range []string{"s1", "s2"} {
		session := s.newSession(id, now.Add(-time.Duration(i)*time.Hour))
		session.DurationSeconds = 300
		session.CompletedAt = &now
		s.Require().NoError(s.repo.InsertSession(ctx, session))
	}
	s.Require().NoError(s.repo.InsertSession(ctx, s.newSession("s3", now)))

	total, err := s.repo.SumDurations(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(600, total, "only completed sessions count")
}

func (s *StudyRepositorySuite) TestCloseStale() {
	ctx := context.Background()

	now := time.Now().UTC()
	s.Require().NoError(s.repo.InsertSession(ctx, s.newSession("s1", now.Add(-48*time.Hour))))
	s.Require().NoError(s.repo.InsertSession(ctx, s.newSession("s2", now)))

	n, err := s.repo.CloseStale(ctx, now.Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Assert().EqualValues(1, n)

	stale, err := s.repo.GetSession(ctx, "s1", "u1")
	s.Require().NoError(err)
	s.Require().NotNil(stale)
	s.Assert().NotNil(stale.CompletedAt)

	fresh, err := s.repo.GetSession(ctx, "s2", "u1")
	s.Require().NoError(err)
	s.Require().NotNil(fresh)
	s.Assert().Nil(fresh.CompletedAt)
}

func TestStudyRepositorySuite(t *testing.T) {
	suite.Run(t, new(StudyRepositorySuite))
}
