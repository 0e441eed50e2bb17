package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"flashdeck/internal/models"
	"flashdeck/internal/repository"
	"flashdeck/internal/repository/sqlite"
	"flashdeck/internal/services"
	"flashdeck/internal/testutil"
)

type DashboardServiceSuite struct {
	suite.Suite
	db        *sql.DB
	studyRepo repository.StudyRepository
	svc       services.DashboardService
}

func (s *DashboardServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	decks := sqlite.NewDeckRepository(s.db)
	cards := sqlite.NewFlashcardRepository(s.db)
	s.studyRepo = sqlite.NewStudyRepository(s.db)
	s.svc = services.NewDashboardService(decks, cards, services.NewStudyService(s.studyRepo), s.studyRepo)

	testutil.SeedUser(s.T(), s.db, "u1", "u1@example.com")
}

func (s *DashboardServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DashboardServiceSuite) TestEmptyDashboard() {
	data, err := s.svc.GetDashboard(context.Background(), "u1")
	s.Require().NoError(err)
	s.Assert().Empty(data.Decks)
	s.Assert().Empty(data.UnattachedFlashcards)
	s.Assert().Zero(data.Stats.TotalDecks)
	s.Assert().Zero(data.Stats.TotalFlashcards)
	s.Assert().Zero(data.Stats.StudyStreak)
	s.Assert().Zero(data.Stats.TotalStudyTime)
}

func (s *DashboardServiceSuite) TestAggregates() {
	ctx := context.Background()

	testutil.SeedDeck(s.T(), s.db, "d1", "u1", "Spanish", "")
	testutil.SeedFlashcard(s.T(), s.db, "c1", "d1", "u1", "Hola", "Hello", false)
	testutil.SeedFlashcard(s.T(), s.db, "c2", "d1", "u1", "Adios", "Goodbye", false)

	// One unattached card, counted in the total but listed separately.
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flashcards (id, front, back, user_id, created_at, updated_at)
		VALUES ('c3', 'loose', 'card', 'u1', ?, ?)
	`, now, now)
	s.Require().NoError(err)

	completed := now.Add(-time.Minute)
	started := completed.Add(-150 * time.Second)
	s.Require().NoError(s.studyRepo.InsertSession(ctx, models.StudySession{
		ID:              "s1",
		UserID:          "u1",
		DeckID:          "d1",
		StartedAt:       started,
		CompletedAt:     &completed,
		TotalCards:      2,
		CardsStudied:    2,
		Accuracy:        100,
		DurationSeconds: 150,
		StudyMode:       models.DefaultStudyMode,
		UpdatedAt:       completed,
	}))

	data, err := s.svc.GetDashboard(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(1, data.Stats.TotalDecks)
	s.Assert().Equal(3, data.Stats.TotalFlashcards)
	s.Assert().Equal(1, data.Stats.StudyStreak)
	s.Assert().Equal(2, data.Stats.TotalStudyTime, "whole minutes only")

	s.Require().Len(data.Decks, 1)
	s.Assert().Equal(2, data.Decks[0].FlashcardCount, "deck counts exclude unattached cards")
	s.Require().Len(data.UnattachedFlashcards, 1)
	s.Assert().Equal("c3", data.UnattachedFlashcards[0].ID)
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceSuite))
}
