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

type DeckRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.DeckRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDeckRepository(s.db)
	testutil.SeedUser(s.T(), s.db, "u1", "u1@example.com")
	testutil.SeedUser(s.T(), s.db, "u2", "u2@example.com")
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) newDeck(id, userID, title string) models.Deck {
	now := time.Now().UTC()
	return models.Deck{
		ID:        id,
		Title:     title,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *DeckRepositorySuite) TestInsertAndGetVisible() {
	ctx := context.Background()

	deck := s.newDeck("d1", "u1", "Spanish Vocab")
	s.Require().NoError(s.repo.Insert(ctx, deck))

	got, err := s.repo.GetVisible(ctx, "d1", "u1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Spanish Vocab", got.Title)
	s.Assert().Equal(0, got.FlashcardCount)
}

func (s *DeckRepositorySuite) TestGetVisible_PrivateDeckHiddenFromOthers() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d1", "u1", "Private")))

	got, err := s.repo.GetVisible(ctx, "d1", "u2")
	s.Require().NoError(err)
	s.Assert().Nil(got, "another user's private deck is invisible")

	got, err = s.repo.GetVisible(ctx, "d1", "")
	s.Require().NoError(err)
	s.Assert().Nil(got, "anonymous callers only see public decks")
}

func (s *DeckRepositorySuite) TestGetVisible_PublicDeck() {
	ctx := context.Background()

	deck := s.newDeck("d1", "u1", "Shared")
	deck.IsPublic = true
	s.Require().NoError(s.repo.Insert(ctx, deck))

	got, err := s.repo.GetVisible(ctx, "d1", "u2")
	s.Require().NoError(err)
	s.Require().NotNil(got)

	got, err = s.repo.GetVisible(ctx, "d1", "")
	s.Require().NoError(err)
	s.Require().NotNil(got)
}

func (s *DeckRepositorySuite) TestGetVisible_MissingDeckIsNil() {
	got, err := s.repo.GetVisible(context.Background(), "nope", "u1")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *DeckRepositorySuite) TestUpdate() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d1", "u1", "Old Title")))

	title := "New Title"
	public := true
	got, err := s.repo.Update(ctx, "d1", "u1", models.DeckUpdate{Title: &title, IsPublic: &public})
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("New Title", got.Title)
	s.Assert().True(got.IsPublic)
}

func (s *DeckRepositorySuite) TestUpdate_ScopedToOwner() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d1", "u1", "Mine")))

	title := "Hijacked"
	got, err := s.repo.Update(ctx, "d1", "u2", models.DeckUpdate{Title: &title})
	s.Require().NoError(err)
	s.Assert().Nil(got, "updating another user's deck matches zero rows")
}

func (s *DeckRepositorySuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d1", "u1", "Doomed")))
	s.Require().NoError(s.repo.Delete(ctx, "d1", "u1"))

	got, err := s.repo.GetVisible(ctx, "d1", "u1")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *DeckRepositorySuite) TestList_FiltersByUserAndIDs() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d1", "u1", "A")))
	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d2", "u1", "B")))
	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d3", "u2", "C")))

	decks, err := s.repo.List(ctx, models.DeckFilter{UserID: "u1"})
	s.Require().NoError(err)
	s.Assert().Len(decks, 2)

	decks, err = s.repo.List(ctx, models.DeckFilter{UserID: "u1", DeckIDs: []string{"d2"}})
	s.Require().NoError(err)
	s.Require().Len(decks, 1)
	s.Assert().Equal("d2", decks[0].ID)
}

func (s *DeckRepositorySuite) TestList_CountsFlashcards() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d1", "u1", "Counted")))
	testutil.SeedFlashcard(s.T(), s.db, "c1", "d1", "u1", "f1", "b1", false)
	testutil.SeedFlashcard(s.T(), s.db, "c2", "d1", "u1", "f2", "b2", false)

	decks, err := s.repo.List(ctx, models.DeckFilter{UserID: "u1"})
	s.Require().NoError(err)
	s.Require().Len(decks, 1)
	s.Assert().Equal(2, decks[0].FlashcardCount)
}

func (s *DeckRepositorySuite) TestListRefsAndCount() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d1", "u1", "A")))
	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d2", "u1", "B")))

	refs, err := s.repo.ListRefs(ctx, "u1", nil)
	s.Require().NoError(err)
	s.Assert().Len(refs, 2)

	refs, err = s.repo.ListRefs(ctx, "u1", []string{"d1"})
	s.Require().NoError(err)
	s.Require().Len(refs, 1)
	s.Assert().Equal("A", refs[0].Title)

	count, err := s.repo.Count(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(2, count)
}

func (s *DeckRepositorySuite) TestTitlesMatching() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d1", "u1", "Spanish Vocab")))
	s.Require().NoError(s.repo.Insert(ctx, s.newDeck("d2", "u1", "French Vocab")))

	titles, err := s.repo.TitlesMatching(ctx, "u1", "SPAN", 5)
	s.Require().NoError(err)
	s.Require().Len(titles, 1, "matching is case-insensitive")
	s.Assert().Equal("Spanish Vocab", titles[0])
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
