package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"flashdeck/internal/errors"
	"flashdeck/internal/models"
	"flashdeck/internal/repository/sqlite"
	"flashdeck/internal/services"
	"flashdeck/internal/testutil"
)

type FlashcardServiceSuite struct {
	suite.Suite
	db  *sql.DB
	svc services.FlashcardService
}

func (s *FlashcardServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.svc = services.NewFlashcardService(
		sqlite.NewFlashcardRepository(s.db),
		sqlite.NewDeckRepository(s.db),
	)

	testutil.SeedUser(s.T(), s.db, "u1", "u1@example.com")
	testutil.SeedUser(s.T(), s.db, "u2", "u2@example.com")
	testutil.SeedDeck(s.T(), s.db, "d1", "u1", "Spanish", "")
	testutil.SeedDeck(s.T(), s.db, "d2", "u2", "French", "")
}

func (s *FlashcardServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *FlashcardServiceSuite) TestCreateAttachedAndUnattached() {
	ctx := context.Background()

	deckID := "d1"
	attached, err := s.svc.CreateFlashcard(ctx, "u1", services.CreateFlashcardInput{
		Front:  " Hola ",
		Back:   "Hello",
		DeckID: &deckID,
	})
	s.Require().NoError(err)
	s.Assert().Equal("Hola", attached.Front, "fronts are trimmed")
	s.Require().NotNil(attached.DeckID)

	free, err := s.svc.CreateFlashcard(ctx, "u1", services.CreateFlashcardInput{
		Front: "Adios",
		Back:  "Goodbye",
	})
	s.Require().NoError(err)
	s.Assert().Nil(free.DeckID)

	unattached, err := s.svc.ListUnattached(ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(unattached, 1)
	s.Assert().Equal(free.ID, unattached[0].ID)
}

func (s *FlashcardServiceSuite) TestCreateRejectsForeignDeck() {
	ctx := context.Background()

	deckID := "d2"
	_, err := s.svc.CreateFlashcard(ctx, "u1", services.CreateFlashcardInput{
		Front:  "Bonjour",
		Back:   "Hello",
		DeckID: &deckID,
	})
	s.Assert().True(errors.IsNotFound(err), "cards cannot land in another user's deck")
}

func (s *FlashcardServiceSuite) TestCreateValidation() {
	ctx := context.Background()

	_, err := s.svc.CreateFlashcard(ctx, "u1", services.CreateFlashcardInput{Front: " ", Back: "x"})
	s.Require().Error(err)

	_, err = s.svc.CreateFlashcard(ctx, "u1", services.CreateFlashcardInput{Front: "x", Back: ""})
	s.Require().Error(err)

	_, err = s.svc.CreateFlashcard(ctx, "", services.CreateFlashcardInput{Front: "x", Back: "y"})
	s.Assert().True(errors.IsUnauthorized(err))
}

func (s *FlashcardServiceSuite) TestImportPreservesOrder() {
	ctx := context.Background()

	imported, err := s.svc.ImportFlashcards(ctx, "u1", "d1", []models.CardContent{
		{Front: "uno", Back: "one"},
		{Front: "dos", Back: "two"},
		{Front: "tres", Back: "three"},
	})
	s.Require().NoError(err)
	s.Require().Len(imported, 3)

	cards, err := s.svc.ListByDeck(ctx, "u1", "d1")
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	s.Assert().Equal("uno", cards[0].Front)
	s.Assert().Equal("dos", cards[1].Front)
	s.Assert().Equal("tres", cards[2].Front)
}

func (s *FlashcardServiceSuite) TestImportAllOrNothing() {
	ctx := context.Background()

	_, err := s.svc.ImportFlashcards(ctx, "u1", "d1", []models.CardContent{
		{Front: "uno", Back: "one"},
		{Front: " ", Back: "two"},
	})
	s.Require().Error(err)

	cards, err := s.svc.ListByDeck(ctx, "u1", "d1")
	s.Require().NoError(err)
	s.Assert().Empty(cards, "a rejected import leaves nothing behind")

	_, err = s.svc.ImportFlashcards(ctx, "u1", "d2", []models.CardContent{{Front: "a", Back: "b"}})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *FlashcardServiceSuite) TestGetIsOwnerScoped() {
	ctx := context.Background()

	testutil.SeedFlashcard(s.T(), s.db, "c1", "d1", "u1", "Hola", "Hello", false)

	card, err := s.svc.GetFlashcard(ctx, "u1", "c1")
	s.Require().NoError(err)
	s.Require().NotNil(card)

	card, err = s.svc.GetFlashcard(ctx, "u2", "c1")
	s.Require().NoError(err)
	s.Assert().Nil(card)
}

func (s *FlashcardServiceSuite) TestListByDeckFollowsDeckVisibility() {
	ctx := context.Background()

	testutil.SeedDeck(s.T(), s.db, "pub", "u2", "Shared", "")
	_, err := s.db.ExecContext(ctx, `UPDATE decks SET is_public = 1 WHERE id = 'pub'`)
	s.Require().NoError(err)
	testutil.SeedFlashcard(s.T(), s.db, "c1", "pub", "u2", "Salut", "Hi", false)

	cards, err := s.svc.ListByDeck(ctx, "u1", "pub")
	s.Require().NoError(err)
	s.Require().Len(cards, 1, "public decks expose their cards read-only")

	_, err = s.svc.ListByDeck(ctx, "u1", "d2")
	s.Assert().True(errors.IsNotFound(err), "private foreign decks stay hidden")
}

func (s *FlashcardServiceSuite) TestUpdateAndDetach() {
	ctx := context.Background()

	testutil.SeedFlashcard(s.T(), s.db, "c1", "d1", "u1", "Hola", "Hello", false)

	starred := true
	card, err := s.svc.UpdateFlashcard(ctx, "u1", "c1", models.FlashcardUpdate{IsStarred: &starred})
	s.Require().NoError(err)
	s.Assert().True(card.IsStarred)

	detach := ""
	card, err = s.svc.UpdateFlashcard(ctx, "u1", "c1", models.FlashcardUpdate{DeckID: &detach})
	s.Require().NoError(err)
	s.Assert().Nil(card.DeckID, "an empty deck id detaches the card")

	foreign := "d2"
	_, err = s.svc.UpdateFlashcard(ctx, "u1", "c1", models.FlashcardUpdate{DeckID: &foreign})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.svc.UpdateFlashcard(ctx, "u2", "c1", models.FlashcardUpdate{IsStarred: &starred})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *FlashcardServiceSuite) TestDelete() {
	ctx := context.Background()

	testutil.SeedFlashcard(s.T(), s.db, "c1", "d1", "u1", "Hola", "Hello", false)

	err := s.svc.DeleteFlashcard(ctx, "u2", "c1")
	s.Assert().True(errors.IsNotFound(err))

	s.Require().NoError(s.svc.DeleteFlashcard(ctx, "u1", "c1"))

	card, err := s.svc.GetFlashcard(ctx, "u1", "c1")
	s.Require().NoError(err)
	s.Assert().Nil(card)
}

func TestFlashcardServiceSuite(t *testing.T) {
	suite.Run(t, new(FlashcardServiceSuite))
}
