package services

import (
	"context"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"flashdeck/internal/errors"
	"flashdeck/internal/logger"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
)

// CreateFlashcardInput carries the caller-supplied fields for a new card.
type CreateFlashcardInput struct {
	Front      string  `json:"front"`
	Back       string  `json:"back"`
	DeckID     *string `json:"deck_id"`
	IsStarred  bool    `json:"is_starred"`
	Difficulty string  `json:"difficulty"`
}

// FlashcardService handles flashcard business logic
type FlashcardService interface {
	CreateFlashcard(ctx context.Context, userID string, input CreateFlashcardInput) (*models.Flashcard, error)
	// ImportFlashcards bulk-creates cards into one deck in a single
	// transaction; all-or-nothing.
	ImportFlashcards(ctx context.Context, userID, deckID string, cards []models.CardContent) ([]models.Flashcard, error)
	GetFlashcard(ctx context.Context, userID, cardID string) (*models.Flashcard, error)
	ListByDeck(ctx context.Context, userID, deckID string) ([]models.Flashcard, error)
	ListUnattached(ctx context.Context, userID string) ([]models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, userID, cardID string, patch models.FlashcardUpdate) (*models.Flashcard, error)
	DeleteFlashcard(ctx context.Context, userID, cardID string) error
}

type flashcardService struct {
	cards repository.FlashcardRepository
	decks repository.DeckRepository
	now   func() time.Time
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(cards repository.FlashcardRepository, decks repository.DeckRepository) FlashcardService {
	return &flashcardService{cards: cards, decks: decks, now: time.Now}
}

func (s *flashcardService) CreateFlashcard(ctx context.Context, userID string, input CreateFlashcardInput) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	front := strings.TrimSpace(input.Front)
	back := strings.TrimSpace(input.Back)
	if front == "" {
		return nil, errors.NewValidationError("front", "is required")
	}
	if back == "" {
		return nil, errors.NewValidationError("back", "is required")
	}
	if input.DeckID != nil && *input.DeckID != "" {
		if err := s.requireOwnDeck(ctx, userID, *input.DeckID); err != nil {
			return nil, err
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	now := s.now().UTC()
	card := models.Flashcard{
		ID:         id,
		Front:      front,
		Back:       back,
		UserID:     userID,
		IsStarred:  input.IsStarred,
		Difficulty: input.Difficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.DeckID != nil && *input.DeckID != "" {
		card.DeckID = input.DeckID
	}

	log.Info("creating flashcard: id=%s, user_id=%s", card.ID, userID)
	if err := s.cards.Insert(ctx, card); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &card, nil
}

func (s *flashcardService) ImportFlashcards(ctx context.Context, userID, deckID string, cards []models.CardContent) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	if len(cards) == 0 {
		return nil, errors.NewValidationError("cards", "must not be empty")
	}
	if err := s.requireOwnDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	batch := make([]models.Flashcard, 0, len(cards))
	for i, content := range cards {
		front := strings.TrimSpace(content.Front)
		back := strings.TrimSpace(content.Back)
		if front == "" || back == "" {
			return nil, errors.NewValidationError("cards", "every card needs a front and a back")
		}

		id, err := gonanoid.New()
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		did := deckID
		batch = append(batch, models.Flashcard{
			ID:        id,
			Front:     front,
			Back:      back,
			DeckID:    &did,
			UserID:    userID,
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
			UpdatedAt: now,
		})
	}

	log.Info("importing %d flashcards into deck %s", len(batch), deckID)
	if err := s.cards.InsertBatch(ctx, batch); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return batch, nil
}

func (s *flashcardService) requireOwnDeck(ctx context.Context, userID, deckID string) error {
	deck, err := s.decks.GetVisible(ctx, deckID, userID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return errors.NewNotFoundError("deck", deckID)
	}
	return nil
}

func (s *flashcardService) GetFlashcard(ctx context.Context, userID, cardID string) (*models.Flashcard, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil || card.UserID != userID {
		return nil, nil
	}
	return card, nil
}

func (s *flashcardService) ListByDeck(ctx context.Context, userID, deckID string) ([]models.Flashcard, error) {
	deck, err := s.decks.GetVisible(ctx, deckID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return cards, nil
}

func (s *flashcardService) ListUnattached(ctx context.Context, userID string) ([]models.Flashcard, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	cards, err := s.cards.ListUnattached(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return cards, nil
}

func (s *flashcardService) UpdateFlashcard(ctx context.Context, userID, cardID string, patch models.FlashcardUpdate) (*models.Flashcard, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	if patch.DeckID != nil && *patch.DeckID != "" {
		if err := s.requireOwnDeck(ctx, userID, *patch.DeckID); err != nil {
			return nil, err
		}
	}

	card, err := s.cards.Update(ctx, cardID, userID, patch)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", cardID)
	}
	return card, nil
}

func (s *flashcardService) DeleteFlashcard(ctx context.Context, userID, cardID string) error {
	log := logger.FromContext(ctx)

	if userID == "" {
		return errors.NewUnauthorizedError()
	}
	card, err := s.GetFlashcard(ctx, userID, cardID)
	if err != nil {
		return err
	}
	if card == nil {
		return errors.NewNotFoundError("flashcard", cardID)
	}

	log.Info("deleting flashcard: id=%s, user_id=%s", cardID, userID)
	if err := s.cards.Delete(ctx, cardID, userID); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
