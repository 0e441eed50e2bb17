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

// DeckService handles deck business logic
type DeckService interface {
	CreateDeck(ctx context.Context, userID string, data models.CreateDeckData) (*models.Deck, error)
	// GetDeck returns a deck the caller may see: their own, or a public
	// one. An anonymous caller only sees public decks. nil means not
	// found or not visible.
	GetDeck(ctx context.Context, userID, deckID string) (*models.Deck, error)
	ListDecks(ctx context.Context, userID string) ([]models.Deck, error)
	UpdateDeck(ctx context.Context, userID, deckID string, patch models.DeckUpdate) (*models.Deck, error)
	DeleteDeck(ctx context.Context, userID, deckID string) error
}

type deckService struct {
	decks repository.DeckRepository
	now   func() time.Time
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository) DeckService {
	return &deckService{decks: decks, now: time.Now}
}

func (s *deckService) CreateDeck(ctx context.Context, userID string, data models.CreateDeckData) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	title := strings.TrimSpace(data.Title)
	if title == "" {
		return nil, errors.NewValidationError("title", "is required")
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	now := s.now().UTC()
	deck := models.Deck{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(data.Description),
		UserID:      userID,
		IsPublic:    data.IsPublic,
		Color:       data.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	log.Info("creating deck: id=%s, user_id=%s", deck.ID, userID)
	if err := s.decks.Insert(ctx, deck); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &deck, nil
}

func (s *deckService) GetDeck(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	deck, err := s.decks.GetVisible(ctx, deckID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, userID string) ([]models.Deck, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	decks, err := s.decks.List(ctx, models.DeckFilter{UserID: userID})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if decks == nil {
		decks = []models.Deck{}
	}
	return decks, nil
}

func (s *deckService) UpdateDeck(ctx context.Context, userID, deckID string, patch models.DeckUpdate) (*models.Deck, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, errors.NewValidationError("title", "must not be empty")
	}

	deck, err := s.decks.Update(ctx, deckID, userID, patch)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, userID, deckID string) error {
	log := logger.FromContext(ctx)

	if userID == "" {
		return errors.NewUnauthorizedError()
	}
	deck, err := s.decks.GetVisible(ctx, deckID, userID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return errors.NewNotFoundError("deck", deckID)
	}

	log.Info("deleting deck: id=%s, user_id=%s", deckID, userID)
	if err := s.decks.Delete(ctx, deckID, userID); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
