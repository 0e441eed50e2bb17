package repository

import (
	"context"
	"time"

	"flashdeck/internal/models"
)

// UserRepository handles user account data access
type UserRepository interface {
	Insert(ctx context.Context, user models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user models.User) error
}

// AuthSessionRepository handles login session data access
type AuthSessionRepository interface {
	Insert(ctx context.Context, session models.AuthSession) error
	Get(ctx context.Context, token string) (*models.AuthSession, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) error
	Update(ctx context.Context, id, userID string, patch models.DeckUpdate) (*models.Deck, error)
	Delete(ctx context.Context, id, userID string) error
	// GetVisible returns the deck when it is owned by userID or public.
	// An empty userID restricts the lookup to public decks.
	GetVisible(ctx context.Context, id, userID string) (*models.Deck, error)
	List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	// ListRefs returns id and title only, for deck-set resolution.
	ListRefs(ctx context.Context, userID string, deckIDs []string) ([]models.Deck, error)
	Count(ctx context.Context, userID string) (int, error)
	TitlesMatching(ctx context.Context, userID, query string, limit int) ([]string, error)
}

// FlashcardRepository handles flashcard data access
type FlashcardRepository interface {
	Insert(ctx context.Context, card models.Flashcard) error
	InsertBatch(ctx context.Context, cards []models.Flashcard) error
	Update(ctx context.Context, id, userID string, patch models.FlashcardUpdate) (*models.Flashcard, error)
	Delete(ctx context.Context, id, userID string) error
	Get(ctx context.Context, id string) (*models.Flashcard, error)
	ListByDeck(ctx context.Context, deckID string) ([]models.Flashcard, error)
	ListUnattached(ctx context.Context, userID string) ([]models.Flashcard, error)
	List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	Count(ctx context.Context, userID string) (int, error)
	FrontsMatching(ctx context.Context, deckIDs []string, query string, limit int) ([]string, error)
}

// StudyRepository handles study session and answer data access
type StudyRepository interface {
	InsertSession(ctx context.Context, session models.StudySession) error
	GetSession(ctx context.Context, id, userID string) (*models.StudySession, error)
	GetSessionWithAnswers(ctx context.Context, id, userID string) (*models.StudySessionWithAnswers, error)
	UpdateSession(ctx context.Context, id, userID string, patch models.SessionPatch) (*models.StudySession, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	// StartTimes returns started_at of completed sessions, newest first.
	StartTimes(ctx context.Context, userID string) ([]time.Time, error)
	InsertAnswer(ctx context.Context, answer models.StudyAnswer) error
	AnswersForSession(ctx context.Context, sessionID string) ([]models.StudyAnswer, error)
	SumDurations(ctx context.Context, userID string) (int, error)
	// CloseStale stamps completed_at on incomplete sessions started before cutoff.
	CloseStale(ctx context.Context, cutoff time.Time) (int64, error)
}
