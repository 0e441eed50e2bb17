package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"flashdeck/internal/errors"
	"flashdeck/internal/logger"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
)

// DashboardService aggregates the landing-page payload
type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*models.DashboardData, error)
}

type dashboardService struct {
	decks repository.DeckRepository
	cards repository.FlashcardRepository
	study StudyService
	repo  repository.StudyRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(decks repository.DeckRepository, cards repository.FlashcardRepository, studySvc StudyService, studyRepo repository.StudyRepository) DashboardService {
	return &dashboardService{decks: decks, cards: cards, study: studySvc, repo: studyRepo}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*models.DashboardData, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}

	var (
		decks      []models.Deck
		unattached []models.Flashcard
		cardCount  int
		streak     int
		studyTime  int
	)

	// Independent reads, joined before assembling the payload.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		decks, err = s.decks.List(gctx, models.DeckFilter{UserID: userID})
		return err
	})
	g.Go(func() error {
		var err error
		unattached, err = s.cards.ListUnattached(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cardCount, err = s.cards.Count(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		streak, err = s.study.StudyStreak(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		studyTime, err = s.repo.SumDurations(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("failed to assemble dashboard: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if decks == nil {
		decks = []models.Deck{}
	}
	if unattached == nil {
		unattached = []models.Flashcard{}
	}

	return &models.DashboardData{
		Decks:                decks,
		UnattachedFlashcards: unattached,
		Stats: models.DashboardStats{
			TotalDecks:      len(decks),
			TotalFlashcards: cardCount,
			StudyStreak:     streak,
			TotalStudyTime:  studyTime / 60,
		},
	}, nil
}
