package services

import (
	"context"
	"math"
	"sort"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"flashdeck/internal/errors"
	"flashdeck/internal/logger"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
	"flashdeck/internal/study"
)

// Stats periods accepted by GetStudyStats.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// StartSessionInput carries the caller-supplied fields for a new session.
type StartSessionInput struct {
	DeckID     string               `json:"deck_id"`
	TotalCards int                  `json:"total_cards"`
	StudyMode  string               `json:"study_mode"`
	Settings   models.StudySettings `json:"settings"`
}

// RecordAnswerInput carries one answer event.
type RecordAnswerInput struct {
	SessionID      string `json:"session_id"`
	FlashcardID    string `json:"flashcard_id"`
	Answer         string `json:"answer"`
	ResponseTimeMS int    `json:"response_time_ms"`
	AttemptNumber  int    `json:"attempt_number"`
}

// CompleteSessionInput carries the final tallies for a finished session.
type CompleteSessionInput struct {
	CardsStudied     int  `json:"cards_studied"`
	CorrectAnswers   int  `json:"correct_answers"`
	IncorrectAnswers int  `json:"incorrect_answers"`
	DurationSeconds  *int `json:"duration_seconds"`
}

// DateRange bounds analytics on started_at, inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StudyService handles study-session tracking and analytics
type StudyService interface {
	StartSession(ctx context.Context, userID string, input StartSessionInput) (*models.StudySession, error)
	GetSession(ctx context.Context, userID, sessionID string) (*models.StudySessionWithAnswers, error)
	ListSessions(ctx context.Context, userID, deckID string, limit, offset int) ([]models.StudySession, error)
	UpdateSession(ctx context.Context, userID, sessionID string, patch models.SessionPatch) (*models.StudySession, error)
	CompleteSession(ctx context.Context, userID, sessionID string, input CompleteSessionInput) (*models.StudySession, error)
	RecordAnswer(ctx context.Context, userID string, input RecordAnswerInput) (*models.StudyAnswer, error)
	StudyStreak(ctx context.Context, userID string) (int, error)
	GetAnalytics(ctx context.Context, userID string, dateRange *DateRange) (*models.StudyAnalytics, error)
	GetStats(ctx context.Context, userID, period string) (*models.StudyStats, error)
}

type studyService struct {
	sessions repository.StudyRepository
	now      func() time.Time
}

// NewStudyService creates a new StudyService
func NewStudyService(sessions repository.StudyRepository) StudyService {
	return &studyService{sessions: sessions, now: time.Now}
}

func (s *studyService) StartSession(ctx context.Context, userID string, input StartSessionInput) (*models.StudySession, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	if input.DeckID == "" {
		return nil, errors.NewValidationError("deck_id", "is required")
	}
	if input.TotalCards < 0 {
		return nil, errors.NewValidationError("total_cards", "must not be negative")
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	mode := input.StudyMode
	if mode == "" {
		mode = models.DefaultStudyMode
	}

	now := s.now().UTC()
	session := models.StudySession{
		ID:         id,
		UserID:     userID,
		DeckID:     input.DeckID,
		StartedAt:  now,
		TotalCards: input.TotalCards,
		StudyMode:  mode,
		Settings:   input.Settings,
		UpdatedAt:  now,
	}

	log.Info("starting study session: id=%s, deck_id=%s", session.ID, session.DeckID)
	if err := s.sessions.InsertSession(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *studyService) GetSession(ctx context.Context, userID, sessionID string) (*models.StudySessionWithAnswers, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	return s.sessions.GetSessionWithAnswers(ctx, sessionID, userID)
}

func (s *studyService) ListSessions(ctx context.Context, userID, deckID string, limit, offset int) ([]models.StudySession, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	sessions, err := s.sessions.ListSessions(ctx, models.SessionFilter{
		UserID: userID,
		DeckID: deckID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []models.StudySession{}
	}
	return sessions, nil
}

func (s *studyService) UpdateSession(ctx context.Context, userID, sessionID string, patch models.SessionPatch) (*models.StudySession, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}

	// When both counters arrive together, accuracy is recomputed here
	// and overrides whatever the caller sent.
	if patch.CorrectAnswers != nil && patch.IncorrectAnswers != nil {
		accuracy := study.Accuracy(*patch.CorrectAnswers, *patch.IncorrectAnswers)
		patch.Accuracy = &accuracy
	}

	session, err := s.sessions.UpdateSession(ctx, sessionID, userID, patch)
	if err != nil {
		return nil, err
	}
	if session == nil {
		log.Debug("session not found for update: id=%s", sessionID)
		return nil, errors.NewNotFoundError("study session", sessionID)
	}
	return session, nil
}

func (s *studyService) CompleteSession(ctx context.Context, userID, sessionID string, input CompleteSessionInput) (*models.StudySession, error) {
	completedAt := s.now().UTC()
	patch := models.SessionPatch{
		CardsStudied:     &input.CardsStudied,
		CorrectAnswers:   &input.CorrectAnswers,
		IncorrectAnswers: &input.IncorrectAnswers,
		DurationSeconds:  input.DurationSeconds,
		CompletedAt:      &completedAt,
	}
	return s.UpdateSession(ctx, userID, sessionID, patch)
}

func (s *studyService) RecordAnswer(ctx context.Context, userID string, input RecordAnswerInput) (*models.StudyAnswer, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	switch input.Answer {
	case models.AnswerCorrect, models.AnswerIncorrect, models.AnswerSkipped:
	default:
		return nil, errors.NewValidationError("answer", "must be correct, incorrect or skipped")
	}

	session, err := s.sessions.GetSession(ctx, input.SessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.NewNotFoundError("study session", input.SessionID)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	// Append-only: repeat answers for the same card create new rows and
	// never touch the session's running counters.
	answer := models.StudyAnswer{
		ID:             id,
		SessionID:      input.SessionID,
		FlashcardID:    input.FlashcardID,
		Answer:         input.Answer,
		ResponseTimeMS: input.ResponseTimeMS,
		AttemptNumber:  input.AttemptNumber,
		AnsweredAt:     s.now().UTC(),
	}

	log.Debug("recording answer: session_id=%s, flashcard_id=%s, answer=%s",
		answer.SessionID, answer.FlashcardID, answer.Answer)
	if err := s.sessions.InsertAnswer(ctx, answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

func (s *studyService) StudyStreak(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, errors.NewUnauthorizedError()
	}
	starts, err := s.sessions.StartTimes(ctx, userID)
	if err != nil {
		return 0, err
	}
	return study.Streak(starts, s.now()), nil
}

func (s *studyService) GetAnalytics(ctx context.Context, userID string, dateRange *DateRange) (*models.StudyAnalytics, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}

	filter := models.SessionFilter{UserID: userID, CompletedOnly: true}
	if dateRange != nil {
		filter.From = &dateRange.Start
		filter.To = &dateRange.End
	}
	sessions, err := s.sessions.ListSessions(ctx, filter)
	if err != nil {
		return nil, err
	}

	streak, err := s.StudyStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	analytics := &models.StudyAnalytics{
		TotalSessions:     len(sessions),
		StudyStreak:       streak,
		FavoriteDecks:     []models.DeckUsage{},
		RecentSessions:    []models.StudySession{},
		PerformanceByDeck: []models.DeckPerformance{},
	}

	var accuracySum int
	usage := map[string]*models.DeckUsage{}
	perf := map[string]*models.DeckPerformance{}
	var deckOrder []string
	for _, session := range sessions {
		analytics.TotalStudyTime += session.DurationSeconds
		analytics.CardsStudied += session.CardsStudied
		accuracySum += session.Accuracy

		title := session.DeckTitle
		if title == "" {
			title = "Unknown Deck"
		}
		if _, seen := usage[session.DeckID]; !seen {
			usage[session.DeckID] = &models.DeckUsage{DeckID: session.DeckID, DeckTitle: title}
			perf[session.DeckID] = &models.DeckPerformance{DeckID: session.DeckID, DeckTitle: title}
			deckOrder = append(deckOrder, session.DeckID)
		}
		usage[session.DeckID].SessionCount++
		perf[session.DeckID].Accuracy += session.Accuracy
		perf[session.DeckID].Sessions++
		perf[session.DeckID].TotalCards += session.CardsStudied
	}

	if len(sessions) > 0 {
		analytics.AverageAccuracy = int(math.Round(float64(accuracySum) / float64(len(sessions))))
	}

	for _, deckID := range deckOrder {
		analytics.FavoriteDecks = append(analytics.FavoriteDecks, *usage[deckID])

		p := *perf[deckID]
		if p.Sessions > 0 {
			p.Accuracy = int(math.Round(float64(p.Accuracy) / float64(p.Sessions)))
		}
		analytics.PerformanceByDeck = append(analytics.PerformanceByDeck, p)
	}
	sort.SliceStable(analytics.FavoriteDecks, func(i, j int) bool {
		return analytics.FavoriteDecks[i].SessionCount > analytics.FavoriteDecks[j].SessionCount
	})
	if len(analytics.FavoriteDecks) > 5 {
		analytics.FavoriteDecks = analytics.FavoriteDecks[:5]
	}
	sort.SliceStable(analytics.PerformanceByDeck, func(i, j int) bool {
		return analytics.PerformanceByDeck[i].Sessions > analytics.PerformanceByDeck[j].Sessions
	})

	if len(sessions) > 10 {
		analytics.RecentSessions = sessions[:10]
	} else {
		analytics.RecentSessions = sessions
	}

	log.Debug("analytics computed: user_id=%s, sessions=%d, streak=%d",
		userID, analytics.TotalSessions, analytics.StudyStreak)
	return analytics, nil
}

func (s *studyService) GetStats(ctx context.Context, userID, period string) (*models.StudyStats, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}

	now := s.now()
	var start time.Time
	switch period {
	case PeriodMonth:
		start = now.AddDate(0, -1, 0)
	case PeriodYear:
		start = now.AddDate(-1, 0, 0)
	case PeriodWeek, "":
		start = now.AddDate(0, 0, -7)
	default:
		return nil, errors.NewValidationError("period", "must be week, month or year")
	}

	current, err := s.sessions.ListSessions(ctx, models.SessionFilter{
		UserID:        userID,
		CompletedOnly: true,
		From:          &start,
	})
	if err != nil {
		return nil, err
	}

	stats := &models.StudyStats{Sessions: len(current)}
	var accuracySum int
	for _, session := range current {
		stats.StudyTime += session.DurationSeconds
		stats.CardsStudied += session.CardsStudied
		accuracySum += session.Accuracy
	}
	var accuracy float64
	if len(current) > 0 {
		accuracy = float64(accuracySum) / float64(len(current))
	}
	stats.Accuracy = int(math.Round(accuracy))

	// The previous window has the same length, ending where this one
	// starts.
	previousStart := start.Add(-now.Sub(start))
	previous, err := s.sessions.ListSessions(ctx, models.SessionFilter{
		UserID:        userID,
		CompletedOnly: true,
		From:          &previousStart,
		Before:        &start,
	})
	if err != nil {
		return nil, err
	}

	var previousAccuracy float64
	if len(previous) > 0 {
		var sum int
		for _, session := range previous {
			sum += session.Accuracy
		}
		previousAccuracy = float64(sum) / float64(len(previous))
	}
	if previousAccuracy > 0 {
		stats.Improvement = int(math.Round(accuracy - previousAccuracy))
	}

	return stats, nil
}
