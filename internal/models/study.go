package models

import (
	"encoding/json"
	"time"
)

// Answer outcomes recorded per card during a session.
const (
	AnswerCorrect   = "correct"
	AnswerIncorrect = "incorrect"
	AnswerSkipped   = "skipped"
)

// DefaultStudyMode is used when a session is started without a mode.
const DefaultStudyMode = "flashcards"

// StudySettings is the closed configuration for a study session. Unknown
// keys survive round trips through Extra.
type StudySettings struct {
	ShowProgress     bool           `json:"showProgress,omitempty"`
	AutoFlip         bool           `json:"autoFlip,omitempty"`
	ShuffleCards     bool           `json:"shuffleCards,omitempty"`
	StudyStarredOnly bool           `json:"studyStarredOnly,omitempty"`
	StudyMode        string         `json:"studyMode,omitempty"`
	TimeLimit        int            `json:"timeLimit,omitempty"`
	Extra            map[string]any `json:"-"`
}

func (s StudySettings) MarshalJSON() ([]byte, error) {
	type plain StudySettings
	base, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return base, nil
	}
	merged := map[string]any{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, known := merged[k]; !known {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

func (s *StudySettings) UnmarshalJSON(data []byte) error {
	type plain StudySettings
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, known := range []string{"showProgress", "autoFlip", "shuffleCards", "studyStarredOnly", "studyMode", "timeLimit"} {
		delete(raw, known)
	}
	*s = StudySettings(p)
	if len(raw) > 0 {
		s.Extra = raw
	}
	return nil
}

type StudySession struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	DeckID           string        `json:"deck_id"`
	StartedAt        time.Time     `json:"started_at"`
	CompletedAt      *time.Time    `json:"completed_at"`
	TotalCards       int           `json:"total_cards"`
	CardsStudied     int           `json:"cards_studied"`
	CorrectAnswers   int           `json:"correct_answers"`
	IncorrectAnswers int           `json:"incorrect_answers"`
	Accuracy         int           `json:"accuracy"`
	DurationSeconds  int           `json:"duration_seconds"`
	StudyMode        string        `json:"study_mode"`
	Settings         StudySettings `json:"settings"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// DeckTitle is joined at read time for analytics views.
	DeckTitle string `json:"deck_title,omitempty"`
}

// StudyAnswer is one append-only answer event. A card may appear several
// times within a session; re-grading never rewrites earlier rows.
type StudyAnswer struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	FlashcardID    string    `json:"flashcard_id"`
	Answer         string    `json:"answer"`
	ResponseTimeMS int       `json:"response_time_ms,omitempty"`
	AttemptNumber  int       `json:"attempt_number,omitempty"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// StudySessionWithAnswers bundles a session with its answer log.
type StudySessionWithAnswers struct {
	StudySession
	Answers []StudyAnswer `json:"answers"`
}

// SessionPatch is a partial study-session update; nil fields are untouched.
type SessionPatch struct {
	CardsStudied     *int       `json:"cards_studied"`
	CorrectAnswers   *int       `json:"correct_answers"`
	IncorrectAnswers *int       `json:"incorrect_answers"`
	Accuracy         *int       `json:"accuracy"`
	DurationSeconds  *int       `json:"duration_seconds"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// SessionFilter narrows study-session fetches at the datastore layer.
type SessionFilter struct {
	UserID        string
	DeckID        string
	CompletedOnly bool
	From          *time.Time
	To            *time.Time // inclusive upper bound on started_at
	Before        *time.Time // exclusive upper bound on started_at
	Limit         int
	Offset        int
}

type DeckUsage struct {
	DeckID       string `json:"deck_id"`
	DeckTitle    string `json:"deck_title"`
	SessionCount int    `json:"session_count"`
}

type DeckPerformance struct {
	DeckID     string `json:"deck_id"`
	DeckTitle  string `json:"deck_title"`
	Accuracy   int    `json:"accuracy"`
	Sessions   int    `json:"sessions"`
	TotalCards int    `json:"total_cards"`
}

type StudyAnalytics struct {
	TotalSessions     int               `json:"total_sessions"`
	TotalStudyTime    int               `json:"total_study_time"` // seconds
	AverageAccuracy   int               `json:"average_accuracy"`
	CardsStudied      int               `json:"cards_studied"`
	FavoriteDecks     []DeckUsage       `json:"favorite_decks"`
	StudyStreak       int               `json:"study_streak"`
	RecentSessions    []StudySession    `json:"recent_sessions"`
	PerformanceByDeck []DeckPerformance `json:"performance_by_deck"`
}

type StudyStats struct {
	Sessions     int `json:"sessions"`
	StudyTime    int `json:"study_time"` // seconds
	Accuracy     int `json:"accuracy"`
	CardsStudied int `json:"cards_studied"`
	Improvement  int `json:"improvement"` // accuracy delta vs the previous period
}
