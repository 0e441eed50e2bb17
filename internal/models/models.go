package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthSession is a server-side login session resolved from a cookie token.
type AuthSession struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Deck struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id"`
	IsPublic    bool      `json:"is_public"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// FlashcardCount is a read-time aggregate, never stored.
	FlashcardCount int `json:"flashcard_count"`
}

type Flashcard struct {
	ID             string     `json:"id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	DeckID         *string    `json:"deck_id"` // nil = unattached
	UserID         string     `json:"user_id"`
	IsStarred      bool       `json:"is_starred"`
	Difficulty     string     `json:"difficulty,omitempty"` // easy|medium|hard
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// DeckFilter narrows deck fetches at the datastore layer.
type DeckFilter struct {
	UserID   string
	DeckIDs  []string
	DateFrom *time.Time
	DateTo   *time.Time
}

// FlashcardFilter narrows flashcard fetches at the datastore layer.
type FlashcardFilter struct {
	DeckIDs     []string
	DateFrom    *time.Time
	DateTo      *time.Time
	StarredOnly bool
}

// CreateDeckData carries the caller-supplied fields for a new deck.
type CreateDeckData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	Color       string `json:"color"`
}

// DeckUpdate carries a partial deck patch; nil fields are left untouched.
type DeckUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
	Color       *string `json:"color"`
}

// FlashcardUpdate carries a partial flashcard patch; nil fields are left untouched.
type FlashcardUpdate struct {
	Front     *string `json:"front"`
	Back      *string `json:"back"`
	IsStarred *bool   `json:"is_starred"`
	DeckID    *string `json:"deck_id"`
}

// CardContent is one front/back pair for bulk import.
type CardContent struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// DashboardData is the aggregate payload for the dashboard view.
type DashboardData struct {
	Decks                []Deck          `json:"decks"`
	UnattachedFlashcards []Flashcard     `json:"unattached_flashcards"`
	Stats                DashboardStats  `json:"stats"`
}

type DashboardStats struct {
	TotalDecks      int `json:"total_decks"`
	TotalFlashcards int `json:"total_flashcards"`
	StudyStreak     int `json:"study_streak"`
	TotalStudyTime  int `json:"total_study_time"` // minutes
}
