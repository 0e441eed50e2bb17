package api

import (
	"time"

	"flashdeck/internal/services"
)

// Server bundles the services behind the HTTP surface.
type Server struct {
	Auth      services.AuthService
	Decks     services.DeckService
	Cards     services.FlashcardService
	Search    services.SearchService
	Study     services.StudyService
	Dashboard services.DashboardService

	CORSOrigins  []string
	SessionTTL   time.Duration
	SecureCookie bool

	health *healthChecker
}
