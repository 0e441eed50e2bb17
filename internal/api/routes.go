package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler)
	r.Use(s.sessionMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignUp)
		r.Post("/auth/signin", s.handleSignIn)
		r.Post("/auth/signout", s.handleSignOut)
		r.Get("/auth/me", requireAuth(s.handleMe))
		r.Patch("/auth/me", requireAuth(s.handleUpdateProfile))

		r.Get("/dashboard", requireAuth(s.handleDashboard))

		r.Get("/decks", requireAuth(s.handleListDecks))
		r.Post("/decks", requireAuth(s.handleCreateDeck))
		r.Get("/decks/{id}", s.handleGetDeck)
		r.Patch("/decks/{id}", requireAuth(s.handleUpdateDeck))
		r.Delete("/decks/{id}", requireAuth(s.handleDeleteDeck))
		r.Get("/decks/{id}/flashcards", s.handleListDeckFlashcards)
		r.Post("/decks/{id}/flashcards/import", requireAuth(s.handleImportFlashcards))

		r.Post("/flashcards", requireAuth(s.handleCreateFlashcard))
		r.Get("/flashcards/unattached", requireAuth(s.handleListUnattachedFlashcards))
		r.Get("/flashcards/{id}", requireAuth(s.handleGetFlashcard))
		r.Patch("/flashcards/{id}", requireAuth(s.handleUpdateFlashcard))
		r.Delete("/flashcards/{id}", requireAuth(s.handleDeleteFlashcard))

		r.Get("/search", requireAuth(s.handleSearch))
		r.Get("/search/suggestions", requireAuth(s.handleSearchSuggestions))
		r.Get("/search/recent", requireAuth(s.handleRecentSearches))
		r.Post("/search/recent", requireAuth(s.handleSaveRecentSearch))
		r.Delete("/search/recent", requireAuth(s.handleClearRecentSearches))

		r.Post("/study/sessions", requireAuth(s.handleStartSession))
		r.Get("/study/sessions", requireAuth(s.handleListSessions))
		r.Get("/study/sessions/{id}", requireAuth(s.handleGetSession))
		r.Patch("/study/sessions/{id}", requireAuth(s.handleUpdateSession))
		r.Post("/study/sessions/{id}/complete", requireAuth(s.handleCompleteSession))
		r.Post("/study/sessions/{id}/answers", requireAuth(s.handleRecordAnswer))
		r.Get("/study/analytics", requireAuth(s.handleStudyAnalytics))
		r.Get("/study/stats", requireAuth(s.handleStudyStats))
	})

	return r
}
