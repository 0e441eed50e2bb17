package api

import (
	"database/sql"
	"net/http"

	"flashdeck/internal/logger"
)

// DB is held for the readiness probe only; handlers go through services.
type healthChecker struct {
	db *sql.DB
}

// WithHealthDB wires the database into the readiness probe.
func (s *Server) WithHealthDB(db *sql.DB) *Server {
	s.health = &healthChecker{db: db}
	return s
}

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns a readiness probe - 200 when the database answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.health != nil && s.health.db != nil {
		if err := s.health.db.PingContext(r.Context()); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
