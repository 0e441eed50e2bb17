package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"flashdeck/internal/auth"
	"flashdeck/internal/errors"
	"flashdeck/internal/models"
	"flashdeck/internal/services"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var input services.StartSessionInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.Study.StartSession(r.Context(), auth.UserID(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	session, err := s.Study.GetSession(r.Context(), auth.UserID(r.Context()), sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if session == nil {
		handleError(w, r, errors.NewNotFoundError("study session", sessionID))
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.Study.ListSessions(r.Context(), auth.UserID(r.Context()),
		r.URL.Query().Get("deck_id"), queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var patch models.SessionPatch
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.Study.UpdateSession(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var input services.CompleteSessionInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.Study.CompleteSession(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	var input services.RecordAnswerInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}
	input.SessionID = chi.URLParam(r, "id")

	answer, err := s.Study.RecordAnswer(r.Context(), auth.UserID(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, answer)
}

func (s *Server) handleStudyAnalytics(w http.ResponseWriter, r *http.Request) {
	var dateRange *services.DateRange
	from := queryTime(r, "start")
	to := queryTime(r, "end")
	if from != nil && to != nil {
		dateRange = &services.DateRange{Start: *from, End: *to}
	}

	analytics, err := s.Study.GetAnalytics(r.Context(), auth.UserID(r.Context()), dateRange)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleStudyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Study.GetStats(r.Context(), auth.UserID(r.Context()), r.URL.Query().Get("period"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
