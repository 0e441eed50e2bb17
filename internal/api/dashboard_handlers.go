package api

import (
	"net/http"

	"flashdeck/internal/auth"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.Dashboard.GetDashboard(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}
