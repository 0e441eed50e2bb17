package api

import (
	"net/http"

	"flashdeck/internal/auth"
	"flashdeck/internal/logger"
	"flashdeck/internal/services"
)

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var input services.SignUpInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	user, token, err := s.Auth.SignUp(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.setSessionCookie(w, token)
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	user, token, err := s.Auth.SignIn(r.Context(), input.Email, input.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.setSessionCookie(w, token)
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		if err := s.Auth.SignOut(r.Context(), cookie.Value); err != nil {
			log.Error("failed to delete session: %v", err)
		}
	}
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.Auth.GetUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch services.ProfileUpdate
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Auth.UpdateProfile(r.Context(), auth.UserID(r.Context()), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
