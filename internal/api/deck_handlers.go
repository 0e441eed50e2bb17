package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"flashdeck/internal/auth"
	"flashdeck/internal/errors"
	"flashdeck/internal/models"
)

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.Decks.ListDecks(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decks)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var data models.CreateDeckData
	if err := decodeJSON(r, &data); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.CreateDeck(r.Context(), auth.UserID(r.Context()), data)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, deck)
}

// handleGetDeck serves both owners and anonymous visitors; visibility is
// decided in the service.
func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "id")

	deck, err := s.Decks.GetDeck(r.Context(), auth.UserID(r.Context()), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if deck == nil {
		handleError(w, r, errors.NewNotFoundError("deck", deckID))
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	var patch models.DeckUpdate
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.UpdateDeck(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.Decks.DeleteDeck(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
