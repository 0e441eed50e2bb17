package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"flashdeck/internal/auth"
	"flashdeck/internal/errors"
	"flashdeck/internal/models"
	"flashdeck/internal/services"
)

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	var input services.CreateFlashcardInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.CreateFlashcard(r.Context(), auth.UserID(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleImportFlashcards(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Cards []models.CardContent `json:"cards"`
	}
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Cards.ImportFlashcards(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), input.Cards)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, cards)
}

func (s *Server) handleListDeckFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Cards.ListByDeck(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleListUnattachedFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Cards.ListUnattached(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleGetFlashcard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")

	card, err := s.Cards.GetFlashcard(r.Context(), auth.UserID(r.Context()), cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if card == nil {
		handleError(w, r, errors.NewNotFoundError("flashcard", cardID))
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleUpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	var patch models.FlashcardUpdate
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.UpdateFlashcard(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	if err := s.Cards.DeleteFlashcard(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
