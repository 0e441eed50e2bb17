package api

import (
	"net/http"
	"strings"

	"flashdeck/internal/auth"
	"flashdeck/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := models.SearchOptions{
		Limit:     queryInt(r, "limit", 0),
		Offset:    queryInt(r, "offset", 0),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Filters: models.SearchFilters{
			Type:           q.Get("type"),
			IncludeStarred: q.Get("starred") == "true",
			DateFrom:       queryTime(r, "date_from"),
			DateTo:         queryTime(r, "date_to"),
		},
	}
	if ids := q.Get("deck_ids"); ids != "" {
		opts.Filters.DeckIDs = strings.Split(ids, ",")
	}

	page, err := s.Search.Search(r.Context(), auth.UserID(r.Context()), q.Get("q"), opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleSearchSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.Search.Suggestions(r.Context(), auth.UserID(r.Context()),
		r.URL.Query().Get("q"), queryInt(r, "limit", 0))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleRecentSearches(w http.ResponseWriter, r *http.Request) {
	recent, err := s.Search.RecentSearches(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"recent": recent})
}

func (s *Server) handleSaveRecentSearch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Search.SaveRecentSearch(r.Context(), auth.UserID(r.Context()), input.Query); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearRecentSearches(w http.ResponseWriter, r *http.Request) {
	if err := s.Search.ClearRecentSearches(r.Context(), auth.UserID(r.Context())); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
