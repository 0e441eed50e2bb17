package models

import "time"

// Search result types.
const (
	SearchTypeDeck      = "deck"
	SearchTypeFlashcard = "flashcard"
	SearchTypeAll       = "all"
)

// Match locations.
const (
	MatchTitle       = "title"
	MatchDescription = "description"
	MatchFront       = "front"
	MatchBack        = "back"
)

// Sort modes and orders.
const (
	SortRelevance    = "relevance"
	SortDate         = "date"
	SortAlphabetical = "alphabetical"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SearchResult is derived at query time, never persisted.
type SearchResult struct {
	Type           string `json:"type"`
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	DeckID         string `json:"deck_id,omitempty"`
	DeckTitle      string `json:"deck_title,omitempty"`
	MatchType      string `json:"match_type"`
	RelevanceScore int    `json:"relevance_score"`
}

// SearchFilters narrow a search to a subset of the user's content.
type SearchFilters struct {
	Type           string     `json:"type,omitempty"` // deck|flashcard|all
	DeckIDs        []string   `json:"deck_ids,omitempty"`
	IncludeStarred bool       `json:"include_starred,omitempty"`
	DateFrom       *time.Time `json:"date_from,omitempty"`
	DateTo         *time.Time `json:"date_to,omitempty"`
}

// SearchOptions configure pagination and ordering.
type SearchOptions struct {
	Limit     int           `json:"limit"`
	Offset    int           `json:"offset"`
	Filters   SearchFilters `json:"filters"`
	SortBy    string        `json:"sort_by"`
	SortOrder string        `json:"sort_order"`
}

// SearchPage is one page of results plus pagination metadata.
type SearchPage struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
}
