package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"flashdeck/internal/errors"
	"flashdeck/internal/logger"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
	"flashdeck/internal/search"
)

const (
	defaultSearchLimit     = 20
	defaultSuggestionLimit = 5
	minSuggestionQueryLen  = 2
)

// SearchService handles search across decks and flashcards
type SearchService interface {
	Search(ctx context.Context, userID, query string, opts models.SearchOptions) (*models.SearchPage, error)
	Suggestions(ctx context.Context, userID, query string, limit int) ([]string, error)
	RecentSearches(ctx context.Context, userID string) ([]string, error)
	SaveRecentSearch(ctx context.Context, userID, query string) error
	ClearRecentSearches(ctx context.Context, userID string) error
}

type searchService struct {
	decks  repository.DeckRepository
	cards  repository.FlashcardRepository
	recent search.RecentStore
}

// NewSearchService creates a new SearchService
func NewSearchService(decks repository.DeckRepository, cards repository.FlashcardRepository, recent search.RecentStore) SearchService {
	return &searchService{
		decks:  decks,
		cards:  cards,
		recent: recent,
	}
}

func (s *searchService) Search(ctx context.Context, userID, query string, opts models.SearchOptions) (*models.SearchPage, error) {
	log := logger.FromContext(ctx)

	// Whitespace-only queries short-circuit before any datastore work.
	if strings.TrimSpace(query) == "" {
		return &models.SearchPage{Results: []models.SearchResult{}, Total: 0, HasMore: false}, nil
	}
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = models.SortRelevance
	}
	sortOrder := opts.SortOrder
	if sortOrder == "" {
		sortOrder = models.OrderDesc
	}

	log.Debug("searching: user_id=%s, type=%s, sort=%s", userID, opts.Filters.Type, sortBy)

	var deckResults, cardResults []models.SearchResult
	g, gctx := errgroup.WithContext(ctx)

	if opts.Filters.Type != models.SearchTypeFlashcard {
		g.Go(func() error {
			var err error
			deckResults, err = s.searchDecks(gctx, userID, query, opts.Filters)
			return err
		})
	}
	if opts.Filters.Type != models.SearchTypeDeck {
		g.Go(func() error {
			var err error
			cardResults, err = s.searchFlashcards(gctx, userID, query, opts.Filters)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("search failed: %v", err)
		return nil, errors.NewOperationFailedError("search", err)
	}

	results := make([]models.SearchResult, 0, len(deckResults)+len(cardResults))
	results = append(results, deckResults...)
	results = append(results, cardResults...)

	s.sortResults(results, sortBy, sortOrder)

	total := len(results)
	hasMore := total > offset+limit
	page := paginate(results, offset, limit)

	log.Debug("search done: total=%d, page=%d", total, len(page))
	return &models.SearchPage{Results: page, Total: total, HasMore: hasMore}, nil
}

func (s *searchService) searchDecks(ctx context.Context, userID, query string, filters models.SearchFilters) ([]models.SearchResult, error) {
	decks, err := s.decks.List(ctx, models.DeckFilter{
		UserID:   userID,
		DeckIDs:  filters.DeckIDs,
		DateFrom: filters.DateFrom,
		DateTo:   filters.DateTo,
	})
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	for _, deck := range decks {
		m := search.Score(search.Candidate{
			Primary:   deck.Title,
			Secondary: deck.Description,
		}, query, search.DeckWeights)
		if m.Score == 0 {
			continue
		}

		matchType := models.MatchDescription
		if m.PrimaryMatched {
			matchType = models.MatchTitle
		}
		results = append(results, models.SearchResult{
			Type:           models.SearchTypeDeck,
			ID:             deck.ID,
			Title:          deck.Title,
			Description:    deck.Description,
			MatchType:      matchType,
			RelevanceScore: m.Score,
		})
	}
	return results, nil
}

func (s *searchService) searchFlashcards(ctx context.Context, userID, query string, filters models.SearchFilters) ([]models.SearchResult, error) {
	// Cards are searched within the user's decks, so resolve the deck
	// set first; it also supplies titles for the result payload.
	refs, err := s.decks.ListRefs(ctx, userID, filters.DeckIDs)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}

	deckIDs := make([]string, 0, len(refs))
	titleByID := make(map[string]string, len(refs))
	for _, ref := range refs {
		deckIDs = append(deckIDs, ref.ID)
		titleByID[ref.ID] = ref.Title
	}

	cards, err := s.cards.List(ctx, models.FlashcardFilter{
		DeckIDs:     deckIDs,
		DateFrom:    filters.DateFrom,
		DateTo:      filters.DateTo,
		StarredOnly: filters.IncludeStarred,
	})
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	for _, card := range cards {
		m := search.Score(search.Candidate{
			Primary:   card.Front,
			Secondary: card.Back,
			Starred:   card.IsStarred,
		}, query, search.CardWeights)
		if m.Score == 0 {
			continue
		}

		matchType := models.MatchBack
		if m.PrimaryMatched {
			matchType = models.MatchFront
		}
		var deckID, deckTitle string
		if card.DeckID != nil {
			deckID = *card.DeckID
			deckTitle = titleByID[deckID]
		}
		results = append(results, models.SearchResult{
			Type:           models.SearchTypeFlashcard,
			ID:             card.ID,
			Title:          card.Front,
			Description:    card.Back,
			DeckID:         deckID,
			DeckTitle:      deckTitle,
			MatchType:      matchType,
			RelevanceScore: m.Score,
		})
	}
	return results, nil
}

// sortResults orders results in place. The date mode deliberately mirrors
// relevance until per-result timestamps are carried through; see DESIGN.md.
func (s *searchService) sortResults(results []models.SearchResult, sortBy, sortOrder string) {
	// Collators carry mutable iterator state across CompareString calls,
	// so each sort builds its own instead of sharing one between requests.
	var coll *collate.Collator
	if sortBy == models.SortAlphabetical {
		coll = collate.New(language.Und)
	}

	sort.SliceStable(results, func(i, j int) bool {
		var cmp int
		switch sortBy {
		case models.SortAlphabetical:
			cmp = coll.CompareString(results[i].Title, results[j].Title)
		case models.SortRelevance, models.SortDate:
			cmp = results[j].RelevanceScore - results[i].RelevanceScore
		default:
			cmp = results[j].RelevanceScore - results[i].RelevanceScore
		}
		if sortOrder != models.OrderDesc {
			cmp = -cmp
		}
		return cmp < 0
	})
}

func paginate(results []models.SearchResult, offset, limit int) []models.SearchResult {
	if offset >= len(results) {
		return []models.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

func (s *searchService) Suggestions(ctx context.Context, userID, query string, limit int) ([]string, error) {
	log := logger.FromContext(ctx)

	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if len(strings.TrimSpace(query)) < minSuggestionQueryLen {
		return []string{}, nil
	}
	if userID == "" {
		return []string{}, nil
	}

	titles, err := s.decks.TitlesMatching(ctx, userID, query, limit)
	if err != nil {
		log.Error("failed to fetch title suggestions: %v", err)
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	var suggestions []string
	add := func(text string) {
		// The fetch layer already matched case-insensitively; the
		// re-check keeps the fetch mechanism swappable.
		if !strings.Contains(strings.ToLower(text), strings.ToLower(query)) {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		suggestions = append(suggestions, text)
	}
	for _, title := range titles {
		add(title)
	}

	refs, err := s.decks.ListRefs(ctx, userID, nil)
	if err != nil {
		log.Error("failed to resolve deck set for suggestions: %v", err)
		return capSuggestions(suggestions, limit), nil
	}
	deckIDs := make([]string, 0, len(refs))
	for _, ref := range refs {
		deckIDs = append(deckIDs, ref.ID)
	}

	fronts, err := s.cards.FrontsMatching(ctx, deckIDs, query, limit)
	if err != nil {
		log.Error("failed to fetch front suggestions: %v", err)
		return capSuggestions(suggestions, limit), nil
	}
	for _, front := range fronts {
		add(front)
	}

	return capSuggestions(suggestions, limit), nil
}

func capSuggestions(suggestions []string, limit int) []string {
	if suggestions == nil {
		return []string{}
	}
	if len(suggestions) > limit {
		return suggestions[:limit]
	}
	return suggestions
}

func (s *searchService) RecentSearches(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError()
	}
	recent, err := s.recent.Recent(userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load recent searches: %v", err)
		return []string{}, nil
	}
	if recent == nil {
		recent = []string{}
	}
	return recent, nil
}

func (s *searchService) SaveRecentSearch(ctx context.Context, userID, query string) error {
	if userID == "" {
		return errors.NewUnauthorizedError()
	}
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if err := s.recent.Save(userID, query); err != nil {
		logger.FromContext(ctx).Error("failed to save recent search: %v", err)
	}
	return nil
}

func (s *searchService) ClearRecentSearches(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.NewUnauthorizedError()
	}
	if err := s.recent.Clear(userID); err != nil {
		logger.FromContext(ctx).Error("failed to clear recent searches: %v", err)
	}
	return nil
}
