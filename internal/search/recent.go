package search

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// maxRecentSearches caps the per-user recent-search history.
const maxRecentSearches = 10

// RecentStore keeps each user's recent search queries, newest first.
// Implementations must be safe for concurrent use.
type RecentStore interface {
	Recent(userID string) ([]string, error)
	Save(userID, query string) error
	Clear(userID string) error
}

// pushRecent prepends query to history, dropping any earlier occurrence
// and trimming to the cap.
func pushRecent(history []string, query string) []string {
	updated := make([]string, 0, len(history)+1)
	updated = append(updated, query)
	for _, q := range history {
		if q != query {
			updated = append(updated, q)
		}
	}
	if len(updated) > maxRecentSearches {
		updated = updated[:maxRecentSearches]
	}
	return updated
}

// MemoryRecentStore holds recent searches in process memory only.
type MemoryRecentStore struct {
	mu      sync.Mutex
	byUser  map[string][]string
}

func NewMemoryRecentStore() *MemoryRecentStore {
	return &MemoryRecentStore{byUser: make(map[string][]string)}
}

func (s *MemoryRecentStore) Recent(userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.byUser[userID]
	out := make([]string, len(history))
	copy(out, history)
	return out, nil
}

func (s *MemoryRecentStore) Save(userID, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[userID] = pushRecent(s.byUser[userID], query)
	return nil
}

func (s *MemoryRecentStore) Clear(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
	return nil
}

// FileRecentStore persists recent searches to a JSON file so histories
// survive restarts. Writes rewrite the whole file under one lock, which
// is fine at this scale.
type FileRecentStore struct {
	mu   sync.Mutex
	path string
}

func NewFileRecentStore(path string) *FileRecentStore {
	return &FileRecentStore{path: path}
}

func (s *FileRecentStore) load() (map[string][]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading recent searches: %w", err)
	}
	byUser := map[string][]string{}
	if err := json.Unmarshal(data, &byUser); err != nil {
		return nil, fmt.Errorf("parsing recent searches: %w", err)
	}
	return byUser, nil
}

func (s *FileRecentStore) store(byUser map[string][]string) error {
	data, err := json.Marshal(byUser)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing recent searches: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileRecentStore) Recent(userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byUser, err := s.load()
	if err != nil {
		return nil, err
	}
	return byUser[userID], nil
}

func (s *FileRecentStore) Save(userID, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byUser, err := s.load()
	if err != nil {
		return err
	}
	byUser[userID] = pushRecent(byUser[userID], query)
	return s.store(byUser)
}

func (s *FileRecentStore) Clear(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byUser, err := s.load()
	if err != nil {
		return err
	}
	delete(byUser, userID)
	return s.store(byUser)
}
