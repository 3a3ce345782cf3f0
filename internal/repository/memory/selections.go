package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/voting-service/internal/domain"
)

// SelectionStore keeps ballot selections in process memory. Entries never expire.
type SelectionStore struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

// NewSelectionStore creates an empty store.
func NewSelectionStore() *SelectionStore {
	return &SelectionStore{sets: make(map[string]map[string]struct{})}
}

func (s *SelectionStore) Members(_ context.Context, voterID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.sets[voterID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *SelectionStore) Add(_ context.Context, voterID, candidateID string, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[voterID]
	if !ok {
		set = make(map[string]struct{})
		s.sets[strings.Clone(voterID)] = set
	}
	if _, selected := set[candidateID]; selected {
		return nil
	}
	if limit > 0 && len(set) >= limit {
		return domain.ErrSelectionCapExceeded
	}
	set[strings.Clone(candidateID)] = struct{}{}
	return nil
}

func (s *SelectionStore) Remove(_ context.Context, voterID, candidateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets[voterID], candidateID)
	return nil
}

func (s *SelectionStore) Clear(_ context.Context, voterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, voterID)
	return nil
}
