// Package memory holds in-process implementations of the repository interfaces.
// They back the service when no database is configured and are used throughout the tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/voting-service/internal/domain"
)

// CandidateStore is an in-memory candidate directory that preserves insertion order.
type CandidateStore struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.Candidate
}

// NewCandidateStore seeds the directory with the given candidates.
func NewCandidateStore(seed ...domain.Candidate) *CandidateStore {
	s := &CandidateStore{items: make(map[string]domain.Candidate, len(seed))}
	for _, c := range seed {
		s.put(c)
	}
	return s
}

func (s *CandidateStore) put(c domain.Candidate) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := s.items[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.items[c.ID] = c
}

func (s *CandidateStore) Create(_ context.Context, candidate *domain.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	candidate.ID = uuid.NewString()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	s.put(*candidate)
	return nil
}

func (s *CandidateStore) Update(_ context.Context, candidate *domain.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[candidate.ID]
	if !ok {
		return domain.ErrCandidateNotFound
	}
	candidate.CreatedAt = existing.CreatedAt
	candidate.UpdatedAt = time.Now().UTC()
	s.items[candidate.ID] = *candidate
	return nil
}

func (s *CandidateStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.ErrCandidateNotFound
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *CandidateStore) GetByID(_ context.Context, id string) (*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[strings.TrimSpace(id)]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	return &c, nil
}

func (s *CandidateStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok, nil
}

func (s *CandidateStore) List(_ context.Context) ([]domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Candidate, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.items[id])
	}
	return result, nil
}
