package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/voting-service/internal/domain"
)

// VoterStore is an in-memory voter record store.
type VoterStore struct {
	mu         sync.RWMutex
	order      []string
	items      map[string]*domain.Voter
	byUsername map[string]string
	writes     int
}

// NewVoterStore seeds the store with the given voters.
func NewVoterStore(seed ...domain.Voter) *VoterStore {
	s := &VoterStore{
		items:      make(map[string]*domain.Voter, len(seed)),
		byUsername: make(map[string]string, len(seed)),
	}
	for i := range seed {
		v := seed[i].Clone()
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		if v.Votes == nil {
			v.Votes = []string{}
		}
		s.order = append(s.order, v.ID)
		s.items[v.ID] = v
		s.byUsername[v.Username] = v.ID
	}
	return s
}

func (s *VoterStore) Create(_ context.Context, voter *domain.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[voter.Username]; taken {
		return domain.ErrUsernameTaken
	}
	voter.ID = uuid.NewString()
	voter.HasVoted = false
	voter.Votes = []string{}
	voter.VotedAt = nil
	voter.CreatedAt = time.Now().UTC()

	s.order = append(s.order, voter.ID)
	s.items[voter.ID] = voter.Clone()
	s.byUsername[voter.Username] = voter.ID
	return nil
}

func (s *VoterStore) GetByID(_ context.Context, id string) (*domain.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return v.Clone(), nil
}

func (s *VoterStore) GetByUsername(_ context.Context, username string) (*domain.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return s.items[id].Clone(), nil
}

func (s *VoterStore) List(_ context.Context) ([]domain.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Voter, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.items[id].Clone())
	}
	return result, nil
}

// MarkVoted performs the check-and-set under the write lock so readers observe either the
// record before submission or after it.
func (s *VoterStore) MarkVoted(_ context.Context, id string, selection []string) (*domain.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[id]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	if v.HasVoted {
		return nil, domain.ErrAlreadyVoted
	}

	now := time.Now().UTC()
	updated := v.Clone()
	updated.HasVoted = true
	updated.Votes = make([]string, len(selection))
	for i, id := range selection {
		updated.Votes[i] = strings.Clone(id)
	}
	updated.VotedAt = &now
	s.items[id] = updated
	s.writes++
	return updated.Clone(), nil
}

// Writes returns how many successful MarkVoted calls the store has applied.
func (s *VoterStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
