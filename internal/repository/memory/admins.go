package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/voting-service/internal/domain"
)

// AdminStore is an in-memory admin account store.
type AdminStore struct {
	mu         sync.RWMutex
	order      []string
	items      map[string]domain.Admin
	byUsername map[string]string
}

// NewAdminStore creates an empty store.
func NewAdminStore() *AdminStore {
	return &AdminStore{
		items:      make(map[string]domain.Admin),
		byUsername: make(map[string]string),
	}
}

func (s *AdminStore) Create(_ context.Context, admin *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[admin.Username]; taken {
		return domain.ErrUsernameTaken
	}
	admin.ID = uuid.NewString()
	admin.CreatedAt = time.Now().UTC()
	s.order = append(s.order, admin.ID)
	s.items[admin.ID] = *admin
	s.byUsername[admin.Username] = admin.ID
	return nil
}

func (s *AdminStore) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[id]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return &a, nil
}

func (s *AdminStore) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	a := s.items[id]
	return &a, nil
}

func (s *AdminStore) List(_ context.Context) ([]domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Admin, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.items[id])
	}
	return result, nil
}
