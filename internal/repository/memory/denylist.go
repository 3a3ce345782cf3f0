package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

// TokenDenylist keeps revoked token ids in process memory until their expiry.
type TokenDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewTokenDenylist creates an empty denylist.
func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *TokenDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for id, until := range d.entries {
		if !now.Before(until) {
			delete(d.entries, id)
		}
	}
	d.entries[strings.Clone(tokenID)] = now.Add(ttl)
	return nil
}

func (d *TokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.entries[tokenID]
	return ok && d.now().Before(until), nil
}
