package repository

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/voting-service/internal/domain"
)

// SelectionStore keeps the unsubmitted ballot selection of each voter between requests.
type SelectionStore interface {
	Members(ctx context.Context, voterID string) ([]string, error)
	// Add puts candidateID into the selection unless that would take it past limit, in which
	// case it returns domain.ErrSelectionCapExceeded. Re-adding a member always succeeds.
	// A limit of zero or less disables the check.
	Add(ctx context.Context, voterID, candidateID string, limit int) error
	Remove(ctx context.Context, voterID, candidateID string) error
	Clear(ctx context.Context, voterID string) error
}

type redisSelectionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSelectionStore stores each selection as a Redis set that expires after ttl of inactivity.
func NewRedisSelectionStore(client *redis.Client, ttl time.Duration) SelectionStore {
	return &redisSelectionStore{client: client, ttl: ttl}
}

func selectionKey(voterID string) string {
	return "ballot:selection:" + voterID
}

func (s *redisSelectionStore) Members(ctx context.Context, voterID string) ([]string, error) {
	members, err := s.client.SMembers(ctx, selectionKey(voterID)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	return members, nil
}

// addCapped runs the membership test, the size check and the insert as one server-side step.
// KEYS[1] selection set, ARGV[1] candidate, ARGV[2] limit, ARGV[3] ttl in seconds.
var addCapped = redis.NewScript(`
if redis.call('SISMEMBER', KEYS[1], ARGV[1]) == 0 then
  local limit = tonumber(ARGV[2])
  if limit > 0 and redis.call('SCARD', KEYS[1]) >= limit then
    return 0
  end
  redis.call('SADD', KEYS[1], ARGV[1])
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
  redis.call('EXPIRE', KEYS[1], ttl)
end
return 1
`)

func (s *redisSelectionStore) Add(ctx context.Context, voterID, candidateID string, limit int) error {
	ok, err := addCapped.Run(ctx, s.client, []string{selectionKey(voterID)},
		candidateID, limit, int64(s.ttl/time.Second)).Int()
	if err != nil {
		return err
	}
	if ok == 0 {
		return domain.ErrSelectionCapExceeded
	}
	return nil
}

func (s *redisSelectionStore) Remove(ctx context.Context, voterID, candidateID string) error {
	key := selectionKey(voterID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, key, candidateID)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	return err
}

func (s *redisSelectionStore) Clear(ctx context.Context, voterID string) error {
	return s.client.Del(ctx, selectionKey(voterID)).Err()
}
