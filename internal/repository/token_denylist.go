package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist remembers revoked access tokens by their id (jti) until they would have
// expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisTokenDenylist struct {
	client *redis.Client
}

// NewRedisTokenDenylist stores each revoked id as a key that expires with the token.
func NewRedisTokenDenylist(client *redis.Client) TokenDenylist {
	return &redisTokenDenylist{client: client}
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func (d *redisTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err()
}

func (d *redisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
