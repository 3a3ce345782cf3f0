package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/config"
	"github.com/spec-kit/voting-service/internal/repository/memory"
)

func TestNewStoresFallsBackToMemory(t *testing.T) {
	stores := NewStores(&Postgres{}, &Redis{}, time.Minute)

	if _, ok := stores.Voters.(*memory.VoterStore); !ok {
		t.Fatalf("expected memory voters, got %T", stores.Voters)
	}
	if _, ok := stores.Selections.(*memory.SelectionStore); !ok {
		t.Fatalf("expected memory selections, got %T", stores.Selections)
	}
	if _, ok := stores.Denylist.(*memory.TokenDenylist); !ok {
		t.Fatalf("expected memory denylist, got %T", stores.Denylist)
	}
}

func TestNewStoresUsesRedisForSelections(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	rdb := NewRedis(ctx, config.RedisConfig{Addr: mr.Addr(), Enabled: true}, zap.NewNop())
	defer rdb.Close()
	if !rdb.Enabled() {
		t.Fatal("expected redis client")
	}

	stores := NewStores(&Postgres{}, rdb, time.Minute)
	if err := stores.Selections.Add(ctx, "v1", "c1", 8); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !mr.Exists("ballot:selection:v1") {
		t.Fatalf("expected selection key in redis, keys: %v", mr.Keys())
	}
	if err := stores.Denylist.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if !mr.Exists("auth:revoked:jti-1") {
		t.Fatalf("expected revoked key in redis, keys: %v", mr.Keys())
	}
}

func TestNewRedisDisabledOrUnreachable(t *testing.T) {
	ctx := context.Background()
	if NewRedis(ctx, config.RedisConfig{Enabled: false}, zap.NewNop()).Enabled() {
		t.Fatal("disabled redis should not hold a client")
	}
	if NewRedis(ctx, config.RedisConfig{Addr: "127.0.0.1:1", Enabled: true}, zap.NewNop()).Enabled() {
		t.Fatal("unreachable redis should not hold a client")
	}
}
