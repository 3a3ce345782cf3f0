package persistence

import (
	"time"

	"github.com/spec-kit/voting-service/internal/repository"
	"github.com/spec-kit/voting-service/internal/repository/memory"
)

// Stores groups the repositories the services run on.
type Stores struct {
	Candidates repository.CandidateRepository
	Voters     repository.VoterRepository
	Admins     repository.AdminRepository
	Selections repository.SelectionStore
	Denylist   repository.TokenDenylist
}

// NewStores picks Postgres repositories when a pool is open and Redis for ballot
// selections and revoked tokens when a client is connected. Anything unavailable runs in memory.
func NewStores(pg *Postgres, rdb *Redis, selectionTTL time.Duration) Stores {
	var stores Stores
	if pg.Enabled() {
		pool := pg.PoolHandle()
		stores.Candidates = repository.NewCandidateRepository(pool)
		stores.Voters = repository.NewVoterRepository(pool)
		stores.Admins = repository.NewAdminRepository(pool)
	} else {
		stores.Candidates = memory.NewCandidateStore()
		stores.Voters = memory.NewVoterStore()
		stores.Admins = memory.NewAdminStore()
	}

	if rdb.Enabled() {
		stores.Selections = repository.NewRedisSelectionStore(rdb.Client, selectionTTL)
		stores.Denylist = repository.NewRedisTokenDenylist(rdb.Client)
	} else {
		stores.Selections = memory.NewSelectionStore()
		stores.Denylist = memory.NewTokenDenylist()
	}
	return stores
}
