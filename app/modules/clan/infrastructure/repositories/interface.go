package clandb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for clan persistence.
type Repository interface {
	// AcquireLeaderboardLock takes a transaction-scoped lock on a leaderboard's
	// ownership. It must be called inside a transaction.
	AcquireLeaderboardLock(ctx context.Context, db bun.IDB, leaderboardID string) error

	// GetLeaderboardOwner returns the owning clan, nil when unowned.
	GetLeaderboardOwner(ctx context.Context, db bun.IDB, leaderboardID string) (*int64, error)

	// ListContestRows returns non-banned scores paired with each clan of the
	// player, ordered by pp desc then score id.
	ListContestRows(ctx context.Context, db bun.IDB, leaderboardID string) ([]ContestRow, error)

	SetLeaderboardOwner(ctx context.Context, db bun.IDB, leaderboardID string, clanID *int64) error
	AdjustOwnedCount(ctx context.Context, db bun.IDB, clanID int64, delta int) error

	CountClans(ctx context.Context, db bun.IDB) (int, error)
	ListClans(ctx context.Context, db bun.IDB, offset, limit int) ([]Clan, error)
	// ListMembers returns the non-banned members of the given clans.
	ListMembers(ctx context.Context, db bun.IDB, clanIDs []int64) ([]MemberRow, error)
	UpdateAggregates(ctx context.Context, db bun.IDB, clans []Clan) error
}
