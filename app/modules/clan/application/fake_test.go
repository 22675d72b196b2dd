package clanservice

import (
	"context"
	"sync"

	clandb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Clan Repo
// ------------------------

type FakeClanRepo struct {
	mu    sync.Mutex
	trace []string

	AcquireLeaderboardLockFunc func(ctx context.Context, db bun.IDB, leaderboardID string) error
	GetLeaderboardOwnerFunc    func(ctx context.Context, db bun.IDB, leaderboardID string) (*int64, error)
	ListContestRowsFunc        func(ctx context.Context, db bun.IDB, leaderboardID string) ([]clandb.ContestRow, error)
	SetLeaderboardOwnerFunc    func(ctx context.Context, db bun.IDB, leaderboardID string, clanID *int64) error
	AdjustOwnedCountFunc       func(ctx context.Context, db bun.IDB, clanID int64, delta int) error
	CountClansFunc             func(ctx context.Context, db bun.IDB) (int, error)
	ListClansFunc              func(ctx context.Context, db bun.IDB, offset, limit int) ([]clandb.Clan, error)
	ListMembersFunc            func(ctx context.Context, db bun.IDB, clanIDs []int64) ([]clandb.MemberRow, error)
	UpdateAggregatesFunc       func(ctx context.Context, db bun.IDB, clans []clandb.Clan) error
}

func NewFakeClanRepo() *FakeClanRepo {
	return &FakeClanRepo{trace: []string{}}
}

func (f *FakeClanRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeClanRepo) AcquireLeaderboardLock(ctx context.Context, db bun.IDB, leaderboardID string) error {
	f.record("AcquireLeaderboardLock")
	if f.AcquireLeaderboardLockFunc != nil {
		return f.AcquireLeaderboardLockFunc(ctx, db, leaderboardID)
	}
	return nil
}

func (f *FakeClanRepo) GetLeaderboardOwner(ctx context.Context, db bun.IDB, leaderboardID string) (*int64, error) {
	f.record("GetLeaderboardOwner")
	if f.GetLeaderboardOwnerFunc != nil {
		return f.GetLeaderboardOwnerFunc(ctx, db, leaderboardID)
	}
	return nil, nil
}

func (f *FakeClanRepo) ListContestRows(ctx context.Context, db bun.IDB, leaderboardID string) ([]clandb.ContestRow, error) {
	f.record("ListContestRows")
	if f.ListContestRowsFunc != nil {
		return f.ListContestRowsFunc(ctx, db, leaderboardID)
	}
	return nil, nil
}

func (f *FakeClanRepo) SetLeaderboardOwner(ctx context.Context, db bun.IDB, leaderboardID string, clanID *int64) error {
	f.record("SetLeaderboardOwner")
	if f.SetLeaderboardOwnerFunc != nil {
		return f.SetLeaderboardOwnerFunc(ctx, db, leaderboardID, clanID)
	}
	return nil
}

func (f *FakeClanRepo) AdjustOwnedCount(ctx context.Context, db bun.IDB, clanID int64, delta int) error {
	f.record("AdjustOwnedCount")
	if f.AdjustOwnedCountFunc != nil {
		return f.AdjustOwnedCountFunc(ctx, db, clanID, delta)
	}
	return nil
}

func (f *FakeClanRepo) CountClans(ctx context.Context, db bun.IDB) (int, error) {
	f.record("CountClans")
	if f.CountClansFunc != nil {
		return f.CountClansFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeClanRepo) ListClans(ctx context.Context, db bun.IDB, offset, limit int) ([]clandb.Clan, error) {
	f.record("ListClans")
	if f.ListClansFunc != nil {
		return f.ListClansFunc(ctx, db, offset, limit)
	}
	return nil, nil
}

func (f *FakeClanRepo) ListMembers(ctx context.Context, db bun.IDB, clanIDs []int64) ([]clandb.MemberRow, error) {
	f.record("ListMembers")
	if f.ListMembersFunc != nil {
		return f.ListMembersFunc(ctx, db, clanIDs)
	}
	return nil, nil
}

func (f *FakeClanRepo) UpdateAggregates(ctx context.Context, db bun.IDB, clans []clandb.Clan) error {
	f.record("UpdateAggregates")
	if f.UpdateAggregatesFunc != nil {
		return f.UpdateAggregatesFunc(ctx, db, clans)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeClanRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ clandb.Repository = (*FakeClanRepo)(nil)
