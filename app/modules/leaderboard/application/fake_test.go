package leaderboardservice

import (
	"context"
	"sync"

	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Leaderboard Repo
// ------------------------

type FakeLeaderboardRepo struct {
	mu    sync.Mutex
	trace []string

	CountLeaderboardsFunc       func(ctx context.Context, db bun.IDB, filter leaderboarddb.LeaderboardFilter) (int, error)
	ListLeaderboardsFunc        func(ctx context.Context, db bun.IDB, filter leaderboarddb.LeaderboardFilter, offset, limit int) ([]leaderboarddb.Leaderboard, error)
	ListRankableScoresFunc      func(ctx context.Context, db bun.IDB, leaderboardIDs []string) ([]leaderboarddb.Score, error)
	UpdateScoreRanksFunc        func(ctx context.Context, db bun.IDB, scores []leaderboarddb.Score) error
	UpdatePlaysFunc             func(ctx context.Context, db bun.IDB, leaderboards []leaderboarddb.Leaderboard) error
	GetLeaderboardFunc          func(ctx context.Context, db bun.IDB, leaderboardID string) (*leaderboarddb.Leaderboard, error)
	GetScoresPageFunc           func(ctx context.Context, db bun.IDB, leaderboardID string, offset, limit int) ([]leaderboarddb.Score, error)
	StatsExistFunc              func(ctx context.Context, db bun.IDB, leaderboardID, playerID string, score int) (bool, error)
	IncrementPlayCountFunc      func(ctx context.Context, db bun.IDB, leaderboardID string, n int) error
	IncrementScorePlayCountFunc func(ctx context.Context, db bun.IDB, leaderboardID, playerID string) error
	InsertPlayerStatsFunc       func(ctx context.Context, db bun.IDB, stats []leaderboarddb.PlayerLeaderboardStats) error
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{
		trace: []string{},
	}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeLeaderboardRepo) CountLeaderboards(ctx context.Context, db bun.IDB, filter leaderboarddb.LeaderboardFilter) (int, error) {
	f.record("CountLeaderboards")
	if f.CountLeaderboardsFunc != nil {
		return f.CountLeaderboardsFunc(ctx, db, filter)
	}
	return 0, nil
}

func (f *FakeLeaderboardRepo) ListLeaderboards(ctx context.Context, db bun.IDB, filter leaderboarddb.LeaderboardFilter, offset, limit int) ([]leaderboarddb.Leaderboard, error) {
	f.record("ListLeaderboards")
	if f.ListLeaderboardsFunc != nil {
		return f.ListLeaderboardsFunc(ctx, db, filter, offset, limit)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) ListRankableScores(ctx context.Context, db bun.IDB, leaderboardIDs []string) ([]leaderboarddb.Score, error) {
	f.record("ListRankableScores")
	if f.ListRankableScoresFunc != nil {
		return f.ListRankableScoresFunc(ctx, db, leaderboardIDs)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) UpdateScoreRanks(ctx context.Context, db bun.IDB, scores []leaderboarddb.Score) error {
	f.record("UpdateScoreRanks")
	if f.UpdateScoreRanksFunc != nil {
		return f.UpdateScoreRanksFunc(ctx, db, scores)
	}
	return nil
}

func (f *FakeLeaderboardRepo) UpdatePlays(ctx context.Context, db bun.IDB, leaderboards []leaderboarddb.Leaderboard) error {
	f.record("UpdatePlays")
	if f.UpdatePlaysFunc != nil {
		return f.UpdatePlaysFunc(ctx, db, leaderboards)
	}
	return nil
}

func (f *FakeLeaderboardRepo) GetLeaderboard(ctx context.Context, db bun.IDB, leaderboardID string) (*leaderboarddb.Leaderboard, error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, db, leaderboardID)
	}
	return nil, leaderboarddb.ErrNotFound
}

func (f *FakeLeaderboardRepo) GetScoresPage(ctx context.Context, db bun.IDB, leaderboardID string, offset, limit int) ([]leaderboarddb.Score, error) {
	f.record("GetScoresPage")
	if f.GetScoresPageFunc != nil {
		return f.GetScoresPageFunc(ctx, db, leaderboardID, offset, limit)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) StatsExist(ctx context.Context, db bun.IDB, leaderboardID, playerID string, score int) (bool, error) {
	f.record("StatsExist")
	if f.StatsExistFunc != nil {
		return f.StatsExistFunc(ctx, db, leaderboardID, playerID, score)
	}
	return false, nil
}

func (f *FakeLeaderboardRepo) IncrementPlayCount(ctx context.Context, db bun.IDB, leaderboardID string, n int) error {
	f.record("IncrementPlayCount")
	if f.IncrementPlayCountFunc != nil {
		return f.IncrementPlayCountFunc(ctx, db, leaderboardID, n)
	}
	return nil
}

func (f *FakeLeaderboardRepo) IncrementScorePlayCount(ctx context.Context, db bun.IDB, leaderboardID, playerID string) error {
	f.record("IncrementScorePlayCount")
	if f.IncrementScorePlayCountFunc != nil {
		return f.IncrementScorePlayCountFunc(ctx, db, leaderboardID, playerID)
	}
	return nil
}

func (f *FakeLeaderboardRepo) InsertPlayerStats(ctx context.Context, db bun.IDB, stats []leaderboarddb.PlayerLeaderboardStats) error {
	f.record("InsertPlayerStats")
	if f.InsertPlayerStatsFunc != nil {
		return f.InsertPlayerStatsFunc(ctx, db, stats)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeLeaderboardRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)
