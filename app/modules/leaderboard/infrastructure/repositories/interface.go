package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"
)

// LeaderboardFilter narrows batch jobs to a single leaderboard. The zero
// value matches every leaderboard.
type LeaderboardFilter struct {
	LeaderboardID string
}

// Repository defines the contract for leaderboard persistence.
// Every method takes the handle to run on so callers can compose transactions;
// a nil handle falls back to the repository's connection.
//
// Error semantics:
//   - ErrNotFound: Record does not exist
//   - ErrNoRowsAffected: UPDATE matched no rows
//   - Other errors: Infrastructure failures (DB connection, query errors)
type Repository interface {
	// CountLeaderboards returns how many leaderboards match filter.
	CountLeaderboards(ctx context.Context, db bun.IDB, filter LeaderboardFilter) (int, error)

	// ListLeaderboards returns one page of matching leaderboards ordered by id.
	// Only id and status are loaded.
	ListLeaderboards(ctx context.Context, db bun.IDB, filter LeaderboardFilter, offset, limit int) ([]Leaderboard, error)

	// ListRankableScores returns the non-banned scores of the given leaderboards
	// with the columns needed for ordering.
	ListRankableScores(ctx context.Context, db bun.IDB, leaderboardIDs []string) ([]Score, error)

	// UpdateScoreRanks writes Rank for every score in one statement.
	UpdateScoreRanks(ctx context.Context, db bun.IDB, scores []Score) error

	// UpdatePlays writes Plays for every leaderboard in one statement.
	UpdatePlays(ctx context.Context, db bun.IDB, leaderboards []Leaderboard) error

	// GetLeaderboard loads a leaderboard with its pending qualification and reweight.
	GetLeaderboard(ctx context.Context, db bun.IDB, leaderboardID string) (*Leaderboard, error)

	// GetScoresPage returns non-banned scores in persisted rank order.
	GetScoresPage(ctx context.Context, db bun.IDB, leaderboardID string, offset, limit int) ([]Score, error)

	// StatsExist reports whether an attempt with this exact score is already recorded.
	StatsExist(ctx context.Context, db bun.IDB, leaderboardID, playerID string, score int) (bool, error)

	// IncrementPlayCount adds n to the leaderboard's attempt counter.
	IncrementPlayCount(ctx context.Context, db bun.IDB, leaderboardID string, n int) error

	// IncrementScorePlayCount bumps the attempt counter of the player's current score, if any.
	IncrementScorePlayCount(ctx context.Context, db bun.IDB, leaderboardID, playerID string) error

	// InsertPlayerStats stores attempt rows.
	InsertPlayerStats(ctx context.Context, db bun.IDB, stats []PlayerLeaderboardStats) error
}
