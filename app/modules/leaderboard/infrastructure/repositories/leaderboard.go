package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func applyFilter(q *bun.SelectQuery, filter LeaderboardFilter) *bun.SelectQuery {
	if filter.LeaderboardID != "" {
		q = q.Where("l.id = ?", filter.LeaderboardID)
	}
	return q
}

func (r *Impl) CountLeaderboards(ctx context.Context, db bun.IDB, filter LeaderboardFilter) (int, error) {
	db = r.resolveDB(db)
	count, err := applyFilter(db.NewSelect().Model((*Leaderboard)(nil)), filter).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("leaderboard.CountLeaderboards: %w", err)
	}
	return count, nil
}

func (r *Impl) ListLeaderboards(ctx context.Context, db bun.IDB, filter LeaderboardFilter, offset, limit int) ([]Leaderboard, error) {
	db = r.resolveDB(db)
	var leaderboards []Leaderboard
	err := applyFilter(db.NewSelect().Model(&leaderboards), filter).
		Column("l.id", "l.status").
		Order("l.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard.ListLeaderboards: %w", err)
	}
	return leaderboards, nil
}

func (r *Impl) ListRankableScores(ctx context.Context, db bun.IDB, leaderboardIDs []string) ([]Score, error) {
	if len(leaderboardIDs) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var scores []Score
	err := db.NewSelect().
		Model(&scores).
		Column("s.id", "s.leaderboard_id", "s.pp", "s.accuracy", "s.modified_score", "s.timeset").
		Where("s.leaderboard_id IN (?)", bun.In(leaderboardIDs)).
		Where("s.banned = FALSE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard.ListRankableScores: %w", err)
	}
	return scores, nil
}

func (r *Impl) UpdateScoreRanks(ctx context.Context, db bun.IDB, scores []Score) error {
	if len(scores) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model(&scores).
		Column("rank").
		Bulk().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboard.UpdateScoreRanks: %w", err)
	}
	return nil
}

func (r *Impl) UpdatePlays(ctx context.Context, db bun.IDB, leaderboards []Leaderboard) error {
	if len(leaderboards) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for i := range leaderboards {
		leaderboards[i].UpdatedAt = now
	}
	_, err := db.NewUpdate().
		Model(&leaderboards).
		Column("plays", "updated_at").
		Bulk().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboard.UpdatePlays: %w", err)
	}
	return nil
}

func (r *Impl) GetLeaderboard(ctx context.Context, db bun.IDB, leaderboardID string) (*Leaderboard, error) {
	db = r.resolveDB(db)
	lb := new(Leaderboard)
	err := db.NewSelect().
		Model(lb).
		Relation("Qualification").
		Relation("Reweight").
		Where("l.id = ?", leaderboardID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leaderboard.GetLeaderboard: %w", err)
	}
	return lb, nil
}

func (r *Impl) GetScoresPage(ctx context.Context, db bun.IDB, leaderboardID string, offset, limit int) ([]Score, error) {
	db = r.resolveDB(db)
	var scores []Score
	err := db.NewSelect().
		Model(&scores).
		Where("s.leaderboard_id = ?", leaderboardID).
		Where("s.banned = FALSE").
		// Scores not yet ranked sort last.
		OrderExpr("s.rank = 0 ASC, s.rank ASC, s.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard.GetScoresPage: %w", err)
	}
	return scores, nil
}

func (r *Impl) StatsExist(ctx context.Context, db bun.IDB, leaderboardID, playerID string, score int) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*PlayerLeaderboardStats)(nil)).
		Where("leaderboard_id = ?", leaderboardID).
		Where("player_id = ?", playerID).
		Where("score = ?", score).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("leaderboard.StatsExist: %w", err)
	}
	return exists, nil
}

func (r *Impl) IncrementPlayCount(ctx context.Context, db bun.IDB, leaderboardID string, n int) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Leaderboard)(nil)).
		Set("play_count = play_count + ?", n).
		Where("id = ?", leaderboardID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboard.IncrementPlayCount: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("leaderboard.IncrementPlayCount: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) IncrementScorePlayCount(ctx context.Context, db bun.IDB, leaderboardID, playerID string) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*Score)(nil)).
		Set("play_count = play_count + 1").
		Where("leaderboard_id = ?", leaderboardID).
		Where("player_id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboard.IncrementScorePlayCount: %w", err)
	}
	return nil
}

func (r *Impl) InsertPlayerStats(ctx context.Context, db bun.IDB, stats []PlayerLeaderboardStats) error {
	if len(stats) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&stats).Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard.InsertPlayerStats: %w", err)
	}
	return nil
}
