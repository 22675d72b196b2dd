package clandb

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

// NewRepository creates a new clan repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) AcquireLeaderboardLock(ctx context.Context, db bun.IDB, leaderboardID string) error {
	db = r.resolveDB(db)
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "clan_owner:"+leaderboardID).Exec(ctx); err != nil {
		return fmt.Errorf("clan.AcquireLeaderboardLock: %w", err)
	}
	return nil
}

func (r *Impl) GetLeaderboardOwner(ctx context.Context, db bun.IDB, leaderboardID string) (*int64, error) {
	db = r.resolveDB(db)
	row := new(LeaderboardOwner)
	err := db.NewSelect().
		Model(row).
		Where("l.id = ?", leaderboardID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("clan.GetLeaderboardOwner: %w", err)
	}
	return row.OwningClanID, nil
}

func (r *Impl) ListContestRows(ctx context.Context, db bun.IDB, leaderboardID string) ([]ContestRow, error) {
	db = r.resolveDB(db)
	var rows []ContestRow
	err := db.NewSelect().
		TableExpr("scores AS s").
		ColumnExpr("s.id AS score_id").
		ColumnExpr("s.pp AS pp").
		ColumnExpr("c.id AS clan_id").
		ColumnExpr("c.tag AS clan_tag").
		Join("JOIN clan_players AS cp ON cp.player_id = s.player_id").
		Join("JOIN clans AS c ON c.id = cp.clan_id").
		Where("s.leaderboard_id = ?", leaderboardID).
		Where("s.banned = FALSE").
		OrderExpr("s.pp DESC, s.id ASC, c.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("clan.ListContestRows: %w", err)
	}
	return rows, nil
}

func (r *Impl) SetLeaderboardOwner(ctx context.Context, db bun.IDB, leaderboardID string, clanID *int64) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*LeaderboardOwner)(nil)).
		Set("owning_clan_id = ?", clanID).
		Where("l.id = ?", leaderboardID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("clan.SetLeaderboardOwner: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) AdjustOwnedCount(ctx context.Context, db bun.IDB, clanID int64, delta int) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Clan)(nil)).
		Set("owned_leaderboards_count = owned_leaderboards_count + ?", delta).
		Set("updated_at = ?", time.Now().UTC()).
		Where("c.id = ?", clanID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("clan.AdjustOwnedCount: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) CountClans(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().Model((*Clan)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("clan.CountClans: %w", err)
	}
	return count, nil
}

func (r *Impl) ListClans(ctx context.Context, db bun.IDB, offset, limit int) ([]Clan, error) {
	db = r.resolveDB(db)
	var clans []Clan
	err := db.NewSelect().
		Model(&clans).
		Order("c.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("clan.ListClans: %w", err)
	}
	return clans, nil
}

func (r *Impl) ListMembers(ctx context.Context, db bun.IDB, clanIDs []int64) ([]MemberRow, error) {
	if len(clanIDs) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var members []MemberRow
	err := db.NewSelect().
		TableExpr("clan_players AS cp").
		ColumnExpr("cp.clan_id AS clan_id").
		ColumnExpr("p.id AS player_id").
		ColumnExpr("p.pp AS pp").
		ColumnExpr("p.rank AS rank").
		ColumnExpr("p.average_ranked_accuracy AS average_ranked_accuracy").
		Join("JOIN players AS p ON p.id = cp.player_id").
		Where("cp.clan_id IN (?)", bun.In(clanIDs)).
		Where("p.banned = FALSE").
		OrderExpr("cp.clan_id ASC, p.pp DESC, p.id ASC").
		Scan(ctx, &members)
	if err != nil {
		return nil, fmt.Errorf("clan.ListMembers: %w", err)
	}
	return members, nil
}

func (r *Impl) UpdateAggregates(ctx context.Context, db bun.IDB, clans []Clan) error {
	if len(clans) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for i := range clans {
		clans[i].UpdatedAt = now
	}
	_, err := db.NewUpdate().
		Model(&clans).
		Column("pp", "average_accuracy", "average_rank", "players_count", "updated_at").
		Bulk().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("clan.UpdateAggregates: %w", err)
	}
	return nil
}
