package leaderboardmigrations

import (
	"context"
	"fmt"

	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leaderboard tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := []interface{}{
				(*leaderboarddb.Leaderboard)(nil),
				(*leaderboarddb.Qualification)(nil),
				(*leaderboarddb.Reweight)(nil),
				(*leaderboarddb.Score)(nil),
				(*leaderboarddb.PlayerLeaderboardStats)(nil),
			}
			for _, model := range models {
				if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", model, err)
				}
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE leaderboard_qualifications
					ADD CONSTRAINT fk_qualifications_leaderboard
					FOREIGN KEY (leaderboard_id) REFERENCES leaderboards(id) ON DELETE CASCADE;
				ALTER TABLE leaderboard_reweights
					ADD CONSTRAINT fk_reweights_leaderboard
					FOREIGN KEY (leaderboard_id) REFERENCES leaderboards(id) ON DELETE CASCADE;
				ALTER TABLE scores
					ADD CONSTRAINT fk_scores_leaderboard
					FOREIGN KEY (leaderboard_id) REFERENCES leaderboards(id) ON DELETE CASCADE;
				ALTER TABLE player_leaderboard_stats
					ADD CONSTRAINT fk_player_stats_leaderboard
					FOREIGN KEY (leaderboard_id) REFERENCES leaderboards(id) ON DELETE CASCADE;
			`); err != nil {
				return fmt.Errorf("failed to add leaderboard foreign keys: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_scores_leaderboard_banned ON scores (leaderboard_id, banned);
				CREATE INDEX IF NOT EXISTS idx_scores_leaderboard_rank ON scores (leaderboard_id, rank);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_scores_leaderboard_player ON scores (leaderboard_id, player_id);
				CREATE INDEX IF NOT EXISTS idx_player_stats_lookup ON player_leaderboard_stats (leaderboard_id, player_id, score);
			`); err != nil {
				return fmt.Errorf("failed to create leaderboard indexes: %w", err)
			}

			fmt.Println("Leaderboard tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leaderboard tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := []interface{}{
				(*leaderboarddb.PlayerLeaderboardStats)(nil),
				(*leaderboarddb.Score)(nil),
				(*leaderboarddb.Reweight)(nil),
				(*leaderboarddb.Qualification)(nil),
				(*leaderboarddb.Leaderboard)(nil),
			}
			for _, model := range models {
				if _, err := tx.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop table for %T: %w", model, err)
				}
			}
			return nil
		})
	})
}
