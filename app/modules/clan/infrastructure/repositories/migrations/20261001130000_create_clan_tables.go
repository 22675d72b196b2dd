package clanmigrations

import (
	"context"
	"fmt"

	clandb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating clan tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := []interface{}{
				(*clandb.Clan)(nil),
				(*clandb.Player)(nil),
				(*clandb.ClanPlayer)(nil),
			}
			for _, model := range models {
				if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", model, err)
				}
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE clan_players
					ADD CONSTRAINT fk_clan_players_clan
					FOREIGN KEY (clan_id) REFERENCES clans(id) ON DELETE CASCADE;
				ALTER TABLE clan_players
					ADD CONSTRAINT fk_clan_players_player
					FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE;
				CREATE INDEX IF NOT EXISTS idx_clan_players_player ON clan_players (player_id);
				CREATE INDEX IF NOT EXISTS idx_players_banned ON players (banned);
			`); err != nil {
				return fmt.Errorf("failed to add clan constraints: %w", err)
			}

			fmt.Println("Clan tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping clan tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := []interface{}{
				(*clandb.ClanPlayer)(nil),
				(*clandb.Player)(nil),
				(*clandb.Clan)(nil),
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
