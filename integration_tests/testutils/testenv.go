// Package testutils starts the Postgres container shared by the integration
// tests and resets it between tests.
package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	clanmigrations "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/repositories/migrations"
	leaderboardmigrations "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability"
	"github.com/Black-And-White-Club/rhythm-ranking/db/bundb"
	"github.com/Black-And-White-Club/rhythm-ranking/integration_tests/containers"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// TestEnvironment holds the resources shared by one integration test package.
type TestEnvironment struct {
	Ctx         context.Context
	PgContainer *postgres.PostgresContainer
	DSN         string
	DB          *bun.DB
	Obs         *observability.Observability
}

// NewTestEnvironment starts Postgres and applies every migration.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}

	db, err := bundb.Open(ctx, dsn)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	env := &TestEnvironment{
		Ctx:         ctx,
		PgContainer: pgContainer,
		DSN:         dsn,
		DB:          db,
		Obs:         observability.NewNoop(),
	}
	env.Obs.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := env.runMigrations(ctx); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) runMigrations(ctx context.Context) error {
	for name, migrations := range map[string]*migrate.Migrations{
		"leaderboard": leaderboardmigrations.Migrations,
		"clan":        clanmigrations.Migrations,
	} {
		migrator := migrate.NewMigrator(env.DB, migrations)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", name, err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("run %s migrations: %w", name, err)
		}
	}

	pool, err := pgxpool.New(ctx, env.DSN)
	if err != nil {
		return fmt.Errorf("river pool: %w", err)
	}
	defer pool.Close()

	riverMigrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("river migrator: %w", err)
	}
	if _, err := riverMigrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("river migrate: %w", err)
	}
	return nil
}

// Reset empties every domain table between tests.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	_, err := env.DB.ExecContext(env.Ctx, `
		TRUNCATE TABLE
			player_leaderboard_stats,
			scores,
			leaderboard_qualifications,
			leaderboard_reweights,
			leaderboards,
			clan_players,
			players,
			clans
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}
}

// Close stops the container.
func (env *TestEnvironment) Close() {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(env.Ctx)
	}
}
