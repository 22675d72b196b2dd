// Command refresh runs or schedules the ranking batch jobs by hand.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan"
	"github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability"
	"github.com/Black-And-White-Club/rhythm-ranking/app/queue"
	"github.com/Black-And-White-Club/rhythm-ranking/config"
	"github.com/Black-And-White-Club/rhythm-ranking/db/bundb"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "refresh",
		Usage: "run the rank and clan refresh jobs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.BoolFlag{Name: "enqueue", Usage: "insert a job for the running service instead of refreshing here"},
		},
		Commands: []*cli.Command{
			{
				Name:  "ranks",
				Usage: "recompute score ranks and plays",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "leaderboard", Usage: "only refresh this leaderboard"},
				},
				Action: func(c *cli.Context) error {
					env, err := newEnv(c)
					if err != nil {
						return err
					}
					defer env.close()

					leaderboardID := c.String("leaderboard")
					if c.Bool("enqueue") {
						return env.enqueue(c.Context, func(ctx context.Context, q *queue.Service) error {
							return q.EnqueueRankRefresh(ctx, leaderboardID)
						})
					}

					summary, err := env.leaderboard.LeaderboardService.RefreshRanks(c.Context, leaderboarddb.LeaderboardFilter{LeaderboardID: leaderboardID})
					if err != nil {
						return err
					}
					fmt.Printf("Refreshed %d leaderboards in %d pages (%d failed), %d scores ranked\n",
						summary.Leaderboards, summary.Pages, summary.FailedPages, summary.ScoresRanked)
					return nil
				},
			},
			{
				Name:  "clans",
				Usage: "recompute clan pp, accuracy and rank",
				Action: func(c *cli.Context) error {
					env, err := newEnv(c)
					if err != nil {
						return err
					}
					defer env.close()

					if c.Bool("enqueue") {
						return env.enqueue(c.Context, func(ctx context.Context, q *queue.Service) error {
							return q.EnqueueClanRefresh(ctx)
						})
					}

					summary, err := env.clan.ClanService.RefreshClans(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Refreshed %d clans in %d pages (%d failed), %d updated, %d skipped\n",
						summary.Clans, summary.Pages, summary.FailedPages, summary.Updated, summary.Skipped)
					return nil
				},
			},
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

type env struct {
	cfg         *config.Config
	obs         *observability.Observability
	close       func()
	leaderboard *leaderboard.Module
	clan        *clan.Module
}

func newEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	obs := observability.NewNoop()
	obs.Logger = observability.NewLogger(os.Stderr, cfg.Observability.LogLevel)

	db, err := bundb.Open(c.Context, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	lb, err := leaderboard.NewLeaderboardModule(c.Context, cfg, obs, db, nil, nil, nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	cl, err := clan.NewClanModule(c.Context, cfg, obs, db, nil, nil, nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &env{
		cfg:         cfg,
		obs:         obs,
		close:       func() { _ = db.Close() },
		leaderboard: lb,
		clan:        cl,
	}, nil
}

func (e *env) enqueue(ctx context.Context, insert func(context.Context, *queue.Service) error) error {
	q, err := queue.NewService(ctx, e.cfg.Postgres.DSN, e.obs.Logger, e.obs.Metrics,
		e.leaderboard.LeaderboardService, e.clan.ClanService, e.cfg.Jobs)
	if err != nil {
		return err
	}
	defer q.Close()

	if err := insert(ctx, q); err != nil {
		return err
	}
	fmt.Println("Job enqueued")
	return nil
}
