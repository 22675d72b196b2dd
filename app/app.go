package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Black-And-White-Club/rhythm-ranking/app/eventbus"
	"github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan"
	"github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/queue"
	"github.com/Black-And-White-Club/rhythm-ranking/config"
	"github.com/Black-And-White-Club/rhythm-ranking/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/uptrace/bun"
)

const shutdownTimeout = 30 * time.Second

// App holds the long-running service: event handlers, the stats queue and
// the periodic refresh jobs.
type App struct {
	Config            *config.Config
	Observability     *observability.Observability
	DB                *bun.DB
	EventBus          eventbus.EventBus
	Router            *message.Router
	LeaderboardModule *leaderboard.Module
	ClanModule        *clan.Module
	Queue             *queue.Service

	wg sync.WaitGroup
}

// cleanupStack closes partially built components in reverse order.
type cleanupStack []func() error

func (c *cleanupStack) push(fn func() error) { *c = append(*c, fn) }

func (c cleanupStack) run() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewApp connects to Postgres and NATS and builds every module. On error,
// whatever was already built is closed again.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (_ *App, err error) {
	logger := obs.Logger

	var cleanup cleanupStack
	defer func() {
		if err == nil {
			return
		}
		if cerr := cleanup.run(); cerr != nil {
			logger.WarnContext(ctx, "Cleanup after failed startup", attr.Error(cerr))
		}
	}()

	db, err := bundb.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	cleanup.push(db.Close)

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}
	cleanup.push(bus.Close)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	cleanup.push(router.Close)

	metrics.NewPrometheusMetricsBuilder(obs.Registry, "ranking", "router").AddPrometheusRouterMetrics(router)
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	lbModule, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, db, bus, bus, router)
	if err != nil {
		return nil, err
	}
	cleanup.push(lbModule.Close)

	clanModule, err := clan.NewClanModule(ctx, cfg, obs, db, bus, bus, router)
	if err != nil {
		return nil, err
	}

	jobs, err := queue.NewService(ctx, cfg.Postgres.DSN, logger, obs.Metrics, lbModule.LeaderboardService, clanModule.ClanService, cfg.Jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize job queue: %w", err)
	}

	return &App{
		Config:            cfg,
		Observability:     obs,
		DB:                db,
		EventBus:          bus,
		Router:            router,
		LeaderboardModule: lbModule,
		ClanModule:        clanModule,
		Queue:             jobs,
	}, nil
}

// Run starts every component and blocks until ctx is cancelled, then shuts
// down in dependency order.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Logger

	go func() {
		if err := a.Observability.ServeMetrics(ctx, a.Config.Observability.MetricsAddress); err != nil {
			logger.ErrorContext(ctx, "Metrics server stopped", attr.Error(err))
		}
	}()

	if err := a.Queue.Start(ctx); err != nil {
		return errors.Join(fmt.Errorf("failed to start job queue: %w", err), a.Close())
	}

	a.wg.Add(1)
	go a.LeaderboardModule.Run(ctx, &a.wg)

	routerErr := make(chan error, 1)
	go func() { routerErr <- a.Router.Run(ctx) }()

	var runErr error
	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "Shutdown requested")
	case err := <-routerErr:
		if err != nil {
			runErr = fmt.Errorf("router stopped: %w", err)
		}
	}

	return errors.Join(runErr, a.Close())
}

// Close stops intake first, then lets in-flight work finish.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger := a.Observability.Logger

	var errs []error
	if err := a.Router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("router close: %w", err))
	}
	if err := a.Queue.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.LeaderboardModule.Close(); err != nil {
		errs = append(errs, err)
	}
	a.wg.Wait()

	if err := a.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event bus close: %w", err))
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}
	if err := a.Observability.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("observability shutdown: %w", err))
	}

	logger.Info("Application shut down")
	return errors.Join(errs...)
}
