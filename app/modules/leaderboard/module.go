package leaderboard

import (
	"context"
	"fmt"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/statsqueue"
	"github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/rating"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	StatsQueue         *statsqueue.Queue
	config             *config.Config
	observability      *observability.Observability

	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

// NewLeaderboardModule creates a new instance of the Leaderboard module.
// A nil router builds the service without event handlers, for one-shot commands.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	subscriber message.Subscriber,
	publisher message.Publisher,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger.With(attr.String("module", "leaderboard"))
	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	service := leaderboardservice.NewLeaderboardService(
		leaderboarddb.NewRepository(db),
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
		rating.New(),
		leaderboardservice.Options{
			PageSize:       cfg.Jobs.PageSize,
			PagesPerSecond: cfg.Jobs.PagesPerSecond,
		},
	)

	module := &Module{
		LeaderboardService: service,
		StatsQueue:         statsqueue.New(service, logger, obs.Metrics, cfg.StatsQueue),
		config:             cfg,
		observability:      obs,
	}

	if router == nil {
		return module, nil
	}

	module.LeaderboardRouter = leaderboardrouter.NewLeaderboardRouter(logger, router, subscriber, publisher, obs.Tracer)
	handlers := leaderboardhandlers.NewLeaderboardHandlers(module.StatsQueue, logger, obs.Tracer)
	if err := module.LeaderboardRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	return module, nil
}

// Run drains the attempt stats queue until ctx is cancelled. Buffered
// attempts are flushed before it returns.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancelFunc = cancel
	m.mu.Unlock()
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.StatsQueue.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Stats queue stopped with error", attr.Error(err))
	}
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close stops the leaderboard module.
func (m *Module) Close() error {
	m.observability.Logger.Info("Stopping leaderboard module")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
