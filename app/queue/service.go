package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/metrics"
	"github.com/Black-And-White-Club/rhythm-ranking/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

const serviceName = "river"

// QueueService schedules and runs the periodic refresh jobs.
type QueueService interface {
	// EnqueueRankRefresh requests a rank refresh, optionally for one leaderboard.
	EnqueueRankRefresh(ctx context.Context, leaderboardID string) error
	// EnqueueClanRefresh requests a clan refresh.
	EnqueueClanRefresh(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs refresh jobs on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics.Metrics
}

// NewService creates the River client. Each refresh kind runs on its own
// queue with a single worker, and is scheduled periodically.
func NewService(
	ctx context.Context,
	dsn string,
	logger *slog.Logger,
	m metrics.Metrics,
	ranks RankRefresher,
	clans ClanRefresher,
	cfg config.JobsConfig,
) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client, err := river.NewClient(riverpgxv5.New(pool), NewConfig(ctxLogger, ranks, clans, cfg))
	if err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	m.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))
	ctxLogger.InfoContext(ctx, "Refresh queue initialized",
		attr.Duration("rank_interval", cfg.RankRefreshInterval),
		attr.Duration("clan_interval", cfg.ClanRefreshInterval),
	)

	return &Service{
		client:  client,
		pool:    pool,
		logger:  ctxLogger,
		metrics: m,
	}, nil
}

// NewConfig builds the River configuration: workers, one single-worker queue
// per job kind and the periodic schedule.
func NewConfig(logger *slog.Logger, ranks RankRefresher, clans ClanRefresher, cfg config.JobsConfig) *river.Config {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewRefreshRanksWorker(ranks, logger, cfg.RankRefreshInterval))
	river.AddWorker(workers, NewRefreshClansWorker(clans, logger, cfg.ClanRefreshInterval))

	return &river.Config{
		Logger: logger,
		Queues: map[string]river.QueueConfig{
			QueueRankRefresh: {MaxWorkers: 1},
			QueueClanRefresh: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(cfg.RankRefreshInterval),
				func() (river.JobArgs, *river.InsertOpts) { return RefreshRanksArgs{}, nil },
				&river.PeriodicJobOpts{RunOnStart: cfg.RunOnStart},
			),
			river.NewPeriodicJob(
				river.PeriodicInterval(cfg.ClanRefreshInterval),
				func() (river.JobArgs, *river.InsertOpts) { return RefreshClansArgs{}, nil },
				&river.PeriodicJobOpts{RunOnStart: cfg.RunOnStart},
			),
		},
	}
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", serviceName)

	if err := s.client.Start(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", serviceName)
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", serviceName)
	s.metrics.RecordOperationDuration(ctx, "start_service", serviceName, time.Since(start))
	s.logger.InfoContext(ctx, "Refresh queue started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", serviceName)
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", serviceName)
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", serviceName)
	s.metrics.RecordOperationDuration(ctx, "stop_service", serviceName, time.Since(start))
	s.logger.InfoContext(ctx, "Refresh queue stopped")
	return nil
}

func (s *Service) EnqueueRankRefresh(ctx context.Context, leaderboardID string) error {
	return s.insert(ctx, "enqueue_rank_refresh", RefreshRanksArgs{LeaderboardID: leaderboardID})
}

func (s *Service) EnqueueClanRefresh(ctx context.Context) error {
	return s.insert(ctx, "enqueue_clan_refresh", RefreshClansArgs{})
}

func (s *Service) insert(ctx context.Context, operation string, args river.JobArgs) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, operation, serviceName)

	res, err := s.client.Insert(ctx, args, nil)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, operation, serviceName)
		return fmt.Errorf("failed to insert %s job: %w", args.Kind(), err)
	}

	s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
	s.metrics.RecordOperationDuration(ctx, operation, serviceName, time.Since(start))
	s.logger.InfoContext(ctx, "Refresh job enqueued",
		attr.String("kind", args.Kind()),
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// Close releases the pool of a service that was only used to enqueue.
func (s *Service) Close() {
	s.pool.Close()
}
