package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	clanservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/application"
	leaderboardservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/application"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// RankRefresher is the part of the leaderboard service the rank job needs.
type RankRefresher interface {
	RefreshRanks(ctx context.Context, filter leaderboarddb.LeaderboardFilter) (leaderboardservice.RefreshSummary, error)
}

// ClanRefresher is the part of the clan service the clan job needs.
type ClanRefresher interface {
	RefreshClans(ctx context.Context) (clanservice.RefreshSummary, error)
}

// RefreshRanksWorker runs RefreshRanks jobs.
type RefreshRanksWorker struct {
	river.WorkerDefaults[RefreshRanksArgs]
	service RankRefresher
	logger  *slog.Logger
	timeout time.Duration
}

func NewRefreshRanksWorker(service RankRefresher, logger *slog.Logger, timeout time.Duration) *RefreshRanksWorker {
	return &RefreshRanksWorker{service: service, logger: logger, timeout: timeout}
}

// Timeout bounds a run by the refresh interval so a stuck run cannot overlap
// the next one.
func (w *RefreshRanksWorker) Timeout(*river.Job[RefreshRanksArgs]) time.Duration {
	return w.timeout
}

func (w *RefreshRanksWorker) Work(ctx context.Context, job *river.Job[RefreshRanksArgs]) error {
	runID := uuid.NewString()
	ctx = attr.WithCorrelationID(ctx, runID)

	w.logger.InfoContext(ctx, "Rank refresh started",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("job_id", job.ID),
		attr.LeaderboardID(job.Args.LeaderboardID),
	)

	summary, err := w.service.RefreshRanks(ctx, leaderboarddb.LeaderboardFilter{LeaderboardID: job.Args.LeaderboardID})
	if err != nil {
		return fmt.Errorf("rank refresh %s: %w", runID, err)
	}

	w.logger.InfoContext(ctx, "Rank refresh completed",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("job_id", job.ID),
		attr.Int("leaderboards", summary.Leaderboards),
		attr.Int("failed_pages", summary.FailedPages),
	)
	return nil
}

// RefreshClansWorker runs RefreshClans jobs.
type RefreshClansWorker struct {
	river.WorkerDefaults[RefreshClansArgs]
	service ClanRefresher
	logger  *slog.Logger
	timeout time.Duration
}

func NewRefreshClansWorker(service ClanRefresher, logger *slog.Logger, timeout time.Duration) *RefreshClansWorker {
	return &RefreshClansWorker{service: service, logger: logger, timeout: timeout}
}

func (w *RefreshClansWorker) Timeout(*river.Job[RefreshClansArgs]) time.Duration {
	return w.timeout
}

func (w *RefreshClansWorker) Work(ctx context.Context, job *river.Job[RefreshClansArgs]) error {
	runID := uuid.NewString()
	ctx = attr.WithCorrelationID(ctx, runID)

	summary, err := w.service.RefreshClans(ctx)
	if err != nil {
		return fmt.Errorf("clan refresh %s: %w", runID, err)
	}

	w.logger.InfoContext(ctx, "Clan refresh completed",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("job_id", job.ID),
		attr.Int("clans", summary.Clans),
		attr.Int("updated", summary.Updated),
		attr.Int("failed_pages", summary.FailedPages),
	)
	return nil
}
