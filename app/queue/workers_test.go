package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	clanservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/application"
	leaderboardservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/application"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/config"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRankRefresher struct {
	filters []leaderboarddb.LeaderboardFilter
	corrIDs []string
	err     error
}

func (f *fakeRankRefresher) RefreshRanks(ctx context.Context, filter leaderboarddb.LeaderboardFilter) (leaderboardservice.RefreshSummary, error) {
	f.filters = append(f.filters, filter)
	f.corrIDs = append(f.corrIDs, attr.CorrelationID(ctx))
	return leaderboardservice.RefreshSummary{Leaderboards: 3, Pages: 1}, f.err
}

type fakeClanRefresher struct {
	calls int
	err   error
}

func (f *fakeClanRefresher) RefreshClans(context.Context) (clanservice.RefreshSummary, error) {
	f.calls++
	return clanservice.RefreshSummary{Clans: 2, Updated: 2}, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefreshRanksWorker_Work(t *testing.T) {
	tests := []struct {
		name    string
		args    RefreshRanksArgs
		err     error
		wantErr bool
	}{
		{name: "all leaderboards"},
		{name: "single leaderboard", args: RefreshRanksArgs{LeaderboardID: "lb-1"}},
		{name: "service error fails the job", err: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRankRefresher{err: tt.err}
			w := NewRefreshRanksWorker(svc, discardLogger(), time.Minute)

			err := w.Work(context.Background(), &river.Job[RefreshRanksArgs]{
				JobRow: &rivertype.JobRow{ID: 7},
				Args:   tt.args,
			})

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			require.Len(t, svc.filters, 1)
			assert.Equal(t, tt.args.LeaderboardID, svc.filters[0].LeaderboardID)
			assert.NotEmpty(t, svc.corrIDs[0], "each run gets a correlation id")
		})
	}
}

func TestRefreshClansWorker_Work(t *testing.T) {
	svc := &fakeClanRefresher{}
	w := NewRefreshClansWorker(svc, discardLogger(), time.Minute)

	require.NoError(t, w.Work(context.Background(), &river.Job[RefreshClansArgs]{JobRow: &rivertype.JobRow{ID: 1}}))
	assert.Equal(t, 1, svc.calls)

	svc.err = errors.New("boom")
	assert.Error(t, w.Work(context.Background(), &river.Job[RefreshClansArgs]{JobRow: &rivertype.JobRow{ID: 2}}))
}

func TestWorkerTimeoutMatchesInterval(t *testing.T) {
	ranks := NewRefreshRanksWorker(&fakeRankRefresher{}, discardLogger(), 15*time.Minute)
	clans := NewRefreshClansWorker(&fakeClanRefresher{}, discardLogger(), time.Hour)

	assert.Equal(t, 15*time.Minute, ranks.Timeout(nil))
	assert.Equal(t, time.Hour, clans.Timeout(nil))
}

func TestJobArgsAreUniqueWhileActive(t *testing.T) {
	for _, opts := range []river.InsertOpts{RefreshRanksArgs{}.InsertOpts(), RefreshClansArgs{}.InsertOpts()} {
		assert.Equal(t, 1, opts.MaxAttempts)
		assert.True(t, opts.UniqueOpts.ByArgs)
		assert.Contains(t, opts.UniqueOpts.ByState, rivertype.JobStateRunning)
		assert.NotContains(t, opts.UniqueOpts.ByState, rivertype.JobStateCompleted)
	}
	assert.Equal(t, QueueRankRefresh, RefreshRanksArgs{}.InsertOpts().Queue)
	assert.Equal(t, QueueClanRefresh, RefreshClansArgs{}.InsertOpts().Queue)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(discardLogger(), &fakeRankRefresher{}, &fakeClanRefresher{}, config.JobsConfig{
		RankRefreshInterval: time.Hour,
		ClanRefreshInterval: 2 * time.Hour,
		RunOnStart:          true,
	})

	require.Len(t, cfg.Queues, 2)
	assert.Equal(t, 1, cfg.Queues[QueueRankRefresh].MaxWorkers)
	assert.Equal(t, 1, cfg.Queues[QueueClanRefresh].MaxWorkers)
	assert.Len(t, cfg.PeriodicJobs, 2)
	assert.NotNil(t, cfg.Workers)
}
