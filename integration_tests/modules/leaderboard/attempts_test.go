package leaderboardintegration

import (
	"context"
	"testing"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAttempts_PersistsAndDeduplicates(t *testing.T) {
	testEnv.Reset(t)
	ctx := context.Background()

	seedLeaderboard(t, "lb-1", leaderboarddomain.StatusRanked)
	seedScore(t, leaderboarddb.Score{LeaderboardID: "lb-1", PlayerID: "p1", BaseScore: 400000, Timeset: 1})

	svc := newService(leaderboarddb.NewRepository(testEnv.DB), 10)
	attempt := leaderboarddomain.Attempt{LeaderboardID: "lb-1", PlayerID: "p1", Score: 350000, Accuracy: 0.8, Type: "fail", ReplayFile: "p1-lb-1.bsor"}

	summary, err := svc.RecordAttempts(ctx, []leaderboarddomain.Attempt{
		attempt,
		attempt,
		{LeaderboardID: "missing", PlayerID: "p2", Score: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Received)
	assert.Equal(t, 1, summary.Recorded)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 1, summary.Dropped)

	lb := loadLeaderboard(t, "lb-1")
	assert.Equal(t, 1, lb.PlayCount)
	assert.Equal(t, 0, lb.Plays, "attempts do not change ranked plays")

	var score leaderboarddb.Score
	require.NoError(t, testEnv.DB.NewSelect().Model(&score).Where("s.player_id = ?", "p1").Scan(ctx))
	assert.Equal(t, 1, score.PlayCount)

	var stats []leaderboarddb.PlayerLeaderboardStats
	require.NoError(t, testEnv.DB.NewSelect().Model(&stats).Scan(ctx))
	require.Len(t, stats, 1)
	assert.Equal(t, "p1-lb-1.bsor", stats[0].Replay)
	assert.NotZero(t, stats[0].Timeset)

	// The same attempt arriving in a later batch is skipped.
	summary, err = svc.RecordAttempts(ctx, []leaderboarddomain.Attempt{attempt})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 1, loadLeaderboard(t, "lb-1").PlayCount)
}
