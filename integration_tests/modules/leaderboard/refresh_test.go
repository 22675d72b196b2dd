package leaderboardintegration

import (
	"context"
	"testing"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshRanks_TieBreakAndPlays(t *testing.T) {
	testEnv.Reset(t)
	ctx := context.Background()

	seedLeaderboard(t, "lb-ranked", leaderboarddomain.StatusRanked)
	seedScore(t, leaderboarddb.Score{LeaderboardID: "lb-ranked", PlayerID: "a", BaseScore: 400000, Accuracy: 0.90, PP: 300, Timeset: 100})
	seedScore(t, leaderboarddb.Score{LeaderboardID: "lb-ranked", PlayerID: "b", BaseScore: 420000, Accuracy: 0.95, PP: 300, Timeset: 200})
	seedScore(t, leaderboarddb.Score{LeaderboardID: "lb-ranked", PlayerID: "c", BaseScore: 300000, Accuracy: 0.80, PP: 100, Timeset: 50})
	seedScore(t, leaderboarddb.Score{LeaderboardID: "lb-ranked", PlayerID: "banned", BaseScore: 490000, Accuracy: 0.99, PP: 900, Timeset: 10, Banned: true})

	svc := newService(leaderboarddb.NewRepository(testEnv.DB), 100)

	summary, err := svc.RefreshRanks(ctx, leaderboarddb.LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Leaderboards)
	assert.Equal(t, 0, summary.FailedPages)

	ranks := ranksByPlayer(t, "lb-ranked")
	assert.Equal(t, 2, ranks["a"])
	assert.Equal(t, 1, ranks["b"])
	assert.Equal(t, 3, ranks["c"])
	assert.Equal(t, 3, loadLeaderboard(t, "lb-ranked").Plays)

	// A second run over unchanged data writes the same ranks.
	_, err = svc.RefreshRanks(ctx, leaderboarddb.LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, ranks, ranksByPlayer(t, "lb-ranked"))
}

func TestRefreshRanks_FailedPageIsRolledBack(t *testing.T) {
	testEnv.Reset(t)
	ctx := context.Background()

	for _, id := range []string{"lb-1", "lb-2", "lb-3"} {
		seedLeaderboard(t, id, leaderboarddomain.StatusUnranked)
		seedScore(t, leaderboarddb.Score{LeaderboardID: id, PlayerID: "p1", BaseScore: 100000, Accuracy: 0.5, Timeset: 1})
		seedScore(t, leaderboarddb.Score{LeaderboardID: id, PlayerID: "p2", BaseScore: 200000, Accuracy: 0.6, Timeset: 2})
	}

	repo := failingPlaysRepo{Repository: leaderboarddb.NewRepository(testEnv.DB), failOn: "lb-2"}
	svc := newService(repo, 1)

	summary, err := svc.RefreshRanks(ctx, leaderboarddb.LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Pages)
	assert.Equal(t, 1, summary.FailedPages)
	assert.Equal(t, 2, summary.Leaderboards)

	for _, id := range []string{"lb-1", "lb-3"} {
		assert.Equal(t, map[string]int{"p1": 2, "p2": 1}, ranksByPlayer(t, id), id)
		assert.Equal(t, 2, loadLeaderboard(t, id).Plays, id)
	}
	assert.Equal(t, map[string]int{"p1": 0, "p2": 0}, ranksByPlayer(t, "lb-2"), "rank writes of the failed page are discarded")
	assert.Equal(t, 0, loadLeaderboard(t, "lb-2").Plays)
}

func TestRefreshRanks_SingleLeaderboardFilter(t *testing.T) {
	testEnv.Reset(t)
	ctx := context.Background()

	for _, id := range []string{"lb-x", "lb-y"} {
		seedLeaderboard(t, id, leaderboarddomain.StatusUnranked)
		seedScore(t, leaderboarddb.Score{LeaderboardID: id, PlayerID: "p1", BaseScore: 1000, Timeset: 1})
	}

	svc := newService(leaderboarddb.NewRepository(testEnv.DB), 10)
	summary, err := svc.RefreshRanks(ctx, leaderboarddb.LeaderboardFilter{LeaderboardID: "lb-y"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Leaderboards)

	assert.Equal(t, 0, ranksByPlayer(t, "lb-x")["p1"])
	assert.Equal(t, 1, ranksByPlayer(t, "lb-y")["p1"])
}

func TestRefreshRanks_EmptyLeaderboard(t *testing.T) {
	testEnv.Reset(t)
	ctx := context.Background()

	seedLeaderboard(t, "lb-empty", leaderboarddomain.StatusRanked)
	_, err := testEnv.DB.NewUpdate().Model((*leaderboarddb.Leaderboard)(nil)).Set("plays = 7").Where("id = ?", "lb-empty").Exec(ctx)
	require.NoError(t, err)

	svc := newService(leaderboarddb.NewRepository(testEnv.DB), 10)
	_, err = svc.RefreshRanks(ctx, leaderboarddb.LeaderboardFilter{})
	require.NoError(t, err)

	assert.Equal(t, 0, loadLeaderboard(t, "lb-empty").Plays)
}
