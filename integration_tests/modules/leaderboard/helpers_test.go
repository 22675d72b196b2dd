package leaderboardintegration

import (
	"context"
	"testing"

	leaderboardservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/rating"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newService(repo leaderboarddb.Repository, pageSize int) *leaderboardservice.LeaderboardService {
	return leaderboardservice.NewLeaderboardService(
		repo,
		testEnv.Obs.Logger,
		testEnv.Obs.Metrics,
		testEnv.Obs.Tracer,
		testEnv.DB,
		rating.New(),
		leaderboardservice.Options{PageSize: pageSize},
	)
}

func seedLeaderboard(t *testing.T, id string, status leaderboarddomain.DifficultyStatus) {
	t.Helper()
	_, err := testEnv.DB.NewInsert().Model(&leaderboarddb.Leaderboard{
		ID:       id,
		SongID:   "song-" + id,
		Status:   status,
		Notes:    500,
		MaxScore: rating.New().MaxScoreForNotes(500),
	}).Exec(context.Background())
	require.NoError(t, err)
}

func seedScore(t *testing.T, s leaderboarddb.Score) int64 {
	t.Helper()
	if s.ModifiedScore == 0 {
		s.ModifiedScore = s.BaseScore
	}
	_, err := testEnv.DB.NewInsert().Model(&s).Returning("id").Exec(context.Background())
	require.NoError(t, err)
	return s.ID
}

func ranksByPlayer(t *testing.T, leaderboardID string) map[string]int {
	t.Helper()
	var scores []leaderboarddb.Score
	require.NoError(t, testEnv.DB.NewSelect().Model(&scores).Where("s.leaderboard_id = ?", leaderboardID).Scan(context.Background()))
	out := make(map[string]int, len(scores))
	for _, s := range scores {
		out[s.PlayerID] = s.Rank
	}
	return out
}

func loadLeaderboard(t *testing.T, id string) leaderboarddb.Leaderboard {
	t.Helper()
	var lb leaderboarddb.Leaderboard
	require.NoError(t, testEnv.DB.NewSelect().Model(&lb).Where("l.id = ?", id).Scan(context.Background()))
	return lb
}

// failingPlaysRepo fails UpdatePlays for any page containing the given
// leaderboard, after the real rank writes of that page have run.
type failingPlaysRepo struct {
	leaderboarddb.Repository
	failOn string
}

func (r failingPlaysRepo) UpdatePlays(ctx context.Context, db bun.IDB, leaderboards []leaderboarddb.Leaderboard) error {
	if err := r.Repository.UpdatePlays(ctx, db, leaderboards); err != nil {
		return err
	}
	for _, lb := range leaderboards {
		if lb.ID == r.failOn {
			return context.DeadlineExceeded
		}
	}
	return nil
}
