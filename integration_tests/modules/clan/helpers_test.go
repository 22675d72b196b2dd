package clanintegration

import (
	"context"
	"testing"

	clanservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/application"
	clandb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/repositories"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/stretchr/testify/require"
)

func newService(pageSize int) *clanservice.ClanService {
	return clanservice.NewClanService(
		clandb.NewRepository(testEnv.DB),
		testEnv.Obs.Logger,
		testEnv.Obs.Metrics,
		testEnv.Obs.Tracer,
		testEnv.DB,
		clanservice.Options{PageSize: pageSize},
	)
}

func seedClan(t *testing.T, tag string) int64 {
	t.Helper()
	c := &clandb.Clan{Tag: tag, Name: tag}
	_, err := testEnv.DB.NewInsert().Model(c).Returning("id").Exec(context.Background())
	require.NoError(t, err)
	return c.ID
}

func seedPlayer(t *testing.T, p clandb.Player, clanIDs ...int64) {
	t.Helper()
	ctx := context.Background()
	_, err := testEnv.DB.NewInsert().Model(&p).Exec(ctx)
	require.NoError(t, err)
	for _, id := range clanIDs {
		_, err := testEnv.DB.NewInsert().Model(&clandb.ClanPlayer{ClanID: id, PlayerID: p.ID}).Exec(ctx)
		require.NoError(t, err)
	}
}

func seedLeaderboard(t *testing.T, id string, owner *int64) {
	t.Helper()
	_, err := testEnv.DB.NewInsert().Model(&leaderboarddb.Leaderboard{
		ID:           id,
		SongID:       "song-" + id,
		Status:       "ranked",
		OwningClanID: owner,
	}).Exec(context.Background())
	require.NoError(t, err)
}

func seedScore(t *testing.T, leaderboardID, playerID string, pp float64) {
	t.Helper()
	_, err := testEnv.DB.NewInsert().Model(&leaderboarddb.Score{
		LeaderboardID: leaderboardID,
		PlayerID:      playerID,
		BaseScore:     1000,
		ModifiedScore: 1000,
		PP:            pp,
		Timeset:       1,
	}).Exec(context.Background())
	require.NoError(t, err)
}

func loadClan(t *testing.T, id int64) clandb.Clan {
	t.Helper()
	var c clandb.Clan
	require.NoError(t, testEnv.DB.NewSelect().Model(&c).Where("c.id = ?", id).Scan(context.Background()))
	return c
}

func owner(t *testing.T, leaderboardID string) *int64 {
	t.Helper()
	var row clandb.LeaderboardOwner
	require.NoError(t, testEnv.DB.NewSelect().Model(&row).Where("l.id = ?", leaderboardID).Scan(context.Background()))
	return row.OwningClanID
}

func setOwnedCount(t *testing.T, clanID int64, n int) {
	t.Helper()
	_, err := testEnv.DB.NewUpdate().Model((*clandb.Clan)(nil)).Set("owned_leaderboards_count = ?", n).Where("id = ?", clanID).Exec(context.Background())
	require.NoError(t, err)
}
