package queue

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

const (
	QueueRankRefresh = "rank_refresh"
	QueueClanRefresh = "clan_refresh"
)

// activeStates keeps a refresh unique while one is waiting or running, and
// lets the next run be inserted once it finishes.
var activeStates = []rivertype.JobState{
	rivertype.JobStateAvailable,
	rivertype.JobStatePending,
	rivertype.JobStateRetryable,
	rivertype.JobStateRunning,
	rivertype.JobStateScheduled,
}

// RefreshRanksArgs recomputes score ranks and leaderboard plays. An empty
// LeaderboardID refreshes every leaderboard.
type RefreshRanksArgs struct {
	LeaderboardID string `json:"leaderboard_id,omitempty"`
}

func (RefreshRanksArgs) Kind() string { return "refresh_ranks" }

func (RefreshRanksArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueRankRefresh,
		MaxAttempts: 1,
		UniqueOpts: river.UniqueOpts{
			ByArgs:  true,
			ByState: activeStates,
		},
	}
}

// RefreshClansArgs recomputes every clan's aggregate pp.
type RefreshClansArgs struct{}

func (RefreshClansArgs) Kind() string { return "refresh_clans" }

func (RefreshClansArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueClanRefresh,
		MaxAttempts: 1,
		UniqueOpts: river.UniqueOpts{
			ByArgs:  true,
			ByState: activeStates,
		},
	}
}
