package leaderboardservice

import leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"

// RefreshSummary reports what a rank refresh run did.
type RefreshSummary struct {
	Leaderboards int
	Pages        int
	FailedPages  int
	ScoresRanked int
}

// Viewer is who is reading a leaderboard.
type Viewer struct {
	PlayerID string
	// Privileged viewers may preview pending rating changes.
	Privileged bool
}

// ScoresRequest asks for one page of a leaderboard.
type ScoresRequest struct {
	LeaderboardID string
	Viewer        Viewer
	Page          int
	Count         int
}

// ScoresPage is one page of a leaderboard as shown to a viewer.
type ScoresPage struct {
	LeaderboardID string
	Status        leaderboarddomain.DifficultyStatus
	Plays         int
	Page          int
	Count         int
	// Projection names the pending change the scores were projected under,
	// or "none" for persisted values.
	Projection string
	Scores     []leaderboarddomain.ScoreView
}

// AttemptsSummary reports the outcome of a stats batch.
type AttemptsSummary struct {
	Received   int
	Recorded   int
	Duplicates int
	Dropped    int
}
