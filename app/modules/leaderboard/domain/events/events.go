package leaderboardevents

import leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"

// Subjects consumed by the ranking engine.
const (
	ScoreSubmittedV1  = "leaderboard.score.submitted.v1"
	ScoreRemovedV1    = "leaderboard.score.removed.v1"
	AttemptRecordedV1 = "leaderboard.attempt.recorded.v1"
)

// ScoreSubmittedPayloadV1 is published after a score is stored on a leaderboard.
type ScoreSubmittedPayloadV1 struct {
	LeaderboardID string  `json:"leaderboard_id"`
	ScoreID       int64   `json:"score_id"`
	PlayerID      string  `json:"player_id"`
	PP            float64 `json:"pp"`
}

// ScoreRemovedPayloadV1 is published after a score is deleted or banned.
type ScoreRemovedPayloadV1 struct {
	LeaderboardID string `json:"leaderboard_id"`
	ScoreID       int64  `json:"score_id"`
	PlayerID      string `json:"player_id"`
	Reason        string `json:"reason,omitempty"`
}

// AttemptRecordedPayloadV1 carries one play attempt for the stats queue.
type AttemptRecordedPayloadV1 struct {
	leaderboarddomain.Attempt
}
