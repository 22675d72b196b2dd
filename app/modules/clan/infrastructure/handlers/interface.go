package clanhandlers

import (
	"context"

	leaderboardevents "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/handlerwrapper"
)

// Handlers defines the interface for clan event handlers.
type Handlers interface {
	// HandleScoreSubmitted re-runs the ownership contest of the score's leaderboard.
	HandleScoreSubmitted(ctx context.Context, payload *leaderboardevents.ScoreSubmittedPayloadV1) ([]handlerwrapper.Result, error)
	// HandleScoreRemoved re-runs the contest after a score is deleted or banned.
	HandleScoreRemoved(ctx context.Context, payload *leaderboardevents.ScoreRemovedPayloadV1) ([]handlerwrapper.Result, error)
}
