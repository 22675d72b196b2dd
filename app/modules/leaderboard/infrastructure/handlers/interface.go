package leaderboardhandlers

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/handlerwrapper"
)

// Handlers defines the interface for leaderboard event handlers.
type Handlers interface {
	// HandleAttemptRecorded buffers a play attempt for the stats queue.
	HandleAttemptRecorded(ctx context.Context, payload *leaderboardevents.AttemptRecordedPayloadV1) ([]handlerwrapper.Result, error)
}

// AttemptQueue accepts attempts for deferred persistence.
type AttemptQueue interface {
	Enqueue(ctx context.Context, a leaderboarddomain.Attempt) error
}
