package leaderboardhandlers

import (
	"context"
	"fmt"

	leaderboardevents "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/handlerwrapper"
)

// HandleAttemptRecorded enqueues the attempt. A full queue returns an error so
// the message is redelivered later instead of being lost.
func (h *LeaderboardHandlers) HandleAttemptRecorded(
	ctx context.Context,
	payload *leaderboardevents.AttemptRecordedPayloadV1,
) ([]handlerwrapper.Result, error) {
	if payload.LeaderboardID == "" || payload.PlayerID == "" {
		h.logger.WarnContext(ctx, "Dropping attempt without leaderboard or player",
			attr.ExtractCorrelationID(ctx),
			attr.LeaderboardID(payload.LeaderboardID),
			attr.String("player_id", payload.PlayerID),
		)
		return nil, nil
	}

	if err := h.queue.Enqueue(ctx, payload.Attempt); err != nil {
		return nil, fmt.Errorf("failed to enqueue attempt for %s: %w", payload.LeaderboardID, err)
	}

	h.logger.DebugContext(ctx, "Attempt enqueued",
		attr.ExtractCorrelationID(ctx),
		attr.LeaderboardID(payload.LeaderboardID),
		attr.String("player_id", payload.PlayerID),
	)
	return nil, nil
}
