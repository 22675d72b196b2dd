package clanhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	clanservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/application"
	clanevents "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/domain/events"
	clandb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/repositories"
	leaderboardevents "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// ClanHandlers handles score events that can move clan ownership.
type ClanHandlers struct {
	service clanservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClanHandlers creates a new instance of ClanHandlers.
func NewClanHandlers(service clanservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClanHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (h *ClanHandlers) HandleScoreSubmitted(ctx context.Context, payload *leaderboardevents.ScoreSubmittedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.resolve(ctx, payload.LeaderboardID, "score_submitted")
}

func (h *ClanHandlers) HandleScoreRemoved(ctx context.Context, payload *leaderboardevents.ScoreRemovedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.resolve(ctx, payload.LeaderboardID, "score_removed")
}

// resolve runs the contest and emits an ownership change event when the
// owner moved. Unknown leaderboards are acked without retry.
func (h *ClanHandlers) resolve(ctx context.Context, leaderboardID, trigger string) ([]handlerwrapper.Result, error) {
	if leaderboardID == "" {
		h.logger.WarnContext(ctx, "Ignoring score event without leaderboard id",
			attr.ExtractCorrelationID(ctx),
			attr.String("trigger", trigger),
		)
		return nil, nil
	}

	res, err := h.service.ResolveOwner(ctx, leaderboardID)
	if err != nil {
		if errors.Is(err, clandb.ErrNotFound) {
			h.logger.WarnContext(ctx, "Leaderboard not found for ownership contest",
				attr.ExtractCorrelationID(ctx),
				attr.LeaderboardID(leaderboardID),
				attr.String("trigger", trigger),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve owner of %s: %w", leaderboardID, err)
	}

	if !res.Changed {
		return nil, nil
	}

	h.logger.InfoContext(ctx, "Leaderboard ownership changed",
		attr.ExtractCorrelationID(ctx),
		attr.LeaderboardID(leaderboardID),
		attr.String("outcome", res.Outcome),
		attr.ClanTag(res.OwningClanTag),
	)

	return []handlerwrapper.Result{{
		Topic: clanevents.OwnershipChangedV1,
		Payload: clanevents.OwnershipChangedPayloadV1{
			LeaderboardID:  res.LeaderboardID,
			Outcome:        res.Outcome,
			PreviousClanID: res.PreviousClanID,
			OwningClanID:   res.OwningClanID,
			OwningClanTag:  res.OwningClanTag,
		},
	}}, nil
}
