package leaderboardhandlers

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// LeaderboardHandlers handles leaderboard-related events.
type LeaderboardHandlers struct {
	queue  AttemptQueue
	logger *slog.Logger
	tracer trace.Tracer
}

// NewLeaderboardHandlers creates a new instance of LeaderboardHandlers.
func NewLeaderboardHandlers(queue AttemptQueue, logger *slog.Logger, tracer trace.Tracer) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardHandlers{
		queue:  queue,
		logger: logger,
		tracer: tracer,
	}
}
