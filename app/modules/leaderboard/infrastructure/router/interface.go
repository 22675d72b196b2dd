package leaderboardrouter

import (
	"context"

	leaderboardhandlers "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/handlers"
)

// Router wires leaderboard handlers to their subjects.
type Router interface {
	Configure(ctx context.Context, handlers leaderboardhandlers.Handlers) error
	Close() error
}
