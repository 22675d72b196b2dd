package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
)

// Service defines the contract for leaderboard ranking operations.
type Service interface {
	// RefreshRanks recomputes score ranks and play counts for every leaderboard
	// matching filter, one page of leaderboards per transaction. A failed page
	// is rolled back and skipped; the run carries on with the next page.
	RefreshRanks(ctx context.Context, filter leaderboarddb.LeaderboardFilter) (RefreshSummary, error)

	// GetLeaderboardScores returns a page of scores. Privileged viewers of a
	// leaderboard with a pending rating change get a provisional projection.
	GetLeaderboardScores(ctx context.Context, req ScoresRequest) (*ScoresPage, error)

	// RecordAttempts persists a batch of attempt stats in one transaction.
	RecordAttempts(ctx context.Context, attempts []leaderboarddomain.Attempt) (AttemptsSummary, error)
}
