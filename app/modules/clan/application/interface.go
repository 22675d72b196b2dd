package clanservice

import "context"

// Service defines the clan ownership and summary operations.
type Service interface {
	// ResolveOwner re-runs the ownership contest for one leaderboard.
	ResolveOwner(ctx context.Context, leaderboardID string) (*OwnershipResult, error)
	// RefreshClans recomputes every clan's aggregate pp, accuracy and rank.
	RefreshClans(ctx context.Context) (RefreshSummary, error)
}
