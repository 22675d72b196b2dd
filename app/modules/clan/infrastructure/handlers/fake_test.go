package clanhandlers

import (
	"context"

	clanservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/application"
)

// FakeClanService implements clanservice.Service for handler testing.
type FakeClanService struct {
	trace []string

	ResolveOwnerFunc func(ctx context.Context, leaderboardID string) (*clanservice.OwnershipResult, error)
	RefreshClansFunc func(ctx context.Context) (clanservice.RefreshSummary, error)
}

var _ clanservice.Service = (*FakeClanService)(nil)

func NewFakeClanService() *FakeClanService {
	return &FakeClanService{trace: []string{}}
}

func (f *FakeClanService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeClanService) Trace() []string {
	return f.trace
}

func (f *FakeClanService) ResolveOwner(ctx context.Context, leaderboardID string) (*clanservice.OwnershipResult, error) {
	f.record("ResolveOwner")
	if f.ResolveOwnerFunc != nil {
		return f.ResolveOwnerFunc(ctx, leaderboardID)
	}
	return &clanservice.OwnershipResult{LeaderboardID: leaderboardID, Outcome: "unclaimed"}, nil
}

func (f *FakeClanService) RefreshClans(ctx context.Context) (clanservice.RefreshSummary, error) {
	f.record("RefreshClans")
	if f.RefreshClansFunc != nil {
		return f.RefreshClansFunc(ctx)
	}
	return clanservice.RefreshSummary{}, nil
}
