package clanservice

import (
	"context"
	"errors"
	"fmt"

	clandomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/domain"
	clandb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/repositories"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/results"
	"github.com/uptrace/bun"
)

// ResolveOwner recomputes which clan owns a leaderboard and moves the owned
// counters. The read-modify-write runs under a per-leaderboard lock.
func (s *ClanService) ResolveOwner(ctx context.Context, leaderboardID string) (*OwnershipResult, error) {
	resolveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*OwnershipResult, error], error) {
		return s.resolveOwnerLogic(ctx, db, leaderboardID)
	}

	result, err := withTelemetry(s, ctx, "ResolveOwner", leaderboardID, func(ctx context.Context) (results.OperationResult[*OwnershipResult, error], error) {
		return runInTx(s, ctx, resolveTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

func (s *ClanService) resolveOwnerLogic(ctx context.Context, db bun.IDB, leaderboardID string) (results.OperationResult[*OwnershipResult, error], error) {
	if err := s.repo.AcquireLeaderboardLock(ctx, db, leaderboardID); err != nil {
		return results.OperationResult[*OwnershipResult, error]{}, fmt.Errorf("failed to lock leaderboard: %w", err)
	}

	previous, err := s.repo.GetLeaderboardOwner(ctx, db, leaderboardID)
	if err != nil {
		if errors.Is(err, clandb.ErrNotFound) {
			return results.FailureResult[*OwnershipResult, error](err), nil
		}
		return results.OperationResult[*OwnershipResult, error]{}, fmt.Errorf("failed to get owner: %w", err)
	}

	rows, err := s.repo.ListContestRows(ctx, db, leaderboardID)
	if err != nil {
		return results.OperationResult[*OwnershipResult, error]{}, fmt.Errorf("failed to list contest scores: %w", err)
	}

	contest := clandomain.ResolveContest(clandb.ContestScores(rows))
	transfer := clandomain.PlanTransfer(previous, contest)

	out := &OwnershipResult{
		LeaderboardID:  leaderboardID,
		Outcome:        contest.Outcome.String(),
		PreviousClanID: previous,
		OwningClanID:   transfer.Next,
		Changed:        transfer.Changed(),
	}
	if contest.Owner != nil {
		out.OwningClanTag = contest.Owner.Tag
	}

	if s.metrics != nil {
		s.metrics.RecordOwnershipOutcome(ctx, out.Outcome)
	}
	if !transfer.Changed() {
		return results.SuccessResult[*OwnershipResult, error](out), nil
	}

	if err := s.repo.SetLeaderboardOwner(ctx, db, leaderboardID, transfer.Next); err != nil {
		return results.OperationResult[*OwnershipResult, error]{}, fmt.Errorf("failed to set owner: %w", err)
	}
	if transfer.Decrement != nil {
		if err := s.adjust(ctx, db, *transfer.Decrement, -1); err != nil {
			return results.OperationResult[*OwnershipResult, error]{}, err
		}
	}
	if transfer.Increment != nil {
		if err := s.adjust(ctx, db, *transfer.Increment, 1); err != nil {
			return results.OperationResult[*OwnershipResult, error]{}, err
		}
	}

	s.logger.InfoContext(ctx, "Leaderboard ownership changed",
		attr.ExtractCorrelationID(ctx),
		attr.LeaderboardID(leaderboardID),
		attr.String("outcome", out.Outcome),
		attr.ClanTag(out.OwningClanTag),
	)
	return results.SuccessResult[*OwnershipResult, error](out), nil
}

// adjust moves a clan's owned counter. A clan that no longer exists has no
// counter to keep.
func (s *ClanService) adjust(ctx context.Context, db bun.IDB, clanID int64, delta int) error {
	err := s.repo.AdjustOwnedCount(ctx, db, clanID, delta)
	if errors.Is(err, clandb.ErrNoRowsAffected) {
		s.logger.WarnContext(ctx, "Owned counter target missing",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("clan_id", clanID),
			attr.Int("delta", delta),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to adjust owned count: %w", err)
	}
	return nil
}
