package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/results"
	"github.com/uptrace/bun"
)

// RecordAttempts stores a batch of attempts and bumps the play counters.
func (s *LeaderboardService) RecordAttempts(ctx context.Context, attempts []leaderboarddomain.Attempt) (AttemptsSummary, error) {
	if len(attempts) == 0 {
		return AttemptsSummary{}, nil
	}

	recordTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[AttemptsSummary, error], error) {
		return s.recordAttemptsLogic(ctx, db, attempts)
	}

	result, err := withTelemetry(s, ctx, "RecordAttempts", fmt.Sprintf("batch:%d", len(attempts)), func(ctx context.Context) (results.OperationResult[AttemptsSummary, error], error) {
		return runInTx(s, ctx, recordTx)
	})
	if err != nil {
		return AttemptsSummary{}, err
	}
	return *result.Success, nil
}

func (s *LeaderboardService) recordAttemptsLogic(ctx context.Context, db bun.IDB, attempts []leaderboarddomain.Attempt) (results.OperationResult[AttemptsSummary, error], error) {
	summary := AttemptsSummary{Received: len(attempts)}

	seen := make(map[leaderboarddomain.AttemptKey]struct{}, len(attempts))
	accepted := make([]leaderboarddomain.Attempt, 0, len(attempts))
	perLeaderboard := make(map[string]int)

	for _, a := range attempts {
		key := a.Key()
		if _, dup := seen[key]; dup {
			summary.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		exists, err := s.repo.StatsExist(ctx, db, a.LeaderboardID, a.PlayerID, a.Score)
		if err != nil {
			return results.OperationResult[AttemptsSummary, error]{}, fmt.Errorf("failed to check existing stats: %w", err)
		}
		if exists {
			summary.Duplicates++
			continue
		}

		accepted = append(accepted, a)
		perLeaderboard[a.LeaderboardID]++
	}

	missing := make(map[string]bool)
	leaderboardIDs := make([]string, 0, len(perLeaderboard))
	for id := range perLeaderboard {
		leaderboardIDs = append(leaderboardIDs, id)
	}
	slices.Sort(leaderboardIDs)

	for _, id := range leaderboardIDs {
		err := s.repo.IncrementPlayCount(ctx, db, id, perLeaderboard[id])
		if errors.Is(err, leaderboarddb.ErrNoRowsAffected) {
			s.logger.WarnContext(ctx, "Dropping attempts for unknown leaderboard",
				attr.ExtractCorrelationID(ctx),
				attr.LeaderboardID(id),
				attr.Int("attempts", perLeaderboard[id]),
			)
			missing[id] = true
			summary.Dropped += perLeaderboard[id]
			continue
		}
		if err != nil {
			return results.OperationResult[AttemptsSummary, error]{}, fmt.Errorf("failed to increment play count: %w", err)
		}
	}

	now := time.Now().UTC().Unix()
	rows := make([]leaderboarddb.PlayerLeaderboardStats, 0, len(accepted))
	for _, a := range accepted {
		if missing[a.LeaderboardID] {
			continue
		}
		if err := s.repo.IncrementScorePlayCount(ctx, db, a.LeaderboardID, a.PlayerID); err != nil {
			return results.OperationResult[AttemptsSummary, error]{}, fmt.Errorf("failed to increment score play count: %w", err)
		}

		timeset := a.Timeset
		if timeset == 0 {
			timeset = now
		}
		rows = append(rows, leaderboarddb.PlayerLeaderboardStats{
			LeaderboardID: a.LeaderboardID,
			PlayerID:      a.PlayerID,
			Score:         a.Score,
			Accuracy:      a.Accuracy,
			Modifiers:     a.Modifiers,
			Timeset:       timeset,
			Time:          a.Time,
			Type:          a.Type,
			Replay:        a.ReplayFile,
		})
	}

	if err := s.repo.InsertPlayerStats(ctx, db, rows); err != nil {
		return results.OperationResult[AttemptsSummary, error]{}, fmt.Errorf("failed to insert stats: %w", err)
	}

	summary.Recorded = len(rows)
	return results.SuccessResult[AttemptsSummary, error](summary), nil
}
