package leaderboardservice

import (
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/results"
	"github.com/uptrace/bun"
)

const rankRefreshJob = "rank_refresh"

// pageResult is what one committed refresh page wrote.
type pageResult struct {
	leaderboards int
	scores       int
}

// RefreshRanks recomputes ranks and plays page by page.
func (s *LeaderboardService) RefreshRanks(ctx context.Context, filter leaderboarddb.LeaderboardFilter) (RefreshSummary, error) {
	identifier := filter.LeaderboardID
	if identifier == "" {
		identifier = "all"
	}

	result, err := withTelemetry(s, ctx, "RefreshRanks", identifier, func(ctx context.Context) (results.OperationResult[RefreshSummary, error], error) {
		return s.refreshRanksLogic(ctx, filter)
	})
	if err != nil {
		return RefreshSummary{}, err
	}
	return *result.Success, nil
}

func (s *LeaderboardService) refreshRanksLogic(ctx context.Context, filter leaderboarddb.LeaderboardFilter) (results.OperationResult[RefreshSummary, error], error) {
	total, err := s.repo.CountLeaderboards(ctx, nil, filter)
	if err != nil {
		return results.OperationResult[RefreshSummary, error]{}, fmt.Errorf("failed to count leaderboards: %w", err)
	}

	summary := RefreshSummary{}
	for offset := 0; offset < total; offset += s.pageSize {
		if offset > 0 && s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return results.OperationResult[RefreshSummary, error]{}, fmt.Errorf("refresh interrupted: %w", err)
			}
		}

		summary.Pages++
		page, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[pageResult, error], error) {
			return s.refreshPage(ctx, db, filter, offset)
		})
		if err != nil {
			// The page transaction has been rolled back; the next scheduled run corrects it.
			summary.FailedPages++
			if s.metrics != nil {
				s.metrics.RecordPageFailed(ctx, rankRefreshJob)
			}
			s.logger.WarnContext(ctx, "Rank refresh page failed, skipping",
				attr.ExtractCorrelationID(ctx),
				attr.Int("offset", offset),
				attr.Int("page_size", s.pageSize),
				attr.Error(err),
			)
			continue
		}

		summary.Leaderboards += page.Success.leaderboards
		summary.ScoresRanked += page.Success.scores
		if s.metrics != nil {
			s.metrics.RecordPageCommitted(ctx, rankRefreshJob, page.Success.scores)
		}
	}

	s.logger.InfoContext(ctx, "Rank refresh finished",
		attr.ExtractCorrelationID(ctx),
		attr.Int("leaderboards", summary.Leaderboards),
		attr.Int("pages", summary.Pages),
		attr.Int("failed_pages", summary.FailedPages),
		attr.Int("scores_ranked", summary.ScoresRanked),
	)

	return results.SuccessResult[RefreshSummary, error](summary), nil
}

// refreshPage ranks every leaderboard of one page and writes ranks and plays.
func (s *LeaderboardService) refreshPage(ctx context.Context, db bun.IDB, filter leaderboarddb.LeaderboardFilter, offset int) (results.OperationResult[pageResult, error], error) {
	leaderboards, err := s.repo.ListLeaderboards(ctx, db, filter, offset, s.pageSize)
	if err != nil {
		return results.OperationResult[pageResult, error]{}, fmt.Errorf("failed to list leaderboards: %w", err)
	}
	if len(leaderboards) == 0 {
		return results.SuccessResult[pageResult, error](pageResult{}), nil
	}

	ids := make([]string, len(leaderboards))
	for i, lb := range leaderboards {
		ids[i] = lb.ID
	}

	scores, err := s.repo.ListRankableScores(ctx, db, ids)
	if err != nil {
		return results.OperationResult[pageResult, error]{}, fmt.Errorf("failed to list scores: %w", err)
	}

	byLeaderboard := make(map[string][]leaderboarddomain.RankEntry, len(leaderboards))
	for _, sc := range scores {
		byLeaderboard[sc.LeaderboardID] = append(byLeaderboard[sc.LeaderboardID], sc.RankEntry())
	}

	rankUpdates := make([]leaderboarddb.Score, 0, len(scores))
	playUpdates := make([]leaderboarddb.Leaderboard, 0, len(leaderboards))
	for _, lb := range leaderboards {
		entries := byLeaderboard[lb.ID]
		for _, a := range leaderboarddomain.AssignRanks(entries, lb.Status) {
			rankUpdates = append(rankUpdates, leaderboarddb.Score{ID: a.ScoreID, Rank: a.Rank})
		}
		playUpdates = append(playUpdates, leaderboarddb.Leaderboard{ID: lb.ID, Plays: len(entries)})
	}

	if err := s.repo.UpdateScoreRanks(ctx, db, rankUpdates); err != nil {
		return results.OperationResult[pageResult, error]{}, fmt.Errorf("failed to update ranks: %w", err)
	}
	if err := s.repo.UpdatePlays(ctx, db, playUpdates); err != nil {
		return results.OperationResult[pageResult, error]{}, fmt.Errorf("failed to update plays: %w", err)
	}

	return results.SuccessResult[pageResult, error](pageResult{
		leaderboards: len(leaderboards),
		scores:       len(rankUpdates),
	}), nil
}
