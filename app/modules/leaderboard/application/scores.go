package leaderboardservice

import (
	"context"
	"errors"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/results"
)

// GetLeaderboardScores returns one page of a leaderboard for a viewer.
func (s *LeaderboardService) GetLeaderboardScores(ctx context.Context, req ScoresRequest) (*ScoresPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Count <= 0 || req.Count > maxReadCount {
		req.Count = maxReadCount
	}

	result, err := withTelemetry(s, ctx, "GetLeaderboardScores", req.LeaderboardID, func(ctx context.Context) (results.OperationResult[*ScoresPage, error], error) {
		return s.getLeaderboardScoresLogic(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

func (s *LeaderboardService) getLeaderboardScoresLogic(ctx context.Context, req ScoresRequest) (results.OperationResult[*ScoresPage, error], error) {
	lb, err := s.repo.GetLeaderboard(ctx, nil, req.LeaderboardID)
	if err != nil {
		if errors.Is(err, leaderboarddb.ErrNotFound) {
			return results.FailureResult[*ScoresPage, error](err), nil
		}
		return results.OperationResult[*ScoresPage, error]{}, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	scores, err := s.repo.GetScoresPage(ctx, nil, req.LeaderboardID, (req.Page-1)*req.Count, req.Count)
	if err != nil {
		return results.OperationResult[*ScoresPage, error]{}, fmt.Errorf("failed to get scores: %w", err)
	}

	snapshot := lb.ToDomain(scores)
	page := &ScoresPage{
		LeaderboardID: lb.ID,
		Status:        lb.Status,
		Plays:         lb.Plays,
		Page:          req.Page,
		Count:         req.Count,
		Projection:    leaderboarddomain.ProjectionNone.String(),
	}

	mode := snapshot.PendingProjection()
	if req.Viewer.Privileged && mode != leaderboarddomain.ProjectionNone {
		views, err := s.project(snapshot, req.Page, req.Count)
		if err == nil {
			page.Projection = mode.String()
			page.Scores = views
			return results.SuccessResult[*ScoresPage, error](page), nil
		}
		s.logger.WarnContext(ctx, "Provisional projection failed, serving persisted scores",
			attr.ExtractCorrelationID(ctx),
			attr.LeaderboardID(lb.ID),
			attr.String("projection", mode.String()),
			attr.Error(err),
		)
	}

	page.Scores = leaderboarddomain.PersistedView(snapshot, req.Page, req.Count)
	return results.SuccessResult[*ScoresPage, error](page), nil
}

// project runs the provisional view, converting a panic in the oracle into an error.
func (s *LeaderboardService) project(snapshot leaderboarddomain.LeaderboardSnapshot, page, count int) (views []leaderboarddomain.ScoreView, err error) {
	defer func() {
		if r := recover(); r != nil {
			views = nil
			err = fmt.Errorf("projection panicked: %v", r)
		}
	}()
	if s.oracle == nil {
		return nil, errors.New("no rating oracle configured")
	}
	return leaderboarddomain.ProvisionalView(snapshot, s.oracle, page, count)
}
