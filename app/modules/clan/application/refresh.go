package clanservice

import (
	"context"
	"fmt"

	clandomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/domain"
	clandb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/repositories"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/results"
	"github.com/uptrace/bun"
)

const clanRefreshJob = "clan_refresh"

type pageResult struct {
	updated int
	skipped int
}

// RefreshClans recomputes clan aggregates, committing each page of clans on
// its own.
func (s *ClanService) RefreshClans(ctx context.Context) (RefreshSummary, error) {
	result, err := withTelemetry(s, ctx, "RefreshClans", "all", func(ctx context.Context) (results.OperationResult[RefreshSummary, error], error) {
		return s.refreshClansLogic(ctx)
	})
	if err != nil {
		return RefreshSummary{}, err
	}
	return *result.Success, nil
}

func (s *ClanService) refreshClansLogic(ctx context.Context) (results.OperationResult[RefreshSummary, error], error) {
	total, err := s.repo.CountClans(ctx, nil)
	if err != nil {
		return results.OperationResult[RefreshSummary, error]{}, fmt.Errorf("failed to count clans: %w", err)
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
			return s.refreshPage(ctx, db, offset)
		})
		if err != nil {
			summary.FailedPages++
			if s.metrics != nil {
				s.metrics.RecordPageFailed(ctx, clanRefreshJob)
			}
			s.logger.WarnContext(ctx, "Clan refresh page failed, skipping",
				attr.ExtractCorrelationID(ctx),
				attr.Int("offset", offset),
				attr.Error(err),
			)
			continue
		}

		summary.Clans += page.Success.updated + page.Success.skipped
		summary.Updated += page.Success.updated
		summary.Skipped += page.Success.skipped
		if s.metrics != nil {
			s.metrics.RecordPageCommitted(ctx, clanRefreshJob, page.Success.updated)
		}
	}

	s.logger.InfoContext(ctx, "Clan refresh finished",
		attr.ExtractCorrelationID(ctx),
		attr.Int("clans", summary.Clans),
		attr.Int("updated", summary.Updated),
		attr.Int("skipped", summary.Skipped),
		attr.Int("failed_pages", summary.FailedPages),
	)

	return results.SuccessResult[RefreshSummary, error](summary), nil
}

func (s *ClanService) refreshPage(ctx context.Context, db bun.IDB, offset int) (results.OperationResult[pageResult, error], error) {
	clans, err := s.repo.ListClans(ctx, db, offset, s.pageSize)
	if err != nil {
		return results.OperationResult[pageResult, error]{}, fmt.Errorf("failed to list clans: %w", err)
	}
	if len(clans) == 0 {
		return results.SuccessResult[pageResult, error](pageResult{}), nil
	}

	ids := make([]int64, len(clans))
	for i, c := range clans {
		ids[i] = c.ID
	}
	rows, err := s.repo.ListMembers(ctx, db, ids)
	if err != nil {
		return results.OperationResult[pageResult, error]{}, fmt.Errorf("failed to list members: %w", err)
	}

	members := make(map[int64][]clandomain.Member, len(clans))
	for _, r := range rows {
		members[r.ClanID] = append(members[r.ClanID], r.ToDomain())
	}

	var res pageResult
	updates := make([]clandb.Clan, 0, len(clans))
	for _, c := range clans {
		agg, ok := clandomain.AggregateClan(members[c.ID])
		if !ok {
			res.skipped++
			continue
		}
		c.PP = agg.PP
		c.AverageAccuracy = agg.AverageAccuracy
		c.AverageRank = agg.AverageRank
		c.PlayersCount = agg.PlayersCount
		updates = append(updates, c)
	}

	if err := s.repo.UpdateAggregates(ctx, db, updates); err != nil {
		return results.OperationResult[pageResult, error]{}, fmt.Errorf("failed to update clans: %w", err)
	}
	res.updated = len(updates)
	return results.SuccessResult[pageResult, error](res), nil
}
