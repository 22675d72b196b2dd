package leaderboarddomain

import (
	"cmp"
	"errors"
	"math"
	"slices"
)

// ErrNoPendingChange is returned when a provisional view is requested for a
// leaderboard without an unfinished reweight or a nomination.
var ErrNoPendingChange = errors.New("leaderboard has no pending rating change")

// ScoreView is one score as returned to a reader.
type ScoreView struct {
	ScoreID       int64
	PlayerID      string
	ModifiedScore int
	Accuracy      float64
	PP            float64
	BonusPP       float64
	PassPP        float64
	AccPP         float64
	TechPP        float64
	Rank          int
	Modifiers     string
	Timeset       int64
	Provisional   bool
}

func rankOffset(page, count int) int {
	if page < 1 || count < 0 {
		return 0
	}
	return (page - 1) * count
}

// PersistedView returns the stored values of a page of scores. Scores that
// have never been ranked fall back to their position on the page.
func PersistedView(lb LeaderboardSnapshot, page, count int) []ScoreView {
	offset := rankOffset(page, count)
	views := make([]ScoreView, len(lb.Scores))
	for i, s := range lb.Scores {
		rank := s.Rank
		if rank <= 0 {
			rank = offset + i + 1
		}
		views[i] = ScoreView{
			ScoreID:       s.ID,
			PlayerID:      s.PlayerID,
			ModifiedScore: s.ModifiedScore,
			Accuracy:      s.Accuracy,
			PP:            s.PP,
			BonusPP:       s.BonusPP,
			PassPP:        s.PassPP,
			AccPP:         s.AccPP,
			TechPP:        s.TechPP,
			Rank:          rank,
			Modifiers:     s.Modifiers,
			Timeset:       s.Timeset,
		}
	}
	return views
}

// ProvisionalView recomputes a page of scores as they would stand once the
// pending rating change lands. Views keep the input order; Rank reflects the
// projected pp order offset by the requested page.
func ProvisionalView(lb LeaderboardSnapshot, oracle RatingOracle, page, count int) ([]ScoreView, error) {
	var (
		ratings    Ratings
		values     ModifiersMap
		modRatings *ModifiersRating
	)

	switch lb.PendingProjection() {
	case ProjectionReweight:
		rw := lb.Reweight
		pass := valueOrZero(rw.PassRating)
		tech := valueOrZero(rw.TechRating)
		ratings = Ratings{
			Acc:  oracle.AccRating(valueOrZero(rw.PredictedAcc), pass, tech),
			Pass: pass,
			Tech: tech,
		}
		values = rw.Modifiers
		modRatings = rw.ModifiersRating
	case ProjectionQualification:
		ratings = oracle.Ratings(lb.Difficulty)
		values = lb.Qualification.Modifiers
		modRatings = lb.Qualification.ModifiersRating
	default:
		return nil, ErrNoPendingChange
	}

	maxScore := lb.Difficulty.MaxScore
	if maxScore <= 0 {
		maxScore = oracle.MaxScoreForNotes(lb.Difficulty.Notes)
	}

	views := make([]ScoreView, len(lb.Scores))
	for i, s := range lb.Scores {
		modified := int(math.Floor(float64(s.BaseScore) * values.NegativeMultiplier(s.Modifiers)))

		accuracy := 0.0
		if maxScore > 0 {
			accuracy = float64(modified) / float64(maxScore)
		}

		pp := oracle.PPFromComponents(accuracy, s.Modifiers, ratings, values, modRatings)

		views[i] = ScoreView{
			ScoreID:       s.ID,
			PlayerID:      s.PlayerID,
			ModifiedScore: modified,
			Accuracy:      accuracy,
			PP:            pp.PP,
			BonusPP:       pp.BonusPP,
			PassPP:        pp.PassPP,
			AccPP:         pp.AccPP,
			TechPP:        pp.TechPP,
			Modifiers:     s.Modifiers,
			Timeset:       s.Timeset,
			Provisional:   true,
		}
	}

	order := make([]int, len(views))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(views[b].PP, views[a].PP)
	})

	offset := rankOffset(page, count)
	for pos, idx := range order {
		views[idx].Rank = offset + pos + 1
	}

	return views, nil
}
