// Package rating is the default pp curve used to score plays against
// difficulty ratings.
package rating

import (
	"math"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
)

type curvePoint struct {
	acc float64
	pp  float64
}

// accCurve maps accuracy to an accuracy multiplier. Sorted by accuracy, descending.
var accCurve = []curvePoint{
	{1.0, 7.424},
	{0.999, 6.241},
	{0.9975, 5.158},
	{0.995, 4.010},
	{0.9925, 3.241},
	{0.99, 2.700},
	{0.9875, 2.303},
	{0.985, 2.007},
	{0.9825, 1.786},
	{0.98, 1.618},
	{0.9775, 1.490},
	{0.975, 1.392},
	{0.9725, 1.315},
	{0.97, 1.256},
	{0.965, 1.167},
	{0.96, 1.101},
	{0.955, 1.047},
	{0.95, 1.000},
	{0.94, 0.919},
	{0.93, 0.851},
	{0.92, 0.792},
	{0.91, 0.740},
	{0.9, 0.692},
	{0.875, 0.588},
	{0.85, 0.502},
	{0.825, 0.430},
	{0.8, 0.366},
	{0.75, 0.259},
	{0.7, 0.172},
	{0.65, 0.107},
	{0.6, 0.059},
	{0.5, 0.0},
	{0.0, 0.0},
}

const (
	inflateScale = 650.0
	inflatePower = 1.3
)

// Oracle is the default leaderboarddomain.RatingOracle.
type Oracle struct{}

var _ leaderboarddomain.RatingOracle = Oracle{}

func New() Oracle { return Oracle{} }

// Curve interpolates the accuracy multiplier for acc.
func Curve(acc float64) float64 {
	i := 0
	for ; i < len(accCurve); i++ {
		if accCurve[i].acc <= acc {
			break
		}
	}
	if i == 0 {
		i = 1
	}
	if i == len(accCurve) {
		return accCurve[len(accCurve)-1].pp
	}

	hi, lo := accCurve[i-1], accCurve[i]
	t := (acc - hi.acc) / (lo.acc - hi.acc)
	return hi.pp + t*(lo.pp-hi.pp)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (Oracle) Ratings(d leaderboarddomain.Difficulty) leaderboarddomain.Ratings {
	r := leaderboarddomain.Ratings{}
	if d.AccRating != nil {
		r.Acc = *d.AccRating
	}
	if d.PassRating != nil {
		r.Pass = *d.PassRating
	}
	if d.TechRating != nil {
		r.Tech = *d.TechRating
	}
	return r
}

// AccRating estimates an accuracy rating. With a predicted accuracy it is
// derived from the curve; without one it falls back to pass and tech.
func (Oracle) AccRating(predictedAcc, passRating, techRating float64) float64 {
	var difficultyToAcc float64
	if predictedAcc > 0 {
		difficultyToAcc = 15 / Curve(predictedAcc+0.0022)
	} else {
		tinyTech := 0.0208*techRating + 1.1284
		difficultyToAcc = (-math.Pow(tinyTech, -passRating)+1)*8 + 2 + 0.01*techRating*passRating
	}
	return finiteOrZero(difficultyToAcc)
}

func components(accuracy float64, r leaderboarddomain.Ratings) (passPP, accPP, techPP float64) {
	passPP = 15.2*math.Exp(math.Pow(r.Pass, 1/2.62)) - 30
	passPP = finiteOrZero(passPP)
	if passPP < 0 {
		passPP = 0
	}
	accPP = Curve(accuracy) * r.Acc * 34
	techPP = math.Exp(1.9*accuracy) * 1.08 * r.Tech
	return passPP, accPP, techPP
}

func inflate(pp float64) float64 {
	if pp <= 0 {
		return 0
	}
	return inflateScale * math.Pow(pp, inflatePower) / math.Pow(inflateScale, inflatePower)
}

// PPFromComponents scores a play. Speed modifiers swap in their dedicated
// ratings; other modifiers scale all three ratings. Bonuses only count when
// the difficulty has no speed ratings, and BonusPP is the pp the positive
// modifiers add over the negative-only multiplier.
func (Oracle) PPFromComponents(
	accuracy float64,
	modifiers string,
	ratings leaderboarddomain.Ratings,
	values leaderboarddomain.ModifiersMap,
	modifiersRating *leaderboarddomain.ModifiersRating,
) leaderboarddomain.PPBreakdown {
	negative := accuracy < 0
	if negative {
		accuracy = -accuracy
	}

	allowPositive := modifiersRating == nil
	if override, ok := modifiersRating.ForModifiers(modifiers); ok {
		ratings = override
	}

	out := score(accuracy, ratings, values.TotalMultiplier(modifiers, allowPositive))
	if allowPositive {
		base := score(accuracy, ratings, values.NegativeMultiplier(modifiers))
		out.BonusPP = max(out.PP-base.PP, 0)
	}
	if negative {
		out.PP = -out.PP
		out.BonusPP = -out.BonusPP
	}

	out.PP = finiteOrZero(out.PP)
	out.BonusPP = finiteOrZero(out.BonusPP)
	return out
}

func score(accuracy float64, ratings leaderboarddomain.Ratings, mp float64) leaderboarddomain.PPBreakdown {
	ratings.Acc *= mp
	ratings.Pass *= mp
	ratings.Tech *= mp

	passPP, accPP, techPP := components(accuracy, ratings)
	return leaderboarddomain.PPBreakdown{
		PP:     inflate(passPP + accPP + techPP),
		PassPP: passPP,
		AccPP:  accPP,
		TechPP: techPP,
	}
}

// MaxScoreForNotes is the best possible score for a map with the given note
// count, accounting for the combo multiplier ramp (x1, x2, x4, x8).
func (Oracle) MaxScoreForNotes(notes int) int {
	const noteScore = 115
	switch {
	case notes <= 0:
		return 0
	case notes <= 1:
		return noteScore
	case notes <= 5:
		return noteScore + (notes-1)*noteScore*2
	case notes <= 13:
		return noteScore + 4*noteScore*2 + (notes-5)*noteScore*4
	default:
		return noteScore + 4*noteScore*2 + 8*noteScore*4 + (notes-13)*noteScore*8
	}
}
