package clandomain

import (
	"cmp"
	"math"
	"slices"
)

// ClanPPDecay weights the i-th best member of a clan by ClanPPDecay^i.
const ClanPPDecay = 0.965

// Member is a non-banned clan member's standing.
type Member struct {
	PlayerID              string
	PP                    float64
	Rank                  int
	AverageRankedAccuracy float64
}

// Aggregate is a clan's summary across its members.
type Aggregate struct {
	PP              float64
	AverageAccuracy float64
	AverageRank     float64
	PlayersCount    int
}

// AggregateClan summarises members. It returns false for an empty clan,
// which callers leave untouched.
func AggregateClan(members []Member) (Aggregate, bool) {
	if len(members) == 0 {
		return Aggregate{}, false
	}

	ordered := slices.Clone(members)
	slices.SortStableFunc(ordered, func(a, b Member) int {
		return cmp.Compare(b.PP, a.PP)
	})

	var agg Aggregate
	var accSum, rankSum float64
	for i, m := range ordered {
		agg.PP += m.PP * math.Pow(ClanPPDecay, float64(i))
		accSum += m.AverageRankedAccuracy
		rankSum += float64(m.Rank)
	}
	n := float64(len(ordered))
	agg.AverageAccuracy = accSum / n
	agg.AverageRank = rankSum / n
	agg.PlayersCount = len(ordered)
	return agg, true
}
