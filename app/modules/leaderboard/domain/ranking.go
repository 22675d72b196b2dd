package leaderboarddomain

import (
	"cmp"
	"slices"
)

// RankEntry is the slice of a score needed to order it within its leaderboard.
type RankEntry struct {
	ScoreID       int64
	PP            float64
	Accuracy      float64
	ModifiedScore int
	// Timeset is the submission time in unix seconds.
	Timeset int64
}

// RankAssignment is the computed rank for one score.
type RankAssignment struct {
	ScoreID int64
	Rank    int
}

// Comparator orders two entries. Negative means a ranks ahead of b.
type Comparator func(a, b RankEntry) int

// ByPPDesc puts higher pp first.
func ByPPDesc(a, b RankEntry) int { return cmp.Compare(b.PP, a.PP) }

// ByModifiedScoreDesc puts higher modified score first.
func ByModifiedScoreDesc(a, b RankEntry) int { return cmp.Compare(b.ModifiedScore, a.ModifiedScore) }

// ByAccuracyDesc puts higher accuracy first.
func ByAccuracyDesc(a, b RankEntry) int { return cmp.Compare(b.Accuracy, a.Accuracy) }

// ByTimesetAsc puts the earlier submission first.
func ByTimesetAsc(a, b RankEntry) int { return cmp.Compare(a.Timeset, b.Timeset) }

// TieBreakers are applied, in order, after the primary key.
var TieBreakers = []Comparator{ByAccuracyDesc, ByTimesetAsc}

// PrimaryComparator returns the comparator for a sort key.
func PrimaryComparator(key SortKey) Comparator {
	if key == SortByPP {
		return ByPPDesc
	}
	return ByModifiedScoreDesc
}

// OrderFor chains the primary comparator with the tie-breakers.
func OrderFor(key SortKey) Comparator {
	chain := append([]Comparator{PrimaryComparator(key)}, TieBreakers...)
	return func(a, b RankEntry) int {
		for _, c := range chain {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}

// OrderEntries returns a sorted copy of entries. The input is left untouched.
func OrderEntries(entries []RankEntry, key SortKey) []RankEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, OrderFor(key))
	return sorted
}

// AssignRanks orders entries for the given status and numbers them 1..N.
func AssignRanks(entries []RankEntry, status DifficultyStatus) []RankAssignment {
	if len(entries) == 0 {
		return nil
	}

	sorted := OrderEntries(entries, SortKeyFor(status))
	out := make([]RankAssignment, len(sorted))
	for i, e := range sorted {
		out[i] = RankAssignment{ScoreID: e.ScoreID, Rank: i + 1}
	}
	return out
}
