package clandomain

import (
	"cmp"
	"slices"
)

// ContestDecay is applied to a clan's weight for every further score it
// contributes on the same leaderboard.
const ContestDecay = 0.9

// Outcome is the result of a leaderboard ownership contest.
type Outcome int

const (
	OutcomeUnclaimed Outcome = iota
	OutcomeOwned
	OutcomeContested
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOwned:
		return "owned"
	case OutcomeContested:
		return "contested"
	default:
		return "unclaimed"
	}
}

// ClanRef identifies a clan.
type ClanRef struct {
	ID  int64
	Tag string
}

// ContestScore is one non-banned score with the clans its player belongs to.
type ContestScore struct {
	ScoreID int64
	PP      float64
	Clans   []ClanRef
}

// Standing is a clan's weighted claim on a leaderboard.
type Standing struct {
	Clan        ClanRef
	Accumulated float64
	Weight      float64
}

// ContestResult is the outcome of ResolveContest. Owner is set only for
// OutcomeOwned.
type ContestResult struct {
	Outcome   Outcome
	Owner     *ClanRef
	Standings []Standing
}

// ResolveContest decides which clan owns a leaderboard. Scores are walked in
// descending pp order; a clan's first score counts in full and every further
// score counts at a weight decayed by ContestDecay. A unique maximum wins, an
// exact tie at the maximum is contested and no positive claim is unclaimed.
func ResolveContest(scores []ContestScore) ContestResult {
	ordered := slices.Clone(scores)
	slices.SortStableFunc(ordered, func(a, b ContestScore) int {
		return cmp.Compare(b.PP, a.PP)
	})

	byClan := make(map[int64]*Standing)
	var seen []int64
	for _, s := range ordered {
		for _, c := range s.Clans {
			st, ok := byClan[c.ID]
			if !ok {
				byClan[c.ID] = &Standing{Clan: c, Accumulated: s.PP, Weight: 1}
				seen = append(seen, c.ID)
				continue
			}
			st.Weight *= ContestDecay
			st.Accumulated += s.PP * st.Weight
		}
	}

	standings := make([]Standing, 0, len(seen))
	for _, id := range seen {
		standings = append(standings, *byClan[id])
	}
	slices.SortStableFunc(standings, func(a, b Standing) int {
		if c := cmp.Compare(b.Accumulated, a.Accumulated); c != 0 {
			return c
		}
		return cmp.Compare(a.Clan.Tag, b.Clan.Tag)
	})

	result := ContestResult{Outcome: OutcomeUnclaimed, Standings: standings}
	if len(standings) == 0 || standings[0].Accumulated <= 0 {
		return result
	}
	if len(standings) > 1 && standings[1].Accumulated == standings[0].Accumulated {
		result.Outcome = OutcomeContested
		return result
	}

	owner := standings[0].Clan
	result.Outcome = OutcomeOwned
	result.Owner = &owner
	return result
}

// Transfer describes the writes needed to move ownership from the previous
// owner to the contest result.
type Transfer struct {
	Previous *int64
	Next     *int64
	// Decrement and Increment name the clans whose owned-leaderboard counters
	// change by one.
	Decrement *int64
	Increment *int64
}

// Changed reports whether the owning clan pointer moves.
func (t Transfer) Changed() bool {
	return !sameClan(t.Previous, t.Next)
}

// PlanTransfer computes the counter and pointer updates for a contest result.
// Losing ownership to a tie or to nobody still costs the previous owner its
// counter.
func PlanTransfer(previous *int64, result ContestResult) Transfer {
	t := Transfer{Previous: previous}
	if result.Outcome == OutcomeOwned {
		next := result.Owner.ID
		t.Next = &next
	}
	if !t.Changed() {
		return t
	}
	t.Decrement = previous
	t.Increment = t.Next
	return t
}

func sameClan(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
