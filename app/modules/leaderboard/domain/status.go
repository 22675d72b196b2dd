package leaderboarddomain

// DifficultyStatus is the lifecycle state of a leaderboard's difficulty.
type DifficultyStatus string

const (
	StatusUnranked   DifficultyStatus = "unranked"
	StatusNominated  DifficultyStatus = "nominated"
	StatusQualified  DifficultyStatus = "qualified"
	StatusRanked     DifficultyStatus = "ranked"
	StatusUnrankable DifficultyStatus = "unrankable"
	StatusOutdated   DifficultyStatus = "outdated"
	StatusInEvent    DifficultyStatus = "inevent"
	StatusOST        DifficultyStatus = "OST"
)

// Valid reports whether s is one of the known statuses.
func (s DifficultyStatus) Valid() bool {
	switch s {
	case StatusUnranked, StatusNominated, StatusQualified, StatusRanked,
		StatusUnrankable, StatusOutdated, StatusInEvent, StatusOST:
		return true
	}
	return false
}

// SortKey is the primary ordering applied when ranking a leaderboard.
type SortKey int

const (
	SortByPP SortKey = iota
	SortByModifiedScore
)

func (k SortKey) String() string {
	if k == SortByPP {
		return "pp"
	}
	return "modified_score"
}

// SortKeyFor maps a difficulty status to its ranking key. Only statuses that
// award pp rank by pp; everything else ranks by score.
func SortKeyFor(status DifficultyStatus) SortKey {
	switch status {
	case StatusRanked, StatusQualified, StatusInEvent:
		return SortByPP
	default:
		return SortByModifiedScore
	}
}
