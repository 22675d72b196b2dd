package leaderboarddomain

// Difficulty is the rated part of a leaderboard.
type Difficulty struct {
	Status   DifficultyStatus
	Notes    int
	MaxScore int
	// Ratings are nil until the difficulty has been rated.
	AccRating       *float64
	PassRating      *float64
	TechRating      *float64
	ModifierValues  *ModifiersMap
	ModifiersRating *ModifiersRating
}

// Qualification is a pending nomination of an unranked difficulty.
type Qualification struct {
	Modifiers       ModifiersMap
	ModifiersRating *ModifiersRating
	AccRating       *float64
	PassRating      *float64
	TechRating      *float64
}

// Reweight is a pending rating change on an already rated difficulty.
type Reweight struct {
	Finished        bool
	Modifiers       ModifiersMap
	ModifiersRating *ModifiersRating
	PredictedAcc    *float64
	PassRating      *float64
	TechRating      *float64
}

// ScoreSnapshot is the persisted state of one score as read for display.
type ScoreSnapshot struct {
	ID            int64
	PlayerID      string
	BaseScore     int
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
}

// LeaderboardSnapshot is a read-only page of a leaderboard.
type LeaderboardSnapshot struct {
	ID            string
	Difficulty    Difficulty
	Qualification *Qualification
	Reweight      *Reweight
	Scores        []ScoreSnapshot
}

// ProjectionMode says which pending change, if any, a leaderboard can preview.
type ProjectionMode int

const (
	ProjectionNone ProjectionMode = iota
	ProjectionReweight
	ProjectionQualification
)

func (m ProjectionMode) String() string {
	switch m {
	case ProjectionReweight:
		return "reweight"
	case ProjectionQualification:
		return "qualification"
	default:
		return "none"
	}
}

// PendingProjection reports the projection a leaderboard is eligible for.
// An unfinished reweight takes precedence over a nomination.
func (lb LeaderboardSnapshot) PendingProjection() ProjectionMode {
	if lb.Reweight != nil && !lb.Reweight.Finished {
		return ProjectionReweight
	}
	if lb.Difficulty.Status == StatusNominated && lb.Qualification != nil {
		return ProjectionQualification
	}
	return ProjectionNone
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
