package leaderboarddomain

// PPBreakdown is the result of scoring one play against a set of ratings.
type PPBreakdown struct {
	PP      float64
	BonusPP float64
	PassPP  float64
	AccPP   float64
	TechPP  float64
}

// RatingOracle turns difficulty ratings and a play into performance points.
// The star-rating prediction itself happens elsewhere; predicted values arrive
// on the pending change.
type RatingOracle interface {
	// Ratings returns the committed ratings of a difficulty, zero where unset.
	Ratings(d Difficulty) Ratings
	// AccRating derives an accuracy rating from a predicted accuracy.
	AccRating(predictedAcc, passRating, techRating float64) float64
	PPFromComponents(accuracy float64, modifiers string, ratings Ratings, values ModifiersMap, modifiersRating *ModifiersRating) PPBreakdown
	MaxScoreForNotes(notes int) int
}
