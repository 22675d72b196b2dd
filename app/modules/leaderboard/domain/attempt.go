package leaderboarddomain

// Attempt is one recorded play of a leaderboard, whether or not it improved
// the player's score.
type Attempt struct {
	LeaderboardID string  `json:"leaderboard_id"`
	PlayerID      string  `json:"player_id"`
	Score         int     `json:"score"`
	Accuracy      float64 `json:"accuracy"`
	Modifiers     string  `json:"modifiers"`
	// Timeset is unix seconds; zero means the time it is persisted.
	Timeset int64 `json:"timeset"`
	// Time is how far into the map the attempt got, in seconds.
	Time       float64 `json:"time"`
	Type       string  `json:"type"`
	ReplayFile string  `json:"replay_file"`
}

// AttemptKey identifies duplicate attempts.
type AttemptKey struct {
	LeaderboardID string
	PlayerID      string
	Score         int
}

func (a Attempt) Key() AttemptKey {
	return AttemptKey{LeaderboardID: a.LeaderboardID, PlayerID: a.PlayerID, Score: a.Score}
}
