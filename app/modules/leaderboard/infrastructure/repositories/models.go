package leaderboarddb

import (
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// Leaderboard is one song difficulty together with its difficulty ratings.
type Leaderboard struct {
	bun.BaseModel `bun:"table:leaderboards,alias:l"`

	ID              string                             `bun:"id,pk"`
	SongID          string                             `bun:"song_id,notnull"`
	Status          leaderboarddomain.DifficultyStatus `bun:"status,notnull,default:'unranked'"`
	Notes           int                                `bun:"notes,notnull,default:0"`
	MaxScore        int                                `bun:"max_score,notnull,default:0"`
	AccRating       *float64                           `bun:"acc_rating"`
	PassRating      *float64                           `bun:"pass_rating"`
	TechRating      *float64                           `bun:"tech_rating"`
	ModifierValues  *leaderboarddomain.ModifiersMap    `bun:"modifier_values,type:jsonb"`
	ModifiersRating *leaderboarddomain.ModifiersRating `bun:"modifiers_rating,type:jsonb"`
	// Plays is the number of ranked scores, maintained by the rank refresh.
	Plays int `bun:"plays,notnull,default:0"`
	// PlayCount counts every recorded attempt, including ones that did not improve a score.
	PlayCount    int       `bun:"play_count,notnull,default:0"`
	OwningClanID *int64    `bun:"owning_clan_id"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Qualification *Qualification `bun:"rel:has-one,join:id=leaderboard_id"`
	Reweight      *Reweight      `bun:"rel:has-one,join:id=leaderboard_id"`
}

// Qualification is a pending nomination.
type Qualification struct {
	bun.BaseModel `bun:"table:leaderboard_qualifications,alias:q"`

	ID              int64                              `bun:"id,pk,autoincrement"`
	LeaderboardID   string                             `bun:"leaderboard_id,notnull,unique"`
	Modifiers       leaderboarddomain.ModifiersMap     `bun:"modifiers,type:jsonb,notnull"`
	ModifiersRating *leaderboarddomain.ModifiersRating `bun:"modifiers_rating,type:jsonb"`
	AccRating       *float64                           `bun:"acc_rating"`
	PassRating      *float64                           `bun:"pass_rating"`
	TechRating      *float64                           `bun:"tech_rating"`
	CreatedAt       time.Time                          `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Reweight is a pending rating change.
type Reweight struct {
	bun.BaseModel `bun:"table:leaderboard_reweights,alias:rw"`

	ID              int64                              `bun:"id,pk,autoincrement"`
	LeaderboardID   string                             `bun:"leaderboard_id,notnull,unique"`
	Finished        bool                               `bun:"finished,notnull,default:false"`
	Modifiers       leaderboarddomain.ModifiersMap     `bun:"modifiers,type:jsonb,notnull"`
	ModifiersRating *leaderboarddomain.ModifiersRating `bun:"modifiers_rating,type:jsonb"`
	PredictedAcc    *float64                           `bun:"predicted_acc"`
	PassRating      *float64                           `bun:"pass_rating"`
	TechRating      *float64                           `bun:"tech_rating"`
	CreatedAt       time.Time                          `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Score is a player's current best play on a leaderboard.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID            int64   `bun:"id,pk,autoincrement"`
	LeaderboardID string  `bun:"leaderboard_id,notnull"`
	PlayerID      string  `bun:"player_id,notnull"`
	BaseScore     int     `bun:"base_score,notnull"`
	ModifiedScore int     `bun:"modified_score,notnull"`
	Accuracy      float64 `bun:"accuracy,notnull"`
	PP            float64 `bun:"pp,notnull,default:0"`
	BonusPP       float64 `bun:"bonus_pp,notnull,default:0"`
	PassPP        float64 `bun:"pass_pp,notnull,default:0"`
	AccPP         float64 `bun:"acc_pp,notnull,default:0"`
	TechPP        float64 `bun:"tech_pp,notnull,default:0"`
	Weight        float64 `bun:"weight,notnull,default:0"`
	Rank          int     `bun:"rank,notnull,default:0"`
	Modifiers     string  `bun:"modifiers,notnull,default:''"`
	// Timeset and Timepost are unix seconds.
	Timeset   int64     `bun:"timeset,notnull"`
	Timepost  int64     `bun:"timepost,notnull,default:0"`
	Banned    bool      `bun:"banned,notnull,default:false"`
	PlayCount int       `bun:"play_count,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// PlayerLeaderboardStats records a single attempt, kept or not.
type PlayerLeaderboardStats struct {
	bun.BaseModel `bun:"table:player_leaderboard_stats,alias:pls"`

	ID            int64     `bun:"id,pk,autoincrement"`
	LeaderboardID string    `bun:"leaderboard_id,notnull"`
	PlayerID      string    `bun:"player_id,notnull"`
	Score         int       `bun:"score,notnull"`
	Accuracy      float64   `bun:"accuracy,notnull,default:0"`
	Modifiers     string    `bun:"modifiers,notnull,default:''"`
	Timeset       int64     `bun:"timeset,notnull"`
	Time          float64   `bun:"time,notnull,default:0"`
	Type          string    `bun:"type,notnull,default:''"`
	Replay        string    `bun:"replay,notnull,default:''"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row and the given page of scores into a read snapshot.
func (l *Leaderboard) ToDomain(scores []Score) leaderboarddomain.LeaderboardSnapshot {
	snap := leaderboarddomain.LeaderboardSnapshot{
		ID: l.ID,
		Difficulty: leaderboarddomain.Difficulty{
			Status:          l.Status,
			Notes:           l.Notes,
			MaxScore:        l.MaxScore,
			AccRating:       l.AccRating,
			PassRating:      l.PassRating,
			TechRating:      l.TechRating,
			ModifierValues:  l.ModifierValues,
			ModifiersRating: l.ModifiersRating,
		},
		Scores: make([]leaderboarddomain.ScoreSnapshot, len(scores)),
	}
	if q := l.Qualification; q != nil {
		snap.Qualification = &leaderboarddomain.Qualification{
			Modifiers:       q.Modifiers,
			ModifiersRating: q.ModifiersRating,
			AccRating:       q.AccRating,
			PassRating:      q.PassRating,
			TechRating:      q.TechRating,
		}
	}
	if rw := l.Reweight; rw != nil {
		snap.Reweight = &leaderboarddomain.Reweight{
			Finished:        rw.Finished,
			Modifiers:       rw.Modifiers,
			ModifiersRating: rw.ModifiersRating,
			PredictedAcc:    rw.PredictedAcc,
			PassRating:      rw.PassRating,
			TechRating:      rw.TechRating,
		}
	}
	for i, s := range scores {
		snap.Scores[i] = s.ToDomain()
	}
	return snap
}

func (s Score) ToDomain() leaderboarddomain.ScoreSnapshot {
	return leaderboarddomain.ScoreSnapshot{
		ID:            s.ID,
		PlayerID:      s.PlayerID,
		BaseScore:     s.BaseScore,
		ModifiedScore: s.ModifiedScore,
		Accuracy:      s.Accuracy,
		PP:            s.PP,
		BonusPP:       s.BonusPP,
		PassPP:        s.PassPP,
		AccPP:         s.AccPP,
		TechPP:        s.TechPP,
		Rank:          s.Rank,
		Modifiers:     s.Modifiers,
		Timeset:       s.Timeset,
	}
}

// RankEntry is the ordering view of a score.
func (s Score) RankEntry() leaderboarddomain.RankEntry {
	return leaderboarddomain.RankEntry{
		ScoreID:       s.ID,
		PP:            s.PP,
		Accuracy:      s.Accuracy,
		ModifiedScore: s.ModifiedScore,
		Timeset:       s.Timeset,
	}
}
