package clandb

import (
	"time"

	clandomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/domain"
	"github.com/uptrace/bun"
)

// Clan is a team of players competing for leaderboard ownership.
type Clan struct {
	bun.BaseModel `bun:"table:clans,alias:c"`

	ID                     int64     `bun:"id,pk,autoincrement"`
	Tag                    string    `bun:"tag,notnull,unique"`
	Name                   string    `bun:"name,notnull,default:''"`
	PP                     float64   `bun:"pp,notnull,default:0"`
	OwnedLeaderboardsCount int       `bun:"owned_leaderboards_count,notnull,default:0"`
	AverageAccuracy        float64   `bun:"average_accuracy,notnull,default:0"`
	AverageRank            float64   `bun:"average_rank,notnull,default:0"`
	PlayersCount           int       `bun:"players_count,notnull,default:0"`
	CreatedAt              time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt              time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (c Clan) Ref() clandomain.ClanRef {
	return clandomain.ClanRef{ID: c.ID, Tag: c.Tag}
}

// Player holds the global standing the clan summary is built from.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID                    string    `bun:"id,pk"`
	Name                  string    `bun:"name,notnull,default:''"`
	PP                    float64   `bun:"pp,notnull,default:0"`
	Rank                  int       `bun:"rank,notnull,default:0"`
	AverageRankedAccuracy float64   `bun:"average_ranked_accuracy,notnull,default:0"`
	Banned                bool      `bun:"banned,notnull,default:false"`
	CreatedAt             time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ClanPlayer is the membership join. Neither side owns the other.
type ClanPlayer struct {
	bun.BaseModel `bun:"table:clan_players,alias:cp"`

	ClanID   int64     `bun:"clan_id,pk"`
	PlayerID string    `bun:"player_id,pk"`
	JoinedAt time.Time `bun:"joined_at,nullzero,notnull,default:current_timestamp"`
}

// LeaderboardOwner maps the ownership column of the leaderboards table.
type LeaderboardOwner struct {
	bun.BaseModel `bun:"table:leaderboards,alias:l"`

	ID           string `bun:"id,pk"`
	OwningClanID *int64 `bun:"owning_clan_id"`
}

// ContestRow is one (score, clan) pair of a leaderboard contest.
type ContestRow struct {
	ScoreID int64   `bun:"score_id"`
	PP      float64 `bun:"pp"`
	ClanID  int64   `bun:"clan_id"`
	ClanTag string  `bun:"clan_tag"`
}

// MemberRow is a non-banned player of a clan.
type MemberRow struct {
	ClanID                int64   `bun:"clan_id"`
	PlayerID              string  `bun:"player_id"`
	PP                    float64 `bun:"pp"`
	Rank                  int     `bun:"rank"`
	AverageRankedAccuracy float64 `bun:"average_ranked_accuracy"`
}

func (m MemberRow) ToDomain() clandomain.Member {
	return clandomain.Member{
		PlayerID:              m.PlayerID,
		PP:                    m.PP,
		Rank:                  m.Rank,
		AverageRankedAccuracy: m.AverageRankedAccuracy,
	}
}

// ContestScores folds rows ordered by pp desc, score id asc back into one
// entry per score.
func ContestScores(rows []ContestRow) []clandomain.ContestScore {
	var out []clandomain.ContestScore
	for _, r := range rows {
		ref := clandomain.ClanRef{ID: r.ClanID, Tag: r.ClanTag}
		if n := len(out); n > 0 && out[n-1].ScoreID == r.ScoreID {
			out[n-1].Clans = append(out[n-1].Clans, ref)
			continue
		}
		out = append(out, clandomain.ContestScore{ScoreID: r.ScoreID, PP: r.PP, Clans: []clandomain.ClanRef{ref}})
	}
	return out
}
