package clanevents

// OwnershipChangedV1 is published when a leaderboard's owning clan changes.
const OwnershipChangedV1 = "clan.ownership.changed.v1"

// OwnershipChangedPayloadV1 describes an ownership transfer. A nil
// OwningClanID means the leaderboard is now contested or unclaimed.
type OwnershipChangedPayloadV1 struct {
	LeaderboardID  string `json:"leaderboard_id"`
	Outcome        string `json:"outcome"`
	PreviousClanID *int64 `json:"previous_clan_id,omitempty"`
	OwningClanID   *int64 `json:"owning_clan_id,omitempty"`
	OwningClanTag  string `json:"owning_clan_tag,omitempty"`
}
