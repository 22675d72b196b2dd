package clanservice

// OwnershipResult is the outcome of ResolveOwner.
type OwnershipResult struct {
	LeaderboardID  string
	Outcome        string
	PreviousClanID *int64
	OwningClanID   *int64
	OwningClanTag  string
	Changed        bool
}

// RefreshSummary reports a clan refresh run.
type RefreshSummary struct {
	Clans       int
	Pages       int
	FailedPages int
	Updated     int
	Skipped     int
}
