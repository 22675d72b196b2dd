package clandb

import "errors"

var (
	// ErrNotFound is returned when a leaderboard or clan does not exist.
	ErrNotFound = errors.New("clan: not found")
	// ErrNoRowsAffected is returned when an update matched nothing.
	ErrNoRowsAffected = errors.New("clan: no rows affected")
)
