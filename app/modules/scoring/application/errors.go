package scoringservice

import "errors"

var (
	// ErrSessionNotReady is returned for edits and queries that require a
	// fully loaded session.
	ErrSessionNotReady = errors.New("scoring session is not ready")

	// ErrLoadInProgress is returned when Load is called while another load
	// is still running.
	ErrLoadInProgress = errors.New("session load already in progress")

	// ErrUnknownPlayer marks an edit for a player that is not on the roster.
	ErrUnknownPlayer = errors.New("player not in session roster")

	// ErrInvalidHole marks a hole number outside 1..18.
	ErrInvalidHole = errors.New("hole number out of range")

	// ErrInvalidGross marks a non-positive gross score.
	ErrInvalidGross = errors.New("gross score must be positive")

	// ErrUnknownJunk marks a junk selection that is not in the catalog.
	ErrUnknownJunk = errors.New("junk id not in catalog")
)
