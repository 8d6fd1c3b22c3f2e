package scoringservice

import (
	"context"

	"github.com/fairway-collective/scorecard/models"
)

// Gateway is the remote scoring service contract consumed by the session.
// Each call is a single round trip; nothing is retried internally, so every
// retry stays user-initiated.
type Gateway interface {
	// SubmitScore creates or updates one (player, hole) cell and returns the
	// authoritative score, including a fresh net value.
	SubmitScore(ctx context.Context, gameID, playerID string, holeNumber, grossScore int, junkIDs []string) (*models.ScoreResult, error)

	// DeleteScore removes a cell. Deleting an already-deleted score is a
	// success (idempotent delete).
	DeleteScore(ctx context.Context, scoreID string) error

	// FetchRoster returns the full player roster with nested scores.
	FetchRoster(ctx context.Context, gameID, scorecardID string) ([]models.Player, error)

	// FetchJunkCatalog returns the read-only junk catalog.
	FetchJunkCatalog(ctx context.Context) ([]models.Junk, error)

	// FetchHoles returns the 18 holes for a course/tee, ordered.
	FetchHoles(ctx context.Context, courseID string) ([]models.Hole, error)
}

// Service is the public contract of the scoring session.
type Service interface {
	Load(ctx context.Context, scorecardID, gameID, courseID string) error
	ReplaceRoster(players []models.Player) error
	EditCell(ctx context.Context, playerID string, holeNumber int, gross *int) <-chan EditOutcome
	SetJunks(ctx context.Context, playerID string, holeNumber int, junkIDs []string) <-chan EditOutcome

	State() SessionState
	LoadErr() error
	Snapshot() []models.Player
	Holes() []models.Hole
	JunkCatalog() []models.Junk
	CellState(playerID string, holeNumber int) CellState
	CellError(playerID string, holeNumber int) string
	PlayerTotalsFor(playerID string) (models.Totals, bool)
}
