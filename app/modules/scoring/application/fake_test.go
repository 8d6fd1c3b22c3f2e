package scoringservice

import (
	"context"
	"sync"

	"github.com/fairway-collective/scorecard/models"
)

// ------------------------
// Fake Gateway
// ------------------------

// FakeGateway provides a programmable stub for the Gateway interface.
type FakeGateway struct {
	mu    sync.Mutex
	trace []string

	SubmitScoreFunc      func(ctx context.Context, gameID, playerID string, holeNumber, grossScore int, junkIDs []string) (*models.ScoreResult, error)
	DeleteScoreFunc      func(ctx context.Context, scoreID string) error
	FetchRosterFunc      func(ctx context.Context, gameID, scorecardID string) ([]models.Player, error)
	FetchJunkCatalogFunc func(ctx context.Context) ([]models.Junk, error)
	FetchHolesFunc       func(ctx context.Context, courseID string) ([]models.Hole, error)

	LastSubmittedJunkIDs []string
	LastDeletedScoreID   string
}

// NewFakeGateway initializes a FakeGateway whose fetches return a default
// one-player session.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeGateway) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeGateway) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

// --- Gateway Interface Implementation ---

func (f *FakeGateway) SubmitScore(ctx context.Context, gameID, playerID string, holeNumber, grossScore int, junkIDs []string) (*models.ScoreResult, error) {
	f.record("SubmitScore")
	f.mu.Lock()
	f.LastSubmittedJunkIDs = junkIDs
	f.mu.Unlock()
	if f.SubmitScoreFunc != nil {
		return f.SubmitScoreFunc(ctx, gameID, playerID, holeNumber, grossScore, junkIDs)
	}
	// Default: echo the gross back with a net one below it.
	return &models.ScoreResult{
		ScoreID:    "score-1",
		GrossScore: grossScore,
		NetScore:   grossScore - 1,
	}, nil
}

func (f *FakeGateway) DeleteScore(ctx context.Context, scoreID string) error {
	f.record("DeleteScore")
	f.mu.Lock()
	f.LastDeletedScoreID = scoreID
	f.mu.Unlock()
	if f.DeleteScoreFunc != nil {
		return f.DeleteScoreFunc(ctx, scoreID)
	}
	return nil
}

func (f *FakeGateway) FetchRoster(ctx context.Context, gameID, scorecardID string) ([]models.Player, error) {
	f.record("FetchRoster")
	if f.FetchRosterFunc != nil {
		return f.FetchRosterFunc(ctx, gameID, scorecardID)
	}
	return []models.Player{{PlayerID: "p1", FirstName: "Pat", LastName: "Mulligan"}}, nil
}

func (f *FakeGateway) FetchJunkCatalog(ctx context.Context) ([]models.Junk, error) {
	f.record("FetchJunkCatalog")
	if f.FetchJunkCatalogFunc != nil {
		return f.FetchJunkCatalogFunc(ctx)
	}
	return []models.Junk{
		{JunkID: "1", JunkName: "birdie"},
		{JunkID: "2", JunkName: "greenie"},
	}, nil
}

func (f *FakeGateway) FetchHoles(ctx context.Context, courseID string) ([]models.Hole, error) {
	f.record("FetchHoles")
	if f.FetchHolesFunc != nil {
		return f.FetchHolesFunc(ctx, courseID)
	}
	holes := make([]models.Hole, models.HolesPerRound)
	for i := range holes {
		holes[i] = models.Hole{Number: i + 1, Par: 4, MatchPlayHandicap: i + 1}
	}
	return holes, nil
}

// Ensure the fake actually satisfies the interface.
var _ Gateway = (*FakeGateway)(nil)
