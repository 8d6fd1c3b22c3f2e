package scoringservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scoringevents "github.com/fairway-collective/scorecard/app/modules/scoring/events"
	"github.com/fairway-collective/scorecard/models"
)

func TestSessionService_EditCell_Submit(t *testing.T) {
	t.Run("commits the server values, never a local net", func(t *testing.T) {
		gw := NewFakeGateway()
		gw.SubmitScoreFunc = func(_ context.Context, gameID, playerID string, hole, gross int, _ []string) (*models.ScoreResult, error) {
			assert.Equal(t, "game-1", gameID)
			assert.Equal(t, "p1", playerID)
			assert.Equal(t, 3, hole)
			assert.Equal(t, 5, gross)
			// The server applies handicap strokes the client knows nothing
			// about.
			return &models.ScoreResult{ScoreID: "score-42", GrossScore: 5, NetScore: 3}, nil
		}
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		outcome := <-svc.EditCell(context.Background(), "p1", 3, intPtr(5))

		require.Equal(t, EditCommitted, outcome.Kind)
		require.NotNil(t, outcome.Score)
		assert.Equal(t, "score-42", outcome.Score.ScoreID)
		assert.Equal(t, 3, *outcome.Score.NetScore)

		players := svc.Snapshot()
		sc, ok := players[0].ScoreForHole(3)
		require.True(t, ok)
		assert.Equal(t, 5, *sc.GrossScore)
		assert.Equal(t, 3, *sc.NetScore)
		assert.Equal(t, CellCommitted, svc.CellState("p1", 3))
		assert.Empty(t, svc.CellError("p1", 3))
	})

	t.Run("resubmitting the same cell keeps exactly one score entry", func(t *testing.T) {
		gw := NewFakeGateway()
		gw.SubmitScoreFunc = func(_ context.Context, _, _ string, _, gross int, _ []string) (*models.ScoreResult, error) {
			return &models.ScoreResult{ScoreID: "score-42", GrossScore: gross, NetScore: gross - 1}, nil
		}
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		<-svc.EditCell(context.Background(), "p1", 3, intPtr(5))
		<-svc.EditCell(context.Background(), "p1", 3, intPtr(5))

		players := svc.Snapshot()
		require.Len(t, players[0].Scores, 1)
		assert.Equal(t, "score-42", players[0].Scores[0].ScoreID)
	})

	t.Run("failure rolls the cell back and surfaces a cell error", func(t *testing.T) {
		gw := NewFakeGateway()
		calls := 0
		gw.SubmitScoreFunc = func(_ context.Context, _, _ string, _, gross int, _ []string) (*models.ScoreResult, error) {
			calls++
			if calls == 1 {
				return &models.ScoreResult{ScoreID: "score-1", GrossScore: gross, NetScore: gross - 1}, nil
			}
			return nil, errors.New("gateway status 500: storage unavailable")
		}
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		first := <-svc.EditCell(context.Background(), "p1", 7, intPtr(4))
		require.Equal(t, EditCommitted, first.Kind)

		second := <-svc.EditCell(context.Background(), "p1", 7, intPtr(8))
		require.Equal(t, EditRolledBack, second.Kind)
		require.Error(t, second.Err)

		// Previous committed value restored.
		sc, ok := svc.Snapshot()[0].ScoreForHole(7)
		require.True(t, ok)
		assert.Equal(t, 4, *sc.GrossScore)
		assert.Equal(t, 3, *sc.NetScore)
		assert.Equal(t, CellRolledBack, svc.CellState("p1", 7))
		assert.Contains(t, svc.CellError("p1", 7), "storage unavailable")
	})

	t.Run("failure on a never-entered cell removes the optimistic value", func(t *testing.T) {
		gw := NewFakeGateway()
		gw.SubmitScoreFunc = func(context.Context, string, string, int, int, []string) (*models.ScoreResult, error) {
			return nil, errors.New("timeout")
		}
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		outcome := <-svc.EditCell(context.Background(), "p1", 2, intPtr(6))

		require.Equal(t, EditRolledBack, outcome.Kind)
		_, ok := svc.Snapshot()[0].ScoreForHole(2)
		assert.False(t, ok)
		totals, _ := svc.PlayerTotalsFor("p1")
		assert.Zero(t, totals.TotalGross)
	})

	t.Run("failure in one cell does not disturb other cells", func(t *testing.T) {
		gw := NewFakeGateway()
		gw.SubmitScoreFunc = func(_ context.Context, _, _ string, hole, gross int, _ []string) (*models.ScoreResult, error) {
			if hole == 2 {
				return nil, errors.New("rejected")
			}
			return &models.ScoreResult{ScoreID: "score-h1", GrossScore: gross, NetScore: gross}, nil
		}
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		ok1 := svc.EditCell(context.Background(), "p1", 1, intPtr(4))
		bad := svc.EditCell(context.Background(), "p1", 2, intPtr(5))

		assert.Equal(t, EditCommitted, (<-ok1).Kind)
		assert.Equal(t, EditRolledBack, (<-bad).Kind)

		_, hasH1 := svc.Snapshot()[0].ScoreForHole(1)
		assert.True(t, hasH1)
		assert.Equal(t, CellCommitted, svc.CellState("p1", 1))
		assert.Equal(t, CellRolledBack, svc.CellState("p1", 2))
	})

	t.Run("rejects edits before the session is ready", func(t *testing.T) {
		gw := NewFakeGateway()
		svc, _ := newTestService(t, gw)

		outcome := <-svc.EditCell(context.Background(), "p1", 1, intPtr(4))
		assert.Equal(t, EditRejected, outcome.Kind)
		assert.ErrorIs(t, outcome.Err, ErrSessionNotReady)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		gw := NewFakeGateway()
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		assert.ErrorIs(t, (<-svc.EditCell(context.Background(), "p1", 19, intPtr(4))).Err, ErrInvalidHole)
		assert.ErrorIs(t, (<-svc.EditCell(context.Background(), "ghost", 1, intPtr(4))).Err, ErrUnknownPlayer)
		assert.ErrorIs(t, (<-svc.EditCell(context.Background(), "p1", 1, intPtr(0))).Err, ErrInvalidGross)
	})
}

func TestSessionService_EditCell_Supersession(t *testing.T) {
	// User types "7" then immediately "9" into the same cell; the first
	// response arrives after the second. The committed state must reflect
	// the later edit, not the slower earlier response.
	gw := NewFakeGateway()
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})
	calls := 0
	gw.SubmitScoreFunc = func(_ context.Context, _, _ string, _, gross int, _ []string) (*models.ScoreResult, error) {
		calls++
		if calls == 1 {
			close(firstStarted)
			<-releaseFirst
			return &models.ScoreResult{ScoreID: "score-1", GrossScore: 7, NetScore: 3}, nil
		}
		return &models.ScoreResult{ScoreID: "score-1", GrossScore: 9, NetScore: 5}, nil
	}
	svc, _ := newTestService(t, gw)
	loadSession(t, svc)

	first := svc.EditCell(context.Background(), "p1", 4, intPtr(7))
	<-firstStarted
	second := svc.EditCell(context.Background(), "p1", 4, intPtr(9))

	settledSecond := <-second
	require.Equal(t, EditCommitted, settledSecond.Kind)

	close(releaseFirst)
	settledFirst := <-first
	assert.Equal(t, EditSuperseded, settledFirst.Kind)

	sc, ok := svc.Snapshot()[0].ScoreForHole(4)
	require.True(t, ok)
	assert.Equal(t, 9, *sc.GrossScore)
	assert.Equal(t, 5, *sc.NetScore)
	assert.Equal(t, CellCommitted, svc.CellState("p1", 4))
}

func TestSessionService_EditCell_Delete(t *testing.T) {
	seedScores := func(gw *FakeGateway) {
		gw.FetchRosterFunc = func(context.Context, string, string) ([]models.Player, error) {
			return []models.Player{{
				PlayerID:  "p1",
				FirstName: "Pat",
				LastName:  "Mulligan",
				Scores: []models.Score{
					{ScoreID: "score-1", HoleNumber: 1, GrossScore: intPtr(4), NetScore: intPtr(4)},
					{ScoreID: "score-2", HoleNumber: 2, GrossScore: intPtr(5), NetScore: intPtr(5)},
				},
			}}, nil
		}
	}

	t.Run("clearing an entered cell deletes it and totals drop", func(t *testing.T) {
		gw := NewFakeGateway()
		seedScores(gw)
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		totals, _ := svc.PlayerTotalsFor("p1")
		require.Equal(t, 9, totals.TotalGross)

		outcome := <-svc.EditCell(context.Background(), "p1", 1, nil)

		require.Equal(t, EditRemoved, outcome.Kind)
		assert.Equal(t, "score-1", gw.LastDeletedScoreID)
		_, ok := svc.Snapshot()[0].ScoreForHole(1)
		assert.False(t, ok)

		totals, _ = svc.PlayerTotalsFor("p1")
		assert.Equal(t, 5, totals.TotalGross)
	})

	t.Run("clearing an empty cell is a no-op", func(t *testing.T) {
		gw := NewFakeGateway()
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		outcome := <-svc.EditCell(context.Background(), "p1", 6, nil)

		assert.Equal(t, EditNoop, outcome.Kind)
		assert.NotContains(t, gw.Trace(), "DeleteScore")
	})

	t.Run("failed delete restores the cell", func(t *testing.T) {
		gw := NewFakeGateway()
		seedScores(gw)
		gw.DeleteScoreFunc = func(context.Context, string) error {
			return errors.New("gateway status 503: try later")
		}
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		outcome := <-svc.EditCell(context.Background(), "p1", 2, nil)

		require.Equal(t, EditRolledBack, outcome.Kind)
		sc, ok := svc.Snapshot()[0].ScoreForHole(2)
		require.True(t, ok)
		assert.Equal(t, 5, *sc.GrossScore)
		assert.Equal(t, CellRolledBack, svc.CellState("p1", 2))
	})
}

func TestSessionService_SetJunks(t *testing.T) {
	t.Run("resubmits an entered cell with its gross unchanged", func(t *testing.T) {
		gw := NewFakeGateway()
		var submittedGross int
		gw.SubmitScoreFunc = func(_ context.Context, _, _ string, _, gross int, junkIDs []string) (*models.ScoreResult, error) {
			submittedGross = gross
			return &models.ScoreResult{ScoreID: "score-1", GrossScore: gross, NetScore: gross - 2}, nil
		}
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		require.Equal(t, EditCommitted, (<-svc.EditCell(context.Background(), "p1", 5, intPtr(4))).Kind)

		outcome := <-svc.SetJunks(context.Background(), "p1", 5, []string{"1"})

		require.Equal(t, EditCommitted, outcome.Kind)
		assert.Equal(t, 4, submittedGross)
		assert.Equal(t, []string{"1"}, gw.LastSubmittedJunkIDs)

		sc, _ := svc.Snapshot()[0].ScoreForHole(5)
		require.Len(t, sc.Junks, 1)
		assert.Equal(t, "birdie", sc.Junks[0].JunkName)
		// Net is refreshed from the response even though gross did not
		// change.
		assert.Equal(t, 2, *sc.NetScore)
	})

	t.Run("stages junks on an unentered cell until a gross is submitted", func(t *testing.T) {
		gw := NewFakeGateway()
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		staged := <-svc.SetJunks(context.Background(), "p1", 8, []string{"2"})
		require.Equal(t, EditStaged, staged.Kind)
		assert.NotContains(t, gw.Trace(), "SubmitScore")

		<-svc.EditCell(context.Background(), "p1", 8, intPtr(3))
		assert.Equal(t, []string{"2"}, gw.LastSubmittedJunkIDs)
	})

	t.Run("rejects junk ids missing from the catalog", func(t *testing.T) {
		gw := NewFakeGateway()
		svc, _ := newTestService(t, gw)
		loadSession(t, svc)

		outcome := <-svc.SetJunks(context.Background(), "p1", 8, []string{"99"})
		assert.ErrorIs(t, outcome.Err, ErrUnknownJunk)
	})
}

func TestSessionService_CellEvents(t *testing.T) {
	gw := NewFakeGateway()
	svc, bus := newTestService(t, gw)

	messages, err := bus.Subscriber().Subscribe(context.Background(), scoringevents.TopicCellUpdated)
	require.NoError(t, err)

	loadSession(t, svc)
	<-svc.EditCell(context.Background(), "p1", 1, intPtr(4))

	payload := receiveEvent[scoringevents.CellUpdatedPayload](t, messages)
	assert.Equal(t, scoringevents.CellChangeCommitted, payload.Change)
	assert.Equal(t, "p1", payload.PlayerID)
	assert.Equal(t, 1, payload.HoleNumber)
	require.NotNil(t, payload.Score)
	assert.Equal(t, 4, payload.Totals.FrontGross)
	assert.Equal(t, 4, payload.Totals.TotalGross)
}
