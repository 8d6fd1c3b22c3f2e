package scoringservice

import (
	"context"
	"log/slog"

	scoringevents "github.com/fairway-collective/scorecard/app/modules/scoring/events"
	"github.com/fairway-collective/scorecard/models"
)

// EditKind classifies how an edit settled.
type EditKind int

const (
	// EditCommitted means the server accepted the edit and the cell now
	// holds the authoritative values.
	EditCommitted EditKind = iota
	// EditRemoved means the cell was deleted and no longer contributes to
	// totals.
	EditRemoved
	// EditRolledBack means the server rejected the edit and the previous
	// committed value was restored.
	EditRolledBack
	// EditSuperseded means a newer edit for the same cell settled first and
	// this response was discarded.
	EditSuperseded
	// EditStaged means a junk selection was recorded locally on an
	// unentered cell; it will be sent with the first gross submission.
	EditStaged
	// EditNoop means there was nothing to do (clearing an already-empty
	// cell).
	EditNoop
	// EditRejected means the edit never left the client (session not ready
	// or invalid input).
	EditRejected
)

func (k EditKind) String() string {
	switch k {
	case EditCommitted:
		return "committed"
	case EditRemoved:
		return "removed"
	case EditRolledBack:
		return "rolled_back"
	case EditSuperseded:
		return "superseded"
	case EditStaged:
		return "staged"
	case EditNoop:
		return "noop"
	case EditRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// EditOutcome reports how one edit settled. Score carries the committed cell
// value when the edit committed, nil when the cell was removed.
type EditOutcome struct {
	Kind       EditKind
	PlayerID   string
	HoleNumber int
	Score      *models.Score
	Err        error
}

func outcomeChan(o EditOutcome) <-chan EditOutcome {
	ch := make(chan EditOutcome, 1)
	ch <- o
	return ch
}

// EditCell is the reconciler entrypoint for a user-entered gross value.
// A nil gross clears the cell. The optimistic value is applied immediately;
// the returned channel delivers exactly one outcome when the edit settles
// against the server. Callers may ignore the channel, it is buffered.
//
// Same-cell edits are serialized by edit sequence: an in-flight request
// cannot be cancelled, but its response is discarded if a newer edit settled
// first, so a slow early request never clobbers a faster later one. Edits to
// different cells are fully independent.
func (s *SessionService) EditCell(ctx context.Context, playerID string, holeNumber int, gross *int) <-chan EditOutcome {
	ctx, finish := s.startOp(ctx, "EditCell")

	s.mu.Lock()
	if err := s.validateEdit(playerID, holeNumber); err != nil {
		s.mu.Unlock()
		finish(err)
		return outcomeChan(EditOutcome{Kind: EditRejected, PlayerID: playerID, HoleNumber: holeNumber, Err: err})
	}
	if gross != nil && *gross <= 0 {
		s.mu.Unlock()
		finish(ErrInvalidGross)
		return outcomeChan(EditOutcome{Kind: EditRejected, PlayerID: playerID, HoleNumber: holeNumber, Err: ErrInvalidGross})
	}

	key := cellKey{playerID, holeNumber}
	tr := s.track(key)

	if gross == nil {
		// Clearing a cell that was never persisted is a no-op; there is
		// nothing server-side to delete.
		if tr.committed == nil || tr.committed.ScoreID == "" {
			s.mu.Unlock()
			finish(nil)
			return outcomeChan(EditOutcome{Kind: EditNoop, PlayerID: playerID, HoleNumber: holeNumber})
		}
		return s.startDelete(ctx, key, tr, finish)
	}
	return s.startSubmit(ctx, key, tr, *gross, s.currentJunks(key, tr), finish)
}

// SetJunks is the reconciler entrypoint for a junk selection change. Junks
// persist only as part of a score submission, so a change on an entered cell
// resubmits the existing gross unchanged; on an unentered cell the selection
// is staged locally until a gross is first submitted.
func (s *SessionService) SetJunks(ctx context.Context, playerID string, holeNumber int, junkIDs []string) <-chan EditOutcome {
	ctx, finish := s.startOp(ctx, "SetJunks")

	s.mu.Lock()
	if err := s.validateEdit(playerID, holeNumber); err != nil {
		s.mu.Unlock()
		finish(err)
		return outcomeChan(EditOutcome{Kind: EditRejected, PlayerID: playerID, HoleNumber: holeNumber, Err: err})
	}
	junks, err := s.resolveJunks(junkIDs)
	if err != nil {
		s.mu.Unlock()
		finish(err)
		return outcomeChan(EditOutcome{Kind: EditRejected, PlayerID: playerID, HoleNumber: holeNumber, Err: err})
	}

	key := cellKey{playerID, holeNumber}
	tr := s.track(key)

	sc, entered := s.displayedScore(key)
	if !entered || sc.GrossScore == nil {
		tr.stagedJunks = junks
		s.mu.Unlock()
		finish(nil)
		return outcomeChan(EditOutcome{Kind: EditStaged, PlayerID: playerID, HoleNumber: holeNumber})
	}
	return s.startSubmit(ctx, key, tr, *sc.GrossScore, junks, finish)
}

// validateEdit checks session readiness and edit coordinates. Caller holds
// the lock.
func (s *SessionService) validateEdit(playerID string, holeNumber int) error {
	if s.state != StateReady {
		return ErrSessionNotReady
	}
	if holeNumber < 1 || holeNumber > models.HolesPerRound {
		return ErrInvalidHole
	}
	if s.findPlayer(playerID) == nil {
		return ErrUnknownPlayer
	}
	return nil
}

// resolveJunks maps catalog IDs to catalog entries. Caller holds the lock.
func (s *SessionService) resolveJunks(junkIDs []string) ([]models.Junk, error) {
	junks := make([]models.Junk, 0, len(junkIDs))
	for _, id := range junkIDs {
		found := false
		for _, j := range s.junkCatalog {
			if j.JunkID == id {
				junks = append(junks, j)
				found = true
				break
			}
		}
		if !found {
			return nil, ErrUnknownJunk
		}
	}
	return junks, nil
}

// startSubmit applies the optimistic value and issues the submission.
// Caller holds the lock; it is released here.
func (s *SessionService) startSubmit(ctx context.Context, key cellKey, tr *cellTrack, gross int, junks []models.Junk, finish func(error)) <-chan EditOutcome {
	tr.seq++
	mySeq := tr.seq
	tr.state = CellPending

	// Optimistic apply: show the entered gross right away. The net is
	// unknown until the server answers, so it is cleared rather than shown
	// stale.
	optimistic := models.Score{
		HoleNumber: key.holeNumber,
		GrossScore: &gross,
		Junks:      junks,
	}
	if tr.committed != nil {
		optimistic.ScoreID = tr.committed.ScoreID
	}
	s.applyCellEdit(key.playerID, key.holeNumber, optimistic)
	gameID := s.gameID
	s.mu.Unlock()

	out := make(chan EditOutcome, 1)
	go func() {
		result, err := s.gateway.SubmitScore(ctx, gameID, key.playerID, key.holeNumber, gross, junkIDList(junks))

		s.mu.Lock()
		outcome, events := s.settleSubmit(key, tr, mySeq, junks, result, err)
		s.mu.Unlock()

		s.emit(ctx, events)
		finish(outcome.Err)
		out <- outcome
	}()
	return out
}

// startDelete removes the cell optimistically and issues the delete.
// Caller holds the lock; it is released here.
func (s *SessionService) startDelete(ctx context.Context, key cellKey, tr *cellTrack, finish func(error)) <-chan EditOutcome {
	tr.seq++
	mySeq := tr.seq
	tr.state = CellPending
	scoreID := tr.committed.ScoreID

	s.removeCell(key.playerID, key.holeNumber)
	s.mu.Unlock()

	out := make(chan EditOutcome, 1)
	go func() {
		err := s.gateway.DeleteScore(ctx, scoreID)

		s.mu.Lock()
		outcome, events := s.settleDelete(key, tr, mySeq, err)
		s.mu.Unlock()

		s.emit(ctx, events)
		finish(outcome.Err)
		out <- outcome
	}()
	return out
}

// settleSubmit merges a submission response into the session. Caller holds
// the lock.
func (s *SessionService) settleSubmit(key cellKey, tr *cellTrack, mySeq uint64, junks []models.Junk, result *models.ScoreResult, err error) (EditOutcome, []pendingEvent) {
	if s.staleEdit(key, tr, mySeq) {
		s.metrics.RecordStaleResponseDiscarded(context.Background())
		s.logger.Debug("Discarded stale submit response",
			slog.String("player_id", key.playerID),
			slog.Int("hole", key.holeNumber),
		)
		return EditOutcome{Kind: EditSuperseded, PlayerID: key.playerID, HoleNumber: key.holeNumber}, nil
	}

	if err != nil {
		if tr.seq != mySeq {
			// A newer edit is still in flight; it will settle the cell, so
			// this failure is moot.
			s.metrics.RecordStaleResponseDiscarded(context.Background())
			return EditOutcome{Kind: EditSuperseded, PlayerID: key.playerID, HoleNumber: key.holeNumber}, nil
		}
		s.restoreCell(key, tr)
		tr.state = CellRolledBack
		tr.lastErr = err.Error()
		s.metrics.RecordCellRollback(context.Background())

		var restored *models.Score
		if tr.committed != nil {
			c := tr.committed.Clone()
			restored = &c
		}
		ev := s.cellEvent(key, scoringevents.CellChangeRolledBack, restored, err.Error())
		return EditOutcome{Kind: EditRolledBack, PlayerID: key.playerID, HoleNumber: key.holeNumber, Score: restored, Err: err}, ev
	}

	committed := models.Score{
		ScoreID:    result.ScoreID,
		HoleNumber: key.holeNumber,
		GrossScore: &result.GrossScore,
		NetScore:   &result.NetScore,
		Junks:      junks,
	}
	c := committed.Clone()
	tr.committed = &c
	tr.appliedSeq = mySeq
	tr.stagedJunks = nil

	if tr.seq != mySeq {
		// A newer optimistic edit owns the displayed value; record server
		// truth but leave the grid alone.
		return EditOutcome{Kind: EditCommitted, PlayerID: key.playerID, HoleNumber: key.holeNumber, Score: &committed}, nil
	}

	s.applyCellEdit(key.playerID, key.holeNumber, committed.Clone())
	tr.state = CellCommitted
	tr.lastErr = ""

	ev := s.cellEvent(key, scoringevents.CellChangeCommitted, &committed, "")
	return EditOutcome{Kind: EditCommitted, PlayerID: key.playerID, HoleNumber: key.holeNumber, Score: &committed}, ev
}

// settleDelete merges a delete response into the session. Caller holds the
// lock.
func (s *SessionService) settleDelete(key cellKey, tr *cellTrack, mySeq uint64, err error) (EditOutcome, []pendingEvent) {
	if s.staleEdit(key, tr, mySeq) {
		s.metrics.RecordStaleResponseDiscarded(context.Background())
		return EditOutcome{Kind: EditSuperseded, PlayerID: key.playerID, HoleNumber: key.holeNumber}, nil
	}

	if err != nil {
		if tr.seq != mySeq {
			s.metrics.RecordStaleResponseDiscarded(context.Background())
			return EditOutcome{Kind: EditSuperseded, PlayerID: key.playerID, HoleNumber: key.holeNumber}, nil
		}
		s.restoreCell(key, tr)
		tr.state = CellRolledBack
		tr.lastErr = err.Error()
		s.metrics.RecordCellRollback(context.Background())

		var restored *models.Score
		if tr.committed != nil {
			c := tr.committed.Clone()
			restored = &c
		}
		ev := s.cellEvent(key, scoringevents.CellChangeRolledBack, restored, err.Error())
		return EditOutcome{Kind: EditRolledBack, PlayerID: key.playerID, HoleNumber: key.holeNumber, Score: restored, Err: err}, ev
	}

	tr.committed = nil
	tr.appliedSeq = mySeq
	if tr.seq != mySeq {
		return EditOutcome{Kind: EditRemoved, PlayerID: key.playerID, HoleNumber: key.holeNumber}, nil
	}

	s.removeCell(key.playerID, key.holeNumber)
	tr.state = CellCommitted
	tr.lastErr = ""

	ev := s.cellEvent(key, scoringevents.CellChangeRemoved, nil, "")
	return EditOutcome{Kind: EditRemoved, PlayerID: key.playerID, HoleNumber: key.holeNumber}, ev
}

// staleEdit reports whether a settling edit no longer owns its cell: a newer
// edit already applied, or the whole session was reloaded or the roster
// replaced while the request was in flight.
func (s *SessionService) staleEdit(key cellKey, tr *cellTrack, mySeq uint64) bool {
	if cur, ok := s.cells[key]; !ok || cur != tr {
		return true
	}
	return tr.appliedSeq > mySeq
}

// cellEvent builds the cell-updated notification with the player's fresh
// totals. Caller holds the lock.
func (s *SessionService) cellEvent(key cellKey, change string, score *models.Score, errMsg string) []pendingEvent {
	var totals models.Totals
	if p := s.findPlayer(key.playerID); p != nil {
		totals = PlayerTotals(*p)
	}
	return []pendingEvent{{
		topic: scoringevents.TopicCellUpdated,
		payload: scoringevents.CellUpdatedPayload{
			ScorecardID: s.scorecardID,
			PlayerID:    key.playerID,
			HoleNumber:  key.holeNumber,
			Change:      change,
			Score:       score,
			Totals:      totals,
			Error:       errMsg,
		},
	}}
}

func junkIDList(junks []models.Junk) []string {
	if len(junks) == 0 {
		return nil
	}
	ids := make([]string, len(junks))
	for i, j := range junks {
		ids[i] = j.JunkID
	}
	return ids
}
