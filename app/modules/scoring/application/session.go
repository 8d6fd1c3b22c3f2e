package scoringservice

import (
	"github.com/fairway-collective/scorecard/models"
)

// cellKey identifies one (player, hole) cell, the unit of reconciliation.
type cellKey struct {
	playerID   string
	holeNumber int
}

// cellTrack carries the reconciliation state of one cell. seq counts edits
// issued for the cell; appliedSeq is the newest edit whose server response
// has been merged. A response whose edit is older than appliedSeq is stale
// and gets discarded, which makes the last edit win by submission order even
// when responses arrive out of order.
type cellTrack struct {
	state       CellState
	seq         uint64
	appliedSeq  uint64
	committed   *models.Score // last authoritative server value, nil = absent
	stagedJunks []models.Junk // junk selection for a cell with no score yet
	lastErr     string
}

// track returns the cell's reconciliation record, creating it on first touch.
// A fresh track snapshots the current displayed score as the committed value;
// by the session invariant the displayed value of an untouched cell is server
// truth.
func (s *SessionService) track(key cellKey) *cellTrack {
	if tr, ok := s.cells[key]; ok {
		return tr
	}
	tr := &cellTrack{state: CellCommitted}
	if p := s.findPlayer(key.playerID); p != nil {
		if sc, ok := p.ScoreForHole(key.holeNumber); ok {
			c := sc.Clone()
			tr.committed = &c
		}
	}
	s.cells[key] = tr
	return tr
}

func (s *SessionService) findPlayer(playerID string) *models.Player {
	for i := range s.players {
		if s.players[i].PlayerID == playerID {
			return &s.players[i]
		}
	}
	return nil
}

// applyCellEdit sets the displayed score for one cell, in memory only.
// Called exclusively by the reconciler so the single-writer invariant holds.
func (s *SessionService) applyCellEdit(playerID string, holeNumber int, score models.Score) {
	p := s.findPlayer(playerID)
	if p == nil {
		return
	}
	for i := range p.Scores {
		if p.Scores[i].HoleNumber == holeNumber {
			p.Scores[i] = score
			return
		}
	}
	p.Scores = append(p.Scores, score)
}

// removeCell drops the displayed score for one cell entirely, so it no
// longer contributes to totals.
func (s *SessionService) removeCell(playerID string, holeNumber int) {
	p := s.findPlayer(playerID)
	if p == nil {
		return
	}
	for i := range p.Scores {
		if p.Scores[i].HoleNumber == holeNumber {
			p.Scores = append(p.Scores[:i], p.Scores[i+1:]...)
			return
		}
	}
}

// restoreCell puts the last committed value back into the displayed grid,
// removing the cell when there is no committed value.
func (s *SessionService) restoreCell(key cellKey, tr *cellTrack) {
	if tr.committed == nil {
		s.removeCell(key.playerID, key.holeNumber)
		return
	}
	s.applyCellEdit(key.playerID, key.holeNumber, tr.committed.Clone())
}

// displayedScore returns the currently displayed score for a cell, if any.
func (s *SessionService) displayedScore(key cellKey) (models.Score, bool) {
	p := s.findPlayer(key.playerID)
	if p == nil {
		return models.Score{}, false
	}
	return p.ScoreForHole(key.holeNumber)
}

// currentJunks returns the junk selection a submission for this cell must
// carry: the displayed score's junks when the cell is entered, otherwise the
// locally staged selection.
func (s *SessionService) currentJunks(key cellKey, tr *cellTrack) []models.Junk {
	if sc, ok := s.displayedScore(key); ok {
		if len(sc.Junks) == 0 {
			return nil
		}
		out := make([]models.Junk, len(sc.Junks))
		copy(out, sc.Junks)
		return out
	}
	if len(tr.stagedJunks) == 0 {
		return nil
	}
	out := make([]models.Junk, len(tr.stagedJunks))
	copy(out, tr.stagedJunks)
	return out
}
