// models/score.go
package models

// Score is one cell of the scoring grid: a single player's entry for a single
// hole. ScoreID is assigned by the server on the first successful submission
// for the (player, hole) pair and is required for later updates and deletes.
// NetScore is always the server's value; the client never computes it.
type Score struct {
	ScoreID    string `json:"scoreId,omitempty"`
	HoleNumber int    `json:"holeNumber"`
	GrossScore *int   `json:"grossScore,omitempty"`
	NetScore   *int   `json:"netScore,omitempty"`
	Junks      []Junk `json:"junks,omitempty"`
}

// Entered reports whether the cell holds a real score. An unentered cell
// (no scoreID, no gross) must not contribute to totals.
func (s Score) Entered() bool {
	return s.ScoreID != "" || s.GrossScore != nil
}

// JunkIDs returns the IDs of the junks attached to this score.
func (s Score) JunkIDs() []string {
	if len(s.Junks) == 0 {
		return nil
	}
	ids := make([]string, len(s.Junks))
	for i, j := range s.Junks {
		ids[i] = j.JunkID
	}
	return ids
}

// Clone returns a deep copy of the score.
func (s Score) Clone() Score {
	out := s
	if s.GrossScore != nil {
		v := *s.GrossScore
		out.GrossScore = &v
	}
	if s.NetScore != nil {
		v := *s.NetScore
		out.NetScore = &v
	}
	if s.Junks != nil {
		out.Junks = make([]Junk, len(s.Junks))
		copy(out.Junks, s.Junks)
	}
	return out
}

// ScoreResult is the authoritative outcome of a score submission. The net
// value must always be taken fresh from here, never reused from a previous
// round trip.
type ScoreResult struct {
	ScoreID    string
	GrossScore int
	NetScore   int
}
