// models/player.go
package models

// Player is a roster entry as held in a scoring session, with its nested
// per-hole scores. Players are owned by the session store for the lifetime of
// the scorecard screen and mutated only through the reconciler.
type Player struct {
	PlayerID  string  `json:"playerId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Handicap  *string `json:"handicap"`
	Scores    []Score `json:"scores"`
}

// DisplayName returns "First Last" with either part optional.
func (p Player) DisplayName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// ScoreForHole returns the player's score for the given hole, if entered.
// At most one score exists per (player, hole).
func (p Player) ScoreForHole(holeNumber int) (Score, bool) {
	for _, s := range p.Scores {
		if s.HoleNumber == holeNumber {
			return s, true
		}
	}
	return Score{}, false
}

// Clone returns a deep copy of the player, scores included.
func (p Player) Clone() Player {
	out := p
	if p.Handicap != nil {
		h := *p.Handicap
		out.Handicap = &h
	}
	if p.Scores != nil {
		out.Scores = make([]Score, len(p.Scores))
		for i, s := range p.Scores {
			out.Scores[i] = s.Clone()
		}
	}
	return out
}

// ClonePlayers deep-copies a roster.
func ClonePlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p.Clone()
	}
	return out
}
