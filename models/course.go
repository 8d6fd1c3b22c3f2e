// models/course.go
package models

// HolesPerRound is the number of holes on a full course.
const HolesPerRound = 18

// FrontNineEnd is the last hole number counted toward the front nine.
const FrontNineEnd = 9

// Hole describes a single hole on the course/tee being played. Hole data is
// loaded once per session and never mutated afterwards.
type Hole struct {
	Number            int `json:"holeNumber"`
	Par               int `json:"par"`
	MatchPlayHandicap int `json:"matchPlayHandicap"`
}

// IsFrontNine reports whether the hole counts toward the front-nine totals.
func (h Hole) IsFrontNine() bool {
	return h.Number <= FrontNineEnd
}
