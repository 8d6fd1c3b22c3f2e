// models/game.go
package models

// Game is an outing being scored. Game-level results (matchplay, skins,
// payouts) are computed server-side; the client only carries the identifiers.
type Game struct {
	GameID   string `json:"gameId"`
	Name     string `json:"name"`
	CourseID string `json:"courseId"`
}

// Scorecard is a named grouping of players scored together within one game.
// A game may have many scorecards.
type Scorecard struct {
	ScorecardID string `json:"scorecardId"`
	Name        string `json:"name"`
}
