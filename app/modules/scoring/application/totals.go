package scoringservice

import "github.com/fairway-collective/scorecard/models"

// PlayerTotals projects front-9/back-9/total gross and net sums from a
// player's scores. It is a pure function with no failure modes: an unentered
// hole simply contributes nothing, it never blocks the sum.
func PlayerTotals(p models.Player) models.Totals {
	var t models.Totals
	for _, sc := range p.Scores {
		if !sc.Entered() {
			continue
		}
		var gross, net int
		if sc.GrossScore != nil {
			gross = *sc.GrossScore
		}
		if sc.NetScore != nil {
			net = *sc.NetScore
		}
		if sc.HoleNumber <= models.FrontNineEnd {
			t.FrontGross += gross
			t.FrontNet += net
		} else {
			t.BackGross += gross
			t.BackNet += net
		}
	}
	t.TotalGross = t.FrontGross + t.BackGross
	t.TotalNet = t.FrontNet + t.BackNet
	return t
}

// AllTotals projects totals for every player on the roster, keyed by player
// ID.
func AllTotals(players []models.Player) map[string]models.Totals {
	out := make(map[string]models.Totals, len(players))
	for _, p := range players {
		out[p.PlayerID] = PlayerTotals(p)
	}
	return out
}
