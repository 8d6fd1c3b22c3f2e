package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/fairway-collective/scorecard/models"
)

// Wire DTOs. Field names follow the service contract; conversion to the
// typed model happens here so malformed payloads are rejected at the
// boundary instead of leaking zero values into totals.

type submitScoreRequest struct {
	Meta     callerMeta `json:"meta"`
	PlayerID string     `json:"playerID"`
	GameID   string     `json:"gameID"`
	GameHole int        `json:"gameHole"`
	Score    int        `json:"score"`
	JunkIDs  []int      `json:"junkIDs"`
}

type submitScoreResponse struct {
	Status   *statusEnvelope `json:"status"`
	ScoreID  *string         `json:"scoreID"`
	PlayerID string          `json:"playerID"`
	GameID   string          `json:"gameID"`
	GameHole int             `json:"gameHole"`
	Score    *int            `json:"score"`
	Net      *int            `json:"net"`
}

type deleteScoreRequest struct {
	Meta    callerMeta `json:"meta"`
	ScoreID string     `json:"scoreID"`
}

type deleteScoreResponse struct {
	Status *statusEnvelope `json:"status"`
}

type rosterRequest struct {
	Meta        callerMeta `json:"meta"`
	GameID      string     `json:"gameID"`
	ScorecardID string     `json:"scorecardID"`
}

type wireJunk struct {
	JunkID   *int    `json:"junkID"`
	JunkName *string `json:"junkName"`
}

type wireScore struct {
	ScoreID  *string    `json:"scoreID"`
	GameHole *int       `json:"gameHole"`
	Score    *int       `json:"score"`
	Net      *int       `json:"net"`
	Junks    []wireJunk `json:"junks"`
}

type wirePlayer struct {
	PlayerID  *string     `json:"playerID"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Handicap  *string     `json:"handicap"`
	Scores    []wireScore `json:"scores"`
}

type rosterResponse struct {
	Status  *statusEnvelope `json:"status"`
	Players []wirePlayer    `json:"players"`
}

type junkCatalogRequest struct {
	Meta callerMeta `json:"meta"`
}

type junkCatalogResponse struct {
	Status *statusEnvelope `json:"status"`
	Junks  []wireJunk      `json:"junks"`
}

type holesRequest struct {
	Meta     callerMeta `json:"meta"`
	CourseID string     `json:"courseID"`
}

type wireHole struct {
	HoleNumber        *int `json:"holeNumber"`
	Par               *int `json:"par"`
	MatchPlayHandicap int  `json:"matchPlayHandicap"`
}

type holesResponse struct {
	Status *statusEnvelope `json:"status"`
	Holes  []wireHole      `json:"holes"`
}

// SubmitScore creates or updates the score for one (player, hole) cell.
// The call is idempotent per cell server-side; the returned net is always
// fresh and must replace whatever the client held before.
func (c *Client) SubmitScore(ctx context.Context, gameID, playerID string, holeNumber, grossScore int, junkIDs []string) (*models.ScoreResult, error) {
	wireIDs, err := junkIDsToWire(junkIDs)
	if err != nil {
		return nil, err
	}

	req := submitScoreRequest{
		Meta:     c.meta,
		PlayerID: playerID,
		GameID:   gameID,
		GameHole: holeNumber,
		Score:    grossScore,
		JunkIDs:  wireIDs,
	}
	var resp submitScoreResponse
	if err := c.post(ctx, "SubmitScore", endpointSubmitScore, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Status.asError(); err != nil {
		return nil, err
	}
	if resp.ScoreID == nil || *resp.ScoreID == "" || resp.Score == nil || resp.Net == nil {
		c.logger.ErrorContext(ctx, "Submit response missing required fields",
			slog.String("player_id", playerID),
			slog.Int("hole", holeNumber),
		)
		return nil, fmt.Errorf("submit score: %w", models.ErrMalformedResponse)
	}

	return &models.ScoreResult{
		ScoreID:    *resp.ScoreID,
		GrossScore: *resp.Score,
		NetScore:   *resp.Net,
	}, nil
}

// DeleteScore removes a cell by its server-assigned ID. A not-found status
// means the score is already gone; that is treated as success so late or
// duplicate deletes stay idempotent.
func (c *Client) DeleteScore(ctx context.Context, scoreID string) error {
	req := deleteScoreRequest{Meta: c.meta, ScoreID: scoreID}
	var resp deleteScoreResponse
	if err := c.post(ctx, "DeleteScore", endpointDeleteScore, req, &resp); err != nil {
		return err
	}
	if err := resp.Status.asError(); err != nil {
		if IsNotFound(err) {
			c.logger.DebugContext(ctx, "Score already deleted server-side",
				slog.String("score_id", scoreID),
			)
			return nil
		}
		return err
	}
	return nil
}

// FetchRoster returns the full player roster with nested scores. Always a
// wholesale fetch; partial roster reads do not exist in the contract.
func (c *Client) FetchRoster(ctx context.Context, gameID, scorecardID string) ([]models.Player, error) {
	req := rosterRequest{Meta: c.meta, GameID: gameID, ScorecardID: scorecardID}
	var resp rosterResponse
	if err := c.post(ctx, "FetchRoster", endpointRoster, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Status.asError(); err != nil {
		return nil, err
	}

	players := make([]models.Player, 0, len(resp.Players))
	for _, wp := range resp.Players {
		p, err := wp.toModel()
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// FetchJunkCatalog returns the read-only junk catalog.
func (c *Client) FetchJunkCatalog(ctx context.Context) ([]models.Junk, error) {
	var resp junkCatalogResponse
	if err := c.post(ctx, "FetchJunkCatalog", endpointJunkCatalog, junkCatalogRequest{Meta: c.meta}, &resp); err != nil {
		return nil, err
	}
	if err := resp.Status.asError(); err != nil {
		return nil, err
	}

	junks := make([]models.Junk, 0, len(resp.Junks))
	for _, wj := range resp.Junks {
		j, err := wj.toModel()
		if err != nil {
			return nil, err
		}
		junks = append(junks, j)
	}
	return junks, nil
}

// FetchHoles returns the 18 holes for the course/tee, ordered by hole number.
func (c *Client) FetchHoles(ctx context.Context, courseID string) ([]models.Hole, error) {
	req := holesRequest{Meta: c.meta, CourseID: courseID}
	var resp holesResponse
	if err := c.post(ctx, "FetchHoles", endpointCourseHoles, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Status.asError(); err != nil {
		return nil, err
	}
	if len(resp.Holes) != models.HolesPerRound {
		return nil, fmt.Errorf("fetch holes: expected %d holes, got %d: %w",
			models.HolesPerRound, len(resp.Holes), models.ErrMalformedResponse)
	}

	holes := make([]models.Hole, 0, len(resp.Holes))
	for _, wh := range resp.Holes {
		if wh.HoleNumber == nil || wh.Par == nil || *wh.Par <= 0 {
			return nil, fmt.Errorf("fetch holes: %w", models.ErrMalformedResponse)
		}
		holes = append(holes, models.Hole{
			Number:            *wh.HoleNumber,
			Par:               *wh.Par,
			MatchPlayHandicap: wh.MatchPlayHandicap,
		})
	}
	sort.Slice(holes, func(i, j int) bool { return holes[i].Number < holes[j].Number })
	return holes, nil
}

func (wp wirePlayer) toModel() (models.Player, error) {
	if wp.PlayerID == nil || *wp.PlayerID == "" {
		return models.Player{}, fmt.Errorf("roster player missing playerID: %w", models.ErrMalformedResponse)
	}
	p := models.Player{
		PlayerID:  *wp.PlayerID,
		FirstName: wp.FirstName,
		LastName:  wp.LastName,
		Handicap:  wp.Handicap,
	}
	seen := make(map[int]bool, len(wp.Scores))
	for _, ws := range wp.Scores {
		s, err := ws.toModel()
		if err != nil {
			return models.Player{}, err
		}
		// At most one score per (player, hole); a duplicate means the
		// payload is corrupt.
		if seen[s.HoleNumber] {
			return models.Player{}, fmt.Errorf("duplicate score for hole %d: %w", s.HoleNumber, models.ErrMalformedResponse)
		}
		seen[s.HoleNumber] = true
		p.Scores = append(p.Scores, s)
	}
	return p, nil
}

func (ws wireScore) toModel() (models.Score, error) {
	if ws.ScoreID == nil || *ws.ScoreID == "" || ws.GameHole == nil {
		return models.Score{}, fmt.Errorf("roster score missing scoreID or hole: %w", models.ErrMalformedResponse)
	}
	s := models.Score{
		ScoreID:    *ws.ScoreID,
		HoleNumber: *ws.GameHole,
		GrossScore: ws.Score,
		NetScore:   ws.Net,
	}
	for _, wj := range ws.Junks {
		j, err := wj.toModel()
		if err != nil {
			return models.Score{}, err
		}
		s.Junks = append(s.Junks, j)
	}
	return s, nil
}

func (wj wireJunk) toModel() (models.Junk, error) {
	if wj.JunkID == nil || wj.JunkName == nil {
		return models.Junk{}, fmt.Errorf("junk entry missing id or name: %w", models.ErrMalformedResponse)
	}
	return models.Junk{
		JunkID:   strconv.Itoa(*wj.JunkID),
		JunkName: *wj.JunkName,
	}, nil
}

// junkIDsToWire converts catalog junk IDs back to the numeric wire form.
func junkIDsToWire(ids []string) ([]int, error) {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("junk id %q is not numeric: %w", id, err)
		}
		out = append(out, n)
	}
	return out, nil
}
