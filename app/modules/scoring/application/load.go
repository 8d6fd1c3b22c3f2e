package scoringservice

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	scoringevents "github.com/fairway-collective/scorecard/app/modules/scoring/events"
	"github.com/fairway-collective/scorecard/models"
)

// Load fetches the roster, course holes, and junk catalog concurrently and
// installs them atomically. The session is ready only when all three fetches
// succeed; a single failure leaves it in the load-error state with nothing
// exposed. Load is also the explicit-refresh path: it replaces the whole
// session wholesale.
func (s *SessionService) Load(ctx context.Context, scorecardID, gameID, courseID string) error {
	ctx, finish := s.startOp(ctx, "LoadSession")

	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		err := ErrLoadInProgress
		finish(err)
		return err
	}
	s.state = StateLoading
	s.loadErr = nil
	s.scorecardID = scorecardID
	s.gameID = gameID
	s.courseID = courseID
	s.players = nil
	s.holes = nil
	s.junkCatalog = nil
	s.cells = make(map[cellKey]*cellTrack)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Loading scoring session",
		slog.String("scorecard_id", scorecardID),
		slog.String("game_id", gameID),
		slog.String("course_id", courseID),
	)

	var (
		players []models.Player
		holes   []models.Hole
		junks   []models.Junk
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.gateway.FetchRoster(gctx, gameID, scorecardID)
		if err != nil {
			return fmt.Errorf("fetch roster: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		holes, err = s.gateway.FetchHoles(gctx, courseID)
		if err != nil {
			return fmt.Errorf("fetch holes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		junks, err = s.gateway.FetchJunkCatalog(gctx)
		if err != nil {
			return fmt.Errorf("fetch junk catalog: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.state = StateLoadError
		s.loadErr = err
		s.mu.Unlock()

		s.emit(ctx, []pendingEvent{{
			topic: scoringevents.TopicSessionLoadFailed,
			payload: scoringevents.SessionLoadFailedPayload{
				ScorecardID: scorecardID,
				GameID:      gameID,
				Error:       err.Error(),
			},
		}})
		finish(err)
		return err
	}

	s.mu.Lock()
	s.players = players
	s.holes = holes
	s.junkCatalog = junks
	s.state = StateReady
	playerCount := len(players)
	s.mu.Unlock()

	s.emit(ctx, []pendingEvent{{
		topic: scoringevents.TopicSessionLoaded,
		payload: scoringevents.SessionLoadedPayload{
			ScorecardID: scorecardID,
			GameID:      gameID,
			CourseID:    courseID,
			PlayerCount: playerCount,
		},
	}})

	s.logger.InfoContext(ctx, "Scoring session ready",
		slog.String("scorecard_id", scorecardID),
		slog.Int("player_count", playerCount),
	)
	finish(nil)
	return nil
}

// ReplaceRoster swaps the whole roster atomically, used after a membership
// change. The new list is installed as-is, never merged field-by-field. All
// cell reconciliation state is reset, which also marks any in-flight
// responses stale.
func (s *SessionService) ReplaceRoster(players []models.Player) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrSessionNotReady
	}
	s.players = models.ClonePlayers(players)
	s.cells = make(map[cellKey]*cellTrack)
	scorecardID := s.scorecardID
	playerCount := len(s.players)
	s.mu.Unlock()

	s.emit(context.Background(), []pendingEvent{{
		topic: scoringevents.TopicRosterReplaced,
		payload: scoringevents.RosterReplacedPayload{
			ScorecardID: scorecardID,
			PlayerCount: playerCount,
		},
	}})
	return nil
}
