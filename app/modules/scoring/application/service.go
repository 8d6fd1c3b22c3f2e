package scoringservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	scoringevents "github.com/fairway-collective/scorecard/app/modules/scoring/events"
	"github.com/fairway-collective/scorecard/internal/observability"
	"github.com/fairway-collective/scorecard/models"
)

// SessionState is the lifecycle state of the whole session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateLoading
	StateReady
	StateLoadError
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadError:
		return "load_error"
	default:
		return "unknown"
	}
}

// CellState is the reconciliation state of one (player, hole) cell.
type CellState int

const (
	// CellCommitted means the cell matches the last known server value.
	CellCommitted CellState = iota
	// CellPending means an optimistic local value is applied and a request
	// is in flight.
	CellPending
	// CellRolledBack means the last edit was rejected and the previous
	// committed value has been restored.
	CellRolledBack
)

func (s CellState) String() string {
	switch s {
	case CellCommitted:
		return "committed"
	case CellPending:
		return "pending"
	case CellRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// SessionService owns the in-memory scoring session for one scorecard: the
// roster, per-player score grid, and per-cell reconciliation state. It is the
// single writer for all of them; the remote service stays the sole durable
// store.
type SessionService struct {
	gateway   Gateway
	publisher message.Publisher
	logger    *slog.Logger
	metrics   observability.ScoringMetrics
	tracer    trace.Tracer

	mu          sync.Mutex
	state       SessionState
	loadErr     error
	scorecardID string
	gameID      string
	courseID    string
	holes       []models.Hole
	junkCatalog []models.Junk
	players     []models.Player
	cells       map[cellKey]*cellTrack
}

var _ Service = (*SessionService)(nil)

// NewSessionService creates a new SessionService.
func NewSessionService(
	gw Gateway,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics observability.ScoringMetrics,
	tracer trace.Tracer,
) *SessionService {
	return &SessionService{
		gateway:   gw,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		state:     StateIdle,
		cells:     make(map[cellKey]*cellTrack),
	}
}

// startOp opens a span and records the operation attempt; the returned finish
// func records the outcome and duration.
func (s *SessionService) startOp(ctx context.Context, operation string) (context.Context, func(err error)) {
	ctx, span := s.tracer.Start(ctx, operation, trace.WithAttributes(
		attribute.String("operation", operation),
	))
	s.metrics.RecordOperationAttempt(ctx, operation)
	start := time.Now()

	return ctx, func(err error) {
		s.metrics.RecordOperationDuration(ctx, operation, time.Since(start))
		if err != nil {
			s.metrics.RecordOperationFailure(ctx, operation)
			span.RecordError(err)
			s.logger.ErrorContext(ctx, "Operation failed",
				slog.String("operation", operation),
				slog.Any("error", err),
			)
		} else {
			s.metrics.RecordOperationSuccess(ctx, operation)
		}
		span.End()
	}
}

// pendingEvent is a session change notification collected under the lock and
// published after it is released, so a slow subscriber can never deadlock a
// mutation.
type pendingEvent struct {
	topic   string
	payload any
}

func (s *SessionService) emit(ctx context.Context, events []pendingEvent) {
	for _, ev := range events {
		if err := scoringevents.Publish(s.publisher, ev.topic, ev.payload); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish session event",
				slog.String("topic", ev.topic),
				slog.Any("error", err),
			)
		}
	}
}

// State returns the session lifecycle state.
func (s *SessionService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LoadErr returns the error of the last failed load, if the session is in
// the load-error state.
func (s *SessionService) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Snapshot returns a deep copy of the roster with scores. It is empty unless
// the session is ready; a half-loaded roster is never exposed.
func (s *SessionService) Snapshot() []models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil
	}
	return models.ClonePlayers(s.players)
}

// Holes returns the course holes, ordered by hole number.
func (s *SessionService) Holes() []models.Hole {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil
	}
	out := make([]models.Hole, len(s.holes))
	copy(out, s.holes)
	return out
}

// JunkCatalog returns the junk catalog.
func (s *SessionService) JunkCatalog() []models.Junk {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil
	}
	out := make([]models.Junk, len(s.junkCatalog))
	copy(out, s.junkCatalog)
	return out
}

// CellState returns the reconciliation state of one cell. Untouched cells
// are committed by definition.
func (s *SessionService) CellState(playerID string, holeNumber int) CellState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tr, ok := s.cells[cellKey{playerID, holeNumber}]; ok {
		return tr.state
	}
	return CellCommitted
}

// CellError returns the last per-cell error string, empty when the cell has
// no surfaced error.
func (s *SessionService) CellError(playerID string, holeNumber int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tr, ok := s.cells[cellKey{playerID, holeNumber}]; ok {
		return tr.lastErr
	}
	return ""
}

// PlayerTotalsFor projects the current totals for one player.
func (s *SessionService) PlayerTotalsFor(playerID string) (models.Totals, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return models.Totals{}, false
	}
	p := s.findPlayer(playerID)
	if p == nil {
		return models.Totals{}, false
	}
	return PlayerTotals(*p), true
}
