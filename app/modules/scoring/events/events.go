package scoringevents

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/fairway-collective/scorecard/models"
)

// Topics for session change notifications. The UI layer subscribes to these
// to re-render; payloads carry everything needed so subscribers never reach
// back into the session mid-render.
const (
	TopicSessionLoaded     = "scoring.session.loaded"
	TopicSessionLoadFailed = "scoring.session.load_failed"
	TopicCellUpdated       = "scoring.cell.updated"
	TopicRosterReplaced    = "scoring.roster.replaced"
)

// Cell change kinds carried in CellUpdatedPayload.
const (
	CellChangeCommitted  = "committed"
	CellChangeRolledBack = "rolled_back"
	CellChangeRemoved    = "removed"
)

// SessionLoadedPayload announces a fully loaded session.
type SessionLoadedPayload struct {
	ScorecardID string `json:"scorecardId"`
	GameID      string `json:"gameId"`
	CourseID    string `json:"courseId"`
	PlayerCount int    `json:"playerCount"`
}

// SessionLoadFailedPayload announces a failed load; the session stays in its
// load-error state until the user retries.
type SessionLoadFailedPayload struct {
	ScorecardID string `json:"scorecardId"`
	GameID      string `json:"gameId"`
	Error       string `json:"error"`
}

// CellUpdatedPayload announces a settled cell edit together with the player's
// fresh totals.
type CellUpdatedPayload struct {
	ScorecardID string        `json:"scorecardId"`
	PlayerID    string        `json:"playerId"`
	HoleNumber  int           `json:"holeNumber"`
	Change      string        `json:"change"`
	Score       *models.Score `json:"score,omitempty"`
	Totals      models.Totals `json:"totals"`
	Error       string        `json:"error,omitempty"`
}

// RosterReplacedPayload announces a wholesale roster swap.
type RosterReplacedPayload struct {
	ScorecardID string `json:"scorecardId"`
	PlayerCount int    `json:"playerCount"`
}

// Publish marshals the payload and publishes it on the given topic.
func Publish(publisher message.Publisher, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(uuid.NewString(), data)
	return publisher.Publish(topic, msg)
}
