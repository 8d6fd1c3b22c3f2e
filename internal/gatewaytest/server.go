// Package gatewaytest provides an in-process fake of the remote scoring
// service for tests: it implements the wire contract (one JSON POST endpoint
// per operation, status envelope, server-assigned score IDs, server-owned net
// values) without any of the real service's game logic.
package gatewaytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

type cellKey struct {
	PlayerID string
	Hole     int
}

type storedScore struct {
	ScoreID  string
	PlayerID string
	Hole     int
	Gross    int
	Net      int
	JunkIDs  []int
}

// Server is a fake scoring gateway. Zero value is not usable; use New.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	nextID int
	scores map[cellKey]*storedScore
	byID   map[string]cellKey

	players []RosterPlayer
	junks   []CatalogJunk
	holes   []CourseHole

	// NetFunc computes the net returned for a submission. Defaults to
	// gross minus one stroke.
	NetFunc func(playerID string, hole, gross int) int

	// SubmitHook runs before a submission is processed; returning a non-nil
	// error makes the endpoint answer with that domain status. Use it to
	// inject failures or latency per cell.
	SubmitHook func(playerID string, hole, gross int) *StatusError

	// FailRoster makes the roster endpoint answer HTTP 500.
	FailRoster bool

	// OmitNetInSubmit drops the net field from submit responses, simulating
	// a malformed payload.
	OmitNetInSubmit bool
}

// StatusError is a domain-level status injected by SubmitHook.
type StatusError struct {
	Code    int
	Message string
}

// RosterPlayer seeds one roster entry.
type RosterPlayer struct {
	PlayerID  string
	FirstName string
	LastName  string
	Handicap  *string
}

// CatalogJunk seeds one junk catalog entry.
type CatalogJunk struct {
	JunkID   int
	JunkName string
}

// CourseHole seeds one course hole.
type CourseHole struct {
	HoleNumber        int
	Par               int
	MatchPlayHandicap int
}

// New starts a fake gateway with the given roster, catalog, and holes.
// DefaultHoles and DefaultJunks cover the common case.
func New(players []RosterPlayer, junks []CatalogJunk, holes []CourseHole) *Server {
	s := &Server{
		nextID:  1,
		scores:  make(map[cellKey]*storedScore),
		byID:    make(map[string]cellKey),
		players: players,
		junks:   junks,
		holes:   holes,
		NetFunc: func(_ string, _, gross int) int { return gross - 1 },
	}

	r := chi.NewRouter()
	r.Post("/api/v1/score/submit", s.handleSubmit)
	r.Post("/api/v1/score/delete", s.handleDelete)
	r.Post("/api/v1/scorecard/roster", s.handleRoster)
	r.Post("/api/v1/junk/catalog", s.handleJunkCatalog)
	r.Post("/api/v1/course/holes", s.handleHoles)
	s.Server = httptest.NewServer(r)
	return s
}

// DefaultHoles returns a full 18-hole par-4 course.
func DefaultHoles() []CourseHole {
	holes := make([]CourseHole, 18)
	for i := range holes {
		holes[i] = CourseHole{HoleNumber: i + 1, Par: 4, MatchPlayHandicap: i + 1}
	}
	return holes
}

// DefaultJunks returns a small junk catalog.
func DefaultJunks() []CatalogJunk {
	return []CatalogJunk{
		{JunkID: 1, JunkName: "birdie"},
		{JunkID: 2, JunkName: "greenie"},
		{JunkID: 3, JunkName: "sandy"},
	}
}

// ScoreCount returns the number of stored cells.
func (s *Server) ScoreCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scores)
}

// HasScore reports whether a cell exists for the given player and hole.
func (s *Server) HasScore(playerID string, hole int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.scores[cellKey{playerID, hole}]
	return ok
}

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"playerID"`
		GameID   string `json:"gameID"`
		GameHole int    `json:"gameHole"`
		Score    int    `json:"score"`
		JunkIDs  []int  `json:"junkIDs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if s.SubmitHook != nil {
		if se := s.SubmitHook(req.PlayerID, req.GameHole, req.Score); se != nil {
			writeJSON(w, map[string]any{
				"status": envelope{Code: se.Code, Message: se.Message},
			})
			return
		}
	}

	s.mu.Lock()
	key := cellKey{req.PlayerID, req.GameHole}
	sc, ok := s.scores[key]
	if !ok {
		sc = &storedScore{
			ScoreID:  fmt.Sprintf("score-%d", s.nextID),
			PlayerID: req.PlayerID,
			Hole:     req.GameHole,
		}
		s.nextID++
		s.scores[key] = sc
		s.byID[sc.ScoreID] = key
	}
	sc.Gross = req.Score
	sc.Net = s.NetFunc(req.PlayerID, req.GameHole, req.Score)
	sc.JunkIDs = req.JunkIDs
	resp := map[string]any{
		"status":   envelope{},
		"scoreID":  sc.ScoreID,
		"playerID": sc.PlayerID,
		"gameID":   req.GameID,
		"gameHole": sc.Hole,
		"score":    sc.Gross,
		"net":      sc.Net,
	}
	if s.OmitNetInSubmit {
		delete(resp, "net")
	}
	s.mu.Unlock()

	writeJSON(w, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScoreID string `json:"scoreID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	key, ok := s.byID[req.ScoreID]
	if ok {
		delete(s.scores, key)
		delete(s.byID, req.ScoreID)
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, map[string]any{
			"status": envelope{Code: 404, Message: "score not found"},
		})
		return
	}
	writeJSON(w, map[string]any{"status": envelope{}})
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	if s.FailRoster {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	players := make([]map[string]any, 0, len(s.players))
	for _, p := range s.players {
		scores := []map[string]any{}
		for _, sc := range s.scores {
			if sc.PlayerID != p.PlayerID {
				continue
			}
			junks := []map[string]any{}
			for _, id := range sc.JunkIDs {
				junks = append(junks, map[string]any{
					"junkID":   id,
					"junkName": s.junkName(id),
				})
			}
			scores = append(scores, map[string]any{
				"scoreID":  sc.ScoreID,
				"gameHole": sc.Hole,
				"score":    sc.Gross,
				"net":      sc.Net,
				"junks":    junks,
			})
		}
		players = append(players, map[string]any{
			"playerID":  p.PlayerID,
			"firstName": p.FirstName,
			"lastName":  p.LastName,
			"handicap":  p.Handicap,
			"scores":    scores,
		})
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{"status": envelope{}, "players": players})
}

func (s *Server) junkName(id int) string {
	for _, j := range s.junks {
		if j.JunkID == id {
			return j.JunkName
		}
	}
	return "unknown"
}

func (s *Server) handleJunkCatalog(w http.ResponseWriter, _ *http.Request) {
	junks := make([]map[string]any, 0, len(s.junks))
	for _, j := range s.junks {
		junks = append(junks, map[string]any{"junkID": j.JunkID, "junkName": j.JunkName})
	}
	writeJSON(w, map[string]any{"status": envelope{}, "junks": junks})
}

func (s *Server) handleHoles(w http.ResponseWriter, _ *http.Request) {
	holes := make([]map[string]any, 0, len(s.holes))
	for _, h := range s.holes {
		holes = append(holes, map[string]any{
			"holeNumber":        h.HoleNumber,
			"par":               h.Par,
			"matchPlayHandicap": h.MatchPlayHandicap,
		})
	}
	writeJSON(w, map[string]any{"status": envelope{}, "holes": holes})
}
