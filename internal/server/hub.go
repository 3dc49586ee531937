package server

import (
	"context"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"
)

// session is one connected player's WebSocket.
type session struct {
	gameID string
	userID string
	conn   *websocket.Conn

	mu sync.Mutex // serializes writes to conn
}

func (s *session) send(ctx context.Context, env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wsjson.Write(ctx, s.conn, env)
}

// hub tracks the live sessions per game so state changes can be pushed to
// every seated viewer with their own projection.
type hub struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*session // gameID -> userID -> session
	log      *logrus.Logger
}

func newHub(log *logrus.Logger) *hub {
	return &hub{sessions: make(map[string]map[string]*session), log: log}
}

// add registers a session, replacing any previous connection for the same
// player.
func (h *hub) add(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	game, ok := h.sessions[s.gameID]
	if !ok {
		game = make(map[string]*session)
		h.sessions[s.gameID] = game
	}
	if old, ok := game[s.userID]; ok {
		_ = old.conn.Close(websocket.StatusPolicyViolation, "superseded by a newer connection")
		h.log.WithFields(logrus.Fields{
			"game_id": s.gameID,
			"user_id": s.userID,
		}).Debug("replaced existing session")
	}
	game[s.userID] = s
}

// remove drops a session if it is still the registered one.
func (h *hub) remove(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if game, ok := h.sessions[s.gameID]; ok && game[s.userID] == s {
		delete(game, s.userID)
		if len(game) == 0 {
			delete(h.sessions, s.gameID)
		}
	}
}

// each calls fn for every session attached to the game.
func (h *hub) each(gameID string, fn func(*session)) {
	h.mu.RLock()
	members := make([]*session, 0, len(h.sessions[gameID]))
	for _, s := range h.sessions[gameID] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		fn(s)
	}
}
