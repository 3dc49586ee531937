// Package server exposes the game service over HTTP and WebSocket. It only
// decodes and forwards: every legality decision lives in the engine, and
// every response is projected for its recipient before leaving the process.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/VicWang17/Aivalon/engine"
	"github.com/VicWang17/Aivalon/internal/game"
	"github.com/VicWang17/Aivalon/internal/store"
)

// actorHeader carries the opaque actor id. Authentication is an external
// collaborator; by the time a request reaches this server the id is trusted.
const actorHeader = "X-User-ID"

// Server routes transport requests into the game service.
type Server struct {
	svc *game.Service
	hub *hub
	log *logrus.Logger
}

// New builds a Server around the given service.
func New(svc *game.Service, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{svc: svc, hub: newHub(log), log: log}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.handleCreate)
	mux.HandleFunc("GET /api/games/{id}", s.handleSnapshot)
	mux.HandleFunc("POST /api/games/{id}/actions", s.handleAction)
	mux.HandleFunc("GET /api/games/{id}/ws", s.handleWS)
	return mux
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", "")
		return
	}

	g, err := s.svc.Create(r.Context(), req.PlayerIDs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{GameID: g.GameID, InitialState: g})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	viewerID := r.Header.Get(actorHeader)
	if viewerID == "" {
		writeError(w, http.StatusBadRequest, "missing "+actorHeader+" header", "")
		return
	}

	view, err := s.svc.View(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get(actorHeader)
	if actorID == "" {
		writeError(w, http.StatusBadRequest, "missing "+actorHeader+" header", "")
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", "")
		return
	}

	gameID := r.PathValue("id")
	if _, err := s.svc.Submit(r.Context(), gameID, actorID, req.ActionType, req.Payload); err != nil {
		s.writeServiceError(w, err)
		return
	}

	// The actor gets their fresh projection back; everyone connected gets a
	// pushed snapshot.
	view, err := s.svc.View(r.Context(), gameID, actorID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.broadcastSnapshots(r.Context(), gameID)
	writeJSON(w, http.StatusOK, view)
}

// writeServiceError maps service and engine errors onto HTTP statuses:
// unknown games are 404, authority violations 403, everything else a 400
// with the validator's reason code.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "game not found", "")
	case errors.Is(err, engine.ErrPlayerNotInGame),
		errors.Is(err, engine.ErrViewerNotInGame):
		writeError(w, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, engine.ErrInvalidPlayerCount):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	default:
		if reason, ok := engine.RejectionReason(err); ok {
			status := http.StatusBadRequest
			switch reason {
			case engine.ReasonNotLeader, engine.ReasonNotSpeaker,
				engine.ReasonNotAssassin, engine.ReasonNotOnTeam:
				status = http.StatusForbidden
			}
			writeError(w, status, err.Error(), string(reason))
			return
		}
		s.log.WithError(err).Error("internal error")
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, reason string) {
	writeJSON(w, status, errorPayload{Error: msg, Reason: reason})
}
