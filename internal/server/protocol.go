package server

import (
	"encoding/json"
	"time"

	"github.com/VicWang17/Aivalon/engine"
)

// OpCode identifies a WebSocket message type.
type OpCode string

const (
	// Client -> server.
	OpJoinGame     OpCode = "join_game"
	OpPlayerAction OpCode = "player_action"
	OpChatMessage  OpCode = "chat_message"
	OpHeartbeat    OpCode = "heartbeat"

	// Server -> client.
	OpGameSnapshot OpCode = "game_snapshot"
	OpError        OpCode = "error"
	OpPong         OpCode = "pong"
)

// Envelope is the frame every WebSocket message travels in.
type Envelope struct {
	Type      OpCode          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"` // server time, unix seconds
}

// envelope builds an outbound frame, stamping the server time.
func envelope(op OpCode, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: op, Payload: raw, Timestamp: time.Now().Unix()}, nil
}

// joinPayload accompanies OpJoinGame.
type joinPayload struct {
	GameID string `json:"game_id"`
	UserID string `json:"user_id"`
}

// actionPayload accompanies OpPlayerAction.
type actionPayload struct {
	ActionType engine.ActionType `json:"action_type"`
	Payload    engine.Payload    `json:"payload"`
}

// chatPayload accompanies OpChatMessage and is relayed verbatim.
type chatPayload struct {
	From string `json:"from,omitempty"`
	Text string `json:"text"`
}

// errorPayload accompanies OpError.
type errorPayload struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// createRequest is the HTTP body for game creation.
type createRequest struct {
	PlayerIDs []string `json:"player_ids"`
}

// createResponse returns the new game id and the creator-agnostic state.
type createResponse struct {
	GameID       string            `json:"game_id"`
	InitialState *engine.GameState `json:"initial_state"`
}

// actionRequest is the HTTP body for action submission.
type actionRequest struct {
	ActionType engine.ActionType `json:"action_type"`
	Payload    engine.Payload    `json:"payload"`
}
