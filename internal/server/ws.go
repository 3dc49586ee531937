package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"

	"github.com/VicWang17/Aivalon/engine"
)

// handleWS upgrades the connection and runs the session loop. The first
// frame must be a join_game carrying the player's id; after that the client
// may submit actions, chat, and heartbeats, and receives a projected
// snapshot whenever the game advances.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Debug("websocket accept failed")
		return
	}

	gameID := r.PathValue("id")
	ctx := r.Context()

	sess, err := s.joinSession(ctx, conn, gameID)
	if err != nil {
		_ = conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}
	defer func() {
		s.hub.remove(sess)
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
	}()

	s.log.WithFields(logrus.Fields{
		"game_id": gameID,
		"user_id": sess.userID,
	}).Info("player connected")

	s.sessionLoop(ctx, sess)
}

// joinSession reads and verifies the join frame, registers the session, and
// sends the initial snapshot.
func (s *Server) joinSession(ctx context.Context, conn *websocket.Conn, gameID string) (*session, error) {
	var env Envelope
	if err := wsjson.Read(ctx, conn, &env); err != nil {
		return nil, err
	}
	if env.Type != OpJoinGame {
		return nil, errFirstFrame
	}
	var join joinPayload
	if err := json.Unmarshal(env.Payload, &join); err != nil || join.UserID == "" {
		return nil, errFirstFrame
	}

	// View doubles as the seat check: outsiders cannot join the stream.
	view, err := s.svc.View(ctx, gameID, join.UserID)
	if err != nil {
		return nil, err
	}

	sess := &session{gameID: gameID, userID: join.UserID, conn: conn}
	s.hub.add(sess)

	if out, err := envelope(OpGameSnapshot, view); err == nil {
		_ = sess.send(ctx, out)
	}
	return sess, nil
}

var errFirstFrame = &protocolError{"first frame must be join_game with a user_id"}

type protocolError struct{ msg string }

func (e *protocolError) Error() string { return e.msg }

// sessionLoop reads frames until the connection drops.
func (s *Server) sessionLoop(ctx context.Context, sess *session) {
	for {
		var env Envelope
		if err := wsjson.Read(ctx, sess.conn, &env); err != nil {
			return
		}

		switch env.Type {
		case OpHeartbeat:
			if out, err := envelope(OpPong, struct{}{}); err == nil {
				_ = sess.send(ctx, out)
			}

		case OpPlayerAction:
			s.handleWSAction(ctx, sess, env.Payload)

		case OpChatMessage:
			s.relayChat(ctx, sess, env.Payload)

		default:
			s.sendError(ctx, sess, "unsupported message type", "")
		}
	}
}

func (s *Server) handleWSAction(ctx context.Context, sess *session, raw json.RawMessage) {
	var act actionPayload
	if err := json.Unmarshal(raw, &act); err != nil {
		s.sendError(ctx, sess, "malformed action payload", "")
		return
	}

	if _, err := s.svc.Submit(ctx, sess.gameID, sess.userID, act.ActionType, act.Payload); err != nil {
		reason := ""
		if r, ok := engine.RejectionReason(err); ok {
			reason = string(r)
		}
		s.sendError(ctx, sess, err.Error(), reason)
		return
	}
	s.broadcastSnapshots(ctx, sess.gameID)
}

// relayChat forwards a chat line to every other connected player. Chat is
// free-form table talk; nothing in it touches game state.
func (s *Server) relayChat(ctx context.Context, sess *session, raw json.RawMessage) {
	var msg chatPayload
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError(ctx, sess, "malformed chat payload", "")
		return
	}
	msg.From = sess.userID

	out, err := envelope(OpChatMessage, msg)
	if err != nil {
		return
	}
	s.hub.each(sess.gameID, func(other *session) {
		if other.userID == sess.userID {
			return
		}
		_ = other.send(ctx, out)
	})
}

// broadcastSnapshots pushes a per-viewer projection to every connected
// player of the game. Each recipient only ever sees their own mask.
func (s *Server) broadcastSnapshots(ctx context.Context, gameID string) {
	s.hub.each(gameID, func(sess *session) {
		view, err := s.svc.View(ctx, gameID, sess.userID)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"game_id": gameID,
				"user_id": sess.userID,
			}).Warn("snapshot projection failed")
			return
		}
		if out, err := envelope(OpGameSnapshot, view); err == nil {
			_ = sess.send(ctx, out)
		}
	})
}

func (s *Server) sendError(ctx context.Context, sess *session, msg, reason string) {
	if out, err := envelope(OpError, errorPayload{Error: msg, Reason: reason}); err == nil {
		_ = sess.send(ctx, out)
	}
}
