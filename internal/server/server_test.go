package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VicWang17/Aivalon/engine"
	"github.com/VicWang17/Aivalon/internal/game"
	"github.com/VicWang17/Aivalon/internal/names"
	"github.com/VicWang17/Aivalon/internal/store"
)

func newTestServer() *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := game.NewService(store.NewMemoryStore(), names.Static{}, log)
	return New(svc, log)
}

func playerIDs() []string {
	out := make([]string, engine.NumSeats)
	for i := range out {
		out[i] = fmt.Sprintf("u%d", i+1)
	}
	return out
}

func doJSON(t *testing.T, h http.Handler, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if actor != "" {
		req.Header.Set(actorHeader, actor)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createGame(t *testing.T, h http.Handler) createResponse {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/games", "", createRequest{PlayerIDs: playerIDs()})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp createResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateGameEndpoint(t *testing.T) {
	h := newTestServer().Handler()
	resp := createGame(t, h)

	assert.NotEmpty(t, resp.GameID)
	require.NotNil(t, resp.InitialState)
	assert.Equal(t, engine.PhaseSpeech, resp.InitialState.Phase)
	assert.Len(t, resp.InitialState.Players, engine.NumSeats)
}

func TestCreateGameWrongCount(t *testing.T) {
	h := newTestServer().Handler()
	w := doJSON(t, h, http.MethodPost, "/api/games", "", createRequest{PlayerIDs: []string{"u1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSnapshotEndpointMasksViewer(t *testing.T) {
	h := newTestServer().Handler()
	resp := createGame(t, h)

	w := doJSON(t, h, http.MethodGet, "/api/games/"+resp.GameID, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view engine.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	hidden := 0
	for _, p := range view.Players {
		if p.UserID == "u1" {
			assert.NotEqual(t, engine.CharHidden, p.Character)
			continue
		}
		if p.Character == engine.CharHidden {
			hidden++
		}
	}
	assert.GreaterOrEqual(t, hidden, 4)
}

func TestSnapshotEndpointRejectsOutsider(t *testing.T) {
	h := newTestServer().Handler()
	resp := createGame(t, h)

	w := doJSON(t, h, http.MethodGet, "/api/games/"+resp.GameID, "ghost", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/games/"+resp.GameID, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSnapshotEndpointUnknownGame(t *testing.T) {
	h := newTestServer().Handler()
	w := doJSON(t, h, http.MethodGet, "/api/games/nope", "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActionEndpoint(t *testing.T) {
	h := newTestServer().Handler()
	resp := createGame(t, h)
	speaker := resp.InitialState.SpeakerID

	w := doJSON(t, h, http.MethodPost, "/api/games/"+resp.GameID+"/actions", speaker,
		actionRequest{ActionType: engine.ActionSpeak})
	require.Equal(t, http.StatusOK, w.Code)

	var view engine.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.NotEqual(t, speaker, view.SpeakerID)
}

func TestActionEndpointAuthorityRejection(t *testing.T) {
	h := newTestServer().Handler()
	resp := createGame(t, h)

	// Find someone who is not the speaker.
	actor := ""
	for _, p := range resp.InitialState.Players {
		if p.UserID != resp.InitialState.SpeakerID {
			actor = p.UserID
			break
		}
	}

	w := doJSON(t, h, http.MethodPost, "/api/games/"+resp.GameID+"/actions", actor,
		actionRequest{ActionType: engine.ActionSpeak})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var ep errorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ep))
	assert.Equal(t, string(engine.ReasonNotSpeaker), ep.Reason)
}

func TestActionEndpointUnknownActionType(t *testing.T) {
	h := newTestServer().Handler()
	resp := createGame(t, h)

	w := doJSON(t, h, http.MethodPost, "/api/games/"+resp.GameID+"/actions", resp.InitialState.SpeakerID,
		actionRequest{ActionType: engine.ActionType("dance")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var ep errorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ep))
	assert.Equal(t, string(engine.ReasonUnknownActionType), ep.Reason)
}
