package game

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VicWang17/Aivalon/engine"
	"github.com/VicWang17/Aivalon/internal/names"
	"github.com/VicWang17/Aivalon/internal/store"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testIDs() []string {
	out := make([]string, engine.NumSeats)
	for i := range out {
		out[i] = fmt.Sprintf("u%d", i+1)
	}
	return out
}

func newTestService() (*Service, *store.MemoryStore) {
	st := store.NewMemoryStore()
	svc := NewService(st, names.Static{"u1": "Alice"}, quietLogger())
	return svc, st
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	g, err := svc.Create(ctx, testIDs())
	require.NoError(t, err)
	assert.NotEmpty(t, g.GameID)
	assert.Equal(t, engine.PhaseSpeech, g.Phase)

	for _, p := range g.Players {
		if p.UserID == "u1" {
			assert.Equal(t, "Alice", p.DisplayName)
		} else {
			assert.Equal(t, "User_"+p.UserID, p.DisplayName, "unresolved ids get placeholders")
		}
	}

	stored, err := st.Get(ctx, g.GameID)
	require.NoError(t, err)
	assert.Equal(t, g, stored)
}

func TestServiceCreateRejectsWrongCount(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), []string{"u1", "u2"})
	assert.ErrorIs(t, err, engine.ErrInvalidPlayerCount)
}

func TestServiceSubmitUnknownGame(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Submit(context.Background(), "missing", "u1", engine.ActionSpeak, engine.Payload{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceSubmitAppliesAndPersists(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	g, err := svc.Create(ctx, testIDs())
	require.NoError(t, err)

	updated, err := svc.Submit(ctx, g.GameID, g.SpeakerID, engine.ActionSpeak, engine.Payload{})
	require.NoError(t, err)
	assert.NotEqual(t, g.SpeakerID, updated.SpeakerID)

	stored, err := st.Get(ctx, g.GameID)
	require.NoError(t, err)
	assert.Equal(t, updated.SpeakerID, stored.SpeakerID)
}

func TestServiceSubmitRejectionKeepsState(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	g, err := svc.Create(ctx, testIDs())
	require.NoError(t, err)

	// Not the speaker's turn.
	wrongActor := g.Players[3].UserID
	if wrongActor == g.SpeakerID {
		wrongActor = g.Players[4].UserID
	}
	_, err = svc.Submit(ctx, g.GameID, wrongActor, engine.ActionSpeak, engine.Payload{})
	reason, ok := engine.RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, engine.ReasonNotSpeaker, reason)

	stored, err := st.Get(ctx, g.GameID)
	require.NoError(t, err)
	assert.Equal(t, g, stored)
}

func TestServiceViewMasksForViewer(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	g, err := svc.Create(ctx, testIDs())
	require.NoError(t, err)

	view, err := svc.View(ctx, g.GameID, "u1")
	require.NoError(t, err)

	var self *engine.PlayerState
	hiddenOthers := 0
	for i := range view.Players {
		p := &view.Players[i]
		if p.UserID == "u1" {
			self = p
			continue
		}
		if p.Character == engine.CharHidden {
			hiddenOthers++
		}
	}
	require.NotNil(t, self)
	assert.NotEqual(t, engine.CharHidden, self.Character, "own role is visible")
	assert.GreaterOrEqual(t, hiddenOthers, 4, "at least the opposite camp stays hidden")

	_, err = svc.View(ctx, g.GameID, "ghost")
	assert.ErrorIs(t, err, engine.ErrViewerNotInGame)
}

func TestDriverSweepInjectsDefaults(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	g, err := svc.Create(ctx, testIDs())
	require.NoError(t, err)

	// Put the game into VOTE with a proposal on the table.
	_, err = st.Update(ctx, g.GameID, func(s *engine.GameState) error {
		s.Phase = engine.PhaseVote
		s.SpeakerID = ""
		s.ProposedTeam = []string{s.Players[0].UserID, s.Players[1].UserID, s.Players[2].UserID}
		return nil
	})
	require.NoError(t, err)

	d := NewDriver(svc, time.Minute, quietLogger())

	// Not yet stale: nothing happens.
	d.Sweep(ctx)
	fresh, err := st.Get(ctx, g.GameID)
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseVote, fresh.Phase)
	assert.Empty(t, fresh.Votes)

	// Age the phase past the timeout; the sweep rejects for everyone, the
	// proposal fails, and the next leader's speech round begins.
	_, err = st.Update(ctx, g.GameID, func(s *engine.GameState) error {
		s.PhaseStartTime = s.PhaseStartTime.Add(-2 * engine.PhaseTimeout)
		return nil
	})
	require.NoError(t, err)

	d.Sweep(ctx)

	after, err := st.Get(ctx, g.GameID)
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseSpeech, after.Phase)
	assert.Equal(t, 1, after.VoteTrack)
	assert.Equal(t, after.LeaderID, after.SpeakerID)
}

func TestDriverSweepPassesStalledSpeech(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	g, err := svc.Create(ctx, testIDs())
	require.NoError(t, err)

	_, err = st.Update(ctx, g.GameID, func(s *engine.GameState) error {
		s.PhaseStartTime = s.PhaseStartTime.Add(-2 * engine.PhaseTimeout)
		return nil
	})
	require.NoError(t, err)

	d := NewDriver(svc, time.Minute, quietLogger())
	d.Sweep(ctx)

	after, err := st.Get(ctx, g.GameID)
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseSpeech, after.Phase)
	assert.NotEqual(t, g.SpeakerID, after.SpeakerID, "stalled speaker is passed over")
}
