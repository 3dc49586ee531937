package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullRoster builds a state holding one of every role plus three servants:
// u1 Merlin, u2 Percival, u3..u5 Servants, u6 Morgana, u7 Assassin, u8 Minion.
func fullRoster(phase Phase) *GameState {
	g := mockGame(phase)
	roles := []Character{
		CharMerlin, CharPercival,
		CharServant, CharServant, CharServant,
		CharMorgana, CharAssassin, CharMinion,
	}
	for i := range g.Players {
		g.Players[i].Character = roles[i]
	}
	return g
}

func projected(t *testing.T, g *GameState, viewerID string) map[string]PlayerState {
	t.Helper()
	view, err := g.ProjectFor(viewerID)
	require.NoError(t, err)
	out := make(map[string]PlayerState, len(view.Players))
	for _, p := range view.Players {
		out[p.UserID] = p
	}
	return out
}

func TestProjectOutsiderRejected(t *testing.T) {
	g := fullRoster(PhaseSpeech)
	_, err := g.ProjectFor("ghost")
	assert.ErrorIs(t, err, ErrViewerNotInGame)
}

func TestProjectDoesNotMutateCanonicalState(t *testing.T) {
	g := fullRoster(PhaseSpeech)
	_, err := g.ProjectFor("u1")
	require.NoError(t, err)

	for i, want := range []Character{
		CharMerlin, CharPercival, CharServant, CharServant,
		CharServant, CharMorgana, CharAssassin, CharMinion,
	} {
		assert.Equal(t, want, g.Players[i].Character)
		assert.False(t, g.Players[i].AppearsEvil)
		assert.False(t, g.Players[i].AppearsMerlin)
	}
}

func TestProjectSelfAlwaysVisible(t *testing.T) {
	g := fullRoster(PhaseSpeech)
	view := projected(t, g, "u3")
	assert.Equal(t, CharServant, view["u3"].Character)
}

func TestProjectServantViewer(t *testing.T) {
	g := fullRoster(PhaseSpeech)
	view := projected(t, g, "u3")

	for id, p := range view {
		if id == "u3" {
			continue
		}
		assert.Equal(t, CharHidden, p.Character, "subject %s", id)
		assert.False(t, p.AppearsEvil, "subject %s", id)
		assert.False(t, p.AppearsMerlin, "subject %s", id)
	}
}

func TestProjectMerlinViewer(t *testing.T) {
	g := fullRoster(PhaseSpeech)
	view := projected(t, g, "u1")

	for _, evil := range ids(6, 7, 8) {
		assert.Equal(t, CharHidden, view[evil].Character, "exact evil role stays hidden")
		assert.True(t, view[evil].AppearsEvil, "subject %s", evil)
	}
	for _, good := range ids(2, 3, 4, 5) {
		assert.Equal(t, CharHidden, view[good].Character)
		assert.False(t, view[good].AppearsEvil)
	}
}

func TestProjectPercivalViewer(t *testing.T) {
	g := fullRoster(PhaseSpeech)
	view := projected(t, g, "u2")

	// Merlin and Morgana are marked but indistinguishable.
	for _, candidate := range []string{"u1", "u6"} {
		assert.Equal(t, CharHidden, view[candidate].Character)
		assert.True(t, view[candidate].AppearsMerlin, "subject %s", candidate)
	}
	for _, other := range ids(3, 4, 5, 7, 8) {
		assert.False(t, view[other].AppearsMerlin, "subject %s", other)
	}
}

func TestProjectEvilViewer(t *testing.T) {
	g := fullRoster(PhaseSpeech)

	for _, viewer := range ids(6, 7, 8) {
		view := projected(t, g, viewer)

		// Evil teammates are revealed exactly.
		assert.Equal(t, CharMorgana, view["u6"].Character)
		assert.Equal(t, CharAssassin, view["u7"].Character)
		assert.Equal(t, CharMinion, view["u8"].Character)

		// Good identities stay hidden, unmarked.
		for _, good := range ids(1, 2, 3, 4, 5) {
			if good == viewer {
				continue
			}
			assert.Equal(t, CharHidden, view[good].Character)
			assert.False(t, view[good].AppearsEvil)
			assert.False(t, view[good].AppearsMerlin)
		}
	}
}

func TestProjectFinishedRevealsAll(t *testing.T) {
	g := fullRoster(PhaseFinished)
	g.Winner = CampGood
	view := projected(t, g, "u4")

	assert.Equal(t, CharMerlin, view["u1"].Character)
	assert.Equal(t, CharMorgana, view["u6"].Character)
	assert.Equal(t, CharAssassin, view["u7"].Character)
}
