package engine

// viewRule adjusts one projected player copy according to what the viewer's
// role may know about the subject's true character. Exactly one rule applies
// per viewer; the table keeps role visibility extensible without growing a
// conditional chain.
type viewRule func(subject Character, out *PlayerState)

var viewRules = map[Character]viewRule{
	// Evil players fully recognize their teammates; they learn nothing
	// about Good identities.
	CharMorgana:  revealEvilTeam,
	CharAssassin: revealEvilTeam,
	CharMinion:   revealEvilTeam,

	// Merlin sees who is Evil but not which Evil role they hold.
	CharMerlin: func(subject Character, out *PlayerState) {
		if subject.Camp() == CampEvil {
			out.AppearsEvil = true
		}
	},

	// Percival sees Merlin and Morgana as indistinguishable Merlin
	// candidates.
	CharPercival: func(subject Character, out *PlayerState) {
		if subject == CharMerlin || subject == CharMorgana {
			out.AppearsMerlin = true
		}
	},
}

func revealEvilTeam(subject Character, out *PlayerState) {
	if subject.Camp() == CampEvil {
		out.Character = subject
	}
}

// ProjectFor returns an independent copy of the state masked for the given
// viewer. The canonical state is never touched.
//
// Every subject's character is hidden unless the game is finished, the
// subject is the viewer, or the viewer's role grants visibility per
// viewRules.
func (g *GameState) ProjectFor(viewerID string) (*GameState, error) {
	viewer := g.playerByID(viewerID)
	if viewer == nil {
		return nil, ErrViewerNotInGame
	}

	out := g.Clone()
	rule := viewRules[viewer.Character]

	for i := range out.Players {
		subject := &out.Players[i]
		truth := subject.Character
		subject.AppearsEvil = false
		subject.AppearsMerlin = false

		if g.Phase == PhaseFinished || subject.UserID == viewerID {
			continue
		}

		subject.Character = CharHidden
		if rule != nil {
			rule(truth, subject)
		}
	}

	return out, nil
}
