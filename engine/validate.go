package engine

// Validate checks whether the actor may perform the action in the current
// state. It is pure: no call path mutates the receiver. A nil return means
// Apply will accept the same (state, actor, action, payload) tuple.
func (g *GameState) Validate(actorID string, action ActionType, p Payload) error {
	actor := g.playerByID(actorID)
	if actor == nil {
		return ErrPlayerNotInGame
	}

	switch action {
	case ActionPropose:
		return g.validatePropose(actor, p)
	case ActionVote:
		return g.validateVote(actor)
	case ActionMission:
		return g.validateMission(actor, p)
	case ActionSpeak:
		return g.validateSpeak(actor)
	case ActionAssassinate:
		return g.validateAssassinate(actor, p)
	default:
		return reject(ReasonUnknownActionType, "unknown action type %q", action)
	}
}

func (g *GameState) validatePropose(actor *PlayerState, p Payload) error {
	if g.Phase != PhaseTeamProposal {
		return reject(ReasonWrongPhase, "proposals only allowed in %s, phase is %s", PhaseTeamProposal, g.Phase)
	}
	if g.LeaderID != actor.UserID {
		return reject(ReasonNotLeader, "only the leader may propose a team")
	}
	required := MissionTeamSize(g.Round)
	if len(p.TargetIDs) == 0 {
		return reject(ReasonWrongTeamSize, "proposed team must not be empty")
	}
	if len(p.TargetIDs) != required {
		return reject(ReasonWrongTeamSize, "round %d requires a team of %d, got %d", g.Round, required, len(p.TargetIDs))
	}
	for _, id := range p.TargetIDs {
		if g.playerByID(id) == nil {
			return reject(ReasonUnknownPlayer, "proposed player %q is not seated", id)
		}
	}
	return nil
}

func (g *GameState) validateVote(actor *PlayerState) error {
	if g.Phase != PhaseVote {
		return reject(ReasonWrongPhase, "votes only allowed in %s, phase is %s", PhaseVote, g.Phase)
	}
	if actor.HasVoted {
		return reject(ReasonAlreadyVoted, "player %s already voted on this proposal", actor.UserID)
	}
	return nil
}

func (g *GameState) validateMission(actor *PlayerState, p Payload) error {
	if g.Phase != PhaseMission {
		return reject(ReasonWrongPhase, "mission submissions only allowed in %s, phase is %s", PhaseMission, g.Phase)
	}
	if !g.onProposedTeam(actor.UserID) {
		return reject(ReasonNotOnTeam, "player %s is not on the mission team", actor.UserID)
	}
	if actor.HasActed {
		return reject(ReasonAlreadyActed, "player %s already submitted a mission result", actor.UserID)
	}
	if p.Result != MissionSuccess && p.Result != MissionFail {
		return reject(ReasonInvalidPayload, "mission result must be %q or %q, got %q", MissionSuccess, MissionFail, p.Result)
	}
	if actor.Character.Camp() == CampGood && p.Result == MissionFail {
		return reject(ReasonGoodCannotFail, "good-camp players may only submit success")
	}
	return nil
}

func (g *GameState) validateSpeak(actor *PlayerState) error {
	if g.Phase != PhaseSpeech {
		return reject(ReasonWrongPhase, "speaking only allowed in %s, phase is %s", PhaseSpeech, g.Phase)
	}
	if g.SpeakerID != actor.UserID {
		return reject(ReasonNotSpeaker, "it is not player %s's turn to speak", actor.UserID)
	}
	return nil
}

func (g *GameState) validateAssassinate(actor *PlayerState, p Payload) error {
	if g.Phase != PhaseAssassination {
		return reject(ReasonWrongPhase, "assassination only allowed in %s, phase is %s", PhaseAssassination, g.Phase)
	}
	if actor.Character != CharAssassin {
		return reject(ReasonNotAssassin, "only the assassin may assassinate")
	}
	if p.TargetID == "" {
		return reject(ReasonMissingTarget, "assassination requires a target")
	}
	if g.playerByID(p.TargetID) == nil {
		return reject(ReasonTargetNotFound, "assassination target %q is not seated", p.TargetID)
	}
	return nil
}
