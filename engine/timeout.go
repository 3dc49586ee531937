package engine

import "time"

// PhaseTimeout is how long a phase may sit idle before the driver injects
// fallback actions.
const PhaseTimeout = 60 * time.Second

// IsTimedOut reports whether the current phase has been idle longer than
// PhaseTimeout. A game whose phase clock was never started is never timed
// out.
func (g *GameState) IsTimedOut(now time.Time) bool {
	if g.PhaseStartTime.IsZero() {
		return false
	}
	return now.Sub(g.PhaseStartTime) > PhaseTimeout
}

// DefaultAction returns the fallback action a timed-out game should receive
// so it never stalls:
//
//   - VOTE: reject the proposal.
//   - MISSION: submit success (safe for either camp).
//   - TEAM_PROPOSAL: the leader proposes the required number of players
//     starting at their own seat, walking forward with wrap-around.
//   - ASSASSINATION: the assassin targets the next seat after their own.
//
// Other phases have no synthesized action and return nil; SPEECH progresses
// by treating silence as a pass (the driver submits SPEAK for the speaker).
// nil is also returned when the structural role a fallback depends on is
// absent — the caller should leave the phase pending rather than fail.
func (g *GameState) DefaultAction() *Action {
	switch g.Phase {
	case PhaseVote:
		return &Action{Type: ActionVote, Payload: Payload{Option: VoteReject}}

	case PhaseMission:
		return &Action{Type: ActionMission, Payload: Payload{Result: MissionSuccess}}

	case PhaseTeamProposal:
		leader := g.playerByID(g.LeaderID)
		if leader == nil || len(g.Players) == 0 {
			return nil
		}
		required := MissionTeamSize(g.Round)
		targets := make([]string, 0, required)
		for k := 0; k < required; k++ {
			targets = append(targets, g.playerBySeat(leader.SeatID+k).UserID)
		}
		return &Action{Type: ActionPropose, Payload: Payload{TargetIDs: targets}}

	case PhaseAssassination:
		assassin := g.playerByCharacter(CharAssassin)
		if assassin == nil || len(g.Players) == 0 {
			return nil
		}
		target := g.playerBySeat(assassin.SeatID + 1)
		return &Action{Type: ActionAssassinate, Payload: Payload{TargetID: target.UserID}}
	}
	return nil
}

// DefaultActors returns the user ids the driver should submit the fallback
// action on behalf of in the current phase: every player yet to vote, every
// team member yet to act, the leader, or the assassin. In SPEECH it is the
// current speaker, whose fallback is an implicit pass.
func (g *GameState) DefaultActors() []string {
	switch g.Phase {
	case PhaseVote:
		var ids []string
		for i := range g.Players {
			if !g.Players[i].HasVoted {
				ids = append(ids, g.Players[i].UserID)
			}
		}
		return ids

	case PhaseMission:
		var ids []string
		for _, id := range g.ProposedTeam {
			if p := g.playerByID(id); p != nil && !p.HasActed {
				ids = append(ids, id)
			}
		}
		return ids

	case PhaseTeamProposal:
		if g.LeaderID == "" {
			return nil
		}
		return []string{g.LeaderID}

	case PhaseAssassination:
		if assassin := g.playerByCharacter(CharAssassin); assassin != nil {
			return []string{assassin.UserID}
		}

	case PhaseSpeech:
		if g.SpeakerID != "" {
			return []string{g.SpeakerID}
		}
	}
	return nil
}
