package engine

import "time"

// Apply is the single mutating entry point of the state machine. It
// validates first and mutates only on acceptance, so a rejected action
// leaves the state untouched.
//
// Callers must serialize Apply per game; the engine itself holds no lock.
func (g *GameState) Apply(actorID string, action ActionType, p Payload, now time.Time) error {
	if g.Phase == PhaseFinished {
		return reject(ReasonGameFinished, "game %s is finished", g.GameID)
	}
	if err := g.Validate(actorID, action, p); err != nil {
		return err
	}
	actor := g.playerByID(actorID)

	switch action {
	case ActionPropose:
		g.applyPropose(p, now)
	case ActionVote:
		g.applyVote(actor, p, now)
	case ActionMission:
		g.applyMission(actor, p, now)
	case ActionAssassinate:
		g.applyAssassinate(p, now)
	case ActionSpeak:
		g.applySpeak(actor, now)
	}
	return nil
}

// applyPropose locks in the proposed team and opens the vote.
func (g *GameState) applyPropose(p Payload, now time.Time) {
	g.ProposedTeam = append([]string(nil), p.TargetIDs...)
	g.Phase = PhaseVote
	g.Votes = map[string]VoteOption{}
	for i := range g.Players {
		g.Players[i].HasVoted = false
	}
	g.PhaseStartTime = now
}

// applyVote records one ballot and, once the table is complete, settles the
// proposal: strict majority approval starts the mission; otherwise the vote
// track advances, with five consecutive rejections handing Evil the game.
func (g *GameState) applyVote(actor *PlayerState, p Payload, now time.Time) {
	g.Votes[actor.UserID] = p.Option
	actor.HasVoted = true

	for i := range g.Players {
		if !g.Players[i].HasVoted {
			return
		}
	}

	approvals := 0
	for _, v := range g.Votes {
		if v == VoteApprove {
			approvals++
		}
	}

	if approvals*2 > len(g.Players) {
		g.Phase = PhaseMission
		g.VoteTrack = 0
		for i := range g.Players {
			g.Players[i].HasActed = false
		}
	} else {
		g.VoteTrack++
		if g.VoteTrack >= 5 {
			// Track exhaustion is an automatic Evil win.
			g.Phase = PhaseFinished
			g.Winner = CampEvil
		} else {
			g.advanceLeader()
			g.Phase = PhaseSpeech
			g.SpeakerID = g.LeaderID
			g.ProposedTeam = []string{}
		}
	}
	g.PhaseStartTime = now
}

// applyMission buffers one anonymous submission and settles the round once
// every team member has acted.
func (g *GameState) applyMission(actor *PlayerState, p Payload, now time.Time) {
	g.PendingMissionResults = append(g.PendingMissionResults, p.Result)
	actor.HasActed = true

	if len(g.PendingMissionResults) < len(g.ProposedTeam) {
		return
	}

	failCount := 0
	for _, r := range g.PendingMissionResults {
		if r == MissionFail {
			failCount++
		}
	}

	outcome := MissionSuccess
	if IsMissionFailed(g.Round, failCount) {
		outcome = MissionFail
	}
	g.MissionResults = append(g.MissionResults, outcome)
	g.PendingMissionResults = nil
	g.ProposedTeam = []string{}

	fails, successes := 0, 0
	for _, r := range g.MissionResults {
		if r == MissionFail {
			fails++
		} else {
			successes++
		}
	}

	switch {
	case fails >= 3:
		g.Phase = PhaseFinished
		g.Winner = CampEvil
	case successes >= 3:
		g.Phase = PhaseAssassination
	default:
		g.Round++
		g.advanceLeader()
		g.Phase = PhaseSpeech
		g.SpeakerID = g.LeaderID
	}
	g.PhaseStartTime = now
}

// applyAssassinate resolves the game: hitting the true Merlin wins for Evil,
// anything else for Good.
func (g *GameState) applyAssassinate(p Payload, now time.Time) {
	target := g.playerByID(p.TargetID)
	if target != nil && target.Character == CharMerlin {
		g.Winner = CampEvil
	} else {
		g.Winner = CampGood
	}
	g.Phase = PhaseFinished
	g.PhaseStartTime = now
}

// applySpeak passes the floor to the next seat; a completed circle back to
// the leader closes the discussion and opens team proposal.
func (g *GameState) applySpeak(actor *PlayerState, now time.Time) {
	next := g.nextSeatAfter(actor.SeatID)
	if next.UserID == g.LeaderID {
		g.Phase = PhaseTeamProposal
		g.SpeakerID = ""
	} else {
		g.SpeakerID = next.UserID
	}
	g.PhaseStartTime = now
}

// advanceLeader moves leadership to the next seat in ascending order with
// wrap-around.
func (g *GameState) advanceLeader() {
	leader := g.playerByID(g.LeaderID)
	if leader == nil {
		return
	}
	g.LeaderID = g.nextSeatAfter(leader.SeatID).UserID
}
