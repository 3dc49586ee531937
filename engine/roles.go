package engine

// Phase identifies the current stage of a game.
type Phase string

const (
	// PhaseLeaderSelection is declared for wire compatibility but no
	// transition ever enters it; games start in PhaseSpeech.
	PhaseLeaderSelection Phase = "leader_selection"

	PhaseSpeech        Phase = "speech"
	PhaseTeamProposal  Phase = "team_proposal"
	PhaseVote          Phase = "vote"
	PhaseMission       Phase = "mission"
	PhaseAssassination Phase = "assassination"
	PhaseFinished      Phase = "finished"
)

// Character is a player's hidden role.
type Character string

const (
	CharMerlin   Character = "merlin"
	CharPercival Character = "percival"
	CharServant  Character = "servant"
	CharAssassin Character = "assassin"
	CharMorgana  Character = "morgana"
	CharMinion   Character = "minion"

	// CharHidden is the masked value carried on projected copies.
	CharHidden Character = ""
)

// Camp is a character's alignment.
type Camp string

const (
	CampGood Camp = "good"
	CampEvil Camp = "evil"
)

// Camp returns the alignment of the character, or the empty Camp for
// CharHidden (a masked character has no alignment to report).
func (c Character) Camp() Camp {
	switch c {
	case CharMerlin, CharPercival, CharServant:
		return CampGood
	case CharAssassin, CharMorgana, CharMinion:
		return CampEvil
	}
	return ""
}

// VoteOption is a player's choice on a proposed team.
type VoteOption string

const (
	VoteApprove VoteOption = "approve"
	VoteReject  VoteOption = "reject"
)

// MissionResult is a single mission submission, and also the settled outcome
// of a round.
type MissionResult string

const (
	MissionSuccess MissionResult = "success"
	MissionFail    MissionResult = "fail"
)

// ActionType identifies a player action.
type ActionType string

const (
	ActionPropose     ActionType = "propose"
	ActionVote        ActionType = "vote"
	ActionMission     ActionType = "mission"
	ActionAssassinate ActionType = "assassinate"
	ActionSpeak       ActionType = "speak"
)

// Payload carries the action-specific parameters, decoded by the transport.
// Only the fields for the matching ActionType are meaningful.
type Payload struct {
	TargetIDs []string      `json:"target_ids,omitempty"` // PROPOSE
	Option    VoteOption    `json:"option,omitempty"`     // VOTE
	Result    MissionResult `json:"result,omitempty"`     // MISSION
	TargetID  string        `json:"target_id,omitempty"`  // ASSASSINATE
}

// Action pairs an action type with its payload. The timeout policy returns
// these for injection through the same Apply path as real actions.
type Action struct {
	Type    ActionType `json:"action_type"`
	Payload Payload    `json:"payload"`
}
