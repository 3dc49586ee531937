package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions outside per-action rule checks.
var (
	// ErrInvalidPlayerCount is returned by NewGame when the id list does not
	// contain exactly NumSeats distinct ids.
	ErrInvalidPlayerCount = errors.New("engine: exactly 8 distinct players required")

	// ErrPlayerNotInGame is returned when the acting user holds no seat.
	ErrPlayerNotInGame = errors.New("engine: player not in game")

	// ErrViewerNotInGame is returned by ProjectFor for outside observers.
	ErrViewerNotInGame = errors.New("engine: viewer not in game")
)

// Reason classifies why an action was rejected by the validator.
type Reason string

const (
	ReasonWrongPhase        Reason = "wrong_phase"
	ReasonNotLeader         Reason = "not_leader"
	ReasonNotSpeaker        Reason = "not_speaker"
	ReasonNotAssassin       Reason = "not_assassin"
	ReasonNotOnTeam         Reason = "not_on_team"
	ReasonAlreadyVoted      Reason = "already_voted"
	ReasonAlreadyActed      Reason = "already_acted"
	ReasonWrongTeamSize     Reason = "wrong_team_size"
	ReasonUnknownPlayer     Reason = "unknown_player"
	ReasonGoodCannotFail    Reason = "good_cannot_fail"
	ReasonMissingTarget     Reason = "missing_target"
	ReasonTargetNotFound    Reason = "target_not_found"
	ReasonInvalidPayload    Reason = "invalid_payload"
	ReasonUnknownActionType Reason = "unknown_action_type"
	ReasonGameFinished      Reason = "game_finished"
)

// RuleError is a rejection from the rule validator. A rejected action never
// mutates state; the caller may correct the action and retry.
type RuleError struct {
	Reason Reason
	msg    string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("engine: %s: %s", e.Reason, e.msg)
}

// reject builds a RuleError with a formatted message.
func reject(reason Reason, format string, args ...any) *RuleError {
	return &RuleError{Reason: reason, msg: fmt.Sprintf(format, args...)}
}

// RejectionReason extracts the validator reason from err, if it carries one.
func RejectionReason(err error) (Reason, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return "", false
}
