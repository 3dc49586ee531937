// Package engine implements the rules of an 8-player hidden-role game of
// the Avalon family.
//
// The package is the authoritative state machine: it owns per-action
// legality rules, phase transitions, the timeout fallback policy, and the
// per-viewer projection that masks hidden roles. It performs no I/O and
// keeps no global state; callers supply the clock and serialize Apply calls
// per game.
package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// PlayerState holds one player's standing within a single game.
//
// AppearsEvil and AppearsMerlin are never set on the canonical state; they
// exist only on copies returned by ProjectFor.
type PlayerState struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	SeatID      int       `json:"seat_id"`
	Character   Character `json:"character,omitempty"`
	IsAlive     bool      `json:"is_alive"` // reserved: always true in this variant

	// Per-round transient flags, reset on each proposal / mission start.
	HasVoted bool `json:"has_voted"`
	HasActed bool `json:"has_acted"`

	// Projection-only visibility markers.
	AppearsEvil   bool `json:"appears_evil,omitempty"`
	AppearsMerlin bool `json:"appears_merlin,omitempty"`
}

// GameState is the canonical record of a single game. It is mutated
// exclusively by Apply; everything else reads it or copies it.
type GameState struct {
	GameID         string    `json:"game_id"`
	Phase          Phase     `json:"phase"`
	PhaseStartTime time.Time `json:"phase_start_time"` // zero = not started

	Round     int `json:"round"`      // 1..5
	VoteTrack int `json:"vote_track"` // consecutive rejected proposals, 0..4

	LeaderID  string `json:"leader_id"`
	SpeakerID string `json:"speaker_id,omitempty"` // empty outside SPEECH

	ProposedTeam []string              `json:"proposed_team"`
	Votes        map[string]VoteOption `json:"votes"`

	Players []PlayerState `json:"players"` // exactly NumSeats, seat-ordered

	MissionResults []MissionResult `json:"mission_results"`
	// PendingMissionResults buffers this round's anonymous submissions and
	// is cleared on settlement.
	PendingMissionResults []MissionResult `json:"pending_mission_results"`

	Winner Camp `json:"winner,omitempty"` // set once, terminal
}

// NewGame creates a game for exactly NumSeats distinct player ids.
//
// Seats and roles are permuted independently and uniformly at random, so
// seat order carries no information about role assignment. The game enters
// PhaseSpeech with the occupant of seat 0 as both leader and first speaker.
func NewGame(gameID string, playerIDs []string, displayNames map[string]string, now time.Time) (*GameState, error) {
	if len(playerIDs) != NumSeats {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, len(playerIDs))
	}
	seen := make(map[string]struct{}, NumSeats)
	for _, id := range playerIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidPlayerCount, id)
		}
		seen[id] = struct{}{}
	}

	seats := make([]string, NumSeats)
	copy(seats, playerIDs)
	rand.Shuffle(NumSeats, func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })

	roles := roleSet
	rand.Shuffle(NumSeats, func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	players := make([]PlayerState, NumSeats)
	for seat, uid := range seats {
		name, ok := displayNames[uid]
		if !ok {
			name = "User_" + uid
		}
		players[seat] = PlayerState{
			UserID:      uid,
			DisplayName: name,
			SeatID:      seat,
			Character:   roles[seat],
			IsAlive:     true,
		}
	}

	return &GameState{
		GameID:         gameID,
		Phase:          PhaseSpeech,
		PhaseStartTime: now,
		Round:          1,
		LeaderID:       players[0].UserID,
		SpeakerID:      players[0].UserID,
		ProposedTeam:   []string{},
		Votes:          map[string]VoteOption{},
		Players:        players,
		MissionResults: []MissionResult{},
	}, nil
}

// IsFinished reports whether the game reached its terminal phase.
func (g *GameState) IsFinished() bool { return g.Phase == PhaseFinished }

// playerByID returns the seated player with the given user id, or nil.
func (g *GameState) playerByID(userID string) *PlayerState {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			return &g.Players[i]
		}
	}
	return nil
}

// playerBySeat returns the occupant of a seat number, wrapping modulo the
// roster size.
func (g *GameState) playerBySeat(seat int) *PlayerState {
	n := len(g.Players)
	if n == 0 {
		return nil
	}
	return &g.Players[((seat%n)+n)%n]
}

// playerByCharacter returns the first player holding the given character,
// or nil. Useful for singleton roles (Merlin, Assassin, Morgana).
func (g *GameState) playerByCharacter(c Character) *PlayerState {
	for i := range g.Players {
		if g.Players[i].Character == c {
			return &g.Players[i]
		}
	}
	return nil
}

// nextSeatAfter returns the occupant of the seat following the given seat in
// ascending seat order with wrap-around. Rotation always walks seat order,
// never arrival order, so successor computation stays deterministic.
func (g *GameState) nextSeatAfter(seat int) *PlayerState {
	return g.playerBySeat(seat + 1)
}

// onProposedTeam reports whether the user id is a member of the current
// proposed team.
func (g *GameState) onProposedTeam(userID string) bool {
	for _, id := range g.ProposedTeam {
		if id == userID {
			return true
		}
	}
	return false
}

// Clone returns an independent deep copy of the state. Maps and slices are
// copied; the canonical state is never aliased by the copy.
func (g *GameState) Clone() *GameState {
	out := *g

	out.Players = make([]PlayerState, len(g.Players))
	copy(out.Players, g.Players)

	out.ProposedTeam = append([]string(nil), g.ProposedTeam...)
	out.MissionResults = append([]MissionResult(nil), g.MissionResults...)
	out.PendingMissionResults = append([]MissionResult(nil), g.PendingMissionResults...)

	out.Votes = make(map[string]VoteOption, len(g.Votes))
	for k, v := range g.Votes {
		out.Votes[k] = v
	}

	return &out
}
