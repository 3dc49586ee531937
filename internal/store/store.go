// Package store holds the game_id -> GameState mapping behind an injected
// interface, so server instances and test harnesses can isolate state
// instead of sharing a process-wide map.
package store

import (
	"context"
	"errors"

	"github.com/VicWang17/Aivalon/engine"
)

// ErrNotFound is returned when no game exists under the requested id.
var ErrNotFound = errors.New("store: game not found")

// Store persists canonical game states. Update must serialize mutations per
// game id: the engine's Apply is a read-modify-write and games are strictly
// single-writer.
type Store interface {
	// Put saves the state under its game id, overwriting any previous value.
	Put(ctx context.Context, g *engine.GameState) error

	// Get returns a snapshot of the state. Callers own the returned copy.
	Get(ctx context.Context, gameID string) (*engine.GameState, error)

	// Update runs fn against the canonical state while holding that game's
	// write slot. If fn returns an error the stored state is kept as-is
	// (fn must not have mutated it; engine.Apply guarantees this). The
	// returned state is a snapshot of the result.
	Update(ctx context.Context, gameID string, fn func(*engine.GameState) error) (*engine.GameState, error)

	// ActiveIDs lists ids of games that have not finished, for the timeout
	// sweeper.
	ActiveIDs(ctx context.Context) ([]string, error)

	// Delete removes a game. Deleting an unknown id is not an error.
	Delete(ctx context.Context, gameID string) error
}
