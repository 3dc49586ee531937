package store

import (
	"context"
	"sync"

	"github.com/VicWang17/Aivalon/engine"
)

// MemoryStore keeps canonical states in process memory with one lock per
// game, so writers to different games never contend.
type MemoryStore struct {
	mu    sync.RWMutex // guards the games map itself
	games map[string]*memoryEntry
}

type memoryEntry struct {
	mu    sync.Mutex // serializes Update per game
	state *engine.GameState
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) entry(gameID string) (*memoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.games[gameID]
	return e, ok
}

// Put saves a copy of the state under its game id.
func (s *MemoryStore) Put(_ context.Context, g *engine.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.games[g.GameID]; ok {
		e.mu.Lock()
		e.state = g.Clone()
		e.mu.Unlock()
		return nil
	}
	s.games[g.GameID] = &memoryEntry{state: g.Clone()}
	return nil
}

// Get returns an independent snapshot of the stored state.
func (s *MemoryStore) Get(_ context.Context, gameID string) (*engine.GameState, error) {
	e, ok := s.entry(gameID)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), nil
}

// Update applies fn to the canonical state under the game's lock.
func (s *MemoryStore) Update(_ context.Context, gameID string, fn func(*engine.GameState) error) (*engine.GameState, error) {
	e, ok := s.entry(gameID)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.state); err != nil {
		return nil, err
	}
	return e.state.Clone(), nil
}

// ActiveIDs lists every game that has not reached its terminal phase.
func (s *MemoryStore) ActiveIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.games))
	for id, e := range s.games {
		e.mu.Lock()
		finished := e.state.IsFinished()
		e.mu.Unlock()
		if !finished {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Delete removes the game, if present.
func (s *MemoryStore) Delete(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, gameID)
	return nil
}
