package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/VicWang17/Aivalon/engine"
)

const (
	redisKeyPrefix = "game:"
	redisActiveSet = "games:active"
)

// RedisStore keeps canonical states in Redis as JSON, with an id set for the
// timeout sweeper. Writers are serialized through per-game locks local to
// this process; game state is not replicated across processes, so a game id
// must be owned by a single instance.
type RedisStore struct {
	rdb redis.UniversalClient

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb, locks: make(map[string]*sync.Mutex)}
}

func (s *RedisStore) lockFor(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[gameID] = l
	}
	return l
}

func (s *RedisStore) save(ctx context.Context, g *engine.GameState) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("store: marshal game %s: %w", g.GameID, err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+g.GameID, raw, 0)
	if g.IsFinished() {
		pipe.SRem(ctx, redisActiveSet, g.GameID)
	} else {
		pipe.SAdd(ctx, redisActiveSet, g.GameID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) load(ctx context.Context, gameID string) (*engine.GameState, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+gameID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load game %s: %w", gameID, err)
	}
	var g engine.GameState
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("store: unmarshal game %s: %w", gameID, err)
	}
	return &g, nil
}

// Put saves the state and registers it in the active set.
func (s *RedisStore) Put(ctx context.Context, g *engine.GameState) error {
	l := s.lockFor(g.GameID)
	l.Lock()
	defer l.Unlock()
	return s.save(ctx, g)
}

// Get returns the stored state. The unmarshaled copy is already independent.
func (s *RedisStore) Get(ctx context.Context, gameID string) (*engine.GameState, error) {
	return s.load(ctx, gameID)
}

// Update loads, mutates via fn, and writes back under the game's lock.
func (s *RedisStore) Update(ctx context.Context, gameID string, fn func(*engine.GameState) error) (*engine.GameState, error) {
	l := s.lockFor(gameID)
	l.Lock()
	defer l.Unlock()

	g, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := fn(g); err != nil {
		return nil, err
	}
	if err := s.save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ActiveIDs reads the active-game set.
func (s *RedisStore) ActiveIDs(ctx context.Context) ([]string, error) {
	return s.rdb.SMembers(ctx, redisActiveSet).Result()
}

// Delete removes the state and its active-set membership.
func (s *RedisStore) Delete(ctx context.Context, gameID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, redisKeyPrefix+gameID)
	pipe.SRem(ctx, redisActiveSet, gameID)
	_, err := pipe.Exec(ctx)

	s.mu.Lock()
	delete(s.locks, gameID)
	s.mu.Unlock()
	return err
}
