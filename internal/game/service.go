// Package game is the service layer around the rules engine: it resolves
// display names, owns the store, and funnels every mutation — real or
// timeout-synthesized — through the engine's single Apply entry point.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/VicWang17/Aivalon/engine"
	"github.com/VicWang17/Aivalon/internal/names"
	"github.com/VicWang17/Aivalon/internal/store"
)

// Service exposes the core game operations to transports and the timeout
// driver.
type Service struct {
	store store.Store
	names names.Resolver
	log   *logrus.Logger
	now   func() time.Time
}

// NewService wires the service with its collaborators. resolver may be nil
// when no name source exists; every player then gets the placeholder name.
func NewService(st store.Store, resolver names.Resolver, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: st, names: resolver, log: log, now: time.Now}
}

// Create starts a game for exactly eight distinct players and persists its
// initial state.
func (s *Service) Create(ctx context.Context, playerIDs []string) (*engine.GameState, error) {
	nameMap := map[string]string{}
	if s.names != nil {
		resolved, err := s.names.Resolve(ctx, playerIDs)
		if err != nil {
			// Unresolvable names degrade to placeholders; creation proceeds.
			s.log.WithError(err).Warn("display name resolution failed, using placeholders")
		} else {
			nameMap = resolved
		}
	}

	g, err := engine.NewGame(uuid.NewString(), playerIDs, nameMap, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, g); err != nil {
		return nil, fmt.Errorf("game: save new game: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"game_id": g.GameID,
		"phase":   g.Phase,
		"leader":  g.LeaderID,
	}).Info("game created")
	return g, nil
}

// Submit validates and applies one player action, returning a snapshot of
// the updated state. Mutations are serialized per game by the store.
func (s *Service) Submit(ctx context.Context, gameID, actorID string, action engine.ActionType, p engine.Payload) (*engine.GameState, error) {
	updated, err := s.store.Update(ctx, gameID, func(g *engine.GameState) error {
		return g.Apply(actorID, action, p, s.now())
	})
	if err != nil {
		if reason, ok := engine.RejectionReason(err); ok {
			s.log.WithFields(logrus.Fields{
				"game_id": gameID,
				"actor":   actorID,
				"action":  action,
				"reason":  reason,
			}).Debug("action rejected")
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"game_id": gameID,
		"actor":   actorID,
		"action":  action,
		"phase":   updated.Phase,
		"round":   updated.Round,
	}).Info("action applied")
	return updated, nil
}

// View returns the game state masked for the given viewer.
func (s *Service) View(ctx context.Context, gameID, viewerID string) (*engine.GameState, error) {
	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return g.ProjectFor(viewerID)
}

// State returns an unmasked snapshot. Internal callers only; transports must
// use View.
func (s *Service) State(ctx context.Context, gameID string) (*engine.GameState, error) {
	return s.store.Get(ctx, gameID)
}
