package game

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/VicWang17/Aivalon/engine"
)

// Driver is the timeout fallback loop. It polls active games and, when a
// phase has stalled past the engine's timeout, injects each pending actor's
// default action through the same Submit path real actions take — there is
// no second mutation route.
type Driver struct {
	svc      *Service
	interval time.Duration
	log      *logrus.Logger
	now      func() time.Time
}

// NewDriver builds a driver polling at the given interval.
func NewDriver(svc *Service, interval time.Duration, log *logrus.Logger) *Driver {
	if log == nil {
		log = logrus.New()
	}
	return &Driver{svc: svc, interval: interval, log: log, now: time.Now}
}

// Run polls until ctx is canceled.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Sweep(ctx)
		}
	}
}

// Sweep checks every active game once and pushes fallback actions into the
// timed-out ones.
func (d *Driver) Sweep(ctx context.Context) {
	ids, err := d.svc.store.ActiveIDs(ctx)
	if err != nil {
		d.log.WithError(err).Error("timeout sweep: list active games")
		return
	}
	for _, id := range ids {
		d.sweepGame(ctx, id)
	}
}

func (d *Driver) sweepGame(ctx context.Context, gameID string) {
	g, err := d.svc.State(ctx, gameID)
	if err != nil {
		d.log.WithError(err).WithField("game_id", gameID).Warn("timeout sweep: load game")
		return
	}
	if g.IsFinished() || !g.IsTimedOut(d.now()) {
		return
	}

	actors := g.DefaultActors()
	if len(actors) == 0 {
		return
	}

	act := g.DefaultAction()
	if act == nil {
		if g.Phase != engine.PhaseSpeech {
			// No fallback defined for this phase; keep waiting.
			return
		}
		// Silence during speech counts as a pass.
		act = &engine.Action{Type: engine.ActionSpeak}
	}

	d.log.WithFields(logrus.Fields{
		"game_id": gameID,
		"phase":   g.Phase,
		"actors":  len(actors),
		"action":  act.Type,
	}).Info("phase timed out, injecting default actions")

	for _, actorID := range actors {
		if _, err := d.svc.Submit(ctx, gameID, actorID, act.Type, act.Payload); err != nil {
			// A submission may legitimately lose to a real action or to an
			// earlier default that already advanced the phase.
			d.log.WithError(err).WithFields(logrus.Fields{
				"game_id": gameID,
				"actor":   actorID,
			}).Debug("default action rejected")
		}
	}
}
