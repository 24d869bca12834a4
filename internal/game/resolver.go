// Package game ties the entities together into a playable session: hit
// resolution, the session lifecycle and the world that steps everything.
package game

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/object"
)

// Scorer receives the points of resolved hits.
type Scorer interface {
	AddScore(points int)
}

// Resolver maps a validated hit to its effect: the target is removed and its
// points go to the scorer. It holds no per-hit state; deduplication is the
// projectile's job.
type Resolver struct {
	scorer Scorer
	events event.Listener
	logger *log.Logger
}

// NewResolver creates a resolver reporting points to scorer.
func NewResolver(scorer Scorer, events event.Listener, logger *log.Logger) *Resolver {
	if events == nil {
		events = event.Nop
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{scorer: scorer, events: events, logger: logger}
}

// ApplyHit removes t and reports its points. p is nil for hits that do not
// come from a projectile. A target that is already gone yields a zero result.
func (r *Resolver) ApplyHit(p *object.Projectile, t *object.Target) object.HitResult {
	if t == nil || t.IsDestroyed() {
		return object.HitResult{}
	}
	t.MarkDestroyed()

	projectileID := uuid.Nil
	if p != nil {
		projectileID = p.ID()
	}
	r.events.Notify(event.TargetHit{
		TargetID:     t.ID(),
		ProjectileID: projectileID,
		Name:         t.Name(),
		Points:       t.Points,
		Position:     t.Position,
	})
	r.logger.Debug("hit fruit", "fruit", t.Name(), "points", t.Points)

	if r.scorer != nil {
		r.scorer.AddScore(t.Points)
	}
	return object.HitResult{ScoreDelta: t.Points, TargetRemoved: true}
}
