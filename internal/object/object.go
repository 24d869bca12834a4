// Package object holds the simulation entities (targets, projectiles and the
// static ground and walls) and the components that create them: the spawn
// scheduler and the shooter.
package object

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/fruitarchery/internal/clock"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// Kind classifies an entity. It is fixed when the entity is created.
type Kind int

const (
	KindUnknown Kind = iota
	KindTarget
	KindProjectile
	KindGround
	KindBoundary
)

func (k Kind) String() string {
	switch k {
	case KindTarget:
		return "target"
	case KindProjectile:
		return "projectile"
	case KindGround:
		return "ground"
	case KindBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// Spawner allows components to add new entities to the world during a tick.
type Spawner interface {
	Spawn(e Entity)
}

// Rand is the random source used for launches and spawn choices.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	Delta time.Duration // Step length
	Now   time.Duration // Simulation time after the step
}

// Entity is an updatable world entity.
type Entity interface {
	ID() uuid.UUID
	Kind() Kind

	// Update advances the entity by one step. Returns true if the entity should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	Destructible
}

// Destructible is implemented by entities that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the entity for removal on next compaction.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for destruction.
	IsDestroyed() bool
}

// HitResult is the effect of one resolved projectile/target hit.
type HitResult struct {
	ScoreDelta    int
	TargetRemoved bool
}

// HitApplier resolves a validated hit. p is nil when the hit does not come
// from a projectile (game-over cleanup).
type HitApplier interface {
	ApplyHit(p *Projectile, t *Target) HitResult
}

// Env carries the collaborators shared by the components of one game.
type Env struct {
	Clock   *clock.Clock
	Rand    Rand
	Spawner Spawner
	Events  event.Listener
	Logger  *log.Logger
}

func (e Env) events() event.Listener {
	if e.Events == nil {
		return event.Nop
	}
	return e.Events
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// Boundary is a static collider: the ground plane or a side wall.
type Boundary struct {
	id   uuid.UUID
	kind Kind

	// Normal and Offset describe the plane: points p with Normal·p < Offset are
	// past the boundary.
	Normal physics.Vec3
	Offset float64
}

// NewGround creates the ground boundary at height y.
func NewGround(y float64) *Boundary {
	return &Boundary{id: uuid.New(), kind: KindGround, Normal: physics.Up, Offset: y}
}

// NewWall creates a side wall. The playfield is on the side normal points to.
func NewWall(normal physics.Vec3, point physics.Vec3) *Boundary {
	n := physics.Normalize(normal)
	return &Boundary{id: uuid.New(), kind: KindBoundary, Normal: n, Offset: n.Dot(point)}
}

func (b *Boundary) ID() uuid.UUID { return b.id }
func (b *Boundary) Kind() Kind    { return b.kind }

// Update is a no-op; boundaries never move or expire.
func (b *Boundary) Update(UpdateContext) (bool, error) { return false, nil }

// MarkDestroyed is a no-op.
func (b *Boundary) MarkDestroyed() {}

// IsDestroyed always returns false.
func (b *Boundary) IsDestroyed() bool { return false }

// Contains reports whether a sphere at p with radius r touches or crosses the boundary.
func (b *Boundary) Contains(p physics.Vec3, r float64) bool {
	return b.Normal.Dot(p)-r < b.Offset
}
