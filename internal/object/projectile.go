package object

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// ForwardAxis is the local axis of the projectile model that points along travel.
type ForwardAxis int

const (
	AxisUp ForwardAxis = iota
	AxisRight
	AxisForward
)

// ParseForwardAxis parses "up", "right" or "forward". Empty means up.
func ParseForwardAxis(s string) (ForwardAxis, error) {
	switch strings.ToLower(s) {
	case "", "up":
		return AxisUp, nil
	case "right":
		return AxisRight, nil
	case "forward":
		return AxisForward, nil
	default:
		return AxisUp, fmt.Errorf("unknown forward axis %q", s)
	}
}

// Vector returns the local direction of the axis.
func (a ForwardAxis) Vector() physics.Vec3 {
	switch a {
	case AxisRight:
		return physics.Right
	case AxisForward:
		return physics.Forward
	default:
		return physics.Up
	}
}

const (
	// planarEpsilon is the depth component below which a direction is treated as 2-D.
	planarEpsilon = 0.01
	// minOrientSpeed is the speed below which orientation is left alone.
	minOrientSpeed = 0.1
)

// Orientation returns the rotation that points axis along dir.
func Orientation(axis ForwardAxis, dir physics.Vec3) physics.Quat {
	if math.Abs(dir.Z()) < planarEpsilon {
		angle := physics.Rad2Deg(math.Atan2(dir.Y(), dir.X()))
		switch axis {
		case AxisRight:
			return physics.AngleAxis(angle, physics.Forward)
		case AxisForward:
			return physics.AngleAxis(angle+90, physics.Up)
		default:
			return physics.AngleAxis(angle-90, physics.Forward)
		}
	}
	return physics.LookRotation(dir, physics.Up)
}

// ProjectileTemplate is the arrow prefab the shooter creates projectiles from.
type ProjectileTemplate struct {
	Speed     float64
	Lifetime  time.Duration
	Piercing  bool
	MaxPierce int
	Axis      ForwardAxis
	Radius    float64
}

// Projectile is an arrow fired by the player.
type Projectile struct {
	id       uuid.UUID
	Position physics.Vec3
	Velocity physics.Vec3
	Rotation physics.Quat
	Axis     ForwardAxis
	Radius   float64

	Speed     float64
	Lifetime  time.Duration
	StartedAt time.Duration

	Piercing    bool
	MaxPierce   int
	pierceCount int
	hits        map[uuid.UUID]struct{}

	initialized bool
	destroyed   bool
	hitter      HitApplier
	events      event.Listener
}

// NewProjectile creates a projectile at origin from tmpl. It does not move until
// Initialize is called. Hits are resolved through hitter.
func NewProjectile(tmpl ProjectileTemplate, origin physics.Vec3, hitter HitApplier, events event.Listener) *Projectile {
	if events == nil {
		events = event.Nop
	}
	maxPierce := tmpl.MaxPierce
	if maxPierce < 1 {
		maxPierce = 1
	}
	return &Projectile{
		id:        uuid.New(),
		Position:  origin,
		Rotation:  physics.Quat{W: 1},
		Axis:      tmpl.Axis,
		Radius:    tmpl.Radius,
		Piercing:  tmpl.Piercing,
		MaxPierce: maxPierce,
		hits:      make(map[uuid.UUID]struct{}),
		hitter:    hitter,
		events:    events,
	}
}

func (p *Projectile) ID() uuid.UUID { return p.id }
func (p *Projectile) Kind() Kind    { return KindProjectile }

// Initialize launches the projectile along direction.
func (p *Projectile) Initialize(direction physics.Vec3, speed float64, lifetime, now time.Duration) {
	dir := physics.Normalize(direction)
	p.Velocity = dir.Mul(speed)
	p.Speed = speed
	p.Lifetime = lifetime
	p.StartedAt = now
	p.initialized = true
	p.Rotation = Orientation(p.Axis, dir)
}

// PierceCount returns how many targets the projectile has hit.
func (p *Projectile) PierceCount() int { return p.pierceCount }

// HasHit reports whether the target with id is in the hit-set.
func (p *Projectile) HasHit(id uuid.UUID) bool {
	_, ok := p.hits[id]
	return ok
}

// Heading returns the world direction the nose points to.
func (p *Projectile) Heading() physics.Vec3 {
	return p.Rotation.Rotate(p.Axis.Vector())
}

// Update moves the projectile, keeps it pointed along travel and checks its lifetime.
func (p *Projectile) Update(ctx UpdateContext) (bool, error) {
	if p.destroyed {
		return true, nil
	}
	if !p.initialized {
		return false, nil
	}

	p.Position = p.Position.Add(p.Velocity.Mul(ctx.Delta.Seconds()))
	if p.Velocity.Len() > minOrientSpeed {
		p.Rotation = Orientation(p.Axis, physics.Normalize(p.Velocity))
	}

	if ctx.Now-p.StartedAt > p.Lifetime {
		p.Destroy(event.DestroyedByLifetime)
		return true, nil
	}
	return false, nil
}

// OnOverlap handles contact with another entity reported by the broad-phase.
func (p *Projectile) OnOverlap(other Entity) {
	if p.destroyed || other == nil {
		return
	}

	switch other.Kind() {
	case KindTarget:
		t, ok := other.(*Target)
		if !ok || t.IsDestroyed() {
			return
		}
		if _, seen := p.hits[t.id]; seen {
			return
		}
		p.hits[t.id] = struct{}{}
		if p.hitter != nil {
			p.hitter.ApplyHit(p, t)
		}
		p.pierceCount++
		if !p.Piercing || p.pierceCount >= p.MaxPierce {
			p.Destroy(event.DestroyedByHit)
		}
	case KindGround:
		p.Destroy(event.DestroyedByGround)
	case KindBoundary:
		p.Destroy(event.DestroyedByBoundary)
	}
}

// Destroy removes the projectile from play. Only the first call emits
// ProjectileDestroyed.
func (p *Projectile) Destroy(reason event.DestroyReason) {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.events.Notify(event.ProjectileDestroyed{
		ProjectileID: p.id,
		Position:     p.Position,
		Reason:       reason,
	})
}

// MarkDestroyed destroys the projectile as discarded.
func (p *Projectile) MarkDestroyed() {
	p.Destroy(event.DestroyedByDiscard)
}

// IsDestroyed returns true if the projectile is marked for destruction.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed
}
