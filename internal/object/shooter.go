package object

import (
	"time"

	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// ShooterConfig holds the fire gate settings.
type ShooterConfig struct {
	Origin         physics.Vec3
	Cooldown       time.Duration
	MaxProjectiles int
	// Template is the projectile prefab. A nil template disables firing.
	Template *ProjectileTemplate
}

// Shooter turns aim points into projectiles, enforcing the cooldown and the cap
// on live projectiles.
type Shooter struct {
	cfg    ShooterConfig
	env    Env
	hitter HitApplier

	enabled  bool
	hasFired bool
	lastShot time.Duration
	live     []*Projectile // oldest first
}

// NewShooter creates a disabled shooter.
func NewShooter(cfg ShooterConfig, hitter HitApplier, env Env) *Shooter {
	if cfg.MaxProjectiles < 1 {
		cfg.MaxProjectiles = 1
	}
	if cfg.Template == nil {
		env.logger().Error("arrow template not assigned, shooting is disabled")
	}
	return &Shooter{cfg: cfg, env: env, hitter: hitter}
}

// EnableShooting turns the fire gate on or off.
func (s *Shooter) EnableShooting(enable bool) {
	s.enabled = enable
}

// Enabled reports whether fire requests are accepted.
func (s *Shooter) Enabled() bool {
	return s.enabled
}

// Origin returns the point projectiles are fired from.
func (s *Shooter) Origin() physics.Vec3 {
	return s.cfg.Origin
}

// Fire launches a projectile from the origin toward aim. It returns nil when
// the request is rejected: shooting disabled, cooldown not elapsed, no
// template, or aim equal to the origin. When the cap on live projectiles is
// reached the oldest live one is discarded first.
func (s *Shooter) Fire(aim physics.Vec3, now time.Duration) *Projectile {
	if !s.enabled || s.cfg.Template == nil {
		return nil
	}
	if s.hasFired && now-s.lastShot < s.cfg.Cooldown {
		return nil
	}
	dir := aim.Sub(s.cfg.Origin)
	if dir.Len() == 0 {
		return nil
	}

	s.prune()
	for len(s.live) >= s.cfg.MaxProjectiles {
		s.live[0].Destroy(event.DestroyedByDiscard)
		s.live = s.live[1:]
	}

	tmpl := *s.cfg.Template
	p := NewProjectile(tmpl, s.cfg.Origin, s.hitter, s.env.events())
	p.Initialize(dir, tmpl.Speed, tmpl.Lifetime, now)
	s.live = append(s.live, p)
	if s.env.Spawner != nil {
		s.env.Spawner.Spawn(p)
	}
	s.env.events().Notify(event.ProjectileFired{
		ProjectileID: p.ID(),
		Origin:       p.Position,
		Direction:    physics.Normalize(dir),
	})

	s.lastShot = now
	s.hasFired = true
	return p
}

// Live returns the number of projectiles fired by this shooter still in play.
func (s *Shooter) Live() int {
	s.prune()
	return len(s.live)
}

func (s *Shooter) prune() {
	n := 0
	for _, p := range s.live {
		if !p.IsDestroyed() {
			s.live[n] = p
			n++
		}
	}
	clear(s.live[n:])
	s.live = s.live[:n]
}
