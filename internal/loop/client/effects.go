package client

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tomz197/fruitarchery/internal/draw"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect in world coordinates.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay per 1/60 s (1.0 = no drag)
	Pen         draw.Pen
}

// newParticle takes a particle from the pool.
func newParticle(x, y, vx, vy, lifetime float64, pen draw.Pen) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
		Pen:         pen,
	}
	return p
}

// release returns the particle to the pool for reuse.
func (p *Particle) release() {
	particlePool.Put(p)
}

// update moves the particle and reports whether it expired.
func (p *Particle) update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY = p.VY*dragFactor - physics.Gravity*0.5*dt

	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// visible is false for the last quarter of the lifetime so bursts fade out.
func (p *Particle) visible() bool {
	return p.MaxLifetime <= 0 || p.Lifetime/p.MaxLifetime >= 0.25
}

// Effects owns the client-side particles. Particles never reach the simulation.
type Effects struct {
	particles []*Particle
	rng       *rand.Rand
}

// NewEffects creates an empty effect layer.
func NewEffects(seed uint64) *Effects {
	return &Effects{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

// Burst spawns count particles flying out of pos in a circle.
func (e *Effects) Burst(pos physics.Vec3, count int, speed, lifetime float64, pen draw.Pen) {
	for range count {
		angle := e.rng.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + e.rng.Float64())
		// Random lifetime variation (50% to 100%)
		life := lifetime * (0.5 + e.rng.Float64()*0.5)

		e.particles = append(e.particles, newParticle(
			pos.X(), pos.Y(),
			math.Cos(angle)*spd, math.Sin(angle)*spd,
			life, pen,
		))
	}
}

// Update advances every particle by dt seconds and drops expired ones.
func (e *Effects) Update(dt float64) {
	n := 0
	for _, p := range e.particles {
		if p.update(dt) {
			p.release()
			continue
		}
		e.particles[n] = p
		n++
	}
	clear(e.particles[n:])
	e.particles = e.particles[:n]
}

// Clear drops every particle.
func (e *Effects) Clear() {
	for _, p := range e.particles {
		p.release()
	}
	clear(e.particles)
	e.particles = e.particles[:0]
}

// Len returns the number of live particles.
func (e *Effects) Len() int {
	return len(e.particles)
}

// Draw plots the visible particles.
func (e *Effects) Draw(c *draw.Canvas, v View) {
	for _, p := range e.particles {
		if !p.visible() {
			continue
		}
		pt := v.ToScreen(physics.Vec3{p.X, p.Y, 0})
		c.SetPen(p.Pen)
		c.SetFloat(pt.X, pt.Y)
	}
	c.SetPen(draw.PenDefault)
}
