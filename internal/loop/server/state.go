package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/fruitarchery/internal/config"
	"github.com/tomz197/fruitarchery/internal/game"
	"github.com/tomz197/fruitarchery/internal/object"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// TargetView is the render-side copy of a live target.
type TargetView struct {
	ID       uuid.UUID
	Fruit    object.FruitKind
	Name     string
	Points   int
	Position physics.Vec3
	Radius   float64
}

// ProjectileView is the render-side copy of a live projectile.
type ProjectileView struct {
	ID        uuid.UUID
	Position  physics.Vec3
	Direction physics.Vec3 // unit travel direction
	Heading   physics.Vec3 // where the nose points
}

// Snapshot is an immutable view of the world after one tick. Clients read it
// from another goroutine, so it holds value copies only.
type Snapshot struct {
	Tick        uint64
	Now         time.Duration
	Targets     []TargetView
	Projectiles []ProjectileView

	Session      game.SessionState
	Score        int
	Spawner      object.SpawnState
	TimerRunning bool
	Remaining    float64 // Seconds
	Clock        string  // MM:SS

	ShooterEnabled bool
	Origin         physics.Vec3
	Bounds         config.WorldSettings
}

// TimeUp reports whether the countdown ran out.
func (s *Snapshot) TimeUp() bool {
	return s.Spawner == object.SpawnComplete
}

// buildSnapshot copies the observable state of w. The slice capacities of prev
// are reused as size hints only; prev itself is never written.
func buildSnapshot(w *game.World, tick uint64, prev *Snapshot) *Snapshot {
	targets := w.Targets()
	projectiles := w.Projectiles()

	tcap, pcap := len(targets), len(projectiles)
	if prev != nil {
		tcap = max(tcap, len(prev.Targets))
		pcap = max(pcap, len(prev.Projectiles))
	}

	snap := &Snapshot{
		Tick:        tick,
		Now:         w.Now(),
		Targets:     make([]TargetView, 0, tcap),
		Projectiles: make([]ProjectileView, 0, pcap),
		Bounds:      w.Bounds(),
	}
	for _, t := range targets {
		snap.Targets = append(snap.Targets, TargetView{
			ID:       t.ID(),
			Fruit:    t.Fruit,
			Name:     t.Name(),
			Points:   t.Points,
			Position: t.Position,
			Radius:   t.Radius,
		})
	}
	for _, p := range projectiles {
		snap.Projectiles = append(snap.Projectiles, ProjectileView{
			ID:        p.ID(),
			Position:  p.Position,
			Direction: physics.Normalize(p.Velocity),
			Heading:   p.Heading(),
		})
	}

	session := w.Session()
	snap.Session = session.State()
	snap.Score = session.Score()

	sched := w.Scheduler()
	snap.Spawner = sched.State()
	snap.TimerRunning = sched.TimerRunning()
	snap.Remaining = sched.RemainingTime().Seconds()
	snap.Clock = object.FormatClock(snap.Remaining)

	shooter := w.Shooter()
	snap.ShooterEnabled = shooter.Enabled()
	snap.Origin = shooter.Origin()
	return snap
}
