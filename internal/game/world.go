package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/fruitarchery/internal/clock"
	"github.com/tomz197/fruitarchery/internal/config"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/object"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// World owns every entity of one game and steps them on the simulation clock.
// It is not safe for concurrent use; one goroutine drives it.
type World struct {
	clock  *clock.Clock
	rng    *rand.Rand
	logger *log.Logger
	events event.Listener

	entities []object.Entity
	pending  []object.Entity // spawned during a tick
	byID     map[uuid.UUID]object.Entity
	ticking  bool

	ground *object.Boundary
	walls  []*object.Boundary
	bounds config.WorldSettings

	scheduler *object.SpawnScheduler
	shooter   *object.Shooter
	resolver  *Resolver
	session   *Session
}

// NewWorld builds a game from settings. Events go to listener, which may be nil.
// Setup defects such as unassigned prefabs are logged, not returned.
func NewWorld(s config.Settings, listener event.Listener, logger *log.Logger) (*World, error) {
	if logger == nil {
		logger = log.Default()
	}
	axis, err := object.ParseForwardAxis(s.Arrow.ForwardAxis)
	if err != nil {
		return nil, fmt.Errorf("failed to build world: %w", err)
	}

	seed := uint64(s.Seed)
	if seed == 0 {
		seed = rand.Uint64()
	}

	w := &World{
		clock:  clock.New(),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logger,
		byID:   make(map[uuid.UUID]object.Entity),
		bounds: s.World,
	}

	w.ground = object.NewGround(s.World.GroundY)
	w.walls = []*object.Boundary{
		object.NewWall(physics.Right, physics.Vec3{s.World.MinX, 0, 0}),
		object.NewWall(physics.Right.Mul(-1), physics.Vec3{s.World.MaxX, 0, 0}),
		object.NewWall(physics.Up.Mul(-1), physics.Vec3{0, s.World.MaxY, 0}),
	}
	w.byID[w.ground.ID()] = w.ground
	for _, b := range w.walls {
		w.byID[b.ID()] = b
	}

	w.session = NewSession(SessionConfig{
		CleanupDelay: clock.Seconds(s.Session.CleanupDelay),
		CleanupStep:  clock.Seconds(s.Session.CleanupStep),
	}, SessionDeps{
		Targets: w,
		Clock:   w.clock,
		Events:  listener,
		Logger:  logger,
	})
	// The caller's listener sees every event before the session reacts to it.
	w.events = event.Multi{listener, w.session}
	w.resolver = NewResolver(w.session, w.events, logger)
	w.session.deps.Hits = w.resolver

	env := object.Env{
		Clock:   w.clock,
		Rand:    w.rng,
		Spawner: w,
		Events:  w.events,
		Logger:  logger,
	}

	w.scheduler = object.NewSpawnScheduler(object.SpawnerConfig{
		Duration:         clock.Seconds(s.Session.Duration),
		CycleDelay:       clock.Seconds(s.Spawner.CycleDelay),
		FruitsPerCycle:   s.Spawner.FruitsPerCycle,
		MinLaunchAngle:   s.Spawner.MinLaunchAngle,
		MaxLaunchAngle:   s.Spawner.MaxLaunchAngle,
		LaunchForce:      s.Spawner.LaunchForce,
		HorizontalSpread: s.Spawner.HorizontalSpread,
		Prefabs:          prefabsFromSettings(s.Fruits, logger),
		SpawnPoints:      spawnPointsFromSettings(s.SpawnPoints),
	}, env)
	w.scheduler.Validate()

	var tmpl *object.ProjectileTemplate
	if !s.Shooter.Disabled {
		tmpl = &object.ProjectileTemplate{
			Speed:     s.Arrow.Speed,
			Lifetime:  clock.Seconds(s.Arrow.Lifetime),
			Piercing:  s.Arrow.Piercing,
			MaxPierce: s.Arrow.MaxPierce,
			Axis:      axis,
			Radius:    s.Arrow.Radius,
		}
	}
	w.shooter = object.NewShooter(object.ShooterConfig{
		Origin:         pointVec(s.Shooter.Origin),
		Cooldown:       clock.Seconds(s.Shooter.Cooldown),
		MaxProjectiles: s.Shooter.MaxProjectiles,
		Template:       tmpl,
	}, w.resolver, env)

	w.session.deps.Shooter = w.shooter
	w.session.deps.Spawner = w.scheduler
	return w, nil
}

func prefabsFromSettings(fruits []*config.FruitSettings, logger *log.Logger) []*object.TargetPrefab {
	prefabs := make([]*object.TargetPrefab, len(fruits))
	for i, f := range fruits {
		if f == nil {
			continue
		}
		kind, ok := object.ParseFruitKind(f.Kind)
		if !ok {
			logger.Warn("unknown fruit kind, slot left unassigned", "index", i, "kind", f.Kind)
			continue
		}
		prefabs[i] = &object.TargetPrefab{
			Fruit:         kind,
			Points:        f.Points,
			MaxLifetime:   clock.Seconds(f.MaxLifetime),
			DestroyBelowY: f.DestroyBelowY,
			Radius:        f.Radius,
		}
	}
	return prefabs
}

func spawnPointsFromSettings(points []*config.PointSettings) []*object.SpawnPoint {
	out := make([]*object.SpawnPoint, len(points))
	for i, p := range points {
		if p == nil {
			continue
		}
		out[i] = &object.SpawnPoint{Name: p.Name, Position: pointVec(*p)}
	}
	return out
}

func pointVec(p config.PointSettings) physics.Vec3 {
	return physics.Vec3{p.X, p.Y, p.Z}
}

// Spawn adds an entity. Entities spawned during a tick join the world at the
// end of that tick.
func (w *World) Spawn(e object.Entity) {
	w.byID[e.ID()] = e
	if w.ticking {
		w.pending = append(w.pending, e)
		return
	}
	w.entities = append(w.entities, e)
}

// Tick advances the game by dt: the clock, the countdown, every entity, then
// any scheduled continuations that became due. Removed entities are dropped
// at the end.
func (w *World) Tick(dt time.Duration) {
	if dt < 0 {
		return
	}
	w.ticking = true
	w.clock.Advance(dt)
	ctx := object.UpdateContext{Delta: dt, Now: w.clock.Now()}

	w.scheduler.Update(ctx)
	for _, e := range w.entities {
		if _, err := e.Update(ctx); err != nil {
			w.logger.Error("entity update failed", "id", e.ID(), "kind", e.Kind(), "err", err)
		}
	}
	w.clock.RunDue()
	w.ticking = false

	w.compact()
}

func (w *World) compact() {
	n := 0
	for _, e := range w.entities {
		if e.IsDestroyed() {
			delete(w.byID, e.ID())
			continue
		}
		w.entities[n] = e
		n++
	}
	clear(w.entities[n:])
	w.entities = append(w.entities[:n], w.pending...)
	clear(w.pending)
	w.pending = w.pending[:0]
}

// ReportOverlap routes a broad-phase contact between a projectile and another
// entity. It reports whether the contact was delivered.
func (w *World) ReportOverlap(projectileID, otherID uuid.UUID) bool {
	p, ok := w.byID[projectileID].(*object.Projectile)
	if !ok || p.IsDestroyed() {
		return false
	}
	other, ok := w.byID[otherID]
	if !ok {
		w.logger.Warn("overlap with unknown entity", "projectile", projectileID, "other", otherID)
		return false
	}
	p.OnOverlap(other)
	return true
}

// Fire asks the shooter for a projectile toward aim at the current time.
func (w *World) Fire(aim physics.Vec3) *object.Projectile {
	return w.shooter.Fire(aim, w.clock.Now())
}

// AimAt projects a pointer ray onto the aim plane.
func (w *World) AimAt(r physics.Ray) (physics.Vec3, bool) {
	return physics.AimPoint(r)
}

// FireAlong fires at the point a pointer ray hits on the aim plane. A ray that
// misses the plane is ignored.
func (w *World) FireAlong(r physics.Ray) *object.Projectile {
	aim, ok := w.AimAt(r)
	if !ok {
		return nil
	}
	return w.Fire(aim)
}

// Targets returns the live targets.
func (w *World) Targets() []*object.Target {
	var out []*object.Target
	for _, list := range [][]object.Entity{w.entities, w.pending} {
		for _, e := range list {
			if t, ok := e.(*object.Target); ok && !t.IsDestroyed() {
				out = append(out, t)
			}
		}
	}
	return out
}

// LiveTargets is Targets.
func (w *World) LiveTargets() []*object.Target {
	return w.Targets()
}

// Projectiles returns the live projectiles.
func (w *World) Projectiles() []*object.Projectile {
	var out []*object.Projectile
	for _, list := range [][]object.Entity{w.entities, w.pending} {
		for _, e := range list {
			if p, ok := e.(*object.Projectile); ok && !p.IsDestroyed() {
				out = append(out, p)
			}
		}
	}
	return out
}

// Ground returns the ground boundary.
func (w *World) Ground() *object.Boundary { return w.ground }

// Walls returns the side and ceiling boundaries.
func (w *World) Walls() []*object.Boundary { return w.walls }

// Bounds returns the playfield extent.
func (w *World) Bounds() config.WorldSettings { return w.bounds }

// Now returns the simulation time.
func (w *World) Now() time.Duration { return w.clock.Now() }

// Scheduler returns the spawn scheduler.
func (w *World) Scheduler() *object.SpawnScheduler { return w.scheduler }

// Shooter returns the shooter.
func (w *World) Shooter() *object.Shooter { return w.shooter }

// Session returns the session.
func (w *World) Session() *Session { return w.session }

// StartGame starts or restarts the session.
func (w *World) StartGame() { w.session.StartGame() }
