package object

import (
	"fmt"
	"math"
	"time"

	"github.com/tomz197/fruitarchery/internal/clock"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// SpawnState is the scheduler state.
type SpawnState int

const (
	SpawnIdle SpawnState = iota
	SpawnSpawning
	SpawnComplete
)

func (s SpawnState) String() string {
	switch s {
	case SpawnIdle:
		return "idle"
	case SpawnSpawning:
		return "spawning"
	case SpawnComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// SpawnPoint is a named launch position.
type SpawnPoint struct {
	Name     string
	Position physics.Vec3
}

// SpawnerConfig holds the launch and countdown settings.
type SpawnerConfig struct {
	Duration         time.Duration
	CycleDelay       time.Duration
	FruitsPerCycle   int
	MinLaunchAngle   float64 // degrees, 90 is straight up
	MaxLaunchAngle   float64
	LaunchForce      float64
	HorizontalSpread float64 // degrees

	// Nil entries are unassigned slots; they are reported by Validate and skipped.
	Prefabs     []*TargetPrefab
	SpawnPoints []*SpawnPoint
}

// SpawnScheduler owns the session countdown and launches a batch of targets
// every cycle while spawning.
//
// The countdown is driven by Update once per tick. Spawn cycles are clock
// continuations; stopping cancels the pending one so no cycle fires after stop.
type SpawnScheduler struct {
	cfg SpawnerConfig
	env Env

	state        SpawnState
	spawning     bool
	timerRunning bool
	duration     time.Duration
	remaining    time.Duration
	elapsed      time.Duration
	cycle        clock.Handle
	nextCycle    time.Duration // when the pending cycle is due
	cycles       int
}

// NewSpawnScheduler creates an idle scheduler with the full duration remaining.
func NewSpawnScheduler(cfg SpawnerConfig, env Env) *SpawnScheduler {
	return &SpawnScheduler{
		cfg:       cfg,
		env:       env,
		duration:  cfg.Duration,
		remaining: cfg.Duration,
	}
}

// Validate logs setup defects: unassigned prefab slots, fewer than two spawn
// points and unassigned spawn points. It returns the number of defects found.
func (s *SpawnScheduler) Validate() int {
	logger := s.env.logger()
	defects := 0
	for i, p := range s.cfg.Prefabs {
		if p == nil {
			logger.Warn("fruit prefab is not assigned", "index", i, "fruit", FruitKind(i))
			defects++
		}
	}
	if len(s.cfg.SpawnPoints) < 2 {
		logger.Error("need at least 2 spawn points", "count", len(s.cfg.SpawnPoints))
		defects++
	}
	for i, sp := range s.cfg.SpawnPoints {
		if sp == nil {
			logger.Error("spawn point is not assigned", "index", i)
			defects++
		}
	}
	return defects
}

// StartSpawning resets the countdown and begins spawn cycles. The first cycle
// runs immediately. It is a no-op while already spawning.
func (s *SpawnScheduler) StartSpawning() {
	if s.spawning {
		return
	}
	s.state = SpawnSpawning
	s.spawning = true
	s.timerRunning = true
	s.elapsed = 0
	s.remaining = s.duration
	s.cycles = 0
	s.env.logger().Info("fruit spawning started", "duration", s.duration)
	s.broadcast()
	if s.remaining <= 0 {
		s.complete()
		return
	}
	s.nextCycle = s.env.Clock.Now()
	s.runCycle()
}

// StopSpawning stops the countdown and cancels the pending spawn cycle.
// Calling it when not spawning does nothing.
func (s *SpawnScheduler) StopSpawning() {
	if !s.spawning {
		return
	}
	s.halt()
	s.state = SpawnIdle
	s.env.logger().Info("fruit spawning stopped", "remaining", s.remaining)
}

func (s *SpawnScheduler) halt() {
	s.spawning = false
	s.timerRunning = false
	if s.cycle != 0 {
		s.env.Clock.Cancel(s.cycle)
		s.cycle = 0
	}
}

// PauseTimer stops the countdown. Spawn cycles keep firing.
func (s *SpawnScheduler) PauseTimer() {
	s.timerRunning = false
}

// ResumeTimer restarts a paused countdown. It has no effect unless spawning.
func (s *SpawnScheduler) ResumeTimer() {
	if s.spawning {
		s.timerRunning = true
	}
}

// AddTime extends the countdown by d, possibly past the configured duration,
// and re-broadcasts the remaining time. The result never drops below zero; a
// negative d that empties a running session completes it.
func (s *SpawnScheduler) AddTime(d time.Duration) {
	s.remaining = max(s.remaining+d, 0)
	s.broadcast()
	if s.spawning && s.remaining == 0 {
		s.complete()
	}
}

// SetDuration changes the session length. When not spawning the remaining time
// is reset to d and re-broadcast.
func (s *SpawnScheduler) SetDuration(d time.Duration) {
	s.duration = d
	if !s.spawning {
		s.remaining = d
		s.broadcast()
	}
}

// Update advances the countdown by ctx.Delta while the timer runs.
// Reaching zero completes the session and emits TimerComplete once.
func (s *SpawnScheduler) Update(ctx UpdateContext) {
	if !s.timerRunning || s.remaining <= 0 {
		return
	}

	s.elapsed += ctx.Delta
	s.remaining = max(s.remaining-ctx.Delta, 0)
	s.broadcast()

	if s.remaining == 0 {
		s.complete()
	}
}

// complete ends spawning and emits the one TimerComplete of this run.
func (s *SpawnScheduler) complete() {
	s.halt()
	s.state = SpawnComplete
	s.env.logger().Info("spawning duration completed", "cycles", s.cycles)
	s.env.events().Notify(event.TimerComplete{})
}

// runCycle spawns a batch and schedules the next one a cycle delay after this
// one was due, so late ticks do not push later cycles back.
func (s *SpawnScheduler) runCycle() {
	s.cycle = 0
	if !s.spawning || s.remaining <= 0 {
		return
	}
	s.spawnBatch()
	s.cycles++
	s.nextCycle += s.cfg.CycleDelay
	s.cycle = s.env.Clock.At(s.nextCycle, s.runCycle)
}

func (s *SpawnScheduler) spawnBatch() {
	for range s.cfg.FruitsPerCycle {
		point := s.randomSpawnPoint()
		prefab := s.randomPrefab()
		if point == nil || prefab == nil {
			continue
		}
		s.spawnTarget(*prefab, *point)
	}
}

func (s *SpawnScheduler) spawnTarget(prefab TargetPrefab, point SpawnPoint) {
	dir := SampleLaunchDirection(s.env.Rand, s.cfg.MinLaunchAngle, s.cfg.MaxLaunchAngle, s.cfg.HorizontalSpread)
	vel := dir.Mul(s.cfg.LaunchForce)
	t := NewTarget(prefab, point.Position, vel, s.env.Clock.Now(), s.env.events())
	if s.env.Spawner != nil {
		s.env.Spawner.Spawn(t)
	}

	s.env.events().Notify(event.TargetSpawned{
		TargetID: t.ID(),
		Name:     t.Name(),
		Position: t.Position,
		Velocity: vel,
	})
	s.env.logger().Debug("spawned fruit",
		"fruit", t.Name(),
		"point", point.Name,
		"angle", physics.Rad2Deg(math.Acos(dir.Dot(physics.Up))))
}

// randomSpawnPoint picks uniformly over all configured points. An unassigned
// pick yields nil.
func (s *SpawnScheduler) randomSpawnPoint() *SpawnPoint {
	if len(s.cfg.SpawnPoints) == 0 {
		return nil
	}
	return s.cfg.SpawnPoints[s.env.Rand.IntN(len(s.cfg.SpawnPoints))]
}

// randomPrefab picks uniformly over the assigned prefabs.
func (s *SpawnScheduler) randomPrefab() *TargetPrefab {
	valid := 0
	for _, p := range s.cfg.Prefabs {
		if p != nil {
			valid++
		}
	}
	if valid == 0 {
		return nil
	}
	n := s.env.Rand.IntN(valid)
	for _, p := range s.cfg.Prefabs {
		if p == nil {
			continue
		}
		if n == 0 {
			return p
		}
		n--
	}
	return nil
}

func (s *SpawnScheduler) broadcast() {
	secs := s.remaining.Seconds()
	s.env.events().Notify(event.Tick{Remaining: secs, Formatted: FormatClock(secs)})
}

// State returns the scheduler state.
func (s *SpawnScheduler) State() SpawnState { return s.state }

// IsSpawning reports whether spawn cycles are active.
func (s *SpawnScheduler) IsSpawning() bool { return s.spawning }

// TimerRunning reports whether the countdown is advancing.
func (s *SpawnScheduler) TimerRunning() bool { return s.timerRunning }

// RemainingTime returns the countdown value.
func (s *SpawnScheduler) RemainingTime() time.Duration { return s.remaining }

// Elapsed returns the countdown time consumed since the last start.
func (s *SpawnScheduler) Elapsed() time.Duration { return s.elapsed }

// Duration returns the configured session length.
func (s *SpawnScheduler) Duration() time.Duration { return s.duration }

// Cycles returns the number of spawn cycles run since the last start.
func (s *SpawnScheduler) Cycles() int { return s.cycles }

// FormatClock formats seconds as MM:SS.
func FormatClock(seconds float64) string {
	seconds = math.Max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", int(seconds/60), int(math.Mod(seconds, 60)))
}

// FormatClockMillis formats seconds as MM:SS.cc (hundredths).
func FormatClockMillis(seconds float64) string {
	seconds = math.Max(seconds, 0)
	_, frac := math.Modf(seconds)
	return fmt.Sprintf("%s.%02d", FormatClock(seconds), int(frac*100))
}
