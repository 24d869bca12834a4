package object

import (
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/mock/gomock"

	"github.com/tomz197/fruitarchery/internal/clock"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/event/mocks"
	"github.com/tomz197/fruitarchery/internal/physics"
)

func testSpawnerConfig() SpawnerConfig {
	apple := testPrefab()
	melon := testPrefab()
	melon.Fruit = Melon
	melon.Points = 5
	return SpawnerConfig{
		Duration:         5 * time.Second,
		CycleDelay:       time.Second,
		FruitsPerCycle:   3,
		MinLaunchAngle:   45,
		MaxLaunchAngle:   135,
		LaunchForce:      14,
		HorizontalSpread: 15,
		Prefabs:          []*TargetPrefab{&apple, &melon},
		SpawnPoints: []*SpawnPoint{
			{Name: "left", Position: physics.Vec3{-12, -8, 0}},
			{Name: "right", Position: physics.Vec3{12, -8, 0}},
		},
	}
}

type schedulerSnapshot struct {
	state        SpawnState
	spawning     bool
	running      bool
	remaining    time.Duration
	elapsed      time.Duration
	pendingCycle bool
}

func snapshotOf(s *SpawnScheduler) schedulerSnapshot {
	return schedulerSnapshot{
		state:        s.State(),
		spawning:     s.IsSpawning(),
		running:      s.TimerRunning(),
		remaining:    s.RemainingTime(),
		elapsed:      s.Elapsed(),
		pendingCycle: s.env.Clock.Pending(s.cycle),
	}
}

// step advances the scheduler the way the world does: clock, countdown, due continuations.
func step(env Env, s *SpawnScheduler, dt time.Duration) {
	env.Clock.Advance(dt)
	s.Update(UpdateContext{Delta: dt, Now: env.Clock.Now()})
	env.Clock.RunDue()
}

func TestSpawnSchedulerRunsFiveCyclesBeforeTimerComplete(t *testing.T) {
	steps := []time.Duration{
		time.Second,
		900 * time.Millisecond,
		700 * time.Millisecond,
		500 * time.Millisecond,
		300 * time.Millisecond,
		250 * time.Millisecond,
		100 * time.Millisecond,
	}
	for _, dt := range steps {
		t.Run(dt.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			l := mocks.NewMockListener(ctrl)
			l.EXPECT().Notify(gomock.AssignableToTypeOf(event.Tick{})).AnyTimes()
			l.EXPECT().Notify(gomock.AssignableToTypeOf(event.TargetSpawned{})).Times(15)
			l.EXPECT().Notify(event.TimerComplete{}).Times(1)

			env, sink := newTestEnv(t, l)
			s := NewSpawnScheduler(testSpawnerConfig(), env)
			s.StartSpawning()

			for env.Clock.Now() < 8*time.Second {
				step(env, s, dt)
			}

			if s.Cycles() != 5 {
				t.Errorf("cycles = %d, want 5", s.Cycles())
			}
			if n := len(sink.targets()); n != 15 {
				t.Errorf("targets = %d, want 15", n)
			}
			if s.RemainingTime() != 0 || s.State() != SpawnComplete {
				t.Errorf("remaining=%v state=%v", s.RemainingTime(), s.State())
			}
			if s.IsSpawning() || s.TimerRunning() {
				t.Error("flags still set after completion")
			}
			if env.Clock.Len() != 0 {
				t.Errorf("pending continuations after completion: %d", env.Clock.Len())
			}
		})
	}
}

func TestSpawnSchedulerEmitsTickBeforeTimerComplete(t *testing.T) {
	var rec event.Recorder
	env, _ := newTestEnv(t, &rec)
	cfg := testSpawnerConfig()
	cfg.Duration = 2 * time.Second
	s := NewSpawnScheduler(cfg, env)
	s.StartSpawning()
	rec.Reset()

	step(env, s, time.Second)
	step(env, s, time.Second)
	step(env, s, time.Second)

	var ticks []event.Tick
	last := -1
	for i, e := range rec.Events {
		switch e := e.(type) {
		case event.Tick:
			ticks = append(ticks, e)
		case event.TimerComplete:
			last = i
		}
	}
	if len(ticks) != 2 {
		t.Fatalf("ticks = %v, want 2", ticks)
	}
	if ticks[0].Formatted != "00:01" || ticks[1].Formatted != "00:00" || ticks[1].Remaining != 0 {
		t.Errorf("ticks = %+v", ticks)
	}
	if last != len(rec.Events)-1 {
		t.Errorf("TimerComplete is not the last event: %v", rec.Events)
	}
	if n := rec.Count(event.Is[event.TimerComplete]); n != 1 {
		t.Errorf("TimerComplete count = %d", n)
	}
}

func TestStopSpawningIsIdempotent(t *testing.T) {
	var rec event.Recorder
	env, sink := newTestEnv(t, &rec)
	s := NewSpawnScheduler(testSpawnerConfig(), env)
	s.StartSpawning()
	step(env, s, 500*time.Millisecond)

	s.StopSpawning()
	first := snapshotOf(s)
	events := len(rec.Events)

	s.StopSpawning()
	if got := snapshotOf(s); got != first {
		t.Errorf("second StopSpawning changed state: %+v -> %+v", first, got)
	}
	if len(rec.Events) != events {
		t.Errorf("second StopSpawning emitted events")
	}
	if s.State() != SpawnIdle || s.IsSpawning() || s.TimerRunning() {
		t.Errorf("state after stop: %v spawning=%v running=%v", s.State(), s.IsSpawning(), s.TimerRunning())
	}

	spawned := len(sink.entities)
	for range 10 {
		step(env, s, time.Second)
	}
	if len(sink.entities) != spawned {
		t.Errorf("spawn cycle fired after stop: %d -> %d", spawned, len(sink.entities))
	}
	if s.RemainingTime() != 4500*time.Millisecond {
		t.Errorf("remaining changed after stop: %v", s.RemainingTime())
	}
}

func TestStartSpawningIsNoOpWhileSpawning(t *testing.T) {
	env, sink := newTestEnv(t, nil)
	s := NewSpawnScheduler(testSpawnerConfig(), env)
	s.StartSpawning()
	step(env, s, 500*time.Millisecond)

	s.StartSpawning()
	if s.RemainingTime() != 4500*time.Millisecond {
		t.Errorf("restart while spawning reset the countdown: %v", s.RemainingTime())
	}
	if len(sink.entities) != 3 {
		t.Errorf("restart while spawning ran an extra cycle: %d", len(sink.entities))
	}
}

func TestPauseTimerKeepsSpawning(t *testing.T) {
	env, sink := newTestEnv(t, nil)
	s := NewSpawnScheduler(testSpawnerConfig(), env)
	s.StartSpawning()
	s.PauseTimer()

	for range 3 {
		step(env, s, time.Second)
	}
	if s.RemainingTime() != 5*time.Second {
		t.Errorf("countdown advanced while paused: %v", s.RemainingTime())
	}
	if !s.IsSpawning() {
		t.Error("pause cleared the spawning flag")
	}
	if n := len(sink.targets()); n != 12 {
		t.Errorf("targets while paused = %d, want 12", n)
	}

	s.ResumeTimer()
	step(env, s, time.Second)
	if s.RemainingTime() != 4*time.Second {
		t.Errorf("remaining after resume = %v", s.RemainingTime())
	}
}

func TestResumeTimerRequiresSpawning(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	s := NewSpawnScheduler(testSpawnerConfig(), env)
	s.ResumeTimer()
	if s.TimerRunning() {
		t.Error("timer running while idle")
	}
}

func TestAddTimeAndSetDuration(t *testing.T) {
	var rec event.Recorder
	env, _ := newTestEnv(t, &rec)
	s := NewSpawnScheduler(testSpawnerConfig(), env)

	s.SetDuration(90 * time.Second)
	if s.RemainingTime() != 90*time.Second {
		t.Errorf("SetDuration while idle: remaining = %v", s.RemainingTime())
	}
	if e, ok := rec.Events[len(rec.Events)-1].(event.Tick); !ok || e.Formatted != "01:30" {
		t.Errorf("last event = %#v", rec.Events[len(rec.Events)-1])
	}

	s.StartSpawning()
	s.SetDuration(10 * time.Second)
	if s.RemainingTime() != 90*time.Second || s.Duration() != 10*time.Second {
		t.Errorf("SetDuration while spawning: remaining=%v duration=%v", s.RemainingTime(), s.Duration())
	}

	rec.Reset()
	s.AddTime(30 * time.Second)
	if s.RemainingTime() != 120*time.Second {
		t.Errorf("AddTime: remaining = %v", s.RemainingTime())
	}
	if len(rec.Events) != 1 || rec.Events[0] != (event.Tick{Remaining: 120, Formatted: "02:00"}) {
		t.Errorf("AddTime events = %v", rec.Events)
	}

	rec.Reset()
	s.AddTime(-time.Hour)
	if s.RemainingTime() != 0 {
		t.Errorf("negative AddTime: remaining = %v", s.RemainingTime())
	}
	if s.State() != SpawnComplete || s.IsSpawning() || s.TimerRunning() {
		t.Errorf("emptied countdown did not complete: state=%v spawning=%v running=%v", s.State(), s.IsSpawning(), s.TimerRunning())
	}
	if n := rec.Count(event.Is[event.TimerComplete]); n != 1 {
		t.Errorf("TimerComplete count = %d, want 1", n)
	}

	// Nothing left to complete on later ticks or further cuts.
	s.AddTime(-time.Second)
	for range 3 {
		step(env, s, time.Second)
	}
	if n := rec.Count(event.Is[event.TimerComplete]); n != 1 {
		t.Errorf("TimerComplete count after more ticks = %d, want 1", n)
	}
}

func TestAddTimeWhilePausedCanComplete(t *testing.T) {
	var rec event.Recorder
	env, _ := newTestEnv(t, &rec)
	s := NewSpawnScheduler(testSpawnerConfig(), env)
	s.StartSpawning()
	s.PauseTimer()

	s.AddTime(-10 * time.Second)
	if s.State() != SpawnComplete || env.Clock.Len() != 0 {
		t.Errorf("state=%v pending=%d", s.State(), env.Clock.Len())
	}
	if n := rec.Count(event.Is[event.TimerComplete]); n != 1 {
		t.Errorf("TimerComplete count = %d, want 1", n)
	}
}

func TestStartSpawningWithZeroDurationCompletes(t *testing.T) {
	var rec event.Recorder
	env, sink := newTestEnv(t, &rec)
	s := NewSpawnScheduler(testSpawnerConfig(), env)
	s.SetDuration(0)

	s.StartSpawning()
	if s.State() != SpawnComplete || s.IsSpawning() || s.TimerRunning() {
		t.Errorf("state=%v spawning=%v running=%v", s.State(), s.IsSpawning(), s.TimerRunning())
	}
	if n := rec.Count(event.Is[event.TimerComplete]); n != 1 {
		t.Errorf("TimerComplete count = %d, want 1", n)
	}
	if len(sink.entities) != 0 || env.Clock.Len() != 0 {
		t.Errorf("spawned=%d pending=%d, want none", len(sink.entities), env.Clock.Len())
	}
}

func TestSpawnCyclesStayOnSchedule(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	cfg := testSpawnerConfig()
	cfg.Duration = time.Minute
	s := NewSpawnScheduler(cfg, env)
	s.StartSpawning()

	// 700ms ticks overshoot every cycle; the next one is still due on the second.
	for env.Clock.Now() < 7*time.Second {
		step(env, s, 700*time.Millisecond)
	}
	if s.Cycles() != 8 {
		t.Errorf("cycles by 7s = %d, want 8", s.Cycles())
	}
}

func TestSpawnSchedulerSkipsUnassignedSlots(t *testing.T) {
	env, sink := newTestEnv(t, nil)
	cfg := testSpawnerConfig()
	cfg.Prefabs = []*TargetPrefab{nil, cfg.Prefabs[0], nil}
	cfg.SpawnPoints = []*SpawnPoint{nil, nil}
	s := NewSpawnScheduler(cfg, env)

	if n := s.Validate(); n != 4 {
		t.Errorf("defects = %d, want 4", n)
	}

	s.StartSpawning()
	step(env, s, time.Second)
	if len(sink.entities) != 0 {
		t.Errorf("spawned %d targets with no spawn points", len(sink.entities))
	}
	if s.Cycles() != 2 {
		t.Errorf("cycles = %d, want 2", s.Cycles())
	}
}

func TestSpawnSchedulerPicksOnlyAssignedPrefabs(t *testing.T) {
	sink := &collector{}
	env := Env{
		Clock:   clock.New(),
		Rand:    rand.New(rand.NewPCG(3, 4)),
		Spawner: sink,
		Logger:  log.New(io.Discard),
	}
	cfg := testSpawnerConfig()
	banana := testPrefab()
	banana.Fruit = Banana
	cfg.Prefabs = []*TargetPrefab{nil, &banana, nil}
	cfg.FruitsPerCycle = 20
	s := NewSpawnScheduler(cfg, env)
	s.StartSpawning()

	targets := sink.targets()
	if len(targets) != 20 {
		t.Fatalf("targets = %d", len(targets))
	}
	for _, tg := range targets {
		if tg.Fruit != Banana {
			t.Errorf("unexpected fruit %v", tg.Fruit)
		}
		if speed := tg.Velocity.Len(); speed < 13.999 || speed > 14.001 {
			t.Errorf("launch speed = %v, want 14", speed)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in     float64
		want   string
		millis string
	}{
		{0, "00:00", "00:00.00"},
		{-3, "00:00", "00:00.00"},
		{59.5, "00:59", "00:59.50"},
		{61.25, "01:01", "01:01.25"},
		{3600, "60:00", "60:00.00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.in, got, tt.want)
		}
		if got := FormatClockMillis(tt.in); got != tt.millis {
			t.Errorf("FormatClockMillis(%v) = %q, want %q", tt.in, got, tt.millis)
		}
	}
}
