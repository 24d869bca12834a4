package game

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/tomz197/fruitarchery/internal/clock"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/event/mocks"
	"github.com/tomz197/fruitarchery/internal/object"
	"github.com/tomz197/fruitarchery/internal/physics"
)

type fakeShooter struct{ enabled bool }

func (f *fakeShooter) EnableShooting(enable bool) { f.enabled = enable }

type fakeSpawner struct {
	calls []string
}

func (f *fakeSpawner) StartSpawning() { f.calls = append(f.calls, "start") }

type fakeTargets struct {
	targets []*object.Target
}

func (f *fakeTargets) LiveTargets() []*object.Target {
	var out []*object.Target
	for _, t := range f.targets {
		if !t.IsDestroyed() {
			out = append(out, t)
		}
	}
	return out
}

type sessionFixture struct {
	session *Session
	clock   *clock.Clock
	shooter *fakeShooter
	spawner *fakeSpawner
	targets *fakeTargets
	events  *event.Recorder
}

func newSessionFixture(t *testing.T, live int) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		clock:   clock.New(),
		shooter: &fakeShooter{},
		spawner: &fakeSpawner{},
		targets: &fakeTargets{},
		events:  &event.Recorder{},
	}
	for i := range live {
		prefab := object.TargetPrefab{Fruit: object.Apple, Points: 10 + i, MaxLifetime: time.Minute, DestroyBelowY: -10, Radius: 1}
		f.targets.targets = append(f.targets.targets, object.NewTarget(prefab, physics.Vec3{float64(i), 0, 0}, physics.Vec3{}, 0, nil))
	}
	logger := log.New(io.Discard)
	f.session = NewSession(SessionConfig{
		CleanupDelay: time.Second,
		CleanupStep:  100 * time.Millisecond,
	}, SessionDeps{
		Shooter: f.shooter,
		Spawner: f.spawner,
		Targets: f.targets,
		Clock:   f.clock,
		Events:  f.events,
		Logger:  logger,
	})
	f.session.deps.Hits = NewResolver(f.session, f.events, logger)
	return f
}

func TestStartGame(t *testing.T) {
	f := newSessionFixture(t, 0)
	if f.session.State() != NotStarted {
		t.Fatalf("initial state = %v", f.session.State())
	}

	f.session.StartGame()
	if !f.session.IsActive() || f.session.Score() != 0 {
		t.Errorf("state=%v score=%d", f.session.State(), f.session.Score())
	}
	if !f.shooter.enabled {
		t.Error("shooting not enabled")
	}
	if len(f.spawner.calls) != 1 || f.spawner.calls[0] != "start" {
		t.Errorf("spawner calls = %v", f.spawner.calls)
	}
	if len(f.events.Events) != 2 || f.events.Events[0] != (event.GameStarted{}) || f.events.Events[1] != (event.ScoreChanged{Score: 0}) {
		t.Errorf("events = %v", f.events.Events)
	}
}

func TestStartGameWhileActiveOnlyRestartsScore(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.session.StartGame()
	f.session.AddScore(7)
	f.events.Reset()

	f.session.StartGame()
	if !f.session.IsActive() || f.session.Score() != 0 {
		t.Errorf("state=%v score=%d", f.session.State(), f.session.Score())
	}
	want := []string{"start", "start"}
	if len(f.spawner.calls) != len(want) {
		t.Fatalf("spawner calls = %v, want %v", f.spawner.calls, want)
	}
	for i := range want {
		if f.spawner.calls[i] != want[i] {
			t.Errorf("spawner calls = %v, want %v", f.spawner.calls, want)
		}
	}
	if n := f.events.Count(event.Is[event.GameStarted]); n != 1 {
		t.Errorf("GameStarted count = %d, want 1", n)
	}
}

func TestAddScore(t *testing.T) {
	f := newSessionFixture(t, 0)

	f.session.AddScore(10)
	if f.session.Score() != 0 || len(f.events.Events) != 0 {
		t.Fatal("score changed before the game started")
	}

	f.session.StartGame()
	f.events.Reset()
	f.session.AddScore(10)
	f.session.AddScore(15)
	if f.session.Score() != 25 {
		t.Errorf("score = %d, want 25", f.session.Score())
	}
	if len(f.events.Events) != 2 || f.events.Events[1] != (event.ScoreChanged{Score: 25}) {
		t.Errorf("events = %v", f.events.Events)
	}

	f.session.Notify(event.TimerComplete{})
	f.session.AddScore(100)
	if f.session.Score() != 25 {
		t.Errorf("score changed after game over: %d", f.session.Score())
	}
}

func TestTimerCompleteEndsGameOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := mocks.NewMockListener(ctrl)
	gomock.InOrder(
		l.EXPECT().Notify(event.GameStarted{}),
		l.EXPECT().Notify(event.ScoreChanged{Score: 0}),
		l.EXPECT().Notify(event.ScoreChanged{Score: 30}),
		l.EXPECT().Notify(event.GameOver{FinalScore: 30}),
	)

	shooter := &fakeShooter{}
	s := NewSession(SessionConfig{CleanupDelay: time.Second}, SessionDeps{
		Shooter: shooter,
		Clock:   clock.New(),
		Events:  l,
		Logger:  log.New(io.Discard),
	})
	s.StartGame()
	s.AddScore(30)
	s.Notify(event.TimerComplete{})
	s.Notify(event.TimerComplete{})
	s.Notify(event.Tick{})

	if s.State() != GameOver {
		t.Errorf("state = %v", s.State())
	}
	if shooter.enabled {
		t.Error("shooting still enabled after game over")
	}
}

func TestGameOverCleanupAwardsNoScore(t *testing.T) {
	f := newSessionFixture(t, 3)
	f.session.StartGame()
	f.session.AddScore(5)
	f.session.Notify(event.TimerComplete{})
	f.events.Reset()

	f.clock.Step(999 * time.Millisecond)
	if n := len(f.targets.LiveTargets()); n != 3 {
		t.Fatalf("cleared before the delay: %d live", n)
	}

	wantLive := []int{2, 1, 0}
	f.clock.Step(time.Millisecond)
	for i, want := range wantLive {
		if i > 0 {
			f.clock.Step(100 * time.Millisecond)
		}
		if n := len(f.targets.LiveTargets()); n != want {
			t.Fatalf("step %d: live = %d, want %d", i, n, want)
		}
	}

	if f.session.Score() != 5 {
		t.Errorf("cleanup changed the score: %d", f.session.Score())
	}
	if f.session.CleaningUp() {
		t.Error("cleanup still pending")
	}
	if n := f.events.Count(event.Is[event.ScoreChanged]); n != 0 {
		t.Errorf("ScoreChanged during cleanup: %d", n)
	}
	for _, e := range f.events.Events {
		hit, ok := e.(event.TargetHit)
		if !ok {
			t.Errorf("unexpected event %#v", e)
			continue
		}
		if hit.ProjectileID != uuid.Nil {
			t.Errorf("cleanup hit attributed to projectile %v", hit.ProjectileID)
		}
	}
	if n := f.events.Count(event.Is[event.TargetHit]); n != 3 {
		t.Errorf("TargetHit count = %d, want 3", n)
	}
}

func TestCleanupSkipsTargetsGoneMeanwhile(t *testing.T) {
	f := newSessionFixture(t, 3)
	f.session.StartGame()
	f.session.Notify(event.TimerComplete{})

	f.clock.Step(time.Second)
	f.targets.targets[1].MarkDestroyed()
	f.clock.Step(100 * time.Millisecond)

	if n := len(f.targets.LiveTargets()); n != 0 {
		t.Errorf("live = %d, want 0", n)
	}
	if f.session.CleaningUp() {
		t.Error("cleanup still pending")
	}
	if n := f.events.Count(event.Is[event.TargetHit]); n != 2 {
		t.Errorf("TargetHit count = %d, want 2", n)
	}
}

func TestStartGameFinishesCleanup(t *testing.T) {
	for _, wait := range []time.Duration{500 * time.Millisecond, time.Second} {
		t.Run(wait.String(), func(t *testing.T) {
			f := newSessionFixture(t, 3)
			f.session.StartGame()
			f.session.Notify(event.TimerComplete{})
			f.clock.Step(wait)

			f.session.StartGame()
			if n := len(f.targets.LiveTargets()); n != 0 {
				t.Errorf("live after restart = %d", n)
			}
			if f.session.Score() != 0 || f.session.CleaningUp() {
				t.Errorf("score=%d cleaning=%v", f.session.Score(), f.session.CleaningUp())
			}
			if f.clock.Len() != 0 {
				t.Errorf("pending continuations: %d", f.clock.Len())
			}
		})
	}
}

func TestRestartGame(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.session.StartGame()
	f.session.AddScore(40)
	f.session.RestartGame()
	if f.session.Score() != 0 || !f.session.IsActive() {
		t.Errorf("restart: score=%d state=%v", f.session.Score(), f.session.State())
	}
	if len(f.spawner.calls) != 2 {
		t.Errorf("spawner calls = %v", f.spawner.calls)
	}
}
