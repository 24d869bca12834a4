package game

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/fruitarchery/internal/clock"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/object"
)

// SessionState is the lifecycle state of a game.
type SessionState int

const (
	NotStarted SessionState = iota
	Active
	GameOver
)

func (s SessionState) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Active:
		return "active"
	case GameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// ShooterGate turns player fire on and off.
type ShooterGate interface {
	EnableShooting(enable bool)
}

// SpawnControl starts the spawn scheduler.
type SpawnControl interface {
	StartSpawning()
}

// TargetSource lists the targets still in play.
type TargetSource interface {
	LiveTargets() []*object.Target
}

// SessionConfig paces the game-over cleanup.
type SessionConfig struct {
	CleanupDelay time.Duration // wait before the first target is cleared
	CleanupStep  time.Duration // wait between cleared targets
}

// SessionDeps are the collaborators a session drives.
type SessionDeps struct {
	Shooter ShooterGate
	Spawner SpawnControl
	Targets TargetSource
	Hits    object.HitApplier
	Clock   *clock.Clock
	Events  event.Listener
	Logger  *log.Logger
}

// Session owns the score and the active flag. It starts the scheduler and the
// shooter and ends the game when the countdown completes.
//
// Targets still alive at game over are cleared through the normal hit path,
// one per CleanupStep. The session is no longer active by then, so those hits
// add no score.
type Session struct {
	cfg  SessionConfig
	deps SessionDeps

	state SessionState
	score int

	cleanup  clock.Handle
	clearing bool             // past the initial delay
	queue    []*object.Target // targets left to clear
}

// NewSession creates a session in the NotStarted state.
func NewSession(cfg SessionConfig, deps SessionDeps) *Session {
	if deps.Events == nil {
		deps.Events = event.Nop
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return &Session{cfg: cfg, deps: deps}
}

// StartGame resets the score, enables shooting and starts spawning. A countdown
// already running keeps going. It is valid from any state; a cleanup still in
// progress is finished first.
func (s *Session) StartGame() {
	s.finishCleanup()

	s.score = 0
	s.state = Active
	s.deps.Events.Notify(event.GameStarted{})
	s.deps.Events.Notify(event.ScoreChanged{Score: 0})

	if s.deps.Shooter != nil {
		s.deps.Shooter.EnableShooting(true)
	}
	if s.deps.Spawner != nil {
		s.deps.Spawner.StartSpawning()
	}
	s.deps.Logger.Info("game started")
}

// RestartGame is StartGame.
func (s *Session) RestartGame() {
	s.StartGame()
}

// AddScore adds points while the game is active. Otherwise it does nothing.
func (s *Session) AddScore(points int) {
	if s.state != Active || points < 0 {
		return
	}
	s.score += points
	s.deps.Events.Notify(event.ScoreChanged{Score: s.score})
}

// Notify ends the game when the countdown completes.
func (s *Session) Notify(e event.Event) {
	if _, ok := e.(event.TimerComplete); ok {
		s.endGame()
	}
}

func (s *Session) endGame() {
	if s.state != Active {
		return
	}
	s.state = GameOver
	if s.deps.Shooter != nil {
		s.deps.Shooter.EnableShooting(false)
	}
	s.deps.Events.Notify(event.GameOver{FinalScore: s.score})
	s.deps.Logger.Info("game over", "score", s.score)

	if s.deps.Clock != nil {
		s.cleanup = s.deps.Clock.After(s.cfg.CleanupDelay, s.beginCleanup)
	}
}

func (s *Session) beginCleanup() {
	s.clearing = true
	if s.deps.Targets != nil {
		s.queue = s.deps.Targets.LiveTargets()
	}
	s.clearNext()
}

func (s *Session) clearNext() {
	s.cleanup = 0
	for len(s.queue) > 0 {
		t := s.queue[0]
		s.queue = s.queue[1:]
		if t.IsDestroyed() {
			continue
		}
		s.hit(t)
		if len(s.queue) > 0 {
			s.cleanup = s.deps.Clock.After(s.cfg.CleanupStep, s.clearNext)
			return
		}
	}
	s.clearing = false
	s.queue = nil
}

// finishCleanup clears every remaining target immediately.
func (s *Session) finishCleanup() {
	if s.cleanup == 0 && !s.clearing {
		return
	}
	s.deps.Clock.Cancel(s.cleanup)
	s.cleanup = 0
	if !s.clearing && s.deps.Targets != nil {
		s.queue = s.deps.Targets.LiveTargets()
	}
	for _, t := range s.queue {
		if !t.IsDestroyed() {
			s.hit(t)
		}
	}
	s.clearing = false
	s.queue = nil
}

func (s *Session) hit(t *object.Target) {
	if s.deps.Hits != nil {
		s.deps.Hits.ApplyHit(nil, t)
	} else {
		t.MarkDestroyed()
	}
}

// State returns the lifecycle state.
func (s *Session) State() SessionState { return s.state }

// IsActive reports whether hits currently score.
func (s *Session) IsActive() bool { return s.state == Active }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// CleaningUp reports whether game-over cleanup is still pending.
func (s *Session) CleaningUp() bool { return s.cleanup != 0 || s.clearing }
