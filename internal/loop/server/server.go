package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/fruitarchery/internal/clock"
	"github.com/tomz197/fruitarchery/internal/config"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/game"
	loopconfig "github.com/tomz197/fruitarchery/internal/loop/config"
	"github.com/tomz197/fruitarchery/internal/physics"
)

//go:generate go tool mockgen -destination=./mocks/server_mock.go -package=mocks . GameServer

// GameServer is the interface clients use to communicate with the game server.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	Send(cmd Command)
	GetSnapshot() *Snapshot
	Events() <-chan event.Event
	ShutdownNotice() <-chan struct{}
	Detach()
}

// CommandKind identifies a player or host action.
type CommandKind int

const (
	CmdFire CommandKind = iota
	CmdStart
	CmdStop
	CmdPause
	CmdResume
	CmdAddTime
)

func (k CommandKind) String() string {
	switch k {
	case CmdFire:
		return "fire"
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	case CmdAddTime:
		return "addtime"
	default:
		return "unknown"
	}
}

// Command is an action queued for the next tick.
type Command struct {
	Kind    CommandKind
	Pointer physics.Ray // CmdFire: the player's pointer ray into the scene
	Seconds float64     // CmdAddTime
}

// maxTickDelta caps the step after a stall so entities do not tunnel through
// the ground.
const maxTickDelta = 100 * time.Millisecond

// Server runs one game world on its own goroutine. Clients talk to it through
// a command channel and read immutable snapshots and an event queue.
type Server struct {
	world    *game.World
	detector *detector
	logger   *log.Logger

	snapshot atomic.Pointer[Snapshot]
	tick     uint64

	commandCh chan Command
	events    *event.Queue

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	detachOnce   sync.Once
	detachedCh   chan struct{}
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer builds the world from settings. Extra listeners see every game event
// on the server goroutine, before the client queue does.
func NewServer(s config.Settings, logger *log.Logger, listeners ...event.Listener) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	srv := &Server{
		detector:   newDetector(s),
		logger:     logger,
		commandCh:  make(chan Command, 64),
		events:     event.NewQueue(loopconfig.EventQueueSize),
		shutdownCh: make(chan struct{}),
		detachedCh: make(chan struct{}),
	}

	var listener event.Listener = srv.events
	if len(listeners) > 0 {
		listener = append(event.Multi(listeners), srv.events)
	}
	world, err := game.NewWorld(s, listener, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create game server: %w", err)
	}
	srv.world = world
	srv.snapshot.Store(buildSnapshot(world, 0, nil))
	return srv, nil
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()
	defer func() {
		if n := s.events.Dropped(); n > 0 {
			s.logger.Warn("client event queue overflowed", "dropped", n)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		delta := min(frameStart.Sub(lastTime), maxTickDelta)
		lastTime = frameStart

		s.Step(delta)

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < loopconfig.ServerTickTime {
			time.Sleep(loopconfig.ServerTickTime - elapsed)
		}
	}
}

// Step runs one tick: queued commands, the world update, contact detection and
// a fresh snapshot. Only the goroutine driving the server may call it.
func (s *Server) Step(dt time.Duration) {
	s.collectCommands()
	s.world.Tick(dt)
	s.detector.detect(s.world)
	s.tick++
	s.snapshot.Store(buildSnapshot(s.world, s.tick, s.snapshot.Load()))
}

// collectCommands applies every queued command without blocking.
func (s *Server) collectCommands() {
	for {
		select {
		case cmd := <-s.commandCh:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *Server) apply(cmd Command) {
	sched := s.world.Scheduler()
	switch cmd.Kind {
	case CmdFire:
		s.world.FireAlong(cmd.Pointer)
	case CmdStart:
		s.world.StartGame()
	case CmdStop:
		sched.StopSpawning()
	case CmdPause:
		sched.PauseTimer()
	case CmdResume:
		sched.ResumeTimer()
	case CmdAddTime:
		sched.AddTime(clock.Seconds(cmd.Seconds))
	default:
		s.logger.Warn("unknown command", "kind", cmd.Kind)
		return
	}
	if cmd.Kind != CmdFire {
		s.logger.Debug("host command", "kind", cmd.Kind)
	}
}

// Send queues a command for the next tick.
func (s *Server) Send(cmd Command) {
	select {
	case s.commandCh <- cmd:
	default:
		// Command channel full, drop command
	}
}

// GetSnapshot returns the current world snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// Events returns the game events produced by the world, in order.
func (s *Server) Events() <-chan event.Event {
	return s.events.C()
}

// ShutdownNotice is closed when the server starts shutting down.
func (s *Server) ShutdownNotice() <-chan struct{} {
	return s.shutdownCh
}

// Detach tells the server the client has left.
func (s *Server) Detach() {
	s.detachOnce.Do(func() { close(s.detachedCh) })
}

// Shutdown notifies the client and waits for it to detach, or until the
// timeout elapses. The caller should cancel the server context after Shutdown
// returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })

	select {
	case <-s.detachedCh:
	case <-time.After(timeout):
		s.logger.Warn("client did not detach before shutdown timeout", "timeout", timeout)
	}
}

// World exposes the simulation. Only the goroutine driving the server may use it.
func (s *Server) World() *game.World {
	return s.world
}
