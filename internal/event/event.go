// Package event defines the typed notifications the simulation emits and the
// observer plumbing that delivers them.
package event

import (
	"github.com/google/uuid"

	"github.com/tomz197/fruitarchery/internal/physics"
)

//go:generate go tool mockgen -destination=./mocks/listener_mock.go -package=mocks . Listener

// Event is a notification emitted by the simulation.
type Event interface {
	event()
}

// Listener receives events. Notify is called on the simulation goroutine and
// must not block.
type Listener interface {
	Notify(e Event)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(e Event)

// Notify calls f(e).
func (f ListenerFunc) Notify(e Event) { f(e) }

// Nop discards every event.
var Nop Listener = ListenerFunc(func(Event) {})

// Tick carries the countdown after every scheduler step.
type Tick struct {
	Remaining float64 // Seconds
	Formatted string  // MM:SS
}

// TimerComplete is emitted once when the countdown reaches zero.
type TimerComplete struct{}

// ScoreChanged carries the new session score.
type ScoreChanged struct {
	Score int
}

// GameStarted is emitted when a session becomes active.
type GameStarted struct{}

// GameOver is emitted when the countdown ends an active session.
type GameOver struct {
	FinalScore int
}

// TargetSpawned is emitted for each launched target.
type TargetSpawned struct {
	TargetID uuid.UUID
	Name     string
	Position physics.Vec3
	Velocity physics.Vec3
}

// TargetHit is emitted when a hit is applied to a target.
type TargetHit struct {
	TargetID     uuid.UUID
	ProjectileID uuid.UUID // uuid.Nil for game-over cleanup
	Name         string
	Points       int
	Position     physics.Vec3
}

// TargetExpired is emitted when a target leaves play without being hit.
type TargetExpired struct {
	TargetID uuid.UUID
	Position physics.Vec3
}

// ProjectileFired is emitted when the shooter accepts a fire request.
type ProjectileFired struct {
	ProjectileID uuid.UUID
	Origin       physics.Vec3
	Direction    physics.Vec3
}

// DestroyReason says why a projectile left play.
type DestroyReason int

const (
	DestroyedByHit DestroyReason = iota
	DestroyedByGround
	DestroyedByBoundary
	DestroyedByLifetime
	DestroyedByDiscard
)

func (r DestroyReason) String() string {
	switch r {
	case DestroyedByHit:
		return "hit"
	case DestroyedByGround:
		return "ground"
	case DestroyedByBoundary:
		return "boundary"
	case DestroyedByLifetime:
		return "lifetime"
	case DestroyedByDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// ProjectileDestroyed is emitted exactly once per projectile.
type ProjectileDestroyed struct {
	ProjectileID uuid.UUID
	Position     physics.Vec3
	Reason       DestroyReason
}

func (Tick) event()                {}
func (TimerComplete) event()       {}
func (ScoreChanged) event()        {}
func (GameStarted) event()         {}
func (GameOver) event()            {}
func (TargetSpawned) event()       {}
func (TargetHit) event()           {}
func (TargetExpired) event()       {}
func (ProjectileFired) event()     {}
func (ProjectileDestroyed) event() {}
