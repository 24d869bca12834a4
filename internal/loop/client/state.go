package client

import (
	"time"

	"github.com/tomz197/fruitarchery/internal/input"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Countdown running or paused
	GameStateOver                      // Final score, restart prompt
	GameStateShutdown                  // Server is shutting down
)

// popupLifetime is how long a hit label floats above the fruit.
const popupLifetime = 0.8

// popup is a short text label anchored in world space, e.g. "+25 Grape".
type popup struct {
	Text      string
	Color     string
	Pos       physics.Vec3
	Remaining float64 // Seconds
}

// ClientState holds per-connection state (input, score, aim, etc.).
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input     input.Input
	GameState GameState
	Reticle   physics.Vec3 // Aim point on the aim plane

	Score      int
	FinalScore int
	Remaining  float64 // Seconds, from the last Tick event
	Clock      string  // MM:SS, from the last Tick event
	TimeUp     bool
	Hits       int

	Running bool
	popups  []popup

	delta         time.Duration // Frame delta time (client-side)
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool
	prevGameState GameState
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Clock:     "--:--",
		Running:   true,
	}
}

// addPopup anchors a label at pos.
func (s *ClientState) addPopup(text, color string, pos physics.Vec3) {
	s.popups = append(s.popups, popup{Text: text, Color: color, Pos: pos, Remaining: popupLifetime})
}

// updatePopups ages labels by dt seconds and lets them drift upward.
func (s *ClientState) updatePopups(dt float64) {
	n := 0
	for _, p := range s.popups {
		p.Remaining -= dt
		if p.Remaining <= 0 {
			continue
		}
		p.Pos = p.Pos.Add(physics.Up.Mul(2 * dt))
		s.popups[n] = p
		n++
	}
	s.popups = s.popups[:n]
}
