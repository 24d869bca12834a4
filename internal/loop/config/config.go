// Package config centralizes the tunables of the terminal host.
// Gameplay parameters live in internal/config and are loaded from YAML.
package config

import "time"

// View resolution - the visible playfield in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 120 // Logical viewport width
	ViewHeight = 80  // Logical viewport height (in sub-pixels, so 40 terminal rows)
)

// Maximum render area. Larger terminals get a centered, bordered playfield.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// HUD countdown colors switch below these thresholds.
const (
	TimerWarnSeconds     = 30.0
	TimerCriticalSeconds = 10.0
)

// Aiming
const (
	ReticleSpeed = 18.0 // World units per second while an arrow key is held
	AddTimeStep  = 10.0 // Seconds added by the host control
)

// Events buffered between the simulation and one client.
const EventQueueSize = 256

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)
