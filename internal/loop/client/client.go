package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/fruitarchery/internal/draw"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/input"
	"github.com/tomz197/fruitarchery/internal/loop/config"
	"github.com/tomz197/fruitarchery/internal/loop/server"
	"github.com/tomz197/fruitarchery/internal/object"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	state        *ClientState
	view         View
	effects      *Effects
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	snap := gs.GetSnapshot()
	view := NewView(snap.Bounds)
	state := NewClientState()
	// Start aiming straight up from the bow.
	state.Reticle = view.Clamp(physics.Vec3{snap.Origin.X(), (snap.Origin.Y() + snap.Bounds.MaxY) / 2, 0})

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	c := &Client{
		server:       gs,
		state:        state,
		view:         view,
		effects:      NewEffects(uint64(time.Now().UnixNano())),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}
	if r != nil {
		c.inputStream = input.StartStream(r)
	}
	return c
}

// Run starts the client loop. Blocks until the client quits or the server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.Detach()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput(frameStart)

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		// Client-side animation
		c.update()

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("failed to draw frame: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input, tracks inactivity and turns keys into commands.
func (c *Client) processInput(now time.Time) {
	if c.inputStream == nil {
		return
	}
	in := input.ReadInputAt(c.inputStream, now)
	if c.inputStream.Closed() {
		c.state.Running = false
	}
	c.handleInput(in, now)
}

// handleInput applies one frame of input.
func (c *Client) handleInput(in input.Input, now time.Time) {
	c.state.Input = in

	if in.Any {
		c.lastInput = now
		if c.state.isInactive {
			// The key only dismisses the warning.
			c.state.isInactive = false
			return
		}
	} else if idle := now.Sub(c.lastInput).Seconds(); idle > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive client", "idle", idle)
		c.state.Running = false
	} else if idle > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
		return
	}

	switch c.state.GameState {
	case GameStateStart, GameStateOver:
		if in.Start || in.Fire {
			c.server.Send(server.Command{Kind: server.CmdStart})
		}
	case GameStatePlaying:
		c.handlePlayingInput(in)
	}
}

func (c *Client) handlePlayingInput(in input.Input) {
	dt := c.state.delta.Seconds()
	var move physics.Vec3
	if in.Left {
		move[0]--
	}
	if in.Right {
		move[0]++
	}
	if in.Up {
		move[1]++
	}
	if in.Down {
		move[1]--
	}
	c.state.Reticle = c.view.Clamp(c.state.Reticle.Add(move.Mul(config.ReticleSpeed * dt)))

	if in.Fire {
		c.server.Send(server.Command{Kind: server.CmdFire, Pointer: c.view.PointerRay(c.state.Reticle)})
	}
	if in.Pause {
		kind := server.CmdPause
		if snap := c.server.GetSnapshot(); snap.Spawner == object.SpawnSpawning && !snap.TimerRunning {
			kind = server.CmdResume
		}
		c.server.Send(server.Command{Kind: kind})
	}
	if in.AddTime {
		c.server.Send(server.Command{Kind: server.CmdAddTime, Seconds: config.AddTimeStep})
	}
	if in.Stop {
		c.server.Send(server.Command{Kind: server.CmdStop})
	}
	if in.Start {
		c.server.Send(server.Command{Kind: server.CmdStart})
	}
}

// processServerEvents handles events and the shutdown notice from the server.
func (c *Client) processServerEvents() {
	select {
	case <-c.server.ShutdownNotice():
		if c.state.GameState != GameStateShutdown {
			c.state.GameState = GameStateShutdown
			c.state.shutdownTimer = config.ShutdownDisplaySeconds
		}
	default:
	}

	events := c.server.Events()
	for {
		select {
		case e, ok := <-events:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			c.handleEvent(e)
		default:
			return
		}
	}
}

// handleEvent updates the HUD state and effects for one game event.
func (c *Client) handleEvent(e event.Event) {
	if c.state.GameState == GameStateShutdown {
		return
	}
	switch e := e.(type) {
	case event.GameStarted:
		c.state.GameState = GameStatePlaying
		c.state.Score = 0
		c.state.Hits = 0
		c.state.TimeUp = false
		c.state.popups = c.state.popups[:0]
		c.effects.Clear()
	case event.ScoreChanged:
		c.state.Score = e.Score
	case event.Tick:
		c.state.Remaining = e.Remaining
		c.state.Clock = e.Formatted
	case event.TimerComplete:
		c.state.TimeUp = true
	case event.GameOver:
		c.state.FinalScore = e.FinalScore
		c.state.GameState = GameStateOver
	case event.TargetHit:
		pen := fruitPen(e.Name)
		if e.ProjectileID == uuid.Nil {
			// Cleared at game over
			c.effects.Burst(e.Position, 6, 4, 0.4, pen)
			return
		}
		c.state.Hits++
		c.effects.Burst(e.Position, 16, 8, 0.6, pen)
		c.state.addPopup(fmt.Sprintf("+%d %s", e.Points, e.Name), fruitColor(e.Name), e.Position)
	case event.ProjectileDestroyed:
		if e.Reason == event.DestroyedByGround || e.Reason == event.DestroyedByBoundary {
			c.effects.Burst(e.Position, 4, 3, 0.3, draw.PenWhite)
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	return draw.ClampSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
}

// update advances client-only animation and the shutdown countdown.
func (c *Client) update() {
	dt := c.state.delta.Seconds()
	c.effects.Update(dt)
	c.state.updatePopups(dt)

	if c.state.GameState == GameStateShutdown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}
