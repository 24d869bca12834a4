package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/fruitarchery/internal/draw"
	"github.com/tomz197/fruitarchery/internal/loop/config"
	"github.com/tomz197/fruitarchery/internal/loop/server"
	"github.com/tomz197/fruitarchery/internal/object"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// arrowLength is the drawn length of an arrow in world units.
const arrowLength = 1.6

// fruitPens colors fruit by kind; unknown names fall back to white.
var fruitPens = map[object.FruitKind]draw.Pen{
	object.Watermelon: draw.PenGreen,
	object.Apple:      draw.PenRed,
	object.Banana:     draw.PenYellow,
	object.Melon:      draw.PenBrightGreen,
	object.Orange:     draw.PenBrightRed,
	object.Pineapple:  draw.PenYellow,
	object.Grape:      draw.PenMagenta,
	object.Tomato:     draw.PenRed,
	object.Carrot:     draw.PenBrightRed,
	object.Coconut:    draw.PenWhite,
}

func fruitPen(name string) draw.Pen {
	kind, ok := object.ParseFruitKind(name)
	if !ok {
		return draw.PenWhite
	}
	if pen, ok := fruitPens[kind]; ok {
		return pen
	}
	return draw.PenWhite
}

func fruitColor(name string) string {
	return fruitPen(name).Color()
}

// timerColor picks the countdown color for the remaining seconds.
func timerColor(remaining float64) string {
	switch {
	case remaining <= config.TimerCriticalSeconds:
		return draw.ColorBrightRed
	case remaining <= config.TimerWarnSeconds:
		return draw.ColorYellow
	default:
		return draw.ColorWhite
	}
}

// hudClock shows hundredths once the countdown is critical.
func hudClock(clock string, remaining float64) string {
	if remaining <= config.TimerCriticalSeconds {
		return object.FormatClockMillis(remaining)
	}
	return clock
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString(draw.SeqClearScreen)
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	snapshot := c.server.GetSnapshot()

	if c.state.GameState != GameStateShutdown && !c.state.isInactive {
		c.drawWorld(snapshot)
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// drawWorld plots the playfield: ground, fruit, arrows, effects, bow and reticle.
func (c *Client) drawWorld(snapshot *server.Snapshot) {
	cv, v := c.canvas, c.view

	// Ground
	cv.SetPen(draw.PenGreen)
	groundLeft := v.ToScreen(physics.Vec3{v.Bounds.MinX, v.Bounds.GroundY, 0})
	groundRight := v.ToScreen(physics.Vec3{v.Bounds.MaxX, v.Bounds.GroundY, 0})
	// The ground sits on the bottom edge; keep it on the last pixel row.
	groundLeft.Y = min(groundLeft.Y, v.Height-1)
	groundRight.Y = min(groundRight.Y, v.Height-1)
	cv.DrawLine(groundLeft, groundRight)

	for _, t := range snapshot.Targets {
		cv.SetPen(fruitPen(t.Name))
		cv.DrawCircle(v.ToScreen(t.Position), v.Scale(t.Radius), true)
	}

	cv.SetPen(draw.PenWhite)
	for _, p := range snapshot.Projectiles {
		dir := v.Direction(p.Direction)
		head := v.ToScreen(p.Position)
		length := v.Scale(arrowLength)
		tail := draw.Point{X: head.X - dir.X*length, Y: head.Y - dir.Y*length}
		cv.DrawArrow(tail, dir, length)
	}

	c.effects.Draw(cv, v)

	// Bow: a short stub from the origin toward the reticle.
	bow := v.ToScreen(snapshot.Origin)
	aim := v.Direction(c.state.Reticle.Sub(snapshot.Origin))
	if snapshot.ShooterEnabled {
		cv.SetPen(draw.PenYellow)
	} else {
		cv.SetPen(draw.PenDefault)
	}
	cv.DrawCircle(bow, v.Scale(0.6), false)
	cv.DrawLine(bow, draw.Point{X: bow.X + aim.X*v.Scale(2), Y: bow.Y + aim.Y*v.Scale(2)})

	if c.state.GameState == GameStatePlaying {
		r := v.ToScreen(c.state.Reticle)
		cv.SetPen(draw.PenCyan)
		cv.DrawLine(draw.Point{X: r.X - 2, Y: r.Y}, draw.Point{X: r.X + 2, Y: r.Y})
		cv.DrawLine(draw.Point{X: r.X, Y: r.Y - 2}, draw.Point{X: r.X, Y: r.Y + 2})
	}
	cv.SetPen(draw.PenDefault)
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI(snapshot *server.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateOver:
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
		c.drawGameOverScreen(centerX, centerY)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleArt := []string{
		` ___ ___ _   _ ___ _____     _   ___  ___ _  _ ___ _____   __`,
		`| __| _ \ | | |_ _|_   _|   /_\ | _ \/ __| || | __| _ \ \ / /`,
		`| _||   / |_| || |  | |    / _ \|   / (__| __ | _||   /\ V / `,
		`|_| |_|_\\___/|___| |_|   /_/ \_\_|_\\___|_||_|___|_|_\ |_|  `,
		``,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	titleStartY := centerY - 8
	for i, line := range titleArt {
		cw.WriteColorAt(centerX-titleWidth/2, titleStartY+i, draw.ColorBrightGreen, line)
	}

	subtitle := "~ Shoot the fruit before the clock runs out ~"
	cw.WriteAt(centerX-len(subtitle)/2, titleStartY+len(titleArt)+1, subtitle)

	controlsY := titleStartY + len(titleArt) + 3
	controlHeader := "Controls"
	cw.WriteAt(centerX-len(controlHeader)/2, controlsY, controlHeader)

	controlLines := []string{
		"Arrows / WASD . . . Aim",
		"SPACE  . . . . . . Shoot",
		"P  . . . Pause / Resume",
		"+  . . . . .  Add time",
		"X  . . .  Stop spawning",
		"R / ENTER . .  Restart",
		"Q  . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, controlsY+1+i, line)
	}

	// Blinking start prompt
	prompt := ">>  Press ENTER to Start  <<"
	promptRow := controlsY + len(controlLines) + 2
	if time.Now().UnixMilli()/600%2 == 0 {
		cw.WriteAt(centerX-len(prompt)/2, promptRow, prompt)
	} else {
		cw.WriteAt(centerX-len(prompt)/2, promptRow, strings.Repeat(" ", len(prompt)))
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters between frames.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snapshot *server.Snapshot) {
	cw := c.chunkWriter

	// Score display (top left)
	scoreText := fmt.Sprintf("Score: %-6d", c.state.Score)
	cw.WriteAt(2, 1, scoreText)

	// Countdown (top center)
	var timerText, color string
	switch {
	case c.state.TimeUp:
		timerText, color = "TIME'S UP!", draw.ColorBrightRed
	case snapshot.Spawner == object.SpawnSpawning && !snapshot.TimerRunning:
		timerText, color = c.state.Clock+" PAUSED", draw.ColorCyan
	case snapshot.Spawner == object.SpawnIdle && c.state.GameState == GameStatePlaying:
		timerText, color = c.state.Clock+" STOPPED", draw.ColorCyan
	default:
		timerText, color = hudClock(c.state.Clock, c.state.Remaining), timerColor(c.state.Remaining)
	}
	timerText = fmt.Sprintf("%-14s", timerText)
	cw.WriteColorAt(termWidth/2-5, 1, color, timerText)

	// Fruit and arrows in play (top right)
	countText := fmt.Sprintf("Fruit: %-3d Arrows: %-3d", len(snapshot.Targets), len(snapshot.Projectiles))
	cw.WriteAt(termWidth-len(countText)-1, 1, countText)

	// Hit labels float above the fruit they came from.
	for _, p := range c.state.popups {
		pt := c.view.ToScreen(p.Pos)
		col, row := c.canvas.LogicalToTerminal(pt.X, pt.Y)
		col -= len(p.Text) / 2
		if row < 2 || row > termHeight || col < 1 || col+len(p.Text) > termWidth {
			continue
		}
		cw.WriteColorAt(col, row, p.Color, p.Text)
		c.canvas.MarkTextDirty(col, row, len(p.Text))
	}

	// Controls hint (bottom left)
	hint := "SPACE shoot  P pause  + time  X stop  R restart  Q quit"
	if len(hint)+2 <= termWidth {
		cw.WriteAt(2, termHeight, hint)
	}
}

// drawGameOverScreen draws the final score and restart prompt over the field.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
		``,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	titleStartY := centerY - 6
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
		c.canvas.MarkTextDirty(centerX-titleWidth/2, titleStartY+i, len(line))
	}

	lines := []string{
		fmt.Sprintf("Final score: %d", c.state.FinalScore),
		fmt.Sprintf("Fruit hit: %d", c.state.Hits),
	}
	for i, line := range lines {
		row := titleStartY + len(titleArt) + 1 + i
		cw.WriteAt(centerX-len(line)/2, row, line)
		c.canvas.MarkTextDirty(centerX-len(line)/2, row, len(line))
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press ENTER to Play Again  <<"
		row := titleStartY + len(titleArt) + len(lines) + 2
		cw.WriteAt(centerX-len(prompt)/2, row, prompt)
		c.canvas.MarkTextDirty(centerX-len(prompt)/2, row, len(prompt))
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, title)

	msg1 := "The server is restarting for maintenance."
	cw.WriteAt(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %2d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+4, hint)
}
