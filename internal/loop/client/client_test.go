package client

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/tomz197/fruitarchery/internal/config"
	"github.com/tomz197/fruitarchery/internal/draw"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/input"
	"github.com/tomz197/fruitarchery/internal/loop/server"
	"github.com/tomz197/fruitarchery/internal/loop/server/mocks"
	"github.com/tomz197/fruitarchery/internal/object"
	"github.com/tomz197/fruitarchery/internal/physics"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func testSnapshot() *server.Snapshot {
	s := config.Default()
	return &server.Snapshot{
		Spawner:        object.SpawnSpawning,
		TimerRunning:   true,
		ShooterEnabled: true,
		Origin:         physics.Vec3{0, -4, 0},
		Bounds:         s.World,
		Clock:          "01:00",
	}
}

// newTestClient builds a client with no input stream writing to out.
func newTestClient(t *testing.T, snap *server.Snapshot, out io.Writer) (*Client, *mocks.MockGameServer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	gs := mocks.NewMockGameServer(ctrl)
	gs.EXPECT().GetSnapshot().Return(snap).AnyTimes()
	c := NewClient(gs, nil, out, ClientOptions{
		TermSizeFunc: fixedSize(120, 40),
		Logger:       log.New(io.Discard),
	})
	return c, gs
}

func TestNewClientAimsAboveBow(t *testing.T) {
	c, _ := newTestClient(t, testSnapshot(), io.Discard)
	want := physics.Vec3{0, 6, 0}
	if c.state.Reticle != want {
		t.Errorf("reticle = %v, want %v", c.state.Reticle, want)
	}
	if c.state.GameState != GameStateStart || !c.state.Running {
		t.Errorf("state = %v running=%v", c.state.GameState, c.state.Running)
	}
}

func TestHandleInputStartFromTitle(t *testing.T) {
	c, gs := newTestClient(t, testSnapshot(), io.Discard)
	gs.EXPECT().Send(server.Command{Kind: server.CmdStart})

	c.handleInput(input.Input{Start: true, Any: true}, time.Now())
}

func TestHandleInputFireSendsPointerRay(t *testing.T) {
	c, gs := newTestClient(t, testSnapshot(), io.Discard)
	c.state.GameState = GameStatePlaying
	c.state.Reticle = physics.Vec3{3, 2, 0}

	var got server.Command
	gs.EXPECT().Send(gomock.Any()).Do(func(cmd server.Command) { got = cmd })

	c.handleInput(input.Input{Fire: true, Any: true}, time.Now())

	if got.Kind != server.CmdFire {
		t.Fatalf("kind = %v, want fire", got.Kind)
	}
	aim, ok := physics.AimPoint(got.Pointer)
	if !ok {
		t.Fatalf("pointer ray %+v misses the aim plane", got.Pointer)
	}
	if aim.Sub(c.state.Reticle).Len() > 1e-9 {
		t.Errorf("aim point = %v, want %v", aim, c.state.Reticle)
	}
}

func TestHandleInputPauseToggles(t *testing.T) {
	snap := testSnapshot()
	c, gs := newTestClient(t, snap, io.Discard)
	c.state.GameState = GameStatePlaying

	gomock.InOrder(
		gs.EXPECT().Send(server.Command{Kind: server.CmdPause}),
		gs.EXPECT().Send(server.Command{Kind: server.CmdResume}),
	)

	c.handleInput(input.Input{Pause: true, Any: true}, time.Now())
	snap.TimerRunning = false
	c.handleInput(input.Input{Pause: true, Any: true}, time.Now())
}

func TestHandleInputHostControls(t *testing.T) {
	c, gs := newTestClient(t, testSnapshot(), io.Discard)
	c.state.GameState = GameStatePlaying

	gomock.InOrder(
		gs.EXPECT().Send(server.Command{Kind: server.CmdAddTime, Seconds: 10}),
		gs.EXPECT().Send(server.Command{Kind: server.CmdStop}),
		gs.EXPECT().Send(server.Command{Kind: server.CmdStart}),
	)

	now := time.Now()
	c.handleInput(input.Input{AddTime: true, Any: true}, now)
	c.handleInput(input.Input{Stop: true, Any: true}, now)
	c.handleInput(input.Input{Start: true, Any: true}, now)
}

func TestHandleInputMovesReticle(t *testing.T) {
	c, _ := newTestClient(t, testSnapshot(), io.Discard)
	c.state.GameState = GameStatePlaying
	c.state.delta = 100 * time.Millisecond
	start := c.state.Reticle

	c.handleInput(input.Input{Right: true, Up: true, Any: true}, time.Now())

	step := 18.0 * 0.1
	want := start.Add(physics.Vec3{step, step, 0})
	if c.state.Reticle.Sub(want).Len() > 1e-9 {
		t.Errorf("reticle = %v, want %v", c.state.Reticle, want)
	}

	// Held against the wall it stays inside the playfield.
	c.state.Reticle = physics.Vec3{24, 0, 0}
	c.handleInput(input.Input{Right: true, Any: true}, time.Now())
	if c.state.Reticle.X() != 24 {
		t.Errorf("reticle escaped the wall: %v", c.state.Reticle)
	}
}

func TestHandleInputQuit(t *testing.T) {
	c, _ := newTestClient(t, testSnapshot(), io.Discard)
	c.handleInput(input.Input{Quit: true, Any: true}, time.Now())
	if c.state.Running {
		t.Error("quit did not stop the client")
	}
}

func TestHandleInputInactivity(t *testing.T) {
	c, gs := newTestClient(t, testSnapshot(), io.Discard)
	start := c.lastInput

	c.handleInput(input.Input{}, start.Add(95*time.Second))
	if !c.state.isInactive {
		t.Fatal("no warning after 95s idle")
	}

	// The first key only dismisses the warning.
	gs.EXPECT().Send(gomock.Any()).Times(0)
	c.handleInput(input.Input{Start: true, Any: true}, start.Add(96*time.Second))
	if c.state.isInactive {
		t.Error("warning not dismissed")
	}

	c.handleInput(input.Input{}, start.Add(96*time.Second+121*time.Second))
	if c.state.Running {
		t.Error("client not disconnected after idling past the limit")
	}
}

func TestHandleEventLifecycle(t *testing.T) {
	c, _ := newTestClient(t, testSnapshot(), io.Discard)

	c.handleEvent(event.GameStarted{})
	if c.state.GameState != GameStatePlaying {
		t.Fatalf("state = %v, want playing", c.state.GameState)
	}

	c.handleEvent(event.Tick{Remaining: 42, Formatted: "00:42"})
	c.handleEvent(event.ScoreChanged{Score: 25})
	if c.state.Clock != "00:42" || c.state.Remaining != 42 || c.state.Score != 25 {
		t.Errorf("hud = %q %v %d", c.state.Clock, c.state.Remaining, c.state.Score)
	}

	c.handleEvent(event.TimerComplete{})
	c.handleEvent(event.GameOver{FinalScore: 25})
	if !c.state.TimeUp || c.state.GameState != GameStateOver || c.state.FinalScore != 25 {
		t.Errorf("after game over: %+v", c.state)
	}

	c.handleEvent(event.GameStarted{})
	if c.state.Score != 0 || c.state.TimeUp || c.state.GameState != GameStatePlaying {
		t.Errorf("restart did not reset: %+v", c.state)
	}
}

func TestHandleEventTargetHit(t *testing.T) {
	c, _ := newTestClient(t, testSnapshot(), io.Discard)
	c.handleEvent(event.GameStarted{})

	c.handleEvent(event.TargetHit{
		TargetID:     uuid.New(),
		ProjectileID: uuid.New(),
		Name:         "Grape",
		Points:       25,
		Position:     physics.Vec3{1, 2, 0},
	})
	if c.state.Hits != 1 || len(c.state.popups) != 1 || c.effects.Len() == 0 {
		t.Fatalf("hits=%d popups=%d particles=%d", c.state.Hits, len(c.state.popups), c.effects.Len())
	}
	if p := c.state.popups[0]; p.Text != "+25 Grape" || p.Color != fruitColor("Grape") {
		t.Errorf("popup = %+v", p)
	}

	// Cleanup hits only burst.
	c.handleEvent(event.TargetHit{TargetID: uuid.New(), Name: "Apple", Position: physics.Vec3{}})
	if c.state.Hits != 1 || len(c.state.popups) != 1 {
		t.Errorf("cleanup counted as a hit: hits=%d popups=%d", c.state.Hits, len(c.state.popups))
	}
}

func TestProcessServerEventsShutdown(t *testing.T) {
	c, gs := newTestClient(t, testSnapshot(), io.Discard)
	notice := make(chan struct{})
	close(notice)
	events := make(chan event.Event, 1)
	events <- event.GameStarted{}

	gs.EXPECT().ShutdownNotice().Return(notice).AnyTimes()
	gs.EXPECT().Events().Return(events).AnyTimes()

	c.processServerEvents()
	if c.state.GameState != GameStateShutdown {
		t.Fatalf("state = %v, want shutdown", c.state.GameState)
	}

	c.state.delta = 11 * time.Second
	c.update()
	if c.state.Running {
		t.Error("client kept running after the shutdown countdown")
	}
}

func TestProcessServerEventsClosedChannel(t *testing.T) {
	c, gs := newTestClient(t, testSnapshot(), io.Discard)
	events := make(chan event.Event)
	close(events)

	gs.EXPECT().ShutdownNotice().Return(make(chan struct{})).AnyTimes()
	gs.EXPECT().Events().Return(events).AnyTimes()

	c.processServerEvents()
	if c.state.Running {
		t.Error("closed event channel did not stop the client")
	}
}

func TestDrawFrameHUD(t *testing.T) {
	snap := testSnapshot()
	snap.Targets = []server.TargetView{{Name: "Apple", Position: physics.Vec3{5, 5, 0}, Radius: 1}}
	snap.Projectiles = []server.ProjectileView{{Position: physics.Vec3{0, 0, 0}, Direction: physics.Up}}

	var out bytes.Buffer
	c, _ := newTestClient(t, snap, &out)

	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Press ENTER to") && !strings.Contains(out.String(), "Controls") {
		t.Errorf("title screen missing:\n%q", out.String())
	}

	c.handleEvent(event.GameStarted{})
	c.handleEvent(event.ScoreChanged{Score: 40})
	c.handleEvent(event.Tick{Remaining: 9, Formatted: "00:09"})
	out.Reset()
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Score: 40", "00:09", "Fruit: 1", "Arrows: 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("HUD missing %q", want)
		}
	}

	c.handleEvent(event.TimerComplete{})
	c.handleEvent(event.GameOver{FinalScore: 40})
	out.Reset()
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "TIME'S UP!") || !strings.Contains(got, "Final score: 40") {
		t.Errorf("game over screen missing text")
	}
}

func TestTimerColor(t *testing.T) {
	tests := []struct {
		remaining float64
		want      string
	}{
		{60, draw.ColorWhite},
		{30.5, draw.ColorWhite},
		{30, draw.ColorYellow},
		{10, draw.ColorBrightRed},
		{0, draw.ColorBrightRed},
	}
	for _, tt := range tests {
		if got := timerColor(tt.remaining); got != tt.want {
			t.Errorf("timerColor(%v) = %q, want %q", tt.remaining, got, tt.want)
		}
	}
}

func TestHUDClockShowsHundredthsWhenCritical(t *testing.T) {
	tests := []struct {
		clock     string
		remaining float64
		want      string
	}{
		{"00:42", 42, "00:42"},
		{"00:11", 10.5, "00:11"},
		{"00:10", 10, "00:10.00"},
		{"00:09", 9.25, "00:09.25"},
		{"00:00", 0, "00:00.00"},
	}
	for _, tt := range tests {
		if got := hudClock(tt.clock, tt.remaining); got != tt.want {
			t.Errorf("hudClock(%q, %v) = %q, want %q", tt.clock, tt.remaining, got, tt.want)
		}
	}
}

func TestFruitPen(t *testing.T) {
	if got := fruitPen("watermelon"); got != draw.PenGreen {
		t.Errorf("fruitPen(watermelon) = %v", got)
	}
	if got := fruitPen("Durian"); got != draw.PenWhite {
		t.Errorf("unknown fruit pen = %v, want white", got)
	}
}
