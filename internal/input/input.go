// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a movement key is considered "held" after its
// last press. Terminals only repeat keys every few tens of milliseconds.
const keyHoldDuration = 80 * time.Millisecond

// Input represents the current frame's input state.
// Movement keys stay set while held; actions are set only in the frame their
// key arrived.
type Input struct {
	// Held
	Left  bool
	Right bool
	Up    bool
	Down  bool

	// Actions
	Quit    bool
	Fire    bool
	Start   bool
	Pause   bool
	AddTime bool
	Stop    bool

	// Any is set when at least one byte arrived this frame.
	Any     bool
	Pressed []byte
}

// keyState tracks the last time each movement key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	return ReadInputAt(s, time.Now())
}

// ReadInputAt is ReadInput with an explicit frame time.
// Handles escape sequences for arrow keys and accumulates all pressed keys.
func ReadInputAt(s *Stream, now time.Time) Input {
	buf := drain(s)
	var in Input

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if applyArrow(&s.state, buf[i+2], now) {
				i += 2
				continue
			}
		}

		applyByte(&in, &s.state, b, now)
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.Any = len(buf) > 0
	in.Pressed = buf
	return in
}

func drain(s *Stream) []byte {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
}

func applyArrow(state *keyState, code byte, now time.Time) bool {
	switch code {
	case 'A':
		state.up = now
	case 'B':
		state.down = now
	case 'C':
		state.right = now
	case 'D':
		state.left = now
	default:
		return false
	}
	return true
}

// applyByte updates movement timestamps and sets this frame's actions.
func applyByte(in *Input, state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ', 'f', 'F':
		in.Fire = true
	case '\n', '\r', 'r', 'R':
		in.Start = true
	case 'p', 'P':
		in.Pause = true
	case '+', '=', 't', 'T':
		in.AddTime = true
	case 'x', 'X':
		in.Stop = true
	}
}
