package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestCanvasRenderOnlyChangedCells(t *testing.T) {
	c := NewCanvas(4, 2)
	var buf bytes.Buffer

	c.Render(&buf)
	if n := strings.Count(buf.String(), "H"); n != 8 {
		t.Fatalf("first render wrote %d cells, want all 8", n)
	}

	buf.Reset()
	c.Render(&buf)
	if strings.Contains(buf.String(), "H") {
		t.Errorf("unchanged frame rewrote cells: %q", buf.String())
	}

	buf.Reset()
	c.Set(1, 0)
	c.Render(&buf)
	if got := buf.String(); !strings.Contains(got, "\033[1;2H"+string(BlockUpperHalf)) || strings.Count(got, "H") != 1 {
		t.Errorf("render = %q, want a single upper half block at 1;2", got)
	}

	buf.Reset()
	c.Clear()
	c.Render(&buf)
	if got := buf.String(); !strings.Contains(got, "\033[1;2H ") {
		t.Errorf("cleared pixel not erased: %q", got)
	}
}

func TestCanvasTextDirtyAndForceRedraw(t *testing.T) {
	c := NewCanvas(4, 2)
	var buf bytes.Buffer
	c.Render(&buf)

	buf.Reset()
	c.MarkTextDirty(2, 2, 2)
	c.Render(&buf)
	if n := strings.Count(buf.String(), "H"); n != 2 {
		t.Errorf("dirty text repaint wrote %d cells, want 2", n)
	}

	buf.Reset()
	c.ForceRedraw()
	c.Render(&buf)
	if n := strings.Count(buf.String(), "H"); n != 8 {
		t.Errorf("forced redraw wrote %d cells, want 8", n)
	}
}

func TestCanvasPenColor(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetPen(PenRed)
	c.Set(0, 0)
	c.SetPen(PenGreen)
	c.Set(0, 1)
	c.Set(1, 1)

	var buf bytes.Buffer
	c.Render(&buf)
	got := buf.String()
	if !strings.Contains(got, ColorRed+string(BlockFull)) {
		t.Errorf("top pen should color the full block: %q", got)
	}
	if !strings.Contains(got, ColorGreen+string(BlockLowerHalf)) {
		t.Errorf("lower half block not green: %q", got)
	}
}

func TestCanvasScaling(t *testing.T) {
	c := NewScaledCanvas(60, 20, 120, 80)
	col, row := c.LogicalToTerminal(60, 40)
	if col != 31 || row != 11 {
		t.Errorf("LogicalToTerminal = (%d, %d), want (31, 11)", col, row)
	}

	c.DrawLine(Point{0, 0}, Point{118, 0})
	set := 0
	for x := 0; x < c.TerminalWidth(); x++ {
		if c.pixels[x] != 0 {
			set++
		}
	}
	if set != 60 {
		t.Errorf("scaled line set %d pixels, want 60", set)
	}
}

func TestDrawCircleStaysAroundCenter(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(Point{10, 10}, 4, true)

	for y := 0; y < c.subPixelHeight; y++ {
		for x := 0; x < c.termWidth; x++ {
			if c.pixels[y*c.termWidth+x] == 0 {
				continue
			}
			dx, dy := float64(x-10), float64(y-10)
			if dx*dx+dy*dy > 5*5 {
				t.Fatalf("pixel (%d, %d) outside the circle", x, y)
			}
		}
	}
	if c.pixels[10*c.termWidth+10] == 0 {
		t.Error("filled circle has an empty center")
	}
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		w, h                     int
		wantW, wantH, offC, offR int
	}{
		{80, 24, 80, 24, 0, 0},
		{200, 24, 160, 24, 20, 0},
		{100, 61, 100, 50, 0, 5},
	}
	for _, tt := range tests {
		w, h, oc, or := ClampSize(tt.w, tt.h, 160, 50)
		if w != tt.wantW || h != tt.wantH || oc != tt.offC || or != tt.offR {
			t.Errorf("ClampSize(%d, %d) = %d %d %d %d", tt.w, tt.h, w, h, oc, or)
		}
	}
}

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 2)
	cw.WriteAt(1, 1, "hi")
	if out.Len() != 0 {
		t.Fatal("wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "\033[3;4Hhi" {
		t.Errorf("output = %q", got)
	}
	if cw.Len() != 0 {
		t.Error("buffer not reset after Flush")
	}
}
