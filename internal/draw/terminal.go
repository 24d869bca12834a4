package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"golang.org/x/term"
)

// Terminal control sequences.
const (
	SeqClearScreen = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
)

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1400 bytes stays below a typical 1500 byte MTU for smooth SSH transmission.
const maxChunkSize = 1400

// appendCursor appends the sequence that moves the cursor to the 1-based
// terminal position (col, row).
func appendCursor(dst []byte, col, row int) []byte {
	dst = append(dst, "\033["...)
	dst = strconv.AppendInt(dst, int64(row), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(col), 10)
	return append(dst, 'H')
}

func cursorTo(col, row int) string {
	return string(appendCursor(nil, col, row))
}

// writeChunked writes data to w at most maxChunkSize bytes at a time.
func writeChunked(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// ChunkWriter collects one frame of terminal output and sends it in MTU sized
// chunks on Flush. Positions passed to it are 1-based canvas coordinates; the
// centering offset is added automatically.
type ChunkWriter struct {
	buf    []byte
	out    *bufio.Writer
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		buf:    make([]byte, 0, 4096),
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor queues a cursor move to the canvas position (col, row).
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf = appendCursor(cw.buf, col+cw.offCol, row+cw.offRow)
}

// Write implements io.Writer so a Canvas can render into the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// WriteString queues s as is.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf = append(cw.buf, s...)
}

// WriteAt queues s at the canvas position (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf = append(cw.buf, s...)
}

// WriteColorAt writes s at (col, row) in color and resets the color after it.
func (cw *ChunkWriter) WriteColorAt(col, row int, color, s string) {
	cw.MoveCursor(col, row)
	cw.buf = append(cw.buf, color...)
	cw.buf = append(cw.buf, s...)
	cw.buf = append(cw.buf, ColorReset...)
}

// WriteRune queues a single rune.
func (cw *ChunkWriter) WriteRune(r rune) {
	cw.buf = utf8.AppendRune(cw.buf, r)
}

// Len returns the number of queued bytes.
func (cw *ChunkWriter) Len() int {
	return len(cw.buf)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the queued frame and empties the queue.
func (cw *ChunkWriter) Flush() error {
	err := writeChunked(cw.out, cw.buf)
	cw.buf = cw.buf[:0]
	if err != nil {
		return err
	}
	return cw.out.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClampSize limits a terminal of width x height to at most maxW x maxH and
// returns the render size plus the 0-based offsets that center it.
func ClampSize(width, height, maxW, maxH int) (w, h, offCol, offRow int) {
	w, h = width, height
	if w > maxW {
		offCol = (w - maxW) / 2
		w = maxW
	}
	if h > maxH {
		offRow = (h - maxH) / 2
		h = maxH
	}
	return w, h, offCol, offRow
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	io.WriteString(w, SeqClearScreen)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, seqHideCursor)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, seqShowCursor)
}

// MoveCursor moves the cursor to the 1-based position (x, y).
func MoveCursor(w io.Writer, x, y int) {
	w.Write(appendCursor(nil, x, y))
}
