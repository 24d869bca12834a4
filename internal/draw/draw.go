// Package draw renders to ANSI terminals: a scaled half-block pixel canvas and
// a chunked writer for text overlays.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
// Use these to render different intensities in the terminal.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockLeftHalf  = '▌'
	BlockRightHalf = '▐'
)

// ANSI foreground colors.
const (
	ColorReset       = "\033[0m"
	ColorRed         = "\033[31m"
	ColorGreen       = "\033[32m"
	ColorYellow      = "\033[33m"
	ColorBlue        = "\033[34m"
	ColorMagenta     = "\033[35m"
	ColorCyan        = "\033[36m"
	ColorWhite       = "\033[37m"
	ColorBrightRed   = "\033[91m"
	ColorBrightGreen = "\033[92m"
	ColorBrightCyan  = "\033[96m"
	ColorBold        = "\033[1m"
)

// Pen selects the color a canvas pixel is drawn with. The zero Pen is the
// terminal default.
type Pen uint8

const (
	PenDefault Pen = iota
	PenRed
	PenGreen
	PenYellow
	PenBlue
	PenMagenta
	PenCyan
	PenWhite
	PenBrightRed
	PenBrightGreen
	penCount
)

var penColors = [penCount]string{
	PenDefault:     ColorReset,
	PenRed:         ColorRed,
	PenGreen:       ColorGreen,
	PenYellow:      ColorYellow,
	PenBlue:        ColorBlue,
	PenMagenta:     ColorMagenta,
	PenCyan:        ColorCyan,
	PenWhite:       ColorWhite,
	PenBrightRed:   ColorBrightRed,
	PenBrightGreen: ColorBrightGreen,
}

// Color returns the ANSI sequence for p.
func (p Pen) Color() string {
	if p >= penCount {
		return ColorReset
	}
	return penColors[p]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
