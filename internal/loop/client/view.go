package client

import (
	"github.com/tomz197/fruitarchery/internal/config"
	"github.com/tomz197/fruitarchery/internal/draw"
	loopconfig "github.com/tomz197/fruitarchery/internal/loop/config"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// cameraDistance is how far in front of the aim plane the orthographic camera
// sits. Pointer rays start there and look along +Z.
const cameraDistance = 10

// View maps the playfield onto the logical canvas. World Y grows upward,
// canvas Y grows downward.
type View struct {
	Bounds config.WorldSettings
	Width  float64 // logical canvas width
	Height float64 // logical canvas height
}

// NewView creates a view of bounds at the host's logical resolution.
func NewView(bounds config.WorldSettings) View {
	return View{Bounds: bounds, Width: loopconfig.ViewWidth, Height: loopconfig.ViewHeight}
}

func (v View) spanX() float64 { return v.Bounds.MaxX - v.Bounds.MinX }
func (v View) spanY() float64 { return v.Bounds.MaxY - v.Bounds.GroundY }

// ToScreen converts a world position to logical canvas coordinates.
func (v View) ToScreen(p physics.Vec3) draw.Point {
	if v.spanX() <= 0 || v.spanY() <= 0 {
		return draw.Point{}
	}
	return draw.Point{
		X: (p.X() - v.Bounds.MinX) / v.spanX() * v.Width,
		Y: (v.Bounds.MaxY - p.Y()) / v.spanY() * v.Height,
	}
}

// FromScreen converts logical canvas coordinates to a point on the aim plane.
func (v View) FromScreen(pt draw.Point) physics.Vec3 {
	if v.Width <= 0 || v.Height <= 0 {
		return physics.Vec3{}
	}
	return physics.Vec3{
		v.Bounds.MinX + pt.X/v.Width*v.spanX(),
		v.Bounds.MaxY - pt.Y/v.Height*v.spanY(),
		0,
	}
}

// Scale converts a world length to logical canvas units along X.
func (v View) Scale(length float64) float64 {
	if v.spanX() <= 0 {
		return 0
	}
	return length * v.Width / v.spanX()
}

// Direction converts a world direction to a unit canvas direction.
func (v View) Direction(d physics.Vec3) draw.Point {
	if v.spanX() <= 0 || v.spanY() <= 0 {
		return draw.Point{}
	}
	sd := physics.Normalize(physics.Vec3{d.X() * v.Width / v.spanX(), -d.Y() * v.Height / v.spanY(), 0})
	return draw.Point{X: sd.X(), Y: sd.Y()}
}

// Clamp keeps p inside the playfield, on the aim plane.
func (v View) Clamp(p physics.Vec3) physics.Vec3 {
	return physics.Vec3{
		min(max(p.X(), v.Bounds.MinX), v.Bounds.MaxX),
		min(max(p.Y(), v.Bounds.GroundY), v.Bounds.MaxY),
		0,
	}
}

// PointerRay returns the camera ray through the aim-plane point p.
func (v View) PointerRay(p physics.Vec3) physics.Ray {
	return physics.Ray{
		Origin:    physics.Vec3{p.X(), p.Y(), -cameraDistance},
		Direction: physics.Forward,
	}
}
