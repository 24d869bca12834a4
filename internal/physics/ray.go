package physics

import "math"

// Ray is a half-line starting at Origin.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// Point returns the point at distance d along the ray.
func (r Ray) Point(d float64) Vec3 {
	return r.Origin.Add(Normalize(r.Direction).Mul(d))
}

// Plane is an infinite plane described by a unit normal and its signed distance
// from the origin along that normal.
type Plane struct {
	Normal   Vec3
	Distance float64
}

// NewPlane creates a plane with the given normal passing through point.
func NewPlane(normal, point Vec3) Plane {
	n := Normalize(normal)
	return Plane{Normal: n, Distance: -n.Dot(point)}
}

// AimPlane is the plane aim input is projected onto: normal along the depth
// axis, through the origin.
var AimPlane = NewPlane(Back, Vec3{})

// Raycast intersects r with the plane. It returns the distance along the ray and
// true when the ray hits the plane in front of its origin.
func (p Plane) Raycast(r Ray) (float64, bool) {
	dir := Normalize(r.Direction)
	denom := dir.Dot(p.Normal)
	if math.Abs(denom) < 1e-9 {
		return 0, false
	}
	t := -(r.Origin.Dot(p.Normal) + p.Distance) / denom
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// AimPoint projects a screen ray onto the aim plane.
func AimPoint(r Ray) (Vec3, bool) {
	d, ok := AimPlane.Raycast(r)
	if !ok {
		return Vec3{}, false
	}
	return r.Point(d), true
}
