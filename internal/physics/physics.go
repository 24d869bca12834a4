// Package physics provides vector math, aim geometry and overlap utilities.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space vector. X is toward the shooter side, Y is up and Z is depth.
type Vec3 = mgl64.Vec3

// Quat is an orientation.
type Quat = mgl64.Quat

// Principal axes.
var (
	Right   = Vec3{1, 0, 0}
	Up      = Vec3{0, 1, 0}
	Forward = Vec3{0, 0, 1}
	Back    = Vec3{0, 0, -1}
)

// Gravity is the downward acceleration applied to launched targets (units/s²).
const Gravity = 9.81

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec3) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// SpheresOverlap checks if two spheres overlap.
func SpheresOverlap(a Vec3, ra float64, b Vec3, rb float64) bool {
	minDist := ra + rb
	return DistanceSquared(a, b) < minDist*minDist
}

// AngleAxis returns a rotation of deg degrees around axis.
func AngleAxis(deg float64, axis Vec3) Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), Normalize(axis))
}

// LookRotation returns the rotation whose local +Z points along forward and whose
// local +Y is as close to up as possible. Degenerate input yields the identity.
func LookRotation(forward, up Vec3) Quat {
	z := Normalize(forward)
	x := up.Cross(z)
	if x.Len() < 1e-9 || z.Len() == 0 {
		return mgl64.QuatIdent()
	}
	x = Normalize(x)
	y := z.Cross(x)
	m := mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	return mgl64.Mat4ToQuat(m).Normalize()
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}
