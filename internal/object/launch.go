package object

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/fruitarchery/internal/physics"
)

// SampleLaunchDirection returns a random unit launch direction.
//
// The vertical angle is drawn from [minAngleDeg, maxAngleDeg], where 90 is
// straight up, smaller angles lean toward +X and larger ones toward -X. A
// lateral angle drawn from [-spreadDeg, spreadDeg] then moves part of the
// horizontal component into depth, leaving the vertical component untouched.
func SampleLaunchDirection(rng Rand, minAngleDeg, maxAngleDeg, spreadDeg float64) physics.Vec3 {
	angle := mgl64.DegToRad(minAngleDeg + rng.Float64()*(maxAngleDeg-minAngleDeg))
	x := math.Cos(angle)
	y := math.Sin(angle)

	h := mgl64.DegToRad((rng.Float64()*2 - 1) * spreadDeg)
	z := math.Sin(h) * math.Abs(x)
	x *= math.Cos(h)

	return physics.Normalize(physics.Vec3{x, y, z})
}
