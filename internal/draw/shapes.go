package draw

import "math"

// DrawCircle draws a circle outline of logical radius r around center, using
// enough segments to look round at the current scale. With filled set the
// interior is filled as well.
func (c *Canvas) DrawCircle(center Point, r float64, filled bool) {
	if r <= 0 {
		c.SetFloat(center.X, center.Y)
		return
	}

	// One segment per couple of pixels of circumference, at least a hexagon.
	pixR := r * max(c.scaleX, c.scaleY)
	segments := max(int(2*math.Pi*pixR/2), 6)

	points := c.BorrowPoints(segments)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	}
	c.DrawPolygon(points, filled)
}

// DrawArrow draws a shaft of length from tail along unit direction dir with a
// small head at the front.
func (c *Canvas) DrawArrow(tail Point, dir Point, length float64) {
	tip := Point{X: tail.X + dir.X*length, Y: tail.Y + dir.Y*length}
	c.DrawLine(tail, tip)

	head := length * 0.35
	for _, side := range [2]float64{1, -1} {
		// Rotate the reversed direction by ±30°.
		sin, cos := math.Sincos(side * math.Pi / 6)
		bx := -dir.X*cos + dir.Y*sin
		by := -dir.X*sin - dir.Y*cos
		c.DrawLine(tip, Point{X: tip.X + bx*head, Y: tip.Y + by*head})
	}
}
