package server

import (
	"github.com/tomz197/fruitarchery/internal/config"
	"github.com/tomz197/fruitarchery/internal/game"
	"github.com/tomz197/fruitarchery/internal/object"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// detector finds projectile contacts after each tick and reports them to the
// world. Targets go into a spatial grid; boundaries are tested directly.
type detector struct {
	grid    *physics.SpatialGrid
	targets []*object.Target
}

// newDetector sizes the grid so that any overlapping arrow/fruit pair lies in
// neighboring cells.
func newDetector(s config.Settings) *detector {
	reach := s.Arrow.Radius
	for _, f := range s.Fruits {
		if f != nil {
			reach = max(reach, f.Radius+s.Arrow.Radius)
		}
	}
	cell := max(2*reach, 1)
	b := s.World
	return &detector{
		grid: physics.NewSpatialGrid(b.MinX, b.GroundY, b.MaxX, b.MaxY, cell),
	}
}

// detect reports every contact of the world's live projectiles and returns how
// many were delivered.
func (d *detector) detect(w *game.World) int {
	d.targets = append(d.targets[:0], w.Targets()...)
	populateGrid(d.targets, d.grid)

	delivered := 0
	for _, p := range w.Projectiles() {
		if checkBoundaries(w, p) {
			delivered++
			continue
		}
		delivered += checkTargets(w, p, d.targets, d.grid)
	}
	clear(d.targets)
	return delivered
}

// populateGrid clears and re-inserts all targets into the grid.
func populateGrid(targets []*object.Target, grid *physics.SpatialGrid) {
	grid.Clear()
	for i, t := range targets {
		grid.Insert(t.Position, i)
	}
}

// checkBoundaries reports ground and wall contact. It returns true when the
// projectile touched one.
func checkBoundaries(w *game.World, p *object.Projectile) bool {
	if g := w.Ground(); g.Contains(p.Position, p.Radius) {
		return w.ReportOverlap(p.ID(), g.ID())
	}
	for _, b := range w.Walls() {
		if b.Contains(p.Position, p.Radius) {
			return w.ReportOverlap(p.ID(), b.ID())
		}
	}
	return false
}

// checkTargets reports overlaps between p and nearby targets, stopping once the
// projectile is spent.
func checkTargets(w *game.World, p *object.Projectile, targets []*object.Target, grid *physics.SpatialGrid) int {
	delivered := 0
	grid.QueryAround(p.Position, func(i int) bool {
		t := targets[i]
		if t.IsDestroyed() || p.HasHit(t.ID()) {
			return false
		}
		if physics.SpheresOverlap(p.Position, p.Radius, t.Position, t.Radius) {
			if w.ReportOverlap(p.ID(), t.ID()) {
				delivered++
			}
			return p.IsDestroyed()
		}
		return false
	})
	return delivered
}
