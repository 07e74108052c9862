// Package path plans human-looking cursor trajectories between two screen
// points.
package path

import (
	"image"
	"math"
	"math/rand/v2"
)

// Planner produces waypoint sequences approximating human mouse movement
// along a cubic Bézier curve whose control points are pushed off the
// straight line by a bounded random offset. Plans draw from the
// process-wide random source and are not reproducible across runs.
type Planner struct {
	// Deviation is the maximum perpendicular offset, in pixels, applied
	// to the curve's control points.
	Deviation int

	// Speed scales waypoint density. Lower values produce fewer, wider
	// steps and therefore faster perceived movement.
	Speed int
}

// NewPlanner creates a planner. Speed values below 1 are clamped to 1 and
// negative deviations to 0.
func NewPlanner(deviation, speed int) *Planner {
	if deviation < 0 {
		deviation = 0
	}
	if speed < 1 {
		speed = 1
	}
	return &Planner{Deviation: deviation, Speed: speed}
}

// Plan returns the waypoints leading from from to to. The sequence always
// contains at least one point, waypoints are strictly ordered with
// consecutive duplicates collapsed, and the final waypoint is exactly to.
func (p *Planner) Plan(from, to image.Point) []image.Point {
	dx := float64(to.X - from.X)
	dy := float64(to.Y - from.Y)
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return []image.Point{to}
	}

	// Perpendicular unit vector, used to push control points off the line.
	px, py := -dy/dist, dx/dist

	c1 := p.controlPoint(from, to, 1.0/3.0, px, py)
	c2 := p.controlPoint(from, to, 2.0/3.0, px, py)

	steps := p.waypointCount(dist)
	points := make([]image.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := cubicBezier(t, pointF(from), c1, c2, pointF(to))
		wp := image.Pt(int(math.Round(x)), int(math.Round(y)))
		if len(points) > 0 && wp == points[len(points)-1] {
			continue
		}
		points = append(points, wp)
	}

	if points[len(points)-1] != to {
		points = append(points, to)
	}
	return points
}

type fpoint struct {
	x, y float64
}

func pointF(p image.Point) fpoint {
	return fpoint{x: float64(p.X), y: float64(p.Y)}
}

// controlPoint places a Bézier control point at fraction t along the
// straight line, offset perpendicular by a random magnitude within
// [Deviation/2, Deviation] on a random side. The Bézier basis weights
// interior offsets below the control magnitude and tapers them to zero at
// the endpoints, so the curve converges exactly on the target.
func (p *Planner) controlPoint(from, to image.Point, t, px, py float64) fpoint {
	base := fpoint{
		x: float64(from.X) + (float64(to.X)-float64(from.X))*t,
		y: float64(from.Y) + (float64(to.Y)-float64(from.Y))*t,
	}
	if p.Deviation <= 0 {
		return base
	}

	lo := float64(p.Deviation) / 2
	hi := float64(p.Deviation)
	off := lo + rand.Float64()*(hi-lo)
	if rand.IntN(2) == 0 {
		off = -off
	}
	return fpoint{x: base.x + px*off, y: base.y + py*off}
}

// waypointCount scales with travel distance and the speed factor.
func (p *Planner) waypointCount(dist float64) int {
	n := int(math.Round(math.Sqrt(dist) * float64(p.Speed)))
	if n < 2 {
		n = 2
	}
	return n
}

// cubicBezier evaluates the curve at t in [0,1].
func cubicBezier(t float64, p0, p1, p2, p3 fpoint) (float64, float64) {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return b0*p0.x + b1*p1.x + b2*p2.x + b3*p3.x,
		b0*p0.y + b1*p1.y + b2*p2.y + b3*p3.y
}
