// Package geom implements the geometry kernel: points, segments, polygons
// and the predicates the rest of CITAM builds on (parallelism, overlap,
// containment, bounding boxes).
package geom

import "math"

// DefaultEpsilon is the default numeric tolerance used for parallelism and
// overlap tests, expressed in drawing units (spec: 1e-3).
const DefaultEpsilon = 1e-3

// Point is a 2-D coordinate. It is comparable and therefore usable as a map
// key, which CITAM relies on for contact-location counting and as
// navigation-graph node identity.
type Point struct {
	X, Y float64
}

// Pt is a small constructor to keep call sites terse.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z-component of the 3-D cross product of p and q, treated
// as vectors from the origin.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Dist2 returns the squared Euclidean distance between p and q, avoiding a
// sqrt when only relative distances matter.
func (p Point) Dist2(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{(p.X + q.X) / 2.0, (p.Y + q.Y) / 2.0}
}

// Rotate returns p rotated by angle radians around the origin.
func (p Point) Rotate(angle float64) Point {
	s, c := math.Sincos(angle)
	return Point{p.X*c - p.Y*s, p.X*s + p.Y*c}
}

// Translate returns p translated by (dx, dy).
func (p Point) Translate(dx, dy float64) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Clamp mirrors the teacher's f32 Clamp helper (vendored gogeo/f32): bound a
// to [low, high].
func Clamp(a, low, high float64) float64 {
	if a < low {
		return low
	}
	if a > high {
		return high
	}
	return a
}
