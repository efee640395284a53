package geom

import "math"

// Segment is a straight line between two endpoints. Walls, doors and aisle
// walls are all represented as Segments.
type Segment struct {
	A, B Point
}

// Seg is a small constructor to keep call sites terse.
func Seg(a, b Point) Segment { return Segment{A: a, B: b} }

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return s.A.Dist(s.B) }

// Direction returns the (non-normalized) direction vector B-A.
func (s Segment) Direction() Point { return s.B.Sub(s.A) }

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() Point { return s.A.Midpoint(s.B) }

// Parallel reports whether s and t are parallel within eps: the absolute
// cross product of their unit direction vectors is < eps (spec §4.1).
func Parallel(s, t Segment, eps float64) bool {
	d1, d2 := s.Direction(), t.Direction()
	// normalize direction vectors before taking the cross product so eps is
	// comparable across segments of very different lengths.
	l1, l2 := d1.Dist(Point{}), d2.Dist(Point{})
	if l1 == 0 || l2 == 0 {
		return false
	}
	cross := (d1.X/l1)*(d2.Y/l2) - (d1.Y/l1)*(d2.X/l2)
	return math.Abs(cross) < eps
}

// PointToSegmentDistance returns the perpendicular distance from p to the
// closest point on segment s (clamped to the segment's extent).
func PointToSegmentDistance(p Point, s Segment) float64 {
	return p.Dist(ClosestPointOnSegment(p, s))
}

// ClosestPointOnSegment returns the point on s closest to p.
func ClosestPointOnSegment(p Point, s Segment) Point {
	d := s.Direction()
	l2 := d.Dot(d)
	if l2 == 0 {
		return s.A
	}
	t := p.Sub(s.A).Dot(d) / l2
	t = Clamp(t, 0, 1)
	return s.A.Add(d.Scale(t))
}

// SegmentIntersection reports whether segments s and t intersect at a single
// point (i.e. are not parallel and cross within their extents), returning
// that point.
func SegmentIntersection(s, t Segment) (Point, bool) {
	r := s.Direction()
	q := t.Direction()
	rxq := r.Cross(q)
	if rxq == 0 {
		return Point{}, false // parallel or collinear
	}
	qmp := t.A.Sub(s.A)
	tt := qmp.Cross(q) / rxq
	uu := qmp.Cross(r) / rxq
	if tt < 0 || tt > 1 || uu < 0 || uu > 1 {
		return Point{}, false
	}
	return s.A.Add(r.Scale(tt)), true
}

// projectOnto returns the scalar projection of v onto the unit direction dir
// (assumed normalized), used by Overlap to reduce both segments to a 1-D
// interval on their shared line.
func projectOnto(v, dir Point) float64 {
	return v.Dot(dir)
}

// Overlap reports whether two collinear segments overlap: their projections
// onto the common line intersect over a length > eps (spec §4.1). s and t
// are assumed to already be parallel (or collinear); callers should check
// Parallel first when collinearity isn't otherwise known.
func Overlap(s, t Segment, eps float64) (Segment, bool) {
	dir := s.Direction()
	l := dir.Dist(Point{})
	if l == 0 {
		return Segment{}, false
	}
	dir = Point{dir.X / l, dir.Y / l}

	// perpendicular offset of t from s's line must be ~0 for true collinearity.
	perp := Point{-dir.Y, dir.X}
	offA := t.A.Sub(s.A).Dot(perp)
	offB := t.B.Sub(s.A).Dot(perp)
	if math.Abs(offA) > eps || math.Abs(offB) > eps {
		return Segment{}, false
	}

	s0, s1 := projectOnto(s.A.Sub(s.A), dir), projectOnto(s.B.Sub(s.A), dir)
	t0, t1 := projectOnto(t.A.Sub(s.A), dir), projectOnto(t.B.Sub(s.A), dir)
	if s0 > s1 {
		s0, s1 = s1, s0
	}
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	lo := math.Max(s0, t0)
	hi := math.Min(s1, t1)
	if hi-lo <= eps {
		return Segment{}, false
	}
	return Segment{s.A.Add(dir.Scale(lo)), s.A.Add(dir.Scale(hi))}, true
}

// Subtract removes the portion of s covered by any segment in covered
// (assumed collinear with s, e.g. doors cut out of a wall boundary segment),
// returning the remaining sub-segments. Used to derive walls = boundary
// minus doors (spec §4.2 step 3).
func Subtract(s Segment, covered []Segment, eps float64) []Segment {
	dir := s.Direction()
	l := dir.Dist(Point{})
	if l == 0 {
		return []Segment{s}
	}
	unit := Point{dir.X / l, dir.Y / l}

	type interval struct{ lo, hi float64 }
	var cuts []interval
	for _, c := range covered {
		ov, ok := Overlap(s, c, eps)
		if !ok {
			continue
		}
		lo := projectOnto(ov.A.Sub(s.A), unit)
		hi := projectOnto(ov.B.Sub(s.A), unit)
		if lo > hi {
			lo, hi = hi, lo
		}
		cuts = append(cuts, interval{lo, hi})
	}
	if len(cuts) == 0 {
		return []Segment{s}
	}
	for i := 0; i < len(cuts); i++ {
		for j := i + 1; j < len(cuts); j++ {
			if cuts[j].lo < cuts[i].lo {
				cuts[i], cuts[j] = cuts[j], cuts[i]
			}
		}
	}
	var out []Segment
	cursor := 0.0
	for _, c := range cuts {
		if c.lo-cursor > eps {
			out = append(out, Segment{s.A.Add(unit.Scale(cursor)), s.A.Add(unit.Scale(c.lo))})
		}
		if c.hi > cursor {
			cursor = c.hi
		}
	}
	if l-cursor > eps {
		out = append(out, Segment{s.A.Add(unit.Scale(cursor)), s.A.Add(unit.Scale(l))})
	}
	return out
}
