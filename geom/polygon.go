package geom

// Polygon is a closed sequence of vertices. By convention the first vertex
// is not repeated as the last.
type Polygon struct {
	Vertices []Point
}

// Segments returns the boundary segments of the polygon, wrapping the last
// vertex back to the first.
func (poly Polygon) Segments() []Segment {
	n := len(poly.Vertices)
	segs := make([]Segment, n)
	for i := 0; i < n; i++ {
		segs[i] = Segment{poly.Vertices[i], poly.Vertices[(i+1)%n]}
	}
	return segs
}

// BoundingBox is an axis-aligned rectangle, expressed as min/max corners.
type BoundingBox struct {
	Min, Max Point
}

// BoundsOf returns the bounding box of a polygon's vertices.
func BoundsOf(poly Polygon) BoundingBox {
	if len(poly.Vertices) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{Min: poly.Vertices[0], Max: poly.Vertices[0]}
	for _, v := range poly.Vertices[1:] {
		if v.X < bb.Min.X {
			bb.Min.X = v.X
		}
		if v.Y < bb.Min.Y {
			bb.Min.Y = v.Y
		}
		if v.X > bb.Max.X {
			bb.Max.X = v.X
		}
		if v.Y > bb.Max.Y {
			bb.Max.Y = v.Y
		}
	}
	return bb
}

// Union returns the bounding box enclosing both a and b.
func (a BoundingBox) Union(b BoundingBox) BoundingBox {
	out := a
	if b.Min.X < out.Min.X {
		out.Min.X = b.Min.X
	}
	if b.Min.Y < out.Min.Y {
		out.Min.Y = b.Min.Y
	}
	if b.Max.X > out.Max.X {
		out.Max.X = b.Max.X
	}
	if b.Max.Y > out.Max.Y {
		out.Max.Y = b.Max.Y
	}
	return out
}

// Center returns the midpoint of the bounding box.
func (bb BoundingBox) Center() Point {
	return Point{(bb.Min.X + bb.Max.X) / 2, (bb.Min.Y + bb.Max.Y) / 2}
}

// Contains reports whether p lies within the polygon using ray casting
// (spec §4.1). Points exactly on the boundary are treated as contained.
func Contains(poly Polygon, p Point) bool {
	n := len(poly.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := poly.Vertices[i], poly.Vertices[j]
		if onSegment(p, Segment{vi, vj}, DefaultEpsilon) {
			return true
		}
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xIntersect := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(p Point, s Segment, eps float64) bool {
	return PointToSegmentDistance(p, s) <= eps
}

// NonColinearVertexCount returns the number of vertices that are not
// colinear with both of their neighbors, used to validate the "≥3
// non-colinear vertices" invariant (spec §3).
func NonColinearVertexCount(poly Polygon) int {
	n := len(poly.Vertices)
	count := 0
	for i := 0; i < n; i++ {
		prev := poly.Vertices[(i-1+n)%n]
		cur := poly.Vertices[i]
		next := poly.Vertices[(i+1)%n]
		d1 := cur.Sub(prev)
		d2 := next.Sub(cur)
		if absCross(d1, d2) > DefaultEpsilon {
			count++
		}
	}
	return count
}

func absCross(a, b Point) float64 {
	c := a.Cross(b)
	if c < 0 {
		return -c
	}
	return c
}
