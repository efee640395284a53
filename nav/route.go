package nav

import "github.com/corning-incorporated/citam/geom"

// TrafficPolicyEntry restricts one stable segment to a single direction
// (spec §4.4).
type TrafficPolicyEntry struct {
	Floor     int
	SegmentID EdgeID
	Direction int // -1 or +1
}

// ApplyTrafficPolicy removes, for each policy entry, every edge running
// opposite to Direction along the chain identified by SegmentID (spec
// §4.4). Each edge's two endpoints are ordered canonically (by X then Y,
// see canonicalPair); Direction +1 keeps the arc running from the
// lexicographically smaller endpoint towards the larger one, -1 keeps the
// reverse. Build code should choose node coordinates so this canonical
// order matches the geometric direction a traffic policy entry intends to
// allow.
func ApplyTrafficPolicy(g *Graph, entries []TrafficPolicyEntry) {
	for _, e := range entries {
		pairs := g.EdgesBySeg(e.SegmentID)
		for _, pr := range pairs {
			a, b := pr[0], pr[1]
			if e.Direction >= 0 {
				g.RemoveDirectedEdge(b, a)
			} else {
				g.RemoveDirectedEdge(a, b)
			}
		}
	}
}

// UnrollRoute produces a dense sequence of points at intervals of stepSize
// along the polyline formed by route, so that each entry is one timestep
// of motion (spec §4.4 `unroll_route`). The final point of route is always
// included even if it falls short of a full step.
func UnrollRoute(route []geom.Point, stepSize float64) []geom.Point {
	if len(route) == 0 || stepSize <= 0 {
		return nil
	}
	out := []geom.Point{route[0]}
	carry := 0.0
	for i := 1; i < len(route); i++ {
		a, b := route[i-1], route[i]
		segLen := a.Dist(b)
		if segLen == 0 {
			continue
		}
		dir := geom.Point{X: (b.X - a.X) / segLen, Y: (b.Y - a.Y) / segLen}
		pos := carry
		for pos+stepSize <= segLen {
			pos += stepSize
			out = append(out, geom.Point{X: a.X + dir.X*pos, Y: a.Y + dir.Y*pos})
		}
		carry = pos - segLen // remaining offset carried into next segment, negative
	}
	last := route[len(route)-1]
	if out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

// FloorCoord is one route entry for RemoveUnnecessaryCoords: a Point plus
// its floor, so floor-change boundaries are never collapsed away (spec
// §4.4).
type FloorCoord struct {
	Point geom.Point
	Floor int
}

// RemoveUnnecessaryCoords collapses runs of 3+ colinear points sharing the
// same floor down to their endpoints.
func RemoveUnnecessaryCoords(route []FloorCoord) []FloorCoord {
	if len(route) < 3 {
		return append([]FloorCoord(nil), route...)
	}
	out := []FloorCoord{route[0]}
	for i := 1; i < len(route)-1; i++ {
		prev, cur, next := route[i-1], route[i], route[i+1]
		if cur.Floor != prev.Floor || cur.Floor != next.Floor {
			out = append(out, cur)
			continue
		}
		d1 := cur.Point.Sub(prev.Point)
		d2 := next.Point.Sub(cur.Point)
		if absCross(d1, d2) > geom.DefaultEpsilon {
			out = append(out, cur)
		}
	}
	out = append(out, route[len(route)-1])
	return out
}

func absCross(a, b geom.Point) float64 {
	c := a.Cross(b)
	if c < 0 {
		return -c
	}
	return c
}
