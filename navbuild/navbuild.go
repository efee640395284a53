// Package navbuild constructs one floor's navigation graph and hallway
// graph from its Floorplan's aisles and doors (spec §4.3, C4). It keeps
// the teacher's Recast build-pipeline shape: a sequence of named passes
// over one working Builder (Discretize -> ConnectDoors -> Simplify ->
// Sanitize -> BuildHallwayGraph), mirroring rasterize -> filter -> build
// regions -> build contours -> build poly mesh.
package navbuild

import (
	"math"

	"github.com/aurelien-rainone/assertgo"

	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/nav"
)

// Options controls graph density (spec §4.3 step 1).
type Options struct {
	// NavStep is the discretization distance along an aisle center-line.
	// If zero, it defaults to each aisle's width divided by NavStepDivisor.
	NavStep float64
	// NavStepDivisor is the integer divisor used to derive NavStep from an
	// aisle's width when NavStep is zero (spec: "nav step ... default equal
	// to the aisle width divided by an integer >= 1").
	NavStepDivisor int
	// AddAllNavPoints densifies the graph with every discretized point
	// along a center-line; when false, only endpoint and intersection
	// nodes are kept (spec default true).
	AddAllNavPoints bool
}

// DefaultOptions returns the spec's defaults.
func DefaultOptions() Options {
	return Options{NavStepDivisor: 1, AddAllNavPoints: true}
}

// Builder constructs a per-floor nav graph and hallway graph.
type Builder struct {
	opts    Options
	fp      *floorplan.Floorplan
	g       *nav.Graph
	nextSeg nav.EdgeID
}

// NewBuilder returns a Builder for fp with the given options.
func NewBuilder(fp *floorplan.Floorplan, opts Options) *Builder {
	if opts.NavStepDivisor <= 0 {
		opts.NavStepDivisor = 1
	}
	return &Builder{opts: opts, fp: fp, g: nav.NewGraph()}
}

// Build runs every pass and returns the finished per-floor graph and
// hallway graph.
func (b *Builder) Build() (*nav.Graph, *nav.HallwayGraph) {
	centerlines := b.discretizeAisles()
	assert.True(len(centerlines) <= len(b.fp.Aisles), "at most one center-line per aisle")
	b.connectDoors(centerlines)
	b.simplify()
	b.sanitize()
	hallways := b.buildHallwayGraph(centerlines)
	return b.g, hallways
}

type centerline struct {
	space floorplan.SpaceID
	line  geom.Segment
	seg   nav.EdgeID
	// nodes holds every discretized point along line, in order, so
	// connectDoors can find the true nearest network node rather than just
	// the line's two endpoints.
	nodes []geom.Point
}

// discretizeAisles computes each aisle's center-line, discretizes it into
// nodes at the configured nav step, connects consecutive nodes, and adds
// cross-segments where two center-lines intersect (spec §4.3 steps 1-2).
func (b *Builder) discretizeAisles() []centerline {
	var lines []centerline
	for _, aisle := range b.fp.Aisles {
		line, width := aisle.CenterLine(b.fp)
		if line.Length() == 0 {
			continue
		}
		step := b.opts.NavStep
		if step <= 0 {
			step = width / float64(b.opts.NavStepDivisor)
		}
		if step <= 0 {
			step = line.Length()
		}
		seg := b.nextSeg
		b.nextSeg++

		nodes := discretize(line, step, b.opts.AddAllNavPoints)
		for i := 1; i < len(nodes); i++ {
			b.g.AddEdge(nodes[i-1], nodes[i], 0, seg)
		}
		lines = append(lines, centerline{space: aisle.SpaceID, line: line, seg: seg, nodes: nodes})
	}

	// cross-segments: two aisle center-lines that geometrically intersect
	// get a node + edge at their intersection (spec §4.3 step 2).
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			p, ok := geom.SegmentIntersection(lines[i].line, lines[j].line)
			if !ok {
				continue
			}
			b.g.AddNode(p)
			b.g.AddEdge(p, lines[i].line.A, 0, lines[i].seg)
			b.g.AddEdge(p, lines[i].line.B, 0, lines[i].seg)
			b.g.AddEdge(p, lines[j].line.A, 0, lines[j].seg)
			b.g.AddEdge(p, lines[j].line.B, 0, lines[j].seg)
		}
	}
	return lines
}

// discretize returns evenly spaced points along seg every step units,
// always including both endpoints. When addAll is false, only the two
// endpoints are returned.
func discretize(seg geom.Segment, step float64, addAll bool) []geom.Point {
	if !addAll || step <= 0 {
		return []geom.Point{seg.A, seg.B}
	}
	length := seg.Length()
	n := int(math.Floor(length / step))
	dir := geom.Point{X: (seg.B.X - seg.A.X) / length, Y: (seg.B.Y - seg.A.Y) / length}
	pts := []geom.Point{seg.A}
	for i := 1; i <= n; i++ {
		d := float64(i) * step
		if d >= length {
			break
		}
		pts = append(pts, geom.Point{X: seg.A.X + dir.X*d, Y: seg.A.Y + dir.Y*d})
	}
	pts = append(pts, seg.B)
	return pts
}

// connectDoors adds a node at each door's midpoint and connects it to the
// nearest node of each adjoining space's aisle network (spec §4.3 step 3).
func (b *Builder) connectDoors(lines []centerline) {
	for _, door := range b.fp.Doors {
		mid := door.Segment.Midpoint()
		b.g.AddNode(mid)
		for _, sid := range door.SpaceIDs {
			nearest, ok := b.nearestAisleNode(sid, mid, lines)
			if !ok {
				continue
			}
			b.g.AddEdge(mid, nearest, 0, b.nextSeg)
			b.nextSeg++
		}
	}
}

func (b *Builder) nearestAisleNode(space floorplan.SpaceID, p geom.Point, lines []centerline) (geom.Point, bool) {
	var best geom.Point
	bestDist := math.MaxFloat64
	found := false
	for _, cl := range lines {
		if cl.space != space {
			continue
		}
		for _, cand := range cl.nodes {
			d := cand.Dist(p)
			if d < bestDist {
				bestDist = d
				best = cand
				found = true
			}
		}
	}
	return best, found
}

// simplify contracts chains of degree-2 nodes into straight edges,
// retaining the chain's actual cumulative length as the new edge's weight
// (spec §4.3 step 4).
func (b *Builder) simplify() {
	changed := true
	for changed {
		changed = false
		for _, n := range b.g.Nodes() {
			edges := b.g.Neighbors(n)
			if len(edges) != 2 {
				continue
			}
			a, c := edges[0], edges[1]
			if a.To == c.To {
				continue // self-loop through n, leave alone
			}
			newWeight := a.Weight + c.Weight
			b.g.RemoveDirectedEdge(n, a.To)
			b.g.RemoveDirectedEdge(a.To, n)
			b.g.RemoveDirectedEdge(n, c.To)
			b.g.RemoveDirectedEdge(c.To, n)
			b.g.AddEdge(a.To, c.To, newWeight, a.Seg)
			changed = true
		}
	}
}

// sanitize re-splits any edge crossed by a special wall, so agents can't
// traverse through a newly added internal wall (spec §4.3 step 5).
func (b *Builder) sanitize() {
	if len(b.fp.SpecialWalls) == 0 {
		return
	}
	for _, n := range b.g.Nodes() {
		for _, e := range append([]nav.Edge(nil), b.g.Neighbors(n)...) {
			edgeSeg := geom.Seg(n, e.To)
			for _, wall := range b.fp.SpecialWalls {
				split, ok := geom.SegmentIntersection(edgeSeg, wall)
				if !ok {
					continue
				}
				b.g.RemoveDirectedEdge(n, e.To)
				b.g.RemoveDirectedEdge(e.To, n)
				b.g.AddNode(split)
				// both halves are removed from the walkable graph: the
				// special wall blocks passage at the split point.
				break
			}
		}
	}
}

// buildHallwayGraph connects every pair of hallway spaces whose
// center-lines share a node in the nav graph (spec §4.3 step 6).
func (b *Builder) buildHallwayGraph(lines []centerline) *nav.HallwayGraph {
	h := nav.NewHallwayGraph()
	byNode := make(map[geom.Point][]floorplan.SpaceID)
	for _, cl := range lines {
		for _, n := range cl.nodes {
			byNode[n] = append(byNode[n], cl.space)
		}
	}
	for _, spaces := range byNode {
		for i := 0; i < len(spaces); i++ {
			for j := i + 1; j < len(spaces); j++ {
				h.AddEdge(int(spaces[i]), int(spaces[j]))
			}
		}
	}
	return h
}
