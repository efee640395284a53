// Package nav implements the per-floor and multi-floor navigation graphs,
// Dijkstra routing, traffic-policy application and route unrolling (spec
// §4.3-§4.4, C5). It keeps the teacher's "pool of nodes + binary heap"
// shape from detour/node.go and detour/nodequeue.go, but the graph itself
// is a plain weighted graph over geom.Point keys rather than a polygon
// mesh: CITAM's routing guarantee is an exact shortest path (spec §4.4),
// which plain Dijkstra over Euclidean weights gives directly.
package nav

import "github.com/corning-incorporated/citam/geom"

// EdgeID is a stable id assigned to a maximal straight chain of edges at
// build time (spec §4.4: "segments are stable ids assigned at build time
// to maximal straight chains"), used by ApplyTrafficPolicy to target a
// whole chain rather than one edge.
type EdgeID int

// Edge is one directed arc of the graph. Undirected edges are stored as a
// pair of opposing Edges so traffic policies can remove just one direction.
type Edge struct {
	To     geom.Point
	Weight float64
	Seg    EdgeID
}

// Graph is an undirected (by default) weighted graph whose nodes are
// Points: aisle center-line points, door midpoints, and junctions (spec
// §3). Edges are stored as an adjacency list keyed by node.
type Graph struct {
	adj map[geom.Point][]Edge
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[geom.Point][]Edge)}
}

// AddNode ensures p exists in the graph, even with no edges yet.
func (g *Graph) AddNode(p geom.Point) {
	if _, ok := g.adj[p]; !ok {
		g.adj[p] = nil
	}
}

// AddEdge adds an undirected edge between a and b with the given weight and
// stable segment id. If weight is zero, the Euclidean distance is used.
func (g *Graph) AddEdge(a, b geom.Point, weight float64, seg EdgeID) {
	if weight == 0 {
		weight = a.Dist(b)
	}
	g.AddNode(a)
	g.AddNode(b)
	g.adj[a] = append(g.adj[a], Edge{To: b, Weight: weight, Seg: seg})
	g.adj[b] = append(g.adj[b], Edge{To: a, Weight: weight, Seg: seg})
}

// RemoveDirectedEdge removes the single arc a->b (used by traffic policies
// to make an edge one-way; the opposing b->a arc is left intact).
func (g *Graph) RemoveDirectedEdge(a, b geom.Point) {
	edges := g.adj[a]
	out := edges[:0]
	for _, e := range edges {
		if e.To != b {
			out = append(out, e)
		}
	}
	g.adj[a] = out
}

// Neighbors returns the outgoing edges of p.
func (g *Graph) Neighbors(p geom.Point) []Edge { return g.adj[p] }

// Nodes returns every node currently in the graph.
func (g *Graph) Nodes() []geom.Point {
	nodes := make([]geom.Point, 0, len(g.adj))
	for p := range g.adj {
		nodes = append(nodes, p)
	}
	return nodes
}

// HasNode reports whether p is a node of the graph.
func (g *Graph) HasNode(p geom.Point) bool {
	_, ok := g.adj[p]
	return ok
}

// EdgesBySeg returns every (a,b) pair sharing the given stable segment id,
// used by ApplyTrafficPolicy to locate the chain a policy entry targets.
func (g *Graph) EdgesBySeg(seg EdgeID) []([2]geom.Point) {
	var out [][2]geom.Point
	seen := make(map[[2]geom.Point]bool)
	for a, edges := range g.adj {
		for _, e := range edges {
			if e.Seg != seg {
				continue
			}
			key := canonicalPair(a, e.To)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

func canonicalPair(a, b geom.Point) [2]geom.Point {
	if a.X < b.X || (a.X == b.X && a.Y < b.Y) {
		return [2]geom.Point{a, b}
	}
	return [2]geom.Point{b, a}
}

// HallwayGraph is the auxiliary adjacency graph of hallway spaces (spec
// §3): nodes are hallway Space ids; an edge means two hallway spaces are
// directly walkable-adjacent (share a node in the per-floor nav graph).
type HallwayGraph struct {
	adj map[int]map[int]bool
}

// NewHallwayGraph returns an empty HallwayGraph.
func NewHallwayGraph() *HallwayGraph {
	return &HallwayGraph{adj: make(map[int]map[int]bool)}
}

// AddEdge records that hallway spaces a and b are adjacent.
func (h *HallwayGraph) AddEdge(a, b int) {
	if a == b {
		return
	}
	if h.adj[a] == nil {
		h.adj[a] = make(map[int]bool)
	}
	if h.adj[b] == nil {
		h.adj[b] = make(map[int]bool)
	}
	h.adj[a][b] = true
	h.adj[b][a] = true
}

// HasEdge reports whether hallway spaces a and b are adjacent.
func (h *HallwayGraph) HasEdge(a, b int) bool {
	if h == nil {
		return false
	}
	return h.adj[a] != nil && h.adj[a][b]
}
