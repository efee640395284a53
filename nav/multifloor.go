package nav

import (
	"container/heap"

	"github.com/corning-incorporated/citam/geom"
)

// FloorPoint is a node key in the multi-floor composite graph: (x, y,
// floor) (spec §3).
type FloorPoint struct {
	Point geom.Point
	Floor int
}

type mfEdge struct {
	To     FloorPoint
	Weight float64
}

// MultiFloorGraph is the union of every floor's Graph plus vertical edges
// between stair-function spaces on adjacent floors (spec §3).
type MultiFloorGraph struct {
	floors map[int]*Graph
	extra  map[FloorPoint][]mfEdge
}

// NewMultiFloorGraph builds a MultiFloorGraph from one Graph per floor.
func NewMultiFloorGraph(floors map[int]*Graph) *MultiFloorGraph {
	return &MultiFloorGraph{floors: floors, extra: make(map[FloorPoint][]mfEdge)}
}

// AddVerticalEdge connects a stair point on floor a to the geometrically
// corresponding stair point on floor b (spec §3: "keyed by geometric
// correspondence"). The edge is undirected and given the supplied weight
// (the vertical travel cost, e.g. one flight of stairs).
func (m *MultiFloorGraph) AddVerticalEdge(pa geom.Point, a int, pb geom.Point, b int, weight float64) {
	fa := FloorPoint{Point: pa, Floor: a}
	fb := FloorPoint{Point: pb, Floor: b}
	m.extra[fa] = append(m.extra[fa], mfEdge{To: fb, Weight: weight})
	m.extra[fb] = append(m.extra[fb], mfEdge{To: fa, Weight: weight})
}

func (m *MultiFloorGraph) neighbors(fp FloorPoint) []mfEdge {
	var out []mfEdge
	if g, ok := m.floors[fp.Floor]; ok {
		for _, e := range g.Neighbors(fp.Point) {
			out = append(out, mfEdge{To: FloorPoint{Point: e.To, Floor: fp.Floor}, Weight: e.Weight})
		}
	}
	out = append(out, m.extra[fp]...)
	return out
}

func (m *MultiFloorGraph) hasNode(fp FloorPoint) bool {
	if g, ok := m.floors[fp.Floor]; ok && g.HasNode(fp.Point) {
		return true
	}
	_, ok := m.extra[fp]
	return ok
}

type mfItem struct {
	pos   FloorPoint
	cost  float64
	index int
}

type mfPriorityQueue []*mfItem

func (pq mfPriorityQueue) Len() int            { return len(pq) }
func (pq mfPriorityQueue) Less(i, j int) bool  { return pq[i].cost < pq[j].cost }
func (pq mfPriorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index, pq[j].index = i, j }
func (pq *mfPriorityQueue) Push(x interface{}) {
	it := x.(*mfItem)
	it.index = len(*pq)
	*pq = append(*pq, it)
}
func (pq *mfPriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return it
}

// ShortestRouteMultiFloor runs Dijkstra on the multi-floor composite graph
// (spec §4.4 `shortest_route_multifloor`). Every floor transition occurs
// through a vertical stair edge, never a direct teleport, because the only
// cross-floor arcs in the graph are the ones AddVerticalEdge installed.
func ShortestRouteMultiFloor(m *MultiFloorGraph, from geom.Point, fromFloor int, to geom.Point, toFloor int) []FloorPoint {
	start := FloorPoint{Point: from, Floor: fromFloor}
	goal := FloorPoint{Point: to, Floor: toFloor}
	if !m.hasNode(start) || !m.hasNode(goal) {
		return nil
	}
	if start == goal {
		return []FloorPoint{start}
	}

	dist := map[FloorPoint]float64{start: 0}
	prev := map[FloorPoint]FloorPoint{}
	visited := map[FloorPoint]bool{}

	pq := &mfPriorityQueue{{pos: start, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*mfItem)
		if visited[cur.pos] {
			continue
		}
		visited[cur.pos] = true
		if cur.pos == goal {
			break
		}
		for _, e := range m.neighbors(cur.pos) {
			if visited[e.To] {
				continue
			}
			nd := cur.cost + e.Weight
			if d, ok := dist[e.To]; !ok || nd < d {
				dist[e.To] = nd
				prev[e.To] = cur.pos
				heap.Push(pq, &mfItem{pos: e.To, cost: nd})
			}
		}
	}

	if !visited[goal] {
		return nil
	}

	var route []FloorPoint
	for p := goal; ; {
		route = append([]FloorPoint{p}, route...)
		if p == start {
			break
		}
		p = prev[p]
	}
	return route
}
