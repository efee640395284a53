package nav

import (
	"container/heap"

	"github.com/corning-incorporated/citam/geom"
)

// item is one entry in the open set, grounded on the teacher's Node
// (detour/node.go: Pos, Cost, Total) — CITAM keeps Cost-to-reach as the
// node's sort key but drops the polygon-ref/state bitfields that only make
// sense for a tiled navmesh.
type item struct {
	pos   geom.Point
	cost  float64
	index int
}

type priorityQueue []*item

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].cost < pq[j].cost }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index, pq[j].index = i, j }
func (pq *priorityQueue) Push(x interface{}) {
	it := x.(*item)
	it.index = len(*pq)
	*pq = append(*pq, it)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return it
}

// ShortestRoute returns the list of Points from from to to using Dijkstra
// on the graph (spec §4.4 `shortest_route`). Returns nil if unreachable.
func ShortestRoute(g *Graph, from, to geom.Point) []geom.Point {
	if !g.HasNode(from) || !g.HasNode(to) {
		return nil
	}
	if from == to {
		return []geom.Point{from}
	}

	dist := map[geom.Point]float64{from: 0}
	prev := map[geom.Point]geom.Point{}
	visited := map[geom.Point]bool{}

	pq := &priorityQueue{{pos: from, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*item)
		if visited[cur.pos] {
			continue
		}
		visited[cur.pos] = true
		if cur.pos == to {
			break
		}
		for _, e := range g.Neighbors(cur.pos) {
			if visited[e.To] {
				continue
			}
			nd := cur.cost + e.Weight
			if d, ok := dist[e.To]; !ok || nd < d {
				dist[e.To] = nd
				prev[e.To] = cur.pos
				heap.Push(pq, &item{pos: e.To, cost: nd})
			}
		}
	}

	if !visited[to] {
		return nil
	}

	var route []geom.Point
	for p := to; ; {
		route = append([]geom.Point{p}, route...)
		if p == from {
			break
		}
		p = prev[p]
	}
	return route
}

// PathWeight sums the Euclidean length of a route's edges, used by tests
// validating the routing guarantee in spec §4.4 ("path weight equals graph
// shortest path within numeric precision").
func PathWeight(route []geom.Point) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		total += route[i-1].Dist(route[i])
	}
	return total
}
