package nav

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/corning-incorporated/citam/geom"
)

// graphDoc is the stable on-disk representation of a Graph: nodes.json-
// style node list plus an edge list, so that loading then re-saving
// yields byte-equivalent output for the same input (spec §4.3 "Export/
// import ... idempotently").
type graphDoc struct {
	Nodes []geom.Point `json:"nodes"`
	Edges []edgeDoc    `json:"edges"`
}

type edgeDoc struct {
	A      int     `json:"a"` // index into Nodes
	B      int     `json:"b"` // index into Nodes
	Weight float64 `json:"weight"`
	Seg    EdgeID  `json:"segment_id"`
}

// Save writes the graph to w as routes.json (spec §6).
func (g *Graph) Save(w io.Writer) error {
	doc := toDoc(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func toDoc(g *Graph) graphDoc {
	nodes := g.Nodes()
	index := make(map[geom.Point]int, len(nodes))
	// deterministic node order: sort by (x,y) so Save/Load round-trips are
	// byte-identical regardless of map iteration order.
	sortPoints(nodes)
	for i, p := range nodes {
		index[p] = i
	}

	var doc graphDoc
	doc.Nodes = nodes
	seen := make(map[[2]int]bool)
	for _, a := range nodes {
		for _, e := range g.Neighbors(a) {
			ia, ib := index[a], index[e.To]
			key := [2]int{ia, ib}
			if ia > ib {
				key = [2]int{ib, ia}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			doc.Edges = append(doc.Edges, edgeDoc{A: key[0], B: key[1], Weight: e.Weight, Seg: e.Seg})
		}
	}
	return doc
}

func sortPoints(pts []geom.Point) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && less(pts[j], pts[j-1]); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}

func less(a, b geom.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// LoadGraph reads a graph previously written by Save.
func LoadGraph(r io.Reader) (*Graph, error) {
	var doc graphDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	g := NewGraph()
	for _, p := range doc.Nodes {
		g.AddNode(p)
	}
	for _, e := range doc.Edges {
		g.AddEdge(doc.Nodes[e.A], doc.Nodes[e.B], e.Weight, e.Seg)
	}
	return g, nil
}

// hallwayDoc is the stable on-disk representation of a HallwayGraph
// (hallways_graph.json, spec §6).
type hallwayDoc struct {
	Edges [][2]int `json:"edges"`
}

// Save writes the hallway graph to w as hallways_graph.json.
func (h *HallwayGraph) Save(w io.Writer) error {
	var doc hallwayDoc
	seen := make(map[[2]int]bool)
	for a, nbrs := range h.adj {
		for b := range nbrs {
			key := [2]int{a, b}
			if a > b {
				key = [2]int{b, a}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			doc.Edges = append(doc.Edges, key)
		}
	}
	sort.Slice(doc.Edges, func(i, j int) bool {
		if doc.Edges[i][0] != doc.Edges[j][0] {
			return doc.Edges[i][0] < doc.Edges[j][0]
		}
		return doc.Edges[i][1] < doc.Edges[j][1]
	})
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// LoadHallwayGraph reads a hallway graph previously written by Save.
func LoadHallwayGraph(r io.Reader) (*HallwayGraph, error) {
	var doc hallwayDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	h := NewHallwayGraph()
	for _, e := range doc.Edges {
		h.AddEdge(e[0], e[1])
	}
	return h, nil
}
