package nav

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corning-incorporated/citam/geom"
)

func lineGraph() *Graph {
	g := NewGraph()
	g.AddEdge(geom.Pt(0, 0), geom.Pt(10, 0), 0, 1)
	g.AddEdge(geom.Pt(10, 0), geom.Pt(20, 0), 0, 2)
	g.AddEdge(geom.Pt(10, 0), geom.Pt(10, 10), 0, 3)
	return g
}

func TestShortestRoute(t *testing.T) {
	g := lineGraph()
	route := ShortestRoute(g, geom.Pt(0, 0), geom.Pt(20, 0))
	require.NotNil(t, route)
	assert.InDelta(t, 20.0, PathWeight(route), 1e-9)
}

func TestShortestRouteUnreachable(t *testing.T) {
	g := lineGraph()
	route := ShortestRoute(g, geom.Pt(0, 0), geom.Pt(999, 999))
	assert.Nil(t, route)
}

func TestApplyTrafficPolicyMakesOneWay(t *testing.T) {
	g := lineGraph()
	ApplyTrafficPolicy(g, []TrafficPolicyEntry{{Floor: 0, SegmentID: 1, Direction: 1}})
	// forward (0,0)->(10,0) must still exist
	route := ShortestRoute(g, geom.Pt(0, 0), geom.Pt(10, 0))
	assert.NotNil(t, route)
	// reverse (10,0)->(0,0) must be gone
	route = ShortestRoute(g, geom.Pt(10, 0), geom.Pt(0, 0))
	assert.Nil(t, route)
}

func TestUnrollRoute(t *testing.T) {
	route := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0)}
	out := UnrollRoute(route, 2.5)
	// 0,2.5,5,7.5,10
	assert.Len(t, out, 5)
	assert.Equal(t, geom.Pt(10, 0), out[len(out)-1])
}

func TestRemoveUnnecessaryCoords(t *testing.T) {
	route := []FloorCoord{
		{geom.Pt(0, 0), 0}, {geom.Pt(10, 0), 0}, {geom.Pt(15, 0), 0}, {geom.Pt(15, 20), 0},
	}
	out := RemoveUnnecessaryCoords(route)
	assert.Len(t, out, 3)
}

func TestRemoveUnnecessaryCoordsPreservesFloorChange(t *testing.T) {
	route := []FloorCoord{
		{geom.Pt(0, 0), 0}, {geom.Pt(5, 0), 0}, {geom.Pt(10, 0), 1}, {geom.Pt(15, 0), 1},
	}
	out := RemoveUnnecessaryCoords(route)
	// (5,0) is colinear but (10,0) is a floor change and must be kept
	found := false
	for _, c := range out {
		if c.Point == geom.Pt(10, 0) && c.Floor == 1 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMultiFloorRouteCrossesStairEdge(t *testing.T) {
	g0 := NewGraph()
	g0.AddEdge(geom.Pt(0, 0), geom.Pt(5, 5), 0, 1)
	g1 := NewGraph()
	g1.AddEdge(geom.Pt(5, 5), geom.Pt(9, 9), 0, 1)

	m := NewMultiFloorGraph(map[int]*Graph{0: g0, 1: g1})
	m.AddVerticalEdge(geom.Pt(5, 5), 0, geom.Pt(5, 5), 1, 3)

	route := ShortestRouteMultiFloor(m, geom.Pt(0, 0), 0, geom.Pt(9, 9), 1)
	require.NotNil(t, route)

	crossings := 0
	for i := 1; i < len(route); i++ {
		if route[i-1].Floor != route[i].Floor {
			crossings++
		}
	}
	assert.Equal(t, 1, crossings)
}

func TestGraphSaveLoadRoundTrip(t *testing.T) {
	g := lineGraph()
	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf))

	loaded, err := LoadGraph(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	var buf2 bytes.Buffer
	require.NoError(t, loaded.Save(&buf2))
	assert.Equal(t, buf.String(), buf2.String())
}

func TestHallwayGraph(t *testing.T) {
	h := NewHallwayGraph()
	h.AddEdge(1, 2)
	assert.True(t, h.HasEdge(1, 2))
	assert.True(t, h.HasEdge(2, 1))
	assert.False(t, h.HasEdge(1, 3))
}

func TestHallwayGraphSaveLoadRoundTrip(t *testing.T) {
	h := NewHallwayGraph()
	h.AddEdge(3, 1)
	h.AddEdge(2, 3)
	h.AddEdge(1, 4)

	var buf bytes.Buffer
	require.NoError(t, h.Save(&buf))

	loaded, err := LoadHallwayGraph(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	var buf2 bytes.Buffer
	require.NoError(t, loaded.Save(&buf2))
	assert.Equal(t, buf.String(), buf2.String())
}
