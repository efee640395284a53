package facility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/ingest"
	"github.com/corning-incorporated/citam/nav"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{Vertices: []geom.Point{
		geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1),
	}}
}

// buildOneFloor returns a floorplan with an entrance at each end of a
// hallway and an office off the hallway near each end, plus the nav graph
// connecting them all, so ChooseBestEntrance has a real routed distance to
// minimize.
func buildOneFloor(t *testing.T) (*floorplan.Floorplan, *nav.Graph) {
	t.Helper()
	spaces := []ingest.SpaceInput{
		{UniqueName: "entrance-near", Function: floorplan.FunctionEntrance, Boundary: square(-10, 0, 0, 4)},
		{UniqueName: "entrance-far", Function: floorplan.FunctionEntrance, Boundary: square(40, 0, 50, 4)},
		{UniqueName: "hallway-1", Function: floorplan.FunctionAisle, Boundary: square(0, 0, 40, 4)},
		{UniqueName: "office-near", Function: floorplan.FunctionOffice, Boundary: square(0, 4, 10, 14)},
		{UniqueName: "office-far", Function: floorplan.FunctionOffice, Boundary: square(30, 4, 40, 14)},
	}
	doors := []ingest.DoorInput{
		{Segment: geom.Seg(geom.Pt(0, 1), geom.Pt(0, 3))},   // entrance-near <-> hallway
		{Segment: geom.Seg(geom.Pt(40, 1), geom.Pt(40, 3))}, // entrance-far <-> hallway
		{Segment: geom.Seg(geom.Pt(4, 4), geom.Pt(6, 4))},   // office-near <-> hallway
		{Segment: geom.Seg(geom.Pt(34, 4), geom.Pt(36, 4))}, // office-far <-> hallway
	}
	ig := ingest.New(geom.DefaultEpsilon, nil)
	fp, _, err := ig.Ingest(spaces, doors)
	require.NoError(t, err)
	require.Len(t, fp.Aisles, 1)

	g := nav.NewGraph()
	cl, width := fp.Aisles[0].CenterLine(fp)
	_ = width
	g.AddEdge(cl.A, cl.B, 0, 1)
	for _, d := range fp.Doors {
		mid := d.Segment.Midpoint()
		// connect each door to the nearest endpoint of the hallway center-line.
		nearest := cl.A
		if mid.Dist(cl.B) < mid.Dist(cl.A) {
			nearest = cl.B
		}
		g.AddEdge(mid, nearest, 0, 2)
	}
	return fp, g
}

func TestNewClassifiesSpacesByFunction(t *testing.T) {
	fp, _ := buildOneFloor(t)
	entranceDoors := []floorplan.DoorID{fp.Doors[0].ID, fp.Doors[1].ID}
	fac := New(map[int]*floorplan.Floorplan{0: fp}, nil, nil, map[int][]floorplan.DoorID{0: entranceDoors})

	assert.Len(t, fac.Offices[0], 2)
	assert.Len(t, fac.Entrances, 2)
}

func TestChooseBestEntrancePrefersCloserOffice(t *testing.T) {
	fp, g := buildOneFloor(t)
	nearDoor, farDoor := fp.Doors[0].ID, fp.Doors[1].ID

	mf := nav.NewMultiFloorGraph(map[int]*nav.Graph{0: g})
	fac := New(map[int]*floorplan.Floorplan{0: fp}, mf, nil, map[int][]floorplan.DoorID{0: {nearDoor, farDoor}})

	nearOffice, _ := fp.SpaceByName("office-near")
	best, ok := fac.ChooseBestEntrance(0, nearOffice.ID)
	require.True(t, ok)
	assert.Equal(t, nearDoor, best.Door)

	farOffice, _ := fp.SpaceByName("office-far")
	best, ok = fac.ChooseBestEntrance(0, farOffice.ID)
	require.True(t, ok)
	assert.Equal(t, farDoor, best.Door)
}

func TestDrawAndReleaseOfficePool(t *testing.T) {
	fp, _ := buildOneFloor(t)
	fac := New(map[int]*floorplan.Floorplan{0: fp}, nil, nil, nil)

	id1, ok := fac.DrawOffice(0)
	require.True(t, ok)
	id2, ok := fac.DrawOffice(0)
	require.True(t, ok)
	assert.NotEqual(t, id1, id2)

	_, ok = fac.DrawOffice(0)
	assert.False(t, ok)

	fac.ReleaseOffice(0, id1)
	_, ok = fac.DrawOffice(0)
	assert.True(t, ok)
}
