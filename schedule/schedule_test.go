package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corning-incorporated/citam/agent"
	"github.com/corning-incorporated/citam/config"
	"github.com/corning-incorporated/citam/facility"
	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/ingest"
	"github.com/corning-incorporated/citam/meeting"
	"github.com/corning-incorporated/citam/nav"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{Vertices: []geom.Point{
		geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1),
	}}
}

// buildFacility assembles a one-floor facility with an entrance, a
// hallway, two offices, a restroom and a cafeteria, fully routable.
func buildFacility(t *testing.T) *facility.Facility {
	t.Helper()
	spaces := []ingest.SpaceInput{
		{UniqueName: "entrance-1", Function: floorplan.FunctionEntrance, Boundary: square(-10, 0, 0, 4)},
		{UniqueName: "hallway-1", Function: floorplan.FunctionAisle, Boundary: square(0, 0, 40, 4)},
		{UniqueName: "office-1", Function: floorplan.FunctionOffice, Boundary: square(0, 4, 10, 14)},
		{UniqueName: "office-2", Function: floorplan.FunctionOffice, Boundary: square(10, 4, 20, 14)},
		{UniqueName: "restroom-1", Function: floorplan.FunctionRestroom, Boundary: square(20, 4, 25, 14)},
		{UniqueName: "cafe-1", Function: floorplan.FunctionCafeteria, Boundary: square(25, 4, 35, 14)},
	}
	doors := []ingest.DoorInput{
		{Segment: geom.Seg(geom.Pt(0, 1), geom.Pt(0, 3))},
		{Segment: geom.Seg(geom.Pt(4, 4), geom.Pt(6, 4))},
		{Segment: geom.Seg(geom.Pt(14, 4), geom.Pt(16, 4))},
		{Segment: geom.Seg(geom.Pt(22, 4), geom.Pt(24, 4))},
		{Segment: geom.Seg(geom.Pt(28, 4), geom.Pt(30, 4))},
	}
	ig := ingest.New(geom.DefaultEpsilon, nil)
	fp, _, err := ig.Ingest(spaces, doors)
	require.NoError(t, err)
	require.Len(t, fp.Aisles, 1)

	g := nav.NewGraph()
	cl, _ := fp.Aisles[0].CenterLine(fp)
	g.AddEdge(cl.A, cl.B, 0, 1)
	for _, d := range fp.Doors {
		mid := d.Segment.Midpoint()
		nearest := cl.A
		if mid.Dist(cl.B) < mid.Dist(cl.A) {
			nearest = cl.B
		}
		g.AddEdge(mid, nearest, 0, 2)
	}

	mf := nav.NewMultiFloorGraph(map[int]*nav.Graph{0: g})
	entranceDoor := fp.Doors[0].ID
	return facility.New(map[int]*floorplan.Floorplan{0: fp}, mf, nil, map[int][]floorplan.DoorID{0: {entranceDoor}})
}

func TestBuildOneProducesValidSchedule(t *testing.T) {
	fac := buildFacility(t)
	b := NewBuilder(1, smallIncrementRules(), fac, fac.Graph, 3, 1000, 50, nil)

	ag := agent.NewAgent(1)
	err := b.BuildOne(ag, 0, 200, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, ag.Schedule.ExitTime, ag.Schedule.StartTime)
	assert.NotEmpty(t, ag.Schedule.Itinerary)
	assert.GreaterOrEqual(t, len(ag.Schedule.Itinerary), ag.Schedule.ExitTime-ag.Schedule.StartTime)
}

func TestBuildOneFailsWhenOfficePoolEmpty(t *testing.T) {
	fac := buildFacility(t)
	b := NewBuilder(2, nil, fac, fac.Graph, 3, 1000, 50, nil)

	// draw both offices so none remain for BuildOne to assign.
	_, ok := fac.DrawOffice(0)
	require.True(t, ok)
	_, ok = fac.DrawOffice(0)
	require.True(t, ok)

	ag := agent.NewAgent(2)
	err := b.BuildOne(ag, 0, 200, nil)
	assert.Error(t, err)
}

// smallIncrementRules uses a MinDuration of 1 on every purpose so that a
// duration shortened to fit before a meeting can never fall under the
// minimum, keeping the schedule build deterministic for this test.
func smallIncrementRules() map[agent.Purpose]config.PurposeRule {
	return map[agent.Purpose]config.PurposeRule{
		agent.PurposeOfficeWork:     {MinDuration: 1, MaxDuration: 50, AllowedAdjacency: []string{"OFFICE_WORK", "MEETING", "RESTROOM_VISIT", "CAFETERIA_VISIT"}},
		agent.PurposeRestroomVisit:  {MinDuration: 1, MaxDuration: 10, AllowedAdjacency: []string{"OFFICE_WORK"}},
		agent.PurposeCafeteriaVisit: {MinDuration: 1, MaxDuration: 20, AllowedAdjacency: []string{"OFFICE_WORK"}},
	}
}

func TestBuildOneIncorporatesMeeting(t *testing.T) {
	fac := buildFacility(t)
	b := NewBuilder(3, smallIncrementRules(), fac, fac.Graph, 3, 2000, 50, nil)

	m := meeting.Meeting{Location: 4, Floor: 0, Window: meeting.TimeInterval{Start: 300, End: 330}, Attendees: []int{5}}

	ag := agent.NewAgent(5)
	err := b.BuildOne(ag, 0, 200, []meeting.Meeting{m})
	require.NoError(t, err)

	foundMeeting := false
	for _, it := range ag.Schedule.Items {
		if it.Purpose == agent.PurposeMeeting {
			foundMeeting = true
			assert.Equal(t, 4, it.Location)
		}
	}
	assert.True(t, foundMeeting)
}

func TestMergeAdjacentCombinesSamePurpose(t *testing.T) {
	items := []agent.ScheduleItem{
		{Purpose: agent.PurposeOfficeWork, Location: 1, Floor: 0, Duration: 10},
		{Purpose: agent.PurposeOfficeWork, Location: 1, Floor: 0, Duration: 20},
		{Purpose: agent.PurposeRestroomVisit, Location: 2, Floor: 0, Duration: 5},
	}
	merged := mergeAdjacent(items)
	require.Len(t, merged, 2)
	assert.Equal(t, 30, merged[0].Duration)
}

func TestShiftPlannerPartitionsWithoutReplacement(t *testing.T) {
	p := NewShiftPlanner(9)
	shifts := []config.Shift{{Name: "morning", PercentWorkforce: 0.5}, {Name: "evening", PercentWorkforce: 0.5}}
	result := p.Partition([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, shifts)

	seen := make(map[int]bool)
	for _, ids := range result {
		for _, id := range ids {
			assert.False(t, seen[id], "agent %d assigned to two shifts", id)
			seen[id] = true
		}
	}
	assert.Len(t, result["morning"], 5)
	assert.Len(t, result["evening"], 5)
}
