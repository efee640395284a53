package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corning-incorporated/citam/agent"
	"github.com/corning-incorporated/citam/facility"
	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/ingest"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{Vertices: []geom.Point{
		geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1),
	}}
}

// twoOfficeFacility builds a one-floor facility with two adjoining office
// spaces (ids 0 and 1) and no connecting door, enough to exercise the
// floor/space/hallway-edge acceptance ladder without a routable nav graph.
func twoOfficeFacility(t *testing.T) *facility.Facility {
	t.Helper()
	spaces := []ingest.SpaceInput{
		{UniqueName: "office-0", Function: floorplan.FunctionOffice, Boundary: square(0, 0, 10, 10)},
		{UniqueName: "office-1", Function: floorplan.FunctionOffice, Boundary: square(10, 0, 20, 10)},
	}
	ig := ingest.New(geom.DefaultEpsilon, nil)
	fp, _, err := ig.Ingest(spaces, nil)
	require.NoError(t, err)
	return facility.New(map[int]*floorplan.Floorplan{0: fp}, nil, nil, nil)
}

func stationaryAgent(id int, p geom.Point, floorNum, location int) *agent.Agent {
	a := agent.NewAgent(id)
	a.Schedule = agent.Schedule{
		StartTime: 0, ExitTime: 1,
		Itinerary: []agent.ItineraryPoint{{Point: p, Floor: floorNum, Location: location}},
	}
	return a
}

func TestPairKeyCanonicalizesLowerIDFirst(t *testing.T) {
	assert.Equal(t, "1-2", pairKey(1, 2))
	assert.Equal(t, "1-2", pairKey(2, 1))
}

func TestContactEventsExtendsOnConsecutiveSteps(t *testing.T) {
	c := newContactEvents()
	c.record(1, 2, 0, 0, geom.Pt(5, 5))
	c.record(1, 2, 1, 0, geom.Pt(5, 5))
	c.record(1, 2, 3, 0, geom.Pt(5, 5)) // gap: starts a new event

	events := c.byPair["1-2"]
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0].Duration)
	assert.Equal(t, 1, events[1].Duration)
	assert.Equal(t, 3, events[1].StartStep)
}

func TestStepDiscardsAgentsOnDifferentFloors(t *testing.T) {
	fac := twoOfficeFacility(t)
	a1 := stationaryAgent(1, geom.Pt(5, 5), 0, 0)
	a2 := stationaryAgent(2, geom.Pt(5, 5), 1, 0)

	s := New([]*agent.Agent{a1, a2}, fac, 6, nil)
	s.Step(0)

	assert.Empty(t, s.Contacts().All())
}

func TestFinalizeComputesAggregateStatistics(t *testing.T) {
	fac := twoOfficeFacility(t)
	a1 := stationaryAgent(1, geom.Pt(5, 5), 0, 0)
	a2 := stationaryAgent(2, geom.Pt(6, 5), 0, 0)

	s := New([]*agent.Agent{a1, a2}, fac, 6, nil)
	s.Step(0)

	stats := s.Finalize()
	assert.Equal(t, 1, stats.NumberOfContacts)
	assert.Equal(t, float64(1), stats.TotalContactDuration)
	assert.Equal(t, float64(1), stats.MaxContactDuration)
	assert.Equal(t, 2, stats.NumberOfAgentsWithContacts)
	assert.Equal(t, float64(1), stats.AvgNumberOfPeoplePerAgent)
	assert.Equal(t, float64(1), stats.AvgContactDurationPerAgent)

	list := stats.AsStatisticsList()
	require.Len(t, list, 6)
}
