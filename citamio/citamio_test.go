package citamio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corning-incorporated/citam/agent"
	"github.com/corning-incorporated/citam/citamio"
	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/sim"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{Vertices: []geom.Point{
		geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1),
	}}
}

func TestWriteManifestProducesValidJSON(t *testing.T) {
	var buf bytes.Buffer
	m := citamio.Manifest{
		RunID:          "11111111-1111-1111-1111-111111111111",
		SimulationName: "office-run",
		NumberOfFloors: 1,
		NumberOfAgents: 2,
	}
	require.NoError(t, citamio.WriteManifest(&buf, m))
	assert.Contains(t, buf.String(), `"SimulationName": "office-run"`)
	assert.Contains(t, buf.String(), `"NumberOfAgents": 2`)
}

func TestTrajectoryWriterBuffersBlocksUntilFlush(t *testing.T) {
	tw := citamio.NewTrajectoryWriter()
	a := agent.NewAgent(1)
	a.CurrentPosition = geom.Pt(3, 4)
	a.CurrentFloor = 0

	tw.Record(0, []*agent.Agent{a})
	tw.Record(1, []*agent.Agent{a})

	var buf bytes.Buffer
	require.NoError(t, tw.Flush(&buf))
	out := buf.String()
	assert.Contains(t, out, "step 0")
	assert.Contains(t, out, "step 1")
	assert.Contains(t, out, "1 3 4 0")
}

func TestWritePairContactsSortsByPairKey(t *testing.T) {
	totals := map[string]int{"2-5": 3, "1-2": 7}
	var buf bytes.Buffer
	require.NoError(t, citamio.WritePairContacts(&buf, totals))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "agent1,agent2,n_contacts", lines[0])
	assert.Equal(t, "1,2,7", lines[1])
	assert.Equal(t, "2,5,3", lines[2])
}

func TestWriteContactDistPerAgentSortsByAgentID(t *testing.T) {
	counts := map[int]int{3: 1, 1: 2}
	var buf bytes.Buffer
	require.NoError(t, citamio.WriteContactDistPerAgent(&buf, counts))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "agent_ID,Number_of_Contacts", lines[0])
	assert.Equal(t, "1,2", lines[1])
	assert.Equal(t, "3,1", lines[2])
}

func TestWriteContactDistPerCoordSortsByPosition(t *testing.T) {
	locations := map[geom.Point]int{
		geom.Pt(5, 5): 2,
		geom.Pt(1, 1): 4,
	}
	var buf bytes.Buffer
	require.NoError(t, citamio.WriteContactDistPerCoord(&buf, locations))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "x,y,n_contacts", lines[0])
	assert.Equal(t, "1,1,4", lines[1])
	assert.Equal(t, "5,5,2", lines[2])
}

func TestWriteRawContactDataRoundTripsEventCount(t *testing.T) {
	events := []*sim.ContactEvent{
		{PairKey: "1-2", StartStep: 0, Duration: 3, Floor: 0, Positions: []geom.Point{geom.Pt(1, 1), geom.Pt(1, 1), geom.Pt(1, 1)}},
	}
	var buf bytes.Buffer
	require.NoError(t, citamio.WriteRawContactData(&buf, events))
	// header (6 int32s = 24 bytes) + 3 positions * 2 float64s = 48 bytes.
	assert.Equal(t, 24+48, buf.Len())
}

func TestWriteStatisticsWrapsSimulationName(t *testing.T) {
	var buf bytes.Buffer
	stats := sim.Statistics{TotalContactDuration: 10, NumberOfContacts: 2}
	require.NoError(t, citamio.WriteStatistics(&buf, "office-run", stats))
	assert.Contains(t, buf.String(), `"SimulationName": "office-run"`)
	assert.Contains(t, buf.String(), `"name": "NumberOfContacts"`)
}

func oneSpaceFloorplan() *floorplan.Floorplan {
	return floorplan.NewFloorplan([]floorplan.Space{
		{ID: 0, UniqueName: "office-1", Function: floorplan.FunctionOffice, Boundary: square(0, 0, 10, 10)},
	}, nil, nil, nil)
}

func TestWriteFloorMapProducesSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, citamio.WriteFloorMap(&buf, oneSpaceFloorplan(), 400, 400))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "</svg>")
}

func TestWriteFloorHeatmapProducesSVG(t *testing.T) {
	locations := map[geom.Point]int{geom.Pt(5, 5): 3}
	var buf bytes.Buffer
	require.NoError(t, citamio.WriteFloorHeatmap(&buf, oneSpaceFloorplan(), locations, 400, 400))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "circle")
}

func TestWriteFloorContactsTextListsSortedCoords(t *testing.T) {
	locations := map[geom.Point]int{geom.Pt(5, 5): 2, geom.Pt(1, 1): 4}
	var buf bytes.Buffer
	require.NoError(t, citamio.WriteFloorContactsText(&buf, locations))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1 1 4", lines[0])
	assert.Equal(t, "5 5 2", lines[1])
}
