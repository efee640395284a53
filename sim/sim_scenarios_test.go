package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/corning-incorporated/citam/agent"
	"github.com/corning-incorporated/citam/facility"
	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/ingest"
	"github.com/corning-incorporated/citam/sim"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{Vertices: []geom.Point{
		geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1),
	}}
}

func oneOfficeFacility() *facility.Facility {
	spaces := []ingest.SpaceInput{
		{UniqueName: "office-0", Function: floorplan.FunctionOffice, Boundary: square(0, 0, 20, 20)},
	}
	ig := ingest.New(geom.DefaultEpsilon, nil)
	fp, _, err := ig.Ingest(spaces, nil)
	Expect(err).NotTo(HaveOccurred())
	return facility.New(map[int]*floorplan.Floorplan{0: fp}, nil, nil, nil)
}

func twoSeparateOfficesFacility() *facility.Facility {
	spaces := []ingest.SpaceInput{
		{UniqueName: "office-0", Function: floorplan.FunctionOffice, Boundary: square(0, -10, 20, 0)},
		{UniqueName: "office-1", Function: floorplan.FunctionOffice, Boundary: square(0, 0, 20, 10)},
	}
	ig := ingest.New(geom.DefaultEpsilon, nil)
	fp, _, err := ig.Ingest(spaces, nil)
	Expect(err).NotTo(HaveOccurred())
	return facility.New(map[int]*floorplan.Floorplan{0: fp}, nil, nil, nil)
}

func agentAt(id int, p geom.Point, floorNum, location int) *agent.Agent {
	a := agent.NewAgent(id)
	a.Schedule = agent.Schedule{
		StartTime: 0, ExitTime: 1,
		Itinerary: []agent.ItineraryPoint{{Point: p, Floor: floorNum, Location: location}},
	}
	return a
}

var _ = Describe("Simulation contact detection", func() {

	It("S1: records one contact event between two agents in the same office", func() {
		fac := oneOfficeFacility()
		a1 := agentAt(1, geom.Pt(5, 5), 0, 0)
		a2 := agentAt(2, geom.Pt(6, 5), 0, 0)

		s := sim.New([]*agent.Agent{a1, a2}, fac, 6, nil)
		s.Step(0)

		events := s.Contacts().All()
		Expect(events).To(HaveLen(1))
		Expect(events[0].PairKey).To(Equal("1-2"))
		Expect(events[0].Positions).To(Equal([]geom.Point{geom.Pt(5.5, 5.0)}))
		Expect(s.Contacts().LocationsByFloor(0)[geom.Pt(5.5, 5.0)]).To(Equal(1))
		Expect(a1.CumulativeContactDuration).To(Equal(1))
		Expect(a2.CumulativeContactDuration).To(Equal(1))
	})

	It("S2: records three events for a triangle of agents in the same space", func() {
		fac := oneOfficeFacility()
		a1 := agentAt(1, geom.Pt(5, 5), 0, 0)
		a2 := agentAt(2, geom.Pt(6, 5), 0, 0)
		a3 := agentAt(3, geom.Pt(6, 6), 0, 0)

		s := sim.New([]*agent.Agent{a1, a2, a3}, fac, 6, nil)
		s.Step(0)

		events := s.Contacts().All()
		Expect(events).To(HaveLen(3))
		keys := []string{events[0].PairKey, events[1].PairKey, events[2].PairKey}
		Expect(keys).To(ConsistOf("1-2", "1-3", "2-3"))
		for _, e := range events {
			Expect(e.Duration).To(Equal(1))
		}
		Expect(a1.CumulativeContactDuration).To(Equal(2))
		Expect(a2.CumulativeContactDuration).To(Equal(2))
		Expect(a3.CumulativeContactDuration).To(Equal(2))
	})

	It("S3: records no contact across a wall with no hallway edge", func() {
		fac := twoSeparateOfficesFacility()
		a1 := agentAt(1, geom.Pt(10, -1), 0, 0)
		a2 := agentAt(2, geom.Pt(10, 1), 0, 1)

		s := sim.New([]*agent.Agent{a1, a2}, fac, 6, nil)
		s.Step(0)

		Expect(s.Contacts().All()).To(BeEmpty())
	})

	It("S4: records no contact when one agent is outside the facility", func() {
		fac := oneOfficeFacility()
		a1 := agentAt(1, geom.Pt(5, 5), 0, -1)
		a2 := agentAt(2, geom.Pt(5, 5), 0, 0)

		s := sim.New([]*agent.Agent{a1, a2}, fac, 6, nil)
		s.Step(0)

		Expect(s.Contacts().All()).To(BeEmpty())
	})
})
