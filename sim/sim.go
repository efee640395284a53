// Package sim drives the per-step simulation loop: advancing every
// agent's itinerary, detecting pairwise contacts, and accumulating the
// statistics written out at the end of a run (spec §4.8, C9). Its Step
// loop keeps the shape of the teacher's Crowd.Update — register active
// agents, then evaluate pairwise proximity among them — generalized from
// steering/collision avoidance to contact detection over a fixed,
// precomputed itinerary.
package sim

import (
	"github.com/google/uuid"

	"github.com/corning-incorporated/citam/agent"
	"github.com/corning-incorporated/citam/facility"
	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/internal/citamlog"
)

// midpoint returns the point halfway between a and b (spec §4.8 step 5:
// ContactEvent records the pair's midpoint position).
func midpoint(a, b geom.Point) geom.Point {
	return geom.Pt((a.X+b.X)/2, (a.Y+b.Y)/2)
}

// Simulation owns the agent roster, the facility it moves through, and
// the accumulated ContactEvents for one run. The Navigation graph and
// Floorplans underneath Facility are read-only for the lifetime of the
// run (spec §5).
type Simulation struct {
	RunID uuid.UUID

	Agents          []*agent.Agent
	Facility        *facility.Facility
	ContactDistance float64

	log      *citamlog.Logger
	contacts *ContactEvents

	// contactedPeers[agentID] is the set of distinct agent ids this agent
	// has ever contacted, for AvgNumberOfPeoplePerAgent.
	contactedPeers map[int]map[int]bool

	// OnStep, if set, is called with the agents active at t after Step has
	// advanced and evaluated them. citamio's trajectory writer hooks this
	// to buffer each step's positions for the final, single write pass
	// (spec §5: "output writing happens only after the final step").
	OnStep func(t int, active []*agent.Agent)
}

// New returns a Simulation ready to Run. log may be nil.
func New(agents []*agent.Agent, fac *facility.Facility, contactDistance float64, log *citamlog.Logger) *Simulation {
	return &Simulation{
		RunID:           uuid.New(),
		Agents:          agents,
		Facility:        fac,
		ContactDistance: contactDistance,
		log:             log,
		contacts:        newContactEvents(),
		contactedPeers:  make(map[int]map[int]bool),
	}
}

// Run advances the simulation from step 0 through totalSteps-1 (spec §5:
// "steps are totally ordered").
func (s *Simulation) Run(totalSteps int) {
	if s.log != nil {
		s.log.Progress("simulation starting", "run_id", s.RunID.String(), "total_steps", totalSteps, "n_agents", len(s.Agents))
	}
	for t := 0; t < totalSteps; t++ {
		s.Step(t)
	}
	if s.log != nil {
		s.log.Progress("simulation complete", "run_id", s.RunID.String())
	}
}

// Step advances every active agent by one itinerary entry, then evaluates
// pairwise proximity among the agents active at t (spec §4.8 step
// function).
func (s *Simulation) Step(t int) {
	active := s.advance(t)
	s.evaluateContacts(t, active)
	if s.OnStep != nil {
		s.OnStep(t, active)
	}
}

// advance moves every agent whose schedule is active at t forward one
// itinerary index and returns the agents now active (spec §4.8 step 1).
func (s *Simulation) advance(t int) []*agent.Agent {
	active := make([]*agent.Agent, 0, len(s.Agents))
	for _, a := range s.Agents {
		if !a.IsActive(t) {
			a.ItineraryIndex = -1
			continue
		}
		idx := t - a.Schedule.StartTime
		if idx < 0 || idx >= len(a.Schedule.Itinerary) {
			continue
		}
		point := a.Schedule.Itinerary[idx]
		a.ItineraryIndex = idx
		a.CurrentPosition = point.Point
		a.CurrentFloor = point.Floor
		a.CurrentLocation = point.Location
		active = append(active, a)
	}
	return active
}

// evaluateContacts computes pairwise Euclidean distance over active
// (O(N²), spec §4.8 step 2-3: N is typically at most a few hundred) and
// accepts/records a contact per the floor/space/hallway-edge rules of
// step 4.
func (s *Simulation) evaluateContacts(t int, active []*agent.Agent) {
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			if a.CurrentPosition.Dist(b.CurrentPosition) >= s.ContactDistance {
				continue
			}
			if !s.accepts(a, b) {
				continue
			}
			mid := midpoint(a.CurrentPosition, b.CurrentPosition)
			s.contacts.record(a.ID, b.ID, t, a.CurrentFloor, mid)
			a.CumulativeContactDuration++
			b.CumulativeContactDuration++
			s.notePeers(a.ID, b.ID)
		}
	}
}

// accepts implements spec §4.8 step 4's discard/accept ladder.
func (s *Simulation) accepts(a, b *agent.Agent) bool {
	if a.CurrentFloor != b.CurrentFloor {
		return false
	}
	if a.CurrentLocation < 0 || b.CurrentLocation < 0 {
		return false
	}
	if a.CurrentLocation == b.CurrentLocation {
		return true
	}
	hg := s.Facility.HallwayGraphs[a.CurrentFloor]
	if hg == nil {
		return false
	}
	fp := s.Facility.Floorplans[a.CurrentFloor]
	if fp == nil {
		return false
	}
	if !fp.Space(floorplan.SpaceID(a.CurrentLocation)).IsHallway() || !fp.Space(floorplan.SpaceID(b.CurrentLocation)).IsHallway() {
		return false
	}
	return hg.HasEdge(a.CurrentLocation, b.CurrentLocation)
}

func (s *Simulation) notePeers(a, b int) {
	if s.contactedPeers[a] == nil {
		s.contactedPeers[a] = make(map[int]bool)
	}
	if s.contactedPeers[b] == nil {
		s.contactedPeers[b] = make(map[int]bool)
	}
	s.contactedPeers[a][b] = true
	s.contactedPeers[b][a] = true
}

// Contacts returns the run's accumulated ContactEvents.
func (s *Simulation) Contacts() *ContactEvents {
	return s.contacts
}

// PairTotals sums each pair's ContactEvent durations, keyed by the
// canonical pair_key (spec §6 `pair_contact.csv`: "agent1,agent2,n_contacts").
func (s *Simulation) PairTotals() map[string]int {
	totals := make(map[string]int)
	for _, e := range s.contacts.All() {
		totals[e.PairKey] += e.Duration
	}
	return totals
}

// PeerCounts returns, per agent id, the number of distinct agents it ever
// contacted (spec §6 `contact_dist_per_agent.csv`).
func (s *Simulation) PeerCounts() map[int]int {
	counts := make(map[int]int, len(s.contactedPeers))
	for id, peers := range s.contactedPeers {
		counts[id] = len(peers)
	}
	return counts
}
