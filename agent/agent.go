// Package agent holds the shared Agent, Schedule and ScheduleItem types
// that package schedule builds and package sim drives (spec §3).
package agent

import "github.com/corning-incorporated/citam/geom"

// Purpose classifies a ScheduleItem (spec §3).
type Purpose int

const (
	PurposeOfficeWork Purpose = iota
	PurposeMeeting
	PurposeRestroomVisit
	PurposeCafeteriaVisit
	PurposeTransit
)

func (p Purpose) String() string {
	switch p {
	case PurposeOfficeWork:
		return "OFFICE_WORK"
	case PurposeMeeting:
		return "MEETING"
	case PurposeRestroomVisit:
		return "RESTROOM_VISIT"
	case PurposeCafeteriaVisit:
		return "CAFETERIA_VISIT"
	case PurposeTransit:
		return "TRANSIT"
	default:
		return "UNKNOWN"
	}
}

// ScheduleItem is one alternating block of an agent's day (spec §3).
type ScheduleItem struct {
	Purpose  Purpose
	Location int // Space id, as an int so agent need not import floorplan
	Floor    int
	Duration int // timesteps
}

// Schedule is owned by an Agent: its start/exit window, entrance/exit
// doors, assigned office, itinerary items, and the precomputed per-step
// itinerary (spec §3).
type Schedule struct {
	StartTime int
	ExitTime  int

	EntranceDoor int
	EntranceFloor int
	ExitDoor     int
	ExitFloor    int

	OfficeLocation int
	OfficeFloor    int

	Items []ScheduleItem

	// Itinerary is one (x,y,floor) entry per timestep from StartTime to
	// ExitTime; after ExitTime the agent is inactive (spec §3).
	Itinerary []ItineraryPoint
}

// ItineraryPoint is one timestep's planned position. Location is the Space
// id the agent occupies at that step, or -1 while in transit between
// spaces (spec §3 "Space id or null").
type ItineraryPoint struct {
	Point    geom.Point
	Floor    int
	Location int
}

// State is an agent's motion state within a single step (spec §4.8).
type State int

const (
	StateOffsite State = iota
	StateTransit
	StateStationary
)

// Agent is one simulated occupant (spec §3).
type Agent struct {
	ID int

	CurrentPosition geom.Point
	CurrentFloor    int
	// CurrentLocation is the Space id the agent currently occupies, or -1
	// if the agent is outside the facility (spec §3 "Space id or null").
	CurrentLocation int

	CumulativeContactDuration int

	Schedule Schedule

	// ItineraryIndex is the next itinerary entry to consume; -1 before the
	// agent's first active step.
	ItineraryIndex int
}

// NewAgent returns an Agent with no current location, ready to receive a
// built Schedule.
func NewAgent(id int) *Agent {
	return &Agent{ID: id, CurrentLocation: -1, ItineraryIndex: -1}
}

// IsActive reports whether the agent is within its scheduled window at
// step t (spec §4.8 step function precondition).
func (a *Agent) IsActive(t int) bool {
	return t >= a.Schedule.StartTime && t < a.Schedule.ExitTime
}

// State returns the agent's motion state at step t, comparing the
// itinerary entries at t and t-1 (spec §4.8 state machine).
func (a *Agent) State(t int) State {
	if !a.IsActive(t) {
		return StateOffsite
	}
	idx := t - a.Schedule.StartTime
	if idx <= 0 || idx >= len(a.Schedule.Itinerary) {
		return StateTransit
	}
	if a.Schedule.Itinerary[idx].Point == a.Schedule.Itinerary[idx-1].Point &&
		a.Schedule.Itinerary[idx].Floor == a.Schedule.Itinerary[idx-1].Floor {
		return StateStationary
	}
	return StateTransit
}
