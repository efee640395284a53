package sim

import (
	"fmt"
	"sort"

	"github.com/corning-incorporated/citam/geom"
)

// ContactEvent is one run of consecutive steps during which a pair of
// agents stayed within contact_distance of each other (spec §3). It
// extends (Duration++, a Position appended) while the pair remains in
// contact at consecutive steps; otherwise a new ContactEvent starts.
type ContactEvent struct {
	PairKey   string
	StartStep int
	Duration  int
	Positions []geom.Point
	Floor     int
}

// ContactEvents accumulates every ContactEvent of a run, keyed by the
// canonical pair_key, plus the per-floor distribution of contact
// midpoints accrued across the whole run (spec §3; §9 Open Question:
// step_contact_locations[floor] is never reset during the step loop).
type ContactEvents struct {
	byPair    map[string][]*ContactEvent
	locations map[int]map[geom.Point]int
}

func newContactEvents() *ContactEvents {
	return &ContactEvents{
		byPair:    make(map[string][]*ContactEvent),
		locations: make(map[int]map[geom.Point]int),
	}
}

// pairKey canonicalizes a contact pair as "min_id-max_id" (spec §3, §8
// invariant 6: "ContactEvent key is canonical, lower id first").
func pairKey(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

// record appends to or extends the ContactEvent for (a, b) at step, and
// increments step_contact_locations[floor][mid] (spec §4.8 step 5).
func (c *ContactEvents) record(a, b, step, floor int, mid geom.Point) {
	key := pairKey(a, b)
	events := c.byPair[key]
	if n := len(events); n > 0 {
		last := events[n-1]
		if last.StartStep+last.Duration == step {
			last.Duration++
			last.Positions = append(last.Positions, mid)
			c.addLocation(floor, mid)
			return
		}
	}
	c.byPair[key] = append(events, &ContactEvent{
		PairKey: key, StartStep: step, Duration: 1,
		Positions: []geom.Point{mid}, Floor: floor,
	})
	c.addLocation(floor, mid)
}

func (c *ContactEvents) addLocation(floor int, p geom.Point) {
	m, ok := c.locations[floor]
	if !ok {
		m = make(map[geom.Point]int)
		c.locations[floor] = m
	}
	m[p]++
}

// All returns every recorded ContactEvent, sorted by pair_key then
// StartStep for deterministic output (spec §5: "bit-identical" reruns).
func (c *ContactEvents) All() []*ContactEvent {
	keys := make([]string, 0, len(c.byPair))
	for k := range c.byPair {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []*ContactEvent
	for _, k := range keys {
		out = append(out, c.byPair[k]...)
	}
	return out
}

// LocationsByFloor returns the accumulated step_contact_locations map for
// floor.
func (c *ContactEvents) LocationsByFloor(floor int) map[geom.Point]int {
	return c.locations[floor]
}

// Floors returns the set of floors with any recorded contact location.
func (c *ContactEvents) Floors() []int {
	floors := make([]int, 0, len(c.locations))
	for f := range c.locations {
		floors = append(floors, f)
	}
	sort.Ints(floors)
	return floors
}
