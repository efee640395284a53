// Package facility classifies a floorplan's spaces by function and answers
// facility-level queries: best entrance for an office, and the mutable
// office pool the schedule builder draws from (spec §4.5, C6). It is the
// facade other packages drive, the same role the teacher's Sample type
// plays over its geometry + navmesh + query triple.
package facility

import (
	"sort"

	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/nav"
)

// Entrance is one door classified as an entrance, with the floor it sits on.
type Entrance struct {
	Floor int
	Door  floorplan.DoorID
	Point geom.Point
}

// Facility owns one built floorplan per floor plus its multi-floor nav
// graph, and classifies every space by function into lookup vectors (spec
// §4.5).
type Facility struct {
	Floorplans    map[int]*floorplan.Floorplan
	Graph         *nav.MultiFloorGraph
	HallwayGraphs map[int]*nav.HallwayGraph

	Offices      map[int][]floorplan.SpaceID
	MeetingRooms map[int][]floorplan.SpaceID
	Cafes        map[int][]floorplan.SpaceID
	Restrooms    map[int][]floorplan.SpaceID
	Entrances    []Entrance
	Stairs       map[int][]floorplan.SpaceID

	// officePool is the mutable per-floor pool all_office_spaces[floor]
	// draws from when the scheduler assigns an office without a
	// preassignment (spec §4.5). It starts as a copy of Offices and shrinks
	// as offices are drawn; Release puts one back.
	officePool map[int][]floorplan.SpaceID
}

// New classifies every space in every floor's Floorplan and returns a ready
// Facility. entranceDoors names, per floor, which DoorIDs act as building
// entrances (a floorplan's doors carry no "is an entrance" bit of their
// own: that is a facility-level designation, spec §4.5).
func New(floors map[int]*floorplan.Floorplan, graph *nav.MultiFloorGraph, hallwayGraphs map[int]*nav.HallwayGraph, entranceDoors map[int][]floorplan.DoorID) *Facility {
	f := &Facility{
		Floorplans:    floors,
		Graph:         graph,
		HallwayGraphs: hallwayGraphs,
		Offices:      make(map[int][]floorplan.SpaceID),
		MeetingRooms: make(map[int][]floorplan.SpaceID),
		Cafes:        make(map[int][]floorplan.SpaceID),
		Restrooms:    make(map[int][]floorplan.SpaceID),
		Stairs:       make(map[int][]floorplan.SpaceID),
		officePool:   make(map[int][]floorplan.SpaceID),
	}

	for floorNum, fp := range floors {
		f.Offices[floorNum] = fp.SpacesByFunction(floorplan.FunctionOffice)
		f.MeetingRooms[floorNum] = fp.SpacesByFunction(floorplan.FunctionMeeting)
		f.Cafes[floorNum] = fp.SpacesByFunction(floorplan.FunctionCafeteria)
		f.Restrooms[floorNum] = fp.SpacesByFunction(floorplan.FunctionRestroom)
		f.Stairs[floorNum] = fp.SpacesByFunction(floorplan.FunctionStairs)

		f.officePool[floorNum] = append([]floorplan.SpaceID(nil), f.Offices[floorNum]...)

		for _, did := range entranceDoors[floorNum] {
			door := fp.Door(did)
			f.Entrances = append(f.Entrances, Entrance{Floor: floorNum, Door: did, Point: door.Segment.Midpoint()})
		}
	}

	sort.Slice(f.Entrances, func(i, j int) bool {
		if f.Entrances[i].Floor != f.Entrances[j].Floor {
			return f.Entrances[i].Floor < f.Entrances[j].Floor
		}
		return f.Entrances[i].Door < f.Entrances[j].Door
	})

	return f
}

// ChooseBestEntrance returns the entrance minimizing routed distance from
// its door node to the office's center, tie-breaking by entrance floor then
// door id (spec §4.5). ok is false if the office floor isn't in the
// facility or no entrance can route to it at all.
func (f *Facility) ChooseBestEntrance(officeFloor int, officeID floorplan.SpaceID) (Entrance, bool) {
	fp, ok := f.Floorplans[officeFloor]
	if !ok {
		return Entrance{}, false
	}
	target := fp.Space(officeID).Center()

	var best Entrance
	bestDist := -1.0
	found := false
	for _, e := range f.Entrances {
		route := nav.ShortestRouteMultiFloor(f.Graph, e.Point, e.Floor, target, officeFloor)
		if route == nil {
			continue
		}
		dist := routeMultiFloorWeight(route)
		if !found || dist < bestDist {
			bestDist = dist
			best = e
			found = true
			continue
		}
		if dist == bestDist {
			if e.Floor < best.Floor || (e.Floor == best.Floor && e.Door < best.Door) {
				best = e
			}
		}
	}
	return best, found
}

func routeMultiFloorWeight(route []nav.FloorPoint) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		total += route[i-1].Point.Dist(route[i].Point)
	}
	return total
}

// DrawOffice removes and returns one office from the given floor's pool
// (spec §4.5 "mutable pool ... draws from"). ok is false if the pool is
// empty.
func (f *Facility) DrawOffice(floorNum int) (floorplan.SpaceID, bool) {
	pool := f.officePool[floorNum]
	if len(pool) == 0 {
		return 0, false
	}
	id := pool[len(pool)-1]
	f.officePool[floorNum] = pool[:len(pool)-1]
	return id, true
}

// ReleaseOffice returns an office to the pool, e.g. after a schedule build
// failure forces a retry on a different office (spec §4.7 failure note).
func (f *Facility) ReleaseOffice(floorNum int, id floorplan.SpaceID) {
	f.officePool[floorNum] = append(f.officePool[floorNum], id)
}
