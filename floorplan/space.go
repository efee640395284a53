// Package floorplan models one floor's spaces, doors, walls and aisles
// (spec §3-§4.2, C2). Floorplan owns all of these in flat, arena-like
// slices; cross-references (Door -> Space, Aisle -> Wall) are stored as
// dense integer ids rather than pointers, mirroring how the teacher's
// DtNavMesh resolves PolyRefs by index instead of holding live pointers.
package floorplan

import "github.com/corning-incorporated/citam/geom"

// SpaceFunction classifies what a Space is used for.
type SpaceFunction int

const (
	FunctionOffice SpaceFunction = iota
	FunctionMeeting
	FunctionCafeteria
	FunctionRestroom
	FunctionAisle // circulation / hallway
	FunctionLab
	FunctionStairs
	FunctionEntrance
	FunctionOther
)

func (f SpaceFunction) String() string {
	switch f {
	case FunctionOffice:
		return "office"
	case FunctionMeeting:
		return "meeting"
	case FunctionCafeteria:
		return "cafeteria"
	case FunctionRestroom:
		return "restroom"
	case FunctionAisle:
		return "aisle"
	case FunctionLab:
		return "lab"
	case FunctionStairs:
		return "stairs"
	case FunctionEntrance:
		return "entrance"
	default:
		return "other"
	}
}

// SpaceID is a dense integer id assigned at ingest time, unique within one
// Floorplan.
type SpaceID int

// Space is a polygonal region of a floor.
type Space struct {
	ID         SpaceID
	UniqueName string
	Function   SpaceFunction
	Building   string
	Capacity   int
	Boundary   geom.Polygon
	// Path is the subset of Boundary's segments that are walls (as opposed
	// to the portions covered by doors); populated by the ingester.
	Path []geom.Segment
	// DoorIDs/WallIDs record which Doors/Walls reference this Space, so
	// lookups don't need to scan the Floorplan's door/wall slices.
	DoorIDs []DoorID
	WallIDs []WallID
}

// IsHallway reports whether this space acts as circulation space. It is a
// cached predicate derived purely from Function (spec §3).
func (s Space) IsHallway() bool {
	return s.Function == FunctionAisle
}

// Center returns the center of the space's bounding box, used as the
// default routing target for a space (e.g. an office's "location").
func (s Space) Center() geom.Point {
	return geom.BoundsOf(s.Boundary).Center()
}
