package floorplan

import "github.com/corning-incorporated/citam/geom"

// Floorplan owns every Space, Door, Wall and Aisle on one floor. It is
// immutable after ingest (spec §3 lifecycle note): nothing outside
// package ingest constructs or mutates the slices below.
type Floorplan struct {
	Spaces []Space
	Doors  []Door
	Walls  []Wall
	Aisles []Aisle

	// SpecialWalls are walls added by a post-ingest floorplan update (spec
	// §9 / SPEC_FULL §3); navbuild's sanitize pass re-splits any nav edge
	// they cross. Applied once, before nav build — never during a run (a
	// Non-goal is hot-reload of the facility mid-simulation).
	SpecialWalls []geom.Segment

	Width, Height float64
	// Scale is real-world units per drawing unit.
	Scale float64

	byName map[string]SpaceID
}

// NewFloorplan builds a Floorplan from fully-populated slices (as produced
// by package ingest) and indexes Spaces by name for lookup.
func NewFloorplan(spaces []Space, doors []Door, walls []Wall, aisles []Aisle) *Floorplan {
	fp := &Floorplan{Spaces: spaces, Doors: doors, Walls: walls, Aisles: aisles}
	fp.reindex()
	return fp
}

func (fp *Floorplan) reindex() {
	fp.byName = make(map[string]SpaceID, len(fp.Spaces))
	for _, s := range fp.Spaces {
		fp.byName[s.UniqueName] = s.ID
	}
}

// Space returns the space with the given id. Panics if out of range, since
// SpaceIDs are only ever produced by this package for spaces that exist.
func (fp *Floorplan) Space(id SpaceID) *Space { return &fp.Spaces[id] }

// SpaceByName looks up a space by its unique name.
func (fp *Floorplan) SpaceByName(name string) (*Space, bool) {
	id, ok := fp.byName[name]
	if !ok {
		return nil, false
	}
	return &fp.Spaces[id], true
}

// Door returns the door with the given id.
func (fp *Floorplan) Door(id DoorID) *Door { return &fp.Doors[id] }

// Wall returns the wall with the given id.
func (fp *Floorplan) Wall(id WallID) *Wall { return &fp.Walls[id] }

// Bounds returns the facility bounds: the union bounding box of every
// space's boundary (spec §4.2 step 5).
func (fp *Floorplan) Bounds() geom.BoundingBox {
	var bb geom.BoundingBox
	for i, s := range fp.Spaces {
		b := geom.BoundsOf(s.Boundary)
		if i == 0 {
			bb = b
		} else {
			bb = bb.Union(b)
		}
	}
	return bb
}

// SpacesByFunction returns the ids of every space with the given function,
// in Space order. Used by facility.Facility to build its classification
// lookup vectors (spec §4.5).
func (fp *Floorplan) SpacesByFunction(fn SpaceFunction) []SpaceID {
	var ids []SpaceID
	for _, s := range fp.Spaces {
		if s.Function == fn {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
