// Package ingest assembles a floorplan.Floorplan from space polygons plus
// metadata and door polylines (spec §4.2, C3). It is the one place CITAM's
// core touches the output of the external SVG/CSV parser (out of scope,
// spec §1/§6): everything upstream of SpaceInput/DoorInput belongs to that
// collaborator.
//
// The four steps below are kept as four explicit passes over one working
// Ingester, the same shape as the teacher's Recast build pipeline (a
// sequence of named passes — rasterize, filter, build regions, build
// contours — over one rcContext-carrying state).
package ingest

import (
	"fmt"

	"github.com/aurelien-rainone/assertgo"

	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/internal/citamlog"
)

// SpaceInput is one polygon plus its metadata, as delivered by the external
// parser (spec §6).
type SpaceInput struct {
	UniqueName string
	Function   floorplan.SpaceFunction
	Building   string
	Capacity   int
	Boundary   geom.Polygon
}

// DoorInput is one door polyline segment, as delivered by the external
// parser.
type DoorInput struct {
	Segment       geom.Segment
	EmergencyOnly bool
	InService     bool
	SpecialAccess bool
}

// Warning describes a non-fatal condition encountered during ingest (spec
// §4.2 failure conditions: "warn and drop").
type Warning struct {
	Message string
}

// IngestError is returned for fatal ingest conditions (spec §7): a space
// polygon that is not closed (fewer than 3 non-colinear vertices).
type IngestError struct {
	SpaceName string
	Reason    string
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest: space %q: %s", e.SpaceName, e.Reason)
}

// Ingester builds one Floorplan from raw inputs.
type Ingester struct {
	Epsilon float64
	log     *citamlog.Logger
}

// New returns an Ingester with the given numeric tolerance (spec §4.1
// default 1e-3 drawing units if eps <= 0).
func New(eps float64, log *citamlog.Logger) *Ingester {
	if eps <= 0 {
		eps = geom.DefaultEpsilon
	}
	return &Ingester{Epsilon: eps, log: log}
}

// Ingest runs all four passes and returns the resulting Floorplan along
// with any non-fatal warnings collected along the way.
func (ig *Ingester) Ingest(spaceInputs []SpaceInput, doorInputs []DoorInput) (*floorplan.Floorplan, []Warning, error) {
	spaces, err := ig.assignSpaceIDs(spaceInputs)
	if err != nil {
		return nil, nil, err
	}

	doors, warnings := ig.attachDoors(spaces, doorInputs)

	walls := ig.deriveWalls(spaces, doors)

	aisles := ig.deriveAisles(spaces, walls)

	fp := floorplan.NewFloorplan(spaces, doors, walls, aisles)
	bb := fp.Bounds()
	fp.Width = bb.Max.X - bb.Min.X
	fp.Height = bb.Max.Y - bb.Min.Y

	return fp, warnings, nil
}

// assignSpaceIDs assigns dense integer ids to spaces in ingest order (spec
// §4.2 step 1) and validates the "≥3 non-colinear vertices" / closed
// polygon invariant (spec §3, failure condition in §4.2).
func (ig *Ingester) assignSpaceIDs(inputs []SpaceInput) ([]floorplan.Space, error) {
	spaces := make([]floorplan.Space, len(inputs))
	for i, in := range inputs {
		if len(in.Boundary.Vertices) < 3 {
			return nil, &IngestError{SpaceName: in.UniqueName, Reason: "polygon not closed: fewer than 3 vertices"}
		}
		if geom.NonColinearVertexCount(in.Boundary) < 3 {
			return nil, &IngestError{SpaceName: in.UniqueName, Reason: "polygon not closed: fewer than 3 non-colinear vertices"}
		}
		spaces[i] = floorplan.Space{
			ID:         floorplan.SpaceID(i),
			UniqueName: in.UniqueName,
			Function:   in.Function,
			Building:   in.Building,
			Capacity:   in.Capacity,
			Boundary:   in.Boundary,
		}
	}
	assert.True(len(spaces) == len(inputs), "every space input produced exactly one space")
	return spaces, nil
}

// attachDoors finds, for each door polyline, every space boundary segment
// that is collinear with and overlaps the door segment, and attaches the
// door to the 1 or 2 matching spaces (spec §4.2 step 2). Doors that overlap
// no boundary segment are dropped with a warning (spec §4.2 failure
// condition / spec §7 "warnings: dropped doors").
func (ig *Ingester) attachDoors(spaces []floorplan.Space, inputs []DoorInput) ([]floorplan.Door, []Warning) {
	var doors []floorplan.Door
	var warnings []Warning

	for _, in := range inputs {
		var matches []floorplan.SpaceID
		for i := range spaces {
			for _, bseg := range spaces[i].Boundary.Segments() {
				if !geom.Parallel(bseg, in.Segment, ig.Epsilon) {
					continue
				}
				if _, ok := geom.Overlap(bseg, in.Segment, ig.Epsilon); ok {
					matches = append(matches, spaces[i].ID)
					break
				}
			}
			if len(matches) == 2 {
				break
			}
		}

		if len(matches) == 0 {
			msg := "door does not overlap any space boundary segment; dropped"
			warnings = append(warnings, Warning{Message: msg})
			if ig.log != nil {
				ig.log.Warn(msg)
			}
			continue
		}

		id := floorplan.DoorID(len(doors))
		door := floorplan.Door{
			ID:            id,
			Segment:       in.Segment,
			SpaceIDs:      matches,
			EmergencyOnly: in.EmergencyOnly,
			InService:     in.InService,
			SpecialAccess: in.SpecialAccess,
		}
		doors = append(doors, door)
		for _, sid := range matches {
			spaces[sid].DoorIDs = append(spaces[sid].DoorIDs, id)
		}
	}
	return doors, warnings
}

// deriveWalls computes, for every space, the boundary segments not covered
// by any attached door (spec §4.2 step 3).
func (ig *Ingester) deriveWalls(spaces []floorplan.Space, doors []floorplan.Door) []floorplan.Wall {
	var walls []floorplan.Wall
	for si := range spaces {
		space := &spaces[si]
		var doorSegs []geom.Segment
		for _, did := range space.DoorIDs {
			doorSegs = append(doorSegs, doors[did].Segment)
		}
		for _, bseg := range space.Boundary.Segments() {
			remaining := geom.Subtract(bseg, doorSegs, ig.Epsilon)
			for _, seg := range remaining {
				id := floorplan.WallID(len(walls))
				walls = append(walls, floorplan.Wall{ID: id, Segment: seg, SpaceID: space.ID})
				space.WallIDs = append(space.WallIDs, id)
				space.Path = append(space.Path, seg)
			}
		}
	}
	return walls
}

// deriveAisles finds, for each hallway-function space, pairs of boundary
// walls that are parallel, face each other, and whose midline lies inside
// the polygon interior (spec §4.2 step 4): for each wall, the closest
// parallel wall within the same space by perpendicular projection, whose
// midpoint lies inside the polygon.
func (ig *Ingester) deriveAisles(spaces []floorplan.Space, walls []floorplan.Wall) []floorplan.Aisle {
	var aisles []floorplan.Aisle
	paired := make(map[floorplan.WallID]bool)

	for _, space := range spaces {
		if !space.IsHallway() {
			continue
		}
		for _, w1id := range space.WallIDs {
			if paired[w1id] {
				continue
			}
			w1 := &walls[w1id]
			var best floorplan.WallID
			bestDist := -1.0
			found := false
			for _, w2id := range space.WallIDs {
				if w2id == w1id || paired[w2id] {
					continue
				}
				w2 := &walls[w2id]
				if !geom.Parallel(w1.Segment, w2.Segment, ig.Epsilon) {
					continue
				}
				mid := w1.Segment.Midpoint().Midpoint(w2.Segment.Midpoint())
				if !geom.Contains(space.Boundary, mid) {
					continue
				}
				d := geom.PointToSegmentDistance(w1.Segment.A, w2.Segment)
				// An aisle runs along a hallway: its walls must face each
				// other across a gap narrower than they are long, otherwise
				// this is an end-cap, not a walkable aisle.
				if d >= w1.Segment.Length() || d >= w2.Segment.Length() {
					continue
				}
				if !found || d < bestDist {
					bestDist = d
					best = w2id
					found = true
				}
			}
			if found {
				aisles = append(aisles, floorplan.Aisle{W1: w1id, W2: best, SpaceID: space.ID})
				paired[w1id] = true
				paired[best] = true
			}
		}
	}
	return aisles
}
