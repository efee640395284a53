package floorplan

import (
	"math"

	"github.com/corning-incorporated/citam/geom"
)

// DoorID is a dense integer id assigned at ingest time.
type DoorID int

// Door is a wall segment, owned by the Floorplan, that adjoins one or two
// Spaces (referenced by id, not pointer — spec §9's cyclic-reference note).
type Door struct {
	ID       DoorID
	Segment  geom.Segment
	SpaceIDs []SpaceID // 1 or 2 entries

	EmergencyOnly bool
	InService     bool
	SpecialAccess bool
}

// WallID is a dense integer id assigned at ingest time.
type WallID int

// Wall is a boundary segment that is not covered by a door.
type Wall struct {
	ID      WallID
	Segment geom.Segment
	SpaceID SpaceID
}

// Aisle is a pair of parallel walls facing each other across a hallway,
// whose midline lies inside the hallway space that owns them (spec §3).
type Aisle struct {
	W1, W2 WallID
	// SpaceID is the hallway space this aisle was derived from.
	SpaceID SpaceID
}

// CenterLine returns the aisle's center-line: a segment running along the
// overlap of w1 and w2's projections, offset to the midline between them,
// plus the perpendicular distance between the walls (the aisle's width).
// navbuild discretizes nav nodes along this line at a fixed nav step
// (spec §4.3).
func (a Aisle) CenterLine(fp *Floorplan) (line geom.Segment, width float64) {
	w1 := fp.Wall(a.W1)
	w2 := fp.Wall(a.W2)

	dir := w1.Segment.Direction()
	l := dir.Dist(geom.Point{})
	if l == 0 {
		return geom.Segment{}, 0
	}
	unit := geom.Point{X: dir.X / l, Y: dir.Y / l}
	perp := geom.Point{X: -unit.Y, Y: unit.X}

	width = math.Abs(w2.Segment.A.Sub(w1.Segment.A).Dot(perp))

	// orient perp to point from w1 towards w2.
	toward := w2.Segment.A.Sub(w1.Segment.A)
	if toward.Dot(perp) < 0 {
		perp = perp.Scale(-1)
	}

	proj := func(p geom.Point) float64 { return p.Sub(w1.Segment.A).Dot(unit) }
	s0, s1 := proj(w1.Segment.A), proj(w1.Segment.B)
	t0, t1 := proj(w2.Segment.A), proj(w2.Segment.B)
	if s0 > s1 {
		s0, s1 = s1, s0
	}
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	lo := math.Max(s0, t0)
	hi := math.Min(s1, t1)
	if hi < lo {
		lo, hi = hi, lo
	}

	mid := perp.Scale(width / 2)
	line = geom.Segment{
		A: w1.Segment.A.Add(unit.Scale(lo)).Add(mid),
		B: w1.Segment.A.Add(unit.Scale(hi)).Add(mid),
	}
	return
}
