package geom

import "testing"

import "github.com/stretchr/testify/assert"

func TestParallel(t *testing.T) {
	s := Seg(Pt(0, 0), Pt(10, 0))
	u := Seg(Pt(0, 5), Pt(10, 5))
	assert.True(t, Parallel(s, u, DefaultEpsilon))

	v := Seg(Pt(0, 0), Pt(0, 10))
	assert.False(t, Parallel(s, v, DefaultEpsilon))
}

func TestOverlap(t *testing.T) {
	s := Seg(Pt(0, 0), Pt(10, 0))
	t1 := Seg(Pt(5, 0), Pt(15, 0))
	ov, ok := Overlap(s, t1, DefaultEpsilon)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, ov.Length(), 1e-9)

	t2 := Seg(Pt(20, 0), Pt(30, 0))
	_, ok = Overlap(s, t2, DefaultEpsilon)
	assert.False(t, ok)
}

func TestSubtractDoorFromWall(t *testing.T) {
	wall := Seg(Pt(0, 0), Pt(10, 0))
	door := Seg(Pt(4, 0), Pt(6, 0))
	remaining := Subtract(wall, []Segment{door}, DefaultEpsilon)
	assert.Len(t, remaining, 2)
	assert.InDelta(t, 4.0, remaining[0].Length(), 1e-9)
	assert.InDelta(t, 4.0, remaining[1].Length(), 1e-9)
}

func TestPolygonContains(t *testing.T) {
	square := Polygon{Vertices: []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}}
	assert.True(t, Contains(square, Pt(5, 5)))
	assert.False(t, Contains(square, Pt(15, 5)))
	assert.True(t, Contains(square, Pt(0, 5))) // on boundary
}

func TestSegmentIntersection(t *testing.T) {
	a := Seg(Pt(0, 0), Pt(10, 10))
	b := Seg(Pt(0, 10), Pt(10, 0))
	p, ok := SegmentIntersection(a, b)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, p.X, 1e-9)
	assert.InDelta(t, 5.0, p.Y, 1e-9)
}

func TestBoundsOf(t *testing.T) {
	poly := Polygon{Vertices: []Point{Pt(1, 2), Pt(5, -1), Pt(3, 8)}}
	bb := BoundsOf(poly)
	assert.Equal(t, Pt(1, -1), bb.Min)
	assert.Equal(t, Pt(5, 8), bb.Max)
}
