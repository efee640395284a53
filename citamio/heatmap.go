package citamio

import (
	"fmt"
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
)

// mapScale maps a floorplan's bounding box onto a fixed-size canvas,
// leaving margin on every side, the way the teacher's example pack lays
// out node positions before drawing (dshills-dungo's calculateLayout).
type mapScale struct {
	bb            geom.BoundingBox
	width, height int
	margin        int
}

func newMapScale(bb geom.BoundingBox, width, height, margin int) mapScale {
	return mapScale{bb: bb, width: width, height: height, margin: margin}
}

func (m mapScale) project(p geom.Point) (int, int) {
	w := m.bb.Max.X - m.bb.Min.X
	h := m.bb.Max.Y - m.bb.Min.Y
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	drawW := float64(m.width - 2*m.margin)
	drawH := float64(m.height - 2*m.margin)
	x := float64(m.margin) + (p.X-m.bb.Min.X)/w*drawW
	// SVG y grows downward; floorplan y grows upward, so flip it.
	y := float64(m.margin) + (1-(p.Y-m.bb.Min.Y)/h)*drawH
	return int(x), int(y)
}

// WriteFloorMap renders one floor's space outlines to map.svg (spec §6).
func WriteFloorMap(w io.Writer, fp *floorplan.Floorplan, width, height int) error {
	scale := newMapScale(fp.Bounds(), width, height, 40)
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")
	for i := range fp.Spaces {
		sp := &fp.Spaces[i]
		drawSpaceOutline(canvas, scale, sp, "fill:none;stroke:#333333;stroke-width:1")
	}
	canvas.End()
	return nil
}

// WriteFloorHeatmap renders one floor's outline with a contact-density
// overlay: a semi-transparent circle per coordinate with a contact count,
// colored cool-to-hot by relative density (spec §6 `heatmap.svg`), grounded
// on the teacher pack's getHeatmapColor interpolation
// (dshills-dungo/pkg/export/svg.go).
func WriteFloorHeatmap(w io.Writer, fp *floorplan.Floorplan, locations map[geom.Point]int, width, height int) error {
	scale := newMapScale(fp.Bounds(), width, height, 40)
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")
	for i := range fp.Spaces {
		sp := &fp.Spaces[i]
		drawSpaceOutline(canvas, scale, sp, "fill:none;stroke:#cccccc;stroke-width:1")
	}

	max := 0
	for _, n := range locations {
		if n > max {
			max = n
		}
	}
	points := make([]geom.Point, 0, len(locations))
	for p := range locations {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].X != points[j].X {
			return points[i].X < points[j].X
		}
		return points[i].Y < points[j].Y
	})
	for _, p := range points {
		n := locations[p]
		x, y := scale.project(p)
		intensity := 0.0
		if max > 0 {
			intensity = float64(n) / float64(max)
		}
		color := heatmapColor(intensity)
		canvas.Circle(x, y, 6, fmt.Sprintf("fill:%s;opacity:%.2f;stroke:none", color, 0.4+intensity*0.5))
	}
	canvas.End()
	return nil
}

func drawSpaceOutline(canvas *svg.SVG, scale mapScale, sp *floorplan.Space, style string) {
	verts := sp.Boundary.Vertices
	if len(verts) == 0 {
		return
	}
	xs := make([]int, len(verts))
	ys := make([]int, len(verts))
	for i, v := range verts {
		xs[i], ys[i] = scale.project(v)
	}
	canvas.Polygon(xs, ys, style)
}

// heatmapColor interpolates cool (blue) to hot (red) by density, the same
// four-band scheme the example pack uses for its own difficulty heatmap.
func heatmapColor(intensity float64) string {
	switch {
	case intensity < 0.25:
		return "#3b82f6"
	case intensity < 0.5:
		return "#10b981"
	case intensity < 0.75:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}

// WriteFloorContactsText writes contacts.txt: one "x y n_contacts" line per
// recorded location on a floor, sorted for deterministic output (spec §6).
func WriteFloorContactsText(w io.Writer, locations map[geom.Point]int) error {
	points := make([]geom.Point, 0, len(locations))
	for p := range locations {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].X != points[j].X {
			return points[i].X < points[j].X
		}
		return points[i].Y < points[j].Y
	})
	for _, p := range points {
		if _, err := fmt.Fprintf(w, "%g %g %d\n", p.X, p.Y, locations[p]); err != nil {
			return err
		}
	}
	return nil
}
