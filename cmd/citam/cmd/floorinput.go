package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/ingest"
)

// floorInput is the on-disk JSON shape fed to `citam build-nav`: one
// floor's space polygons and door segments, the output of the external
// SVG/CSV floorplan parser the core is never responsible for (spec §1,
// §6 "out of scope").
type floorInput struct {
	Spaces []spaceInput `json:"spaces"`
	Doors  []doorInput  `json:"doors"`
}

type spaceInput struct {
	UniqueName string      `json:"unique_name"`
	Function   string      `json:"function"`
	Building   string      `json:"building"`
	Capacity   int         `json:"capacity"`
	Boundary   []pointJSON `json:"boundary"`
}

type doorInput struct {
	A             pointJSON `json:"a"`
	B             pointJSON `json:"b"`
	EmergencyOnly bool      `json:"emergency_only"`
	InService     bool      `json:"in_service"`
	SpecialAccess bool      `json:"special_access"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p pointJSON) toPoint() geom.Point { return geom.Pt(p.X, p.Y) }

var spaceFunctionByName = map[string]floorplan.SpaceFunction{
	"office":    floorplan.FunctionOffice,
	"meeting":   floorplan.FunctionMeeting,
	"cafeteria": floorplan.FunctionCafeteria,
	"restroom":  floorplan.FunctionRestroom,
	"aisle":     floorplan.FunctionAisle,
	"lab":       floorplan.FunctionLab,
	"stairs":    floorplan.FunctionStairs,
	"entrance":  floorplan.FunctionEntrance,
	"other":     floorplan.FunctionOther,
}

// loadFloorInput decodes a floorInput document and converts it to the
// ingest.SpaceInput/DoorInput slices package ingest expects.
func loadFloorInput(r io.Reader) ([]ingest.SpaceInput, []ingest.DoorInput, error) {
	var doc floorInput
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("citam: decode floor input: %w", err)
	}

	spaces := make([]ingest.SpaceInput, len(doc.Spaces))
	for i, s := range doc.Spaces {
		fn, ok := spaceFunctionByName[strings.ToLower(s.Function)]
		if !ok {
			return nil, nil, fmt.Errorf("citam: space %q: unknown function %q", s.UniqueName, s.Function)
		}
		verts := make([]geom.Point, len(s.Boundary))
		for j, p := range s.Boundary {
			verts[j] = p.toPoint()
		}
		spaces[i] = ingest.SpaceInput{
			UniqueName: s.UniqueName,
			Function:   fn,
			Building:   s.Building,
			Capacity:   s.Capacity,
			Boundary:   geom.Polygon{Vertices: verts},
		}
	}

	doors := make([]ingest.DoorInput, len(doc.Doors))
	for i, d := range doc.Doors {
		doors[i] = ingest.DoorInput{
			Segment:       geom.Seg(d.A.toPoint(), d.B.toPoint()),
			EmergencyOnly: d.EmergencyOnly,
			InService:     d.InService,
			SpecialAccess: d.SpecialAccess,
		}
	}

	return spaces, doors, nil
}
