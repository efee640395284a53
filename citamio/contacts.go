package citamio

import (
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/sim"
)

// WritePairContacts writes pair_contact.csv: header
// "agent1,agent2,n_contacts", one row per pair that ever contacted, sorted
// by pair_key for deterministic output (spec §6, §5 determinism).
func WritePairContacts(w io.Writer, totals map[string]int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"agent1", "agent2", "n_contacts"}); err != nil {
		return err
	}
	for _, key := range sortedKeys(totals) {
		a1, a2, err := splitPairKey(key)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{strconv.Itoa(a1), strconv.Itoa(a2), strconv.Itoa(totals[key])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteContactDistPerAgent writes contact_dist_per_agent.csv: header
// "agent_ID,Number_of_Contacts", sorted by agent id (spec §6).
func WriteContactDistPerAgent(w io.Writer, counts map[int]int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"agent_ID", "Number_of_Contacts"}); err != nil {
		return err
	}
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if err := cw.Write([]string{strconv.Itoa(id), strconv.Itoa(counts[id])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteContactDistPerCoord writes one floor's contact_dist_per_coord.csv:
// header "x,y,n_contacts", sorted by (x,y) for deterministic output
// (spec §6, per-floor sub-directory).
func WriteContactDistPerCoord(w io.Writer, locations map[geom.Point]int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "n_contacts"}); err != nil {
		return err
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
		row := []string{
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			strconv.Itoa(locations[p]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRawContactData writes raw_contact_data.ccd: a binary dump of the
// full ContactEvent list (spec §6), one fixed-size header per event
// (both agent ids, start step, duration, floor, position count, each an
// int32) followed by
// that many (x,y) float64 pairs, all little-endian -- the same explicit,
// field-by-field binary.Write the teacher uses for its own tile headers
// (detour/structs.go).
func WriteRawContactData(w io.Writer, events []*sim.ContactEvent) error {
	for _, e := range events {
		a1, a2, err := splitPairKey(e.PairKey)
		if err != nil {
			return err
		}
		fields := []interface{}{
			int32(a1), int32(a2),
			int32(e.StartStep), int32(e.Duration), int32(e.Floor),
			int32(len(e.Positions)),
		}
		for _, f := range fields {
			if err := binary.Write(w, binary.LittleEndian, f); err != nil {
				return err
			}
		}
		for _, p := range e.Positions {
			if err := binary.Write(w, binary.LittleEndian, p.X); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, p.Y); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitPairKey(key string) (int, int, error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("citamio: malformed pair key %q", key)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("citamio: malformed pair key %q: %w", key, err)
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("citamio: malformed pair key %q: %w", key, err)
	}
	return a, b, nil
}
