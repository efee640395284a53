// Package schedule builds one Agent's daily Schedule: start/exit time
// sampling, routed entry/exit, and a repeated find-next-item loop over
// office work, breaks, and meetings (spec §4.7, C8). It is the per-agent
// counterpart to a per-agent corridor of waypoints, generalized from a
// fixed navmesh corridor to a purpose-driven itinerary built once before
// the simulation loop runs.
package schedule

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/corning-incorporated/citam/agent"
	"github.com/corning-incorporated/citam/config"
	"github.com/corning-incorporated/citam/facility"
	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/geom"
	"github.com/corning-incorporated/citam/internal/citamlog"
	"github.com/corning-incorporated/citam/meeting"
	"github.com/corning-incorporated/citam/nav"
)

// ScheduleBuildError is raised when a schedule cannot be completed: not
// enough time before the next meeting or exit, no route to a target, or no
// office/entrance available (spec §7). BuildOne retries once with a new
// office; if that also fails, run-sim aborts the run.
type ScheduleBuildError struct {
	Reason string
}

func (e *ScheduleBuildError) Error() string {
	return fmt.Sprintf("schedule: %s", e.Reason)
}

// DefaultPurposeRules returns sane per-purpose scheduling rules for a
// facility that supplies no `scheduling_policy` document (SPEC_FULL §3).
func DefaultPurposeRules() map[agent.Purpose]config.PurposeRule {
	return map[agent.Purpose]config.PurposeRule{
		agent.PurposeOfficeWork: {
			MinDuration: 30, MaxDuration: 480, MinInterarrival: 0,
			AllowedAdjacency: []string{"OFFICE_WORK", "MEETING", "RESTROOM_VISIT", "CAFETERIA_VISIT"},
		},
		agent.PurposeRestroomVisit: {
			MinDuration: 3, MaxDuration: 10, MinInterarrival: 60,
			AllowedAdjacency: []string{"OFFICE_WORK"},
		},
		agent.PurposeCafeteriaVisit: {
			MinDuration: 15, MaxDuration: 45, MinInterarrival: 120,
			AllowedAdjacency: []string{"OFFICE_WORK"},
		},
	}
}

// Builder builds Schedules for agents assigned to one floor's office pool.
type Builder struct {
	rng   *rand.Rand
	rules map[agent.Purpose]config.PurposeRule
	fac   *facility.Facility
	graph *nav.MultiFloorGraph
	log   *citamlog.Logger

	// Pace is the number of drawing units traversed per timestep: scale x
	// walking_speed_m_per_step, typically 2-6 (spec §4.7).
	Pace float64
	// Daylength and Buffer bound exit_time sampling (spec §4.7, §9 Open
	// Question: window is [daylength-buffer, daylength+buffer] inclusive).
	Daylength int
	Buffer    int
}

// NewBuilder returns a Builder seeded by seed.
func NewBuilder(seed int64, rules map[agent.Purpose]config.PurposeRule, fac *facility.Facility, graph *nav.MultiFloorGraph, pace float64, daylength, buffer int, log *citamlog.Logger) *Builder {
	if rules == nil {
		rules = DefaultPurposeRules()
	}
	return &Builder{
		rng: rand.New(rand.NewSource(seed)), rules: rules, fac: fac, graph: graph,
		Pace: pace, Daylength: daylength, Buffer: buffer, log: log,
	}
}

// BuildOne draws an office on officeFloor and builds ag's full Schedule,
// retrying once with a different office on ScheduleBuildError (spec §7 /
// SPEC_FULL §3 office re-assignment retry).
func (b *Builder) BuildOne(ag *agent.Agent, officeFloor, shiftStart int, meetings []meeting.Meeting) error {
	officeID, ok := b.fac.DrawOffice(officeFloor)
	if !ok {
		return &ScheduleBuildError{Reason: "no office available on floor"}
	}

	if err := b.build(ag, officeFloor, officeID, shiftStart, meetings); err != nil {
		b.fac.ReleaseOffice(officeFloor, officeID)
		if b.log != nil {
			b.log.Warn("schedule build failed, retrying with a new office: " + err.Error())
		}

		officeID2, ok := b.fac.DrawOffice(officeFloor)
		if !ok {
			return err
		}
		if err2 := b.build(ag, officeFloor, officeID2, shiftStart, meetings); err2 != nil {
			b.fac.ReleaseOffice(officeFloor, officeID2)
			return err2
		}
	}
	return nil
}

func (b *Builder) build(ag *agent.Agent, officeFloor int, officeID floorplan.SpaceID, shiftStart int, meetings []meeting.Meeting) error {
	entrance, ok := b.fac.ChooseBestEntrance(officeFloor, officeID)
	if !ok {
		return &ScheduleBuildError{Reason: "no entrance found for office"}
	}

	startTime := clamp(poissonSample(b.rng, float64(shiftStart)), 0, 2*shiftStart)
	exitTime := clamp(poissonSample(b.rng, float64(b.Daylength)), b.Daylength-b.Buffer, b.Daylength+b.Buffer)

	fp := b.fac.Floorplans[officeFloor]
	officeCenter := fp.Space(officeID).Center()

	entryRoute := nav.ShortestRouteMultiFloor(b.graph, entrance.Point, entrance.Floor, officeCenter, officeFloor)
	if entryRoute == nil {
		return &ScheduleBuildError{Reason: "no route from entrance to office"}
	}

	itinerary := unrollMultiFloor(entryRoute, b.Pace)
	items := []agent.ScheduleItem{{Purpose: agent.PurposeTransit, Location: int(officeID), Floor: officeFloor, Duration: len(itinerary)}}

	currentPoint, currentFloor := officeCenter, officeFloor
	prevPurpose := agent.PurposeTransit
	lastUse := make(map[agent.Purpose]int)
	currentTime := startTime + len(itinerary)
	meetingIdx := 0

	for currentTime < exitTime {
		var item agent.ScheduleItem
		var targetPoint geom.Point
		var targetFloor int
		var targetLoc floorplan.SpaceID

		if meetingIdx < len(meetings) && meetings[meetingIdx].Window.Start <= currentTime {
			m := meetings[meetingIdx]
			meetingIdx++
			dur := m.Window.End - m.Window.Start
			if dur <= 0 {
				continue
			}
			targetFloor = m.Floor
			targetLoc = floorplan.SpaceID(m.Location)
			targetPoint = b.fac.Floorplans[m.Floor].Space(targetLoc).Center()
			item = agent.ScheduleItem{Purpose: agent.PurposeMeeting, Location: m.Location, Floor: m.Floor, Duration: dur}
		} else {
			purpose, err := b.pickPurpose(prevPurpose, lastUse, currentTime)
			if err != nil {
				return err
			}
			rule := b.rules[purpose]
			dur := b.sampleDuration(rule)
			if meetingIdx < len(meetings) {
				if maxAllowed := meetings[meetingIdx].Window.Start - currentTime; dur > maxAllowed {
					dur = maxAllowed
				}
			}
			if remaining := exitTime - currentTime; dur > remaining {
				dur = remaining
			}
			if dur < rule.MinDuration {
				return &ScheduleBuildError{Reason: "insufficient time before next meeting or exit"}
			}

			loc, floorNum, ok := b.pickLocation(purpose, officeFloor, officeID)
			if !ok {
				return &ScheduleBuildError{Reason: "no location available for purpose " + purpose.String()}
			}
			targetLoc = loc
			targetFloor = floorNum
			targetPoint = b.fac.Floorplans[floorNum].Space(loc).Center()
			item = agent.ScheduleItem{Purpose: purpose, Location: int(loc), Floor: floorNum, Duration: dur}
			lastUse[purpose] = currentTime
		}

		route := nav.ShortestRouteMultiFloor(b.graph, currentPoint, currentFloor, targetPoint, targetFloor)
		if route == nil {
			return &ScheduleBuildError{Reason: "no route to " + item.Purpose.String()}
		}
		transitPts := unrollMultiFloor(route, b.Pace)
		itinerary = append(itinerary, transitPts...)
		items = append(items, agent.ScheduleItem{Purpose: agent.PurposeTransit, Location: int(targetLoc), Floor: targetFloor, Duration: len(transitPts)})
		itinerary = append(itinerary, pad(targetPoint, targetFloor, int(targetLoc), item.Duration)...)
		items = append(items, item)

		currentTime += len(transitPts) + item.Duration
		currentPoint, currentFloor = targetPoint, targetFloor
		prevPurpose = item.Purpose
	}

	exitRoute := nav.ShortestRouteMultiFloor(b.graph, currentPoint, currentFloor, entrance.Point, entrance.Floor)
	if exitRoute == nil {
		return &ScheduleBuildError{Reason: "no route from current location to exit"}
	}
	exitPts := unrollMultiFloor(exitRoute, b.Pace)
	itinerary = append(itinerary, exitPts...)
	items = append(items, agent.ScheduleItem{Purpose: agent.PurposeTransit, Location: int(officeID), Floor: officeFloor, Duration: len(exitPts)})

	ag.Schedule = agent.Schedule{
		StartTime: startTime, ExitTime: exitTime,
		EntranceDoor: int(entrance.Door), EntranceFloor: entrance.Floor,
		ExitDoor: int(entrance.Door), ExitFloor: entrance.Floor,
		OfficeLocation: int(officeID), OfficeFloor: officeFloor,
		Items:     mergeAdjacent(items),
		Itinerary: itinerary,
	}
	return nil
}

// pickPurpose chooses a valid next purpose, excluding consecutive
// identical breaks, rules whose min_interarrival hasn't elapsed, and
// transitions the previous purpose's rule disallows (spec §4.7 step 4,
// SPEC_FULL §3).
func (b *Builder) pickPurpose(prev agent.Purpose, lastUse map[agent.Purpose]int, currentTime int) (agent.Purpose, error) {
	candidates := []agent.Purpose{agent.PurposeOfficeWork, agent.PurposeRestroomVisit, agent.PurposeCafeteriaVisit}
	prevRule, prevHasRule := b.rules[prev]

	for _, idx := range b.rng.Perm(len(candidates)) {
		p := candidates[idx]
		if p != agent.PurposeOfficeWork && p == prev {
			continue // no back-to-back identical breaks
		}
		if rule, ok := b.rules[p]; ok {
			if last, seen := lastUse[p]; seen && currentTime-last < rule.MinInterarrival {
				continue
			}
		}
		if prevHasRule && len(prevRule.AllowedAdjacency) > 0 && !containsStr(prevRule.AllowedAdjacency, p.String()) {
			continue
		}
		return p, nil
	}
	return agent.PurposeOfficeWork, &ScheduleBuildError{Reason: "no valid purpose available"}
}

func (b *Builder) sampleDuration(rule config.PurposeRule) int {
	if rule.MaxDuration <= rule.MinDuration {
		return rule.MinDuration
	}
	return rule.MinDuration + b.rng.Intn(rule.MaxDuration-rule.MinDuration+1)
}

// pickLocation resolves a purpose to a target space on floorNum, returning
// the office itself for OFFICE_WORK or a random matching space from the
// facility's classification vectors for a break purpose.
func (b *Builder) pickLocation(purpose agent.Purpose, officeFloor int, officeID floorplan.SpaceID) (floorplan.SpaceID, int, bool) {
	switch purpose {
	case agent.PurposeOfficeWork:
		return officeID, officeFloor, true
	case agent.PurposeRestroomVisit:
		return b.pickFrom(b.fac.Restrooms[officeFloor], officeFloor)
	case agent.PurposeCafeteriaVisit:
		return b.pickFrom(b.fac.Cafes[officeFloor], officeFloor)
	default:
		return 0, 0, false
	}
}

func (b *Builder) pickFrom(ids []floorplan.SpaceID, floorNum int) (floorplan.SpaceID, int, bool) {
	if len(ids) == 0 {
		return 0, 0, false
	}
	return ids[b.rng.Intn(len(ids))], floorNum, true
}

// pad returns duration repeated copies of p/floor, used when a schedule
// item holds the agent stationary for its whole duration (spec §4.7 step
// 4: "pad with item.location x duration").
func pad(p geom.Point, floorNum int, location int, duration int) []agent.ItineraryPoint {
	if duration <= 0 {
		return nil
	}
	pts := make([]agent.ItineraryPoint, duration)
	for i := range pts {
		pts[i] = agent.ItineraryPoint{Point: p, Floor: floorNum, Location: location}
	}
	return pts
}

// unrollMultiFloor unrolls each same-floor run of a multi-floor route
// independently at step (spec §4.4 `unroll_route`, generalized across
// floor transitions). Transit points carry no Location: the agent is
// between spaces (spec §3 "Space id or null").
func unrollMultiFloor(route []nav.FloorPoint, step float64) []agent.ItineraryPoint {
	var out []agent.ItineraryPoint
	i := 0
	for i < len(route) {
		floorNum := route[i].Floor
		var pts []geom.Point
		j := i
		for j < len(route) && route[j].Floor == floorNum {
			pts = append(pts, route[j].Point)
			j++
		}
		for _, p := range nav.UnrollRoute(pts, step) {
			out = append(out, agent.ItineraryPoint{Point: p, Floor: floorNum, Location: -1})
		}
		i = j
	}
	return out
}

// mergeAdjacent merges consecutive ScheduleItems sharing purpose, location
// and floor, summing their durations (spec §4.7 step 6).
func mergeAdjacent(items []agent.ScheduleItem) []agent.ScheduleItem {
	if len(items) == 0 {
		return items
	}
	out := []agent.ScheduleItem{items[0]}
	for _, it := range items[1:] {
		last := &out[len(out)-1]
		if last.Purpose == it.Purpose && last.Location == it.Location && last.Floor == it.Floor {
			last.Duration += it.Duration
			continue
		}
		out = append(out, it)
	}
	return out
}

func containsStr(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// poissonSample draws from Poisson(lambda) via Knuth's direct method (the
// same distribution the original samples through numpy).
func poissonSample(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	// exp(-lambda) underflows for large lambda, so draw in chunks: a sum of
	// independent Poisson variates is Poisson with the summed rate.
	const chunk = 500.0
	total := 0
	for lambda > chunk {
		total += poissonSample(rng, chunk)
		lambda -= chunk
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= rng.Float64()
		if p <= l {
			break
		}
	}
	return total + k - 1
}

// ShiftPlanner partitions a shared agent pool across shifts without
// replacement via each shift's PercentWorkforce (SPEC_FULL §3, from the
// original's office_scheduler.run).
type ShiftPlanner struct {
	rng *rand.Rand
}

// NewShiftPlanner returns a ShiftPlanner seeded by seed.
func NewShiftPlanner(seed int64) *ShiftPlanner {
	return &ShiftPlanner{rng: rand.New(rand.NewSource(seed))}
}

// Partition shuffles agentIDs and assigns a prefix to each shift in turn,
// sized by PercentWorkforce of the total agent count.
func (p *ShiftPlanner) Partition(agentIDs []int, shifts []config.Shift) map[string][]int {
	pool := append([]int(nil), agentIDs...)
	p.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	result := make(map[string][]int, len(shifts))
	idx := 0
	for _, sh := range shifts {
		n := int(float64(len(agentIDs)) * sh.PercentWorkforce)
		if idx+n > len(pool) {
			n = len(pool) - idx
		}
		if n < 0 {
			n = 0
		}
		result[sh.Name] = pool[idx : idx+n]
		idx += n
	}
	return result
}
