// Package meeting generates a set of Meetings honoring capacity,
// per-person frequency, per-room usage, non-overlap and buffer constraints
// (spec §4.6, C7). It keeps the Attendee/Room/TimeInterval vocabulary of a
// meeting-scheduling library, trading its exact-solver approach for the
// spec's bounded-attempt greedy sampler, since only aggregate bounds are
// required, not optimality.
package meeting

import (
	"math/rand"

	"github.com/corning-incorporated/citam/config"
)

// maxPlacementAttempts bounds how many random windows/attendee draws are
// tried before a meeting is dropped (spec §4.6 step 3/4 "bounded number of
// attempts").
const maxPlacementAttempts = 50

// Room is one candidate meeting space.
type Room struct {
	SpaceID  int
	Floor    int
	Capacity int
}

// TimeInterval is a half-open [Start, End) window in timesteps.
type TimeInterval struct {
	Start, End int
}

// Overlaps reports whether i and o share any timestep.
func (i TimeInterval) Overlaps(o TimeInterval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Meeting is one scheduled meeting (spec §3).
type Meeting struct {
	Location  int
	Floor     int
	Window    TimeInterval
	Attendees []int
}

// Scheduler generates Meetings from a pool of Rooms and candidate
// attendees, driven by a single seeded PRNG (spec §5/§9: "a single PRNG
// seeded at construction time").
type Scheduler struct {
	rng       *rand.Rand
	params    config.MeetingPolicyParams
	daylength int
}

// NewScheduler returns a Scheduler seeded by seed.
func NewScheduler(seed int64, params config.MeetingPolicyParams, daylength int) *Scheduler {
	return &Scheduler{rng: rand.New(rand.NewSource(seed)), params: params, daylength: daylength}
}

// poolEntry tracks one candidate attendee's booking state.
type poolEntry struct {
	agentID       int
	meetingsSoFar int
	bookings      []TimeInterval
}

// Schedule runs the full algorithm of spec §4.6 over rooms and agentIDs,
// returning the accepted Meetings.
func (s *Scheduler) Schedule(rooms []Room, agentIDs []int) []Meeting {
	selected := s.selectRooms(rooms)

	pool := make([]*poolEntry, len(agentIDs))
	for i, id := range agentIDs {
		pool[i] = &poolEntry{agentID: id}
	}

	roomBookings := make(map[int][]TimeInterval, len(selected)) // by room SpaceID

	var meetings []Meeting
	for _, room := range selected {
		target := s.targetMeetingCount()
		for n := 0; n < target; n++ {
			m, ok := s.scheduleOne(room, roomBookings[room.SpaceID], pool)
			if !ok {
				continue
			}
			roomBookings[room.SpaceID] = append(roomBookings[room.SpaceID], m.Window)
			meetings = append(meetings, m)
		}
	}
	return meetings
}

// selectRooms shuffles rooms and takes the first
// ceil(PercentMeetingRoomsUsed * |rooms|) of them (spec §4.6 step 1).
func (s *Scheduler) selectRooms(rooms []Room) []Room {
	shuffled := append([]Room(nil), rooms...)
	s.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	n := int(ceil(s.params.PercentMeetingRoomsUsed * float64(len(shuffled))))
	if n > len(shuffled) {
		n = len(shuffled)
	}
	if n < 0 {
		n = 0
	}
	return shuffled[:n]
}

func ceil(f float64) float64 {
	i := float64(int(f))
	if f > i {
		return i + 1
	}
	return i
}

// targetMeetingCount samples a target meeting count per room centered at
// AvgMeetingsPerRoom, by integer uniform ±1 (spec §4.6 step 2,
// "implementer's choice").
func (s *Scheduler) targetMeetingCount() int {
	avg := int(s.params.AvgMeetingsPerRoom)
	delta := s.rng.Intn(3) - 1 // -1, 0, or +1
	n := avg + delta
	if n < 0 {
		n = 0
	}
	return n
}

// scheduleOne attempts to place one meeting in room, avoiding overlap with
// existing (already booked in this room) and finding a qualifying
// attendee set from pool (spec §4.6 steps 3-5).
func (s *Scheduler) scheduleOne(room Room, existing []TimeInterval, pool []*poolEntry) (Meeting, bool) {
	duration := s.sampleDuration()

	window, ok := s.findWindow(duration, existing)
	if !ok {
		return Meeting{}, false
	}

	attendees, ok := s.pickAttendees(pool, window, room.Capacity)
	if !ok {
		return Meeting{}, false
	}

	for _, pe := range attendees {
		pe.meetingsSoFar++
		pe.bookings = append(pe.bookings, window)
	}

	ids := make([]int, len(attendees))
	for i, pe := range attendees {
		ids[i] = pe.agentID
	}

	return Meeting{Location: room.SpaceID, Floor: room.Floor, Window: window, Attendees: ids}, true
}

// sampleDuration draws a duration from the allowed grid
// [MinMeetingDuration, MaxMeetingLength] step MeetingDurationIncrement
// (spec §4.6 step 3).
func (s *Scheduler) sampleDuration() int {
	inc := s.params.MeetingDurationIncrement
	if inc <= 0 {
		inc = 1
	}
	steps := (s.params.MaxMeetingLength - s.params.MinMeetingDuration) / inc
	if steps < 0 {
		steps = 0
	}
	k := s.rng.Intn(steps + 1)
	return s.params.MinMeetingDuration + k*inc
}

// findWindow searches for a start time in [0, daylength-duration] such
// that [start,start+duration) is separated from every interval in
// existing by at least MinBufferBetweenMeetings and at most
// MaxBufferBetweenMeetings (spec §4.6 step 3).
func (s *Scheduler) findWindow(duration int, existing []TimeInterval) (TimeInterval, bool) {
	span := s.daylength - duration
	if span <= 0 {
		return TimeInterval{}, false
	}
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		start := s.rng.Intn(span + 1)
		w := TimeInterval{Start: start, End: start + duration}
		if s.fitsBuffer(w, existing) {
			return w, true
		}
	}
	return TimeInterval{}, false
}

func (s *Scheduler) fitsBuffer(w TimeInterval, existing []TimeInterval) bool {
	for _, e := range existing {
		if w.Overlaps(e) {
			return false
		}
		gap := gapBetween(w, e)
		if gap < s.params.MinBufferBetweenMeetings {
			return false
		}
	}
	// MaxBufferBetweenMeetings bounds the gap to the immediately adjacent
	// meeting on each side only -- it says nothing about unrelated meetings
	// hours apart, so it is checked against nearest neighbors, not every
	// existing interval.
	if s.params.MaxBufferBetweenMeetings > 0 {
		if prev, ok := nearestBefore(w, existing); ok {
			if gapBetween(w, prev) > s.params.MaxBufferBetweenMeetings {
				return false
			}
		}
		if next, ok := nearestAfter(w, existing); ok {
			if gapBetween(w, next) > s.params.MaxBufferBetweenMeetings {
				return false
			}
		}
	}
	return true
}

// nearestBefore returns the existing interval ending closest to (but no
// later than) w.Start, if any.
func nearestBefore(w TimeInterval, existing []TimeInterval) (TimeInterval, bool) {
	var best TimeInterval
	found := false
	for _, e := range existing {
		if e.End > w.Start {
			continue
		}
		if !found || e.End > best.End {
			best = e
			found = true
		}
	}
	return best, found
}

// nearestAfter returns the existing interval starting closest to (but no
// earlier than) w.End, if any.
func nearestAfter(w TimeInterval, existing []TimeInterval) (TimeInterval, bool) {
	var best TimeInterval
	found := false
	for _, e := range existing {
		if e.Start < w.End {
			continue
		}
		if !found || e.Start < best.Start {
			best = e
			found = true
		}
	}
	return best, found
}

// gapBetween returns the number of timesteps strictly between two
// non-overlapping intervals.
func gapBetween(a, b TimeInterval) int {
	if a.End <= b.Start {
		return b.Start - a.End
	}
	return a.Start - b.End
}

// pickAttendees samples, without replacement, pool entries whose
// meetingsSoFar is below the hard cap and who have no conflicting booking,
// requiring between MinAttendeesPerMeeting and capacity entries (spec
// §4.6 step 4).
func (s *Scheduler) pickAttendees(pool []*poolEntry, window TimeInterval, capacity int) ([]*poolEntry, bool) {
	hardCap := 2 * s.params.AvgMeetingsPerPerson

	var candidates []*poolEntry
	for _, pe := range pool {
		if float64(pe.meetingsSoFar) >= hardCap {
			continue
		}
		if hasConflict(pe.bookings, window) {
			continue
		}
		candidates = append(candidates, pe)
	}

	if len(candidates) < s.params.MinAttendeesPerMeeting {
		return nil, false
	}

	s.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	size := capacity
	if size > len(candidates) {
		size = len(candidates)
	}
	if size < s.params.MinAttendeesPerMeeting {
		return nil, false
	}
	// pick a count uniformly between min and size, inclusive.
	n := s.params.MinAttendeesPerMeeting
	if size > n {
		n += s.rng.Intn(size - n + 1)
	}
	return candidates[:n], true
}

func hasConflict(bookings []TimeInterval, w TimeInterval) bool {
	for _, b := range bookings {
		if b.Overlaps(w) {
			return true
		}
	}
	return false
}
