// Package config models CITAM's input documents: the top-level
// SimulationConfig (JSON, spec §6) and the optional scheduling/meeting
// policy documents (YAML, loaded the way the teacher loads recast.yml
// build settings in cmd/recast/cmd/utils.go).
package config

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

// Shift is one named work shift drawing from the shared agent pool (spec
// §6 `shifts`).
type Shift struct {
	Name           string  `json:"name"`
	StartTime      int     `json:"start_time"`
	PercentWorkforce float64 `json:"percent_workforce"`
}

// Entrance names a facility entrance by floor.
type Entrance struct {
	Name  string `json:"name"`
	Floor int    `json:"floor"`
}

// TrafficPolicyEntry is one entry of the top-level `traffic_policy` array
// (spec §6, realized in package nav as nav.TrafficPolicyEntry).
type TrafficPolicyEntry struct {
	Floor     int `json:"floor"`
	SegmentID int `json:"segment_id"`
	Direction int `json:"direction"`
}

// SimulationConfig is the required top-level run configuration (spec §6).
// NAgents and OccupancyRate are mutually exclusive; exactly one must be
// set (checked by LoadSimulationConfig).
type SimulationConfig struct {
	FacilityName     string   `json:"facility_name"`
	Floors           []string `json:"floors"`
	Entrances        []Entrance `json:"entrances"`
	NAgents          int      `json:"n_agents,omitempty"`
	OccupancyRate    float64  `json:"occupancy_rate,omitempty"`
	Daylength        int      `json:"daylength"`
	Buffer           int      `json:"buffer"`
	Timestep         float64  `json:"timestep"`
	ContactDistance  float64  `json:"contact_distance"`
	Shifts           []Shift  `json:"shifts"`
	SchedulingPolicy *SchedulingPolicy `json:"scheduling_policy"`
	MeetingPolicy    *MeetingPolicyParams `json:"meetings_policy_params"`
	TrafficPolicy    []TrafficPolicyEntry `json:"traffic_policy"`
	OutputDirectory  string   `json:"output_directory"`
	UploadLocation   string   `json:"upload_location"`
}

// LoadSimulationConfig decodes a SimulationConfig from r (spec §6: JSON).
func LoadSimulationConfig(r io.Reader) (*SimulationConfig, error) {
	var cfg SimulationConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode simulation config: %w", err)
	}
	if (cfg.NAgents > 0) == (cfg.OccupancyRate > 0) {
		return nil, fmt.Errorf("config: exactly one of n_agents or occupancy_rate must be set")
	}
	return &cfg, nil
}

// PurposeRule is one purpose's scheduling rule set (SPEC_FULL §3, from
// `citam/engine/policy/daily_schedule.py`): min/max duration, the minimum
// number of timesteps since this purpose was last used, and the set of
// purposes allowed to directly follow it.
type PurposeRule struct {
	MinDuration      int      `json:"min_duration" yaml:"min_duration"`
	MaxDuration      int      `json:"max_duration" yaml:"max_duration"`
	MinInterarrival  int      `json:"min_interarrival" yaml:"min_interarrival"`
	AllowedAdjacency []string `json:"allowed_adjacency" yaml:"allowed_adjacency"`
}

// SchedulingPolicy is the optional YAML-capable scheduling rules document
// (spec §6 `scheduling_policy`), keyed by purpose name. It is also embedded
// directly in SimulationConfig, which is decoded with encoding/json, so its
// fields carry both yaml and json tags.
type SchedulingPolicy struct {
	Rules map[string]PurposeRule `json:"rules" yaml:"rules"`
}

// MeetingPolicyParams is the optional YAML-capable meeting scheduler
// configuration (spec §6 `meetings_policy_params`, spec §4.6). It is also
// embedded directly in SimulationConfig, which is decoded with
// encoding/json, so its fields carry both yaml and json tags.
type MeetingPolicyParams struct {
	MinMeetingDuration       int     `json:"min_meeting_duration" yaml:"min_meeting_duration"`
	MaxMeetingLength         int     `json:"max_meeting_length" yaml:"max_meeting_length"`
	MeetingDurationIncrement int     `json:"meeting_duration_increment" yaml:"meeting_duration_increment"`
	AvgMeetingsPerRoom       float64 `json:"avg_meetings_per_room" yaml:"avg_meetings_per_room"`
	PercentMeetingRoomsUsed  float64 `json:"percent_meeting_rooms_used" yaml:"percent_meeting_rooms_used"`
	AvgMeetingsPerPerson     float64 `json:"avg_meetings_per_person" yaml:"avg_meetings_per_person"`
	MinAttendeesPerMeeting   int     `json:"min_attendees_per_meeting" yaml:"min_attendees_per_meeting"`
	MinBufferBetweenMeetings int     `json:"min_buffer_between_meetings" yaml:"min_buffer_between_meetings"`
	MaxBufferBetweenMeetings int     `json:"max_buffer_between_meetings" yaml:"max_buffer_between_meetings"`
}

// LoadSchedulingPolicy decodes a SchedulingPolicy document from r.
func LoadSchedulingPolicy(r io.Reader) (*SchedulingPolicy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var p SchedulingPolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: decode scheduling policy: %w", err)
	}
	return &p, nil
}

// LoadMeetingPolicyParams decodes a MeetingPolicyParams document from r.
func LoadMeetingPolicyParams(r io.Reader) (*MeetingPolicyParams, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var p MeetingPolicyParams
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: decode meeting policy params: %w", err)
	}
	return &p, nil
}

// DefaultMeetingPolicyParams returns the spec's reasonable defaults for a
// facility that supplies no `meetings_policy_params` document.
func DefaultMeetingPolicyParams() MeetingPolicyParams {
	return MeetingPolicyParams{
		MinMeetingDuration:       5,
		MaxMeetingLength:         60,
		MeetingDurationIncrement: 5,
		AvgMeetingsPerRoom:       3,
		PercentMeetingRoomsUsed:  0.75,
		AvgMeetingsPerPerson:     2,
		MinAttendeesPerMeeting:   2,
		MinBufferBetweenMeetings: 5,
		MaxBufferBetweenMeetings: 30,
	}
}
