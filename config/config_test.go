package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSimulationConfigRequiresAgentCountOrRate(t *testing.T) {
	body := `{"facility_name":"hq","floors":["1"],"daylength":1000,"buffer":50,"timestep":1,"contact_distance":6}`
	_, err := LoadSimulationConfig(strings.NewReader(body))
	assert.Error(t, err)
}

func TestLoadSimulationConfigAcceptsOccupancyRate(t *testing.T) {
	body := `{"facility_name":"hq","floors":["1"],"occupancy_rate":0.5,"daylength":1000,"buffer":50,"timestep":1,"contact_distance":6}`
	cfg, err := LoadSimulationConfig(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "hq", cfg.FacilityName)
	assert.InDelta(t, 0.5, cfg.OccupancyRate, 1e-9)
}

func TestLoadSimulationConfigPopulatesInlinePolicies(t *testing.T) {
	body := `{
		"facility_name":"hq","floors":["1"],"n_agents":10,
		"daylength":1000,"buffer":50,"timestep":1,"contact_distance":6,
		"scheduling_policy": {"rules": {"office_work": {"min_duration": 30}}},
		"meetings_policy_params": {"min_meeting_duration": 10, "max_meeting_length": 45}
	}`
	cfg, err := LoadSimulationConfig(strings.NewReader(body))
	require.NoError(t, err)
	require.NotNil(t, cfg.SchedulingPolicy)
	assert.Equal(t, 30, cfg.SchedulingPolicy.Rules["office_work"].MinDuration)
	require.NotNil(t, cfg.MeetingPolicy)
	assert.Equal(t, 10, cfg.MeetingPolicy.MinMeetingDuration)
	assert.Equal(t, 45, cfg.MeetingPolicy.MaxMeetingLength)
}

func TestLoadSchedulingPolicy(t *testing.T) {
	body := `
rules:
  OFFICE_WORK:
    min_duration: 30
    max_duration: 120
    min_interarrival: 0
    allowed_adjacency: [MEETING, RESTROOM_VISIT]
`
	p, err := LoadSchedulingPolicy(strings.NewReader(body))
	require.NoError(t, err)
	rule, ok := p.Rules["OFFICE_WORK"]
	require.True(t, ok)
	assert.Equal(t, 30, rule.MinDuration)
	assert.Contains(t, rule.AllowedAdjacency, "MEETING")
}

func TestLoadMeetingPolicyParams(t *testing.T) {
	body := `
min_meeting_duration: 10
max_meeting_length: 45
meeting_duration_increment: 5
avg_meetings_per_room: 4
percent_meeting_rooms_used: 0.8
avg_meetings_per_person: 2.5
min_attendees_per_meeting: 2
min_buffer_between_meetings: 5
max_buffer_between_meetings: 20
`
	p, err := LoadMeetingPolicyParams(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 10, p.MinMeetingDuration)
	assert.InDelta(t, 4.0, p.AvgMeetingsPerRoom, 1e-9)
}

func TestDefaultMeetingPolicyParams(t *testing.T) {
	d := DefaultMeetingPolicyParams()
	assert.Greater(t, d.MaxMeetingLength, d.MinMeetingDuration)
	assert.Greater(t, d.MeetingDurationIncrement, 0)
}
