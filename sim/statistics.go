package sim

// Statistic is one named, valued, unit-tagged entry of statistics.json
// (spec §6 `statistics.json`: `{SimulationName, data: [{name,value,unit}]}`).
type Statistic struct {
	Name  string
	Value float64
	Unit  string
}

// Statistics is the six named aggregates `extract_statistics` computes at
// the end of a run (spec §4.8 Finalize, SPEC_FULL §3).
type Statistics struct {
	TotalContactDuration       float64
	AvgContactDurationPerAgent float64
	NumberOfAgentsWithContacts int
	AvgNumberOfPeoplePerAgent  float64
	MaxContactDuration         float64
	NumberOfContacts           int
}

// Finalize computes the run's Statistics from the accumulated
// ContactEvents and agent roster (spec §4.8 "Finalize").
func (s *Simulation) Finalize() Statistics {
	events := s.contacts.All()

	var stats Statistics
	stats.NumberOfContacts = len(events)
	for _, e := range events {
		stats.TotalContactDuration += float64(e.Duration)
		if float64(e.Duration) > stats.MaxContactDuration {
			stats.MaxContactDuration = float64(e.Duration)
		}
	}

	if n := len(s.Agents); n > 0 {
		// each event increments two agents' cumulative_contact_duration.
		stats.AvgContactDurationPerAgent = stats.TotalContactDuration * 2 / float64(n)
	}

	for _, a := range s.Agents {
		if a.CumulativeContactDuration > 0 {
			stats.NumberOfAgentsWithContacts++
		}
	}

	if n := len(s.contactedPeers); n > 0 {
		var total int
		for _, peers := range s.contactedPeers {
			total += len(peers)
		}
		stats.AvgNumberOfPeoplePerAgent = float64(total) / float64(len(s.Agents))
	}

	return stats
}

// AsStatisticsList renders Statistics in statistics.json's
// {name,value,unit} shape.
func (st Statistics) AsStatisticsList() []Statistic {
	return []Statistic{
		{Name: "TotalContactDuration", Value: st.TotalContactDuration, Unit: "timesteps"},
		{Name: "AvgContactDurationPerAgent", Value: st.AvgContactDurationPerAgent, Unit: "timesteps"},
		{Name: "NumberOfAgentsWithContacts", Value: float64(st.NumberOfAgentsWithContacts), Unit: "agents"},
		{Name: "AvgNumberOfPeoplePerAgent", Value: st.AvgNumberOfPeoplePerAgent, Unit: "people"},
		{Name: "MaxContactDuration", Value: st.MaxContactDuration, Unit: "timesteps"},
		{Name: "NumberOfContacts", Value: float64(st.NumberOfContacts), Unit: "events"},
	}
}
