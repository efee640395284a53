package citamio

import (
	"encoding/json"
	"io"

	"github.com/corning-incorporated/citam/sim"
)

// statisticsFile is the on-disk shape of statistics.json (spec §6:
// "{SimulationName, data: [{name,value,unit}]}").
type statisticsFile struct {
	SimulationName string             `json:"SimulationName"`
	Data           []statisticsRecord `json:"data"`
}

type statisticsRecord struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// WriteStatistics encodes a run's Statistics to statistics.json (spec §6).
func WriteStatistics(w io.Writer, simulationName string, stats sim.Statistics) error {
	file := statisticsFile{SimulationName: simulationName}
	for _, s := range stats.AsStatisticsList() {
		file.Data = append(file.Data, statisticsRecord{Name: s.Name, Value: s.Value, Unit: s.Unit})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(file)
}
