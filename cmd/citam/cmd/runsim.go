package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corning-incorporated/citam/agent"
	"github.com/corning-incorporated/citam/citamio"
	"github.com/corning-incorporated/citam/config"
	"github.com/corning-incorporated/citam/facility"
	"github.com/corning-incorporated/citam/floorplan"
	"github.com/corning-incorporated/citam/ingest"
	"github.com/corning-incorporated/citam/internal/citamlog"
	"github.com/corning-incorporated/citam/meeting"
	"github.com/corning-incorporated/citam/nav"
	"github.com/corning-incorporated/citam/schedule"
	"github.com/corning-incorporated/citam/sim"
)

// defaultPace is the drawing units traversed per timestep used when the
// run configuration supplies no explicit walking pace (spec §4.7: "scale x
// walking_speed_m_per_step, typically 2-6").
const defaultPace = 4.0

var (
	runSimConfigPath string
	runSimFloors     []string
	runSimNavDir     string
	runSimSeed       int64
)

// runSimCmd represents the run-sim command.
var runSimCmd = &cobra.Command{
	Use:   "run-sim",
	Short: "run a full simulation and write its outputs",
	Long: `Ingest floorplans, load their pre-built navigation graphs, schedule
every agent's day, run the step simulation, and write manifest.json,
trajectory.txt, the contact files and statistics.json to the configured
output directory.`,
	RunE: doRunSim,
}

func init() {
	RootCmd.AddCommand(runSimCmd)

	runSimCmd.Flags().StringVar(&runSimConfigPath, "config", "", "SimulationConfig JSON file (required)")
	runSimCmd.Flags().StringArrayVar(&runSimFloors, "floor", nil,
		"floor input, as FLOORNUM:PATH.json (repeatable, required)")
	runSimCmd.Flags().StringVar(&runSimNavDir, "nav-dir", ".", "directory holding build-nav's output graphs")
	runSimCmd.Flags().Int64Var(&runSimSeed, "seed", 1, "PRNG seed driving every stochastic choice (spec §5 determinism)")
}

func doRunSim(cmd *cobra.Command, args []string) error {
	if runSimConfigPath == "" || len(runSimFloors) == 0 {
		return fmt.Errorf("citam: --config and at least one --floor are required")
	}
	log := citamlog.NewProduction()

	cfg, err := loadSimulationConfig(runSimConfigPath)
	if err != nil {
		return err
	}

	floors, graphs, hallways, entranceDoors, err := loadFloors(runSimFloors, runSimNavDir, log)
	if err != nil {
		return err
	}
	applyTrafficPolicy(graphs, cfg.TrafficPolicy)

	multiGraph := nav.NewMultiFloorGraph(graphs)
	wireStairs(multiGraph, floors)

	fac := facility.New(floors, multiGraph, hallways, entranceDoors)

	agents, err := buildAgentPool(cfg, fac, log)
	if err != nil {
		return err
	}

	totalSteps := cfg.Daylength + cfg.Buffer
	simulation := sim.New(agents, fac, cfg.ContactDistance, log)
	trajectory := citamio.NewTrajectoryWriter()
	simulation.OnStep = trajectory.Record
	simulation.Run(totalSteps)

	return writeOutputs(cfg, fac, simulation, trajectory)
}

func loadSimulationConfig(path string) (*config.SimulationConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("citam: open config: %w", err)
	}
	defer f.Close()
	return config.LoadSimulationConfig(f)
}

// loadFloors ingests every --floor input and loads its previously built
// nav/hallway graphs, and derives each floor's entrance doors from the
// spaces classified FunctionEntrance (facility-level designation, spec
// §4.5: "a floorplan's doors carry no is-an-entrance bit of their own").
func loadFloors(specs []string, navDir string, log *citamlog.Logger) (
	map[int]*floorplan.Floorplan, map[int]*nav.Graph, map[int]*nav.HallwayGraph, map[int][]floorplan.DoorID, error,
) {
	floors := make(map[int]*floorplan.Floorplan, len(specs))
	graphs := make(map[int]*nav.Graph, len(specs))
	hallways := make(map[int]*nav.HallwayGraph, len(specs))
	entranceDoors := make(map[int][]floorplan.DoorID, len(specs))

	ig := ingest.New(0, log)
	for _, spec := range specs {
		num, path, err := parseFloorFlag(spec)
		if err != nil {
			return nil, nil, nil, nil, err
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("citam: floor %d: %w", num, err)
		}
		spaces, doors, err := loadFloorInput(f)
		f.Close()
		if err != nil {
			return nil, nil, nil, nil, err
		}
		fp, warnings, err := ig.Ingest(spaces, doors)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("citam: floor %d: %w", num, err)
		}
		for _, w := range warnings {
			log.Warn(fmt.Sprintf("floor %d: %s", num, w.Message))
		}
		floors[num] = fp

		graphPath := filepath.Join(navDir, fmt.Sprintf("floor_%d.graph.json", num))
		gf, err := os.Open(graphPath)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("citam: floor %d: open graph: %w", num, err)
		}
		graph, err := nav.LoadGraph(gf)
		gf.Close()
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("citam: floor %d: load graph: %w", num, err)
		}
		graphs[num] = graph

		hallwayPath := filepath.Join(navDir, fmt.Sprintf("floor_%d.hallway.json", num))
		hf, err := os.Open(hallwayPath)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("citam: floor %d: open hallway graph: %w", num, err)
		}
		hg, err := nav.LoadHallwayGraph(hf)
		hf.Close()
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("citam: floor %d: load hallway graph: %w", num, err)
		}
		hallways[num] = hg

		for _, sid := range fp.SpacesByFunction(floorplan.FunctionEntrance) {
			for _, did := range fp.Space(sid).DoorIDs {
				entranceDoors[num] = append(entranceDoors[num], did)
			}
		}
	}
	return floors, graphs, hallways, entranceDoors, nil
}

// applyTrafficPolicy groups the config's flat TrafficPolicy entries by
// floor and removes the disallowed-direction edges from each floor's
// built graph (spec §4.4).
func applyTrafficPolicy(graphs map[int]*nav.Graph, entries []config.TrafficPolicyEntry) {
	byFloor := make(map[int][]nav.TrafficPolicyEntry)
	for _, e := range entries {
		byFloor[e.Floor] = append(byFloor[e.Floor], nav.TrafficPolicyEntry{
			Floor: e.Floor, SegmentID: nav.EdgeID(e.SegmentID), Direction: e.Direction,
		})
	}
	for floorNum, g := range graphs {
		if fentries, ok := byFloor[floorNum]; ok {
			nav.ApplyTrafficPolicy(g, fentries)
		}
	}
}

// wireStairs connects each pair of consecutive floors' stair spaces
// sharing a unique name, one flight apart (spec §3: "geometric
// correspondence").
func wireStairs(m *nav.MultiFloorGraph, floors map[int]*floorplan.Floorplan) {
	nums := make([]int, 0, len(floors))
	for n := range floors {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	for i := 1; i < len(nums); i++ {
		lower, upper := nums[i-1], nums[i]
		lowerFp, upperFp := floors[lower], floors[upper]
		for _, lsid := range lowerFp.SpacesByFunction(floorplan.FunctionStairs) {
			lowerSpace := lowerFp.Space(lsid)
			upperSpace, ok := upperFp.SpaceByName(lowerSpace.UniqueName)
			if !ok || upperSpace.Function != floorplan.FunctionStairs {
				continue
			}
			m.AddVerticalEdge(lowerSpace.Center(), lower, upperSpace.Center(), upper, 1)
		}
	}
}

var purposeByName = map[string]agent.Purpose{
	"OFFICE_WORK":      agent.PurposeOfficeWork,
	"MEETING":          agent.PurposeMeeting,
	"RESTROOM_VISIT":   agent.PurposeRestroomVisit,
	"CAFETERIA_VISIT":  agent.PurposeCafeteriaVisit,
}

func convertPurposeRules(policy *config.SchedulingPolicy) map[agent.Purpose]config.PurposeRule {
	if policy == nil {
		return nil
	}
	rules := make(map[agent.Purpose]config.PurposeRule, len(policy.Rules))
	for name, rule := range policy.Rules {
		if p, ok := purposeByName[strings.ToUpper(name)]; ok {
			rules[p] = rule
		}
	}
	return rules
}

// buildAgentPool sizes the agent pool, partitions it across shifts,
// schedules the building's meetings, then builds every agent's Schedule,
// round-robining offices across floors that have any (spec §4.5-§4.7).
func buildAgentPool(cfg *config.SimulationConfig, fac *facility.Facility, log *citamlog.Logger) ([]*agent.Agent, error) {
	officeFloors := make([]int, 0)
	for floorNum, offices := range fac.Offices {
		if len(offices) > 0 {
			officeFloors = append(officeFloors, floorNum)
		}
	}
	sort.Ints(officeFloors)
	if len(officeFloors) == 0 {
		return nil, fmt.Errorf("citam: no office spaces in any floor")
	}

	nAgents := cfg.NAgents
	if nAgents <= 0 {
		total := 0
		for _, floorNum := range officeFloors {
			total += len(fac.Offices[floorNum])
		}
		nAgents = int(math.Round(float64(total) * cfg.OccupancyRate))
	}

	agentIDs := make([]int, nAgents)
	for i := range agentIDs {
		agentIDs[i] = i
	}

	shifts := cfg.Shifts
	if len(shifts) == 0 {
		shifts = []config.Shift{{Name: "default", StartTime: 0, PercentWorkforce: 1}}
	}
	shiftPlanner := schedule.NewShiftPlanner(runSimSeed)
	byShift := shiftPlanner.Partition(agentIDs, shifts)

	meetingParams := config.DefaultMeetingPolicyParams()
	if cfg.MeetingPolicy != nil {
		meetingParams = *cfg.MeetingPolicy
	}
	var rooms []meeting.Room
	for floorNum, ids := range fac.MeetingRooms {
		fp := fac.Floorplans[floorNum]
		for _, id := range ids {
			rooms = append(rooms, meeting.Room{SpaceID: int(id), Floor: floorNum, Capacity: fp.Space(id).Capacity})
		}
	}
	meetingScheduler := meeting.NewScheduler(runSimSeed, meetingParams, cfg.Daylength)
	meetings := meetingScheduler.Schedule(rooms, agentIDs)

	meetingsByAgent := make(map[int][]meeting.Meeting, nAgents)
	for _, m := range meetings {
		for _, aid := range m.Attendees {
			meetingsByAgent[aid] = append(meetingsByAgent[aid], m)
		}
	}
	for aid := range meetingsByAgent {
		ms := meetingsByAgent[aid]
		sort.Slice(ms, func(i, j int) bool { return ms[i].Window.Start < ms[j].Window.Start })
		meetingsByAgent[aid] = ms
	}

	builder := schedule.NewBuilder(runSimSeed, convertPurposeRules(cfg.SchedulingPolicy), fac, fac.Graph, defaultPace, cfg.Daylength, cfg.Buffer, log)

	agents := make([]*agent.Agent, 0, nAgents)
	for _, sh := range shifts {
		for _, aid := range byShift[sh.Name] {
			ag := agent.NewAgent(aid)
			officeFloor := officeFloors[len(agents)%len(officeFloors)]
			if err := builder.BuildOne(ag, officeFloor, sh.StartTime, meetingsByAgent[aid]); err != nil {
				return nil, fmt.Errorf("citam: agent %d: schedule build failed: %w", aid, err)
			}
			agents = append(agents, ag)
		}
	}
	return agents, nil
}

func writeOutputs(cfg *config.SimulationConfig, fac *facility.Facility, simulation *sim.Simulation, trajectory *citamio.TrajectoryWriter) error {
	if err := os.MkdirAll(cfg.OutputDirectory, 0o755); err != nil {
		return fmt.Errorf("citam: create output directory: %w", err)
	}

	maxRoomOccupancy := 0
	for floorNum, rooms := range fac.MeetingRooms {
		fp := fac.Floorplans[floorNum]
		for _, sid := range rooms {
			if cap := fp.Space(sid).Capacity; cap > maxRoomOccupancy {
				maxRoomOccupancy = cap
			}
		}
	}

	if err := writeFile(cfg.OutputDirectory, "manifest.json", func(f *os.File) error {
		return citamio.WriteManifest(f, citamio.Manifest{
			RunID:                simulation.RunID.String(),
			SimulationName:       cfg.FacilityName,
			FacilityName:         cfg.FacilityName,
			NumberOfFloors:       len(fac.Floorplans),
			NumberOfOneWayAisles: len(cfg.TrafficPolicy),
			NumberOfAgents:       len(simulation.Agents),
			NumberOfShifts:       len(cfg.Shifts),
			NumberOfEntrances:    len(fac.Entrances),
			MaxRoomOccupancy:     maxRoomOccupancy,
			TrajectoryFile:       "trajectory.txt",
			Floors:               cfg.Floors,
			TimestepInSec:        cfg.Timestep,
			Timestep:             cfg.Timestep,
			ScaleMultiplier:      1.0,
		})
	}); err != nil {
		return err
	}

	if err := writeFile(cfg.OutputDirectory, "trajectory.txt", func(f *os.File) error {
		return trajectory.Flush(f)
	}); err != nil {
		return err
	}

	if err := writeFile(cfg.OutputDirectory, "pair_contact.csv", func(f *os.File) error {
		return citamio.WritePairContacts(f, simulation.PairTotals())
	}); err != nil {
		return err
	}

	if err := writeFile(cfg.OutputDirectory, "raw_contact_data.ccd", func(f *os.File) error {
		return citamio.WriteRawContactData(f, simulation.Contacts().All())
	}); err != nil {
		return err
	}

	if err := writeFile(cfg.OutputDirectory, "contact_dist_per_agent.csv", func(f *os.File) error {
		return citamio.WriteContactDistPerAgent(f, simulation.PeerCounts())
	}); err != nil {
		return err
	}

	if err := writeFile(cfg.OutputDirectory, "statistics.json", func(f *os.File) error {
		return citamio.WriteStatistics(f, cfg.FacilityName, simulation.Finalize())
	}); err != nil {
		return err
	}

	for _, floorNum := range simulation.Contacts().Floors() {
		floorDir := filepath.Join(cfg.OutputDirectory, strconv.Itoa(floorNum))
		if err := os.MkdirAll(floorDir, 0o755); err != nil {
			return fmt.Errorf("citam: create floor directory: %w", err)
		}
		locations := simulation.Contacts().LocationsByFloor(floorNum)
		fp := fac.Floorplans[floorNum]

		if err := writeFile(floorDir, "map.svg", func(f *os.File) error {
			return citamio.WriteFloorMap(f, fp, 1200, 900)
		}); err != nil {
			return err
		}
		if err := writeFile(floorDir, "heatmap.svg", func(f *os.File) error {
			return citamio.WriteFloorHeatmap(f, fp, locations, 1200, 900)
		}); err != nil {
			return err
		}
		if err := writeFile(floorDir, "contacts.txt", func(f *os.File) error {
			return citamio.WriteFloorContactsText(f, locations)
		}); err != nil {
			return err
		}
		if err := writeFile(floorDir, "contact_dist_per_coord.csv", func(f *os.File) error {
			return citamio.WriteContactDistPerCoord(f, locations)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(dir, name string, write func(f *os.File) error) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("citam: create %s: %w", name, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("citam: write %s: %w", name, err)
	}
	return nil
}
