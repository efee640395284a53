package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corning-incorporated/citam/ingest"
	"github.com/corning-incorporated/citam/internal/citamlog"
	"github.com/corning-incorporated/citam/nav"
	"github.com/corning-incorporated/citam/navbuild"
)

var (
	buildNavFloors []string
	buildNavOutDir string
	buildNavEps    float64
)

// buildNavCmd represents the build-nav command.
var buildNavCmd = &cobra.Command{
	Use:   "build-nav",
	Short: "build per-floor navigation graphs from ingested floorplan geometry",
	Long: `Ingest one or more floors' space polygons and door segments, build
each floor's navigation graph and hallway graph, and save them to OUTDIR
as floor_<N>.graph.json and floor_<N>.hallway.json, readable back by 'run-sim'.`,
	RunE: doBuildNav,
}

func init() {
	RootCmd.AddCommand(buildNavCmd)

	buildNavCmd.Flags().StringArrayVar(&buildNavFloors, "floor", nil,
		"floor input, as FLOORNUM:PATH.json (repeatable, required)")
	buildNavCmd.Flags().StringVar(&buildNavOutDir, "out", ".", "output directory for built graphs")
	buildNavCmd.Flags().Float64Var(&buildNavEps, "epsilon", 0, "ingest numeric tolerance (default: geom.DefaultEpsilon)")
}

func doBuildNav(cmd *cobra.Command, args []string) error {
	if len(buildNavFloors) == 0 {
		return fmt.Errorf("citam: at least one --floor FLOORNUM:PATH.json is required")
	}
	log := citamlog.NewProduction()

	floorNums := make([]int, 0, len(buildNavFloors))
	paths := make(map[int]string, len(buildNavFloors))
	for _, spec := range buildNavFloors {
		num, path, err := parseFloorFlag(spec)
		if err != nil {
			return err
		}
		floorNums = append(floorNums, num)
		paths[num] = path
	}
	sort.Ints(floorNums)

	if err := os.MkdirAll(buildNavOutDir, 0o755); err != nil {
		return fmt.Errorf("citam: create output directory: %w", err)
	}

	ig := ingest.New(buildNavEps, log)
	for _, num := range floorNums {
		f, err := os.Open(paths[num])
		if err != nil {
			return fmt.Errorf("citam: floor %d: %w", num, err)
		}
		spaces, doors, err := loadFloorInput(f)
		f.Close()
		if err != nil {
			return err
		}

		fp, warnings, err := ig.Ingest(spaces, doors)
		if err != nil {
			return fmt.Errorf("citam: floor %d: %w", num, err)
		}
		for _, w := range warnings {
			log.Warn(fmt.Sprintf("floor %d: %s", num, w.Message))
		}

		builder := navbuild.NewBuilder(fp, navbuild.DefaultOptions())
		graph, hallways := builder.Build()

		if err := saveGraphFiles(buildNavOutDir, num, graph, hallways); err != nil {
			return err
		}
		log.Progress("built navigation graph", "floor", num)
	}
	return nil
}

func parseFloorFlag(spec string) (int, string, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("citam: malformed --floor %q, want FLOORNUM:PATH.json", spec)
	}
	num, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("citam: malformed --floor %q: %w", spec, err)
	}
	return num, parts[1], nil
}

func saveGraphFiles(dir string, floorNum int, graph *nav.Graph, hallways *nav.HallwayGraph) error {
	graphPath := filepath.Join(dir, fmt.Sprintf("floor_%d.graph.json", floorNum))
	gf, err := os.Create(graphPath)
	if err != nil {
		return err
	}
	defer gf.Close()
	if err := graph.Save(gf); err != nil {
		return fmt.Errorf("citam: floor %d: save graph: %w", floorNum, err)
	}

	hallwayPath := filepath.Join(dir, fmt.Sprintf("floor_%d.hallway.json", floorNum))
	hf, err := os.Create(hallwayPath)
	if err != nil {
		return err
	}
	defer hf.Close()
	if err := hallways.Save(hf); err != nil {
		return fmt.Errorf("citam: floor %d: save hallway graph: %w", floorNum, err)
	}
	return nil
}
