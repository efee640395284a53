package citamio

import (
	"fmt"
	"io"

	"github.com/corning-incorporated/citam/agent"
)

// TrajectoryWriter buffers one block of agent positions per step and
// writes them all out in a single pass at Flush, honoring the
// single-write-after-the-final-step rule (spec §5). Wire
// sim.Simulation.OnStep to Record.
type TrajectoryWriter struct {
	blocks []string
}

// NewTrajectoryWriter returns an empty TrajectoryWriter.
func NewTrajectoryWriter() *TrajectoryWriter {
	return &TrajectoryWriter{}
}

// Record buffers one step's block: a header line followed by one line per
// active agent, "agentID x y floor" (spec §6 `trajectory.txt`: "per-step
// positions for every agent; one block per step").
func (tw *TrajectoryWriter) Record(step int, active []*agent.Agent) {
	block := fmt.Sprintf("step %d\n", step)
	for _, a := range active {
		block += fmt.Sprintf("%d %g %g %d\n", a.ID, a.CurrentPosition.X, a.CurrentPosition.Y, a.CurrentFloor)
	}
	tw.blocks = append(tw.blocks, block)
}

// Flush writes every buffered block to w, separated by a blank line.
func (tw *TrajectoryWriter) Flush(w io.Writer) error {
	for _, block := range tw.blocks {
		if _, err := io.WriteString(w, block+"\n"); err != nil {
			return err
		}
	}
	return nil
}
