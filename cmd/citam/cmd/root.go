package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "citam",
	Short: "simulate indoor contact exposure",
	Long: `citam is the command-line application for the Contact Tracing
Agent-Based Model:
	- build per-floor navigation graphs from ingested floorplan geometry,
	- run a full-day agent simulation against a built facility,
	- write the run's manifest, trajectory, contact and statistics files.`,
}

// Execute adds all child commands to the root command and executes it.
// Called once by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
