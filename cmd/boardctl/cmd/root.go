package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "boardctl",
	Short: "boardctl - PCB board model, DRC, ratsnest and interchange tools",
	Long: `boardctl works on PCB designs in the structured board document
format (.json) and the KiCad interchange format (.kicad_pcb):

Examples:
  boardctl info board.kicad_pcb          # Board summary
  boardctl drc board.kicad_pcb           # Run design-rule checks
  boardctl ratsnest board.json           # Show unrouted connections
  boardctl floorplan board.kicad_pcb     # Autorouter readiness report
  boardctl convert board.kicad_pcb board.json`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
