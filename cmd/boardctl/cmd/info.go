package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <board_file>",
	Short: "Show board summary",
	Long: `Display counts, dimensions and per-net connectivity for a board
file (.kicad_pcb or .json).`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	b, _ := loadBoard(args[0])

	fmt.Printf("Board: %s\n", args[0])
	fmt.Printf("  Nets: %d\n", len(b.Nets))
	fmt.Printf("  Footprints: %d\n", len(b.Footprints))
	fmt.Printf("  Traces: %d\n", len(b.Traces))
	fmt.Printf("  Vias: %d\n", len(b.Vias))
	fmt.Printf("  Zones: %d\n", len(b.Zones))

	bbox := b.BoundingBox()
	if !bbox.IsEmpty() {
		fmt.Printf("  Board size: %.2f x %.2f mm\n", bbox.Width(), bbox.Height())
		fmt.Printf("  Board center: (%.2f, %.2f) mm\n", bbox.Center().X, bbox.Center().Y)
	}

	if !verbose {
		return nil
	}

	var names []string
	for _, n := range b.Nets {
		if n.Name != "" {
			names = append(names, n.Name)
		}
	}
	sort.Strings(names)

	fmt.Printf("\n%-30s %6s %6s %6s\n", "Net Name", "Pads", "Traces", "Vias")
	for _, name := range names {
		info := b.GetNetInfo(name)
		if info != nil {
			fmt.Printf("%-30s %6d %6d %6d\n",
				name, len(info.Pads), len(info.Traces), len(info.Vias))
		}
	}
	return nil
}
