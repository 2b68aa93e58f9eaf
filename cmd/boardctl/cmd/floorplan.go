package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sparkbench/boardcore/pkg/floorplan"
)

var floorplanCmd = &cobra.Command{
	Use:   "floorplan <board_file>",
	Short: "Pre-autorouter placement check",
	Long: `Validates the coarse floorplan: footprint assignments, placements,
courtyard overlaps and board-boundary containment. The single-line
report is the contract external automation callers depend on.`,
	Args: cobra.ExactArgs(1),
	RunE: runFloorplan,
}

func init() {
	rootCmd.AddCommand(floorplanCmd)
}

func runFloorplan(cmd *cobra.Command, args []string) error {
	b, _ := loadBoard(args[0])
	parts, width, height := floorplan.FromBoard(b)
	issues := floorplan.Validate(parts, width, height)
	report := floorplan.Report(parts, issues, width, height)

	if len(issues) == 0 {
		color.Green(report)
		return nil
	}
	fmt.Println(report)
	return fmt.Errorf("%d floorplan issue(s)", len(issues))
}
