package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sparkbench/boardcore/pkg/ratsnest"
)

var ratsnestCmd = &cobra.Command{
	Use:   "ratsnest <board_file>",
	Short: "Show unrouted connections",
	Long: `Computes the ratsnest: straight lines connecting copper that a net
requires but no trace, via or zone joins yet.`,
	Args: cobra.ExactArgs(1),
	RunE: runRatsnest,
}

func init() {
	rootCmd.AddCommand(ratsnestCmd)
}

func runRatsnest(cmd *cobra.Command, args []string) error {
	b, _ := loadBoard(args[0])
	lines := ratsnest.Compute(b)

	if len(lines) == 0 {
		color.Green("✅ All nets routed: no ratsnest lines")
		return nil
	}

	for _, l := range lines {
		fmt.Printf("  %-20s (%.2f, %.2f) -> (%.2f, %.2f)\n", l.Net, l.X1, l.Y1, l.X2, l.Y2)
	}
	color.Yellow("%d unrouted connection(s)", len(lines))
	return nil
}
