package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sparkbench/boardcore/pkg/drc"
)

var rulesFile string

var drcCmd = &cobra.Command{
	Use:   "drc <board_file>",
	Short: "Run design-rule checks",
	Long: `Checks courtyard overlap, board containment, copper clearance and
missing footprint assignments. Exit status is non-zero when any
error-severity violation is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runDRC,
}

func init() {
	drcCmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rules file (clearance_mm)")
	rootCmd.AddCommand(drcCmd)
}

func runDRC(cmd *cobra.Command, args []string) error {
	rules := drc.DefaultRules()
	if rulesFile != "" {
		loaded, err := drc.LoadRules(rulesFile)
		if err != nil {
			return err
		}
		rules = loaded
	}

	b, _ := loadBoard(args[0])
	violations := drc.Run(b, rules)

	if len(violations) == 0 {
		color.Green("✅ DRC passed: no violations")
		return nil
	}

	errors := 0
	for _, v := range violations {
		switch v.Severity {
		case drc.SeverityError:
			errors++
			color.Red("  [%s] %s", v.Severity, v.Message)
		default:
			color.Yellow("  [%s] %s", v.Severity, v.Message)
		}
	}
	color.Red("❌ DRC found %d violation(s)", len(violations))
	if errors > 0 {
		return fmt.Errorf("%d error(s)", errors)
	}
	return nil
}
