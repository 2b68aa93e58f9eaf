package cmd

import (
	"fmt"
	"os"

	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"
)

var sexprCmd = &cobra.Command{
	Use:   "sexpr <board_file>",
	Short: "Inspect the raw S-expression structure of a board file",
	Long: `Parses a .kicad_pcb file with a general-purpose S-expression reader
and prints the top-level node shapes. Useful when a file fails to decode
and the tree itself needs inspecting.`,
	Args: cobra.ExactArgs(1),
	RunE: runSexpr,
}

func init() {
	rootCmd.AddCommand(sexprCmd)
}

func runSexpr(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer file.Close()

	sexps, err := sexp.Parse(file)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	fmt.Printf("%d top-level s-expression(s)\n", len(sexps))
	for i, s := range sexps {
		if s == nil {
			continue
		}
		if s.IsLeaf() {
			fmt.Printf("  [%d] leaf: %s\n", i, s)
			continue
		}
		fmt.Printf("  [%d] list with %d leaf node(s)\n", i, s.LeafCount())
		if verbose {
			text := fmt.Sprint(s)
			if len(text) > 120 {
				text = text[:120] + "..."
			}
			fmt.Printf("      %s\n", text)
		}
	}
	return nil
}
