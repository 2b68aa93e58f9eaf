package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/history"
	"github.com/sparkbench/boardcore/pkg/kicad"
)

var editOutput string

var moveCmd = &cobra.Command{
	Use:   "move <board> <ref> <x> <y>",
	Short: "Move a footprint to an absolute position",
	Args:  cobra.ExactArgs(4),
	RunE:  runMove,
}

var rotateCmd = &cobra.Command{
	Use:   "rotate <board> <ref> <degrees>",
	Short: "Rotate a footprint by a delta in degrees (clockwise)",
	Args:  cobra.ExactArgs(3),
	RunE:  runRotate,
}

var flipCmd = &cobra.Command{
	Use:   "flip <board> <ref>",
	Short: "Flip a footprint to the opposite copper layer",
	Args:  cobra.ExactArgs(2),
	RunE:  runFlip,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <board> <id>...",
	Short: "Delete footprints, trace segments or vias by ref or UUID",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDelete,
}

func init() {
	for _, c := range []*cobra.Command{moveCmd, rotateCmd, flipCmd, deleteCmd} {
		c.Flags().StringVarP(&editOutput, "output", "o", "", "output file (default: overwrite input)")
		rootCmd.AddCommand(c)
	}
}

func runMove(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid x coordinate %q: %w", args[2], err)
	}
	y, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("invalid y coordinate %q: %w", args[3], err)
	}
	return applyEdit(args[0], func(b *board.Board) history.Command {
		fp := b.FindFootprint(args[1])
		if fp == nil {
			return nil
		}
		return history.MoveFootprint{Ref: args[1], FromX: fp.X, FromY: fp.Y, ToX: x, ToY: y}
	})
}

func runRotate(cmd *cobra.Command, args []string) error {
	delta, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid angle %q: %w", args[2], err)
	}
	return applyEdit(args[0], func(b *board.Board) history.Command {
		return history.RotateFootprint{Ref: args[1], Delta: delta}
	})
}

func runFlip(cmd *cobra.Command, args []string) error {
	return applyEdit(args[0], func(b *board.Board) history.Command {
		return history.FlipFootprint{Ref: args[1]}
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	return applyEdit(args[0], func(b *board.Board) history.Command {
		return history.DeleteItems{IDs: args[1:]}
	})
}

// applyEdit runs one command through the history engine and writes the new
// board version back out. A command whose target is gone is reported, not
// an error.
func applyEdit(in string, build func(*board.Board) history.Command) error {
	b, doc := loadBoard(in)

	c := build(b)
	if c == nil {
		fmt.Println("Nothing to do: target not found")
		return nil
	}

	nb, ok := history.New().Execute(b, c)
	if !ok {
		fmt.Println("Nothing to do: target not found")
		return nil
	}

	out := editOutput
	if out == "" {
		out = in
	}
	if err := saveBoard(out, nb, doc); err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Wrote %s\n", out)
	}
	return nil
}

// saveBoard writes a board in the format the output extension names,
// carrying the original document tree for lossless KiCad output.
func saveBoard(filename string, b *board.Board, doc *kicad.Document) error {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		data, err := board.EncodeJSON(b)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filename, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", filename, err)
		}
		return nil
	}
	if doc == nil {
		doc = kicad.NewDocument(b)
	}
	return doc.WithBoard(b).EncodeFile(filename)
}
