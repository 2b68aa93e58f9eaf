package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/kicad"
)

// loadBoard reads a board from either supported format, deciding by file
// extension. Parse failures fall back to an empty default board rather
// than aborting; the warning goes to stderr.
func loadBoard(filename string) (*board.Board, *kicad.Document) {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		data, err := os.ReadFile(filename)
		if err == nil {
			if b, derr := board.DecodeJSON(data); derr == nil {
				return b, kicad.NewDocument(b)
			} else {
				err = derr
			}
		}
		fmt.Fprintf(os.Stderr, "warning: %s: %v; using empty board\n", filename, err)
		b := board.Default()
		return b, kicad.NewDocument(b)
	}

	doc, err := kicad.DecodeFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s: %v; using empty board\n", filename, err)
		b := board.Default()
		return b, kicad.NewDocument(b)
	}
	return doc.Board(), doc
}
