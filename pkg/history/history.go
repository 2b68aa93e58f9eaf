package history

import "github.com/sparkbench/boardcore/pkg/board"

// step pairs an executed command with the inverse captured at apply time.
type step struct {
	cmd     Command
	inverse Command
}

// History is a linear undo/redo stack over board versions. It is an
// explicit object: each open document owns its own History, there is no
// package-level stack.
type History struct {
	undo []step
	redo []step
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Execute applies a command, pushing it onto the undo stack and
// discarding any redo tail. When the command is not applicable the board
// and stacks are returned unchanged and ok is false.
func (h *History) Execute(b *board.Board, c Command) (*board.Board, bool) {
	nb, inverse, ok := Apply(c, b)
	if !ok {
		return b, false
	}
	h.undo = append(h.undo, step{cmd: c, inverse: inverse})
	h.redo = nil
	return nb, true
}

// Undo reverts the most recent command. Returns the board unchanged and
// false when there is nothing to undo.
func (h *History) Undo(b *board.Board) (*board.Board, bool) {
	if len(h.undo) == 0 {
		return b, false
	}
	top := h.undo[len(h.undo)-1]
	nb, redoCmd, ok := Apply(top.inverse, b)
	if !ok {
		return b, false
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, step{cmd: top.inverse, inverse: redoCmd})
	return nb, true
}

// Redo re-applies the most recently undone command.
func (h *History) Redo(b *board.Board) (*board.Board, bool) {
	if len(h.redo) == 0 {
		return b, false
	}
	top := h.redo[len(h.redo)-1]
	nb, undoCmd, ok := Apply(top.inverse, b)
	if !ok {
		return b, false
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, step{cmd: top.inverse, inverse: undoCmd})
	return nb, true
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the undo depth.
func (h *History) Len() int { return len(h.undo) }
