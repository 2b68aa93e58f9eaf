// Package history implements the transactional edit layer: a closed set
// of invertible commands over immutable board versions, and a linear
// undo/redo stack. Grid snapping is the caller's job; commands apply
// coordinates exactly as given.
package history

import (
	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/geom"
)

// Command is one atomic, invertible edit. The variant set is closed;
// Apply dispatches over it exhaustively.
type Command interface {
	isCommand()
}

// MoveFootprint moves a footprint between two absolute positions. Its
// inverse swaps from and to.
type MoveFootprint struct {
	Ref          string
	FromX, FromY float64
	ToX, ToY     float64
}

// RotateFootprint rotates a footprint by a delta in degrees (clockwise).
type RotateFootprint struct {
	Ref   string
	Delta float64
}

// FlipFootprint moves a footprint to the opposite copper layer, mirroring
// pad x-offsets. Self-inverse.
type FlipFootprint struct {
	Ref string
}

// DeleteItems removes footprints, trace segments and vias by id
// (footprint UUID or ref, segment UUID, via UUID).
type DeleteItems struct {
	IDs []string
}

// RestoreItems is the synthetic inverse of DeleteItems: it re-inserts the
// exact removed sub-values at their original slice positions, so undo of
// a delete is byte-exact even though re-creating from scratch would not
// preserve ids.
type RestoreItems struct {
	Footprints []IndexedFootprint
	Traces     []IndexedTrace
	Segments   []IndexedSegment
	Vias       []IndexedVia
	Nets       []board.IndexedNet
}

// ReplaceOutline swaps the board-edge polygon. The inverse carries the
// prior vertex list.
type ReplaceOutline struct {
	Vertices []geom.Point
}

// IndexedFootprint records a removed footprint and its original position.
type IndexedFootprint struct {
	Index     int
	Footprint board.Footprint
}

// IndexedTrace records a whole removed trace and its original position.
type IndexedTrace struct {
	Index int
	Trace board.Trace
}

// IndexedSegment records a segment removed from a surviving trace.
type IndexedSegment struct {
	TraceIndex int
	SegIndex   int
	Segment    board.Segment
}

// IndexedVia records a removed via and its original position.
type IndexedVia struct {
	Index int
	Via   board.Via
}

func (MoveFootprint) isCommand()   {}
func (RotateFootprint) isCommand() {}
func (FlipFootprint) isCommand()   {}
func (DeleteItems) isCommand()     {}
func (RestoreItems) isCommand()    {}
func (ReplaceOutline) isCommand()  {}

// Apply executes a command against a board, returning the new board
// version and the inverse command. ok is false — and the board is
// returned unchanged — when the command's target no longer exists; that
// is a reported condition, not an error.
func Apply(c Command, b *board.Board) (nb *board.Board, inverse Command, ok bool) {
	switch cmd := c.(type) {
	case MoveFootprint:
		return applyMove(cmd, b)
	case RotateFootprint:
		return applyRotate(cmd, b)
	case FlipFootprint:
		return applyFlip(cmd, b)
	case DeleteItems:
		return applyDelete(cmd, b)
	case RestoreItems:
		return applyRestore(cmd, b)
	case ReplaceOutline:
		return applyReplaceOutline(cmd, b)
	default:
		return b, nil, false
	}
}

func applyMove(cmd MoveFootprint, b *board.Board) (*board.Board, Command, bool) {
	if b.FindFootprint(cmd.Ref) == nil {
		return b, nil, false
	}
	nb := b.Clone()
	fp := nb.FindFootprint(cmd.Ref)
	fp.X = cmd.ToX
	fp.Y = cmd.ToY
	inv := MoveFootprint{Ref: cmd.Ref, FromX: cmd.ToX, FromY: cmd.ToY, ToX: cmd.FromX, ToY: cmd.FromY}
	return nb, inv, true
}

func applyRotate(cmd RotateFootprint, b *board.Board) (*board.Board, Command, bool) {
	if b.FindFootprint(cmd.Ref) == nil {
		return b, nil, false
	}
	nb := b.Clone()
	fp := nb.FindFootprint(cmd.Ref)
	// Not folded into [0,360): applying the -Delta inverse must restore
	// the prior value bit-exactly.
	fp.Rotation += cmd.Delta
	return nb, RotateFootprint{Ref: cmd.Ref, Delta: -cmd.Delta}, true
}

func applyFlip(cmd FlipFootprint, b *board.Board) (*board.Board, Command, bool) {
	if b.FindFootprint(cmd.Ref) == nil {
		return b, nil, false
	}
	nb := b.Clone()
	fp := nb.FindFootprint(cmd.Ref)
	if fp.Layer == board.LayerBackCopper {
		fp.Layer = board.LayerFrontCopper
	} else {
		fp.Layer = board.LayerBackCopper
	}
	for i := range fp.Pads {
		fp.Pads[i].X = -fp.Pads[i].X
	}
	for i := range fp.Silkscreen {
		fp.Silkscreen[i].X1 = -fp.Silkscreen[i].X1
		fp.Silkscreen[i].X2 = -fp.Silkscreen[i].X2
	}
	return nb, FlipFootprint{Ref: cmd.Ref}, true
}

func applyReplaceOutline(cmd ReplaceOutline, b *board.Board) (*board.Board, Command, bool) {
	if len(cmd.Vertices) < 3 {
		return b, nil, false
	}
	prev := make([]geom.Point, len(b.Outline.Vertices))
	copy(prev, b.Outline.Vertices)

	nb := b.Clone()
	verts := make([]geom.Point, len(cmd.Vertices))
	copy(verts, cmd.Vertices)
	nb.Outline = board.Outline{Vertices: verts}
	return nb, ReplaceOutline{Vertices: prev}, true
}
