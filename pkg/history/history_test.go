package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/geom"
)

// ledBoard is the same resistor-plus-LED design the DRC tests use: two
// placed parts and one routed net.
func ledBoard() *board.Board {
	b := board.Default()
	b.Nets = append(b.Nets, board.Net{Number: 1, Name: "LED_A"})
	b.Footprints = []board.Footprint{
		{
			UUID: "fp-r1", Ref: "R1", Value: "330", FootprintType: "Resistor_SMD:R_0603",
			X: 15, Y: 15, Layer: board.LayerFrontCopper,
			Courtyard:  &board.Courtyard{Width: 6, Height: 3},
			Silkscreen: []board.SilkLine{{X1: -2, Y1: -1, X2: 2, Y2: -1}},
			Pads: []board.Pad{
				{ID: "1", Shape: "rect", X: -2.5, Width: 1, Height: 1, Layers: []string{board.LayerFrontCopper}},
				{ID: "2", Shape: "rect", X: 2.5, Width: 1, Height: 1, Layers: []string{board.LayerFrontCopper}, Net: "LED_A"},
			},
		},
		{
			UUID: "fp-led1", Ref: "LED1", Value: "red", FootprintType: "LED_SMD:LED_0603",
			X: 35, Y: 15, Layer: board.LayerFrontCopper,
			Courtyard: &board.Courtyard{Width: 4, Height: 4},
			Pads: []board.Pad{
				{ID: "1", Shape: "rect", Y: -1, Width: 1, Height: 1, Layers: []string{board.LayerFrontCopper}, Net: "LED_A"},
				{ID: "2", Shape: "rect", Y: 1, Width: 1, Height: 1, Layers: []string{board.LayerFrontCopper}},
			},
		},
	}
	b.Traces = []board.Trace{{
		Net: "LED_A", Layer: board.LayerFrontCopper, Width: 0.25,
		Segments: []board.Segment{{UUID: "seg-led", X1: 17.5, Y1: 15, X2: 35, Y2: 14}},
	}}
	b.Vias = []board.Via{{UUID: "via-led", X: 35, Y: 14, Size: 0.8, Drill: 0.4, Net: "LED_A"}}
	return b
}

func TestMoveUndoRedo(t *testing.T) {
	b0 := ledBoard()
	h := New()

	b1, ok := h.Execute(b0, MoveFootprint{Ref: "LED1", FromX: 35, FromY: 15, ToX: 40, ToY: 20})
	require.True(t, ok)
	assert.Equal(t, 40.0, b1.FindFootprint("LED1").X)
	assert.Equal(t, 35.0, b0.FindFootprint("LED1").X, "prior version must stay untouched")

	b2, ok := h.Undo(b1)
	require.True(t, ok)
	assert.Equal(t, b0, b2)
	assert.True(t, h.CanRedo())

	b3, ok := h.Redo(b2)
	require.True(t, ok)
	assert.Equal(t, b1, b3)
	assert.False(t, h.CanRedo())
}

func TestRotateAccumulatesWithoutFolding(t *testing.T) {
	b := ledBoard()
	h := New()

	for i := 0; i < 5; i++ {
		var ok bool
		b, ok = h.Execute(b, RotateFootprint{Ref: "R1", Delta: 90})
		require.True(t, ok)
	}
	assert.Equal(t, 450.0, b.FindFootprint("R1").Rotation)

	for h.CanUndo() {
		var ok bool
		b, ok = h.Undo(b)
		require.True(t, ok)
	}
	assert.Equal(t, ledBoard(), b)
}

func TestFlipMirrorsAndSelfInverts(t *testing.T) {
	b0 := ledBoard()
	h := New()

	b1, ok := h.Execute(b0, FlipFootprint{Ref: "R1"})
	require.True(t, ok)
	fp := b1.FindFootprint("R1")
	assert.Equal(t, board.LayerBackCopper, fp.Layer)
	assert.Equal(t, 2.5, fp.Pads[0].X)
	assert.Equal(t, -2.5, fp.Pads[1].X)
	assert.Equal(t, 2.0, fp.Silkscreen[0].X1)

	b2, ok := h.Execute(b1, FlipFootprint{Ref: "R1"})
	require.True(t, ok)
	assert.Equal(t, b0, b2)
}

func TestDeleteAndUndoIsExact(t *testing.T) {
	b0 := ledBoard()
	h := New()

	b1, ok := h.Execute(b0, DeleteItems{IDs: []string{"fp-led1", "seg-led"}})
	require.True(t, ok)
	assert.Nil(t, b1.FindFootprint("LED1"))
	assert.Empty(t, b1.Traces)
	// LED_A is still referenced by the R1 pad and the via, so it stays.
	require.NotNil(t, b1.NetByName("LED_A"))

	b2, ok := h.Undo(b1)
	require.True(t, ok)
	assert.Equal(t, b0, b2)

	b3, ok := h.Redo(b2)
	require.True(t, ok)
	assert.Equal(t, b1, b3)
}

func TestDeletePrunesAndRestoresNets(t *testing.T) {
	b0 := ledBoard()
	h := New()

	b1, ok := h.Execute(b0, DeleteItems{IDs: []string{"fp-r1", "fp-led1", "seg-led", "via-led"}})
	require.True(t, ok)
	assert.Nil(t, b1.NetByName("LED_A"), "unreferenced net must be pruned")
	require.Len(t, b1.Nets, 1)
	assert.Equal(t, board.NetUnconnected, b1.Nets[0].Number)

	b2, ok := h.Undo(b1)
	require.True(t, ok)
	assert.Equal(t, b0, b2)
}

func TestDeleteByReference(t *testing.T) {
	b0 := ledBoard()

	b1, _, ok := Apply(DeleteItems{IDs: []string{"LED1"}}, b0)
	require.True(t, ok)
	assert.Nil(t, b1.FindFootprint("LED1"))
	assert.NotNil(t, b1.FindFootprint("R1"))
}

// An empty id must match nothing, even on hand-built boards whose items
// never got a UUID assigned.
func TestDeleteIgnoresEmptyIDs(t *testing.T) {
	b0 := ledBoard()
	b0.Footprints[0].UUID = ""
	b0.Traces[0].Segments[0].UUID = ""
	b0.Vias[0].UUID = ""

	nb, _, ok := Apply(DeleteItems{IDs: []string{""}}, b0)
	assert.False(t, ok)
	assert.Same(t, b0, nb)

	b1, _, ok := Apply(DeleteItems{IDs: []string{"", "LED1"}}, b0)
	require.True(t, ok)
	assert.Nil(t, b1.FindFootprint("LED1"))
	assert.NotNil(t, b1.FindFootprint("R1"))
	require.Len(t, b1.Traces, 1)
	assert.Len(t, b1.Vias, 1)
}

func TestNotApplicableCommands(t *testing.T) {
	b0 := ledBoard()
	h := New()

	tests := []struct {
		name string
		cmd  Command
	}{
		{name: "move unknown ref", cmd: MoveFootprint{Ref: "C9", ToX: 1, ToY: 1}},
		{name: "rotate unknown ref", cmd: RotateFootprint{Ref: "C9", Delta: 90}},
		{name: "flip unknown ref", cmd: FlipFootprint{Ref: "C9"}},
		{name: "delete unknown ids", cmd: DeleteItems{IDs: []string{"nope"}}},
		{name: "degenerate outline", cmd: ReplaceOutline{Vertices: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb, ok := h.Execute(b0, tt.cmd)
			assert.False(t, ok)
			assert.Same(t, b0, nb)
			assert.Zero(t, h.Len())
		})
	}
}

func TestReplaceOutlineUndo(t *testing.T) {
	b0 := ledBoard()
	h := New()

	triangle := []geom.Point{{X: 0, Y: 0}, {X: 120, Y: 0}, {X: 60, Y: 90}}
	b1, ok := h.Execute(b0, ReplaceOutline{Vertices: triangle})
	require.True(t, ok)
	assert.Equal(t, triangle, b1.Outline.Vertices)

	b2, ok := h.Undo(b1)
	require.True(t, ok)
	assert.Equal(t, b0, b2)
}

func TestExecuteClearsRedo(t *testing.T) {
	b := ledBoard()
	h := New()

	b, _ = h.Execute(b, MoveFootprint{Ref: "LED1", FromX: 35, FromY: 15, ToX: 40, ToY: 15})
	b, _ = h.Undo(b)
	require.True(t, h.CanRedo())

	b, ok := h.Execute(b, RotateFootprint{Ref: "LED1", Delta: 90})
	require.True(t, ok)
	assert.False(t, h.CanRedo())

	_, ok = h.Redo(b)
	assert.False(t, ok)
}

func TestUndoRedoOnEmptyStacks(t *testing.T) {
	b := ledBoard()
	h := New()

	nb, ok := h.Undo(b)
	assert.False(t, ok)
	assert.Same(t, b, nb)

	nb, ok = h.Redo(b)
	assert.False(t, ok)
	assert.Same(t, b, nb)
}

// A mixed editing session undone step by step must land exactly on the
// initial board version.
func TestFullSessionUndoChain(t *testing.T) {
	b0 := ledBoard()
	h := New()

	b := b0
	cmds := []Command{
		MoveFootprint{Ref: "LED1", FromX: 35, FromY: 15, ToX: 16, ToY: 15},
		RotateFootprint{Ref: "R1", Delta: 90},
		FlipFootprint{Ref: "LED1"},
		DeleteItems{IDs: []string{"seg-led"}},
		ReplaceOutline{Vertices: []geom.Point{{X: 0, Y: 0}, {X: 80, Y: 0}, {X: 80, Y: 60}, {X: 0, Y: 60}}},
	}
	for _, c := range cmds {
		var ok bool
		b, ok = h.Execute(b, c)
		require.True(t, ok)
	}
	require.Equal(t, len(cmds), h.Len())

	for h.CanUndo() {
		var ok bool
		b, ok = h.Undo(b)
		require.True(t, ok)
	}
	assert.Equal(t, b0, b)
}
