package drc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/geom"
)

// simpleFootprint builds a placed footprint with a square courtyard and a
// single unconnected pad at its origin.
func simpleFootprint(ref string, x, y, courtyard float64) board.Footprint {
	return board.Footprint{
		UUID:          board.NewUUID(),
		Ref:           ref,
		FootprintType: "Package_SO:SOIC-8",
		X:             x, Y: y,
		Layer:     board.LayerFrontCopper,
		Courtyard: &board.Courtyard{Width: courtyard, Height: courtyard},
		Pads: []board.Pad{
			{ID: "1", Shape: "rect", Width: 1, Height: 1, Layers: []string{board.LayerFrontCopper}},
		},
	}
}

func TestCourtyardOverlap(t *testing.T) {
	b := board.Default()
	b.Footprints = []board.Footprint{
		simpleFootprint("U1", 20, 40, 10),
		simpleFootprint("U2", 25, 40, 10),
	}

	violations := Run(b, DefaultRules())
	require.Len(t, violations, 1)
	assert.Equal(t, SeverityError, violations[0].Severity)
	assert.Equal(t, "Overlap: U1 and U2 courtyards intersect", violations[0].Message)
	assert.Equal(t, []string{"U1", "U2"}, violations[0].FootprintRefs)
}

func TestCourtyardsApart(t *testing.T) {
	b := board.Default()
	b.Footprints = []board.Footprint{
		simpleFootprint("U1", 20, 40, 10),
		simpleFootprint("U2", 31, 40, 10),
	}

	assert.Empty(t, Run(b, DefaultRules()))
}

// A 45-degree footprint whose bounding box clips the neighbour but whose
// actual courtyard clears it must not be flagged.
func TestCourtyardRotatedClearance(t *testing.T) {
	b := board.Default()
	rotated := simpleFootprint("U2", 32, 52, 10)
	rotated.Rotation = 45
	b.Footprints = []board.Footprint{
		simpleFootprint("U1", 20, 40, 10),
		rotated,
	}

	assert.Empty(t, Run(b, DefaultRules()))
}

func TestContainment(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want int
	}{
		{name: "courtyard pokes out", x: 4.9, want: 1},
		{name: "courtyard just inside", x: 5.1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.Default()
			b.Footprints = []board.Footprint{simpleFootprint("U1", tt.x, 40, 10)}

			violations := Run(b, DefaultRules())
			require.Len(t, violations, tt.want)
			if tt.want > 0 {
				assert.Equal(t, "Out of bounds: U1 courtyard extends outside the board outline", violations[0].Message)
			}
		})
	}
}

func TestContainmentTraceAndVia(t *testing.T) {
	b := board.Default()
	b.Traces = []board.Trace{{
		Net: "GND", Layer: board.LayerFrontCopper, Width: 0.25,
		Segments: []board.Segment{{UUID: "s1", X1: 50, Y1: 40, X2: 120, Y2: 40}},
	}}
	b.Vias = []board.Via{{UUID: "v1", X: 110, Y: 40, Size: 0.8, Drill: 0.4, Net: "GND"}}
	b.Nets = append(b.Nets, board.Net{Number: 1, Name: "GND"})

	violations := Run(b, DefaultRules())
	require.Len(t, violations, 2)
	assert.Contains(t, violations[0].Message, "trace 0 segment 0")
	assert.Contains(t, violations[1].Message, "via 0")
}

func TestClearancePadPairs(t *testing.T) {
	tests := []struct {
		name       string
		netA, netB string
		dx         float64
		want       int
	}{
		{name: "different nets too close", netA: "A", netB: "B", dx: 1.1, want: 1},
		{name: "different nets far enough", netA: "A", netB: "B", dx: 1.3, want: 0},
		{name: "same net exempt", netA: "A", netB: "A", dx: 1.1, want: 0},
		{name: "both unconnected still checked", netA: "", netB: "", dx: 1.1, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.Default()
			b.Nets = append(b.Nets,
				board.Net{Number: 1, Name: "A"},
				board.Net{Number: 2, Name: "B"},
			)
			u1 := simpleFootprint("U1", 20, 40, 2)
			u1.Pads[0].Net = tt.netA
			u2 := simpleFootprint("U2", 20+tt.dx, 40, 2)
			u2.Pads[0].Net = tt.netB
			b.Footprints = []board.Footprint{u1, u2}

			violations := Run(b, DefaultRules())
			// The 1x1 pads sit closer than their 2mm courtyards allow, so
			// drop the courtyard overlap noise and count clearance only.
			var clearance []Violation
			for _, v := range violations {
				if v.Severity == SeverityError && len(v.Message) > 9 && v.Message[:9] == "Clearance" {
					clearance = append(clearance, v)
				}
			}
			require.Len(t, clearance, tt.want)
			if tt.want > 0 {
				assert.Equal(t, "Clearance: U1 pad 1 and U2 pad 1 are 0.100 mm apart (minimum 0.20 mm)", clearance[0].Message)
			}
		})
	}
}

func TestClearancePadToTrace(t *testing.T) {
	b := board.Default()
	b.Nets = append(b.Nets,
		board.Net{Number: 1, Name: "A"},
		board.Net{Number: 2, Name: "B"},
	)
	u1 := simpleFootprint("U1", 20, 40, 2)
	u1.Pads[0].Net = "A"
	b.Footprints = []board.Footprint{u1}
	b.Traces = []board.Trace{{
		Net: "B", Layer: board.LayerFrontCopper, Width: 0.25,
		Segments: []board.Segment{{UUID: "s1", X1: 20.8, Y1: 38, X2: 20.8, Y2: 42}},
	}}

	violations := Run(b, DefaultRules())
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "U1 pad 1 and trace 0 segment 0")
}

func TestClearanceDifferentLayersExempt(t *testing.T) {
	b := board.Default()
	b.Nets = append(b.Nets,
		board.Net{Number: 1, Name: "A"},
		board.Net{Number: 2, Name: "B"},
	)
	u1 := simpleFootprint("U1", 20, 40, 2)
	u1.Pads[0].Net = "A"
	b.Footprints = []board.Footprint{u1}
	b.Traces = []board.Trace{{
		Net: "B", Layer: board.LayerBackCopper, Width: 0.25,
		Segments: []board.Segment{{UUID: "s1", X1: 20.8, Y1: 38, X2: 20.8, Y2: 42}},
	}}

	assert.Empty(t, Run(b, DefaultRules()))
}

// A trace whose endpoints both sit far outside a zone but which passes
// straight through it is a dead short, not a clean board.
func TestClearanceTraceCrossingZone(t *testing.T) {
	b := board.Default()
	b.Nets = append(b.Nets,
		board.Net{Number: 1, Name: "A"},
		board.Net{Number: 2, Name: "B"},
	)
	b.Zones = []board.Zone{{
		UUID: "z1", Net: "A", Layer: board.LayerFrontCopper,
		Vertices: []geom.Point{{X: 49, Y: 39}, {X: 51, Y: 39}, {X: 51, Y: 41}, {X: 49, Y: 41}},
	}}
	b.Traces = []board.Trace{{
		Net: "B", Layer: board.LayerFrontCopper, Width: 0.25,
		Segments: []board.Segment{{UUID: "s1", X1: 40, Y1: 40, X2: 60, Y2: 40}},
	}}

	violations := Run(b, DefaultRules())
	require.Len(t, violations, 1)
	assert.Equal(t, "Clearance: trace 0 segment 0 and zone 0 are 0.000 mm apart (minimum 0.20 mm)", violations[0].Message)
}

// Two zones whose outlines cross without either holding a vertex of the
// other must still read as touching copper.
func TestClearanceOverlappingZones(t *testing.T) {
	b := board.Default()
	b.Nets = append(b.Nets,
		board.Net{Number: 1, Name: "A"},
		board.Net{Number: 2, Name: "B"},
	)
	b.Zones = []board.Zone{
		{
			UUID: "z1", Net: "A", Layer: board.LayerFrontCopper,
			Vertices: []geom.Point{{X: 30, Y: 38}, {X: 50, Y: 38}, {X: 50, Y: 42}, {X: 30, Y: 42}},
		},
		{
			UUID: "z2", Net: "B", Layer: board.LayerFrontCopper,
			Vertices: []geom.Point{{X: 38, Y: 30}, {X: 42, Y: 30}, {X: 42, Y: 50}, {X: 38, Y: 50}},
		},
	}

	violations := Run(b, DefaultRules())
	require.Len(t, violations, 1)
	assert.Equal(t, "Clearance: zone 0 and zone 1 are 0.000 mm apart (minimum 0.20 mm)", violations[0].Message)
}

func TestMissingFootprint(t *testing.T) {
	b := board.Default()
	b.Nets = append(b.Nets, board.Net{Number: 1, Name: "A"})

	bare := board.Footprint{UUID: board.NewUUID(), Ref: "U1", FootprintType: "SOIC-8", X: 20, Y: 40}
	unassigned := simpleFootprint("U2", 50, 40, 2)
	unassigned.FootprintType = ""
	unassigned.Pads[0].Net = "A"
	b.Footprints = []board.Footprint{bare, unassigned}

	violations := Run(b, DefaultRules())
	require.Len(t, violations, 2)
	assert.Equal(t, SeverityWarning, violations[0].Severity)
	assert.Equal(t, "Missing footprint: U1 has no pad geometry", violations[0].Message)
	assert.Equal(t, "Missing footprint: U2 has no footprint assigned", violations[1].Message)
}

// ledBoard is a small two-part design: a resistor feeding an LED over one
// routed net. It is clean as built; moving the LED onto the resistor is
// the canonical overlap case.
func ledBoard() *board.Board {
	b := board.Default()
	b.Nets = append(b.Nets, board.Net{Number: 1, Name: "LED_A"})
	b.Footprints = []board.Footprint{
		{
			UUID: "fp-r1", Ref: "R1", Value: "330", FootprintType: "Resistor_SMD:R_0603",
			X: 15, Y: 15, Layer: board.LayerFrontCopper,
			Courtyard: &board.Courtyard{Width: 6, Height: 3},
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
	return b
}

func TestLedBoardClean(t *testing.T) {
	assert.Empty(t, Run(ledBoard(), DefaultRules()))
}

func TestLedBoardMoveCausesOverlap(t *testing.T) {
	moved := ledBoard().Clone()
	moved.FindFootprint("LED1").X = 16

	violations := Run(moved, DefaultRules())
	require.Len(t, violations, 1)
	assert.Equal(t, SeverityError, violations[0].Severity)
	assert.Equal(t, "Overlap: R1 and LED1 courtyards intersect", violations[0].Message)
	assert.Equal(t, []string{"R1", "LED1"}, violations[0].FootprintRefs)
}

func TestRunIsDeterministic(t *testing.T) {
	moved := ledBoard().Clone()
	moved.FindFootprint("LED1").X = 16

	first := Run(moved, DefaultRules())
	second := Run(moved, DefaultRules())
	assert.Equal(t, first, second)
}
