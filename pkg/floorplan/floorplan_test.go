package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/geom"
)

func placed(ref, footprint string, x, y, courtyard float64) Part {
	return Part{
		Ref:       ref,
		Footprint: footprint,
		Courtyard: &board.Courtyard{Width: courtyard, Height: courtyard},
		X:         &x,
		Y:         &y,
	}
}

func TestValidateClean(t *testing.T) {
	parts := []Part{
		placed("U1", "SOIC-8", 20, 20, 10),
		placed("U2", "SOIC-8", 40, 20, 10),
	}

	issues := Validate(parts, 100, 80)
	assert.Empty(t, issues)
	assert.Equal(t,
		"Floorplan OK: 2 footprints placed, no overlaps, all within 100x80 mm board.",
		Report(parts, issues, 100, 80))
}

func TestValidateIssueOrder(t *testing.T) {
	noFootprint := Part{Ref: "C1"}
	x := 30.0
	noPlacement := Part{Ref: "R9", Footprint: "R_0603", X: &x}
	parts := []Part{
		noFootprint,
		noPlacement,
		placed("U1", "SOIC-8", 20, 20, 10),
		placed("U2", "SOIC-8", 25, 20, 10),
		placed("U3", "SOIC-8", 98, 20, 10),
	}

	issues := Validate(parts, 100, 80)
	require.Equal(t, []string{
		"Missing footprint for C1",
		"Missing placement for R9",
		"Overlap between U1 and U2",
		"U3 outside board bounds",
	}, issues)

	assert.Equal(t,
		"Floorplan has 4 issue(s): Missing footprint for C1; Missing placement for R9; Overlap between U1 and U2; U3 outside board bounds",
		Report(parts, issues, 100, 80))
}

func TestValidateTouchingCourtyardsAllowed(t *testing.T) {
	parts := []Part{
		placed("U1", "SOIC-8", 20, 20, 10),
		placed("U2", "SOIC-8", 30, 20, 10),
	}
	assert.Empty(t, Validate(parts, 100, 80))
}

func TestValidateRotatedPart(t *testing.T) {
	rotated := placed("U2", "SOIC-8", 32, 52, 10)
	rotated.Rotation = 45
	parts := []Part{
		placed("U1", "SOIC-8", 20, 40, 10),
		rotated,
	}
	// The 45-degree courtyard clears U1 even though the bounding boxes
	// would touch.
	assert.Empty(t, Validate(parts, 100, 80))
}

func TestFromBoard(t *testing.T) {
	b := board.Default()
	b.Footprints = []board.Footprint{
		{
			Ref: "R1", FootprintType: "R_0603", X: 15, Y: 15, Rotation: 90,
			Courtyard: &board.Courtyard{Width: 6, Height: 3},
		},
	}

	parts, width, height := FromBoard(b)
	require.Len(t, parts, 1)
	assert.Equal(t, "R1", parts[0].Ref)
	assert.Equal(t, 15.0, *parts[0].X)
	assert.Equal(t, 90.0, parts[0].Rotation)
	assert.Equal(t, 100.0, width)
	assert.Equal(t, 80.0, height)
}

func TestFromBoardNonRectOutline(t *testing.T) {
	b := board.Default()
	b.Outline = board.Outline{Vertices: []geom.Point{
		{X: 0, Y: 0}, {X: 60, Y: 0}, {X: 30, Y: 45},
	}}

	_, width, height := FromBoard(b)
	assert.Equal(t, 60.0, width)
	assert.Equal(t, 45.0, height)
}
