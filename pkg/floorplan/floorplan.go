// Package floorplan runs the coarse pre-placement check used before a
// board is handed to an external autorouter. It operates on a bare part
// list with candidate placements, so it can run before a full board
// exists.
package floorplan

import (
	"fmt"
	"strings"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/geom"
)

// Part is one netlist part with an optional footprint assignment and an
// optional candidate placement.
type Part struct {
	Ref       string
	Footprint string
	Courtyard *board.Courtyard
	X, Y      *float64
	Rotation  float64
}

// Validate returns human-readable issues, in check order: missing
// footprints, missing placements, pairwise courtyard overlap, then board
// containment against the [0,0]–[width,height] rectangle. An empty slice
// means the floorplan is clean.
func Validate(parts []Part, width, height float64) []string {
	var issues []string

	for _, p := range parts {
		if p.Footprint == "" {
			issues = append(issues, fmt.Sprintf("Missing footprint for %s", p.Ref))
		}
	}
	for _, p := range parts {
		if p.Footprint != "" && (p.X == nil || p.Y == nil) {
			issues = append(issues, fmt.Sprintf("Missing placement for %s", p.Ref))
		}
	}

	for i := range parts {
		a := &parts[i]
		cornersA, ok := corners(a)
		if !ok {
			continue
		}
		for j := i + 1; j < len(parts); j++ {
			b := &parts[j]
			cornersB, ok := corners(b)
			if !ok {
				continue
			}
			var overlap bool
			if geom.IsRightAngle(a.Rotation) && geom.IsRightAngle(b.Rotation) {
				overlap = aabbOverlap(cornersA, cornersB)
			} else {
				overlap = geom.RectsOverlap(cornersA, cornersB)
			}
			if overlap {
				issues = append(issues, fmt.Sprintf("Overlap between %s and %s", a.Ref, b.Ref))
			}
		}
	}

	for i := range parts {
		p := &parts[i]
		quad, ok := corners(p)
		if !ok {
			continue
		}
		box := geom.NewBoundingBox()
		for _, c := range quad {
			box.Expand(c)
		}
		if box.Min.X < 0 || box.Min.Y < 0 || box.Max.X > width || box.Max.Y > height {
			issues = append(issues, fmt.Sprintf("%s outside board bounds", p.Ref))
		}
	}

	return issues
}

// Report renders the literal textual contract external automation callers
// depend on.
func Report(parts []Part, issues []string, width, height float64) string {
	if len(issues) == 0 {
		return fmt.Sprintf("Floorplan OK: %d footprints placed, no overlaps, all within %gx%g mm board.",
			len(parts), width, height)
	}
	return fmt.Sprintf("Floorplan has %d issue(s): %s", len(issues), strings.Join(issues, "; "))
}

// FromBoard derives the part list and board dimensions from a full board.
// A rectangular outline yields width/height from its second and third
// vertices; anything else falls back to the outline bounding box.
func FromBoard(b *board.Board) ([]Part, float64, float64) {
	parts := make([]Part, 0, len(b.Footprints))
	for fi := range b.Footprints {
		fp := &b.Footprints[fi]
		x, y := fp.X, fp.Y
		parts = append(parts, Part{
			Ref:       fp.Ref,
			Footprint: fp.FootprintType,
			Courtyard: fp.Courtyard,
			X:         &x,
			Y:         &y,
			Rotation:  fp.Rotation,
		})
	}

	width, height := board.DefaultWidth, board.DefaultHeight
	verts := b.Outline.Vertices
	if len(verts) == 4 && isAxisRect(verts) {
		width = verts[1].X - verts[0].X
		height = verts[2].Y - verts[1].Y
	} else if len(verts) >= 3 {
		box := geom.NewBoundingBox()
		for _, v := range verts {
			box.Expand(v)
		}
		width, height = box.Width(), box.Height()
	}
	return parts, width, height
}

func isAxisRect(v []geom.Point) bool {
	return v[0].Y == v[1].Y && v[1].X == v[2].X && v[2].Y == v[3].Y && v[3].X == v[0].X
}

func corners(p *Part) ([4]geom.Point, bool) {
	if p.Courtyard == nil || p.X == nil || p.Y == nil {
		return [4]geom.Point{}, false
	}
	return geom.RectCorners(*p.X, *p.Y, p.Courtyard.Width, p.Courtyard.Height, p.Rotation), true
}

func aabbOverlap(a, b [4]geom.Point) bool {
	aBox := geom.NewBoundingBox()
	bBox := geom.NewBoundingBox()
	for i := 0; i < 4; i++ {
		aBox.Expand(a[i])
		bBox.Expand(b[i])
	}
	return aBox.Min.X < bBox.Max.X && aBox.Max.X > bBox.Min.X &&
		aBox.Min.Y < bBox.Max.Y && aBox.Max.Y > bBox.Min.Y
}
