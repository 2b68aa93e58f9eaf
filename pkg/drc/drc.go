// Package drc checks a board against geometric and electrical design
// rules. Run is a pure function: the same board always yields the same
// ordered violation list, so callers can diff repeated runs.
package drc

import (
	"fmt"
	"math"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/geom"
)

// Run scans the board and returns every violation found, in a stable
// order: courtyard overlaps, board containment, copper clearance, then
// missing-footprint warnings. Malformed geometry yields a violation, not
// a panic.
func Run(b *board.Board, rules Rules) []Violation {
	var violations []Violation
	violations = append(violations, checkCourtyardOverlap(b)...)
	violations = append(violations, checkContainment(b)...)
	violations = append(violations, checkClearance(b, rules)...)
	violations = append(violations, checkMissing(b)...)
	return violations
}

// checkCourtyardOverlap tests every unordered footprint pair that both
// declare a courtyard. Right-angle placements use the plain AABB test;
// arbitrary rotations use the separating-axis test.
func checkCourtyardOverlap(b *board.Board) []Violation {
	var violations []Violation
	for i := range b.Footprints {
		a := &b.Footprints[i]
		cornersA, ok := a.CourtyardCorners()
		if !ok {
			continue
		}
		for j := i + 1; j < len(b.Footprints); j++ {
			c := &b.Footprints[j]
			cornersB, ok := c.CourtyardCorners()
			if !ok {
				continue
			}

			var overlap bool
			if geom.IsRightAngle(a.Rotation) && geom.IsRightAngle(c.Rotation) {
				overlap = aabbOverlap(cornersA, cornersB)
			} else {
				overlap = geom.RectsOverlap(cornersA, cornersB)
			}
			if overlap {
				loc := geom.Point{X: (a.X + c.X) / 2, Y: (a.Y + c.Y) / 2}
				violations = append(violations, Violation{
					Severity:      SeverityError,
					Message:       fmt.Sprintf("Overlap: %s and %s courtyards intersect", a.Ref, c.Ref),
					FootprintRefs: []string{a.Ref, c.Ref},
					Location:      &loc,
				})
			}
		}
	}
	return violations
}

// aabbOverlap is the right-angle fast path: positive-area intersection of
// the corner-quad bounding boxes.
func aabbOverlap(a, b [4]geom.Point) bool {
	aBox := quadBox(a)
	bBox := quadBox(b)
	return aBox.Min.X < bBox.Max.X && aBox.Max.X > bBox.Min.X &&
		aBox.Min.Y < bBox.Max.Y && aBox.Max.Y > bBox.Min.Y
}

func quadBox(q [4]geom.Point) geom.BoundingBox {
	box := geom.NewBoundingBox()
	for _, p := range q {
		box.Expand(p)
	}
	return box
}

// checkContainment verifies that courtyard corners, pad positions, trace
// endpoints and via centers all lie within the board outline polygon.
func checkContainment(b *board.Board) []Violation {
	var violations []Violation
	outline := b.Outline.Vertices
	if len(outline) < 3 {
		return []Violation{{
			Severity: SeverityError,
			Message:  "Out of bounds: board outline has fewer than 3 vertices",
		}}
	}

	for fi := range b.Footprints {
		fp := &b.Footprints[fi]
		if corners, ok := fp.CourtyardCorners(); ok {
			for _, corner := range corners {
				if !geom.PointInPolygon(corner, outline) {
					loc := corner
					violations = append(violations, Violation{
						Severity:      SeverityError,
						Message:       fmt.Sprintf("Out of bounds: %s courtyard extends outside the board outline", fp.Ref),
						FootprintRefs: []string{fp.Ref},
						Location:      &loc,
					})
					break
				}
			}
		}
		for pi := range fp.Pads {
			pos := fp.PadPosition(&fp.Pads[pi])
			if !geom.PointInPolygon(pos, outline) {
				violations = append(violations, Violation{
					Severity:      SeverityError,
					Message:       fmt.Sprintf("Out of bounds: %s pad %s lies outside the board outline", fp.Ref, fp.Pads[pi].ID),
					FootprintRefs: []string{fp.Ref},
					Location:      &pos,
				})
			}
		}
	}

	for ti, tr := range b.Traces {
		for si, s := range tr.Segments {
			for _, p := range []geom.Point{{X: s.X1, Y: s.Y1}, {X: s.X2, Y: s.Y2}} {
				if !geom.PointInPolygon(p, outline) {
					loc := p
					violations = append(violations, Violation{
						Severity: SeverityError,
						Message: fmt.Sprintf("Out of bounds: trace %d segment %d endpoint outside the board outline",
							ti, si),
						Location: &loc,
					})
					break
				}
			}
		}
	}

	for vi, v := range b.Vias {
		p := geom.Point{X: v.X, Y: v.Y}
		if !geom.PointInPolygon(p, outline) {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Message:  fmt.Sprintf("Out of bounds: via %d center outside the board outline", vi),
				Location: &p,
			})
		}
	}

	return violations
}

// copperFeature is the flattened geometry the clearance check works over.
// Pads and vias are approximated by their bounding circle; this is
// conservative and may over-report for elongated pads, never under-report.
type copperFeature struct {
	kind    string // "pad", "segment", "via", "zone"
	label   string
	net     string
	layers  []string
	point   geom.Point // circle center for pad/via
	radius  float64
	a, b    geom.Point // endpoints for segment
	halfW   float64
	polygon []geom.Point // zone outline
	ref     string
}

// checkClearance measures the distance between every pair of same-layer
// copper features on different nets.
func checkClearance(b *board.Board, rules Rules) []Violation {
	features := collectCopper(b)

	var violations []Violation
	for i := range features {
		for j := i + 1; j < len(features); j++ {
			fa, fb := &features[i], &features[j]
			if !sameLayer(fa, fb) {
				continue
			}
			if fa.net == fb.net && fa.net != "" {
				continue
			}
			d := featureDist(fa, fb)
			if d < rules.ClearanceMM {
				loc := midpoint(fa, fb)
				violations = append(violations, Violation{
					Severity: SeverityError,
					Message: fmt.Sprintf("Clearance: %s and %s are %.3f mm apart (minimum %.2f mm)",
						fa.label, fb.label, math.Max(d, 0), rules.ClearanceMM),
					FootprintRefs: refs(fa, fb),
					Location:      &loc,
				})
			}
		}
	}
	return violations
}

// collectCopper flattens the board into clearance features in a stable
// order: pads by footprint, then trace segments, vias, zones.
func collectCopper(b *board.Board) []copperFeature {
	var features []copperFeature

	for fi := range b.Footprints {
		fp := &b.Footprints[fi]
		for pi := range fp.Pads {
			pad := &fp.Pads[pi]
			var layers []string
			if pad.Drill > 0 {
				layers = []string{board.LayerFrontCopper, board.LayerBackCopper}
			} else {
				for _, l := range pad.Layers {
					if l == "*.Cu" {
						layers = append(layers, board.LayerFrontCopper, board.LayerBackCopper)
					} else if l == board.LayerFrontCopper || l == board.LayerBackCopper {
						layers = append(layers, l)
					}
				}
			}
			features = append(features, copperFeature{
				kind:   "pad",
				label:  fmt.Sprintf("%s pad %s", fp.Ref, pad.ID),
				net:    pad.Net,
				layers: layers,
				point:  fp.PadPosition(pad),
				radius: math.Max(pad.Width, pad.Height) / 2.0,
				ref:    fp.Ref,
			})
		}
	}

	for ti, tr := range b.Traces {
		for si, s := range tr.Segments {
			features = append(features, copperFeature{
				kind:   "segment",
				label:  fmt.Sprintf("trace %d segment %d", ti, si),
				net:    tr.Net,
				layers: []string{tr.Layer},
				a:      geom.Point{X: s.X1, Y: s.Y1},
				b:      geom.Point{X: s.X2, Y: s.Y2},
				halfW:  tr.Width / 2.0,
			})
		}
	}

	for vi, v := range b.Vias {
		features = append(features, copperFeature{
			kind:   "via",
			label:  fmt.Sprintf("via %d", vi),
			net:    v.Net,
			layers: []string{board.LayerFrontCopper, board.LayerBackCopper},
			point:  geom.Point{X: v.X, Y: v.Y},
			radius: v.Size / 2.0,
		})
	}

	for zi, z := range b.Zones {
		features = append(features, copperFeature{
			kind:    "zone",
			label:   fmt.Sprintf("zone %d", zi),
			net:     z.Net,
			layers:  []string{z.Layer},
			polygon: z.Vertices,
		})
	}

	return features
}

func sameLayer(a, b *copperFeature) bool {
	for _, la := range a.layers {
		for _, lb := range b.layers {
			if la == lb {
				return true
			}
		}
	}
	return false
}

// featureDist returns the copper-to-copper gap between two features.
func featureDist(a, b *copperFeature) float64 {
	// Normalize so segment and zone kinds sort after circles.
	if rank(a.kind) > rank(b.kind) {
		a, b = b, a
	}
	switch {
	case a.kind != "segment" && a.kind != "zone" && b.kind != "segment" && b.kind != "zone":
		return geom.Dist(a.point, b.point) - a.radius - b.radius
	case a.kind != "segment" && a.kind != "zone" && b.kind == "segment":
		return geom.PointSegmentDist(a.point, b.a, b.b) - a.radius - b.halfW
	case a.kind == "segment" && b.kind == "segment":
		return geom.SegmentDist(a.a, a.b, b.a, b.b) - a.halfW - b.halfW
	case b.kind == "zone" && a.kind != "segment" && a.kind != "zone":
		return geom.PolygonDist(a.point, b.polygon) - a.radius
	case b.kind == "zone" && a.kind == "segment":
		return geom.SegmentPolygonDist(a.a, a.b, b.polygon) - a.halfW
	default: // zone vs zone
		return zoneDist(a.polygon, b.polygon)
	}
}

func rank(kind string) int {
	switch kind {
	case "segment":
		return 1
	case "zone":
		return 2
	default:
		return 0
	}
}

// zoneDist measures polygon-to-polygon gap edge by edge in both
// directions, so crossing outlines and full containment both read as
// zero even when no vertex of one polygon lies inside the other.
func zoneDist(a, b []geom.Point) float64 {
	d := math.Inf(1)
	for i := 0; i < len(a); i++ {
		j := (i + 1) % len(a)
		if v := geom.SegmentPolygonDist(a[i], a[j], b); v < d {
			d = v
		}
	}
	for i := 0; i < len(b); i++ {
		j := (i + 1) % len(b)
		if v := geom.SegmentPolygonDist(b[i], b[j], a); v < d {
			d = v
		}
	}
	return d
}

func midpoint(a, b *copperFeature) geom.Point {
	pa := featurePoint(a)
	pb := featurePoint(b)
	return geom.Point{X: (pa.X + pb.X) / 2, Y: (pa.Y + pb.Y) / 2}
}

func featurePoint(f *copperFeature) geom.Point {
	switch f.kind {
	case "segment":
		return geom.Point{X: (f.a.X + f.b.X) / 2, Y: (f.a.Y + f.b.Y) / 2}
	case "zone":
		if len(f.polygon) > 0 {
			return f.polygon[0]
		}
		return geom.Point{}
	default:
		return f.point
	}
}

func refs(a, b *copperFeature) []string {
	var out []string
	if a.ref != "" {
		out = append(out, a.ref)
	}
	if b.ref != "" && b.ref != a.ref {
		out = append(out, b.ref)
	}
	return out
}

// checkMissing flags parts the autorouter readiness gate cares about:
// footprints participating in a net with no assigned footprint type, and
// footprints with no pad geometry at all.
func checkMissing(b *board.Board) []Violation {
	var violations []Violation
	for fi := range b.Footprints {
		fp := &b.Footprints[fi]
		if len(fp.Pads) == 0 {
			violations = append(violations, Violation{
				Severity:      SeverityWarning,
				Message:       fmt.Sprintf("Missing footprint: %s has no pad geometry", fp.Ref),
				FootprintRefs: []string{fp.Ref},
			})
			continue
		}
		if fp.FootprintType == "" && participatesInNet(fp) {
			violations = append(violations, Violation{
				Severity:      SeverityWarning,
				Message:       fmt.Sprintf("Missing footprint: %s has no footprint assigned", fp.Ref),
				FootprintRefs: []string{fp.Ref},
			})
		}
	}
	return violations
}

func participatesInNet(fp *board.Footprint) bool {
	for i := range fp.Pads {
		if fp.Pads[i].Net != "" {
			return true
		}
	}
	return false
}
