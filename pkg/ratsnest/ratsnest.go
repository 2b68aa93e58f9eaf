// Package ratsnest derives the electrically required but not-yet-routed
// connections of a board. Compute is pure and deterministic: identical
// boards always produce identical overlays.
package ratsnest

import (
	"math"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/geom"
)

// Line is one unrouted connection, in board millimeters. Transient, never
// persisted.
type Line struct {
	X1  float64 `json:"x1"`
	Y1  float64 `json:"y1"`
	X2  float64 `json:"x2"`
	Y2  float64 `json:"y2"`
	Net string  `json:"net"`
}

// Compute returns the ratsnest lines for every net on the board. A net
// whose pads all sit in one connected component of copper produces no
// lines; a fragmented net produces the minimum spanning tree over its
// component representatives.
func Compute(b *board.Board) []Line {
	var lines []Line
	for _, net := range b.Nets {
		if net.Number == board.NetUnconnected || net.Name == "" {
			continue
		}
		lines = append(lines, computeNet(b, net.Name)...)
	}
	return lines
}

// copperNode is one copper-bearing point of a net on one layer.
type copperNode struct {
	point geom.Point
	layer string
	// pad is the index into the net's pad list, or -1 for trace
	// endpoints, vias and zones.
	pad int
	// zone holds the zone polygon for membership joining.
	zone []geom.Point
}

func computeNet(b *board.Board, name string) []Line {
	pads := b.PadsOnNet(name)
	if len(pads) < 2 {
		return nil
	}

	var nodes []copperNode
	uf := newUnionFind()

	addPair := func(i, j int) { uf.union(i, j) }
	add := func(n copperNode) int {
		nodes = append(nodes, n)
		uf.add(len(nodes) - 1)
		return len(nodes) - 1
	}

	// Pads: a through-hole pad spans both copper layers; its layer
	// projections are joined up front.
	for pi, pr := range pads {
		pad := padByRef(b, pr)
		first := -1
		for _, layer := range []string{board.LayerFrontCopper, board.LayerBackCopper} {
			if pad == nil || !pad.OnCopperLayer(layer) {
				continue
			}
			idx := add(copperNode{point: pr.Position, layer: layer, pad: pi})
			if first < 0 {
				first = idx
			} else {
				addPair(first, idx)
			}
		}
		if first < 0 {
			// Pad with no copper layer resolves to the front layer so the
			// net still converges somewhere.
			add(copperNode{point: pr.Position, layer: board.LayerFrontCopper, pad: pi})
		}
	}

	// Trace segments: both endpoints on the trace layer, joined to each
	// other (the copper run itself is a connection).
	for _, tr := range b.Traces {
		if tr.Net != name {
			continue
		}
		for _, s := range tr.Segments {
			i := add(copperNode{point: geom.Point{X: s.X1, Y: s.Y1}, layer: tr.Layer, pad: -1})
			j := add(copperNode{point: geom.Point{X: s.X2, Y: s.Y2}, layer: tr.Layer, pad: -1})
			addPair(i, j)
		}
	}

	// Vias bridge front and back copper at one point.
	for _, v := range b.Vias {
		if v.Net != name {
			continue
		}
		p := geom.Point{X: v.X, Y: v.Y}
		i := add(copperNode{point: p, layer: board.LayerFrontCopper, pad: -1})
		j := add(copperNode{point: p, layer: board.LayerBackCopper, pad: -1})
		addPair(i, j)
	}

	// Zones: one group node each; same-layer points inside the polygon
	// join it below.
	for _, z := range b.Zones {
		if z.Net != name || len(z.Vertices) < 3 {
			continue
		}
		add(copperNode{point: z.Vertices[0], layer: z.Layer, pad: -1, zone: z.Vertices})
	}

	// Physical joining: coincident same-layer points, and zone membership.
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, c := &nodes[i], &nodes[j]
			if a.layer != c.layer {
				continue
			}
			switch {
			case a.zone != nil && c.zone == nil:
				if geom.PointInPolygon(c.point, a.zone) {
					addPair(i, j)
				}
			case c.zone != nil && a.zone == nil:
				if geom.PointInPolygon(a.point, c.zone) {
					addPair(i, j)
				}
			case a.zone == nil && c.zone == nil:
				if geom.Coincident(a.point, c.point) {
					addPair(i, j)
				}
			}
		}
	}

	// Collect connected components among the pads, represented by the
	// first pad encountered in each, in stable pad order.
	var reps []geom.Point
	rootComp := make(map[int]int)
	for i, n := range nodes {
		if n.pad < 0 {
			continue
		}
		root := uf.find(i)
		if _, seen := rootComp[root]; !seen {
			rootComp[root] = len(reps)
			reps = append(reps, n.point)
		}
	}

	if len(reps) < 2 {
		return nil
	}
	return spanComponents(reps, name)
}

// spanComponents connects the component representatives with a minimum
// spanning tree (Prim, O(n²)), breaking distance ties by lower index so
// the overlay is stable.
func spanComponents(points []geom.Point, net string) []Line {
	n := len(points)
	inTree := make([]bool, n)
	bestDist := make([]float64, n)
	bestFrom := make([]int, n)
	for i := range bestDist {
		bestDist[i] = math.Inf(1)
		bestFrom[i] = -1
	}

	inTree[0] = true
	for i := 1; i < n; i++ {
		bestDist[i] = geom.Dist(points[0], points[i])
		bestFrom[i] = 0
	}

	lines := make([]Line, 0, n-1)
	for added := 1; added < n; added++ {
		next := -1
		for i := 0; i < n; i++ {
			if inTree[i] {
				continue
			}
			if next == -1 || bestDist[i] < bestDist[next] {
				next = i
			}
		}
		from := points[bestFrom[next]]
		to := points[next]
		lines = append(lines, Line{X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y, Net: net})
		inTree[next] = true

		for i := 0; i < n; i++ {
			if inTree[i] {
				continue
			}
			if d := geom.Dist(points[next], points[i]); d < bestDist[i] {
				bestDist[i] = d
				bestFrom[i] = next
			}
		}
	}
	return lines
}

func padByRef(b *board.Board, pr board.PadRef) *board.Pad {
	fp := b.FindFootprint(pr.FootprintRef)
	if fp == nil {
		return nil
	}
	for i := range fp.Pads {
		if fp.Pads[i].ID == pr.PadID {
			return &fp.Pads[i]
		}
	}
	return nil
}
