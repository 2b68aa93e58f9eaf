package board

import (
	"github.com/sparkbench/boardcore/pkg/geom"
)

// Default board dimensions used when no outline is available (mm).
const (
	DefaultWidth  = 100.0
	DefaultHeight = 80.0
)

// Default returns an empty board with a rectangular default outline. It is
// the fallback for unparseable documents.
func Default() *Board {
	return &Board{
		Version: 1,
		Units:   "mm",
		Outline: DefaultOutline(),
		Nets:    []Net{{Number: NetUnconnected, Name: ""}},
	}
}

// DefaultOutline returns the default rectangular board edge.
func DefaultOutline() Outline {
	return Outline{Vertices: []geom.Point{
		{X: 0, Y: 0},
		{X: DefaultWidth, Y: 0},
		{X: DefaultWidth, Y: DefaultHeight},
		{X: 0, Y: DefaultHeight},
	}}
}

// FindFootprint returns the footprint with the given reference designator,
// or nil if absent.
func (b *Board) FindFootprint(ref string) *Footprint {
	for i := range b.Footprints {
		if b.Footprints[i].Ref == ref {
			return &b.Footprints[i]
		}
	}
	return nil
}

// NetByNumber returns the net with the given number, or nil.
func (b *Board) NetByNumber(number int) *Net {
	for i := range b.Nets {
		if b.Nets[i].Number == number {
			return &b.Nets[i]
		}
	}
	return nil
}

// NetByName returns the net with the given name, or nil. The unnamed
// unconnected net is not addressable by name.
func (b *Board) NetByName(name string) *Net {
	if name == "" {
		return nil
	}
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i]
		}
	}
	return nil
}

// PadRef identifies one pad of one footprint.
type PadRef struct {
	FootprintRef string
	PadID        string
	Position     geom.Point
}

// PadsOnNet returns every pad connected to the named net, with absolute
// positions, in footprint order.
func (b *Board) PadsOnNet(name string) []PadRef {
	var refs []PadRef
	for fi := range b.Footprints {
		fp := &b.Footprints[fi]
		for pi := range fp.Pads {
			if fp.Pads[pi].Net == name {
				refs = append(refs, PadRef{
					FootprintRef: fp.Ref,
					PadID:        fp.Pads[pi].ID,
					Position:     fp.PadPosition(&fp.Pads[pi]),
				})
			}
		}
	}
	return refs
}

// TracesOnNet returns the traces routed for the named net.
func (b *Board) TracesOnNet(name string) []Trace {
	var traces []Trace
	for _, tr := range b.Traces {
		if tr.Net == name {
			traces = append(traces, tr)
		}
	}
	return traces
}

// ViasOnNet returns the vias belonging to the named net.
func (b *Board) ViasOnNet(name string) []Via {
	var vias []Via
	for _, v := range b.Vias {
		if v.Net == name {
			vias = append(vias, v)
		}
	}
	return vias
}

// NetInfo bundles everything routed for one net.
type NetInfo struct {
	Net    Net
	Pads   []PadRef
	Traces []Trace
	Vias   []Via
}

// GetNetInfo returns complete connectivity information for a named net, or
// nil when the net does not exist.
func (b *Board) GetNetInfo(name string) *NetInfo {
	net := b.NetByName(name)
	if net == nil {
		return nil
	}
	return &NetInfo{
		Net:    *net,
		Pads:   b.PadsOnNet(name),
		Traces: b.TracesOnNet(name),
		Vias:   b.ViasOnNet(name),
	}
}

// PadPosition returns the absolute board position of a pad, applying the
// footprint rotation and translation.
func (fp *Footprint) PadPosition(p *Pad) geom.Point {
	r := geom.Rotate(geom.Point{X: p.X, Y: p.Y}, fp.Rotation)
	return geom.Point{X: r.X + fp.X, Y: r.Y + fp.Y}
}

// CourtyardCorners returns the four absolute corners of the footprint
// courtyard, or false when no courtyard is declared.
func (fp *Footprint) CourtyardCorners() ([4]geom.Point, bool) {
	if fp.Courtyard == nil {
		return [4]geom.Point{}, false
	}
	return geom.RectCorners(fp.X, fp.Y, fp.Courtyard.Width, fp.Courtyard.Height, fp.Rotation), true
}

// OnCopperLayer reports whether the pad lands on the given copper layer.
// A plated through-hole pad is present on every copper layer.
func (p *Pad) OnCopperLayer(layer string) bool {
	if p.Drill > 0 {
		return true
	}
	for _, l := range p.Layers {
		if l == layer || l == "*.Cu" {
			return true
		}
	}
	return false
}

// BoundingBox calculates the bounding box of the entire board: outline,
// traces, vias and footprint pads.
func (b *Board) BoundingBox() geom.BoundingBox {
	bbox := geom.NewBoundingBox()

	for _, v := range b.Outline.Vertices {
		bbox.Expand(v)
	}
	for _, tr := range b.Traces {
		for _, s := range tr.Segments {
			bbox.Expand(geom.Point{X: s.X1, Y: s.Y1})
			bbox.Expand(geom.Point{X: s.X2, Y: s.Y2})
		}
	}
	for _, v := range b.Vias {
		r := v.Size / 2.0
		bbox.Expand(geom.Point{X: v.X - r, Y: v.Y - r})
		bbox.Expand(geom.Point{X: v.X + r, Y: v.Y + r})
	}
	for fi := range b.Footprints {
		bbox.ExpandBox(b.Footprints[fi].BoundingBox())
	}
	return bbox
}

// BoundingBox calculates the bounding box of a footprint from its pads and
// courtyard.
func (fp *Footprint) BoundingBox() geom.BoundingBox {
	bbox := geom.NewBoundingBox()

	for pi := range fp.Pads {
		pad := &fp.Pads[pi]
		abs := fp.PadPosition(pad)
		hw := pad.Width / 2.0
		hh := pad.Height / 2.0
		bbox.Expand(geom.Point{X: abs.X - hw, Y: abs.Y - hh})
		bbox.Expand(geom.Point{X: abs.X + hw, Y: abs.Y + hh})
	}
	if corners, ok := fp.CourtyardCorners(); ok {
		for _, c := range corners {
			bbox.Expand(c)
		}
	}
	if bbox.IsEmpty() {
		bbox.Expand(geom.Point{X: fp.X, Y: fp.Y})
	}
	return bbox
}

// PruneNets removes nets no pad, trace or via references. Net 0 is always
// kept. Returns the pruned board and the removed nets with their original
// indices (ascending).
func (b *Board) PruneNets() (*Board, []IndexedNet) {
	used := make(map[string]bool)
	for fi := range b.Footprints {
		for pi := range b.Footprints[fi].Pads {
			if net := b.Footprints[fi].Pads[pi].Net; net != "" {
				used[net] = true
			}
		}
	}
	for _, tr := range b.Traces {
		if tr.Net != "" {
			used[tr.Net] = true
		}
	}
	for _, v := range b.Vias {
		if v.Net != "" {
			used[v.Net] = true
		}
	}
	for _, z := range b.Zones {
		if z.Net != "" {
			used[z.Net] = true
		}
	}

	var removed []IndexedNet
	kept := b.Nets[:0:0]
	for i, n := range b.Nets {
		if n.Number == NetUnconnected || used[n.Name] {
			kept = append(kept, n)
		} else {
			removed = append(removed, IndexedNet{Index: i, Net: n})
		}
	}
	if len(removed) == 0 {
		return b, nil
	}
	nb := b.Clone()
	nb.Nets = kept
	return nb, removed
}

// IndexedNet records a net together with its slice position, so an exact
// restore can re-insert it where it was.
type IndexedNet struct {
	Index int
	Net   Net
}
