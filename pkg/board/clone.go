package board

import "github.com/sparkbench/boardcore/pkg/geom"

// Clone returns a deep copy of the board. Every mutation in the command
// layer works on a fresh clone, so snapshots held by the undo stack stay
// unaliased.
func (b *Board) Clone() *Board {
	nb := &Board{
		Version: b.Version,
		Units:   b.Units,
		Outline: Outline{Vertices: clonePoints(b.Outline.Vertices)},
	}
	if b.Nets != nil {
		nb.Nets = make([]Net, len(b.Nets))
		copy(nb.Nets, b.Nets)
	}
	if b.Footprints != nil {
		nb.Footprints = make([]Footprint, len(b.Footprints))
		for i := range b.Footprints {
			nb.Footprints[i] = b.Footprints[i].Clone()
		}
	}
	if b.Traces != nil {
		nb.Traces = make([]Trace, len(b.Traces))
		for i := range b.Traces {
			nb.Traces[i] = b.Traces[i].Clone()
		}
	}
	if b.Vias != nil {
		nb.Vias = make([]Via, len(b.Vias))
		copy(nb.Vias, b.Vias)
	}
	if b.Zones != nil {
		nb.Zones = make([]Zone, len(b.Zones))
		for i := range b.Zones {
			z := b.Zones[i]
			z.Vertices = clonePoints(z.Vertices)
			nb.Zones[i] = z
		}
	}
	return nb
}

// Clone returns a deep copy of the footprint.
func (fp Footprint) Clone() Footprint {
	if fp.Pads != nil {
		pads := make([]Pad, len(fp.Pads))
		for i := range fp.Pads {
			p := fp.Pads[i]
			if p.Layers != nil {
				layers := make([]string, len(p.Layers))
				copy(layers, p.Layers)
				p.Layers = layers
			}
			pads[i] = p
		}
		fp.Pads = pads
	}
	if fp.Courtyard != nil {
		c := *fp.Courtyard
		fp.Courtyard = &c
	}
	if fp.Silkscreen != nil {
		silk := make([]SilkLine, len(fp.Silkscreen))
		copy(silk, fp.Silkscreen)
		fp.Silkscreen = silk
	}
	return fp
}

// Clone returns a deep copy of the trace.
func (tr Trace) Clone() Trace {
	if tr.Segments != nil {
		segs := make([]Segment, len(tr.Segments))
		copy(segs, tr.Segments)
		tr.Segments = segs
	}
	return tr
}

func clonePoints(pts []geom.Point) []geom.Point {
	if pts == nil {
		return nil
	}
	out := make([]geom.Point, len(pts))
	copy(out, pts)
	return out
}
