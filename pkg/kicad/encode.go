package kicad

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/kicad/sexpr"
)

// File format version written for synthesized documents (KiCad 6.0).
const generatedVersion = 20211014

// EncodeFile serializes the document to a .kicad_pcb file.
func (d *Document) EncodeFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	return d.Encode(f)
}

// Encode serializes the document. Nodes the codec understands (nets,
// footprints, segments, vias, edge-cut gr_lines) are regenerated from the
// board at the position their kind first occurred in the original tree;
// every other node passes through verbatim. Zones also pass through: the
// model holds only their outline, and regenerating would drop the fill
// and thermal sub-nodes KiCad writes. Without an original tree a complete
// file skeleton is synthesized.
func (d *Document) Encode(w io.Writer) error {
	root := d.regenerate()
	return sexpr.Write(w, root)
}

func (d *Document) regenerate() *sexpr.List {
	b := d.board
	numbers := netNumbers(b)

	gen := map[string]func() []sexpr.Node{
		"net":       func() []sexpr.Node { return netNodes(b) },
		"gr_line":   func() []sexpr.Node { return outlineNodes(b) },
		"footprint": func() []sexpr.Node { return footprintNodes(b, numbers) },
		"segment":   func() []sexpr.Node { return segmentNodes(b, numbers) },
		"via":       func() []sexpr.Node { return viaNodes(b, numbers) },
		"zone":      func() []sexpr.Node { return zoneNodes(b, numbers) },
	}
	order := []string{"net", "footprint", "gr_line", "segment", "via", "zone"}

	if d.Root == nil {
		items := []sexpr.Node{
			sexpr.Sym("kicad_pcb"),
			sexpr.NewList(sexpr.Sym("version"), sexpr.Sym(strconv.Itoa(generatedVersion))),
			sexpr.NewList(sexpr.Sym("generator"), sexpr.Str("boardcore")),
			sexpr.NewList(sexpr.Sym("general"),
				sexpr.NewList(sexpr.Sym("thickness"), sexpr.Sym("1.6"))),
			defaultLayerTable(),
			sexpr.NewList(sexpr.Sym("setup"),
				sexpr.NewList(sexpr.Sym("pad_to_mask_clearance"), sexpr.Sym("0"))),
		}
		for _, kind := range order {
			items = append(items, gen[kind]()...)
		}
		return &sexpr.List{Items: items}
	}

	emitted := make(map[string]bool)
	items := make([]sexpr.Node, 0, len(d.Root.Items))
	for _, item := range d.Root.Items {
		list, isList := item.(*sexpr.List)
		if !isList {
			items = append(items, item)
			continue
		}
		kind := list.Name()
		regen, recognized := gen[kind]
		switch kind {
		case "gr_line":
			// Only edge-cut lines belong to the board model.
			if layer, ok := getChildString(list, "layer"); !ok || layer != board.LayerEdgeCuts {
				recognized = false
			}
		case "zone":
			// No command edits zones; the original node carries hatch,
			// connect_pads and fill settings the model does not hold.
			recognized = false
			emitted[kind] = true
		}
		if !recognized {
			items = append(items, item)
			continue
		}
		if !emitted[kind] {
			items = append(items, regen()...)
			emitted[kind] = true
		}
	}
	// Kinds the original file never contained still need a home.
	for _, kind := range order {
		if !emitted[kind] {
			items = append(items, gen[kind]()...)
		}
	}
	return &sexpr.List{Items: items}
}

// netNumbers maps net names to their numbers for reference nodes.
func netNumbers(b *board.Board) map[string]int {
	numbers := make(map[string]int, len(b.Nets))
	for _, n := range b.Nets {
		if n.Name != "" {
			numbers[n.Name] = n.Number
		}
	}
	return numbers
}

func netNodes(b *board.Board) []sexpr.Node {
	nodes := make([]sexpr.Node, 0, len(b.Nets))
	for _, n := range b.Nets {
		nodes = append(nodes, sexpr.NewList(
			sexpr.Sym("net"), num(float64(n.Number)), sexpr.Str(n.Name)))
	}
	return nodes
}

func outlineNodes(b *board.Board) []sexpr.Node {
	verts := b.Outline.Vertices
	nodes := make([]sexpr.Node, 0, len(verts))
	for i := range verts {
		a := verts[i]
		c := verts[(i+1)%len(verts)]
		nodes = append(nodes, sexpr.NewList(
			sexpr.Sym("gr_line"),
			sexpr.NewList(sexpr.Sym("start"), num(a.X), num(a.Y)),
			sexpr.NewList(sexpr.Sym("end"), num(c.X), num(c.Y)),
			sexpr.NewList(sexpr.Sym("stroke"),
				sexpr.NewList(sexpr.Sym("width"), num(0.1)),
				sexpr.NewList(sexpr.Sym("type"), sexpr.Sym("solid"))),
			sexpr.NewList(sexpr.Sym("layer"), sexpr.Str(board.LayerEdgeCuts)),
		))
	}
	return nodes
}

func footprintNodes(b *board.Board, numbers map[string]int) []sexpr.Node {
	nodes := make([]sexpr.Node, 0, len(b.Footprints))
	for fi := range b.Footprints {
		nodes = append(nodes, footprintNode(&b.Footprints[fi], numbers))
	}
	return nodes
}

func footprintNode(fp *board.Footprint, numbers map[string]int) sexpr.Node {
	items := []sexpr.Node{
		sexpr.Sym("footprint"), sexpr.Str(fp.FootprintType),
		sexpr.NewList(sexpr.Sym("layer"), sexpr.Str(fp.Layer)),
		sexpr.NewList(sexpr.Sym("uuid"), sexpr.Str(fp.UUID)),
		atNode(fp.X, fp.Y, fp.Rotation),
		sexpr.NewList(sexpr.Sym("property"), sexpr.Str("Reference"), sexpr.Str(fp.Ref)),
		sexpr.NewList(sexpr.Sym("property"), sexpr.Str("Value"), sexpr.Str(fp.Value)),
	}

	if c := fp.Courtyard; c != nil {
		hw, hh := c.Width/2.0, c.Height/2.0
		items = append(items, sexpr.NewList(
			sexpr.Sym("fp_rect"),
			sexpr.NewList(sexpr.Sym("start"), num(-hw), num(-hh)),
			sexpr.NewList(sexpr.Sym("end"), num(hw), num(hh)),
			sexpr.NewList(sexpr.Sym("layer"), sexpr.Str("F.CrtYd")),
		))
	}
	for _, s := range fp.Silkscreen {
		items = append(items, sexpr.NewList(
			sexpr.Sym("fp_line"),
			sexpr.NewList(sexpr.Sym("start"), num(s.X1), num(s.Y1)),
			sexpr.NewList(sexpr.Sym("end"), num(s.X2), num(s.Y2)),
			sexpr.NewList(sexpr.Sym("layer"), sexpr.Str("F.SilkS")),
		))
	}

	for pi := range fp.Pads {
		items = append(items, padNode(&fp.Pads[pi], numbers))
	}
	return &sexpr.List{Items: items}
}

func padNode(p *board.Pad, numbers map[string]int) sexpr.Node {
	padType := "smd"
	if p.Drill > 0 {
		padType = "thru_hole"
	}
	items := []sexpr.Node{
		sexpr.Sym("pad"), sexpr.Str(p.ID), sexpr.Sym(padType), sexpr.Sym(p.Shape),
		atNode(p.X, p.Y, 0),
		sexpr.NewList(sexpr.Sym("size"), num(p.Width), num(p.Height)),
	}
	if p.Drill > 0 {
		items = append(items, sexpr.NewList(sexpr.Sym("drill"), num(p.Drill)))
	}
	layers := []sexpr.Node{sexpr.Sym("layers")}
	for _, l := range p.Layers {
		layers = append(layers, sexpr.Str(l))
	}
	items = append(items, &sexpr.List{Items: layers})
	if p.Net != "" {
		items = append(items, sexpr.NewList(
			sexpr.Sym("net"), num(float64(numbers[p.Net])), sexpr.Str(p.Net)))
	}
	return &sexpr.List{Items: items}
}

func segmentNodes(b *board.Board, numbers map[string]int) []sexpr.Node {
	var nodes []sexpr.Node
	for _, tr := range b.Traces {
		for _, s := range tr.Segments {
			nodes = append(nodes, sexpr.NewList(
				sexpr.Sym("segment"),
				sexpr.NewList(sexpr.Sym("start"), num(s.X1), num(s.Y1)),
				sexpr.NewList(sexpr.Sym("end"), num(s.X2), num(s.Y2)),
				sexpr.NewList(sexpr.Sym("width"), num(tr.Width)),
				sexpr.NewList(sexpr.Sym("layer"), sexpr.Str(tr.Layer)),
				sexpr.NewList(sexpr.Sym("net"), num(float64(numbers[tr.Net]))),
				sexpr.NewList(sexpr.Sym("uuid"), sexpr.Str(s.UUID)),
			))
		}
	}
	return nodes
}

func viaNodes(b *board.Board, numbers map[string]int) []sexpr.Node {
	nodes := make([]sexpr.Node, 0, len(b.Vias))
	for _, v := range b.Vias {
		nodes = append(nodes, sexpr.NewList(
			sexpr.Sym("via"),
			atNode(v.X, v.Y, 0),
			sexpr.NewList(sexpr.Sym("size"), num(v.Size)),
			sexpr.NewList(sexpr.Sym("drill"), num(v.Drill)),
			sexpr.NewList(sexpr.Sym("layers"),
				sexpr.Str(board.LayerFrontCopper), sexpr.Str(board.LayerBackCopper)),
			sexpr.NewList(sexpr.Sym("net"), num(float64(numbers[v.Net]))),
			sexpr.NewList(sexpr.Sym("uuid"), sexpr.Str(v.UUID)),
		))
	}
	return nodes
}

func zoneNodes(b *board.Board, numbers map[string]int) []sexpr.Node {
	nodes := make([]sexpr.Node, 0, len(b.Zones))
	for _, z := range b.Zones {
		pts := []sexpr.Node{sexpr.Sym("pts")}
		for _, v := range z.Vertices {
			pts = append(pts, sexpr.NewList(sexpr.Sym("xy"), num(v.X), num(v.Y)))
		}
		nodes = append(nodes, sexpr.NewList(
			sexpr.Sym("zone"),
			sexpr.NewList(sexpr.Sym("net"), num(float64(numbers[z.Net]))),
			sexpr.NewList(sexpr.Sym("net_name"), sexpr.Str(z.Net)),
			sexpr.NewList(sexpr.Sym("layer"), sexpr.Str(z.Layer)),
			sexpr.NewList(sexpr.Sym("uuid"), sexpr.Str(z.UUID)),
			sexpr.NewList(sexpr.Sym("polygon"), &sexpr.List{Items: pts}),
		))
	}
	return nodes
}

func atNode(x, y, rotation float64) sexpr.Node {
	if rotation != 0 {
		return sexpr.NewList(sexpr.Sym("at"), num(x), num(y), num(rotation))
	}
	return sexpr.NewList(sexpr.Sym("at"), num(x), num(y))
}

func defaultLayerTable() sexpr.Node {
	return sexpr.NewList(
		sexpr.Sym("layers"),
		sexpr.NewList(sexpr.Sym("0"), sexpr.Str(board.LayerFrontCopper), sexpr.Sym("signal")),
		sexpr.NewList(sexpr.Sym("31"), sexpr.Str(board.LayerBackCopper), sexpr.Sym("signal")),
		sexpr.NewList(sexpr.Sym("44"), sexpr.Str(board.LayerEdgeCuts), sexpr.Sym("user")),
	)
}

// num formats a coordinate the way KiCad writes them: trailing zeros
// trimmed, no exponent form.
func num(v float64) *sexpr.Atom {
	return sexpr.Sym(strconv.FormatFloat(v, 'f', -1, 64))
}
