package kicad

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/sparkbench/boardcore/pkg/board"
	"github.com/sparkbench/boardcore/pkg/geom"
	"github.com/sparkbench/boardcore/pkg/kicad/sexpr"
)

// Document pairs a parsed board with the original S-expression tree, so
// serialization can re-emit nodes this system does not interpret verbatim
// in their original position. The tree is never mutated after parse.
type Document struct {
	Root  *sexpr.List
	board *board.Board
}

// Board returns the board extracted from the document.
func (d *Document) Board() *board.Board {
	return d.board
}

// WithBoard returns a document carrying the given board version over the
// same original tree. The shared tree is safe because encode never edits
// it in place.
func (d *Document) WithBoard(b *board.Board) *Document {
	return &Document{Root: d.Root, board: b}
}

// NewDocument wraps a board with no original tree; encoding synthesizes a
// complete file skeleton.
func NewDocument(b *board.Board) *Document {
	return &Document{board: b}
}

// DecodeFile reads and parses a .kicad_pcb file.
func DecodeFile(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode parses a KiCad board from an io.Reader. A structurally invalid
// document (unbalanced parentheses, missing kicad_pcb root) returns an
// error; callers fall back to board.Default() rather than propagating.
func Decode(r io.Reader) (*Document, error) {
	nodes, err := sexpr.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root, ok := nodes[0].(*sexpr.List)
	if !ok || root.Name() != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: missing 'kicad_pcb' root")
	}

	b := &board.Board{
		Version: 1,
		Units:   "mm",
	}

	netNames := decodeNets(root, b)
	b.Outline = decodeOutline(root)
	decodeFootprints(root, b, netNames)
	decodeSegments(root, b, netNames)
	decodeVias(root, b, netNames)
	decodeZones(root, b, netNames)

	if b.NetByNumber(board.NetUnconnected) == nil {
		b.Nets = append([]board.Net{{Number: board.NetUnconnected}}, b.Nets...)
	}

	return &Document{Root: root, board: b}, nil
}

// decodeNets extracts (net <number> "<name>") nodes and returns the
// number-to-name lookup used by pads, segments and vias.
func decodeNets(root *sexpr.List, b *board.Board) map[int]string {
	netNames := make(map[int]string)
	for _, node := range findAllNodes(root, "net") {
		number, err := getInt(node, 1)
		if err != nil {
			continue
		}
		name, _ := getString(node, 2)
		b.Nets = append(b.Nets, board.Net{Number: number, Name: name})
		netNames[number] = name
	}
	return netNames
}

// decodeOutline chains (gr_line ...) nodes on Edge.Cuts into the closed
// board polygon. When the edges do not chain into a polygon the bounding
// rectangle of the edges is used; with no edges at all the default outline
// applies.
func decodeOutline(root *sexpr.List) board.Outline {
	type edge struct{ a, b geom.Point }
	var edges []edge

	for _, node := range findAllNodes(root, "gr_line") {
		if layer, ok := getChildString(node, "layer"); !ok || layer != board.LayerEdgeCuts {
			continue
		}
		start, okS := findNode(node, "start")
		end, okE := findNode(node, "end")
		if !okS || !okE {
			continue
		}
		x1, err1 := getFloat(start, 1)
		y1, err2 := getFloat(start, 2)
		x2, err3 := getFloat(end, 1)
		y2, err4 := getFloat(end, 2)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		edges = append(edges, edge{a: geom.Point{X: x1, Y: y1}, b: geom.Point{X: x2, Y: y2}})
	}

	if len(edges) == 0 {
		return board.DefaultOutline()
	}

	// Walk the edges end to end.
	used := make([]bool, len(edges))
	vertices := []geom.Point{edges[0].a}
	cursor := edges[0].b
	used[0] = true
	for range edges[1:] {
		found := false
		for i, e := range edges {
			if used[i] {
				continue
			}
			if geom.Coincident(e.a, cursor) {
				vertices = append(vertices, e.a)
				cursor = e.b
				used[i] = true
				found = true
				break
			}
			if geom.Coincident(e.b, cursor) {
				vertices = append(vertices, e.b)
				cursor = e.a
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			break
		}
	}

	closed := geom.Coincident(cursor, vertices[0])
	if closed && len(vertices) >= 3 {
		return board.Outline{Vertices: vertices}
	}

	// Unchained edge soup: fall back to the rectangle spanning all edges.
	bbox := geom.NewBoundingBox()
	for _, e := range edges {
		bbox.Expand(e.a)
		bbox.Expand(e.b)
	}
	return board.Outline{Vertices: []geom.Point{
		bbox.Min,
		{X: bbox.Max.X, Y: bbox.Min.Y},
		bbox.Max,
		{X: bbox.Min.X, Y: bbox.Max.Y},
	}}
}

// decodeFootprints extracts all (footprint ...) nodes. Malformed
// footprints are skipped rather than failing the whole parse.
func decodeFootprints(root *sexpr.List, b *board.Board, netNames map[int]string) {
	for _, node := range findAllNodes(root, "footprint") {
		fp, err := decodeFootprint(node, netNames)
		if err != nil {
			continue
		}
		b.Footprints = append(b.Footprints, *fp)
	}
}

func decodeFootprint(node *sexpr.List, netNames map[int]string) (*board.Footprint, error) {
	fp := &board.Footprint{}

	name, err := getString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}
	fp.FootprintType = name

	layer, ok := getChildString(node, "layer")
	if !ok {
		return nil, fmt.Errorf("missing required 'layer' field")
	}
	fp.Layer = layer

	at, ok := findNode(node, "at")
	if !ok {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	if fp.X, err = getFloat(at, 1); err != nil {
		return nil, fmt.Errorf("failed to parse X position: %w", err)
	}
	if fp.Y, err = getFloat(at, 2); err != nil {
		return nil, fmt.Errorf("failed to parse Y position: %w", err)
	}
	if rot, err := getFloat(at, 3); err == nil {
		fp.Rotation = rot
	}

	fp.UUID = decodeUUID(node)

	// KiCad 7+ property nodes; older files use fp_text reference/value.
	for _, prop := range findAllNodes(node, "property") {
		key, err := getString(prop, 1)
		if err != nil {
			continue
		}
		value, err := getString(prop, 2)
		if err != nil {
			continue
		}
		switch key {
		case "Reference":
			fp.Ref = value
		case "Value":
			fp.Value = value
		}
	}
	for _, text := range findAllNodes(node, "fp_text") {
		kind, err := getString(text, 1)
		if err != nil {
			continue
		}
		value, err := getString(text, 2)
		if err != nil {
			continue
		}
		switch kind {
		case "reference":
			if fp.Ref == "" {
				fp.Ref = value
			}
		case "value":
			if fp.Value == "" {
				fp.Value = value
			}
		}
	}

	for _, padNode := range findAllNodes(node, "pad") {
		pad, err := decodePad(padNode, netNames)
		if err != nil {
			continue
		}
		fp.Pads = append(fp.Pads, *pad)
	}

	fp.Courtyard = decodeCourtyard(node)
	fp.Silkscreen = decodeSilkscreen(node)

	return fp, nil
}

// decodePad extracts one (pad "number" type shape ...) node.
func decodePad(node *sexpr.List, netNames map[int]string) (*board.Pad, error) {
	pad := &board.Pad{}

	number, err := getString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.ID = number

	padType, err := getString(node, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}

	shape, err := getString(node, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	pad.Shape = shape

	at, ok := findNode(node, "at")
	if !ok {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	if pad.X, err = getFloat(at, 1); err != nil {
		return nil, fmt.Errorf("failed to parse pad X position: %w", err)
	}
	if pad.Y, err = getFloat(at, 2); err != nil {
		return nil, fmt.Errorf("failed to parse pad Y position: %w", err)
	}

	size, ok := findNode(node, "size")
	if !ok {
		return nil, fmt.Errorf("missing required 'size' field")
	}
	if pad.Width, err = getFloat(size, 1); err != nil {
		return nil, fmt.Errorf("failed to parse pad width: %w", err)
	}
	if pad.Height, err = getFloat(size, 2); err != nil {
		return nil, fmt.Errorf("failed to parse pad height: %w", err)
	}

	if drill, ok := findNode(node, "drill"); ok {
		// Either (drill d) or (drill (diameter d))
		if v, err := getFloat(drill, 1); err == nil {
			pad.Drill = v
		} else if dia, ok := findNode(drill, "diameter"); ok {
			if v, err := getFloat(dia, 1); err == nil {
				pad.Drill = v
			}
		}
	}
	if pad.Drill == 0 && padType == "thru_hole" {
		pad.Drill = math.Min(pad.Width, pad.Height) / 2.0
	}

	layers, ok := findNode(node, "layers")
	if !ok {
		return nil, fmt.Errorf("missing required 'layers' field")
	}
	for i := 1; i < layers.Len(); i++ {
		if name, err := getString(layers, i); err == nil && name != "" {
			pad.Layers = append(pad.Layers, name)
		}
	}

	if netNode, ok := findNode(node, "net"); ok {
		if num, err := getInt(netNode, 1); err == nil {
			if name, ok := netNames[num]; ok {
				pad.Net = name
			}
		}
	}

	return pad, nil
}

// decodeCourtyard derives the courtyard rectangle from fp_rect/fp_line
// graphics on the courtyard layers. The box is assumed centered on the
// footprint origin; only its extents are kept.
func decodeCourtyard(node *sexpr.List) *board.Courtyard {
	bbox := geom.NewBoundingBox()
	expand := func(graphic *sexpr.List) {
		layer, ok := getChildString(graphic, "layer")
		if !ok || !strings.HasSuffix(layer, ".CrtYd") {
			return
		}
		for _, key := range []string{"start", "end"} {
			pt, ok := findNode(graphic, key)
			if !ok {
				return
			}
			x, err1 := getFloat(pt, 1)
			y, err2 := getFloat(pt, 2)
			if err1 != nil || err2 != nil {
				return
			}
			bbox.Expand(geom.Point{X: x, Y: y})
		}
	}
	for _, rect := range findAllNodes(node, "fp_rect") {
		expand(rect)
	}
	for _, line := range findAllNodes(node, "fp_line") {
		expand(line)
	}
	if bbox.IsEmpty() || bbox.Width() <= 0 || bbox.Height() <= 0 {
		return nil
	}
	return &board.Courtyard{Width: bbox.Width(), Height: bbox.Height()}
}

// decodeSilkscreen keeps silkscreen fp_lines in footprint-relative
// coordinates for the viewer.
func decodeSilkscreen(node *sexpr.List) []board.SilkLine {
	var silk []board.SilkLine
	for _, line := range findAllNodes(node, "fp_line") {
		layer, ok := getChildString(line, "layer")
		if !ok || !strings.HasSuffix(layer, ".SilkS") {
			continue
		}
		start, okS := findNode(line, "start")
		end, okE := findNode(line, "end")
		if !okS || !okE {
			continue
		}
		x1, err1 := getFloat(start, 1)
		y1, err2 := getFloat(start, 2)
		x2, err3 := getFloat(end, 1)
		y2, err4 := getFloat(end, 2)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		silk = append(silk, board.SilkLine{X1: x1, Y1: y1, X2: x2, Y2: y2})
	}
	return silk
}

// decodeSegments extracts (segment ...) nodes and groups them into traces
// by net, layer and width in first-seen order.
func decodeSegments(root *sexpr.List, b *board.Board, netNames map[int]string) {
	type traceKey struct {
		net   string
		layer string
		width float64
	}
	index := make(map[traceKey]int)

	for _, node := range findAllNodes(root, "segment") {
		start, okS := findNode(node, "start")
		end, okE := findNode(node, "end")
		if !okS || !okE {
			continue
		}
		x1, err1 := getFloat(start, 1)
		y1, err2 := getFloat(start, 2)
		x2, err3 := getFloat(end, 1)
		y2, err4 := getFloat(end, 2)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}

		width := getChildFloat(node, "width", 0)
		layer, _ := getChildString(node, "layer")
		net := ""
		if netNode, ok := findNode(node, "net"); ok {
			if num, err := getInt(netNode, 1); err == nil {
				net = netNames[num]
			}
		}

		seg := board.Segment{
			UUID: decodeUUID(node),
			X1:   x1, Y1: y1, X2: x2, Y2: y2,
		}

		key := traceKey{net: net, layer: layer, width: width}
		if i, ok := index[key]; ok {
			b.Traces[i].Segments = append(b.Traces[i].Segments, seg)
			continue
		}
		index[key] = len(b.Traces)
		b.Traces = append(b.Traces, board.Trace{
			Net:      net,
			Layer:    layer,
			Width:    width,
			Segments: []board.Segment{seg},
		})
	}
}

// decodeVias extracts (via ...) nodes.
func decodeVias(root *sexpr.List, b *board.Board, netNames map[int]string) {
	for _, node := range findAllNodes(root, "via") {
		at, ok := findNode(node, "at")
		if !ok {
			continue
		}
		x, err1 := getFloat(at, 1)
		y, err2 := getFloat(at, 2)
		if err1 != nil || err2 != nil {
			continue
		}
		net := ""
		if netNode, ok := findNode(node, "net"); ok {
			if num, err := getInt(netNode, 1); err == nil {
				net = netNames[num]
			}
		}
		b.Vias = append(b.Vias, board.Via{
			UUID:  decodeUUID(node),
			X:     x,
			Y:     y,
			Size:  getChildFloat(node, "size", 0),
			Drill: getChildFloat(node, "drill", 0),
			Net:   net,
		})
	}
}

// decodeZones extracts (zone ...) outline polygons.
func decodeZones(root *sexpr.List, b *board.Board, netNames map[int]string) {
	for _, node := range findAllNodes(root, "zone") {
		zone := board.Zone{UUID: decodeUUID(node)}

		if netNode, ok := findNode(node, "net"); ok {
			if num, err := getInt(netNode, 1); err == nil {
				zone.Net = netNames[num]
			}
		}
		if name, ok := getChildString(node, "net_name"); ok && zone.Net == "" {
			zone.Net = name
		}
		zone.Layer, _ = getChildString(node, "layer")

		polygon, ok := findNode(node, "polygon")
		if !ok {
			continue
		}
		pts, ok := findNode(polygon, "pts")
		if !ok {
			continue
		}
		for _, xy := range findAllNodes(pts, "xy") {
			x, err1 := getFloat(xy, 1)
			y, err2 := getFloat(xy, 2)
			if err1 != nil || err2 != nil {
				continue
			}
			zone.Vertices = append(zone.Vertices, geom.Point{X: x, Y: y})
		}
		if len(zone.Vertices) < 3 {
			continue
		}
		b.Zones = append(b.Zones, zone)
	}
}

// decodeUUID reads the (uuid ...) or legacy (tstamp ...) identifier,
// minting a fresh one when neither is present.
func decodeUUID(node *sexpr.List) string {
	if id, ok := getChildString(node, "uuid"); ok {
		return id
	}
	if id, ok := getChildString(node, "tstamp"); ok {
		return id
	}
	return board.NewUUID()
}
