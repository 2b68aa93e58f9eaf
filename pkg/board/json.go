package board

import (
	"encoding/json"
	"fmt"
)

// EncodeJSON serializes the board to the structured document format.
func EncodeJSON(b *Board) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode board document: %w", err)
	}
	return data, nil
}

// DecodeJSON parses the structured document format. A structurally invalid
// document returns an error; callers fall back to Default(). A parsed
// board is normalized: units default to mm, a degenerate outline is
// replaced by the default rectangle, and missing UUIDs are minted.
func DecodeJSON(data []byte) (*Board, error) {
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode board document: %w", err)
	}
	b.normalize()
	return &b, nil
}

func (b *Board) normalize() {
	if b.Units == "" {
		b.Units = "mm"
	}
	if len(b.Outline.Vertices) < 3 {
		b.Outline = DefaultOutline()
	}
	if b.NetByNumber(NetUnconnected) == nil {
		b.Nets = append([]Net{{Number: NetUnconnected, Name: ""}}, b.Nets...)
	}
	for fi := range b.Footprints {
		if b.Footprints[fi].UUID == "" {
			b.Footprints[fi].UUID = NewUUID()
		}
	}
	for ti := range b.Traces {
		for si := range b.Traces[ti].Segments {
			if b.Traces[ti].Segments[si].UUID == "" {
				b.Traces[ti].Segments[si].UUID = NewUUID()
			}
		}
	}
	for vi := range b.Vias {
		if b.Vias[vi].UUID == "" {
			b.Vias[vi].UUID = NewUUID()
		}
	}
	for zi := range b.Zones {
		if b.Zones[zi].UUID == "" {
			b.Zones[zi].UUID = NewUUID()
		}
	}
}
