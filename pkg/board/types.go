// Package board defines the canonical in-memory model of one PCB design.
// A Board is immutable per version: every edit produces a structurally new
// Board value, so prior versions held by an undo stack or a viewer stay
// valid without locking.
package board

import (
	"github.com/google/uuid"

	"github.com/sparkbench/boardcore/pkg/geom"
)

// Copper layer names follow the KiCad convention.
const (
	LayerFrontCopper = "F.Cu"
	LayerBackCopper  = "B.Cu"
	LayerEdgeCuts    = "Edge.Cuts"
)

// NetUnconnected is the reserved net number for "no connection".
const NetUnconnected = 0

// Board represents a complete PCB design. It is the unit of persistence
// and of every engine call.
type Board struct {
	Version    int         `json:"version"`
	Units      string      `json:"units"`
	Outline    Outline     `json:"boardOutline"`
	Nets       []Net       `json:"nets"`
	Footprints []Footprint `json:"footprints"`
	Traces     []Trace     `json:"traces"`
	Vias       []Via       `json:"vias"`
	Zones      []Zone      `json:"zones"`
}

// Outline is the closed board-edge polygon. At least 3 vertices.
type Outline struct {
	Vertices []geom.Point `json:"vertices"`
}

// Net is one electrical net. Number is unique within a board; number 0 is
// reserved for unconnected pins.
type Net struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Footprint is the land pattern and placement of one component.
type Footprint struct {
	UUID          string     `json:"uuid"`
	Ref           string     `json:"ref"`
	Value         string     `json:"value"`
	FootprintType string     `json:"footprintType"`
	X             float64    `json:"x"`
	Y             float64    `json:"y"`
	Rotation      float64    `json:"rotation"`
	Layer         string     `json:"layer"`
	Pads          []Pad      `json:"pads"`
	Courtyard     *Courtyard `json:"courtyard,omitempty"`
	Silkscreen    []SilkLine `json:"silkscreen,omitempty"`
}

// Courtyard is the keep-out rectangle around a footprint, centered at the
// footprint origin and rotated with it.
type Courtyard struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SilkLine is one silkscreen line in footprint-relative coordinates.
type SilkLine struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Pad is one copper contact of a footprint. X/Y are footprint-relative.
// Net names an existing net or is empty for an unconnected pad. Drill > 0
// means a plated through-hole present on every copper layer it lists.
type Pad struct {
	ID     string   `json:"id"`
	Shape  string   `json:"shape"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Drill  float64  `json:"drill"`
	Layers []string `json:"layers"`
	Net    string   `json:"net"`
}

// Trace is a routed group of segments on one layer belonging to one net.
type Trace struct {
	Net      string    `json:"net"`
	Layer    string    `json:"layer"`
	Width    float64   `json:"width"`
	Segments []Segment `json:"segments"`
}

// Segment is one straight copper run in board coordinates.
type Segment struct {
	UUID string  `json:"uuid"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

// Via is a plated hole joining front and back copper at one net.
// Invariant: Drill < Size.
type Via struct {
	UUID  string  `json:"uuid"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Drill float64 `json:"drill"`
	Net   string  `json:"net"`
}

// Zone is a filled copper region on one layer/net, treated as an opaque
// polygon by the engines.
type Zone struct {
	UUID     string       `json:"uuid"`
	Net      string       `json:"net"`
	Layer    string       `json:"layer"`
	Vertices []geom.Point `json:"vertices"`
}

// NewUUID mints an identifier for a footprint, segment, via or zone.
func NewUUID() string {
	return uuid.NewString()
}
