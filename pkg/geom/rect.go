package geom

import "math"

// RectCorners returns the four corners of a w×h rectangle centered at
// (cx, cy), rotated by the given angle in degrees. Corners are returned in
// winding order.
func RectCorners(cx, cy, w, h, degrees float64) [4]Point {
	hw := w / 2.0
	hh := h / 2.0
	corners := [4]Point{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
	for i, c := range corners {
		r := Rotate(c, degrees)
		corners[i] = Point{X: r.X + cx, Y: r.Y + cy}
	}
	return corners
}

// RectsOverlap reports whether two rotated rectangles (given as corner
// quads) share positive area, using the separating-axis test on the four
// edge normals. Touching edges do not count as overlap.
func RectsOverlap(a, b [4]Point) bool {
	axes := [4]Point{
		{X: a[1].X - a[0].X, Y: a[1].Y - a[0].Y},
		{X: a[3].X - a[0].X, Y: a[3].Y - a[0].Y},
		{X: b[1].X - b[0].X, Y: b[1].Y - b[0].Y},
		{X: b[3].X - b[0].X, Y: b[3].Y - b[0].Y},
	}
	for _, axis := range axes {
		if axis.X == 0 && axis.Y == 0 {
			continue
		}
		aMin, aMax := project(a, axis)
		bMin, bMax := project(b, axis)
		if aMax <= bMin || bMax <= aMin {
			return false
		}
	}
	return true
}

func project(quad [4]Point, axis Point) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, p := range quad {
		v := p.X*axis.X + p.Y*axis.Y
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// BoundingBox represents a rectangular boundary.
type BoundingBox struct {
	Min Point
	Max Point
}

// NewBoundingBox creates an empty bounding box.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Point{X: 1e9, Y: 1e9},
		Max: Point{X: -1e9, Y: -1e9},
	}
}

// IsEmpty checks if the bounding box is empty.
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand expands the bounding box to include a point.
func (bb *BoundingBox) Expand(p Point) {
	if p.X < bb.Min.X {
		bb.Min.X = p.X
	}
	if p.Y < bb.Min.Y {
		bb.Min.Y = p.Y
	}
	if p.X > bb.Max.X {
		bb.Max.X = p.X
	}
	if p.Y > bb.Max.Y {
		bb.Max.Y = p.Y
	}
}

// ExpandBox expands to include another bounding box.
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Contains checks if a point is within the bounding box.
func (bb BoundingBox) Contains(p Point) bool {
	return p.X >= bb.Min.X && p.X <= bb.Max.X &&
		p.Y >= bb.Min.Y && p.Y <= bb.Max.Y
}

// Intersects checks if two bounding boxes intersect.
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Width returns the width of the bounding box.
func (bb BoundingBox) Width() float64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box.
func (bb BoundingBox) Height() float64 {
	return bb.Max.Y - bb.Min.Y
}

// Center returns the center point of the bounding box.
func (bb BoundingBox) Center() Point {
	return Point{
		X: (bb.Min.X + bb.Max.X) / 2.0,
		Y: (bb.Min.Y + bb.Max.Y) / 2.0,
	}
}
