// Package geom provides the 2D primitives shared by the board engines.
// All coordinates are millimeters; angles are degrees, clockwise in the
// y-down board frame.
package geom

import "math"

// Point represents a 2D coordinate in board millimeters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Epsilon is the coincidence tolerance used when deciding whether two
// copper points touch (0.01 mm).
const Epsilon = 0.01

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Coincident reports whether two points are within Epsilon of each other.
func Coincident(a, b Point) bool {
	return Dist(a, b) <= Epsilon
}

// Rotate rotates p around the origin by the given angle in degrees
// (clockwise, y-down frame).
func Rotate(p Point, degrees float64) Point {
	if degrees == 0 {
		return p
	}
	rad := degrees * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// IsRightAngle reports whether an angle is a multiple of 90 degrees.
func IsRightAngle(degrees float64) bool {
	m := math.Mod(math.Abs(degrees), 90.0)
	return m < 1e-9 || 90.0-m < 1e-9
}

// PointInPolygon tests whether p lies inside the polygon using standard
// ray casting. Points exactly on an edge are treated as inside.
func PointInPolygon(p Point, poly []Point) bool {
	if len(poly) < 3 {
		return false
	}

	// Edge test first so boundary points count as contained.
	for i := 0; i < len(poly); i++ {
		j := (i + 1) % len(poly)
		if PointSegmentDist(p, poly[i], poly[j]) <= Epsilon {
			return true
		}
	}

	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xCross := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// PointSegmentDist returns the distance from p to the segment a-b.
func PointSegmentDist(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Dist(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Dist(p, Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// SegmentDist returns the minimum distance between the segments a1-a2 and
// b1-b2 (zero when they intersect).
func SegmentDist(a1, a2, b1, b2 Point) float64 {
	if SegmentsIntersect(a1, a2, b1, b2) {
		return 0
	}
	d := PointSegmentDist(a1, b1, b2)
	if v := PointSegmentDist(a2, b1, b2); v < d {
		d = v
	}
	if v := PointSegmentDist(b1, a1, a2); v < d {
		d = v
	}
	if v := PointSegmentDist(b2, a1, a2); v < d {
		d = v
	}
	return d
}

// SegmentsIntersect reports whether segments a1-a2 and b1-b2 cross.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear touching cases.
	if d1 == 0 && onSegment(b1, b2, a1) {
		return true
	}
	if d2 == 0 && onSegment(b1, b2, a2) {
		return true
	}
	if d3 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if d4 == 0 && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// PolygonDist returns the distance from p to the polygon: zero when p is
// inside, otherwise the distance to the nearest edge.
func PolygonDist(p Point, poly []Point) float64 {
	if len(poly) < 3 {
		return math.Inf(1)
	}
	if PointInPolygon(p, poly) {
		return 0
	}
	d := math.Inf(1)
	for i := 0; i < len(poly); i++ {
		j := (i + 1) % len(poly)
		if v := PointSegmentDist(p, poly[i], poly[j]); v < d {
			d = v
		}
	}
	return d
}

// SegmentPolygonDist returns the distance from the segment a-b to the
// polygon: zero when the segment crosses an edge or lies inside, otherwise
// the minimum distance to any edge.
func SegmentPolygonDist(a, b Point, poly []Point) float64 {
	if len(poly) < 3 {
		return math.Inf(1)
	}
	if PointInPolygon(a, poly) || PointInPolygon(b, poly) {
		return 0
	}
	d := math.Inf(1)
	for i := 0; i < len(poly); i++ {
		j := (i + 1) % len(poly)
		v := SegmentDist(a, b, poly[i], poly[j])
		if v == 0 {
			return 0
		}
		if v < d {
			d = v
		}
	}
	return d
}
