// Package geom provides planar geometry primitives for stream line analysis.
//
// The package builds on orb's planar types: [Point] is an alias for
// [orb.Point], so values flow between this package and orb-based I/O
// (GeoJSON, WKB) without conversion.
//
// # Bearing Convention
//
// All bearings in this package are azimuths: degrees measured clockwise
// from the +Y axis ("north-up"), so bearing 0 points up the Y axis and
// bearing 90 points along the +X axis. This matches the convention of the
// survey tooling this package interoperates with, and it is why [Bearing]
// is atan2(dX, dY) rather than the mathematical atan2(dY, dX). Callers
// interpreting transect geometry must use this convention.
package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a 2D coordinate in a planar spatial reference.
type Point = orb.Point

// Segment is a directed line segment between two points.
type Segment struct {
	A, B Point
}

// Length returns the segment's length.
func (s Segment) Length() float64 {
	return Dist(s.A, s.B)
}

// Midpoint returns the point halfway between the segment's endpoints.
func (s Segment) Midpoint() Point {
	return Point{(s.A[0] + s.B[0]) / 2, (s.A[1] + s.B[1]) / 2}
}

// Interpolate returns the point at distance d from endpoint A along the
// segment. d is clamped to [0, Length].
func (s Segment) Interpolate(d float64) Point {
	length := s.Length()
	if length == 0 {
		return s.A
	}
	t := d / length
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return Point{s.A[0] + t*(s.B[0]-s.A[0]), s.A[1] + t*(s.B[1]-s.A[1])}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return planar.Distance(a, b)
}

// Bearing returns the azimuth of the direction vector (dX, dY) in degrees.
// The azimuth is measured clockwise from the +Y axis (see package doc).
func Bearing(dX, dY float64) float64 {
	return math.Atan2(dX, dY) * 180 / math.Pi
}

// PointAtBearing projects a point from origin at the given azimuth
// (degrees clockwise from +Y) and distance.
func PointAtBearing(origin Point, bearingDeg, dist float64) Point {
	rad := bearingDeg * math.Pi / 180
	return Point{
		origin[0] + dist*math.Sin(rad),
		origin[1] + dist*math.Cos(rad),
	}
}
