// Package transect constructs and samples stream cross-sections.
//
// A transect is a short segment perpendicular to a stream line at a given
// point, used to probe the terrain on both banks. The package provides:
//   - [Build]: one transect at an arbitrary point on a line
//   - [Interval]: transects at a fixed arc-length interval (cross-sections)
//   - [Sample]: dense elevation samples along a transect
//
// All functions are pure: they read their inputs, allocate their outputs,
// and mutate nothing.
package transect

import (
	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
)

// tangentEpsilon is the arc-length offset used to probe the local tangent
// direction, in the line's native linear unit.
const tangentEpsilon = 1e-5

// Transect is a segment perpendicular to a stream line.
//
// A runs from the left bank looking downstream (bearing − 90°) to B on
// the right bank (bearing + 90°), with Origin at the segment midpoint on
// the stream line. Width is the full A-to-B length.
type Transect struct {
	A, B   geom.Point
	Origin geom.Point
	Width  float64
}

// Segment returns the transect as a geometry segment from A to B.
func (t Transect) Segment() geom.Segment {
	return geom.Segment{A: t.A, B: t.B}
}

// Build constructs a transect across line at the given point.
//
// The point is projected onto the line first, so callers may pass a
// vertex, an interpolated position, or any nearby location. The local
// tangent is estimated from positions at ±1e-5 arc length around the
// projection (clamped to the line's domain), and the transect endpoints
// are projected at azimuth ∓90° from the tangent, width/2 each side.
// Azimuths follow the geom package's north-up convention.
//
// Returns DEGENERATE_GEOMETRY if the tangent probes collapse to a single
// point, which happens only for degenerate (effectively zero-length)
// lines.
func Build(line *geom.Line, at geom.Point, width float64) (Transect, error) {
	if err := errors.ValidateDistance("transect width", width); err != nil {
		return Transect{}, err
	}

	origin, dist := line.Project(at)

	d0 := dist - tangentEpsilon
	if d0 < 0 {
		d0 = 0
	}
	d1 := dist + tangentEpsilon
	if length := line.Length(); d1 > length {
		d1 = length
	}

	before := line.PositionAlong(d0)
	after := line.PositionAlong(d1)
	if before == after {
		return Transect{}, errors.New(errors.ErrCodeDegenerateGeometry,
			"cannot establish tangent at arc length %g: probe points collapse", dist)
	}

	bearing := geom.Bearing(after[0]-before[0], after[1]-before[1])
	return Transect{
		A:      geom.PointAtBearing(origin, bearing-90, width/2),
		B:      geom.PointAtBearing(origin, bearing+90, width/2),
		Origin: origin,
		Width:  width,
	}, nil
}

// Interval constructs cross-section transects along the full line at a
// fixed arc-length interval, starting at the line's first vertex. The
// final step past the line's end is clamped, so the last vertex always
// receives a transect even when the length is not a multiple of the
// interval.
func Interval(line *geom.Line, interval, width float64) ([]Transect, error) {
	if err := errors.ValidateDistance("cross-section interval", interval); err != nil {
		return nil, err
	}

	length := line.Length()
	var out []Transect
	for i := 0; ; i++ {
		d := float64(i) * interval
		if d >= length+interval {
			break
		}
		if d > length {
			d = length
		}
		t, err := Build(line, line.PositionAlong(d), width)
		if err != nil {
			return nil, err
		}
		// The clamped final step can land on the previous station.
		if n := len(out); n > 0 && out[n-1].Origin == t.Origin {
			break
		}
		out = append(out, t)
		if d == length {
			break
		}
	}
	return out, nil
}
