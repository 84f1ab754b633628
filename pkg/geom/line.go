package geom

import (
	"math"
	"sort"

	"github.com/dgroleau/thalweg/pkg/errors"
)

// Line is an arc-length parameterized polyline representing a single reach.
//
// A Line is immutable after construction: operations that "change" a line
// (densify, relax) produce new vertex slices. Consecutive duplicate
// vertices are collapsed by the constructor, so every interior segment has
// positive length and the cumulative-length table is strictly increasing.
type Line struct {
	pts []Point
	cum []float64 // cum[i] = arc length from pts[0] to pts[i]
}

// NewLine builds a Line from an ordered vertex sequence. Consecutive
// duplicate vertices are collapsed; fewer than two distinct vertices is an
// INVALID_GEOMETRY error.
func NewLine(pts []Point) (*Line, error) {
	clean := make([]Point, 0, len(pts))
	for _, p := range pts {
		if n := len(clean); n > 0 && clean[n-1] == p {
			continue
		}
		clean = append(clean, p)
	}
	if len(clean) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"a reach needs at least 2 distinct vertices, got %d", len(clean))
	}

	cum := make([]float64, len(clean))
	for i := 1; i < len(clean); i++ {
		cum[i] = cum[i-1] + Dist(clean[i-1], clean[i])
	}
	return &Line{pts: clean, cum: cum}, nil
}

// Vertices returns a copy of the line's vertex sequence.
func (l *Line) Vertices() []Point {
	out := make([]Point, len(l.pts))
	copy(out, l.pts)
	return out
}

// NumVertices returns the number of vertices.
func (l *Line) NumVertices() int {
	return len(l.pts)
}

// Vertex returns the vertex at index i.
func (l *Line) Vertex(i int) Point {
	return l.pts[i]
}

// Length returns the total arc length of the line.
func (l *Line) Length() float64 {
	return l.cum[len(l.cum)-1]
}

// PositionAlong returns the interpolated point at arc length d from the
// start of the line. d is clamped to [0, Length], matching the probing
// behavior callers rely on near reach endpoints.
func (l *Line) PositionAlong(d float64) Point {
	if d <= 0 {
		return l.pts[0]
	}
	if d >= l.Length() {
		return l.pts[len(l.pts)-1]
	}

	// First segment whose end lies at or beyond d.
	i := sort.SearchFloat64s(l.cum, d)
	if l.cum[i] == d {
		return l.pts[i]
	}
	seg := Segment{A: l.pts[i-1], B: l.pts[i]}
	return seg.Interpolate(d - l.cum[i-1])
}

// Project returns the closest point on the line to p, together with the
// arc length from the line start to that point. Exact ties between
// segments keep the earliest segment in vertex order.
func (l *Line) Project(p Point) (Point, float64) {
	best := l.pts[0]
	bestDist := math.Inf(1)
	bestAlong := 0.0

	for i := 1; i < len(l.pts); i++ {
		q, t := closestOnSegment(l.pts[i-1], l.pts[i], p)
		if d := Dist(p, q); d < bestDist {
			best = q
			bestDist = d
			bestAlong = l.cum[i-1] + t
		}
	}
	return best, bestAlong
}

// Densify returns the line's vertices with additional vertices inserted so
// that no segment is longer than maxSpacing. Original vertices are always
// retained; each segment is split into equal parts.
func (l *Line) Densify(maxSpacing float64) []Point {
	if maxSpacing <= 0 {
		return l.Vertices()
	}
	out := []Point{l.pts[0]}
	for i := 1; i < len(l.pts); i++ {
		seg := Segment{A: l.pts[i-1], B: l.pts[i]}
		parts := int(math.Ceil(seg.Length() / maxSpacing))
		for k := 1; k < parts; k++ {
			out = append(out, seg.Interpolate(float64(k)*seg.Length()/float64(parts)))
		}
		out = append(out, l.pts[i])
	}
	return out
}

// closestOnSegment returns the closest point to p on segment ab and the
// distance from a to that point along the segment.
func closestOnSegment(a, b, p Point) (Point, float64) {
	ab := Point{b[0] - a[0], b[1] - a[1]}
	lenSq := ab[0]*ab[0] + ab[1]*ab[1]
	if lenSq == 0 {
		return a, 0
	}
	t := ((p[0]-a[0])*ab[0] + (p[1]-a[1])*ab[1]) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	q := Point{a[0] + t*ab[0], a[1] + t*ab[1]}
	return q, t * math.Sqrt(lenSq)
}
