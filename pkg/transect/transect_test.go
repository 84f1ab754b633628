package transect_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
	"github.com/dgroleau/thalweg/pkg/transect"
)

func mustLine(t *testing.T, pts ...geom.Point) *geom.Line {
	t.Helper()
	l, err := geom.NewLine(pts)
	require.NoError(t, err)
	return l
}

func TestBuildAtSegmentMidpoint(t *testing.T) {
	// Two-vertex line along +X, point at the exact midpoint, width 10:
	// the transect is vertical, length 10, centered on the midpoint.
	line := mustLine(t, geom.Point{0, 0}, geom.Point{20, 0})

	tr, err := transect.Build(line, geom.Point{10, 0}, 10)
	require.NoError(t, err)

	require.InDelta(t, 10.0, tr.Segment().Length(), 1e-9)
	require.InDelta(t, 10.0, tr.Origin[0], 1e-9)
	require.InDelta(t, 0.0, tr.Origin[1], 1e-9)

	// Perpendicular to a +X line means a constant-X transect.
	require.InDelta(t, 10.0, tr.A[0], 1e-9)
	require.InDelta(t, 10.0, tr.B[0], 1e-9)
	// Looking downstream (+X, azimuth 90°): A is the left bank (north).
	require.InDelta(t, 5.0, tr.A[1], 1e-9)
	require.InDelta(t, -5.0, tr.B[1], 1e-9)
}

func TestBuildPerpendicularity(t *testing.T) {
	lines := []*geom.Line{
		mustLine(t, geom.Point{0, 0}, geom.Point{13, 7}),
		mustLine(t, geom.Point{-5, 2}, geom.Point{0, 0}, geom.Point{4, 9}, geom.Point{12, 11}),
		mustLine(t, geom.Point{3, 3}, geom.Point{3, 30}),
	}

	for _, line := range lines {
		at := line.PositionAlong(line.Length() * 0.4)
		tr, err := transect.Build(line, at, 8)
		require.NoError(t, err)

		// Tangent via the same ±ε probes the constructor uses.
		before := line.PositionAlong(line.Length()*0.4 - 1e-5)
		after := line.PositionAlong(line.Length()*0.4 + 1e-5)
		tx, ty := after[0]-before[0], after[1]-before[1]
		dx, dy := tr.B[0]-tr.A[0], tr.B[1]-tr.A[1]

		dot := tx*dx + ty*dy
		norm := math.Hypot(tx, ty) * math.Hypot(dx, dy)
		require.InDelta(t, 0.0, dot/norm, 1e-9, "transect must be perpendicular to the tangent")
	}
}

func TestBuildWidthSymmetry(t *testing.T) {
	line := mustLine(t, geom.Point{0, 0}, geom.Point{7, 3}, geom.Point{11, 12})
	for _, width := range []float64{0.5, 2, 10, 123.25} {
		tr, err := transect.Build(line, geom.Point{7, 3}, width)
		require.NoError(t, err)
		require.InDelta(t, width, tr.Segment().Length(), 1e-9)
		// Origin bisects the transect.
		require.InDelta(t, width/2, geom.Dist(tr.A, tr.Origin), 1e-9)
		require.InDelta(t, width/2, geom.Dist(tr.B, tr.Origin), 1e-9)
	}
}

func TestBuildAtLineEndpointsClampsProbes(t *testing.T) {
	line := mustLine(t, geom.Point{0, 0}, geom.Point{10, 0})

	start, err := transect.Build(line, geom.Point{0, 0}, 6)
	require.NoError(t, err)
	require.InDelta(t, 6.0, start.Segment().Length(), 1e-9)

	end, err := transect.Build(line, geom.Point{10, 0}, 6)
	require.NoError(t, err)
	require.InDelta(t, 6.0, end.Segment().Length(), 1e-9)
}

func TestBuildProjectsOffLinePoints(t *testing.T) {
	line := mustLine(t, geom.Point{0, 0}, geom.Point{10, 0})

	tr, err := transect.Build(line, geom.Point{4, 3}, 10)
	require.NoError(t, err)
	require.InDelta(t, 4.0, tr.Origin[0], 1e-9)
	require.InDelta(t, 0.0, tr.Origin[1], 1e-9)
}

func TestBuildRejectsBadWidth(t *testing.T) {
	line := mustLine(t, geom.Point{0, 0}, geom.Point{10, 0})
	for _, w := range []float64{0, -5, math.NaN()} {
		_, err := transect.Build(line, geom.Point{5, 0}, w)
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	}
}

func TestInterval(t *testing.T) {
	line := mustLine(t, geom.Point{0, 0}, geom.Point{100, 0})

	trs, err := transect.Interval(line, 20, 10)
	require.NoError(t, err)
	require.Len(t, trs, 6) // stations 0,20,40,60,80,100
	for i, tr := range trs {
		require.InDelta(t, float64(20*i), tr.Origin[0], 1e-9)
	}
}

func TestIntervalClampsFinalStation(t *testing.T) {
	line := mustLine(t, geom.Point{0, 0}, geom.Point{95, 0})

	trs, err := transect.Interval(line, 20, 10)
	require.NoError(t, err)
	// Stations 0,20,40,60,80 plus the clamped end at 95.
	require.Len(t, trs, 6)
	require.InDelta(t, 95.0, trs[5].Origin[0], 1e-9)
}

func TestIntervalRejectsBadInterval(t *testing.T) {
	line := mustLine(t, geom.Point{0, 0}, geom.Point{10, 0})
	_, err := transect.Interval(line, 0, 10)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
