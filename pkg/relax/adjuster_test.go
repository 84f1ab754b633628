package relax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
)

func mustLine(t *testing.T, pts []geom.Point) *geom.Line {
	t.Helper()
	l, err := geom.NewLine(pts)
	require.NoError(t, err)
	return l
}

// troughAt returns a surface shaped like a V-shaped valley running
// parallel to the X axis with its low line at the given Y.
func troughAt(y float64) dem.ElevationSource {
	return dem.Func(func(_, py float64) (float64, bool) {
		if py > y {
			return py - y, true
		}
		return y - py, true
	})
}

func TestAdjusterMovesLineIntoTrough(t *testing.T) {
	// The input runs along y=0; the valley floor sits at y=4, well
	// inside the 10-unit search distance. Every vertex should slide
	// onto the floor.
	line := mustLine(t, []geom.Point{{0, 0}, {20, 0}, {40, 0}, {60, 0}})

	a, err := NewAdjuster(troughAt(4), Options{SearchDistance: 10, Spacing: 2}, nil)
	require.NoError(t, err)

	out, st, err := a.Adjust(context.Background(), []*geom.Line{line})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 4, st.Vertices)
	require.Equal(t, 4, st.Moved)

	for _, v := range out[0].Vertices() {
		require.InDelta(t, 4.0, v[1], 1e-9)
	}
}

func TestAdjusterKeepsLineUnderHighThreshold(t *testing.T) {
	line := mustLine(t, []geom.Point{{0, 0}, {20, 0}, {40, 0}})

	a, err := NewAdjuster(troughAt(4), Options{
		SearchDistance: 10,
		Spacing:        2,
		MinDelta:       100,
	}, nil)
	require.NoError(t, err)

	out, st, err := a.Adjust(context.Background(), []*geom.Line{line})
	require.NoError(t, err)
	require.Equal(t, 0, st.Moved)
	require.Equal(t, line.Vertices(), out[0].Vertices())
}

func TestAdjusterUnmovedVerticesKeepExactCoordinates(t *testing.T) {
	// Vertices off the integer grid pick up round-off if they are
	// rebuilt from the midpoint sample instead of kept as-is. With the
	// threshold out of reach, output coordinates must be bit-identical
	// to the input.
	pts := []geom.Point{{3.1, 7.7}, {21.4, 8.2}, {39.9, 7.3}}
	line := mustLine(t, pts)

	a, err := NewAdjuster(troughAt(4), Options{
		SearchDistance: 10,
		Spacing:        2,
		MinDelta:       1000,
	}, nil)
	require.NoError(t, err)

	out, st, err := a.Adjust(context.Background(), []*geom.Line{line})
	require.NoError(t, err)
	require.Equal(t, 0, st.Moved)

	for i, v := range out[0].Vertices() {
		require.True(t, v == pts[i], "vertex %d = %v, want exactly %v", i, v, pts[i])
	}
}

func TestAdjusterKeepsVertexOnNoData(t *testing.T) {
	// No surface value at the middle vertex: it must stay put while its
	// neighbors still relax.
	src := dem.Func(func(px, py float64) (float64, bool) {
		if px == 20 && py == 0 {
			return 0, false
		}
		s, _ := troughAt(4).At(px, py)
		return s, true
	})
	line := mustLine(t, []geom.Point{{0, 0}, {20, 0}, {40, 0}})

	a, err := NewAdjuster(src, Options{SearchDistance: 10, Spacing: 2}, nil)
	require.NoError(t, err)

	out, st, err := a.Adjust(context.Background(), []*geom.Line{line})
	require.NoError(t, err)
	require.Equal(t, 1, st.NoData)
	require.Equal(t, 2, st.Moved)
	require.Equal(t, geom.Point{20, 0}, out[0].Vertex(1))
}

func TestAdjusterHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	line := mustLine(t, []geom.Point{{0, 0}, {20, 0}})
	a, err := NewAdjuster(troughAt(4), Options{SearchDistance: 10, Spacing: 2}, nil)
	require.NoError(t, err)

	_, _, err = a.Adjust(ctx, []*geom.Line{line})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewAdjusterValidation(t *testing.T) {
	src := troughAt(0)

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"zero search distance", Options{Spacing: 1}, errors.ErrCodeInvalidInput},
		{"negative spacing", Options{SearchDistance: 10, Spacing: -1}, errors.ErrCodeInvalidInput},
		{"non-dividing spacing", Options{SearchDistance: 5, Spacing: 2}, errors.ErrCodeInvalidSampling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdjuster(src, tt.opts, nil)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.code))
		})
	}

	_, err := NewAdjuster(nil, Options{SearchDistance: 10}, nil)
	require.Error(t, err)
}

func TestAdjusterDefaults(t *testing.T) {
	a, err := NewAdjuster(troughAt(0), Options{SearchDistance: 10}, nil)
	require.NoError(t, err)
	require.Equal(t, DefaultSpacing, a.opts.Spacing)
	require.Equal(t, DefaultMinDelta, a.opts.MinDelta)
}
