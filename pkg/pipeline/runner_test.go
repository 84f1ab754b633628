package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgroleau/thalweg/pkg/cache"
	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/geom"
)

func mustLine(t *testing.T, pts []geom.Point) *geom.Line {
	t.Helper()
	l, err := geom.NewLine(pts)
	require.NoError(t, err)
	return l
}

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return NewRunner(c, nil, nil)
}

// trough is a valley with its floor at y=4.
func trough(_, y float64) (float64, bool) {
	if y > 4 {
		return y - 4, true
	}
	return 4 - y, true
}

func troughSurface() Surface {
	return Surface{Source: dem.Func(trough), Name: "trough-v1", CellSize: 0}
}

func TestRunnerRelaxCachesResult(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	lines := []*geom.Line{mustLine(t, []geom.Point{{0, 0}, {20, 0}, {40, 0}})}
	opts := RelaxOptions{SearchDistance: 10, Spacing: 2, MinDelta: 0.2}

	first, err := r.Relax(ctx, lines, troughSurface(), opts)
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Equal(t, 3, first.Stats.Moved)

	second, err := r.Relax(ctx, lines, troughSurface(), opts)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Stats, second.Stats)
	for i := range first.Lines {
		require.Equal(t, first.Lines[i].Vertices(), second.Lines[i].Vertices())
	}
}

func TestRunnerRelaxRefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	lines := []*geom.Line{mustLine(t, []geom.Point{{0, 0}, {20, 0}})}
	opts := RelaxOptions{SearchDistance: 10, Spacing: 2, MinDelta: 0.2}

	_, err := r.Relax(ctx, lines, troughSurface(), opts)
	require.NoError(t, err)

	opts.Refresh = true
	res, err := r.Relax(ctx, lines, troughSurface(), opts)
	require.NoError(t, err)
	require.False(t, res.CacheHit)
}

func TestRunnerRelaxDistinctOptionsDistinctEntries(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	lines := []*geom.Line{mustLine(t, []geom.Point{{0, 0}, {20, 0}})}

	_, err := r.Relax(ctx, lines, troughSurface(),
		RelaxOptions{SearchDistance: 10, Spacing: 2, MinDelta: 0.2})
	require.NoError(t, err)

	// wider search window must not reuse the narrower run's entry
	res, err := r.Relax(ctx, lines, troughSurface(),
		RelaxOptions{SearchDistance: 20, Spacing: 2, MinDelta: 0.2})
	require.NoError(t, err)
	require.False(t, res.CacheHit)
}

func TestRunnerCrossSections(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	lines := []*geom.Line{mustLine(t, []geom.Point{{0, 0}, {100, 0}})}

	first, err := r.CrossSections(ctx, lines, XSectOptions{Interval: 20, Width: 30})
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Len(t, first.Transects, 6)
	for _, tr := range first.Transects {
		require.InDelta(t, 30.0, tr.Length(), 1e-9)
	}

	second, err := r.CrossSections(ctx, lines, XSectOptions{Interval: 20, Width: 30})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Len(t, second.Transects, 6)
}

func TestRunnerMinima(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	// descends into the trough and climbs back out
	lines := []*geom.Line{mustLine(t, []geom.Point{{0, 14}, {0, 4}, {0, -6}})}

	first, err := r.Minima(ctx, lines, troughSurface(), MinimaOptions{Interval: 1, Threshold: 2})
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Len(t, first.Minima, 1)
	require.InDelta(t, 4.0, first.Minima[0].Point[1], 1e-9)

	second, err := r.Minima(ctx, lines, troughSurface(), MinimaOptions{Interval: 1, Threshold: 2})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Minima, second.Minima)
}

func TestRunnerWithoutCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	lines := []*geom.Line{mustLine(t, []geom.Point{{0, 0}, {20, 0}})}
	opts := RelaxOptions{SearchDistance: 10, Spacing: 2, MinDelta: 0.2}

	for i := 0; i < 2; i++ {
		res, err := r.Relax(ctx, lines, troughSurface(), opts)
		require.NoError(t, err)
		require.False(t, res.CacheHit)
	}
}

func TestRunnerRejectsMissingSurface(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	lines := []*geom.Line{mustLine(t, []geom.Point{{0, 0}, {20, 0}})}

	_, err := r.Relax(context.Background(), lines, Surface{}, RelaxOptions{SearchDistance: 10})
	require.Error(t, err)

	_, err = r.Minima(context.Background(), lines, Surface{}, MinimaOptions{Interval: 1})
	require.Error(t, err)
}
