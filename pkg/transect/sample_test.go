package transect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
	"github.com/dgroleau/thalweg/pkg/transect"
)

// flat returns a constant-elevation surface.
func flat(z float64) dem.ElevationSource {
	return dem.Func(func(x, y float64) (float64, bool) { return z, true })
}

func buildTestTransect(t *testing.T, width float64) transect.Transect {
	t.Helper()
	line := mustLine(t, geom.Point{0, 0}, geom.Point{100, 0})
	tr, err := transect.Build(line, geom.Point{50, 0}, width)
	require.NoError(t, err)
	return tr
}

func TestSamplesCountAndSpacing(t *testing.T) {
	tr := buildTestTransect(t, 20)

	samples, err := transect.Samples(tr, flat(100), 2)
	require.NoError(t, err)
	require.Len(t, samples, 11)

	for i, s := range samples {
		require.InDelta(t, float64(2*i), s.Distance, 1e-9)
		require.False(t, s.NoData)
		require.Equal(t, 100.0, s.Elevation)
	}

	// Endpoints are included exactly.
	require.InDelta(t, 0.0, geom.Dist(samples[0].Point, tr.A), 1e-9)
	require.InDelta(t, 0.0, geom.Dist(samples[10].Point, tr.B), 1e-9)
}

func TestSamplesMidpointIdentity(t *testing.T) {
	// The middle sample of an odd-count run lands on the transect origin,
	// i.e. on the original stream vertex.
	tr := buildTestTransect(t, 20)

	samples, err := transect.Samples(tr, flat(0), 2)
	require.NoError(t, err)

	mid := transect.MidpointIndex(len(samples))
	require.Equal(t, 5, mid)
	require.InDelta(t, 0.0, geom.Dist(samples[mid].Point, tr.Origin), 1e-9)
}

func TestSamplesRejectsEvenCount(t *testing.T) {
	// width 10 / spacing 2 = 5 steps → 6 samples, no exact midpoint.
	tr := buildTestTransect(t, 10)

	_, err := transect.Samples(tr, flat(0), 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidSampling))
}

func TestSamplesRejectsNonDividingSpacing(t *testing.T) {
	tr := buildTestTransect(t, 20)

	_, err := transect.Samples(tr, flat(0), 3)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidSampling))
}

func TestSamplesRejectsSingleStep(t *testing.T) {
	// Spacing equal to the width would sample only the two endpoints.
	tr := buildTestTransect(t, 10)

	_, err := transect.Samples(tr, flat(0), 10)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidSampling))
}

func TestSamplesRecordsNoData(t *testing.T) {
	// Surface defined only on the north bank (y > 0).
	north := dem.Func(func(x, y float64) (float64, bool) {
		if y <= 0 {
			return 0, false
		}
		return 50, true
	})
	tr := buildTestTransect(t, 20)

	samples, err := transect.Samples(tr, north, 2)
	require.NoError(t, err)

	// A is the north endpoint: first five samples have data, the origin
	// (y=0) and south half do not.
	require.Equal(t, 6, transect.CountNoData(samples))
	require.False(t, samples[0].NoData)
	require.True(t, samples[10].NoData)
	require.True(t, samples[transect.MidpointIndex(len(samples))].NoData)
}

func TestSamplesWithReference(t *testing.T) {
	tr := buildTestTransect(t, 20)

	samples, err := transect.SamplesWithReference(tr, flat(100), 2, 97.5)
	require.NoError(t, err)

	mid := transect.MidpointIndex(len(samples))
	require.Equal(t, 97.5, samples[mid].Elevation)
	require.False(t, samples[mid].NoData)
	// Non-midpoint samples are untouched.
	require.Equal(t, 100.0, samples[0].Elevation)
	require.Equal(t, 100.0, samples[10].Elevation)
}

func TestSamplesWithReferenceClearsNoDataAtMidpoint(t *testing.T) {
	nowhere := dem.Func(func(x, y float64) (float64, bool) { return 0, false })
	tr := buildTestTransect(t, 20)

	samples, err := transect.SamplesWithReference(tr, nowhere, 2, 42)
	require.NoError(t, err)

	mid := transect.MidpointIndex(len(samples))
	require.False(t, samples[mid].NoData)
	require.Equal(t, 42.0, samples[mid].Elevation)
	require.Equal(t, 10, transect.CountNoData(samples))
}
