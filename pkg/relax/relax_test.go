package relax

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgroleau/thalweg/pkg/transect"
)

// flatSamples builds an 11-sample transect profile (width 20, spacing 2)
// with every elevation equal to elev. Positions are synthetic; Choose
// only reads Distance, Elevation, and NoData.
func flatSamples(elev float64) []transect.Sample {
	out := make([]transect.Sample, 11)
	for i := range out {
		out[i] = transect.Sample{Distance: float64(i) * 2, Elevation: elev}
	}
	return out
}

func TestChoosePicksWeightedMinimum(t *testing.T) {
	samples := flatSamples(100)
	samples[3].Elevation = 95

	idx, moved := Choose(samples, 100, 10, 0.2)
	require.True(t, moved)
	require.Equal(t, 3, idx)
}

func TestChooseKeepsMidpointUnderHighThreshold(t *testing.T) {
	samples := flatSamples(100)
	samples[3].Elevation = 95

	idx, moved := Choose(samples, 100, 10, 10)
	require.False(t, moved)
	require.Equal(t, 5, idx)
}

func TestChooseTieBreaksToEarlierSample(t *testing.T) {
	// Indexes 2 and 8 sit symmetric about the midpoint with equal drops,
	// so their weights are exactly equal.
	samples := flatSamples(100)
	samples[2].Elevation = 95
	samples[8].Elevation = 95

	idx, moved := Choose(samples, 100, 10, 0.2)
	require.True(t, moved)
	require.Equal(t, 2, idx)
}

func TestChoosePrefersNearbyDropOverDistantDeeperDrop(t *testing.T) {
	// A drop of 4 adjacent to the midpoint outweighs a drop of 5 at the
	// far edge once the Gaussian falloff is applied:
	//   near: 4·exp(−4/100)  ≈ 3.84
	//   far:  5·exp(−100/100) ≈ 1.84
	samples := flatSamples(100)
	samples[6].Elevation = 96
	samples[10].Elevation = 95

	idx, moved := Choose(samples, 100, 10, 0.2)
	require.True(t, moved)
	require.Equal(t, 6, idx)
}

func TestChooseIgnoresNoDataSamples(t *testing.T) {
	samples := flatSamples(100)
	samples[3].Elevation = 90
	samples[3].NoData = true
	samples[7].Elevation = 95

	idx, moved := Choose(samples, 100, 10, 0.2)
	require.True(t, moved)
	require.Equal(t, 7, idx)
}

func TestChooseRequiresStrictImprovement(t *testing.T) {
	// delta exactly equal to the threshold does not qualify.
	samples := flatSamples(100)
	samples[4].Elevation = 95

	idx, moved := Choose(samples, 100, 10, 5)
	require.False(t, moved)
	require.Equal(t, 5, idx)
}

func TestChooseEmptySamples(t *testing.T) {
	idx, moved := Choose(nil, 100, 10, 0.2)
	require.False(t, moved)
	require.Equal(t, 0, idx)
}
