package transect

import (
	"math"

	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
)

// Sample is one elevation reading along a transect.
//
// Distance is measured from endpoint A. NoData marks readings that fell
// outside the surface or on a NoData cell; such samples carry a zero
// Elevation and must never be selected as a relaxation target.
type Sample struct {
	Point     geom.Point
	Distance  float64
	Elevation float64
	NoData    bool
}

// relTolerance bounds the float error accepted when checking that spacing
// divides the transect width.
const relTolerance = 1e-9

// Samples reads elevations at fixed spacing along the transect, inclusive
// of both endpoints, one surface query per sample.
//
// The sample count is width/spacing + 1 and must be odd so that the
// middle sample lands exactly on the transect origin: the width must be
// an even multiple of the spacing. Anything else is an INVALID_SAMPLING
// error, raised before any surface is queried. The original tooling left
// this as an unchecked caller convention ("the user supplies the search
// distance"); here it is a contract.
func Samples(t Transect, src dem.ElevationSource, spacing float64) ([]Sample, error) {
	if err := errors.ValidateDistance("sample spacing", spacing); err != nil {
		return nil, err
	}
	if err := errors.ValidateDistance("transect width", t.Width); err != nil {
		return nil, err
	}

	ratio := t.Width / spacing
	k := math.Round(ratio)
	if math.Abs(ratio-k) > relTolerance*math.Max(1, ratio) {
		return nil, errors.New(errors.ErrCodeInvalidSampling,
			"spacing %g does not evenly divide transect width %g", spacing, t.Width)
	}
	steps := int(k)
	if steps < 2 || steps%2 != 0 {
		return nil, errors.New(errors.ErrCodeInvalidSampling,
			"width %g / spacing %g yields %d samples; an odd count with an exact midpoint is required (width must be an even multiple of spacing)",
			t.Width, spacing, steps+1)
	}

	seg := t.Segment()
	out := make([]Sample, 0, steps+1)
	for i := 0; i <= steps; i++ {
		d := float64(i) * spacing
		p := seg.Interpolate(d)
		z, ok := src.At(p[0], p[1])
		out = append(out, Sample{
			Point:     p,
			Distance:  d,
			Elevation: z,
			NoData:    !ok,
		})
	}
	return out, nil
}

// SamplesWithReference reads elevations like [Samples], then overrides the
// midpoint sample with a caller-known reference elevation. The midpoint
// corresponds to the original stream vertex, whose elevation the caller
// has already read; overriding avoids re-sampling error at the one
// position whose value is load-bearing.
func SamplesWithReference(t Transect, src dem.ElevationSource, spacing, refElev float64) ([]Sample, error) {
	samples, err := Samples(t, src, spacing)
	if err != nil {
		return nil, err
	}
	mid := MidpointIndex(len(samples))
	samples[mid].Elevation = refElev
	samples[mid].NoData = false
	return samples, nil
}

// MidpointIndex returns the index of the middle sample for an odd count n.
func MidpointIndex(n int) int {
	return (n - 1) / 2
}

// CountNoData returns the number of NoData samples.
func CountNoData(samples []Sample) int {
	n := 0
	for _, s := range samples {
		if s.NoData {
			n++
		}
	}
	return n
}
