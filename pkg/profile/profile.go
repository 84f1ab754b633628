// Package profile extracts cross-section elevation profiles from stream
// lines and renders them as SVG charts.
//
// A profile is the terrain elevation sampled across one transect,
// looking downstream: distance 0 is the left bank, the midpoint is the
// stream centerline. Profiles are extracted at a fixed station interval
// along each reach so a set of them reads as a longitudinal sequence of
// channel shapes.
package profile

import (
	"context"
	"math"

	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
	"github.com/dgroleau/thalweg/pkg/transect"
)

// Profile is one sampled cross-section.
type Profile struct {
	Reach   int     // index of the source line
	Station float64 // arc-length position of the transect origin
	Samples []transect.Sample
}

// MinElevation returns the lowest sampled elevation, ignoring NoData.
// ok is false when every sample is NoData.
func (p Profile) MinElevation() (min float64, ok bool) {
	min = math.Inf(1)
	for _, s := range p.Samples {
		if !s.NoData && s.Elevation < min {
			min, ok = s.Elevation, true
		}
	}
	return min, ok
}

// MaxElevation returns the highest sampled elevation, ignoring NoData.
func (p Profile) MaxElevation() (max float64, ok bool) {
	max = math.Inf(-1)
	for _, s := range p.Samples {
		if !s.NoData && s.Elevation > max {
			max, ok = s.Elevation, true
		}
	}
	return max, ok
}

// Options configures profile extraction.
type Options struct {
	// Interval is the station spacing between consecutive transects.
	Interval float64

	// Width is the full transect width.
	Width float64

	// Spacing is the elevation sampling interval across each transect.
	// Width must be an even whole multiple of it.
	Spacing float64
}

// Extract samples a cross-section profile at every station interval of
// every line, including a clamped final station at each line's end.
func Extract(ctx context.Context, lines []*geom.Line, src dem.ElevationSource, opts Options) ([]Profile, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "elevation source is required")
	}
	if err := errors.ValidateDistance("interval", opts.Interval); err != nil {
		return nil, err
	}

	var out []Profile
	for reach, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		transects, err := transect.Interval(line, opts.Interval, opts.Width)
		if err != nil {
			return nil, err
		}
		for _, tr := range transects {
			samples, err := transect.Samples(tr, src, opts.Spacing)
			if err != nil {
				return nil, err
			}
			_, station := line.Project(tr.Origin)
			out = append(out, Profile{Reach: reach, Station: station, Samples: samples})
		}
	}
	return out, nil
}
