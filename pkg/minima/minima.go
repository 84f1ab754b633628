// Package minima finds local low points along a line draped over an
// elevation surface.
//
// The line is first densified at a fixed interval so the scan resolution
// is independent of the input's vertex spacing. The scan then walks the
// densified vertices tracking the running low point of the current
// descent and the elevation of the last confirmed local maximum. A low
// point is emitted only when two prominence conditions hold against the
// threshold: the drop from the previous local maximum to the low point,
// and the drop from the immediately preceding vertex to the low point.
// Requiring both suppresses the noise minima a naive "lower than both
// neighbors" rule would report on rough terrain.
package minima

import (
	"context"

	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
)

// Minimum is one detected local low point.
type Minimum struct {
	Point     geom.Point
	Elevation float64
	Reach     int // index of the input line the point belongs to
}

// Options configures the scan.
type Options struct {
	// Interval is the densification spacing along each line.
	Interval float64

	// Threshold is the minimum elevation drop, in surface units, that
	// both prominence checks must meet.
	Threshold float64
}

func (o Options) validate() error {
	if err := errors.ValidateDistance("interval", o.Interval); err != nil {
		return err
	}
	return errors.ValidateThreshold("threshold", o.Threshold)
}

// Find scans every line and returns the detected minima in line order.
// Vertices where the surface has no value are skipped without resetting
// the scan state.
func Find(ctx context.Context, lines []*geom.Line, src dem.ElevationSource, opts Options) ([]Minimum, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "elevation source is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var out []Minimum
	for reach, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found := scanReach(line.Densify(opts.Interval), src, opts.Threshold)
		for _, m := range found {
			m.Reach = reach
			out = append(out, m)
		}
	}
	return out, nil
}

// scanReach runs the two-threshold descent scan over one densified reach.
func scanReach(pts []geom.Point, src dem.ElevationSource, threshold float64) []Minimum {
	var (
		out         []Minimum
		started     bool
		elevPrev    float64
		low         geom.Point
		lowElev     float64
		prevMax     float64
		havePrevMax bool
	)

	// prominence against the previous local maximum; before the first
	// maximum is confirmed the check passes unconditionally
	deltaMax := func() float64 {
		if !havePrevMax {
			return threshold
		}
		return prevMax - lowElev
	}

	last := len(pts) - 1
	for i, v := range pts {
		elev, ok := src.At(v[0], v[1])
		if !ok {
			continue
		}

		switch {
		case !started:
			low, lowElev = v, elev
			started = true

		case i == last:
			if elev < lowElev {
				low, lowElev = v, elev
			}
			if deltaMax() >= threshold {
				out = append(out, Minimum{Point: low, Elevation: lowElev})
			}

		case elevPrev > elev: // descending
			d1 := deltaMax()
			d2 := elevPrev - lowElev
			switch {
			case d1 >= threshold && d2 >= threshold:
				out = append(out, Minimum{Point: low, Elevation: lowElev})
				prevMax, havePrevMax = elevPrev, true
				low, lowElev = v, elev
			case d1 >= threshold:
				if elev < lowElev {
					low, lowElev = v, elev
				}
			case d2 >= threshold:
				prevMax, havePrevMax = elevPrev, true
				low, lowElev = v, elev
			default:
				if elev < lowElev {
					low, lowElev = v, elev
				}
			}
		}

		elevPrev = elev
	}
	return out
}
