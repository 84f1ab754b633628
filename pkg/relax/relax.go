// Package relax implements stream centerline relaxation: moving each
// vertex of a stream line toward the lowest nearby terrain so that the
// line settles into the valley low-line (the thalweg).
//
// The numeric core is [Choose], a windowed minimum search over elevation
// samples taken along a transect perpendicular to the stream. Candidates
// are scored by their elevation drop weighted by a Gaussian falloff with
// distance from the transect center, so a modest drop near the current
// vertex beats a larger drop at the window's edge. This smooth proximity
// penalty, rather than a hard cutoff, keeps the adjusted line from
// jumping when the true minimum sits near the search-window boundary.
//
// [Adjuster] drives the full pass: transect construction, sampling, and
// per-vertex selection across every reach of an input line.
package relax

import (
	"math"

	"github.com/dgroleau/thalweg/pkg/transect"
)

// Choose selects the best replacement position among transect samples.
//
// refElev is the elevation at the original vertex (the transect
// midpoint). maxAdjust is the Gaussian scale and equals half the transect
// width. minDelta is the minimum elevation improvement: a sample is
// eligible only when refElev − elevation exceeds it strictly. NoData
// samples are never eligible.
//
// Each eligible sample is scored as
//
//	weight = delta × exp(−(distance from center)² / maxAdjust²)
//
// and the maximum-weight sample wins. Exact weight ties keep the earliest
// sample in transect order; the rule is deterministic so repeated runs
// reproduce the same line.
//
// Returns the index of the chosen sample and whether it differs from the
// midpoint. When no sample qualifies the midpoint index is returned with
// moved == false, which callers treat as "keep the original vertex".
func Choose(samples []transect.Sample, refElev, maxAdjust, minDelta float64) (idx int, moved bool) {
	mid := transect.MidpointIndex(len(samples))
	if len(samples) == 0 || maxAdjust <= 0 {
		return mid, false
	}
	center := samples[mid].Distance

	best := -1
	bestWeight := 0.0
	for i, s := range samples {
		if s.NoData {
			continue
		}
		delta := refElev - s.Elevation
		if delta <= minDelta {
			continue
		}
		d := math.Abs(s.Distance - center)
		weight := delta * math.Exp(-(d*d)/(maxAdjust*maxAdjust))
		if weight > bestWeight {
			best = i
			bestWeight = weight
		}
	}

	if best < 0 {
		return mid, false
	}
	return best, best != mid
}
