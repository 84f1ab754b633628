// Package dem provides elevation surfaces for transect sampling.
//
// The central abstraction is [ElevationSource]: a point query against a
// raster elevation surface. Sources report NoData through a boolean
// rather than an error, because a NoData read is an expected per-sample
// outcome (the sample becomes ineligible) and must never abort a pass.
//
// Implementations:
//   - [Grid]: an in-memory regular grid with nearest-cell lookup
//   - [ReadASCIIGrid]: ESRI ASCII grid (.asc) files into a Grid
//   - [CachedSource]: a caching decorator for expensive backends
//   - [Func]: an adapter for synthetic surfaces in tests
package dem

// ElevationSource is a point elevation query against a raster surface.
//
// At returns the surface elevation at (x, y) in the surface's native
// z-unit. ok is false when the location is outside the surface's domain
// or falls on a NoData cell.
type ElevationSource interface {
	At(x, y float64) (z float64, ok bool)
}

// Func adapts a plain function to [ElevationSource].
// Useful for analytic test surfaces:
//
//	plane := dem.Func(func(x, y float64) (float64, bool) { return 100 - x, true })
type Func func(x, y float64) (float64, bool)

// At implements ElevationSource.
func (f Func) At(x, y float64) (float64, bool) {
	return f(x, y)
}
