// Package pkg provides the core libraries for thalweg centerline conditioning.
//
// # Overview
//
// Thalweg pulls digitized stream centerlines toward the lowest path of the
// channel on a digital elevation model. The pkg directory is organized into
// four main areas:
//
//  1. Geometry and sampling ([geom], [transect], [dem])
//  2. Channel analysis ([relax], [minima], [profile])
//  3. Data plumbing ([vector], [cache], [config], [job])
//  4. Orchestration ([pipeline], [server])
//
// # Architecture
//
// The typical data flow:
//
//	GeoJSON / Shapefile centerlines + Esri ASCII grid DEM
//	         ↓
//	    [vector] package (read lines, load surface)
//	         ↓
//	    [relax] / [minima] packages (transect sampling + scanning)
//	         ↓
//	    [pipeline] package (caching + orchestration)
//	         ↓
//	    GeoJSON / Shapefile / SVG output
//
// # Quick Start
//
// Relax a centerline onto a surface:
//
//	import (
//	    "context"
//	    "github.com/dgroleau/thalweg/pkg/pipeline"
//	    "github.com/dgroleau/thalweg/pkg/vector"
//	)
//
//	lines, _ := vector.ReadLines("streams.geojson")
//	surface, _ := pipeline.LoadSurface("valley.asc")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Relax(context.Background(), lines, surface, pipeline.RelaxOptions{
//	    SearchDistance: 10,
//	    Spacing:        1,
//	    MinDelta:       0.2,
//	})
//
//	_ = vector.WriteLines("relaxed.geojson", result.Lines)
//
// # Main Packages
//
// [geom] - Planar points and polylines with arc-length interpolation,
// densification, and self-intersection repair.
//
// [transect] - Perpendicular transect construction and elevation sampling.
// Transects run from the left bank to the right bank facing downstream and
// always carry an odd sample count so the centerline sits at the midpoint.
//
// [dem] - Elevation sources: Esri ASCII grids with nearest-cell lookup,
// function-backed sources for tests, and a caching wrapper.
//
// [relax] - The relaxation core: depth-weighted minimum selection along each
// transect and the reach-by-reach adjuster.
//
// [minima] - Local low-point detection along densified lines using a
// two-sided prominence threshold.
//
// [profile] - Cross-section elevation profiles and stacked SVG rendering.
//
// [vector] - GeoJSON and shapefile line/point readers and writers.
//
// [cache] - Cache backends (file, Redis, null) with keying for per-cell
// elevations and whole-run results.
//
// [pipeline] - Orchestrates relax, cross-section, and minima runs with
// result caching. Used by both the CLI and the HTTP API.
//
// [server] - HTTP API over the pipeline with synchronous endpoints and
// background jobs.
//
// [job] - Job state for asynchronous API runs, with memory and MongoDB
// stores.
//
// [config] - TOML configuration with XDG default paths.
//
// [errors] - Coded errors shared across packages and mapped to HTTP
// statuses by the server.
//
// [geom]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/geom
// [transect]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/transect
// [dem]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/dem
// [relax]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/relax
// [minima]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/minima
// [profile]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/profile
// [vector]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/vector
// [cache]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/server
// [job]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/job
// [config]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/config
// [errors]: https://pkg.go.dev/github.com/dgroleau/thalweg/pkg/errors
package pkg
