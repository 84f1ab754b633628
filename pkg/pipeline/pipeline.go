// Package pipeline orchestrates the terrain analysis operations behind
// a single cached entry point shared by the CLI and the HTTP API.
//
// Operations are deterministic functions of their inputs, so results
// are cached under a key derived from the input geometry, the surface
// name, and the run parameters. Elevation reads are additionally cached
// per cell through [dem.CachedSource], which pays off across runs that
// touch the same raster.
package pipeline

import (
	"encoding/json"

	"github.com/dgroleau/thalweg/pkg/cache"
	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
	"github.com/dgroleau/thalweg/pkg/minima"
	"github.com/dgroleau/thalweg/pkg/relax"
)

// Surface couples an elevation source with its identity for caching.
// Name should uniquely identify the raster contents, e.g. a hash of the
// source file; an empty Name disables elevation caching for the run.
type Surface struct {
	Source   dem.ElevationSource
	Name     string
	CellSize float64
}

func (s Surface) validate() error {
	if s.Source == nil {
		return errors.New(errors.ErrCodeInvalidInput, "elevation source is required")
	}
	return nil
}

// ===== Options =====

// RelaxOptions parameterizes a centerline relaxation run.
type RelaxOptions struct {
	SearchDistance float64
	Spacing        float64
	MinDelta       float64

	// Refresh bypasses the result cache and overwrites the entry.
	Refresh bool
}

// XSectOptions parameterizes cross-section generation.
type XSectOptions struct {
	Interval float64
	Width    float64
	Refresh  bool
}

// MinimaOptions parameterizes local-minimum detection.
type MinimaOptions struct {
	Interval  float64
	Threshold float64
	Refresh   bool
}

// ===== Results =====

// RelaxResult is a completed relaxation run.
type RelaxResult struct {
	Lines    []*geom.Line
	Stats    relax.Stats
	CacheHit bool
}

// XSectResult is a completed cross-section run. Each transect is a
// two-point line from left bank to right bank.
type XSectResult struct {
	Transects []*geom.Line
	CacheHit  bool
}

// MinimaResult is a completed local-minimum run.
type MinimaResult struct {
	Minima   []minima.Minimum
	CacheHit bool
}

// ===== Cache payloads =====

// Cached payloads store bare vertex slices rather than geom.Line so the
// JSON shape stays independent of internal line bookkeeping.

type relaxPayload struct {
	Lines [][]geom.Point `json:"lines"`
	Stats relax.Stats    `json:"stats"`
}

type xsectPayload struct {
	Lines [][]geom.Point `json:"lines"`
}

type minimaPayload struct {
	Minima []minima.Minimum `json:"minima"`
}

func linesToVertices(lines []*geom.Line) [][]geom.Point {
	out := make([][]geom.Point, len(lines))
	for i, l := range lines {
		out[i] = l.Vertices()
	}
	return out
}

func verticesToLines(vs [][]geom.Point) ([]*geom.Line, error) {
	out := make([]*geom.Line, len(vs))
	for i, pts := range vs {
		l, err := geom.NewLine(pts)
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}

// inputHash identifies the run input: the exact geometry plus the
// surface the elevations come from.
func inputHash(lines []*geom.Line, surface string) string {
	data, _ := json.Marshal(struct {
		Lines   [][]geom.Point `json:"lines"`
		Surface string         `json:"surface"`
	}{linesToVertices(lines), surface})
	return cache.Hash(data)
}
