package relax

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
	"github.com/dgroleau/thalweg/pkg/observability"
	"github.com/dgroleau/thalweg/pkg/transect"
)

// ===== Options =====

// Default tuning values, applied by NewAdjuster when the corresponding
// Options field is zero.
const (
	DefaultSpacing  = 1.0
	DefaultMinDelta = 0.2
)

// Options configures an Adjuster.
type Options struct {
	// SearchDistance is the maximum lateral adjustment per vertex. The
	// transect built at each vertex spans twice this distance, centered
	// on the vertex. Must be a positive whole multiple of Spacing.
	SearchDistance float64

	// Spacing is the elevation sampling interval along each transect.
	// Defaults to DefaultSpacing.
	Spacing float64

	// MinDelta is the minimum elevation drop (reference minus sample)
	// a candidate must strictly exceed to be eligible. Zero means the
	// default; use a small negative value to genuinely disable it.
	// Defaults to DefaultMinDelta.
	MinDelta float64
}

func (o *Options) applyDefaults() {
	if o.Spacing == 0 {
		o.Spacing = DefaultSpacing
	}
	if o.MinDelta == 0 {
		o.MinDelta = DefaultMinDelta
	}
}

func (o Options) validate() error {
	if err := errors.ValidateDistance("search distance", o.SearchDistance); err != nil {
		return err
	}
	if err := errors.ValidateDistance("spacing", o.Spacing); err != nil {
		return err
	}
	ratio := o.SearchDistance / o.Spacing
	if math.Abs(ratio-math.Round(ratio)) > 1e-9 || math.Round(ratio) < 1 {
		return errors.New(errors.ErrCodeInvalidSampling,
			"search distance must be a whole multiple of spacing")
	}
	return nil
}

// ===== Stats =====

// Stats summarizes a relaxation pass.
type Stats struct {
	Reaches    int // reaches processed
	Vertices   int // vertices visited
	Moved      int // vertices replaced by a lower sample
	NoData     int // vertices kept because the surface had no value there
	Degenerate int // vertices kept because no transect could be built
	Repaired   int // reaches where self-intersection repair removed loops
}

// ===== ReachBuilder =====

// ReachBuilder accumulates the vertices of one adjusted reach.
// AdjustReach appends exactly one point per input vertex, in order.
type ReachBuilder interface {
	Append(p geom.Point)
}

// PointsBuilder is the trivial ReachBuilder backed by a slice.
type PointsBuilder struct {
	Points []geom.Point
}

// Append implements ReachBuilder.
func (b *PointsBuilder) Append(p geom.Point) { b.Points = append(b.Points, p) }

// ===== Adjuster =====

// Adjuster relaxes stream lines against an elevation source.
type Adjuster struct {
	src    dem.ElevationSource
	opts   Options
	logger *log.Logger
}

// NewAdjuster validates opts eagerly so a bad sampling configuration
// fails before any terrain is read.
func NewAdjuster(src dem.ElevationSource, opts Options, logger *log.Logger) (*Adjuster, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "elevation source is required")
	}
	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Adjuster{src: src, opts: opts, logger: logger}, nil
}

// AdjustReach relaxes a single reach, appending one adjusted point per
// input vertex to b. Vertices where the surface has no data, or where
// the line geometry is too degenerate to carry a transect, keep their
// original position rather than aborting the reach.
func (a *Adjuster) AdjustReach(ctx context.Context, line *geom.Line, reach int, b ReachBuilder) (Stats, error) {
	var st Stats
	st.Reaches = 1
	width := 2 * a.opts.SearchDistance

	hooks := observability.Relax()
	sampleHooks := observability.Sample()
	hooks.OnReachStart(ctx, reach, line.NumVertices())
	start := time.Now()

	for i := 0; i < line.NumVertices(); i++ {
		if err := ctx.Err(); err != nil {
			hooks.OnReachComplete(ctx, reach, st.Moved, time.Since(start), err)
			return st, err
		}
		st.Vertices++
		v := line.Vertex(i)

		refElev, ok := a.src.At(v[0], v[1])
		if !ok {
			st.NoData++
			sampleHooks.OnNoData(ctx, v[0], v[1])
			b.Append(v)
			hooks.OnVertex(ctx, reach, i, false, 0)
			continue
		}

		tr, err := transect.Build(line, v, width)
		if err != nil {
			if errors.Is(err, errors.ErrCodeDegenerateGeometry) {
				st.Degenerate++
				a.logger.Debug("no transect at vertex, keeping position",
					"reach", reach, "vertex", i)
				b.Append(v)
				hooks.OnVertex(ctx, reach, i, false, 0)
				continue
			}
			hooks.OnReachComplete(ctx, reach, st.Moved, time.Since(start), err)
			return st, err
		}

		samples, err := transect.SamplesWithReference(tr, a.src, a.opts.Spacing, refElev)
		if err != nil {
			hooks.OnReachComplete(ctx, reach, st.Moved, time.Since(start), err)
			return st, err
		}
		sampleHooks.OnTransect(ctx, len(samples), transect.CountNoData(samples))

		idx, moved := Choose(samples, refElev, a.opts.SearchDistance, a.opts.MinDelta)

		// A vertex that stays put keeps its exact input coordinates; the
		// reconstructed midpoint sample carries interpolation round-off.
		dist := 0.0
		if moved {
			p := samples[idx].Point
			b.Append(p)
			st.Moved++
			dist = geom.Dist(v, p)
		} else {
			b.Append(v)
		}
		hooks.OnVertex(ctx, reach, i, moved, dist)
	}

	hooks.OnReachComplete(ctx, reach, st.Moved, time.Since(start), nil)
	return st, nil
}

// Adjust relaxes every line and returns the adjusted set in input order.
// Adjusted reaches are repaired for self-intersections introduced by
// vertex movement. A reach whose adjusted vertices collapse to fewer
// than two distinct points is returned unchanged.
func (a *Adjuster) Adjust(ctx context.Context, lines []*geom.Line) ([]*geom.Line, Stats, error) {
	out := make([]*geom.Line, 0, len(lines))
	var total Stats

	for reach, line := range lines {
		var b PointsBuilder
		st, err := a.AdjustReach(ctx, line, reach, &b)
		total.Reaches += st.Reaches
		total.Vertices += st.Vertices
		total.Moved += st.Moved
		total.NoData += st.NoData
		total.Degenerate += st.Degenerate
		if err != nil {
			return nil, total, err
		}

		pts := geom.RepairSelfIntersections(b.Points)
		if len(pts) < len(b.Points) {
			total.Repaired++
			a.logger.Debug("removed self-intersection loops",
				"reach", reach, "before", len(b.Points), "after", len(pts))
		}

		adjusted, err := geom.NewLine(pts)
		if err != nil {
			a.logger.Warn("adjusted reach collapsed, keeping original",
				"reach", reach)
			out = append(out, line)
			continue
		}
		out = append(out, adjusted)
	}

	a.logger.Info("relaxation complete",
		"reaches", total.Reaches,
		"vertices", total.Vertices,
		"moved", total.Moved,
		"nodata", total.NoData)
	return out, total, nil
}
