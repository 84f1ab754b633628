package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgroleau/thalweg/pkg/cache"
	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/geom"
	"github.com/dgroleau/thalweg/pkg/minima"
	"github.com/dgroleau/thalweg/pkg/relax"
	"github.com/dgroleau/thalweg/pkg/transect"
)

// Runner executes analysis operations with caching. It is stateless
// apart from the cache and logger; one Runner can serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Relax runs centerline relaxation over lines against the surface.
func (r *Runner) Relax(ctx context.Context, lines []*geom.Line, surface Surface, opts RelaxOptions) (*RelaxResult, error) {
	if err := surface.validate(); err != nil {
		return nil, err
	}

	key := r.Keyer.ResultKey("relax", inputHash(lines, surface.Name), cache.ResultKeyOpts{
		SearchDistance: opts.SearchDistance,
		Spacing:        opts.Spacing,
		MinDelta:       opts.MinDelta,
	})

	if !opts.Refresh && surface.Name != "" {
		var p relaxPayload
		if hit := r.load(ctx, key, &p); hit {
			cached, err := verticesToLines(p.Lines)
			if err == nil {
				r.Logger.Debug("relax result from cache")
				return &RelaxResult{Lines: cached, Stats: p.Stats, CacheHit: true}, nil
			}
		}
	}

	adjuster, err := relax.NewAdjuster(r.elevationSource(surface), relax.Options{
		SearchDistance: opts.SearchDistance,
		Spacing:        opts.Spacing,
		MinDelta:       opts.MinDelta,
	}, r.Logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	adjusted, stats, err := adjuster.Adjust(ctx, lines)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("relaxation finished",
		"reaches", stats.Reaches, "moved", stats.Moved, "duration", time.Since(start))

	if surface.Name != "" {
		r.store(ctx, key, relaxPayload{Lines: linesToVertices(adjusted), Stats: stats})
	}
	return &RelaxResult{Lines: adjusted, Stats: stats}, nil
}

// CrossSections builds perpendicular transect lines at a fixed interval
// along each input line.
func (r *Runner) CrossSections(ctx context.Context, lines []*geom.Line, opts XSectOptions) (*XSectResult, error) {
	key := r.Keyer.ResultKey("xsect", inputHash(lines, ""), cache.ResultKeyOpts{
		Interval: opts.Interval,
		Width:    opts.Width,
	})

	if !opts.Refresh {
		var p xsectPayload
		if hit := r.load(ctx, key, &p); hit {
			cached, err := verticesToLines(p.Lines)
			if err == nil {
				r.Logger.Debug("cross-sections from cache")
				return &XSectResult{Transects: cached, CacheHit: true}, nil
			}
		}
	}

	var out []*geom.Line
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		transects, err := transect.Interval(line, opts.Interval, opts.Width)
		if err != nil {
			return nil, err
		}
		for _, t := range transects {
			l, err := geom.NewLine([]geom.Point{t.A, t.B})
			if err != nil {
				return nil, err
			}
			out = append(out, l)
		}
	}
	r.Logger.Info("cross-sections generated", "count", len(out))

	r.store(ctx, key, xsectPayload{Lines: linesToVertices(out)})
	return &XSectResult{Transects: out}, nil
}

// Minima finds local low points along each line on the surface.
func (r *Runner) Minima(ctx context.Context, lines []*geom.Line, surface Surface, opts MinimaOptions) (*MinimaResult, error) {
	if err := surface.validate(); err != nil {
		return nil, err
	}

	key := r.Keyer.ResultKey("minima", inputHash(lines, surface.Name), cache.ResultKeyOpts{
		Interval:  opts.Interval,
		Threshold: opts.Threshold,
	})

	if !opts.Refresh && surface.Name != "" {
		var p minimaPayload
		if hit := r.load(ctx, key, &p); hit {
			r.Logger.Debug("minima from cache")
			return &MinimaResult{Minima: p.Minima, CacheHit: true}, nil
		}
	}

	found, err := minima.Find(ctx, lines, r.elevationSource(surface), minima.Options{
		Interval:  opts.Interval,
		Threshold: opts.Threshold,
	})
	if err != nil {
		return nil, err
	}
	r.Logger.Info("local minimums detected", "count", len(found))

	if surface.Name != "" {
		r.store(ctx, key, minimaPayload{Minima: found})
	}
	return &MinimaResult{Minima: found}, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// elevationSource wraps the surface with per-cell caching when it has a
// cacheable identity.
func (r *Runner) elevationSource(s Surface) dem.ElevationSource {
	if s.Name == "" {
		return s.Source
	}
	return dem.NewCachedSource(s.Source, r.Cache, r.Keyer, s.Name, s.CellSize, cache.TTLElevation)
}

func (r *Runner) load(ctx context.Context, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (r *Runner) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	// cache failures never fail the run
	_ = r.Cache.Set(ctx, key, data, cache.TTLResult)
}
