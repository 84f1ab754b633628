package dem

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dgroleau/thalweg/pkg/cache"
	"github.com/dgroleau/thalweg/pkg/observability"
)

// CachedSource decorates an [ElevationSource] with a [cache.Cache].
//
// Dense lines issue one elevation query per transect sample, and adjacent
// transects overlap heavily, so repeated cell reads dominate. Queries are
// snapped to a cell size before keying so all reads within one cell share
// an entry. Cache failures degrade to direct reads; they never surface.
type CachedSource struct {
	src      ElevationSource
	cache    cache.Cache
	keyer    cache.Keyer
	surface  string
	cellSize float64
	ttl      time.Duration
}

// NewCachedSource wraps src with a cache. surface names the underlying
// raster (part of the key, so two rasters never share entries); cellSize
// is the snap distance, normally the raster's cell size.
func NewCachedSource(src ElevationSource, c cache.Cache, keyer cache.Keyer, surface string, cellSize float64, ttl time.Duration) *CachedSource {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &CachedSource{
		src:      src,
		cache:    c,
		keyer:    keyer,
		surface:  surface,
		cellSize: cellSize,
		ttl:      ttl,
	}
}

// At implements [ElevationSource].
func (s *CachedSource) At(x, y float64) (float64, bool) {
	ctx := context.Background()
	sx, sy := s.snap(x), s.snap(y)
	key := s.keyer.ElevationKey(s.surface, sx, sy)

	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "elevation")
		return decodeElevation(string(data))
	}
	observability.Cache().OnCacheMiss(ctx, "elevation")

	z, ok := s.src.At(x, y)
	encoded := encodeElevation(z, ok)
	if err := s.cache.Set(ctx, key, []byte(encoded), s.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "elevation", len(encoded))
	}
	return z, ok
}

func (s *CachedSource) snap(v float64) float64 {
	if s.cellSize <= 0 {
		return v
	}
	return math.Floor(v/s.cellSize) * s.cellSize
}

// encodeElevation serializes an elevation read. NoData is the literal
// "nodata"; values round-trip through strconv at full precision.
func encodeElevation(z float64, ok bool) string {
	if !ok {
		return "nodata"
	}
	return strconv.FormatFloat(z, 'g', -1, 64)
}

func decodeElevation(s string) (float64, bool) {
	if strings.TrimSpace(s) == "nodata" {
		return 0, false
	}
	z, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return z, true
}

// Ensure CachedSource implements ElevationSource.
var _ ElevationSource = (*CachedSource)(nil)
