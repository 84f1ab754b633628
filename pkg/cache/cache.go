// Package cache provides result and elevation-sample caching.
//
// Relaxation passes are deterministic functions of their inputs, so both
// whole-run results and individual elevation reads can be cached. The
// package defines a backend-agnostic [Cache] interface with file, Redis,
// and null implementations, and a [Keyer] that derives stable keys from
// run inputs.
//
// # Key Types
//
//   - elevation: one key per snapped surface coordinate
//   - result: one key per (operation, input hash, parameter set)
//
// Keys embed a SHA-256 of their components, so arbitrary inputs (GeoJSON
// bytes, parameter structs) cannot produce colliding or unsafe keys.
package cache

import (
	"context"
	"time"
)

// Retention periods per key type. Elevation entries are keyed by the
// surface name, so a replaced surface file under the same name ages out
// rather than serving stale reads forever.
const (
	TTLElevation = 7 * 24 * time.Hour
	TTLResult    = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present (a miss is not an error).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ResultKeyOpts captures the parameters that make a run result unique.
// Two runs with the same input hash but different options must not share
// a cache entry.
type ResultKeyOpts struct {
	SearchDistance float64 `json:"search_distance,omitempty"`
	Spacing        float64 `json:"spacing,omitempty"`
	MinDelta       float64 `json:"min_delta,omitempty"`
	Interval       float64 `json:"interval,omitempty"`
	Width          float64 `json:"width,omitempty"`
	Threshold      float64 `json:"threshold,omitempty"`
}

// Keyer generates cache keys. Implementations may add scoping prefixes.
type Keyer interface {
	// ElevationKey generates a key for a single elevation read against a
	// named surface. Coordinates should be pre-snapped by the caller so
	// reads within one cell share a key.
	ElevationKey(surface string, x, y float64) string

	// ResultKey generates a key for a completed operation result.
	// inputHash is a Hash of the input geometry and surface.
	ResultKey(op, inputHash string, opts ResultKeyOpts) string
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ElevationKey generates a key for an elevation read.
func (k *DefaultKeyer) ElevationKey(surface string, x, y float64) string {
	return hashKey("elev", surface, x, y)
}

// ResultKey generates a key for an operation result.
func (k *DefaultKeyer) ResultKey(op, inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", op, inputHash, opts)
}
