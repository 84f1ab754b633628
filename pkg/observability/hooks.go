// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about relaxation passes, elevation sampling, and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRelaxHooks(&myRelaxHooks{})
//	    observability.SetSampleHooks(&mySampleHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Relax().OnReachStart(ctx, reachIndex, vertexCount)
//	// ... process reach ...
//	observability.Relax().OnReachComplete(ctx, reachIndex, moved, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Relaxation Hooks
// =============================================================================

// RelaxHooks receives events from centerline relaxation passes.
type RelaxHooks interface {
	// Reach events
	OnReachStart(ctx context.Context, reach, vertexCount int)
	OnReachComplete(ctx context.Context, reach, moved int, duration time.Duration, err error)

	// OnVertex records the outcome for a single vertex: moved reports
	// whether the vertex was relocated, dist is the adjustment distance.
	OnVertex(ctx context.Context, reach, vertex int, moved bool, dist float64)
}

// =============================================================================
// Sampling Hooks
// =============================================================================

// SampleHooks receives events from elevation sampling.
type SampleHooks interface {
	// OnTransect records a completed transect sampling pass.
	OnTransect(ctx context.Context, samples, noData int)

	// OnNoData records a sample that fell on NoData or outside the surface.
	OnNoData(ctx context.Context, x, y float64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRelaxHooks is a no-op implementation of RelaxHooks.
type NoopRelaxHooks struct{}

func (NoopRelaxHooks) OnReachStart(context.Context, int, int)                          {}
func (NoopRelaxHooks) OnReachComplete(context.Context, int, int, time.Duration, error) {}
func (NoopRelaxHooks) OnVertex(context.Context, int, int, bool, float64)               {}

// NoopSampleHooks is a no-op implementation of SampleHooks.
type NoopSampleHooks struct{}

func (NoopSampleHooks) OnTransect(context.Context, int, int)     {}
func (NoopSampleHooks) OnNoData(context.Context, float64, float64) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	relaxHooks  RelaxHooks  = NoopRelaxHooks{}
	sampleHooks SampleHooks = NoopSampleHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRelaxHooks registers custom relaxation hooks.
// This should be called once at application startup before any relaxation passes.
func SetRelaxHooks(h RelaxHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		relaxHooks = h
	}
}

// SetSampleHooks registers custom sampling hooks.
// This should be called once at application startup before any sampling.
func SetSampleHooks(h SampleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sampleHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Relax returns the registered relaxation hooks.
func Relax() RelaxHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return relaxHooks
}

// Sample returns the registered sampling hooks.
func Sample() SampleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sampleHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	relaxHooks = NoopRelaxHooks{}
	sampleHooks = NoopSampleHooks{}
	cacheHooks = NoopCacheHooks{}
}
