package dem

import (
	"testing"

	"github.com/dgroleau/thalweg/pkg/cache"
)

// countingSource counts backend reads.
type countingSource struct {
	src   ElevationSource
	reads int
}

func (c *countingSource) At(x, y float64) (float64, bool) {
	c.reads++
	return c.src.At(x, y)
}

func TestCachedSourceDeduplicatesReads(t *testing.T) {
	backend := &countingSource{src: Func(func(x, y float64) (float64, bool) { return x + y, true })}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	src := NewCachedSource(backend, fc, nil, "dem", 10, 0)

	// Two reads in the same 10-unit cell hit the backend once.
	z1, ok1 := src.At(12, 3)
	z2, ok2 := src.At(14, 7)
	if !ok1 || !ok2 {
		t.Fatal("expected data for both reads")
	}
	if z1 != 15 {
		t.Errorf("first read = %g, want 15", z1)
	}
	// The second read returns the cached first value (cell-snapped).
	if z2 != 15 {
		t.Errorf("cached read = %g, want 15", z2)
	}
	if backend.reads != 1 {
		t.Errorf("backend reads = %d, want 1", backend.reads)
	}

	// A read in another cell goes to the backend again.
	if _, ok := src.At(25, 3); !ok {
		t.Fatal("expected data")
	}
	if backend.reads != 2 {
		t.Errorf("backend reads = %d, want 2", backend.reads)
	}
}

func TestCachedSourcePreservesNoData(t *testing.T) {
	backend := &countingSource{src: Func(func(x, y float64) (float64, bool) { return 0, false })}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	src := NewCachedSource(backend, fc, nil, "dem", 1, 0)

	if _, ok := src.At(5, 5); ok {
		t.Error("NoData should pass through the cache")
	}
	if _, ok := src.At(5, 5); ok {
		t.Error("cached NoData should stay NoData")
	}
	if backend.reads != 1 {
		t.Errorf("backend reads = %d, want 1", backend.reads)
	}
}

func TestCachedSourceNilCacheIsDirect(t *testing.T) {
	backend := &countingSource{src: Func(func(x, y float64) (float64, bool) { return 42, true })}
	src := NewCachedSource(backend, nil, nil, "dem", 1, 0)

	for i := 0; i < 3; i++ {
		if z, ok := src.At(1, 1); !ok || z != 42 {
			t.Fatalf("At = %g,%v want 42,true", z, ok)
		}
	}
	if backend.reads != 3 {
		t.Errorf("backend reads = %d, want 3 (null cache never stores)", backend.reads)
	}
}

func TestElevationEncoding(t *testing.T) {
	z, ok := decodeElevation(encodeElevation(312.755, true))
	if !ok || z != 312.755 {
		t.Errorf("round trip = %g,%v", z, ok)
	}
	if _, ok := decodeElevation(encodeElevation(0, false)); ok {
		t.Error("nodata should round trip to NoData")
	}
	if _, ok := decodeElevation("garbage"); ok {
		t.Error("garbage should decode as NoData")
	}
}
