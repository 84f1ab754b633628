package errors

import (
	"math"
	"strings"
)

// ValidateDistance validates a caller-supplied linear distance (search
// distance, transect width, sample spacing, densify interval).
//
// The rules are intentionally strict: distances drive loop bounds and
// sample counts downstream, so zero, negative, NaN, and infinite values
// are all rejected here rather than surfacing as hangs or empty output.
func ValidateDistance(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateThreshold validates an elevation-delta threshold. Unlike
// distances, a zero threshold is allowed (every descent qualifies), but
// negative and non-finite values are not.
func ValidateThreshold(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
// It prevents path traversal into unexpected locations and rejects
// obviously malformed paths.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "output path too long (max 500 characters)")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "output path contains null byte")
	}
	return nil
}
