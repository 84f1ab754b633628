package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgroleau/thalweg/pkg/errors"
)

// Distances are stored internally in meters. Flags accept a trailing unit
// suffix so field crews can keep working in the units their survey data
// uses: "10" and "10m" are meters, "30ft" feet, "2in" inches.
const (
	metersPerFoot = 0.3048
	metersPerInch = 0.0254
)

// parseDistance converts a flag value like "10m", "30ft", or "2in" to
// meters. A bare number is treated as meters.
func parseDistance(name, s string) (float64, error) {
	orig := s
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must not be empty", name)
	}

	scale := 1.0
	switch {
	case strings.HasSuffix(s, "ft"):
		scale = metersPerFoot
		s = strings.TrimSuffix(s, "ft")
	case strings.HasSuffix(s, "in"):
		scale = metersPerInch
		s = strings.TrimSuffix(s, "in")
	case strings.HasSuffix(s, "m"):
		s = strings.TrimSuffix(s, "m")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidUnit, "cannot parse %s %q: expected a number with optional m/ft/in suffix", name, orig)
	}
	return v * scale, nil
}

// formatMeters renders a meter value as a flag default, e.g. "10m".
func formatMeters(v float64) string {
	return fmt.Sprintf("%gm", v)
}
