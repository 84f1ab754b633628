package cli

import (
	"math"
	"testing"
)

func TestParseDistance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"bare number is meters", "10", 10},
		{"explicit meters", "2.5m", 2.5},
		{"feet", "30ft", 9.144},
		{"inches", "2in", 0.0508},
		{"uppercase unit", "30FT", 9.144},
		{"surrounding whitespace", " 10 m ", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDistance("distance", tt.input)
			if err != nil {
				t.Fatalf("parseDistance(%q) error: %v", tt.input, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("parseDistance(%q) = %g, want %g", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDistanceInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "10km", "ft"} {
		if _, err := parseDistance("distance", input); err == nil {
			t.Errorf("parseDistance(%q) should fail", input)
		}
	}
}

func TestFormatMeters(t *testing.T) {
	if got := formatMeters(10); got != "10m" {
		t.Errorf("formatMeters(10) = %q, want %q", got, "10m")
	}
	if got := formatMeters(0.25); got != "0.25m" {
		t.Errorf("formatMeters(0.25) = %q, want %q", got, "0.25m")
	}
}
