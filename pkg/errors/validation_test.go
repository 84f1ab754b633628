package errors

import (
	"math"
	"testing"
)

func TestValidateDistance(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"positive", 10.5, false},
		{"small positive", 1e-9, false},
		{"zero", 0, true},
		{"negative", -3, true},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDistance("width", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDistance(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateThreshold(t *testing.T) {
	if err := ValidateThreshold("threshold", 0); err != nil {
		t.Errorf("zero threshold should be valid, got %v", err)
	}
	if err := ValidateThreshold("threshold", 0.2); err != nil {
		t.Errorf("positive threshold should be valid, got %v", err)
	}
	if err := ValidateThreshold("threshold", -0.1); err == nil {
		t.Error("negative threshold should be rejected")
	}
	if err := ValidateThreshold("threshold", math.NaN()); err == nil {
		t.Error("NaN threshold should be rejected")
	}
}

func TestValidateOutputPath(t *testing.T) {
	if err := ValidateOutputPath("out/streams.geojson"); err != nil {
		t.Errorf("valid path rejected: %v", err)
	}
	if err := ValidateOutputPath(""); err == nil {
		t.Error("empty path should be rejected")
	}
	if err := ValidateOutputPath("bad\x00path"); err == nil {
		t.Error("null byte should be rejected")
	}
}
