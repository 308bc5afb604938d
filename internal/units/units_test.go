package units

import (
	"math"
	"testing"
	"time"
)

func TestConvertDistance(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		units    string
		expected float64
	}{
		{"10 m to ft", 10.0, Feet, 32.8084},
		{"10 m to m", 10.0, Meters, 10.0},
		{"unknown units default to meters", 10.0, "unknown", 10.0},
		{"0 m to ft", 0.0, Feet, 0.0},
		{"stage width 12 m to ft", 12.0, Feet, 39.37008},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertDistance(tt.meters, tt.units)
			if math.Abs(result-tt.expected) > 0.01 { // Allow small floating point differences
				t.Errorf("ConvertDistance(%f, %s) = %f, want %f", tt.meters, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid m", Meters, true},
		{"valid ft", Feet, true},
		{"invalid unit", "yards", false},
		{"empty string", "", false},
		{"case sensitive", "M", false},
		{"case sensitive ft", "FT", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestCountsToSeconds(t *testing.T) {
	tests := []struct {
		name     string
		counts   float64
		bpm      float64
		expected float64
	}{
		{"8 counts at 120 bpm", 8.0, 120.0, 4.0},
		{"8 counts at 60 bpm", 8.0, 60.0, 8.0},
		{"1 count at 90 bpm", 1.0, 90.0, 60.0 / 90.0},
		{"zero bpm falls back to default", 8.0, 0.0, 4.0},
		{"negative bpm falls back to default", 8.0, -5.0, 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CountsToSeconds(tt.counts, tt.bpm)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CountsToSeconds(%f, %f) = %f, want %f", tt.counts, tt.bpm, result, tt.expected)
			}
		})
	}
}

func TestSecondsToCountsRoundTrip(t *testing.T) {
	for _, bpm := range []float64{60, 96, 120, 128, 174} {
		counts := 8.0
		back := SecondsToCounts(CountsToSeconds(counts, bpm), bpm)
		if math.Abs(back-counts) > 1e-9 {
			t.Errorf("round trip at %v bpm: got %f, want %f", bpm, back, counts)
		}
	}
}

func TestCountDuration(t *testing.T) {
	got := CountDuration(8, 120)
	if got != 4*time.Second {
		t.Errorf("CountDuration(8, 120) = %v, want 4s", got)
	}
}

func TestSpeedMetersPerSecond(t *testing.T) {
	// 1.5 stage units per count at 120 bpm is one count per half second.
	got := SpeedMetersPerSecond(1.5, 120)
	if math.Abs(got-3.0) > 1e-9 {
		t.Errorf("SpeedMetersPerSecond(1.5, 120) = %f, want 3.0", got)
	}
}

func TestIsValidBPM(t *testing.T) {
	tests := []struct {
		bpm      float64
		expected bool
	}{
		{120, true},
		{MinBPM, true},
		{MaxBPM, true},
		{0, false},
		{-10, false},
		{1000, false},
	}
	for _, tt := range tests {
		if got := IsValidBPM(tt.bpm); got != tt.expected {
			t.Errorf("IsValidBPM(%v) = %v, want %v", tt.bpm, got, tt.expected)
		}
	}
}
