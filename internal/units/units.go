// Package units provides shared constants and conversions for stage
// distances and count-based timing.
package units

import "time"

// Distance unit constants
const (
	Meters = "m"
	Feet   = "ft"
)

// ValidUnits contains all valid distance unit values
var ValidUnits = []string{Meters, Feet}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, ft"
}

// ConvertDistance converts a distance from meters to the target units.
// Stage coordinates and stored paths are always meters.
func ConvertDistance(meters float64, targetUnits string) float64 {
	switch targetUnits {
	case Feet:
		return meters * 3.28084
	case Meters:
		return meters
	default:
		return meters
	}
}

// Tempo bounds accepted by the timing helpers. Counts are beats; a tempo
// outside this range is almost certainly a bad input rather than music.
const (
	MinBPM     = 20.0
	MaxBPM     = 300.0
	DefaultBPM = 120.0
)

// IsValidBPM reports whether bpm falls in the supported tempo range.
func IsValidBPM(bpm float64) bool {
	return bpm >= MinBPM && bpm <= MaxBPM
}

// CountsToSeconds converts a duration in counts to seconds at the given
// tempo. One count is one beat; a non-positive tempo falls back to the
// default.
func CountsToSeconds(counts, bpm float64) float64 {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return counts * 60.0 / bpm
}

// SecondsToCounts converts a duration in seconds to counts at the given
// tempo.
func SecondsToCounts(seconds, bpm float64) float64 {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return seconds * bpm / 60.0
}

// CountDuration returns the wall-clock duration covered by the given counts.
func CountDuration(counts, bpm float64) time.Duration {
	return time.Duration(CountsToSeconds(counts, bpm) * float64(time.Second))
}

// SpeedMetersPerSecond converts a speed in stage units per count to meters
// per second at the given tempo.
func SpeedMetersPerSecond(unitsPerCount, bpm float64) float64 {
	sec := CountsToSeconds(1, bpm)
	if sec <= 0 {
		return 0
	}
	return unitsPerCount / sec
}
