// ABOUTME: Pace value type and pace<->speed conversions.
// ABOUTME: Running paces are seconds per km, swim paces seconds per 100m.
package units

import (
	"fmt"
	"math"
	"strings"
)

// Pace is a duration per unit distance: per kilometre for running and
// cycling, per 100 m for swimming.
type Pace = Duration

// ParsePace parses a pace string after legacy normalisation.
func ParsePace(s string) (Pace, error) {
	return ParseDuration(NormalizePace(s))
}

// PaceToSpeed converts a running pace string (seconds per km) to m/s.
func PaceToSpeed(s string) (float64, error) {
	p, err := ParsePace(s)
	if err != nil {
		return 0, err
	}
	if p <= 0 {
		return 0, fmt.Errorf("pace %q: must be positive", s)
	}
	return 1000.0 / float64(p), nil
}

// SwimPaceToSpeed converts a swim pace string (seconds per 100 m) to m/s.
func SwimPaceToSpeed(s string) (float64, error) {
	p, err := ParsePace(s)
	if err != nil {
		return 0, err
	}
	if p <= 0 {
		return 0, fmt.Errorf("swim pace %q: must be positive", s)
	}
	return 100.0 / float64(p), nil
}

// SpeedToPace converts a speed in m/s back to a running pace, rounded to the
// nearest whole second per km.
func SpeedToPace(metersPerSecond float64) (Pace, error) {
	if metersPerSecond <= 0 {
		return 0, fmt.Errorf("speed %v m/s: must be positive", metersPerSecond)
	}
	return Pace(math.Round(1000.0 / metersPerSecond)), nil
}

// SpeedToSwimPace converts a speed in m/s back to a swim pace per 100 m.
func SpeedToSwimPace(metersPerSecond float64) (Pace, error) {
	if metersPerSecond <= 0 {
		return 0, fmt.Errorf("speed %v m/s: must be positive", metersPerSecond)
	}
	return Pace(math.Round(100.0 / metersPerSecond)), nil
}

// ParsePaceRange parses either a single pace "a:bb" or a range "a:bb-c:dd".
// A single pace is returned as an equal lo/hi pair with single=true.
func ParsePaceRange(s string) (lo, hi Pace, single bool, err error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "-"); i > 0 {
		lo, err = ParsePace(s[:i])
		if err != nil {
			return 0, 0, false, err
		}
		hi, err = ParsePace(s[i+1:])
		if err != nil {
			return 0, 0, false, err
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, false, nil
	}
	p, err := ParsePace(s)
	if err != nil {
		return 0, 0, false, err
	}
	return p, p, true, nil
}
