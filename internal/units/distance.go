// ABOUTME: Distance string parsing for workout step end conditions.
// ABOUTME: Accepts Nkm (decimal fraction allowed) and Nm, returns metres.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDistance parses "Nkm" or "Nm" into integer metres. Decimal fractions
// are allowed only with the km suffix. The second return reports whether the
// value was authored in kilometres.
func ParseDistance(s string) (meters int, kilometers bool, err error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "km"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "km"), 64)
		if err != nil || v < 0 {
			return 0, false, fmt.Errorf("parse distance %q: bad kilometre value", s)
		}
		return int(math.Round(v * 1000)), true, nil
	case strings.HasSuffix(s, "m"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "m"))
		if err != nil || n < 0 {
			return 0, false, fmt.Errorf("parse distance %q: bad metre value", s)
		}
		return n, false, nil
	default:
		return 0, false, fmt.Errorf("parse distance %q: missing km/m suffix", s)
	}
}

// IsDistance reports whether s looks like a distance literal.
func IsDistance(s string) bool {
	_, _, err := ParseDistance(s)
	return err == nil
}
