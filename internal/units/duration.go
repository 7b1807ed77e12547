// ABOUTME: Duration parsing and formatting for workout step times.
// ABOUTME: Handles mm:ss, h:mm:ss, Nmin/Ns/Nh forms and legacy workbook quirks.
package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Duration is a non-negative count of seconds.
type Duration int

// ParseDuration parses a duration string. Accepted forms: "Nh", "Nmin", "Ns",
// bare "N" (seconds), "mm:ss" and "h:mm:ss". Minute and second fields in
// colon forms must be below 60.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse duration: empty string")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("parse duration %q: negative durations not allowed", s)
	}

	if strings.Contains(s, ":") {
		return parseColonDuration(s)
	}

	switch {
	case strings.HasSuffix(s, "min"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "min"))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse duration %q: bad minute count", s)
		}
		return Duration(n * 60), nil
	case strings.HasSuffix(s, "h"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse duration %q: bad hour count", s)
		}
		return Duration(n * 3600), nil
	case strings.HasSuffix(s, "s"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "s"))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse duration %q: bad second count", s)
		}
		return Duration(n), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("parse duration %q: not a duration", s)
	}
	return Duration(n), nil
}

func parseColonDuration(s string) (Duration, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		m, err1 := strconv.Atoi(parts[0])
		sec, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || m < 0 || sec < 0 {
			return 0, fmt.Errorf("parse duration %q: bad mm:ss", s)
		}
		if sec >= 60 {
			return 0, fmt.Errorf("parse duration %q: seconds field must be below 60", s)
		}
		if m >= 60 {
			return 0, fmt.Errorf("parse duration %q: minutes field must be below 60 (use h:mm:ss)", s)
		}
		return Duration(m*60 + sec), nil
	case 3:
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		sec, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || h < 0 || m < 0 || sec < 0 {
			return 0, fmt.Errorf("parse duration %q: bad h:mm:ss", s)
		}
		if m >= 60 || sec >= 60 {
			return 0, fmt.Errorf("parse duration %q: minute/second fields must be below 60", s)
		}
		return Duration(h*3600 + m*60 + sec), nil
	default:
		return 0, fmt.Errorf("parse duration %q: too many fields", s)
	}
}

// Format renders a duration in canonical form: "m:ss", or "h:mm:ss" for
// durations of an hour or more.
func (d Duration) Format() string {
	total := int(d)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Seconds returns the duration as an int second count.
func (d Duration) Seconds() int { return int(d) }

// NormalizePace repairs legacy workbook pace encodings before parsing.
// "0:NN" is a legacy encoding of "NN:00", and "ssss:00" with ssss >= 60 means
// ssss total seconds. Other strings pass through untouched.
func NormalizePace(s string) string {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return s
	}
	lead, err1 := strconv.Atoi(parts[0])
	trail, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return s
	}
	if lead == 0 && trail > 0 {
		return fmt.Sprintf("%d:00", trail)
	}
	if lead >= 60 && trail == 0 {
		return Duration(lead).Format()
	}
	return s
}
