// ABOUTME: Resolves symbolic zone references into numeric target ranges.
// ABOUTME: Deterministic over a configuration snapshot; margins widen singles.
package zones

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/units"
)

// Target is a resolved intensity prescription.
type Target interface {
	isTarget()
}

// None means no target.
type None struct{}

func (None) isTarget() {}

// PaceZone is a speed range in m/s. Orientation is preserved as authored:
// From may exceed To on the wire.
type PaceZone struct {
	FromMS float64
	ToMS   float64
}

func (PaceZone) isTarget() {}

// HeartRateZone is a bpm range. Zone carries the Zn_HR zone number when the
// reference matched that pattern, else 0.
type HeartRateZone struct {
	From int
	To   int
	Zone int
}

func (HeartRateZone) isTarget() {}

// PowerZone is a watt range.
type PowerZone struct {
	From int
	To   int
	Zone int
}

func (PowerZone) isTarget() {}

// UnknownZoneError reports a zone reference that no configuration table or
// literal form could satisfy.
type UnknownZoneError struct {
	Name string
}

func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("unknown zone %q", e.Name)
}

var hrZonePattern = regexp.MustCompile(`^Z(\d+)_HR$`)

// openPowerHigh clamps the open side of ">p%" power targets.
const openPowerHigh = 2000

// Resolve maps a symbolic target to a numeric one for the given sport.
// A zero spec resolves to None.
func Resolve(sport plan.Sport, spec plan.TargetSpec, cfg *config.Training) (Target, error) {
	if cfg == nil {
		cfg = &config.Training{}
	}
	switch spec.Class {
	case plan.TargetNone:
		return None{}, nil
	case plan.TargetHR:
		return resolveHeartRate(spec.Ref, cfg)
	case plan.TargetPower:
		return resolvePower(spec.Ref, cfg)
	case plan.TargetSpeed:
		return resolveSpeed(spec.Ref, cfg)
	case plan.TargetAuto:
		return resolveAuto(sport, spec.Ref, cfg)
	default:
		return nil, &UnknownZoneError{Name: spec.Ref}
	}
}

// resolveAuto handles bare "@ref" targets. HR-looking names win regardless of
// sport; otherwise the sport picks the table.
func resolveAuto(sport plan.Sport, ref string, cfg *config.Training) (Target, error) {
	if hrZonePattern.MatchString(ref) || strings.HasSuffix(ref, "_HR") {
		return resolveHeartRate(ref, cfg)
	}
	if _, ok := cfg.HeartRates[ref]; ok {
		return resolveHeartRate(ref, cfg)
	}
	switch sport {
	case plan.SportSwimming:
		return resolvePace(ref, cfg.SwimPaces, cfg, true)
	case plan.SportCycling:
		return resolvePower(ref, cfg)
	default:
		return resolvePace(ref, cfg.Paces, cfg, false)
	}
}

// resolvePace resolves a running or swim pace reference. A single pace value
// gains the slower/faster margins; an authored range is used as-is.
func resolvePace(ref string, table map[string]string, cfg *config.Training, swim bool) (Target, error) {
	value, err := lookupPaceValue(ref, table)
	if err != nil {
		return nil, err
	}

	lo, hi, single, err := units.ParsePaceRange(value)
	if err != nil {
		return nil, &UnknownZoneError{Name: ref}
	}
	if single {
		lo = lo + cfg.Margins.Slower  // slower bound: more seconds per unit
		hi = hi - cfg.Margins.Faster  // faster bound: fewer seconds per unit
		if hi <= 0 {
			return nil, fmt.Errorf("zone %q: faster margin exceeds pace", ref)
		}
	} else {
		// authored range: slow bound first on the wire
		lo, hi = hi, lo
	}

	base := 1000.0
	if swim {
		base = 100.0
	}
	return PaceZone{
		FromMS: base / float64(lo),
		ToMS:   base / float64(hi),
	}, nil
}

// lookupPaceValue follows zone names, "p% name" scaling forms and literals.
func lookupPaceValue(ref string, table map[string]string) (string, error) {
	if v, ok := table[ref]; ok {
		return v, nil
	}
	// "90% threshold": resolve the referent, then scale its speed
	if pct, rest, ok := splitPercentPrefix(ref); ok && rest != "" {
		base, err := lookupPaceValue(rest, table)
		if err != nil {
			return "", err
		}
		lo, hi, _, err := units.ParsePaceRange(base)
		if err != nil {
			return "", &UnknownZoneError{Name: ref}
		}
		scale := pct / 100.0
		if scale <= 0 {
			return "", &UnknownZoneError{Name: ref}
		}
		sLo := units.Pace(math.Round(float64(lo) / scale))
		sHi := units.Pace(math.Round(float64(hi) / scale))
		if sLo == sHi {
			return sLo.Format(), nil
		}
		return sLo.Format() + "-" + sHi.Format(), nil
	}
	// literal pace or range
	if _, _, _, err := units.ParsePaceRange(ref); err == nil && strings.Contains(ref, ":") {
		return ref, nil
	}
	return "", &UnknownZoneError{Name: ref}
}

// resolveHeartRate handles "lo-hi", single "n", "lo-hi% max_hr" and
// "<p% max_hr" forms. Margins apply only to single absolute values.
func resolveHeartRate(ref string, cfg *config.Training) (Target, error) {
	value := ref
	zone := 0
	if v, ok := cfg.HeartRates[ref]; ok {
		value = v
		if m := hrZonePattern.FindStringSubmatch(ref); m != nil {
			zone, _ = strconv.Atoi(m[1])
		}
	}

	maxHR := 0
	if v, ok := cfg.HeartRates["max_hr"]; ok {
		maxHR, _ = strconv.Atoi(v)
	}

	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "max_hr"))

	if strings.HasPrefix(value, "<") {
		pct, err := parsePercent(strings.TrimPrefix(value, "<"))
		if err != nil || maxHR == 0 {
			return nil, &UnknownZoneError{Name: ref}
		}
		return HeartRateZone{From: 0, To: maxHR * pct / 100, Zone: zone}, nil
	}

	if strings.HasSuffix(value, "%") {
		loPct, hiPct, single, err := parsePercentRange(value)
		if err != nil || maxHR == 0 {
			return nil, &UnknownZoneError{Name: ref}
		}
		if single {
			bpm := maxHR * loPct / 100
			return HeartRateZone{From: bpm - cfg.Margins.HRDown, To: bpm + cfg.Margins.HRUp, Zone: zone}, nil
		}
		return HeartRateZone{From: maxHR * loPct / 100, To: maxHR * hiPct / 100, Zone: zone}, nil
	}

	lo, hi, single, err := parseIntRange(value)
	if err != nil {
		return nil, &UnknownZoneError{Name: ref}
	}
	if single {
		return HeartRateZone{From: lo - cfg.Margins.HRDown, To: lo + cfg.Margins.HRUp, Zone: zone}, nil
	}
	return HeartRateZone{From: lo, To: hi, Zone: zone}, nil
}

// resolvePower handles absolute watts, "p% ftp" forms and open-ended "<p%"
// and ">p%" bounds. Margins apply only to single absolute values.
func resolvePower(ref string, cfg *config.Training) (Target, error) {
	value := ref
	zone := 0
	if v, ok := cfg.PowerValues[ref]; ok {
		value = v
		if m := regexp.MustCompile(`^Z(\d+)`).FindStringSubmatch(ref); m != nil {
			zone, _ = strconv.Atoi(m[1])
		}
	}

	ftp := 0
	if v, ok := cfg.PowerValues["ftp"]; ok {
		ftp, _ = strconv.Atoi(v)
	}

	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "ftp"))

	switch {
	case strings.HasPrefix(value, "<"):
		pct, err := parsePercent(strings.TrimPrefix(value, "<"))
		if err != nil || ftp == 0 {
			return nil, &UnknownZoneError{Name: ref}
		}
		return PowerZone{From: 0, To: ftp * pct / 100, Zone: zone}, nil
	case strings.HasPrefix(value, ">"):
		pct, err := parsePercent(strings.TrimPrefix(value, ">"))
		if err != nil || ftp == 0 {
			return nil, &UnknownZoneError{Name: ref}
		}
		return PowerZone{From: ftp * pct / 100, To: openPowerHigh, Zone: zone}, nil
	case strings.HasSuffix(value, "%"):
		loPct, hiPct, single, err := parsePercentRange(value)
		if err != nil || ftp == 0 {
			return nil, &UnknownZoneError{Name: ref}
		}
		if single {
			w := ftp * loPct / 100
			return PowerZone{From: w - cfg.Margins.PowerDn, To: w + cfg.Margins.PowerUp, Zone: zone}, nil
		}
		return PowerZone{From: ftp * loPct / 100, To: ftp * hiPct / 100, Zone: zone}, nil
	}

	lo, hi, single, err := parseIntRange(value)
	if err != nil {
		return nil, &UnknownZoneError{Name: ref}
	}
	if single {
		return PowerZone{From: lo - cfg.Margins.PowerDn, To: lo + cfg.Margins.PowerUp, Zone: zone}, nil
	}
	return PowerZone{From: lo, To: hi, Zone: zone}, nil
}

// resolveSpeed handles the legacy "@spd ref" cycling form: the reference is
// looked up in power_values in newer files, else treated as absolute km/h.
// The result goes on the wire as a pace zone.
func resolveSpeed(ref string, cfg *config.Training) (Target, error) {
	value := ref
	if v, ok := cfg.PowerValues[ref]; ok {
		value = v
	}
	lo, hi, _, err := parseFloatRange(value)
	if err != nil {
		return nil, &UnknownZoneError{Name: ref}
	}
	// km/h -> m/s
	return PaceZone{FromMS: lo / 3.6, ToMS: hi / 3.6}, nil
}

func splitPercentPrefix(s string) (pct float64, rest string, ok bool) {
	i := strings.Index(s, "%")
	if i <= 0 {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
	if err != nil {
		return 0, "", false
	}
	return v, strings.TrimSpace(s[i+1:]), true
}

func parsePercent(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	return strconv.Atoi(s)
}

func parsePercentRange(s string) (lo, hi int, single bool, err error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	return parseIntRangeStr(s)
}

func parseIntRange(s string) (lo, hi int, single bool, err error) {
	return parseIntRangeStr(strings.TrimSpace(s))
}

func parseIntRangeStr(s string) (lo, hi int, single bool, err error) {
	if i := strings.Index(s, "-"); i > 0 {
		lo, err = strconv.Atoi(strings.TrimSpace(s[:i]))
		if err != nil {
			return 0, 0, false, err
		}
		hi, err = strconv.Atoi(strings.TrimSpace(s[i+1:]))
		if err != nil {
			return 0, 0, false, err
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, false, nil
	}
	lo, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, false, err
	}
	return lo, lo, true, nil
}

func parseFloatRange(s string) (lo, hi float64, single bool, err error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "-"); i > 0 {
		lo, err = strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
		if err != nil {
			return 0, 0, false, err
		}
		hi, err = strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
		if err != nil {
			return 0, 0, false, err
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, false, nil
	}
	lo, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, false, err
	}
	return lo, lo, true, nil
}
