// ABOUTME: Typed training configuration: paces, power, heart rates, margins.
// ABOUTME: Loaded from plan YAML or workbook, immutable per compilation pass.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/trainer/internal/units"
)

// Margins widen single-valued zone targets into ranges.
type Margins struct {
	Faster  units.Duration
	Slower  units.Duration
	HRUp    int
	HRDown  int
	PowerUp int
	PowerDn int
}

// Training holds the authoring configuration for a plan. Zone values stay as
// authored strings; the zone resolver expands them on demand so unknown or
// percentage forms never fail at load time.
type Training struct {
	Paces         map[string]string
	SwimPaces     map[string]string
	PowerValues   map[string]string
	HeartRates    map[string]string
	Margins       Margins
	NamePrefix    string
	AthleteName   string
	RaceDay       time.Time
	PreferredDays []int

	// Extra preserves unknown top-level keys through a round trip.
	Extra map[string]any
}

// ValidationError reports a configuration constraint violation with the
// offending field path.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// LoadTraining builds a Training from a decoded YAML mapping. Unknown
// top-level keys are kept in Extra. Zone value strings are normalised for
// legacy pace encodings but otherwise left alone.
func LoadTraining(raw map[string]any) (*Training, error) {
	t := &Training{
		Paces:       map[string]string{},
		SwimPaces:   map[string]string{},
		PowerValues: map[string]string{},
		HeartRates:  map[string]string{},
		Extra:       map[string]any{},
	}

	for key, val := range raw {
		switch key {
		case "paces":
			m, err := stringMap(key, val)
			if err != nil {
				return nil, err
			}
			for k, v := range m {
				t.Paces[k] = normalizePaceValue(v)
			}
		case "swim_paces":
			m, err := stringMap(key, val)
			if err != nil {
				return nil, err
			}
			for k, v := range m {
				t.SwimPaces[k] = normalizePaceValue(v)
			}
		case "power_values":
			m, err := stringMap(key, val)
			if err != nil {
				return nil, err
			}
			t.PowerValues = m
		case "heart_rates":
			m, err := stringMap(key, val)
			if err != nil {
				return nil, err
			}
			t.HeartRates = m
		case "margins":
			if err := t.loadMargins(val); err != nil {
				return nil, err
			}
		case "name_prefix":
			s, _ := val.(string)
			t.NamePrefix = canonicalPrefix(s)
		case "athlete_name":
			s, _ := val.(string)
			t.AthleteName = s
		case "race_day":
			s := fmt.Sprintf("%v", val)
			day, err := time.Parse("2006-01-02", s)
			if err != nil {
				return nil, &ValidationError{Field: "race_day", Message: fmt.Sprintf("bad date %q", s)}
			}
			t.RaceDay = day
		case "preferred_days":
			days, err := intSlice(val)
			if err != nil {
				return nil, &ValidationError{Field: "preferred_days", Message: err.Error()}
			}
			t.PreferredDays = days
		default:
			t.Extra[key] = val
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Training) loadMargins(val any) error {
	m, err := stringMap("margins", val)
	if err != nil {
		return err
	}
	for k, v := range m {
		switch k {
		case "faster", "slower":
			// Margins are literal offsets; the legacy 0:NN pace repair
			// must not apply here ("0:03" is three seconds).
			d, err := units.ParseDuration(v)
			if err != nil {
				return &ValidationError{Field: "margins." + k, Message: err.Error()}
			}
			if k == "faster" {
				t.Margins.Faster = d
			} else {
				t.Margins.Slower = d
			}
		case "hr_up", "hr_down", "power_up", "power_down":
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
				return &ValidationError{Field: "margins." + k, Message: fmt.Sprintf("bad integer %q", v)}
			}
			switch k {
			case "hr_up":
				t.Margins.HRUp = n
			case "hr_down":
				t.Margins.HRDown = n
			case "power_up":
				t.Margins.PowerUp = n
			case "power_down":
				t.Margins.PowerDn = n
			}
		default:
			return &ValidationError{Field: "margins." + k, Message: "unknown margin"}
		}
	}
	return nil
}

// Validate checks the cross-field invariants. Unknown zone names are not an
// error here; they fail later at resolution time.
func (t *Training) Validate() error {
	if len(t.PowerValues) > 0 {
		if _, ok := t.PowerValues["ftp"]; !ok && referencesPercent(t.PowerValues) {
			return &ValidationError{Field: "power_values.ftp", Message: "ftp required for percentage zones"}
		}
	}
	if len(t.HeartRates) > 0 {
		if _, ok := t.HeartRates["max_hr"]; !ok && referencesMaxHR(t.HeartRates) {
			return &ValidationError{Field: "heart_rates.max_hr", Message: "max_hr required for percentage zones"}
		}
	}
	seen := map[int]bool{}
	for i, d := range t.PreferredDays {
		if d < 0 || d > 6 {
			return &ValidationError{
				Field:   fmt.Sprintf("preferred_days[%d]", i),
				Message: fmt.Sprintf("weekday %d out of range 0..6", d),
			}
		}
		if seen[d] {
			return &ValidationError{
				Field:   fmt.Sprintf("preferred_days[%d]", i),
				Message: fmt.Sprintf("duplicate weekday %d", d),
			}
		}
		seen[d] = true
	}
	return nil
}

// SortedPreferredDays returns the preferred weekdays in ascending order.
func (t *Training) SortedPreferredDays() []int {
	out := append([]int(nil), t.PreferredDays...)
	sort.Ints(out)
	return out
}

// PrefixName prepends the configured name prefix unless already present.
func (t *Training) PrefixName(name string) string {
	if t.NamePrefix == "" || strings.HasPrefix(name, t.NamePrefix) {
		return name
	}
	return t.NamePrefix + name
}

// canonicalPrefix forces exactly one trailing space on a non-empty prefix.
func canonicalPrefix(s string) string {
	s = strings.TrimRight(s, " ")
	if s == "" {
		return ""
	}
	return s + " "
}

func normalizePaceValue(v string) string {
	if i := strings.Index(v, "-"); i > 0 && strings.Contains(v[i+1:], ":") {
		return units.NormalizePace(v[:i]) + "-" + units.NormalizePace(v[i+1:])
	}
	return units.NormalizePace(v)
}

func referencesPercent(m map[string]string) bool {
	for _, v := range m {
		if strings.Contains(v, "%") {
			return true
		}
	}
	return false
}

func referencesMaxHR(m map[string]string) bool {
	for _, v := range m {
		if strings.Contains(v, "%") {
			return true
		}
	}
	return false
}

func stringMap(field string, val any) (map[string]string, error) {
	out := map[string]string{}
	switch m := val.(type) {
	case map[string]any:
		for k, v := range m {
			out[k] = fmt.Sprintf("%v", v)
		}
	case map[any]any:
		for k, v := range m {
			out[fmt.Sprintf("%v", k)] = fmt.Sprintf("%v", v)
		}
	default:
		return nil, &ValidationError{Field: field, Message: fmt.Sprintf("expected mapping, got %T", val)}
	}
	return out, nil
}

func intSlice(val any) ([]int, error) {
	items, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("expected sequence, got %T", val)
	}
	out := make([]int, 0, len(items))
	for _, it := range items {
		switch n := it.(type) {
		case int:
			out = append(out, n)
		case float64:
			out = append(out, int(n))
		default:
			return nil, fmt.Errorf("expected integer, got %T", it)
		}
	}
	return out, nil
}

// ToMap renders the training configuration back into a plain mapping, the
// inverse of LoadTraining. Extra keys are carried through.
func (t *Training) ToMap() map[string]any {
	out := map[string]any{}
	if len(t.Paces) > 0 {
		out["paces"] = copyStringMap(t.Paces)
	}
	if len(t.SwimPaces) > 0 {
		out["swim_paces"] = copyStringMap(t.SwimPaces)
	}
	if len(t.PowerValues) > 0 {
		out["power_values"] = copyStringMap(t.PowerValues)
	}
	if len(t.HeartRates) > 0 {
		out["heart_rates"] = copyStringMap(t.HeartRates)
	}
	if t.Margins != (Margins{}) {
		out["margins"] = map[string]any{
			"faster":     t.Margins.Faster.Format(),
			"slower":     t.Margins.Slower.Format(),
			"hr_up":      fmt.Sprintf("%d", t.Margins.HRUp),
			"hr_down":    fmt.Sprintf("%d", t.Margins.HRDown),
			"power_up":   fmt.Sprintf("%d", t.Margins.PowerUp),
			"power_down": fmt.Sprintf("%d", t.Margins.PowerDn),
		}
	}
	if t.NamePrefix != "" {
		out["name_prefix"] = t.NamePrefix
	}
	if t.AthleteName != "" {
		out["athlete_name"] = t.AthleteName
	}
	if !t.RaceDay.IsZero() {
		out["race_day"] = t.RaceDay.Format("2006-01-02")
	}
	if len(t.PreferredDays) > 0 {
		days := make([]any, len(t.PreferredDays))
		for i, d := range t.PreferredDays {
			days[i] = d
		}
		out["preferred_days"] = days
	}
	for k, v := range t.Extra {
		out[k] = v
	}
	return out
}

func copyStringMap(m map[string]string) map[string]any {
	out := map[string]any{}
	for k, v := range m {
		out[k] = v
	}
	return out
}
