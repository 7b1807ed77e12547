// ABOUTME: Tests for the training configuration model.
// ABOUTME: Validates margins, prefixes, legacy normalisation and field paths.
package config

import (
	"errors"
	"testing"
)

func sampleRaw() map[string]any {
	return map[string]any{
		"paces": map[string]any{
			"Z4": "4:30",
			"Z3": "0:06", // legacy encoding of 6:00
		},
		"swim_paces": map[string]any{
			"easy": "2:00",
		},
		"power_values": map[string]any{
			"ftp":       "250",
			"threshold": "95-105%",
		},
		"heart_rates": map[string]any{
			"max_hr": "180",
			"Z3_HR":  "85-91% max_hr",
		},
		"margins": map[string]any{
			"faster":     "0:03",
			"slower":     "0:03",
			"hr_up":      "5",
			"hr_down":    "5",
			"power_up":   "10",
			"power_down": "10",
		},
		"name_prefix":    "PLAN_",
		"athlete_name":   "Test Athlete",
		"race_day":       "2025-06-15",
		"preferred_days": []any{1, 3, 6},
		"custom_section": map[string]any{"kept": true},
	}
}

func TestLoadTraining(t *testing.T) {
	cfg, err := LoadTraining(sampleRaw())
	if err != nil {
		t.Fatalf("LoadTraining: %v", err)
	}

	if cfg.Paces["Z3"] != "6:00" {
		t.Errorf("legacy pace not normalised: %q", cfg.Paces["Z3"])
	}
	if cfg.Margins.Faster.Seconds() != 3 || cfg.Margins.Slower.Seconds() != 3 {
		t.Errorf("margins = %+v", cfg.Margins)
	}
	if cfg.NamePrefix != "PLAN_ " {
		t.Errorf("prefix %q should gain exactly one trailing space", cfg.NamePrefix)
	}
	if cfg.RaceDay.Format("2006-01-02") != "2025-06-15" {
		t.Errorf("race day = %v", cfg.RaceDay)
	}
	if _, ok := cfg.Extra["custom_section"]; !ok {
		t.Error("unknown top-level key should be preserved")
	}
}

func TestPrefixName(t *testing.T) {
	cfg := &Training{NamePrefix: "PLAN_ "}
	if got := cfg.PrefixName("W01S01 Easy"); got != "PLAN_ W01S01 Easy" {
		t.Errorf("PrefixName = %q", got)
	}
	if got := cfg.PrefixName("PLAN_ W01S01 Easy"); got != "PLAN_ W01S01 Easy" {
		t.Errorf("already-prefixed name changed: %q", got)
	}
}

func TestValidatePreferredDays(t *testing.T) {
	raw := sampleRaw()
	raw["preferred_days"] = []any{1, 3, 7}
	_, err := LoadTraining(raw)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "preferred_days[2]" {
		t.Errorf("field path = %q", verr.Field)
	}

	raw["preferred_days"] = []any{1, 1}
	if _, err := LoadTraining(raw); err == nil {
		t.Error("duplicate weekday should fail")
	}
}

func TestValidateRequiresMaxHR(t *testing.T) {
	raw := sampleRaw()
	raw["heart_rates"] = map[string]any{"Z3_HR": "85-91% max_hr"}
	if _, err := LoadTraining(raw); err == nil {
		t.Error("percentage HR zone without max_hr should fail")
	}
}

func TestToMapRoundTrip(t *testing.T) {
	cfg, err := LoadTraining(sampleRaw())
	if err != nil {
		t.Fatalf("LoadTraining: %v", err)
	}
	back, err := LoadTraining(cfg.ToMap())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Paces["Z3"] != "6:00" || back.NamePrefix != cfg.NamePrefix {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if len(back.PreferredDays) != 3 {
		t.Errorf("preferred days lost: %v", back.PreferredDays)
	}
}
