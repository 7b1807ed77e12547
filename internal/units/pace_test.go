// ABOUTME: Tests for pace<->speed conversion and pace range parsing.
// ABOUTME: Includes the inverse round-trip property within one second.
package units

import (
	"math"
	"testing"
)

func TestPaceToSpeed(t *testing.T) {
	got, err := PaceToSpeed("4:30")
	if err != nil {
		t.Fatalf("PaceToSpeed: %v", err)
	}
	want := 1000.0 / 270.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PaceToSpeed(4:30) = %v, want %v", got, want)
	}
}

func TestSwimPaceToSpeed(t *testing.T) {
	got, err := SwimPaceToSpeed("1:40")
	if err != nil {
		t.Fatalf("SwimPaceToSpeed: %v", err)
	}
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("SwimPaceToSpeed(1:40) = %v, want 1.0", got)
	}
}

func TestSpeedToPaceRejectsNonPositive(t *testing.T) {
	if _, err := SpeedToPace(0); err == nil {
		t.Error("SpeedToPace(0) should fail")
	}
	if _, err := SpeedToPace(-1); err == nil {
		t.Error("SpeedToPace(-1) should fail")
	}
}

func TestPaceSpeedRoundTrip(t *testing.T) {
	// Every pace in a sane band survives the double conversion within 1s.
	for secs := 120; secs < 900; secs += 7 {
		p := Pace(secs)
		speed := 1000.0 / float64(p)
		back, err := SpeedToPace(speed)
		if err != nil {
			t.Fatalf("SpeedToPace: %v", err)
		}
		if diff := int(back) - secs; diff < -1 || diff > 1 {
			t.Errorf("round trip %d s/km -> %d s/km", secs, int(back))
		}
	}
}

func TestParsePaceRange(t *testing.T) {
	lo, hi, single, err := ParsePaceRange("4:20-4:40")
	if err != nil {
		t.Fatalf("ParsePaceRange: %v", err)
	}
	if single || lo.Seconds() != 260 || hi.Seconds() != 280 {
		t.Errorf("ParsePaceRange(4:20-4:40) = %d..%d single=%v", lo, hi, single)
	}

	lo, hi, single, err = ParsePaceRange("4:30")
	if err != nil {
		t.Fatalf("ParsePaceRange: %v", err)
	}
	if !single || lo != hi || lo.Seconds() != 270 {
		t.Errorf("ParsePaceRange(4:30) = %d..%d single=%v", lo, hi, single)
	}

	// legacy 0:NN normalisation applies inside range parsing too
	lo, _, _, err = ParsePaceRange("0:06")
	if err != nil {
		t.Fatalf("ParsePaceRange(0:06): %v", err)
	}
	if lo.Seconds() != 360 {
		t.Errorf("ParsePaceRange(0:06) lo = %d, want 360", lo.Seconds())
	}
}

func TestParseDistance(t *testing.T) {
	m, km, err := ParseDistance("1.5km")
	if err != nil || m != 1500 || !km {
		t.Errorf("ParseDistance(1.5km) = %d km=%v err=%v", m, km, err)
	}
	m, km, err = ParseDistance("400m")
	if err != nil || m != 400 || km {
		t.Errorf("ParseDistance(400m) = %d km=%v err=%v", m, km, err)
	}
	if _, _, err := ParseDistance("400"); err == nil {
		t.Error("ParseDistance(400) should fail without suffix")
	}
}
