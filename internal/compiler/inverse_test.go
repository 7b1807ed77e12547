// ABOUTME: Tests for wire JSON decompilation.
// ABOUTME: Includes the compile/decompile round-trip property.
package compiler

import (
	"testing"

	"github.com/harperreed/trainer/internal/plan"
)

func TestDecompileRoundTrip(t *testing.T) {
	// authored with literal ranges so the inverse is exact
	steps, err := plan.ParseStepList([]any{
		map[string]any{"warmup": "10min @hr 120-140"},
		map[string]any{"repeat": 4, "steps": []any{
			map[string]any{"interval": "1km @4:33-4:27"},
			map[string]any{"recovery": "2min"},
		}},
		map[string]any{"cooldown": "5min -- easy spin"},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	w := &plan.Workout{Name: "Round Trip", Sport: plan.SportRunning, Steps: steps}

	ww, err := Compile(w, testConfig(t), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	back, err := Decompile(ww)
	if err != nil {
		t.Fatalf("Decompile: %v", err)
	}

	if back.Name != w.Name || back.Sport != w.Sport {
		t.Errorf("metadata mismatch: %+v", back)
	}
	if got, want := plan.FormatText(back.Steps), plan.FormatText(w.Steps); got != want {
		t.Errorf("step tree mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDecompilePreservesZoneNumber(t *testing.T) {
	steps, err := plan.ParseStepList([]any{
		map[string]any{"interval": "5min @hr Z1_HR"},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ww, err := Compile(&plan.Workout{Name: "Zoned", Steps: steps}, testConfig(t), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	back, err := Decompile(ww)
	if err != nil {
		t.Fatalf("Decompile: %v", err)
	}
	leaf := back.Steps[0].(*plan.Leaf)
	if leaf.Target.Class != plan.TargetHR || leaf.Target.Ref != "Z1_HR" {
		t.Errorf("target = %+v, want @hr Z1_HR", leaf.Target)
	}
}

func TestDecompileUnknownTargetDegrades(t *testing.T) {
	one, two := 1.0, 2.0
	ww := &WireWorkout{
		SportType:   WireSportType{1, "running"},
		WorkoutName: "Odd",
		WorkoutSegments: []WireSegment{{
			SegmentOrder: 1,
			SportType:    WireSportType{1, "running"},
			WorkoutSteps: []*WireStep{{
				Type:           TypeExecutableStep,
				StepOrder:      1,
				StepType:       WireStepType{StepTypeInterval, "interval"},
				EndCondition:   &WireEndCondition{CondLapButton, "lap.button"},
				TargetType:     &WireTargetType{TargetCadence, "cadence.zone"},
				TargetValueOne: &one,
				TargetValueTwo: &two,
			}},
		}},
	}
	back, err := Decompile(ww)
	if err != nil {
		t.Fatalf("Decompile: %v", err)
	}
	leaf := back.Steps[0].(*plan.Leaf)
	if !leaf.Target.IsZero() {
		t.Errorf("cadence target should degrade to none, got %+v", leaf.Target)
	}
}

func TestDecompileSpeedZone(t *testing.T) {
	one, two := 30.0 / 3.6, 35.0 / 3.6
	val := 600.0
	ww := &WireWorkout{
		SportType:   WireSportType{2, "cycling"},
		WorkoutName: "Speedy",
		WorkoutSegments: []WireSegment{{
			SegmentOrder: 1,
			SportType:    WireSportType{2, "cycling"},
			WorkoutSteps: []*WireStep{{
				Type:              TypeExecutableStep,
				StepOrder:         1,
				StepType:          WireStepType{StepTypeInterval, "interval"},
				EndCondition:      &WireEndCondition{CondTime, "time"},
				EndConditionValue: &val,
				TargetType:        &WireTargetType{TargetSpeed, "speed.zone"},
				TargetValueOne:    &one,
				TargetValueTwo:    &two,
			}},
		}},
	}
	back, err := Decompile(ww)
	if err != nil {
		t.Fatalf("Decompile: %v", err)
	}
	leaf := back.Steps[0].(*plan.Leaf)
	if leaf.Target.Class != plan.TargetSpeed || leaf.Target.Ref != "30-35" {
		t.Errorf("target = %+v, want @spd 30-35", leaf.Target)
	}
}
