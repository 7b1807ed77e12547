// ABOUTME: Tests for workout compilation into wire JSON.
// ABOUTME: Covers step numbering, repeat groups, targets and enum ids.
package compiler

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/plan"
)

func testConfig(t *testing.T) *config.Training {
	t.Helper()
	cfg, err := config.LoadTraining(map[string]any{
		"paces": map[string]any{"Z4": "4:30"},
		"heart_rates": map[string]any{
			"max_hr": "180",
			"Z1_HR":  "60-70% max_hr",
		},
		"margins": map[string]any{"faster": "0:03", "slower": "0:03"},
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func intervalWorkout(t *testing.T) *plan.Workout {
	t.Helper()
	steps, err := plan.ParseStepList([]any{
		map[string]any{"warmup": "10min @Z1_HR"},
		map[string]any{"repeat": 4, "steps": []any{
			map[string]any{"interval": "1km @Z4"},
			map[string]any{"recovery": "2min @Z1_HR"},
		}},
		map[string]any{"cooldown": "5min @Z1_HR"},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return &plan.Workout{Name: "W01S01 Intervals", Sport: plan.SportRunning, Steps: steps}
}

func TestCompileSimpleIntervalWorkout(t *testing.T) {
	ww, err := Compile(intervalWorkout(t), testConfig(t), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if ww.SportType.SportTypeID != 1 || ww.SportType.SportTypeKey != "running" {
		t.Errorf("sportType = %+v", ww.SportType)
	}
	if len(ww.WorkoutSegments) != 1 || ww.WorkoutSegments[0].SegmentOrder != 1 {
		t.Fatalf("segments = %+v", ww.WorkoutSegments)
	}
	top := ww.WorkoutSegments[0].WorkoutSteps
	if len(top) != 3 {
		t.Fatalf("got %d top-level steps", len(top))
	}

	warmup := top[0]
	if warmup.Type != TypeExecutableStep || warmup.StepType.StepTypeID != StepTypeWarmup {
		t.Errorf("warmup = %+v", warmup)
	}
	if warmup.StepOrder != 1 || warmup.ChildStepID != nil {
		t.Errorf("warmup numbering = order %d child %v", warmup.StepOrder, warmup.ChildStepID)
	}
	if warmup.EndCondition.ConditionTypeID != CondTime || *warmup.EndConditionValue != 600 {
		t.Errorf("warmup end = %+v %v", warmup.EndCondition, warmup.EndConditionValue)
	}
	if warmup.TargetType.WorkoutTargetTypeID != TargetHeartRate {
		t.Errorf("warmup target = %+v", warmup.TargetType)
	}

	rep := top[1]
	if rep.Type != TypeRepeatGroup || rep.StepType.StepTypeID != StepTypeRepeat {
		t.Errorf("repeat = %+v", rep)
	}
	if rep.NumberOfIterations != 4 || !rep.SmartRepeat {
		t.Errorf("repeat iterations = %+v", rep)
	}
	if rep.EndCondition.ConditionTypeID != CondIterations || *rep.EndConditionValue != 4 {
		t.Errorf("repeat end = %+v", rep.EndCondition)
	}
	if rep.StepOrder != 2 {
		t.Errorf("repeat stepOrder = %d", rep.StepOrder)
	}
	if len(rep.WorkoutSteps) != 2 {
		t.Fatalf("repeat children = %d", len(rep.WorkoutSteps))
	}

	interval := rep.WorkoutSteps[0]
	if interval.StepOrder != 3 || interval.ChildStepID == nil || *interval.ChildStepID != 1 {
		t.Errorf("interval numbering = order %d child %v", interval.StepOrder, interval.ChildStepID)
	}
	if interval.EndCondition.ConditionTypeID != CondDistance || *interval.EndConditionValue != 1000 {
		t.Errorf("interval end = %+v %v", interval.EndCondition, interval.EndConditionValue)
	}
	if interval.PreferredEndConditionUnit == nil || interval.PreferredEndConditionUnit.UnitKey != "kilometer" {
		t.Errorf("interval unit = %+v", interval.PreferredEndConditionUnit)
	}
	if interval.TargetType.WorkoutTargetTypeID != TargetPace {
		t.Errorf("interval target = %+v", interval.TargetType)
	}
	wantFrom, wantTo := 1000.0/273.0, 1000.0/267.0
	if math.Abs(*interval.TargetValueOne-wantFrom) > 1e-9 || math.Abs(*interval.TargetValueTwo-wantTo) > 1e-9 {
		t.Errorf("interval pace = %v..%v, want %v..%v", *interval.TargetValueOne, *interval.TargetValueTwo, wantFrom, wantTo)
	}

	recovery := rep.WorkoutSteps[1]
	if recovery.StepOrder != 4 || recovery.ChildStepID == nil || *recovery.ChildStepID != 1 {
		t.Errorf("recovery numbering = order %d child %v", recovery.StepOrder, recovery.ChildStepID)
	}

	cooldown := top[2]
	if cooldown.StepOrder != 5 || cooldown.ChildStepID != nil {
		t.Errorf("cooldown numbering = order %d child %v", cooldown.StepOrder, cooldown.ChildStepID)
	}
}

func TestCompileLapButtonValueIsNull(t *testing.T) {
	steps, err := plan.ParseStepList([]any{map[string]any{"rest": "lap-button"}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ww, err := Compile(&plan.Workout{Name: "Rest", Steps: steps}, testConfig(t), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	data, err := json.Marshal(ww.WorkoutSegments[0].WorkoutSteps[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"endConditionValue":null`) {
		t.Errorf("lap button endConditionValue must serialise as null: %s", data)
	}
}

func TestCompileDistinctRepeatGroups(t *testing.T) {
	steps, err := plan.ParseStepList([]any{
		map[string]any{"repeat": 2, "steps": []any{
			map[string]any{"interval": "1km @Z4"},
			map[string]any{"repeat": 3, "steps": []any{
				map[string]any{"rest": "30s"},
			}},
		}},
		map[string]any{"repeat": 2, "steps": []any{
			map[string]any{"interval": "400m @Z4"},
		}},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ww, err := Compile(&plan.Workout{Name: "Nested", Steps: steps}, testConfig(t), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	top := ww.WorkoutSegments[0].WorkoutSteps
	first, second := top[0], top[1]

	if first.ChildStepID != nil {
		t.Errorf("top-level repeat should have null childStepId")
	}
	if *first.WorkoutSteps[0].ChildStepID != 1 {
		t.Errorf("first group children childStepId = %v", first.WorkoutSteps[0].ChildStepID)
	}
	inner := first.WorkoutSteps[1]
	if inner.ChildStepID == nil || *inner.ChildStepID != 1 {
		t.Errorf("nested repeat inherits parent group, got %v", inner.ChildStepID)
	}
	if *inner.WorkoutSteps[0].ChildStepID != 2 {
		t.Errorf("nested group id = %v, want 2", inner.WorkoutSteps[0].ChildStepID)
	}
	if *second.WorkoutSteps[0].ChildStepID != 3 {
		t.Errorf("second top-level group id = %v, want 3", second.WorkoutSteps[0].ChildStepID)
	}

	// stepOrder strictly increases across the whole workout
	var orders []int
	var walk func(steps []*WireStep)
	walk = func(steps []*WireStep) {
		for _, s := range steps {
			orders = append(orders, s.StepOrder)
			walk(s.WorkoutSteps)
		}
	}
	walk(top)
	for i := 1; i < len(orders); i++ {
		if orders[i] <= orders[i-1] {
			t.Errorf("stepOrder not strictly increasing: %v", orders)
			break
		}
	}
}

func TestCompileUnknownZoneFails(t *testing.T) {
	steps, _ := plan.ParseStepList([]any{map[string]any{"interval": "1km @Z9"}})
	_, err := Compile(&plan.Workout{Name: "Bad", Steps: steps}, testConfig(t), Options{})
	if err == nil {
		t.Fatal("expected unknown zone error")
	}
	if !strings.Contains(err.Error(), "Z9") {
		t.Errorf("error should name the zone: %v", err)
	}
}
