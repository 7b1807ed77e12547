// ABOUTME: Wire JSON DTOs for the service's workout format.
// ABOUTME: Field names and enum ids must match the service bit-exactly.
package compiler

import "github.com/harperreed/trainer/internal/plan"

// Wire discriminators.
const (
	TypeExecutableStep = "ExecutableStepDTO"
	TypeRepeatGroup    = "RepeatGroupDTO"
)

// Step type ids.
const (
	StepTypeWarmup   = 1
	StepTypeCooldown = 2
	StepTypeInterval = 3
	StepTypeRecovery = 4
	StepTypeRest     = 5
	StepTypeRepeat   = 6
	StepTypeOther    = 7
)

// End condition ids.
const (
	CondLapButton  = 1
	CondTime       = 2
	CondDistance   = 3
	CondIterations = 7
)

// Target type ids.
const (
	TargetNoTarget  = 1
	TargetPower     = 2
	TargetCadence   = 3
	TargetHeartRate = 4
	TargetSpeed     = 5
	TargetPace      = 6
)

// WireSportType is the sport type enum pair.
type WireSportType struct {
	SportTypeID  int    `json:"sportTypeId"`
	SportTypeKey string `json:"sportTypeKey"`
}

// WireStepType is the step type enum pair.
type WireStepType struct {
	StepTypeID  int    `json:"stepTypeId"`
	StepTypeKey string `json:"stepTypeKey"`
}

// WireEndCondition is the end condition enum pair.
type WireEndCondition struct {
	ConditionTypeID  int    `json:"conditionTypeId"`
	ConditionTypeKey string `json:"conditionTypeKey"`
}

// WireTargetType is the target type enum pair.
type WireTargetType struct {
	WorkoutTargetTypeID  int    `json:"workoutTargetTypeId"`
	WorkoutTargetTypeKey string `json:"workoutTargetTypeKey"`
}

// WireUnit is the preferred end condition unit wrapper.
type WireUnit struct {
	UnitKey string `json:"unitKey"`
}

// WireStep is one workout step on the wire. Executable steps and repeat
// groups share the struct; Type discriminates.
type WireStep struct {
	Type                      string            `json:"type"`
	StepID                    *int64            `json:"stepId"`
	StepOrder                 int               `json:"stepOrder"`
	ChildStepID               *int              `json:"childStepId"`
	StepType                  WireStepType      `json:"stepType"`
	EndCondition              *WireEndCondition `json:"endCondition,omitempty"`
	EndConditionValue         *float64          `json:"endConditionValue"`
	PreferredEndConditionUnit *WireUnit         `json:"preferredEndConditionUnit"`
	TargetType                *WireTargetType   `json:"targetType,omitempty"`
	TargetValueOne            *float64          `json:"targetValueOne,omitempty"`
	TargetValueTwo            *float64          `json:"targetValueTwo,omitempty"`
	ZoneNumber                *int              `json:"zoneNumber,omitempty"`
	Description               string            `json:"description,omitempty"`
	NumberOfIterations        int               `json:"numberOfIterations,omitempty"`
	SmartRepeat               bool              `json:"smartRepeat,omitempty"`
	WorkoutSteps              []*WireStep       `json:"workoutSteps,omitempty"`
}

// WireSegment is one sport segment; this tool always emits exactly one.
type WireSegment struct {
	SegmentOrder int           `json:"segmentOrder"`
	SportType    WireSportType `json:"sportType"`
	WorkoutSteps []*WireStep   `json:"workoutSteps"`
}

// WireWorkout is the top-level workout document.
type WireWorkout struct {
	WorkoutID       int64         `json:"workoutId,omitempty"`
	SportType       WireSportType `json:"sportType"`
	WorkoutName     string        `json:"workoutName"`
	Description     string        `json:"description,omitempty"`
	WorkoutSegments []WireSegment `json:"workoutSegments"`
}

func sportType(s plan.Sport) WireSportType {
	return WireSportType{SportTypeID: s.ID(), SportTypeKey: s.Key()}
}

var stepTypeKeys = map[plan.StepKind]WireStepType{
	plan.KindWarmup:   {StepTypeWarmup, "warmup"},
	plan.KindCooldown: {StepTypeCooldown, "cooldown"},
	plan.KindInterval: {StepTypeInterval, "interval"},
	plan.KindRecovery: {StepTypeRecovery, "recovery"},
	plan.KindRest:     {StepTypeRest, "rest"},
	plan.KindOther:    {StepTypeOther, "other"},
}

var kindByStepType = map[int]plan.StepKind{
	StepTypeWarmup:   plan.KindWarmup,
	StepTypeCooldown: plan.KindCooldown,
	StepTypeInterval: plan.KindInterval,
	StepTypeRecovery: plan.KindRecovery,
	StepTypeRest:     plan.KindRest,
	StepTypeOther:    plan.KindOther,
}
