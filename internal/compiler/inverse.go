// ABOUTME: Decompiles service wire JSON back into the local step tree.
// ABOUTME: Targets come back as literal ranges; unknown target types degrade.
package compiler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/units"
)

// Decompile turns a wire workout document back into a local workout. Zone
// names cannot be recovered; targets come back as literal range references.
func Decompile(ww *WireWorkout) (*plan.Workout, error) {
	w := &plan.Workout{
		Name:        ww.WorkoutName,
		Description: ww.Description,
		Sport:       plan.SportFromID(ww.SportType.SportTypeID),
	}
	for _, seg := range ww.WorkoutSegments {
		steps, err := decompileSteps(w.Sport, seg.WorkoutSteps)
		if err != nil {
			return nil, fmt.Errorf("workout %q: %w", ww.WorkoutName, err)
		}
		w.Steps = append(w.Steps, steps...)
	}
	return w, nil
}

func decompileSteps(sport plan.Sport, steps []*WireStep) ([]plan.Step, error) {
	var out []plan.Step
	for _, ws := range steps {
		if ws.Type == TypeRepeatGroup || ws.StepType.StepTypeID == StepTypeRepeat {
			n := ws.NumberOfIterations
			if n == 0 && ws.EndConditionValue != nil {
				n = int(*ws.EndConditionValue)
			}
			if n < 1 {
				n = 1
			}
			children, err := decompileSteps(sport, ws.WorkoutSteps)
			if err != nil {
				return nil, err
			}
			out = append(out, &plan.Repeat{Iterations: n, Steps: children})
			continue
		}

		leaf, err := decompileLeaf(sport, ws)
		if err != nil {
			return nil, err
		}
		out = append(out, leaf)
	}
	return out, nil
}

func decompileLeaf(sport plan.Sport, ws *WireStep) (*plan.Leaf, error) {
	kind, ok := kindByStepType[ws.StepType.StepTypeID]
	if !ok {
		kind = plan.KindOther
	}
	leaf := &plan.Leaf{Kind: kind, Description: ws.Description}

	condID := CondLapButton
	if ws.EndCondition != nil {
		condID = ws.EndCondition.ConditionTypeID
	}
	switch condID {
	case CondTime:
		if ws.EndConditionValue == nil {
			return nil, fmt.Errorf("time step without endConditionValue")
		}
		leaf.End = plan.EndCondition{Type: plan.EndTime, Value: int(*ws.EndConditionValue)}
	case CondDistance:
		if ws.EndConditionValue == nil {
			return nil, fmt.Errorf("distance step without endConditionValue")
		}
		km := ws.PreferredEndConditionUnit != nil && ws.PreferredEndConditionUnit.UnitKey == "kilometer"
		leaf.End = plan.EndCondition{Type: plan.EndDistance, Value: int(*ws.EndConditionValue), Kilometers: km}
	default:
		leaf.End = plan.EndCondition{Type: plan.EndLapButton}
	}

	leaf.Target = decompileTarget(sport, ws)
	return leaf, nil
}

func decompileTarget(sport plan.Sport, ws *WireStep) plan.TargetSpec {
	if ws.TargetType == nil || ws.TargetValueOne == nil || ws.TargetValueTwo == nil {
		return plan.TargetSpec{}
	}
	one, two := *ws.TargetValueOne, *ws.TargetValueTwo

	switch ws.TargetType.WorkoutTargetTypeID {
	case TargetPace:
		return plan.TargetSpec{Class: plan.TargetAuto, Ref: speedRangeToPaceRef(sport, one, two)}
	case TargetSpeed:
		// legacy speed zones come back as a km/h range
		lo := math.Min(one, two) * 3.6
		hi := math.Max(one, two) * 3.6
		return plan.TargetSpec{Class: plan.TargetSpeed, Ref: trimFloat(lo) + "-" + trimFloat(hi)}
	case TargetHeartRate:
		spec := plan.TargetSpec{Class: plan.TargetHR, Ref: intRangeRef(one, two)}
		if ws.ZoneNumber != nil && *ws.ZoneNumber > 0 {
			spec.Ref = fmt.Sprintf("Z%d_HR", *ws.ZoneNumber)
		}
		return spec
	case TargetPower:
		return plan.TargetSpec{Class: plan.TargetPower, Ref: intRangeRef(one, two)}
	default:
		// unknown target types degrade to no target
		return plan.TargetSpec{}
	}
}

// speedRangeToPaceRef renders a m/s range as a pace range literal, slow side
// first, using the sport's pace base.
func speedRangeToPaceRef(sport plan.Sport, one, two float64) string {
	toPace := units.SpeedToPace
	if sport == plan.SportSwimming {
		toPace = units.SpeedToSwimPace
	}
	a, errA := toPace(one)
	b, errB := toPace(two)
	if errA != nil || errB != nil {
		return ""
	}
	if a == b {
		return a.Format()
	}
	if a < b {
		a, b = b, a
	}
	return a.Format() + "-" + b.Format()
}

func intRangeRef(one, two float64) string {
	lo, hi := int(math.Round(one)), int(math.Round(two))
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return strconv.Itoa(lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
