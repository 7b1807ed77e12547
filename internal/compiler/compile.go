// ABOUTME: Compiles a parsed workout plus configuration into wire JSON.
// ABOUTME: Resolves zones, numbers steps and assigns repeat group ids.
package compiler

import (
	"fmt"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/zones"
)

// Options control a compilation pass.
type Options struct {
	// Treadmill converts distance-ended pace-targeted steps to time-ended.
	Treadmill bool
}

// Compile turns a workout and a configuration snapshot into the wire format.
// The configuration is read-only; the workout is not modified.
func Compile(w *plan.Workout, cfg *config.Training, opts Options) (*WireWorkout, error) {
	src := w
	if opts.Treadmill {
		src = w.Clone()
		if err := ApplyTreadmill(src, cfg); err != nil {
			return nil, err
		}
	}

	c := &compilation{sport: src.Sport, cfg: cfg}
	steps, err := c.compileSteps(src.Steps, nil)
	if err != nil {
		return nil, fmt.Errorf("workout %q: %w", w.Name, err)
	}

	st := sportType(src.Sport)
	return &WireWorkout{
		SportType:   st,
		WorkoutName: src.Name,
		Description: src.Description,
		WorkoutSegments: []WireSegment{{
			SegmentOrder: 1,
			SportType:    st,
			WorkoutSteps: steps,
		}},
	}, nil
}

type compilation struct {
	sport     plan.Sport
	cfg       *config.Training
	stepOrder int
	groupID   int
}

// compileSteps walks one level of the tree. group is the childStepId for
// steps at this level: nil at the top, the enclosing repeat's id below.
func (c *compilation) compileSteps(steps []plan.Step, group *int) ([]*WireStep, error) {
	var out []*WireStep
	for _, s := range steps {
		switch st := s.(type) {
		case *plan.Leaf:
			ws, err := c.compileLeaf(st, group)
			if err != nil {
				return nil, err
			}
			out = append(out, ws)
		case *plan.Repeat:
			ws, err := c.compileRepeat(st, group)
			if err != nil {
				return nil, err
			}
			out = append(out, ws)
		default:
			return nil, fmt.Errorf("unsupported step %T", s)
		}
	}
	return out, nil
}

func (c *compilation) compileLeaf(leaf *plan.Leaf, group *int) (*WireStep, error) {
	c.stepOrder++
	ws := &WireStep{
		Type:        TypeExecutableStep,
		StepOrder:   c.stepOrder,
		ChildStepID: group,
		StepType:    stepTypeKeys[leaf.Kind],
		Description: leaf.Description,
	}

	switch leaf.End.Type {
	case plan.EndLapButton:
		ws.EndCondition = &WireEndCondition{CondLapButton, "lap.button"}
		// endConditionValue stays null for lap button
	case plan.EndTime:
		ws.EndCondition = &WireEndCondition{CondTime, "time"}
		ws.EndConditionValue = floatPtr(float64(leaf.End.Value))
	case plan.EndDistance:
		ws.EndCondition = &WireEndCondition{CondDistance, "distance"}
		ws.EndConditionValue = floatPtr(float64(leaf.End.Value))
		if leaf.End.Kilometers {
			ws.PreferredEndConditionUnit = &WireUnit{UnitKey: "kilometer"}
		}
	default:
		return nil, fmt.Errorf("step %q: invalid end condition", leaf.Kind)
	}

	target, err := zones.Resolve(c.sport, leaf.Target, c.cfg)
	if err != nil {
		return nil, err
	}
	applyTarget(ws, target)
	return ws, nil
}

func (c *compilation) compileRepeat(rep *plan.Repeat, group *int) (*WireStep, error) {
	if len(rep.Steps) == 0 {
		return nil, &plan.EmptyRepeatError{}
	}
	if rep.Iterations < 1 {
		return nil, fmt.Errorf("repeat: iterations must be >= 1")
	}

	c.stepOrder++
	order := c.stepOrder
	c.groupID++
	ownGroup := c.groupID

	children, err := c.compileSteps(rep.Steps, &ownGroup)
	if err != nil {
		return nil, err
	}

	return &WireStep{
		Type:               TypeRepeatGroup,
		StepOrder:          order,
		ChildStepID:        group,
		StepType:           WireStepType{StepTypeRepeat, "repeat"},
		EndCondition:       &WireEndCondition{CondIterations, "iterations"},
		EndConditionValue:  floatPtr(float64(rep.Iterations)),
		NumberOfIterations: rep.Iterations,
		SmartRepeat:        true,
		WorkoutSteps:       children,
	}, nil
}

func applyTarget(ws *WireStep, target zones.Target) {
	switch t := target.(type) {
	case zones.PaceZone:
		// legacy @spd targets ride the pace.zone target on the wire too
		ws.TargetType = &WireTargetType{TargetPace, "pace.zone"}
		ws.TargetValueOne = floatPtr(t.FromMS)
		ws.TargetValueTwo = floatPtr(t.ToMS)
	case zones.HeartRateZone:
		ws.TargetType = &WireTargetType{TargetHeartRate, "heart.rate.zone"}
		ws.TargetValueOne = floatPtr(float64(t.From))
		ws.TargetValueTwo = floatPtr(float64(t.To))
		if t.Zone > 0 {
			ws.ZoneNumber = intPtr(t.Zone)
		}
	case zones.PowerZone:
		ws.TargetType = &WireTargetType{TargetPower, "power.zone"}
		ws.TargetValueOne = floatPtr(float64(t.From))
		ws.TargetValueTwo = floatPtr(float64(t.To))
		if t.Zone > 0 {
			ws.ZoneNumber = intPtr(t.Zone)
		}
	default:
		ws.TargetType = &WireTargetType{TargetNoTarget, "no.target"}
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
