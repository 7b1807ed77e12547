// ABOUTME: Step tree model: leaf steps, repeat groups, end conditions, targets.
// ABOUTME: Targets stay symbolic here; the zone resolver produces numeric ranges.
package plan

import (
	"fmt"
	"strings"

	"github.com/harperreed/trainer/internal/units"
)

// StepKind categorises a leaf step.
type StepKind string

const (
	KindWarmup   StepKind = "warmup"
	KindInterval StepKind = "interval"
	KindRecovery StepKind = "recovery"
	KindCooldown StepKind = "cooldown"
	KindRest     StepKind = "rest"
	KindOther    StepKind = "other"
)

var leafKinds = map[StepKind]bool{
	KindWarmup:   true,
	KindInterval: true,
	KindRecovery: true,
	KindCooldown: true,
	KindRest:     true,
	KindOther:    true,
}

// IsLeafKind reports whether s names a valid leaf step kind.
func IsLeafKind(s string) bool { return leafKinds[StepKind(s)] }

// EndType discriminates step end conditions.
type EndType int

const (
	EndLapButton EndType = iota
	EndTime
	EndDistance
	EndIterations
)

// EndCondition terminates a step. Value is seconds for EndTime, metres for
// EndDistance, the iteration count for EndIterations and unused for
// EndLapButton. Kilometers records that a distance was authored in km so the
// wire format can carry the preferred unit.
type EndCondition struct {
	Type       EndType
	Value      int
	Kilometers bool
}

// TargetClass discriminates how a target token should be resolved.
type TargetClass int

const (
	// TargetNone is the zero class: no target authored.
	TargetNone TargetClass = iota
	// TargetAuto is a bare "@ref": pace for running/swimming, power for
	// cycling, heart rate when the name looks like an HR zone.
	TargetAuto
	// TargetHR is "@hr ref".
	TargetHR
	// TargetPower is "@pwr ref".
	TargetPower
	// TargetSpeed is the legacy "@spd ref" cycling speed form.
	TargetSpeed
)

// TargetSpec is a symbolic target token as authored. Ref may be a zone name,
// a pace/range literal or a percentage form; the zone resolver turns it into
// a numeric range against a configuration snapshot.
type TargetSpec struct {
	Class TargetClass
	Ref   string
}

// IsZero reports an absent target.
func (t TargetSpec) IsZero() bool { return t.Class == TargetNone }

func (t TargetSpec) String() string {
	switch t.Class {
	case TargetHR:
		return "@hr " + t.Ref
	case TargetPower:
		return "@pwr " + t.Ref
	case TargetSpeed:
		return "@spd " + t.Ref
	case TargetAuto:
		return "@" + t.Ref
	default:
		return ""
	}
}

// Step is either a *Leaf or a *Repeat.
type Step interface {
	isStep()
}

// Leaf is a single executable step.
type Leaf struct {
	Kind        StepKind
	End         EndCondition
	Target      TargetSpec
	Description string
}

func (*Leaf) isStep() {}

// Repeat iterates its child sequence a fixed number of times. Children may
// themselves contain repeats.
type Repeat struct {
	Iterations int
	Steps      []Step
}

func (*Repeat) isStep() {}

// Spec renders the leaf back into its single-line DSL form.
func (l *Leaf) Spec() string {
	var parts []string
	switch l.End.Type {
	case EndLapButton:
		parts = append(parts, "lap-button")
	case EndTime:
		d := units.Duration(l.End.Value)
		if l.End.Value%60 == 0 && l.End.Value < 3600 {
			parts = append(parts, fmt.Sprintf("%dmin", l.End.Value/60))
		} else {
			parts = append(parts, d.Format())
		}
	case EndDistance:
		if l.End.Kilometers {
			km := float64(l.End.Value) / 1000.0
			parts = append(parts, strings.TrimSuffix(fmt.Sprintf("%g", km), ".0")+"km")
		} else {
			parts = append(parts, fmt.Sprintf("%dm", l.End.Value))
		}
	}
	if !l.Target.IsZero() {
		parts = append(parts, l.Target.String())
	}
	if l.Description != "" {
		parts = append(parts, "--", l.Description)
	}
	return strings.Join(parts, " ")
}
