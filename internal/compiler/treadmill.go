// ABOUTME: Treadmill conversion: distance-ended pace steps become time-ended.
// ABOUTME: Time is metres over mean target speed, rounded to the nearest 10s.
package compiler

import (
	"math"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/zones"
)

// ApplyTreadmill rewrites the workout's step tree in place, replacing the end
// condition of every distance-ended leaf whose target resolves to a positive
// pace range. HR-targeted, untargeted and unresolvable steps are left alone.
func ApplyTreadmill(w *plan.Workout, cfg *config.Training) error {
	treadmillSteps(w.Sport, w.Steps, cfg)
	return nil
}

func treadmillSteps(sport plan.Sport, steps []plan.Step, cfg *config.Training) {
	for _, s := range steps {
		switch st := s.(type) {
		case *plan.Leaf:
			treadmillLeaf(sport, st, cfg)
		case *plan.Repeat:
			treadmillSteps(sport, st.Steps, cfg)
		}
	}
}

func treadmillLeaf(sport plan.Sport, leaf *plan.Leaf, cfg *config.Training) {
	if leaf.End.Type != plan.EndDistance || leaf.Target.IsZero() {
		return
	}
	target, err := zones.Resolve(sport, leaf.Target, cfg)
	if err != nil {
		// still-symbolic or unresolvable target: leave the step unchanged
		return
	}
	pz, ok := target.(zones.PaceZone)
	if !ok || pz.FromMS <= 0 || pz.ToMS <= 0 {
		return
	}
	seconds := TreadmillSeconds(leaf.End.Value, pz.FromMS, pz.ToMS)
	leaf.End = plan.EndCondition{Type: plan.EndTime, Value: seconds}
}

// TreadmillSeconds converts metres at a speed range into seconds rounded to
// the nearest 10.
func TreadmillSeconds(meters int, fromMS, toMS float64) int {
	mean := (fromMS + toMS) / 2
	return int(math.Round(float64(meters)/mean/10)) * 10
}
