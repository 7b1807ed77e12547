// ABOUTME: Randomised fartlek workout generator.
// ABOUTME: Alternates hard and easy segments around a target pace.
package fartlek

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/units"
)

// Segment duration bounds, in seconds. Values are multiples of 10 so the
// generated plan reads naturally on a watch.
const (
	minHard = 30
	maxHard = 120
	minEasy = 60
	maxEasy = 180

	warmupShare   = 0.2
	cooldownShare = 0.15
)

// Pace offsets applied to the target, in seconds per km.
const (
	hardFaster = 15
	easySlower = 45
	paceMargin = 5
)

// Params describe the fartlek to generate.
type Params struct {
	// Total is the overall workout duration including warmup and cooldown.
	Total units.Duration
	// TargetPace is the reference pace in seconds per km.
	TargetPace units.Duration
	// Date optionally schedules the generated workout.
	Date *time.Time
}

// Generate builds a fartlek workout. The same rng seed yields the same
// workout, so runs are reproducible when the caller seeds explicitly.
func Generate(p Params, rng *rand.Rand) (*plan.Workout, error) {
	if p.Total < 10*60 {
		return nil, fmt.Errorf("fartlek needs at least 10 minutes, got %s", p.Total.Format())
	}
	if p.TargetPace < 120 || p.TargetPace > 900 {
		return nil, fmt.Errorf("target pace %s out of plausible range 2:00..15:00", p.TargetPace.Format())
	}

	warmup := roundTen(int(float64(p.Total.Seconds()) * warmupShare))
	cooldown := roundTen(int(float64(p.Total.Seconds()) * cooldownShare))
	body := p.Total.Seconds() - warmup - cooldown

	hardPace := p.TargetPace - hardFaster
	easyPace := p.TargetPace + easySlower

	steps := []plan.Step{
		&plan.Leaf{
			Kind: plan.KindWarmup,
			End:  plan.EndCondition{Type: plan.EndTime, Value: warmup},
		},
	}

	remaining := body
	hard := true
	for remaining > 0 {
		lo, hi := minEasy, maxEasy
		kind := plan.KindRecovery
		pace := easyPace
		if hard {
			lo, hi = minHard, maxHard
			kind = plan.KindInterval
			pace = hardPace
		}
		seconds := lo + 10*rng.Intn((hi-lo)/10+1)
		if seconds > remaining {
			seconds = remaining
		}
		// Fold a trailing sliver into the previous segment instead of
		// emitting an unrunnable stub.
		if rest := remaining - seconds; rest > 0 && rest < minHard {
			seconds = remaining
		}

		steps = append(steps, &plan.Leaf{
			Kind:   kind,
			End:    plan.EndCondition{Type: plan.EndTime, Value: seconds},
			Target: plan.TargetSpec{Class: plan.TargetAuto, Ref: paceRange(pace)},
		})
		remaining -= seconds
		hard = !hard
	}

	steps = append(steps, &plan.Leaf{
		Kind: plan.KindCooldown,
		End:  plan.EndCondition{Type: plan.EndTime, Value: cooldown},
	})

	name := fmt.Sprintf("Fartlek %s @%s", p.Total.Format(), p.TargetPace.Format())
	w := &plan.Workout{
		Name:  name,
		Sport: plan.SportRunning,
		Steps: steps,
	}
	if p.Date != nil {
		d := *p.Date
		w.Date = &d
	}
	return w, nil
}

// paceRange renders a symmetric literal pace range around a pace, slow bound
// first as the resolver expects.
func paceRange(pace units.Duration) string {
	return fmt.Sprintf("%s-%s", (pace + paceMargin).Format(), (pace - paceMargin).Format())
}

func roundTen(n int) int {
	return (n + 5) / 10 * 10
}
