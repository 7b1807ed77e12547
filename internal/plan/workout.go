// ABOUTME: Workout model and sport type enumeration.
// ABOUTME: Workouts are name-keyed locally; remote ids exist only after upload.
package plan

import (
	"fmt"
	"time"
)

// Sport is the workout sport type.
type Sport int

const (
	SportRunning Sport = iota
	SportCycling
	SportSwimming
)

// ID returns the service's numeric sport type id.
func (s Sport) ID() int {
	switch s {
	case SportCycling:
		return 2
	case SportSwimming:
		return 4
	default:
		return 1
	}
}

// Key returns the service's sport type key.
func (s Sport) Key() string {
	switch s {
	case SportCycling:
		return "cycling"
	case SportSwimming:
		return "swimming"
	default:
		return "running"
	}
}

// ParseSport parses a sport type key.
func ParseSport(s string) (Sport, error) {
	switch s {
	case "running":
		return SportRunning, nil
	case "cycling":
		return SportCycling, nil
	case "swimming":
		return SportSwimming, nil
	default:
		return SportRunning, fmt.Errorf("unknown sport type %q", s)
	}
}

// SportFromID maps a service sport type id back to a Sport.
func SportFromID(id int) Sport {
	switch id {
	case 2:
		return SportCycling
	case 4:
		return SportSwimming
	default:
		return SportRunning
	}
}

// Workout is an ordered step sequence plus metadata. Date is the optional
// scheduled date, kept as a metadata pseudo-step in the YAML form.
type Workout struct {
	Name        string
	Description string
	Sport       Sport
	Date        *time.Time
	Steps       []Step
}

// Clone returns a deep copy of the workout.
func (w *Workout) Clone() *Workout {
	out := &Workout{
		Name:        w.Name,
		Description: w.Description,
		Sport:       w.Sport,
	}
	if w.Date != nil {
		d := *w.Date
		out.Date = &d
	}
	out.Steps = cloneSteps(w.Steps)
	return out
}

func cloneSteps(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		switch st := s.(type) {
		case *Leaf:
			c := *st
			out = append(out, &c)
		case *Repeat:
			out = append(out, &Repeat{Iterations: st.Iterations, Steps: cloneSteps(st.Steps)})
		}
	}
	return out
}
