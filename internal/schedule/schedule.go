// ABOUTME: Assigns calendar dates to W{nn}S{nn} plan workouts.
// ABOUTME: Works backwards from race day over the preferred weekdays.
package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/trainer/internal/plan"
)

var sessionPattern = regexp.MustCompile(`^W(\d{2})S(\d{2})\b`)

// Options tune how the plan maps onto the calendar.
type Options struct {
	// ReverseOrder treats W01 as the week nearest the race instead of the
	// first training week.
	ReverseOrder bool
}

type session struct {
	name    string
	week    int
	session int
}

// Assign maps every W{nn}S{nn} workout name to a date such that the final
// session lands on or before raceDate. Names that do not match the pattern
// are ignored. preferredDays are weekday indices, 0=Monday through 6=Sunday.
func Assign(names []string, raceDate time.Time, preferredDays []int, opts Options) (map[string]time.Time, error) {
	if len(preferredDays) == 0 {
		return nil, fmt.Errorf("no preferred days configured")
	}
	days := append([]int(nil), preferredDays...)
	sort.Ints(days)
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("preferred day %d out of range 0..6", d)
		}
	}

	sessions := matchSessions(names)
	if len(sessions) == 0 {
		return map[string]time.Time{}, nil
	}
	sortSessions(sessions, opts.ReverseOrder)

	n := len(sessions)
	d := len(days)

	// Sessions that still fit into the race week itself, up to and
	// including race day.
	raceWeekday := mondayWeekday(raceDate)
	available := 0
	for _, day := range days {
		if day <= raceWeekday {
			available++
		}
	}

	weeks := ceilDiv(n-available, d) + 1
	raceMonday := startOfWeek(raceDate)
	startMonday := raceMonday.AddDate(0, 0, -7*(weeks-1))

	out := make(map[string]time.Time, n)
	for i, s := range sessions {
		date := startMonday.AddDate(0, 0, 7*(i/d)+days[i%d])
		if date.After(raceDate) {
			log.Warnf("workout %s would fall on %s, after race day; skipping", s.name, date.Format("2006-01-02"))
			continue
		}
		out[s.name] = date
	}
	return out, nil
}

// Apply writes the assigned dates onto the plan's workouts, replacing any
// previous date. Workouts without an assignment are left untouched.
func Apply(p *plan.Plan, dates map[string]time.Time) int {
	applied := 0
	for _, w := range p.Workouts {
		if date, ok := dates[w.Name]; ok {
			d := date
			w.Date = &d
			applied++
		}
	}
	return applied
}

func matchSessions(names []string) []session {
	var out []session
	for _, name := range names {
		m := sessionPattern.FindStringSubmatch(name)
		if m == nil {
			log.Debugf("name %q does not follow WnnSnn, not scheduling", name)
			continue
		}
		out = append(out, session{name: name, week: atoi(m[1]), session: atoi(m[2])})
	}
	return out
}

func sortSessions(sessions []session, reverse bool) {
	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.week != b.week {
			if reverse {
				return a.week > b.week
			}
			return a.week < b.week
		}
		return a.session < b.session
	})
}

// startOfWeek returns the Monday of t's week at midnight.
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -mondayWeekday(day))
}

// mondayWeekday maps time.Weekday (Sunday=0) to the 0=Monday convention.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
