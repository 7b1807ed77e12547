// ABOUTME: Dry-run decorator for the remote service.
// ABOUTME: Prints intended mutations with their wire JSON, performs none.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/harperreed/trainer/internal/compiler"
	"github.com/harperreed/trainer/internal/garmin"
)

var dryRunLabel = color.New(color.FgYellow).SprintFunc()

// dryService reads from the real service but only prints mutations.
type dryService struct {
	real *garmin.Service
}

func (d *dryService) announce(op string, ww *compiler.WireWorkout) {
	fmt.Printf("%s %s\n", dryRunLabel("[dry-run]"), op)
	if ww == nil {
		return
	}
	data, err := json.MarshalIndent(ww, "", "  ")
	if err != nil {
		return
	}
	fmt.Println(string(data))
}

func (d *dryService) ListWorkouts(ctx context.Context) ([]garmin.WorkoutSummary, error) {
	return d.real.ListWorkouts(ctx)
}

func (d *dryService) GetWorkout(ctx context.Context, id int64) (*compiler.WireWorkout, error) {
	return d.real.GetWorkout(ctx, id)
}

func (d *dryService) AddWorkout(ctx context.Context, ww *compiler.WireWorkout) (int64, error) {
	d.announce(fmt.Sprintf("add workout %q", ww.WorkoutName), ww)
	return -1, nil
}

func (d *dryService) UpdateWorkout(ctx context.Context, id int64, ww *compiler.WireWorkout) error {
	d.announce(fmt.Sprintf("update workout %d %q", id, ww.WorkoutName), ww)
	return nil
}

func (d *dryService) DeleteWorkout(ctx context.Context, id int64) error {
	d.announce(fmt.Sprintf("delete workout %d", id), nil)
	return nil
}

func (d *dryService) ScheduleWorkout(ctx context.Context, id int64, date time.Time) (int64, error) {
	d.announce(fmt.Sprintf("schedule workout %d on %s", id, date.Format("2006-01-02")), nil)
	return -1, nil
}

func (d *dryService) UnscheduleWorkout(ctx context.Context, scheduleID int64) error {
	d.announce(fmt.Sprintf("unschedule calendar entry %d", scheduleID), nil)
	return nil
}

func (d *dryService) GetCalendar(ctx context.Context, year, month int) (*garmin.CalendarMonth, error) {
	return d.real.GetCalendar(ctx, year, month)
}
