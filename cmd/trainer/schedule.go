// ABOUTME: CLI command for placing a training plan on the calendar.
// ABOUTME: Assigns dates backwards from race day over the preferred weekdays.
package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/schedule"
)

var (
	scheduleRaceDay      string
	scheduleTrainingPlan string
	scheduleWorkoutsFile string
	scheduleReverseOrder bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Assign calendar dates to a training plan",
	Long: `Assign calendar dates to the remote workouts of a training plan.

Remote workouts whose names contain the training plan identifier and
follow the W01S01 naming convention are placed on the configured
preferred weekdays, working backwards so the final session lands on or
before race day. --reverse-order treats W01 as the week nearest the race.

The preferred weekdays come from the last imported plan configuration.
With --workouts-file the assigned dates are also written back into the
local plan file as date entries.

EXAMPLES:

  trainer schedule --race-day 2025-06-15 --training-plan PLAN_
  trainer schedule --race-day 2025-06-15 --training-plan PLAN_ --reverse-order
  trainer schedule --race-day 2025-06-15 --training-plan PLAN_ --workouts-file plan.yml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raceDay, err := time.Parse("2006-01-02", scheduleRaceDay)
		if err != nil {
			return usagef("bad --race-day %q, want YYYY-MM-DD", scheduleRaceDay)
		}

		cfg, err := appConfig.GetTraining()
		if err != nil {
			return err
		}
		if len(cfg.PreferredDays) == 0 {
			return usagef("no preferred days configured - import a plan with preferred_days first")
		}

		service, err := openRemote()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		remote, err := service.ListWorkouts(ctx)
		if err != nil {
			return err
		}

		// Scheduling works on the bare W{nn}S{nn} names; the plan
		// identifier prefix is stripped for matching.
		idByName := map[string]int64{}
		var names []string
		for _, r := range remote {
			name, ok := planSessionName(r.WorkoutName, scheduleTrainingPlan)
			if !ok {
				continue
			}
			idByName[name] = r.WorkoutID
			names = append(names, name)
		}
		if len(names) == 0 {
			return fmt.Errorf("no remote workouts match training plan %q", scheduleTrainingPlan)
		}

		dates, err := schedule.Assign(names, raceDay, cfg.SortedPreferredDays(), schedule.Options{
			ReverseOrder: scheduleReverseOrder,
		})
		if err != nil {
			return err
		}

		ordered := make([]string, 0, len(dates))
		for name := range dates {
			ordered = append(ordered, name)
		}
		sort.Slice(ordered, func(i, j int) bool { return dates[ordered[i]].Before(dates[ordered[j]]) })

		for _, name := range ordered {
			date := dates[name]
			if _, err := service.ScheduleWorkout(ctx, idByName[name], date); err != nil {
				return err
			}
			fmt.Printf("%s  %s\n", date.Format("2006-01-02"), name)
		}
		color.Green("✓ scheduled %d workouts, race day %s", len(ordered), raceDay.Format("2006-01-02"))

		if scheduleWorkoutsFile != "" && !flagDryRun {
			p, err := loadPlanFile(scheduleWorkoutsFile)
			if err != nil {
				return err
			}
			applied := schedule.Apply(p, dates)
			if err := savePlanFile(scheduleWorkoutsFile, p); err != nil {
				return err
			}
			fmt.Printf("wrote %d dates back to %s\n", applied, scheduleWorkoutsFile)
		}
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleRaceDay, "race-day", "", "race date (YYYY-MM-DD)")
	scheduleCmd.Flags().StringVar(&scheduleTrainingPlan, "training-plan", "", "plan identifier contained in workout names")
	scheduleCmd.Flags().StringVar(&scheduleWorkoutsFile, "workouts-file", "", "plan file to write the assigned dates back into")
	scheduleCmd.Flags().BoolVar(&scheduleReverseOrder, "reverse-order", false, "treat W01 as the week nearest the race")
	_ = scheduleCmd.MarkFlagRequired("race-day")
	_ = scheduleCmd.MarkFlagRequired("training-plan")
	rootCmd.AddCommand(scheduleCmd)
}

// planSessionName strips the plan identifier from a remote workout name,
// returning the schedulable W{nn}S{nn} remainder.
func planSessionName(remoteName, planID string) (string, bool) {
	if planID == "" {
		return remoteName, true
	}
	idx := strings.Index(remoteName, planID)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimLeft(remoteName[idx+len(planID):], " ")
	return rest, rest != ""
}
