// ABOUTME: CLI command for clearing calendar placements of a plan.
// ABOUTME: Walks calendar months and removes matching workout entries.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	unscheduleTrainingPlan string
	unscheduleStartDate    string
)

// unscheduleMonths bounds how far ahead the calendar walk looks.
const unscheduleMonths = 13

var unscheduleCmd = &cobra.Command{
	Use:   "unschedule",
	Short: "Remove a training plan's calendar entries",
	Long: `Remove calendar entries whose titles contain the training plan
identifier, scanning from the start date (default today) up to a year
ahead. The workouts themselves stay in the remote library.

EXAMPLES:

  trainer unschedule --training-plan PLAN_
  trainer unschedule --training-plan PLAN_ --start-date 2025-05-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		if unscheduleStartDate != "" {
			var err error
			start, err = time.Parse("2006-01-02", unscheduleStartDate)
			if err != nil {
				return usagef("bad --start-date %q, want YYYY-MM-DD", unscheduleStartDate)
			}
		}
		startDay := start.Format("2006-01-02")

		service, err := openRemote()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		removed := 0
		cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < unscheduleMonths; i++ {
			cal, err := service.GetCalendar(ctx, cursor.Year(), int(cursor.Month()))
			if err != nil {
				return err
			}
			for _, item := range cal.CalendarItems {
				if item.ItemType != "workout" {
					continue
				}
				if !strings.Contains(item.Title, unscheduleTrainingPlan) {
					continue
				}
				if item.Date < startDay {
					continue
				}
				if err := service.UnscheduleWorkout(ctx, item.ID); err != nil {
					return err
				}
				fmt.Printf("%s  %s\n", item.Date, item.Title)
				removed++
			}
			cursor = cursor.AddDate(0, 1, 0)
		}

		color.Green("✓ removed %d calendar entries", removed)
		return nil
	},
}

func init() {
	unscheduleCmd.Flags().StringVar(&unscheduleTrainingPlan, "training-plan", "", "plan identifier contained in entry titles")
	unscheduleCmd.Flags().StringVar(&unscheduleStartDate, "start-date", "", "only remove entries on or after this date")
	_ = unscheduleCmd.MarkFlagRequired("training-plan")
	rootCmd.AddCommand(unscheduleCmd)
}
