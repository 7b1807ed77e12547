// ABOUTME: CLI command for printing scheduled workouts.
// ABOUTME: Resolves date ranges and filters calendar entries by name.
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/garmin"
)

var (
	listStartDate  string
	listEndDate    string
	listDateRange  string
	listNameFilter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print scheduled workouts",
	Long: `Print workouts scheduled on the calendar.

The range is either explicit (--start-date/--end-date) or a keyword:
today, tomorrow, current-week, next-week, current-month. Weeks start on
Monday. Without any range flag the current week is shown.

EXAMPLES:

  trainer list
  trainer list --date-range next-week
  trainer list --start-date 2025-06-01 --end-date 2025-06-30
  trainer list --name-filter '^PLAN_ '`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := resolveListRange()
		if err != nil {
			return err
		}
		filter, err := compileNameFilter(listNameFilter)
		if err != nil {
			return err
		}

		service, err := openRemote()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		var items []garmin.CalendarItem
		cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		for !cursor.After(end) {
			cal, err := service.GetCalendar(ctx, cursor.Year(), int(cursor.Month()))
			if err != nil {
				return err
			}
			for _, item := range cal.CalendarItems {
				if item.ItemType != "workout" {
					continue
				}
				if item.Date < start.Format("2006-01-02") || item.Date > end.Format("2006-01-02") {
					continue
				}
				if filter != nil && !filter.MatchString(item.Title) {
					continue
				}
				items = append(items, item)
			}
			cursor = cursor.AddDate(0, 1, 0)
		}

		if len(items) == 0 {
			fmt.Printf("no workouts scheduled between %s and %s\n",
				start.Format("2006-01-02"), end.Format("2006-01-02"))
			return nil
		}

		sort.Slice(items, func(i, j int) bool { return items[i].Date < items[j].Date })
		bold := color.New(color.Bold).SprintFunc()
		for _, item := range items {
			fmt.Printf("%s  %s (workout %d, schedule %d)\n",
				bold(item.Date), item.Title, item.WorkoutID, item.ID)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStartDate, "start-date", "", "range start (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listEndDate, "end-date", "", "range end (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listDateRange, "date-range", "", "today, tomorrow, current-week, next-week or current-month")
	listCmd.Flags().StringVar(&listNameFilter, "name-filter", "", "only show entries matching this regex")
	rootCmd.AddCommand(listCmd)
}

func resolveListRange() (time.Time, time.Time, error) {
	if listDateRange != "" && (listStartDate != "" || listEndDate != "") {
		return time.Time{}, time.Time{}, usagef("--date-range and explicit dates are mutually exclusive")
	}

	if listStartDate != "" || listEndDate != "" {
		start, err := parseListDate(listStartDate, "--start-date")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := parseListDate(listEndDate, "--end-date")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if listStartDate == "" {
			start = today()
		}
		if listEndDate == "" {
			end = start.AddDate(0, 1, 0)
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, usagef("--end-date precedes --start-date")
		}
		return start, end, nil
	}

	now := today()
	monday := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	switch listDateRange {
	case "today":
		return now, now, nil
	case "tomorrow":
		t := now.AddDate(0, 0, 1)
		return t, t, nil
	case "", "current-week":
		return monday, monday.AddDate(0, 0, 6), nil
	case "next-week":
		return monday.AddDate(0, 0, 7), monday.AddDate(0, 0, 13), nil
	case "current-month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1), nil
	default:
		return time.Time{}, time.Time{}, usagef("bad --date-range %q", listDateRange)
	}
}

func parseListDate(s, flag string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, usagef("bad %s %q, want YYYY-MM-DD", flag, s)
	}
	return t, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
