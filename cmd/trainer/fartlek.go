// ABOUTME: CLI command for generating a randomised fartlek workout.
// ABOUTME: Compiles the result, uploads it and optionally schedules it.
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/compiler"
	"github.com/harperreed/trainer/internal/fartlek"
	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/units"
)

var (
	fartlekDuration   string
	fartlekTargetPace string
	fartlekSchedule   string
	fartlekSeed       int64
)

var fartlekCmd = &cobra.Command{
	Use:   "fartlek",
	Short: "Generate and upload a randomised fartlek",
	Long: `Generate a fartlek workout that alternates randomised hard and easy
segments around a target pace, bracketed by a warmup and a cooldown.

The workout is uploaded to the remote library and can be placed on the
calendar in one go. Passing --seed makes the segment pattern
reproducible.

EXAMPLES:

  trainer fartlek --duration 45:00 --target-pace 5:00
  trainer fartlek --duration 60:00 --target-pace 4:45 --schedule tomorrow
  trainer fartlek --duration 45:00 --target-pace 5:00 --seed 42 --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		total, err := units.ParseDuration(fartlekDuration)
		if err != nil {
			return usagef("bad --duration %q, want mm:ss", fartlekDuration)
		}
		pace, err := units.ParseDuration(fartlekTargetPace)
		if err != nil {
			return usagef("bad --target-pace %q, want mm:ss", fartlekTargetPace)
		}
		date, err := resolveScheduleDate(fartlekSchedule)
		if err != nil {
			return err
		}

		seed := fartlekSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		w, err := fartlek.Generate(fartlek.Params{
			Total:      total,
			TargetPace: pace,
			Date:       date,
		}, rand.New(rand.NewSource(seed)))
		if err != nil {
			return err
		}

		fmt.Printf("%s\n\n%s\n", w.Name, plan.FormatText(w.Steps))

		cfg, err := appConfig.GetTraining()
		if err != nil {
			return err
		}
		ww, err := compiler.Compile(w, cfg, compiler.Options{Treadmill: flagTreadmill})
		if err != nil {
			return err
		}

		service, err := openRemote()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		id, err := service.AddWorkout(ctx, ww)
		if err != nil {
			return err
		}
		color.Green("✓ uploaded %q (workout %d)", w.Name, id)

		if date != nil {
			if _, err := service.ScheduleWorkout(ctx, id, *date); err != nil {
				return err
			}
			color.Green("✓ scheduled for %s", date.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	fartlekCmd.Flags().StringVar(&fartlekDuration, "duration", "", "total duration (mm:ss)")
	fartlekCmd.Flags().StringVar(&fartlekTargetPace, "target-pace", "", "reference pace per km (mm:ss)")
	fartlekCmd.Flags().StringVar(&fartlekSchedule, "schedule", "", "today, tomorrow or YYYY-MM-DD")
	fartlekCmd.Flags().Int64Var(&fartlekSeed, "seed", 0, "random seed for a reproducible workout")
	_ = fartlekCmd.MarkFlagRequired("duration")
	_ = fartlekCmd.MarkFlagRequired("target-pace")
	rootCmd.AddCommand(fartlekCmd)
}

func resolveScheduleDate(s string) (*time.Time, error) {
	switch s {
	case "":
		return nil, nil
	case "today":
		d := today()
		return &d, nil
	case "tomorrow":
		d := today().AddDate(0, 0, 1)
		return &d, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, usagef("bad --schedule %q, want today, tomorrow or YYYY-MM-DD", s)
	}
	return &d, nil
}
