// ABOUTME: CLI command for removing remote workouts.
// ABOUTME: Selects by explicit ids or by a name regex.
package main

import (
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/garmin"
)

var (
	deleteWorkoutIDs []int64
	deleteNameFilter string
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove workouts from the remote library",
	Long: `Remove workouts from the remote library.

Select either explicit workout ids or all workouts whose names match a
regex. Per-item failures (for example an already-deleted id) are reported
at the end without aborting the batch.

EXAMPLES:

  trainer delete --workout-ids 111,222
  trainer delete --name-filter '^PLAN_ '
  trainer delete --name-filter '^PLAN_ ' --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(deleteWorkoutIDs) == 0 && deleteNameFilter == "" {
			return usagef("need --workout-ids or --name-filter")
		}
		if len(deleteWorkoutIDs) > 0 && deleteNameFilter != "" {
			return usagef("--workout-ids and --name-filter are mutually exclusive")
		}

		service, err := openRemote()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		syncer := newSyncer(service)
		syncer.OnProgress = printProgress

		ids := deleteWorkoutIDs
		names := map[int64]string{}
		if len(ids) > 0 {
			// Best-effort id-to-name resolution from the local catalogue
			// cache so progress lines read better than bare ids.
			if store := openState(); store != nil {
				if catalogue, err := store.Catalogue(); err == nil {
					for name, id := range catalogue {
						names[id] = name
					}
				}
			}
		}
		if deleteNameFilter != "" {
			filter, err := compileNameFilter(deleteNameFilter)
			if err != nil {
				return err
			}
			var matched []garmin.WorkoutSummary
			matched, err = syncer.MatchRemote(ctx, filter)
			if err != nil {
				return err
			}
			ids = nil
			for _, r := range matched {
				ids = append(ids, r.WorkoutID)
				names[r.WorkoutID] = r.WorkoutName
			}
		}

		report, err := syncer.Delete(ctx, ids, names)
		printReport(report)
		return err
	},
}

func init() {
	deleteCmd.Flags().Int64SliceVar(&deleteWorkoutIDs, "workout-ids", nil, "comma-separated workout ids")
	deleteCmd.Flags().StringVar(&deleteNameFilter, "name-filter", "", "delete workouts matching this regex")
	rootCmd.AddCommand(deleteCmd)
}
