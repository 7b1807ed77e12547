// ABOUTME: CLI command for compiling and uploading a plan.
// ABOUTME: Reconciles by name against the remote library with replace/skip.
package main

import (
	"fmt"
	"regexp"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/compiler"
	"github.com/harperreed/trainer/internal/sync"
)

var (
	importWorkoutsFile string
	importNameFilter   string
	importReplace      bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Compile a plan and upload it to the remote library",
	Long: `Compile the workouts of a plan file and upload them.

Workouts are matched against the remote library by name (with the
configured name prefix applied). Existing names are skipped unless
--replace is given; new names are added.

EXAMPLES:

  trainer import --workouts-file plan.yml
  trainer import --workouts-file plan.xlsx --replace
  trainer import --workouts-file plan.yml --name-filter '^W0[12]'
  trainer import --workouts-file plan.yml --treadmill --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := compileNameFilter(importNameFilter)
		if err != nil {
			return err
		}

		p, err := loadPlanFile(importWorkoutsFile)
		if err != nil {
			return err
		}
		rememberTraining(p, importWorkoutsFile)

		service, err := openRemote()
		if err != nil {
			return err
		}

		syncer := newSyncer(service)
		syncer.OnProgress = printProgress

		report, err := syncer.Upload(commandContext(cmd), p, sync.UploadOptions{
			Replace:    importReplace,
			NameFilter: filter,
			Compile:    compiler.Options{Treadmill: flagTreadmill},
		})
		printReport(report)
		return err
	},
}

func init() {
	importCmd.Flags().StringVar(&importWorkoutsFile, "workouts-file", "", "plan file to import (.yml or .xlsx)")
	importCmd.Flags().StringVar(&importNameFilter, "name-filter", "", "only import workouts matching this regex")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "overwrite remote workouts with the same name")
	_ = importCmd.MarkFlagRequired("workouts-file")
	rootCmd.AddCommand(importCmd)
}

func compileNameFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, usagef("bad --name-filter %q: %v", pattern, err)
	}
	return re, nil
}

func printProgress(current, total int, name string) {
	fmt.Printf("[%d/%d] %s\n", current, total, name)
}

func printReport(r *sync.Report) {
	if r == nil {
		return
	}
	color.Green("✓ %d imported, %d updated, %d skipped, %d deleted", r.Imported, r.Updated, r.Skipped, r.Deleted)
	if r.Errored > 0 {
		color.Red("✗ %d failed:", r.Errored)
		for _, e := range r.Errors {
			color.Red("  %s: %v", e.Name, e.Err)
		}
	}
}
