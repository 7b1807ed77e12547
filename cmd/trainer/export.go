// ABOUTME: CLI command for downloading remote workouts.
// ABOUTME: Writes wire JSON or a decompiled YAML plan, optionally cleaned.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/compiler"
	"github.com/harperreed/trainer/internal/plan"
)

var (
	exportFile       string
	exportFormat     string
	exportClean      bool
	exportNameFilter string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download remote workouts to a file",
	Long: `Download workouts from the remote library.

FORMATS:

  YAML   Decompiled plan file, editable and re-importable (default)
  JSON   Raw wire JSON array, suitable for inspection and backup

--clean strips the configured name prefix and any schedule dates so the
exported plan can serve as a fresh template.

EXAMPLES:

  trainer export --export-file library.yml
  trainer export --format JSON --export-file library.json
  trainer export --name-filter '^PLAN_ ' --clean --export-file plan.yml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToUpper(exportFormat)
		if format != "JSON" && format != "YAML" {
			return usagef("bad --format %q, want JSON or YAML", exportFormat)
		}
		filter, err := compileNameFilter(exportNameFilter)
		if err != nil {
			return err
		}

		service, err := openRemote()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		syncer := newSyncer(service)
		syncer.OnProgress = printProgress

		if format == "JSON" {
			remote, err := syncer.MatchRemote(ctx, filter)
			if err != nil {
				return err
			}
			var wires []*compiler.WireWorkout
			for _, r := range remote {
				ww, err := service.GetWorkout(ctx, r.WorkoutID)
				if err != nil {
					return err
				}
				wires = append(wires, ww)
			}
			data, err := json.MarshalIndent(wires, "", "  ")
			if err != nil {
				return err
			}
			return writeExport(data)
		}

		cfg, err := appConfig.GetTraining()
		if err != nil {
			return err
		}
		p := &plan.Plan{Config: cfg}
		report, err := syncer.Download(ctx, p, filter)
		if err != nil {
			return err
		}
		if exportClean {
			cleanPlan(p)
		}
		printReport(report)

		if exportFile == "" {
			data, err := plan.Save(p)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		}
		return plan.SaveFile(exportFile, p)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFile, "export-file", "", "destination file (stdout when omitted)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "YAML", "JSON or YAML")
	exportCmd.Flags().BoolVar(&exportClean, "clean", false, "strip name prefix and schedule dates")
	exportCmd.Flags().StringVar(&exportNameFilter, "name-filter", "", "only export workouts matching this regex")
	rootCmd.AddCommand(exportCmd)
}

func writeExport(data []byte) error {
	if exportFile == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportFile, data, 0644); err != nil {
		return err
	}
	color.Green("✓ wrote %s", exportFile)
	return nil
}

// cleanPlan strips the name prefix and schedule dates so the export reads
// as a reusable template.
func cleanPlan(p *plan.Plan) {
	prefix := ""
	if p.Config != nil {
		prefix = p.Config.NamePrefix
	}
	for _, w := range p.Workouts {
		if prefix != "" {
			w.Name = strings.TrimPrefix(w.Name, prefix)
		}
		w.Date = nil
	}
}
