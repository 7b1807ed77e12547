// ABOUTME: Root Cobra command for the trainer CLI.
// ABOUTME: Holds the global flags and the shared service plumbing.
package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/garmin"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/state"
	"github.com/harperreed/trainer/internal/sync"
	"github.com/harperreed/trainer/internal/workbook"
)

var (
	flagDryRun      bool
	flagOAuthFolder string
	flagTreadmill   bool
	flagLogLevel    string

	appConfig *config.App
)

var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "Author, compile and sync structured workouts",
	Long: `Trainer turns plan files into structured workouts on your training
service: it compiles a small step language into the service's wire JSON,
keeps the remote library in sync with the local plan, and places sessions
on the calendar working backwards from race day.

QUICK START:

  $ trainer login --token-file token.json   # Persist service credentials
  $ trainer import --workouts-file plan.yml # Compile and upload a plan
  $ trainer schedule --race-day 2025-06-15 --training-plan PLAN_
  $ trainer list --date-range current-week  # See what is on the calendar

PLAN FILES:

  Plans are YAML (or .xlsx workbooks) with a config block and named
  workouts. Workout names following W01S01, W01S02, ... are schedulable.

GLOBAL FLAGS:

  --dry-run        Print intended remote operations without performing them
  --oauth-folder   Directory holding the oauth token store
  --treadmill      Convert paced distance steps to time for treadmill use
  --log-level      DEBUG, INFO, WARNING, ERROR or CRITICAL`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(logging.Params{LogLevel: normalizeLevel(flagLogLevel)})

		var err error
		appConfig, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if appConfig.LogFile != "" {
			logging.Setup(logging.Params{
				LogFileName: appConfig.LogFile,
				LogToStderr: true,
				LogLevel:    normalizeLevel(flagLogLevel),
			})
		}
		return nil
	},
}

// Execute runs the root command. Cobra reports missing required flags and
// unknown commands as plain errors outside the flag-error func; they are
// invalid arguments all the same.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && isArgumentError(err) {
		return &usageError{err: err}
	}
	return err
}

func isArgumentError(err error) bool {
	var usage *usageError
	if errors.As(err, &usage) {
		return false
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "required flag(s)") ||
		strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") ||
		strings.HasPrefix(msg, "accepts ")
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "print remote operations without performing them")
	rootCmd.PersistentFlags().StringVar(&flagOAuthFolder, "oauth-folder", "", "directory holding the oauth token store")
	rootCmd.PersistentFlags().BoolVar(&flagTreadmill, "treadmill", false, "convert paced distance steps to time")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "INFO", "DEBUG, INFO, WARNING, ERROR or CRITICAL")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
}

// normalizeLevel maps the documented level names onto logrus levels.
func normalizeLevel(level string) string {
	switch strings.ToUpper(level) {
	case "WARNING":
		return "warn"
	case "CRITICAL":
		return "fatal"
	default:
		return strings.ToLower(level)
	}
}

func oauthFolder() string {
	if flagOAuthFolder != "" {
		return config.ExpandPath(flagOAuthFolder)
	}
	return appConfig.GetOAuthFolder()
}

// newService builds the authenticated remote service.
func newService() (*garmin.Service, error) {
	store, err := garmin.LoadTokenStore(oauthFolder())
	if err != nil {
		return nil, err
	}
	return garmin.NewService(garmin.NewClient(store)), nil
}

// remoteService is the surface commands use; the dry-run decorator swaps in
// for mutations.
type remoteService interface {
	sync.Service
	ScheduleWorkout(ctx context.Context, id int64, date time.Time) (int64, error)
	UnscheduleWorkout(ctx context.Context, scheduleID int64) error
	GetCalendar(ctx context.Context, year, month int) (*garmin.CalendarMonth, error)
}

// openRemote builds the remote service, honouring --dry-run.
func openRemote() (remoteService, error) {
	real, err := newService()
	if err != nil {
		return nil, err
	}
	if flagDryRun {
		return &dryService{real: real}, nil
	}
	return real, nil
}

var (
	appState     *state.Store
	appStateOnce bool
)

// openState opens the local catalogue cache once per run. The cache is best
// effort; a locked or corrupt store only loses caching and nil is returned.
func openState() *state.Store {
	if appStateOnce {
		return appState
	}
	appStateOnce = true
	stateDir := filepath.Join(filepath.Dir(config.GetConfigPath()), "state")
	store, err := state.Open(stateDir)
	if err != nil {
		log.Debugf("state store unavailable: %v", err)
		return nil
	}
	appState = store
	cobra.OnFinalize(func() { _ = store.Close() })
	return appState
}

// newSyncer wires a syncer over the service with the catalogue cache.
func newSyncer(service sync.Service) *sync.Syncer {
	var cache sync.Catalogue
	if store := openState(); store != nil {
		cache = store
		if ts, err := store.LastSync(); err == nil && !ts.IsZero() {
			log.Debugf("catalogue cache last refreshed %s", ts.Format(time.RFC3339))
		}
	}
	return sync.New(service, cache)
}

// loadPlanFile reads a plan from YAML or, for .xlsx paths, a workbook.
func loadPlanFile(path string) (*plan.Plan, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return workbook.Read(path)
	}
	return plan.LoadFile(path)
}

// savePlanFile writes a plan back in the format its extension implies.
func savePlanFile(path string, p *plan.Plan) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return workbook.Write(p, path)
	}
	return plan.SaveFile(path, p)
}

// rememberTraining persists the plan's authoring configuration for commands
// that run without a plan file.
func rememberTraining(p *plan.Plan, planPath string) {
	if flagDryRun || p.Config == nil {
		return
	}
	appConfig.SetTraining(p.Config)
	appConfig.RememberPlan(planPath)
	if err := appConfig.Save(); err != nil {
		log.Warnf("could not persist configuration: %v", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
