// ABOUTME: Tests for CLI helper functions and command wiring.
// ABOUTME: Covers exit codes, name handling, date resolution and flags.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/garmin"
	"github.com/harperreed/trainer/internal/plan"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "usage error",
			err:  usagef("bad flag"),
			want: exitUsage,
		},
		{
			name: "wrapped usage error",
			err:  fmt.Errorf("context: %w", usagef("bad flag")),
			want: exitUsage,
		},
		{
			name: "auth error",
			err:  &garmin.AuthError{Message: "no token"},
			want: exitAuth,
		},
		{
			name: "not found",
			err:  &garmin.NotFoundError{Resource: "workout 42"},
			want: exitRemote,
		},
		{
			name: "rate limit",
			err:  &garmin.RateLimitError{Message: "slow down"},
			want: exitRemote,
		},
		{
			name: "transport",
			err:  &garmin.TransportError{Err: errors.New("connection reset")},
			want: exitRemote,
		},
		{
			name: "missing file",
			err:  &fs.PathError{Op: "open", Path: "plan.yml", Err: fs.ErrNotExist},
			want: exitLocalFile,
		},
		{
			name: "parse error",
			err:  &plan.ParseError{Spec: "7min @ z9", Message: "bad target"},
			want: exitLocalFile,
		},
		{
			name: "empty repeat",
			err:  &plan.EmptyRepeatError{},
			want: exitLocalFile,
		},
		{
			name: "validation error",
			err:  &config.ValidationError{Field: "race_day", Message: "bad date"},
			want: exitLocalFile,
		},
		{
			name: "plain error",
			err:  errors.New("something else"),
			want: exitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsArgumentError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "required flag",
			err:  errors.New(`required flag(s) "workouts-file" not set`),
			want: true,
		},
		{
			name: "unknown command",
			err:  errors.New(`unknown command "bogus" for "trainer"`),
			want: true,
		},
		{
			name: "unknown flag",
			err:  errors.New("unknown flag: --frobnicate"),
			want: true,
		},
		{
			name: "already classified",
			err:  usagef("bad flag"),
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection reset"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isArgumentError(tt.err); got != tt.want {
				t.Errorf("isArgumentError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRequiredFlagErrorExitsUsage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	rootCmd.SetArgs([]string{"import"})
	defer rootCmd.SetArgs(nil)

	err := Execute()
	if err == nil {
		t.Fatal("expected an error for import without --workouts-file")
	}
	if got := exitCode(err); got != exitUsage {
		t.Errorf("exitCode(%v) = %d, want %d", err, got, exitUsage)
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"DEBUG", "debug"},
		{"INFO", "info"},
		{"WARNING", "warn"},
		{"ERROR", "error"},
		{"CRITICAL", "fatal"},
		{"info", "info"},
	}

	for _, tt := range tests {
		if got := normalizeLevel(tt.input); got != tt.want {
			t.Errorf("normalizeLevel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPlanSessionName(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		planID string
		want   string
		ok     bool
	}{
		{
			name:   "prefix stripped",
			remote: "PLAN_ W01S01 Easy",
			planID: "PLAN_",
			want:   "W01S01 Easy",
			ok:     true,
		},
		{
			name:   "identifier in the middle",
			remote: "2025 PLAN_ W02S03",
			planID: "PLAN_",
			want:   "W02S03",
			ok:     true,
		},
		{
			name:   "no match",
			remote: "Morning jog",
			planID: "PLAN_",
			ok:     false,
		},
		{
			name:   "empty plan id matches everything",
			remote: "W01S01",
			planID: "",
			want:   "W01S01",
			ok:     true,
		},
		{
			name:   "nothing after identifier",
			remote: "PLAN_",
			planID: "PLAN_",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := planSessionName(tt.remote, tt.planID)
			if ok != tt.ok {
				t.Fatalf("planSessionName(%q, %q) ok = %v, want %v", tt.remote, tt.planID, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("planSessionName(%q, %q) = %q, want %q", tt.remote, tt.planID, got, tt.want)
			}
		})
	}
}

func TestResolveScheduleDate(t *testing.T) {
	d, err := resolveScheduleDate("")
	if err != nil || d != nil {
		t.Errorf("empty schedule: got %v, %v", d, err)
	}

	d, err = resolveScheduleDate("today")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	now := time.Now()
	if d.Year() != now.Year() || d.YearDay() != now.YearDay() {
		t.Errorf("today resolved to %v", d)
	}

	d, err = resolveScheduleDate("2025-06-15")
	if err != nil {
		t.Fatalf("explicit date: %v", err)
	}
	if d.Format("2006-01-02") != "2025-06-15" {
		t.Errorf("explicit date resolved to %v", d)
	}

	if _, err := resolveScheduleDate("someday"); err == nil {
		t.Error("expected error for bad schedule keyword")
	} else if exitCode(err) != exitUsage {
		t.Errorf("bad keyword should be a usage error, got %v", err)
	}
}

func TestResolveListRange(t *testing.T) {
	reset := func() {
		listStartDate = ""
		listEndDate = ""
		listDateRange = ""
	}

	t.Run("explicit range", func(t *testing.T) {
		reset()
		listStartDate = "2025-06-01"
		listEndDate = "2025-06-30"
		start, end, err := resolveListRange()
		if err != nil {
			t.Fatalf("resolveListRange: %v", err)
		}
		if start.Format("2006-01-02") != "2025-06-01" || end.Format("2006-01-02") != "2025-06-30" {
			t.Errorf("got %v..%v", start, end)
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		reset()
		listStartDate = "2025-06-30"
		listEndDate = "2025-06-01"
		if _, _, err := resolveListRange(); err == nil {
			t.Error("expected error for inverted range")
		}
	})

	t.Run("range and keyword are exclusive", func(t *testing.T) {
		reset()
		listStartDate = "2025-06-01"
		listDateRange = "today"
		_, _, err := resolveListRange()
		if err == nil {
			t.Fatal("expected error")
		}
		if exitCode(err) != exitUsage {
			t.Errorf("expected usage error, got %v", err)
		}
	})

	t.Run("current week starts monday", func(t *testing.T) {
		reset()
		start, end, err := resolveListRange()
		if err != nil {
			t.Fatalf("resolveListRange: %v", err)
		}
		if start.Weekday() != time.Monday {
			t.Errorf("week starts on %v, want Monday", start.Weekday())
		}
		if end.Sub(start) != 6*24*time.Hour {
			t.Errorf("week spans %v", end.Sub(start))
		}
	})

	t.Run("today is a single day", func(t *testing.T) {
		reset()
		listDateRange = "today"
		start, end, err := resolveListRange()
		if err != nil {
			t.Fatalf("resolveListRange: %v", err)
		}
		if !start.Equal(end) {
			t.Errorf("got %v..%v", start, end)
		}
	})

	t.Run("bad keyword", func(t *testing.T) {
		reset()
		listDateRange = "someday"
		if _, _, err := resolveListRange(); err == nil {
			t.Error("expected error for bad keyword")
		}
	})

	reset()
}

func TestCleanPlan(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &plan.Plan{
		Config: &config.Training{NamePrefix: "PLAN_ "},
		Workouts: []*plan.Workout{
			{Name: "PLAN_ W01S01 Easy", Date: &date},
			{Name: "Unprefixed", Date: &date},
		},
	}

	cleanPlan(p)

	if p.Workouts[0].Name != "W01S01 Easy" {
		t.Errorf("prefix not stripped: %q", p.Workouts[0].Name)
	}
	if p.Workouts[1].Name != "Unprefixed" {
		t.Errorf("unprefixed name changed: %q", p.Workouts[1].Name)
	}
	for _, w := range p.Workouts {
		if w.Date != nil {
			t.Errorf("date not cleared on %q", w.Name)
		}
	}
}

func TestCompileNameFilter(t *testing.T) {
	if re, err := compileNameFilter(""); err != nil || re != nil {
		t.Errorf("empty pattern: got %v, %v", re, err)
	}

	re, err := compileNameFilter("^W01")
	if err != nil {
		t.Fatalf("valid pattern: %v", err)
	}
	if !re.MatchString("W01S02") || re.MatchString("W02S01") {
		t.Error("compiled filter matches wrong names")
	}

	_, err = compileNameFilter("(unclosed")
	if err == nil {
		t.Fatal("expected error for bad regex")
	}
	if exitCode(err) != exitUsage {
		t.Errorf("bad regex should be a usage error, got %v", err)
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "trainer" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "trainer")
	}

	for _, flag := range []string{"dry-run", "oauth-folder", "treadmill", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent flag --%s", flag)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	expected := []string{
		"login", "import", "export", "delete",
		"schedule", "unschedule", "list", "fartlek", "mcp",
	}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("expected command %q to be registered", name)
		}
	}
}

func TestImportCmdFlags(t *testing.T) {
	for _, flag := range []string{"workouts-file", "name-filter", "replace"} {
		if importCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on import command", flag)
		}
	}
}

func TestExportCmdFlags(t *testing.T) {
	formatFlag := exportCmd.Flags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("expected --format flag on export command")
	}
	if formatFlag.DefValue != "YAML" {
		t.Errorf("expected default format YAML, got %s", formatFlag.DefValue)
	}

	for _, flag := range []string{"export-file", "clean", "name-filter"} {
		if exportCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on export command", flag)
		}
	}
}

func TestScheduleCmdFlags(t *testing.T) {
	for _, flag := range []string{"race-day", "training-plan", "workouts-file", "reverse-order"} {
		if scheduleCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on schedule command", flag)
		}
	}
}

func TestFartlekCmdFlags(t *testing.T) {
	for _, flag := range []string{"duration", "target-pace", "schedule", "seed"} {
		if fartlekCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on fartlek command", flag)
		}
	}
}
